// Package plotting renders the report's figures as PNG files.
package plotting

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"examscore/pkg/data"
	"examscore/pkg/profile"
)

var (
	barColor     = color.RGBA{R: 76, G: 114, B: 176, A: 255}
	scatterColor = color.RGBA{R: 50, G: 50, B: 255, A: 255}
)

// Renderer writes plots into Dir.
type Renderer struct {
	Dir    string
	Width  vg.Length
	Height vg.Length
	Bins   int

	// Written lists every file saved so far.
	Written []string
}

// NewRenderer creates dir if needed and returns a 10x6 inch renderer.
func NewRenderer(dir string) (*Renderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create plots dir: %w", err)
	}
	return &Renderer{Dir: dir, Width: 10 * vg.Inch, Height: 6 * vg.Inch, Bins: 30}, nil
}

func (r *Renderer) save(p *plot.Plot, name string, w, h vg.Length) (string, error) {
	path := filepath.Join(r.Dir, slug(name)+".png")
	if err := p.Save(w, h, path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	r.Written = append(r.Written, path)
	log.Debug().Str("file", path).Msg("plot saved")
	return path, nil
}

// Histogram renders the distribution of a numeric column.
func (r *Renderer) Histogram(col *data.Column) (string, error) {
	vals := plotter.Values(col.Present())
	if len(vals) == 0 {
		return "", data.NewColumnError("histogram", col.Name, data.ErrInvalidInput)
	}
	p := plot.New()
	p.Title.Text = "Distribution of " + col.Name
	p.X.Label.Text = col.Name
	p.Y.Label.Text = "Frequency"
	h, err := plotter.NewHist(vals, r.Bins)
	if err != nil {
		return "", fmt.Errorf("histogram %s: %w", col.Name, err)
	}
	h.FillColor = barColor
	p.Add(h)
	return r.save(p, "hist_"+col.Name, r.Width, r.Height)
}

// CountPlot renders category frequencies, most frequent first.
func (r *Renderer) CountPlot(column string, counts []profile.ValueCount) (string, error) {
	if len(counts) == 0 {
		return "", data.NewColumnError("countplot", column, data.ErrEmptyColumn)
	}
	vals := make(plotter.Values, len(counts))
	labels := make([]string, len(counts))
	for i, c := range counts {
		vals[i] = float64(c.Count)
		labels[i] = c.Value
	}
	p := plot.New()
	p.Title.Text = "Distribution of " + column
	p.X.Label.Text = column
	p.Y.Label.Text = "Frequency"
	bars, err := plotter.NewBarChart(vals, vg.Points(30))
	if err != nil {
		return "", fmt.Errorf("countplot %s: %w", column, err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	return r.save(p, "count_"+column, r.Width, r.Height)
}

// BoxPlot renders the spread of a numeric column.
func (r *Renderer) BoxPlot(col *data.Column) (string, error) {
	vals := plotter.Values(col.Present())
	if len(vals) == 0 {
		return "", data.NewColumnError("boxplot", col.Name, data.ErrInvalidInput)
	}
	p := plot.New()
	p.Title.Text = "Boxplot of " + col.Name
	box, err := plotter.NewBoxPlot(vg.Points(60), 0, vals)
	if err != nil {
		return "", fmt.Errorf("boxplot %s: %w", col.Name, err)
	}
	box.FillColor = barColor
	p.Add(box)
	p.NominalX(col.Name)
	return r.save(p, "box_"+col.Name, r.Width, r.Height)
}

// Scatter renders y against x over rows where both are present.
func (r *Renderer) Scatter(x, y *data.Column) (string, error) {
	pts := make(plotter.XYs, 0, len(x.Num))
	for i := range x.Num {
		if math.IsNaN(x.Num[i]) || math.IsNaN(y.Num[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: x.Num[i], Y: y.Num[i]})
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs %s", y.Name, x.Name)
	p.X.Label.Text = x.Name
	p.Y.Label.Text = y.Name
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return "", fmt.Errorf("scatter %s/%s: %w", x.Name, y.Name, err)
	}
	s.Color = scatterColor
	s.Shape = draw.CircleGlyph{}
	s.Radius = vg.Points(1.5)
	p.Add(s)
	return r.save(p, "scatter_"+x.Name+"_"+y.Name, r.Width, r.Height)
}

// corrGrid adapts a correlation matrix to plotter.GridXYZ. Undefined
// correlations are drawn as 0.
type corrGrid struct{ m profile.CorrMatrix }

func (g corrGrid) Dims() (c, r int)   { return len(g.m.Columns), len(g.m.Columns) }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }
func (g corrGrid) Z(c, r int) float64 { return finite(g.m.Values[r][c]) }

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Heatmap renders a correlation matrix on a diverging blue-red scale with
// each cell annotated.
func (r *Renderer) Heatmap(m profile.CorrMatrix, title string) (string, error) {
	n := len(m.Columns)
	if n == 0 {
		return "", fmt.Errorf("heatmap: %w: no numeric columns", data.ErrInvalidInput)
	}
	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)
	hm := plotter.NewHeatMap(corrGrid{m}, cmap.Palette(255))
	hm.Min, hm.Max = -1, 1

	p := plot.New()
	p.Title.Text = title
	p.Add(hm)

	labels := plotter.XYLabels{}
	for row := range n {
		for c := range n {
			labels.XYs = append(labels.XYs, plotter.XY{X: float64(c), Y: float64(row)})
			labels.Labels = append(labels.Labels, fmt.Sprintf("%.2f", finite(m.Values[row][c])))
		}
	}
	l, err := plotter.NewLabels(labels)
	if err != nil {
		return "", fmt.Errorf("heatmap labels: %w", err)
	}
	for i := range l.TextStyle {
		l.TextStyle[i].Font.Size = vg.Points(6)
		l.TextStyle[i].XAlign = draw.XCenter
		l.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(l)
	p.NominalX(m.Columns...)
	p.NominalY(m.Columns...)
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = draw.XRight
	side := vg.Length(max(n, 10)) * vg.Inch / 2
	return r.save(p, "heatmap", side, side)
}

func slug(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, s)
}
