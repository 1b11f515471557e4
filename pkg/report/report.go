// Package report runs the full analysis: profiling, cleaning, encoding and
// model comparison over the raw and the clean table.
package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"examscore/pkg/config"
	"examscore/pkg/data"
	"examscore/pkg/dataprep"
	"examscore/pkg/loader"
	"examscore/pkg/model"
	"examscore/pkg/pipeline"
	"examscore/pkg/plotting"
	"examscore/pkg/profile"
)

// Options controls one report run.
type Options struct {
	Schema    pipeline.Schema
	Delimiter rune
	HeadRows  int
	TestRatio float64
	Roster    model.RosterParams
	// SharedEncoding fits the encoder on the raw table only.
	SharedEncoding bool
	// PlotsDir receives the PNG figures; empty disables plotting.
	PlotsDir string
	Scatter  [][2]string
}

// DefaultOptions mirrors config.Default without plots.
func DefaultOptions() Options {
	o, _ := OptionsFromConfig(config.Default())
	o.PlotsDir = ""
	return o
}

// OptionsFromConfig translates the loaded configuration.
func OptionsFromConfig(c *config.Config) (Options, error) {
	if err := c.Validate(); err != nil {
		return Options{}, err
	}
	delim, _ := c.Input.DelimiterRune()
	pairs, _ := c.Plots.ScatterPairs()
	o := Options{
		Schema: pipeline.Schema{
			Target:  c.Columns.Target,
			Impute:  c.Columns.Impute,
			Ordinal: c.Columns.Ordinal,
			Nominal: c.Columns.Nominal,
		},
		Delimiter: delim,
		HeadRows:  c.HeadRows,
		TestRatio: c.Model.TestRatio,
		Roster: model.RosterParams{
			RidgeAlpha: c.Model.RidgeAlpha,
			LassoAlpha: c.Model.LassoAlpha,
			Trees:      c.Model.ForestTrees,
			Seed:       c.Model.Seed,
			StackFolds: c.Model.StackFolds,
		},
		SharedEncoding: c.Encoding.SharedUniverse,
		Scatter:        pairs,
	}
	if c.Plots.Enabled {
		o.PlotsDir = c.Plots.Dir
	}
	return o, nil
}

// Variant is one prepared table and its evaluation.
type Variant struct {
	Table    *data.Table // encoded
	Features []string
	Results  []model.Result
}

// Outcome collects what a run produced.
type Outcome struct {
	RunID  string
	Raw    Variant
	Clean  Variant
	Fills  map[string]string
	Fences dataprep.FenceSet
	// OnlyRaw and OnlyClean list encoded columns present in one variant only.
	OnlyRaw, OnlyClean []string
	Plots              []string
}

// Report writes the textual analysis to W.
type Report struct {
	Options
	W io.Writer

	runID  string
	logger zerolog.Logger
	plots  *plotting.Renderer
}

// New returns a report writing to w with a fresh run id.
func New(w io.Writer, opt Options) *Report {
	id := uuid.NewString()
	return &Report{
		Options: opt,
		W:       w,
		runID:   id,
		logger:  log.With().Str("run", id).Logger(),
	}
}

// RunID identifies this run in the header and in log lines.
func (r *Report) RunID() string { return r.runID }

func (r *Report) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.W, format, args...)
}

func (r *Report) header(path, title string) {
	r.printf("%s\nrun: %s\ninput: %s\n", title, r.runID, path)
}

// Load reads and validates the input table.
func (r *Report) Load(path string) (*data.Table, error) {
	t, err := data.LoadCSV(path, data.LoadOptions{Delimiter: r.Delimiter, Required: r.Schema.Required()})
	if err != nil {
		return nil, err
	}
	if err := r.Schema.Validate(t); err != nil {
		return nil, err
	}
	r.logger.Info().Str("path", path).Int("rows", t.Rows()).Int("cols", t.Width()).Msg("table loaded")
	return t, nil
}

func (r *Report) renderer() (*plotting.Renderer, error) {
	if r.PlotsDir == "" {
		return nil, nil
	}
	if r.plots == nil {
		p, err := plotting.NewRenderer(r.PlotsDir)
		if err != nil {
			return nil, err
		}
		r.plots = p
	}
	return r.plots, nil
}

func (r *Report) writtenPlots() []string {
	if r.plots == nil {
		return nil
	}
	return r.plots.Written
}

// Run executes every stage on the file at path.
func (r *Report) Run(ctx context.Context, path string) (*Outcome, error) {
	start := time.Now()
	r.header(path, "Student performance report")
	raw, err := r.Load(path)
	if err != nil {
		return nil, err
	}
	if err := r.profile(raw); err != nil {
		return nil, err
	}
	out, err := r.prepare(ctx, raw, true)
	if err != nil {
		return nil, err
	}
	if err := r.correlations(out.Raw.Table); err != nil {
		return nil, err
	}
	if err := r.evaluate(ctx, out); err != nil {
		return nil, err
	}
	out.Plots = r.writtenPlots()
	if len(out.Plots) > 0 {
		r.printf("\n%d plots written to %s\n", len(out.Plots), r.PlotsDir)
	}
	r.logger.Info().Dur("took", time.Since(start)).Msg("report complete")
	return out, nil
}

// Profile prints the descriptive part of the report only.
func (r *Report) Profile(_ context.Context, path string) (*data.Table, error) {
	r.header(path, "Student performance profile")
	raw, err := r.Load(path)
	if err != nil {
		return nil, err
	}
	if err := r.profile(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Evaluate cleans, encodes and compares the models without profiling.
func (r *Report) Evaluate(ctx context.Context, path string) (*Outcome, error) {
	r.header(path, "Student performance model comparison")
	raw, err := r.Load(path)
	if err != nil {
		return nil, err
	}
	out, err := r.prepare(ctx, raw, false)
	if err != nil {
		return nil, err
	}
	if err := r.evaluate(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Report) profile(t *data.Table) error {
	section(r.W, "Head")
	renderHead(r.W, t, r.HeadRows)
	section(r.W, "Info")
	renderInfo(r.W, t)
	section(r.W, "Describe")
	renderDescribe(r.W, profile.DescribeTable(t))
	section(r.W, "Quantitative analysis")
	renderQuantitative(r.W, profile.AnalyzeQuantitative(t))
	section(r.W, "Categorical analysis")
	cats := profile.AnalyzeCategorical(t)
	renderCategorical(r.W, cats)

	p, err := r.renderer()
	if err != nil || p == nil {
		return err
	}
	for _, c := range t.Columns() {
		if c.Kind == data.Numeric {
			if _, err := p.Histogram(c); err != nil {
				return err
			}
		}
	}
	for _, cs := range cats {
		if _, err := p.CountPlot(cs.Column, cs.Counts); err != nil {
			return err
		}
	}
	for _, pair := range r.Scatter {
		x, err := t.ColumnOf(pair[0], data.Numeric)
		if err != nil {
			return err
		}
		y, err := t.ColumnOf(pair[1], data.Numeric)
		if err != nil {
			return err
		}
		if _, err := p.Scatter(x, y); err != nil {
			return err
		}
	}
	for _, c := range t.Columns() {
		if c.Kind == data.Numeric {
			if _, err := p.BoxPlot(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// prepare imputes, clips and encodes. Imputation runs before the clean
// copy is taken, so both variants are imputed; only the clean one is
// clipped.
func (r *Report) prepare(ctx context.Context, raw *data.Table, verbose bool) (*Outcome, error) {
	out := &Outcome{RunID: r.runID}

	imputer := dataprep.NewModeImputer(r.Schema.Impute...)
	imputed, err := pipeline.NewPipeline(imputer).Run(ctx, raw)
	if err != nil {
		return nil, err
	}
	out.Fills = imputer.Fills

	clipper := &dataprep.Clipper{Output: "clean"}
	clean, err := pipeline.NewPipeline(clipper).Run(ctx, imputed)
	if err != nil {
		return nil, err
	}
	out.Fences = clipper.Fences

	section(r.W, "Null treatment")
	for _, c := range r.Schema.Impute {
		r.printf("%s: missing filled with %q\n", c, out.Fills[c])
	}
	renderInfo(r.W, imputed)

	section(r.W, "Outlier fences (1.5 x IQR)")
	renderFences(r.W, out.Fences)
	if verbose {
		section(r.W, "Describe before clipping")
		renderDescribe(r.W, profile.DescribeTable(imputed))
		section(r.W, "Describe after clipping")
		renderDescribe(r.W, profile.DescribeTable(clean))
		section(r.W, "Unique values")
		renderUnique(r.W, profile.UniqueValues(imputed))
	}

	enc := dataprep.NewEncoder(r.Schema.Ordinal, r.Schema.Nominal)
	enc.Shared = r.SharedEncoding
	encode := pipeline.NewPipeline(enc)
	encRaw, err := encode.Run(ctx, imputed)
	if err != nil {
		return nil, fmt.Errorf("raw table: %w", err)
	}
	encClean, err := encode.Run(ctx, clean)
	if err != nil {
		return nil, fmt.Errorf("clean table: %w", err)
	}
	out.Raw.Table, out.Clean.Table = encRaw, encClean

	out.OnlyRaw, out.OnlyClean = dataprep.ColumnDiff(encRaw, encClean)
	if len(out.OnlyRaw)+len(out.OnlyClean) > 0 {
		r.logger.Warn().
			Strs("only_raw", out.OnlyRaw).
			Strs("only_clean", out.OnlyClean).
			Msg("encoded column sets differ between raw and clean tables")
		r.printf("\nWarning: encoded column sets differ (raw only: %s; clean only: %s)\n",
			strings.Join(out.OnlyRaw, ", "), strings.Join(out.OnlyClean, ", "))
	}
	if verbose {
		section(r.W, "Unique values after encoding")
		renderUnique(r.W, profile.UniqueValues(encRaw))
	}
	return out, nil
}

func (r *Report) correlations(encoded *data.Table) error {
	m := profile.Correlations(encoded)
	section(r.W, "Correlation with "+r.Schema.Target)
	if pcs, ok := m.WithTarget(r.Schema.Target); ok {
		renderTargetCorr(r.W, r.Schema.Target, pcs)
	}
	p, err := r.renderer()
	if err != nil || p == nil {
		return err
	}
	_, err = p.Heatmap(m, "Correlation matrix")
	return err
}

func (r *Report) evaluate(ctx context.Context, out *Outcome) error {
	variants := []struct {
		label string
		v     *Variant
	}{
		{"raw", &out.Raw},
		{"clean", &out.Clean},
	}
	roster := model.Roster(r.Roster)
	for _, vt := range variants {
		X, y, features, err := vt.v.Table.Matrix(r.Schema.Target)
		if err != nil {
			return fmt.Errorf("%s table: %w", vt.label, err)
		}
		split, err := loader.TrainTestSplit(X, y, r.TestRatio, r.Roster.Seed)
		if err != nil {
			return fmt.Errorf("%s table: %w", vt.label, err)
		}
		results, err := model.Evaluate(ctx, split, roster)
		if err != nil {
			return fmt.Errorf("%s table: %w", vt.label, err)
		}
		vt.v.Features, vt.v.Results = features, results

		section(r.W, fmt.Sprintf("Model comparison (%s data)", vt.label))
		r.printf("train rows: %d, test rows: %d, features: %d\n", len(split.TrainIdx), len(split.TestIdx), len(features))
		r.printf("features: %s\n", strings.Join(features, ", "))
		renderResults(r.W, results)
		r.logger.Info().
			Str("variant", vt.label).
			Str("best", results[0].Model).
			Float64("r2", results[0].R2).
			Msg("models evaluated")
	}
	return nil
}
