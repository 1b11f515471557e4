package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"examscore/pkg/data"
)

// Stage is one table-to-table transformation.
type Stage interface {
	Name() string
	Apply(t *data.Table) (*data.Table, error)
}

// Pipeline chains stages; each stage sees the output of the previous one.
type Pipeline struct {
	steps []Stage
}

func NewPipeline(steps ...Stage) *Pipeline {
	return &Pipeline{steps: steps}
}

// Steps returns the configured stages.
func (p *Pipeline) Steps() []Stage { return p.steps }

// Run applies every stage in order. The first failure aborts the run.
func (p *Pipeline) Run(ctx context.Context, t *data.Table) (*data.Table, error) {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		out, err := step.Apply(t)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
		log.Debug().
			Str("stage", step.Name()).
			Str("table", out.Name).
			Int("rows", out.Rows()).
			Int("cols", out.Width()).
			Dur("took", time.Since(start)).
			Msg("stage complete")
		t = out
	}
	return t, nil
}
