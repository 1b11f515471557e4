package pipeline

import (
	"fmt"

	"examscore/pkg/data"
)

// Schema names the role each column plays in the analysis.
type Schema struct {
	Target  string
	Impute  []string // categorical columns filled with their mode
	Ordinal []string // label-encoded columns
	Nominal []string // one-hot expanded columns
}

// Required returns every column the schema references, deduplicated.
func (s Schema) Required() []string {
	seen := map[string]bool{}
	var out []string
	add := func(names ...string) {
		for _, n := range names {
			if n != "" && !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	add(s.Target)
	add(s.Impute...)
	add(s.Ordinal...)
	add(s.Nominal...)
	return out
}

// Validate checks that every referenced column exists and that the target
// is numeric.
func (s Schema) Validate(t *data.Table) error {
	if s.Target == "" {
		return fmt.Errorf("schema: %w: no target column", data.ErrSchemaMismatch)
	}
	for _, n := range s.Required() {
		if _, err := t.Column(n); err != nil {
			return err
		}
	}
	_, err := t.ColumnOf(s.Target, data.Numeric)
	return err
}
