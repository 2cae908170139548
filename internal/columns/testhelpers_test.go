package columns

import (
	"rnacolumns/pkg/domain"
)

type fakeRow struct {
	feature domain.Feature
	weights map[int]float64
}

func (r fakeRow) Feature() domain.Feature { return r.feature }

func (r fakeRow) Weight(col int) (float64, bool) {
	w, ok := r.weights[col]
	return w, ok
}

type fakeCatalog struct {
	samples []domain.Sample
}

func newFakeCatalog(names ...string) *fakeCatalog {
	c := &fakeCatalog{}
	for _, n := range names {
		c.samples = append(c.samples, domain.NewSample(n))
	}
	return c
}

func (c *fakeCatalog) ColumnIndex(name string) (int, bool) {
	for i, s := range c.samples {
		if s.Name == name {
			return i, true
		}
	}
	return 0, false
}

func (c *fakeCatalog) SampleAt(col int) domain.Sample { return c.samples[col] }

func (c *fakeCatalog) SampleNames() []string {
	out := make([]string, len(c.samples))
	for i, s := range c.samples {
		out[i] = s.Name
	}
	return out
}

func tokenStrings(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = string(t)
	}
	return out
}
