package core

import (
	"context"
	"fmt"
	"strconv"

	"rnacolumns/internal/columns"
	"rnacolumns/internal/table"
	"rnacolumns/pkg/domain"
)

// Request is one column-page submission.
type Request struct {
	Workspace     string
	Configuration string
	Primary       []string
	Secondary     string
	Strategy      columns.Strategy
	// DeleteIndex is the column to remove, or -1.
	DeleteIndex int
	// SortIndex is an explicit sort column, or -1 to keep the stored one.
	SortIndex int
	Reset     bool
	// Raw selects the alternate catalog when one is configured.
	Raw       bool
	Qualifier columns.Qualifier
	Filter    columns.RowFilter
	Limits    columns.RangeLimits
	Order     columns.FeatureOrder
}

// NewRequest returns a request for workspace that adds, deletes and sorts nothing.
func NewRequest(workspace string) Request {
	return Request{
		Workspace:   workspace,
		DeleteIndex: -1,
		SortIndex:   -1,
		Qualifier:   columns.QualifyRatio,
		Filter:      columns.ShowAll,
	}
}

// Outcome is the result of applying a Request.
type Outcome struct {
	// Configuration is the stored name of the configuration that was updated.
	Configuration string
	// Stored is the configuration string written back to the store.
	Stored string
	// Added is the number of tokens the strategy produced.
	Added int
	// Dropped counts stored tokens that no longer resolve.
	Dropped int
	Columns []columns.Column
	Table   table.Table
}

// Apply decodes the stored configuration, adds the strategy's columns,
// applies any delete, settles the sort index, persists the re-encoded
// string and builds the table.
func (s *Service) Apply(ctx context.Context, req Request) (out Outcome, err error) {
	ctx, done := s.instrument(ctx, "apply")
	defer done(&err)

	data, err := s.catalogFor(req.Raw)
	if err != nil {
		return Outcome{}, err
	}
	jar, err := jarFor(req.Workspace)
	if err != nil {
		return Outcome{}, err
	}
	name, err := configName(req.Configuration)
	if err != nil {
		return Outcome{}, err
	}
	annotate(ctx, "workspace", req.Workspace, "configuration", name, "strategy", req.Strategy.String())
	primary, err := validateSamples(data, req.Primary, req.Secondary)
	if err != nil {
		return Outcome{}, err
	}
	key := columns.ConfigKey(name)

	var cfg columns.Configuration
	if !req.Reset {
		stored, _, err := s.store.Get(ctx, jar, key)
		if err != nil {
			return Outcome{}, fmt.Errorf("load configuration %s: %w", name, err)
		}
		cfg = columns.Decode(stored)
	}
	storedSort := cfg.SortIndex

	added := 0
	if len(primary) > 0 || !req.Strategy.RequiresPrimary() {
		tokens, err := columns.Expand(req.Strategy, columns.Selection{
			Primary:   primary,
			Secondary: req.Secondary,
			Samples:   data.SampleNames(),
		}, s.opts)
		if err != nil {
			return Outcome{}, err
		}
		for _, t := range tokens {
			cfg = cfg.WithToken(t)
		}
		added = len(tokens)
	}

	sortIndex := req.SortIndex
	if req.DeleteIndex >= 0 {
		var deleted bool
		cfg, deleted = cfg.WithoutToken(req.DeleteIndex)
		if deleted && sortIndex < 0 {
			sortIndex = columns.RenumberSort(storedSort, req.DeleteIndex)
		}
	}
	if sortIndex < 0 {
		sortIndex = storedSort
	}
	if sortIndex < 0 || sortIndex >= cfg.Len() {
		sortIndex = 0
	}
	cfg.SortIndex = sortIndex

	encoded := cfg.Encode()
	if err := s.store.Put(ctx, jar, key, encoded); err != nil {
		return Outcome{}, fmt.Errorf("save configuration %s: %w", name, err)
	}

	cols := cfg.Columns(data)
	dropped := cfg.Len() - len(cols)
	if dropped > 0 {
		s.logger.DebugContext(ctx, "dropped unresolvable column tokens",
			"configuration", name, "dropped", dropped, "request_id", RequestIDFrom(ctx))
	}
	tbl := table.Build(cols, data.Rows(), table.Options{
		SortIndex: sortIndex,
		Qualifier: req.Qualifier,
		Filter:    req.Filter,
		Limits:    req.Limits,
		Order:     req.Order,
	})
	annotate(ctx, "stored", encoded, "columns", strconv.Itoa(len(cols)), "rows", strconv.Itoa(len(tbl.Rows)))
	if rec, ok := s.metrics.(ColumnsRecorder); ok {
		rec.ObserveColumns(ctx, req.Strategy.String(), added, dropped)
	}
	s.logger.InfoContext(ctx, "columns applied",
		"workspace", req.Workspace,
		"configuration", name,
		"added", added,
		"columns", len(cols),
		"sort", tbl.SortIndex,
		"request_id", RequestIDFrom(ctx))

	return Outcome{
		Configuration: name,
		Stored:        encoded,
		Added:         added,
		Dropped:       dropped,
		Columns:       cols,
		Table:         tbl,
	}, nil
}

// validateSamples checks submitted names against the catalog and returns the
// non-empty primaries.
func validateSamples(data domain.SampleCatalog, primary []string, secondary string) ([]string, error) {
	out := make([]string, 0, len(primary))
	for _, p := range primary {
		if p == "" {
			continue
		}
		if _, ok := data.ColumnIndex(p); !ok {
			return nil, unknownSample(p)
		}
		out = append(out, p)
	}
	if secondary != "" && secondary != columns.BaselineMarker {
		if _, ok := data.ColumnIndex(secondary); !ok {
			return nil, unknownSample(secondary)
		}
	}
	return out, nil
}

func unknownSample(name string) error {
	cause := domain.ErrUnknownSample{Name: name}
	return &domain.ConfigError{Op: "columns", Message: cause.Error() + ".", Err: cause}
}
