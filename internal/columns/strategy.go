package columns

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"rnacolumns/pkg/domain"
)

// Strategy selects how a primary/secondary sample selection expands into new
// column tokens.
type Strategy int

const (
	// StrategySingle adds one column per primary sample.
	StrategySingle Strategy = iota
	// StrategyTime1 iterates through every time point of the primary sample.
	StrategyTime1
	// StrategyTimes pairs primary and secondary samples at shared time points.
	StrategyTimes
	// StrategyAll adds one simple column per catalog sample.
	StrategyAll
)

// DefaultTimeFragment is the position of the time point in an
// underscore-delimited sample name.
const DefaultTimeFragment = 8

// timePattern matches time values such as "9", "12" or "4p5".
const timePattern = "([0-9p]+)"

var strategyNames = map[Strategy]string{
	StrategySingle: "SINGLE",
	StrategyTime1:  "TIME1",
	StrategyTimes:  "TIMES",
	StrategyAll:    "ALL",
}

// Strategies lists the strategies in presentation order.
func Strategies(opts Options) []Strategy {
	out := []Strategy{StrategyTime1, StrategyTimes, StrategySingle}
	if opts.AllowAll {
		out = append(out, StrategyAll)
	}
	return out
}

// ParseStrategy resolves a strategy selector such as "TIME1". Matching ignores
// case. An empty selector selects StrategySingle.
func ParseStrategy(s string) (Strategy, error) {
	if strings.TrimSpace(s) == "" {
		return StrategySingle, nil
	}
	for strategy, name := range strategyNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return strategy, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", domain.ErrUnknownStrategy, s)
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// Description is the form label for the strategy.
func (s Strategy) Description() string {
	switch s {
	case StrategySingle:
		return "add one column"
	case StrategyTime1:
		return "iterate through all times for Primary"
	case StrategyTimes:
		return "compare same times for Primary over Optional"
	case StrategyAll:
		return "show all samples"
	default:
		return ""
	}
}

// RequiresPrimary reports whether the strategy needs at least one primary
// sample. Callers substitute NoColumn instead of expanding when it is missing.
func (s Strategy) RequiresPrimary() bool { return s != StrategyAll }

// Options tunes strategy expansion.
type Options struct {
	// TimeFragment is the zero-based fragment holding the time point.
	TimeFragment int
	// AllowAll enables StrategyAll.
	AllowAll bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{TimeFragment: DefaultTimeFragment}
}

// Selection is the sample input of one strategy expansion.
type Selection struct {
	Primary   []string
	Secondary string
	// Samples is every sample name in the catalog, in catalog order.
	Samples []string
}

// Expand produces the tokens a strategy adds for the selection. User-input
// problems are reported as *domain.ConfigError. An unrecognized strategy
// yields an error wrapping domain.ErrUnknownStrategy.
func Expand(strategy Strategy, sel Selection, opts Options) ([]Token, error) {
	switch strategy {
	case StrategySingle:
		return expandSingle(sel), nil
	case StrategyTime1:
		return expandTime1(sel, opts)
	case StrategyTimes:
		return expandTimes(sel, opts)
	case StrategyAll:
		if !opts.AllowAll {
			return nil, domain.NewConfigError("all", "the ALL column mode is disabled")
		}
		return expandAll(sel), nil
	default:
		return nil, fmt.Errorf("%w: %d", domain.ErrUnknownStrategy, int(strategy))
	}
}

func expandSingle(sel Selection) []Token {
	out := make([]Token, 0, len(sel.Primary))
	for _, p := range sel.Primary {
		out = append(out, NewToken(p, sel.Secondary))
	}
	return out
}

func expandTime1(sel Selection, opts Options) ([]Token, error) {
	primary, err := onlyPrimary("time1", sel)
	if err != nil {
		return nil, err
	}
	times, err := TimeSeries(primary, sel.Samples, opts.TimeFragment)
	if err != nil {
		return nil, err
	}
	out := make([]Token, 0, len(times))
	for _, tp := range times {
		if tp.Sample == sel.Secondary {
			continue
		}
		out = append(out, NewToken(tp.Sample, sel.Secondary))
	}
	return out, nil
}

func expandTimes(sel Selection, opts Options) ([]Token, error) {
	primary, err := onlyPrimary("times", sel)
	if err != nil {
		return nil, err
	}
	if sel.Secondary == "" || sel.Secondary == BaselineMarker {
		return nil, domain.NewConfigError("times", "cannot use time-series comparison mode without a second sample ID")
	}
	primaryTimes, err := TimeSeries(primary, sel.Samples, opts.TimeFragment)
	if err != nil {
		return nil, err
	}
	secondaryTimes, err := TimeSeries(sel.Secondary, sel.Samples, opts.TimeFragment)
	if err != nil {
		return nil, err
	}
	byTime := make(map[string]string, len(secondaryTimes))
	for _, tp := range secondaryTimes {
		byTime[tp.Time] = tp.Sample
	}
	var out []Token
	for _, tp := range primaryTimes {
		if other, ok := byTime[tp.Time]; ok {
			out = append(out, NewToken(tp.Sample, other))
		}
	}
	if len(out) == 0 {
		return nil, domain.NewConfigError("times", "%s and %s have no time points in common", primary, sel.Secondary)
	}
	return out, nil
}

func expandAll(sel Selection) []Token {
	out := make([]Token, 0, len(sel.Samples))
	for _, s := range sel.Samples {
		out = append(out, NewToken(s, ""))
	}
	return out
}

func onlyPrimary(op string, sel Selection) (string, error) {
	if len(sel.Primary) != 1 {
		return "", domain.NewConfigError(op, "only one primary sample can be specified for this column-creation mode")
	}
	return sel.Primary[0], nil
}

// TimePoint is one member of a sample's time series.
type TimePoint struct {
	Time   string
	Sample string
}

// TimeSeries finds every sample that matches name in all fragments except the
// time fragment, ordered naturally by time value. When several samples share
// a time value the last one in catalog order wins.
func TimeSeries(name string, samples []string, timeFragment int) ([]TimePoint, error) {
	parts := fragments(name)
	if timeFragment < 0 || timeFragment >= len(parts) {
		return nil, domain.NewConfigError("time series", "sample %s has no time fragment at position %d", name, timeFragment)
	}
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = regexp.QuoteMeta(p)
	}
	quoted[timeFragment] = timePattern
	re, err := regexp.Compile("^" + strings.Join(quoted, "_") + "$")
	if err != nil {
		return nil, fmt.Errorf("compile time pattern for %s: %w", name, err)
	}
	byTime := make(map[string]string)
	for _, s := range samples {
		if m := re.FindStringSubmatch(s); m != nil {
			byTime[m[1]] = s
		}
	}
	out := make([]TimePoint, 0, len(byTime))
	for tm, s := range byTime {
		out = append(out, TimePoint{Time: tm, Sample: s})
	}
	slices.SortFunc(out, func(a, b TimePoint) int { return CompareNatural(a.Time, b.Time) })
	return out, nil
}

// fragments splits a sample name on underscores, ignoring empty fragments.
func fragments(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool { return r == '_' })
}
