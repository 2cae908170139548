// Package columns holds the column-configuration engine: the flat string form
// of a user's column list and sort choice, the column variants resolved from
// it, and the strategies that expand sample selections into new columns.
//
// Everything in this package is a pure function of its inputs. Persistence,
// logging and rendering live in the callers.
package columns

import (
	"strconv"
	"strings"
)

const (
	// SortSeparator separates the column list from the sort index.
	SortSeparator = "|"
	// ColumnSeparator separates column tokens.
	ColumnSeparator = ";"
	// SampleSeparator separates the primary and secondary sample of a token.
	SampleSeparator = ","
	// BaselineMarker in the secondary position selects a baseline-ratio column.
	BaselineMarker = "baseline"
)

// NoColumn is the placeholder token submitted when no sample was chosen. Adding
// it only clears the sort marker.
const NoColumn Token = SampleSeparator

// Token is the textual form of one column, "primary[,secondary]". It is kept
// as the original text so re-encoding reproduces persisted bytes exactly.
type Token string

// NewToken joins a primary and secondary sample into a token. An empty
// secondary yields a simple-column token such as "SampleA,".
func NewToken(primary, secondary string) Token {
	return Token(primary + SampleSeparator + secondary)
}

// Primary returns the numerator (or only) sample name.
func (t Token) Primary() string {
	primary, _, _ := strings.Cut(string(t), SampleSeparator)
	return primary
}

// Secondary returns the denominator sample name, the baseline marker, or "".
func (t Token) Secondary() string {
	_, secondary, _ := strings.Cut(string(t), SampleSeparator)
	return secondary
}

// IsNone reports whether the token denotes "no column".
func (t Token) IsNone() bool { return t.Primary() == "" }

// Kind reports which column variant the token describes.
func (t Token) Kind() Kind {
	switch t.Secondary() {
	case "":
		return KindSimple
	case BaselineMarker:
		return KindBaseline
	default:
		return KindDifferential
	}
}

// Label renders the token for configuration listings: "A", "A/B" or "A/baseline".
func (t Token) Label() string {
	s := strings.TrimSuffix(string(t), SampleSeparator)
	return strings.ReplaceAll(s, SampleSeparator, "/")
}

// Configuration is the decoded form of a persisted column configuration.
// A configuration that never recorded a sort choice has SortIndex 0.
type Configuration struct {
	Tokens    []Token
	SortIndex int
}

// Decode parses a persisted configuration string. It never fails: a missing
// or malformed sort segment yields index 0, and empty tokens are skipped.
func Decode(raw string) Configuration {
	columnPart, sortPart, _ := splitSort(raw)
	cfg := Configuration{Tokens: splitTokens(columnPart)}
	if sortPart != "" {
		if idx, err := strconv.Atoi(sortPart); err == nil {
			cfg.SortIndex = idx
		}
	}
	return cfg
}

// Encode renders tokens and sort index in the persisted grammar. The sort
// segment is always written so the next Decode sees the same index.
func Encode(tokens []Token, sortIndex int) string {
	return joinTokens(tokens) + SortSeparator + strconv.Itoa(sortIndex)
}

// Encode renders the configuration in the persisted grammar.
func (c Configuration) Encode() string { return Encode(c.Tokens, c.SortIndex) }

// Len returns the number of column tokens.
func (c Configuration) Len() int { return len(c.Tokens) }

// WithToken returns a copy of the configuration with t appended, applying the
// same rules as AddToken. The sort index is carried over unchanged.
func (c Configuration) WithToken(t Token) Configuration {
	out := Configuration{Tokens: appendToken(cloneTokens(c.Tokens), t), SortIndex: c.SortIndex}
	return out
}

// WithoutToken returns a copy with the token at index removed. The boolean is
// false, and the configuration unchanged, when index is out of range.
func (c Configuration) WithoutToken(index int) (Configuration, bool) {
	if index < 0 || index >= len(c.Tokens) {
		return c, false
	}
	tokens := make([]Token, 0, len(c.Tokens)-1)
	tokens = append(tokens, c.Tokens[:index]...)
	tokens = append(tokens, c.Tokens[index+1:]...)
	return Configuration{Tokens: tokens, SortIndex: c.SortIndex}, true
}

// AddToken appends a column token to a persisted string. The result never
// carries a sort segment: adding a column invalidates the previous sort choice.
// A "no column" token only strips the sort segment, and a token equal to the
// current last token is ignored.
func AddToken(raw string, t Token) string {
	columnPart, _, _ := splitSort(raw)
	tokens := splitTokens(columnPart)
	if t.IsNone() {
		return joinTokens(tokens)
	}
	return joinTokens(appendToken(tokens, t))
}

// DeleteToken removes the token at index from a persisted string, keeping any
// sort segment as it was. Out-of-range indexes return raw unchanged.
func DeleteToken(raw string, index int) string {
	columnPart, sortPart, hasSort := splitSort(raw)
	tokens := splitTokens(columnPart)
	if index < 0 || index >= len(tokens) {
		return raw
	}
	tokens = append(tokens[:index:index], tokens[index+1:]...)
	out := joinTokens(tokens)
	if hasSort {
		out += SortSeparator + sortPart
	}
	return out
}

// TokenCount returns the number of column tokens in a persisted string.
func TokenCount(raw string) int {
	columnPart, _, _ := splitSort(raw)
	return len(splitTokens(columnPart))
}

// RenumberSort computes the sort index that remains valid after the column at
// deleted is removed. It must be given the pre-deletion index space.
func RenumberSort(sortIndex, deleted int) int {
	switch {
	case sortIndex < deleted:
		return sortIndex
	case sortIndex == deleted:
		return 0
	default:
		return sortIndex - 1
	}
}

// DisplaySortIndex maps a stored sort index onto the columns actually
// resolved. Anything outside [0, count) selects location order (-1).
func DisplaySortIndex(sortIndex, count int) int {
	if sortIndex < 0 || sortIndex >= count {
		return -1
	}
	return sortIndex
}

func appendToken(tokens []Token, t Token) []Token {
	if t.IsNone() {
		return tokens
	}
	if n := len(tokens); n > 0 && tokens[n-1] == t {
		return tokens
	}
	return append(tokens, t)
}

func splitSort(raw string) (columnPart, sortPart string, hasSort bool) {
	idx := strings.LastIndex(raw, SortSeparator)
	if idx < 0 {
		return raw, "", false
	}
	return raw[:idx], raw[idx+len(SortSeparator):], true
}

func splitTokens(columnPart string) []Token {
	if columnPart == "" {
		return nil
	}
	parts := strings.Split(columnPart, ColumnSeparator)
	tokens := make([]Token, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		tokens = append(tokens, Token(p))
	}
	return tokens
}

func joinTokens(tokens []Token) string {
	var b strings.Builder
	for i, t := range tokens {
		if i > 0 {
			b.WriteString(ColumnSeparator)
		}
		b.WriteString(string(t))
	}
	return b.String()
}

func cloneTokens(in []Token) []Token {
	if in == nil {
		return nil
	}
	out := make([]Token, len(in), len(in)+1)
	copy(out, in)
	return out
}
