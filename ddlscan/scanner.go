package ddlscan

import (
	"iter"
	"regexp"
)

// RawTable is one table definition statement located in the source text
type RawTable struct {
	Name     string // name token as written, not normalized
	Body     string // text between the defining parentheses
	Trailing string // clause between the closing parenthesis and ';'
	Offset   int    // byte offset of the statement in the source text
}

// StatementScanner locates table definition statements in a source text.
// Implementations must return a sequence that can be ranged over repeatedly.
type StatementScanner interface {
	Scan(text string) iter.Seq[RawTable]
}

// createTableRe matches CREATE TABLE statements. The body is greedy but
// cannot cross a ';', so it ends at the last ')' before the first delimiter.
var createTableRe = regexp.MustCompile(`(?is)\bCREATE\s+(?:(?:GLOBAL|LOCAL)\s+)?(?:(?:TEMPORARY|TEMP)\s+)?TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?([^\s(;]+)\s*\(([^;]*)\)([^;)]*);`)

// RegexpScanner is the default tolerant scanner. It does not understand SQL
// grammar; a ';' inside a table body ends the statement early.
type RegexpScanner struct{}

// NewRegexpScanner creates the default statement scanner
func NewRegexpScanner() *RegexpScanner {
	return &RegexpScanner{}
}

// Scan returns a lazy sequence of table statements
func (s *RegexpScanner) Scan(text string) iter.Seq[RawTable] {
	return func(yield func(RawTable) bool) {
		pos := 0
		for pos < len(text) {
			loc := createTableRe.FindStringSubmatchIndex(text[pos:])
			if loc == nil {
				return
			}

			raw := RawTable{
				Name:     text[pos+loc[2] : pos+loc[3]],
				Body:     text[pos+loc[4] : pos+loc[5]],
				Trailing: text[pos+loc[6] : pos+loc[7]],
				Offset:   pos + loc[0],
			}
			if !yield(raw) {
				return
			}

			pos += loc[1]
		}
	}
}
