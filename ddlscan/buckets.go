package ddlscan

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	tableStatementRe = regexp.MustCompile(`(?is)\bCREATE\s+(?:(?:GLOBAL|LOCAL)\s+)?(?:(?:TEMPORARY|TEMP)\s+)?TABLE\b[^;]*;`)
	indexStatementRe = regexp.MustCompile(`(?is)\bCREATE\s+(?:UNIQUE\s+|BITMAP\s+)?INDEX\b[^;]*;`)
	alterStatementRe = regexp.MustCompile(`(?is)\bALTER\s+TABLE\b[^;]*;`)
	addConstraintRe  = regexp.MustCompile(`(?is)\bADD\s+CONSTRAINT\b`)
)

// Buckets holds statement text captured verbatim, grouped by statement kind
type Buckets struct {
	Tables      []string
	Indexes     []string
	Alters      []string // ALTER TABLE statements that do not add a constraint
	Constraints []string // ALTER TABLE ... ADD CONSTRAINT statements
}

// StatementFormatter pretty prints a single statement
type StatementFormatter interface {
	Format(sql string) (string, error)
}

// FlattenOptions controls Buckets.Flatten
type FlattenOptions struct {
	// Formatter, when set, is applied to table statements. Statements it
	// fails on are emitted unchanged.
	Formatter StatementFormatter
}

// ExtractBuckets captures table, index, alter and constraint statements
func ExtractBuckets(text string) Buckets {
	var b Buckets

	b.Tables = collapse(tableStatementRe.FindAllString(text, -1))
	b.Indexes = collapse(indexStatementRe.FindAllString(text, -1))

	for _, stmt := range collapse(alterStatementRe.FindAllString(text, -1)) {
		if addConstraintRe.MatchString(stmt) {
			b.Constraints = append(b.Constraints, stmt)
		} else {
			b.Alters = append(b.Alters, stmt)
		}
	}

	return b
}

// Len returns the total number of captured statements
func (b Buckets) Len() int {
	return len(b.Tables) + len(b.Indexes) + len(b.Alters) + len(b.Constraints)
}

// Flatten re-serializes the buckets grouped by kind: tables, indexes,
// alters, constraints. Empty groups are omitted.
func (b Buckets) Flatten(opts FlattenOptions) string {
	var sb strings.Builder

	groups := []struct {
		title      string
		statements []string
		format     bool
	}{
		{"Tables", b.Tables, true},
		{"Indexes", b.Indexes, false},
		{"Alter statements", b.Alters, false},
		{"Constraints", b.Constraints, false},
	}

	for _, group := range groups {
		if len(group.statements) == 0 {
			continue
		}

		if sb.Len() > 0 {
			sb.WriteString("\n")
		}

		fmt.Fprintf(&sb, "-- %s (%d)\n", group.title, len(group.statements))

		for _, stmt := range group.statements {
			if group.format && opts.Formatter != nil {
				if formatted, err := opts.Formatter.Format(stmt); err == nil {
					stmt = formatted
				}
			}

			sb.WriteString(stmt)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// collapse trims statements and collapses internal whitespace runs
func collapse(statements []string) []string {
	result := make([]string, 0, len(statements))
	for _, stmt := range statements {
		result = append(result, strings.Join(strings.Fields(stmt), " "))
	}

	return result
}
