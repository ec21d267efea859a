package ddlscan

import (
	"regexp"
	"strings"

	"github.com/shibukawa/erdump"
)

var (
	constraintTokenRe  = regexp.MustCompile(`(?i)\bCONSTRAINT\b`)
	constraintNameRe   = regexp.MustCompile(`(?i)\bCONSTRAINT\s+([^\s(]+)`)
	constraintLeadRe   = regexp.MustCompile(`(?i)^(?:PRIMARY\s+KEY|FOREIGN\s+KEY|UNIQUE|CHECK)\b`)
	primaryKeyListRe   = regexp.MustCompile(`(?i)PRIMARY\s+KEY\s*\(([^)]*)\)`)
	foreignKeyRe       = regexp.MustCompile(`(?is)FOREIGN\s+KEY\s*\(([^)]*)\)\s*REFERENCES\s+([^\s(]+)\s*\(([^)]*)\)`)
	uniqueListRe       = regexp.MustCompile(`(?i)\bUNIQUE\s*(?:KEY\s*|INDEX\s*)?(?:[^\s(]+\s*)?\(([^)]*)\)`)
	checkRe            = regexp.MustCompile(`(?is)\bCHECK\s*\(`)
	columnReferencesRe = regexp.MustCompile(`(?is)\bREFERENCES\s+([^\s(]+)\s*\(([^)]*)\)`)
	primaryKeyRe       = regexp.MustCompile(`(?i)PRIMARY\s+KEY`)
	notNullRe          = regexp.MustCompile(`(?i)NOT\s+NULL`)
	rawTypeRe          = regexp.MustCompile(`^[A-Za-z_][\w$]*(?:\s*\([^)]*\))?`)
	digitsParenRe      = regexp.MustCompile(`^\d+\)`)
)

// fragment names that show the splitter captured something other than a column
var rejectedColumnNames = map[string]bool{
	"PARTITION": true,
	"PRIMARY":   true,
	"KEY":       true,
}

// ParsedBody is the result of parsing one table body
type ParsedBody struct {
	Columns       []erdump.Column
	PrimaryKeys   [][]string // table level PRIMARY KEY (...) lists, in order
	Constraints   []erdump.Constraint
	Relationships []erdump.Relationship // From is left empty; the builder fills it
	Skipped       []string              // members that produced nothing
}

// SplitMembers splits a table body on top-level commas. A comma is top-level
// when the count of '(' minus ')' seen so far is exactly zero.
func SplitMembers(body string) []string {
	var (
		members []string
		current strings.Builder
		depth   int
	)

	for _, r := range body {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				members = append(members, strings.TrimSpace(current.String()))
				current.Reset()

				continue
			}
		}

		current.WriteRune(r)
	}

	if rest := strings.TrimSpace(current.String()); rest != "" || len(members) > 0 {
		members = append(members, rest)
	}

	return members
}

// IsConstraintMember reports whether a member is an inline constraint
// rather than a column definition.
func IsConstraintMember(member string) bool {
	return constraintTokenRe.MatchString(member) || constraintLeadRe.MatchString(strings.TrimSpace(member))
}

// ParseMembers splits and classifies a table body. Table level primary keys
// are folded into the column flags.
func ParseMembers(body string) ParsedBody {
	var parsed ParsedBody

	for _, member := range SplitMembers(body) {
		if member == "" {
			continue
		}

		if IsConstraintMember(member) {
			if !parsed.addConstraint(member) {
				parsed.Skipped = append(parsed.Skipped, member)
			}

			continue
		}

		column, ok := ParseColumn(member)
		if !ok {
			parsed.Skipped = append(parsed.Skipped, member)
			continue
		}

		parsed.Columns = append(parsed.Columns, column)

		if rel, ok := columnReference(member, column.Name); ok {
			parsed.Relationships = append(parsed.Relationships, rel)
		}
	}

	parsed.foldPrimaryKeys()

	return parsed
}

// addConstraint records what it can recognize and reports whether anything was emitted
func (p *ParsedBody) addConstraint(member string) bool {
	name := ""
	if m := constraintNameRe.FindStringSubmatch(member); m != nil {
		name = NormalizeName(m[1])
	}

	if m := primaryKeyListRe.FindStringSubmatch(member); m != nil {
		if keys := normalizeList(m[1]); len(keys) > 0 {
			p.PrimaryKeys = append(p.PrimaryKeys, keys)
			return true
		}
	}

	if m := foreignKeyRe.FindStringSubmatch(member); m != nil {
		from := normalizeList(m[1])
		to := NormalizeName(m[2])
		toColumns := normalizeList(m[3])

		if len(from) == 0 || to == "" || len(toColumns) == 0 {
			return false
		}

		p.Relationships = append(p.Relationships, erdump.Relationship{
			Name:        name,
			FromColumns: from,
			To:          to,
			ToColumns:   toColumns,
			Origin:      erdump.OriginInline,
		})
		p.Constraints = append(p.Constraints, erdump.Constraint{
			Name:              name,
			Kind:              erdump.ConstraintForeignKey,
			Columns:           from,
			ReferencedTable:   to,
			ReferencedColumns: toColumns,
			Definition:        member,
		})

		return true
	}

	if m := uniqueListRe.FindStringSubmatch(member); m != nil {
		if columns := normalizeList(m[1]); len(columns) > 0 {
			p.Constraints = append(p.Constraints, erdump.Constraint{
				Name:       name,
				Kind:       erdump.ConstraintUnique,
				Columns:    columns,
				Definition: member,
			})

			return true
		}
	}

	if checkRe.MatchString(member) {
		p.Constraints = append(p.Constraints, erdump.Constraint{
			Name:       name,
			Kind:       erdump.ConstraintCheck,
			Definition: member,
		})

		return true
	}

	return false
}

func (p *ParsedBody) foldPrimaryKeys() {
	for _, keys := range p.PrimaryKeys {
		for _, key := range keys {
			for i := range p.Columns {
				if p.Columns[i].Name == key {
					p.Columns[i].IsPrimaryKey = true
					p.Columns[i].IsNotNull = false
				}
			}
		}
	}
}

// ParseColumn parses a column definition member. It reports false when the
// member is a fragment that cannot be a column.
func ParseColumn(member string) (erdump.Column, bool) {
	member = strings.TrimSpace(member)

	fields := strings.Fields(member)
	if len(fields) == 0 {
		return erdump.Column{}, false
	}

	rawName := fields[0]
	name := NormalizeName(rawName)

	switch {
	case name == "":
		return erdump.Column{}, false
	case strings.Contains(rawName, ")"):
		return erdump.Column{}, false
	case digitsParenRe.MatchString(rawName):
		return erdump.Column{}, false
	case rejectedColumnNames[strings.ToUpper(rawName)]:
		return erdump.Column{}, false
	}

	rawType := ""
	typeWord := ""

	if len(fields) > 1 {
		typeWord, _, _ = strings.Cut(fields[1], "(")
		rest := strings.TrimSpace(member[len(rawName):])
		rawType = strings.TrimSpace(rawTypeRe.FindString(rest))
	}

	isPrimaryKey := primaryKeyRe.MatchString(member)

	return erdump.Column{
		Name:         name,
		Type:         ClassifyType(typeWord),
		RawType:      rawType,
		IsPrimaryKey: isPrimaryKey,
		IsNotNull:    !isPrimaryKey && notNullRe.MatchString(member),
	}, true
}

// columnReference extracts a column level "REFERENCES target(cols)" clause
func columnReference(member, column string) (erdump.Relationship, bool) {
	m := columnReferencesRe.FindStringSubmatch(member)
	if m == nil {
		return erdump.Relationship{}, false
	}

	to := NormalizeName(m[1])
	toColumns := normalizeList(m[2])

	if to == "" || len(toColumns) == 0 {
		return erdump.Relationship{}, false
	}

	return erdump.Relationship{
		FromColumns: []string{column},
		To:          to,
		ToColumns:   toColumns,
		Origin:      erdump.OriginInline,
	}, true
}
