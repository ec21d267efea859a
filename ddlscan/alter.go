package ddlscan

import (
	"regexp"

	"github.com/shibukawa/erdump"
)

// alterForeignKeyRe matches out-of-line foreign keys. \s also matches newlines,
// so statements spread over several lines are captured.
var alterForeignKeyRe = regexp.MustCompile(`(?is)\bALTER\s+TABLE\s+(?:ONLY\s+)?([^\s(;]+)\s+ADD\s+(?:CONSTRAINT\s+([^\s(;]+)\s+)?FOREIGN\s+KEY\s*\(([^)]*)\)\s*REFERENCES\s+([^\s(;]+)\s*\(([^)]*)\)`)

// ScanAlterForeignKeys finds "ALTER TABLE ... ADD CONSTRAINT ... FOREIGN KEY ...
// REFERENCES ..." statements. Relationships are returned in source order and
// are not checked against known tables.
func ScanAlterForeignKeys(text string) []erdump.Relationship {
	var result []erdump.Relationship

	for _, m := range alterForeignKeyRe.FindAllStringSubmatch(text, -1) {
		from := NormalizeName(m[1])
		fromColumns := normalizeList(m[3])
		to := NormalizeName(m[4])
		toColumns := normalizeList(m[5])

		if from == "" || to == "" || len(fromColumns) == 0 || len(toColumns) == 0 {
			continue
		}

		result = append(result, erdump.Relationship{
			Name:        NormalizeName(m[2]),
			From:        from,
			FromColumns: fromColumns,
			To:          to,
			ToColumns:   toColumns,
			Origin:      erdump.OriginAlter,
		})
	}

	return result
}
