package materialize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shibukawa/erdump"
)

var qualifierRe = regexp.MustCompile(`\(\s*(\d+)(?:\s*,\s*(\d+))?[^)]*\)`)

// TypeMapper maps an inferred column to a dialect column type
type TypeMapper interface {
	MapColumn(col erdump.Column) string
}

// NewTypeMapper creates the type mapper for a dialect
func NewTypeMapper(dialect Dialect) (TypeMapper, error) {
	switch dialect {
	case DialectSQLite:
		return sqliteTypeMapper{}, nil
	case DialectPostgreSQL:
		return postgreSQLTypeMapper{}, nil
	case DialectMySQL:
		return mySQLTypeMapper{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDatabase, dialect)
	}
}

// qualifier returns the precision and scale written after the raw type
func qualifier(raw string) (precision, scale string) {
	m := qualifierRe.FindStringSubmatch(raw)
	if m == nil {
		return "", ""
	}

	return m[1], m[2]
}

// sqliteTypeMapper keeps the declared type; SQLite accepts any type name
type sqliteTypeMapper struct{}

func (sqliteTypeMapper) MapColumn(col erdump.Column) string {
	if col.RawType != "" {
		return col.RawType
	}

	switch col.Type {
	case erdump.TypeNumber:
		return "NUMERIC"
	case erdump.TypeDate:
		return "TIMESTAMP"
	case erdump.TypeLOB:
		return "BLOB"
	default:
		return "TEXT"
	}
}

type postgreSQLTypeMapper struct{}

func (postgreSQLTypeMapper) MapColumn(col erdump.Column) string {
	upper := strings.ToUpper(col.RawType)
	precision, scale := qualifier(col.RawType)

	switch col.Type {
	case erdump.TypeString:
		if precision != "" {
			return "VARCHAR(" + precision + ")"
		}

		return "TEXT"
	case erdump.TypeNumber:
		switch {
		case strings.Contains(upper, "INT"):
			return "BIGINT"
		case precision != "" && scale != "":
			return "NUMERIC(" + precision + "," + scale + ")"
		case precision != "":
			return "NUMERIC(" + precision + ")"
		default:
			return "NUMERIC"
		}
	case erdump.TypeDate:
		// DATE in Oracle dumps carries a time of day
		return "TIMESTAMP"
	case erdump.TypeLOB:
		if strings.Contains(upper, "BLOB") {
			return "BYTEA"
		}

		return "TEXT"
	default:
		return "TEXT"
	}
}

type mySQLTypeMapper struct{}

func (mySQLTypeMapper) MapColumn(col erdump.Column) string {
	upper := strings.ToUpper(col.RawType)
	precision, scale := qualifier(col.RawType)

	switch col.Type {
	case erdump.TypeString:
		if precision != "" {
			return "VARCHAR(" + precision + ")"
		}

		// TEXT cannot be a key column without a prefix length
		return "VARCHAR(255)"
	case erdump.TypeNumber:
		switch {
		case strings.Contains(upper, "INT"):
			return "BIGINT"
		case precision != "" && scale != "":
			return "DECIMAL(" + precision + "," + scale + ")"
		case precision != "":
			return "DECIMAL(" + precision + ")"
		default:
			return "DECIMAL(38,10)"
		}
	case erdump.TypeDate:
		return "DATETIME"
	case erdump.TypeLOB:
		if strings.Contains(upper, "BLOB") {
			return "LONGBLOB"
		}

		return "LONGTEXT"
	default:
		return "VARCHAR(255)"
	}
}
