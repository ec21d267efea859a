package materialize

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shibukawa/erdump"
)

// Options controls DDL generation
type Options struct {
	// ForeignKeys adds foreign keys for relationships that reference the
	// primary key of an existing table.
	ForeignKeys bool

	// IfNotExists adds IF NOT EXISTS to CREATE TABLE
	IfNotExists bool
}

// GenerateDDL returns the statements that create the schema. Tables come
// first in discovery order, followed by foreign keys. SQLite cannot add a
// constraint to an existing table, so its foreign keys are declared inside
// CREATE TABLE instead.
//
// Columns whose canonical name repeats an earlier column of the same table
// are left out.
func GenerateDDL(schema *erdump.Schema, dialect Dialect, opts Options) ([]string, error) {
	if schema == nil {
		return nil, ErrNilSchema
	}

	mapper, err := NewTypeMapper(dialect)
	if err != nil {
		return nil, err
	}

	var foreignKeys []foreignKey
	if opts.ForeignKeys {
		foreignKeys = collectForeignKeys(schema)
	}

	statements := make([]string, 0, len(schema.Tables)+len(foreignKeys))

	for _, table := range schema.Tables {
		var inline []foreignKey
		if dialect == DialectSQLite {
			for _, fk := range foreignKeys {
				if fk.rel.From == table.Name {
					inline = append(inline, fk)
				}
			}
		}

		statements = append(statements, createTable(table, dialect, mapper, opts, inline))
	}

	if dialect != DialectSQLite {
		for _, fk := range foreignKeys {
			statements = append(statements, fmt.Sprintf("ALTER TABLE %s ADD %s",
				quote(dialect, fk.rel.From), fk.clause(dialect)))
		}
	}

	return statements, nil
}

type foreignKey struct {
	name string
	rel  erdump.Relationship
}

func (fk foreignKey) clause(dialect Dialect) string {
	return fmt.Sprintf("CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
		quote(dialect, fk.name),
		quoteList(dialect, fk.rel.FromColumns),
		quote(dialect, fk.rel.To),
		quoteList(dialect, fk.rel.ToColumns))
}

// collectForeignKeys picks the relationships a database would accept: both
// tables exist, the source columns exist and the target columns are exactly
// the target primary key.
func collectForeignKeys(schema *erdump.Schema) []foreignKey {
	var result []foreignKey

	used := make(map[string]bool)

	for i, rel := range schema.RenderableRelationships() {
		from, _ := schema.Table(rel.From)
		to, _ := schema.Table(rel.To)

		if len(rel.FromColumns) != len(rel.ToColumns) || !slices.Equal(rel.ToColumns, to.PrimaryKey()) {
			continue
		}

		if !hasColumns(from, rel.FromColumns) {
			continue
		}

		name := rel.Name
		if name == "" || used[strings.ToLower(name)] {
			name = fmt.Sprintf("fk_%s_%d", rel.From, i+1)
		}

		used[strings.ToLower(name)] = true

		result = append(result, foreignKey{name: name, rel: rel})
	}

	return result
}

func hasColumns(table *erdump.Table, names []string) bool {
	for _, name := range names {
		if _, ok := table.Column(name); !ok {
			return false
		}
	}

	return true
}

func createTable(table *erdump.Table, dialect Dialect, mapper TypeMapper, opts Options, inline []foreignKey) string {
	var (
		members []string
		keys    []string
	)

	seen := make(map[string]bool, len(table.Columns))

	for _, col := range table.Columns {
		if seen[strings.ToLower(col.Name)] {
			continue
		}

		seen[strings.ToLower(col.Name)] = true

		member := quote(dialect, col.Name) + " " + mapper.MapColumn(col)
		if col.IsPrimaryKey || col.IsNotNull {
			member += " NOT NULL"
		}

		members = append(members, member)

		if col.IsPrimaryKey {
			keys = append(keys, col.Name)
		}
	}

	if len(keys) > 0 {
		members = append(members, fmt.Sprintf("PRIMARY KEY (%s)", quoteList(dialect, keys)))
	}

	for _, fk := range inline {
		members = append(members, fk.clause(dialect))
	}

	var sb strings.Builder

	sb.WriteString("CREATE TABLE ")

	if opts.IfNotExists {
		sb.WriteString("IF NOT EXISTS ")
	}

	sb.WriteString(quote(dialect, table.Name))
	sb.WriteString(" (\n    ")
	sb.WriteString(strings.Join(members, ",\n    "))
	sb.WriteString("\n)")

	return sb.String()
}

func quote(dialect Dialect, name string) string {
	if dialect == DialectMySQL {
		return "`" + name + "`"
	}

	return `"` + name + `"`
}

func quoteList(dialect Dialect, names []string) string {
	quoted := make([]string, 0, len(names))
	for _, name := range names {
		quoted = append(quoted, quote(dialect, name))
	}

	return strings.Join(quoted, ", ")
}
