package ddlscan

import (
	"github.com/shibukawa/erdump"
)

// Logger receives diagnostic messages about skipped fragments
type Logger func(format string, args ...any)

// TableEvent is the outcome of parsing one table definition statement
type TableEvent struct {
	Table         *erdump.Table
	Relationships []erdump.Relationship
	Skipped       []string
}

// Builder turns source text into a Schema. Scanning produces a sequence of
// TableEvents which are folded into the schema by reduce.
type Builder struct {
	Scanner StatementScanner
	Logger  Logger
}

// NewBuilder creates a builder using the default regular expression scanner
func NewBuilder() *Builder {
	return &Builder{Scanner: NewRegexpScanner()}
}

// BuildSchema is a shortcut for NewBuilder().Build(text)
func BuildSchema(text string) *erdump.Schema {
	return NewBuilder().Build(text)
}

// Build scans the text twice: once for table definitions and once for
// out-of-line foreign keys. An input without table definitions yields an
// empty schema.
func (b *Builder) Build(text string) *erdump.Schema {
	scanner := b.Scanner
	if scanner == nil {
		scanner = NewRegexpScanner()
	}

	state := newSchemaState()

	for raw := range scanner.Scan(text) {
		event := ParseTable(raw)
		for _, skipped := range event.Skipped {
			b.logf("table %s: skipped fragment %q", event.Table.Name, skipped)
		}

		if len(event.Table.Columns) == 0 {
			b.logf("table %s: no valid columns, ignored", event.Table.Name)
		}

		state = reduce(state, event)
	}

	alters := ScanAlterForeignKeys(text)
	b.logf("found %d tables, %d inline and %d out-of-line relationships", len(state.order), len(state.relationships), len(alters))

	state.relationships = append(state.relationships, alters...)

	return state.schema()
}

func (b *Builder) logf(format string, args ...any) {
	if b.Logger == nil {
		return
	}

	b.Logger(format, args...)
}

// ParseTable parses one raw table statement. The table in the event may have
// no columns; reduce drops such tables.
func ParseTable(raw RawTable) TableEvent {
	name := NormalizeName(raw.Name)
	body := ParseMembers(raw.Body)

	var relationships []erdump.Relationship
	for _, rel := range body.Relationships {
		rel.From = name
		relationships = append(relationships, rel)
	}

	return TableEvent{
		Table: &erdump.Table{
			Name:        name,
			Columns:     body.Columns,
			Constraints: body.Constraints,
		},
		Relationships: relationships,
		Skipped:       body.Skipped,
	}
}

// schemaState is the accumulator of the fold
type schemaState struct {
	order         []string
	tables        map[string]*erdump.Table
	relationships []erdump.Relationship
}

func newSchemaState() schemaState {
	return schemaState{tables: make(map[string]*erdump.Table)}
}

// reduce registers a parsed table. Tables without columns (or without a
// usable name) are dropped together with their relationships. A later
// definition with the same canonical name replaces the earlier one but keeps
// its discovery position.
func reduce(state schemaState, event TableEvent) schemaState {
	table := event.Table
	if table == nil || table.Name == "" || len(table.Columns) == 0 {
		return state
	}

	if _, exists := state.tables[table.Name]; !exists {
		state.order = append(state.order, table.Name)
	}

	state.tables[table.Name] = table
	state.relationships = append(state.relationships, event.Relationships...)

	return state
}

func (s schemaState) schema() *erdump.Schema {
	schema := &erdump.Schema{
		Tables:        make([]*erdump.Table, 0, len(s.order)),
		Relationships: s.relationships,
	}

	for _, name := range s.order {
		schema.Tables = append(schema.Tables, s.tables[name])
	}

	return schema
}
