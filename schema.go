package erdump

// TypeCategory is the semantic category a declared column type is reduced to
type TypeCategory string

const (
	TypeString TypeCategory = "STRING"
	TypeNumber TypeCategory = "NUMBER"
	TypeDate   TypeCategory = "DATE"
	TypeLOB    TypeCategory = "LOB"
	TypeOther  TypeCategory = "OTHER"
)

// ConstraintKind identifies an inline table constraint
type ConstraintKind string

const (
	ConstraintPrimaryKey ConstraintKind = "PRIMARY_KEY"
	ConstraintForeignKey ConstraintKind = "FOREIGN_KEY"
	ConstraintUnique     ConstraintKind = "UNIQUE"
	ConstraintCheck      ConstraintKind = "CHECK"
)

// RelationshipOrigin tells where a relationship was declared
type RelationshipOrigin string

const (
	OriginInline RelationshipOrigin = "inline" // inside CREATE TABLE
	OriginAlter  RelationshipOrigin = "alter"  // ALTER TABLE ... ADD CONSTRAINT
)

// Column is a single column of a table
type Column struct {
	Name         string       `json:"name" yaml:"name"`
	Type         TypeCategory `json:"type" yaml:"type"`
	RawType      string       `json:"rawType" yaml:"raw_type"`
	IsPrimaryKey bool         `json:"isPrimaryKey" yaml:"is_primary_key"`
	IsNotNull    bool         `json:"isNotNull" yaml:"is_not_null"`
}

// Constraint is an inline constraint captured while parsing a table body.
// Primary keys are folded into the column flags and never stored here.
type Constraint struct {
	Name              string         `json:"name" yaml:"name,omitempty"`
	Kind              ConstraintKind `json:"kind" yaml:"kind"`
	Columns           []string       `json:"columns" yaml:"columns,omitempty"`
	ReferencedTable   string         `json:"referencedTable" yaml:"referenced_table,omitempty"`
	ReferencedColumns []string       `json:"referencedColumns" yaml:"referenced_columns,omitempty"`
	Definition        string         `json:"definition" yaml:"definition,omitempty"`
}

// Table is a parsed table definition
type Table struct {
	Name        string       `json:"name" yaml:"name"`
	Columns     []Column     `json:"columns" yaml:"columns"`
	Constraints []Constraint `json:"constraints" yaml:"constraints,omitempty"`
}

// Column returns the first column with the given name
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}

	return Column{}, false
}

// PrimaryKey returns the primary key column names in declaration order
func (t *Table) PrimaryKey() []string {
	var keys []string

	for _, c := range t.Columns {
		if c.IsPrimaryKey {
			keys = append(keys, c.Name)
		}
	}

	return keys
}

// Relationship is a directed foreign-key edge. From holds the referencing
// table, To the referenced one.
type Relationship struct {
	Name        string             `json:"name" yaml:"name,omitempty"`
	From        string             `json:"from" yaml:"from"`
	FromColumns []string           `json:"fromColumns" yaml:"from_columns"`
	To          string             `json:"to" yaml:"to"`
	ToColumns   []string           `json:"toColumns" yaml:"to_columns"`
	Origin      RelationshipOrigin `json:"origin" yaml:"origin"`
}

// Schema is the result of scanning one dump. It must be treated as read-only
// once built.
type Schema struct {
	Tables        []*Table       `json:"tables" yaml:"tables"`
	Relationships []Relationship `json:"relationships" yaml:"relationships"`
}

// Table looks a table up by canonical name
func (s *Schema) Table(name string) (*Table, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}

	return nil, false
}

// HasTable reports whether a table with the canonical name exists
func (s *Schema) HasTable(name string) bool {
	_, ok := s.Table(name)
	return ok
}

// TableNames returns table names in discovery order
func (s *Schema) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		names = append(names, t.Name)
	}

	return names
}

// IsEmpty reports whether no table was found
func (s *Schema) IsEmpty() bool {
	return s == nil || len(s.Tables) == 0
}

func (s *Schema) tableSet() map[string]bool {
	set := make(map[string]bool, len(s.Tables))
	for _, t := range s.Tables {
		set[t.Name] = true
	}

	return set
}

// RenderableRelationships returns relationships whose both endpoints exist
func (s *Schema) RenderableRelationships() []Relationship {
	var result []Relationship

	tables := s.tableSet()
	for _, r := range s.Relationships {
		if tables[r.From] && tables[r.To] {
			result = append(result, r)
		}
	}

	return result
}

// DanglingRelationships returns relationships referencing a missing table
func (s *Schema) DanglingRelationships() []Relationship {
	var result []Relationship

	tables := s.tableSet()
	for _, r := range s.Relationships {
		if !tables[r.From] || !tables[r.To] {
			result = append(result, r)
		}
	}

	return result
}
