package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	tblsschema "github.com/k1LoW/tbls/schema"

	"github.com/shibukawa/erdump"
)

var constraintTypes = map[erdump.ConstraintKind]string{
	erdump.ConstraintPrimaryKey: "PRIMARY KEY",
	erdump.ConstraintForeignKey: "FOREIGN KEY",
	erdump.ConstraintUnique:     "UNIQUE",
	erdump.ConstraintCheck:      "CHECK",
}

// ToTbls converts the schema into the tbls schema model. Relationships are
// converted when both tables and all their columns exist; the rest are
// dropped.
func ToTbls(schema *erdump.Schema, name, driver string) (*tblsschema.Schema, error) {
	if schema == nil {
		return nil, ErrNilSchema
	}

	result := &tblsschema.Schema{
		Name:   name,
		Tables: make([]*tblsschema.Table, 0, len(schema.Tables)),
		Driver: &tblsschema.Driver{Name: driver},
	}

	tables := make(map[string]*tblsschema.Table, len(schema.Tables))

	for _, table := range schema.Tables {
		converted := convertTable(table)
		result.Tables = append(result.Tables, converted)
		tables[table.Name] = converted
	}

	for _, rel := range schema.RenderableRelationships() {
		child, parent := tables[rel.From], tables[rel.To]

		columns, ok := lookupColumns(child, rel.FromColumns)
		if !ok {
			continue
		}

		parentColumns, ok := lookupColumns(parent, rel.ToColumns)
		if !ok {
			continue
		}

		result.Relations = append(result.Relations, &tblsschema.Relation{
			Table:         child,
			Columns:       columns,
			ParentTable:   parent,
			ParentColumns: parentColumns,
			Def:           relationDef(rel),
		})
	}

	return result, nil
}

// WriteTblsJSON writes the schema as a tbls JSON document (schema.json)
func WriteTblsJSON(w io.Writer, schema *erdump.Schema, name, driver string) error {
	converted, err := ToTbls(schema, name, driver)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(converted); err != nil {
		return fmt.Errorf("failed to encode tbls schema: %w", err)
	}

	return nil
}

func convertTable(table *erdump.Table) *tblsschema.Table {
	converted := &tblsschema.Table{
		Name:    table.Name,
		Type:    "BASE TABLE",
		Columns: make([]*tblsschema.Column, 0, len(table.Columns)),
	}

	for _, col := range table.Columns {
		typ := col.RawType
		if typ == "" {
			typ = string(col.Type)
		}

		converted.Columns = append(converted.Columns, &tblsschema.Column{
			Name:     col.Name,
			Type:     typ,
			Nullable: !col.IsPrimaryKey && !col.IsNotNull,
			PK:       col.IsPrimaryKey,
		})
	}

	tableName := table.Name

	if keys := table.PrimaryKey(); len(keys) > 0 {
		converted.Constraints = append(converted.Constraints, &tblsschema.Constraint{
			Name:    "pk_" + table.Name,
			Type:    constraintTypes[erdump.ConstraintPrimaryKey],
			Def:     fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(keys, ", ")),
			Table:   &tableName,
			Columns: keys,
		})
	}

	for _, c := range table.Constraints {
		constraint := &tblsschema.Constraint{
			Name:              c.Name,
			Type:              constraintTypes[c.Kind],
			Def:               c.Definition,
			Table:             &tableName,
			Columns:           c.Columns,
			ReferencedColumns: c.ReferencedColumns,
		}

		if c.ReferencedTable != "" {
			referenced := c.ReferencedTable
			constraint.ReferencedTable = &referenced
		}

		converted.Constraints = append(converted.Constraints, constraint)
	}

	return converted
}

func lookupColumns(table *tblsschema.Table, names []string) ([]*tblsschema.Column, bool) {
	columns := make([]*tblsschema.Column, 0, len(names))

	for _, name := range names {
		var found *tblsschema.Column

		for _, col := range table.Columns {
			if col.Name == name {
				found = col
				break
			}
		}

		if found == nil {
			return nil, false
		}

		columns = append(columns, found)
	}

	return columns, true
}

func relationDef(rel erdump.Relationship) string {
	return fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s (%s)",
		strings.Join(rel.FromColumns, ", "), rel.To, strings.Join(rel.ToColumns, ", "))
}
