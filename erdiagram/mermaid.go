package erdiagram

import (
	"fmt"
	"strings"

	"github.com/shibukawa/erdump"
)

// Diagram returns a Mermaid erDiagram for the given tables. Only
// relationships whose both endpoints are among the tables are drawn.
func Diagram(tables []*erdump.Table, relationships []erdump.Relationship) string {
	var sb strings.Builder

	writeDiagram(&sb, tables, relationships)

	return sb.String()
}

func writeDiagram(sb *strings.Builder, tables []*erdump.Table, relationships []erdump.Relationship) {
	sb.WriteString("erDiagram\n")

	for _, table := range tables {
		fmt.Fprintf(sb, "    %s {\n", table.Name)

		for _, col := range table.Columns {
			fmt.Fprintf(sb, "        %s %s%s\n", col.Type, col.Name, attributeSuffix(col))
		}

		sb.WriteString("    }\n")
	}

	for _, rel := range drawable(tables, relationships) {
		fmt.Fprintf(sb, "    %s ||--o{ %s : \"references\"\n", rel.From, rel.To)
	}
}

func attributeSuffix(col erdump.Column) string {
	switch {
	case col.IsPrimaryKey:
		return " PK"
	case col.IsNotNull:
		return ` "NOT NULL"`
	default:
		return ""
	}
}

// drawable keeps relationships whose both endpoints are in the table set
func drawable(tables []*erdump.Table, relationships []erdump.Relationship) []erdump.Relationship {
	names := make(map[string]bool, len(tables))
	for _, t := range tables {
		names[t.Name] = true
	}

	var result []erdump.Relationship

	for _, rel := range relationships {
		if names[rel.From] && names[rel.To] {
			result = append(result, rel)
		}
	}

	return result
}
