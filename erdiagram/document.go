package erdiagram

import (
	"fmt"
	"strings"
	"time"

	"github.com/shibukawa/erdump"
)

// Document is one rendered Markdown file
type Document struct {
	Name    string // file name, relative to the output directory
	Title   string
	Content string
}

// Result is the outcome of Render
type Result struct {
	Partitioned bool
	Documents   []Document
}

// Names returns the document file names in order
func (r *Result) Names() []string {
	names := make([]string, 0, len(r.Documents))
	for _, doc := range r.Documents {
		names = append(names, doc.Name)
	}

	return names
}

type metadataRow struct {
	label string
	value string
}

func writeMetadata(sb *strings.Builder, rows []metadataRow) {
	sb.WriteString("| Item | Value |\n")
	sb.WriteString("|------|-------|\n")

	for _, row := range rows {
		fmt.Fprintf(sb, "| %s | %s |\n", row.label, escapeCell(row.value))
	}

	sb.WriteString("\n")
}

func baseMetadata(opts Options, now time.Time) []metadataRow {
	rows := []metadataRow{
		{"Generated at", now.Format(time.RFC3339)},
	}

	if opts.Source != "" {
		rows = append(rows, metadataRow{"Source", opts.Source})
	}

	return rows
}

func writeMermaidBlock(sb *strings.Builder, tables []*erdump.Table, relationships []erdump.Relationship) {
	sb.WriteString("```mermaid\n")
	writeDiagram(sb, tables, relationships)
	sb.WriteString("```\n\n")
}

func writeTableSections(sb *strings.Builder, tables []*erdump.Table) {
	sb.WriteString("## Tables\n\n")

	if len(tables) == 0 {
		sb.WriteString("No tables.\n\n")
		return
	}

	for _, table := range tables {
		fmt.Fprintf(sb, "### %s\n\n", table.Name)
		sb.WriteString("| Column | Category | Declared type | PK | Not null |\n")
		sb.WriteString("|--------|----------|---------------|----|----------|\n")

		for _, col := range table.Columns {
			fmt.Fprintf(sb, "| %s | %s | %s | %s | %s |\n",
				col.Name, col.Type, escapeCell(col.RawType), check(col.IsPrimaryKey), check(col.IsNotNull))
		}

		sb.WriteString("\n")

		if len(table.Constraints) > 0 {
			sb.WriteString("Constraints:\n\n")

			for _, c := range table.Constraints {
				name := c.Name
				if name == "" {
					name = "(unnamed)"
				}

				fmt.Fprintf(sb, "- %s `%s`", c.Kind, name)

				if len(c.Columns) > 0 {
					fmt.Fprintf(sb, " on %s", strings.Join(c.Columns, ", "))
				}

				if c.ReferencedTable != "" {
					fmt.Fprintf(sb, " references %s(%s)", c.ReferencedTable, strings.Join(c.ReferencedColumns, ", "))
				}

				sb.WriteString("\n")
			}

			sb.WriteString("\n")
		}
	}
}

// relationshipColumn adds an extra column to a relationship table
type relationshipColumn struct {
	header string
	value  func(erdump.Relationship) string
}

func writeRelationshipTable(sb *strings.Builder, heading string, relationships []erdump.Relationship, extra ...relationshipColumn) {
	fmt.Fprintf(sb, "## %s\n\n", heading)

	if len(relationships) == 0 {
		sb.WriteString("No relationships.\n\n")
		return
	}

	headers := []string{"Name", "From", "From columns", "To", "To columns", "Origin"}
	for _, col := range extra {
		headers = append(headers, col.header)
	}

	sb.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	sb.WriteString(strings.Repeat("|---", len(headers)) + "|\n")

	for _, rel := range relationships {
		cells := []string{
			orDash(rel.Name),
			rel.From,
			strings.Join(rel.FromColumns, ", "),
			rel.To,
			strings.Join(rel.ToColumns, ", "),
			string(rel.Origin),
		}
		for _, col := range extra {
			cells = append(cells, col.value(rel))
		}

		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	sb.WriteString("\n")
}

func statusColumn(present map[string]bool) relationshipColumn {
	return relationshipColumn{
		header: "Status",
		value: func(rel erdump.Relationship) string {
			if present[rel.From] && present[rel.To] {
				return "drawn"
			}

			return "dangling"
		},
	}
}

func check(b bool) string {
	if b {
		return "✓"
	}

	return ""
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
