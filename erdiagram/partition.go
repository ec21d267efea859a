package erdiagram

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shibukawa/erdump"
)

// Render renders the schema as Markdown documents with embedded Mermaid
// diagrams. Schemas up to Options.SingleDocumentLimit tables produce one
// document. Larger schemas are split into chunks of Options.ChunkSize tables
// in discovery order plus an index document.
//
// An empty schema renders a single document with an empty diagram.
func Render(schema *erdump.Schema, opts Options) (*Result, error) {
	if schema == nil {
		return nil, ErrNilSchema
	}

	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	if len(schema.Tables) <= opts.SingleDocumentLimit {
		return &Result{Documents: []Document{renderSingle(schema, opts)}}, nil
	}

	return &Result{Partitioned: true, Documents: renderPartitioned(schema, opts)}, nil
}

func renderSingle(schema *erdump.Schema, opts Options) Document {
	var sb strings.Builder

	present := tableSet(schema.Tables)

	fmt.Fprintf(&sb, "# %s\n\n", opts.Title)

	writeMetadata(&sb, append(baseMetadata(opts, opts.Now()),
		metadataRow{"Tables", strconv.Itoa(len(schema.Tables))},
		metadataRow{"Relationships", strconv.Itoa(len(schema.Relationships))},
	))

	sb.WriteString("## Diagram\n\n")
	writeMermaidBlock(&sb, schema.Tables, schema.Relationships)
	writeTableSections(&sb, schema.Tables)
	writeRelationshipTable(&sb, "Relationships", schema.Relationships, statusColumn(present))

	return Document{
		Name:    opts.singleName(),
		Title:   opts.Title,
		Content: sb.String(),
	}
}

// chunk is a contiguous slice of the table list
type chunk struct {
	part   int // 1-based
	first  int // 1-based position of the first table
	tables []*erdump.Table
}

func (c chunk) last() int {
	return c.first + len(c.tables) - 1
}

func splitChunks(tables []*erdump.Table, size int) []chunk {
	var chunks []chunk

	first := 1
	for tables := range slices.Chunk(tables, size) {
		chunks = append(chunks, chunk{part: len(chunks) + 1, first: first, tables: tables})
		first += len(tables)
	}

	return chunks
}

func renderPartitioned(schema *erdump.Schema, opts Options) []Document {
	now := opts.Now()
	chunks := splitChunks(schema.Tables, opts.ChunkSize)

	partOf := make(map[string]int, len(schema.Tables))
	for _, c := range chunks {
		for _, t := range c.tables {
			partOf[t.Name] = c.part
		}
	}

	docs := make([]Document, 0, len(chunks)+1)
	for _, c := range chunks {
		docs = append(docs, renderChunk(schema, opts, now, c, len(chunks), partOf))
	}

	docs = append(docs, renderIndex(schema, opts, now, chunks, partOf))

	return docs
}

func renderChunk(schema *erdump.Schema, opts Options, now time.Time, c chunk, total int, partOf map[string]int) Document {
	var sb strings.Builder

	title := fmt.Sprintf("%s (Part %d of %d)", opts.Title, c.part, total)
	fmt.Fprintf(&sb, "# %s\n\n", title)

	writeNavigation(&sb, opts, c.part, total)

	fmt.Fprintf(&sb, "Part %d of %d: tables %d to %d of %d (%s to %s).\n\n",
		c.part, total, c.first, c.last(), len(schema.Tables), c.tables[0].Name, c.tables[len(c.tables)-1].Name)

	inner, outer := splitRelationships(schema.Relationships, c.part, partOf)

	writeMetadata(&sb, append(baseMetadata(opts, now),
		metadataRow{"Tables", strconv.Itoa(len(c.tables))},
		metadataRow{"Relationships", strconv.Itoa(len(inner))},
	))

	sb.WriteString("## Diagram\n\n")
	writeMermaidBlock(&sb, c.tables, inner)
	writeTableSections(&sb, c.tables)
	writeRelationshipTable(&sb, "Relationships", inner)
	writeRelationshipTable(&sb, "Relationships to other parts", outer, partColumn("From part", opts, partOf, true), partColumn("To part", opts, partOf, false))

	writeNavigation(&sb, opts, c.part, total)

	return Document{
		Name:    opts.chunkName(c.part),
		Title:   title,
		Content: sb.String(),
	}
}

func renderIndex(schema *erdump.Schema, opts Options, now time.Time, chunks []chunk, partOf map[string]int) Document {
	var sb strings.Builder

	title := opts.Title + " (Index)"
	fmt.Fprintf(&sb, "# %s\n\n", title)

	writeMetadata(&sb, append(baseMetadata(opts, now),
		metadataRow{"Tables", strconv.Itoa(len(schema.Tables))},
		metadataRow{"Relationships", strconv.Itoa(len(schema.Relationships))},
		metadataRow{"Dangling relationships", strconv.Itoa(len(schema.DanglingRelationships()))},
		metadataRow{"Parts", strconv.Itoa(len(chunks))},
	))

	sb.WriteString("## Parts\n\n")
	sb.WriteString("| Part | Tables | First table | Last table |\n")
	sb.WriteString("|------|--------|-------------|------------|\n")

	for _, c := range chunks {
		fmt.Fprintf(&sb, "| [Part %d](%s) | %d to %d | %s | %s |\n",
			c.part, opts.chunkName(c.part), c.first, c.last(), c.tables[0].Name, c.tables[len(c.tables)-1].Name)
	}

	sb.WriteString("\n")

	writeRelationshipTable(&sb, "Relationships", schema.Relationships,
		partColumn("From part", opts, partOf, true),
		partColumn("To part", opts, partOf, false),
		partStatusColumn(partOf))

	return Document{
		Name:    opts.indexName(),
		Title:   title,
		Content: sb.String(),
	}
}

func writeNavigation(sb *strings.Builder, opts Options, part, total int) {
	links := make([]string, 0, 3)

	if part > 1 {
		links = append(links, fmt.Sprintf("[Previous](%s)", opts.chunkName(part-1)))
	}

	links = append(links, fmt.Sprintf("[Index](%s)", opts.indexName()))

	if part < total {
		links = append(links, fmt.Sprintf("[Next](%s)", opts.chunkName(part+1)))
	}

	sb.WriteString(strings.Join(links, " | "))
	sb.WriteString("\n\n")
}

// splitRelationships separates relationships drawn inside a part from the ones
// that cross into another part. Dangling relationships belong to neither.
func splitRelationships(relationships []erdump.Relationship, part int, partOf map[string]int) (inner, outer []erdump.Relationship) {
	for _, rel := range relationships {
		from, to := partOf[rel.From], partOf[rel.To]
		if from == 0 || to == 0 {
			continue
		}

		switch {
		case from == part && to == part:
			inner = append(inner, rel)
		case from == part || to == part:
			outer = append(outer, rel)
		}
	}

	return inner, outer
}

func partColumn(header string, opts Options, partOf map[string]int, from bool) relationshipColumn {
	return relationshipColumn{
		header: header,
		value: func(rel erdump.Relationship) string {
			name := rel.To
			if from {
				name = rel.From
			}

			part, ok := partOf[name]
			if !ok {
				return "-"
			}

			return fmt.Sprintf("[%d](%s)", part, opts.chunkName(part))
		},
	}
}

// partStatusColumn reports where a relationship ended up. Only relationships
// inside one part are drawn.
func partStatusColumn(partOf map[string]int) relationshipColumn {
	return relationshipColumn{
		header: "Status",
		value: func(rel erdump.Relationship) string {
			from, to := partOf[rel.From], partOf[rel.To]

			switch {
			case from == 0 || to == 0:
				return "dangling"
			case from == to:
				return "drawn"
			default:
				return "cross-part"
			}
		},
	}
}

func tableSet(tables []*erdump.Table) map[string]bool {
	set := make(map[string]bool, len(tables))
	for _, t := range tables {
		set[t.Name] = true
	}

	return set
}
