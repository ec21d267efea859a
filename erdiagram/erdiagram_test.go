package erdiagram

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/erdump"
)

var fixedNow = func() time.Time {
	return time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Now = fixedNow

	return opts
}

// generateSchema creates n tables T1..Tn where every table except the first
// references its predecessor.
func generateSchema(n int) *erdump.Schema {
	schema := &erdump.Schema{}

	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("T%d", i)
		schema.Tables = append(schema.Tables, &erdump.Table{
			Name: name,
			Columns: []erdump.Column{
				{Name: "ID", Type: erdump.TypeNumber, RawType: "NUMBER", IsPrimaryKey: true},
				{Name: "PREV_ID", Type: erdump.TypeNumber, RawType: "NUMBER"},
			},
		})

		if i > 1 {
			schema.Relationships = append(schema.Relationships, erdump.Relationship{
				From: name, FromColumns: []string{"PREV_ID"},
				To: fmt.Sprintf("T%d", i-1), ToColumns: []string{"ID"},
				Origin: erdump.OriginInline,
			})
		}
	}

	return schema
}

// mermaidBlocks returns the content of every mermaid fence in a document
func mermaidBlocks(content string) []string {
	var blocks []string

	for _, part := range strings.Split(content, "```mermaid\n")[1:] {
		block, _, _ := strings.Cut(part, "```")
		blocks = append(blocks, block)
	}

	return blocks
}

func countEntities(diagram string) int {
	count := 0

	for _, line := range strings.Split(diagram, "\n") {
		if strings.HasPrefix(line, "    ") && strings.HasSuffix(line, " {") {
			count++
		}
	}

	return count
}

func empOrdSchema() *erdump.Schema {
	return &erdump.Schema{
		Tables: []*erdump.Table{
			{Name: "ORD", Columns: []erdump.Column{
				{Name: "ID", Type: erdump.TypeNumber, RawType: "NUMBER"},
				{Name: "EMP_ID", Type: erdump.TypeNumber, RawType: "NUMBER"},
			}},
			{Name: "EMP", Columns: []erdump.Column{
				{Name: "ID", Type: erdump.TypeNumber, RawType: "NUMBER", IsPrimaryKey: true},
				{Name: "NAME", Type: erdump.TypeString, RawType: "VARCHAR(50)", IsNotNull: true},
			}},
		},
		Relationships: []erdump.Relationship{
			{From: "ORD", FromColumns: []string{"EMP_ID"}, To: "EMP", ToColumns: []string{"ID"}, Origin: erdump.OriginInline},
			{From: "ORD", FromColumns: []string{"CUST_ID"}, To: "CUSTOMER", ToColumns: []string{"ID"}, Origin: erdump.OriginAlter},
		},
	}
}

func TestDiagram(t *testing.T) {
	schema := empOrdSchema()

	expected := `erDiagram
    ORD {
        NUMBER ID
        NUMBER EMP_ID
    }
    EMP {
        NUMBER ID PK
        STRING NAME "NOT NULL"
    }
    ORD ||--o{ EMP : "references"
`
	assert.Equal(t, expected, Diagram(schema.Tables, schema.Relationships))
}

func TestRender_SingleDocument(t *testing.T) {
	opts := testOptions()
	opts.Source = "dump.sql"

	result, err := Render(empOrdSchema(), opts)
	assert.NoError(t, err)
	assert.False(t, result.Partitioned)
	assert.Equal(t, []string{"schema.md"}, result.Names())

	doc := result.Documents[0]
	assert.Equal(t, "Schema", doc.Title)
	assert.True(t, strings.HasPrefix(doc.Content, "# Schema\n"))
	assert.Contains(t, doc.Content, "| Generated at | 2026-10-17T09:00:00Z |")
	assert.Contains(t, doc.Content, "| Source | dump.sql |")
	assert.Contains(t, doc.Content, "| Tables | 2 |")
	assert.Contains(t, doc.Content, "| Relationships | 2 |")
	assert.Contains(t, doc.Content, "### EMP")
	assert.Contains(t, doc.Content, "| NAME | STRING | VARCHAR(50) |  | ✓ |")

	blocks := mermaidBlocks(doc.Content)
	assert.Equal(t, 1, len(blocks))
	assert.Contains(t, blocks[0], `ORD ||--o{ EMP : "references"`)
	// dangling relationships are listed but never drawn
	assert.NotContains(t, blocks[0], "CUSTOMER")
	assert.Contains(t, doc.Content, "| - | ORD | CUST_ID | CUSTOMER | ID | alter | dangling |")
	assert.Contains(t, doc.Content, "| - | ORD | EMP_ID | EMP | ID | inline | drawn |")
}

func TestRender_BoundaryIsInclusive(t *testing.T) {
	result, err := Render(generateSchema(100), testOptions())
	assert.NoError(t, err)
	assert.False(t, result.Partitioned)
	assert.Equal(t, []string{"schema.md"}, result.Names())
	assert.Equal(t, 100, countEntities(mermaidBlocks(result.Documents[0].Content)[0]))

	result, err = Render(generateSchema(101), testOptions())
	assert.NoError(t, err)
	assert.True(t, result.Partitioned)
	assert.Equal(t, []string{"schema_1.md", "schema_2.md", "schema_3.md", "schema_index.md"}, result.Names())
}

func TestRender_Partitioned(t *testing.T) {
	schema := generateSchema(150)
	schema.Relationships = append(schema.Relationships, erdump.Relationship{
		From: "T1", FromColumns: []string{"ID"}, To: "T120", ToColumns: []string{"ID"}, Origin: erdump.OriginAlter,
	})

	result, err := Render(schema, testOptions())
	assert.NoError(t, err)
	assert.True(t, result.Partitioned)
	assert.Equal(t, []string{"schema_1.md", "schema_2.md", "schema_3.md", "schema_index.md"}, result.Names())

	for i, doc := range result.Documents[:3] {
		blocks := mermaidBlocks(doc.Content)
		assert.Equal(t, 1, len(blocks))
		assert.Equal(t, 50, countEntities(blocks[0]))
		assert.Contains(t, doc.Content, fmt.Sprintf("Part %d of 3", i+1))
		// 49 relationships inside each part, the link to the previous part is not drawn
		assert.Equal(t, 49, strings.Count(blocks[0], "||--o{"))
	}

	first := result.Documents[0].Content
	assert.Contains(t, first, "tables 1 to 50 of 150 (T1 to T50)")
	assert.Contains(t, first, "[Index](schema_index.md) | [Next](schema_2.md)")
	assert.NotContains(t, first, "[Previous]")
	assert.NotContains(t, mermaidBlocks(first)[0], "T51")

	second := result.Documents[1].Content
	assert.Contains(t, second, "[Previous](schema_1.md) | [Index](schema_index.md) | [Next](schema_3.md)")
	assert.Contains(t, second, "| - | T51 | PREV_ID | T50 | ID | inline | [2](schema_2.md) | [1](schema_1.md) |")

	last := result.Documents[2].Content
	assert.Contains(t, last, "[Previous](schema_2.md) | [Index](schema_index.md)\n")
	assert.NotContains(t, last, "[Next]")

	index := result.Documents[3]
	assert.Equal(t, "Schema (Index)", index.Title)
	assert.Equal(t, 0, len(mermaidBlocks(index.Content)))
	assert.Contains(t, index.Content, "| Tables | 150 |")
	assert.Contains(t, index.Content, "| Parts | 3 |")
	assert.Contains(t, index.Content, "| [Part 3](schema_3.md) | 101 to 150 | T101 | T150 |")
	// every relationship, including the ones crossing parts, is listed
	assert.Equal(t, 149, strings.Count(index.Content, "| inline |"))
	assert.Contains(t, index.Content, "| - | T101 | PREV_ID | T100 | ID | inline | [3](schema_3.md) | [2](schema_2.md) | cross-part |")
	assert.Contains(t, index.Content, "| - | T102 | PREV_ID | T101 | ID | inline | [3](schema_3.md) | [3](schema_3.md) | drawn |")
	assert.Contains(t, index.Content, "| - | T1 | ID | T120 | ID | alter | [1](schema_1.md) | [3](schema_3.md) | cross-part |")

	for _, doc := range result.Documents[:3] {
		assert.NotContains(t, mermaidBlocks(doc.Content)[0], "T1 ||--o{ T120")
	}
}

func TestRender_PartitionedDanglingRelationships(t *testing.T) {
	schema := generateSchema(120)
	schema.Relationships = append(schema.Relationships, erdump.Relationship{
		From: "T5", FromColumns: []string{"X_ID"}, To: "MISSING", ToColumns: []string{"ID"}, Origin: erdump.OriginAlter,
	})

	result, err := Render(schema, testOptions())
	assert.NoError(t, err)

	for _, doc := range result.Documents {
		for _, block := range mermaidBlocks(doc.Content) {
			assert.NotContains(t, block, "MISSING")
		}
	}

	index := result.Documents[len(result.Documents)-1].Content
	assert.Contains(t, index, "| Dangling relationships | 1 |")
	assert.Contains(t, index, "| - | T5 | X_ID | MISSING | ID | alter | [1](schema_1.md) | - | dangling |")
}

func TestRender_CustomSizes(t *testing.T) {
	opts := testOptions()
	opts.BaseName = "hr_dump"
	opts.SingleDocumentLimit = 5
	opts.ChunkSize = 4

	result, err := Render(generateSchema(9), opts)
	assert.NoError(t, err)
	assert.Equal(t, []string{"hr_dump_1.md", "hr_dump_2.md", "hr_dump_3.md", "hr_dump_index.md"}, result.Names())
	assert.Equal(t, "Hr Dump (Part 3 of 3)", result.Documents[2].Title)
	assert.Equal(t, 1, countEntities(mermaidBlocks(result.Documents[2].Content)[0]))
}

func TestRender_EmptySchema(t *testing.T) {
	result, err := Render(&erdump.Schema{}, testOptions())
	assert.NoError(t, err)
	assert.Equal(t, 1, len(result.Documents))
	assert.Equal(t, []string{"erDiagram\n"}, mermaidBlocks(result.Documents[0].Content))
	assert.Contains(t, result.Documents[0].Content, "No tables.")
}

func TestRender_Errors(t *testing.T) {
	_, err := Render(nil, testOptions())
	assert.IsError(t, err, ErrNilSchema)

	opts := testOptions()
	opts.ChunkSize = -1
	_, err = Render(generateSchema(1), opts)
	assert.IsError(t, err, ErrInvalidOptions)

	opts = testOptions()
	opts.BaseName = "../escape"
	_, err = Render(generateSchema(1), opts)
	assert.IsError(t, err, ErrInvalidOptions)
}

func TestOptionsFromConfig(t *testing.T) {
	config := &erdump.Config{
		Output:  erdump.OutputConfig{Dir: "out", BaseName: "crm"},
		Diagram: erdump.DiagramConfig{Title: "CRM", SingleDocumentLimit: 10, ChunkSize: 3},
	}

	opts := OptionsFromConfig(config, "crm.sql")
	assert.Equal(t, "crm", opts.BaseName)
	assert.Equal(t, "CRM", opts.Title)
	assert.Equal(t, 10, opts.SingleDocumentLimit)
	assert.Equal(t, 3, opts.ChunkSize)
	assert.Equal(t, "crm.sql", opts.Source)
}
