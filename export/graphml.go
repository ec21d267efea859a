package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"

	"github.com/shibukawa/erdump"
)

const graphMLNamespace = "http://graphml.graphdrawing.org/xmlns"

// graphMLKeys declares the data attributes used on nodes and edges
var graphMLKeys = []struct {
	id, target string
}{
	{"label", "node"},
	{"columns", "node"},
	{"primary_key", "node"},
	{"from_columns", "edge"},
	{"to_columns", "edge"},
	{"origin", "edge"},
}

// WriteGraphML writes the schema as a directed GraphML graph: one node per
// table and one edge per relationship whose both tables exist.
func WriteGraphML(w io.Writer, schema *erdump.Schema) error {
	if schema == nil {
		return ErrNilSchema
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("graphml")
	root.CreateAttr("xmlns", graphMLNamespace)

	for _, key := range graphMLKeys {
		elem := root.CreateElement("key")
		elem.CreateAttr("id", key.id)
		elem.CreateAttr("for", key.target)
		elem.CreateAttr("attr.name", key.id)
		elem.CreateAttr("attr.type", "string")
	}

	graph := root.CreateElement("graph")
	graph.CreateAttr("id", "schema")
	graph.CreateAttr("edgedefault", "directed")

	for _, table := range schema.Tables {
		node := graph.CreateElement("node")
		node.CreateAttr("id", table.Name)

		addData(node, "label", table.Name)
		addData(node, "columns", describeColumns(table.Columns))

		if keys := table.PrimaryKey(); len(keys) > 0 {
			addData(node, "primary_key", strings.Join(keys, ","))
		}
	}

	for i, rel := range schema.RenderableRelationships() {
		edge := graph.CreateElement("edge")
		edge.CreateAttr("id", fmt.Sprintf("e%d", i+1))
		edge.CreateAttr("source", rel.From)
		edge.CreateAttr("target", rel.To)

		addData(edge, "from_columns", strings.Join(rel.FromColumns, ","))
		addData(edge, "to_columns", strings.Join(rel.ToColumns, ","))
		addData(edge, "origin", string(rel.Origin))
	}

	doc.Indent(2)

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write GraphML: %w", err)
	}

	return nil
}

func addData(parent *etree.Element, key, value string) {
	data := parent.CreateElement("data")
	data.CreateAttr("key", key)
	data.SetText(value)
}

func describeColumns(columns []erdump.Column) string {
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, fmt.Sprintf("%s %s", col.Name, col.Type))
	}

	return strings.Join(parts, ", ")
}
