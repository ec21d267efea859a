package export

import (
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/shibukawa/erdump"
)

// Meta describes where an exported schema came from
type Meta struct {
	Source      string    `yaml:"source,omitempty"`
	GeneratedAt time.Time `yaml:"generated_at"`
}

type yamlSummary struct {
	Tables                int `yaml:"tables"`
	Relationships         int `yaml:"relationships"`
	DanglingRelationships int `yaml:"dangling_relationships"`
}

type yamlDocument struct {
	Metadata      Meta                  `yaml:"metadata"`
	Summary       yamlSummary           `yaml:"summary"`
	Tables        []*erdump.Table       `yaml:"tables"`
	Relationships []erdump.Relationship `yaml:"relationships"`
}

// WriteYAML writes the schema as a YAML document
func WriteYAML(w io.Writer, schema *erdump.Schema, meta Meta) error {
	if schema == nil {
		return ErrNilSchema
	}

	doc := yamlDocument{
		Metadata: meta,
		Summary: yamlSummary{
			Tables:                len(schema.Tables),
			Relationships:         len(schema.Relationships),
			DanglingRelationships: len(schema.DanglingRelationships()),
		},
		Tables:        schema.Tables,
		Relationships: schema.Relationships,
	}

	encoder := yaml.NewEncoder(w)
	defer encoder.Close()

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
