package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shibukawa/erdump"
)

// Format is an export file format
type Format string

const (
	FormatTbls    Format = "tbls"
	FormatYAML    Format = "yaml"
	FormatGraphML Format = "graphml"
)

// Formats lists the supported formats
var Formats = []Format{FormatTbls, FormatYAML, FormatGraphML}

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(name, string(f)) {
			return f, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, name)
}

// Extension returns the conventional file extension
func (f Format) Extension() string {
	switch f {
	case FormatTbls:
		return ".json"
	case FormatGraphML:
		return ".graphml"
	default:
		return ".yaml"
	}
}

// Options configures Write
type Options struct {
	Name        string // schema name recorded in tbls output
	Driver      string // driver recorded in tbls output
	Source      string
	GeneratedAt time.Time
}

// Write exports the schema in the given format
func Write(w io.Writer, format Format, schema *erdump.Schema, opts Options) error {
	switch format {
	case FormatTbls:
		return WriteTblsJSON(w, schema, opts.Name, opts.Driver)
	case FormatYAML:
		return WriteYAML(w, schema, Meta{Source: opts.Source, GeneratedAt: opts.GeneratedAt})
	case FormatGraphML:
		return WriteGraphML(w, schema)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}
