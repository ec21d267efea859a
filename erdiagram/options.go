package erdiagram

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/shibukawa/erdump"
)

// Options controls rendering and partitioning
type Options struct {
	// BaseName is the file name stem of every produced document
	BaseName string

	// Title is the document heading. Defaults to the title-cased base name.
	Title string

	// Source names the input dump in the metadata header. Omitted when empty.
	Source string

	// SingleDocumentLimit is the largest table count rendered as one document
	SingleDocumentLimit int

	// ChunkSize is the number of tables per partition document
	ChunkSize int

	Now func() time.Time
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		BaseName:            erdump.DefaultBaseName,
		SingleDocumentLimit: erdump.DefaultSingleDocumentLimit,
		ChunkSize:           erdump.DefaultChunkSize,
		Now:                 time.Now,
	}
}

// OptionsFromConfig builds render options from the diagram and output sections
func OptionsFromConfig(config *erdump.Config, source string) Options {
	opts := DefaultOptions()
	opts.BaseName = config.Output.BaseName
	opts.Title = config.Diagram.Title
	opts.SingleDocumentLimit = config.Diagram.SingleDocumentLimit
	opts.ChunkSize = config.Diagram.ChunkSize
	opts.Source = source

	return opts
}

func (o Options) withDefaults() (Options, error) {
	defaults := DefaultOptions()

	if o.BaseName == "" {
		o.BaseName = defaults.BaseName
	}

	if o.SingleDocumentLimit == 0 {
		o.SingleDocumentLimit = defaults.SingleDocumentLimit
	}

	if o.ChunkSize == 0 {
		o.ChunkSize = defaults.ChunkSize
	}

	if o.Now == nil {
		o.Now = defaults.Now
	}

	if o.SingleDocumentLimit < 0 {
		return o, fmt.Errorf("%w: single document limit must not be negative, got %d", ErrInvalidOptions, o.SingleDocumentLimit)
	}

	if o.ChunkSize < 0 {
		return o, fmt.Errorf("%w: chunk size must not be negative, got %d", ErrInvalidOptions, o.ChunkSize)
	}

	if strings.ContainsAny(o.BaseName, `/\`) {
		return o, fmt.Errorf("%w: base name must not contain a path separator: %s", ErrInvalidOptions, o.BaseName)
	}

	if o.Title == "" {
		o.Title = cases.Title(language.English).String(strings.NewReplacer("_", " ", "-", " ").Replace(o.BaseName))
	}

	return o, nil
}

func (o Options) singleName() string {
	return o.BaseName + ".md"
}

func (o Options) chunkName(part int) string {
	return fmt.Sprintf("%s_%d.md", o.BaseName, part)
}

func (o Options) indexName() string {
	return o.BaseName + "_index.md"
}
