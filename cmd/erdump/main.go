package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/shibukawa/erdump"
)

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool
}

// Logger returns the diagnostic hook handed to library packages. It prints
// only in verbose mode.
func (c *Context) Logger() func(format string, args ...any) {
	if !c.Verbose {
		return nil
	}

	return func(format string, args ...any) {
		color.Cyan(format, args...)
	}
}

// CLI represents the command-line interface
var CLI struct {
	Config  string     `help:"Configuration file path" default:"${default_config}"`
	Verbose bool       `help:"Enable verbose output" short:"v"`
	Quiet   bool       `help:"Suppress output" short:"q"`
	Render  RenderCmd  `cmd:"" help:"Render ER diagram documents from a dump"`
	Flatten FlattenCmd `cmd:"" help:"Re-serialize schema statements grouped by kind"`
	Export  ExportCmd  `cmd:"" help:"Export the inferred schema (tbls JSON, YAML, GraphML)"`
	Apply   ApplyCmd   `cmd:"" help:"Create the inferred schema in a database"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run() error {
	fmt.Println("erdump v0.1.0")
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("erdump"),
		kong.Description("Infer entity-relationship diagrams from database dumps"),
		kong.Vars{"default_config": erdump.DefaultConfigFile},
	)

	appCtx := &Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
