package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/shibukawa/erdump"
	"github.com/shibukawa/erdump/materialize"
)

// ApplyCmd represents the apply command
type ApplyCmd struct {
	Input string `arg:"" help:"Dump file to read ('-' for stdin)"`

	Env           string        `help:"Database environment from the configuration file" short:"e"`
	Driver        string        `help:"Database driver (sqlite, postgres, mysql)"`
	DSN           string        `help:"Database connection string (overrides environment)"`
	NoForeignKeys bool          `help:"Do not create foreign keys"`
	IfNotExists   bool          `help:"Add IF NOT EXISTS to CREATE TABLE"`
	DryRun        bool          `help:"Print the DDL without connecting"`
	Timeout       time.Duration `help:"Timeout for the whole operation" default:"1m"`

	FilterFlags `embed:""`
}

// Run executes the apply command
func (a *ApplyCmd) Run(ctx *Context) error {
	config, err := erdump.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	driver, dsn, err := a.resolveDatabase(config)
	if err != nil {
		return err
	}

	dialect, err := materialize.DialectFromDriver(driver)
	if err != nil {
		return err
	}

	schema, err := loadSchema(ctx, config, a.Input, a.FilterFlags)
	if err != nil {
		return err
	}

	if schema.IsEmpty() {
		reportEmpty(ctx, a.Input)
		return nil
	}

	statements, err := materialize.GenerateDDL(schema, dialect, materialize.Options{
		ForeignKeys: !a.NoForeignKeys,
		IfNotExists: a.IfNotExists,
	})
	if err != nil {
		return fmt.Errorf("failed to generate DDL: %w", err)
	}

	if a.DryRun {
		for _, stmt := range statements {
			fmt.Printf("%s;\n\n", stmt)
		}

		return nil
	}

	if dsn == "" {
		return ErrMissingDatabase
	}

	runCtx, cancel := context.WithTimeout(context.Background(), a.Timeout)
	defer cancel()

	if ctx.Verbose {
		color.Blue("Connecting to %s database", dialect)
	}

	db, _, err := materialize.Open(runCtx, driver, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := materialize.Apply(runCtx, db, statements); err != nil {
		return err
	}

	tables, err := materialize.ListTables(runCtx, db, dialect)
	if err != nil {
		return err
	}

	if ctx.Verbose {
		for _, name := range tables {
			color.Blue("  %s", name)
		}
	}

	if !ctx.Quiet {
		color.Green("Applied %d statements; database now has %d tables", len(statements), len(tables))
	}

	return nil
}

// resolveDatabase picks the driver and connection string from flags and
// the named environment. Flags win.
func (a *ApplyCmd) resolveDatabase(config *erdump.Config) (string, string, error) {
	driver := a.Driver
	dsn := a.DSN

	if a.Env != "" {
		db, ok := config.Databases[a.Env]
		if !ok {
			return "", "", fmt.Errorf("%w: %s", erdump.ErrEnvironmentNotFound, a.Env)
		}

		if driver == "" {
			driver = db.Driver
		}

		if dsn == "" {
			dsn = db.Connection
		}
	}

	if driver == "" {
		if dsn == "" && !a.DryRun {
			return "", "", ErrMissingDatabase
		}

		return "", "", ErrMissingDriver
	}

	return driver, dsn, nil
}
