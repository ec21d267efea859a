package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/erdump"
	"github.com/shibukawa/erdump/materialize"
)

const sampleDump = `
CREATE TABLE DEPT (DEPTNO NUMBER(2) PRIMARY KEY, DNAME VARCHAR2(14));
CREATE TABLE EMP (
    EMPNO NUMBER(4) NOT NULL,
    ENAME VARCHAR2(10),
    DEPTNO NUMBER(2),
    CONSTRAINT PK_EMP PRIMARY KEY (EMPNO),
    CONSTRAINT FK_DEPTNO FOREIGN KEY (DEPTNO) REFERENCES DEPT (DEPTNO)
);
CREATE INDEX IDX_EMP_ENAME ON EMP (ENAME);
`

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func testContext(t *testing.T) *Context {
	t.Helper()
	return &Context{Config: filepath.Join(t.TempDir(), "missing.yaml"), Quiet: true}
}

func TestRenderCmd_WritesSingleDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeTemp(t, dir, "dump.sql", sampleDump)
	out := filepath.Join(dir, "erd")

	cmd := &RenderCmd{Input: input, Output: out, BaseName: "hr"}
	assert.NoError(t, cmd.Run(testContext(t)))

	data, err := os.ReadFile(filepath.Join(out, "hr.md"))
	assert.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "erDiagram")
	assert.Contains(t, content, `EMP ||--o{ DEPT : "references"`)
	assert.Contains(t, content, "dump.sql")
}

func TestRenderCmd_Partitions(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	for i := range 12 {
		fmt.Fprintf(&sb, "CREATE TABLE T%02d (ID NUMBER PRIMARY KEY);\n", i)
	}

	dir := t.TempDir()
	input := writeTemp(t, dir, "big.sql", sb.String())
	out := filepath.Join(dir, "erd")

	cmd := &RenderCmd{Input: input, Output: out, SingleDocumentLimit: 10, ChunkSize: 5}
	assert.NoError(t, cmd.Run(testContext(t)))

	entries, err := os.ReadDir(out)
	assert.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}

	assert.Equal(t, []string{"schema_1.md", "schema_2.md", "schema_3.md", "schema_index.md"}, names)
}

func TestRenderCmd_EmptyInputWritesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeTemp(t, dir, "empty.sql", "INSERT INTO T VALUES (1);\n")
	out := filepath.Join(dir, "erd")

	cmd := &RenderCmd{Input: input, Output: out}
	assert.NoError(t, cmd.Run(testContext(t)))

	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestRenderCmd_Filter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeTemp(t, dir, "dump.sql", sampleDump)
	out := filepath.Join(dir, "erd")

	cmd := &RenderCmd{Input: input, Output: out, FilterFlags: FilterFlags{Exclude: []string{"dept"}}}
	assert.NoError(t, cmd.Run(testContext(t)))

	data, err := os.ReadFile(filepath.Join(out, "schema.md"))
	assert.NoError(t, err)
	assert.NotContains(t, string(data), "### DEPT")
	assert.Contains(t, string(data), "### EMP")
}

func TestRenderCmd_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeTemp(t, dir, "dump.sql", sampleDump)

	tests := []struct {
		name string
		cmd  *RenderCmd
		want error
	}{
		{
			name: "missing input",
			cmd:  &RenderCmd{Input: filepath.Join(dir, "nope.sql")},
			want: ErrInputFileMissing,
		},
		{
			name: "bad expression",
			cmd:  &RenderCmd{Input: input, FilterFlags: FilterFlags{Where: "name +"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Run(testContext(t))
			assert.Error(t, err)

			if tt.want != nil {
				assert.IsError(t, err, tt.want)
			}
		})
	}
}

func TestFilterFlags_Config(t *testing.T) {
	base := erdump.FilterConfig{Include: []string{"*"}, Exclude: []string{"TMP_*"}, Expression: "columns > 0"}

	got := FilterFlags{Include: []string{"EMP*"}, Exclude: []string{"LOG"}}.config(base)
	assert.Equal(t, []string{"EMP*"}, got.Include)
	assert.Equal(t, []string{"TMP_*", "LOG"}, got.Exclude)
	assert.Equal(t, "columns > 0", got.Expression)

	got = FilterFlags{Where: "size(primary_keys) > 0"}.config(base)
	assert.Equal(t, []string{"*"}, got.Include)
	assert.Equal(t, "size(primary_keys) > 0", got.Expression)
}

func TestFlattenCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeTemp(t, dir, "dump.sql", sampleDump)
	output := filepath.Join(dir, "flat.sql")

	cmd := &FlattenCmd{Input: input, Output: output}
	assert.NoError(t, cmd.Run(testContext(t)))

	data, err := os.ReadFile(output)
	assert.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "-- Tables (2)")
	assert.Contains(t, content, "-- Indexes (1)")
	assert.True(t, strings.Index(content, "CREATE TABLE DEPT") < strings.Index(content, "CREATE INDEX"))
}

func TestFlattenCmd_Pretty(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeTemp(t, dir, "dump.sql", "CREATE TABLE A (ID NUMBER, NAME VARCHAR2(10));")
	output := filepath.Join(dir, "flat.sql")

	cmd := &FlattenCmd{Input: input, Output: output, Pretty: true}
	assert.NoError(t, cmd.Run(testContext(t)))

	data, err := os.ReadFile(output)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "\n    NAME VARCHAR2(10)\n")
}

func TestExportCmd_AddsExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeTemp(t, dir, "dump.sql", sampleDump)

	tests := []struct {
		format string
		file   string
		want   string
	}{
		{format: "yaml", file: "schema.yaml", want: "dangling_relationships: 0"},
		{format: "tbls", file: "schema.json", want: `"name": "EMP"`},
		{format: "graphml", file: "schema.graphml", want: "<graphml"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			cmd := &ExportCmd{Input: input, Format: tt.format, Output: filepath.Join(dir, tt.format, "schema")}
			assert.NoError(t, cmd.Run(testContext(t)))

			data, err := os.ReadFile(filepath.Join(dir, tt.format, tt.file))
			assert.NoError(t, err)
			assert.Contains(t, string(data), tt.want)
		})
	}
}

func TestApplyCmd_SQLite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeTemp(t, dir, "dump.sql", sampleDump)
	dbPath := filepath.Join(dir, "erd.db")

	cmd := &ApplyCmd{Input: input, Driver: "sqlite", DSN: dbPath, Timeout: time.Minute}
	assert.NoError(t, cmd.Run(testContext(t)))

	db, dialect, err := materialize.Open(t.Context(), "sqlite3", dbPath)
	assert.NoError(t, err)

	defer db.Close()

	tables, err := materialize.ListTables(t.Context(), db, dialect)
	assert.NoError(t, err)
	assert.Equal(t, []string{"DEPT", "EMP"}, tables)
}

func TestApplyCmd_ResolveDatabase(t *testing.T) {
	config := &erdump.Config{Databases: map[string]erdump.Database{
		"dev": {Driver: "postgres", Connection: "postgres://localhost/dev"},
	}}

	tests := []struct {
		name       string
		cmd        ApplyCmd
		wantDriver string
		wantDSN    string
		wantErr    error
	}{
		{name: "environment", cmd: ApplyCmd{Env: "dev"}, wantDriver: "postgres", wantDSN: "postgres://localhost/dev"},
		{name: "flag overrides environment", cmd: ApplyCmd{Env: "dev", DSN: "postgres://other/db"}, wantDriver: "postgres", wantDSN: "postgres://other/db"},
		{name: "flags only", cmd: ApplyCmd{Driver: "mysql", DSN: "root@/erd"}, wantDriver: "mysql", wantDSN: "root@/erd"},
		{name: "dry run needs only a driver", cmd: ApplyCmd{Driver: "sqlite", DryRun: true}, wantDriver: "sqlite"},
		{name: "unknown environment", cmd: ApplyCmd{Env: "prod"}, wantErr: erdump.ErrEnvironmentNotFound},
		{name: "nothing given", cmd: ApplyCmd{}, wantErr: ErrMissingDatabase},
		{name: "dry run without driver", cmd: ApplyCmd{DryRun: true}, wantErr: ErrMissingDriver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver, dsn, err := tt.cmd.resolveDatabase(config)
			if tt.wantErr != nil {
				assert.IsError(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantDriver, driver)
			assert.Equal(t, tt.wantDSN, dsn)
		})
	}
}
