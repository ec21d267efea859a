package ddlscan

import (
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

const bucketDump = `
CREATE TABLE EMP (
  ID NUMBER PRIMARY KEY,
  NAME VARCHAR2(50)
);
CREATE UNIQUE INDEX EMP_NAME_UX ON EMP (NAME);
CREATE INDEX EMP_ID_IX ON EMP (ID);
ALTER TABLE EMP MODIFY NAME NOT NULL;
ALTER TABLE EMP ADD CONSTRAINT FK_EMP_DEPT FOREIGN KEY (DEPT_ID) REFERENCES DEPT (ID);
INSERT INTO EMP VALUES (1, 'x');
`

func TestExtractBuckets(t *testing.T) {
	buckets := ExtractBuckets(bucketDump)

	assert.Equal(t, []string{"CREATE TABLE EMP ( ID NUMBER PRIMARY KEY, NAME VARCHAR2(50) );"}, buckets.Tables)
	assert.Equal(t, []string{
		"CREATE UNIQUE INDEX EMP_NAME_UX ON EMP (NAME);",
		"CREATE INDEX EMP_ID_IX ON EMP (ID);",
	}, buckets.Indexes)
	assert.Equal(t, []string{"ALTER TABLE EMP MODIFY NAME NOT NULL;"}, buckets.Alters)
	assert.Equal(t, []string{"ALTER TABLE EMP ADD CONSTRAINT FK_EMP_DEPT FOREIGN KEY (DEPT_ID) REFERENCES DEPT (ID);"}, buckets.Constraints)
	assert.Equal(t, 5, buckets.Len())
}

func TestBuckets_Flatten(t *testing.T) {
	buckets := ExtractBuckets(bucketDump)

	expected := `-- Tables (1)
CREATE TABLE EMP ( ID NUMBER PRIMARY KEY, NAME VARCHAR2(50) );

-- Indexes (2)
CREATE UNIQUE INDEX EMP_NAME_UX ON EMP (NAME);
CREATE INDEX EMP_ID_IX ON EMP (ID);

-- Alter statements (1)
ALTER TABLE EMP MODIFY NAME NOT NULL;

-- Constraints (1)
ALTER TABLE EMP ADD CONSTRAINT FK_EMP_DEPT FOREIGN KEY (DEPT_ID) REFERENCES DEPT (ID);
`
	assert.Equal(t, expected, buckets.Flatten(FlattenOptions{}))
}

func TestBuckets_FlattenOmitsEmptyGroups(t *testing.T) {
	buckets := ExtractBuckets("CREATE INDEX IX ON T (A);")

	assert.Equal(t, "-- Indexes (1)\nCREATE INDEX IX ON T (A);\n", buckets.Flatten(FlattenOptions{}))
	assert.Equal(t, "", ExtractBuckets("SELECT 1;").Flatten(FlattenOptions{}))
}

type upperFormatter struct{ fail bool }

func (f upperFormatter) Format(sql string) (string, error) {
	if f.fail {
		return "", errors.New("cannot format")
	}

	return strings.ToUpper(sql), nil
}

func TestBuckets_FlattenWithFormatter(t *testing.T) {
	buckets := ExtractBuckets("create table t (a number); create index ix on t (a);")

	out := buckets.Flatten(FlattenOptions{Formatter: upperFormatter{}})
	assert.Contains(t, out, "CREATE TABLE T (A NUMBER);")
	// only table statements go through the formatter
	assert.Contains(t, out, "create index ix on t (a);")

	out = buckets.Flatten(FlattenOptions{Formatter: upperFormatter{fail: true}})
	assert.Contains(t, out, "create table t (a number);")
}
