package ddlscan

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/erdump"
)

func TestClassifyType(t *testing.T) {
	tests := []struct {
		input    string
		expected erdump.TypeCategory
	}{
		{"VARCHAR2", erdump.TypeString},
		{"varchar", erdump.TypeString},
		{"NCHAR", erdump.TypeString},
		{"NUMBER", erdump.TypeNumber},
		{"integer", erdump.TypeNumber},
		{"DECIMAL", erdump.TypeNumber},
		{"DATE", erdump.TypeDate},
		{"TIMESTAMP", erdump.TypeDate},
		{"CLOB", erdump.TypeLOB},
		{"blob", erdump.TypeLOB},
		{"BOOLEAN", erdump.TypeOther},
		{"FLOAT", erdump.TypeOther},
		{"", erdump.TypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyType(tt.input))
		})
	}
}

func TestClassifyType_FirstRuleWins(t *testing.T) {
	// contains both CHAR and NUMBER
	assert.Equal(t, erdump.TypeString, ClassifyType("CHARNUMBER"))
	assert.Equal(t, erdump.TypeString, ClassifyType("NUMBER_CHAR"))
	// DATE is checked before LOB
	assert.Equal(t, erdump.TypeDate, ClassifyType("DATEBLOB"))
}
