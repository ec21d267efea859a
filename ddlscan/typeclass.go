package ddlscan

import (
	"strings"

	"github.com/shibukawa/erdump"
)

// typeRules is evaluated in order; the first rule with a matching substring wins.
var typeRules = []struct {
	category erdump.TypeCategory
	markers  []string
}{
	{erdump.TypeString, []string{"VARCHAR", "CHAR"}},
	{erdump.TypeNumber, []string{"NUMBER", "INTEGER", "DECIMAL"}},
	{erdump.TypeDate, []string{"DATE", "TIMESTAMP"}},
	{erdump.TypeLOB, []string{"CLOB", "BLOB"}},
}

// ClassifyType reduces a vendor specific type declaration to a TypeCategory
func ClassifyType(raw string) erdump.TypeCategory {
	upper := strings.ToUpper(raw)

	for _, rule := range typeRules {
		for _, marker := range rule.markers {
			if strings.Contains(upper, marker) {
				return rule.category
			}
		}
	}

	return erdump.TypeOther
}
