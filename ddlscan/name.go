package ddlscan

import "strings"

// NormalizeName maps a raw identifier token to a canonical name that is safe
// for diagram syntax: quotes and brackets are stripped, '#' becomes "_NUM",
// '.' and any other character outside [A-Za-z0-9_] become '_'.
//
// The result may be empty; callers reject empty names.
func NormalizeName(raw string) string {
	var sb strings.Builder

	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r == '"' || r == '\'' || r == '`' || r == '[' || r == ']':
			// stripped
		case r == '#':
			sb.WriteString("_NUM")
		case r == '_' || isASCIIAlnum(r):
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}

	return sb.String()
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// normalizeList splits a parenthesized column list body and normalizes each entry.
func normalizeList(list string) []string {
	var names []string

	for _, part := range strings.Split(list, ",") {
		if name := NormalizeName(part); name != "" {
			names = append(names, name)
		}
	}

	return names
}
