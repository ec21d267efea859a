package formatter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnbalancedParentheses is returned when a statement has mismatched parentheses
var ErrUnbalancedParentheses = errors.New("unbalanced parentheses")

// DDLFormatter pretty prints schema definition statements. CREATE TABLE
// statements get one member per line; everything else is normalized onto a
// single line. Keywords are upper-cased, identifiers are kept as written.
type DDLFormatter struct {
	indentSize int
}

// NewDDLFormatter creates a new DDL formatter
func NewDDLFormatter() *DDLFormatter {
	return &DDLFormatter{
		indentSize: 4,
	}
}

// Format formats a single statement
func (f *DDLFormatter) Format(sql string) (string, error) {
	tokens := f.tokenize(sql)

	if err := checkBalance(tokens); err != nil {
		return "", fmt.Errorf("failed to format statement: %w", err)
	}

	return f.formatTokens(tokens), nil
}

// Token represents a DDL token
type Token struct {
	Type  TokenType
	Value string
}

type TokenType int

const (
	TokenKeyword TokenType = iota
	TokenTypeName
	TokenIdentifier
	TokenOperator
	TokenLiteral
	TokenComment
	TokenComma
	TokenOpenParen
	TokenCloseParen
)

var (
	lineCommentRe     = regexp.MustCompile(`^--[^\n]*`)
	blockCommentRe    = regexp.MustCompile(`^/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`)
	stringLiteralRe   = regexp.MustCompile(`^(?:'(?:[^']|'')*'|"[^"]*")`)
	quotedIdentRe     = regexp.MustCompile("^(?:`[^`]*`|\\[[^\\]]*\\])")
	numberRe          = regexp.MustCompile(`^\d+(?:\.\d+)?`)
	identifierRe      = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_$#]*`)
	excessBlankLineRe = regexp.MustCompile(`\n\s*\n\s*\n`)
)

// keywords are upper-cased and separated from a following '('
var keywords = map[string]bool{
	"CREATE": true, "TABLE": true, "GLOBAL": true, "LOCAL": true, "TEMPORARY": true,
	"TEMP": true, "IF": true, "NOT": true, "EXISTS": true, "NULL": true,
	"PRIMARY": true, "KEY": true, "FOREIGN": true, "REFERENCES": true, "CONSTRAINT": true,
	"UNIQUE": true, "CHECK": true, "DEFAULT": true, "ON": true, "DELETE": true,
	"UPDATE": true, "CASCADE": true, "SET": true, "RESTRICT": true, "NO": true,
	"ACTION": true, "INDEX": true, "BITMAP": true, "ALTER": true, "ADD": true,
	"ONLY": true, "MODIFY": true, "DROP": true, "COLUMN": true, "TABLESPACE": true,
	"ENABLE": true, "DISABLE": true, "AND": true, "OR": true, "IN": true,
	"COLLATE": true, "GENERATED": true, "ALWAYS": true, "AS": true, "IDENTITY": true,
}

// typeNames are upper-cased and keep their precision qualifier attached
var typeNames = map[string]bool{
	"NUMBER": true, "NUMERIC": true, "DECIMAL": true, "INTEGER": true, "INT": true,
	"SMALLINT": true, "BIGINT": true, "FLOAT": true, "REAL": true, "DOUBLE": true,
	"VARCHAR": true, "VARCHAR2": true, "NVARCHAR": true, "NVARCHAR2": true, "CHAR": true,
	"NCHAR": true, "TEXT": true, "DATE": true, "TIME": true, "TIMESTAMP": true,
	"CLOB": true, "NCLOB": true, "BLOB": true, "RAW": true, "BOOLEAN": true,
}

// Tokenize breaks a statement into tokens (public for testing)
func (f *DDLFormatter) Tokenize(sql string) []Token {
	return f.tokenize(sql)
}

func (f *DDLFormatter) tokenize(sql string) []Token {
	var tokens []Token

	pos := 0
	for pos < len(sql) {
		rest := sql[pos:]

		if c := rest[0]; c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			pos++
			continue
		}

		if m := lineCommentRe.FindString(rest); m != "" {
			tokens = append(tokens, Token{Type: TokenComment, Value: m})
			pos += len(m)

			continue
		}

		if m := blockCommentRe.FindString(rest); m != "" {
			tokens = append(tokens, Token{Type: TokenComment, Value: m})
			pos += len(m)

			continue
		}

		if m := stringLiteralRe.FindString(rest); m != "" {
			// double quoted text is a quoted identifier, single quoted a literal
			tokenType := TokenLiteral
			if m[0] == '"' {
				tokenType = TokenIdentifier
			}

			tokens = append(tokens, Token{Type: tokenType, Value: m})
			pos += len(m)

			continue
		}

		if m := quotedIdentRe.FindString(rest); m != "" {
			tokens = append(tokens, Token{Type: TokenIdentifier, Value: m})
			pos += len(m)

			continue
		}

		if m := numberRe.FindString(rest); m != "" {
			tokens = append(tokens, Token{Type: TokenLiteral, Value: m})
			pos += len(m)

			continue
		}

		// a minus sign directly before a number is a sign when no operand precedes it
		if rest[0] == '-' && len(rest) > 1 && rest[1] >= '0' && rest[1] <= '9' && !endsOperand(tokens) {
			m := "-" + numberRe.FindString(rest[1:])
			tokens = append(tokens, Token{Type: TokenLiteral, Value: m})
			pos += len(m)

			continue
		}

		if m := identifierRe.FindString(rest); m != "" {
			upper := strings.ToUpper(m)

			switch {
			case typeNames[upper]:
				tokens = append(tokens, Token{Type: TokenTypeName, Value: upper})
			case keywords[upper]:
				tokens = append(tokens, Token{Type: TokenKeyword, Value: upper})
			default:
				tokens = append(tokens, Token{Type: TokenIdentifier, Value: m})
			}

			pos += len(m)

			continue
		}

		char := rest[0]
		switch char {
		case ',':
			tokens = append(tokens, Token{Type: TokenComma, Value: ","})
		case '(':
			tokens = append(tokens, Token{Type: TokenOpenParen, Value: "("})
		case ')':
			tokens = append(tokens, Token{Type: TokenCloseParen, Value: ")"})
		case '<', '>', '!', '|', ':':
			// Handle multi-character operators
			if len(rest) > 1 && (rest[1] == '=' || (char == '<' && rest[1] == '>') || (char == '|' && rest[1] == '|') || (char == ':' && rest[1] == ':')) {
				tokens = append(tokens, Token{Type: TokenOperator, Value: rest[:2]})
				pos++
			} else {
				tokens = append(tokens, Token{Type: TokenOperator, Value: string(char)})
			}
		default:
			tokens = append(tokens, Token{Type: TokenOperator, Value: string(char)})
		}

		pos++
	}

	return tokens
}

// endsOperand reports whether the last token can be the left side of a binary minus
func endsOperand(tokens []Token) bool {
	if len(tokens) == 0 {
		return false
	}

	switch tokens[len(tokens)-1].Type {
	case TokenIdentifier, TokenLiteral, TokenCloseParen, TokenTypeName:
		return true
	default:
		return false
	}
}

func checkBalance(tokens []Token) error {
	depth := 0

	for _, token := range tokens {
		switch token.Type {
		case TokenOpenParen:
			depth++
		case TokenCloseParen:
			depth--
			if depth < 0 {
				return fmt.Errorf("%w: unexpected ')'", ErrUnbalancedParentheses)
			}
		}
	}

	if depth != 0 {
		return fmt.Errorf("%w: %d unclosed '('", ErrUnbalancedParentheses, depth)
	}

	return nil
}

// isCreateTable reports whether the tokens start a CREATE TABLE statement
func isCreateTable(tokens []Token) bool {
	if len(tokens) == 0 || tokens[0].Value != "CREATE" {
		return false
	}

	for _, token := range tokens[1:] {
		switch token.Value {
		case "GLOBAL", "LOCAL", "TEMPORARY", "TEMP":
			continue
		case "TABLE":
			return true
		default:
			return false
		}
	}

	return false
}

// formatTokens lays the tokens out. Members of a table body start on their
// own line; nested parentheses stay inline.
func (f *DDLFormatter) formatTokens(tokens []Token) string {
	var (
		result    strings.Builder
		depth     int
		lastToken *Token
		lineStart bool
	)

	table := isCreateTable(tokens)

	newline := func(level int) {
		result.WriteString("\n")
		result.WriteString(strings.Repeat(" ", level*f.indentSize))

		lineStart = true
	}

	for i := range tokens {
		token := tokens[i]

		switch token.Type {
		case TokenOpenParen:
			if lastToken != nil && !lineStart && f.needsSpaceBeforeParen(*lastToken, table && depth == 0) {
				result.WriteString(" ")
			}

			result.WriteString("(")

			depth++
			if table && depth == 1 {
				newline(1)
				lastToken = &tokens[i]

				continue
			}

		case TokenCloseParen:
			if table && depth == 1 {
				newline(0)
			}

			result.WriteString(")")

			depth--

		case TokenComma:
			result.WriteString(",")

			if table && depth == 1 {
				newline(1)
				lastToken = &tokens[i]

				continue
			}

		case TokenComment:
			if lastToken != nil && !lineStart {
				result.WriteString(" ")
			}

			result.WriteString(token.Value)

			if strings.HasPrefix(token.Value, "--") {
				level := 0
				if table && depth >= 1 {
					level = 1
				}

				newline(level)
				lastToken = &tokens[i]

				continue
			}

		default:
			if lastToken != nil && !lineStart && f.needsSpaceBetween(*lastToken, token) {
				result.WriteString(" ")
			}

			result.WriteString(token.Value)
		}

		lineStart = false
		lastToken = &tokens[i]
	}

	return f.cleanupFormatting(result.String())
}

// needsSpaceBeforeParen separates '(' from keywords and from a table name
func (f *DDLFormatter) needsSpaceBeforeParen(last Token, tableBody bool) bool {
	if tableBody {
		return true
	}

	return last.Type == TokenKeyword || last.Type == TokenComma || last.Type == TokenOperator && last.Value != "."
}

// needsSpaceBetween checks if a token needs a space before it
func (f *DDLFormatter) needsSpaceBetween(last, current Token) bool {
	if last.Type == TokenOpenParen || last.Value == "." {
		return false
	}

	return current.Value != ";" && current.Value != "."
}

// cleanupFormatting trims trailing whitespace and collapses blank lines
func (f *DDLFormatter) cleanupFormatting(sql string) string {
	lines := strings.Split(sql, "\n")

	var cleanedLines []string

	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		cleanedLines = append(cleanedLines, trimmed)
	}

	result := strings.Join(cleanedLines, "\n")

	// Remove excessive blank lines
	result = excessBlankLineRe.ReplaceAllString(result, "\n\n")

	return strings.TrimSpace(result)
}
