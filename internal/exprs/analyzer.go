// Package exprs implements the Expression Analyzer (§4.5): given a
// raw SQL scalar fragment authored in a ColumnSpec/WhereClause/Having
// predicate, it extracts the bareword column references, detects a
// top-level aggregate-function call, and lists the function
// identifiers used. It is deliberately a lightweight tokenizer, not a
// SQL parser — grounded on original_source's SQLExpressionParser,
// reimplemented with Go regexp rather than translated line-for-line.
package exprs

import (
	"regexp"
	"sort"
	"strings"
)

// sqlKeywords are barewords that never count as a column reference.
var sqlKeywords = map[string]bool{
	"select": true, "from": true, "where": true, "group": true, "by": true,
	"order": true, "having": true, "case": true, "when": true, "then": true,
	"else": true, "end": true, "and": true, "or": true, "not": true,
	"in": true, "exists": true, "between": true, "like": true, "is": true,
	"null": true, "distinct": true, "as": true, "on": true, "inner": true,
	"left": true, "right": true, "full": true, "outer": true, "join": true,
	"union": true, "intersect": true, "except": true, "with": true, "recursive": true,
	"true": true, "false": true, "asc": true, "desc": true, "over": true, "partition": true,
}

// aggregateFunctions is the recognized aggregate set from §4.5: a
// fragment invoking any of these is IsAggregate.
var aggregateFunctions = map[string]bool{
	"sum": true, "count": true, "avg": true, "min": true, "max": true,
	"stddev": true, "variance": true,
}

// sqlFunctions is a defensive redundant check against known
// non-aggregate built-ins that should never surface as a column
// reference even in the unlikely case they are not immediately
// followed by an opening parenthesis in the fragment (matches the
// teacher corpus's belt-and-suspenders SQL_FUNCTIONS list).
var sqlFunctions = map[string]bool{
	"concat": true, "substring": true, "length": true, "upper": true,
	"lower": true, "trim": true, "cast": true, "convert": true,
	"coalesce": true, "nullif": true, "isnull": true, "year": true,
	"month": true, "day": true, "now": true, "round": true, "abs": true,
	"ceiling": true, "floor": true, "row_number": true, "rank": true,
	"dense_rank": true, "lead": true, "lag": true, "first_value": true,
	"last_value": true,
}

var (
	stringLiteralPattern  = regexp.MustCompile(`'[^']*'|"[^"]*"`)
	lineCommentPattern    = regexp.MustCompile(`--.*`)
	blockCommentPattern   = regexp.MustCompile(`(?s)/\*.*?\*/`)
	tokenPattern          = regexp.MustCompile(`\b[a-zA-Z_@][a-zA-Z0-9_]*\b`)
	functionCallPattern   = regexp.MustCompile(`[a-zA-Z_@][a-zA-Z0-9_]*\s*\(`)
	numericLiteralPattern = regexp.MustCompile(`^\d+\.?\d*$`)

	// MacroPattern matches a placeholder macro invocation (§4.6,
	// e.g. "@newpk()", "@Feature('tier')"). Exported so
	// internal/sqlgen can substitute a matched invocation with its
	// dialect-declared expansion text.
	MacroPattern = regexp.MustCompile(`@([A-Za-z_][A-Za-z0-9_]*)\([^)]*\)`)
)

// DetectMacro reports the name of the first placeholder macro
// invocation in expression, if any.
func DetectMacro(expression string) (name string, found bool) {
	m := MacroPattern.FindStringSubmatch(expression)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Result is the outcome of analyzing one SQL scalar fragment.
type Result struct {
	ReferencedColumns []string // sorted, deduplicated, original case
	IsAggregate       bool
	FunctionsUsed     []string // sorted, lowercased, deduplicated
}

// Analyze tokenizes expression and classifies each bareword as either
// a column reference or a function/keyword to ignore. An empty or
// whitespace-only expression (the "identity mapping" case, §3) yields
// a zero Result — callers treat that as "references the column of the
// same output name" separately, since that is not a fragment to
// tokenize at all.
func Analyze(expression string) Result {
	if strings.TrimSpace(expression) == "" {
		return Result{}
	}

	cleaned := clean(expression)

	functionSet := map[string]bool{}
	for _, m := range functionCallPattern.FindAllString(cleaned, -1) {
		name := strings.ToLower(strings.TrimSpace(m[:len(m)-1]))
		functionSet[name] = true
	}

	isAggregate := false
	for name := range functionSet {
		if aggregateFunctions[name] {
			isAggregate = true
			break
		}
	}

	columns := map[string]string{}
	for _, loc := range tokenPattern.FindAllStringIndex(cleaned, -1) {
		token := cleaned[loc[0]:loc[1]]
		lower := strings.ToLower(token)

		if sqlKeywords[lower] || sqlFunctions[lower] || aggregateFunctions[lower] {
			continue
		}
		if numericLiteralPattern.MatchString(token) {
			continue
		}
		if isFollowedByParen(cleaned, loc[1]) {
			continue
		}
		if _, exists := columns[lower]; !exists {
			columns[lower] = token
		}
	}

	return Result{
		ReferencedColumns: sortedValues(columns),
		IsAggregate:       isAggregate,
		FunctionsUsed:     sortedKeys(functionSet),
	}
}

func clean(expression string) string {
	cleaned := stringLiteralPattern.ReplaceAllString(expression, "")
	cleaned = lineCommentPattern.ReplaceAllString(cleaned, "")
	cleaned = blockCommentPattern.ReplaceAllString(cleaned, "")
	return cleaned
}

func isFollowedByParen(s string, pos int) bool {
	for pos < len(s) && (s[pos] == ' ' || s[pos] == '\t' || s[pos] == '\n') {
		pos++
	}
	return pos < len(s) && s[pos] == '('
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedValues(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
