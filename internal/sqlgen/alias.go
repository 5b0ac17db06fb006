package sqlgen

import (
	"strconv"
	"strings"
)

// AliasMap resolves each table referenced by one model's SELECT body
// to its short SQL alias, per §4.6's aliasing discipline: the first
// table considered becomes "T"; every other table gets a short alias
// derived from the consonants in its name, with a numeric suffix
// assigned on collision.
type AliasMap map[string]string

// NewAliasMap builds the alias mapping for tables, in the exact order
// they should be considered — callers pass the base table first so it
// reliably becomes "T".
func NewAliasMap(tables []string) AliasMap {
	aliases := AliasMap{}
	used := map[string]bool{}

	for i, table := range tables {
		if table == "" {
			continue
		}
		if _, exists := aliases[table]; exists {
			continue
		}
		var alias string
		if i == 0 {
			alias = "T"
		} else {
			alias = consonantAlias(table, used)
		}
		aliases[table] = alias
		used[alias] = true
	}
	return aliases
}

// consonantAlias derives a short alias from table's consonant
// initials (see consonantInitials) and resolves a collision against
// an already-assigned alias by appending a numeric suffix, per §4.6.
func consonantAlias(table string, used map[string]bool) string {
	base := consonantInitials(table)
	if base == "" {
		base = "t"
	}
	if !used[base] {
		return base
	}
	for n := 2; ; n++ {
		candidate := base + strconv.Itoa(n)
		if !used[candidate] {
			return candidate
		}
	}
}

// consonantInitials walks table one delimiter-separated word at a
// time (words split on any non-alphanumeric byte, e.g. "_" or "."),
// and contributes the first consonant found in that word, skipping
// any leading vowels. A word with no consonant (all vowels, or
// numeric) contributes nothing. Result is lowercase.
func consonantInitials(table string) string {
	var b strings.Builder
	inWord := false
	contributed := false
	for _, r := range strings.ToLower(table) {
		if isWordChar(r) {
			if !inWord {
				inWord = true
				contributed = false
			}
			if contributed || !isLetter(r) || isVowel(r) {
				continue
			}
			b.WriteRune(r)
			contributed = true
		} else {
			inWord = false
		}
	}
	return b.String()
}

func isWordChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z'
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
