// Package extract scans Java source text for hardcoded natural-language
// string literals and reconstructs values that are fragmented across
// concatenation expressions.
//
// Extraction is pure text processing. Comments are stripped first (block
// comments, then line comments, then annotation arguments), concatenation
// shapes are folded into single values with {} placeholders, and the
// remaining plain literals are collected through structural filters so that
// identifiers, constants and other code-like strings never reach the
// catalog. Values that contain no characters outside 7-bit ASCII are
// discarded: the tool targets user-facing text in the source language, not
// English fragments baked into code.
package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Literal is one extracted translatable value and the 1-based source line
// it was first seen on.
type Literal struct {
	Value string
	Line  int
}

// stringLit matches a double-quoted Java string literal; group 1 is the
// content with escape sequences kept verbatim.
var stringLit = regexp.MustCompile(`"([^"\\]*(?:\\.[^"\\]*)*)"`)

var (
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineComment  = regexp.MustCompile(`//[^\n]*`)
	annotation   = regexp.MustCompile(`@\w+\s*\([^)]*\)`)
)

// exclusions rejects string values that are code, not prose. Applied to the
// trimmed value; any match disqualifies.
var exclusions = []*regexp.Regexp{
	regexp.MustCompile(`^\s*$`),                  // blank
	regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`), // identifier
	regexp.MustCompile(`^\d+$`),                  // pure number
	regexp.MustCompile(`^[\w.]+\.[a-zA-Z]+$`),    // file or package name
	regexp.MustCompile(`^[A-Z_]+$`),              // constant
	regexp.MustCompile(`^\s*[{}\[\](),;]+\s*$`),  // brackets and punctuation
	regexp.MustCompile(`^(true|false|null)$`),    // keyword
	regexp.MustCompile(`^\s*[+\-*/=<>!&|]+\s*$`), // operator run
}

// ScanSource extracts the translatable literals from one Java source file,
// in document order, deduplicated by value (first occurrence wins).
func ScanSource(src string) []Literal {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	cleaned := stripComments(src)

	var out []Literal
	seen := make(map[string]bool)
	for _, ll := range splitLogical(cleaned) {
		if ll.discard {
			continue
		}
		for _, c := range scanLogical(ll) {
			if seen[c.value] {
				continue
			}
			seen[c.value] = true
			out = append(out, Literal{Value: c.value, Line: c.line})
		}
	}
	return out
}

// stripComments blanks block comments, line comments and annotation
// arguments, in that order. Blanked bytes become spaces and newlines are
// kept, so byte offsets and line numbers in the result line up with the
// original source.
func stripComments(src string) string {
	b := []byte(src)
	for _, re := range []*regexp.Regexp{blockComment, lineComment, annotation} {
		for _, m := range re.FindAllIndex(b, -1) {
			blankSpan(b, m[0], m[1])
		}
	}
	return string(b)
}

func blankSpan(b []byte, from, to int) {
	for i := from; i < to; i++ {
		if b[i] != '\n' {
			b[i] = ' '
		}
	}
}

// keepPlain decides whether a plain (non-reconstructed) literal belongs in
// the catalog: long enough, not code-shaped, and carrying at least one
// non-ASCII character.
func keepPlain(value string) bool {
	trimmed := strings.TrimSpace(value)
	if utf8.RuneCountInString(trimmed) < 2 {
		return false
	}
	for _, re := range exclusions {
		if re.MatchString(trimmed) {
			return false
		}
	}
	return hasNonASCII(trimmed)
}

// hasNonASCII reports whether s contains at least one rune outside 7-bit
// ASCII. Reconstructed values pass only this check: their shape already
// proved they are message text, not identifiers.
func hasNonASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return true
		}
	}
	return false
}

// candidate is an extracted value positioned within one logical line.
type candidate struct {
	value  string
	offset int
	line   int
}

// scanLogical runs the reconstruction passes and then the plain-literal
// pass over one logical line, returning candidates in text order.
func scanLogical(ll logical) []candidate {
	text := []byte(ll.text)

	var cands []candidate
	cands = append(cands, matchFormatCalls(text, &ll)...)
	cands = append(cands, matchBuilderChains(text, &ll)...)
	cands = append(cands, matchConcatChains(text, &ll)...)

	for _, m := range stringLit.FindAllSubmatchIndex(text, -1) {
		value := string(text[m[2]:m[3]])
		if keepPlain(value) {
			cands = append(cands, candidate{value: value, offset: m[0], line: ll.lineAt(m[0])})
		}
	}

	sort.SliceStable(cands, func(i, j int) bool { return cands[i].offset < cands[j].offset })
	return cands
}
