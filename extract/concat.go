// Concatenation reconstruction: folding values that Java code fragments
// across + chains, StringBuilder.append chains and format calls back into
// single catalog values with {} placeholders.
//
// Works on "logical lines": physical lines joined while a line ends with a
// dangling + outside a string literal, or the next line starts with +.
// Blank lines inside a join are absorbed. A chain that never completes is
// discarded wholesale together with its literal fragments, so a broken
// expression yields nothing rather than half a value.

package extract

import (
	"regexp"
	"strings"
)

// segment maps an offset in a joined logical line back to its source line.
type segment struct {
	joinedStart int
	srcLine     int
}

// logical is one statement's worth of text after join processing.
type logical struct {
	text    string
	segs    []segment
	discard bool
}

// lineAt returns the 1-based source line for an offset within the joined
// text.
func (l *logical) lineAt(off int) int {
	line := l.segs[0].srcLine
	for _, s := range l.segs {
		if s.joinedStart > off {
			break
		}
		line = s.srcLine
	}
	return line
}

// identOp matches a line that reads "identifier (or number) followed by an
// operator" — the only non-literal, non-blank shape a dangling chain may
// continue onto.
var identOp = regexp.MustCompile(`^[\w$]+\s*[-+*/%.;,)(\[\]]`)

// splitLogical joins the physical lines of comment-stripped source into
// logical lines.
func splitLogical(cleaned string) []logical {
	lines := strings.Split(cleaned, "\n")

	var out []logical
	i := 0
	for i < len(lines) {
		ll := logical{
			text: lines[i],
			segs: []segment{{joinedStart: 0, srcLine: i + 1}},
		}
		consumed := 1

		for {
			if endsWithConcat(ll.text) {
				k := i + consumed
				for k < len(lines) && strings.TrimSpace(lines[k]) == "" {
					k++
				}
				if k >= len(lines) {
					ll.discard = true
					consumed = k - i
					break
				}
				next := strings.TrimSpace(lines[k])
				if !continuable(next) {
					ll.discard = true
					consumed = k - i
					break
				}
				ll.segs = append(ll.segs, segment{joinedStart: len(ll.text) + 1, srcLine: k + 1})
				ll.text += " " + next
				consumed = k - i + 1
				continue
			}

			k := i + consumed
			if k < len(lines) {
				next := strings.TrimSpace(lines[k])
				if strings.HasPrefix(next, "+") {
					ll.segs = append(ll.segs, segment{joinedStart: len(ll.text) + 1, srcLine: k + 1})
					ll.text += " " + next
					consumed++
					continue
				}
			}
			break
		}

		out = append(out, ll)
		i += consumed
	}
	return out
}

// endsWithConcat reports whether the last non-space character of s is a +
// outside any string literal.
func endsWithConcat(s string) bool {
	inStr := false
	dangling := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inStr {
			switch c {
			case '\\':
				i++
			case '"':
				inStr = false
			}
			dangling = false
			continue
		}
		switch c {
		case '"':
			inStr = true
			dangling = false
		case '+':
			dangling = true
		case ' ', '\t':
			// keep
		default:
			dangling = false
		}
	}
	return dangling && !inStr
}

// continuable reports whether a dangling chain may join the given trimmed
// line.
func continuable(next string) bool {
	if stringLit.MatchString(next) {
		return true
	}
	return identOp.MatchString(next)
}

// formatCall matches the head of String.format / MessageFormat.format with
// a string literal as the first argument; group 1 is the literal content.
var formatCall = regexp.MustCompile(`\b(?:String|MessageFormat)\s*\.\s*format\s*\(\s*"([^"\\]*(?:\\.[^"\\]*)*)"`)

// matchFormatCalls emits the template argument of format calls as-is: the
// literal already carries its own placeholder syntax. Matched spans are
// blanked whether or not the value is emitted.
func matchFormatCalls(text []byte, ll *logical) []candidate {
	var cands []candidate
	for _, m := range formatCall.FindAllSubmatchIndex(text, -1) {
		value := string(text[m[2]:m[3]])
		if hasNonASCII(value) {
			cands = append(cands, candidate{value: value, offset: m[0], line: ll.lineAt(m[0])})
		}
		blankSpan(text, m[0], m[1])
	}
	return cands
}

// appendHead matches the start of one .append( link.
var appendHead = regexp.MustCompile(`^\.\s*append\s*\(`)

// wholeLit matches an argument that is exactly one string literal.
var wholeLit = regexp.MustCompile(`^"([^"\\]*(?:\\.[^"\\]*)*)"$`)

// matchBuilderChains folds runs of two or more chained .append(...) calls
// with at least one string-literal argument. Literal arguments contribute
// text; every other argument contributes one {} placeholder.
func matchBuilderChains(text []byte, ll *logical) []candidate {
	var cands []candidate
	pos := 0
	for pos < len(text) {
		if text[pos] != '.' {
			pos++
			continue
		}
		h := appendHead.FindIndex(text[pos:])
		if h == nil {
			pos++
			continue
		}

		start := pos
		var args []string
		cur := pos
		for {
			link := appendHead.FindIndex(text[cur:])
			if link == nil {
				break
			}
			open := cur + link[1] - 1
			closing := scanBalanced(text, open, '(', ')')
			if closing < 0 {
				break
			}
			args = append(args, strings.TrimSpace(string(text[open+1:closing-1])))
			cur = skipSpaces(text, closing)
		}

		literals := 0
		var b strings.Builder
		for _, arg := range args {
			if m := wholeLit.FindStringSubmatch(arg); m != nil {
				b.WriteString(m[1])
				literals++
			} else {
				b.WriteString("{}")
			}
		}

		if len(args) >= 2 && literals > 0 {
			if value := b.String(); hasNonASCII(value) {
				cands = append(cands, candidate{value: value, offset: start, line: ll.lineAt(start)})
			}
			blankSpan(text, start, cur)
			pos = cur
			continue
		}

		// Not a qualifying chain: step past ".append(" only, so literals
		// inside the argument list still get scanned.
		pos = start + h[1]
	}
	return cands
}

// operand is one link in a + chain.
type operand struct {
	lit   bool
	value string
}

// matchConcatChains folds maximal + chains of string literals, identifier
// paths and numeric literals into one value per chain. A chain qualifies
// with at least two operands, at least one of them a string literal;
// adjacent literals merge with no separator and every other operand
// becomes one {} placeholder.
func matchConcatChains(text []byte, ll *logical) []candidate {
	var cands []candidate
	pos := 0
	for pos < len(text) {
		c := text[pos]
		if c != '"' && !isIdentStart(c) && !isDigit(c) {
			pos++
			continue
		}

		ops, end, headEnd := scanChain(text, pos)
		literals := 0
		for _, op := range ops {
			if op.lit {
				literals++
			}
		}
		if len(ops) >= 2 && literals > 0 {
			var b strings.Builder
			for _, op := range ops {
				if op.lit {
					b.WriteString(op.value)
				} else {
					b.WriteString("{}")
				}
			}
			if value := b.String(); hasNonASCII(value) {
				cands = append(cands, candidate{value: value, offset: pos, line: ll.lineAt(pos)})
			}
			blankSpan(text, pos, end)
			pos = end
			continue
		}

		// Not a qualifying chain: step past the head token only, so the
		// scanner descends into call arguments instead of skipping them.
		if headEnd > pos {
			pos = headEnd
		} else {
			pos++
		}
	}
	return cands
}

// scanChain scans a + chain starting at pos. Returns the operands, the
// offset just past the last operand, and the offset just past the first
// operand's head token (for advancing when the chain does not qualify).
func scanChain(text []byte, pos int) (ops []operand, end, headEnd int) {
	end = pos
	headEnd = pos
	for {
		op, opEnd, opHead, ok := scanOperand(text, pos)
		if !ok {
			return ops, end, headEnd
		}
		if len(ops) == 0 {
			headEnd = opHead
		}
		ops = append(ops, op)
		end = opEnd

		j := skipSpaces(text, opEnd)
		if j >= len(text) || text[j] != '+' {
			return ops, end, headEnd
		}
		k := skipSpaces(text, j+1)
		if k >= len(text) || (text[k] != '"' && !isIdentStart(text[k]) && !isDigit(text[k])) {
			return ops, end, headEnd
		}
		pos = k
	}
}

// scanOperand scans one chain operand at pos: a string literal, an
// identifier path (fields, calls, indexing), or a numeric literal.
func scanOperand(text []byte, pos int) (op operand, end, headEnd int, ok bool) {
	if pos >= len(text) {
		return operand{}, pos, pos, false
	}
	switch c := text[pos]; {
	case c == '"':
		content, e, terminated := scanStringLit(text, pos)
		if !terminated {
			return operand{}, pos, pos, false
		}
		return operand{lit: true, value: content}, e, e, true
	case isIdentStart(c):
		e, h := scanIdentPath(text, pos)
		return operand{}, e, h, true
	case isDigit(c):
		e := pos
		for e < len(text) && (isIdentChar(text[e]) || text[e] == '.') {
			e++
		}
		return operand{}, e, e, true
	}
	return operand{}, pos, pos, false
}

// scanStringLit scans a double-quoted literal at pos, returning its content
// without the quotes.
func scanStringLit(text []byte, pos int) (content string, end int, terminated bool) {
	i := pos + 1
	for i < len(text) {
		switch text[i] {
		case '\\':
			i += 2
		case '"':
			return string(text[pos+1 : i]), i + 1, true
		default:
			i++
		}
	}
	return "", len(text), false
}

// scanIdentPath scans an identifier and any trailing member accesses,
// calls and indexing: user.getName(), arr[i], obj.field. headEnd is the
// end of the bare leading identifier.
func scanIdentPath(text []byte, pos int) (end, headEnd int) {
	i := pos
	for i < len(text) && isIdentChar(text[i]) {
		i++
	}
	headEnd = i

	for {
		j := skipSpaces(text, i)
		if j >= len(text) {
			return i, headEnd
		}
		switch text[j] {
		case '.':
			k := skipSpaces(text, j+1)
			if k >= len(text) || !isIdentStart(text[k]) {
				return i, headEnd
			}
			i = k
			for i < len(text) && isIdentChar(text[i]) {
				i++
			}
		case '(':
			closing := scanBalanced(text, j, '(', ')')
			if closing < 0 {
				return i, headEnd
			}
			i = closing
		case '[':
			closing := scanBalanced(text, j, '[', ']')
			if closing < 0 {
				return i, headEnd
			}
			i = closing
		default:
			return i, headEnd
		}
	}
}

// scanBalanced returns the offset just past the bracket that closes the one
// at open, skipping bracket characters inside string and char literals.
// Returns -1 when the bracket never closes.
func scanBalanced(text []byte, open int, oc, cc byte) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch c := text[i]; c {
		case '"':
			_, e, terminated := scanStringLit(text, i)
			if !terminated {
				return -1
			}
			i = e - 1
		case '\'':
			j := i + 1
			if j < len(text) && text[j] == '\\' {
				j++
			}
			j++
			if j < len(text) && text[j] == '\'' {
				i = j
			}
		case oc:
			depth++
		case cc:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

func skipSpaces(text []byte, i int) int {
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	return i
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
