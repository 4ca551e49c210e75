package rewrite

// Specifier is a module specifier string literal found in JavaScript code.
// Start and End are the byte offsets of the literal's content, quotes excluded.
type Specifier struct {
	Value string
	Start int
	End   int
}

// keywords after which a slash starts a regular expression literal.
var regexpKeywords = map[string]bool{
	"return": true, "typeof": true, "instanceof": true, "in": true, "of": true,
	"new": true, "delete": true, "void": true, "throw": true, "case": true,
	"do": true, "else": true, "yield": true, "await": true,
}

type scanner struct {
	code  []byte
	n     int
	specs []Specifier
	// prev is the last significant byte seen in code context.
	prev byte
	// prevWord is the last identifier, when prev ends one.
	prevWord string
	// templates holds the brace depth of every open template substitution.
	templates []int
}

// Scan returns the specifiers of static imports, re-exports, dynamic imports
// and require calls in code. Comments, strings, template literals and
// regular expressions are skipped.
func Scan(code []byte) []Specifier {
	s := &scanner{code: code, n: len(code)}
	s.run()
	return s.specs
}

func (s *scanner) run() {
	i := 0
	for i < s.n {
		c := s.code[i]
		switch {
		case isSpace(c):
			i++
		case c == '/' && i+1 < s.n && s.code[i+1] == '/':
			i = skipLineComment(s.code, i)
		case c == '/' && i+1 < s.n && s.code[i+1] == '*':
			i = skipBlockComment(s.code, i)
		case c == '/':
			if s.regexpAllowed() {
				i = skipRegexp(s.code, i)
				s.mark(')')
			} else {
				s.mark(c)
				i++
			}
		case c == '\'' || c == '"':
			i = skipString(s.code, i)
			s.mark('"')
		case c == '`':
			i = s.skipTemplate(i + 1)
		case c == '{':
			if len(s.templates) > 0 {
				s.templates[len(s.templates)-1]++
			}
			s.mark(c)
			i++
		case c == '}':
			if len(s.templates) > 0 {
				top := len(s.templates) - 1
				if s.templates[top] == 0 {
					s.templates = s.templates[:top]
					i = s.skipTemplate(i + 1)
					continue
				}
				s.templates[top]--
			}
			s.mark(c)
			i++
		case isIdentStart(c):
			i = s.word(i)
		default:
			s.mark(c)
			i++
		}
	}
}

func (s *scanner) mark(c byte) {
	s.prev = c
	s.prevWord = ""
}

func (s *scanner) regexpAllowed() bool {
	if s.prevWord != "" {
		return regexpKeywords[s.prevWord]
	}
	switch s.prev {
	case 0, '(', ',', '=', ':', '[', '!', '&', '|', '?', '{', '}', ';', '+', '-', '*', '%', '<', '>', '~', '^':
		return true
	}
	return false
}

// word consumes the identifier at i and recognizes module syntax.
func (s *scanner) word(i int) int {
	start := i
	for i < s.n && isIdentChar(s.code[i]) {
		i++
	}
	w := string(s.code[start:i])
	member := s.prev == '.' && s.prevWord == ""

	next := i
	if !member {
		switch w {
		case "import":
			next = s.importClause(i)
		case "export":
			next = s.exportClause(i)
		case "require":
			next = s.call(i)
		}
	}

	s.prev = 'a'
	s.prevWord = w
	if member {
		s.prevWord = "." + w
	}
	return next
}

func (s *scanner) importClause(i int) int {
	j := skipTrivia(s.code, i)
	if j >= s.n {
		return i
	}
	switch c := s.code[j]; {
	case c == '(':
		return s.call(i)
	case c == '\'' || c == '"':
		return s.record(j)
	case c == '.':
		// import.meta
		return i
	}
	return s.fromClause(j)
}

func (s *scanner) exportClause(i int) int {
	j := skipTrivia(s.code, i)
	if j >= s.n || (s.code[j] != '{' && s.code[j] != '*') {
		return i
	}
	return s.fromClause(j)
}

// fromClause scans the bindings of an import or export declaration and
// records the specifier following "from". It returns i unchanged when the
// declaration has no from clause.
func (s *scanner) fromClause(i int) int {
	j := i
	for j < s.n {
		j = skipTrivia(s.code, j)
		if j >= s.n {
			return i
		}
		c := s.code[j]
		switch {
		case c == '{':
			j = skipBraces(s.code, j)
		case c == '*' || c == ',':
			j++
		case isIdentStart(c):
			start := j
			for j < s.n && isIdentChar(s.code[j]) {
				j++
			}
			if string(s.code[start:j]) == "from" {
				k := skipTrivia(s.code, j)
				if k < s.n && (s.code[k] == '\'' || s.code[k] == '"') {
					return s.record(k)
				}
			}
		default:
			return i
		}
	}
	return i
}

// call records the specifier of a call whose first argument is a plain
// string literal. i points after the callee.
func (s *scanner) call(i int) int {
	j := skipTrivia(s.code, i)
	if j >= s.n || s.code[j] != '(' {
		return i
	}
	j = skipTrivia(s.code, j+1)
	if j >= s.n || (s.code[j] != '\'' && s.code[j] != '"') {
		return i
	}
	end := skipString(s.code, j)
	k := skipTrivia(s.code, end)
	if k >= s.n || (s.code[k] != ')' && s.code[k] != ',') {
		return i
	}
	return s.record(j)
}

// record adds the string literal starting at quote i and returns the offset
// after it.
func (s *scanner) record(i int) int {
	end := skipString(s.code, i)
	if end-1 > i && s.code[end-1] == s.code[i] {
		s.specs = append(s.specs, Specifier{
			Value: string(s.code[i+1 : end-1]),
			Start: i + 1,
			End:   end - 1,
		})
	}
	s.mark('"')
	return end
}

// skipTemplate skips template literal text starting at i and returns the
// offset after the closing backtick, or after "${" when a substitution opens.
// A closed template counts as an operand.
func (s *scanner) skipTemplate(i int) int {
	for i < s.n {
		switch s.code[i] {
		case '\\':
			i += 2
		case '`':
			s.mark('`')
			return i + 1
		case '$':
			if i+1 < s.n && s.code[i+1] == '{' {
				s.templates = append(s.templates, 0)
				s.mark('{')
				return i + 2
			}
			i++
		default:
			i++
		}
	}
	s.mark('`')
	return s.n
}

// skipString returns the offset after the string literal starting at quote i.
func skipString(code []byte, i int) int {
	quote := code[i]
	i++
	for i < len(code) {
		switch code[i] {
		case '\\':
			i += 2
			continue
		case quote:
			return i + 1
		case '\n':
			return i
		}
		i++
	}
	return len(code)
}

func skipRegexp(code []byte, i int) int {
	i++
	inClass := false
	for i < len(code) {
		switch code[i] {
		case '\\':
			i += 2
			continue
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				i++
				for i < len(code) && isIdentChar(code[i]) {
					i++
				}
				return i
			}
		case '\n':
			return i
		}
		i++
	}
	return len(code)
}

func skipBraces(code []byte, i int) int {
	depth := 0
	for i < len(code) {
		switch c := code[i]; c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		case '\'', '"':
			i = skipString(code, i)
			continue
		case '/':
			if j := skipTrivia(code, i); j != i {
				i = j
				continue
			}
		}
		i++
	}
	return len(code)
}

// skipTrivia skips whitespace and comments.
func skipTrivia(code []byte, i int) int {
	for i < len(code) {
		switch {
		case isSpace(code[i]):
			i++
		case code[i] == '/' && i+1 < len(code) && code[i+1] == '/':
			i = skipLineComment(code, i)
		case code[i] == '/' && i+1 < len(code) && code[i+1] == '*':
			i = skipBlockComment(code, i)
		default:
			return i
		}
	}
	return i
}

func skipLineComment(code []byte, i int) int {
	for i < len(code) && code[i] != '\n' {
		i++
	}
	return i
}

func skipBlockComment(code []byte, i int) int {
	i += 2
	for i+1 < len(code) && (code[i] != '*' || code[i+1] != '/') {
		i++
	}
	if i+1 < len(code) {
		return i + 2
	}
	return len(code)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
