package command

// Lexer splits the remainder of a message into tokens with shell-style double
// quoting. Double quotes group whitespace; an unterminated quote swallows the
// rest of the input as one literal token instead of failing.
type Lexer struct {
	input string
	pos   int
	prev  int
	undo  bool
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: input, prev: -1}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Position returns the current byte offset into the input.
func (l *Lexer) Position() int {
	return l.pos
}

// SetPosition moves the read cursor, used to skip a matched prefix before the
// first read. Positions outside the input are clamped.
func (l *Lexer) SetPosition(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(l.input) {
		pos = len(l.input)
	}
	l.pos = pos
	l.prev = -1
	l.undo = false
}

// Read returns the next token, or false when the input is exhausted.
func (l *Lexer) Read() (string, bool) {
	if l.undo {
		l.undo = false
		l.pos = l.prev
	}

	start := l.pos
	for start < len(l.input) && isSpace(l.input[start]) {
		start++
	}
	if start >= len(l.input) {
		l.prev = l.pos
		l.pos = len(l.input)
		return "", false
	}

	l.prev = l.pos

	if l.input[start] == '"' {
		end := start + 1
		for end < len(l.input) && l.input[end] != '"' {
			end++
		}
		if end >= len(l.input) {
			// unterminated quote, the remainder is one literal token
			l.pos = len(l.input)
			return l.input[start+1:], true
		}
		l.pos = end + 1
		return l.input[start+1 : end], true
	}

	end := start
	for end < len(l.input) && !isSpace(l.input[end]) {
		end++
	}
	l.pos = end
	return l.input[start:end], true
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() (string, bool) {
	pos, prev, undo := l.pos, l.prev, l.undo
	tok, ok := l.Read()
	l.pos, l.prev, l.undo = pos, prev, undo
	return tok, ok
}

// Undo rewinds exactly one prior Read. Only the most recent read can be
// undone.
func (l *Lexer) Undo() {
	if l.prev >= 0 {
		l.undo = true
	}
}

// Rest consumes and returns all remaining tokens.
func (l *Lexer) Rest() []string {
	var out []string
	for {
		tok, ok := l.Read()
		if !ok {
			return out
		}
		out = append(out, tok)
	}
}
