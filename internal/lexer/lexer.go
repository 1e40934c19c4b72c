// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lexer

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode"

	"gopkg.axion.dev/compiler.go/internal/exc"
	"gopkg.axion.dev/compiler.go/internal/source"
	"gopkg.axion.dev/compiler.go/internal/spec"
	"gopkg.axion.dev/compiler.go/internal/token"
	"gopkg.axion.dev/compiler.go/internal/unit"
)

type Option func(l *Lexer)

// WithCancellers stops a scan before the first top level token whose text is
// one of the given values.
func WithCancellers(values ...string) Option {
	return func(l *Lexer) {
		for _, v := range values {
			l.cancellers[v] = true
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Lexer) {
		l.logger = logger
	}
}

type bracket struct {
	family spec.BracketFamily
	value  string
	span   source.Span
}

type blameKey struct {
	code   string
	offset int
}

// Lexer turns the text of a unit into tokens. A Lexer may be scanned more
// than once: text appended to the unit with Unit.Feed is picked up by the
// next Scan, which first reopens any string, comment or line break that was
// cut off by the end of the previous input.
type Lexer struct {
	unit       *unit.Unit
	cursor     source.Cursor
	tokens     []*token.Token
	brackets   []bracket
	orphans    []bracket
	indents    []int
	indentChar rune
	cancellers map[string]bool
	cancelled  bool
	nested     bool
	logger     *slog.Logger
	reported   map[blameKey]bool

	eofMark      int
	savedIndents []int
}

func New(u *unit.Unit, opts ...Option) *Lexer {
	l := &Lexer{
		unit:       u,
		cursor:     source.NewCursor(u.Code),
		indents:    []int{0},
		cancellers: make(map[string]bool),
		reported:   make(map[blameKey]bool),
		eofMark:    -1,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Scan lexes all text available in the unit, stores the resulting stream in
// the unit and returns it. The stream always ends with exactly one end of
// stream token. Problems are reported to the unit and never stop the scan.
func (l *Lexer) Scan() []*token.Token {
	l.resume()
	for l.step() {
	}
	l.finish()
	l.unit.Tokens = l.tokens
	if l.logger != nil && l.unit.Options.Debug {
		for _, t := range l.tokens {
			l.logger.Debug("token", slog.String("unit", l.unit.Path), slog.String("kind", t.Kind.String()), slog.String("value", t.Value), slog.String("at", t.Span.Start.String()))
		}
	}
	return l.tokens
}

func (l *Lexer) resume() {
	l.cursor.Reset(l.unit.Code)
	if l.eofMark < 0 {
		return
	}
	// The previous stream belongs to the caller now.
	l.tokens = slices.Clone(l.tokens[:l.eofMark])
	l.indents = l.savedIndents
	l.eofMark = -1
	l.cancelled = false
	if len(l.tokens) == 0 {
		return
	}
	last := l.tokens[len(l.tokens)-1]
	switch {
	case last.Unterminated,
		last.Kind == token.KindNewline,
		last.Kind == token.KindWhitespace,
		last.Kind == token.KindComment && last.EndWhitespace == "":
		l.tokens = l.tokens[:len(l.tokens)-1]
		l.cursor.Seek(last.Span.Start)
	}
}

func (l *Lexer) step() bool {
	if l.cancelled {
		return false
	}
	c := &l.cursor
	r := c.Peek(0)
	switch {
	case r == source.EOF:
		return false
	case isLineBreak(r):
		if l.continuation() {
			l.lexWhitespace()
		} else {
			l.lexNewline()
		}
	case isSpace(r):
		l.lexWhitespace()
	case c.HasPrefix("###"):
		l.lexBlockComment()
	case r == '#':
		l.lexLineComment()
	case r == '`':
		l.lexChar()
	case r == '"' || r == '\'':
		l.lexString(c.Position(), "")
	case isDigit(r) || (r == '.' && isDigit(c.Peek(1))):
		l.lexNumber()
	case isIdentStart(r):
		l.lexWord()
	case spec.IsSymbolicStart(r):
		l.lexSymbol()
	default:
		start := c.Position()
		c.Advance(1)
		t := token.New(token.KindInvalid, c.Slice(start), c.SpanFrom(start))
		l.blame(exc.CodeInvalidCharacter, t.Span, fmt.Sprintf("invalid character %q", r))
		l.emit(t)
	}
	return !l.cancelled
}

// continuation reports whether line breaks are plain whitespace at the
// current point, which is the case inside brackets and interpolations.
func (l *Lexer) continuation() bool {
	return l.nested || len(l.brackets) > 0
}

func (l *Lexer) emit(t *token.Token) {
	l.tokens = append(l.tokens, t)
}

func (l *Lexer) blame(code string, span source.Span, message string) {
	key := blameKey{code: code, offset: span.Start.Offset}
	if l.reported[key] {
		return
	}
	l.reported[key] = true
	_ = l.unit.Blame(code, span, message)
}

func (l *Lexer) cancels(value string) bool {
	return l.cancellers[value] && len(l.brackets) == 0
}

func (l *Lexer) lexWhitespace() {
	c := &l.cursor
	start := c.Position()
	for {
		r := c.Peek(0)
		if isSpace(r) || (isLineBreak(r) && l.continuation()) {
			c.Advance(1)
			continue
		}
		break
	}
	ws := c.Slice(start)
	if len(l.tokens) > 0 {
		last := l.tokens[len(l.tokens)-1]
		last.EndWhitespace = last.EndWhitespace + ws
		return
	}
	l.emit(token.New(token.KindWhitespace, ws, c.SpanFrom(start)))
}

func (l *Lexer) lexNewline() {
	c := &l.cursor
	start := c.Position()
	if c.HasPrefix("\r\n") {
		c.Advance(2)
	} else {
		c.Advance(1)
	}
	t := token.New(token.KindNewline, c.Slice(start), c.SpanFrom(start))
	wsStart := c.Position()
	for isSpace(c.Peek(0)) {
		c.Advance(1)
	}
	t.EndWhitespace = c.Slice(wsStart)
	l.emit(t)

	next := c.Peek(0)
	if next == source.EOF || isLineBreak(next) || next == '#' {
		return
	}
	l.indent(t.EndWhitespace, c.SpanFrom(wsStart))
}

func (l *Lexer) indent(ws string, span source.Span) {
	if l.unit.Options.CheckIndentationConsistency && ws != "" {
		mixed := strings.ContainsRune(ws, ' ') && strings.ContainsRune(ws, '\t')
		first := []rune(ws)[0]
		if l.indentChar == 0 {
			l.indentChar = first
		}
		if mixed || first != l.indentChar {
			l.blame(exc.CodeInconsistentIndentation, span, "indentation mixes tabs and spaces")
		}
	}
	width := measure(ws, l.unit.Options.TabWidth)
	at := source.Span{Start: span.End, End: span.End}
	top := l.indents[len(l.indents)-1]
	switch {
	case width > top:
		l.indents = append(l.indents, width)
		t := token.New(token.KindIndent, "", at)
		t.Depth = width
		t.Delta = width - top
		l.emit(t)
	case width < top:
		for len(l.indents) > 1 && width < l.indents[len(l.indents)-1] {
			l.emit(l.outdent(at))
		}
		if width != l.indents[len(l.indents)-1] {
			l.blame(exc.CodeInvalidIndentation, span, "unindent does not match any outer indentation level")
		}
	}
}

// outdent pops one indentation level.
func (l *Lexer) outdent(at source.Span) *token.Token {
	popped := l.indents[len(l.indents)-1]
	l.indents = l.indents[:len(l.indents)-1]
	t := token.New(token.KindOutdent, "", at)
	t.Depth = l.indents[len(l.indents)-1]
	t.Delta = t.Depth - popped
	return t
}

func (l *Lexer) lexBlockComment() {
	c := &l.cursor
	start := c.Position()
	c.Advance(3)
	bodyStart := c.Position()
	bodyEnd := bodyStart
	closed := false
	for !c.EOF() {
		if c.HasPrefix("###") {
			bodyEnd = c.Position()
			c.Advance(3)
			closed = true
			break
		}
		c.Advance(1)
	}
	if !closed {
		bodyEnd = c.Position()
	}
	t := token.New(token.KindComment, c.Slice(start), c.SpanFrom(start))
	t.Content = l.unit.Code[bodyStart.Offset:bodyEnd.Offset]
	if !closed {
		t.Unterminated = true
		l.blame(exc.CodeUnterminatedComment, t.Span, "unterminated multi-line comment")
	}
	l.emit(t)
}

func (l *Lexer) lexLineComment() {
	c := &l.cursor
	start := c.Position()
	for r := c.Peek(0); r != source.EOF && !isLineBreak(r); r = c.Peek(0) {
		c.Advance(1)
	}
	t := token.New(token.KindComment, c.Slice(start), c.SpanFrom(start))
	t.Content = strings.TrimPrefix(t.Value, "#")
	l.emit(t)
}

func (l *Lexer) lexChar() {
	c := &l.cursor
	start := c.Position()
	c.Advance(1)
	bodyStart := c.Position()
	bodyEnd := bodyStart
	closed := false
	for {
		r := c.Peek(0)
		if r == source.EOF || isLineBreak(r) {
			bodyEnd = c.Position()
			break
		}
		if r == '\\' {
			c.Advance(2)
			continue
		}
		if r == '`' {
			bodyEnd = c.Position()
			c.Advance(1)
			closed = true
			break
		}
		c.Advance(1)
	}
	t := token.New(token.KindChar, c.Slice(start), c.SpanFrom(start))
	t.Content = l.unit.Code[bodyStart.Offset:bodyEnd.Offset]
	t.Quote = "`"
	if !closed {
		t.Unterminated = true
		l.blame(exc.CodeUnterminatedChar, t.Span, "unterminated character literal")
	}
	l.emit(t)
}

// lexString reads a string whose prefix letters, if any, were already
// consumed from start. The cursor sits on the opening quote.
func (l *Lexer) lexString(start source.Position, prefixes string) {
	c := &l.cursor
	quote := string(c.Peek(0))
	if c.HasPrefix(strings.Repeat(quote, 3)) {
		quote = strings.Repeat(quote, 3)
	}
	c.Advance(len(quote))
	format := strings.ContainsAny(prefixes, "fF")
	bodyStart := c.Position()
	bodyEnd := bodyStart
	closed := false
	var interpolations []*token.Interpolation
	for {
		if c.EOF() {
			bodyEnd = c.Position()
			break
		}
		if c.HasPrefix(quote) {
			bodyEnd = c.Position()
			c.Advance(len(quote))
			closed = true
			break
		}
		r := c.Peek(0)
		switch {
		case r == '\\':
			c.Advance(2)
		case format && r == '{' && c.Peek(1) == '{':
			c.Advance(2)
		case format && r == '}' && c.Peek(1) == '}':
			c.Advance(2)
		case format && r == '{':
			interpolations = append(interpolations, l.lexInterpolation())
		default:
			c.Advance(1)
		}
	}
	t := token.New(token.KindString, c.Slice(start), c.SpanFrom(start))
	t.Content = l.unit.Code[bodyStart.Offset:bodyEnd.Offset]
	t.Prefixes = prefixes
	t.Quote = quote
	t.Interpolations = interpolations
	if !closed {
		t.Unterminated = true
		l.blame(exc.CodeUnterminatedString, t.Span, "unterminated string literal")
	}
	l.emit(t)
}

// lexInterpolation lexes one braced expression of a format string with a
// private lexer that shares the position of the outer one.
func (l *Lexer) lexInterpolation() *token.Interpolation {
	c := &l.cursor
	start := c.Position()
	c.Advance(1)
	sub := &Lexer{
		unit:       l.unit,
		cursor:     l.cursor,
		indents:    []int{0},
		cancellers: map[string]bool{"}": true},
		nested:     true,
		logger:     l.logger,
		reported:   l.reported,
		eofMark:    -1,
	}
	for sub.step() {
	}
	sub.reportBrackets()
	l.cursor = sub.cursor
	if c.Peek(0) == '}' {
		c.Advance(1)
	}
	return &token.Interpolation{
		Span:   c.SpanFrom(start),
		Tokens: sub.tokens,
	}
}

func (l *Lexer) lexNumber() {
	c := &l.cursor
	start := c.Position()
	if c.Peek(0) == '0' && strings.ContainsRune("xXbBoO", c.Peek(1)) {
		c.Advance(2)
	} else {
		l.digits()
		if c.Peek(0) == '.' && isDigit(c.Peek(1)) {
			c.Advance(1)
			l.digits()
		}
		if e := c.Peek(0); e == 'e' || e == 'E' {
			switch {
			case isDigit(c.Peek(1)):
				c.Advance(1)
				l.digits()
			case (c.Peek(1) == '+' || c.Peek(1) == '-') && isDigit(c.Peek(2)):
				c.Advance(2)
				l.digits()
			}
		}
	}
	// Radix digits, the imaginary suffix and any alphanumeric postfix.
	for isIdentPart(c.Peek(0)) {
		c.Advance(1)
	}
	l.emit(token.New(token.KindNumber, c.Slice(start), c.SpanFrom(start)))
}

func (l *Lexer) digits() {
	c := &l.cursor
	for r := c.Peek(0); isDigit(r) || r == '_'; r = c.Peek(0) {
		c.Advance(1)
	}
}

func (l *Lexer) lexWord() {
	c := &l.cursor
	start := c.Position()
	for isIdentPart(c.Peek(0)) {
		c.Advance(1)
	}
	if word := c.Slice(start); isStringPrefix(word) {
		if q := c.Peek(0); q == '"' || q == '\'' {
			l.lexString(start, word)
			return
		}
	}
	// A hyphen joins the word only when an identifier character follows it.
	for c.Peek(0) == '-' && isIdentPart(c.Peek(1)) {
		c.Advance(1)
		for isIdentPart(c.Peek(0)) {
			c.Advance(1)
		}
	}
	word := c.Slice(start)
	if l.cancels(word) {
		c.Seek(start)
		l.cancelled = true
		return
	}
	kind := token.KindIdentifier
	if k, ok := spec.WordOperator(word); ok {
		kind = k
	} else if k, ok := token.Keywords[word]; ok {
		kind = k
	}
	l.emit(token.New(kind, word, c.SpanFrom(start)))
}

func (l *Lexer) lexSymbol() {
	c := &l.cursor
	start := c.Position()
	value, kind, ok := spec.LongestSymbol(c.HasPrefix)
	if !ok {
		c.Advance(1)
		t := token.New(token.KindUnknown, c.Slice(start), c.SpanFrom(start))
		l.blame(exc.CodeInvalidCharacter, t.Span, fmt.Sprintf("unknown symbol %q", t.Value))
		l.emit(t)
		return
	}
	if l.cancels(value) {
		l.cancelled = true
		return
	}
	c.Advance(len([]rune(value)))
	t := token.New(kind, value, c.SpanFrom(start))
	if family, open := spec.BracketOf(kind); family != spec.NotBracket {
		b := bracket{family: family, value: value, span: t.Span}
		switch {
		case open:
			l.brackets = append(l.brackets, b)
		case len(l.brackets) > 0 && l.brackets[len(l.brackets)-1].family == family:
			l.brackets = l.brackets[:len(l.brackets)-1]
		default:
			l.orphans = append(l.orphans, b)
		}
	}
	l.emit(t)
}

func (l *Lexer) finish() {
	l.reportBrackets()
	l.eofMark = len(l.tokens)
	l.savedIndents = slices.Clone(l.indents)
	at := source.Span{Start: l.cursor.Position(), End: l.cursor.Position()}
	for len(l.indents) > 1 {
		l.emit(l.outdent(at))
	}
	l.emit(token.New(token.KindEOF, "", at))
}

// reportBrackets reports every bracket still open and every closing bracket
// that had no opener. A bracket is reported at most once even when the scan
// is resumed.
func (l *Lexer) reportBrackets() {
	all := append(slices.Clone(l.brackets), l.orphans...)
	for _, b := range all {
		code := exc.CodeMismatchedParenthesis
		name := "parenthesis"
		switch b.family {
		case spec.Bracket:
			code = exc.CodeMismatchedBracket
			name = "bracket"
		case spec.Brace:
			code = exc.CodeMismatchedBrace
			name = "brace"
		}
		l.blame(code, b.span, fmt.Sprintf("mismatched %s %q", name, b.value))
	}
}

func isLineBreak(r rune) bool {
	return r == '\n' || r == '\r'
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\f', '\v', '\ufeff':
		return true
	}
	return false
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isStringPrefix(word string) bool {
	if len(word) == 0 || len(word) > 3 {
		return false
	}
	seen := map[rune]bool{}
	for _, r := range strings.ToLower(word) {
		if !strings.ContainsRune("rfb", r) || seen[r] {
			return false
		}
		seen[r] = true
	}
	return true
}

func measure(ws string, tabWidth int) int {
	if tabWidth <= 0 {
		tabWidth = 8
	}
	width := 0
	for _, r := range ws {
		if r == '\t' {
			width = width + tabWidth - width%tabWidth
			continue
		}
		width = width + 1
	}
	return width
}
