package schema

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse reads canonical message-definition text, as produced by Node.Print,
// and returns the equivalent schema tree.
func Parse(text string) (*Node, error) {
	p := &parser{l: lex(text)}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.root, nil
}

type item struct {
	typ  itemType
	val  string
	line int
}

func (i item) String() string {
	switch {
	case i.typ == itemEOF:
		return "EOF"
	case i.typ == itemError:
		return i.val
	}
	return fmt.Sprintf("%q", i.val)
}

type itemType int

const (
	itemError itemType = iota
	itemEOF

	itemLeftParen
	itemRightParen
	itemLeftBrace
	itemRightBrace
	itemSemicolon
	itemComma
	itemNumber
	itemIdentifier
	itemKeyword
	itemMessage
	itemGroup
	itemRepeated
	itemOptional
	itemRequired
)

func (i itemType) String() string {
	names := map[itemType]string{
		itemError:      "error",
		itemEOF:        "EOF",
		itemLeftParen:  "(",
		itemRightParen: ")",
		itemLeftBrace:  "{",
		itemRightBrace: "}",
		itemSemicolon:  ";",
		itemComma:      ",",
		itemNumber:     "number",
		itemIdentifier: "identifier",
		itemKeyword:    "<keyword>",
		itemMessage:    "message",
		itemGroup:      "group",
		itemRepeated:   "REPEATED",
		itemOptional:   "OPTIONAL",
		itemRequired:   "REQUIRED",
	}
	if n, ok := names[i]; ok {
		return n
	}
	return fmt.Sprintf("<type:%d>", int(i))
}

var key = map[string]itemType{
	"message":  itemMessage,
	"group":    itemGroup,
	"REPEATED": itemRepeated,
	"OPTIONAL": itemOptional,
	"REQUIRED": itemRequired,
}

const eof = -1

type stateFn func(*lexer) stateFn

type lexer struct {
	input string
	pos   int
	start int
	width int
	line  int
	items chan item
}

func lex(input string) *lexer {
	l := &lexer{
		input: input,
		line:  1,
		items: make(chan item),
	}
	go l.run()
	return l
}

func (l *lexer) run() {
	for state := lexText; state != nil; {
		state = state(l)
	}
	close(l.items)
}

func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += w
	if r == '\n' {
		l.line++
	}
	return r
}

func (l *lexer) backup() {
	l.pos -= l.width
	if l.width == 1 && l.input[l.pos] == '\n' {
		l.line--
	}
}

func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

func (l *lexer) ignore() {
	l.start = l.pos
}

func (l *lexer) emit(t itemType) {
	l.items <- item{t, l.input[l.start:l.pos], l.line}
	l.start = l.pos
}

func (l *lexer) errorf(format string, args ...interface{}) stateFn {
	l.items <- item{itemError, fmt.Sprintf(format, args...), l.line}
	return nil
}

func (l *lexer) nextItem() item {
	return <-l.items
}

func (l *lexer) drain() {
	for range l.items {
	}
}

func lexText(l *lexer) stateFn {
	switch r := l.next(); {
	case r == eof:
		l.emit(itemEOF)
		return nil
	case isSpace(r):
		return lexSpace
	case r == '(':
		l.emit(itemLeftParen)
	case r == ')':
		l.emit(itemRightParen)
	case r == '{':
		l.emit(itemLeftBrace)
	case r == '}':
		l.emit(itemRightBrace)
	case r == ';':
		l.emit(itemSemicolon)
	case r == ',':
		l.emit(itemComma)
	case isDigit(r):
		return lexNumber
	case isAlpha(r):
		return lexIdentifier
	default:
		return l.errorf("unknown start of token %q", r)
	}
	return lexText
}

func lexSpace(l *lexer) stateFn {
	for isSpace(l.peek()) {
		l.next()
	}
	l.ignore()
	return lexText
}

func lexNumber(l *lexer) stateFn {
	for isDigit(l.peek()) {
		l.next()
	}
	l.emit(itemNumber)
	return lexText
}

func lexIdentifier(l *lexer) stateFn {
	for isAlphaNum(l.peek()) {
		l.next()
	}
	word := l.input[l.start:l.pos]
	if t, ok := key[word]; ok {
		l.emit(t)
	} else {
		l.emit(itemIdentifier)
	}
	return lexText
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isDigit(r rune) bool {
	return unicode.IsDigit(r)
}

func isAlpha(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isAlphaNum(r rune) bool {
	return isAlpha(r) || isDigit(r)
}

type parser struct {
	l     *lexer
	token item
	root  *Node
}

func (p *parser) parse() (err error) {
	defer p.recover(&err)

	p.parseMessage()

	p.next()
	p.expect(itemEOF)

	return nil
}

func (p *parser) recover(errp *error) {
	if e := recover(); e != nil {
		if _, ok := e.(runtime.Error); ok {
			panic(e)
		}
		p.l.drain()
		*errp = e.(error)
	}
}

func (p *parser) errorf(msg string, args ...interface{}) {
	panic(fmt.Errorf("line %d: %s", p.token.line, fmt.Sprintf(msg, args...)))
}

func (p *parser) expect(typ itemType) {
	if p.token.typ != typ {
		p.errorf("expected %s, got %s instead", typ, p.token)
	}
}

func (p *parser) next() {
	p.token = p.l.nextItem()
	if p.token.typ == itemError {
		p.errorf("%s", p.token.val)
	}
}

func (p *parser) parseMessage() {
	p.next()
	p.expect(itemMessage)

	p.next()
	p.expect(itemIdentifier)

	p.root = &Node{
		Name:       p.token.val,
		Repetition: Required,
		Children:   []*Node{},
	}

	p.next()
	p.root.Children = p.parseBody()
	p.expect(itemRightBrace)
}

func (p *parser) parseBody() []*Node {
	nodes := []*Node{}
	p.expect(itemLeftBrace)
	for {
		p.next()
		if p.token.typ == itemRightBrace {
			return nodes
		}
		nodes = append(nodes, p.parseField())
	}
}

func (p *parser) parseField() *Node {
	n := &Node{}

	switch p.token.typ {
	case itemRepeated:
		n.Repetition = Repeated
	case itemOptional:
		n.Repetition = Optional
	case itemRequired:
		n.Repetition = Required
	default:
		p.errorf("invalid field repetition type %s", p.token)
	}

	p.next()

	if p.token.typ == itemGroup {
		p.next()
		p.expect(itemIdentifier)
		n.Name = p.token.val

		p.next()
		if p.token.typ == itemLeftParen {
			n.Annotation = p.parseAnnotation()
			p.next()
		}

		n.Children = p.parseBody()
		p.expect(itemRightBrace)
		return n
	}

	p.expect(itemIdentifier)
	n.Physical = p.physicalType()

	if n.Physical == FixedLenByteArray {
		p.next()
		p.expect(itemLeftParen)
		p.next()
		p.expect(itemNumber)

		length, err := strconv.Atoi(p.token.val)
		if err != nil || length < 0 {
			p.errorf("invalid FIXED_LEN_BYTE_ARRAY length %q", p.token.val)
		}
		n.TypeLength = length

		p.next()
		p.expect(itemRightParen)
	}

	p.next()
	p.expect(itemIdentifier)
	n.Name = p.token.val

	p.next()
	if p.token.typ == itemLeftParen {
		n.Annotation = p.parseAnnotation()
		p.next()
	}

	p.expect(itemSemicolon)
	return n
}

func (p *parser) physicalType() Physical {
	types := map[string]Physical{
		"BOOLEAN":              Boolean,
		"INT32":                Int32,
		"INT64":                Int64,
		"INT96":                Int96,
		"FLOAT":                Float,
		"DOUBLE":               Double,
		"BYTE_ARRAY":           ByteArray,
		"FIXED_LEN_BYTE_ARRAY": FixedLenByteArray,
	}
	t, ok := types[p.token.val]
	if !ok {
		p.errorf("invalid type %q", p.token.val)
	}
	return t
}

// parseAnnotation reads a logical type annotation and returns it in
// canonical text form, e.g. UTF8, DECIMAL(9,2) or TIMESTAMP(MILLIS,true).
// Arguments are kept as opaque text.
func (p *parser) parseAnnotation() string {
	p.expect(itemLeftParen)

	p.next()
	p.expect(itemIdentifier)
	text := p.token.val

	p.next()
	if p.token.typ == itemLeftParen {
		args := []string{}
		for {
			p.next()
			if p.token.typ != itemIdentifier && p.token.typ != itemNumber {
				p.errorf("invalid annotation argument %s", p.token)
			}
			args = append(args, p.token.val)

			p.next()
			if p.token.typ == itemRightParen {
				break
			}
			p.expect(itemComma)
		}
		text += "(" + strings.Join(args, ",") + ")"
		p.next()
	}

	p.expect(itemRightParen)
	return text
}
