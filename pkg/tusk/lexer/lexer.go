package lexer

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType represents different types of tokens
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF
	OPEN_TAG  // <?php
	DOC_BLOCK // /** ... */

	// Identifiers and literals
	VARIABLE       // $name
	IDENT          // Foo, strlen, App\Models\User
	NULLABLE_IDENT // ?string
	INT            // 1343456
	FLOAT          // 3.14159
	STRING         // "foobar" or 'foobar'

	// Operators
	ASSIGN       // =
	PLUS         // +
	MINUS        // -
	ASTERISK     // *
	SLASH        // /
	PERCENT      // %
	DOT          // .
	ARROW        // ->
	DOUBLE_ARROW // =>
	LT           // <
	GT           // >
	LTE          // <=
	GTE          // >=
	EQ           // ==
	NOT_EQ       // !=
	AND          // &&
	OR           // ||
	BANG         // !
	BIT_AND      // &
	BIT_OR       // |
	BIT_XOR      // ^
	BIT_NOT      // ~
	SHL          // <<
	SHR          // >>
	QUESTION     // ?

	// Delimiters
	COMMA     // ,
	SEMICOLON // ;
	COLON     // :
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]

	// Keywords
	ECHO
	RETURN
	BREAK
	CONTINUE
	USE
	WHILE
	DO
	FOREACH
	AS
	IF
	ELSEIF
	ELSE
	FUNCTION // "function"
	FN       // "fn"
	CLASS
	EXTENDS
	IMPLEMENTS
	NEW
	STATIC
	PUBLIC
	PROTECTED
	PRIVATE
	FINAL
	ABSTRACT
	TRUE
	FALSE
	NULL
)

// Token represents a single token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %s, Line: %d, Column: %d}",
		t.Type.String(), t.Literal, t.Line, t.Column)
}

var tokenNames = map[TokenType]string{
	ILLEGAL:        "ILLEGAL",
	EOF:            "EOF",
	OPEN_TAG:       "OPEN_TAG",
	DOC_BLOCK:      "DOC_BLOCK",
	VARIABLE:       "VARIABLE",
	IDENT:          "IDENT",
	NULLABLE_IDENT: "NULLABLE_IDENT",
	INT:            "INT",
	FLOAT:          "FLOAT",
	STRING:         "STRING",
	ASSIGN:         "ASSIGN",
	PLUS:           "PLUS",
	MINUS:          "MINUS",
	ASTERISK:       "ASTERISK",
	SLASH:          "SLASH",
	PERCENT:        "PERCENT",
	DOT:            "DOT",
	ARROW:          "ARROW",
	DOUBLE_ARROW:   "DOUBLE_ARROW",
	LT:             "LT",
	GT:             "GT",
	LTE:            "LTE",
	GTE:            "GTE",
	EQ:             "EQ",
	NOT_EQ:         "NOT_EQ",
	AND:            "AND",
	OR:             "OR",
	BANG:           "BANG",
	BIT_AND:        "BIT_AND",
	BIT_OR:         "BIT_OR",
	BIT_XOR:        "BIT_XOR",
	BIT_NOT:        "BIT_NOT",
	SHL:            "SHL",
	SHR:            "SHR",
	QUESTION:       "QUESTION",
	COMMA:          "COMMA",
	SEMICOLON:      "SEMICOLON",
	COLON:          "COLON",
	LPAREN:         "LPAREN",
	RPAREN:         "RPAREN",
	LBRACE:         "LBRACE",
	RBRACE:         "RBRACE",
	LBRACKET:       "LBRACKET",
	RBRACKET:       "RBRACKET",
	ECHO:           "ECHO",
	RETURN:         "RETURN",
	BREAK:          "BREAK",
	CONTINUE:       "CONTINUE",
	USE:            "USE",
	WHILE:          "WHILE",
	DO:             "DO",
	FOREACH:        "FOREACH",
	AS:             "AS",
	IF:             "IF",
	ELSEIF:         "ELSEIF",
	ELSE:           "ELSE",
	FUNCTION:       "FUNCTION",
	FN:             "FN",
	CLASS:          "CLASS",
	EXTENDS:        "EXTENDS",
	IMPLEMENTS:     "IMPLEMENTS",
	NEW:            "NEW",
	STATIC:         "STATIC",
	PUBLIC:         "PUBLIC",
	PROTECTED:      "PROTECTED",
	PRIVATE:        "PRIVATE",
	FINAL:          "FINAL",
	ABSTRACT:       "ABSTRACT",
	TRUE:           "TRUE",
	FALSE:          "FALSE",
	NULL:           "NULL",
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return "UNKNOWN"
}

// Keywords map for identifying language keywords. Lookups are case-insensitive.
var keywords = map[string]TokenType{
	"echo":       ECHO,
	"return":     RETURN,
	"break":      BREAK,
	"continue":   CONTINUE,
	"use":        USE,
	"while":      WHILE,
	"do":         DO,
	"foreach":    FOREACH,
	"as":         AS,
	"if":         IF,
	"elseif":     ELSEIF,
	"else":       ELSE,
	"function":   FUNCTION,
	"fn":         FN,
	"class":      CLASS,
	"extends":    EXTENDS,
	"implements": IMPLEMENTS,
	"new":        NEW,
	"static":     STATIC,
	"public":     PUBLIC,
	"protected":  PROTECTED,
	"private":    PRIVATE,
	"final":      FINAL,
	"abstract":   ABSTRACT,
	"true":       TRUE,
	"false":      FALSE,
	"null":       NULL,
}

// LookupIdent checks if an identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[strings.ToLower(ident)]; ok {
		return tok
	}
	return IDENT
}

// Keywords returns every keyword, sorted. Used for "did you mean" hints.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for k := range keywords {
		words = append(words, k)
	}
	sort.Strings(words)
	return words
}

// Lexer represents the lexical analyzer
type Lexer struct {
	filename     string
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination (first byte)
	chRune       rune // current character as a rune
	chSize       int  // byte size of current character
	line         int
	column       int
}

// New creates a new lexer instance
func New(input string) *Lexer {
	return NewWithFilename(input, "<input>")
}

// NewWithFilename creates a new lexer instance with a specific filename
func NewWithFilename(input string, filename string) *Lexer {
	l := &Lexer{
		filename: filename,
		input:    input,
		line:     1,
		column:   0,
	}
	l.readChar()
	return l
}

// Filename returns the name the lexer was created with.
func (l *Lexer) Filename() string {
	return l.filename
}

// Clone returns an independent copy of the lexer at its current position.
// The input string is shared; all cursor state is copied.
func (l *Lexer) Clone() *Lexer {
	c := *l
	return &c
}

// PeekToken returns the next token without consuming it
func (l *Lexer) PeekToken() Token {
	return l.Clone().NextToken()
}

// readChar reads the next character and advances position.
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII NUL character represents EOF
		l.chRune = 0
		l.chSize = 0
		l.position = l.readPosition
		return
	}

	b := l.input[l.readPosition]

	if b < utf8.RuneSelf {
		l.ch = b
		l.chRune = rune(b)
		l.chSize = 1
		l.position = l.readPosition
		l.readPosition++

		if l.ch == '\n' {
			l.line++
			l.column = 0
		} else {
			l.column++
		}
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = b
	l.chRune = r
	l.chSize = size
	l.position = l.readPosition
	l.readPosition += size

	l.column++
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// peekCharN returns the character n positions ahead without advancing position
func (l *Lexer) peekCharN(n int) byte {
	pos := l.readPosition + n - 1
	if pos >= len(l.input) {
		return 0
	}
	return l.input[pos]
}

// NextToken scans the input and returns the next token
func (l *Lexer) NextToken() Token {
	var tok Token

	if illegal, ok := l.skipTrivia(); !ok {
		return illegal
	}

	line := l.line
	column := l.column

	switch l.ch {
	case '=':
		switch l.peekChar() {
		case '=':
			tok = l.twoCharToken(EQ)
		case '>':
			tok = l.twoCharToken(DOUBLE_ARROW)
		default:
			tok = newToken(ASSIGN, l.ch, line, column)
		}
	case '+':
		tok = newToken(PLUS, l.ch, line, column)
	case '-':
		if l.peekChar() == '>' {
			tok = l.twoCharToken(ARROW)
		} else {
			tok = newToken(MINUS, l.ch, line, column)
		}
	case '*':
		tok = newToken(ASTERISK, l.ch, line, column)
	case '/':
		if l.peekChar() == '*' {
			// skipTrivia only stops at "/*" for doc blocks
			literal, terminated := l.readDocBlock()
			if !terminated {
				return Token{Type: ILLEGAL, Literal: literal, Line: line, Column: column}
			}
			return Token{Type: DOC_BLOCK, Literal: literal, Line: line, Column: column}
		}
		tok = newToken(SLASH, l.ch, line, column)
	case '%':
		tok = newToken(PERCENT, l.ch, line, column)
	case '.':
		if isDigit(l.peekChar()) {
			tok.Literal = l.readNumber()
			tok.Type = FLOAT
			tok.Line = line
			tok.Column = column
			return tok
		}
		tok = newToken(DOT, l.ch, line, column)
	case '!':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(NOT_EQ)
		} else {
			tok = newToken(BANG, l.ch, line, column)
		}
	case '<':
		switch {
		case l.peekChar() == '?' && strings.EqualFold(l.slice(l.readPosition+1, 3), "php"):
			start := l.position
			for i := 0; i < 5; i++ {
				l.readChar()
			}
			return Token{Type: OPEN_TAG, Literal: l.input[start:l.position], Line: line, Column: column}
		case l.peekChar() == '=':
			tok = l.twoCharToken(LTE)
		case l.peekChar() == '<':
			tok = l.twoCharToken(SHL)
		default:
			tok = newToken(LT, l.ch, line, column)
		}
	case '>':
		switch l.peekChar() {
		case '=':
			tok = l.twoCharToken(GTE)
		case '>':
			tok = l.twoCharToken(SHR)
		default:
			tok = newToken(GT, l.ch, line, column)
		}
	case '&':
		if l.peekChar() == '&' {
			tok = l.twoCharToken(AND)
		} else {
			tok = newToken(BIT_AND, l.ch, line, column)
		}
	case '|':
		if l.peekChar() == '|' {
			tok = l.twoCharToken(OR)
		} else {
			tok = newToken(BIT_OR, l.ch, line, column)
		}
	case '^':
		tok = newToken(BIT_XOR, l.ch, line, column)
	case '~':
		tok = newToken(BIT_NOT, l.ch, line, column)
	case '?':
		if isIdentStart(rune(l.peekChar())) || l.peekChar() == '\\' {
			start := l.position
			l.readChar() // consume '?'
			l.readIdentifier()
			return Token{Type: NULLABLE_IDENT, Literal: l.input[start:l.position], Line: line, Column: column}
		}
		tok = newToken(QUESTION, l.ch, line, column)
	case '$':
		if !isIdentStart(rune(l.peekChar())) && l.peekChar() < utf8.RuneSelf {
			tok = newToken(ILLEGAL, l.ch, line, column)
			break
		}
		start := l.position
		l.readChar() // consume '$'
		l.readIdentifier()
		return Token{Type: VARIABLE, Literal: l.input[start:l.position], Line: line, Column: column}
	case '"', '\'':
		literal, terminated := l.readString(l.ch)
		if !terminated {
			return Token{Type: ILLEGAL, Literal: literal, Line: line, Column: column}
		}
		tok = Token{Type: STRING, Literal: literal, Line: line, Column: column}
	case ',':
		tok = newToken(COMMA, l.ch, line, column)
	case ';':
		tok = newToken(SEMICOLON, l.ch, line, column)
	case ':':
		tok = newToken(COLON, l.ch, line, column)
	case '(':
		tok = newToken(LPAREN, l.ch, line, column)
	case ')':
		tok = newToken(RPAREN, l.ch, line, column)
	case '{':
		tok = newToken(LBRACE, l.ch, line, column)
	case '}':
		tok = newToken(RBRACE, l.ch, line, column)
	case '[':
		tok = newToken(LBRACKET, l.ch, line, column)
	case ']':
		tok = newToken(RBRACKET, l.ch, line, column)
	case 0:
		tok.Literal = ""
		tok.Type = EOF
		tok.Line = line
		tok.Column = column
		return tok
	default:
		if isIdentStart(l.chRune) || l.ch == '\\' {
			tok.Literal = l.readIdentifier()
			tok.Type = LookupIdent(tok.Literal)
			tok.Line = line
			tok.Column = column
			return tok // early return to avoid readChar()
		} else if isDigit(l.ch) {
			tok.Literal = l.readNumber()
			if isFloatLiteral(tok.Literal) {
				tok.Type = FLOAT
			} else {
				tok.Type = INT
			}
			tok.Line = line
			tok.Column = column
			return tok
		}
		tok = Token{Type: ILLEGAL, Literal: string(l.chRune), Line: line, Column: column}
	}

	l.readChar()
	return tok
}

// Tokenize lexes the whole input, excluding the trailing EOF token.
// Lexing stops after the first ILLEGAL token.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == EOF {
			return tokens
		}
		tokens = append(tokens, tok)
		if tok.Type == ILLEGAL {
			return tokens
		}
	}
}

// newToken creates a new token with the given parameters
func newToken(tokenType TokenType, ch byte, line, column int) Token {
	return Token{Type: tokenType, Literal: string(ch), Line: line, Column: column}
}

// twoCharToken consumes the current and the next character as one token.
func (l *Lexer) twoCharToken(tokenType TokenType) Token {
	line := l.line
	col := l.column
	ch := l.ch
	l.readChar()
	return Token{Type: tokenType, Literal: string(ch) + string(l.ch), Line: line, Column: col}
}

func (l *Lexer) slice(start, n int) string {
	if start >= len(l.input) {
		return ""
	}
	end := start + n
	if end > len(l.input) {
		end = len(l.input)
	}
	return l.input[start:end]
}

// skipTrivia skips whitespace and comments. Doc blocks are not trivia and stop
// the scan. An unterminated block comment yields an ILLEGAL token.
func (l *Lexer) skipTrivia() (Token, bool) {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '#', l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			if l.peekCharN(2) == '*' && l.peekCharN(3) != '/' {
				return Token{}, true
			}
			line, col, start := l.line, l.column, l.position
			if !l.skipBlockComment() {
				return Token{Type: ILLEGAL, Literal: l.input[start:l.position], Line: line, Column: col}, false
			}
		default:
			return Token{}, true
		}
	}
}

// skipBlockComment consumes "/* ... */" and reports whether it was terminated.
func (l *Lexer) skipBlockComment() bool {
	l.readChar() // '/'
	l.readChar() // '*'
	for l.ch != 0 {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return true
		}
		l.readChar()
	}
	return false
}

// readDocBlock reads a "/** ... */" comment, delimiters included.
func (l *Lexer) readDocBlock() (string, bool) {
	start := l.position
	ok := l.skipBlockComment()
	end := l.position
	if l.ch == 0 {
		end = len(l.input)
	}
	return l.input[start:end], ok
}

// readIdentifier reads an identifier or keyword. Namespace separators are
// part of the identifier.
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isIdentStart(l.chRune) || isDigit(l.ch) || l.ch == '\\' {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads a number (integer or float, with optional exponent)
func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && (isDigit(l.peekChar()) || l.position == position) {
		l.readChar() // consume the '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	if (l.ch == 'e' || l.ch == 'E') && (isDigit(l.peekChar()) ||
		((l.peekChar() == '+' || l.peekChar() == '-') && isDigit(l.peekCharN(2)))) {
		l.readChar() // consume 'e'
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	return l.input[position:l.position]
}

// readString reads a quoted string. The literal keeps its quotes and escape
// sequences verbatim. Strings may span lines.
func (l *Lexer) readString(quote byte) (string, bool) {
	start := l.position
	l.readChar() // skip opening quote

	for l.ch != quote && l.ch != 0 {
		if l.ch == '\\' && l.peekChar() != 0 {
			l.readChar()
		}
		l.readChar()
	}

	if l.ch != quote {
		return l.input[start:l.position], false
	}
	return l.input[start:l.readPosition], true
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// isDigit checks if the character is a digit
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isFloatLiteral(s string) bool {
	return strings.ContainsAny(s, ".eE")
}
