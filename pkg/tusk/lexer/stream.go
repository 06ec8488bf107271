package lexer

// TokenStream is the forward token source consumed by the parser.
// Fork returns an independent copy positioned at the same place, so the
// parser can look further ahead without disturbing the original.
type TokenStream interface {
	Next() (Token, bool)
	Peek() (Token, bool)
	Fork() TokenStream
}

// Stream adapts a Lexer to a TokenStream. EOF is reported as the end of
// the stream rather than as a token.
type Stream struct {
	lexer *Lexer
	last  Token
}

// NewStream creates a token stream over source.
func NewStream(source string) *Stream {
	return &Stream{lexer: New(source)}
}

// NewStreamWithFilename creates a token stream that remembers its file name.
func NewStreamWithFilename(source, filename string) *Stream {
	return &Stream{lexer: NewWithFilename(source, filename)}
}

// Next consumes and returns the next token.
func (s *Stream) Next() (Token, bool) {
	tok := s.lexer.NextToken()
	if tok.Type == EOF {
		return tok, false
	}
	s.last = tok
	return tok, true
}

// Peek returns the next token without consuming it.
func (s *Stream) Peek() (Token, bool) {
	tok := s.lexer.PeekToken()
	return tok, tok.Type != EOF
}

// Fork returns a copy of the stream at the same position.
func (s *Stream) Fork() TokenStream {
	return &Stream{lexer: s.lexer.Clone(), last: s.last}
}

// Last returns the most recently consumed token.
func (s *Stream) Last() Token {
	return s.last
}

// SliceStream serves tokens produced ahead of time, for example by an
// external lexer.
type SliceStream struct {
	tokens []Token
	pos    int
}

// NewSliceStream wraps a token slice. A trailing EOF token, if present,
// ends the stream.
func NewSliceStream(tokens []Token) *SliceStream {
	return &SliceStream{tokens: tokens}
}

// Next consumes and returns the next token.
func (s *SliceStream) Next() (Token, bool) {
	tok, ok := s.Peek()
	if ok {
		s.pos++
	}
	return tok, ok
}

// Peek returns the next token without consuming it.
func (s *SliceStream) Peek() (Token, bool) {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].Type == EOF {
		return Token{Type: EOF}, false
	}
	return s.tokens[s.pos], true
}

// Fork returns a copy of the stream at the same position.
func (s *SliceStream) Fork() TokenStream {
	return &SliceStream{tokens: s.tokens, pos: s.pos}
}

// Last returns the most recently consumed token.
func (s *SliceStream) Last() Token {
	if s.pos == 0 {
		return Token{}
	}
	return s.tokens[s.pos-1]
}
