// SPDX-FileCopyrightText: © 2021 The tagml authors <https://github.com/golangee/tagml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package parser turns tagml documents into an ast.Node tree.
//
// A document is a single root element with nested elements, text and attributes:
//
//	<card title="Hello" user={user.name} highlighted>
//	  some text <br/> more text
//	</card>
//
// Parsing is a single pass over the input with one rune of lookahead.
// The first error aborts the parse and no partial tree is returned.
package parser

import (
	"errors"
	"io"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/golangee/tagml/ast"
	"github.com/golangee/tagml/token"
)

// DefaultMaxDepth is the nesting limit used when WithMaxDepth is not given.
const DefaultMaxDepth = 512

// Option configures a Parser.
type Option func(p *Parser)

// WithMaxDepth limits how deep elements may be nested. A value <= 0 disables the limit.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// WithLogger sets a logger for trace output of opened and closed tags.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Parser) {
		p.log = logger
	}
}

// Parser is used to get a tree representation from tagml input.
// A Parser is not safe for concurrent use.
type Parser struct {
	filename string
	r        io.Reader
	cursor   *token.Cursor
	// nextID is the id of the next node that gets opened. It is shared by the whole document.
	nextID   int
	depth    int
	maxDepth int
	log      zerolog.Logger
}

// NewParser creates a parser that reads the document from r.
// The filename is only used for positions in errors.
func NewParser(filename string, r io.Reader, opts ...Option) *Parser {
	p := &Parser{
		filename: filename,
		r:        r,
		maxDepth: DefaultMaxDepth,
		log:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// ParseDocument parses text and returns the root node with id 0.
func ParseDocument(text string, opts ...Option) (*ast.Node, error) {
	return NewParser("", strings.NewReader(text), opts...).Parse()
}

// Parse returns the parsed tree. Use token.Explain to render a returned error.
func (p *Parser) Parse() (*ast.Node, error) {
	cursor, err := token.ReadCursor(p.filename, p.r)
	if err != nil {
		// Invalid UTF-8 is reported as an unexpected character, read errors stay as they are.
		var posErr *token.PosError
		if errors.As(err, &posErr) && posErr.Cause == nil {
			posErr.SetCause(ErrUnexpectedCharacter)
		}

		return nil, err
	}

	p.cursor = cursor
	p.nextID = 0
	p.depth = 0

	root, err := p.parseTag(nil)
	if err != nil {
		return nil, err
	}

	for {
		r, ok := p.cursor.Next()
		if !ok {
			break
		}

		if !unicode.IsSpace(r) {
			return nil, p.unexpected(ErrUnexpectedCharacter, stateEnd, r, "only whitespace may follow the root element")
		}
	}

	p.log.Debug().
		Str("file", p.filename).
		Int("nodes", p.nextID).
		Str("root", root.Name).
		Msg("document parsed")

	return root, nil
}
