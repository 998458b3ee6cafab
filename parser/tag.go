// SPDX-FileCopyrightText: © 2021 The tagml authors <https://github.com/golangee/tagml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"strings"
	"unicode"

	"github.com/golangee/tagml/ast"
	"github.com/golangee/tagml/token"
)

type tagState int

const (
	stateStart tagState = iota
	stateTagName
	stateAttributes
	stateBody
	stateClosingTag
	// stateEnd is only used after the root element has been closed.
	stateEnd
)

func (s tagState) String() string {
	switch s {
	case stateStart:
		return "Start"
	case stateTagName:
		return "TagName"
	case stateAttributes:
		return "Attributes"
	case stateBody:
		return "Body"
	case stateClosingTag:
		return "ClosingTag"
	case stateEnd:
		return "End"
	default:
		return "Unknown"
	}
}

// textRun collects body text and remembers where its trimmed content starts and ends.
type textRun struct {
	buf        strings.Builder
	begin, end token.Pos
	hasContent bool
}

func (t *textRun) add(r rune, pos, next token.Pos) {
	t.buf.WriteRune(r)

	if unicode.IsSpace(r) {
		return
	}

	if !t.hasContent {
		t.begin = pos
		t.hasContent = true
	}

	t.end = next
}

// flush appends the trimmed text to node. Whitespace-only runs are dropped.
func (t *textRun) flush(node *ast.Node) {
	if t.hasContent {
		node.Children = append(node.Children, ast.Text{
			Value: strings.TrimSpace(t.buf.String()),
			Range: token.Position{BeginPos: t.begin, EndPos: t.end},
		})
	}

	*t = textRun{}
}

// parseTag reads one element starting at its '<', including all nested elements.
// The node id is taken from the shared counter before any child is parsed.
func (p *Parser) parseTag(parentID *int) (*ast.Node, error) {
	node := &ast.Node{
		ID:       p.nextID,
		ParentID: parentID,
	}
	p.nextID++

	p.depth++
	defer func() { p.depth-- }()

	state := stateStart

	var (
		name, closing strings.Builder
		text          textRun
		closingBegin  token.Pos
		// closingDone is set when whitespace followed the closing tag name.
		closingDone bool
	)

	for {
		r, ok := p.cursor.Next()
		if !ok {
			if state == stateStart {
				return nil, p.eof(nil, "document ends before any element")
			}

			return nil, p.eof(node, "document ends inside an element")
		}

		switch state {
		case stateStart:
			switch {
			case r == '<':
				node.Range.BeginPos = p.cursor.LastPos()

				if p.maxDepth > 0 && p.depth > p.maxDepth {
					return nil, p.tooDeep(node.Range.BeginPos)
				}

				state = stateTagName
			case unicode.IsSpace(r):
			default:
				return nil, p.unexpected(ErrUnexpectedCharacter, state, r, "expected '<' to start an element")
			}
		case stateTagName:
			switch {
			case r == '>' || unicode.IsSpace(r):
				if name.Len() == 0 {
					return nil, p.unexpected(ErrUnexpectedCharacter, state, r, "expected a tag name")
				}

				node.Name = name.String()
				p.log.Trace().Int("id", node.ID).Str("tag", node.Name).Msg("tag opened")

				if r == '>' {
					state = stateBody
				} else {
					state = stateAttributes
				}
			case r == '/':
				if name.Len() == 0 {
					return nil, p.unexpected(ErrUnexpectedCharacter, state, r, "expected a tag name")
				}

				node.Name = name.String()

				if p.selfClose() {
					return p.closeSelf(node), nil
				}

				return nil, p.unexpectedSlash(node, state)
			case r == '<':
				return nil, p.unexpected(ErrUnexpectedCharacter, state, r, "'<' is not allowed inside a tag name")
			default:
				name.WriteRune(r)
			}
		case stateAttributes:
			switch {
			case r == '>':
				state = stateBody
			case r == '/':
				if p.selfClose() {
					return p.closeSelf(node), nil
				}

				return nil, p.unexpectedSlash(node, state)
			case r == '<':
				return nil, p.unexpected(ErrUnexpectedCharacter, state, r, "'<' is not allowed inside a tag")
			case unicode.IsSpace(r):
			default:
				attr, err := p.parseAttribute(node, len(node.Attributes))
				if err != nil {
					return nil, err
				}

				node.Attributes = append(node.Attributes, attr)
			}
		case stateBody:
			switch r {
			case '<':
				text.flush(node)

				if next, ok := p.cursor.Peek(); ok && next == '/' {
					closingBegin = p.cursor.LastPos()
					p.cursor.Next()
					state = stateClosingTag

					continue
				}

				p.cursor.Prev()

				parent := node.ID

				child, err := p.parseTag(&parent)
				if err != nil {
					return nil, err
				}

				node.Children = append(node.Children, child)
			case '>':
				return nil, p.unexpected(ErrUnexpectedCharacter, state, r, "'>' without a matching '<'")
			default:
				text.add(r, p.cursor.LastPos(), p.cursor.Pos())
			}
		case stateClosingTag:
			switch {
			case r == '>':
				if closing.String() != node.Name {
					return nil, p.mismatch(node, closing.String(), closingBegin)
				}

				node.Range.EndPos = p.cursor.Pos()
				p.log.Trace().Int("id", node.ID).Str("tag", node.Name).Msg("tag closed")

				return node, nil
			case r == '<' || r == '/':
				return nil, p.unexpected(ErrUnexpectedCharacter, state, r, "expected the closing tag name or '>'")
			case unicode.IsSpace(r):
				closingDone = closing.Len() > 0
			default:
				if closingDone {
					return nil, p.unexpected(ErrUnexpectedCharacter, state, r, "expected '>' after the closing tag name")
				}

				closing.WriteRune(r)
			}
		}
	}
}

// selfClose consumes the '>' of a "/>" sequence, after the '/' has been read.
func (p *Parser) selfClose() bool {
	if r, ok := p.cursor.Peek(); ok && r == '>' {
		p.cursor.Next()

		return true
	}

	return false
}

func (p *Parser) closeSelf(node *ast.Node) *ast.Node {
	node.SelfClosing = true
	node.Range.EndPos = p.cursor.Pos()
	p.log.Trace().Int("id", node.ID).Str("tag", node.Name).Msg("tag self-closed")

	return node
}

func (p *Parser) unexpectedSlash(node *ast.Node, state tagState) error {
	if _, ok := p.cursor.Peek(); !ok {
		return p.eof(node, "document ends inside an element")
	}

	return p.unexpected(ErrUnexpectedCharacter, state, '/', "'/' inside a tag must be followed by '>'")
}
