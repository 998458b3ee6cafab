// SPDX-FileCopyrightText: © 2021 The tagml authors <https://github.com/golangee/tagml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"errors"
	"fmt"

	"github.com/golangee/tagml/ast"
	"github.com/golangee/tagml/token"
)

// Every error returned by the parser, except read errors of the underlying io.Reader, is a *token.PosError
// whose cause matches one of these with errors.Is. Invalid UTF-8 counts as an unexpected character.
var (
	// ErrUnexpectedCharacter means a character appeared in a state without a transition for it.
	ErrUnexpectedCharacter = errors.New("unexpected character")
	// ErrClosingTagMismatch means a closing tag name differs from the name of the open element.
	ErrClosingTagMismatch = errors.New("closing tag mismatch")
	// ErrUnexpectedEOF means the input ended while an element or attribute was still open.
	ErrUnexpectedEOF = errors.New("unexpected end of input")
	// ErrAttributeSyntax means a malformed attribute, like a missing quote or mismatched delimiters.
	ErrAttributeSyntax = errors.New("attribute syntax error")
	// ErrDepthExceeded means elements are nested deeper than the configured maximum.
	ErrDepthExceeded = errors.New("maximum nesting depth exceeded")
)

// StateError describes which character was found in which state machine state.
// It unwraps to ErrUnexpectedCharacter or ErrAttributeSyntax.
type StateError struct {
	Kind  error
	State string
	Char  rune
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%v %q in state %s", e.Kind, e.Char, e.State)
}

func (e *StateError) Unwrap() error {
	return e.Kind
}

// MismatchError is returned when the closing tag does not match the opening tag.
type MismatchError struct {
	// Open is the name of the element that has been opened.
	Open string
	// Close is the name found in the closing tag.
	Close string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%v: </%s> does not close <%s>", ErrClosingTagMismatch, e.Close, e.Open)
}

func (e *MismatchError) Unwrap() error {
	return ErrClosingTagMismatch
}

// unexpected creates an error for the rune that was read last.
func (p *Parser) unexpected(kind error, state fmt.Stringer, r rune, msg string) error {
	pos := p.cursor.LastPos()

	return token.NewPosError(token.NewNode(pos, p.cursor.Pos()), msg).
		SetCause(&StateError{Kind: kind, State: state.String(), Char: r}).
		SetSource(p.cursor.Source())
}

func (p *Parser) eof(node *ast.Node, msg string) error {
	pos := p.cursor.Pos()

	var details []token.ErrDetail
	if node != nil && node.Name != "" {
		details = append(details, token.NewErrDetail(
			token.NewNode(node.Range.BeginPos, node.Range.BeginPos),
			fmt.Sprintf("<%s> opened here", node.Name),
		))
	}

	err := token.NewPosError(token.NewNode(pos, pos), msg, details...).
		SetCause(ErrUnexpectedEOF).
		SetSource(p.cursor.Source())

	if node != nil && node.Name != "" {
		err.SetHint(fmt.Sprintf("close the element with </%s> or write it as <%s/>", node.Name, node.Name))
	}

	return err
}

func (p *Parser) mismatch(node *ast.Node, closing string, begin token.Pos) error {
	return token.NewPosError(
		token.NewNode(begin, p.cursor.Pos()),
		fmt.Sprintf("unexpected closing tag </%s>", closing),
		token.NewErrDetail(
			token.NewNode(node.Range.BeginPos, node.Range.BeginPos),
			fmt.Sprintf("<%s> opened here", node.Name),
		),
	).
		SetCause(&MismatchError{Open: node.Name, Close: closing}).
		SetHint(fmt.Sprintf("use </%s> to close this element", node.Name)).
		SetSource(p.cursor.Source())
}

func (p *Parser) tooDeep(begin token.Pos) error {
	return token.NewPosError(token.NewNode(begin, begin), "element nested too deep").
		SetCause(fmt.Errorf("%w (%d)", ErrDepthExceeded, p.maxDepth)).
		SetSource(p.cursor.Source())
}
