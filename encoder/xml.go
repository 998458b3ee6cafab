// SPDX-FileCopyrightText: © 2021 The tagml authors <https://github.com/golangee/tagml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package encoder

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/golangee/tagml/ast"
)

// XMLEncoder writes a tree as indented XML.
// Literals become attribute values, variable references keep their braces as
// attribute text and bare attributes are written as name="name".
type XMLEncoder struct {
	writer *bufio.Writer

	// openNodes is a stack of elements that are currently opened,
	// so that the closing tag can be written once all children are done.
	openNodes []*openNode
	// indent is the current level of indentation for emitting XML.
	indent uint
}

// openNode is an element whose children are being written.
type openNode struct {
	node *ast.Node
	// next is the index of the next child to write.
	next int
}

func NewXMLEncoder(w io.Writer) *XMLEncoder {
	return &XMLEncoder{
		writer: bufio.NewWriter(w),
	}
}

// Encode writes the tree. There is no up-front validation, which means that in case of
// an error incomplete output already got emitted.
func (e *XMLEncoder) Encode(n *ast.Node) error {
	e.openNodes = nil
	e.indent = 0

	if n == nil {
		return fmt.Errorf("%w: nil node", ErrNotEncodable)
	}

	if err := e.openElement(n); err != nil {
		return err
	}

	for top := e.peek(); top != nil; top = e.peek() {
		if top.next == len(top.node.Children) {
			e.pop()
			e.indent--

			if err := e.writeString(fmt.Sprintf("%s</%s>\n", e.indentString(), top.node.Name)); err != nil {
				return err
			}

			continue
		}

		child := top.node.Children[top.next]
		top.next++

		switch b := child.(type) {
		case ast.Text:
			err := e.writeString(fmt.Sprintf("%s%s\n", e.indentString(), escapeXMLSafe(strings.TrimSpace(b.Value))))
			if err != nil {
				return err
			}
		case *ast.Node:
			if err := e.openElement(b); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: unsupported body %T", ErrNotEncodable, child)
		}
	}

	if err := e.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush written XML: %w", err)
	}

	return nil
}

// openElement writes the opening tag. Elements with children are put on the
// working stack, empty ones are closed right away.
func (e *XMLEncoder) openElement(n *ast.Node) error {
	if err := checkName(n.Name, "tag name"); err != nil {
		return err
	}

	var tag strings.Builder

	tag.WriteString(e.indentString())
	tag.WriteString("<")
	tag.WriteString(n.Name)

	for _, attr := range n.Attributes {
		if err := checkAttributeName(attr.Name); err != nil {
			return fmt.Errorf("<%s>: %w", n.Name, err)
		}

		var value string

		switch v := attr.Value.(type) {
		case nil:
			value = attr.Name
		case ast.Literal:
			value = string(v)
		case ast.VariableReference:
			value = "{" + string(v) + "}"
		default:
			return fmt.Errorf("%w: unsupported attribute value %T", ErrNotEncodable, attr.Value)
		}

		tag.WriteString(fmt.Sprintf(` %s="%s"`, attr.Name, escapeXMLSafe(value)))
	}

	switch {
	case n.SelfClosing && len(n.Children) > 0:
		return fmt.Errorf("%w: self-closing <%s> has children", ErrNotEncodable, n.Name)
	case n.SelfClosing:
		tag.WriteString("/>\n")
	case len(n.Children) == 0:
		tag.WriteString(fmt.Sprintf("></%s>\n", n.Name))
	default:
		tag.WriteString(">\n")

		e.indent++
		e.push(&openNode{node: n})
	}

	return e.writeString(tag.String())
}

// writeString is a convenience method to write strings to the underlying writer.
func (e *XMLEncoder) writeString(s string) error {
	_, err := e.writer.WriteString(s)

	return err
}

// push a node onto our working stack.
func (e *XMLEncoder) push(n *openNode) {
	e.openNodes = append(e.openNodes, n)
}

// peek at the top element in our working stack. Might return nil if the stack is empty.
func (e *XMLEncoder) peek() *openNode {
	if len(e.openNodes) > 0 {
		return e.openNodes[len(e.openNodes)-1]
	}

	return nil
}

// pop the top node from the working stack. Might return nil if the stack is empty.
func (e *XMLEncoder) pop() *openNode {
	if len(e.openNodes) > 0 {
		n := e.openNodes[len(e.openNodes)-1]
		e.openNodes = e.openNodes[:len(e.openNodes)-1]

		return n
	}

	return nil
}

// indentString returns a string with a number of spaces that matches the
// current indentation level.
func (e *XMLEncoder) indentString() string {
	return strings.Repeat("    ", int(e.indent))
}

// escapeXMLSafe replaces all occurrences of reserved characters in XML: <>&".
func escapeXMLSafe(s string) string {
	replacer := strings.NewReplacer("<", "&lt;", ">", "&gt;", "&", "&amp;", `"`, "&quot;")

	return replacer.Replace(s)
}
