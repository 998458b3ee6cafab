// SPDX-FileCopyrightText: © 2021 The tagml authors <https://github.com/golangee/tagml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package ast contains the tree produced by the parser.
// Trees are built once by the parser and must not be mutated afterwards.
package ast

import (
	"strings"

	"github.com/golangee/tagml/token"
)

// Body is either a Text or a *Node inside the children of a Node.
type Body interface {
	token.Node
	body()
}

// Text is a trimmed, non-empty run of characters between tags.
type Text struct {
	Value string
	Range token.Position
}

func (Text) body() {}

func (t Text) Begin() token.Pos {
	return t.Range.BeginPos
}

func (t Text) End() token.Pos {
	return t.Range.EndPos
}

// Value is either a Literal or a VariableReference.
type Value interface {
	value()
	// Raw returns the characters between the delimiters.
	Raw() string
}

// Literal is a quoted attribute value like name="text".
type Literal string

func (Literal) value() {}

func (l Literal) Raw() string {
	return string(l)
}

// VariableReference is a braced attribute value like name={user.name}.
type VariableReference string

func (VariableReference) value() {}

func (v VariableReference) Raw() string {
	return string(v)
}

// Attribute represents a single attribute of a Node.
type Attribute struct {
	// ID is unique within the owning node, assigned in encounter order starting at 0.
	ID   int
	Name string
	// Value is nil for a bare attribute without '='.
	Value Value
	Range token.Position
}

// HasValue returns false for bare attributes like <input disabled>.
func (a Attribute) HasValue() bool {
	return a.Value != nil
}

// Node is an element of the tree.
type Node struct {
	// ID is unique within one parsed document and increases in the order nodes are opened.
	ID int
	// ParentID is nil for the root node.
	ParentID *int
	Name     string
	Children []Body
	// Attributes are kept in source order.
	Attributes []Attribute
	// SelfClosing is true for nodes written as <name/>.
	SelfClosing bool
	// Range spans from the opening '<' to the final '>'.
	Range token.Position
}

func (*Node) body() {}

func (n *Node) Begin() token.Pos {
	return n.Range.BeginPos
}

func (n *Node) End() token.Pos {
	return n.Range.EndPos
}

// Parent returns the id of the enclosing node or false for the root.
func (n *Node) Parent() (int, bool) {
	if n.ParentID == nil {
		return 0, false
	}

	return *n.ParentID, true
}

// Attr returns the first attribute with the given name.
func (n *Node) Attr(name string) (Attribute, bool) {
	for _, a := range n.Attributes {
		if a.Name == name {
			return a, true
		}
	}

	return Attribute{}, false
}

// Elements returns all direct child nodes, skipping text.
func (n *Node) Elements() []*Node {
	var res []*Node

	for _, c := range n.Children {
		if child, ok := c.(*Node); ok {
			res = append(res, child)
		}
	}

	return res
}

// Text concatenates all direct text children, separated by a single space.
func (n *Node) Text() string {
	var texts []string

	for _, c := range n.Children {
		if text, ok := c.(Text); ok {
			texts = append(texts, text.Value)
		}
	}

	return strings.Join(texts, " ")
}

// Walk visits n and all its descendants in pre-order, which is also ascending id order.
// If fn returns false, the children of that node are skipped.
func Walk(n *Node, fn func(n *Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	for _, c := range n.Children {
		if child, ok := c.(*Node); ok {
			Walk(child, fn)
		}
	}
}
