// SPDX-FileCopyrightText: © 2021 The tagml authors <https://github.com/golangee/tagml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package render lowers parsed trees into gomponents nodes, resolving variable references against data.
package render

import (
	"fmt"
	"io"

	g "maragu.dev/gomponents"

	"github.com/golangee/tagml/ast"
	"github.com/golangee/tagml/expr"
	"github.com/golangee/tagml/token"
)

// Lower converts n and all its children into a gomponents element tree.
// Bare attributes become boolean attributes. A variable reference resolving to false or nil omits the attribute,
// true renders it as boolean attribute and any other value is formatted with fmt.Sprint.
func Lower(n *ast.Node, data interface{}) (g.Node, error) {
	var children []g.Node

	for _, attr := range n.Attributes {
		node, err := lowerAttribute(attr, data)
		if err != nil {
			return nil, err
		}

		if node != nil {
			children = append(children, node)
		}
	}

	for _, c := range n.Children {
		switch t := c.(type) {
		case ast.Text:
			children = append(children, g.Text(t.Value))
		case *ast.Node:
			child, err := Lower(t, data)
			if err != nil {
				return nil, err
			}

			children = append(children, child)
		default:
			return nil, fmt.Errorf("unsupported body %T", c)
		}
	}

	return g.El(n.Name, children...), nil
}

func lowerAttribute(attr ast.Attribute, data interface{}) (g.Node, error) {
	switch v := attr.Value.(type) {
	case nil:
		return g.Attr(attr.Name), nil
	case ast.Literal:
		return g.Attr(attr.Name, string(v)), nil
	case ast.VariableReference:
		resolved, err := expr.Eval(string(v), data)
		if err != nil {
			return nil, token.NewPosError(attr.Range, fmt.Sprintf("cannot resolve {%s}", string(v))).
				SetCause(err).
				SetHint("provide the value in the render data")
		}

		switch r := resolved.(type) {
		case nil:
			return nil, nil
		case bool:
			if !r {
				return nil, nil
			}

			return g.Attr(attr.Name), nil
		default:
			return g.Attr(attr.Name, fmt.Sprint(r)), nil
		}
	default:
		return nil, fmt.Errorf("unsupported attribute value %T", attr.Value)
	}
}

// HTML renders n as HTML into w.
func HTML(w io.Writer, n *ast.Node, data interface{}) error {
	node, err := Lower(n, data)
	if err != nil {
		return err
	}

	return node.Render(w)
}
