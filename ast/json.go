// SPDX-FileCopyrightText: © 2021 The tagml authors <https://github.com/golangee/tagml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"encoding/json"
	"fmt"
)

type jsonValue struct {
	Literal           *string `json:"literal,omitempty"`
	VariableReference *string `json:"variable_reference,omitempty"`
}

type jsonAttribute struct {
	ID    int        `json:"id"`
	Name  string     `json:"name"`
	Value *jsonValue `json:"value"`
}

type jsonBody struct {
	Text *string `json:"text,omitempty"`
	Node *Node   `json:"node,omitempty"`
}

type jsonNode struct {
	ID          int             `json:"id"`
	ParentID    *int            `json:"parent_id"`
	Name        string          `json:"name"`
	SelfClosing bool            `json:"self_closing,omitempty"`
	Attributes  []jsonAttribute `json:"attributes"`
	Children    []jsonBody      `json:"children"`
}

// MarshalJSON writes the node with tagged variants for values and children,
// e.g. {"value":{"literal":"a"}} and {"children":[{"text":"x"},{"node":{...}}]}.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := jsonNode{
		ID:          n.ID,
		ParentID:    n.ParentID,
		Name:        n.Name,
		SelfClosing: n.SelfClosing,
		Attributes:  make([]jsonAttribute, 0, len(n.Attributes)),
		Children:    make([]jsonBody, 0, len(n.Children)),
	}

	for _, a := range n.Attributes {
		attr := jsonAttribute{ID: a.ID, Name: a.Name}

		switch v := a.Value.(type) {
		case nil:
		case Literal:
			s := string(v)
			attr.Value = &jsonValue{Literal: &s}
		case VariableReference:
			s := string(v)
			attr.Value = &jsonValue{VariableReference: &s}
		default:
			return nil, fmt.Errorf("unsupported attribute value %T", a.Value)
		}

		out.Attributes = append(out.Attributes, attr)
	}

	for _, c := range n.Children {
		switch b := c.(type) {
		case Text:
			s := b.Value
			out.Children = append(out.Children, jsonBody{Text: &s})
		case *Node:
			out.Children = append(out.Children, jsonBody{Node: b})
		default:
			return nil, fmt.Errorf("unsupported body %T", c)
		}
	}

	return json.Marshal(out)
}
