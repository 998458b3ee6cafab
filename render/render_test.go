// SPDX-FileCopyrightText: © 2021 The tagml authors <https://github.com/golangee/tagml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golangee/tagml/expr"
	"github.com/golangee/tagml/parser"
	"github.com/golangee/tagml/token"
)

func TestHTML(t *testing.T) {
	data := map[string]interface{}{
		"user":  map[string]interface{}{"id": 7, "name": "Tom & Jerry"},
		"flag":  true,
		"off":   false,
		"empty": nil,
	}

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "literal and bare attributes",
			text: `<div class="card" hidden><p>Hello</p></div>`,
			want: `<div class="card" hidden><p>Hello</p></div>`,
		},
		{
			name: "variable references",
			text: `<a id={user.id} title={user.name}>link</a>`,
			want: `<a id="7" title="Tom &amp; Jerry">link</a>`,
		},
		{
			name: "boolean variables",
			text: `<input disabled={flag} checked={off} value={empty}/>`,
			want: `<input disabled>`,
		},
		{
			name: "escaped text",
			text: `<p>Tom &amp; Jerry</p>`,
			want: `<p>Tom &amp;amp; Jerry</p>`,
		},
		{
			name: "void and self closing elements",
			text: `<div><br/><my-widget/></div>`,
			want: `<div><br><my-widget></my-widget></div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := parser.ParseDocument(tt.text)
			require.NoError(t, err)

			var sb strings.Builder
			require.NoError(t, HTML(&sb, root, data))
			assert.Equal(t, tt.want, sb.String())
		})
	}
}

func TestHTMLUnresolved(t *testing.T) {
	root, err := parser.ParseDocument(`<a href={link.url}/>`)
	require.NoError(t, err)

	var sb strings.Builder
	err = HTML(&sb, root, map[string]interface{}{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, expr.ErrNotFound))

	var posErr *token.PosError
	require.True(t, errors.As(err, &posErr))
	assert.Equal(t, 4, posErr.Pos().Col)
	assert.Empty(t, sb.String())
}
