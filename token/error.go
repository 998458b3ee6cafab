// SPDX-FileCopyrightText: © 2021 The tagml authors <https://github.com/golangee/tagml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type ErrDetail struct {
	Node    Node
	Message string
}

func NewErrDetail(node Node, msg string) ErrDetail {
	return ErrDetail{
		Node:    node,
		Message: msg,
	}
}

// PosError represents a very specific positional error with a lot of explaining noise. Use Explain.
type PosError struct {
	Details []ErrDetail
	Cause   error
	Hint    string
	// Source is the text the positions refer to. If empty, Explain tries to load the file instead.
	Source string
}

// NewPosError creates a new PosError with the given root cause and optional details.
func NewPosError(node Node, msg string, details ...ErrDetail) *PosError {
	tmp := append([]ErrDetail{}, ErrDetail{
		Node:    node,
		Message: msg,
	})
	tmp = append(tmp, details...)

	return &PosError{
		Details: tmp,
	}
}

func (p *PosError) SetCause(err error) *PosError {
	p.Cause = err
	return p
}

func (p *PosError) SetHint(str string) *PosError {
	p.Hint = str
	return p
}

func (p *PosError) SetSource(src string) *PosError {
	p.Source = src
	return p
}

func (p *PosError) Unwrap() error {
	return p.Cause
}

func (p *PosError) firstDetail() ErrDetail {
	if len(p.Details) > 0 {
		return p.Details[0]
	}

	return ErrDetail{}
}

// Pos returns the position of the first detail.
func (p *PosError) Pos() Pos {
	if n := p.firstDetail().Node; n != nil {
		return n.Begin()
	}

	return Pos{}
}

func (p *PosError) Error() string {
	msg := p.firstDetail().Message
	if pos := p.Pos(); pos.Line > 0 {
		msg = fmt.Sprintf("line %d, col %d: %s", pos.Line, pos.Col, msg)
	}

	if p.Cause == nil {
		return msg
	}

	return msg + ": " + p.Cause.Error()
}

// src tries to load the source code based on the given file name. If it fails, the empty string is returned.
func src(fname string) string {
	if fname == "" {
		return ""
	}

	buf, err := os.ReadFile(fname)
	if err != nil {
		wd, err := os.Getwd()
		if err != nil {
			return ""
		}

		buf, err = os.ReadFile(filepath.Join(wd, fname))
		if err != nil {
			return ""
		}
	}

	return string(buf)
}

// docLines returns the source lines the given node refers to.
func (p *PosError) docLines(n Node) []string {
	source := p.Source
	if source == "" {
		source = src(n.Begin().File)
	}

	return strings.Split(source, "\n")
}

// posLine returns the line from lines which fits to the given pos.
func posLine(lines []string, pos Pos) string {
	no := pos.Line - 1

	if no > len(lines) {
		no = len(lines) - 1
	}

	ltext := ""
	if no < len(lines) && no >= 0 {
		ltext = lines[no]
	}

	return ltext
}

// Explain returns a multi-line text suited to be printed into the console.
func (p *PosError) Explain() string {
	// grab the required indent for the line numbers
	indent := 0

	for _, detail := range p.Details {
		if detail.Node == nil {
			continue
		}

		l := len(strconv.Itoa(detail.Node.Begin().Line))
		if l > indent {
			indent = l
		}
	}

	sb := &strings.Builder{}

	for i, detail := range p.Details {
		if detail.Node == nil {
			sb.WriteString(detail.Message)
			sb.WriteString("\n")

			continue
		}

		source := p.docLines(detail.Node)
		line := posLine(source, detail.Node.Begin())

		if i == 0 || (i > 0 && p.Details[i-1].Node != nil && detail.Node.Begin().File != p.Details[i-1].Node.Begin().File) {
			sb.WriteString(detail.Node.Begin().String())
			sb.WriteString("\n")
		}

		sb.WriteString(fmt.Sprintf("%"+strconv.Itoa(indent)+"s |\n", ""))
		sb.WriteString(fmt.Sprintf("%"+strconv.Itoa(indent)+"d |", detail.Node.Begin().Line))
		sb.WriteString(line)
		sb.WriteString("\n")

		sb.WriteString(fmt.Sprintf("%"+strconv.Itoa(indent)+"s |", ""))

		begin, end := detail.Node.Begin(), detail.Node.End()
		sb.WriteString(strings.Repeat(" ", begin.Col-1))

		if end.Line != begin.Line || end.Col-begin.Col <= 1 {
			sb.WriteString("^~~~ ")
		} else {
			sb.WriteString(strings.Repeat("^", end.Col-begin.Col))
			sb.WriteRune(' ')
		}

		sb.WriteString(detail.Message)
		sb.WriteString("\n")

		if i < len(p.Details)-1 {
			sb.WriteString(strings.Repeat(" ", indent))
			sb.WriteString("...")
			sb.WriteByte('\n')
		}
	}

	if p.Hint != "" {
		sb.WriteString(fmt.Sprintf("%"+strconv.Itoa(indent)+"s |\n", ""))
		sb.WriteString(fmt.Sprintf("%"+strconv.Itoa(indent)+"s = hint: %s\n", "", p.Hint))
	}

	return sb.String()
}

// Explain returns the console explanation of err, if it is or wraps a *PosError.
// Otherwise the plain error message is returned.
func Explain(err error) string {
	if err == nil {
		return ""
	}

	var posErr *PosError
	if errors.As(err, &posErr) {
		return posErr.Explain()
	}

	return err.Error()
}
