// SPDX-FileCopyrightText: © 2021 The tagml authors <https://github.com/golangee/tagml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package tagml reads tagml documents into Go values.
// Use the parser package for the tree representation.
package tagml

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/golangee/tagml/ast"
	"github.com/golangee/tagml/parser"
)

var variableReferenceType = reflect.TypeOf(ast.VariableReference(""))

// Unmarshal takes tagml input and parses it into the given struct pointer.
// The root element itself is mapped onto the struct, its children onto the fields.
// As this uses go's reflect package, only exported names can be unmarshalled.
// Strict mode requires that all fields of the struct are set and defined exactly once.
// You can set struct tags to influence the unmarshalling process.
// All tags must have the form `tagml:"..."` and are a list of comma separated identifiers.
//
// The first identifier can be used to rename the field, so that an element with the renamed
// name is parsed, and not the name of the struct field.
//
//	// This tagml snippet...
//	<example><item>...</item></example>
//	// could be unmarshalled into this go struct.
//	type Example struct {
//	    SomeName Content `tagml:"item"`
//	}
//
// The second identifier is used to specify what kind of thing is being parsed.
// This can be used to parse attributes (attr) or text (text).
//
// Attributes can be parsed into primitive types: string, bool and the integer (signed & unsigned) and float types.
// A bare attribute like <item enabled/> can only be parsed into a bool and sets it to true.
// A variable reference like key={user.name} can only be parsed into a field of type ast.VariableReference.
// Should the value not be valid for the target type, e.g. an integer that is too large or a negative value for an uint,
// an error is returned describing the issue.
//
//	// This tagml snippet...
//	<item key="value" X="123"/>
//	// could be unmarshalled into this go struct.
//	type Example struct {
//	    SomeName string `tagml:"key,attr"` // Notice how you can rename an attribute
//	    X        int    `tagml:",attr"` // You can choose to not rename it, by omitting the rename parameter.
//	}
//
// Text can be parsed into fields marked with 'text'.
// In normal mode the field will have all text that occurred in the element joined by a space or an empty string if no
// text was inside the element.
// In strict mode exactly one text item is expected.
//
// Slice fields collect every child element with the field name.
// Map fields use the names of the children of their element as keys.
func Unmarshal(r io.Reader, into interface{}, strict bool) error {
	if into == nil {
		return fmt.Errorf("cannot unmarshal into nil")
	}

	value := reflect.ValueOf(into)
	if value.Kind() != reflect.Ptr || value.IsNil() {
		return fmt.Errorf("cannot unmarshal into non-pointer %T", into)
	}

	tree, err := parser.NewParser("", r).Parse()
	if err != nil {
		return NewUnmarshalError(nil, "parser error", err)
	}

	unmarshal := unmarshaler{strict: strict}

	return unmarshal.node(tree, value)
}

// unmarshaler is a helper struct for easier managing the unmarshalling process.
type unmarshaler struct {
	strict bool
}

// While unmarshalling we might need to process a node as an attribute.
// We use this enum to make the decision.
type unmarshalType int

const (
	unmarshalNormal unmarshalType = iota
	unmarshalAttribute
	unmarshalText
)

// UnmarshalError is an error that occurred during unmarshalling.
// It contains the offending node, a string with details and an underlying error (if any).
type UnmarshalError struct {
	Node     *ast.Node
	Detail   string
	wrapping error
}

func NewUnmarshalError(node *ast.Node, detail string, wrapping error) UnmarshalError {
	return UnmarshalError{
		node,
		detail,
		wrapping,
	}
}

func (u UnmarshalError) Error() string {
	name := ""
	if u.Node != nil {
		name = u.Node.Name
	}

	if u.wrapping != nil {
		return fmt.Sprintf("cannot unmarshal into '%s', %s: %s", name, u.Detail, u.wrapping.Error())
	}

	return fmt.Sprintf("cannot unmarshal into '%s', %s", name, u.Detail)
}

func (u UnmarshalError) Unwrap() error {
	return u.wrapping
}

// node will place contents of the tagml node inside the given value.
func (u *unmarshaler) node(node *ast.Node, value reflect.Value) error {
	switch value.Kind() {
	case reflect.Ptr:
		if value.IsNil() {
			value.Set(reflect.New(value.Type().Elem()))
		}

		return u.node(node, value.Elem())
	case reflect.Slice:
		// Create, process and append children
		elementType := value.Type().Elem()
		for _, child := range node.Elements() {
			element := reflect.New(elementType).Elem()
			if err := u.node(child, element); err != nil {
				return NewUnmarshalError(node, fmt.Sprintf("cannot read slice children for '%s'", node.Name), err)
			}

			value.Set(reflect.Append(value, element))
		}
	case reflect.Map:
		return u.mapping(node, value)
	case reflect.Array:
		return NewUnmarshalError(node, "arrays not supported, use a slice instead", nil)
	case reflect.Struct:
		return u.structure(node, value)
	default:
		text, err := getTextChild(node)
		if err != nil {
			return NewUnmarshalError(node, fmt.Sprintf("%s required", value.Kind()), err)
		}

		if err := primitive(text, value); err != nil {
			return NewUnmarshalError(node, "invalid text", err)
		}
	}

	return nil
}

// mapping uses the name of each child element as key and its content as value.
func (u *unmarshaler) mapping(node *ast.Node, value reflect.Value) error {
	keyType := value.Type().Key()
	if !isPrimitive(keyType.Kind()) {
		return NewUnmarshalError(node, fmt.Sprintf("map key type '%s' is not primitive", keyType), nil)
	}

	if value.IsNil() {
		value.Set(reflect.MakeMap(value.Type()))
	}

	for _, child := range node.Elements() {
		key := reflect.New(keyType).Elem()
		if err := primitive(child.Name, key); err != nil {
			return NewUnmarshalError(child, "invalid map key", err)
		}

		element := reflect.New(value.Type().Elem()).Elem()
		if err := u.node(child, element); err != nil {
			return NewUnmarshalError(node, fmt.Sprintf("cannot read map value for '%s'", child.Name), err)
		}

		value.SetMapIndex(key, element)
	}

	return nil
}

func (u *unmarshaler) structure(node *ast.Node, value reflect.Value) error {
	// Iterate over all struct fields.
	for i := 0; i < value.NumField(); i++ {
		fieldType := value.Type().Field(i)
		field := value.Field(i)

		if fieldType.PkgPath != "" {
			continue
		}

		fieldName := fieldType.Name
		unmarshalAs := unmarshalNormal

		// Some tags will change the behavior of how this field will be processed.
		if structTag, ok := fieldType.Tag.Lookup("tagml"); ok {
			tags := strings.Split(structTag, ",")

			// The first tag will rename the field
			if rename := tags[0]; len(rename) > 0 {
				fieldName = rename
			}

			// The second tag indicates the type we are parsing
			if len(tags) > 1 {
				switch as := tags[1]; as {
				case "attr":
					unmarshalAs = unmarshalAttribute
				case "text":
					unmarshalAs = unmarshalText
				case "":
					unmarshalAs = unmarshalNormal
				default:
					return NewUnmarshalError(node, fmt.Sprintf("field type '%s' invalid", as), nil)
				}
			}
		}

		var err error

		switch unmarshalAs {
		case unmarshalNormal:
			err = u.elementField(node, fieldName, field)
		case unmarshalAttribute:
			err = u.attributeField(node, fieldName, field)
		case unmarshalText:
			err = u.textField(node, fieldType, field)
		}

		if err != nil {
			return NewUnmarshalError(node, fmt.Sprintf("while processing field '%s'", fieldType.Name), err)
		}
	}

	return nil
}

func (u *unmarshaler) elementField(node *ast.Node, name string, field reflect.Value) error {
	// Slices collect all children of the same name.
	if field.Kind() == reflect.Slice {
		for _, child := range node.Elements() {
			if child.Name != name {
				continue
			}

			element := reflect.New(field.Type().Elem()).Elem()
			if err := u.node(child, element); err != nil {
				return err
			}

			field.Set(reflect.Append(field, element))
		}

		if u.strict && field.Len() == 0 {
			return NewUnmarshalError(node, fmt.Sprintf("child '%s' required", name), nil)
		}

		return nil
	}

	nodeForField, err := u.findSingleChild(node, name)
	if err != nil {
		return err
	}

	if nodeForField == nil {
		return nil
	}

	return u.node(nodeForField, field)
}

func (u *unmarshaler) attributeField(node *ast.Node, name string, field reflect.Value) error {
	attr, ok := node.Attr(name)
	if !ok {
		if u.strict {
			return NewUnmarshalError(node, fmt.Sprintf("attribute '%s' required", name), nil)
		}

		return nil
	}

	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}

		field = field.Elem()
	}

	switch v := attr.Value.(type) {
	case nil:
		if field.Kind() != reflect.Bool {
			return NewUnmarshalError(node, fmt.Sprintf("attribute '%s' has no value and requires a bool field", name), nil)
		}

		field.SetBool(true)
	case ast.VariableReference:
		if field.Type() != variableReferenceType {
			return NewUnmarshalError(node, fmt.Sprintf("attribute '%s' is a variable reference and requires an ast.VariableReference field", name), nil)
		}

		field.Set(reflect.ValueOf(v))
	case ast.Literal:
		if err := primitive(string(v), field); err != nil {
			return NewUnmarshalError(node, fmt.Sprintf("attribute '%s' requires primitive type", name), err)
		}
	}

	return nil
}

func (u *unmarshaler) textField(node *ast.Node, fieldType reflect.StructField, field reflect.Value) error {
	// Text needs a string field to get parsed into. We then collect any text inside this node or
	// expect exactly one text in strict mode.
	if field.Kind() != reflect.String {
		return NewUnmarshalError(node, fmt.Sprintf("'%s' needs to have type string", fieldType.Name), nil)
	}

	found := 0

	for _, c := range node.Children {
		if _, ok := c.(ast.Text); ok {
			found++
		}
	}

	if u.strict {
		switch {
		case found == 0:
			return NewUnmarshalError(node, "text inside element required", nil)
		case found > 1:
			return NewUnmarshalError(node, "multiple occurrences of text, where only one is allowed", nil)
		}
	}

	field.SetString(node.Text())

	return nil
}

// primitive parses text into the given value, which must have a primitive kind.
func primitive(text string, value reflect.Value) error {
	valueType := value.Type()

	switch value.Kind() {
	case reflect.String:
		value.SetString(text)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return fmt.Errorf("'%s' is not a valid integer: %w", text, err)
		}

		if value.OverflowInt(i) {
			return fmt.Errorf("value for '%s' out of bounds", valueType.Name())
		}

		value.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, err := strconv.ParseUint(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return fmt.Errorf("'%s' is not a valid unsigned integer: %w", text, err)
		}

		if value.OverflowUint(i) {
			return fmt.Errorf("value for '%s' out of bounds", valueType.Name())
		}

		value.SetUint(i)
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return fmt.Errorf("'%s' is not a valid boolean: %w", text, err)
		}

		value.SetBool(b)
	case reflect.Float64, reflect.Float32:
		bitSize := 64
		if value.Kind() == reflect.Float32 {
			bitSize = 32
		}

		f, err := strconv.ParseFloat(strings.TrimSpace(text), bitSize)
		if err != nil {
			return fmt.Errorf("'%s' is not a valid float: %w", text, err)
		}

		value.SetFloat(f)
	default:
		return fmt.Errorf("unsupported type '%s'", valueType)
	}

	return nil
}

func isPrimitive(kind reflect.Kind) bool {
	switch kind {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// findSingleChild returns the child with the given name or an error in strict mode when there is no
// such child or there are multiple children.
// In non-strict mode this method might return (nil, nil) which means that no such child exists, or it will
// return the first item with that name.
func (u *unmarshaler) findSingleChild(node *ast.Node, name string) (*ast.Node, error) {
	var child *ast.Node

	for _, c := range node.Elements() {
		if c.Name == name {
			if child == nil {
				child = c

				if !u.strict {
					// We found a child and don't care if there are other ones in non-strict mode.
					break
				}
			} else {
				return nil, NewUnmarshalError(node, fmt.Sprintf("'%s' defined multiple times", name), nil)
			}
		}
	}

	if u.strict && child == nil {
		return nil, NewUnmarshalError(node, fmt.Sprintf("child '%s' required", name), nil)
	}

	return child, nil
}

// getTextChild will return the text of the single text child of the given node.
// An element without any children yields the empty string.
func getTextChild(node *ast.Node) (string, error) {
	if len(node.Children) == 0 {
		return "", nil
	}

	if len(node.Children) != 1 {
		return "", NewUnmarshalError(node, "exactly one text child required", nil)
	}

	textChild, ok := node.Children[0].(ast.Text)
	if !ok {
		return "", NewUnmarshalError(node, "child is not text", nil)
	}

	return textChild.Value, nil
}
