// SPDX-FileCopyrightText: © 2021 The tagml authors <https://github.com/golangee/tagml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package expr

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNotFound is returned when a path selects a missing map key, field or index.
var ErrNotFound = errors.New("value not found")

// Resolve walks data along the path. Maps with string keys, structs (exported fields only),
// slices, arrays, pointers and interfaces are supported.
func (p *Path) Resolve(data interface{}) (interface{}, error) {
	value, err := field(reflect.ValueOf(data), p.Head)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Head, err)
	}

	for _, seg := range p.Segments {
		switch {
		case seg.Field != nil:
			value, err = field(value, *seg.Field)
		case seg.Index != nil:
			value, err = index(value, *seg.Index)
		}

		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	if !value.IsValid() {
		return nil, nil
	}

	return value.Interface(), nil
}

// Eval parses src and resolves it against data.
func Eval(src string, data interface{}) (interface{}, error) {
	path, err := ParsePath(src)
	if err != nil {
		return nil, err
	}

	return path.Resolve(data)
}

// indirect follows pointers and interfaces until a concrete value is found.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}

		v = v.Elem()
	}

	return v
}

func field(v reflect.Value, name string) (reflect.Value, error) {
	v = indirect(v)

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, fmt.Errorf("cannot select '%s' from map with %s keys", name, v.Type().Key())
		}

		res := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
		if !res.IsValid() {
			return reflect.Value{}, fmt.Errorf("key '%s': %w", name, ErrNotFound)
		}

		return res, nil
	case reflect.Struct:
		sf, ok := v.Type().FieldByName(name)
		if !ok || sf.PkgPath != "" {
			return reflect.Value{}, fmt.Errorf("field '%s': %w", name, ErrNotFound)
		}

		return v.FieldByIndex(sf.Index), nil
	case reflect.Invalid:
		return reflect.Value{}, fmt.Errorf("'%s' of nil: %w", name, ErrNotFound)
	default:
		return reflect.Value{}, fmt.Errorf("cannot select '%s' from %s", name, v.Type())
	}
}

func index(v reflect.Value, i int) (reflect.Value, error) {
	v = indirect(v)

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if i >= v.Len() {
			return reflect.Value{}, fmt.Errorf("index %d of %d: %w", i, v.Len(), ErrNotFound)
		}

		return v.Index(i), nil
	case reflect.Invalid:
		return reflect.Value{}, fmt.Errorf("index %d of nil: %w", i, ErrNotFound)
	default:
		return reflect.Value{}, fmt.Errorf("cannot index %s", v.Type())
	}
}
