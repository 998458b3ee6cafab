// SPDX-FileCopyrightText: © 2021 The tagml authors <https://github.com/golangee/tagml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package tagml

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/r3labs/diff/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golangee/tagml/ast"
	"github.com/golangee/tagml/parser"
)

func ExampleUnmarshal() {
	type Animal struct {
		Name string `tagml:"name"`
		Age  uint   `tagml:"age"`
	}

	input := strings.NewReader("<animal><name>Gopher</name><age>3</age></animal>")

	var animal Animal

	if err := Unmarshal(input, &animal, false); err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("Hello %d year old %s!", animal.Age, animal.Name)
	// Output: Hello 3 year old Gopher!
}

// Values will be placed in the correct slices because they
// have a rename tag set.
func ExampleUnmarshal_complexSlice() {
	type Animal struct {
		Name string `tagml:"name,attr"`
		Age  uint   `tagml:"age"`
	}

	type Zoo struct {
		Animals []Animal `tagml:"animal"`
		Planets []string `tagml:"planet"`
	}

	input := strings.NewReader(`<zoo>
		<animal name="Dog"><age>6</age></animal>
		<planet>Earth</planet>
		<animal name="Cat"/>
		<animal name="Gopher"><age>3</age></animal>
		<planet>Venus</planet>
		<planet>Mars</planet>
	</zoo>`)

	var result Zoo

	if err := Unmarshal(input, &result, false); err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("%s, %s", result.Animals[2].Name, result.Planets[0])
	// Output: Gopher, Earth
}

func TestUnmarshal(t *testing.T) {
	type TestCase struct {
		name   string
		text   string
		strict bool
		// into is an empty instance we will unmarshal into.
		into interface{}
		// want is a filled instance with all values we want.
		want    interface{}
		wantErr bool
	}

	var testCases []TestCase

	// Test cases always follow this pattern:
	// 1. Define all required types
	// 2. Define testcase using those types

	type EmptyRoot struct{}

	testCases = append(testCases, TestCase{
		name: "empty",
		text: "<root/>",
		into: &EmptyRoot{},
		want: &EmptyRoot{},
	})

	testCases = append(testCases, TestCase{
		name:    "do not unmarshal into nil",
		text:    "<root/>",
		into:    nil,
		wantErr: true,
	})

	testCases = append(testCases, TestCase{
		name:    "do not unmarshal into non-pointer",
		text:    "<root/>",
		into:    EmptyRoot{},
		wantErr: true,
	})

	testCases = append(testCases, TestCase{
		name:    "parser errors are reported",
		text:    "<root>",
		into:    &EmptyRoot{},
		wantErr: true,
	})

	type SimpleRoot struct {
		S string
		I int8
		U uint64
		F float32
		B bool
	}

	testCases = append(testCases, TestCase{
		name: "struct with some types",
		text: "<root><S>hello</S><I>-5</I><U>3000</U><F>1.5</F><B>true</B></root>",
		into: &SimpleRoot{},
		want: &SimpleRoot{
			S: "hello",
			I: -5,
			U: 3000,
			F: 1.5,
			B: true,
		},
	})

	type OutOfBounds struct {
		V int8
	}

	testCases = append(testCases, TestCase{
		name:    "out of bounds int8",
		text:    "<root><V>300</V></root>",
		into:    &OutOfBounds{},
		wantErr: true,
	})

	type Unsigned struct {
		V uint
	}

	testCases = append(testCases, TestCase{
		name:    "negative unsigned",
		text:    "<root><V>-1</V></root>",
		into:    &Unsigned{},
		wantErr: true,
	})

	type SingleString struct {
		S string
	}

	testCases = append(testCases, TestCase{
		name:   "strict mode accepts exactly one child",
		text:   "<root><S>hello</S></root>",
		strict: true,
		into:   &SingleString{},
		want:   &SingleString{S: "hello"},
	})

	testCases = append(testCases, TestCase{
		name: "first child wins in non-strict mode",
		text: "<root><S>a</S><S>b</S></root>",
		into: &SingleString{},
		want: &SingleString{S: "a"},
	})

	testCases = append(testCases, TestCase{
		name:    "duplicate child is denied in strict mode",
		text:    "<root><S>a</S><S>b</S></root>",
		strict:  true,
		into:    &SingleString{},
		wantErr: true,
	})

	testCases = append(testCases, TestCase{
		name:    "primitive requires text only",
		text:    "<root><S>a<b/></S></root>",
		into:    &SingleString{},
		wantErr: true,
	})

	type Empty struct{}

	type EmptyElement struct {
		EmptyEl Empty
	}

	testCases = append(testCases, TestCase{
		name: "empty element",
		text: "<root><EmptyEl/></root>",
		into: &EmptyElement{},
		want: &EmptyElement{
			EmptyEl: Empty{},
		},
	})

	testCases = append(testCases, TestCase{
		name: "absent empty element is correctly parsed in non-strict mode",
		text: "<root/>",
		into: &EmptyElement{},
		want: &EmptyElement{
			EmptyEl: Empty{},
		},
	})

	testCases = append(testCases, TestCase{
		name:    "absent empty element is denied in strict mode",
		text:    "<root/>",
		into:    &EmptyElement{},
		strict:  true,
		wantErr: true,
	})

	type FilteredSlice struct {
		Ints []int `tagml:"i"`
	}

	testCases = append(testCases, TestCase{
		name: "filtered slice",
		text: `<root>
					<i>1</i>
					<i>2</i>
					<hello>123</hello>
					<i>3</i>
					<someitem>456</someitem>
					don't mind me
					<some><nested/><things/></some>
					<i>4</i>
				</root>`,
		into: &FilteredSlice{},
		want: &FilteredSlice{
			Ints: []int{1, 2, 3, 4},
		},
	})

	testCases = append(testCases, TestCase{
		name:    "empty slice is denied in strict mode",
		text:    "<root/>",
		strict:  true,
		into:    &FilteredSlice{},
		wantErr: true,
	})

	type EmptyStructSlice struct {
		Things []Empty `tagml:"thing"`
	}

	testCases = append(testCases, TestCase{
		name: "slice of empty structs",
		text: "<root><thing/><thing/><thing/></root>",
		into: &EmptyStructSlice{},
		want: &EmptyStructSlice{
			Things: []Empty{{}, {}, {}},
		},
	})

	type Array struct {
		A [3]int
	}

	testCases = append(testCases, TestCase{
		name:    "arrays are not supported",
		text:    "<root><A>1</A></root>",
		into:    &Array{},
		wantErr: true,
	})

	type SimpleRename struct {
		Field string `tagml:"item"`
	}

	testCases = append(testCases, TestCase{
		name: "field rename",
		text: "<root><item>hello</item></root>",
		into: &SimpleRename{},
		want: &SimpleRename{Field: "hello"},
	})

	type InvalidFieldType struct {
		V string `tagml:",not-a-type"`
	}

	testCases = append(testCases, TestCase{
		name:    "invalid field type",
		text:    "<root><V>hello</V></root>",
		into:    &InvalidFieldType{},
		wantErr: true,
	})

	type SimpleAttributeInner struct {
		Attribute string  `tagml:",attr"`
		Renamed   int     `tagml:"x,attr"`
		Boolean   bool    `tagml:"b,attr"`
		Float     float64 `tagml:"f,attr"`
		Enabled   bool    `tagml:"enabled,attr"`
	}

	type SimpleAttribute struct {
		Inner SimpleAttributeInner `tagml:"item"`
	}

	testCases = append(testCases, TestCase{
		name: "simple attribute",
		text: `<root><item Attribute="Hello world!" x="123" b="true" f="123.456" enabled/></root>`,
		into: &SimpleAttribute{},
		want: &SimpleAttribute{
			Inner: SimpleAttributeInner{
				Attribute: "Hello world!",
				Renamed:   123,
				Boolean:   true,
				Float:     123.456,
				Enabled:   true,
			},
		},
	})

	testCases = append(testCases, TestCase{
		name:    "invalid attribute value",
		text:    `<root><item x="many"/></root>`,
		into:    &SimpleAttribute{},
		wantErr: true,
	})

	testCases = append(testCases, TestCase{
		name:    "bare attribute requires a bool field",
		text:    `<root><item Attribute/></root>`,
		into:    &SimpleAttribute{},
		wantErr: true,
	})

	type ReferenceInner struct {
		Ref ast.VariableReference `tagml:"ref,attr"`
	}

	type Reference struct {
		Inner ReferenceInner `tagml:"item"`
	}

	testCases = append(testCases, TestCase{
		name: "variable reference",
		text: `<root><item ref={user.name}/></root>`,
		into: &Reference{},
		want: &Reference{Inner: ReferenceInner{Ref: "user.name"}},
	})

	testCases = append(testCases, TestCase{
		name:    "variable reference into a primitive",
		text:    `<root><item Attribute={user.name}/></root>`,
		into:    &SimpleAttribute{},
		wantErr: true,
	})

	type PointerAttribute struct {
		X *int `tagml:"x,attr"`
	}

	seven := 7

	testCases = append(testCases, TestCase{
		name: "pointer attribute",
		text: `<root x="7"/>`,
		into: &PointerAttribute{},
		want: &PointerAttribute{X: &seven},
	})

	type RequiredAttributeStrictInner struct {
		Attribute string `tagml:",attr"`
	}

	type RequiredAttributeStrict struct {
		Inner RequiredAttributeStrictInner `tagml:"item"`
	}

	testCases = append(testCases, TestCase{
		name:    "strict mode requires attribute to be set",
		text:    "<root><item/></root>",
		into:    &RequiredAttributeStrict{},
		strict:  true,
		wantErr: true,
	})

	type TextDirectly struct {
		Text string `tagml:",text"`
	}

	testCases = append(testCases, TestCase{
		name: "plain text in root element",
		text: "<root>Hello world!</root>",
		into: &TextDirectly{},
		want: &TextDirectly{
			Text: "Hello world!",
		},
	})

	testCases = append(testCases, TestCase{
		name: "empty text zero value",
		text: "<root/>",
		into: &TextDirectly{},
		want: &TextDirectly{
			Text: "",
		},
	})

	testCases = append(testCases, TestCase{
		name:    "text required in strict mode",
		text:    "<root/>",
		strict:  true,
		into:    &TextDirectly{},
		wantErr: true,
	})

	type TextNotString struct {
		Text int `tagml:",text"`
	}

	testCases = append(testCases, TestCase{
		name:    "text requires a string field",
		text:    "<root>1</root>",
		into:    &TextNotString{},
		wantErr: true,
	})

	type TextNestedInner struct {
		Value string `tagml:",text"`
	}

	type TextNested struct {
		Text   string          `tagml:",text"`
		Inside TextNestedInner `tagml:"inside"`
	}

	testCases = append(testCases, TestCase{
		name: "text in some elements",
		text: "<root>Hello world! <inside>Lots of text here :)</inside></root>",
		into: &TextNested{},
		want: &TextNested{
			Text: "Hello world!",
			Inside: TextNestedInner{
				Value: "Lots of text here :)",
			},
		},
	})

	type LotsOfText struct {
		Text    string `tagml:",text"`
		Element Empty  `tagml:"item"`
	}

	testCases = append(testCases, TestCase{
		name: "scattered text will be joined",
		text: "<root>hello <item/> this is text</root>",
		into: &LotsOfText{},
		want: &LotsOfText{
			Text:    "hello this is text",
			Element: Empty{},
		},
	})

	testCases = append(testCases, TestCase{
		name:    "scattered text is forbidden in strict mode",
		text:    "<root>hello <item/> this is text</root>",
		strict:  true,
		into:    &LotsOfText{},
		wantErr: true,
	})

	type StringStringMap struct {
		Things map[string]string
	}

	testCases = append(testCases, TestCase{
		name: "map[string]string",
		text: `<root>
					<Things>
						<key1>value</key1>
						<key2>string value</key2>
					</Things>
				</root>`,
		into: &StringStringMap{},
		want: &StringStringMap{Things: map[string]string{
			"key1": "value",
			"key2": "string value",
		}},
	})

	type BoolFloatMap struct {
		Things map[bool]float64
	}

	testCases = append(testCases, TestCase{
		name: "map with primitive types",
		text: `<root>
					<Things>
						<true>123</true>
						<false>123.456</false>
					</Things>
				</root>`,
		into: &BoolFloatMap{},
		want: &BoolFloatMap{map[bool]float64{
			true:  123,
			false: 123.456,
		}},
	})

	type IntMap struct {
		Things map[int]string
	}

	testCases = append(testCases, TestCase{
		name:    "invalid map key value",
		text:    "<root><Things><one>1</one></Things></root>",
		into:    &IntMap{},
		wantErr: true,
	})

	type InvalidMapKey struct {
		Things map[*InvalidMapKey]int
	}

	testCases = append(testCases, TestCase{
		name:    "invalid map key",
		text:    "<root><Things/></root>",
		into:    &InvalidMapKey{},
		wantErr: true,
	})

	type NillableThing struct {
		Thing *Empty `tagml:"thing"`
	}

	testCases = append(testCases, TestCase{
		name: "nillable field is nil",
		text: "<root/>",
		into: &NillableThing{},
		want: &NillableThing{Thing: nil},
	})

	testCases = append(testCases, TestCase{
		name: "nillable field is set",
		text: "<root><thing/></root>",
		into: &NillableThing{},
		want: &NillableThing{Thing: &Empty{}},
	})

	type CustomMapValue struct {
		Name  string
		Value int
	}

	type MapWithCustomValue struct {
		Map map[string]CustomMapValue
	}

	testCases = append(testCases, TestCase{
		name: "map with custom type as value",
		text: `<root>
					<Map>
						<thingA>
							<Name>this is thing A</Name>
							<Value>3</Value>
						</thingA>
						<thingB>
							<Name>this is thing B</Name>
							<Value>5</Value>
						</thingB>
					</Map>
				</root>`,
		into: &MapWithCustomValue{},
		want: &MapWithCustomValue{
			map[string]CustomMapValue{
				"thingA": {
					Name:  "this is thing A",
					Value: 3,
				},
				"thingB": {
					Name:  "this is thing B",
					Value: 5,
				},
			},
		},
	})

	type StringA = string
	type StringB string

	type TypeAlias struct {
		StringA StringA
		StringB StringB
	}

	testCases = append(testCases, TestCase{
		name: "type alias and named type",
		text: "<root><StringA>hello</StringA><StringB>world</StringB></root>",
		into: &TypeAlias{},
		want: &TypeAlias{
			StringA: "hello",
			StringB: "world",
		},
	})

	type unexported struct {
		hidden string
		Shown  string
	}

	testCases = append(testCases, TestCase{
		name: "unexported fields are skipped",
		text: "<root><hidden>a</hidden><Shown>b</Shown></root>",
		into: &unexported{},
		want: &unexported{Shown: "b"},
	})

	// Run all test cases
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Unmarshal(strings.NewReader(tc.text), tc.into, tc.strict)
			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)

			differences, err := diff.Diff(tc.want, tc.into)
			require.NoError(t, err, "cannot compare test result")

			// These descriptions map the type of a change to a more readable format.
			changeTypeDescription := map[string]string{
				"create": "was added",
				"update": "is different",
				"delete": "is missing",
			}

			for _, d := range differences {
				t.Errorf("property '%s' %s, expected '%v' but got '%v'",
					strings.Join(d.Path, "."),
					changeTypeDescription[d.Type],
					d.From, d.To)
			}
		})
	}
}

func TestUnmarshalError(t *testing.T) {
	type Root struct {
		V int8
	}

	var root Root

	err := Unmarshal(strings.NewReader("<root><V>300</V></root>"), &root, false)
	require.Error(t, err)

	var unmarshalErr UnmarshalError
	require.True(t, errors.As(err, &unmarshalErr))
	assert.Equal(t, "root", unmarshalErr.Node.Name)
	assert.Contains(t, err.Error(), "while processing field 'V'")
	assert.Contains(t, err.Error(), "out of bounds")

	err = Unmarshal(strings.NewReader("<root>"), &root, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, parser.ErrUnexpectedEOF))
	assert.True(t, strings.HasPrefix(err.Error(), "cannot unmarshal into '', parser error: "))
}
