//
// Copyright (c) 2011-2019 Canonical Ltd
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package yaml

import (
	"errors"
	"reflect"
	"strings"
	"sync"
)

// Kind identifies the role a Node plays in a document tree.
type Kind uint32

const (
	DocumentNode Kind = 1 << iota
	SequenceNode
	MappingNode
	ScalarNode
	AliasNode
)

// Style governs presentation hints for a Node; it has no bearing on the
// resolved value.
type Style uint32

const (
	TaggedStyle Style = 1 << iota
	DoubleQuotedStyle
	SingleQuotedStyle
	LiteralStyle
	FoldedStyle
	FlowStyle
)

// Node is a low-level representation of a YAML document tree: exactly the
// shape the emitter's container and scalar renderers need to walk, with no
// schema resolution performed on construction. Decoding into a Node is out
// of scope here; Node trees are built by callers (or, beyond this package's
// scope, by a parser/composer) and handed to Marshal/Encoder.Encode.
type Node struct {
	Kind    Kind
	Style   Style
	Tag     string
	Value   string
	Anchor  string
	Content []*Node

	HeadComment string
	LineComment string
	FootComment string

	Line   int
	Column int
}

// IsZero reports whether the node carries no information at all, the same
// test the encoder uses to decide whether a zero Node should encode as null.
func (n *Node) IsZero() bool {
	return n.Kind == 0 && n.Style == 0 && n.Tag == "" && n.Value == "" &&
		n.Anchor == "" && n.Content == nil
}

// Marshaler is implemented by types that can render themselves into a YAML
// representation: the returned value is marshaled in place of the receiver.
type Marshaler interface {
	MarshalYAML() (interface{}, error)
}

// fieldInfo holds the result of parsing a struct field's "yaml" tag.
type fieldInfo struct {
	Key       string
	Num       int
	OmitEmpty bool
	Flow      bool
	Inline    []int
}

// structInfo holds per-type field metadata, cached across calls since
// reflect.Type.Field is comparatively expensive to walk repeatedly.
type structInfo struct {
	FieldsMap  map[string]fieldInfo
	FieldsList []fieldInfo

	// InlineMap is the index of a ,inline map field, or -1 if there is none.
	InlineMap int
}

var structMap sync.Map // map[reflect.Type]*structInfo

func getStructInfo(st reflect.Type) (*structInfo, error) {
	if info, ok := structMap.Load(st); ok {
		return info.(*structInfo), nil
	}

	n := st.NumField()
	fieldsMap := make(map[string]fieldInfo)
	fieldsList := make([]fieldInfo, 0, n)
	inlineMap := -1

	for i := 0; i < n; i++ {
		field := st.Field(i)
		if field.PkgPath != "" && !field.Anonymous {
			continue // unexported
		}

		tag := field.Tag.Get("yaml")
		if tag == "" && !strings.Contains(string(field.Tag), ":") {
			tag = string(field.Tag)
		}
		if tag == "-" {
			continue
		}

		var inline bool
		fields := strings.Split(tag, ",")
		if len(fields) > 1 {
			for _, flag := range fields[1:] {
				switch flag {
				case "omitempty":
					// handled below
				case "flow":
				case "inline":
					inline = true
				}
			}
			tag = fields[0]
		}

		if inline {
			switch field.Type.Kind() {
			case reflect.Map:
				if inlineMap >= 0 {
					continue
				}
				if field.Type.Key() != reflect.TypeOf("") {
					continue
				}
				inlineMap = i
				continue
			case reflect.Struct, reflect.Ptr:
				ftype := field.Type
				for ftype.Kind() == reflect.Ptr {
					ftype = ftype.Elem()
				}
				if ftype.Kind() != reflect.Struct {
					continue
				}
				sinfo, err := getStructInfo(ftype)
				if err != nil {
					return nil, err
				}
				for _, finfo := range sinfo.FieldsList {
					if _, found := fieldsMap[finfo.Key]; found {
						return nil, errors.New("duplicated key '" + finfo.Key + "' in struct " + st.String())
					}
					path := finfo.Inline
					if path == nil {
						path = []int{finfo.Num}
					}
					finfo.Inline = append([]int{i}, path...)
					fieldsMap[finfo.Key] = finfo
					fieldsList = append(fieldsList, finfo)
				}
				continue
			default:
				continue
			}
		}

		if tag == "" {
			tag = strings.ToLower(field.Name)
		}
		if !isValidTag(tag) {
			continue
		}

		omitempty := false
		flow := false
		for _, flag := range fields[1:] {
			switch flag {
			case "omitempty":
				omitempty = true
			case "flow":
				flow = true
			}
		}

		info := fieldInfo{
			Key:       tag,
			Num:       i,
			OmitEmpty: omitempty,
			Flow:      flow,
		}
		if _, found := fieldsMap[tag]; found {
			return nil, errors.New("duplicated key '" + tag + "' in struct " + st.String())
		}
		fieldsMap[tag] = info
		fieldsList = append(fieldsList, info)
	}

	sinfo := &structInfo{
		FieldsMap:  fieldsMap,
		FieldsList: fieldsList,
		InlineMap:  inlineMap,
	}
	structMap.Store(st, sinfo)
	return sinfo, nil
}

func isValidTag(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case strings.ContainsRune("!#$%&()*+-./:;<=>?@[]^_{|}~ ", c):
		case c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
		default:
			return false
		}
	}
	return true
}

// isZero reports whether v holds the zero value for its type, used to
// implement the "omitempty" struct tag flag.
func isZero(v reflect.Value) bool {
	kind := v.Kind()
	if kind == reflect.Ptr || kind == reflect.Interface {
		if v.IsNil() {
			return true
		}
	}
	if z, ok := v.Interface().(interface{ IsZero() bool }); ok {
		return z.IsZero()
	}
	switch kind {
	case reflect.String:
		return v.Len() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Struct:
		vt := v.Type()
		for i := vt.NumField() - 1; i >= 0; i-- {
			if vt.Field(i).PkgPath != "" {
				continue
			}
			if !isZero(v.Field(i)) {
				return false
			}
		}
		return true
	}
	return false
}
