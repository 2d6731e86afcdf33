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

// Package yaml implements YAML 1.2 support for Go, providing a
// document-tree encoder built on a libyaml-style emitter state machine.
package yaml

import (
	"bytes"
)

// Marshal serializes v into a YAML document.
//
// Struct fields are encoded using their lower-cased field name as the
// default key, overridable with a "yaml" struct tag holding the key name
// and, after a comma, any of the flags "omitempty", "flow" and "inline".
// Unexported fields are never encoded. A field tag of "-" omits the field.
func Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
