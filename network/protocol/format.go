/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package protocol

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// unquote strips a single layer of surrounding quotes, single quotes first
// then double quotes, so a nested `"'tcp'"` is left with mismatched
// delimiters rather than a clean name.
func unquote(s string) string {
	s = strings.Trim(s, `'`)
	s = strings.Trim(s, `"`)
	return s
}

// MarshalJSON encodes the protocol as its lowercase network name, or an
// empty JSON string for an unrecognized value.
func (n NetworkProtocol) MarshalJSON() ([]byte, error) {
	s := n.String()
	b := make([]byte, 0, len(s)+2)
	b = append(b, '"')
	b = append(b, s...)
	b = append(b, '"')
	return b, nil
}

// UnmarshalJSON accepts a quoted network name, case-insensitively, optionally
// wrapped in single quotes. An empty or unrecognized name yields NetworkEmpty
// without error.
func (n *NetworkProtocol) UnmarshalJSON(data []byte) error {
	*n = Parse(unquote(string(data)))
	return nil
}

// MarshalYAML renders the protocol as its lowercase network name.
func (n NetworkProtocol) MarshalYAML() (interface{}, error) {
	return n.String(), nil
}

// UnmarshalYAML accepts a YAML scalar node holding a network name.
func (n *NetworkProtocol) UnmarshalYAML(node *yaml.Node) error {
	*n = Parse(unquote(node.Value))
	return nil
}

// MarshalTOML renders the protocol as its bare network name.
func (n NetworkProtocol) MarshalTOML() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalTOML accepts either a raw network name or a quoted one, matching
// the permissive decoding most TOML libraries hand callers. Any other Go
// type is rejected, since TOML string values are the only representation
// this protocol accepts.
func (n *NetworkProtocol) UnmarshalTOML(v interface{}) error {
	switch t := v.(type) {
	case string:
		*n = Parse(unquote(t))
		return nil
	case []byte:
		*n = Parse(unquote(string(t)))
		return nil
	default:
		return fmt.Errorf("value %v is not in valid format for network protocol", v)
	}
}

// MarshalText renders the protocol as its bare network name.
func (n NetworkProtocol) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText accepts a bare or quoted network name.
func (n *NetworkProtocol) UnmarshalText(data []byte) error {
	*n = Parse(unquote(string(data)))
	return nil
}

// MarshalCBOR renders the protocol as its bare network name, for CBOR
// codecs that treat a TextMarshaler-like hook as a byte string.
func (n NetworkProtocol) MarshalCBOR() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalCBOR accepts a bare or quoted network name.
func (n *NetworkProtocol) UnmarshalCBOR(data []byte) error {
	*n = Parse(unquote(string(data)))
	return nil
}
