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
	"reflect"
)

var typeNetworkProtocol = reflect.TypeOf(NetworkEmpty)

// ViperDecoderHook returns a mapstructure decode hook that lets viper bind a
// string or numeric config value directly onto a NetworkProtocol struct
// field. String values are parsed leniently (unknown names become
// NetworkEmpty); numeric values must fall within the valid protocol range or
// the hook returns an error, since a numeric config value cannot be
// distinguished from a typo the way an unrecognized name can.
func ViperDecoderHook() func(reflect.Type, reflect.Type, interface{}) (interface{}, error) {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != typeNetworkProtocol {
			return data, nil
		}

		switch from.Kind() {
		case reflect.String:
			return Parse(data.(string)), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return fromOrdinal(reflect.ValueOf(data).Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return fromOrdinal(int64(reflect.ValueOf(data).Uint()))
		default:
			return data, nil
		}
	}
}

func fromOrdinal(v int64) (interface{}, error) {
	if v < int64(NetworkUnix) || v > int64(NetworkUnixGram) {
		return nil, fmt.Errorf("invalid value %d for network protocol", v)
	}

	p := NetworkProtocol(v)
	if !p.IsNetwork() {
		return nil, fmt.Errorf("invalid value %d for network protocol", v)
	}

	return p, nil
}
