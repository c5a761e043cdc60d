/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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

package factory

import liberr "github.com/mosaicsys/serialio/errors"

// ErrorInvalidSpec is the InvalidPortConfigSpecStrException-equivalent of
// spec.md §7: raised whenever a spec string fails to parse, or names a
// parameter (parity, stop bits, wire mode) this build's carriers do not
// implement.
const (
	ErrorInvalidSpec liberr.CodeError = iota + 9500
	ErrorUnsupportedCarrierOption
)

func init() {
	liberr.RegisterIdFctMessage(ErrorInvalidSpec, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorInvalidSpec:
		return "malformed port spec string"
	case ErrorUnsupportedCarrierOption:
		return "spec names a parameter this carrier build does not support"
	}
	return ""
}
