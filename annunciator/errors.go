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

package annunciator

import liberr "github.com/mosaicsys/serialio/errors"

const (
	ErrorRegistration liberr.CodeError = iota + 9400
	ErrorDuplicateName
	ErrorInvalidSpecForFacet
	ErrorActionSelection
	ErrorAlarmHandlerAlreadySet
	ErrorUnknownName
)

func init() {
	liberr.RegisterIdFctMessage(ErrorRegistration, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorRegistration:
		return "annunciator registration failed"
	case ErrorDuplicateName:
		return "annunciator name already registered"
	case ErrorInvalidSpecForFacet:
		return "annunciator type not allowed for this facet"
	case ErrorActionSelection:
		return "action selection precondition not met"
	case ErrorAlarmHandlerAlreadySet:
		return "alarm-id handler already set to a different instance"
	case ErrorUnknownName:
		return "no annunciator registered under this name"
	}
	return ""
}
