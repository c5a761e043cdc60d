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

package port

import liberr "github.com/mosaicsys/serialio/errors"

// Error codes for this package occupy the 9300 range, one step past
// runner/startStop's 9200 range, so the two never collide.
const (
	ErrorInvalidConfig liberr.CodeError = iota + 9300
	ErrorReadTimeout
	ErrorReadFailed
	ErrorReadCanceled
	ErrorReadRemoteEndClosed
	ErrorWriteFailed
	ErrorWriteCanceled
	ErrorWriteTimeout
	ErrorNotOnline
	ErrorAlreadyPending
	ErrorDuplicatePortName
	ErrorUnknownPortName
)

func init() {
	liberr.RegisterIdFctMessage(ErrorInvalidConfig, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorInvalidConfig:
		return "invalid port configuration"
	case ErrorReadTimeout:
		return "read timed out before the requested bytes arrived"
	case ErrorReadFailed:
		return "read failed"
	case ErrorReadCanceled:
		return "read canceled"
	case ErrorReadRemoteEndClosed:
		return "read failed: remote end closed the connection"
	case ErrorWriteFailed:
		return "write failed"
	case ErrorWriteCanceled:
		return "write canceled"
	case ErrorWriteTimeout:
		return "write timed out"
	case ErrorNotOnline:
		return "port is not online"
	case ErrorAlreadyPending:
		return "an equivalent action is already pending"
	case ErrorDuplicatePortName:
		return "a port is already registered under this name"
	case ErrorUnknownPortName:
		return "no port is registered under this name"
	}

	return ""
}
