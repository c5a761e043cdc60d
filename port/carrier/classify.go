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

package carrier

import (
	"errors"
	"io"
	"net"
	"os"
	"syscall"
)

// isPermanentNetError reports whether err signals a condition the remote
// end (or the OS) will never recover from on its own: access denied,
// connection reset/refused, broken pipe, timed out, not connected, or the
// host being down/unreachable. The TCP client carrier uses this to decide
// between a transient retry and tearing the connection down into
// ConnectionFailed.
func isPermanentNetError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return true
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET, syscall.ECONNREFUSED, syscall.ECONNABORTED,
			syscall.EPIPE, syscall.ETIMEDOUT, syscall.ENOTCONN,
			syscall.EHOSTDOWN, syscall.EHOSTUNREACH, syscall.ENETUNREACH,
			syscall.EACCES, syscall.ESHUTDOWN:
			return true
		}
	}

	var pe *os.PathError
	if errors.As(err, &pe) {
		return isPermanentNetError(pe.Err)
	}
	var se *os.SyscallError
	if errors.As(err, &se) {
		return isPermanentNetError(se.Err)
	}

	var ne net.Error
	if errors.As(err, &ne) && !ne.Timeout() {
		return true
	}

	return false
}
