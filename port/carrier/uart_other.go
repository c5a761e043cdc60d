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

//go:build !linux

package carrier

// UART is a stub on platforms without a termios ioctl binding in this
// module; every operation reports ErrUnsupportedPlatform. The mode-token
// parser (ParseMode, in uartmode.go) stays available everywhere since the
// port factory (C7) needs it regardless of what platform builds the
// carrier itself.
type UART struct{}

// NewUART builds a stub UART carrier; path and mode are ignored.
func NewUART(path string, mode Mode) *UART {
	return &UART{}
}

func (u *UART) InnerGoOnline(_ string, _ bool) error  { return ErrUnsupportedPlatform }
func (u *UART) InnerGoOffline(_ string) error         { return nil }
func (u *UART) InnerReadBytesAvailable() int          { return 0 }
func (u *UART) InnerWriteSpaceAvailable() int         { return 0 }
func (u *UART) InnerIsAnyWriteSpaceAvailable() bool   { return false }
func (u *UART) InnerIsConnected() bool                { return false }

func (u *UART) InnerHandleRead(_ []byte, _, _ int) (int, ReadOutcome, error) {
	return 0, ReadOutcomeNone, ErrUnsupportedPlatform
}

func (u *UART) InnerHandleWrite(_ []byte, _, _ int) (int, WriteOutcome, error) {
	return 0, WriteOutcomeNone, ErrUnsupportedPlatform
}

// PollFd implements Pollable; stub platforms never have a descriptor.
func (u *UART) PollFd() (int, bool) { return 0, false }

var _ Carrier = (*UART)(nil)
var _ Pollable = (*UART)(nil)
