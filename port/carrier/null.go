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

import "sync/atomic"

// Null is a carrier that connects and disconnects synchronously and never
// produces or accepts a byte. Useful as a port's carrier when the port
// exists only to exercise the state machine, or as a placeholder while a
// real carrier is configured later.
type Null struct {
	connected atomic.Bool
}

// NewNull returns a ready-to-use Null carrier, initially offline.
func NewNull() *Null {
	return &Null{}
}

func (n *Null) InnerGoOnline(_ string, _ bool) error {
	n.connected.Store(true)
	return nil
}

func (n *Null) InnerGoOffline(_ string) error {
	n.connected.Store(false)
	return nil
}

func (n *Null) InnerReadBytesAvailable() int { return 0 }

func (n *Null) InnerWriteSpaceAvailable() int { return 0 }

func (n *Null) InnerIsAnyWriteSpaceAvailable() bool { return false }

func (n *Null) InnerHandleRead(_ []byte, _, _ int) (int, ReadOutcome, error) {
	return 0, ReadOutcomeNone, nil
}

func (n *Null) InnerHandleWrite(_ []byte, _, _ int) (int, WriteOutcome, error) {
	return 0, WriteOutcomeWouldBlock, nil
}

func (n *Null) InnerIsConnected() bool {
	return n.connected.Load()
}

var _ Carrier = (*Null)(nil)
