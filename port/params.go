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

import "time"

// ActionResult is the terminal disposition of a submitted read or write
// action. It starts Pending and is set exactly once, by the worker, before
// the action's done channel is closed.
type ActionResult uint8

const (
	ActionPending ActionResult = iota
	ActionDone
	ActionFailed
	ActionCanceled
	ActionTimeout
)

func (r ActionResult) String() string {
	switch r {
	case ActionPending:
		return "Pending"
	case ActionDone:
		return "Done"
	case ActionFailed:
		return "Failed"
	case ActionCanceled:
		return "Canceled"
	case ActionTimeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// ReadParams is a read request's parameter block. A caller builds one (via
// Port.Read, which fills it in and blocks), the worker owns it for the
// duration of the request, and ownership returns to the caller once
// ActionResult is no longer Pending.
type ReadParams struct {
	Buffer          []byte
	BytesToRead     int
	WaitForAllBytes bool

	StartTime time.Time

	BytesRead    int
	ActionResult ActionResult
	ResultCode   error
}

// WriteParams is a write request's parameter block, with the same
// ownership-transfer discipline as ReadParams.
type WriteParams struct {
	Buffer        []byte
	BytesToWrite  int
	IsNonBlocking bool

	StartTime time.Time

	BytesWritten int
	ActionResult ActionResult
	ResultCode   error
}
