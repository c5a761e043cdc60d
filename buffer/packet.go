/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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

package buffer

// Type tags a framed Packet.
type Type uint8

const (
	Null Type = iota
	None
	Data
	Whitespace
	Flushed
	Timeout
	Error
)

func (t Type) String() string {
	switch t {
	case Null:
		return "Null"
	case None:
		return "None"
	case Data:
		return "Data"
	case Whitespace:
		return "Whitespace"
	case Flushed:
		return "Flushed"
	case Timeout:
		return "Timeout"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// Packet is one framed unit produced by the sliding buffer. The consumer
// owns Data once received; the buffer never retains a reference to it.
type Packet struct {
	Type      Type
	Data      []byte
	ErrorCode error
}
