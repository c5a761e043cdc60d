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

import "bytes"

// EndScanner looks for a packet boundary in the currently held region of the
// buffer. data is buffer[getIdx:putIdx]; previouslyScanned is how many bytes
// from the front of data were already scanned without finding a boundary on
// a prior call, so a scanner can skip re-examining them.
//
// Scan returns 0 when no boundary is found yet; a positive k means the first
// k bytes of data (including any end-marker) form one packet; a negative k
// means the first |k| bytes should be emitted as a flushed fragment rather
// than a framed packet.
type EndScanner interface {
	Scan(data []byte, previouslyScanned int) int

	// Overlap is the number of trailing bytes of any previously-scanned
	// prefix that must be re-examined once more data arrives, because a
	// boundary pattern could straddle the old end of the held region. It is
	// typically the longest pattern length minus one.
	Overlap() int
}

type endMarkerScanner struct {
	markers [][]byte
	overlap int
}

// NewEndMarkerScanner returns the default scanner: it looks for the earliest
// occurrence of any marker and, when more than one matches, prefers whichever
// produces the shortest packet.
func NewEndMarkerScanner(markers ...[]byte) EndScanner {
	overlap := 0
	for _, m := range markers {
		if len(m)-1 > overlap {
			overlap = len(m) - 1
		}
	}

	return &endMarkerScanner{markers: markers, overlap: overlap}
}

func (s *endMarkerScanner) Overlap() int {
	return s.overlap
}

func (s *endMarkerScanner) Scan(data []byte, previouslyScanned int) int {
	best := -1

	for _, pat := range s.markers {
		if len(pat) == 0 {
			continue
		}

		start := previouslyScanned - (len(pat) - 1)
		if start < 0 {
			start = 0
		}
		if start > len(data) {
			continue
		}

		idx := bytes.Index(data[start:], pat)
		if idx < 0 {
			continue
		}

		packetLen := start + idx + len(pat)
		if best == -1 || packetLen < best {
			best = packetLen
		}
	}

	if best == -1 {
		return 0
	}

	return best
}
