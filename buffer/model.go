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

import (
	"bytes"
	"time"
)

type buffer struct {
	data []byte

	getIdx, putIdx int
	getTs, putTs   time.Time
	lastScanned    int

	scanner     EndScanner
	trim        bool
	discardWS   bool
	idleTimeout time.Duration

	packets []Packet
}

func (b *buffer) GetPutAccess(desiredSpace int) ([]byte, int, int) {
	tail := len(b.data) - b.putIdx
	if tail < desiredSpace && b.getIdx > 0 {
		n := b.putIdx - b.getIdx
		copy(b.data, b.data[b.getIdx:b.putIdx])
		b.getIdx = 0
		b.putIdx = n
	}

	return b.data, b.putIdx, len(b.data) - b.putIdx
}

func (b *buffer) AddedN(n int) {
	b.putIdx += n
	b.putTs = time.Now()
	b.Service(false)
}

func (b *buffer) Service(forceFullRescan bool) {
	produced := false
	force := forceFullRescan

	for {
		n := b.putIdx - b.getIdx
		if n == 0 {
			b.getIdx, b.putIdx = 0, 0
			b.lastScanned = 0
			break
		}

		if n == b.lastScanned && !force {
			break
		}

		if b.scanner == nil {
			break
		}

		data := b.data[b.getIdx : b.getIdx+n]
		k := b.scanner.Scan(data, b.lastScanned)
		if k == 0 {
			ls := n - b.scanner.Overlap()
			if ls < 0 {
				ls = 0
			}
			b.lastScanned = ls
			break
		}

		flush := k < 0
		length := k
		if flush {
			length = -k
		}
		if length <= 0 || length > n {
			// a scanner must never report a boundary outside the held
			// region; treat it as "no boundary yet" rather than corrupt idx.
			b.lastScanned = n
			break
		}

		payload := append([]byte(nil), data[:length]...)
		pktType := Data
		if flush {
			pktType = Flushed
		}

		if b.trim {
			trimmed := bytes.TrimSpace(payload)
			if len(trimmed) == 0 {
				pktType = Whitespace
			}
			payload = trimmed
		}

		if !(pktType == Whitespace && b.discardWS) {
			b.packets = append(b.packets, Packet{Type: pktType, Data: payload})
		}
		produced = true

		b.getIdx += length
		b.lastScanned = 0
		b.getTs = time.Now()
		force = true
	}

	if b.trim {
		b.dropLeadingWhitespace()
	}

	b.checkIdleTimeout(produced)
}

func (b *buffer) dropLeadingWhitespace() {
	n := b.putIdx - b.getIdx
	i := 0
	for i < n && isWhitespace(b.data[b.getIdx+i]) {
		i++
	}
	if i == 0 {
		return
	}

	b.getIdx += i
	if b.lastScanned > i {
		b.lastScanned -= i
	} else {
		b.lastScanned = 0
	}
}

func (b *buffer) checkIdleTimeout(produced bool) {
	if produced || b.idleTimeout <= 0 {
		return
	}

	n := b.putIdx - b.getIdx
	if n == 0 {
		return
	}

	last := b.getTs
	if b.putTs.After(last) {
		last = b.putTs
	}
	if last.IsZero() || time.Since(last) <= b.idleTimeout {
		return
	}

	payload := append([]byte(nil), b.data[b.getIdx:b.putIdx]...)
	b.packets = append(b.packets, Packet{Type: Timeout, Data: payload})
	b.getIdx, b.putIdx = 0, 0
	b.lastScanned = 0
}

func (b *buffer) GetNextPacket() (Packet, bool) {
	if len(b.packets) == 0 {
		return Packet{}, false
	}

	p := b.packets[0]
	b.packets = b.packets[1:]

	return p, true
}

func (b *buffer) ReadRaw(p []byte) int {
	n := b.putIdx - b.getIdx
	if n > len(p) {
		n = len(p)
	}
	if n <= 0 {
		return 0
	}

	copy(p, b.data[b.getIdx:b.getIdx+n])
	b.getIdx += n
	if b.lastScanned > n {
		b.lastScanned -= n
	} else {
		b.lastScanned = 0
	}

	return n
}

func (b *buffer) Reset() {
	b.getIdx, b.putIdx = 0, 0
	b.lastScanned = 0
	b.packets = nil
}

func (b *buffer) Flush() {
	b.Reset()
}

func isWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}
