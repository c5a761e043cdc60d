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

// Snapshot is a read-only view of a port's health for a monitoring endpoint
// to poll, without subscribing to StatePublisher or wiring a Metrics.
type Snapshot struct {
	Name   string
	State  State
	Uptime time.Duration

	BytesRead     int64
	BytesWritten  int64
	FramedPackets int64
	Reconnects    int64
}

func (p *portImpl) Snapshot() Snapshot {
	return Snapshot{
		Name:          p.cfg.Name,
		State:         p.State(),
		Uptime:        p.Uptime(),
		BytesRead:     p.bytesRead.Load(),
		BytesWritten:  p.bytesWritten.Load(),
		FramedPackets: p.framedPackets.Load(),
		Reconnects:    p.reconnects.Load(),
	}
}
