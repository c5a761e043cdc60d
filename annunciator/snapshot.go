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

import "time"

// Snapshot is a read-only view of a Manager's health for a monitoring
// endpoint to poll, without subscribing to any of the set-change
// publishers.
type Snapshot struct {
	Uptime time.Duration

	ActiveCount  int
	RecentCount  int
	HistoryCount int

	AutoAckCount int64
}

// Snapshot returns the manager's current health snapshot.
func (m *Manager) Snapshot() Snapshot {
	return Snapshot{
		Uptime:       m.Uptime(),
		ActiveCount:  len(m.ActiveSnapshot()),
		RecentCount:  len(m.RecentSnapshot()),
		HistoryCount: len(m.HistorySnapshot()),
		AutoAckCount: m.autoAckCount.Load(),
	}
}
