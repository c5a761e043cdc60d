//go:build linux

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

package mux

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sys/unix"
)

const (
	idleWait      = 10 * time.Millisecond
	pollBudget    = 100 * time.Millisecond
	notifyGuard   = 10 * time.Millisecond
	exceptBackoff = 20 * time.Millisecond
)

// validSocket reports whether fd still names an open descriptor, using a
// cheap fcntl probe.
func validSocket(fd int) bool {
	if fd < 0 {
		return false
	}
	_, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0)
	return err == nil
}

// run is the StartStop start function: the service loop itself, per the
// numbered steps in the select multiplexer's contract. It returns when ctx
// is cancelled.
func (m *multiplexer) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		// Step 1: rebuild the working set if asked to, discarding any
		// entry whose socket is no longer usable.
		if m.tbl.needsRebuild() || m.current == nil {
			fresh := m.tbl.snapshot()
			m.current = fresh[:0]
			for _, e := range fresh {
				if validSocket(e.socket) {
					m.current = append(m.current, e)
				} else {
					m.logWarn("mux: dropping registration %d, socket %d no longer usable", e.id, e.socket)
					m.tbl.remove(e.id)
				}
			}
		}

		// Step 2: nothing to watch, wait briefly for a registration.
		if len(m.current) == 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-m.tbl.wake:
			case <-time.After(idleWait):
			}
			continue
		}

		// Step 3: poll with a bounded budget.
		fds := buildPollFds(m.current)
		n, err := unix.Poll(fds, int(pollBudget/time.Millisecond))
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			// Step 6: exception handling.
			m.logDebug("mux: poll primitive raised an exception: %v", err)
			m.tbl.setRebuild()
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(exceptBackoff):
			}
			continue
		}
		if n == 0 {
			continue
		}

		// Step 4: mark touched entries.
		notified := false
		for i, e := range m.current {
			pf := fds[i]
			if pf.Revents == 0 {
				continue
			}
			e.touched = true
			readable := e.wantRead && pf.Revents&(unix.POLLIN|unix.POLLHUP) != 0
			writable := e.wantWrite && pf.Revents&unix.POLLOUT != 0
			excepted := e.wantError && pf.Revents&(unix.POLLERR|unix.POLLNVAL) != 0
			if !readable && !writable && !excepted {
				e.touched = false
				continue
			}

			// Step 5: invoke the notifier exactly once, then clear.
			if e.notifier != nil {
				e.notifier(readable, writable, excepted)
			}
			e.touched = false
			notified = true
		}

		if notified {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(notifyGuard):
			}
		}
	}
}

func buildPollFds(entries []*entry) []unix.PollFd {
	fds := make([]unix.PollFd, len(entries))
	for i, e := range entries {
		var events int16
		if e.wantRead {
			events |= unix.POLLIN
		}
		if e.wantWrite {
			events |= unix.POLLOUT
		}
		fds[i] = unix.PollFd{Fd: int32(e.socket), Events: events}
	}
	return fds
}
