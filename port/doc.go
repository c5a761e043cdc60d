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

// Package port is the active-agent port base: one worker goroutine owns a
// carrier.Carrier and a buffer.Buffer, drives the Initial/Offline/
// AttemptOnline/Online use-state and connection-state machine, and serves
// GoOnline/GoOffline/Read/Write/Flush/GetNextPacket requests submitted from
// any number of caller goroutines through a single FIFO action queue.
//
// Every exposed operation enqueues an action and returns a handle the caller
// can wait on or cancel; the worker is the only goroutine that ever touches
// the carrier, the buffer, or the port's own state. State changes are
// published through a notify.Publisher so any number of observers can watch
// a port without going through the action queue.
package port
