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

// Package mux is a host-wide readiness multiplexer: a single background
// thread that polls a set of registered file descriptors on behalf of many
// independent callers, so a caller that only needs to know "is fd 7 readable
// yet" never has to run its own blocking-poll goroutine.
//
// A caller registers a descriptor with the directions it cares about
// (read/write/error) and a notifier; the multiplexer invokes that notifier
// whenever the descriptor becomes ready in one of those directions. The
// multiplexer itself never reads or writes the descriptor - readiness
// detection and I/O stay separate.
//
// This package is built on the same restartable-worker primitive
// (runner/startStop) as the port agent and the annunciator manager: starting
// it launches the poll loop, stopping it joins the loop goroutine.
package mux
