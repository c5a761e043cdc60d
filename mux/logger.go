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
	liblog "github.com/mosaicsys/serialio/logger"
	loglvl "github.com/mosaicsys/serialio/logger/level"
)

func (m *multiplexer) logWarn(msg string, args ...interface{}) {
	fct := m.log.Load()
	if fct == nil {
		return
	}
	l := fct()
	if l == nil {
		return
	}
	l.Entry(loglvl.WarnLevel, msg, args...).Log()
}

func (m *multiplexer) logDebug(msg string, args ...interface{}) {
	fct := m.log.Load()
	if fct == nil {
		return
	}
	l := fct()
	if l == nil {
		return
	}
	l.Entry(loglvl.DebugLevel, msg, args...).Log()
}

// SetLogger implements Multiplexer.
func (m *multiplexer) SetLogger(fct liblog.FuncLog) {
	m.log.Store(fct)
}
