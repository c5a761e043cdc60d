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

import (
	"errors"
	"time"

	libbuf "github.com/mosaicsys/serialio/buffer"
	loglvl "github.com/mosaicsys/serialio/logger/level"
)

// Severities lets a port assign a distinct log level to each category of
// event it emits, mirroring the trace-event mask described for the port's
// tracing facility (§6.3): flush, write, read, and packet-framed events can
// each be as noisy or as quiet as the caller wants.
type Severities struct {
	Flush  loglvl.Level
	Write  loglvl.Level
	Read   loglvl.Level
	Packet loglvl.Level
}

// Config is a port's configuration value object. Exactly one of EndMarkers
// or Scanner must be set to describe reception framing; setting both or
// neither fails Validate.
type Config struct {
	Name string

	// Reception framing: exactly one of these two must be non-empty/non-nil.
	EndMarkers [][]byte
	Scanner    libbuf.EndScanner

	// TxEndMarker is appended to every Write call's payload before it is
	// handed to the carrier, when non-empty.
	TxEndMarker []byte

	TrimWhitespace    bool
	DiscardWhitespace bool

	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration

	ReconnectHoldoff time.Duration
	SpinWaitLimit    time.Duration
	AutoReconnect    bool

	RxBufferSize int
	TxBufferSize int

	Severities Severities
}

// Validate reports whether cfg describes a usable port. It never touches a
// carrier or the filesystem; it is purely syntactic, matching socket/config's
// Validate idiom.
func (c Config) Validate() error {
	if c.Name == "" {
		return ErrorInvalidConfig.Error(errors.New("empty port name"))
	}

	hasMarkers := len(c.EndMarkers) > 0
	hasScanner := c.Scanner != nil
	if hasMarkers == hasScanner {
		return ErrorInvalidConfig.Error(errors.New("exactly one of EndMarkers or Scanner must be set"))
	}

	if c.RxBufferSize <= 0 {
		return ErrorInvalidConfig.Error(errors.New("RxBufferSize must be positive"))
	}
	if c.TxBufferSize <= 0 {
		return ErrorInvalidConfig.Error(errors.New("TxBufferSize must be positive"))
	}
	if c.SpinWaitLimit <= 0 {
		return ErrorInvalidConfig.Error(errors.New("SpinWaitLimit must be positive"))
	}

	return nil
}

// scanner returns the EndScanner this configuration describes, building one
// from EndMarkers when Scanner was not set directly.
func (c Config) scanner() libbuf.EndScanner {
	if c.Scanner != nil {
		return c.Scanner
	}
	return libbuf.NewEndMarkerScanner(c.EndMarkers...)
}
