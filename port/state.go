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

// UseState is the caller-facing half of a port's state: whether the port has
// ever been asked to go online, and if so, how that attempt is going.
type UseState uint8

const (
	UseStateInitial UseState = iota
	UseStateOffline
	UseStateAttemptOnline
	UseStateAttemptOnlineFailed
	UseStateOnline
)

func (s UseState) String() string {
	switch s {
	case UseStateInitial:
		return "Initial"
	case UseStateOffline:
		return "Offline"
	case UseStateAttemptOnline:
		return "AttemptOnline"
	case UseStateAttemptOnlineFailed:
		return "AttemptOnlineFailed"
	case UseStateOnline:
		return "Online"
	default:
		return "Unknown"
	}
}

// ConnState is the carrier-facing half of a port's state: where the
// underlying transport actually is right now.
type ConnState uint8

const (
	ConnStateInitial ConnState = iota
	ConnStateDisconnected
	ConnStateConnecting
	ConnStateWaitingForConnect
	ConnStateConnected
	ConnStateDisconnectedByOtherEnd
	ConnStateConnectFailed
	ConnStateConnectionFailed
)

func (s ConnState) String() string {
	switch s {
	case ConnStateInitial:
		return "Initial"
	case ConnStateDisconnected:
		return "Disconnected"
	case ConnStateConnecting:
		return "Connecting"
	case ConnStateWaitingForConnect:
		return "WaitingForConnect"
	case ConnStateConnected:
		return "Connected"
	case ConnStateDisconnectedByOtherEnd:
		return "DisconnectedByOtherEnd"
	case ConnStateConnectFailed:
		return "ConnectFailed"
	case ConnStateConnectionFailed:
		return "ConnectionFailed"
	default:
		return "Unknown"
	}
}

// connectedFamily reports whether s is one of the connection states that
// only make sense while useState is Online — the pending-action cancellation
// cascade fires on any transition out of this family.
func (s ConnState) connectedFamily() bool {
	switch s {
	case ConnStateConnecting, ConnStateWaitingForConnect, ConnStateConnected,
		ConnStateConnectionFailed, ConnStateDisconnectedByOtherEnd:
		return true
	default:
		return false
	}
}

// State is a port's full published state: the use/connection state pair,
// when it last changed, and why.
type State struct {
	UseState  UseState
	ConnState ConnState
	Timestamp time.Time
	Reason    string
}

// Valid reports whether the UseState/ConnState pair satisfies the universal
// invariant: useState == Online implies connState is one of the states that
// belong to an online attempt.
func (s State) Valid() bool {
	if s.UseState != UseStateOnline {
		return true
	}
	return s.ConnState.connectedFamily()
}
