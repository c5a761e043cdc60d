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

//go:build linux

package carrier

import (
	"errors"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

var baudRates = map[int]uint32{
	50: unix.B50, 75: unix.B75, 110: unix.B110, 134: unix.B134,
	150: unix.B150, 200: unix.B200, 300: unix.B300, 600: unix.B600,
	1200: unix.B1200, 1800: unix.B1800, 2400: unix.B2400, 4800: unix.B4800,
	9600: unix.B9600, 19200: unix.B19200, 38400: unix.B38400,
	57600: unix.B57600, 115200: unix.B115200, 230400: unix.B230400,
	460800: unix.B460800, 921600: unix.B921600,
}

// UART drives a local serial device via the Linux termios ioctls. Reads are
// non-blocking (VMIN=0, VTIME=1): a read that times out because no data
// arrived is treated by InnerHandleRead as "no data ready", not a failure,
// exactly as required for a carrier whose normal operating mode is idle.
type UART struct {
	path string
	mode Mode

	mu        sync.Mutex
	fd        int
	reader    *asyncReader
	connected atomic.Bool
}

// NewUART builds a UART carrier for the device at path (e.g. "/dev/ttyS0"),
// configured per mode.
func NewUART(path string, mode Mode) *UART {
	return &UART{path: path, mode: mode, fd: -1}
}

func (u *UART) InnerGoOnline(_ string, andInitialize bool) error {
	u.mu.Lock()
	if u.fd >= 0 {
		u.mu.Unlock()
		return ErrAlreadyConnected
	}
	u.mu.Unlock()

	fd, err := unix.Open(u.path, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0)
	if err != nil {
		return err
	}

	if andInitialize {
		if err := applyTermios(fd, u.mode); err != nil {
			_ = unix.Close(fd)
			return err
		}
	}

	u.mu.Lock()
	u.fd = fd
	u.reader = newAsyncReader(func(buf []byte) (int, error) {
		for {
			n, rerr := unix.Read(fd, buf)
			if rerr == unix.EAGAIN || rerr == unix.EWOULDBLOCK {
				continue
			}
			return n, rerr
		}
	})
	u.mu.Unlock()
	u.connected.Store(true)
	return nil
}

func applyTermios(fd int, mode Mode) error {
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return err
	}

	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB | unix.PARODD | unix.CSTOPB
	t.Cflag |= unix.CREAD | unix.CLOCAL

	switch mode.DataBits {
	case 5:
		t.Cflag |= unix.CS5
	case 6:
		t.Cflag |= unix.CS6
	case 7:
		t.Cflag |= unix.CS7
	default:
		t.Cflag |= unix.CS8
	}

	switch mode.Parity {
	case ParityOdd:
		t.Cflag |= unix.PARENB | unix.PARODD
	case ParityEven:
		t.Cflag |= unix.PARENB
	}

	if mode.StopBits == 2 {
		t.Cflag |= unix.CSTOPB
	}

	if mode.Wire == WireRS485_3WireNoEcho || mode.Wire == WireRS485_3WireEcho {
		t.Cflag |= unix.CRTSCTS
	}

	baud, ok := baudRates[mode.Baud]
	if !ok {
		return errors.New("carrier: unsupported uart baud rate")
	}
	t.Cflag &^= unix.CBAUD
	t.Cflag |= baud
	t.Ispeed = baud
	t.Ospeed = baud

	t.Cc[unix.VMIN] = 0
	t.Cc[unix.VTIME] = 1

	return unix.IoctlSetTermios(fd, unix.TCSETS, t)
}

func (u *UART) InnerGoOffline(_ string) error {
	u.mu.Lock()
	fd := u.fd
	u.fd = -1
	u.reader = nil
	u.mu.Unlock()

	u.connected.Store(false)
	if fd >= 0 {
		return unix.Close(fd)
	}
	return nil
}

func (u *UART) InnerReadBytesAvailable() int {
	u.mu.Lock()
	r := u.reader
	u.mu.Unlock()
	if r == nil {
		return 0
	}
	return r.Available()
}

func (u *UART) InnerWriteSpaceAvailable() int {
	if u.InnerIsConnected() {
		return 4096
	}
	return 0
}

func (u *UART) InnerIsAnyWriteSpaceAvailable() bool {
	return u.InnerIsConnected()
}

func (u *UART) InnerHandleRead(buf []byte, start, max int) (int, ReadOutcome, error) {
	u.mu.Lock()
	r := u.reader
	u.mu.Unlock()
	if r == nil {
		return 0, ReadOutcomeNone, ErrNotConnected
	}

	n := r.Read(buf[start : start+max])
	if err := r.Err(); err != nil {
		// A device unplugged mid-session surfaces as an I/O error on the
		// fd, not as a clean EOF; treat it the same as a remote hangup.
		if errors.Is(err, os.ErrClosed) || errors.Is(err, unix.EIO) || errors.Is(err, unix.ENXIO) {
			_ = u.InnerGoOffline("")
			return n, ReadOutcomeRemoteClosed, err
		}
		return n, ReadOutcomeNone, nil
	}
	return n, ReadOutcomeNone, nil
}

func (u *UART) InnerHandleWrite(buf []byte, start, count int) (int, WriteOutcome, error) {
	u.mu.Lock()
	fd := u.fd
	u.mu.Unlock()
	if fd < 0 {
		return 0, WriteOutcomeWouldBlock, ErrNotConnected
	}

	n, err := unix.Write(fd, buf[start:start+count])
	if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
		return 0, WriteOutcomeWouldBlock, nil
	}
	if err != nil {
		return n, WriteOutcomeNone, err
	}
	return n, WriteOutcomeNone, nil
}

func (u *UART) InnerIsConnected() bool {
	return u.connected.Load()
}

// PollFd implements Pollable.
func (u *UART) PollFd() (int, bool) {
	u.mu.Lock()
	fd := u.fd
	u.mu.Unlock()
	if fd < 0 {
		return 0, false
	}
	return fd, true
}

var _ Carrier = (*UART)(nil)
var _ Pollable = (*UART)(nil)
