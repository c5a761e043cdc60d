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

package port_test

import (
	"context"
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libptc "github.com/mosaicsys/serialio/network/protocol"
	"github.com/mosaicsys/serialio/port"
	"github.com/mosaicsys/serialio/port/carrier"
	sckcfg "github.com/mosaicsys/serialio/socket/config"
)

func freeTCPAddress() string {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "127.0.0.1:0"
	}
	defer ln.Close()
	return ln.Addr().String()
}

func baseConfig(name string) port.Config {
	return port.Config{
		Name:          name,
		EndMarkers:    [][]byte{[]byte("\n")},
		RxBufferSize:  4096,
		TxBufferSize:  4096,
		SpinWaitLimit: 20 * time.Millisecond,
	}
}

var _ = Describe("Port lifecycle", func() {
	var ctx context.Context
	var cancel context.CancelFunc
	var p port.Port

	BeforeEach(func() {
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	})

	AfterEach(func() {
		if p != nil {
			_ = p.Stop(ctx)
		}
		cancel()
	})

	It("starts Initial/Initial and rejects an invalid config", func() {
		_, err := port.New(port.Config{}, carrier.NewNull(), nil)
		Expect(err).To(HaveOccurred())
	})

	It("moves to Online/Connected after GoOnline against a Null carrier", func() {
		var err error
		p, err = port.New(baseConfig("null-1"), carrier.NewNull(), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Start(ctx)).To(Succeed())

		Expect(p.GoOnline(ctx, true)).To(Succeed())

		Eventually(func() port.State { return p.State() }, time.Second, 5*time.Millisecond).
			Should(And(
				WithTransform(func(s port.State) port.UseState { return s.UseState }, Equal(port.UseStateOnline)),
				WithTransform(func(s port.State) port.ConnState { return s.ConnState }, Equal(port.ConnStateConnected)),
			))
		Expect(p.State().Valid()).To(BeTrue())
	})

	It("cancels a pending read when GoOffline is called", func() {
		var err error
		p, err = port.New(baseConfig("null-2"), carrier.NewNull(), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Start(ctx)).To(Succeed())
		Expect(p.GoOnline(ctx, true)).To(Succeed())

		Eventually(func() port.ConnState { return p.State().ConnState }, time.Second, 5*time.Millisecond).
			Should(Equal(port.ConnStateConnected))

		type result struct {
			n   int
			err error
		}
		done := make(chan result, 1)
		go func() {
			buf := make([]byte, 8)
			n, rerr := p.Read(ctx, buf, 8, true)
			done <- result{n, rerr}
		}()

		Consistently(done, "50ms").ShouldNot(Receive())

		Expect(p.GoOffline(ctx)).To(Succeed())

		var r result
		Eventually(done, time.Second).Should(Receive(&r))
		Expect(r.err).To(HaveOccurred())
		Expect(r.n).To(Equal(0))
	})
})

var _ = Describe("Port over TCP loopback", func() {
	var ctx context.Context
	var cancel context.CancelFunc
	var serverPort, clientPort port.Port

	BeforeEach(func() {
		ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	})

	AfterEach(func() {
		if clientPort != nil {
			_ = clientPort.Stop(ctx)
		}
		if serverPort != nil {
			_ = serverPort.Stop(ctx)
		}
		cancel()
	})

	It("round-trips bytes written on one port and read on the other", func() {
		addr := freeTCPAddress()

		srvCfg := sckcfg.Server{Network: libptc.NetworkTCP, Address: addr}
		var err error
		serverPort, err = port.New(baseConfig("srv"), carrier.NewTCPServer(srvCfg), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(serverPort.Start(ctx)).To(Succeed())
		Expect(serverPort.GoOnline(ctx, true)).To(Succeed())

		cliCfg := sckcfg.Client{Network: libptc.NetworkTCP, Address: addr}
		clientPort, err = port.New(baseConfig("cli"), carrier.NewTCPClient(cliCfg), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(clientPort.Start(ctx)).To(Succeed())
		Expect(clientPort.GoOnline(ctx, true)).To(Succeed())

		Eventually(func() port.ConnState { return serverPort.State().ConnState }, 2*time.Second, 10*time.Millisecond).
			Should(Equal(port.ConnStateConnected))
		Eventually(func() port.ConnState { return clientPort.State().ConnState }, 2*time.Second, 10*time.Millisecond).
			Should(Equal(port.ConnStateConnected))

		n, werr := clientPort.Write(ctx, []byte("hello"), false)
		Expect(werr).NotTo(HaveOccurred())
		Expect(n).To(Equal(5))

		buf := make([]byte, 5)
		rn, rerr := serverPort.Read(ctx, buf, 5, true)
		Expect(rerr).NotTo(HaveOccurred())
		Expect(rn).To(Equal(5))
		Expect(string(buf)).To(Equal("hello"))
	})
})
