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
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libptc "github.com/mosaicsys/serialio/network/protocol"
	"github.com/mosaicsys/serialio/port"
	"github.com/mosaicsys/serialio/port/carrier"
	sckcfg "github.com/mosaicsys/serialio/socket/config"
)

var _ = Describe("Snapshot", func() {
	It("reports name and zeroed counters for a freshly started port", func() {
		p, err := port.New(baseConfig("snap"), carrier.NewNull(), nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(p.Start(context.Background())).To(Succeed())
		DeferCleanup(func() { _ = p.Stop(context.Background()) })

		snap := p.Snapshot()
		Expect(snap.Name).To(Equal("snap"))
		Expect(snap.FramedPackets).To(Equal(int64(0)))
		Expect(snap.Reconnects).To(Equal(int64(0)))
		Expect(snap.BytesWritten).To(Equal(int64(0)))
	})

	It("counts bytes written and read over a live connection", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		addr := freeTCPAddress()

		srvCfg := sckcfg.Server{Network: libptc.NetworkTCP, Address: addr}
		serverPort, err := port.New(baseConfig("snap-srv"), carrier.NewTCPServer(srvCfg), nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(serverPort.Start(ctx)).To(Succeed())
		Expect(serverPort.GoOnline(ctx, true)).To(Succeed())
		DeferCleanup(func() { _ = serverPort.Stop(context.Background()) })

		cliCfg := sckcfg.Client{Network: libptc.NetworkTCP, Address: addr}
		clientPort, err := port.New(baseConfig("snap-cli"), carrier.NewTCPClient(cliCfg), nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(clientPort.Start(ctx)).To(Succeed())
		Expect(clientPort.GoOnline(ctx, true)).To(Succeed())
		DeferCleanup(func() { _ = clientPort.Stop(context.Background()) })

		Eventually(func() port.ConnState { return clientPort.State().ConnState }, 2*time.Second, 10*time.Millisecond).
			Should(Equal(port.ConnStateConnected))

		n, werr := clientPort.Write(ctx, []byte("hello"), false)
		Expect(werr).ToNot(HaveOccurred())
		Expect(n).To(Equal(5))

		Eventually(func() int64 { return clientPort.Snapshot().BytesWritten }).Should(Equal(int64(5)))

		buf := make([]byte, 5)
		_, rerr := serverPort.Read(ctx, buf, 5, true)
		Expect(rerr).ToNot(HaveOccurred())

		Eventually(func() int64 { return serverPort.Snapshot().BytesRead }).Should(Equal(int64(5)))
	})
})
