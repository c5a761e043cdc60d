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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mosaicsys/serialio/port"
	"github.com/mosaicsys/serialio/port/carrier"
)

var _ = Describe("Metrics", func() {
	It("tracks use/conn state gauges as a port comes online", func() {
		reg := prometheus.NewRegistry()
		m := port.NewMetrics(reg)

		p, err := port.New(baseConfig("metered"), carrier.NewNull(), nil)
		Expect(err).ToNot(HaveOccurred())
		p.SetMetrics(m)

		ctx := context.Background()
		Expect(p.Start(ctx)).To(Succeed())
		DeferCleanup(func() { _ = p.Stop(ctx) })

		Expect(p.GoOnline(ctx, true)).To(Succeed())
		Eventually(func() port.ConnState { return p.State().ConnState }, time.Second).
			Should(Equal(port.ConnStateConnected))

		Expect(testutil.ToFloat64(m.UseStateGauge("metered"))).To(Equal(float64(port.UseStateOnline)))
		Expect(testutil.ToFloat64(m.ConnStateGauge("metered"))).To(Equal(float64(port.ConnStateConnected)))
	})
})
