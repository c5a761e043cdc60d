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

package carrier_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mosaicsys/serialio/port/carrier"
)

var _ = Describe("ParseMode", func() {
	It("parses a plain RS-232 4-wire token", func() {
		m, err := carrier.ParseMode("115200-8n1-rs232-4w")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Baud).To(Equal(115200))
		Expect(m.DataBits).To(Equal(8))
		Expect(m.Parity).To(Equal(carrier.ParityNone))
		Expect(m.StopBits).To(Equal(1))
		Expect(m.Wire).To(Equal(carrier.WireRS232_4Wire))
	})

	It("parses even parity and two stop bits", func() {
		m, err := carrier.ParseMode("9600-7e2-rs232-3w")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.DataBits).To(Equal(7))
		Expect(m.Parity).To(Equal(carrier.ParityEven))
		Expect(m.StopBits).To(Equal(2))
	})

	It("parses RS-485 echo and no-echo variants", func() {
		m, err := carrier.ParseMode("19200-8o1-rs485-3w-echo")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Wire).To(Equal(carrier.WireRS485_3WireEcho))

		m, err = carrier.ParseMode("19200-8o1-rs485-3w-noecho")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Wire).To(Equal(carrier.WireRS485_3WireNoEcho))
	})

	It("parses fiber normal and inverted variants", func() {
		m, err := carrier.ParseMode("9600-8n1-fiber")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Wire).To(Equal(carrier.WireFiberNormal))

		m, err = carrier.ParseMode("9600-8n1-fiber-inv")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Wire).To(Equal(carrier.WireFiberInverted))
	})

	DescribeTable("rejects malformed tokens",
		func(token string) {
			_, err := carrier.ParseMode(token)
			Expect(err).To(HaveOccurred())
		},
		Entry("missing sections", "9600-8n1"),
		Entry("non-numeric baud", "fast-8n1-rs232-4w"),
		Entry("zero baud", "0-8n1-rs232-4w"),
		Entry("bad data bits", "9600-9n1-rs232-4w"),
		Entry("bad parity letter", "9600-8x1-rs232-4w"),
		Entry("bad stop bits", "9600-8n3-rs232-4w"),
		Entry("unknown wire mode", "9600-8n1-carrier-pigeon"),
	)
})
