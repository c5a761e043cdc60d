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

package mux_test

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mosaicsys/serialio/mux"
)

var _ = Describe("Register and Deregister", func() {
	It("rejects a registration for an invalid socket", func() {
		m := mux.New()
		reg, err := m.Register(-1, true, false, false, nil)
		Expect(err).To(MatchError(mux.ErrClosedSocket))
		Expect(reg).To(Equal(mux.Registration(0)))
	})

	It("accepts a registration for a live descriptor", func() {
		r, w, err := os.Pipe()
		Expect(err).NotTo(HaveOccurred())
		defer r.Close()
		defer w.Close()

		m := mux.New()
		reg, err := m.Register(int(r.Fd()), true, false, false, func(bool, bool, bool) {})
		Expect(err).NotTo(HaveOccurred())
		Expect(reg).NotTo(Equal(mux.Registration(0)))
	})

	It("is idempotent when deregistering an unknown registration", func() {
		m := mux.New()
		Expect(func() { m.Deregister(mux.Registration(9999)) }).NotTo(Panic())
		Expect(func() { m.Deregister(mux.Registration(9999)) }).NotTo(Panic())
	})
})
