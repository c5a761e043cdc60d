/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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

package notify_test

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mosaicsys/serialio/notify"
)

var _ = Describe("Notifier", func() {
	var n *notify.Notifier

	BeforeEach(func() {
		n = notify.NewNotifier()
	})

	It("wakes a single waiter on Notify", func() {
		woke := make(chan bool, 1)
		go func() {
			woke <- n.Wait(context.Background(), 0)
		}()

		Consistently(woke, "50ms").ShouldNot(Receive())

		n.Notify()

		Eventually(woke).Should(Receive(BeTrue()))
	})

	It("wakes every waiter on a single Notify", func() {
		const count = 8
		var wg sync.WaitGroup
		results := make([]bool, count)

		for i := 0; i < count; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				results[idx] = n.Wait(context.Background(), time.Second)
			}(i)
		}

		time.Sleep(20 * time.Millisecond)
		n.Notify()
		wg.Wait()

		for _, r := range results {
			Expect(r).To(BeTrue())
		}
	})

	It("returns false when the context is cancelled before Notify", func() {
		ctx, cancel := context.WithCancel(context.Background())
		woke := make(chan bool, 1)

		go func() {
			woke <- n.Wait(ctx, 0)
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()

		Eventually(woke).Should(Receive(BeFalse()))
	})

	It("returns false when the timeout elapses before Notify", func() {
		start := time.Now()
		ok := n.Wait(context.Background(), 30*time.Millisecond)

		Expect(ok).To(BeFalse())
		Expect(time.Since(start)).To(BeNumerically(">=", 30*time.Millisecond))
	})

	It("lets a Wait that starts after Notify still block for the next one", func() {
		n.Notify()

		woke := make(chan bool, 1)
		go func() {
			woke <- n.Wait(context.Background(), 0)
		}()

		Consistently(woke, "50ms").ShouldNot(Receive())

		n.Notify()

		Eventually(woke).Should(Receive(BeTrue()))
	})
})
