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

package annunciator_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mosaicsys/serialio/annunciator"
)

var _ = Describe("Source state machine", func() {
	var (
		mgr *annunciator.Manager
		ctx context.Context
	)

	BeforeEach(func() {
		mgr = annunciator.New(annunciator.Config{ScanInterval: 5 * time.Millisecond})
		ctx = context.Background()
		Expect(mgr.Start(ctx)).To(Succeed())
		DeferCleanup(func() { _ = mgr.Stop(ctx) })
	})

	It("rejects Alarm as an Occurrence type", func() {
		_, err := mgr.RegisterOccurrence(annunciator.Spec{Name: "bad", Type: annunciator.Alarm})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("not allowed"))
	})

	It("rejects Error as a Condition type", func() {
		_, err := mgr.RegisterCondition(annunciator.Spec{Name: "bad-cond", Type: annunciator.Error}, 0)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("not allowed"))
	})

	It("rejects a duplicate name across facets", func() {
		_, err := mgr.RegisterSource(annunciator.Spec{Name: "dup", Type: annunciator.Attention})
		Expect(err).ToNot(HaveOccurred())

		_, err = mgr.RegisterSource(annunciator.Spec{Name: "dup", Type: annunciator.Warning})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("already registered"))
	})

	It("keeps the per-source sequence strictly increasing across transitions", func() {
		gen, err := mgr.RegisterSource(annunciator.Spec{Name: "seq-check", Type: annunciator.Attention})
		Expect(err).ToNot(HaveOccurred())

		var last uint64
		for i := 0; i < 5; i++ {
			st := gen.Post(map[string]annunciator.ActionEntry{"Restart": {}}, "tick")
			Expect(st.SeqAndTime.MonotonicSeq).To(BeNumerically(">", last))
			last = st.SeqAndTime.MonotonicSeq
			st = gen.Clear("done")
			Expect(st.SeqAndTime.MonotonicSeq).To(BeNumerically(">", last))
			last = st.SeqAndTime.MonotonicSeq
		}
	})

	It("keeps selectedAction empty outside OnAndWaiting/OnAndActionActive", func() {
		gen, err := mgr.RegisterSource(annunciator.Spec{Name: "no-selection-off", Type: annunciator.Attention})
		Expect(err).ToNot(HaveOccurred())

		st := gen.Post(nil, "plain on, no actions")
		Expect(st.SignalState).To(Equal(annunciator.On))
		Expect(st.SelectedAction).To(BeEmpty())

		st = gen.Clear("off again")
		Expect(st.SignalState).To(Equal(annunciator.Off))
		Expect(st.SelectedAction).To(BeEmpty())
		Expect(st.ActiveAction).To(BeEmpty())
		Expect(st.Valid()).To(BeTrue())
	})

	It("requires OnAndWaiting before an action selection is accepted", func() {
		gen, err := mgr.RegisterSource(annunciator.Spec{Name: "selection-gate", Type: annunciator.Attention})
		Expect(err).ToNot(HaveOccurred())

		err = mgr.SetSelectedActionName(ctx, "selection-gate", "Restart")
		Expect(err).To(HaveOccurred())

		gen.Post(map[string]annunciator.ActionEntry{"Restart": {}}, "needs attention")
		Expect(mgr.SetSelectedActionName(ctx, "selection-gate", "Restart")).To(Succeed())
		Expect(gen.State().SelectedAction).To(Equal("Restart"))

		gen.NoteActionStarted("running")
		Expect(gen.State().SignalState).To(Equal(annunciator.OnAndActionActive))
		Expect(gen.State().ActiveAction).To(Equal("Restart"))
		for _, a := range gen.State().ActionList {
			Expect(a.Enabled()).To(BeFalse())
		}
	})

	It("applies at most one state change when Condition.Set repeats the same reason", func() {
		cond, err := mgr.RegisterCondition(annunciator.Spec{Name: "overtemp", Type: annunciator.Warning}, 0)
		Expect(err).ToNot(HaveOccurred())

		first := cond.Set("temperature high")
		second := cond.Set("temperature high")
		Expect(second.SeqAndTime.MonotonicSeq).To(Equal(first.SeqAndTime.MonotonicSeq))

		third := cond.Set("temperature critical")
		Expect(third.SeqAndTime.MonotonicSeq).To(BeNumerically(">", first.SeqAndTime.MonotonicSeq))
	})

	It("notifies an observer when a selection or an abort is recorded", func() {
		gen, err := mgr.RegisterSource(annunciator.Spec{Name: "observed", Type: annunciator.Attention})
		Expect(err).ToNot(HaveOccurred())

		var calls int
		cancel := gen.ObserveSelection(func() { calls++ })
		defer cancel()

		gen.Post(map[string]annunciator.ActionEntry{"Restart": {}}, "needs attention")
		Expect(mgr.SetSelectedActionName(ctx, "observed", "Restart")).To(Succeed())
		Expect(calls).To(Equal(1))

		Expect(mgr.RequestActionAbort("observed")).To(Succeed())
		Expect(calls).To(Equal(2))
	})

	It("aborts an active action implicitly when Clear is called", func() {
		gen, err := mgr.RegisterSource(annunciator.Spec{Name: "abort-on-clear", Type: annunciator.Attention})
		Expect(err).ToNot(HaveOccurred())

		gen.Post(map[string]annunciator.ActionEntry{"Restart": {}}, "problem")
		Expect(mgr.SetSelectedActionName(ctx, "abort-on-clear", "Restart")).To(Succeed())
		gen.NoteActionStarted("running")

		final := gen.Clear("operator cleared")
		Expect(final.SignalState).To(Equal(annunciator.Off))
		Expect(final.ActiveAction).To(BeEmpty())
	})
})
