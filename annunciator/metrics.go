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

package annunciator

import "github.com/prometheus/client_golang/prometheus"

// Metrics is the optional Prometheus surface for a Manager: one gauge per
// tracked set's population, and a counter for auto-acknowledge firings —
// the two numbers an operator dashboard wants without subscribing to the
// set-change publishers and recomputing lengths itself.
type Metrics struct {
	active  prometheus.Gauge
	recent  prometheus.Gauge
	history prometheus.Gauge
	autoAck prometheus.Counter
}

// NewMetrics builds a Metrics and registers its collectors against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "serialio",
			Subsystem: "annunciator",
			Name:      "active_count",
			Help:      "Number of currently signaling annunciator sources.",
		}),
		recent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "serialio",
			Subsystem: "annunciator",
			Name:      "recent_count",
			Help:      "Number of recently-cleared annunciator sources still tracked.",
		}),
		history: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "serialio",
			Subsystem: "annunciator",
			Name:      "history_count",
			Help:      "Number of state transitions retained in the history set.",
		}),
		autoAck: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "serialio",
			Subsystem: "annunciator",
			Name:      "auto_ack_total",
			Help:      "Auto-acknowledge firings by the manager's scan pass.",
		}),
	}

	reg.MustRegister(m.active, m.recent, m.history, m.autoAck)
	return m
}

func (m *Metrics) observeSets(active, recent, history int) {
	m.active.Set(float64(active))
	m.recent.Set(float64(recent))
	m.history.Set(float64(history))
}

func (m *Metrics) incAutoAck() { m.autoAck.Inc() }

// ActiveGauge returns the active-set population gauge, for tests and for
// callers that want to register it under a different collector.
func (m *Metrics) ActiveGauge() prometheus.Gauge { return m.active }

// AutoAckCounter returns the auto-acknowledge firing counter.
func (m *Metrics) AutoAckCounter() prometheus.Counter { return m.autoAck }

// SetMetrics wires m as this manager's optional Prometheus surface, or
// disables it when m is nil.
func (mgr *Manager) SetMetrics(m *Metrics) {
	mgr.mu.Lock()
	mgr.metrics = m
	mgr.mu.Unlock()
}
