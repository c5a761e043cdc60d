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

import "github.com/prometheus/client_golang/prometheus"

// Metrics is the optional Prometheus surface for a port: one gauge pair per
// registered name (useState/connState ordinals, cheap to chart against the
// String() labels a dashboard already knows), plus counters for the two
// events a dashboard cares about that a state snapshot alone can't answer —
// how many times a carrier has had to reconnect, and how many packets its
// buffer has framed.
type Metrics struct {
	useState  *prometheus.GaugeVec
	connState *prometheus.GaugeVec
	reconnect *prometheus.CounterVec
	framed    *prometheus.CounterVec
}

// NewMetrics builds a Metrics and registers its collectors against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		useState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "serialio",
			Subsystem: "port",
			Name:      "use_state",
			Help:      "Current UseState ordinal of a registered port.",
		}, []string{"port"}),
		connState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "serialio",
			Subsystem: "port",
			Name:      "conn_state",
			Help:      "Current ConnState ordinal of a registered port.",
		}, []string{"port"}),
		reconnect: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "serialio",
			Subsystem: "port",
			Name:      "reconnect_attempts_total",
			Help:      "Reconnect attempts made by a port's worker.",
		}, []string{"port"}),
		framed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "serialio",
			Subsystem: "port",
			Name:      "packets_framed_total",
			Help:      "Packets handed off by a port's framing buffer.",
		}, []string{"port"}),
	}

	reg.MustRegister(m.useState, m.connState, m.reconnect, m.framed)
	return m
}

// Observe records s against name's gauges.
func (m *Metrics) Observe(name string, s State) {
	m.useState.WithLabelValues(name).Set(float64(s.UseState))
	m.connState.WithLabelValues(name).Set(float64(s.ConnState))
}

// IncReconnect counts one reconnect attempt by name.
func (m *Metrics) IncReconnect(name string) {
	m.reconnect.WithLabelValues(name).Inc()
}

// IncFramed counts n packets framed by name.
func (m *Metrics) IncFramed(name string, n int) {
	m.framed.WithLabelValues(name).Add(float64(n))
}

// UseStateGauge returns the per-port use-state gauge, for tests and for
// callers that want to register it under a different collector.
func (m *Metrics) UseStateGauge(name string) prometheus.Gauge {
	return m.useState.WithLabelValues(name)
}

// ConnStateGauge returns the per-port conn-state gauge.
func (m *Metrics) ConnStateGauge(name string) prometheus.Gauge {
	return m.connState.WithLabelValues(name)
}
