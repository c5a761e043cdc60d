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

import (
	"context"
	"sort"
	"sync"
)

// Registry is a process-wide, named collection of Port agents. A factory
// caller registers every port it constructs so the rest of a deployment can
// reach it by name without threading a direct reference through every layer,
// and so operational code can start or stop every known port in one call.
type Registry struct {
	mu    sync.RWMutex
	ports map[string]Port
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{ports: make(map[string]Port)}
}

// Register adds p under name. It fails if name is already taken.
func (r *Registry) Register(name string, p Port) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ports[name]; ok {
		return ErrorDuplicatePortName.Error()
	}
	r.ports[name] = p
	return nil
}

// Deregister removes name, if present. Removing an unknown name is a no-op.
func (r *Registry) Deregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ports, name)
}

// Get returns the port registered under name, if any.
func (r *Registry) Get(name string) (Port, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.ports[name]
	return p, ok
}

// List returns every registered name in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.ports))
	for name := range r.ports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GoOnlineAll calls GoOnline on every registered port, collecting the first
// per-port error (if any) keyed by name. A nil map means every port
// succeeded.
func (r *Registry) GoOnlineAll(ctx context.Context, initialize bool) map[string]error {
	return r.forEach(func(p Port) error { return p.GoOnline(ctx, initialize) })
}

// GoOfflineAll calls GoOffline on every registered port, collecting the first
// per-port error (if any) keyed by name.
func (r *Registry) GoOfflineAll(ctx context.Context) map[string]error {
	return r.forEach(func(p Port) error { return p.GoOffline(ctx) })
}

func (r *Registry) forEach(fn func(Port) error) map[string]error {
	r.mu.RLock()
	snapshot := make(map[string]Port, len(r.ports))
	for name, p := range r.ports {
		snapshot[name] = p
	}
	r.mu.RUnlock()

	var errs map[string]error
	for name, p := range snapshot {
		if err := fn(p); err != nil {
			if errs == nil {
				errs = make(map[string]error)
			}
			errs[name] = err
		}
	}
	return errs
}
