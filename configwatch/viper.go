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

package configwatch

import (
	"errors"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ViperSource is a Source backed by a viper.Viper instance pointed at one
// configuration file. It hot-reloads via viper's own WatchConfig, which in
// turn runs an fsnotify watcher against the file's directory.
type ViperSource struct {
	v *viper.Viper

	mu        sync.Mutex
	listeners []func()
}

// NewViperSource reads path once (failing if it does not exist or cannot be
// parsed) and starts watching it for subsequent changes. The format is
// inferred from path's extension (json, yaml, toml, ...) the same way
// viper.SetConfigFile does.
func NewViperSource(path string) (*ViperSource, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrorConfigFileNotFound.Error(err)
		}
		return nil, ErrorConfigFileRead.Error(err)
	}

	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, ErrorConfigFileRead.Error(err)
	}

	s := &ViperSource{v: v}

	v.OnConfigChange(func(_ fsnotify.Event) {
		s.mu.Lock()
		fns := append([]func(){}, s.listeners...)
		s.mu.Unlock()

		for _, fn := range fns {
			fn()
		}
	})
	v.WatchConfig()

	return s, nil
}

// Get implements Source.
func (s *ViperSource) Get(key string) (string, bool) {
	if !s.v.IsSet(key) {
		return "", false
	}
	return s.v.GetString(key), true
}

// OnChange implements Source.
func (s *ViperSource) OnChange(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}
