/*
Copyright 2023 Alexander Bartolomey (github@alexanderbartolomey.de)

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package netflow

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
)

// SetLogger installs the logr.Logger used by readers, writers, and the
// decoder for the remainder of the process. Library code defaults to a
// discarding sink until this is called, the same deferred-logging scheme
// controller-runtime popularized: package-level Log can be captured by
// callers before SetLogger runs, and is retroactively fulfilled once it does.
func SetLogger(l logr.Logger) {
	rootFulfilled.Store(true)
	rootSink.fulfill(l.GetSink())
}

// FromContext returns the logger embedded in ctx, or the package root logger
// with keysAndValues attached if ctx carries none.
func FromContext(ctx context.Context, keysAndValues ...interface{}) logr.Logger {
	if ctx != nil {
		if l, err := logr.FromContext(ctx); err == nil {
			return l.WithValues(keysAndValues...)
		}
	}
	return Log.WithValues(keysAndValues...)
}

// IntoContext returns a copy of ctx carrying l, retrievable with FromContext.
func IntoContext(ctx context.Context, l logr.Logger) context.Context {
	return logr.NewContext(ctx, l)
}

var (
	rootFulfilled atomic.Bool
	rootCreatedAt = time.Now()

	rootSink = newDelegatingSink()
	// Log is the package-level logger used wherever no context.Context is
	// threaded through, e.g. from a Writer's internal state checks.
	Log = logr.New(rootSink)
)

// warnIfNeverConfigured surfaces a one-time stderr notice if 30 seconds
// elapse without SetLogger ever being called, so silent log loss during
// development doesn't go unnoticed. It's invoked from every sink operation,
// so the check itself must be cheap once fulfilled.
func warnIfNeverConfigured() {
	if rootFulfilled.Load() {
		return
	}
	if time.Since(rootCreatedAt) < 30*time.Second {
		return
	}
	if rootFulfilled.CompareAndSwap(false, true) {
		fmt.Fprintln(os.Stderr, "netflow.SetLogger(...) was never called; log output is being discarded")
		rootSink.fulfill(discardSink{})
	}
}

type discardSink struct{}

var _ logr.LogSink = discardSink{}

func (discardSink) Init(logr.RuntimeInfo)              {}
func (discardSink) Enabled(int) bool                    { return false }
func (discardSink) Info(int, string, ...interface{})    {}
func (discardSink) Error(error, string, ...interface{}) {}
func (s discardSink) WithName(string) logr.LogSink      { return s }
func (s discardSink) WithValues(...interface{}) logr.LogSink {
	return s
}

// pendingCall records a WithName/WithValues call made against a
// delegatingSink before it was fulfilled, so it can be replayed once a real
// sink arrives.
type pendingCall struct {
	name   *string
	values []interface{}
}

// delegatingSink lets Log and values/names derived from it be handed out
// before SetLogger is ever called, buffering the derivation chain and
// replaying it onto the real sink once fulfilled.
type delegatingSink struct {
	mu        sync.RWMutex
	sink      logr.LogSink
	fulfilled bool
	pending   *pendingCall
	children  []*delegatingSink
}

func newDelegatingSink() *delegatingSink {
	return &delegatingSink{sink: discardSink{}}
}

func (d *delegatingSink) fulfill(actual logr.LogSink) {
	d.mu.Lock()
	sink := actual
	if d.pending != nil {
		if d.pending.name != nil {
			sink = sink.WithName(*d.pending.name)
		}
		if d.pending.values != nil {
			sink = sink.WithValues(d.pending.values...)
		}
	}
	d.sink = sink
	d.fulfilled = true
	d.pending = nil
	children := d.children
	d.children = nil
	d.mu.Unlock()

	for _, c := range children {
		c.fulfill(sink)
	}
}

func (d *delegatingSink) derive(call pendingCall) logr.LogSink {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fulfilled {
		if call.name != nil {
			return d.sink.WithName(*call.name)
		}
		return d.sink.WithValues(call.values...)
	}
	child := &delegatingSink{sink: discardSink{}, pending: &call}
	d.children = append(d.children, child)
	return child
}

func (d *delegatingSink) Init(info logr.RuntimeInfo) {
	warnIfNeverConfigured()
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sink.Init(info)
}

func (d *delegatingSink) Enabled(level int) bool {
	warnIfNeverConfigured()
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.sink.Enabled(level)
}

func (d *delegatingSink) Info(level int, msg string, keysAndValues ...interface{}) {
	warnIfNeverConfigured()
	d.mu.RLock()
	sink := d.sink
	d.mu.RUnlock()
	sink.Info(level, msg, keysAndValues...)
}

func (d *delegatingSink) Error(err error, msg string, keysAndValues ...interface{}) {
	warnIfNeverConfigured()
	d.mu.RLock()
	sink := d.sink
	d.mu.RUnlock()
	sink.Error(err, msg, keysAndValues...)
}

func (d *delegatingSink) WithName(name string) logr.LogSink {
	return d.derive(pendingCall{name: &name})
}

func (d *delegatingSink) WithValues(values ...interface{}) logr.LogSink {
	return d.derive(pendingCall{values: values})
}

var _ logr.LogSink = &delegatingSink{}
