// Copyright (c) 2024 aerth
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

// registry package brings the porting layer's subsystems up in order and
// takes them down in reverse. It also owns the state the subsystems share
// (version string, host serial and id, resolved symbol addresses), so two
// registries never see each other's values.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/aerth/spl/hostid"
	"github.com/aerth/spl/kallsyms"
	"github.com/aerth/spl/stackerr"
)

// State shared by subsystems. Init and Fini functions may modify it, everyone
// else should treat it as read only (use Registry.State for a copy).
type State struct {
	Version            string `json:"version"`
	HostID             int64  `json:"hostid"`
	HWSerial           string `json:"hw_serial"`
	KallsymsLookupName uint64 `json:"kallsyms_lookup_name"`
	Pwd                string `json:"pwd,omitempty"`
}

// Subsystem is one unit of bring-up. Fini may be nil.
type Subsystem struct {
	Name string
	Init func(ctx context.Context, st *State) error
	Fini func(st *State)
}

// SubsystemError is returned (wrapped) by Start when a subsystem fails.
type SubsystemError struct {
	Name string
	Err  error
}

func (e *SubsystemError) Error() string {
	return fmt.Sprintf("%s init: %v", e.Name, e.Err)
}

func (e *SubsystemError) Unwrap() error { return e.Err }

var (
	ErrStarted    = errors.New("registry: already started")
	ErrNotStarted = errors.New("registry: not started")
)

// Registry of subsystems. Register everything, then Start, then Stop.
type Registry struct {
	Log *log.Logger

	mu      sync.Mutex
	subs    []Subsystem
	started int // subs[:started] are up
	running bool
	state   State
}

// New registry for the given release, e.g. New("0.4.0").
func New(version string) *Registry {
	return &Registry{
		Log: log.Default(),
		state: State{
			Version:            "SPL v" + version,
			HWSerial:           hostid.NoSerial,
			KallsymsLookupName: kallsyms.Poison,
		},
	}
}

// Register appends subsystems. Order of registration is order of startup.
func (r *Registry) Register(subs ...Subsystem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		panic("registry: Register after Start")
	}
	for _, s := range subs {
		if s.Init == nil {
			panic("registry: subsystem " + s.Name + " has no Init")
		}
		r.subs = append(r.subs, s)
	}
}

// Start initializes every subsystem in order. On the first failure the ones
// already up are finalized in reverse order and the failure is returned.
func (r *Registry) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return stackerr.Wrap(ErrStarted)
	}
	for i, s := range r.subs {
		err := ctx.Err()
		if err == nil {
			err = s.Init(ctx, &r.state)
		}
		if err != nil {
			r.started = i
			r.unwind()
			r.logger().Printf("Failed to Load Solaris Porting Layer %s, rc = %d", r.state.Version, -int(stackerr.Errno(err)))
			return stackerr.Wrap(&SubsystemError{Name: s.Name, Err: err})
		}
	}
	r.started = len(r.subs)
	r.running = true
	r.logger().Printf("Loaded Solaris Porting Layer %s", r.state.Version)
	return nil
}

// Stop finalizes every started subsystem in reverse order. A panicking Fini
// is logged and the rest still run.
func (r *Registry) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return ErrNotStarted
	}
	r.logger().Printf("Unloaded Solaris Porting Layer %s", r.state.Version)
	r.unwind()
	r.running = false
	return nil
}

// unwind runs Fini for subs[:started], last first. Caller holds mu.
func (r *Registry) unwind() {
	for r.started > 0 {
		r.started--
		s := r.subs[r.started]
		if s.Fini == nil {
			continue
		}
		func() {
			defer func() {
				if p := recover(); p != nil {
					r.logger().Printf("%s fini panic: %v", s.Name, p)
				}
			}()
			s.Fini(&r.state)
		}()
	}
}

// Started names the subsystems that are currently up, in startup order.
func (r *Registry) Started() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, r.started)
	for _, s := range r.subs[:r.started] {
		names = append(names, s.Name)
	}
	return names
}

// State returns a copy of the shared state.
func (r *Registry) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Setup is called when a dependent module loads. Modules expect to start
// in the root directory.
func (r *Registry) Setup() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Pwd = "/"
}

// Cleanup is called when a dependent module unloads.
func (r *Registry) Cleanup() {}

func (r *Registry) logger() *log.Logger {
	if r.Log == nil {
		return log.Default()
	}
	return r.Log
}
