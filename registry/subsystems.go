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

package registry

import (
	"context"
	"fmt"
	"io"
	"log"

	"golang.org/x/sys/unix"

	"github.com/aerth/spl/hostid"
	"github.com/aerth/spl/kallsyms"
	"github.com/aerth/spl/stackerr"
	"github.com/aerth/spl/superlog"
)

// LogSubsystem is the debug facility: it points l at the sink described by
// cfg and puts the old output back on Fini.
func LogSubsystem(l *log.Logger, cfg superlog.Config) Subsystem {
	var (
		prev io.Writer
		sink io.Closer
	)
	return Subsystem{
		Name: "debug",
		Init: func(ctx context.Context, st *State) error {
			w, err := superlog.New(cfg)
			if err != nil {
				w.Close()
				return stackerr.Errorf("debug: %w", err)
			}
			prev, sink = l.Writer(), w
			l.SetOutput(w)
			return nil
		},
		Fini: func(st *State) {
			l.SetOutput(prev)
			sink.Close()
		},
	}
}

// StoreHandle carries the open hostid store between the store and hostid
// subsystems. Path empty means no store.
type StoreHandle struct {
	Path  string
	Store *hostid.Store
}

// StoreSubsystem opens the hostid cache at h.Path.
func StoreSubsystem(h *StoreHandle) Subsystem {
	return Subsystem{
		Name: "store",
		Init: func(ctx context.Context, st *State) error {
			if h.Path == "" {
				return nil
			}
			s, err := hostid.OpenStore(h.Path)
			if err != nil {
				return stackerr.Wrap(err)
			}
			h.Store = s
			return nil
		},
		Fini: func(st *State) {
			if h.Store != nil {
				h.Store.Close()
				h.Store = nil
			}
		},
	}
}

// HostIDSubsystem discovers the host serial, from the store when one is open
// and has a serial, else from p. A serial found through p is saved back.
//
// Failure is reported as EADDRNOTAVAIL.
func HostIDSubsystem(p hostid.Provider, h *StoreHandle) Subsystem {
	return Subsystem{
		Name: "hostid",
		Init: func(ctx context.Context, st *State) error {
			serial, err := "", hostid.ErrNoSerial
			if h != nil && h.Store != nil {
				serial, err = h.Store.Serial(ctx)
			}
			if err != nil {
				serial, err = p.Serial(ctx)
				if err != nil {
					return stackerr.Errorf("hostid: %w: %w", unix.EADDRNOTAVAIL, err)
				}
				if h != nil && h.Store != nil {
					if err := h.Store.Save(serial, fmt.Sprintf("%T", p)); err != nil {
						return stackerr.Errorf("hostid: save: %w", err)
					}
				}
			}
			st.HWSerial = serial
			st.HostID = int64(hostid.ZoneGetHostID(serial))
			return nil
		},
		Fini: func(st *State) {
			st.HWSerial = hostid.NoSerial
			st.HostID = 0
		},
	}
}

// KallsymsSubsystem resolves kallsyms_lookup_name through res.
//
// Failure is reported as EADDRNOTAVAIL.
func KallsymsSubsystem(res kallsyms.Resolver) Subsystem {
	return Subsystem{
		Name: "kallsyms",
		Init: func(ctx context.Context, st *State) error {
			addr, err := res.Lookup(ctx, kallsyms.LookupNameSymbol)
			if err != nil {
				return stackerr.Errorf("kallsyms: %w: %w", unix.EADDRNOTAVAIL, err)
			}
			st.KallsymsLookupName = addr
			return nil
		},
		Fini: func(st *State) {
			st.KallsymsLookupName = kallsyms.Poison
		},
	}
}
