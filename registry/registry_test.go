package registry

import (
	"bytes"
	"context"
	"errors"
	"log"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sys/unix"

	"github.com/aerth/spl/hostid"
	"github.com/aerth/spl/kallsyms"
	"github.com/aerth/spl/superlog"
)

// trace records Init/Fini calls.
type trace struct {
	calls []string
}

func (tr *trace) sub(name string, fail error) Subsystem {
	return Subsystem{
		Name: name,
		Init: func(ctx context.Context, st *State) error {
			tr.calls = append(tr.calls, "init "+name)
			return fail
		},
		Fini: func(st *State) {
			tr.calls = append(tr.calls, "fini "+name)
		},
	}
}

func newTestRegistry(buf *bytes.Buffer) *Registry {
	r := New("test")
	r.Log = log.New(buf, "SPL: ", 0)
	return r
}

func TestStartStopOrder(t *testing.T) {
	var buf bytes.Buffer
	tr := &trace{}
	r := newTestRegistry(&buf)
	r.Register(tr.sub("debug", nil), tr.sub("kmem", nil), tr.sub("mutex", nil))
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if diff := cmp.Diff([]string{"debug", "kmem", "mutex"}, r.Started()); diff != "" {
		t.Fatalf("Started (-want +got):\n%s", diff)
	}
	if err := r.Start(context.Background()); !errors.Is(err, ErrStarted) {
		t.Fatalf("second Start: %v", err)
	}
	if err := r.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := r.Stop(); err != ErrNotStarted {
		t.Fatalf("second Stop: %v", err)
	}
	want := []string{
		"init debug", "init kmem", "init mutex",
		"fini mutex", "fini kmem", "fini debug",
	}
	if diff := cmp.Diff(want, tr.calls); diff != "" {
		t.Fatalf("calls (-want +got):\n%s", diff)
	}
	if !strings.Contains(buf.String(), "Loaded Solaris Porting Layer SPL vtest") {
		t.Fatalf("log: %s", buf.String())
	}
}

func TestStartUnwindsInReverse(t *testing.T) {
	var buf bytes.Buffer
	tr := &trace{}
	r := newTestRegistry(&buf)
	r.Register(
		tr.sub("debug", nil),
		tr.sub("kmem", nil),
		Subsystem{Name: "nofini", Init: func(context.Context, *State) error { return nil }},
		tr.sub("taskq", unix.ENOMEM),
		tr.sub("vnode", nil),
	)
	err := r.Start(context.Background())
	if !errors.Is(err, unix.ENOMEM) {
		t.Fatalf("Start: %v", err)
	}
	var se *SubsystemError
	if !errors.As(err, &se) || se.Name != "taskq" {
		t.Fatalf("want SubsystemError for taskq, got %v", err)
	}
	want := []string{
		"init debug", "init kmem", "init taskq",
		"fini kmem", "fini debug",
	}
	if diff := cmp.Diff(want, tr.calls); diff != "" {
		t.Fatalf("calls (-want +got):\n%s", diff)
	}
	if len(r.Started()) != 0 {
		t.Fatalf("nothing should be up: %v", r.Started())
	}
	if !strings.Contains(buf.String(), "rc = -12") {
		t.Fatalf("log should carry the errno: %s", buf.String())
	}
	if err := r.Stop(); err != ErrNotStarted {
		t.Fatalf("Stop after failed Start: %v", err)
	}
}

func TestStopSurvivesPanic(t *testing.T) {
	var buf bytes.Buffer
	tr := &trace{}
	r := newTestRegistry(&buf)
	r.Register(tr.sub("a", nil), Subsystem{
		Name: "boom",
		Init: func(context.Context, *State) error { return nil },
		Fini: func(*State) { panic("boom") },
	}, tr.sub("c", nil))
	if err := r.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	r.Stop()
	if diff := cmp.Diff([]string{"init a", "init c", "fini c", "fini a"}, tr.calls); diff != "" {
		t.Fatalf("calls (-want +got):\n%s", diff)
	}
	if !strings.Contains(buf.String(), "boom fini panic") {
		t.Fatalf("panic not logged: %s", buf.String())
	}
}

func TestStartCancelled(t *testing.T) {
	var buf bytes.Buffer
	tr := &trace{}
	r := newTestRegistry(&buf)
	r.Register(tr.sub("a", nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Start(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
	if len(tr.calls) != 0 {
		t.Fatalf("nothing should run: %v", tr.calls)
	}
}

func TestRegistriesAreIndependent(t *testing.T) {
	var buf bytes.Buffer
	a, b := newTestRegistry(&buf), newTestRegistry(&buf)
	a.Register(HostIDSubsystem(hostid.Static("12345678"), nil))
	b.Register(HostIDSubsystem(hostid.Static("87654321"), nil))
	if err := a.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := b.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if a.State().HostID != 12345678 || b.State().HostID != 87654321 {
		t.Fatalf("a=%+v b=%+v", a.State(), b.State())
	}
	a.Stop()
	if a.State().HWSerial != hostid.NoSerial || b.State().HWSerial != "87654321" {
		t.Fatalf("a=%+v b=%+v", a.State(), b.State())
	}
	b.Stop()
}

func TestDefaults(t *testing.T) {
	r := New("1.2.3")
	r.Setup()
	want := State{
		Version:            "SPL v1.2.3",
		HWSerial:           hostid.NoSerial,
		KallsymsLookupName: kallsyms.Poison,
		Pwd:                "/",
	}
	if diff := cmp.Diff(want, r.State()); diff != "" {
		t.Fatalf("state (-want +got):\n%s", diff)
	}
	r.Cleanup()
}

type fakeResolver map[string]uint64

func (f fakeResolver) Lookup(ctx context.Context, name string) (uint64, error) {
	if v, ok := f[name]; ok {
		return v, nil
	}
	return 0, kallsyms.ErrNotFound
}

func TestStockSubsystems(t *testing.T) {
	var buf bytes.Buffer
	r := newTestRegistry(&buf)
	h := &StoreHandle{Path: filepath.Join(t.TempDir(), "spl.db")}
	r.Register(
		LogSubsystem(r.Log, superlog.Config{}),
		StoreSubsystem(h),
		HostIDSubsystem(hostid.Static("00000042"), h),
		KallsymsSubsystem(fakeResolver{kallsyms.LookupNameSymbol: 0xffffffff810a2b30}),
	)
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	st := r.State()
	if st.HWSerial != "00000042" || st.HostID != 42 || st.KallsymsLookupName != 0xffffffff810a2b30 {
		t.Fatalf("state: %+v", st)
	}
	rec, err := h.Store.Load()
	if err != nil || rec.Serial != "00000042" || rec.Source != "hostid.Static" {
		t.Fatalf("store: %+v %v", rec, err)
	}
	r.Stop()
	if h.Store != nil {
		t.Fatal("store should be closed")
	}
	if r.Log.Writer() != &buf {
		t.Fatal("log output not restored")
	}

	// second load comes from the store even if the provider fails
	r2 := newTestRegistry(&buf)
	r2.Register(StoreSubsystem(h), HostIDSubsystem(hostid.Static(""), h))
	if err := r2.Start(context.Background()); err != nil {
		t.Fatalf("Start from store: %v", err)
	}
	if r2.State().HostID != 42 {
		t.Fatalf("state: %+v", r2.State())
	}
	r2.Stop()
}

func TestHostIDFailureIsEADDRNOTAVAIL(t *testing.T) {
	var buf bytes.Buffer
	tr := &trace{}
	r := newTestRegistry(&buf)
	r.Register(
		tr.sub("kstat", nil),
		HostIDSubsystem(hostid.Static(""), nil),
		KallsymsSubsystem(fakeResolver{}),
	)
	err := r.Start(context.Background())
	if !errors.Is(err, unix.EADDRNOTAVAIL) || !errors.Is(err, hostid.ErrNoSerial) {
		t.Fatalf("got %v", err)
	}
	if diff := cmp.Diff([]string{"init kstat", "fini kstat"}, tr.calls); diff != "" {
		t.Fatalf("calls (-want +got):\n%s", diff)
	}

	r = newTestRegistry(&buf)
	r.Register(KallsymsSubsystem(fakeResolver{}))
	if err := r.Start(context.Background()); !errors.Is(err, unix.EADDRNOTAVAIL) || !errors.Is(err, kallsyms.ErrNotFound) {
		t.Fatalf("kallsyms: %v", err)
	}
}
