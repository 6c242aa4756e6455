// Command spl exercises the Solaris porting layer helpers from userspace:
// ddi_strto* parsing, highbit, host id discovery and subsystem bring-up.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aerth/spl/ddi"
	"github.com/aerth/spl/flagpkg"
	"github.com/aerth/spl/hostid"
	"github.com/aerth/spl/journalwriter"
	"github.com/aerth/spl/kallsyms"
	"github.com/aerth/spl/ncode"
	"github.com/aerth/spl/registry"
	"github.com/aerth/spl/stackerr"
	"github.com/aerth/spl/strtox"
	"github.com/aerth/spl/superlog"
)

// Version is set at link time.
var Version = "0.4.0"

type options struct {
	db             string
	hostidCmd      string
	hostidFile     string
	hostidOverride uint32
	kallsyms       string
	syslog         bool
	remoteSyslog   string
	journal        bool
	once           bool
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("spl: ")
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	var o options
	fs := flag.NewFlagSet("spl", flag.ContinueOnError)
	fs.StringVar(&o.db, "db", "", "hostid cache (bbolt file), empty disables")
	fs.StringVar(&o.hostidCmd, "hostid-cmd", "/usr/bin/hostid", "hostid helper")
	fs.StringVar(&o.hostidFile, "hostid-file", "/etc/hostid", "binary hostid file, tried after the helper")
	flagpkg.NumberVar(fs, &o.hostidOverride, "hostid-override", 0, "use this host id (0x.. ok) instead of discovery")
	fs.StringVar(&o.kallsyms, "kallsyms", "", "resolve kallsyms_lookup_name from this file (e.g. /proc/kallsyms)")
	fs.BoolVar(&o.syslog, "syslog", false, "log to local syslog")
	fs.StringVar(&o.remoteSyslog, "remote-syslog", "", "log to remote syslog (udp host:port)")
	flagpkg.InverseBoolVar(fs, &o.journal, "no-journal", true, "do not log to the systemd journal")
	fs.BoolVar(&o.once, "once", false, "load: stop right after a successful start")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: spl [flags] parse|highbit|hostid|load [args]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	cmd, rest := fs.Arg(0), fs.Args()[1:]
	var err error
	switch cmd {
	case "parse":
		err = cmdParse(rest, stdout)
	case "highbit":
		err = cmdHighbit(rest, stdout)
	case "hostid":
		err = cmdHostID(o, stdout)
	case "load":
		err = cmdLoad(o, stdout)
	default:
		fs.Usage()
		return 2
	}
	if err != nil {
		log.Printf("%s: %+v", cmd, err)
		return 1
	}
	return 0
}

func cmdParse(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	var (
		base         uint
		signed, wide bool
		compat       bool
	)
	flagpkg.NumberVar(fs, &base, "base", 0, "radix, 0 auto-detects 0x and 0 prefixes")
	fs.BoolVar(&signed, "signed", false, "parse a signed value")
	fs.BoolVar(&wide, "wide", false, "extended width (long long)")
	fs.BoolVar(&compat, "compat", false, "report success with 0 when nothing was consumed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var flags []strtox.Flag
	if compat {
		flags = append(flags, strtox.AllowEmpty)
	}
	failed := 0
	for _, in := range fs.Args() {
		var (
			v   any
			end int
			err error
		)
		b := []byte(in)
		switch {
		case signed && wide:
			v, end, err = strtox.Strtoll(b, int(base), flags...)
		case signed:
			v, end, err = strtox.Strtol(b, int(base), flags...)
		case wide:
			v, end, err = strtox.Strtoull(b, int(base), flags...)
		default:
			v, end, err = strtox.Strtoul(b, int(base), flags...)
		}
		if err != nil {
			failed++
			fmt.Fprintf(stdout, "%q\terror\t%d\t%v\n", in, ddi.Status(err), err)
			continue
		}
		fmt.Fprintf(stdout, "%q\t%v\t%d\t%q\n", in, v, end, in[end:])
	}
	if failed != 0 {
		return fmt.Errorf("%d of %d values failed", failed, fs.NArg())
	}
	return nil
}

func cmdHighbit(args []string, stdout io.Writer) error {
	for _, in := range args {
		v, err := ncode.ParseNumber[uint](in)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s\t%d\t%d\n", in, ddi.Highbit(v), ddi.Lowbit(v))
	}
	return nil
}

func provider(o options) hostid.Provider {
	if o.hostidOverride != 0 {
		return hostid.Static(fmt.Sprintf("%d", o.hostidOverride))
	}
	return hostid.Chain{
		hostid.CommandProvider{Path: o.hostidCmd},
		hostid.FileProvider{Path: o.hostidFile},
	}
}

func cmdHostID(o options, stdout io.Writer) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	var p hostid.Provider = provider(o)
	if o.db != "" {
		st, err := hostid.OpenStore(o.db)
		if err != nil {
			return err
		}
		defer st.Close()
		p = hostid.Chain{st, p}
	}
	serial, err := p.Serial(ctx)
	if err != nil {
		return stackerr.Wrap(err)
	}
	fmt.Fprintf(stdout, "serial\t%s\nhostid\t%#08x\n", serial, hostid.ZoneGetHostID(serial))
	return nil
}

func cmdLoad(o options, stdout io.Writer) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger, _, _ := superlog.NewLogger(superlog.Config{})
	r := registry.New(Version)
	r.Log = logger
	h := &registry.StoreHandle{Path: o.db}
	r.Register(
		registry.LogSubsystem(logger, superlog.Config{
			Syslog:       o.syslog,
			RemoteSyslog: o.remoteSyslog,
			Journal:      o.journal && journalwriter.Enabled() && !o.syslog && o.remoteSyslog == "",
		}),
		registry.StoreSubsystem(h),
		registry.HostIDSubsystem(provider(o), h),
	)
	if o.kallsyms != "" {
		r.Register(registry.KallsymsSubsystem(kallsyms.ProcResolver{Path: o.kallsyms}))
	}
	if err := r.Start(ctx); err != nil {
		return err
	}
	r.Setup()
	defer r.Stop()
	defer r.Cleanup()

	stdout.Write(ncode.JsonIndent(r.State()))
	fmt.Fprintln(stdout)
	if o.once {
		return nil
	}
	<-ctx.Done()
	return nil
}
