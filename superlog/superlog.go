// superlog package picks the log sink for the porting layer: syslog (local or
// remote), the systemd journal, or stderr.
package superlog

import (
	"fmt"
	"io"
	"log"
	"log/syslog"
	"os"

	"github.com/aerth/spl/journalwriter"
)

// Config of the log sink. The zero value logs to stderr.
type Config struct {
	Priority     journalwriter.Priority // journal priority, zero is INFO
	Syslog       bool                   // local syslog
	RemoteSyslog string                 // udp host:port, implies Syslog
	Journal      bool                   // systemd journal
	Tag          string                 // syslog tag / journal identifier, default "spl"
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// New returns a non-nil io.WriteCloser. If err is not nil, os.Stderr is returned with the error.
func New(cfg Config) (io.WriteCloser, error) {
	if cfg.Tag == "" {
		cfg.Tag = "spl"
	}
	switch {
	case cfg.Syslog || cfg.RemoteSyslog != "":
		netw := ""
		if cfg.RemoteSyslog != "" {
			netw = "udp"
		}
		syslogw, err := syslog.Dial(netw, cfg.RemoteSyslog, syslog.LOG_DEBUG|syslog.LOG_DAEMON, cfg.Tag)
		if syslogw == nil {
			return nopCloser{os.Stderr}, err
		}
		return syslogw, err
	case cfg.Journal:
		if !journalwriter.Enabled() {
			return nopCloser{os.Stderr}, fmt.Errorf("journal not enabled")
		}
		return nopCloser{journalwriter.New(cfg.Priority, cfg.Tag)}, nil
	default:
		return nopCloser{os.Stderr}, nil
	}
}

// NewLogger is New wrapped in a *log.Logger with the "SPL: " prefix.
func NewLogger(cfg Config) (*log.Logger, io.Closer, error) {
	w, err := New(cfg)
	return log.New(w, "SPL: ", 0), w, err
}
