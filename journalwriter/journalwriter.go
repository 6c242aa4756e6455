package journalwriter

import (
	"io"
	"os"
	"strings"

	"github.com/coreos/go-systemd/journal"
)

type Priority = journal.Priority

const (
	PriErr     = journal.PriErr
	PriWarning = journal.PriWarning
	PriNotice  = journal.PriNotice
	PriInfo    = journal.PriInfo
	PriDebug   = journal.PriDebug
)

var _ io.Writer = (*JournalWriter)(nil) // compile-time interface check

// JournalWriter writes to the systemd journal. If journal is not available, it falls back to FallbackWriter.
// It's an io.Writer, and log.SetOutput() can be used to set it as the default logger.
//
// Every entry carries SYSLOG_IDENTIFIER=Identifier so `journalctl -t spl` finds it.
type JournalWriter struct {
	Priority   // default 0 is 'Emergency' level
	Identifier string
}

// FallbackWriter is used when writing to journal fails
//
// If nil, write fails will be silent.
var FallbackWriter io.Writer = os.Stderr

// DontLogErrors disables printing errors to FallbackWriter
var DontLogErrors = false

// Write writes one journal entry per call, falling back to stderr if journal is not available.
func (j JournalWriter) Write(b []byte) (int, error) {
	var vars map[string]string
	if j.Identifier != "" {
		vars = map[string]string{"SYSLOG_IDENTIFIER": j.Identifier}
	}
	err := journal.Send(strings.TrimSuffix(string(b), "\n"), j.Priority, vars)
	if err != nil {
		if FallbackWriter != nil {
			if !DontLogErrors {
				FallbackWriter.Write([]byte("journalwriter error: " + err.Error() + "\n"))
			}
			FallbackWriter.Write(b)
		}
		return 0, err
	}
	return len(b), nil
}

// New journal writer, or os.Stderr if the journal socket is missing.
//
// If p is zero, uses INFO level
func New(p Priority, identifier string) io.Writer {
	if p == 0 {
		p = PriInfo
	}
	if !journal.Enabled() {
		return os.Stderr
	}
	return JournalWriter{Priority: p, Identifier: identifier}
}

// Enabled checks whether the local systemd journal is available for logging.
func Enabled() bool {
	return journal.Enabled()
}
