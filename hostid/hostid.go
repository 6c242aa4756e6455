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

// hostid package discovers the host serial (what hostid(1) prints) and turns
// it into the numeric host id handed to the rest of the porting layer.
package hostid

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/aerth/spl/ncode"
	"github.com/aerth/spl/strtox"
)

const (
	// HWHostIDLen is the size of the serial buffer, NUL included.
	HWHostIDLen = 11
	// InvalidHostID is returned when the serial cannot be parsed.
	InvalidHostID uint32 = 0xFFFFFFFF
	// NoSerial is the serial until discovery has run.
	NoSerial = "<none>"
)

// ErrNoSerial is returned by providers that ran but produced nothing usable.
var ErrNoSerial = errors.New("hostid: no serial")

// Provider returns the host serial string.
type Provider interface {
	Serial(ctx context.Context) (string, error)
}

// ZoneGetHostID parses serial into a host id. Only the global zone exists here.
//
// The base is HWHostIDLen-1, not 16: the serial is parsed the way the kernel
// module always parsed it, so hex letters end the number.
func ZoneGetHostID(serial string) uint32 {
	v, _, err := strtox.Strtoul([]byte(serial), HWHostIDLen-1)
	if err != nil {
		return InvalidHostID
	}
	return uint32(v)
}

// DefaultEnv is the environment handed to the hostid helper.
var DefaultEnv = []string{
	"HOME=/",
	"TERM=linux",
	"PATH=/sbin:/usr/sbin:/bin:/usr/bin",
}

// CommandProvider runs hostid(1).
type CommandProvider struct {
	Path string   // default /usr/bin/hostid
	Env  []string // default DefaultEnv
}

func (c CommandProvider) Serial(ctx context.Context) (string, error) {
	path := c.Path
	if path == "" {
		path = "/usr/bin/hostid"
	}
	env := c.Env
	if env == nil {
		env = DefaultEnv
	}
	cmd := exec.CommandContext(ctx, path)
	cmd.Env = env
	cmd.Dir = "/"
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("hostid: failed user helper %q: %w (%s)", path, err, strings.TrimSpace(stderr.String()))
	}
	return firstLine(out)
}

func firstLine(out []byte) (string, error) {
	sc := bufio.NewScanner(bytes.NewReader(out))
	if !sc.Scan() {
		return "", ErrNoSerial
	}
	line := strings.TrimSpace(sc.Text())
	if line == "" {
		return "", ErrNoSerial
	}
	if len(line) >= HWHostIDLen {
		line = line[:HWHostIDLen-1]
	}
	return line, nil
}

// FileProvider reads the 4 byte binary hostid file written by sethostid(3).
type FileProvider struct {
	Path string // default /etc/hostid
}

func (f FileProvider) Serial(ctx context.Context) (string, error) {
	path := f.Path
	if path == "" {
		path = "/etc/hostid"
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("hostid: %w", err)
	}
	if len(b) < 4 {
		return "", fmt.Errorf("hostid: %s: short file (%d bytes): %w", path, len(b), ErrNoSerial)
	}
	id, err := ncode.B2N[uint32](b[:4])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%08x", id), nil
}

// Static serial, for overrides and tests.
type Static string

func (s Static) Serial(context.Context) (string, error) {
	if s == "" {
		return "", ErrNoSerial
	}
	return string(s), nil
}

// Chain tries providers in order and returns the first serial found.
type Chain []Provider

func (c Chain) Serial(ctx context.Context) (string, error) {
	var errs []error
	for _, p := range c {
		s, err := p.Serial(ctx)
		if err == nil {
			return s, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", ErrNoSerial
	}
	return "", errors.Join(errs...)
}
