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

package hostid

import (
	"context"
	"time"

	"go.etcd.io/bbolt"

	"github.com/aerth/spl/anydb"
)

const (
	bucket = "hostid"
	key    = "serial"
)

// Record is what the store keeps about the last discovered serial.
type Record struct {
	Serial string    `json:"serial"`
	HostID uint32    `json:"hostid"`
	Source string    `json:"source"`
	Seen   time.Time `json:"seen"`
}

// Store caches the host serial in a bbolt file so it survives reloads
// without running the helper again.
type Store struct {
	db *bbolt.DB
}

// OpenStore opens (or creates) the store at path.
func OpenStore(path string) (*Store, error) {
	db, err := anydb.Open(path, bucket)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Load the cached record. A store with nothing saved returns ErrNoSerial.
func (s *Store) Load() (Record, error) {
	r, err := anydb.FetchDB[Record](s.db, bucket, key)
	if err != nil {
		return Record{}, ErrNoSerial
	}
	if r.Serial == "" {
		return Record{}, ErrNoSerial
	}
	return r, nil
}

// Save serial, recording where it came from.
func (s *Store) Save(serial, source string) error {
	return anydb.StoreDB(s.db, bucket, key, Record{
		Serial: serial,
		HostID: ZoneGetHostID(serial),
		Source: source,
		Seen:   time.Now().UTC(),
	})
}

// Forget the cached serial.
func (s *Store) Forget() error {
	return anydb.DeleteDB(s.db, bucket, key)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Serial makes a Store usable as the first link of a Chain.
func (s *Store) Serial(context.Context) (string, error) {
	r, err := s.Load()
	return r.Serial, err
}
