// Copyright © 2023 aerth
// Permission is hereby granted, free of charge, to any person obtaining a copy of this software and associated documentation files (the “Software”), to deal in the Software without restriction, including without limitation the rights to use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of the Software, and to permit persons to whom the Software is furnished to do so, subject to the following conditions:
// The above copyright notice and this permission notice shall be included in all copies or substantial portions of the Software.
// THE SOFTWARE IS PROVIDED “AS IS”, WITHOUT WARRANTY OF ANY KIND, EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

// anydb package stores JSON values in bbolt buckets.
package anydb

import (
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/aerth/spl/ncode"
)

type byteslike interface {
	~string | ~[]byte
}

// Open a bbolt file and create buckets. Open does not wait on a file lock held by
// another process for more than a second.
func Open(path string, buckets ...string) (*bbolt.DB, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("anydb: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(b)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("anydb: buckets: %w", err)
	}
	return db, nil
}

// FetchDB anything magic
func FetchDB[T any, K byteslike](db *bbolt.DB, bucket string, key K) (T, error) {
	var v T
	err := db.View(func(tx *bbolt.Tx) error {
		var err error
		v, err = FetchDB_Tx[T](tx, bucket, key)
		return err
	})
	return v, err
}

// FetchDB_Tx anything (but in a Tx). Missing keys return ncode.ErrZeroLength.
func FetchDB_Tx[T any, K byteslike](tx *bbolt.Tx, bucket string, key K) (T, error) {
	bu := tx.Bucket([]byte(bucket))
	if bu == nil {
		var v T
		return v, bbolt.ErrBucketNotFound
	}
	if len(key) == 0 {
		var v T
		return v, fmt.Errorf("empty key?")
	}
	return ncode.DecodeJson[T](bu.Get([]byte(key)))
}

func Update[T any, K byteslike](db *bbolt.DB, bucket string, key K, modifier func(v T) (T, error)) error {
	return db.Update(func(tx *bbolt.Tx) error {
		return UpdateTx(tx, bucket, key, modifier)
	})
}

func UpdateTx[T any, K byteslike](tx *bbolt.Tx, bucket string, key K, modifier func(v T) (T, error)) error {
	got, err := FetchDB_Tx[T](tx, bucket, key)
	if err != nil && err != ncode.ErrZeroLength {
		return err
	}
	got, err = modifier(got)
	if err != nil {
		return err
	}
	return StoreDB_Tx(tx, bucket, key, got)
}

func StoreDB[K byteslike](db *bbolt.DB, bucket string, key K, val any) error {
	return db.Update(func(tx *bbolt.Tx) error {
		return StoreDB_Tx(tx, bucket, key, val)
	})
}

func StoreDB_Tx[K byteslike](tx *bbolt.Tx, bucket string, key K, val any) error {
	bu := tx.Bucket([]byte(bucket))
	if bu == nil {
		return bbolt.ErrBucketNotFound
	}
	return bu.Put([]byte(key), ncode.Json(val))
}

func DeleteDB[K byteslike](db *bbolt.DB, bucket string, key K) error {
	return db.Update(func(tx *bbolt.Tx) error {
		bu := tx.Bucket([]byte(bucket))
		if bu == nil {
			return bbolt.ErrBucketNotFound
		}
		return bu.Delete([]byte(key))
	})
}
