package anydb

import (
	"path/filepath"
	"testing"

	"go.etcd.io/bbolt"

	"github.com/aerth/spl/ncode"
)

type counter struct {
	N int `json:"n"`
}

func TestStoreFetchUpdate(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "any.db"), "b")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if _, err := FetchDB[counter](db, "b", "k"); err != ncode.ErrZeroLength {
		t.Fatalf("missing key: want ErrZeroLength, got %v", err)
	}
	if _, err := FetchDB[counter](db, "nope", "k"); err != bbolt.ErrBucketNotFound {
		t.Fatalf("missing bucket: got %v", err)
	}
	for i := 0; i < 3; i++ {
		err := Update(db, "b", "k", func(c counter) (counter, error) {
			c.N++
			return c, nil
		})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	c, err := FetchDB[counter](db, "b", "k")
	if err != nil || c.N != 3 {
		t.Fatalf("got %+v %v", c, err)
	}
	if err := DeleteDB(db, "b", "k"); err != nil {
		t.Fatalf("DeleteDB: %v", err)
	}
	if _, err := FetchDB[counter](db, "b", []byte("k")); err != ncode.ErrZeroLength {
		t.Fatalf("after delete: %v", err)
	}
}
