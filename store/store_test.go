package store

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/hellodex/otcboard/model"
	"github.com/rs/zerolog"
)

func TestSnapshotOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_response.txt")
	s := NewSnapshot(path, zerolog.Nop())

	if err := s.Write([]byte(`[{"nickName":"a"},{"nickName":"b"}]`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Write([]byte(`[]`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Fatalf("snapshot not overwritten: %s", data)
	}
}

func TestSnapshotWriteError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "last_response.txt")
	err := NewSnapshot(path, zerolog.Nop()).Write([]byte("[]"))
	var snapErr *SnapshotError
	if !errors.As(err, &snapErr) || snapErr.Path != path {
		t.Fatalf("expected SnapshotError, got %v", err)
	}
}

func TestSnapshotDisabled(t *testing.T) {
	if err := NewSnapshot("", zerolog.Nop()).Write([]byte("[]")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCatalog(t *testing.T) {
	c := NewCatalog(time.Minute)
	if got := c.Unknown([]string{"1"}); got != nil {
		t.Fatalf("empty catalog must not reject, got %v", got)
	}

	c.Load([]model.Payment{{Type: "64", Name: "Raiffeisen"}, {Type: "585", Name: "Sber"}})
	if c.Len() != 2 {
		t.Fatalf("len = %d", c.Len())
	}
	if name, ok := c.Name("585"); !ok || name != "Sber" {
		t.Fatalf("name = %q, %v", name, ok)
	}
	if got := c.Unknown([]string{"64", "999", "999", "1"}); !reflect.DeepEqual(got, []string{"999", "1"}) {
		t.Fatalf("unknown = %v", got)
	}

	c.Load([]model.Payment{{Type: "1", Name: "Tinkoff"}})
	if _, ok := c.Name("64"); ok {
		t.Fatal("reload must drop old entries")
	}
}

func TestCatalogSurvivesTTL(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := NewCatalog(30 * time.Minute).WithClock(func() time.Time { return now })

	if !c.Stale() {
		t.Fatal("unloaded catalog must be stale")
	}
	c.Load([]model.Payment{{Type: "64", Name: "Raiffeisen"}, {Type: "585", Name: "Sber"}})
	if c.Stale() {
		t.Fatal("fresh catalog reported stale")
	}

	now = now.Add(31 * time.Minute)
	if !c.Stale() {
		t.Fatal("catalog past its ttl must be stale")
	}
	if c.Len() != 2 {
		t.Fatalf("entries dropped after ttl: len = %d", c.Len())
	}
	if got := c.Unknown([]string{"64", "585"}); len(got) != 0 {
		t.Fatalf("known ids reported unknown after ttl: %v", got)
	}
	if got := c.Unknown([]string{"64", "7"}); !reflect.DeepEqual(got, []string{"7"}) {
		t.Fatalf("unknown = %v", got)
	}

	c.Touch()
	if c.Stale() {
		t.Fatal("touch must restart the staleness window")
	}
}
