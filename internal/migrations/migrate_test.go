package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Simplici0/craftprofit/internal/db"
)

func TestUpIsIdempotent(t *testing.T) {
	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "migrate-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	for i := 0; i < 2; i++ {
		if err := Up(ctx, database); err != nil {
			t.Fatalf("up (iteration=%d): %v", i, err)
		}
	}

	for _, table := range []string{"materials", "crafts", "summary", "unknown_materials"} {
		var name string
		err := database.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}
