package sqlite_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/newsdigest"
	"github.com/fwojciec/newsdigest/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkWALMode compares write performance between WAL and rollback journal modes.
// This simulates a scrape workload: storing many articles one at a time.
func BenchmarkWALMode(b *testing.B) {
	b.Run("rollback_journal", func(b *testing.B) {
		benchmarkArticleWrites(b, false)
	})

	b.Run("wal_mode", func(b *testing.B) {
		benchmarkArticleWrites(b, true)
	})
}

func benchmarkArticleWrites(b *testing.B, useWAL bool) {
	b.Helper()

	// Create a temporary file for the database
	tmpDir := b.TempDir()
	dbPath := filepath.Join(tmpDir, "bench.db")

	db := sqlite.NewDB(dbPath)
	require.NoError(b, db.Open())

	// Enable WAL mode if requested
	if useWAL {
		ctx := context.Background()
		_, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL")
		require.NoError(b, err)
	}

	defer func() {
		db.Close()
		// Clean up WAL files if they exist
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	}()

	ctx := context.Background()
	svc := sqlite.NewArticleService(db)

	// Reset timer to exclude setup time
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		a := &newsdigest.Article{
			URL:   fmt.Sprintf("https://example.com/bangladesh/%d", i),
			Title: fmt.Sprintf("Article %d", i),
		}
		a.SetBody(fmt.Sprintf("Article %d body with some additional text to make it more realistic. Lorem ipsum dolor sit amet, consectetur adipiscing elit.", i), 1)
		if err := svc.WriteArticle(ctx, a); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkBulkInserts tests writing a batch of articles (simulating a full scrape).
func BenchmarkBulkInserts(b *testing.B) {
	const articlesPerRun = 100

	b.Run("rollback_journal", func(b *testing.B) {
		benchmarkBulkInserts(b, false, articlesPerRun)
	})

	b.Run("wal_mode", func(b *testing.B) {
		benchmarkBulkInserts(b, true, articlesPerRun)
	})
}

func benchmarkBulkInserts(b *testing.B, useWAL bool, articlesPerRun int) {
	b.Helper()

	for i := 0; i < b.N; i++ {
		b.StopTimer()

		tmpDir := b.TempDir()
		dbPath := filepath.Join(tmpDir, fmt.Sprintf("bench%d.db", i))

		db := sqlite.NewDB(dbPath)
		require.NoError(b, db.Open())

		if useWAL {
			ctx := context.Background()
			_, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL")
			require.NoError(b, err)
		}

		ctx := context.Background()
		svc := sqlite.NewArticleService(db)

		b.StartTimer()

		for j := 0; j < articlesPerRun; j++ {
			a := &newsdigest.Article{
				URL:   fmt.Sprintf("https://example.com/bangladesh/%d", j),
				Title: fmt.Sprintf("Article %d", j),
			}
			a.SetBody(fmt.Sprintf("Article %d body. Lorem ipsum dolor sit amet.", j), 1)
			if err := svc.WriteArticle(ctx, a); err != nil {
				b.Fatal(err)
			}
		}

		b.StopTimer()
		db.Close()
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	}
}
