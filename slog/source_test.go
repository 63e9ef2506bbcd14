package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/newsdigest"
	"github.com/fwojciec/newsdigest/mock"
	ndslog "github.com/fwojciec/newsdigest/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingLinkSource_Discover(t *testing.T) {
	t.Parallel()

	t.Run("logs source and count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.LinkSource{
			DiscoverFn: func(ctx context.Context) ([]newsdigest.Candidate, error) {
				return []newsdigest.Candidate{
					{URL: "https://example.com/bangladesh/1", Category: "bangladesh", Rank: 1},
					{URL: "https://example.com/sports/2", Category: "sports", Rank: 2},
				}, nil
			},
		}

		source := ndslog.NewLoggingLinkSource(inner, "homepage", logger)
		candidates, err := source.Discover(context.Background())

		require.NoError(t, err)
		assert.Len(t, candidates, 2)
		output := buf.String()
		assert.Contains(t, output, "discovery")
		assert.Contains(t, output, "source=homepage")
		assert.Contains(t, output, "count=2")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.LinkSource{
			DiscoverFn: func(ctx context.Context) ([]newsdigest.Candidate, error) {
				return nil, errors.New("homepage unreachable")
			},
		}

		source := ndslog.NewLoggingLinkSource(inner, "homepage", logger)
		_, err := source.Discover(context.Background())

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "count=0")
		assert.Contains(t, output, "err=\"homepage unreachable\"")
	})
}
