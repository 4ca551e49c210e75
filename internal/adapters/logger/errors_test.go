package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/tsmulti/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestCollectErrorEntries(t *testing.T) {
	t.Run("standard error", func(t *testing.T) {
		entries := logger.CollectErrorEntries(errors.New("simple error"))
		assert.Equal(t, []logger.ErrorEntry{{Message: "simple error"}}, entries)
	})

	t.Run("wrapped chain", func(t *testing.T) {
		err := zerr.Wrap(zerr.Wrap(errors.New("root cause"), "middle layer"), "outer layer")

		entries := logger.CollectErrorEntries(err)

		messages := make([]string, 0, len(entries))
		for _, e := range entries {
			messages = append(messages, e.Message)
		}
		assert.Equal(t, []string{"outer layer", "middle layer", "root cause"}, messages)
	})

	t.Run("metadata", func(t *testing.T) {
		err := zerr.With(zerr.New("base error"), "index", 1)

		entries := logger.CollectErrorEntries(err)

		assert.Len(t, entries, 1)
		assert.Equal(t, 1, entries[0].Metadata["index"])
	})

	t.Run("nil", func(t *testing.T) {
		assert.Empty(t, logger.CollectErrorEntries(nil))
	})
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "single entry",
			entries: []logger.ErrorEntry{{Message: "single error"}},
			want:    "Error: single error",
		},
		{
			name:    "caused by",
			entries: []logger.ErrorEntry{{Message: "outer"}, {Message: "inner"}, {Message: "root"}},
			want:    "Error: outer\n\n  Caused by:\n    → inner\n    → root",
		},
		{
			name: "metadata sorted",
			entries: []logger.ErrorEntry{{
				Message:  "targets[1].extname is already used in targets[0].extname",
				Metadata: map[string]any{"index": 1, "conflict_index": 0},
			}},
			want: "Error: targets[1].extname is already used in targets[0].extname\n" +
				"       conflict_index: 0\n       index: 1",
		},
		{
			name:    "multiline cause",
			entries: []logger.ErrorEntry{{Message: "main"}, {Message: "line1\nline2"}},
			want:    "Error: main\n\n  Caused by:\n    → line1\n      line2",
		},
		{
			name:    "empty",
			entries: nil,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntries(tt.entries))
		})
	}
}
