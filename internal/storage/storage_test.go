package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backend interface {
	Store
	Transcript
}

func backends(t *testing.T) map[string]backend {
	t.Helper()
	mem, err := OpenSQLiteMemory()
	require.NoError(t, err)
	t.Cleanup(func() { mem.Close() })

	file, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "backdrop.db"))
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })

	return map[string]backend{
		"memory":        NewMemoryStore(),
		"sqlite-memory": mem,
		"sqlite-file":   file,
	}
}

func TestKeyValue(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "theme")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, "theme", "dark"))
			require.NoError(t, s.Set(ctx, "theme", "light"))
			require.NoError(t, s.Set(ctx, "alpha", "1"))

			v, err := s.Get(ctx, "theme")
			require.NoError(t, err)
			assert.Equal(t, "light", v)

			keys, err := s.Keys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"alpha", "theme"}, keys)

			require.NoError(t, s.Delete(ctx, "theme"))
			require.NoError(t, s.Delete(ctx, "theme"))
			_, err = s.Get(ctx, "theme")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestTranscript(t *testing.T) {
	ctx := context.Background()
	base := time.UnixMilli(1_700_000_000_000)
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for i, text := range []string{"hi", "hello", "how are you", "fine"} {
				role := "user"
				if i%2 == 1 {
					role = "bot"
				}
				require.NoError(t, s.AppendMessage(ctx, Message{
					ID:        text,
					Role:      role,
					Text:      text,
					CreatedAt: base.Add(time.Duration(i) * time.Second),
				}))
			}

			all, err := s.Messages(ctx, 0)
			require.NoError(t, err)
			require.Len(t, all, 4)
			assert.Equal(t, "hi", all[0].Text)
			assert.True(t, all[0].CreatedAt.Equal(base))

			last, err := s.Messages(ctx, 2)
			require.NoError(t, err)
			require.Len(t, last, 2)
			assert.Equal(t, "how are you", last[0].Text)
			assert.Equal(t, "fine", last[1].Text)

			require.NoError(t, s.ClearMessages(ctx))
			all, err = s.Messages(ctx, 0)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestSQLitePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "backdrop.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "theme", "dark"))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	v, err := s.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", v)
	assert.Equal(t, path, s.Path())
}
