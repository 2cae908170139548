// Package cookietest holds the behaviour every cookie driver must share.
package cookietest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"rnacolumns/internal/cookie/core"
)

// Run exercises s against the Store contract. Each driver test calls it with
// a fresh store.
func Run(t *testing.T, s core.Store) {
	t.Helper()
	ctx := context.Background()
	jar := core.JarName("ws1", "web.rna.columns")
	other := core.JarName("ws2", "web.rna.columns")

	_, ok, err := s.Get(ctx, jar, "Columns.Default")
	require.NoError(t, err)
	require.False(t, ok, "empty jar must miss")

	keys, err := s.Keys(ctx, jar)
	require.NoError(t, err)
	require.Empty(t, keys)

	require.NoError(t, s.Put(ctx, jar, "Columns.Default", "A,|0"))
	require.NoError(t, s.Put(ctx, jar, "Columns.Alpha", "A,B;C,baseline|2"))
	require.NoError(t, s.Put(ctx, other, "Columns.Default", "Z,|1"))

	v, ok, err := s.Get(ctx, jar, "Columns.Default")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "A,|0", v)

	require.NoError(t, s.Put(ctx, jar, "Columns.Default", "B,|1"), "put must overwrite")
	v, _, err = s.Get(ctx, jar, "Columns.Default")
	require.NoError(t, err)
	require.Equal(t, "B,|1", v)

	keys, err = s.Keys(ctx, jar)
	require.NoError(t, err)
	require.Equal(t, []string{"Columns.Alpha", "Columns.Default"}, keys)

	v, _, err = s.Get(ctx, other, "Columns.Default")
	require.NoError(t, err)
	require.Equal(t, "Z,|1", v, "workspaces must not share jars")

	removed, err := s.Delete(ctx, jar, "Columns.Alpha")
	require.NoError(t, err)
	require.True(t, removed)
	removed, err = s.Delete(ctx, jar, "Columns.Alpha")
	require.NoError(t, err)
	require.False(t, removed)

	removed, err = s.Delete(ctx, jar, "Columns.Default")
	require.NoError(t, err)
	require.True(t, removed)
	keys, err = s.Keys(ctx, jar)
	require.NoError(t, err)
	require.Empty(t, keys)

	require.NoError(t, s.Put(ctx, jar, "empty", ""))
	v, ok, err = s.Get(ctx, jar, "empty")
	require.NoError(t, err)
	require.True(t, ok, "empty values are stored")
	require.Empty(t, v)

	_, _, err = s.Get(ctx, "../escape", "k")
	require.True(t, errors.Is(err, core.ErrInvalidName))
	require.True(t, errors.Is(s.Put(ctx, jar, "bad\tkey", "v"), core.ErrInvalidName))
}
