package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventIndexPersists(t *testing.T) {
	dir := t.TempDir()
	idx, err := NewEventIndex(dir)
	require.NoError(t, err)

	idx.Set(Key("2026-10-19", "ana", "k1"), "gcal-1")
	idx.Set(Key("2026-10-19", "ana", "k2"), "gcal-2")
	idx.Set(Key("2026-10-18", "ana", "k0"), "gcal-0")
	require.NoError(t, idx.Save())

	reloaded, err := NewEventIndex(dir)
	require.NoError(t, err)
	assert.Equal(t, "gcal-1", reloaded.Get("2026-10-19/ana/k1"))
	assert.Equal(t, []string{"2026-10-19/ana/k1", "2026-10-19/ana/k2"}, reloaded.KeysFor("2026-10-19", "ana"))

	assert.Equal(t, 1, reloaded.PruneBefore("2026-10-19"))
	assert.Empty(t, reloaded.Get("2026-10-18/ana/k0"))

	reloaded.Remove("2026-10-19/ana/k2")
	require.NoError(t, reloaded.Save())

	again, err := NewEventIndex(dir)
	require.NoError(t, err)
	assert.Len(t, again.Mappings, 1)
}

func TestKeysForSeparatesOwners(t *testing.T) {
	idx, err := NewEventIndex(t.TempDir())
	require.NoError(t, err)

	idx.Set(Key("2026-10-19", "ana", "k1"), "gcal-1")
	idx.Set(Key("2026-10-19", "bob", "k2"), "gcal-2")
	idx.Set(Key("2026-10-19", "ana/bob", "k3"), "gcal-3")

	assert.Equal(t, []string{"2026-10-19/ana/k1"}, idx.KeysFor("2026-10-19", "ana"))
	assert.Equal(t, []string{"2026-10-19/bob/k2"}, idx.KeysFor("2026-10-19", "bob"))
	assert.Equal(t, []string{"2026-10-19/ana%2Fbob/k3"}, idx.KeysFor("2026-10-19", "ana/bob"))
	assert.Empty(t, idx.KeysFor("2026-10-20", "ana"))
}

func TestSaveSkipsCleanIndex(t *testing.T) {
	dir := t.TempDir()
	idx, err := NewEventIndex(dir)
	require.NoError(t, err)
	require.NoError(t, idx.Save())
	assert.NoFileExists(t, idx.Path)
}
