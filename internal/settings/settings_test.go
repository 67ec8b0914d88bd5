package settings

import (
	"path/filepath"
	"testing"

	"github.com/kaplanhukuk/uyap-importer/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Initialize(filepath.Join(t.TempDir(), "settings_test.db"))
	require.NoError(t, err)
	return NewStore(db)
}

func TestLoadDefaults(t *testing.T) {
	store := newTestStore(t)

	s, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, s.APIURL)
	assert.False(t, s.AutoSync)
}

func TestSaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(Settings{APIURL: "http://office.local:8000", AutoSync: true}))

	s, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "http://office.local:8000", s.APIURL)
	assert.True(t, s.AutoSync)
}

func TestSaveOverwrites(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(Settings{APIURL: "http://first:1", AutoSync: true}))
	require.NoError(t, store.Save(Settings{APIURL: "http://second:2", AutoSync: false}))

	s, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "http://second:2", s.APIURL)
	assert.False(t, s.AutoSync)
}

func TestSaveEmptyURLFallsBackToDefault(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(Settings{APIURL: "", AutoSync: true}))

	s, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, s.APIURL)
	assert.True(t, s.AutoSync)
}
