package cache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/flokiorg/storehub/db"
)

func setupTestDB(t *testing.T) *gorm.DB {
	gormDB, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)

	err = gormDB.AutoMigrate(&db.CacheEntry{})
	require.NoError(t, err)

	return gormDB
}

func TestStore_LoadSave(t *testing.T) {
	store := NewStore(setupTestDB(t))

	key := "catalog_snapshot"
	value := []byte(`{"apps":[]}`)

	// Load non-existent key
	val, err := store.Load(key)
	require.NoError(t, err)
	require.Nil(t, val)

	// Save key
	store.Save(key, value)

	// Load key back
	val, err = store.Load(key)
	require.NoError(t, err)
	require.Equal(t, value, val)

	// Overwrite key
	newValue := []byte(`{"apps":[{"id":"a","name":"Alpha"}]}`)
	store.Save(key, newValue)

	val, err = store.Load(key)
	require.NoError(t, err)
	require.Equal(t, newValue, val)
}

func TestStore_KeysAreIndependent(t *testing.T) {
	store := NewStore(setupTestDB(t))

	store.Save("catalog_snapshot", []byte(`{"apps":[]}`))
	store.Save("favorites", []byte(`["a","b"]`))

	snapshot, err := store.Load("catalog_snapshot")
	require.NoError(t, err)
	require.Equal(t, []byte(`{"apps":[]}`), snapshot)

	favorites, err := store.Load("favorites")
	require.NoError(t, err)
	require.Equal(t, []byte(`["a","b"]`), favorites)

	store.Save("favorites", []byte(`["a"]`))
	snapshot, err = store.Load("catalog_snapshot")
	require.NoError(t, err)
	require.Equal(t, []byte(`{"apps":[]}`), snapshot)
}
