package catalog

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/spellbook/spellbook/internal/database"
	"github.com/spellbook/spellbook/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()
	dbPath := "./test_catalog_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func TestSeed(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	wordbookID, inserted, err := Seed(db, "cet4")
	require.NoError(t, err)
	assert.NotZero(t, wordbookID)
	assert.Greater(t, inserted, 0)

	var wb entities.Wordbook
	require.NoError(t, db.First(&wb, wordbookID).Error)
	assert.Equal(t, entities.WordbookKindSystem, wb.Kind)
	assert.Nil(t, wb.CreatedBy)
	assert.Equal(t, inserted, wb.TotalWords, "counter matches the seeded words")

	t.Run("reseeding is idempotent", func(t *testing.T) {
		againID, again, err := Seed(db, "cet4")
		require.NoError(t, err)
		assert.Equal(t, wordbookID, againID)
		assert.Zero(t, again)

		var count int64
		require.NoError(t, db.Model(&entities.Wordbook{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestSeed_UnknownKey(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, _, err := Seed(db, "gre")
	assert.ErrorIs(t, err, ErrUnknownCatalog)
}

func TestSeedAll(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, SeedAll(db))

	var count int64
	require.NoError(t, db.Model(&entities.Wordbook{}).Where("kind = ?", entities.WordbookKindSystem).Count(&count).Error)
	assert.Equal(t, int64(len(Keys())), count)
}

func TestKeys_CoverBuiltins(t *testing.T) {
	for _, key := range Keys() {
		_, ok := builtins[key]
		assert.True(t, ok, "key %s has a catalog", key)
	}
	assert.Len(t, builtins, len(Keys()))
}
