package wordbooks

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

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	t.Helper()
	dbPath := "./test_wordbooks_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}
	return db, repo, cleanup
}

func TestRepository_Visibility(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	system := entities.Wordbook{Name: "CET-4", Kind: entities.WordbookKindSystem}
	require.NoError(t, db.Create(&system).Error)

	mine, err := repo.Create("my list", "personal words", 1)
	require.NoError(t, err)
	assert.Equal(t, entities.WordbookKindUserUpload, mine.Kind)

	_, err = repo.Create("their list", "", 2)
	require.NoError(t, err)

	t.Run("list shows system plus own", func(t *testing.T) {
		books, err := repo.ListVisible(1)
		require.NoError(t, err)
		require.Len(t, books, 2)
		assert.Equal(t, entities.WordbookKindSystem, books[0].Kind, "system books first")
	})

	t.Run("system book visible but never owned", func(t *testing.T) {
		_, err := repo.GetVisible(system.ID, 1)
		assert.NoError(t, err)
		_, err = repo.GetOwned(system.ID, 1)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("foreign upload invisible", func(t *testing.T) {
		_, err := repo.GetVisible(mine.ID, 2)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = repo.GetOwned(mine.ID, 2)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("own upload both visible and owned", func(t *testing.T) {
		_, err := repo.GetVisible(mine.ID, 1)
		assert.NoError(t, err)
		_, err = repo.GetOwned(mine.ID, 1)
		assert.NoError(t, err)
	})
}

func TestRepository_WordsPage(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	wb, err := repo.Create("list", "", 1)
	require.NoError(t, err)
	for _, text := range []string{"cherry", "apple", "banana", "date", "elderberry"} {
		require.NoError(t, db.Create(&entities.Word{Word: text, WordbookID: wb.ID}).Error)
	}

	words, total, err := repo.WordsPage(wb.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, words, 2)
	assert.Equal(t, "apple", words[0].Word, "alphabetical order")
	assert.Equal(t, "banana", words[1].Word)

	words, _, err = repo.WordsPage(wb.ID, 3, 2)
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "elderberry", words[0].Word)
}

func TestRepository_RecountWords(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	wb, err := repo.Create("list", "", 1)
	require.NoError(t, err)
	assert.Zero(t, wb.TotalWords)

	for _, text := range []string{"apple", "banana"} {
		require.NoError(t, db.Create(&entities.Word{Word: text, WordbookID: wb.ID}).Error)
	}

	total, err := repo.RecountWords(wb.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	got, err := repo.GetOwned(wb.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalWords)
}

func TestRepository_RecountAll(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	first, err := repo.Create("first", "", 1)
	require.NoError(t, err)
	second, err := repo.Create("second", "", 1)
	require.NoError(t, err)
	require.NoError(t, db.Create(&entities.Word{Word: "apple", WordbookID: first.ID}).Error)

	books, err := repo.RecountAll()
	require.NoError(t, err)
	assert.Equal(t, 2, books)

	got, err := repo.GetOwned(first.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalWords)
	got, err = repo.GetOwned(second.ID, 1)
	require.NoError(t, err)
	assert.Zero(t, got.TotalWords)
}

func TestRepository_Delete(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	wb, err := repo.Create("list", "", 1)
	require.NoError(t, err)
	require.NoError(t, db.Create(&entities.Word{Word: "apple", WordbookID: wb.ID}).Error)

	require.NoError(t, repo.Delete(wb.ID))

	var count int64
	require.NoError(t, db.Model(&entities.Word{}).Where("wordbook_id = ?", wb.ID).Count(&count).Error)
	assert.Zero(t, count, "words go with the book")
	_, err = repo.GetOwned(wb.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}
