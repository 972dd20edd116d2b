package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/models"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ingredients.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestReadCSV(t *testing.T) {
	path := writeCSV(t, "beetroot,g\ncabbage,g\n , \nsunflower oil,ml\n")

	rows, err := readCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, [2]string{"beetroot", "g"}, rows[0])
	assert.Equal(t, [2]string{"sunflower oil", "ml"}, rows[2])
}

func TestReadCSVRejectsShortRows(t *testing.T) {
	path := writeCSV(t, "beetroot,g\njust-a-name\n")

	_, err := readCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestReadCSVEmpty(t *testing.T) {
	path := writeCSV(t, "")

	_, err := readCSV(path)
	assert.Error(t, err)
}

func TestImportIngredientsIdempotent(t *testing.T) {
	db := openTestDB(t)
	rows := [][2]string{
		{"beetroot", "g"},
		{"cabbage", "g"},
		{"beetroot", "kg"},
	}

	created, err := importIngredients(db, rows)
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	// Rerunning over the same file creates nothing new.
	created, err = importIngredients(db, rows)
	require.NoError(t, err)
	assert.Zero(t, created)

	var count int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}
