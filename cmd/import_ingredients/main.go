package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/models"
)

func main() {
	csvPath := "data/ingredients.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}

	if err := run(csvPath); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(csvPath string) error {
	if strings.TrimSpace(csvPath) == "" {
		return fmt.Errorf("csv path must not be empty")
	}

	if _, err := os.Stat(csvPath); err != nil {
		return fmt.Errorf("locate csv: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	rows, err := readCSV(csvPath)
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}

	created, err := importIngredients(db, rows)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Imported %d of %d ingredients from %s\n", created, len(rows), filepath.Base(csvPath))
	return nil
}

// readCSV parses a headerless two-column file: name, measurement unit.
func readCSV(path string) ([][2]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, errors.New("csv is empty")
	}

	rows := make([][2]string, 0, len(records))
	for idx, record := range records {
		if len(record) < 2 {
			return nil, fmt.Errorf("row %d: expected name and measurement unit, got %d fields", idx+1, len(record))
		}
		name := strings.TrimSpace(record[0])
		unit := strings.TrimSpace(record[1])
		if name == "" || unit == "" {
			continue
		}
		rows = append(rows, [2]string{name, unit})
	}

	return rows, nil
}

// importIngredients is idempotent: rows already present under the same name
// and unit are skipped, so the command can rerun over an updated file.
func importIngredients(db *gorm.DB, rows [][2]string) (int, error) {
	created := 0
	for idx, row := range rows {
		ingredient := models.Ingredient{
			Name:            row[0],
			MeasurementUnit: row[1],
		}
		result := db.Where(
			"name = ? AND measurement_unit = ?", row[0], row[1],
		).FirstOrCreate(&ingredient)
		if result.Error != nil {
			return created, fmt.Errorf("row %d (%s): %w", idx+1, row[0], result.Error)
		}
		if result.RowsAffected > 0 {
			created++
		}
	}
	return created, nil
}
