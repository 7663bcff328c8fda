package seed

import (
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"healthportal/m/domain"
)

//go:embed assets/*.csv
var assets embed.FS

// Load ingests the medicine and doctor catalogs, ignoring rows that already
// exist. An empty dir uses the embedded catalogs.
func Load(db *sqlx.DB, dir string) error {
	var source fs.FS
	if dir == "" {
		sub, err := fs.Sub(assets, "assets")
		if err != nil {
			return err
		}
		source = sub
	} else {
		source = os.DirFS(dir)
	}

	for _, step := range []struct {
		file string
		load func(*sqlx.DB, io.Reader) (int, error)
	}{
		{"medicines.csv", LoadMedicines},
		{"doctors.csv", LoadDoctors},
	} {
		f, err := source.Open(step.file)
		if err != nil {
			return fmt.Errorf("unable to open %s: %w", step.file, err)
		}
		rows, err := step.load(db, f)
		f.Close()
		if err != nil {
			return fmt.Errorf("unable to seed %s: %w", step.file, err)
		}
		log.Printf("seeded %s with %d rows", step.file, rows)
	}
	return nil
}

// LoadMedicines inserts catalog rows from CSV and returns how many were new.
func LoadMedicines(db *sqlx.DB, r io.Reader) (int, error) {
	return loadCSV(db, r, 7,
		`INSERT INTO medicines (id, name, category, description, manufacturer, price, stock_quantity, requires_prescription, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT (name) DO NOTHING`,
		func(record []string) ([]any, error) {
			price, err := decimal.NewFromString(strings.TrimSpace(record[4]))
			if err != nil || price.IsNegative() {
				return nil, fmt.Errorf("invalid price %q", record[4])
			}
			stock, err := strconv.Atoi(strings.TrimSpace(record[5]))
			if err != nil || stock < 0 {
				return nil, fmt.Errorf("invalid stock %q", record[5])
			}
			rx, err := strconv.ParseBool(strings.TrimSpace(record[6]))
			if err != nil {
				return nil, fmt.Errorf("invalid prescription flag %q", record[6])
			}
			return []any{uuid.New(), strings.TrimSpace(record[0]), strings.TrimSpace(record[1]),
				strings.TrimSpace(record[2]), strings.TrimSpace(record[3]), price, stock, rx, time.Now().UTC()}, nil
		})
}

// LoadDoctors inserts the doctor directory from CSV. Available days are
// separated by semicolons.
func LoadDoctors(db *sqlx.DB, r io.Reader) (int, error) {
	return loadCSV(db, r, 8,
		`INSERT INTO doctors (id, name, specialty, consultation_fee, rating, experience_years, available_days, available_hours, bio, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT (name) DO NOTHING`,
		func(record []string) ([]any, error) {
			fee, err := decimal.NewFromString(strings.TrimSpace(record[2]))
			if err != nil {
				return nil, fmt.Errorf("invalid fee %q", record[2])
			}
			rating, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid rating %q", record[3])
			}
			years, err := strconv.Atoi(strings.TrimSpace(record[4]))
			if err != nil {
				return nil, fmt.Errorf("invalid experience %q", record[4])
			}
			var days domain.StringList
			for _, d := range strings.Split(record[5], ";") {
				if d = strings.TrimSpace(d); d != "" {
					days = append(days, d)
				}
			}
			return []any{uuid.New(), strings.TrimSpace(record[0]), strings.TrimSpace(record[1]), fee, rating, years,
				days, strings.TrimSpace(record[6]), strings.TrimSpace(record[7]), time.Now().UTC()}, nil
		})
}

func loadCSV(db *sqlx.DB, r io.Reader, columns int, insert string, parse func([]string) ([]any, error)) (int, error) {
	reader := csv.NewReader(r)
	// Skip header
	if _, err := reader.Read(); err != nil {
		return 0, fmt.Errorf("unable to read header: %w", err)
	}

	tx, err := db.Beginx()
	if err != nil {
		return 0, err
	}
	stmt, err := tx.Preparex(tx.Rebind(insert))
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	rows := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Printf("unable to read catalog row: %v", err)
			continue
		}
		if len(record) < columns || strings.TrimSpace(record[0]) == "" {
			continue
		}
		args, err := parse(record)
		if err != nil {
			log.Printf("skipping %s: %v", record[0], err)
			continue
		}
		res, err := stmt.Exec(args...)
		if err != nil {
			log.Printf("unable to insert %s: %v", record[0], err)
			continue
		}
		if n, _ := res.RowsAffected(); n > 0 {
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return rows, nil
}
