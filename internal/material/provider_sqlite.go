package material

import (
	"database/sql"
	"embed"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/chrissnell/flightloads/internal/log"
	"github.com/chrissnell/flightloads/pkg/migrate"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteProvider stores the library in a SQLite database, one row per
// material condition. Placeholder entries have available = 0 and NULL
// coefficients.
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider opens (and if needed creates) the database at dbPath
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	m := migrate.NewMigrator(db, migrate.NewFSProvider(migrations, "migrations", "material_migrations", "sqlite"), log.Named("material"))
	if err := m.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate material database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Load reads every row into a Library
func (s *SQLiteProvider) Load() (*Library, error) {
	rows, err := s.db.Query(`
		SELECT material, condition, a, b, c, d, available
		FROM materials
		ORDER BY material, condition
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query materials: %w", err)
	}
	defer rows.Close()

	m := make(map[string]Conditions)
	for rows.Next() {
		var material, condition string
		var a, b, c, d sql.NullFloat64
		var available bool
		if err := rows.Scan(&material, &condition, &a, &b, &c, &d, &available); err != nil {
			return nil, fmt.Errorf("failed to scan material row: %w", err)
		}

		if m[material] == nil {
			m[material] = Conditions{}
		}
		entry := Entry{}
		if available {
			entry = NewEntry(a.Float64, b.Float64, c.Float64, d.Float64)
		}
		m[material][condition] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read materials: %w", err)
	}

	return FromMap(m), nil
}

// Save replaces the stored library with lib
func (s *SQLiteProvider) Save(lib *Library) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM materials"); err != nil {
		return fmt.Errorf("failed to clear materials: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO materials (material, condition, a, b, c, d, available, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, datetime('now'))
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for material, conds := range lib.materials {
		for condition, e := range conds {
			k := e.Coefficients
			_, err := stmt.Exec(material, condition,
				nullFloat64(k.A, e.Available), nullFloat64(k.B, e.Available),
				nullFloat64(k.C, e.Available), nullFloat64(k.D, e.Available),
				e.Available)
			if err != nil {
				return fmt.Errorf("failed to insert %s / %s: %w", material, condition, err)
			}
		}
	}

	return tx.Commit()
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func nullFloat64(f float64, valid bool) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: valid}
}
