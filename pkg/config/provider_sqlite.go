package config

import (
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/chrissnell/flightloads/internal/log"
	"github.com/chrissnell/flightloads/pkg/migrate"
)

//go:embed migrations/*.sql
var migrations embed.FS

// DefaultConfigName is the configuration row used when none is named
const DefaultConfigName = "default"

// SQLiteProvider implements ConfigProvider for SQLite databases. Each
// configuration section is stored as a JSON document keyed by section name.
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
	name   string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	return NewSQLiteProviderNamed(dbPath, DefaultConfigName)
}

// NewSQLiteProviderNamed opens dbPath and reads the configuration called name
func NewSQLiteProviderNamed(dbPath, name string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	m := migrate.NewMigrator(db, migrate.NewFSProvider(migrations, "migrations", "config_migrations", "sqlite"), log.Named("config"))
	if err := m.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate config database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
		name:   name,
	}, nil
}

// sections maps a section name to its place in ConfigData
func sections(c *ConfigData) map[string]any {
	return map[string]any{
		"analysis": &c.Analysis,
		"input":    &c.Input,
		"material": &c.Material,
		"output":   &c.Output,
		"server":   &c.Server,
	}
}

// LoadConfig loads the complete configuration from the SQLite database.
// Sections that were never saved keep their defaults.
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := DefaultConfigData()

	rows, err := s.db.Query(`
		SELECT cs.section, cs.body
		FROM config_sections cs
		JOIN configs c ON c.id = cs.config_id
		WHERE c.name = ?
	`, s.name)
	if err != nil {
		return nil, fmt.Errorf("failed to query config sections: %w", err)
	}
	defer rows.Close()

	targets := sections(config)
	for rows.Next() {
		var section, body string
		if err := rows.Scan(&section, &body); err != nil {
			return nil, fmt.Errorf("failed to scan config section: %w", err)
		}
		target, ok := targets[section]
		if !ok {
			log.Warnf("ignoring unknown config section %q", section)
			continue
		}
		if err := json.Unmarshal([]byte(body), target); err != nil {
			return nil, fmt.Errorf("failed to decode config section %s: %w", section, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config sections: %w", err)
	}

	return config, nil
}

// SaveConfig writes every section of config, replacing what was stored
func (s *SQLiteProvider) SaveConfig(config *ConfigData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO configs (name) VALUES (?)
		ON CONFLICT(name) DO UPDATE SET updated_at = CURRENT_TIMESTAMP
	`, s.name)
	if err != nil {
		return fmt.Errorf("failed to upsert config: %w", err)
	}

	var configID int64
	if err := tx.QueryRow("SELECT id FROM configs WHERE name = ?", s.name).Scan(&configID); err != nil {
		return fmt.Errorf("failed to get config ID: %w", err)
	}

	for section, value := range sections(config) {
		body, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode config section %s: %w", section, err)
		}
		_, err = tx.Exec(`
			INSERT INTO config_sections (config_id, section, body) VALUES (?, ?, ?)
			ON CONFLICT(config_id, section) DO UPDATE SET body = excluded.body
		`, configID, section, string(body))
		if err != nil {
			return fmt.Errorf("failed to save config section %s: %w", section, err)
		}
	}

	return tx.Commit()
}

// IsReadOnly returns false since SQLite supports writes
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
