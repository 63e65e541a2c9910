package material

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/chrissnell/flightloads/internal/database"
	"github.com/chrissnell/flightloads/internal/log"
)

// PostgresProvider keeps the library in a shared PostgreSQL table so a
// fleet of analysis hosts sees the same coefficients
type PostgresProvider struct {
	client *database.Client
}

// NewPostgresProvider connects to connectionString and migrates the table
func NewPostgresProvider(connectionString string) (*PostgresProvider, error) {
	client := database.NewClient(connectionString, log.Named("material"))
	if err := client.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect material database: %w", err)
	}
	return &PostgresProvider{client: client}, nil
}

// Load reads every row into a Library
func (p *PostgresProvider) Load() (*Library, error) {
	var rows []database.MaterialProperty
	if err := p.client.DB.Order("material, condition").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query materials: %w", err)
	}
	return libraryFromRecords(rows), nil
}

// Save replaces the stored library with lib in one transaction
func (p *PostgresProvider) Save(lib *Library) error {
	records := recordsFromLibrary(lib)
	return p.client.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&database.MaterialProperty{}).Error; err != nil {
			return fmt.Errorf("failed to clear materials: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(records, 100).Error; err != nil {
			return fmt.Errorf("failed to insert materials: %w", err)
		}
		return nil
	})
}

// Close closes the database connection
func (p *PostgresProvider) Close() error {
	return p.client.Close()
}

func libraryFromRecords(rows []database.MaterialProperty) *Library {
	m := make(map[string]Conditions)
	for _, r := range rows {
		if m[r.Material] == nil {
			m[r.Material] = Conditions{}
		}
		e := Entry{}
		if r.Available {
			e = NewEntry(r.A, r.B, r.C, r.D)
		}
		m[r.Material][r.Condition] = e
	}
	return FromMap(m)
}

func recordsFromLibrary(lib *Library) []database.MaterialProperty {
	var out []database.MaterialProperty
	for _, material := range lib.Materials() {
		conds, _ := lib.Conditions(material)
		for _, condition := range conds {
			e, _ := lib.Entry(material, condition)
			out = append(out, database.MaterialProperty{
				Material:  material,
				Condition: condition,
				A:         e.Coefficients.A,
				B:         e.Coefficients.B,
				C:         e.Coefficients.C,
				D:         e.Coefficients.D,
				Available: e.Available,
			})
		}
	}
	return out
}
