// Package persistence provides SQLite-based storage for generated cities.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/metropolis/internal/city"
)

// DB wraps a SQLite connection for city storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cities (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		population INTEGER NOT NULL,
		current_year INTEGER NOT NULL,
		record_json TEXT NOT NULL,
		saved_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS store_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_cities_seed ON cities(seed);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// ErrNotFound is returned when a requested city does not exist.
var ErrNotFound = errors.New("city not found")

// SaveCity writes a city record, replacing any previous save with the same
// ID. The record is validated first; malformed cities never reach the store.
func (db *DB) SaveCity(c *city.City) error {
	if err := c.Validate(); err != nil {
		return err
	}

	record, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal city: %w", err)
	}

	_, err = db.conn.Exec(`INSERT OR REPLACE INTO cities
		(id, seed, population, current_year, record_json, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID(), c.Seed, c.Population, c.CurrentYear,
		string(record), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert city %s: %w", c.ID(), err)
	}
	return nil
}

// LoadCity reads and validates a city record by ID. A malformed stored
// record is an error; there is no partial load.
func (db *DB) LoadCity(id string) (*city.City, error) {
	var record string
	err := db.conn.Get(&record, "SELECT record_json FROM cities WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("city %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load city %s: %w", id, err)
	}

	var c city.City
	if err := json.Unmarshal([]byte(record), &c); err != nil {
		return nil, fmt.Errorf("unmarshal city %s: %w", id, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("stored city %s: %w", id, err)
	}
	return &c, nil
}

// CityInfo is a summary row for listings.
type CityInfo struct {
	ID          string `db:"id" json:"id"`
	Seed        uint32 `db:"seed" json:"seed"`
	Population  int    `db:"population" json:"population"`
	CurrentYear int    `db:"current_year" json:"current_year"`
	SavedAt     string `db:"saved_at" json:"saved_at"`
}

// ListCities returns summaries of all saved cities, newest first.
func (db *DB) ListCities() ([]CityInfo, error) {
	var out []CityInfo
	err := db.conn.Select(&out,
		"SELECT id, seed, population, current_year, saved_at FROM cities ORDER BY saved_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	return out, nil
}

// DeleteCity removes a saved city.
func (db *DB) DeleteCity(id string) error {
	_, err := db.conn.Exec("DELETE FROM cities WHERE id = ?", id)
	return err
}

// SetMeta stores a key-value pair in store metadata.
func (db *DB) SetMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO store_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	if err := db.conn.Get(&value, "SELECT value FROM store_meta WHERE key = ?", key); err != nil {
		return "", err
	}
	return value, nil
}
