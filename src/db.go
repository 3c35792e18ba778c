package main

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"yield_aggregator/src/apy"
)

type Database struct {
	db *sql.DB
}

// CheckRecord is a stored yield check.
type CheckRecord struct {
	CheckedAt     time.Time
	CompoundRate  string
	CompoundYield apy.Yield
	AaveRate      string
	AaveYield     apy.Yield
	Venue         apy.Venue
	Moved         bool
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Create tables if they don't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS subscribers (
			chat_id INTEGER PRIMARY KEY,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS yield_checks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			checked_at INTEGER NOT NULL,
			compound_rate TEXT NOT NULL,
			compound_yield TEXT NOT NULL,
			aave_rate TEXT NOT NULL,
			aave_yield TEXT NOT NULL,
			venue TEXT NOT NULL,
			moved INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Database{db: db}, nil
}

func (d *Database) AddSubscriber(chatID int64) error {
	_, err := d.db.Exec("INSERT OR IGNORE INTO subscribers (chat_id) VALUES (?)", chatID)
	return err
}

func (d *Database) RemoveSubscriber(chatID int64) error {
	_, err := d.db.Exec("DELETE FROM subscribers WHERE chat_id = ?", chatID)
	return err
}

func (d *Database) GetAllSubscribers() (map[int64]bool, error) {
	rows, err := d.db.Query("SELECT chat_id FROM subscribers")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subscribers := make(map[int64]bool)
	for rows.Next() {
		var chatID int64
		if err := rows.Scan(&chatID); err != nil {
			return nil, err
		}
		subscribers[chatID] = true
	}
	return subscribers, rows.Err()
}

func (d *Database) SaveCheck(c Check) error {
	_, err := d.db.Exec(`
		INSERT INTO yield_checks
			(checked_at, compound_rate, compound_yield, aave_rate, aave_yield, venue, moved)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.CheckedAt.Unix(),
		c.Compound.Rate.String(),
		c.Decision.Compound.WadString(),
		c.Aave.Rate.String(),
		c.Decision.Aave.WadString(),
		c.Decision.To.String(),
		c.Decision.Moved(),
	)
	return err
}

// LastVenue returns the venue chosen by the latest check, or VenueNone
// before the first one.
func (d *Database) LastVenue() (apy.Venue, error) {
	var venue string
	err := d.db.QueryRow("SELECT venue FROM yield_checks ORDER BY id DESC LIMIT 1").Scan(&venue)
	if errors.Is(err, sql.ErrNoRows) {
		return apy.VenueNone, nil
	}
	if err != nil {
		return apy.VenueNone, err
	}
	return apy.ParseVenue(venue), nil
}

// RecentChecks returns up to limit checks, newest first.
func (d *Database) RecentChecks(limit int) ([]CheckRecord, error) {
	rows, err := d.db.Query(`
		SELECT checked_at, compound_rate, compound_yield, aave_rate, aave_yield, venue, moved
		FROM yield_checks ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []CheckRecord
	for rows.Next() {
		var (
			r                        CheckRecord
			checkedAt                int64
			compoundYield, aaveYield string
			venue                    string
		)
		if err := rows.Scan(&checkedAt, &r.CompoundRate, &compoundYield, &r.AaveRate, &aaveYield, &venue, &r.Moved); err != nil {
			return nil, err
		}
		if r.CompoundYield, err = apy.ParseWad(compoundYield); err != nil {
			return nil, fmt.Errorf("stored compound yield: %w", err)
		}
		if r.AaveYield, err = apy.ParseWad(aaveYield); err != nil {
			return nil, fmt.Errorf("stored aave yield: %w", err)
		}
		r.CheckedAt = time.Unix(checkedAt, 0).UTC()
		r.Venue = apy.ParseVenue(venue)
		records = append(records, r)
	}
	return records, rows.Err()
}

func (d *Database) Close() error {
	return d.db.Close()
}
