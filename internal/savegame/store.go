package savegame

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// FormatVersion is written into every new save slot.
const FormatVersion = 12

// UnsupportedVersion and anything older cannot be loaded anymore.
const UnsupportedVersion = 5

// Store manages the SQLite database holding savegame slots. Each slot
// carries a description plus one JSON script-state blob per level, so
// several levels' persisted states coexist in one savegame.
type Store struct {
	db *sql.DB
}

// SlotInfo describes one savegame slot.
type SlotInfo struct {
	Slot        int
	Description string
	Version     int
	CreatedAt   time.Time
}

// Open creates or opens a savegame database at the given path. It creates
// the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("savegame: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("savegame: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("savegame: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("savegame: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("savegame: migration failed: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS saves (
			slot INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			version INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS save_levels (
			slot INTEGER NOT NULL,
			level_name TEXT NOT NULL,
			script_data TEXT NOT NULL,
			PRIMARY KEY (slot, level_name)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// WriteSlot creates or replaces a savegame slot. Replacing a slot drops
// any per-level state recorded under it.
func (s *Store) WriteSlot(slot int, description string) error {
	if _, err := s.db.Exec("DELETE FROM save_levels WHERE slot = ?", slot); err != nil {
		return fmt.Errorf("savegame: cannot clear slot %d: %w", slot, err)
	}
	_, err := s.db.Exec(
		`INSERT INTO saves (slot, description, version) VALUES (?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET description = excluded.description,
		                                version = excluded.version,
		                                created_at = CURRENT_TIMESTAMP`,
		slot, description, FormatVersion,
	)
	if err != nil {
		return fmt.Errorf("savegame: cannot write slot %d: %w", slot, err)
	}
	return nil
}

// WriteLevelData records one level's JSON script state under the slot.
func (s *Store) WriteLevelData(slot int, levelName, scriptData string) error {
	_, err := s.db.Exec(
		`INSERT INTO save_levels (slot, level_name, script_data) VALUES (?, ?, ?)
		 ON CONFLICT(slot, level_name) DO UPDATE SET script_data = excluded.script_data`,
		slot, levelName, scriptData,
	)
	if err != nil {
		return fmt.Errorf("savegame: cannot write level data for slot %d: %w", slot, err)
	}
	return nil
}

// ReadSlot returns the slot's info, or nil if the slot does not exist.
// A slot written by a no-longer-supported engine version yields
// InvalidSavegameError.
func (s *Store) ReadSlot(slot int) (*SlotInfo, error) {
	var info SlotInfo
	var createdAt any

	err := s.db.QueryRow(
		"SELECT slot, description, version, created_at FROM saves WHERE slot = ?",
		slot,
	).Scan(&info.Slot, &info.Description, &info.Version, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("savegame: cannot read slot %d: %w", slot, err)
	}

	info.CreatedAt = parseTimestamp(createdAt)

	if info.Version <= UnsupportedVersion {
		return nil, &InvalidSavegameError{
			Reason: fmt.Sprintf("slot %d uses unsupported format version %d", slot, info.Version),
		}
	}

	return &info, nil
}

// ReadLevelData returns the JSON script state stored for the level in the
// slot. The second return value is false when the level has no stored
// state, which is a normal condition for levels without save handlers.
func (s *Store) ReadLevelData(slot int, levelName string) (string, bool, error) {
	var data string
	err := s.db.QueryRow(
		"SELECT script_data FROM save_levels WHERE slot = ? AND level_name = ?",
		slot, levelName,
	).Scan(&data)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("savegame: cannot read level data for slot %d: %w", slot, err)
	}
	return data, true, nil
}

// Description returns only the slot's description.
func (s *Store) Description(slot int) (string, error) {
	info, err := s.ReadSlot(slot)
	if err != nil {
		return "", err
	}
	if info == nil {
		return "", fmt.Errorf("savegame: no save in slot %d", slot)
	}
	return info.Description, nil
}

// IsValid reports whether the slot exists and is loadable.
func (s *Store) IsValid(slot int) bool {
	info, err := s.ReadSlot(slot)
	return err == nil && info != nil
}

// ListSlots returns every savegame slot, ordered by slot number.
func (s *Store) ListSlots() ([]SlotInfo, error) {
	rows, err := s.db.Query("SELECT slot, description, version, created_at FROM saves ORDER BY slot")
	if err != nil {
		return nil, fmt.Errorf("savegame: cannot list slots: %w", err)
	}
	defer rows.Close()

	var slots []SlotInfo
	for rows.Next() {
		var info SlotInfo
		var createdAt any
		if err := rows.Scan(&info.Slot, &info.Description, &info.Version, &createdAt); err != nil {
			return nil, fmt.Errorf("savegame: cannot scan slot row: %w", err)
		}
		info.CreatedAt = parseTimestamp(createdAt)
		slots = append(slots, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("savegame: row iteration error: %w", err)
	}
	return slots, nil
}

// DeleteSlot removes a slot and its per-level state.
func (s *Store) DeleteSlot(slot int) error {
	if _, err := s.db.Exec("DELETE FROM save_levels WHERE slot = ?", slot); err != nil {
		return fmt.Errorf("savegame: cannot delete slot %d levels: %w", slot, err)
	}
	if _, err := s.db.Exec("DELETE FROM saves WHERE slot = ?", slot); err != nil {
		return fmt.Errorf("savegame: cannot delete slot %d: %w", slot, err)
	}
	return nil
}

// parseTimestamp handles both time.Time and string representations the
// driver may return for DATETIME columns.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
