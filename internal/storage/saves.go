package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrSlotNotFound is returned when a save slot does not exist.
var ErrSlotNotFound = errors.New("storage: save slot not found")

// SaveSlot is one named saved game.
type SaveSlot struct {
	Name      string
	GameID    string
	Level     int
	Score     int
	Data      []byte // game-specific encoding
	UpdatedAt time.Time
}

// SaveSlot creates or overwrites the slot with the given name.
func (s *Store) SaveSlot(slot SaveSlot) error {
	if slot.Name == "" {
		return fmt.Errorf("storage: save slot needs a name")
	}
	if slot.Data == nil {
		slot.Data = []byte{} // data is NOT NULL
	}
	_, err := s.db.Exec(
		`INSERT INTO saves (slot, game_id, level, score, data, updated_at)
		 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(slot) DO UPDATE SET
		   game_id = excluded.game_id,
		   level = excluded.level,
		   score = excluded.score,
		   data = excluded.data,
		   updated_at = CURRENT_TIMESTAMP`,
		slot.Name, slot.GameID, slot.Level, slot.Score, slot.Data,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save slot %q: %w", slot.Name, err)
	}
	return nil
}

// LoadSlot returns the slot with the given name, or ErrSlotNotFound.
func (s *Store) LoadSlot(name string) (SaveSlot, error) {
	slot := SaveSlot{Name: name}
	var updatedAt any
	err := s.db.QueryRow(
		`SELECT game_id, level, score, data, updated_at FROM saves WHERE slot = ?`,
		name,
	).Scan(&slot.GameID, &slot.Level, &slot.Score, &slot.Data, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return SaveSlot{}, fmt.Errorf("%w: %q", ErrSlotNotFound, name)
	}
	if err != nil {
		return SaveSlot{}, fmt.Errorf("storage: cannot load slot %q: %w", name, err)
	}
	slot.UpdatedAt = sqliteTime(updatedAt)
	return slot, nil
}

// ListSlots returns every slot of a game, most recently saved first.
// An empty gameID lists all slots.
func (s *Store) ListSlots(gameID string) ([]SaveSlot, error) {
	rows, err := s.db.Query(
		`SELECT slot, game_id, level, score, data, updated_at
		 FROM saves
		 WHERE ? = '' OR game_id = ?
		 ORDER BY updated_at DESC, slot ASC`,
		gameID, gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query saves: %w", err)
	}
	defer rows.Close()

	var slots []SaveSlot
	for rows.Next() {
		var slot SaveSlot
		var updatedAt any
		if err := rows.Scan(&slot.Name, &slot.GameID, &slot.Level, &slot.Score, &slot.Data, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		slot.UpdatedAt = sqliteTime(updatedAt)
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return slots, nil
}

// DeleteSlot removes a slot. Deleting a missing slot returns ErrSlotNotFound.
func (s *Store) DeleteSlot(name string) error {
	res, err := s.db.Exec("DELETE FROM saves WHERE slot = ?", name)
	if err != nil {
		return fmt.Errorf("storage: cannot delete slot %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot delete slot %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrSlotNotFound, name)
	}
	return nil
}
