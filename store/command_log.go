package store

import (
	"time"
)

// CommandEntry records one user-issued command against the backend: order
// submissions, warehouse transitions, monitoring toggles, bulk test runs.
// This is an operator audit trail, not a mirror of backend state.
type CommandEntry struct {
	ID        int64     `json:"id"`
	CommandID string    `json:"command_id"`
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	Outcome   string    `json:"outcome"`
	Detail    string    `json:"detail"`
	Actor     string    `json:"actor"`
	CreatedAt time.Time `json:"created_at"`
}

func (db *DB) AppendCommand(commandID, action, target, outcome, detail, actor string) error {
	_, err := db.Exec(`INSERT INTO command_log (command_id, action, target, outcome, detail, actor) VALUES (?, ?, ?, ?, ?, ?)`,
		commandID, action, target, outcome, detail, actor)
	return err
}

func (db *DB) ListCommandLog(limit int) ([]*CommandEntry, error) {
	rows, err := db.Query(`SELECT id, command_id, action, target, outcome, detail, actor, created_at FROM command_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []*CommandEntry
	for rows.Next() {
		var e CommandEntry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.CommandID, &e.Action, &e.Target, &e.Outcome, &e.Detail, &e.Actor, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt = scanTime(createdAt)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
