package store

import (
	"database/sql"
	"errors"
	"time"
)

// AdminUser gates the testing and setup surfaces. The first login through
// the web UI creates the account.
type AdminUser struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	LastLogin    time.Time // zero until the first successful login
}

// GetAdminUser returns the named account, or nil when it does not exist.
func (db *DB) GetAdminUser(username string) (*AdminUser, error) {
	var (
		u         AdminUser
		createdAt string
		lastLogin string
	)
	err := db.QueryRow(`SELECT id, username, password_hash, created_at, last_login FROM admin_users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &createdAt, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = scanTime(createdAt)
	u.LastLogin = scanTime(lastLogin)
	return &u, nil
}

func (db *DB) CreateAdminUser(username, passwordHash string) (int64, error) {
	res, err := db.Exec(`INSERT INTO admin_users (username, password_hash) VALUES (?, ?)`, username, passwordHash)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (db *DB) UpdateAdminPassword(username, passwordHash string) error {
	_, err := db.Exec(`UPDATE admin_users SET password_hash = ? WHERE username = ?`, passwordHash, username)
	return err
}

// TouchAdminLogin records a successful login.
func (db *DB) TouchAdminLogin(username string) error {
	_, err := db.Exec(`UPDATE admin_users SET last_login = datetime('now','localtime') WHERE username = ?`, username)
	return err
}

func (db *DB) AdminUserExists() (bool, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM admin_users`).Scan(&count)
	return count > 0, err
}
