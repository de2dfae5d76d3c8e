package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // pure-Go driver, no cgo — fits a cross-compiled embedded target
)

// SQLiteStore is the durable implementation of Store. Every mutation runs
// inside a single transaction so a power loss mid-write leaves the prior
// row intact rather than a half-written one; modernc.org/sqlite's journal mode gives us that for free.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if absent) the credential database at
// path and ensures its schema exists.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("credentials: opening sqlite store: %w", err)
	}
	db.SetMaxOpenConns(1) // single-writer, CredentialStore concurrency rule

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS credentials (
		key   TEXT PRIMARY KEY,
		value BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("credentials: creating schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) StoreBytes(ctx context.Context, key Key, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO credentials(key, value) VALUES(?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		string(key), value)
	return err
}

func (s *SQLiteStore) StoreString(ctx context.Context, key Key, value string) error {
	return s.StoreBytes(ctx, key, []byte(value))
}

func (s *SQLiteStore) LoadBytes(ctx context.Context, key Key) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, string(key)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *SQLiteStore) LoadString(ctx context.Context, key Key) (string, error) {
	v, err := s.LoadBytes(ctx, key)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (s *SQLiteStore) HasNetwork(ctx context.Context) (bool, error) {
	return s.has(ctx, WifiSSID)
}

func (s *SQLiteStore) HasRobotCredentials(ctx context.Context) (bool, error) {
	return s.has(ctx, RobotID)
}

func (s *SQLiteStore) has(ctx context.Context, key Key) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM credentials WHERE key = ?`, string(key)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *SQLiteStore) StoreNetwork(ctx context.Context, ssid, password string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := upsert(ctx, tx, WifiSSID, []byte(ssid)); err != nil {
			return err
		}
		return upsert(ctx, tx, WifiPassword, []byte(password))
	})
}

func (s *SQLiteStore) StoreRobotCredentials(ctx context.Context, creds RobotCredentials) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := upsert(ctx, tx, RobotID, []byte(creds.ID)); err != nil {
			return err
		}
		if err := upsert(ctx, tx, RobotSecret, []byte(creds.Secret)); err != nil {
			return err
		}
		return upsert(ctx, tx, AppAddress, []byte(creds.AppAddress))
	})
}

func (s *SQLiteStore) StoreAppAddress(ctx context.Context, addr string) error {
	return s.StoreBytes(ctx, AppAddress, []byte(addr))
}

func (s *SQLiteStore) LoadNetwork(ctx context.Context) (NetworkCredentials, error) {
	ssid, err := s.LoadString(ctx, WifiSSID)
	if err != nil {
		return NetworkCredentials{}, err
	}
	password, err := s.LoadString(ctx, WifiPassword)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return NetworkCredentials{}, err
	}
	return NetworkCredentials{SSID: ssid, Password: password}, nil
}

func (s *SQLiteStore) LoadRobotCredentials(ctx context.Context) (RobotCredentials, error) {
	id, err := s.LoadString(ctx, RobotID)
	if err != nil {
		return RobotCredentials{}, err
	}
	secret, _ := s.LoadString(ctx, RobotSecret)
	addr, _ := s.LoadString(ctx, AppAddress)
	return RobotCredentials{ID: id, Secret: secret, AppAddress: addr}, nil
}

func (s *SQLiteStore) ResetAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM credentials`)
	return err
}

func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func upsert(ctx context.Context, tx *sql.Tx, key Key, value []byte) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO credentials(key, value) VALUES(?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		string(key), value)
	return err
}

var _ Store = (*SQLiteStore)(nil)
var _ Store = (*MemoryStore)(nil)
