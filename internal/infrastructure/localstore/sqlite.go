// Package localstore persiste el último snapshot bueno y la sesión actual en
// un archivo SQLite local, para que el cliente arranque sirviendo datos aunque
// no haya red (bootstrap offline).
package localstore

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// Claves conocidas. La clave del snapshot lleva versión de esquema: si el
// formato cambia, la clave cambia y el cache viejo simplemente no se lee.
const (
	KeySnapshot = "snapshot_v1"
	KeySession  = "session_user"
)

// Store almacén clave/valor durable de un solo escritor.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open abre (o crea) el archivo y migra el esquema. ":memory:" para tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("abrir base local: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrar base local: %w", err)
	}
	return s, nil
}

// Close cierra la conexión.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`)
	return err
}

// Get devuelve el valor y si la clave existe.
func (s *Store) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("leer %q: %w", key, err)
	}
	return value, true, nil
}

// Put guarda o reemplaza el valor.
func (s *Store) Put(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("guardar %q: %w", key, err)
	}
	return nil
}

// Delete borra la clave; borrar una clave inexistente no es error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("borrar %q: %w", key, err)
	}
	return nil
}
