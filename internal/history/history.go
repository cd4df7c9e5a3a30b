// Package history хранит историю расшифровок в SQLite.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// MaxEntries - сколько последних записей хранится, более старые удаляются.
const MaxEntries = 500

// ErrNotFound - запись с таким ID не найдена.
var ErrNotFound = errors.New("запись истории не найдена")

// Entry - одна расшифровка.
type Entry struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Store - история расшифровок.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS history (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	text       TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS history_created ON history(created_at);
`

// Open открывает (или создаёт) базу истории по пути path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("создание каталога истории: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("открытие %s: %w", path, err)
	}
	// SQLite не любит параллельных писателей
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("создание схемы истории: %w", err)
	}
	return &Store{db: db}, nil
}

// DefaultPath возвращает путь к базе истории рядом с файлом настроек.
func DefaultPath(settingsPath string) string {
	return filepath.Join(filepath.Dir(settingsPath), "history.db")
}

// Add добавляет расшифровку и удаляет записи сверх MaxEntries.
func (s *Store) Add(ctx context.Context, text string) (Entry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Entry{}, errors.New("пустой текст")
	}

	e := Entry{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: time.Now(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO history (id, text, created_at) VALUES (?, ?, ?)`,
		e.ID, e.Text, e.CreatedAt.UnixNano()); err != nil {
		return Entry{}, fmt.Errorf("добавление в историю: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM history WHERE seq NOT IN (SELECT seq FROM history ORDER BY seq DESC LIMIT ?)`,
		MaxEntries); err != nil {
		return Entry{}, fmt.Errorf("очистка истории: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Recent возвращает до limit последних записей, новые первыми.
// limit <= 0 - все записи.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = MaxEntries
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, created_at FROM history ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("чтение истории: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e  Entry
			ns int64
		)
		if err := rows.Scan(&e.ID, &e.Text, &ns); err != nil {
			return nil, err
		}
		e.CreatedAt = time.Unix(0, ns)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete удаляет запись по ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("удаление из истории: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear удаляет всю историю.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return fmt.Errorf("очистка истории: %w", err)
	}
	return nil
}

// Close закрывает базу.
func (s *Store) Close() error {
	return s.db.Close()
}
