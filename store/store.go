// ABOUTME: SQLite cache of song metadata keyed by file path and modification time
// ABOUTME: Lets library scans skip re-reading tags of files that did not change

// Package store persists song metadata between runs.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"medialib/media"
)

const schemaVersion = 1

// Store is the song metadata cache
type Store struct {
	conn   *sql.DB
	logger *slog.Logger
	dbPath string
}

// Open opens or creates the cache database at dbPath
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// One connection serializes writers from the scan workers
	conn.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA cache_size=-8000",
	}

	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()

			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{conn: conn, logger: logger, dbPath: dbPath}

	if err := s.initializeSchema(); err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	logger.Debug("song cache opened", "path", dbPath)

	return s, nil
}

func (s *Store) initializeSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS songs (
			path TEXT PRIMARY KEY,
			mtime INTEGER NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			artist TEXT NOT NULL DEFAULT '',
			album_artist TEXT NOT NULL DEFAULT '',
			album TEXT NOT NULL DEFAULT '',
			genres TEXT NOT NULL DEFAULT '',
			disc INTEGER NOT NULL DEFAULT 0,
			track INTEGER NOT NULL DEFAULT 0,
			year INTEGER NOT NULL DEFAULT 0,
			length_ms INTEGER NOT NULL DEFAULT 0,
			rating INTEGER NOT NULL DEFAULT 0,
			bitrate INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);
	`

	if _, err := s.conn.Exec(schema); err != nil {
		return err
	}

	_, err := s.conn.Exec(`INSERT OR REPLACE INTO schema_version (version) VALUES (?)`, schemaVersion)

	return err
}

// Path returns the database file location
func (s *Store) Path() string {
	return s.dbPath
}

// Get returns the cached song for path if it was stored with the same modification time
func (s *Store) Get(ctx context.Context, path string, mtime time.Time) (*media.Song, bool, error) {
	row := s.conn.QueryRowContext(ctx, `
		SELECT mtime, title, artist, album_artist, album, genres, disc, track, year, length_ms, rating, bitrate
		FROM songs WHERE path = ?
	`, path)

	var (
		storedMtime int64
		genres      string
		lengthMs    int64
	)

	song := media.NewSong(path)

	err := row.Scan(
		&storedMtime,
		&song.Title,
		&song.Artist,
		&song.AlbumArtist,
		&song.Album,
		&genres,
		&song.Disc,
		&song.Track,
		&song.Year,
		&lengthMs,
		&song.Rating,
		&song.Bitrate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("failed to query song: %w", err)
	}

	if storedMtime != mtime.UnixNano() {
		return nil, false, nil
	}

	song.Genres = media.SplitGenres(genres)
	song.Length = time.Duration(lengthMs) * time.Millisecond

	return song, true, nil
}

// Put stores song under its location with mtime
func (s *Store) Put(ctx context.Context, song *media.Song, mtime time.Time) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO songs
			(path, mtime, title, artist, album_artist, album, genres, disc, track, year, length_ms, rating, bitrate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		song.Location,
		mtime.UnixNano(),
		song.Title,
		song.Artist,
		song.AlbumArtist,
		song.Album,
		strings.Join(song.Genres, "; "),
		song.Disc,
		song.Track,
		song.Year,
		song.Length.Milliseconds(),
		song.Rating,
		song.Bitrate,
	)
	if err != nil {
		return fmt.Errorf("failed to store song: %w", err)
	}

	return nil
}

// Delete drops the cached entry for path
func (s *Store) Delete(ctx context.Context, path string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM songs WHERE path = ?`, path); err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	return nil
}

// Count returns the number of cached songs
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM songs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count songs: %w", err)
	}

	return n, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}

	return nil
}
