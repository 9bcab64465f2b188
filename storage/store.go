// Package storage persists users, movies and comparison results in a local
// SQLite database.
//
// Persistence is a side effect of a successful comparison, not a correctness
// dependency: callers treat every method here as best-effort and keep
// functioning when the store is absent or failing.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/filmfusion/filmfusion/letterboxd"
)

// ErrNotFound indicates the requested row does not exist.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT UNIQUE NOT NULL,
	last_sync INTEGER
);

CREATE TABLE IF NOT EXISTS movies (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS user_movies (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER,
	user_id2 INTEGER,
	movie_id INTEGER,
	added_date INTEGER NOT NULL,
	FOREIGN KEY (user_id) REFERENCES users (id),
	FOREIGN KEY (user_id2) REFERENCES users (id),
	FOREIGN KEY (movie_id) REFERENCES movies (id)
);

CREATE TABLE IF NOT EXISTS common_movies (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user1_id INTEGER,
	user2_id INTEGER,
	movie_id INTEGER,
	movie_name TEXT NOT NULL,
	comparison_date INTEGER NOT NULL,
	FOREIGN KEY (user1_id) REFERENCES users (id),
	FOREIGN KEY (user2_id) REFERENCES users (id),
	FOREIGN KEY (movie_id) REFERENCES movies (id)
);
`

// User is a stored Letterboxd username.
type User struct {
	ID       int64
	Username string
	LastSync time.Time // zero when the user has never been synced
}

// Comparison is a stored comparison result for a pair of users.
type Comparison struct {
	Movies     []letterboxd.Movie
	ComparedAt time.Time
}

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema
// exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetUser returns the stored user for a username, or ErrNotFound.
func (s *Store) GetUser(ctx context.Context, username string) (User, error) {
	var user User
	var lastSync sql.NullInt64

	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, last_sync FROM users WHERE username = ?`, username)
	if err := row.Scan(&user.ID, &user.Username, &lastSync); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	if lastSync.Valid {
		user.LastSync = time.Unix(lastSync.Int64, 0)
	}
	return user, nil
}

// UpsertUser creates the user if missing and returns its id.
func (s *Store) UpsertUser(ctx context.Context, username string) (int64, error) {
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (username) VALUES (?)`, username); err != nil {
		return 0, err
	}

	var id int64
	row := s.db.QueryRowContext(ctx, `SELECT id FROM users WHERE username = ?`, username)
	if err := row.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// UpsertMovie creates the movie if missing and returns its id. Titles are
// matched exactly, as scraped.
func (s *Store) UpsertMovie(ctx context.Context, title string) (int64, error) {
	var id int64
	row := s.db.QueryRowContext(ctx, `SELECT id FROM movies WHERE title = ?`, title)
	err := row.Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, `INSERT INTO movies (title) VALUES (?)`, title)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// RecordUserMovie records that a movie is on username's watchlist, paired
// with the user it was compared against.
func (s *Store) RecordUserMovie(ctx context.Context, username, pairedWith string, movie letterboxd.Movie) error {
	userID, err := s.UpsertUser(ctx, username)
	if err != nil {
		return err
	}
	pairedID, err := s.UpsertUser(ctx, pairedWith)
	if err != nil {
		return err
	}
	movieID, err := s.UpsertMovie(ctx, movie.Title)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO user_movies (user_id, user_id2, movie_id, added_date) VALUES (?, ?, ?, ?)`,
		userID, pairedID, movieID, time.Now().Unix())
	return err
}

// TouchSyncTime updates the user's last sync timestamp to now.
func (s *Store) TouchSyncTime(ctx context.Context, username string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_sync = ? WHERE username = ?`, time.Now().Unix(), username)
	return err
}

// SaveComparison replaces the stored common movies for a pair of users. The
// pair is order-insensitive: a previous comparison of (b, a) is replaced as
// well.
func (s *Store) SaveComparison(ctx context.Context, userA, userB string, movies []letterboxd.Movie) error {
	userAID, err := s.UpsertUser(ctx, userA)
	if err != nil {
		return err
	}
	userBID, err := s.UpsertUser(ctx, userB)
	if err != nil {
		return err
	}

	// Resolve movie ids before opening the write transaction so all writes
	// below run on the same connection.
	movieIDs := make([]int64, len(movies))
	for i, movie := range movies {
		movieIDs[i], err = s.UpsertMovie(ctx, movie.Title)
		if err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM common_movies
		 WHERE (user1_id = ? AND user2_id = ?) OR (user1_id = ? AND user2_id = ?)`,
		userAID, userBID, userBID, userAID)
	if err != nil {
		return err
	}

	now := time.Now().Unix()
	for i, movie := range movies {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO common_movies (user1_id, user2_id, movie_id, movie_name, comparison_date)
			 VALUES (?, ?, ?, ?, ?)`,
			userAID, userBID, movieIDs[i], movie.Title, now)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadComparison returns the last saved comparison for a pair of users, in
// either order, or ErrNotFound when the pair has never been compared.
func (s *Store) LoadComparison(ctx context.Context, userA, userB string) (Comparison, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cm.movie_name, cm.comparison_date
		 FROM common_movies cm
		 JOIN users u1 ON cm.user1_id = u1.id
		 JOIN users u2 ON cm.user2_id = u2.id
		 WHERE (u1.username = ? AND u2.username = ?) OR (u1.username = ? AND u2.username = ?)
		 ORDER BY cm.id`,
		userA, userB, userB, userA)
	if err != nil {
		return Comparison{}, err
	}
	defer rows.Close()

	var comparison Comparison
	for rows.Next() {
		var title string
		var comparedAt int64
		if err := rows.Scan(&title, &comparedAt); err != nil {
			return Comparison{}, err
		}
		comparison.Movies = append(comparison.Movies, letterboxd.Movie{Title: title})
		comparison.ComparedAt = time.Unix(comparedAt, 0)
	}
	if err := rows.Err(); err != nil {
		return Comparison{}, err
	}
	if len(comparison.Movies) == 0 {
		return Comparison{}, ErrNotFound
	}
	return comparison, nil
}
