package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"rttrainer/pkg/db"
	"rttrainer/pkg/model"
)

// ErrNotFound is returned for missing records.
var ErrNotFound = errors.New("not found")

// Store composes all sub-interfaces.
// Consumers should depend on specific sub-interfaces when possible.
type Store interface {
	ScenarioStore
	AttemptStore
	CacheStore
	StateStore

	Close() error
}

// SQLiteStore implements Store.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a new store.
func NewSQLiteStore(db *db.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Scenario ---

func (s *SQLiteStore) SaveScenario(ctx context.Context, sc *Scenario) error {
	if sc.CreatedAt.IsZero() {
		sc.CreatedAt = time.Now().UTC()
	}
	wps, err := pack(sc.Waypoints)
	if err != nil {
		return fmt.Errorf("encode waypoints: %w", err)
	}
	pts, err := pack(sc.Points)
	if err != nil {
		return fmt.Errorf("encode points: %w", err)
	}

	query := `INSERT OR REPLACE INTO scenario
		(id, seed, callsign, prefix, aircraft_type, has_emergency, waypoints, points, point_count, data_version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query, sc.ID, sc.Seed, sc.Callsign, sc.Prefix, sc.AircraftType,
		sc.HasEmergency, wps, pts, len(sc.Points), sc.DataVersion, sc.CreatedAt)
	return err
}

func (s *SQLiteStore) GetScenario(ctx context.Context, id string) (*Scenario, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, seed, callsign, prefix, aircraft_type, has_emergency, waypoints, points, data_version, created_at
		 FROM scenario WHERE id = ?`, id)

	var (
		sc          Scenario
		wps, pts    []byte
		dataVersion sql.NullString
	)
	err := row.Scan(&sc.ID, &sc.Seed, &sc.Callsign, &sc.Prefix, &sc.AircraftType, &sc.HasEmergency,
		&wps, &pts, &dataVersion, &sc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scenario %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	sc.DataVersion = dataVersion.String
	if err := unpack(wps, &sc.Waypoints); err != nil {
		return nil, fmt.Errorf("decode waypoints: %w", err)
	}
	if err := unpack(pts, &sc.Points); err != nil {
		return nil, fmt.Errorf("decode points: %w", err)
	}
	return &sc, nil
}

func (s *SQLiteStore) ListScenarios(ctx context.Context, limit int) ([]ScenarioSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, seed, callsign, point_count, created_at FROM scenario ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ScenarioSummary
	for rows.Next() {
		var r ScenarioSummary
		if err := rows.Scan(&r.ID, &r.Seed, &r.Callsign, &r.Points, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// --- Attempts ---

func (s *SQLiteStore) SaveAttempt(ctx context.Context, a *model.Attempt) error {
	mistakes, err := json.Marshal(a.Mistakes)
	if err != nil {
		return err
	}
	r := a.Result()
	severe, minor := r.Count()
	if a.At.IsZero() {
		a.At = time.Now()
	}

	query := `INSERT INTO attempt (session_id, point_index, stage, call, mistakes, severe, minor, revealed, at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query, a.SessionID, a.Index, string(a.Stage), a.Call, string(mistakes),
		severe, minor, a.Revealed, a.At.UTC())
	return err
}

func (s *SQLiteStore) ListAttempts(ctx context.Context, sessionID string) ([]model.Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, point_index, stage, call, mistakes, revealed, at FROM attempt WHERE session_id = ? ORDER BY id`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Attempt
	for rows.Next() {
		var (
			a        model.Attempt
			stage    string
			mistakes sql.NullString
		)
		if err := rows.Scan(&a.SessionID, &a.Index, &stage, &a.Call, &mistakes, &a.Revealed, &a.At); err != nil {
			return nil, err
		}
		a.Stage = model.Stage(stage)
		if mistakes.Valid && mistakes.String != "" {
			if err := json.Unmarshal([]byte(mistakes.String), &a.Mistakes); err != nil {
				slog.Warn("Corrupt attempt mistakes", "session", sessionID, "error", err)
			}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// --- Cache ---

func (s *SQLiteStore) GetCache(ctx context.Context, key string) ([]byte, bool) {
	var val []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM cache WHERE key = ?", key).Scan(&val)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Debug("Cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	out, err := decompress(val)
	if err != nil {
		slog.Warn("Cache entry corrupt", "key", key, "error", err)
		return nil, false
	}
	return out, true
}

func (s *SQLiteStore) HasCache(ctx context.Context, key string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM cache WHERE key = ?", key).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLiteStore) SetCache(ctx context.Context, key string, val []byte) error {
	query := `INSERT OR REPLACE INTO cache (key, value, created_at) VALUES (?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, key, compress(val), time.Now().UTC())
	return err
}

func (s *SQLiteStore) ListCacheKeys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM cache WHERE key LIKE ? ORDER BY key", prefix+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// --- State ---

func (s *SQLiteStore) GetState(ctx context.Context, key string) (string, bool) {
	var val string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM persistent_state WHERE key = ?", key).Scan(&val)
	if err != nil {
		return "", false
	}
	return val, true
}

func (s *SQLiteStore) SetState(ctx context.Context, key, val string) error {
	_, err := s.db.ExecContext(ctx, "INSERT OR REPLACE INTO persistent_state (key, value, created_at) VALUES (?, ?, ?)", key, val, time.Now().UTC())
	return err
}

func (s *SQLiteStore) DeleteState(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM persistent_state WHERE key = ?", key)
	return err
}
