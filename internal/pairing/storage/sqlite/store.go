// Package sqlite persists cross-match runs and their outputs to a SQLite
// database, one row per counterpart pair or field source, keyed by run ID.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/quasar-data/crossmatch/internal/pairing"
)

// Run represents one persisted cross-match run.
type Run struct {
	RunID        string          `json:"run_id"`
	ConfigJSON   json.RawMessage `json:"config_json,omitempty"`
	PairCount    int             `json:"pair_count"`
	AFieldCount  int             `json:"a_field_count"`
	BFieldCount  int             `json:"b_field_count"`
	WarningCount int             `json:"warning_count"`
	ElapsedMs    int64           `json:"elapsed_ms"`
	CreatedAt    int64           `json:"created_at"`
}

// Counterpart is one persisted counterpart pair with its diagnostics.
type Counterpart struct {
	RunID       string    `json:"run_id"`
	AIndex      int32     `json:"a_index"`
	BIndex      int32     `json:"b_index"`
	Posterior   float64   `json:"posterior"`
	Xi          float64   `json:"xi"`
	Eta         float64   `json:"eta"`
	AContamProb []float64 `json:"a_contam_prob"`
	BContamProb []float64 `json:"b_contam_prob"`
	AContamFlux float64   `json:"a_contam_flux"`
	BContamFlux float64   `json:"b_contam_flux"`
}

// FieldSource is one persisted unmatched source.
type FieldSource struct {
	RunID   string  `json:"run_id"`
	Catalog string  `json:"catalog"` // "a" or "b"
	Index   int32   `json:"index"`
	Prob    float64 `json:"prob"`
}

// Store provides persistence for cross-match results.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the results database at path and brings
// its schema up to date.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertRun persists a run record. If RunID is empty, a UUID is generated.
func (s *Store) InsertRun(run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixNano()
	}

	var configStr interface{}
	if len(run.ConfigJSON) > 0 {
		configStr = string(run.ConfigJSON)
	}

	return retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO match_runs (
				run_id, config_json, pair_count, a_field_count, b_field_count,
				warning_count, elapsed_ms, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, configStr, run.PairCount, run.AFieldCount, run.BFieldCount,
			run.WarningCount, run.ElapsedMs, run.CreatedAt,
		)
		return err
	})
}

// SaveResults persists every counterpart pair and field source of a run in a
// single transaction.
func (s *Store) SaveResults(runID string, res *pairing.Results) error {
	return retryOnBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		pairStmt, err := tx.Prepare(`
			INSERT INTO match_counterparts (
				run_id, a_index, b_index, posterior, xi, eta,
				a_contam_prob, b_contam_prob, a_contam_flux, b_contam_flux
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer pairStmt.Close()
		for k := range res.AC {
			aProb, err := json.Marshal(res.AContamProb[k])
			if err != nil {
				return fmt.Errorf("marshal contamination probabilities: %w", err)
			}
			bProb, err := json.Marshal(res.BContamProb[k])
			if err != nil {
				return fmt.Errorf("marshal contamination probabilities: %w", err)
			}
			if _, err := pairStmt.Exec(
				runID, res.AC[k], res.BC[k], res.Posterior[k], res.Xi[k], res.Eta[k],
				string(aProb), string(bProb), res.AContamFlux[k], res.BContamFlux[k],
			); err != nil {
				return err
			}
		}

		fieldStmt, err := tx.Prepare(`
			INSERT INTO match_field_sources (run_id, catalog, source_index, prob)
			VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer fieldStmt.Close()
		for k, idx := range res.AField {
			if _, err := fieldStmt.Exec(runID, "a", idx, res.AFieldProb[k]); err != nil {
				return err
			}
		}
		for k, idx := range res.BField {
			if _, err := fieldStmt.Exec(runID, "b", idx, res.BFieldProb[k]); err != nil {
				return err
			}
		}

		return tx.Commit()
	})
}

// GetRun returns a single run by ID.
func (s *Store) GetRun(runID string) (*Run, error) {
	row := s.db.QueryRow(`
		SELECT run_id, config_json, pair_count, a_field_count, b_field_count,
		       warning_count, elapsed_ms, created_at
		FROM match_runs
		WHERE run_id = ?`, runID)

	var r Run
	var configStr sql.NullString
	err := row.Scan(&r.RunID, &configStr, &r.PairCount, &r.AFieldCount,
		&r.BFieldCount, &r.WarningCount, &r.ElapsedMs, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	if configStr.Valid {
		r.ConfigJSON = json.RawMessage(configStr.String)
	}
	return &r, nil
}

// ListRuns returns all runs ordered by creation time descending.
func (s *Store) ListRuns() ([]*Run, error) {
	rows, err := s.db.Query(`
		SELECT run_id, config_json, pair_count, a_field_count, b_field_count,
		       warning_count, elapsed_ms, created_at
		FROM match_runs
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var r Run
		var configStr sql.NullString
		if err := rows.Scan(&r.RunID, &configStr, &r.PairCount, &r.AFieldCount,
			&r.BFieldCount, &r.WarningCount, &r.ElapsedMs, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if configStr.Valid {
			r.ConfigJSON = json.RawMessage(configStr.String)
		}
		runs = append(runs, &r)
	}
	return runs, rows.Err()
}

// CounterpartsByRun returns every counterpart pair of a run, ordered by
// catalogue-a index.
func (s *Store) CounterpartsByRun(runID string) ([]*Counterpart, error) {
	rows, err := s.db.Query(`
		SELECT run_id, a_index, b_index, posterior, xi, eta,
		       a_contam_prob, b_contam_prob, a_contam_flux, b_contam_flux
		FROM match_counterparts
		WHERE run_id = ?
		ORDER BY a_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("query counterparts: %w", err)
	}
	defer rows.Close()

	var pairs []*Counterpart
	for rows.Next() {
		var c Counterpart
		var aProb, bProb string
		if err := rows.Scan(&c.RunID, &c.AIndex, &c.BIndex, &c.Posterior, &c.Xi, &c.Eta,
			&aProb, &bProb, &c.AContamFlux, &c.BContamFlux); err != nil {
			return nil, fmt.Errorf("scan counterpart: %w", err)
		}
		if err := json.Unmarshal([]byte(aProb), &c.AContamProb); err != nil {
			return nil, fmt.Errorf("unmarshal contamination probabilities: %w", err)
		}
		if err := json.Unmarshal([]byte(bProb), &c.BContamProb); err != nil {
			return nil, fmt.Errorf("unmarshal contamination probabilities: %w", err)
		}
		pairs = append(pairs, &c)
	}
	return pairs, rows.Err()
}

// FieldSourcesByRun returns every unmatched source of a run for one
// catalogue side ("a" or "b"), ordered by source index.
func (s *Store) FieldSourcesByRun(runID, catalog string) ([]*FieldSource, error) {
	rows, err := s.db.Query(`
		SELECT run_id, catalog, source_index, prob
		FROM match_field_sources
		WHERE run_id = ? AND catalog = ?
		ORDER BY source_index`, runID, catalog)
	if err != nil {
		return nil, fmt.Errorf("query field sources: %w", err)
	}
	defer rows.Close()

	var fields []*FieldSource
	for rows.Next() {
		var f FieldSource
		if err := rows.Scan(&f.RunID, &f.Catalog, &f.Index, &f.Prob); err != nil {
			return nil, fmt.Errorf("scan field source: %w", err)
		}
		fields = append(fields, &f)
	}
	return fields, rows.Err()
}
