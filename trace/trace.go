// Package trace persists optimization runs to sqlite for post-hoc analysis.
package trace

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const (
	tableEvals  = "evals"
	tableResult = "result"
)

// Store records every objective evaluation of a run and its final result.
type Store struct {
	Path string

	db *sql.DB
}

// Eval is one recorded objective evaluation.
type Eval struct {
	N      int
	Params []float64
	Energy float64
	Err    string
}

// Open creates a store at dbPath, dropping any previous run recorded there.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s", dbPath))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	if err := prepareDB(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "")
	}
	return &Store{Path: dbPath, db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordEval stores the n-th objective evaluation.
// evalErr may be nil for successful evaluations.
func (s *Store) RecordEval(ctx context.Context, n int, params []float64, energy float64, evalErr error) error {
	var errStr string
	if evalErr != nil {
		errStr = evalErr.Error()
	}
	// Failed evaluations may carry NaN, which sqlite cannot store.
	if math.IsNaN(energy) {
		energy = 0
	}
	sqlStr := fmt.Sprintf(`INSERT OR REPLACE INTO %s (n, params, energy, err) VALUES (?, ?, ?, ?)`, tableEvals)
	if _, err := s.db.ExecContext(ctx, sqlStr, n, formatParams(params), energy, errStr); err != nil {
		return errors.Wrap(err, fmt.Sprintf("%d %v", n, params))
	}
	return nil
}

// RecordResult stores the final outcome of the run.
func (s *Store) RecordResult(ctx context.Context, params []float64, energy float64, evaluations int, status string) error {
	sqlStr := fmt.Sprintf(`INSERT OR REPLACE INTO %s (id, params, energy, evaluations, status) VALUES (0, ?, ?, ?, ?)`, tableResult)
	if _, err := s.db.ExecContext(ctx, sqlStr, formatParams(params), energy, evaluations, status); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

// Evals reads back the recorded evaluations in order.
func (s *Store) Evals(ctx context.Context) ([]Eval, error) {
	sqlStr := fmt.Sprintf(`SELECT n, params, energy, err FROM %s ORDER BY n`, tableEvals)
	rows, err := s.db.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	defer rows.Close()

	evals := make([]Eval, 0)
	for rows.Next() {
		var e Eval
		var params string
		if err := rows.Scan(&e.N, &params, &e.Energy, &e.Err); err != nil {
			return nil, errors.Wrap(err, "")
		}
		e.Params, err = parseParams(params)
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
		evals = append(evals, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return evals, nil
}

func formatParams(params []float64) string {
	ss := make([]string, 0, len(params))
	for _, p := range params {
		ss = append(ss, strconv.FormatFloat(p, 'g', -1, 64))
	}
	return strings.Join(ss, ",")
}

func parseParams(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	ss := strings.Split(s, ",")
	params := make([]float64, 0, len(ss))
	for _, v := range ss {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("%q", s))
		}
		params = append(params, p)
	}
	return params, nil
}

func prepareDB(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	for _, sqlStr := range []string{
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, tableEvals),
		fmt.Sprintf(`CREATE TABLE %s (n INTEGER PRIMARY KEY, params TEXT, energy REAL, err TEXT) STRICT`, tableEvals),
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, tableResult),
		fmt.Sprintf(`CREATE TABLE %s (id INTEGER PRIMARY KEY, params TEXT, energy REAL, evaluations INTEGER, status TEXT) STRICT`, tableResult),
	} {
		if _, err := db.ExecContext(ctx, sqlStr); err != nil {
			return errors.Wrap(err, sqlStr)
		}
	}
	return nil
}
