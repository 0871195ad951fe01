// Package freq is the read-only adapter over SQLite frequency databases. A
// frequency database has one table (default "frequency") with at minimum a
// lemma TEXT column; rank and per-million-word columns are optional and the
// store degrades through documented fallbacks when they are absent.
package freq

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// ErrResourceNotFound is returned by Open when the database file is missing.
var ErrResourceNotFound = errors.New("frequency database not found")

// Defaults for the common frequency-pack schema.
const (
	DefaultTable       = "frequency"
	DefaultLemmaColumn = "lemma"
	DefaultRankColumn  = "rank"
	DefaultPmwColumn   = "pmw"
)

// valueFallbacks is the preference order tried when the requested value
// column does not exist in the table.
var valueFallbacks = []string{"pmw", "frequency", "freq", "freq_per_million", "count"}

// Store wraps one frequency table. Lookups are cached; a SQLite error on a
// point query is reported as "absent" rather than surfaced, so malformed
// rows never leak past the adapter.
type Store struct {
	db          *sql.DB
	table       string
	lemmaColumn string

	columns  []string
	maxCache map[string]*float64
	valCache map[string]*float64
}

// Open opens the database at path read-only. A missing file is
// ErrResourceNotFound; an unreadable schema is returned as-is.
func Open(path, table, lemmaColumn string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, path)
		}
		return nil, err
	}
	dsn := "file:" + url.PathEscape(path) + "?mode=ro"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open frequency db %s: %w", path, err)
	}
	store, err := New(db, table, lemmaColumn)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an already-open connection. Tests use this with an in-memory
// database. The Store takes ownership of db.
func New(db *sql.DB, table, lemmaColumn string) (*Store, error) {
	if table == "" {
		table = DefaultTable
	}
	if lemmaColumn == "" {
		lemmaColumn = DefaultLemmaColumn
	}
	s := &Store{
		db:          db,
		table:       table,
		lemmaColumn: lemmaColumn,
		maxCache:    make(map[string]*float64),
		valCache:    make(map[string]*float64),
	}
	cols, err := s.loadColumns()
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %q has no columns", table)
	}
	s.columns = cols
	return s, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) loadColumns() ([]string, error) {
	rows, err := s.db.Query(fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdent(s.table)))
	if err != nil {
		return nil, fmt.Errorf("inspect table %q: %w", s.table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var cid int
		var name, ctype string
		var notNull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

// ColumnNames returns the table's columns in declaration order.
func (s *Store) ColumnNames() []string {
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

func (s *Store) hasColumn(name string) bool {
	for _, c := range s.columns {
		if c == name {
			return true
		}
	}
	return false
}

// MaxValue returns the maximum non-null value of column, nil when the column
// is absent, empty, or the query fails. Results are cached per column.
func (s *Store) MaxValue(column string) *float64 {
	if v, ok := s.maxCache[column]; ok {
		return v
	}
	var result *float64
	if s.hasColumn(column) {
		var max sql.NullFloat64
		query := fmt.Sprintf(`SELECT MAX(%s) FROM %s WHERE %s IS NOT NULL`,
			quoteIdent(column), quoteIdent(s.table), quoteIdent(column))
		if err := s.db.QueryRow(query).Scan(&max); err == nil && max.Valid {
			v := max.Float64
			result = &v
		}
	}
	s.maxCache[column] = result
	return result
}

// GetValue returns the value of column for the row whose lemma column equals
// lemma exactly, nil when absent. Results are cached per (lemma, column).
func (s *Store) GetValue(lemma, column string) *float64 {
	key := lemma + "\x00" + column
	if v, ok := s.valCache[key]; ok {
		return v
	}
	var result *float64
	if s.hasColumn(column) {
		var val sql.NullFloat64
		query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ? LIMIT 1`,
			quoteIdent(column), quoteIdent(s.table), quoteIdent(s.lemmaColumn))
		if err := s.db.QueryRow(query, lemma).Scan(&val); err == nil && val.Valid {
			v := val.Float64
			result = &v
		}
	}
	s.valCache[key] = result
	return result
}

// resolveValueColumn picks the value column actually used for iteration:
// the requested one when present, then the preferred fallbacks, then the
// first non-key column, then the first column.
func (s *Store) resolveValueColumn(requested string) string {
	if requested != "" && s.hasColumn(requested) {
		return requested
	}
	for _, c := range valueFallbacks {
		if s.hasColumn(c) {
			return c
		}
	}
	for _, c := range s.columns {
		if c != s.lemmaColumn && c != "id" {
			return c
		}
	}
	return s.columns[0]
}

// resolveRankColumn picks the rank column: the requested one when present,
// then "id", then SQLite's implicit rowid.
func (s *Store) resolveRankColumn(requested string) string {
	if requested != "" && s.hasColumn(requested) {
		return requested
	}
	if s.hasColumn("id") {
		return "id"
	}
	return "rowid"
}

// Row is one frequency table row surfaced by IterTopByRank. Rank and Value
// are nil where the underlying cell is NULL. Extra holds the requested extra
// columns as raw text.
type Row struct {
	Lemma string
	Rank  *float64
	Value *float64
	Extra map[string]*string

	// The columns the store actually read, after fallback resolution.
	RankColumn  string
	ValueColumn string
}

// IterTopByRank returns up to limit rows ordered by rank ascending with NULL
// ranks sorting last; ties break by the value column descending. The rows
// come back as a slice so the connection is free before any output is
// written.
func (s *Store) IterTopByRank(limit int, rankColumn, valueColumn string, extraColumns []string) ([]Row, error) {
	if limit <= 0 {
		return nil, nil
	}
	rankCol := s.resolveRankColumn(rankColumn)
	valueCol := s.resolveValueColumn(valueColumn)

	selectCols := []string{quoteIdent(s.lemmaColumn), quoteIdent(rankCol), quoteIdent(valueCol)}
	var extras []string
	for _, c := range extraColumns {
		if s.hasColumn(c) && c != s.lemmaColumn && c != rankCol && c != valueCol {
			extras = append(extras, c)
			selectCols = append(selectCols, quoteIdent(c))
		}
	}

	query := fmt.Sprintf(
		`SELECT %s FROM %s ORDER BY (%s IS NULL) ASC, %s ASC, %s DESC LIMIT ?`,
		strings.Join(selectCols, ", "), quoteIdent(s.table),
		quoteIdent(rankCol), quoteIdent(rankCol), quoteIdent(valueCol))

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("iterate %s by %s: %w", s.table, rankCol, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var lemma sql.NullString
		var rank, value sql.NullFloat64
		scan := []any{&lemma, &rank, &value}
		extraVals := make([]sql.NullString, len(extras))
		for i := range extraVals {
			scan = append(scan, &extraVals[i])
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, err
		}
		r := Row{Lemma: lemma.String, RankColumn: rankCol, ValueColumn: valueCol}
		if rank.Valid {
			v := rank.Float64
			r.Rank = &v
		}
		if value.Valid {
			v := value.Float64
			r.Value = &v
		}
		if len(extras) > 0 {
			r.Extra = make(map[string]*string, len(extras))
			for i, c := range extras {
				if extraVals[i].Valid {
					v := extraVals[i].String
					r.Extra[c] = &v
				} else {
					r.Extra[c] = nil
				}
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// quoteIdent double-quotes a SQL identifier so column names read from the
// schema can be interpolated safely.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
