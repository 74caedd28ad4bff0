// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"portfolio/internal/models"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// Schema maps one record type onto its table. Columns excludes the id,
// which is always the first selected column.
type Schema[R any] struct {
	Table   string
	Columns []string
	OrderBy string
	// Scan reads id followed by Columns, in order.
	Scan func(row rowScanner) (R, error)
	// Values returns the values for Columns, in order.
	Values func(r R) []any
	// Search lists the SQL predicates, each over the query pattern $1,
	// used to prefilter search. Nil disables search for the kind.
	Search []string
	// Match is the exact filter applied after the SQL prefilter.
	Match func(r R, q string) bool
}

// Table is the Postgres backend of Store. One implementation serves every
// kind; the schema supplies the per-kind columns.
type Table[R any, C models.Creator[R], U models.Patcher[R]] struct {
	db     *sql.DB
	schema Schema[R]
	now    func() time.Time
}

// NewTable creates a Table over db for the given schema.
func NewTable[R any, C models.Creator[R], U models.Patcher[R]](db *sql.DB, schema Schema[R]) *Table[R, C, U] {
	return &Table[R, C, U]{db: db, schema: schema, now: time.Now}
}

func (t *Table[R, C, U]) selectSQL() string {
	return "SELECT id, " + strings.Join(t.schema.Columns, ", ") + " FROM " + t.schema.Table
}

func (t *Table[R, C, U]) returning() string {
	return " RETURNING id, " + strings.Join(t.schema.Columns, ", ")
}

func (t *Table[R, C, U]) fail(op string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrStorage, op, t.schema.Table, err)
}

// List returns all rows in the kind's default order.
func (t *Table[R, C, U]) List(ctx context.Context) ([]R, error) {
	return t.query(ctx, "list", t.selectSQL()+" ORDER BY "+t.schema.OrderBy)
}

func (t *Table[R, C, U]) query(ctx context.Context, op, query string, args ...any) ([]R, error) {
	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, t.fail(op, err)
	}
	defer rows.Close()

	out := []R{}
	for rows.Next() {
		r, err := t.schema.Scan(rows)
		if err != nil {
			return nil, t.fail("scan", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, t.fail(op, err)
	}
	return out, nil
}

// Get retrieves a row by id. Returns nil if not found.
func (t *Table[R, C, U]) Get(ctx context.Context, id int64) (*R, error) {
	r, err := t.schema.Scan(t.db.QueryRowContext(ctx, t.selectSQL()+" WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, t.fail("get", err)
	}
	return &r, nil
}

// Create inserts a row built from in and returns it as stored.
func (t *Table[R, C, U]) Create(ctx context.Context, in C) (*R, error) {
	rec := in.Record(0, t.now().UTC())
	query := "INSERT INTO " + t.schema.Table + " (" + strings.Join(t.schema.Columns, ", ") +
		") VALUES (" + placeholders(1, len(t.schema.Columns)) + ")" + t.returning()

	r, err := t.schema.Scan(t.db.QueryRowContext(ctx, query, t.schema.Values(rec)...))
	if err != nil {
		return nil, t.fail("create", err)
	}
	return &r, nil
}

// Update loads the row, applies the patch and writes every column back in
// one transaction. Concurrent writers are serialized by the row lock; the
// last one wins.
func (t *Table[R, C, U]) Update(ctx context.Context, id int64, patch U) (*R, error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, t.fail("update", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	cur, err := t.schema.Scan(tx.QueryRowContext(ctx, t.selectSQL()+" WHERE id = $1 FOR UPDATE", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, t.fail("update", err)
	}

	patch.Apply(&cur)

	sets := make([]string, len(t.schema.Columns))
	for i, col := range t.schema.Columns {
		sets[i] = col + " = $" + strconv.Itoa(i+1)
	}
	args := append(t.schema.Values(cur), id)
	query := "UPDATE " + t.schema.Table + " SET " + strings.Join(sets, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)) + t.returning()

	r, err := t.schema.Scan(tx.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, t.fail("update", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, t.fail("update", err)
	}
	return &r, nil
}

// Delete removes a row by id and reports whether one existed.
func (t *Table[R, C, U]) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := t.db.ExecContext(ctx, "DELETE FROM "+t.schema.Table+" WHERE id = $1", id)
	if err != nil {
		return false, t.fail("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, t.fail("delete", err)
	}
	return n > 0, nil
}

// Search prefilters rows with ILIKE on the decoded searchable strings, then
// applies the record's own matcher so both backends agree on the result.
func (t *Table[R, C, U]) Search(ctx context.Context, q string) ([]R, error) {
	q = strings.TrimSpace(q)
	if q == "" || len(t.schema.Search) == 0 {
		return t.List(ctx)
	}

	query := t.selectSQL() + " WHERE " + strings.Join(t.schema.Search, " OR ") + " ORDER BY " + t.schema.OrderBy

	rows, err := t.query(ctx, "search", query, "%"+likeEscaper.Replace(q)+"%")
	if err != nil {
		return nil, err
	}
	if t.schema.Match == nil {
		return rows, nil
	}
	out := rows[:0]
	for _, r := range rows {
		if t.schema.Match(r, q) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Search predicates. JSONB columns are matched on their decoded strings;
// casting them to text would compare against escaped JSON.

func textMatch(col string) string {
	return col + " ILIKE $1"
}

func tagsMatch(col string) string {
	return "EXISTS (SELECT 1 FROM jsonb_array_elements_text(" + col + ") AS t(tag) WHERE tag ILIKE $1)"
}

// blocksMatch covers text and code values and media captions, the same
// fields models.Matches inspects.
func blocksMatch(col string) string {
	return "EXISTS (SELECT 1 FROM jsonb_array_elements(" + col + ") AS b(block) " +
		"WHERE block->>'value' ILIKE $1 OR block->>'caption' ILIKE $1)"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func placeholders(from, n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = "$" + strconv.Itoa(from+i)
	}
	return strings.Join(ps, ", ")
}

// jsonb stores a Go value in a JSONB column.
type jsonb[T any] struct {
	v *T
}

func asJSON[T any](v *T) jsonb[T] {
	return jsonb[T]{v: v}
}

func (j jsonb[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(*j.v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (j jsonb[T]) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		var zero T
		*j.v = zero
		return nil
	case []byte:
		return json.Unmarshal(v, j.v)
	case string:
		return json.Unmarshal([]byte(v), j.v)
	default:
		return fmt.Errorf("cannot scan %T into jsonb", src)
	}
}
