package docstore

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SQLStore keeps every collection in the documents table.
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Collection(name string) Collection {
	return &sqlCollection{db: s.db, name: name}
}

func (s *SQLStore) Ping(ctx context.Context) error {
	var n int
	return s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM documents WHERE collection = ''`)
}

type sqlCollection struct {
	db   *sqlx.DB
	name string
}

type docRow struct {
	ID        string `db:"id"`
	Data      string `db:"data"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

func (r docRow) document(coll string) (Document, error) {
	d := Document{ID: r.ID, Data: json.RawMessage(r.Data)}
	var err error
	if d.CreateTime, err = time.Parse(time.RFC3339Nano, r.CreatedAt); err != nil {
		return Document{}, fmt.Errorf("docstore: %s/%s created_at: %w", coll, r.ID, err)
	}
	if r.UpdatedAt != "" {
		if d.UpdateTime, err = time.Parse(time.RFC3339Nano, r.UpdatedAt); err != nil {
			return Document{}, fmt.Errorf("docstore: %s/%s updated_at: %w", coll, r.ID, err)
		}
	}
	return d, nil
}

const selectDocs = `
  SELECT id, data, created_at, COALESCE(updated_at,'') AS updated_at
  FROM documents
  WHERE collection = ?`

func (c *sqlCollection) Get(ctx context.Context, id string) (Document, error) {
	var r docRow
	err := c.db.GetContext(ctx, &r, selectDocs+` AND id = ?`, c.name, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("%w: %s/%s", ErrNotFound, c.name, id)
	}
	if err != nil {
		return Document{}, fmt.Errorf("docstore: get %s/%s: %w", c.name, id, err)
	}
	return r.document(c.name)
}

func (c *sqlCollection) List(ctx context.Context, q Query) ([]Document, error) {
	where, args, err := whereClause(q.Filters)
	if err != nil {
		return nil, err
	}
	query := selectDocs + where
	args = append([]any{c.name}, args...)

	if q.OrderBy != "" {
		path, err := jsonPath(q.OrderBy)
		if err != nil {
			return nil, err
		}
		dir := "ASC"
		if q.Dir == Desc {
			dir = "DESC"
		}
		query += ` ORDER BY json_extract(data, ?) ` + dir + `, rowid`
		args = append(args, path)
	} else {
		query += ` ORDER BY rowid`
	}

	switch {
	case q.Limit > 0:
		query += ` LIMIT ? OFFSET ?`
		args = append(args, q.Limit, q.Offset)
	case q.Offset > 0:
		query += ` LIMIT -1 OFFSET ?`
		args = append(args, q.Offset)
	}

	var rows []docRow
	if err := c.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("docstore: list %s: %w", c.name, err)
	}
	out := make([]Document, 0, len(rows))
	for _, r := range rows {
		d, err := r.document(c.name)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (c *sqlCollection) Count(ctx context.Context, filters ...Filter) (int, error) {
	where, args, err := whereClause(filters)
	if err != nil {
		return 0, err
	}
	var n int
	err = c.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM documents WHERE collection = ?`+where,
		append([]any{c.name}, args...)...)
	if err != nil {
		return 0, fmt.Errorf("docstore: count %s: %w", c.name, err)
	}
	return n, nil
}

func (c *sqlCollection) Add(ctx context.Context, data any) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("docstore: encode %s: %w", c.name, err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(b), []byte("{")) {
		return "", fmt.Errorf("docstore: %s documents must be JSON objects", c.name)
	}
	id := uuid.NewString()
	_, err = c.db.ExecContext(ctx, `
	  INSERT INTO documents(collection, id, data, created_at)
	  VALUES (?, ?, ?, ?)
	`, c.name, id, string(b), now())
	if err != nil {
		return "", fmt.Errorf("docstore: add %s: %w", c.name, err)
	}
	return id, nil
}

func (c *sqlCollection) Update(ctx context.Context, id string, fields map[string]any) error {
	b, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("docstore: encode %s/%s: %w", c.name, id, err)
	}
	res, err := c.db.ExecContext(ctx, `
	  UPDATE documents
	  SET data = json_patch(data, ?), updated_at = ?
	  WHERE collection = ? AND id = ?
	`, string(b), now(), c.name, id)
	if err != nil {
		return fmt.Errorf("docstore: update %s/%s: %w", c.name, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, c.name, id)
	}
	return nil
}

func (c *sqlCollection) Delete(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = ? AND id = ?`, c.name, id)
	if err != nil {
		return fmt.Errorf("docstore: delete %s/%s: %w", c.name, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, c.name, id)
	}
	return nil
}

// whereClause compares extracted fields against the JSON encoding of each
// value, so booleans, numbers and strings match the way they were stored.
func whereClause(filters []Filter) (string, []any, error) {
	var sb strings.Builder
	args := make([]any, 0, len(filters)*2)
	for _, f := range filters {
		path, err := jsonPath(f.Field)
		if err != nil {
			return "", nil, err
		}
		op, ok := sqlOps[f.Op]
		if !ok {
			return "", nil, fmt.Errorf("docstore: unsupported operator %q", f.Op)
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return "", nil, fmt.Errorf("docstore: encode filter %s: %w", f.Field, err)
		}
		sb.WriteString(` AND json_extract(data, ?) ` + op + ` json_extract(?, '$')`)
		args = append(args, path, string(v))
	}
	return sb.String(), args, nil
}

func now() string { return time.Now().UTC().Format(time.RFC3339Nano) }
