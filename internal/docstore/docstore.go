// Package docstore is a small document database: named collections of
// schema-free JSON records addressed by a generated id.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"
)

var ErrNotFound = errors.New("document not found")

type Direction int

const (
	Asc Direction = iota
	Desc
)

// Filter compares a top-level or dotted field path against Value.
// Op is one of ==, !=, <, <=, >, >=.
type Filter struct {
	Field string
	Op    string
	Value any
}

type Query struct {
	Filters []Filter
	OrderBy string
	Dir     Direction
	Limit   int // 0 means no limit
	Offset  int
}

// Where is shorthand for a single-filter query.
func Where(field, op string, value any) Query {
	return Query{Filters: []Filter{{Field: field, Op: op, Value: value}}}
}

type Document struct {
	ID         string
	Data       json.RawMessage
	CreateTime time.Time
	UpdateTime time.Time
}

// DataTo decodes the document body into v.
func (d Document) DataTo(v any) error {
	return json.Unmarshal(d.Data, v)
}

type Collection interface {
	Get(ctx context.Context, id string) (Document, error)
	List(ctx context.Context, q Query) ([]Document, error)
	Count(ctx context.Context, filters ...Filter) (int, error)
	Add(ctx context.Context, data any) (string, error)
	// Update merges fields into the stored document. Slices and nested
	// objects given here replace the stored value wholesale.
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

type Store interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
}

var rePath = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

var sqlOps = map[string]string{
	"==": "=",
	"!=": "!=",
	"<":  "<",
	"<=": "<=",
	">":  ">",
	">=": ">=",
}

func jsonPath(field string) (string, error) {
	if !rePath.MatchString(field) {
		return "", fmt.Errorf("docstore: invalid field path %q", field)
	}
	return "$." + field, nil
}
