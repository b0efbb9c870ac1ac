// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package relation

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/quill/internal/platform/database/schema"
	"github.com/taibuivan/quill/internal/platform/dberr"
	"github.com/taibuivan/quill/internal/platform/postgres"
	"github.com/taibuivan/quill/pkg/uuid"
)

// column addresses one reference-carrying column. Element is the SQL type of
// a list element, or of the value itself for single-valued columns.
type column struct {
	table   string
	name    string
	element string
}

var tables = map[Kind]string{
	KindBlog:      schema.CoreBlog.Table,
	KindCategory:  schema.CoreCategory.Table,
	KindTag:       schema.CoreTag.Table,
	KindImageFile: schema.CoreImageFile.Table,
	KindComment:   schema.SocialComment.Table,
	KindAuthor:    schema.UsersAuthor.Table,
	KindViewer:    schema.UsersViewer.Table,
}

// listColumns whitelists the array columns that may be pushed to or pulled from.
var listColumns = map[Kind]map[Field]column{
	KindCategory:  {FieldBlogs: {schema.CoreCategory.Table, schema.CoreCategory.Blogs, "uuid"}},
	KindTag:       {FieldBlogs: {schema.CoreTag.Table, schema.CoreTag.Blogs, "uuid"}},
	KindImageFile: {FieldReferencedDocs: {schema.CoreImageFile.Table, schema.CoreImageFile.ReferencedDocs, "text"}},
	KindBlog:      {FieldComments: {schema.CoreBlog.Table, schema.CoreBlog.Comments, "uuid"}},
	KindComment:   {FieldReplies: {schema.SocialComment.Table, schema.SocialComment.Replies, "uuid"}},
	KindAuthor:    {FieldComments: {schema.UsersAuthor.Table, schema.UsersAuthor.Comments, "uuid"}},
	KindViewer:    {FieldComments: {schema.UsersViewer.Table, schema.UsersViewer.Comments, "uuid"}},
}

// scalarColumns whitelists the nullable single-valued columns that may be unset.
var scalarColumns = map[Kind]map[Field]column{
	KindBlog:     {FieldImageFile: {schema.CoreBlog.Table, schema.CoreBlog.ImageFileID, "uuid"}},
	KindCategory: {FieldImageFile: {schema.CoreCategory.Table, schema.CoreCategory.ImageFileID, "uuid"}},
	KindAuthor:   {FieldImageFile: {schema.UsersAuthor.Table, schema.UsersAuthor.ImageFileID, "uuid"}},
}

// PostgresStore implements [Store] and [Index] over the Quill tables.
//
// Statements run on the transaction carried by the context when there is one.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a [PostgresStore].
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// # Store

func (store *PostgresStore) Exists(ctx context.Context, target Ref) (bool, error) {
	table, ok := tables[target.Kind]
	if !ok {
		return false, fmt.Errorf("relation: unknown kind %q", target.Kind)
	}

	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, table)
	if err := postgres.Conn(ctx, store.pool).QueryRow(ctx, query, target.ID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, string(target.Kind))
	}
	return exists, nil
}

func (store *PostgresStore) Push(ctx context.Context, target Ref, field Field, value string) error {
	col, err := lookup(listColumns, target.Kind, field)
	if err != nil {
		return err
	}

	// Appending only when absent keeps the array a set
	query := fmt.Sprintf(`
		UPDATE %[1]s
		SET %[2]s = CASE WHEN $2::%[3]s = ANY(%[2]s) THEN %[2]s ELSE array_append(%[2]s, $2::%[3]s) END
		WHERE id = $1`,
		col.table, col.name, col.element)

	return store.exec(ctx, target, query, value)
}

func (store *PostgresStore) Pull(ctx context.Context, target Ref, field Field, value string) error {
	col, err := lookup(listColumns, target.Kind, field)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE %[1]s SET %[2]s = array_remove(%[2]s, $2::%[3]s) WHERE id = $1`,
		col.table, col.name, col.element)

	return store.exec(ctx, target, query, value)
}

func (store *PostgresStore) Unset(ctx context.Context, target Ref, field Field, value string) error {
	col, err := lookup(scalarColumns, target.Kind, field)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE %[1]s SET %[2]s = NULL WHERE id = $1 AND %[2]s = $2::%[3]s`,
		col.table, col.name, col.element)

	tag, err := postgres.Conn(ctx, store.pool).Exec(ctx, query, target.ID, value)
	if err != nil {
		return dberr.Wrap(err, string(target.Kind))
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// No row changed: either the document is gone or it points elsewhere now
	exists, err := store.Exists(ctx, target)
	if err != nil {
		return err
	}
	if !exists {
		return ErrTargetMissing
	}
	return nil
}

func (store *PostgresStore) exec(ctx context.Context, target Ref, query, value string) error {
	tag, err := postgres.Conn(ctx, store.pool).Exec(ctx, query, target.ID, value)
	if err != nil {
		return dberr.Wrap(err, string(target.Kind))
	}
	if tag.RowsAffected() == 0 {
		return ErrTargetMissing
	}
	return nil
}

// # Index

func (store *PostgresStore) Forward(ctx context.Context, inverse Inverse) (map[Ref]Set, error) {
	blog := schema.CoreBlog
	var query string

	switch inverse {
	case CategoryBlogs:
		query = fmt.Sprintf(`SELECT '%s', %s, ARRAY[%s]::text[] FROM %s WHERE %s IS NOT NULL`,
			KindBlog, blog.ID, blog.CategoryID, blog.Table, blog.CategoryID)
	case TagBlogs:
		query = fmt.Sprintf(`SELECT '%s', %s, %s::text[] FROM %s`,
			KindBlog, blog.ID, blog.Tags, blog.Table)
	case ImageReferences:
		category, author := schema.CoreCategory, schema.UsersAuthor
		query = fmt.Sprintf(`
			SELECT '%s', %s, ARRAY[%s]::text[] FROM %s WHERE %s IS NOT NULL
			UNION ALL
			SELECT '%s', %s, ARRAY[%s]::text[] FROM %s WHERE %s IS NOT NULL
			UNION ALL
			SELECT '%s', %s, ARRAY[%s]::text[] FROM %s WHERE %s IS NOT NULL`,
			KindBlog, blog.ID, blog.ImageFileID, blog.Table, blog.ImageFileID,
			KindCategory, category.ID, category.ImageFileID, category.Table, category.ImageFileID,
			KindAuthor, author.ID, author.ImageFileID, author.Table, author.ImageFileID,
		)
	default:
		return nil, fmt.Errorf("relation: no forward index for %s", inverse)
	}

	rows, err := postgres.Conn(ctx, store.pool).Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "relation")
	}
	defer rows.Close()

	forward := make(map[Ref]Set)
	for rows.Next() {
		var kind, id string
		var targets []string
		if err := rows.Scan(&kind, &id, &targets); err != nil {
			return nil, dberr.Wrap(err, "relation")
		}
		forward[Ref{Kind: Kind(kind), ID: id}] = NewSet(targets...)
	}
	return forward, dberr.Wrap(rows.Err(), "relation")
}

func (store *PostgresStore) Backward(ctx context.Context, inverse Inverse) (map[string]Set, error) {
	col, err := lookup(listColumns, inverse.Kind, inverse.Field)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id::text, %s::text[] FROM %s`, col.name, col.table)
	rows, err := postgres.Conn(ctx, store.pool).Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "relation")
	}
	defer rows.Close()

	backward := make(map[string]Set)
	for rows.Next() {
		var id string
		var values []string
		if err := rows.Scan(&id, &values); err != nil {
			return nil, dberr.Wrap(err, "relation")
		}
		backward[id] = NewSet(values...)
	}
	return backward, dberr.Wrap(rows.Err(), "relation")
}

// Observe locks the owner row with FOR UPDATE, so a caller inside a
// transaction holds it against concurrent service writes until commit.
func (store *PostgresStore) Observe(ctx context.Context, inverse Inverse, owner Ref) (Observation, error) {
	observation := Observation{Targets: Set{}, ListedBy: Set{}}

	source, err := forwardColumn(inverse, owner.Kind)
	if err != nil {
		return observation, err
	}
	target, err := lookup(listColumns, inverse.Kind, inverse.Field)
	if err != nil {
		return observation, err
	}
	conn := postgres.Conn(ctx, store.pool)

	// ── 1. Target side ──
	// Read before the owner: a service write committing in between leaves
	// only idempotent pushes and pulls against the owner state read below.
	selectListing := fmt.Sprintf(`SELECT id::text FROM %[1]s WHERE $1::%[3]s = ANY(%[2]s)`,
		target.table, target.name, target.element)

	rows, err := conn.Query(ctx, selectListing, inverse.ValueFor(owner))
	if err != nil {
		return observation, dberr.Wrap(err, "relation")
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return observation, dberr.Wrap(err, "relation")
		}
		observation.ListedBy.Add(id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return observation, dberr.Wrap(err, "relation")
	}

	// ── 2. Owner side ──
	// A malformed tagged ID can never name a row
	if !uuid.Valid(owner.ID) {
		return observation, nil
	}

	selectTargets := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 FOR UPDATE`, source.expr, source.table)

	var targets []string
	err = conn.QueryRow(ctx, selectTargets, owner.ID).Scan(&targets)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return observation, nil
	case err != nil:
		return observation, dberr.Wrap(err, "relation")
	}

	observation.Exists = true
	observation.Targets = NewSet(targets...)
	return observation, nil
}

// ownerColumn is the forward reference of one owner kind, read as text[].
type ownerColumn struct {
	table string
	expr  string
}

func forwardColumn(inverse Inverse, kind Kind) (ownerColumn, error) {
	blog := schema.CoreBlog
	switch {
	case inverse == CategoryBlogs && kind == KindBlog:
		return ownerColumn{blog.Table, fmt.Sprintf(`array_remove(ARRAY[%s::text], NULL)`, blog.CategoryID)}, nil
	case inverse == TagBlogs && kind == KindBlog:
		return ownerColumn{blog.Table, fmt.Sprintf(`%s::text[]`, blog.Tags)}, nil
	case inverse == ImageReferences:
		if col, ok := scalarColumns[kind][FieldImageFile]; ok {
			return ownerColumn{col.table, fmt.Sprintf(`array_remove(ARRAY[%s::text], NULL)`, col.name)}, nil
		}
	}
	return ownerColumn{}, fmt.Errorf("relation: %s cannot own %s", kind, inverse)
}

func lookup(columns map[Kind]map[Field]column, kind Kind, field Field) (column, error) {
	col, ok := columns[kind][field]
	if !ok {
		return column{}, fmt.Errorf("relation: %s has no reference field %q", kind, field)
	}
	return col, nil
}
