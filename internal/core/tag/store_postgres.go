// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/quill/internal/platform/database/schema"
	"github.com/taibuivan/quill/internal/platform/dberr"
	"github.com/taibuivan/quill/internal/platform/postgres"
)

const resource = "Tag"

// PostgresRepository implements [Repository] on core.tag.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a [PostgresRepository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var selectColumns = fmt.Sprintf(`%s, %s, %s, %s::text[], %s, %s`,
	schema.CoreTag.ID, schema.CoreTag.Name, schema.CoreTag.Slug,
	schema.CoreTag.Blogs, schema.CoreTag.CreatedAt, schema.CoreTag.UpdatedAt)

func scanTag(row pgx.Row) (*Tag, error) {
	tag := &Tag{}
	if err := row.Scan(&tag.ID, &tag.Name, &tag.Slug, &tag.Blogs, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
		return nil, err
	}
	if tag.Blogs == nil {
		tag.Blogs = []string{}
	}
	return tag, nil
}

func (repository *PostgresRepository) Create(context context.Context, tag *Tag) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5)`,
		schema.CoreTag.Table,
		schema.CoreTag.ID, schema.CoreTag.Name, schema.CoreTag.Slug, schema.CoreTag.CreatedAt, schema.CoreTag.UpdatedAt)

	_, err := postgres.Conn(context, repository.pool).Exec(context, query,
		tag.ID, tag.Name, tag.Slug, tag.CreatedAt, tag.UpdatedAt)
	return dberr.Wrap(err, resource)
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Tag, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, schema.CoreTag.Table, schema.CoreTag.ID)
	tag, err := scanTag(postgres.Conn(context, repository.pool).QueryRow(context, query, id))
	return tag, dberr.Wrap(err, resource)
}

func (repository *PostgresRepository) FindByName(context context.Context, name string) (*Tag, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, schema.CoreTag.Table, schema.CoreTag.Name)
	tag, err := scanTag(postgres.Conn(context, repository.pool).QueryRow(context, query, name))
	return tag, dberr.Wrap(err, resource)
}

func (repository *PostgresRepository) Lock(context context.Context, id string) (*Tag, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`, selectColumns, schema.CoreTag.Table, schema.CoreTag.ID)
	tag, err := scanTag(postgres.Conn(context, repository.pool).QueryRow(context, query, id))
	return tag, dberr.Wrap(err, resource)
}

func (repository *PostgresRepository) List(context context.Context) ([]*Tag, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC`, selectColumns, schema.CoreTag.Table, schema.CoreTag.Name)

	rows, err := postgres.Conn(context, repository.pool).Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, resource)
	}
	defer rows.Close()

	tags := make([]*Tag, 0)
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, dberr.Wrap(err, resource)
		}
		tags = append(tags, tag)
	}
	return tags, dberr.Wrap(rows.Err(), resource)
}

func (repository *PostgresRepository) Update(context context.Context, tag *Tag) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4 WHERE %s = $1`,
		schema.CoreTag.Table,
		schema.CoreTag.Name, schema.CoreTag.Slug, schema.CoreTag.UpdatedAt, schema.CoreTag.ID)

	result, err := postgres.Conn(context, repository.pool).Exec(context, query, tag.ID, tag.Name, tag.Slug, tag.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, resource)
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resource)
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreTag.Table, schema.CoreTag.ID)

	result, err := postgres.Conn(context, repository.pool).Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, resource)
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resource)
	}
	return nil
}
