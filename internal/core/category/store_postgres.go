// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/quill/internal/platform/database/schema"
	"github.com/taibuivan/quill/internal/platform/dberr"
	"github.com/taibuivan/quill/internal/platform/postgres"
)

const resource = "Category"

// PostgresRepository implements [Repository] on core.category.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a [PostgresRepository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// columns renders the select list with an optional table alias.
func columns(alias string) string {
	c := schema.CoreCategory
	return fmt.Sprintf(`%[1]s%[2]s, %[1]s%[3]s, %[1]s%[4]s, %[1]s%[5]s, %[1]s%[6]s, %[1]s%[7]s::text[], %[1]s%[8]s, %[1]s%[9]s`,
		alias, c.ID, c.Name, c.Slug, c.Description, c.ImageFileID, c.Blogs, c.CreatedAt, c.UpdatedAt)
}

func scanCategory(row pgx.Row, extra ...any) (*Category, error) {
	category := &Category{}
	dest := append([]any{
		&category.ID, &category.Name, &category.Slug, &category.Description,
		&category.ImageFileID, &category.Blogs, &category.CreatedAt, &category.UpdatedAt,
	}, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if category.Blogs == nil {
		category.Blogs = []string{}
	}
	return category, nil
}

// publicBlog is the predicate for blogs shown to readers.
var publicBlog = fmt.Sprintf(`b.%s AND NOT b.%s`, schema.CoreBlog.IsPublished, schema.CoreBlog.IsPrivate)

func (repository *PostgresRepository) Create(context context.Context, category *Category) error {
	c := schema.CoreCategory
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.Table, c.ID, c.Name, c.Slug, c.Description, c.ImageFileID, c.CreatedAt, c.UpdatedAt)

	_, err := postgres.Conn(context, repository.pool).Exec(context, query,
		category.ID, category.Name, category.Slug, category.Description,
		category.ImageFileID, category.CreatedAt, category.UpdatedAt)
	return dberr.Wrap(err, resource)
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, columns(""), schema.CoreCategory.Table, schema.CoreCategory.ID)
	category, err := scanCategory(postgres.Conn(context, repository.pool).QueryRow(context, query, id))
	return category, dberr.Wrap(err, resource)
}

func (repository *PostgresRepository) FindByName(context context.Context, name string) (*Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE lower(%s) = lower($1)`, columns(""), schema.CoreCategory.Table, schema.CoreCategory.Name)
	category, err := scanCategory(postgres.Conn(context, repository.pool).QueryRow(context, query, name))
	return category, dberr.Wrap(err, resource)
}

func (repository *PostgresRepository) Lock(context context.Context, id string) (*Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`, columns(""), schema.CoreCategory.Table, schema.CoreCategory.ID)
	category, err := scanCategory(postgres.Conn(context, repository.pool).QueryRow(context, query, id))
	return category, dberr.Wrap(err, resource)
}

func (repository *PostgresRepository) List(context context.Context) ([]*Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC`, columns(""), schema.CoreCategory.Table, schema.CoreCategory.Name)

	rows, err := postgres.Conn(context, repository.pool).Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, resource)
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, dberr.Wrap(err, resource)
		}
		categories = append(categories, category)
	}
	return categories, dberr.Wrap(rows.Err(), resource)
}

func (repository *PostgresRepository) Update(context context.Context, category *Category) error {
	c := schema.CoreCategory
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6 WHERE %s = $1`,
		c.Table, c.Name, c.Slug, c.Description, c.ImageFileID, c.UpdatedAt, c.ID)

	result, err := postgres.Conn(context, repository.pool).Exec(context, query,
		category.ID, category.Name, category.Slug, category.Description, category.ImageFileID, category.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, resource)
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resource)
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreCategory.Table, schema.CoreCategory.ID)

	result, err := postgres.Conn(context, repository.pool).Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, resource)
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resource)
	}
	return nil
}

// # Listings

func (repository *PostgresRepository) ListWithPublishedBlogs(context context.Context) ([]*Listing, error) {
	c, b := schema.CoreCategory, schema.CoreBlog
	query := fmt.Sprintf(`
		SELECT %s, COUNT(b.%s)
		FROM %s c
		JOIN %s b ON b.%s = c.%s AND %s
		GROUP BY c.%s
		ORDER BY c.%s ASC`,
		columns("c."), b.ID,
		c.Table,
		b.Table, b.CategoryID, c.ID, publicBlog,
		c.ID,
		c.Name,
	)

	return repository.listings(context, query, false)
}

func (repository *PostgresRepository) ListWithLatestBlogs(context context.Context, limit int) ([]*Listing, error) {
	c, b := schema.CoreCategory, schema.CoreBlog

	// The lateral subqueries count the public blogs and embed the newest ones as JSON
	query := fmt.Sprintf(`
		SELECT %[1]s, counts.total, latest.blogs
		FROM %[2]s c
		JOIN LATERAL (
			SELECT COUNT(*) AS total FROM %[3]s b WHERE b.%[4]s = c.%[5]s AND %[6]s
		) counts ON counts.total > 0
		CROSS JOIN LATERAL (
			SELECT COALESCE(json_agg(json_build_object(
				'id', recent.%[7]s, 'title', recent.%[8]s, 'slug', recent.%[9]s,
				'image_file', recent.%[10]s, 'published_at', recent.%[11]s
			) ORDER BY recent.%[11]s DESC), '[]') AS blogs
			FROM (
				SELECT b.* FROM %[3]s b
				WHERE b.%[4]s = c.%[5]s AND %[6]s
				ORDER BY b.%[11]s DESC
				LIMIT $1
			) recent
		) latest
		ORDER BY c.%[12]s ASC`,
		columns("c."), c.Table,
		b.Table, b.CategoryID, c.ID, publicBlog,
		b.ID, b.Title, b.Slug, b.ImageFileID, b.PublishedAt,
		c.Name,
	)

	return repository.listings(context, query, true, limit)
}

func (repository *PostgresRepository) listings(context context.Context, query string, withLatest bool, args ...any) ([]*Listing, error) {
	rows, err := postgres.Conn(context, repository.pool).Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, resource)
	}
	defer rows.Close()

	listings := make([]*Listing, 0)
	for rows.Next() {
		var total int
		var latest []BlogSummary

		extra := []any{&total}
		if withLatest {
			extra = append(extra, &latest)
		}

		category, err := scanCategory(rows, extra...)
		if err != nil {
			return nil, dberr.Wrap(err, resource)
		}
		listings = append(listings, &Listing{Category: *category, PublishedBlogs: total, LatestBlogs: latest})
	}
	return listings, dberr.Wrap(rows.Err(), resource)
}
