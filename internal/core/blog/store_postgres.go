// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/quill/internal/core/relation"
	"github.com/taibuivan/quill/internal/platform/database/schema"
	"github.com/taibuivan/quill/internal/platform/dberr"
	"github.com/taibuivan/quill/internal/platform/postgres"
	"github.com/taibuivan/quill/pkg/pagination"
)

const resource = "Blog"

// PostgresRepository implements [Repository] on core.blog.
//
// Tags and likes are uuid[] columns holding sets; the application never
// writes a repeated element into them.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a [PostgresRepository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var selectColumns = func() string {
	b := schema.CoreBlog
	return fmt.Sprintf(`%s, %s, %s, %s, %s, %s, %s, %s::text[], %s::text[], %s::text[], %s, %s, %s, %s, %s`,
		b.ID, b.Title, b.Slug, b.Content, b.AuthorID, b.ImageFileID, b.CategoryID,
		b.Tags, b.Likes, b.Comments,
		b.IsPrivate, b.IsPublished, b.PublishedAt, b.CreatedAt, b.UpdatedAt)
}()

func scanBlog(row pgx.Row, extra ...any) (*Blog, error) {
	blog := &Blog{}
	var tags, likes []string

	dest := append([]any{
		&blog.ID, &blog.Title, &blog.Slug, &blog.Content, &blog.AuthorID, &blog.ImageFileID, &blog.CategoryID,
		&tags, &likes, &blog.Comments,
		&blog.IsPrivate, &blog.IsPublished, &blog.PublishedAt, &blog.CreatedAt, &blog.UpdatedAt,
	}, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	blog.Tags = relation.NewSet(tags...)
	blog.Likes = relation.NewSet(likes...)
	if blog.Comments == nil {
		blog.Comments = []string{}
	}
	return blog, nil
}

func (repository *PostgresRepository) Create(context context.Context, blog *Blog) error {
	b := schema.CoreBlog
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		b.Table,
		b.ID, b.Title, b.Slug, b.Content, b.AuthorID, b.ImageFileID, b.CategoryID,
		b.Tags, b.Likes, b.IsPrivate, b.IsPublished, b.PublishedAt, b.CreatedAt, b.UpdatedAt,
	)

	_, err := postgres.Conn(context, repository.pool).Exec(context, query,
		blog.ID, blog.Title, blog.Slug, blog.Content, blog.AuthorID, blog.ImageFileID, blog.CategoryID,
		blog.Tags.Slice(), blog.Likes.Slice(), blog.IsPrivate, blog.IsPublished, blog.PublishedAt,
		blog.CreatedAt, blog.UpdatedAt,
	)
	return dberr.Wrap(err, resource)
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Blog, error) {
	return repository.findOne(context, schema.CoreBlog.ID, id, "")
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Blog, error) {
	return repository.findOne(context, schema.CoreBlog.Slug, slug, "")
}

func (repository *PostgresRepository) Lock(context context.Context, id string) (*Blog, error) {
	return repository.findOne(context, schema.CoreBlog.ID, id, "FOR UPDATE")
}

func (repository *PostgresRepository) findOne(context context.Context, column, value, suffix string) (*Blog, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 %s`, selectColumns, schema.CoreBlog.Table, column, suffix)
	blog, err := scanBlog(postgres.Conn(context, repository.pool).QueryRow(context, query, value))
	return blog, dberr.Wrap(err, resource)
}

func (repository *PostgresRepository) Update(context context.Context, blog *Blog) error {
	b := schema.CoreBlog
	query := fmt.Sprintf(`
		UPDATE %s SET
			%s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7,
			%s = $8, %s = $9, %s = $10, %s = $11, %s = $12
		WHERE %s = $1`,
		b.Table,
		b.Title, b.Slug, b.Content, b.ImageFileID, b.CategoryID, b.Tags,
		b.Likes, b.IsPrivate, b.IsPublished, b.PublishedAt, b.UpdatedAt,
		b.ID,
	)

	result, err := postgres.Conn(context, repository.pool).Exec(context, query,
		blog.ID,
		blog.Title, blog.Slug, blog.Content, blog.ImageFileID, blog.CategoryID, blog.Tags.Slice(),
		blog.Likes.Slice(), blog.IsPrivate, blog.IsPublished, blog.PublishedAt, blog.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, resource)
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resource)
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreBlog.Table, schema.CoreBlog.ID)

	result, err := postgres.Conn(context, repository.pool).Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, resource)
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resource)
	}
	return nil
}

// # Listing

/*
List returns one page of blogs matching filter and the total match count.

The total comes from COUNT(*) OVER() so a single round trip serves both.
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, page pagination.Params) ([]*Blog, int, error) {
	where, args := whereClause(filter)
	args = append(args, page.Limit, page.Offset())

	query := fmt.Sprintf(`SELECT %s, COUNT(*) OVER() FROM %s %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		selectColumns, schema.CoreBlog.Table, where, orderBy(filter.Sort), len(args)-1, len(args))

	rows, err := postgres.Conn(context, repository.pool).Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resource)
	}
	defer rows.Close()

	blogs := make([]*Blog, 0, page.Limit)
	total := 0
	for rows.Next() {
		blog, err := scanBlog(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resource)
		}
		blogs = append(blogs, blog)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resource)
	}

	// An out-of-range page returns no rows and therefore no window total
	if len(blogs) == 0 && page.Offset() > 0 {
		total, err = repository.Count(context, filter)
		if err != nil {
			return nil, 0, err
		}
	}
	return blogs, total, nil
}

func (repository *PostgresRepository) Count(context context.Context, filter Filter) (int, error) {
	where, args := whereClause(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, schema.CoreBlog.Table, where)

	var total int
	err := postgres.Conn(context, repository.pool).QueryRow(context, query, args...).Scan(&total)
	return total, dberr.Wrap(err, resource)
}

func whereClause(filter Filter) (string, []any) {
	b := schema.CoreBlog
	var conditions []string
	var args []any

	if filter.PublicOnly {
		conditions = append(conditions, fmt.Sprintf("%s AND NOT %s", b.IsPublished, b.IsPrivate))
	}
	if filter.Uncategorized {
		conditions = append(conditions, fmt.Sprintf("%s IS NULL", b.CategoryID))
	} else if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", b.CategoryID, len(args)))
	}
	if filter.TagID != "" {
		args = append(args, filter.TagID)
		conditions = append(conditions, fmt.Sprintf("$%d::uuid = ANY(%s)", len(args), b.Tags))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func orderBy(sort Sort) string {
	b := schema.CoreBlog
	switch sort {
	case SortOldest:
		return fmt.Sprintf("%s ASC NULLS LAST, %s ASC", b.PublishedAt, b.CreatedAt)
	case SortTitle:
		return fmt.Sprintf("lower(%s) ASC, %s ASC", b.Title, b.ID)
	default:
		return fmt.Sprintf("%s DESC NULLS LAST, %s DESC", b.PublishedAt, b.CreatedAt)
	}
}
