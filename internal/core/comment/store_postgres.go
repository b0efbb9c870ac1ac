// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/quill/internal/core/relation"
	"github.com/taibuivan/quill/internal/platform/database/schema"
	"github.com/taibuivan/quill/internal/platform/dberr"
	"github.com/taibuivan/quill/internal/platform/postgres"
)

const resource = "Comment"

// PostgresRepository implements [Repository] on social.comment.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a [PostgresRepository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var tbl = schema.SocialComment

var selectColumns = fmt.Sprintf(`%s, %s, %s::text, %s::text, %s::text, %s::text, %s::text[], %s::text[], %s, %s`,
	tbl.ID, tbl.Content, tbl.BlogID, tbl.AuthorID, tbl.ViewerID, tbl.ParentID, tbl.Replies, tbl.Likes, tbl.CreatedAt, tbl.UpdatedAt)

func scanComment(row pgx.Row) (*Comment, error) {
	comment := &Comment{}
	var likes []string

	err := row.Scan(&comment.ID, &comment.Content, &comment.BlogID,
		&comment.AuthorID, &comment.ViewerID, &comment.ParentID,
		&comment.Replies, &likes, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if comment.Replies == nil {
		comment.Replies = []string{}
	}
	comment.Likes = relation.NewSet(likes...)
	return comment, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, comment *Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		tbl.Table, tbl.ID, tbl.Content, tbl.BlogID, tbl.AuthorID, tbl.ViewerID, tbl.ParentID, tbl.Likes, tbl.CreatedAt, tbl.UpdatedAt)

	_, err := postgres.Conn(ctx, repository.pool).Exec(ctx, query,
		comment.ID, comment.Content, comment.BlogID, comment.AuthorID, comment.ViewerID, comment.ParentID,
		comment.Likes.Slice(), comment.CreatedAt, comment.UpdatedAt)
	return dberr.Wrap(err, resource)
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Comment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, tbl.Table, tbl.ID)
	comment, err := scanComment(postgres.Conn(ctx, repository.pool).QueryRow(ctx, query, id))
	return comment, dberr.Wrap(err, resource)
}

func (repository *PostgresRepository) Lock(ctx context.Context, id string) (*Comment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`, selectColumns, tbl.Table, tbl.ID)
	comment, err := scanComment(postgres.Conn(ctx, repository.pool).QueryRow(ctx, query, id))
	return comment, dberr.Wrap(err, resource)
}

func (repository *PostgresRepository) List(ctx context.Context, blogID string) ([]*Comment, error) {
	if blogID == "" {
		query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC`, selectColumns, tbl.Table, tbl.CreatedAt)
		return repository.query(ctx, query)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC`, selectColumns, tbl.Table, tbl.BlogID, tbl.CreatedAt)
	return repository.query(ctx, query, blogID)
}

func (repository *PostgresRepository) ListReplies(ctx context.Context, parentID string) ([]*Comment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC`, selectColumns, tbl.Table, tbl.ParentID, tbl.CreatedAt)
	return repository.query(ctx, query, parentID)
}

func (repository *PostgresRepository) Update(ctx context.Context, comment *Comment) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4 WHERE %s = $1`,
		tbl.Table, tbl.Content, tbl.Likes, tbl.UpdatedAt, tbl.ID)

	result, err := postgres.Conn(ctx, repository.pool).Exec(ctx, query,
		comment.ID, comment.Content, comment.Likes.Slice(), comment.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, resource)
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resource)
	}
	return nil
}

func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, tbl.Table, tbl.ID)

	result, err := postgres.Conn(ctx, repository.pool).Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, resource)
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resource)
	}
	return nil
}

func (repository *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*Comment, error) {
	rows, err := postgres.Conn(ctx, repository.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, resource)
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, dberr.Wrap(err, resource)
		}
		comments = append(comments, comment)
	}
	return comments, dberr.Wrap(rows.Err(), resource)
}
