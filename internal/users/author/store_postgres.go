// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/quill/internal/platform/database/schema"
	"github.com/taibuivan/quill/internal/platform/dberr"
	"github.com/taibuivan/quill/internal/platform/postgres"
)

const resource = "Author"

// PostgresRepository implements [Repository] on users.author.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a [PostgresRepository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var tbl = schema.UsersAuthor

var selectColumns = fmt.Sprintf(`%s, %s, %s, %s, %s, %s, %s::text, %s::text[], %s, %s`,
	tbl.ID, tbl.Name, tbl.Bio, tbl.Email, tbl.Username, tbl.PasswordHash,
	tbl.ImageFileID, tbl.Comments, tbl.CreatedAt, tbl.UpdatedAt)

func scanAuthor(row pgx.Row) (*Author, error) {
	author := &Author{}
	err := row.Scan(&author.ID, &author.Name, &author.Bio, &author.Email, &author.Username, &author.PasswordHash,
		&author.ImageFileID, &author.Comments, &author.CreatedAt, &author.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if author.Comments == nil {
		author.Comments = []string{}
	}
	return author, nil
}

// Create relies on the singleton index; a second insert is a unique violation.
func (repository *PostgresRepository) Create(ctx context.Context, author *Author) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		tbl.Table, tbl.ID, tbl.Name, tbl.Bio, tbl.Email, tbl.Username, tbl.PasswordHash,
		tbl.ImageFileID, tbl.CreatedAt, tbl.UpdatedAt)

	_, err := postgres.Conn(ctx, repository.pool).Exec(ctx, query,
		author.ID, author.Name, author.Bio, author.Email, author.Username, author.PasswordHash,
		author.ImageFileID, author.CreatedAt, author.UpdatedAt)
	return dberr.Wrap(err, resource)
}

func (repository *PostgresRepository) Find(ctx context.Context) (*Author, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s LIMIT 1`, selectColumns, tbl.Table)
	author, err := scanAuthor(postgres.Conn(ctx, repository.pool).QueryRow(ctx, query))
	return author, dberr.Wrap(err, resource)
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Author, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, tbl.Table, tbl.ID)
	author, err := scanAuthor(postgres.Conn(ctx, repository.pool).QueryRow(ctx, query, id))
	return author, dberr.Wrap(err, resource)
}

func (repository *PostgresRepository) Lock(ctx context.Context, id string) (*Author, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`, selectColumns, tbl.Table, tbl.ID)
	author, err := scanAuthor(postgres.Conn(ctx, repository.pool).QueryRow(ctx, query, id))
	return author, dberr.Wrap(err, resource)
}

func (repository *PostgresRepository) Update(ctx context.Context, author *Author) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5 WHERE %s = $1`,
		tbl.Table, tbl.Name, tbl.Bio, tbl.ImageFileID, tbl.UpdatedAt, tbl.ID)

	result, err := postgres.Conn(ctx, repository.pool).Exec(ctx, query,
		author.ID, author.Name, author.Bio, author.ImageFileID, author.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, resource)
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resource)
	}
	return nil
}
