// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package viewer

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/quill/internal/platform/database/schema"
	"github.com/taibuivan/quill/internal/platform/dberr"
	"github.com/taibuivan/quill/internal/platform/postgres"
)

const resource = "Viewer"

// PostgresRepository implements [Repository] on users.viewer.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a [PostgresRepository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var tbl = schema.UsersViewer

var selectColumns = fmt.Sprintf(`%s, %s, %s, %s, %s::text[], %s, %s`,
	tbl.ID, tbl.Name, tbl.Username, tbl.PasswordHash, tbl.Comments, tbl.CreatedAt, tbl.UpdatedAt)

func scanViewer(row pgx.Row) (*Viewer, error) {
	viewer := &Viewer{}
	err := row.Scan(&viewer.ID, &viewer.Name, &viewer.Username, &viewer.PasswordHash,
		&viewer.Comments, &viewer.CreatedAt, &viewer.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if viewer.Comments == nil {
		viewer.Comments = []string{}
	}
	return viewer, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, viewer *Viewer) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6)`,
		tbl.Table, tbl.ID, tbl.Name, tbl.Username, tbl.PasswordHash, tbl.CreatedAt, tbl.UpdatedAt)

	_, err := postgres.Conn(ctx, repository.pool).Exec(ctx, query,
		viewer.ID, viewer.Name, viewer.Username, viewer.PasswordHash, viewer.CreatedAt, viewer.UpdatedAt)
	return dberr.Wrap(err, resource)
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Viewer, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, tbl.Table, tbl.ID)
	viewer, err := scanViewer(postgres.Conn(ctx, repository.pool).QueryRow(ctx, query, id))
	return viewer, dberr.Wrap(err, resource)
}

func (repository *PostgresRepository) FindByUsername(ctx context.Context, username string) (*Viewer, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE lower(%s) = lower($1)`, selectColumns, tbl.Table, tbl.Username)
	viewer, err := scanViewer(postgres.Conn(ctx, repository.pool).QueryRow(ctx, query, username))
	return viewer, dberr.Wrap(err, resource)
}

func (repository *PostgresRepository) Lock(ctx context.Context, id string) (*Viewer, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`, selectColumns, tbl.Table, tbl.ID)
	viewer, err := scanViewer(postgres.Conn(ctx, repository.pool).QueryRow(ctx, query, id))
	return viewer, dberr.Wrap(err, resource)
}

func (repository *PostgresRepository) List(ctx context.Context) ([]*Viewer, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC`, selectColumns, tbl.Table, tbl.CreatedAt)

	rows, err := postgres.Conn(ctx, repository.pool).Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, resource)
	}
	defer rows.Close()

	viewers := make([]*Viewer, 0)
	for rows.Next() {
		viewer, err := scanViewer(rows)
		if err != nil {
			return nil, dberr.Wrap(err, resource)
		}
		viewers = append(viewers, viewer)
	}
	return viewers, dberr.Wrap(rows.Err(), resource)
}

func (repository *PostgresRepository) Update(ctx context.Context, viewer *Viewer) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5 WHERE %s = $1`,
		tbl.Table, tbl.Name, tbl.Username, tbl.PasswordHash, tbl.UpdatedAt, tbl.ID)

	result, err := postgres.Conn(ctx, repository.pool).Exec(ctx, query,
		viewer.ID, viewer.Name, viewer.Username, viewer.PasswordHash, viewer.UpdatedAt)
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
