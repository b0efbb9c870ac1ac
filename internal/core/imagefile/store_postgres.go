// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package imagefile

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/quill/internal/platform/database/schema"
	"github.com/taibuivan/quill/internal/platform/dberr"
	"github.com/taibuivan/quill/internal/platform/postgres"
)

const resource = "Image file"

// PostgresRepository implements [Repository] on core.imagefile.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a [PostgresRepository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var selectColumns = func() string {
	image := schema.CoreImageFile
	return fmt.Sprintf(`%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s`,
		image.ID, image.FileName, image.FileType, image.Size, image.Width, image.Height, image.ObjectKey,
		image.CreditAuthorName, image.CreditAuthorURL, image.CreditSourceName, image.CreditSourceURL,
		image.ReferencedDocs, image.UploadedAt)
}()

func scanImage(row pgx.Row) (*ImageFile, error) {
	image := &ImageFile{}
	err := row.Scan(
		&image.ID, &image.FileName, &image.FileType, &image.Size, &image.Width, &image.Height, &image.ObjectKey,
		&image.Credit.AuthorName, &image.Credit.AuthorURL, &image.Credit.SourceName, &image.Credit.SourceURL,
		&image.ReferencedDocs, &image.UploadedAt,
	)
	if err != nil {
		return nil, err
	}
	if image.ReferencedDocs == nil {
		image.ReferencedDocs = []string{}
	}
	return image, nil
}

func (repository *PostgresRepository) Create(context context.Context, image *ImageFile) error {
	table := schema.CoreImageFile
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		table.Table,
		table.ID, table.FileName, table.FileType, table.Size, table.Width, table.Height, table.ObjectKey,
		table.CreditAuthorName, table.CreditAuthorURL, table.CreditSourceName, table.CreditSourceURL,
		table.UploadedAt,
	)

	_, err := postgres.Conn(context, repository.pool).Exec(context, query,
		image.ID, image.FileName, image.FileType, image.Size, image.Width, image.Height, image.ObjectKey,
		image.Credit.AuthorName, image.Credit.AuthorURL, image.Credit.SourceName, image.Credit.SourceURL,
		image.UploadedAt,
	)
	return dberr.Wrap(err, resource)
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*ImageFile, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns, schema.CoreImageFile.Table, schema.CoreImageFile.ID)
	image, err := scanImage(postgres.Conn(context, repository.pool).QueryRow(context, query, id))
	return image, dberr.Wrap(err, resource)
}

func (repository *PostgresRepository) Lock(context context.Context, id string) (*ImageFile, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`,
		selectColumns, schema.CoreImageFile.Table, schema.CoreImageFile.ID)
	image, err := scanImage(postgres.Conn(context, repository.pool).QueryRow(context, query, id))
	return image, dberr.Wrap(err, resource)
}

func (repository *PostgresRepository) List(context context.Context) ([]*ImageFile, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s DESC`,
		selectColumns, schema.CoreImageFile.Table, schema.CoreImageFile.UploadedAt)

	rows, err := postgres.Conn(context, repository.pool).Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, resource)
	}
	defer rows.Close()

	images := make([]*ImageFile, 0)
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, dberr.Wrap(err, resource)
		}
		images = append(images, image)
	}
	return images, dberr.Wrap(rows.Err(), resource)
}

func (repository *PostgresRepository) UpdateCredit(context context.Context, id string, credit Credit) error {
	table := schema.CoreImageFile
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5 WHERE %s = $1`,
		table.Table, table.CreditAuthorName, table.CreditAuthorURL, table.CreditSourceName, table.CreditSourceURL, table.ID)

	result, err := postgres.Conn(context, repository.pool).Exec(context, query,
		id, credit.AuthorName, credit.AuthorURL, credit.SourceName, credit.SourceURL)
	if err != nil {
		return dberr.Wrap(err, resource)
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resource)
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreImageFile.Table, schema.CoreImageFile.ID)

	result, err := postgres.Conn(context, repository.pool).Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, resource)
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resource)
	}
	return nil
}
