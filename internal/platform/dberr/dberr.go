// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/quill/internal/platform/apperr"
)

const (
	// uniqueViolation is the Postgres SQLSTATE for a unique index collision.
	uniqueViolation = "23505"

	// invalidText is raised when a parameter cannot be cast, such as a malformed uuid.
	invalidText = "22P02"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// The resource name is used for the client-facing message.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	// Already classified further down the stack
	if apperr.IsAppError(err) {
		return err
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource).WithCause(err)
	}

	// 2. Unique violations surface as conflicts
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return apperr.Conflict(resource + " already exists").WithCause(err)

		// 3. Values the column type rejects are the caller's fault
		case invalidText:
			return apperr.ValidationError("Invalid " + resource + " identifier").WithCause(err)
		}
	}

	return apperr.Internal(err)
}

// IsNoRows reports whether err means the queried row does not exist.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
