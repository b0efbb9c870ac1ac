// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package viewer

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/platform/sanitize"
	"github.com/taibuivan/quill/internal/platform/sec"
	"github.com/taibuivan/quill/internal/platform/txn"
	"github.com/taibuivan/quill/internal/platform/validate"
	"github.com/taibuivan/quill/internal/users/session"
	"github.com/taibuivan/quill/pkg/uuid"
)

// Service manages viewer accounts.
type Service struct {
	repo     Repository
	sessions session.Issuer
	tx       txn.Runner
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a viewer [Service].
func NewService(repo Repository, sessions session.Issuer, tx txn.Runner, logger *slog.Logger) *Service {
	return &Service{repo: repo, sessions: sessions, tx: tx, logger: logger, now: time.Now}
}

// RegisterInput carries the sign-up form.
type RegisterInput struct {
	Name     string
	Username string
	Password string
}

// UpdateInput carries a profile update. Nil fields are left unchanged.
type UpdateInput struct {
	Name     *string
	Username *string
}

// Login is returned by a successful sign-in.
type Login struct {
	Token  *session.Token `json:"token"`
	Viewer *Viewer        `json:"viewer"`
}

// # Accounts

/*
Register creates a viewer account.

Usernames are 4 to 20 letters or digits and unique regardless of case.
Passwords have at least 8 characters.

Returns:
  - *Viewer: the stored viewer
  - error: ValidationError, or Conflict when the username is taken
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (*Viewer, error) {
	name := sanitize.Plain(input.Name)
	username := strings.TrimSpace(input.Username)

	validator := &validate.Validator{}
	validateName(validator, name)
	validateUsername(validator, username)
	validatePassword(validator, FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.ensureUnique(ctx, username, ""); err != nil {
		return nil, err
	}

	hash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	now := service.now().UTC()
	viewer := &Viewer{
		ID:           uuid.New(),
		Name:         name,
		Username:     username,
		PasswordHash: hash,
		Comments:     []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := service.repo.Create(ctx, viewer); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "viewer_registered", slog.String("viewer_id", viewer.ID))
	return viewer, nil
}

// Login checks the username and password and issues a viewer token.
func (service *Service) Login(ctx context.Context, username, password string) (*Login, error) {
	viewer, err := service.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.Unauthorized("Invalid login credentials")
		}
		return nil, err
	}
	if !sec.CheckPasswordHash(password, viewer.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	token, err := service.sessions.Issue(viewer.ID, viewer.Username, sec.RoleViewer)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "viewer_logged_in", slog.String("viewer_id", viewer.ID))
	return &Login{Token: token, Viewer: viewer}, nil
}

func (service *Service) Get(ctx context.Context, id string) (*Viewer, error) {
	if err := validate.ID("id", id); err != nil {
		return nil, err
	}

	return service.repo.FindByID(ctx, id)
}

func (service *Service) List(ctx context.Context) ([]*Viewer, error) {
	return service.repo.List(ctx)
}

// Update changes the viewer's name and username.
func (service *Service) Update(ctx context.Context, id string, input UpdateInput) (*Viewer, error) {
	if err := validate.ID("id", id); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		name := sanitize.Plain(*input.Name)
		input.Name = &name
		validateName(validator, name)
	}
	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		input.Username = &username
		validateUsername(validator, username)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.Username != nil {
		if err := service.ensureUnique(ctx, *input.Username, id); err != nil {
			return nil, err
		}
	}

	var viewer *Viewer
	err := service.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if viewer, err = service.repo.Lock(ctx, id); err != nil {
			return err
		}

		if input.Name != nil {
			viewer.Name = *input.Name
		}
		if input.Username != nil {
			viewer.Username = *input.Username
		}
		viewer.UpdatedAt = service.now().UTC()
		return service.repo.Update(ctx, viewer)
	})
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "viewer_updated", slog.String("viewer_id", id))
	return viewer, nil
}

// # Passwords

// ConfirmPassword succeeds when password is the viewer's current password.
func (service *Service) ConfirmPassword(ctx context.Context, id, password string) error {
	if err := validate.ID("id", id); err != nil {
		return err
	}

	viewer, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !sec.CheckPasswordHash(password, viewer.PasswordHash) {
		return apperr.Unauthorized("Password does not match")
	}
	return nil
}

// ChangePassword replaces the password after checking the current one.
func (service *Service) ChangePassword(ctx context.Context, id, current, updated string) error {
	if err := validate.ID("id", id); err != nil {
		return err
	}

	validator := &validate.Validator{}
	validatePassword(validator, FieldNewPassword, updated)
	if err := validator.Err(); err != nil {
		return err
	}

	hash, err := sec.HashPassword(updated)
	if err != nil {
		return apperr.Internal(err)
	}

	err = service.tx.WithinTx(ctx, func(ctx context.Context) error {
		viewer, err := service.repo.Lock(ctx, id)
		if err != nil {
			return err
		}
		if !sec.CheckPasswordHash(current, viewer.PasswordHash) {
			return apperr.Unauthorized("Current password does not match")
		}

		viewer.PasswordHash = hash
		viewer.UpdatedAt = service.now().UTC()
		return service.repo.Update(ctx, viewer)
	})
	if err != nil {
		return err
	}

	service.logger.InfoContext(ctx, "viewer_password_changed", slog.String("viewer_id", id))
	return nil
}

/*
Delete removes the signed-in viewer and revokes the token used to do it.

The viewer's comments stay on their blogs.
*/
func (service *Service) Delete(ctx context.Context, claims *sec.AuthClaims) error {
	if err := service.repo.Delete(ctx, claims.UserID); err != nil {
		return err
	}

	if err := service.sessions.Revoke(ctx, claims); err != nil {
		service.logger.ErrorContext(ctx, "viewer_token_revoke_failed",
			slog.String("viewer_id", claims.UserID),
			slog.Any("error", err),
		)
	}

	service.logger.InfoContext(ctx, "viewer_deleted", slog.String("viewer_id", claims.UserID))
	return nil
}

// # Helpers

func (service *Service) ensureUnique(ctx context.Context, username, selfID string) error {
	existing, err := service.repo.FindByUsername(ctx, username)
	switch {
	case apperr.HasCode(err, apperr.CodeNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return apperr.Conflict("Username is already taken")
	}
	return nil
}

func validateName(validator *validate.Validator, name string) {
	validator.Required(FieldName, name).MaxLen(FieldName, name, MaxNameLength)
}

func validateUsername(validator *validate.Validator, username string) {
	validator.
		Required(FieldUsername, username).
		MinLen(FieldUsername, username, MinUsernameLength).
		MaxLen(FieldUsername, username, MaxUsernameLength).
		Alphanumeric(FieldUsername, username)
}

func validatePassword(validator *validate.Validator, field, password string) {
	validator.Required(field, password).MinLen(field, password, sec.MinPasswordLength)
}
