// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/quill/internal/core/imagefile"
	"github.com/taibuivan/quill/internal/core/relation"
	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/platform/sanitize"
	"github.com/taibuivan/quill/internal/platform/sec"
	"github.com/taibuivan/quill/internal/platform/txn"
	"github.com/taibuivan/quill/internal/platform/validate"
	"github.com/taibuivan/quill/internal/users/session"
	"github.com/taibuivan/quill/pkg/uuid"
)

// Images is the part of the image-file service the author profile depends on.
type Images interface {
	Resolve(ctx context.Context, choice imagefile.Choice) (*string, func(), error)
	Attach(ctx context.Context, owner relation.Ref, old, updated *string) error
}

// Service registers and authenticates the author and maintains the profile.
type Service struct {
	repo     Repository
	images   Images
	sessions session.Issuer
	tx       txn.Runner
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates an author [Service].
func NewService(repo Repository, images Images, sessions session.Issuer, tx txn.Runner, logger *slog.Logger) *Service {
	return &Service{repo: repo, images: images, sessions: sessions, tx: tx, logger: logger, now: time.Now}
}

// RegisterInput carries the author's sign-up form.
type RegisterInput struct {
	Name     string
	Bio      string
	Email    string
	Username string
	Password string
}

// Login is returned by a successful sign-in.
type Login struct {
	Token  *session.Token `json:"token"`
	Author *Author        `json:"author"`
}

/*
Register creates the author. Only one author may ever exist.

Returns:
  - *Author: the stored author
  - error: ValidationError, or Conflict once an author is registered
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (*Author, error) {
	input.Name = sanitize.Plain(input.Name)
	input.Bio = sanitize.Plain(input.Bio)
	input.Email = strings.TrimSpace(input.Email)
	input.Username = strings.TrimSpace(input.Username)

	validator := &validate.Validator{}
	validator.
		Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, MaxNameLength).
		MaxLen(FieldBio, input.Bio, MaxBioLength).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldUsername, input.Username).
		Alphanumeric(FieldUsername, input.Username).
		MinLen(FieldPassword, input.Password, sec.MinPasswordLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	switch _, err := service.repo.Find(ctx); {
	case err == nil:
		return nil, apperr.Conflict("An author is already registered")
	case !apperr.HasCode(err, apperr.CodeNotFound):
		return nil, err
	}

	hash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	now := service.now().UTC()
	author := &Author{
		ID:           uuid.New(),
		Name:         input.Name,
		Bio:          input.Bio,
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: hash,
		Comments:     []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := service.repo.Create(ctx, author); err != nil {
		if apperr.HasCode(err, apperr.CodeConflict) {
			return nil, apperr.Conflict("An author is already registered")
		}
		return nil, err
	}

	service.logger.InfoContext(ctx, "author_registered", slog.String("author_id", author.ID))
	return author, nil
}

// Login checks the author's username or email and password and issues a token.
func (service *Service) Login(ctx context.Context, login, password string) (*Login, error) {
	author, err := service.repo.Find(ctx)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.Unauthorized("Invalid login credentials")
		}
		return nil, err
	}

	login = strings.TrimSpace(login)
	matches := strings.EqualFold(login, author.Username) || strings.EqualFold(login, author.Email)
	if !matches || !sec.CheckPasswordHash(password, author.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	token, err := service.sessions.Issue(author.ID, author.Username, sec.RoleAuthor)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "author_logged_in", slog.String("author_id", author.ID))
	return &Login{Token: token, Author: author}, nil
}

// Fetch returns the author's public profile.
func (service *Service) Fetch(ctx context.Context) (*Author, error) {
	return service.repo.Find(ctx)
}

// Update changes the author's name and bio.
func (service *Service) Update(ctx context.Context, id, name, bio string) (*Author, error) {
	if err := validate.ID("id", id); err != nil {
		return nil, err
	}

	name = sanitize.Plain(name)
	bio = sanitize.Plain(bio)

	validator := &validate.Validator{}
	validator.
		Required(FieldName, name).
		MaxLen(FieldName, name, MaxNameLength).
		MaxLen(FieldBio, bio, MaxBioLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	var author *Author
	err := service.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if author, err = service.repo.Lock(ctx, id); err != nil {
			return err
		}

		author.Name = name
		author.Bio = bio
		author.UpdatedAt = service.now().UTC()
		return service.repo.Update(ctx, author)
	})
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "author_updated", slog.String("author_id", id))
	return author, nil
}

// UpdateImage sets the author's picture from an upload or an existing image.
func (service *Service) UpdateImage(ctx context.Context, id string, choice imagefile.Choice) (*Author, error) {
	if err := validate.ID("id", id); err != nil {
		return nil, err
	}

	if err := imagefile.ValidateChoice(choice, true); err != nil {
		return nil, err
	}
	if _, err := service.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	imageID, discard, err := service.images.Resolve(ctx, choice)
	if err != nil {
		return nil, err
	}

	var author *Author
	err = service.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if author, err = service.repo.Lock(ctx, id); err != nil {
			return err
		}

		previous := author.ImageFileID
		author.ImageFileID = imageID
		author.UpdatedAt = service.now().UTC()

		if err := service.repo.Update(ctx, author); err != nil {
			return err
		}
		return service.images.Attach(ctx, relation.Ref{Kind: relation.KindAuthor, ID: id}, previous, imageID)
	})
	if err != nil {
		discard()
		return nil, err
	}

	service.logger.InfoContext(ctx, "author_image_updated",
		slog.String("author_id", id),
		slog.String("image_id", *imageID),
	)
	return author, nil
}
