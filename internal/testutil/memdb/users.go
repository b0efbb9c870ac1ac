// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package memdb

import (
	"context"
	"slices"
	"strings"

	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/users/author"
	"github.com/taibuivan/quill/internal/users/viewer"
)

// # Author

// Authors implements [author.Repository].
type Authors struct{ db *DB }

// Authors returns the author collection.
func (db *DB) Authors() *Authors { return &Authors{db: db} }

func cloneAuthor(doc *author.Author) *author.Author {
	copied := *doc
	copied.ImageFileID = clonePtr(doc.ImageFileID)
	copied.Comments = cloneList(doc.Comments)
	return &copied
}

func (repo *Authors) Create(_ context.Context, doc *author.Author) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if len(repo.db.authors) > 0 {
		return apperr.Conflict("Author already exists")
	}
	repo.db.authors[doc.ID] = cloneAuthor(doc)
	return nil
}

func (repo *Authors) Find(_ context.Context) (*author.Author, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, doc := range repo.db.authors {
		return cloneAuthor(doc), nil
	}
	return nil, apperr.NotFound("Author")
}

func (repo *Authors) FindByID(_ context.Context, id string) (*author.Author, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	doc, ok := repo.db.authors[id]
	if !ok {
		return nil, apperr.NotFound("Author")
	}
	return cloneAuthor(doc), nil
}

func (repo *Authors) Lock(ctx context.Context, id string) (*author.Author, error) {
	return repo.FindByID(ctx, id)
}

func (repo *Authors) Update(_ context.Context, doc *author.Author) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	stored, ok := repo.db.authors[doc.ID]
	if !ok {
		return apperr.NotFound("Author")
	}
	stored.Name = doc.Name
	stored.Bio = doc.Bio
	stored.ImageFileID = clonePtr(doc.ImageFileID)
	stored.UpdatedAt = doc.UpdatedAt
	return nil
}

// # Viewers

// Viewers implements [viewer.Repository].
type Viewers struct{ db *DB }

// Viewers returns the viewer collection.
func (db *DB) Viewers() *Viewers { return &Viewers{db: db} }

func cloneViewer(doc *viewer.Viewer) *viewer.Viewer {
	copied := *doc
	copied.Comments = cloneList(doc.Comments)
	return &copied
}

func (repo *Viewers) Create(_ context.Context, doc *viewer.Viewer) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, existing := range repo.db.viewers {
		if existing.ID == doc.ID || strings.EqualFold(existing.Username, doc.Username) {
			return apperr.Conflict("Viewer already exists")
		}
	}
	repo.db.viewers[doc.ID] = cloneViewer(doc)
	return nil
}

func (repo *Viewers) FindByID(_ context.Context, id string) (*viewer.Viewer, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	doc, ok := repo.db.viewers[id]
	if !ok {
		return nil, apperr.NotFound("Viewer")
	}
	return cloneViewer(doc), nil
}

func (repo *Viewers) FindByUsername(_ context.Context, username string) (*viewer.Viewer, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, doc := range repo.db.viewers {
		if strings.EqualFold(doc.Username, username) {
			return cloneViewer(doc), nil
		}
	}
	return nil, apperr.NotFound("Viewer")
}

func (repo *Viewers) Lock(ctx context.Context, id string) (*viewer.Viewer, error) {
	return repo.FindByID(ctx, id)
}

func (repo *Viewers) List(_ context.Context) ([]*viewer.Viewer, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	viewers := make([]*viewer.Viewer, 0, len(repo.db.viewers))
	for _, doc := range repo.db.viewers {
		viewers = append(viewers, cloneViewer(doc))
	}
	slices.SortFunc(viewers, func(a, b *viewer.Viewer) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return viewers, nil
}

func (repo *Viewers) Update(_ context.Context, doc *viewer.Viewer) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	stored, ok := repo.db.viewers[doc.ID]
	if !ok {
		return apperr.NotFound("Viewer")
	}
	stored.Name = doc.Name
	stored.Username = doc.Username
	stored.PasswordHash = doc.PasswordHash
	stored.UpdatedAt = doc.UpdatedAt
	return nil
}

func (repo *Viewers) Delete(_ context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.viewers[id]; !ok {
		return apperr.NotFound("Viewer")
	}
	delete(repo.db.viewers, id)
	return nil
}
