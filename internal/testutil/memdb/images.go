// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package memdb

import (
	"context"
	"slices"

	"github.com/taibuivan/quill/internal/core/imagefile"
	"github.com/taibuivan/quill/internal/platform/apperr"
)

// Images implements [imagefile.Repository].
type Images struct{ db *DB }

// Images returns the image-file collection.
func (db *DB) Images() *Images { return &Images{db: db} }

func cloneImage(doc *imagefile.ImageFile) *imagefile.ImageFile {
	copied := *doc
	copied.ReferencedDocs = cloneList(doc.ReferencedDocs)
	return &copied
}

func (repo *Images) Create(_ context.Context, doc *imagefile.ImageFile) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.images[doc.ID]; ok {
		return apperr.Conflict("Image file already exists")
	}
	repo.db.images[doc.ID] = cloneImage(doc)
	return nil
}

func (repo *Images) FindByID(_ context.Context, id string) (*imagefile.ImageFile, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	doc, ok := repo.db.images[id]
	if !ok {
		return nil, apperr.NotFound("Image file")
	}
	return cloneImage(doc), nil
}

func (repo *Images) Lock(ctx context.Context, id string) (*imagefile.ImageFile, error) {
	return repo.FindByID(ctx, id)
}

func (repo *Images) List(_ context.Context) ([]*imagefile.ImageFile, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	images := make([]*imagefile.ImageFile, 0, len(repo.db.images))
	for _, doc := range repo.db.images {
		images = append(images, cloneImage(doc))
	}
	slices.SortFunc(images, func(a, b *imagefile.ImageFile) int { return b.UploadedAt.Compare(a.UploadedAt) })
	return images, nil
}

func (repo *Images) UpdateCredit(_ context.Context, id string, credit imagefile.Credit) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	doc, ok := repo.db.images[id]
	if !ok {
		return apperr.NotFound("Image file")
	}
	doc.Credit = credit
	return nil
}

func (repo *Images) Delete(_ context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.images[id]; !ok {
		return apperr.NotFound("Image file")
	}
	delete(repo.db.images, id)
	return nil
}
