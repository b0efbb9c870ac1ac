// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package fixture wires every service over in-memory stores for tests.
package fixture

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quill/internal/core/blog"
	"github.com/taibuivan/quill/internal/core/category"
	"github.com/taibuivan/quill/internal/core/comment"
	"github.com/taibuivan/quill/internal/core/imagefile"
	"github.com/taibuivan/quill/internal/core/relation"
	"github.com/taibuivan/quill/internal/core/tag"
	"github.com/taibuivan/quill/internal/platform/cache"
	"github.com/taibuivan/quill/internal/platform/objectstore"
	"github.com/taibuivan/quill/internal/platform/sec"
	"github.com/taibuivan/quill/internal/platform/txn"
	"github.com/taibuivan/quill/internal/testutil/memdb"
	"github.com/taibuivan/quill/internal/users/author"
	"github.com/taibuivan/quill/internal/users/session"
	"github.com/taibuivan/quill/internal/users/viewer"
)

// MaxUpload is the upload limit the image service is built with.
const MaxUpload = 1 << 20

// Env is a fully wired set of services sharing one [memdb.DB].
type Env struct {
	DB          *memdb.DB
	Objects     *objectstore.Memory
	Cache       *cache.Memory
	Revocations *Revocations
	Tokens      *sec.TokenService
	Syncer      *relation.Syncer

	Images     *imagefile.Service
	Categories *category.Service
	Tags       *tag.Service
	Comments   *comment.Service
	Blogs      *blog.Service
	Sessions   *session.Service
	Authors    *author.Service
	Viewers    *viewer.Service
}

// New builds an [Env]. Writes run through [txn.Direct], so a failure leaves earlier writes applied.
func New(t testing.TB) *Env {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	logger := Logger()
	env := &Env{
		DB:          memdb.New(),
		Objects:     objectstore.NewMemory(),
		Cache:       cache.NewMemory(),
		Revocations: &Revocations{ids: map[string]time.Time{}},
		Tokens:      sec.NewTokenServiceFromKeys(key, &key.PublicKey, "quill.test"),
	}
	env.Syncer = relation.NewSyncer(env.DB, logger)

	env.Images = imagefile.NewService(env.DB.Images(), env.Objects, env.Syncer, txn.Direct, logger, MaxUpload)
	env.Categories = category.NewService(env.DB.Categories(), env.Images, txn.Direct, logger)
	env.Tags = tag.NewService(env.DB.Tags(), txn.Direct, logger)
	env.Comments = comment.NewService(env.DB.Comments(), env.Syncer, txn.Direct, logger)
	env.Blogs = blog.NewService(blog.Config{
		Repository: env.DB.Blogs(),
		Syncer:     env.Syncer,
		Images:     env.Images,
		Comments:   env.Comments,
		Cache:      env.Cache,
		CacheTTL:   time.Minute,
		Tx:         txn.Direct,
		Logger:     logger,
	})
	env.Sessions = session.NewService(env.Tokens, env.Revocations, time.Hour, time.Hour, logger)
	env.Authors = author.NewService(env.DB.Authors(), env.Images, env.Sessions, txn.Direct, logger)
	env.Viewers = viewer.NewService(env.DB.Viewers(), env.Sessions, txn.Direct, logger)
	return env
}

// Logger discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// # Images

// PNG encodes a solid width x height image.
func PNG(t testing.TB, width, height int) []byte {
	t.Helper()

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			canvas.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}

	var buffer bytes.Buffer
	require.NoError(t, png.Encode(&buffer, canvas))
	return buffer.Bytes()
}

// NewUpload returns a small valid PNG upload.
func NewUpload(t testing.TB) *imagefile.Upload {
	return &imagefile.Upload{FileName: "cover.png", Data: PNG(t, 4, 3)}
}

// Image uploads a PNG and returns the stored document.
func (env *Env) Image(t testing.TB) *imagefile.ImageFile {
	t.Helper()
	image, err := env.Images.Upload(context.Background(), *NewUpload(t))
	require.NoError(t, err)
	return image
}

// # Documents

// Category creates a category with a fresh image.
func (env *Env) Category(t testing.TB, name string) *category.Category {
	t.Helper()
	created, err := env.Categories.Create(context.Background(), category.CreateInput{
		Name:  name,
		Image: imagefile.Choice{Upload: NewUpload(t)},
	})
	require.NoError(t, err)
	return created
}

func (env *Env) Tag(t testing.TB, name string) *tag.Tag {
	t.Helper()
	created, err := env.Tags.Create(context.Background(), name)
	require.NoError(t, err)
	return created
}

// Author registers the single author.
func (env *Env) Author(t testing.TB) *author.Author {
	t.Helper()
	created, err := env.Authors.Register(context.Background(), author.RegisterInput{
		Name:     "Jane Writer",
		Email:    "jane@example.com",
		Username: "jane",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return created
}

func (env *Env) Viewer(t testing.TB, username string) *viewer.Viewer {
	t.Helper()
	created, err := env.Viewers.Register(context.Background(), viewer.RegisterInput{
		Name:     "Reader " + username,
		Username: username,
		Password: "reader-pass",
	})
	require.NoError(t, err)
	return created
}

// Blog creates a blog under authorID with a fresh image.
func (env *Env) Blog(t testing.TB, authorID, title string, categoryID *string, tags []string, action blog.Action) *blog.Blog {
	t.Helper()
	created, err := env.Blogs.Create(context.Background(), authorID, blog.CreateInput{
		Title:      title,
		Content:    "<p>" + title + "</p>",
		CategoryID: categoryID,
		Tags:       tags,
		Image:      imagefile.Choice{Upload: NewUpload(t)},
	}, action)
	require.NoError(t, err)
	return created
}

// # Revocations

// Revocations is an in-memory [session.Revocations].
type Revocations struct {
	mu  sync.Mutex
	ids map[string]time.Time

	// Err makes every call fail when set.
	Err error
}

func (store *Revocations) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.Err != nil {
		return store.Err
	}
	store.ids[tokenID] = time.Now().Add(ttl)
	return nil
}

func (store *Revocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.Err != nil {
		return false, store.Err
	}
	expiry, ok := store.ids[tokenID]
	return ok && time.Now().Before(expiry), nil
}
