package index

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/JaimeStill/lawfinder/pkg/storage"
)

var validID = regexp.MustCompile(`^[0-9a-f]{12}$`)

// System stores and retrieves chunked indices.
type System interface {
	Handler() *Handler

	Put(ctx context.Context, m Manifest, docs []Document) error
	Find(ctx context.Context, id string) (*Index, error)
	List(ctx context.Context, marker string, maxResults int32) (*storage.ListResult, error)
}

type blobStore struct {
	store       storage.System
	size        int
	overlap     int
	maxListSize int32
	logger      *slog.Logger
}

// New creates an index system over blob storage.
func New(store storage.System, size, overlap int, maxListSize int32, logger *slog.Logger) System {
	return &blobStore{
		store:       store,
		size:        size,
		overlap:     overlap,
		maxListSize: maxListSize,
		logger:      logger.With("system", "index"),
	}
}

func (s *blobStore) Handler() *Handler {
	return NewHandler(s, s.logger, s.maxListSize)
}

func (s *blobStore) Put(ctx context.Context, m Manifest, docs []Document) error {
	if !validID.MatchString(m.ID) {
		return ErrInvalidID
	}

	chunks := ChunkDocuments(docs, s.size, s.overlap)
	m.Documents = len(docs)
	m.Chunks = len(chunks)

	if err := s.upload(ctx, chunksKey(m.ID), chunks); err != nil {
		return err
	}
	if err := s.upload(ctx, manifestKey(m.ID), m); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "index stored", "id", m.ID, "documents", m.Documents, "chunks", m.Chunks)
	return nil
}

func (s *blobStore) Find(ctx context.Context, id string) (*Index, error) {
	if !validID.MatchString(id) {
		return nil, ErrInvalidID
	}

	var idx Index
	if err := s.download(ctx, manifestKey(id), &idx.Manifest); err != nil {
		return nil, err
	}
	if err := s.download(ctx, chunksKey(id), &idx.Chunks); err != nil {
		return nil, err
	}
	return &idx, nil
}

func (s *blobStore) List(ctx context.Context, marker string, maxResults int32) (*storage.ListResult, error) {
	page, err := s.store.List(ctx, "", marker, maxResults)
	if err != nil {
		return nil, fmt.Errorf("list indices: %w", err)
	}

	result := &storage.ListResult{NextMarker: page.NextMarker}
	for _, b := range page.Blobs {
		if strings.HasSuffix(b.Key, "/manifest.json") {
			result.Blobs = append(result.Blobs, b)
		}
	}
	return result, nil
}

func (s *blobStore) upload(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.store.Upload(ctx, key, bytes.NewReader(data), "application/json"); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

func (s *blobStore) download(ctx context.Context, key string, v any) error {
	rc, err := s.store.Download(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("download %s: %w", key, err)
	}
	defer rc.Close()

	if err := json.NewDecoder(rc).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

type noop struct {
	logger *slog.Logger
}

// Noop returns a System that discards writes and finds nothing.
func Noop(logger *slog.Logger) System {
	return &noop{logger: logger.With("system", "index")}
}

func (n *noop) Handler() *Handler {
	return NewHandler(n, n.logger, 0)
}

func (n *noop) Put(context.Context, Manifest, []Document) error { return nil }

func (n *noop) Find(context.Context, string) (*Index, error) { return nil, ErrNotFound }

func (n *noop) List(context.Context, string, int32) (*storage.ListResult, error) {
	return &storage.ListResult{}, nil
}
