package repository

import (
	"context"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"
)

const locatorPrefix = "blob:"

// Blob is stored attachment content.
type Blob struct {
	Locator  string
	MimeType string
	Filename string
	Data     []byte
}

// BlobStore keeps attachment bytes outside the record store.
type BlobStore interface {
	Put(ctx context.Context, data []byte, mimeType, filename string) (string, error)
	Get(ctx context.Context, locator string) (*Blob, error)
	Delete(ctx context.Context, locator string) error
}

// LocatorFor derives the content-addressed locator of data.
func LocatorFor(data []byte) string {
	sum := blake2b.Sum256(data)
	return locatorPrefix + hex.EncodeToString(sum[:])
}

// ValidLocator reports whether locator has the blob: form.
func ValidLocator(locator string) bool {
	digest, ok := strings.CutPrefix(locator, locatorPrefix)
	if !ok || len(digest) != blake2b.Size256*2 {
		return false
	}
	_, err := hex.DecodeString(digest)
	return err == nil
}

type redisBlobStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBlobStore stores blobs as Redis hashes. ttl <= 0 keeps them forever.
func NewRedisBlobStore(client *redis.Client, ttl time.Duration) BlobStore {
	return &redisBlobStore{client: client, ttl: ttl}
}

func redisKey(locator string) string {
	return "attachments:" + locator
}

func (s *redisBlobStore) Put(ctx context.Context, data []byte, mimeType, filename string) (string, error) {
	locator := LocatorFor(data)
	key := redisKey(locator)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]any{
			"data":     data,
			"mime":     mimeType,
			"filename": filename,
		})
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return locator, nil
}

func (s *redisBlobStore) Get(ctx context.Context, locator string) (*Blob, error) {
	if !ValidLocator(locator) {
		return nil, ErrNotFound
	}
	fields, err := s.client.HGetAll(ctx, redisKey(locator)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	return &Blob{
		Locator:  locator,
		MimeType: fields["mime"],
		Filename: fields["filename"],
		Data:     []byte(fields["data"]),
	}, nil
}

func (s *redisBlobStore) Delete(ctx context.Context, locator string) error {
	return s.client.Del(ctx, redisKey(locator)).Err()
}

// MemoryBlobStore keeps blobs in process memory.
type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string]Blob
}

// NewMemoryBlobStore returns an empty store.
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string]Blob)}
}

func (s *MemoryBlobStore) Put(_ context.Context, data []byte, mimeType, filename string) (string, error) {
	locator := LocatorFor(data)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[locator] = Blob{
		Locator:  locator,
		MimeType: mimeType,
		Filename: filename,
		Data:     append([]byte(nil), data...),
	}
	return locator, nil
}

func (s *MemoryBlobStore) Get(_ context.Context, locator string) (*Blob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.blobs[locator]
	if !ok {
		return nil, ErrNotFound
	}
	blob.Data = append([]byte(nil), blob.Data...)
	return &blob, nil
}

func (s *MemoryBlobStore) Delete(_ context.Context, locator string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, locator)
	return nil
}

// Len returns the number of stored blobs.
func (s *MemoryBlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
