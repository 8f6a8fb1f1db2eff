package index

import (
	"context"
	"errors"
	"fmt"

	"dashsearch/internal/storage/leveldb"
)

// Posting backends an index can run on.
const (
	EngineTrie = "trie"
	EngineKV   = "kv"
)

var ErrUnknownEngine = errors.New("unknown index engine")

// Backend stores token postings for one index.
type Backend interface {
	// Reset drops every posting.
	Reset(ctx context.Context) error
	// Add records that the record numbered seq carries tokens.
	Add(ctx context.Context, seq uint64, tokens []string) error
	// Lookup returns the records holding a token that starts with prefix.
	Lookup(ctx context.Context, prefix string) (map[uint64]struct{}, error)
}

// StorageOpener opens the LevelDB storage backing one kv index.
type StorageOpener func(indexName string) (*leveldb.Storage, error)

// NewBackend builds the backend named by engine.
func NewBackend(engine, indexName string, open StorageOpener) (Backend, error) {
	const op = "index.NewBackend"

	switch engine {
	case EngineTrie:
		return NewTrieBackend(), nil
	case EngineKV:
		storage, err := open(indexName)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return NewKVBackend(storage), nil
	default:
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnknownEngine, engine)
	}
}

type trieBackend struct {
	trie *Trie
}

func NewTrieBackend() Backend {
	return &trieBackend{trie: NewTrie()}
}

func (b *trieBackend) Reset(_ context.Context) error {
	b.trie = NewTrie()
	return nil
}

func (b *trieBackend) Add(_ context.Context, seq uint64, tokens []string) error {
	for _, token := range tokens {
		b.trie.Insert(token, seq)
	}
	return nil
}

func (b *trieBackend) Lookup(_ context.Context, prefix string) (map[uint64]struct{}, error) {
	return b.trie.SearchPrefix(prefix), nil
}

type kvBackend struct {
	storage *leveldb.Storage
}

func NewKVBackend(storage *leveldb.Storage) Backend {
	return &kvBackend{storage: storage}
}

func (b *kvBackend) Reset(ctx context.Context) error {
	return b.storage.Reset(ctx)
}

func (b *kvBackend) Add(ctx context.Context, seq uint64, tokens []string) error {
	postings := make([]leveldb.Posting, 0, len(tokens))
	for _, token := range tokens {
		postings = append(postings, leveldb.Posting{Token: token, Seq: seq})
	}
	return b.storage.SavePostings(ctx, postings)
}

func (b *kvBackend) Lookup(ctx context.Context, prefix string) (map[uint64]struct{}, error) {
	return b.storage.ScanPrefix(ctx, prefix)
}
