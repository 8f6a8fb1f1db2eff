package leveldb

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	postingPrefix = "tok:"
	separator     = 0x00
	seqSize       = 8
)

var ErrMalformedKey = errors.New("malformed posting key")

// Posting links a token to the sequence number of the record that holds it.
type Posting struct {
	Token string
	Seq   uint64
}

// Storage keeps token postings in a LevelDB instance. Keys are laid out as
// "tok:" + token + 0x00 + big-endian seq, so a range scan over
// "tok:" + prefix visits every token starting with prefix, grouped by token.
type Storage struct {
	db *leveldb.DB
}

// New opens a file-backed database at path.
func New(path string) (*Storage, error) {
	const op = "storage.leveldb.New"

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// NewMemory opens a database that lives only as long as the process.
func NewMemory() (*Storage, error) {
	const op = "storage.leveldb.NewMemory"

	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func postingKey(token string, seq uint64) []byte {
	key := make([]byte, 0, len(postingPrefix)+len(token)+1+seqSize)
	key = append(key, postingPrefix...)
	key = append(key, token...)
	key = append(key, separator)
	return binary.BigEndian.AppendUint64(key, seq)
}

func seqFromKey(key []byte) (uint64, error) {
	if len(key) < len(postingPrefix)+1+seqSize || key[len(key)-seqSize-1] != separator {
		return 0, ErrMalformedKey
	}
	return binary.BigEndian.Uint64(key[len(key)-seqSize:]), nil
}

// SavePostings writes all postings in a single batch.
func (s *Storage) SavePostings(ctx context.Context, postings []Posting) error {
	const op = "storage.leveldb.SavePostings"

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	batch := new(leveldb.Batch)
	for _, p := range postings {
		batch.Put(postingKey(p.Token, p.Seq), nil)
	}

	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ScanPrefix returns the distinct sequence numbers of every posting whose
// token starts with prefix. Order is unspecified.
func (s *Storage) ScanPrefix(ctx context.Context, prefix string) (map[uint64]struct{}, error) {
	const op = "storage.leveldb.ScanPrefix"

	iter := s.db.NewIterator(util.BytesPrefix([]byte(postingPrefix+prefix)), nil)
	defer iter.Release()

	seqs := make(map[uint64]struct{})
	for iter.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		seq, err := seqFromKey(iter.Key())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		seqs[seq] = struct{}{}
	}

	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return seqs, nil
}

// Reset deletes every posting.
func (s *Storage) Reset(ctx context.Context) error {
	const op = "storage.leveldb.Reset"

	iter := s.db.NewIterator(util.BytesPrefix([]byte(postingPrefix)), nil)
	batch := new(leveldb.Batch)
	for iter.Next() {
		batch.Delete(bytes.Clone(iter.Key()))
	}
	iter.Release()

	if err := iter.Error(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Count returns the number of stored postings.
func (s *Storage) Count() (int, error) {
	iter := s.db.NewIterator(util.BytesPrefix([]byte(postingPrefix)), nil)
	defer iter.Release()

	n := 0
	for iter.Next() {
		n++
	}
	return n, iter.Error()
}
