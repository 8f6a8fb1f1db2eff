package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seqSet(seqs ...uint64) map[uint64]struct{} {
	s := make(map[uint64]struct{}, len(seqs))
	for _, seq := range seqs {
		s[seq] = struct{}{}
	}
	return s
}

func TestTrieSearchPrefix(t *testing.T) {
	trie := NewTrie()
	trie.Insert("kathmandu", 0)
	trie.Insert("kaski", 1)
	trie.Insert("kathmandu", 2)
	trie.Insert("kavre", 3)
	trie.Insert("ka", 4)
	trie.Insert("bagmati", 5)
	trie.Insert("baglung", 6)

	tests := []struct {
		prefix string
		want   map[uint64]struct{}
	}{
		{prefix: "kathmandu", want: seqSet(0, 2)},
		{prefix: "kath", want: seqSet(0, 2)},
		{prefix: "ka", want: seqSet(0, 1, 2, 3, 4)},
		{prefix: "k", want: seqSet(0, 1, 2, 3, 4)},
		{prefix: "bag", want: seqSet(5, 6)},
		{prefix: "bagm", want: seqSet(5)},
		{prefix: "bagx", want: seqSet()},
		{prefix: "kathmandux", want: seqSet()},
		{prefix: "z", want: seqSet()},
		{prefix: "", want: seqSet()},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			assert.Equal(t, tt.want, trie.SearchPrefix(tt.prefix))
		})
	}
}

func TestTrieSplitKeepsExistingWords(t *testing.T) {
	trie := NewTrie()
	trie.Insert("testing", 0)
	trie.Insert("test", 1)
	trie.Insert("tester", 2)

	assert.Equal(t, seqSet(0, 1, 2), trie.SearchPrefix("test"))
	assert.Equal(t, seqSet(0), trie.SearchPrefix("testi"))
	assert.Equal(t, seqSet(2), trie.SearchPrefix("teste"))
	assert.Equal(t, 3, trie.Words())
}

func TestTrieIgnoresEmptyWord(t *testing.T) {
	trie := NewTrie()
	trie.Insert("", 1)
	assert.Zero(t, trie.Words())
}
