package index

import (
	"sync"
)

type node struct {
	prefix   string
	terminal bool
	seqs     map[uint64]struct{}
	children []*node
}

func newNode(prefix string) *node {
	return &node{
		prefix: prefix,
		seqs:   make(map[uint64]struct{}),
	}
}

// Trie is a compressed radix trie mapping tokens to record sequence numbers.
type Trie struct {
	root *node
	mu   sync.RWMutex
}

func NewTrie() *Trie {
	return &Trie{
		root: newNode(""),
	}
}

// longest common prefix
func lcp(a, b string) int {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	return i
}

func (t *Trie) Insert(word string, seq uint64) {
	if word == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	current := t.root
	rest := word

	for {
		descended := false

		for i, child := range current.children {
			p := lcp(rest, child.prefix)
			if p == 0 {
				continue
			}

			// child prefix fully matched - go deeper
			if p == len(child.prefix) {
				current = child
				rest = rest[p:]
				if rest == "" {
					current.terminal = true
					current.seqs[seq] = struct{}{}
					return
				}
				descended = true
				break
			}

			// split child at the common prefix
			middle := newNode(child.prefix[:p])
			child.prefix = child.prefix[p:]
			middle.children = append(middle.children, child)
			current.children[i] = middle

			if suffix := rest[p:]; suffix != "" {
				leaf := newNode(suffix)
				leaf.terminal = true
				leaf.seqs[seq] = struct{}{}
				middle.children = append(middle.children, leaf)
				return
			}

			// word ends exactly at the split point
			middle.terminal = true
			middle.seqs[seq] = struct{}{}
			return
		}

		if !descended {
			leaf := newNode(rest)
			leaf.terminal = true
			leaf.seqs[seq] = struct{}{}
			current.children = append(current.children, leaf)
			return
		}
	}
}

// SearchPrefix returns the sequence numbers stored under every word that
// starts with prefix.
func (t *Trie) SearchPrefix(prefix string) map[uint64]struct{} {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make(map[uint64]struct{})
	if prefix == "" {
		return result
	}

	current := t.root
	rest := prefix

	for {
		var next *node

		for _, child := range current.children {
			p := lcp(rest, child.prefix)
			if p == 0 {
				continue
			}

			// prefix consumed inside (or at the end of) this child:
			// everything below it matches
			if p == len(rest) {
				collect(child, result)
				return result
			}

			// child prefix consumed, prefix still has characters left
			if p == len(child.prefix) {
				next = child
				rest = rest[p:]
				break
			}

			// partial overlap - nothing starts with prefix
			return result
		}

		if next == nil {
			return result
		}
		current = next
	}
}

func collect(n *node, into map[uint64]struct{}) {
	stack := []*node{n}
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if curr.terminal {
			for seq := range curr.seqs {
				into[seq] = struct{}{}
			}
		}
		stack = append(stack, curr.children...)
	}
}

// Words counts terminal nodes, i.e. distinct indexed words.
func (t *Trie) Words() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	stack := []*node{t.root}
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if curr.terminal {
			n++
		}
		stack = append(stack, curr.children...)
	}
	return n
}
