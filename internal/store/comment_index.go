package store

import (
	"strings"
	"sync"

	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/model"
)

// CommentIndex is a simple in-memory inverted token index over move
// comments — the contract a richer full-text engine could satisfy in
// its place. Tokens come from lowercasing and splitting on whitespace
// and punctuation; tokens of length ≤2 are dropped.
type CommentIndex struct {
	mu       sync.RWMutex
	postings map[string]map[model.GamePosition]struct{}
}

// NewCommentIndex returns an empty CommentIndex.
func NewCommentIndex() *CommentIndex {
	return &CommentIndex{postings: make(map[string]map[model.GamePosition]struct{})}
}

// Tokenize splits a comment into index tokens.
func Tokenize(comment string) []string {
	lower := strings.ToLower(comment)
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '\r', ',', '.', '!', '?', ';', ':':
			return true
		}
		return false
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 2 {
			out = append(out, f)
		}
	}
	return out
}

// AddComment tokenizes comment and records gp under every token.
func (idx *CommentIndex) AddComment(comment string, gp model.GamePosition) {
	if comment == "" {
		return
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, token := range Tokenize(comment) {
		set, ok := idx.postings[token]
		if !ok {
			set = make(map[model.GamePosition]struct{})
			idx.postings[token] = set
		}
		set[gp] = struct{}{}
	}
}

// Positions returns every GamePosition whose comment contains token.
func (idx *CommentIndex) Positions(token string) []model.GamePosition {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	src := idx.postings[strings.ToLower(token)]
	out := make([]model.GamePosition, 0, len(src))
	for gp := range src {
		out = append(out, gp)
	}
	return out
}

// GameIDs returns the posting set of game IDs whose comments contain
// token.
func (idx *CommentIndex) GameIDs(token string) GameIDSet {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	set := make(GameIDSet)
	for gp := range idx.postings[strings.ToLower(token)] {
		set.Add(gp.GameID)
	}
	return set
}

// GameIDsForPhrase tokenizes phrase and intersects the posting sets of
// every resulting token — the same token-AND semantics CQL's
// `commentary CONTAINS` produces with one Commentary predicate per
// token. A phrase with no tokens yields an empty set.
func (idx *CommentIndex) GameIDsForPhrase(phrase string) GameIDSet {
	tokens := Tokenize(phrase)
	if len(tokens) == 0 {
		return GameIDSet{}
	}
	sets := make([]GameIDSet, len(tokens))
	for i, token := range tokens {
		sets[i] = idx.GameIDs(token)
	}
	return IntersectSets(sets...)
}
