// Package analysis turns raw text into index terms. The same Analyzer must
// be used when building an index and when normalizing query terms, or
// query terms will not line up with the postings they are meant to match.
package analysis

import (
	"github.com/kljensen/snowball/english"
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "but": {}, "by": {}, "for": {}, "if": {}, "in": {},
	"into": {}, "is": {}, "it": {}, "no": {}, "not": {}, "of": {},
	"on": {}, "or": {}, "such": {}, "that": {}, "the": {}, "their": {},
	"then": {}, "there": {}, "these": {}, "they": {}, "this": {}, "to": {},
	"was": {}, "will": {}, "with": {},
}

// Term is a normalized token and its position in the field.
type Term struct {
	Text     string
	Position int
}

type Analyzer struct {
	Stopwords bool
	Stem      bool
}

// NewAnalyzer returns the analyzer used for both indexing and querying:
// lowercasing, stopword removal and Snowball English stemming.
func NewAnalyzer() *Analyzer {
	return &Analyzer{Stopwords: true, Stem: true}
}

// Analyze tokenizes text and calls fn for every term that survives
// normalization, in position order.
func (a *Analyzer) Analyze(text []byte, fn func(term Term)) {
	tokenizer := NewStandardTokenizer()
	tokenizer.Reset(text)

	for {
		token, ok := tokenizer.NextToken()
		if !ok {
			return
		}

		term, keep := a.normalizeToken(string(token.Text))
		if !keep {
			continue
		}

		fn(Term{Text: term, Position: token.Position})
	}
}

// Normalize maps one raw query token to zero or more index terms. A token
// like "near-death" yields two terms; a stopword yields none.
func (a *Analyzer) Normalize(raw string) []string {
	terms := make([]string, 0, 1)
	a.Analyze([]byte(raw), func(term Term) {
		terms = append(terms, term.Text)
	})
	return terms
}

func (a *Analyzer) normalizeToken(token string) (string, bool) {
	if a.Stopwords {
		if _, isStop := stopWords[token]; isStop {
			return "", false
		}
	}

	if a.Stem {
		token = english.Stem(token, false)
	}

	return token, token != ""
}
