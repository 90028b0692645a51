// Package search evaluates structured queries against an index.
package search

import (
	"context"

	"github.com/larose/qryeval/search/parser"
	"github.com/larose/qryeval/search/query"
)

// Search evaluates root document at a time and returns every document it
// matches with its score, unsorted. A nil root matches nothing.
func Search(ctx context.Context, root query.ScoringNode, idx query.Index, model query.Model) (*query.ScoreList, error) {
	results := query.NewScoreList()
	if root == nil {
		return results, nil
	}

	if err := root.Initialize(ctx, idx, model); err != nil {
		return nil, err
	}

	for root.HasMatch(model) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		docId := root.Match()

		score, err := root.Score(model)
		if err != nil {
			return nil, err
		}

		externalId, err := idx.ExternalId(docId)
		if err != nil {
			return nil, query.Errorf(query.ErrIndexAccess, "external id of document %d: %v", docId, err)
		}

		results.Add(docId, externalId, score)

		root.AdvancePast(docId)
	}

	return results, nil
}

// Searcher parses, optimizes and evaluates query text under one model.
type Searcher struct {
	Index  query.Index
	Model  query.Model
	Parser *parser.Parser
}

// ProcessQuery returns the results of text. empty is true when nothing of
// the query survived normalization and optimization.
func (s *Searcher) ProcessQuery(ctx context.Context, text string) (results *query.ScoreList, empty bool, err error) {
	node, err := s.Parser.Parse(text, s.Model)
	if err != nil {
		return nil, false, err
	}

	var root query.ScoringNode
	switch optimized := query.Optimize(node).(type) {
	case nil:
		return query.NewScoreList(), true, nil
	case query.ScoringNode:
		root = optimized
	case query.PositionalNode:
		root = query.NewScoreNode(optimized)
	}

	results, err = Search(ctx, root, s.Index, s.Model)
	return results, false, err
}
