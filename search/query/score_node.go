package query

import (
	"context"
)

// ScoreNode turns a positional node into a scoring one by applying the
// model's term weighting to the child's current posting.
type ScoreNode struct {
	child PositionalNode
	idx   Index

	numDocs        float64
	docFreq        float64
	ctf            float64
	sumFieldLength float64
	fieldDocCount  float64
	avgFieldLength float64
	mle            float64
}

func NewScoreNode(child PositionalNode) *ScoreNode {
	return &ScoreNode{child: child}
}

func (s *ScoreNode) Child() PositionalNode {
	return s.child
}

func (s *ScoreNode) Initialize(ctx context.Context, idx Index, model Model) error {
	switch model.(type) {
	case UnrankedBoolean, RankedBoolean, BM25, Indri:
	default:
		return unsupportedModel("#score", model)
	}

	if s.child == nil {
		return Errorf(ErrConfiguration, "#score without an argument")
	}

	if err := s.child.Initialize(ctx, idx, model); err != nil {
		return err
	}

	s.idx = idx
	field := s.child.Field()
	list := s.child.InvertedList()

	numDocs, err := idx.NumDocs()
	if err != nil {
		return indexAccessError(err, "number of documents")
	}

	sumFieldLength, err := idx.SumOfFieldLengths(field)
	if err != nil {
		return indexAccessError(err, "sum of %s lengths", field)
	}

	fieldDocCount, err := idx.DocCount(field)
	if err != nil {
		return indexAccessError(err, "document count of %s", field)
	}

	s.numDocs = float64(numDocs)
	s.docFreq = float64(list.DocFreq())
	s.ctf = float64(list.Ctf)
	s.sumFieldLength = float64(sumFieldLength)
	s.fieldDocCount = float64(fieldDocCount)

	s.avgFieldLength = 0
	if fieldDocCount > 0 {
		s.avgFieldLength = s.sumFieldLength / s.fieldDocCount
	}

	s.mle = 0
	if sumFieldLength > 0 {
		s.mle = s.ctf / s.sumFieldLength
	}

	return nil
}

func (s *ScoreNode) HasMatch(model Model) bool {
	return s.child.HasMatch(model)
}

func (s *ScoreNode) Match() uint64 {
	return s.child.Match()
}

func (s *ScoreNode) AdvancePast(docId uint64) {
	s.child.AdvancePast(docId)
}

func (s *ScoreNode) Score(model Model) (float64, error) {
	termFreq := float64(s.child.Posting().TermFreq())

	switch m := model.(type) {
	case UnrankedBoolean:
		return 1, nil
	case RankedBoolean:
		return termFreq, nil
	case BM25:
		docLength, err := s.fieldLength(s.child.Match())
		if err != nil {
			return 0, err
		}
		return m.Idf(s.numDocs, s.docFreq) * m.TfWeight(termFreq, docLength, s.avgFieldLength) * m.UserWeight(1), nil
	case Indri:
		docLength, err := s.fieldLength(s.child.Match())
		if err != nil {
			return 0, err
		}
		return m.Score(termFreq, docLength, s.mle), nil
	default:
		return 0, unsupportedModel("#score", model)
	}
}

func (s *ScoreNode) DefaultScore(model Model, docId uint64) (float64, error) {
	m, ok := model.(Indri)
	if !ok {
		return 0, unsupportedModel("default score", model)
	}

	docLength, err := s.fieldLength(docId)
	if err != nil {
		return 0, err
	}

	return m.Score(0, docLength, s.mle), nil
}

func (s *ScoreNode) fieldLength(docId uint64) (float64, error) {
	length, err := s.idx.FieldLength(s.child.Field(), docId)
	if err != nil {
		return 0, indexAccessError(err, "length of %s in document %d", s.child.Field(), docId)
	}
	return float64(length), nil
}

func (s *ScoreNode) String() string {
	if s.child == nil {
		return "#score()"
	}
	return "#score(" + s.child.String() + ")"
}
