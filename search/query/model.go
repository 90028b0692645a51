package query

import (
	"math"
	"strings"
)

// Model selects how operators score documents. The set of models is closed:
// every operator switches over the four implementations below.
type Model interface {
	Name() string

	// DefaultOperator is the operator the parser wraps a query in. The
	// boolean models return "" and leave the choice to the parser.
	DefaultOperator() string

	isModel()
}

const (
	DefaultBM25K1      = 1.2
	DefaultBM25B       = 0.75
	DefaultBM25K3      = 0.0
	DefaultIndriMu     = 2500.0
	DefaultIndriLambda = 0.4
)

type UnrankedBoolean struct{}

func (UnrankedBoolean) Name() string            { return "unrankedboolean" }
func (UnrankedBoolean) DefaultOperator() string { return "" }
func (UnrankedBoolean) isModel()                {}

type RankedBoolean struct{}

func (RankedBoolean) Name() string            { return "rankedboolean" }
func (RankedBoolean) DefaultOperator() string { return "" }
func (RankedBoolean) isModel()                {}

// BM25 carries K3 for query term frequency weighting. Query terms are
// never repeated after parsing, so the weight is always 1.
type BM25 struct {
	K1 float64
	B  float64
	K3 float64
}

func NewBM25(k1, b, k3 float64) (BM25, error) {
	model := BM25{K1: k1, B: b, K3: k3}
	return model, model.Validate()
}

func (BM25) Name() string            { return "bm25" }
func (BM25) DefaultOperator() string { return "#sum" }
func (BM25) isModel()                {}

func (m BM25) Validate() error {
	if m.K1 < 0 || math.IsNaN(m.K1) {
		return Errorf(ErrInvalidParameter, "bm25 k1 must be >= 0, got %v", m.K1)
	}
	if m.B < 0 || m.B > 1 || math.IsNaN(m.B) {
		return Errorf(ErrInvalidParameter, "bm25 b must be in [0, 1], got %v", m.B)
	}
	if m.K3 < 0 || math.IsNaN(m.K3) {
		return Errorf(ErrInvalidParameter, "bm25 k3 must be >= 0, got %v", m.K3)
	}
	return nil
}

// Idf is the Robertson/Sparck Jones weight, clamped to 0 for terms that
// occur in more than half of the documents.
func (m BM25) Idf(numDocs, docFreq float64) float64 {
	ratio := (numDocs - docFreq + 0.5) / (docFreq + 0.5)
	if ratio < 1 {
		return 0
	}
	return math.Log(ratio)
}

func (m BM25) TfWeight(termFreq, docLength, avgDocLength float64) float64 {
	lengthRatio := 0.0
	if avgDocLength > 0 {
		lengthRatio = docLength / avgDocLength
	}
	return termFreq / (termFreq + m.K1*((1-m.B)+m.B*lengthRatio))
}

func (m BM25) UserWeight(queryTermFreq float64) float64 {
	return (m.K3 + 1) * queryTermFreq / (m.K3 + queryTermFreq)
}

// Indri is query likelihood with Dirichlet smoothing mixed with the
// collection model by Lambda.
type Indri struct {
	Mu     float64
	Lambda float64
}

func NewIndri(mu, lambda float64) (Indri, error) {
	model := Indri{Mu: mu, Lambda: lambda}
	return model, model.Validate()
}

func (Indri) Name() string            { return "indri" }
func (Indri) DefaultOperator() string { return "#and" }
func (Indri) isModel()                {}

func (m Indri) Validate() error {
	if m.Mu < 0 || math.IsNaN(m.Mu) {
		return Errorf(ErrInvalidParameter, "indri mu must be >= 0, got %v", m.Mu)
	}
	if m.Lambda < 0 || m.Lambda > 1 || math.IsNaN(m.Lambda) {
		return Errorf(ErrInvalidParameter, "indri lambda must be in [0, 1], got %v", m.Lambda)
	}
	return nil
}

// Score for a document where the term occurs termFreq times. With
// termFreq = 0 it is the floor used for documents the term misses.
func (m Indri) Score(termFreq, docLength, mle float64) float64 {
	smoothed := 0.0
	if denominator := docLength + m.Mu; denominator > 0 {
		smoothed = (termFreq + m.Mu*mle) / denominator
	}
	return (1-m.Lambda)*smoothed + m.Lambda*mle
}

// ParseModel returns the named model with default parameters.
func ParseModel(name string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "unrankedboolean":
		return UnrankedBoolean{}, nil
	case "rankedboolean":
		return RankedBoolean{}, nil
	case "bm25":
		return BM25{K1: DefaultBM25K1, B: DefaultBM25B, K3: DefaultBM25K3}, nil
	case "indri":
		return Indri{Mu: DefaultIndriMu, Lambda: DefaultIndriLambda}, nil
	default:
		return nil, Errorf(ErrInvalidParameter, "unknown retrieval model %q", name)
	}
}

func unsupportedModel(operator string, model Model) error {
	if model == nil {
		return Errorf(ErrConfiguration, "%s: no retrieval model", operator)
	}
	return Errorf(ErrConfiguration, "%s is not defined for the %s model", operator, model.Name())
}
