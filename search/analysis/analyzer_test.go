package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizerPositions(t *testing.T) {
	tokenizer := NewStandardTokenizer()
	tokenizer.Reset([]byte("Hello, World!  near-death"))

	texts := make([]string, 0)
	positions := make([]int, 0)
	for {
		token, ok := tokenizer.NextToken()
		if !ok {
			break
		}
		texts = append(texts, string(token.Text))
		positions = append(positions, token.Position)
	}

	assert.Equal(t, []string{"hello", "world", "near", "death"}, texts)
	assert.Equal(t, []int{0, 1, 2, 3}, positions)
}

func TestAnalyzeKeepsPositionGapsForStopwords(t *testing.T) {
	analyzer := NewAnalyzer()

	terms := make([]Term, 0)
	analyzer.Analyze([]byte("the apple of the eye"), func(term Term) {
		terms = append(terms, term)
	})

	assert.Equal(t, []Term{{Text: "appl", Position: 1}, {Text: "eye", Position: 4}}, terms)
}

func TestNormalize(t *testing.T) {
	analyzer := NewAnalyzer()

	assert.Equal(t, []string{"appl"}, analyzer.Normalize("Apples"))
	assert.Equal(t, []string{"near", "death"}, analyzer.Normalize("near-death"))
	assert.Empty(t, analyzer.Normalize("the"))
	assert.Empty(t, analyzer.Normalize(""))
}

func TestNormalizeWithoutStemming(t *testing.T) {
	analyzer := &Analyzer{Stopwords: false}

	assert.Equal(t, []string{"the", "apples"}, analyzer.Normalize("The Apples"))
}
