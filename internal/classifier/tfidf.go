package classifier

import (
	"math"
	"regexp"
	"sort"

	"github.com/mikey/phish-guard/internal/utils"
)

// DefaultMaxFeatures caps the vocabulary size
const DefaultMaxFeatures = 1000

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenize splits cleaned text into terms of two or more word characters
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(text, -1)
}

// Vectorizer is a frozen TF-IDF feature extractor
type Vectorizer struct {
	Vocabulary []string  `json:"vocabulary"`
	IDF        []float64 `json:"idf"`

	index map[string]int
}

// FitVectorizer learns the vocabulary and inverse document frequencies from
// cleaned documents. The maxFeatures most frequent terms are kept (ties broken
// alphabetically) and indexed in alphabetical order.
func FitVectorizer(docs []string, maxFeatures int) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}

	termCounts := make(map[string]int)
	docFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range Tokenize(doc) {
			termCounts[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				docFreq[term]++
			}
		}
	}

	terms := make([]string, 0, len(termCounts))
	for term := range termCounts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if termCounts[terms[i]] != termCounts[terms[j]] {
			return termCounts[terms[i]] > termCounts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(docs))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	v := &Vectorizer{Vocabulary: terms, IDF: idf}
	v.buildIndex()
	return v
}

func (v *Vectorizer) buildIndex() {
	v.index = make(map[string]int, len(v.Vocabulary))
	for i, term := range v.Vocabulary {
		v.index[term] = i
	}
}

// Dimensions returns the feature vector length
func (v *Vectorizer) Dimensions() int {
	return len(v.Vocabulary)
}

// Transform maps a document to its L2-normalized TF-IDF vector. The text is
// cleaned first; terms outside the vocabulary are ignored. The vectorizer must
// come from FitVectorizer or Load so the term index is built.
func (v *Vectorizer) Transform(doc string) []float64 {
	vec := make([]float64, len(v.Vocabulary))
	for _, term := range Tokenize(utils.CleanText(doc)) {
		if i, ok := v.index[term]; ok {
			vec[i]++
		}
	}

	var norm float64
	for i := range vec {
		if vec[i] == 0 {
			continue
		}
		vec[i] *= v.IDF[i]
		norm += vec[i] * vec[i]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}
