package features

import (
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// DefaultTokenPattern matches runs of two or more word characters.
const DefaultTokenPattern = `\b\w\w+\b`

// ErrInvalidVectorizer is returned when a vectorizer export is inconsistent.
var ErrInvalidVectorizer = errors.New("features: invalid vectorizer")

// VectorizerExport is the JSON form of a fitted TF-IDF vectorizer.
type VectorizerExport struct {
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf"`
	NgramRange   [2]int         `json:"ngram_range"`
	SublinearTF  bool           `json:"sublinear_tf"`
	Binary       bool           `json:"binary"`
	UseIDF       *bool          `json:"use_idf"`
	Norm         *string        `json:"norm"`
	TokenPattern string         `json:"token_pattern"`
	StopWords    []string       `json:"stop_words"`
}

// Vectorizer is a frozen TF-IDF encoder. It is safe for concurrent use.
type Vectorizer struct {
	vocab     map[string]int
	idf       []float64
	minN      int
	maxN      int
	sublinear bool
	binary    bool
	useIDF    bool
	norm      string
	token     *regexp.Regexp
	stop      map[string]struct{}
}

// SparseVector holds the non-zero entries of a vector in ascending index order.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// LoadVectorizer reads a vectorizer export from path.
func LoadVectorizer(path string) (*Vectorizer, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- artifact path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("features: read vectorizer: %w", err)
	}
	var exp VectorizerExport
	if err := json.Unmarshal(data, &exp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVectorizer, err)
	}
	return NewVectorizer(exp)
}

// NewVectorizer validates exp and builds a Vectorizer from it.
func NewVectorizer(exp VectorizerExport) (*Vectorizer, error) {
	if len(exp.Vocabulary) == 0 {
		return nil, fmt.Errorf("%w: empty vocabulary", ErrInvalidVectorizer)
	}

	useIDF := exp.UseIDF == nil || *exp.UseIDF
	if useIDF && len(exp.IDF) != len(exp.Vocabulary) {
		return nil, fmt.Errorf("%w: %d idf weights for %d terms", ErrInvalidVectorizer, len(exp.IDF), len(exp.Vocabulary))
	}
	for term, idx := range exp.Vocabulary {
		if idx < 0 || idx >= len(exp.Vocabulary) {
			return nil, fmt.Errorf("%w: term %q has index %d out of range", ErrInvalidVectorizer, term, idx)
		}
	}

	minN, maxN := exp.NgramRange[0], exp.NgramRange[1]
	if minN == 0 && maxN == 0 {
		minN, maxN = 1, 1
	}
	if minN < 1 || maxN < minN {
		return nil, fmt.Errorf("%w: ngram_range [%d, %d]", ErrInvalidVectorizer, minN, maxN)
	}

	normName := "l2"
	if exp.Norm != nil {
		normName = strings.ToLower(*exp.Norm)
	}
	switch normName {
	case "l1", "l2":
	case "", "none", "null":
		normName = ""
	default:
		return nil, fmt.Errorf("%w: norm %q", ErrInvalidVectorizer, normName)
	}

	pattern := exp.TokenPattern
	if pattern == "" {
		pattern = DefaultTokenPattern
	}
	token, err := regexp.Compile(goPattern(pattern))
	if err != nil {
		return nil, fmt.Errorf("%w: token pattern: %v", ErrInvalidVectorizer, err)
	}

	stop := make(map[string]struct{}, len(exp.StopWords))
	for _, w := range exp.StopWords {
		stop[w] = struct{}{}
	}

	return &Vectorizer{
		vocab:     exp.Vocabulary,
		idf:       exp.IDF,
		minN:      minN,
		maxN:      maxN,
		sublinear: exp.SublinearTF,
		binary:    exp.Binary,
		useIDF:    useIDF,
		norm:      normName,
		token:     token,
		stop:      stop,
	}, nil
}

// goPattern drops the (?u) inline flag that exported scikit-learn patterns
// carry. RE2 does not accept it.
func goPattern(p string) string {
	return strings.ReplaceAll(p, "(?u)", "")
}

// Size returns the vocabulary size, which is the width of every encoding.
func (v *Vectorizer) Size() int {
	return len(v.vocab)
}

// Transform encodes an already normalized document. Terms outside the
// vocabulary are ignored.
func (v *Vectorizer) Transform(doc string) SparseVector {
	counts := make(map[int]float64)
	for _, term := range v.terms(doc) {
		if idx, ok := v.vocab[term]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return SparseVector{}
	}

	indices := make([]int, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	for i, idx := range indices {
		tf := counts[idx]
		switch {
		case v.binary:
			tf = 1
		case v.sublinear:
			tf = 1 + math.Log(tf)
		}
		if v.useIDF {
			tf *= v.idf[idx]
		}
		values[i] = tf
	}

	normalizeInPlace(values, v.norm)
	return SparseVector{Indices: indices, Values: values}
}

// terms tokenizes doc and expands it into n-grams within the configured range.
func (v *Vectorizer) terms(doc string) []string {
	raw := v.token.FindAllString(doc, -1)
	tokens := raw[:0]
	for _, t := range raw {
		if _, skip := v.stop[t]; !skip {
			tokens = append(tokens, t)
		}
	}

	if v.maxN == 1 {
		return tokens
	}

	var out []string
	if v.minN == 1 {
		out = append(out, tokens...)
	}
	minN := v.minN
	if minN == 1 {
		minN = 2
	}
	for n := minN; n <= v.maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

func normalizeInPlace(values []float64, norm string) {
	var total float64
	switch norm {
	case "l2":
		for _, x := range values {
			total += x * x
		}
		total = math.Sqrt(total)
	case "l1":
		for _, x := range values {
			total += math.Abs(x)
		}
	default:
		return
	}
	if total == 0 {
		return
	}
	for i := range values {
		values[i] /= total
	}
}
