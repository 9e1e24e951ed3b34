package features

import "github.com/ewilliams-labs/moodtune/internal/lexicon"

// Row is one sparse model input: the text encoding followed by the aligned
// auxiliary columns.
type Row struct {
	Width   int
	Indices []int
	Values  []float64
}

// Concat places text at [0, vocab) and aux at [vocab, vocab+len(aux)).
// Zero auxiliary values are left out.
func Concat(text SparseVector, vocab int, aux []float64) Row {
	r := Row{
		Width:   vocab + len(aux),
		Indices: make([]int, 0, len(text.Indices)+len(aux)),
		Values:  make([]float64, 0, len(text.Values)+len(aux)),
	}
	r.Indices = append(r.Indices, text.Indices...)
	r.Values = append(r.Values, text.Values...)
	for i, v := range aux {
		if v == 0 {
			continue
		}
		r.Indices = append(r.Indices, vocab+i)
		r.Values = append(r.Values, v)
	}
	return r
}

// Dense expands the row into a full-width slice.
func (r Row) Dense() []float64 {
	out := make([]float64, r.Width)
	for i, idx := range r.Indices {
		out[idx] = r.Values[i]
	}
	return out
}

// Pipeline runs normalization, auxiliary extraction, encoding, alignment and
// concatenation against one frozen set of artifacts.
type Pipeline struct {
	lex    *lexicon.Resources
	vec    *Vectorizer
	schema Schema
}

// NewPipeline wires the frozen artifacts into a Pipeline.
func NewPipeline(lex *lexicon.Resources, vec *Vectorizer, schema Schema) *Pipeline {
	return &Pipeline{lex: lex, vec: vec, schema: schema}
}

// Width is the number of model input features.
func (p *Pipeline) Width() int {
	return p.vec.Size() + p.schema.Len()
}

// Transform builds the feature row for text. It never fails; empty or
// letter-free text yields a row with only the emoji indicator set.
func (p *Pipeline) Transform(text string) Row {
	normalized := Normalize(text, p.lex.Stopwords, p.lex.Stemmer)
	aux := p.schema.Align(Auxiliary(text, p.lex.Keywords, p.lex.Emoji))
	return Concat(p.vec.Transform(normalized), p.vec.Size(), aux)
}
