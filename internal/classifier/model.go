package classifier

import (
	"bufio"
	"bytes"
	"fmt"
	"os"

	"github.com/dmitryikh/leaves"

	"github.com/ewilliams-labs/moodtune/internal/features"
)

// Model returns one probability per class for a feature row.
type Model interface {
	NumFeatures() int
	NumClasses() int
	Predict(row features.Row) ([]float64, error)
}

// LightGBM is a Model backed by a LightGBM text dump.
type LightGBM struct {
	ens *leaves.Ensemble
}

var _ Model = (*LightGBM)(nil)

// LoadLightGBM reads a LightGBM model file with its output transformation,
// so multiclass models yield softmax probabilities.
func LoadLightGBM(path string) (*LightGBM, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- artifact path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("classifier: load lightgbm: %w", err)
	}
	return ParseLightGBM(data)
}

// ParseLightGBM decodes a LightGBM text dump held in memory.
func ParseLightGBM(data []byte) (*LightGBM, error) {
	r := bufio.NewReader(bytes.NewReader(downgradeHeader(data)))
	ens, err := leaves.LGEnsembleFromReader(r, true)
	if err != nil {
		return nil, fmt.Errorf("classifier: load lightgbm: %w", err)
	}
	return &LightGBM{ens: ens}, nil
}

// downgradeHeader rewrites a version=v4 header line to v3. LightGBM 4.x writes
// v4 with tree blocks leaves can still read, but leaves only accepts v2 and v3.
func downgradeHeader(data []byte) []byte {
	header := data
	if i := bytes.Index(data, []byte("\nTree=")); i >= 0 {
		header = data[:i]
	}
	const v4 = "version=v4"
	i := bytes.Index(header, []byte(v4))
	if i < 0 || (i > 0 && header[i-1] != '\n') {
		return data
	}
	if end := i + len(v4); end < len(data) && data[end] != '\n' && data[end] != '\r' {
		return data
	}
	out := make([]byte, len(data))
	copy(out, data)
	out[i+len("version=v")] = '3'
	return out
}

// NumFeatures returns the model input width.
func (m *LightGBM) NumFeatures() int { return m.ens.NFeatures() }

// NumClasses returns the number of output groups.
func (m *LightGBM) NumClasses() int { return m.ens.NOutputGroups() }

// Predict scores a single row using every estimator.
func (m *LightGBM) Predict(row features.Row) ([]float64, error) {
	if row.Width != m.ens.NFeatures() {
		return nil, fmt.Errorf("classifier: row width %d, model expects %d", row.Width, m.ens.NFeatures())
	}
	out := make([]float64, m.ens.NOutputGroups())
	if err := m.ens.Predict(row.Dense(), 0, out); err != nil {
		return nil, fmt.Errorf("classifier: predict: %w", err)
	}
	return out, nil
}
