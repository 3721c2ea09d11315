package domain

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// TrainingHistory is the per-epoch metric history a training run writes as JSON,
// e.g. {"loss": [...], "val_accuracy": [...]}.
type TrainingHistory map[string][]float64

// AccuracyMetrics are tried in order by FinalAccuracy.
var AccuracyMetrics = []string{"val_accuracy", "val_acc", "accuracy", "acc"}

func ParseTrainingHistory(r io.Reader) (TrainingHistory, error) {
	var h TrainingHistory
	if err := json.NewDecoder(r).Decode(&h); err != nil {
		return nil, fmt.Errorf("decode training history: %w", err)
	}
	return h, nil
}

func LoadTrainingHistory(path string) (TrainingHistory, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open training history: %w", err)
	}
	defer f.Close()
	return ParseTrainingHistory(f)
}

// Epochs is the length of the longest metric series.
func (h TrainingHistory) Epochs() int {
	n := 0
	for _, values := range h {
		if len(values) > n {
			n = len(values)
		}
	}
	return n
}

// Final returns the last recorded value of metric.
func (h TrainingHistory) Final(metric string) (float64, error) {
	values := h[metric]
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrMetricNotRecorded, metric)
	}
	return values[len(values)-1], nil
}

// FinalAccuracy returns the last value of the first accuracy metric present,
// preferring validation accuracy.
func (h TrainingHistory) FinalAccuracy() (float64, string, error) {
	for _, metric := range AccuracyMetrics {
		if v, err := h.Final(metric); err == nil {
			return v, metric, nil
		}
	}
	return 0, "", fmt.Errorf("%w: none of %v", ErrMetricNotRecorded, AccuracyMetrics)
}
