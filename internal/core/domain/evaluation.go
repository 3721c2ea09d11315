package domain

import (
	"model-platform-sdk/internal/api"
)

// EvaluationResult is the platform's record of one evaluation of a model.
type EvaluationResult = api.EvaluationResultsEntity

// Evaluations maps evaluation id to result and remembers insertion order.
// The zero value is ready to use.
type Evaluations struct {
	order []string
	byID  map[string]*EvaluationResult
}

// Put stores r under id. Re-using an id replaces the result in place.
func (e *Evaluations) Put(id string, r *EvaluationResult) {
	if e.byID == nil {
		e.byID = make(map[string]*EvaluationResult)
	}
	if _, ok := e.byID[id]; !ok {
		e.order = append(e.order, id)
	}
	e.byID[id] = r
}

func (e *Evaluations) Get(id string) (*EvaluationResult, bool) {
	r, ok := e.byID[id]
	return r, ok
}

func (e *Evaluations) Len() int {
	return len(e.order)
}

// IDs returns evaluation ids in insertion order.
func (e *Evaluations) IDs() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// All returns results in insertion order.
func (e *Evaluations) All() []*EvaluationResult {
	out := make([]*EvaluationResult, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.byID[id])
	}
	return out
}
