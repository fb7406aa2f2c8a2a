// Package insight turns a cluster assignment and a feature vector into the
// learner-facing result: a semantic learning-style label and a short
// message, generated by the narrative provider when available and by a
// deterministic rule table otherwise.
package insight

// Learning-style labels. LabelUnknown covers any cluster id outside the
// mapping and is distinct from the empty-dataset newcomer result.
const (
	LabelFast       = "Fast Learner"
	LabelReflective = "Reflective Learner"
	LabelConsistent = "Consistent Learner"
	LabelUnknown    = "Unknown"
)

// Mapping is the versioned cluster-id→label table. Cluster ids are not
// stable across training runs, so the mapping travels with the model
// artifacts and is re-validated after every retrain.
type Mapping struct {
	Version int            `json:"version"`
	Labels  map[int]string `json:"labels"`
}

// DefaultMapping is the hand-verified mapping for the currently shipped
// model fit.
func DefaultMapping() Mapping {
	return Mapping{
		Version: 1,
		Labels: map[int]string{
			0: LabelFast,
			1: LabelReflective,
			2: LabelConsistent,
		},
	}
}

// Label resolves a cluster id, falling back to LabelUnknown for ids the
// mapping does not cover.
func (m Mapping) Label(cluster int) string {
	if l, ok := m.Labels[cluster]; ok {
		return l
	}
	return LabelUnknown
}
