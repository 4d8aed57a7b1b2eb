package ml

import (
	"encoding/json"
	"fmt"
	"os"
)

// Model is a serialized decision forest trained offline on historical
// sprint data. The artifact pins the feature order and the categorical
// encoding so inference here matches the training pipeline exactly.
type Model struct {
	Features         []string           `json:"features"`
	StoryTypes       map[string]float64 `json:"story_types"`
	DefaultStoryType string             `json:"default_story_type"`
	Classes          int                `json:"classes"`
	Trees            [][]treeNode       `json:"trees"`
}

// treeNode is one node of a binary decision tree stored as a flat array.
// Leaves have F == -1 and carry the predicted class in C.
type treeNode struct {
	F int     `json:"f"` // feature index, -1 for leaf
	T float64 `json:"t"` // split threshold, go left when value <= T
	L int     `json:"l"` // left child index
	R int     `json:"r"` // right child index
	C int     `json:"c"` // class, leaves only
}

// LoadModel reads and validates a model artifact from disk.
func LoadModel(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	var m Model
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	if len(m.Features) == 0 || len(m.Trees) == 0 || m.Classes <= 0 {
		return nil, fmt.Errorf("model artifact %s is incomplete", path)
	}
	if _, ok := m.StoryTypes[m.DefaultStoryType]; !ok {
		return nil, fmt.Errorf("model artifact %s: default story type %q not in encoding", path, m.DefaultStoryType)
	}
	return &m, nil
}

// EncodeStoryType maps a categorical story type to its numeric encoding.
// Unknown categories fall back to the default the model was trained with.
func (m *Model) EncodeStoryType(name string) float64 {
	if v, ok := m.StoryTypes[name]; ok {
		return v
	}
	return m.StoryTypes[m.DefaultStoryType]
}

// Predict runs the feature vector through every tree and returns the
// majority class. Ties resolve to the lowest class.
func (m *Model) Predict(vector []float64) (int, error) {
	if len(vector) != len(m.Features) {
		return 0, fmt.Errorf("feature vector has %d values, model expects %d", len(vector), len(m.Features))
	}
	votes := make([]int, m.Classes)
	for ti, tree := range m.Trees {
		class, err := walkTree(tree, vector)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", ti, err)
		}
		if class < 0 || class >= m.Classes {
			return 0, fmt.Errorf("tree %d voted for out-of-range class %d", ti, class)
		}
		votes[class]++
	}
	best := 0
	for c, n := range votes {
		if n > votes[best] {
			best = c
		}
	}
	return best, nil
}

func walkTree(tree []treeNode, vector []float64) (int, error) {
	idx := 0
	for steps := 0; steps <= len(tree); steps++ {
		if idx < 0 || idx >= len(tree) {
			return 0, fmt.Errorf("node index %d out of range", idx)
		}
		n := tree[idx]
		if n.F < 0 {
			return n.C, nil
		}
		if n.F >= len(vector) {
			return 0, fmt.Errorf("node references feature %d beyond vector", n.F)
		}
		if vector[n.F] <= n.T {
			idx = n.L
		} else {
			idx = n.R
		}
	}
	return 0, fmt.Errorf("tree walk did not terminate")
}
