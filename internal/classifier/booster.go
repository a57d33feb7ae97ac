package classifier

import (
	"math"
	"sort"
)

// BoosterParams configures gradient boosting
type BoosterParams struct {
	NumTrees        int     `json:"num_trees" mapstructure:"num_trees"`
	LearningRate    float64 `json:"learning_rate" mapstructure:"learning_rate"`
	MaxDepth        int     `json:"max_depth" mapstructure:"max_depth"`
	MinChildSamples int     `json:"min_child_samples" mapstructure:"min_child_samples"`
	Lambda          float64 `json:"lambda" mapstructure:"lambda"`
}

// DefaultBoosterParams returns parameters tuned for a small corpus
func DefaultBoosterParams() BoosterParams {
	return BoosterParams{
		NumTrees:        100,
		LearningRate:    0.1,
		MaxDepth:        3,
		MinChildSamples: 5,
		Lambda:          1.0,
	}
}

func (p BoosterParams) withDefaults() BoosterParams {
	d := DefaultBoosterParams()
	if p.NumTrees <= 0 {
		p.NumTrees = d.NumTrees
	}
	if p.LearningRate <= 0 {
		p.LearningRate = d.LearningRate
	}
	if p.MaxDepth <= 0 {
		p.MaxDepth = d.MaxDepth
	}
	if p.MinChildSamples <= 0 {
		p.MinChildSamples = d.MinChildSamples
	}
	if p.Lambda < 0 {
		p.Lambda = d.Lambda
	}
	return p
}

// Node is a tree node. Leaves carry the shrunken output value.
type Node struct {
	Leaf      bool    `json:"leaf"`
	Value     float64 `json:"value,omitempty"`
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      int     `json:"left,omitempty"`
	Right     int     `json:"right,omitempty"`
}

// Tree is a binary regression tree stored as a flat node slice; node 0 is the root
type Tree struct {
	Nodes []Node `json:"nodes"`
}

func (t *Tree) predict(x []float64) float64 {
	if len(t.Nodes) == 0 {
		return 0
	}
	i := 0
	for {
		n := t.Nodes[i]
		if n.Leaf {
			return n.Value
		}
		// Features beyond the vector are treated as absent (zero)
		var v float64
		if n.Feature < len(x) {
			v = x[n.Feature]
		}
		if v <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Booster is a gradient-boosted ensemble for binary log-loss
type Booster struct {
	InitScore float64 `json:"init_score"`
	Trees     []Tree  `json:"trees"`
}

// Margin returns the raw log-odds for a feature vector
func (b *Booster) Margin(x []float64) float64 {
	score := b.InitScore
	for i := range b.Trees {
		score += b.Trees[i].predict(x)
	}
	return score
}

// Probability returns the predicted probability of the positive class
func (b *Booster) Probability(x []float64) float64 {
	return sigmoid(b.Margin(x))
}

// TrainBooster fits an ensemble on dense features X and 0/1 labels y.
// Training is deterministic for identical input.
func TrainBooster(X [][]float64, y []float64, params BoosterParams) *Booster {
	params = params.withDefaults()

	n := len(y)
	var positives float64
	for _, label := range y {
		positives += label
	}
	prior := (positives + 0.5) / (float64(n) + 1)
	b := &Booster{InitScore: math.Log(prior / (1 - prior))}

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = b.InitScore
	}
	grad := make([]float64, n)
	hess := make([]float64, n)

	all := make([]int, n)
	for i := range all {
		all[i] = i
	}

	for round := 0; round < params.NumTrees; round++ {
		for i := 0; i < n; i++ {
			p := sigmoid(scores[i])
			grad[i] = p - y[i]
			hess[i] = math.Max(p*(1-p), 1e-12)
		}

		g := &grower{X: X, grad: grad, hess: hess, params: params}
		g.build(all, 0)
		tree := Tree{Nodes: g.nodes}

		for i := 0; i < n; i++ {
			scores[i] += tree.predict(X[i])
		}
		b.Trees = append(b.Trees, tree)
	}

	return b
}

type grower struct {
	X      [][]float64
	grad   []float64
	hess   []float64
	params BoosterParams
	nodes  []Node
}

type split struct {
	feature   int
	threshold float64
	gain      float64
	left      []int
	right     []int
}

// build grows the subtree over rows and returns its node index
func (g *grower) build(rows []int, depth int) int {
	idx := len(g.nodes)
	g.nodes = append(g.nodes, Node{})

	G, H := g.sums(rows)

	if depth < g.params.MaxDepth && len(rows) >= 2*g.params.MinChildSamples {
		if best, ok := g.bestSplit(rows, G, H); ok {
			left := g.build(best.left, depth+1)
			right := g.build(best.right, depth+1)
			g.nodes[idx] = Node{
				Feature:   best.feature,
				Threshold: best.threshold,
				Left:      left,
				Right:     right,
			}
			return idx
		}
	}

	g.nodes[idx] = Node{
		Leaf:  true,
		Value: -G / (H + g.params.Lambda) * g.params.LearningRate,
	}
	return idx
}

func (g *grower) sums(rows []int) (float64, float64) {
	var G, H float64
	for _, r := range rows {
		G += g.grad[r]
		H += g.hess[r]
	}
	return G, H
}

func (g *grower) bestSplit(rows []int, G, H float64) (split, bool) {
	lambda := g.params.Lambda
	minChild := g.params.MinChildSamples
	parent := G * G / (H + lambda)

	best := split{gain: 1e-9}
	found := false

	sorted := make([]int, len(rows))
	dims := len(g.X[rows[0]])
	for f := 0; f < dims; f++ {
		copy(sorted, rows)
		sort.SliceStable(sorted, func(a, b int) bool {
			return g.X[sorted[a]][f] < g.X[sorted[b]][f]
		})

		var GL, HL float64
		for i := 0; i < len(sorted)-1; i++ {
			r := sorted[i]
			GL += g.grad[r]
			HL += g.hess[r]

			leftCount := i + 1
			if leftCount < minChild || len(sorted)-leftCount < minChild {
				continue
			}
			cur, next := g.X[r][f], g.X[sorted[i+1]][f]
			if cur == next {
				continue
			}

			GR, HR := G-GL, H-HL
			gain := GL*GL/(HL+lambda) + GR*GR/(HR+lambda) - parent
			if gain > best.gain {
				best.gain = gain
				best.feature = f
				best.threshold = (cur + next) / 2
				found = true
			}
		}
	}

	if !found {
		return best, false
	}

	for _, r := range rows {
		if g.X[r][best.feature] <= best.threshold {
			best.left = append(best.left, r)
		} else {
			best.right = append(best.right, r)
		}
	}
	return best, true
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
