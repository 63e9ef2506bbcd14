// Package centrality implements extractive summarization by sentence
// centrality: sentences most similar to the rest of the article are kept.
package centrality

import (
	"cmp"
	"math"
	"slices"
)

// Scores returns the centrality of each vector: the sum of its cosine
// similarities to every vector, itself included.
func Scores(vectors [][]float32) []float64 {
	norms := make([]float64, len(vectors))
	for i, v := range vectors {
		norms[i] = norm(v)
	}

	scores := make([]float64, len(vectors))
	for i := range vectors {
		for j := i; j < len(vectors); j++ {
			sim := cosine(vectors[i], vectors[j], norms[i], norms[j])
			scores[i] += sim
			if j != i {
				scores[j] += sim
			}
		}
	}
	return scores
}

// TopK returns the indices of the k highest scores in ascending index
// order. Equal scores are ranked by index, so among tied sentences the
// earlier one is kept. A k not smaller than len(scores) selects everything.
func TopK(scores []float64, k int) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(scores[b], scores[a])
	})

	k = max(0, min(k, len(order)))
	top := order[:k]
	slices.Sort(top)
	return top
}

// Rank returns the indices of the k most central vectors in ascending
// index order.
func Rank(vectors [][]float32, k int) []int {
	return TopK(Scores(vectors), k)
}

// cosine returns the cosine similarity of a and b given their norms.
// Similarity with a zero vector is 0. Vectors of different length are
// compared over their common prefix.
func cosine(a, b []float32, na, nb float64) float64 {
	if na == 0 || nb == 0 {
		return 0
	}
	var dot float64
	for i := range min(len(a), len(b)) {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (na * nb)
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
