package chroma

import "math"

// CosineSimilarity calculates cosine similarity between two vectors.
// A zero vector on either side yields 0, never NaN.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	dotProduct := 0.0
	normA := 0.0
	normB := 0.0

	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CosineDistance calculates cosine distance (1 - cosine similarity)
func CosineDistance(a, b []float64) float64 {
	return 1.0 - CosineSimilarity(a, b)
}
