package chroma

import (
	"math"
	"testing"
)

func TestCosineSimilarityIdentical(t *testing.T) {
	v := []float64{0.2, 0.0, 0.5, 0.3, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0}
	got := CosineSimilarity(v, v)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("similarity of a vector with itself = %f, want 1.0", got)
	}
}

func TestCosineSimilarityOrthogonal(t *testing.T) {
	a := []float64{1, 0, 0, 0}
	b := []float64{0, 1, 0, 0}
	if got := CosineSimilarity(a, b); got != 0 {
		t.Errorf("similarity of orthogonal vectors = %f, want 0", got)
	}
}

func TestCosineSimilarityZeroVector(t *testing.T) {
	zero := make([]float64, 12)
	v := []float64{1, 0, 0, 0, 1, 0, 0, 1, 0, 0, 0, 0}

	if got := CosineSimilarity(zero, v); got != 0 {
		t.Errorf("similarity with zero vector = %f, want 0 (never NaN)", got)
	}
	if got := CosineSimilarity(zero, zero); got != 0 || math.IsNaN(got) {
		t.Errorf("similarity of two zero vectors = %f, want 0", got)
	}
}

func TestCosineSimilarityScaleInvariant(t *testing.T) {
	a := []float64{0.1, 0.2, 0.3, 0.4}
	b := []float64{1.0, 2.0, 3.0, 4.0}
	got := CosineSimilarity(a, b)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("similarity of scaled vectors = %f, want 1.0", got)
	}
}
