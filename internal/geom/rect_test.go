package geom

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// TestNormalize_Positive verifies Normalize keeps positive sizes intact.
func TestNormalize_Positive(t *testing.T) {
	in := Rect{Left: 1, Top: 2, Width: 3, Height: 4}
	require.Equal(t, in, in.Normalize())
}

// TestNormalize_NegativeDims verifies Normalize flips negative sizes.
func TestNormalize_NegativeDims(t *testing.T) {
	in := Rect{Left: 10, Top: 20, Width: -5, Height: -6}
	want := Rect{Left: 5, Top: 14, Width: 5, Height: 6}
	if diff := cmp.Diff(want, in.Normalize()); diff != "" {
		t.Fatalf("Normalize mismatch (-want +got):\n%s", diff)
	}
}

// TestContains_EdgesInclusive verifies edges count as inside and outside points do not.
func TestContains_EdgesInclusive(t *testing.T) {
	r := Rect{Left: 10, Top: 20, Width: 5, Height: 4}
	require.True(t, r.Contains(12, 22))
	require.True(t, r.Contains(10, 20))
	require.True(t, r.Contains(15, 24))
	require.False(t, r.Contains(9.99, 20))
	require.False(t, r.Contains(15.01, 24))
}

// TestContains_ZeroSize verifies a collapsed rect still contains its own point.
func TestContains_ZeroSize(t *testing.T) {
	r := Rect{Left: 3, Top: 3}
	require.True(t, r.Contains(3, 3))
	require.False(t, r.Contains(3, 4))
}

// TestInflate verifies growing and shrinking around the center.
func TestInflate(t *testing.T) {
	r := Rect{Left: 10, Top: 10, Width: 20, Height: 10}
	require.Equal(t, Rect{Left: 8, Top: 7, Width: 24, Height: 16}, r.Inflate(2, 3))
	require.Equal(t, Rect{Left: 12, Top: 11, Width: 16, Height: 8}, r.Inflate(-2, -1))
}

// TestIntersect verifies overlapping and disjoint intersections.
func TestIntersect(t *testing.T) {
	a := Rect{Left: 0, Top: 0, Width: 10, Height: 10}
	b := Rect{Left: 5, Top: -5, Width: 10, Height: 10}
	require.Equal(t, Rect{Left: 5, Top: 0, Width: 5, Height: 5}, a.Intersect(b))

	c := Rect{Left: 20, Top: 20, Width: 1, Height: 1}
	require.True(t, a.Intersect(c).Empty())
}

// TestImage_Rounds verifies conversion to integer pixel rectangles.
func TestImage_Rounds(t *testing.T) {
	r := Rect{Left: 16.6, Top: 0.4, Width: 66.8, Height: 10.2}
	require.Equal(t, image.Rect(17, 0, 83, 11), r.Image())
	require.Equal(t, Rect{Left: 1, Top: 2, Width: 3, Height: 4}, FromImage(image.Rect(1, 2, 4, 6)))
}

// TestCircleContains verifies the circle test is radial, not square.
func TestCircleContains(t *testing.T) {
	c := Circle{X: 0, Y: 0, R: 5}
	require.True(t, c.Contains(3, 4))
	require.True(t, c.Contains(5, 0))
	require.False(t, c.Contains(4, 4))
}

// TestClamp verifies clamping including an inverted range.
func TestClamp(t *testing.T) {
	require.Equal(t, 5.0, Clamp(0, 5, 10))
	require.Equal(t, 0.0, Clamp(0, -1, 10))
	require.Equal(t, 10.0, Clamp(0, 11, 10))
	require.Equal(t, 3.0, Clamp(3, 7, 1))
}

// TestBetween verifies inclusive ordering-insensitive range checks.
func TestBetween(t *testing.T) {
	require.True(t, Between(0, 5, 10))
	require.True(t, Between(10, 5, 0))
	require.True(t, Between(0, 0, 10))
	require.False(t, Between(0, 11, 10))
}
