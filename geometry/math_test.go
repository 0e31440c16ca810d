package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapToGrid(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		grid  float64
		want  float64
	}{
		{"exact", 120, 40, 120},
		{"round down", 103, 20, 100},
		{"round up", 111, 20, 120},
		{"negative", -19, 20, -20},
		{"no grid", 13.5, 0, 13.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SnapToGrid(tt.value, tt.grid))
		})
	}
}

func TestOnGrid(t *testing.T) {
	assert.True(t, OnGrid(80, 40))
	assert.True(t, OnGrid(80.3, 40))
	assert.False(t, OnGrid(81, 40))
	assert.False(t, OnGrid(80, 0))
}

func TestCross(t *testing.T) {
	a, b, c := Point{0, 0}, Point{10, 0}, Point{20, 0}
	assert.Zero(t, Cross(a, b, c), "collinear points have zero cross product")

	corner := Point{10, 10}
	assert.NotZero(t, Cross(a, b, corner))
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 5.0, Distance(Point{0, 0}, Point{3, 4}))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.05, Clamp(-1, 0.05, 0.95))
	assert.Equal(t, 0.5, Clamp(0.5, 0.05, 0.95))
	assert.Equal(t, 0.95, Clamp(2, 0.05, 0.95))
}

func TestRectUnionAndOverlap(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 20, Y: 5, Width: 10, Height: 10}

	u := Union(a, b)
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 30, Height: 15}, u)
	assert.Equal(t, Rect{}, Union())

	assert.False(t, OverlapsX(a, b))
	assert.True(t, OverlapsY(a, b))
	assert.False(t, Overlaps(a, b))
	assert.True(t, Overlaps(a, Rect{X: 10, Y: 10, Width: 1, Height: 1}), "touching edges overlap")

	assert.Equal(t, [3]float64{0, 5, 10}, a.XRefs())
	assert.Equal(t, [3]float64{5, 10, 15}, b.YRefs())
	assert.True(t, a.Contains(Point{10, 10}))
	assert.Equal(t, Point{25, 10}, b.Center())
}
