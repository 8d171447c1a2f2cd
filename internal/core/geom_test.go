package core

import "testing"

func TestRectTopWithInvertedHeight(t *testing.T) {
	// Level boundaries extend upward, so the height is negative and the
	// top edge has the smaller y value.
	r := NewRect(0, 0, 4000, -1000)

	if got := r.Top(); got != -1000 {
		t.Errorf("Top() = %v, want -1000", got)
	}
	if got := r.Right(); got != 4000 {
		t.Errorf("Right() = %v, want 4000", got)
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(0, 0, 100, -50)

	tests := []struct {
		x, y float64
		want bool
	}{
		{50, -25, true},
		{50, -49, true},
		{50, 10, false},
		{-1, -25, false},
		{100, -25, false},
	}

	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 10); got != 5 {
		t.Errorf("Clamp(5, 0, 10) = %v", got)
	}
	if got := Clamp(-3, 0, 10); got != 0 {
		t.Errorf("Clamp(-3, 0, 10) = %v", got)
	}
	if got := Clamp(42, 0, 10); got != 10 {
		t.Errorf("Clamp(42, 0, 10) = %v", got)
	}
}
