package avatar

import (
	"testing"

	"github.com/Faultbox/skinhead/internal/avatar/pointer"
)

func TestPlace(t *testing.T) {
	tests := []struct {
		name             string
		w, h, size       int
		anchorX, anchorY float64
		want             pointer.Rect
	}{
		{"centred", 800, 600, 200, 0.5, 0.5, pointer.Rect{X: 300, Y: 200, W: 200, H: 200}},
		{"top left", 800, 600, 100, 0, 0, pointer.Rect{X: -50, Y: -50, W: 100, H: 100}},
		{"clamped", 400, 400, 100, 2, -1, pointer.Rect{X: 350, Y: -50, W: 100, H: 100}},
		{"upper quarter", 300, 900, 150, 0.5, 0.25, pointer.Rect{X: 75, Y: 150, W: 150, H: 150}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Place(tt.w, tt.h, tt.size, tt.anchorX, tt.anchorY)
			if got != tt.want {
				t.Errorf("Place() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
