package pipeline

import "testing"

func TestEstimateCredits(t *testing.T) {
	tests := []struct {
		nodes int
		want  int
	}{
		{0, 12},
		{1, 12},
		{60, 12},
		{61, 13},
		{64, 13},
		{65, 13},
		{66, 14},
		{89, 18},
		{90, 18},
		{200, 18},
	}
	for _, tt := range tests {
		if got := estimateCredits(tt.nodes); got != tt.want {
			t.Errorf("estimateCredits(%d) = %d, want %d", tt.nodes, got, tt.want)
		}
	}
}
