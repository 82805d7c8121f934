package hotkeys

import (
	"sort"
	"testing"

	"github.com/rs/zerolog"

	"github.com/1broseidon/floatwin/internal/platform"
)

func TestIgnoreMasks(t *testing.T) {
	tests := []struct {
		base []uint16
		want []uint16
	}{
		{nil, []uint16{0}},
		{[]uint16{2}, []uint16{0, 2}},
		{[]uint16{2, 16}, []uint16{0, 2, 16, 18}},
		{[]uint16{2, 16, 128}, []uint16{0, 2, 16, 18, 128, 130, 144, 146}},
	}
	for _, tt := range tests {
		got := ignoreMasks(tt.base)
		sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
		if len(got) != len(tt.want) {
			t.Fatalf("ignoreMasks(%v) = %v, want %v", tt.base, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("ignoreMasks(%v) = %v, want %v", tt.base, got, tt.want)
			}
		}
	}
}

func TestNewHandler_RequiresX11(t *testing.T) {
	if _, err := NewHandler(platform.NewHeadlessServer(), zerolog.Nop()); err == nil {
		t.Fatal("expected error for headless display")
	}
}
