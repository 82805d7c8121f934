//go:build linux

package platform

import "testing"

func TestCapX11Size(t *testing.T) {
	tests := []struct {
		in, want Size
	}{
		{Size{1920, 1080}, Size{1920, 1080}},
		{Size{32767, 32767}, Size{32767, 32767}},
		{Size{70000, 600}, Size{32767, 600}},
		{Size{800, 65536}, Size{800, 32767}},
	}
	for _, tt := range tests {
		if got := capX11Size(tt.in); got != tt.want {
			t.Errorf("capX11Size(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
