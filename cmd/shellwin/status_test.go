package main

import (
	"strings"
	"testing"

	"github.com/1broseidon/shellwin/internal/ipc"
)

func TestRenderStatus(t *testing.T) {
	tests := []struct {
		name   string
		status *ipc.StatusData
		want   []string
	}{
		{
			name: "placed",
			status: &ipc.StatusData{
				Label:     "main",
				WindowID:  0x2a00001,
				Placement: &ipc.PlacementStatus{Outcome: "placed", X: 760, Y: 740, Width: 400, Height: 280, UsedFallback: true},
				Commands:  []string{"status", "start_drag"},
			},
			want: []string{"main (0x2a00001)", "placed", "760,740", "400x280 (fallback)", "status, start_drag"},
		},
		{
			name: "move failed",
			status: &ipc.StatusData{
				Label:     "main",
				Placement: &ipc.PlacementStatus{Outcome: "move_failed", Error: "BadWindow"},
			},
			want: []string{"move_failed", "BadWindow"},
		},
		{
			name:   "placement disabled",
			status: &ipc.StatusData{Label: "main"},
			want:   []string{"disabled"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderStatus(tt.status)
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("renderStatus() missing %q in:\n%s", w, out)
				}
			}
		})
	}
}
