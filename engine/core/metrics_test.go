package core

import (
	"strings"
	"testing"
)

func TestLevelMetricsInstancesPerDraw(t *testing.T) {
	tests := []struct {
		metrics LevelMetrics
		want    float64
	}{
		{LevelMetrics{}, 0},
		{LevelMetrics{DrawCalls: 4, Instances: 10}, 2.5},
		{LevelMetrics{DrawCalls: 3, Instances: 3}, 1},
	}
	for _, tt := range tests {
		if have := tt.metrics.InstancesPerDraw(); have != tt.want {
			t.Fatalf("InstancesPerDraw(%+v):\nhave %v\nwant %v", tt.metrics, have, tt.want)
		}
	}

	s := LevelMetrics{DrawCalls: 4, Instances: 10}.String()
	if !strings.Contains(s, "instances=10 (2.50/draw)") {
		t.Fatalf("String:\nhave %q\nwant it to contain %q", s, "instances=10 (2.50/draw)")
	}
}
