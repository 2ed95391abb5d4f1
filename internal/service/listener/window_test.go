package listener

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sandevgo/slackwatch/internal/core"
)

func TestLowerBound(t *testing.T) {
	now := time.UnixMilli(1700000500999)

	tests := []struct {
		name      string
		window    core.DataCollectionWindow
		wantPhase phase
		want      int64
	}{
		{
			name:      "first run looks back three seconds",
			window:    core.DataCollectionWindow{},
			wantPhase: phaseFirstRun,
			want:      1700000497,
		},
		{
			name:      "steady state truncates last run to seconds",
			window:    core.DataCollectionWindow{LastRun: time.UnixMilli(1700000000123)},
			wantPhase: phaseSteadyState,
			want:      1700000000,
		},
		{
			name:      "latest is ignored",
			window:    core.DataCollectionWindow{Latest: 42, LastRun: time.Unix(1700000100, 0)},
			wantPhase: phaseSteadyState,
			want:      1700000100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantPhase, windowPhase(tt.window))
			assert.Equal(t, tt.want, lowerBound(tt.window, now))
		})
	}
}
