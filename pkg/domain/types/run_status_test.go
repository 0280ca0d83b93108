package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/daybreak/pkg/domain/types"
)

func TestRunStatus_IsValid(t *testing.T) {
	for _, status := range types.AllRunStatuses() {
		gt.Bool(t, status.IsValid()).True()
	}

	gt.Bool(t, types.RunStatus("invalid").IsValid()).False()
	gt.Bool(t, types.RunStatus("").IsValid()).False()
}

func TestRunStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status types.RunStatus
		want   bool
	}{
		{name: "pending is not terminal", status: types.RunStatusPending, want: false},
		{name: "running is not terminal", status: types.RunStatusRunning, want: false},
		{name: "aggregating is not terminal", status: types.RunStatusAggregating, want: false},
		{name: "delivering is not terminal", status: types.RunStatusDelivering, want: false},
		{name: "completed is terminal", status: types.RunStatusCompleted, want: true},
		{name: "degraded is terminal", status: types.RunStatusDegraded, want: true},
		{name: "failed is terminal", status: types.RunStatusFailed, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want {
				gt.Bool(t, tt.status.IsTerminal()).True()
			} else {
				gt.Bool(t, tt.status.IsTerminal()).False()
			}
		})
	}
}

func TestRunStatus_CanTransition(t *testing.T) {
	allowed := map[types.RunStatus][]types.RunStatus{
		types.RunStatusPending:     {types.RunStatusRunning},
		types.RunStatusRunning:     {types.RunStatusAggregating},
		types.RunStatusAggregating: {types.RunStatusDelivering, types.RunStatusFailed},
		types.RunStatusDelivering:  {types.RunStatusCompleted, types.RunStatusDegraded, types.RunStatusFailed},
	}

	for _, from := range types.AllRunStatuses() {
		for _, to := range types.AllRunStatuses() {
			want := false
			for _, next := range allowed[from] {
				if next == to {
					want = true
				}
			}

			got := from.CanTransition(to)
			if got != want {
				t.Errorf("CanTransition(%s -> %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestRunStatus_TerminalHasNoTransitions(t *testing.T) {
	for _, from := range types.AllRunStatuses() {
		if !from.IsTerminal() {
			continue
		}
		for _, to := range types.AllRunStatuses() {
			gt.Bool(t, from.CanTransition(to)).False()
		}
	}
}

func TestParseRunStatus(t *testing.T) {
	status, err := types.ParseRunStatus("COMPLETED")
	gt.NoError(t, err)
	gt.Value(t, status).Equal(types.RunStatusCompleted)

	_, err = types.ParseRunStatus("completed")
	gt.Error(t, err)

	_, err = types.ParseRunStatus("")
	gt.Error(t, err)
}
