package conditions

import (
	"testing"
)

func TestFormatConditions(t *testing.T) {
	tests := []struct {
		name     string
		conds    []Condition
		expected string
	}{
		{
			name:     "empty conditions returns full",
			conds:    []Condition{},
			expected: "full",
		},
		{
			name:     "single condition",
			conds:    []Condition{CondPeckish},
			expected: "peckish",
		},
		{
			name:     "two conditions",
			conds:    []Condition{CondHungry, CondPeckish},
			expected: "hungry, peckish",
		},
		{
			name:     "message appended",
			conds:    []Condition{CondHasMessage, CondHungry},
			expected: "hungry and has a message",
		},
		{
			name:     "only message",
			conds:    []Condition{CondHasMessage},
			expected: "has a message",
		},
		{
			name:     "starving hides the rest",
			conds:    []Condition{CondStarving, CondHungry},
			expected: "starving",
		},
		{
			name:     "starving with message",
			conds:    []Condition{CondHasMessage, CondStarving, CondPeckish},
			expected: "starving and has a message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatConditions(tt.conds); got != tt.expected {
				t.Errorf("FormatConditions(%v) = %q, want %q", tt.conds, got, tt.expected)
			}
		})
	}
}

func TestMood(t *testing.T) {
	tests := []struct {
		saturation int
		want       Condition
	}{
		{0, CondStarving},
		{-3, CondStarving},
		{1, CondHungry},
		{29, CondHungry},
		{30, CondPeckish},
		{69, CondPeckish},
		{70, CondFull},
		{100, CondFull},
	}
	for _, tt := range tests {
		if got := Mood(tt.saturation); got != tt.want {
			t.Errorf("Mood(%d) = %s, want %s", tt.saturation, got, tt.want)
		}
	}
}

func TestDeriveStatus(t *testing.T) {
	st := DeriveStatus(50, "Feeding pet...")
	if st.Primary != CondHasMessage {
		t.Errorf("primary = %s, want has-message", st.Primary)
	}
	if len(st.AllOrdered) != 2 || st.AllOrdered[1] != CondPeckish {
		t.Errorf("ordered = %v", st.AllOrdered)
	}
	if !st.Conditions[CondPeckish] || st.Conditions[CondFull] {
		t.Errorf("conditions = %v", st.Conditions)
	}

	st = DeriveStatus(100, "")
	if st.Primary != CondFull || len(st.AllOrdered) != 1 {
		t.Errorf("fed pet status = %+v", st)
	}
	if got := FormatConditions(st.AllOrdered); got != "full" {
		t.Errorf("formatted = %q", got)
	}
}
