package conditions

import "strings"

type Condition string

const (
	CondHasMessage Condition = "has-message"
	CondStarving   Condition = "starving"
	CondHungry     Condition = "hungry"
	CondPeckish    Condition = "peckish"
	CondFull       Condition = "full"
)

const (
	HungryBelow  = 30
	PeckishBelow = 70
)

type DerivedStatus struct {
	Saturation int
	Conditions map[Condition]bool
	Primary    Condition
	AllOrdered []Condition
}

// DeriveStatus maps a saturation percentage and the pending message to
// conditions, highest priority first. Exactly one hunger condition is set.
func DeriveStatus(saturation int, message string) DerivedStatus {
	conds := make(map[Condition]bool)
	var ordered []Condition

	if message != "" {
		conds[CondHasMessage] = true
		ordered = append(ordered, CondHasMessage)
	}

	hunger := Mood(saturation)
	conds[hunger] = true
	ordered = append(ordered, hunger)

	return DerivedStatus{
		Saturation: saturation,
		Conditions: conds,
		Primary:    ordered[0],
		AllOrdered: ordered,
	}
}

// Mood is the hunger condition for a saturation percentage.
func Mood(saturation int) Condition {
	switch {
	case saturation <= 0:
		return CondStarving
	case saturation < HungryBelow:
		return CondHungry
	case saturation < PeckishBelow:
		return CondPeckish
	default:
		return CondFull
	}
}

// FormatConditions formats conditions as a comma-separated string, "full"
// when empty. A starving pet hides every other hunger condition; a message is
// appended as "and has a message".
func FormatConditions(conds []Condition) string {
	hasStarving := false
	hasMessage := false
	for _, c := range conds {
		if c == CondStarving {
			hasStarving = true
		}
		if c == CondHasMessage {
			hasMessage = true
		}
	}

	var parts []string
	if hasStarving {
		parts = []string{string(CondStarving)}
	} else {
		for _, c := range conds {
			if c != CondHasMessage {
				parts = append(parts, string(c))
			}
		}
	}

	if len(parts) == 0 {
		if hasMessage {
			return "has a message"
		}
		return string(CondFull)
	}

	result := strings.Join(parts, ", ")
	if hasMessage {
		result += " and has a message"
	}
	return result
}
