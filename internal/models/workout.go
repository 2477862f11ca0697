package models

import (
	"strconv"
	"strings"
)

// TrainingGoal represents the goal a workout plan is built for
type TrainingGoal string

const (
	TrainingGoalStrength  TrainingGoal = "Strength"
	TrainingGoalEndurance TrainingGoal = "Endurance"
	TrainingGoalBulking   TrainingGoal = "Bulking"
)

// TrainingGoals returns every supported goal in declaration order
func TrainingGoals() []TrainingGoal {
	return []TrainingGoal{TrainingGoalStrength, TrainingGoalEndurance, TrainingGoalBulking}
}

// ParseTrainingGoal maps a raw value onto a TrainingGoal. Matching is case-sensitive.
func ParseTrainingGoal(value string) (TrainingGoal, bool) {
	switch TrainingGoal(value) {
	case TrainingGoalStrength, TrainingGoalEndurance, TrainingGoalBulking:
		return TrainingGoal(value), true
	default:
		return "", false
	}
}

// BodyPart represents a muscle group that can be targeted by a plan
type BodyPart string

const (
	BodyPartChest BodyPart = "Chest"
	BodyPartLegs  BodyPart = "Legs"
	BodyPartBack  BodyPart = "Back"
	BodyPartAbs   BodyPart = "Abs"
)

// BodyParts returns every body part in declaration order
func BodyParts() []BodyPart {
	return []BodyPart{BodyPartChest, BodyPartLegs, BodyPartBack, BodyPartAbs}
}

// ParseBodyPart maps a raw key onto a BodyPart. Matching is case-sensitive.
func ParseBodyPart(value string) (BodyPart, bool) {
	switch BodyPart(value) {
	case BodyPartChest, BodyPartLegs, BodyPartBack, BodyPartAbs:
		return BodyPart(value), true
	default:
		return "", false
	}
}

// Workout time limits in minutes (inclusive)
const (
	MinWorkoutMinutes = 15
	MaxWorkoutMinutes = 180
)

// BodyPartSelection is a single entry of the bodyParts mapping
type BodyPartSelection struct {
	Part     BodyPart `json:"part"`
	Selected bool     `json:"selected"`
}

// WorkoutRequest is a validated workout planning request.
// BodyParts keeps the order in which the client submitted the keys.
type WorkoutRequest struct {
	TrainingGoal TrainingGoal        `json:"trainingGoal"`
	Time         float64             `json:"time"`
	BodyParts    []BodyPartSelection `json:"bodyParts"`
}

// SelectedBodyParts returns the parts flagged true, in submission order
func (r *WorkoutRequest) SelectedBodyParts() []BodyPart {
	var selected []BodyPart
	for _, bp := range r.BodyParts {
		if bp.Selected {
			selected = append(selected, bp.Part)
		}
	}
	return selected
}

// FormatMinutes renders the requested time the way it was sent: 60 stays "60", 45.5 stays "45.5"
func (r *WorkoutRequest) FormatMinutes() string {
	return strconv.FormatFloat(r.Time, 'f', -1, 64)
}

// GoalDescription returns the lower-cased training goal for use in prose
func (r *WorkoutRequest) GoalDescription() string {
	return strings.ToLower(string(r.TrainingGoal))
}

// WorkoutRequestDoc documents the wire shape of a workout request for the API docs
type WorkoutRequestDoc struct {
	TrainingGoal string          `json:"trainingGoal" example:"Strength" enums:"Strength,Endurance,Bulking"`
	Time         float64         `json:"time" example:"45" minimum:"15" maximum:"180"`
	BodyParts    map[string]bool `json:"bodyParts"`
}
