package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedBody is returned when the request body is not a usable JSON document.
// It is not a ValidationError; callers report it as an internal error.
var ErrMalformedBody = errors.New("malformed request body")

// Validation messages, in the order the rules are checked
const (
	MsgBodyRequired        = "Request body is required"
	MsgTrainingGoalType    = "trainingGoal is required and must be a string"
	MsgTrainingGoalInvalid = "Invalid trainingGoal. Must be one of: %s"
	MsgTimeRange           = "Time must be between %d and %d minutes"
	MsgBodyPartsType       = "bodyParts must be an object"
	MsgBodyPartsMissing    = "Missing required body parts: %s"
	MsgBodyPartsInvalid    = "Invalid body parts or values: %s"
	MsgBodyPartsNone       = "At least one body part must be selected"
)

// ParseWorkoutRequest decodes and validates a raw request body.
// Rules are applied in a fixed order and the first violation is returned as a *ValidationError.
// Bodies that are not JSON, or are JSON null, yield an error wrapping ErrMalformedBody.
func ParseWorkoutRequest(body []byte) (*WorkoutRequest, error) {
	if len(body) == 0 {
		return nil, &ValidationError{Field: "body", Message: MsgBodyRequired}
	}

	fields, err := decodeRequestFields(body)
	if err != nil {
		return nil, err
	}

	goal, err := validateTrainingGoal(fields)
	if err != nil {
		return nil, err
	}

	minutes, err := validateTime(fields)
	if err != nil {
		return nil, err
	}

	parts, err := validateBodyParts(fields)
	if err != nil {
		return nil, err
	}

	return &WorkoutRequest{
		TrainingGoal: goal,
		Time:         minutes,
		BodyParts:    parts,
	}, nil
}

func decodeRequestFields(body []byte) (jsonObject, error) {
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedBody)
	}

	trimmed := bytes.TrimSpace(body)
	if isJSONNull(trimmed) {
		return nil, fmt.Errorf("%w: body is null", ErrMalformedBody)
	}

	// Non-object documents carry no fields and fail on the first field rule
	fields, _, err := decodeObject(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return fields, nil
}

func validateTrainingGoal(fields jsonObject) (TrainingGoal, error) {
	raw, ok := fields.get("trainingGoal")
	if !ok {
		return "", &ValidationError{Field: "trainingGoal", Message: MsgTrainingGoalType}
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil || isJSONNull(raw) || value == "" {
		return "", &ValidationError{Field: "trainingGoal", Message: MsgTrainingGoalType, Value: string(raw)}
	}

	goal, ok := ParseTrainingGoal(value)
	if !ok {
		names := make([]string, 0, len(TrainingGoals()))
		for _, g := range TrainingGoals() {
			names = append(names, string(g))
		}
		return "", &ValidationError{
			Field:   "trainingGoal",
			Message: fmt.Sprintf(MsgTrainingGoalInvalid, strings.Join(names, ", ")),
			Value:   value,
		}
	}

	return goal, nil
}

func validateTime(fields jsonObject) (float64, error) {
	rangeErr := &ValidationError{
		Field:   "time",
		Message: fmt.Sprintf(MsgTimeRange, MinWorkoutMinutes, MaxWorkoutMinutes),
	}

	raw, ok := fields.get("time")
	if !ok || isJSONNull(raw) {
		return 0, rangeErr
	}

	var minutes float64
	if err := json.Unmarshal(raw, &minutes); err != nil {
		rangeErr.Value = string(raw)
		return 0, rangeErr
	}

	if minutes < MinWorkoutMinutes || minutes > MaxWorkoutMinutes {
		rangeErr.Value = minutes
		return 0, rangeErr
	}

	return minutes, nil
}

func validateBodyParts(fields jsonObject) ([]BodyPartSelection, error) {
	raw, ok := fields.get("bodyParts")
	if !ok || isJSONNull(raw) {
		return nil, &ValidationError{Field: "bodyParts", Message: MsgBodyPartsType}
	}

	entries, isContainer, err := decodeObject(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if !isContainer {
		return nil, &ValidationError{Field: "bodyParts", Message: MsgBodyPartsType, Value: string(raw)}
	}

	var missing []string
	for _, part := range BodyParts() {
		if _, ok := entries.get(string(part)); !ok {
			missing = append(missing, string(part))
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{
			Field:   "bodyParts",
			Message: fmt.Sprintf(MsgBodyPartsMissing, strings.Join(missing, ", ")),
			Value:   missing,
		}
	}

	var invalid []string
	selections := make([]BodyPartSelection, 0, len(entries))
	for _, entry := range entries {
		part, known := ParseBodyPart(entry.Key)
		selected, isBool := jsonBool(entry.Value)
		if !known || !isBool {
			invalid = append(invalid, entry.Key)
			continue
		}
		selections = append(selections, BodyPartSelection{Part: part, Selected: selected})
	}
	if len(invalid) > 0 {
		return nil, &ValidationError{
			Field:   "bodyParts",
			Message: fmt.Sprintf(MsgBodyPartsInvalid, strings.Join(invalid, ", ")),
			Value:   invalid,
		}
	}

	for _, s := range selections {
		if s.Selected {
			return selections, nil
		}
	}
	return nil, &ValidationError{Field: "bodyParts", Message: MsgBodyPartsNone}
}

// IsValidationError reports whether err carries a client-facing validation message
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
