// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Status is the lifecycle state shared by ballots and questions. It only
// ever advances forward through statusOrder, one step at a time.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusClosed    Status = "closed"
	StatusEvaluated Status = "evaluated"
)

var statusOrder = []Status{StatusDraft, StatusActive, StatusClosed, StatusEvaluated}

// ParseStatus returns the Status for s, or ErrValidation if s is not a
// known lifecycle state.
func ParseStatus(s string) (Status, error) {
	for _, st := range statusOrder {
		if string(st) == s {
			return st, nil
		}
	}
	return "", ErrValidation
}

// Valid reports whether s is one of the four lifecycle states.
func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// Terminal reports whether s is a terminal state eligible for retention
// purging.
func (s Status) Terminal() bool {
	return s == StatusClosed || s == StatusEvaluated
}

// Next returns the state immediately following s, or "" if s is the last
// state (or unknown).
func (s Status) Next() Status {
	for i, st := range statusOrder[:len(statusOrder)-1] {
		if st == s {
			return statusOrder[i+1]
		}
	}
	return ""
}

// CanTransitionTo reports whether target immediately follows s. Backward
// moves and skips are never allowed.
func (s Status) CanTransitionTo(target Status) bool {
	return target != "" && s.Next() == target
}
