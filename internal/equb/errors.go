package equb

import "errors"

var (
	ErrMissingName         = errors.New("equb name is required")
	ErrInvalidMembers      = errors.New("members count must be at least one")
	ErrInvalidContribution = errors.New("contribution amount must be positive")
	ErrInvalidFrequency    = errors.New("unknown contribution frequency")
	ErrInvalidRound        = errors.New("current round must be between 1 and the members count")
	ErrNotFound            = errors.New("equb group not found")
	ErrCompleted           = errors.New("equb group is already completed")
)
