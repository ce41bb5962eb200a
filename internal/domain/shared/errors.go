package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Construction project errors

// ProjectError is the base type for construction project errors
type ProjectError struct {
	*DomainError
	BuildingID string
	Position   GridPosition
}

func NewProjectError(message, buildingID string, pos GridPosition) *ProjectError {
	return &ProjectError{
		DomainError: &DomainError{Message: message},
		BuildingID:  buildingID,
		Position:    pos,
	}
}

// DuplicateProjectError indicates a Begin or Resume targeted a key that already
// holds a live project. This is a programmer error in the UI flow: callers log
// loudly and treat it as a no-op.
type DuplicateProjectError struct {
	*ProjectError
}

func NewDuplicateProjectError(buildingID string, pos GridPosition) *DuplicateProjectError {
	return &DuplicateProjectError{
		ProjectError: NewProjectError(
			fmt.Sprintf("construction project already exists for %s at %s", buildingID, pos),
			buildingID,
			pos,
		),
	}
}

// NotFoundError indicates an operation on an absent project key. Recoverable:
// callers stop polling and treat the building as having no construction data.
type NotFoundError struct {
	*ProjectError
}

func NewNotFoundError(buildingID string, pos GridPosition) *NotFoundError {
	return &NotFoundError{
		ProjectError: NewProjectError(
			fmt.Sprintf("no construction project for %s at %s", buildingID, pos),
			buildingID,
			pos,
		),
	}
}

// AlreadyPausedError indicates a double pause. Recoverable no-op.
type AlreadyPausedError struct {
	*ProjectError
}

func NewAlreadyPausedError(buildingID string, pos GridPosition) *AlreadyPausedError {
	return &AlreadyPausedError{
		ProjectError: NewProjectError(
			fmt.Sprintf("construction project for %s at %s is already paused", buildingID, pos),
			buildingID,
			pos,
		),
	}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
