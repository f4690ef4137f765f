package services

import "github.com/zluffi/zluffi-backend/internal/dto"

// ValidationError aggregates per-field problems so handlers can return
// a structured 400 body instead of a bare message.
type ValidationError struct {
	Fields []dto.FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid input"
	}
	return e.Fields[0].Field + ": " + e.Fields[0].Message
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, dto.FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
