package store

import "errors"

var (
	ErrNotFound             = errors.New("record not found")
	ErrDuplicateUser        = errors.New("user already exists")
	ErrDuplicateAppointment = errors.New("appointment already exists for this slot")
)
