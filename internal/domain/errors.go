package domain

import "errors"

var (
	// ErrInvalidPack is returned by Start when the pack is missing, empty,
	// or contains incomplete questions.
	ErrInvalidPack = errors.New("pack is missing, empty, or has incomplete questions")
	// ErrPackNotFound indicates the requested pack does not exist in the store.
	ErrPackNotFound = errors.New("question pack not found")
	// ErrDuplicateQuestion is returned on a bank insert whose fingerprint
	// collides with an already stored question.
	ErrDuplicateQuestion = errors.New("question already exists in the bank")
	// ErrSessionNotFound indicates no play-through is active for the caller.
	ErrSessionNotFound = errors.New("quiz session not found")
)
