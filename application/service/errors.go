package service

import "errors"

var (
	// ErrClientClosed indicates an operation was attempted on a closed client.
	ErrClientClosed = errors.New("client is closed")

	// ErrNoKeywords indicates the pipeline has no keyword vocabulary to
	// build feed queries from.
	ErrNoKeywords = errors.New("no keywords configured")

	// ErrEmptyQuestion indicates the assistant was asked an empty question.
	ErrEmptyQuestion = errors.New("question is empty")
)
