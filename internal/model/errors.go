package model

import "errors"

// Sentinel errors for store operations.
var (
	// ErrNodeNotFound indicates the sid does not name a known node.
	ErrNodeNotFound = errors.New("model: node not found")
)
