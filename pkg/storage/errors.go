package storage

import (
	"errors"
	"strings"
)

var (
	ErrNotFound        = errors.New("blob not found")
	ErrEmptyKey        = errors.New("storage key must not be empty")
	ErrInvalidKey      = errors.New("storage key contains invalid path segment")
	ErrInvalidListSize = errors.New("max_results must be a positive integer")
)

// validateKey accepts slash-separated relative keys such as
// "3f9a0c1b2d4e/chunks.json". Empty, "." and ".." segments are rejected
// so a key can never climb out of the index prefix.
func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return validatePrefix(key)
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return nil
	}
	if strings.HasPrefix(prefix, "/") || strings.ContainsRune(prefix, '\\') {
		return ErrInvalidKey
	}
	segments := strings.Split(strings.TrimSuffix(prefix, "/"), "/")
	for _, seg := range segments {
		if seg == "" || seg == "." || seg == ".." {
			return ErrInvalidKey
		}
	}
	return nil
}
