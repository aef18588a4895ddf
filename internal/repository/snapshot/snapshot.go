// Package snapshot encodes the whole student collection as one versioned JSON
// document.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"

	"studentbook/internal/models"
	"studentbook/internal/repository"
)

// Version is written into every snapshot. Bump it when the Student fields change.
const Version = 1

type envelope struct {
	Version  int              `json:"version"`
	Students []models.Student `json:"students"`
}

func Encode(students []models.Student) ([]byte, error) {
	if students == nil {
		students = []models.Student{}
	}
	b, err := json.MarshalIndent(envelope{Version: Version, Students: students}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode snapshot: %w", repository.ErrStoreIO, err)
	}
	return b, nil
}

// Decode parses a snapshot. Empty input is an empty collection.
func Decode(data []byte) ([]models.Student, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []models.Student{}, nil
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrDeserialization, err)
	}
	if env.Version != Version {
		return nil, fmt.Errorf("%w: unsupported snapshot version %d", repository.ErrDeserialization, env.Version)
	}
	if env.Students == nil {
		env.Students = []models.Student{}
	}
	return env.Students, nil
}
