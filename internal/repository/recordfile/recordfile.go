// Package recordfile keeps the student snapshot in a single file.
package recordfile

import (
	"context"

	"studentbook/internal/models"
	"studentbook/internal/repository"
	"studentbook/internal/repository/snapshot"
)

type Store struct {
	path   string
	atomic bool
}

func New(path string, atomic bool) *Store {
	return &Store{path: path, atomic: atomic}
}

func (s *Store) Load(_ context.Context) ([]models.Student, error) {
	data, ok, err := repository.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.Student{}, nil
	}
	return snapshot.Decode(data)
}

func (s *Store) Save(_ context.Context, students []models.Student) error {
	data, err := snapshot.Encode(students)
	if err != nil {
		return err
	}
	return repository.WriteFile(s.path, data, s.atomic)
}

func (s *Store) Close() error { return nil }
