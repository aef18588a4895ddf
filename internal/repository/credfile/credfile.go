// Package credfile persists credentials as a newline-delimited
// "username:password" text file.
package credfile

import (
	"bufio"
	"bytes"
	"context"
	"strings"

	"studentbook/internal/models"
	"studentbook/internal/repository"
)

type Store struct {
	path   string
	atomic bool
}

func New(path string, atomic bool) *Store {
	return &Store{path: path, atomic: atomic}
}

func (s *Store) Path() string { return s.path }

// Load reads all credentials in file order. When the file does not exist it is
// created holding only the admin account.
func (s *Store) Load(ctx context.Context) ([]models.Credential, error) {
	data, ok, err := repository.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	if !ok {
		seed := []models.Credential{{Username: models.AdminUsername, Password: models.AdminUsername}}
		if err := s.Save(ctx, seed); err != nil {
			return nil, err
		}
		return seed, nil
	}
	return Parse(data), nil
}

func (s *Store) Save(_ context.Context, creds []models.Credential) error {
	return repository.WriteFile(s.path, Format(creds), s.atomic)
}

// Parse decodes credential lines. A line must split on ':' into exactly two
// parts; anything else is skipped.
func Parse(data []byte) []models.Credential {
	var out []models.Credential
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		parts := strings.Split(sc.Text(), ":")
		if len(parts) != 2 {
			continue
		}
		out = append(out, models.Credential{
			Username: strings.TrimSpace(parts[0]),
			Password: strings.TrimSpace(parts[1]),
		})
	}
	return out
}

func Format(creds []models.Credential) []byte {
	var b bytes.Buffer
	for _, c := range creds {
		b.WriteString(c.Username)
		b.WriteByte(':')
		b.WriteString(c.Password)
		b.WriteByte('\n')
	}
	return b.Bytes()
}
