package service

import (
	"context"
	"slices"
	"strings"

	"studentbook/internal/models"
)

// AccountsService implements login, registration and self-deletion over an
// in-memory copy of the credential store. Every change rewrites the store.
type AccountsService struct {
	store CredentialStore
	users []models.Credential
}

func NewAccountsService(ctx context.Context, store CredentialStore) (*AccountsService, error) {
	users, err := store.Load(ctx)
	if err != nil {
		return nil, authErr("load users", "", err)
	}
	return &AccountsService{store: store, users: users}, nil
}

// find returns the position of the first credential named username, or -1.
// Duplicate entries from a hand-edited file are shadowed by the first one.
func (a *AccountsService) find(username string) int {
	return slices.IndexFunc(a.users, func(c models.Credential) bool { return c.Username == username })
}

func (a *AccountsService) verify(op, username, password string) (int, error) {
	i := a.find(username)
	if i < 0 {
		return -1, authErr(op, username, ErrUserNotFound)
	}
	if a.users[i].Password != password {
		return -1, authErr(op, username, ErrBadPassword)
	}
	return i, nil
}

func (a *AccountsService) Authenticate(_ context.Context, username, password string) (models.Session, error) {
	if _, err := a.verify("authenticate", username, password); err != nil {
		return models.Session{}, err
	}
	return models.Session{Username: username}, nil
}

func (a *AccountsService) Register(ctx context.Context, username, password string) error {
	if a.find(username) >= 0 {
		return authErr("register", username, ErrDuplicateUser)
	}
	if !storable(username) || !storable(password) {
		return authErr("register", username, ErrInvalidInput)
	}
	next := append(slices.Clip(a.users), models.Credential{Username: username, Password: password})
	if err := a.store.Save(ctx, next); err != nil {
		return authErr("register", username, err)
	}
	a.users = next
	return nil
}

func (a *AccountsService) DeleteUser(ctx context.Context, username, password string) error {
	if username == models.AdminUsername {
		return authErr("delete user", username, ErrProtectedAccount)
	}
	i, err := a.verify("delete user", username, password)
	if err != nil {
		return err
	}
	next := slices.Delete(slices.Clone(a.users), i, i+1)
	if err := a.store.Save(ctx, next); err != nil {
		return authErr("delete user", username, err)
	}
	a.users = next
	return nil
}

// storable reports whether a credential field survives the users file: it must
// be non-empty, carry no surrounding whitespace and contain no ':' or line break.
func storable(field string) bool {
	return field != "" && strings.TrimSpace(field) == field && !strings.ContainsAny(field, ":\r\n")
}

func (a *AccountsService) UserExists(username string) bool {
	return a.find(username) >= 0
}

// Users returns a copy of the credentials in store order.
func (a *AccountsService) Users() []models.Credential {
	return slices.Clone(a.users)
}
