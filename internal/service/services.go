package service

import (
	"context"

	"studentbook/internal/models"
)

// CredentialStore loads and saves the full ordered credential list.
type CredentialStore interface {
	Load(ctx context.Context) ([]models.Credential, error)
	Save(ctx context.Context, creds []models.Credential) error
}

// RecordStore loads and saves the full cross-owner student collection.
type RecordStore interface {
	Load(ctx context.Context) ([]models.Student, error)
	Save(ctx context.Context, students []models.Student) error
}

type Services struct {
	Accounts *AccountsService
	Records  *RecordsService
}

// NewServices loads the credential store and prepares the record manager.
// Records are loaded later, at session start, through Records.Load.
func NewServices(ctx context.Context, creds CredentialStore, records RecordStore) (*Services, error) {
	accounts, err := NewAccountsService(ctx, creds)
	if err != nil {
		return nil, err
	}
	return &Services{
		Accounts: accounts,
		Records:  NewRecordsService(records),
	}, nil
}
