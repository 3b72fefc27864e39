package usecase

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/allisson/go-pwdhash"
	"github.com/google/uuid"

	"github.com/allisson/idp/internal/database"
	apperrors "github.com/allisson/idp/internal/errors"
	"github.com/allisson/idp/internal/identity/domain"
	outboxDomain "github.com/allisson/idp/internal/outbox/domain"
)

// entryUseCase implements the EntryUseCase interface.
type entryUseCase struct {
	txManager      database.TxManager
	entryRepo      EntryRepository
	validator      AttributeValidator
	passwordHasher *pwdhash.PasswordHasher
	eventRecorder  EventRecorder
}

// NewEntryUseCase creates a new EntryUseCase
func NewEntryUseCase(
	txManager database.TxManager,
	entryRepo EntryRepository,
	validator AttributeValidator,
	eventRecorder EventRecorder,
) (EntryUseCase, error) {
	// Initialize password hasher with interactive policy for user passwords
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}

	return &entryUseCase{
		txManager:      txManager,
		entryRepo:      entryRepo,
		validator:      validator,
		passwordHasher: hasher,
		eventRecorder:  eventRecorder,
	}, nil
}

// Create validates the change-set against the active policy and inserts a new
// entry. The username attribute is single-valued and required; the password
// attribute is hashed into the entry and dropped from the stored attributes.
// The change event commits in the same transaction as the entry.
func (uc *entryUseCase) Create(
	ctx context.Context,
	attrs map[string][]string,
) (*domain.Entry, error) {
	if err := uc.validator.ValidateAttributes(attrs, domain.OperationCreate); err != nil {
		return nil, err
	}

	usernameKey, values, ok := domain.LookupAttribute(attrs, domain.AttrUsername)
	username := ""
	if ok && len(values) > 0 {
		username = strings.TrimSpace(values[0])
	}
	if username == "" {
		return nil, domain.ErrUsernameRequired
	}

	passwordHash, err := uc.hashPassword(attrs)
	if err != nil {
		return nil, err
	}

	stored := make(map[string][]string, len(attrs))
	for key, attrValues := range attrs {
		if strings.EqualFold(key, domain.AttrUserPassword) {
			continue
		}
		if key == usernameKey {
			stored[key] = []string{username}
			continue
		}
		stored[key] = slices.Clone(attrValues)
	}

	now := time.Now().UTC()
	entry := &domain.Entry{
		ID:           uuid.Must(uuid.NewV7()),
		Username:     username,
		PasswordHash: passwordHash,
		Attributes:   stored,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.entryRepo.Create(ctx, entry); err != nil {
			return err
		}

		return uc.eventRecorder.Record(ctx, outboxDomain.EventTypeEntryCreated, map[string]any{
			"entry_id": entry.ID,
			"username": entry.Username,
		})
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// Get returns the entry stored under username.
func (uc *entryUseCase) Get(ctx context.Context, username string) (*domain.Entry, error) {
	return uc.entryRepo.GetByUsername(ctx, username)
}

// Update validates the change-set and merges it into the stored entry. A
// username attribute in the change-set must match the stored username; a
// password attribute replaces the stored hash and never reaches the
// attribute map.
func (uc *entryUseCase) Update(
	ctx context.Context,
	username string,
	attrs map[string][]string,
) (*domain.Entry, error) {
	if err := uc.validator.ValidateAttributes(attrs, domain.OperationEdit); err != nil {
		return nil, err
	}

	entry, err := uc.entryRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if _, values, ok := domain.LookupAttribute(attrs, domain.AttrUsername); ok {
		if len(values) == 0 || strings.TrimSpace(values[0]) != entry.Username {
			return nil, domain.ErrUsernameImmutable
		}
	}

	passwordHash, err := uc.hashPassword(attrs)
	if err != nil {
		return nil, err
	}
	if passwordHash != "" {
		entry.PasswordHash = passwordHash
	}

	if entry.Attributes == nil {
		entry.Attributes = make(map[string][]string)
	}
	mergeAttributes(entry.Attributes, attrs)
	entry.UpdatedAt = time.Now().UTC()

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.entryRepo.Update(ctx, entry); err != nil {
			return err
		}

		return uc.eventRecorder.Record(ctx, outboxDomain.EventTypeEntryUpdated, map[string]any{
			"entry_id": entry.ID,
			"username": entry.Username,
		})
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// Delete removes the entry stored under username.
func (uc *entryUseCase) Delete(ctx context.Context, username string) error {
	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.entryRepo.Delete(ctx, username); err != nil {
			return err
		}

		return uc.eventRecorder.Record(ctx, outboxDomain.EventTypeEntryDeleted, map[string]any{
			"username": username,
		})
	})
}

// List returns entries ordered by username.
func (uc *entryUseCase) List(ctx context.Context, offset, limit int) ([]*domain.Entry, error) {
	return uc.entryRepo.List(ctx, offset, limit)
}

// hashPassword hashes the change-set's password attribute, if present with a
// non-empty first value. An empty result means the change-set carries no
// password.
func (uc *entryUseCase) hashPassword(attrs map[string][]string) (string, error) {
	_, values, ok := domain.LookupAttribute(attrs, domain.AttrUserPassword)
	if !ok || len(values) == 0 || values[0] == "" {
		return "", nil
	}

	hash, err := uc.passwordHasher.Hash([]byte(values[0]))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hash, nil
}

// mergeAttributes applies the change-set to the stored attributes in place.
// Attribute names resolve case-insensitively and keep the stored key's
// casing; an empty value list removes the attribute. The username and
// password attributes are handled by the caller and skipped here.
func mergeAttributes(stored, changes map[string][]string) {
	for key, values := range changes {
		if strings.EqualFold(key, domain.AttrUsername) ||
			strings.EqualFold(key, domain.AttrUserPassword) {
			continue
		}

		target := key
		if existing, _, ok := domain.LookupAttribute(stored, key); ok {
			target = existing
		}

		if len(values) == 0 {
			delete(stored, target)
			continue
		}
		stored[target] = slices.Clone(values)
	}
}
