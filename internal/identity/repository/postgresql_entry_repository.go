// Package repository provides data persistence implementations for directory entries.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/allisson/idp/internal/database"
	apperrors "github.com/allisson/idp/internal/errors"
	"github.com/allisson/idp/internal/identity/domain"
)

// PostgreSQLEntryRepository handles directory entry persistence for PostgreSQL.
// Attributes are stored as a JSONB document keyed by attribute name.
type PostgreSQLEntryRepository struct {
	db *sql.DB
}

// NewPostgreSQLEntryRepository creates a new PostgreSQL entry repository instance.
func NewPostgreSQLEntryRepository(db *sql.DB) *PostgreSQLEntryRepository {
	return &PostgreSQLEntryRepository{db: db}
}

// Create inserts a new directory entry.
func (r *PostgreSQLEntryRepository) Create(ctx context.Context, entry *domain.Entry) error {
	querier := database.GetTx(ctx, r.db)

	attributesJSON, err := json.Marshal(entry.Attributes)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal entry attributes")
	}

	query := `INSERT INTO identity_entries (id, username, password_hash, attributes, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = querier.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.Username,
		entry.PasswordHash,
		attributesJSON,
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrEntryAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create identity entry")
	}

	return nil
}

// GetByUsername retrieves a directory entry by its username.
func (r *PostgreSQLEntryRepository) GetByUsername(
	ctx context.Context,
	username string,
) (*domain.Entry, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, username, password_hash, attributes, created_at, updated_at
			  FROM identity_entries
			  WHERE username = $1`

	var entry domain.Entry
	var attributesJSON []byte
	err := querier.QueryRowContext(ctx, query, username).Scan(
		&entry.ID,
		&entry.Username,
		&entry.PasswordHash,
		&attributesJSON,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get identity entry")
	}

	if err := json.Unmarshal(attributesJSON, &entry.Attributes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal entry attributes")
	}

	return &entry, nil
}

// Update replaces the password hash and attributes of an existing entry.
func (r *PostgreSQLEntryRepository) Update(ctx context.Context, entry *domain.Entry) error {
	querier := database.GetTx(ctx, r.db)

	attributesJSON, err := json.Marshal(entry.Attributes)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal entry attributes")
	}

	query := `UPDATE identity_entries
			  SET password_hash = $1, attributes = $2, updated_at = $3
			  WHERE username = $4`

	result, err := querier.ExecContext(
		ctx,
		query,
		entry.PasswordHash,
		attributesJSON,
		entry.UpdatedAt,
		entry.Username,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update identity entry")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read update result")
	}
	if affected == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// Delete removes a directory entry by its username.
func (r *PostgreSQLEntryRepository) Delete(ctx context.Context, username string) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM identity_entries WHERE username = $1`

	result, err := querier.ExecContext(ctx, query, username)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete identity entry")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read delete result")
	}
	if affected == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// List returns directory entries ordered by username.
func (r *PostgreSQLEntryRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.Entry, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, username, password_hash, attributes, created_at, updated_at
			  FROM identity_entries
			  ORDER BY username ASC
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list identity entries")
	}
	defer func() { _ = rows.Close() }()

	var entries []*domain.Entry
	for rows.Next() {
		var entry domain.Entry
		var attributesJSON []byte
		err := rows.Scan(
			&entry.ID,
			&entry.Username,
			&entry.PasswordHash,
			&attributesJSON,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan identity entry")
		}
		if err := json.Unmarshal(attributesJSON, &entry.Attributes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal entry attributes")
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate identity entries")
	}

	return entries, nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
