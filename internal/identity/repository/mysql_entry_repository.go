package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/allisson/idp/internal/database"
	apperrors "github.com/allisson/idp/internal/errors"
	"github.com/allisson/idp/internal/identity/domain"
)

// MySQLEntryRepository handles directory entry persistence for MySQL.
// UUIDs are stored as BINARY(16) and attributes as a JSON document.
type MySQLEntryRepository struct {
	db *sql.DB
}

// NewMySQLEntryRepository creates a new MySQL entry repository instance.
func NewMySQLEntryRepository(db *sql.DB) *MySQLEntryRepository {
	return &MySQLEntryRepository{db: db}
}

// Create inserts a new directory entry.
func (r *MySQLEntryRepository) Create(ctx context.Context, entry *domain.Entry) error {
	querier := database.GetTx(ctx, r.db)

	attributesJSON, err := json.Marshal(entry.Attributes)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal entry attributes")
	}

	// Convert UUID to bytes for MySQL BINARY(16)
	idBytes, err := entry.ID.MarshalBinary()
	if err != nil {
		return err
	}

	query := `INSERT INTO identity_entries (id, username, password_hash, attributes, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
		entry.Username,
		entry.PasswordHash,
		attributesJSON,
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrEntryAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create identity entry")
	}

	return nil
}

// GetByUsername retrieves a directory entry by its username.
func (r *MySQLEntryRepository) GetByUsername(
	ctx context.Context,
	username string,
) (*domain.Entry, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, username, password_hash, attributes, created_at, updated_at
			  FROM identity_entries
			  WHERE username = ?`

	entry, err := scanMySQLEntry(querier.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get identity entry")
	}

	return entry, nil
}

// Update replaces the password hash and attributes of an existing entry.
func (r *MySQLEntryRepository) Update(ctx context.Context, entry *domain.Entry) error {
	querier := database.GetTx(ctx, r.db)

	attributesJSON, err := json.Marshal(entry.Attributes)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal entry attributes")
	}

	query := `UPDATE identity_entries
			  SET password_hash = ?, attributes = ?, updated_at = ?
			  WHERE username = ?`

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
func (r *MySQLEntryRepository) Delete(ctx context.Context, username string) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM identity_entries WHERE username = ?`

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
func (r *MySQLEntryRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.Entry, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, username, password_hash, attributes, created_at, updated_at
			  FROM identity_entries
			  ORDER BY username ASC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list identity entries")
	}
	defer rows.Close() //nolint:errcheck

	var entries []*domain.Entry
	for rows.Next() {
		entry, err := scanMySQLEntry(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan identity entry")
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate identity entries")
	}

	return entries, nil
}

// rowScanner abstracts sql.Row and sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanMySQLEntry scans one entry row, converting the BINARY(16) id back to a UUID.
func scanMySQLEntry(row rowScanner) (*domain.Entry, error) {
	var entry domain.Entry
	var idBytes []byte
	var attributesJSON []byte

	err := row.Scan(
		&idBytes,
		&entry.Username,
		&entry.PasswordHash,
		&attributesJSON,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	var id uuid.UUID
	if err := id.UnmarshalBinary(idBytes); err != nil {
		return nil, err
	}
	entry.ID = id

	if err := json.Unmarshal(attributesJSON, &entry.Attributes); err != nil {
		return nil, err
	}

	return &entry, nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation.
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}
