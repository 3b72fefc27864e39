// Package repository implements issuance configuration persistence.
// Configurations are stored as flat attribute rows, one row per value,
// ordered by a position column so multi-valued fields keep their set order
// across round trips.
package repository

import (
	"context"
	"database/sql"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/allisson/idp/internal/database"
	apperrors "github.com/allisson/idp/internal/errors"
	issuanceDomain "github.com/allisson/idp/internal/issuance/domain"
)

// PostgreSQLConfigRepository implements flat attribute persistence for PostgreSQL.
// Uses native UUID columns with transaction support via database.GetTx().
type PostgreSQLConfigRepository struct {
	db *sql.DB
}

// NewPostgreSQLConfigRepository creates a new PostgreSQL configuration repository instance.
func NewPostgreSQLConfigRepository(db *sql.DB) *PostgreSQLConfigRepository {
	return &PostgreSQLConfigRepository{db: db}
}

// Save upserts the named instance and replaces the attribute rows of every
// field present in the flat record. Fields mapped to an empty set only delete
// existing rows, so writing a cleared record removes all stored values while
// keeping the instance itself.
func (p *PostgreSQLConfigRepository) Save(
	ctx context.Context,
	instanceName string,
	flat map[string][]string,
) (*issuanceDomain.Instance, error) {
	querier := database.GetTx(ctx, p.db)
	now := time.Now().UTC()

	query := `INSERT INTO issuance_instances (id, name, created_at, updated_at)
			  VALUES ($1, $2, $3, $3)
			  ON CONFLICT (name) DO UPDATE SET updated_at = EXCLUDED.updated_at
			  RETURNING id, name, created_at, updated_at`

	var instance issuanceDomain.Instance
	err := querier.QueryRowContext(ctx, query, uuid.Must(uuid.NewV7()), instanceName, now).Scan(
		&instance.ID,
		&instance.Name,
		&instance.CreatedAt,
		&instance.UpdatedAt,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to upsert issuance instance")
	}

	fields := make([]string, 0, len(flat))
	for field := range flat {
		fields = append(fields, field)
	}
	slices.Sort(fields)

	deleteQuery := `DELETE FROM issuance_attributes
					WHERE instance_id = $1 AND field_name = ANY($2)`

	if _, err := querier.ExecContext(ctx, deleteQuery, instance.ID, pq.Array(fields)); err != nil {
		return nil, apperrors.Wrap(err, "failed to clear issuance attributes")
	}

	insertQuery := `INSERT INTO issuance_attributes (instance_id, field_name, field_value, position)
					VALUES ($1, $2, $3, $4)`

	for _, field := range fields {
		for position, value := range flat[field] {
			if _, err := querier.ExecContext(ctx, insertQuery, instance.ID, field, value, position); err != nil {
				return nil, apperrors.Wrap(err, "failed to insert issuance attribute")
			}
		}
	}

	return &instance, nil
}

// Load returns the stored flat record of the named instance. Values are read
// in (field_name, position) order so each set keeps its stored ordering. An
// instance without attribute rows loads as an empty record.
func (p *PostgreSQLConfigRepository) Load(
	ctx context.Context,
	instanceName string,
) (map[string][]string, error) {
	querier := database.GetTx(ctx, p.db)

	instance, err := p.GetInstance(ctx, instanceName)
	if err != nil {
		return nil, err
	}

	query := `SELECT field_name, field_value
			  FROM issuance_attributes
			  WHERE instance_id = $1
			  ORDER BY field_name ASC, position ASC`

	rows, err := querier.QueryContext(ctx, query, instance.ID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load issuance attributes")
	}
	defer func() { _ = rows.Close() }()

	flat := make(map[string][]string)
	for rows.Next() {
		var field, value string
		if err := rows.Scan(&field, &value); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan issuance attribute")
		}
		flat[field] = append(flat[field], value)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate issuance attributes")
	}

	return flat, nil
}

// GetInstance retrieves an instance by name.
func (p *PostgreSQLConfigRepository) GetInstance(
	ctx context.Context,
	instanceName string,
) (*issuanceDomain.Instance, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, created_at, updated_at
			  FROM issuance_instances
			  WHERE name = $1`

	var instance issuanceDomain.Instance
	err := querier.QueryRowContext(ctx, query, instanceName).Scan(
		&instance.ID,
		&instance.Name,
		&instance.CreatedAt,
		&instance.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, issuanceDomain.ErrInstanceNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get issuance instance")
	}

	return &instance, nil
}

// Delete removes the named instance; attribute rows go with it via the
// foreign key cascade.
func (p *PostgreSQLConfigRepository) Delete(ctx context.Context, instanceName string) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM issuance_instances WHERE name = $1`

	result, err := querier.ExecContext(ctx, query, instanceName)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete issuance instance")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read delete result")
	}
	if affected == 0 {
		return issuanceDomain.ErrInstanceNotFound
	}

	return nil
}

// List returns instances ordered by name.
func (p *PostgreSQLConfigRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*issuanceDomain.Instance, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, created_at, updated_at
			  FROM issuance_instances
			  ORDER BY name ASC
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list issuance instances")
	}
	defer func() { _ = rows.Close() }()

	var instances []*issuanceDomain.Instance
	for rows.Next() {
		var instance issuanceDomain.Instance
		err := rows.Scan(
			&instance.ID,
			&instance.Name,
			&instance.CreatedAt,
			&instance.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan issuance instance")
		}
		instances = append(instances, &instance)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate issuance instances")
	}

	return instances, nil
}
