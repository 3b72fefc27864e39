package repository

import (
	"context"
	"database/sql"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/idp/internal/database"
	apperrors "github.com/allisson/idp/internal/errors"
	issuanceDomain "github.com/allisson/idp/internal/issuance/domain"
)

// MySQLConfigRepository implements flat attribute persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support via database.GetTx().
type MySQLConfigRepository struct {
	db *sql.DB
}

// NewMySQLConfigRepository creates a new MySQL configuration repository instance.
func NewMySQLConfigRepository(db *sql.DB) *MySQLConfigRepository {
	return &MySQLConfigRepository{db: db}
}

// Save upserts the named instance and replaces the attribute rows of every
// field present in the flat record. Fields mapped to an empty set only delete
// existing rows, so writing a cleared record removes all stored values while
// keeping the instance itself.
func (m *MySQLConfigRepository) Save(
	ctx context.Context,
	instanceName string,
	flat map[string][]string,
) (*issuanceDomain.Instance, error) {
	querier := database.GetTx(ctx, m.db)
	now := time.Now().UTC()

	instance, err := m.GetInstance(ctx, instanceName)
	switch {
	case err == nil:
		instance.UpdatedAt = now
		updateQuery := `UPDATE issuance_instances SET updated_at = ? WHERE name = ?`
		if _, err := querier.ExecContext(ctx, updateQuery, now, instanceName); err != nil {
			return nil, apperrors.Wrap(err, "failed to update issuance instance")
		}
	case apperrors.Is(err, issuanceDomain.ErrInstanceNotFound):
		instance = &issuanceDomain.Instance{
			ID:        uuid.Must(uuid.NewV7()),
			Name:      instanceName,
			CreatedAt: now,
			UpdatedAt: now,
		}
		id, err := instance.ID.MarshalBinary()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to marshal instance id")
		}
		insertQuery := `INSERT INTO issuance_instances (id, name, created_at, updated_at)
						VALUES (?, ?, ?, ?)`
		if _, err := querier.ExecContext(ctx, insertQuery, id, instanceName, now, now); err != nil {
			return nil, apperrors.Wrap(err, "failed to create issuance instance")
		}
	default:
		return nil, err
	}

	instanceID, err := instance.ID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal instance id")
	}

	fields := make([]string, 0, len(flat))
	for field := range flat {
		fields = append(fields, field)
	}
	slices.Sort(fields)

	if len(fields) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(fields)), ", ")
		deleteQuery := `DELETE FROM issuance_attributes
						WHERE instance_id = ? AND field_name IN (` + placeholders + `)`

		args := make([]interface{}, 0, len(fields)+1)
		args = append(args, instanceID)
		for _, field := range fields {
			args = append(args, field)
		}
		if _, err := querier.ExecContext(ctx, deleteQuery, args...); err != nil {
			return nil, apperrors.Wrap(err, "failed to clear issuance attributes")
		}
	}

	insertQuery := `INSERT INTO issuance_attributes (instance_id, field_name, field_value, position)
					VALUES (?, ?, ?, ?)`

	for _, field := range fields {
		for position, value := range flat[field] {
			if _, err := querier.ExecContext(ctx, insertQuery, instanceID, field, value, position); err != nil {
				return nil, apperrors.Wrap(err, "failed to insert issuance attribute")
			}
		}
	}

	return instance, nil
}

// Load returns the stored flat record of the named instance. Values are read
// in (field_name, position) order so each set keeps its stored ordering. An
// instance without attribute rows loads as an empty record.
func (m *MySQLConfigRepository) Load(
	ctx context.Context,
	instanceName string,
) (map[string][]string, error) {
	querier := database.GetTx(ctx, m.db)

	instance, err := m.GetInstance(ctx, instanceName)
	if err != nil {
		return nil, err
	}

	instanceID, err := instance.ID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal instance id")
	}

	query := `SELECT field_name, field_value
			  FROM issuance_attributes
			  WHERE instance_id = ?
			  ORDER BY field_name ASC, position ASC`

	rows, err := querier.QueryContext(ctx, query, instanceID)
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
func (m *MySQLConfigRepository) GetInstance(
	ctx context.Context,
	instanceName string,
) (*issuanceDomain.Instance, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, created_at, updated_at
			  FROM issuance_instances
			  WHERE name = ?`

	var instance issuanceDomain.Instance
	var idBytes []byte

	err := querier.QueryRowContext(ctx, query, instanceName).Scan(
		&idBytes,
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

	instanceID, err := uuid.FromBytes(idBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal instance id")
	}
	instance.ID = instanceID

	return &instance, nil
}

// Delete removes the named instance; attribute rows go with it via the
// foreign key cascade.
func (m *MySQLConfigRepository) Delete(ctx context.Context, instanceName string) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM issuance_instances WHERE name = ?`

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
func (m *MySQLConfigRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*issuanceDomain.Instance, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, created_at, updated_at
			  FROM issuance_instances
			  ORDER BY name ASC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list issuance instances")
	}
	defer func() { _ = rows.Close() }()

	var instances []*issuanceDomain.Instance
	for rows.Next() {
		var instance issuanceDomain.Instance
		var idBytes []byte

		err := rows.Scan(
			&idBytes,
			&instance.Name,
			&instance.CreatedAt,
			&instance.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan issuance instance")
		}

		instanceID, err := uuid.FromBytes(idBytes)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal instance id")
		}
		instance.ID = instanceID

		instances = append(instances, &instance)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate issuance instances")
	}

	return instances, nil
}
