// Package service provides technical services for the issuance configuration
// store: encryption of sensitive record fields and an optional read-through
// cache for decrypted records.
package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"gocloud.dev/secrets"

	"github.com/allisson/idp/internal/issuance/domain"

	// Register all keeper provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// sensitiveFields lists the flat-record fields whose values are encrypted at
// rest. Both hold keystore passwords.
var sensitiveFields = []string{
	domain.FieldKeystorePassword,
	domain.FieldSignatureKeyPassword,
}

// Keeper is the subset of gocloud.dev/secrets.Keeper the field cipher needs.
// *secrets.Keeper implements it.
type Keeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// FieldCipher encrypts the sensitive fields of a flat configuration record
// before persistence and decrypts them after load. Implementations must not
// mutate the record they are given.
type FieldCipher interface {
	EncryptRecord(ctx context.Context, flat map[string][]string) (map[string][]string, error)
	DecryptRecord(ctx context.Context, flat map[string][]string) (map[string][]string, error)
	Close() error
}

type keeperFieldCipher struct {
	keeper Keeper
}

// OpenFieldCipher opens the keeper at keeperURI and returns a cipher backed
// by it. Supports: base64key://, hashivault://, awskms://, gcpkms://,
// azurekeyvault://.
func OpenFieldCipher(ctx context.Context, keeperURI string) (FieldCipher, error) {
	keeper, err := secrets.OpenKeeper(ctx, keeperURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open keeper: %w", err)
	}
	return NewKeeperFieldCipher(keeper), nil
}

// NewKeeperFieldCipher returns a cipher backed by an already-open keeper.
func NewKeeperFieldCipher(keeper Keeper) FieldCipher {
	return &keeperFieldCipher{keeper: keeper}
}

// EncryptRecord returns a copy of the record with every sensitive field value
// replaced by the base64 encoding of its ciphertext. Non-sensitive fields and
// absent or nil-valued sensitive fields pass through unchanged.
func (c *keeperFieldCipher) EncryptRecord(
	ctx context.Context,
	flat map[string][]string,
) (map[string][]string, error) {
	return c.transformRecord(flat, func(field, value string) (string, error) {
		ciphertext, err := c.keeper.Encrypt(ctx, []byte(value))
		if err != nil {
			return "", fmt.Errorf("failed to encrypt field %q: %w", field, err)
		}
		return base64.StdEncoding.EncodeToString(ciphertext), nil
	})
}

// DecryptRecord reverses EncryptRecord.
func (c *keeperFieldCipher) DecryptRecord(
	ctx context.Context,
	flat map[string][]string,
) (map[string][]string, error) {
	return c.transformRecord(flat, func(field, value string) (string, error) {
		ciphertext, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return "", fmt.Errorf("failed to decode field %q: %w", field, err)
		}
		plaintext, err := c.keeper.Decrypt(ctx, ciphertext)
		if err != nil {
			return "", fmt.Errorf("failed to decrypt field %q: %w", field, err)
		}
		return string(plaintext), nil
	})
}

// Close releases the underlying keeper.
func (c *keeperFieldCipher) Close() error {
	return c.keeper.Close()
}

func (c *keeperFieldCipher) transformRecord(
	flat map[string][]string,
	transform func(field, value string) (string, error),
) (map[string][]string, error) {
	out := make(map[string][]string, len(flat))
	for field, values := range flat {
		if values == nil {
			out[field] = nil
			continue
		}
		copied := make([]string, len(values))
		copy(copied, values)
		out[field] = copied
	}

	for _, field := range sensitiveFields {
		values := out[field]
		for i, value := range values {
			transformed, err := transform(field, value)
			if err != nil {
				return nil, err
			}
			values[i] = transformed
		}
	}

	return out, nil
}

type noopFieldCipher struct{}

// NewNoopFieldCipher returns a cipher for deployments without a configured
// keeper: records pass through unchanged in both directions.
func NewNoopFieldCipher() FieldCipher {
	return &noopFieldCipher{}
}

func (c *noopFieldCipher) EncryptRecord(
	_ context.Context,
	flat map[string][]string,
) (map[string][]string, error) {
	return flat, nil
}

func (c *noopFieldCipher) DecryptRecord(
	_ context.Context,
	flat map[string][]string,
) (map[string][]string, error) {
	return flat, nil
}

func (c *noopFieldCipher) Close() error {
	return nil
}
