package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/allisson/idp/internal/outbox/domain"
)

type eventSigner struct {
	rootKey []byte
}

// NewEventSigner creates an HMAC-based outbox event signer using HKDF-SHA256
// for key derivation and HMAC-SHA256 for signature generation. The root key
// is the raw signing secret from configuration.
func NewEventSigner(rootKey []byte) EventSigner {
	return &eventSigner{rootKey: rootKey}
}

// deriveSigningKey uses HKDF-SHA256 to derive a 32-byte signing key from the
// root key, separating the configured secret from the key material that
// actually signs. Info parameter: "outbox-event-signing-v1" (versioned for
// future algorithm changes).
func (s *eventSigner) deriveSigningKey() ([]byte, error) {
	info := []byte("outbox-event-signing-v1")
	hash := sha256.New
	hkdf := hkdf.New(hash, s.rootKey, nil, info)

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(hkdf, signingKey); err != nil {
		return nil, err
	}

	return signingKey, nil
}

// canonicalizeEvent converts an outbox event to its canonical byte
// representation for signing.
// Format: id || event_type || payload || created_at
// Variable-length fields are length-prefixed to prevent ambiguity. CreatedAt
// is encoded as Unix nanoseconds; callers must truncate timestamps to the
// database column's precision before signing or verification breaks after a
// round-trip.
func (s *eventSigner) canonicalizeEvent(event *domain.OutboxEvent) []byte {
	buf := make([]byte, 0, 256)

	// Event ID (16 bytes)
	buf = append(buf, event.ID[:]...)

	// Event type and payload (length-prefixed)
	buf = appendLengthPrefixed(buf, []byte(event.EventType))
	buf = appendLengthPrefixed(buf, []byte(event.Payload))

	// Timestamp
	timeBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(timeBytes, uint64(event.CreatedAt.UnixNano()))
	buf = append(buf, timeBytes...)

	return buf
}

// appendLengthPrefixed adds a 4-byte big-endian length prefix followed by data.
// Format: [length (4 bytes)] + [data (length bytes)]
// Panics if data length exceeds uint32 max (4GB) to prevent integer overflow.
func appendLengthPrefixed(buf []byte, data []byte) []byte {
	dataLen := len(data)
	if dataLen > 0xFFFFFFFF {
		panic("data length exceeds uint32 max (4GB)")
	}
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(dataLen))
	buf = append(buf, length...)
	buf = append(buf, data...)
	return buf
}

// Sign generates the HMAC-SHA256 signature for the outbox event.
// Returns a 32-byte signature or an error if key derivation fails.
func (s *eventSigner) Sign(event *domain.OutboxEvent) ([]byte, error) {
	signingKey, err := s.deriveSigningKey()
	if err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}
	defer zero(signingKey) // Clear derived key from memory

	canonical := s.canonicalizeEvent(event)

	mac := hmac.New(sha256.New, signingKey)
	mac.Write(canonical)
	signature := mac.Sum(nil)

	return signature, nil
}

// Verify checks if the outbox event signature is valid.
// Returns nil if valid, domain.ErrSignatureInvalid if tampered or invalid.
func (s *eventSigner) Verify(event *domain.OutboxEvent) error {
	expectedSig, err := s.Sign(event)
	if err != nil {
		return fmt.Errorf("failed to compute expected signature: %w", err)
	}

	if !hmac.Equal(event.Signature, expectedSig) {
		return domain.ErrSignatureInvalid
	}

	return nil
}

// zero overwrites sensitive data in memory with zeros.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

type noopEventSigner struct{}

// NewNoopEventSigner creates a signer for deployments without a configured
// signing secret: Sign returns an empty signature and Verify always passes.
func NewNoopEventSigner() EventSigner {
	return &noopEventSigner{}
}

// Sign returns an empty signature.
func (s *noopEventSigner) Sign(_ *domain.OutboxEvent) ([]byte, error) {
	return []byte{}, nil
}

// Verify accepts every event.
func (s *noopEventSigner) Verify(_ *domain.OutboxEvent) error {
	return nil
}
