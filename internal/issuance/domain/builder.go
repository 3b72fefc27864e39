package domain

import (
	"bytes"
	"maps"

	"github.com/allisson/idp/internal/errors"
)

// ConfigBuilder accumulates configuration state and produces an immutable
// Config. Setters perform no validation; every invariant is enforced in Build,
// which fails fast on the first violation.
type ConfigBuilder struct {
	issuerName                             string
	spEntityID                             string
	spACSURL                               string
	nameIDFormat                           string
	tokenLifetimeSeconds                   int64
	attributeMap                           map[string]string
	customConditionsProvider               string
	customSubjectProvider                  string
	customAuthenticationStatementsProvider string
	customAttributeStatementsProvider      string
	customAuthzDecisionStatementsProvider  string
	customAttributeMapper                  string
	customAuthnContextMapper               string
	signAssertion                          bool
	encryptAssertion                       bool
	encryptAttributes                      bool
	encryptNameID                          bool
	encryptionAlgorithm                    string
	encryptionAlgorithmStrength            int
	encryptionKeyAlias                     string
	keystoreFileName                       string
	keystorePassword                       []byte
	signatureKeyAlias                      string
	signatureKeyPassword                   []byte
}

// NewConfigBuilder creates an empty configuration builder.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

// IssuerName sets the identity provider identifier.
func (b *ConfigBuilder) IssuerName(name string) *ConfigBuilder {
	b.issuerName = name
	return b
}

// SPEntityID sets the relying service provider entity identifier.
func (b *ConfigBuilder) SPEntityID(entityID string) *ConfigBuilder {
	b.spEntityID = entityID
	return b
}

// SPACSURL sets the service provider assertion consumer endpoint.
func (b *ConfigBuilder) SPACSURL(acsURL string) *ConfigBuilder {
	b.spACSURL = acsURL
	return b
}

// NameIDFormat sets the subject name identifier format.
func (b *ConfigBuilder) NameIDFormat(format string) *ConfigBuilder {
	b.nameIDFormat = format
	return b
}

// TokenLifetimeSeconds sets the token validity window in seconds.
func (b *ConfigBuilder) TokenLifetimeSeconds(seconds int64) *ConfigBuilder {
	b.tokenLifetimeSeconds = seconds
	return b
}

// AttributeMap sets the local-attribute to claim-name mapping.
func (b *ConfigBuilder) AttributeMap(m map[string]string) *ConfigBuilder {
	b.attributeMap = m
	return b
}

// CustomConditionsProvider sets the conditions provider implementation identifier.
func (b *ConfigBuilder) CustomConditionsProvider(provider string) *ConfigBuilder {
	b.customConditionsProvider = provider
	return b
}

// CustomSubjectProvider sets the subject provider implementation identifier.
func (b *ConfigBuilder) CustomSubjectProvider(provider string) *ConfigBuilder {
	b.customSubjectProvider = provider
	return b
}

// CustomAuthenticationStatementsProvider sets the authentication statements
// provider implementation identifier.
func (b *ConfigBuilder) CustomAuthenticationStatementsProvider(provider string) *ConfigBuilder {
	b.customAuthenticationStatementsProvider = provider
	return b
}

// CustomAttributeStatementsProvider sets the attribute statements provider
// implementation identifier.
func (b *ConfigBuilder) CustomAttributeStatementsProvider(provider string) *ConfigBuilder {
	b.customAttributeStatementsProvider = provider
	return b
}

// CustomAuthzDecisionStatementsProvider sets the authorization decision
// statements provider implementation identifier.
func (b *ConfigBuilder) CustomAuthzDecisionStatementsProvider(provider string) *ConfigBuilder {
	b.customAuthzDecisionStatementsProvider = provider
	return b
}

// CustomAttributeMapper sets the attribute mapper implementation identifier.
func (b *ConfigBuilder) CustomAttributeMapper(mapper string) *ConfigBuilder {
	b.customAttributeMapper = mapper
	return b
}

// CustomAuthnContextMapper sets the authentication context mapper
// implementation identifier.
func (b *ConfigBuilder) CustomAuthnContextMapper(mapper string) *ConfigBuilder {
	b.customAuthnContextMapper = mapper
	return b
}

// SignAssertion sets whether issued assertions are signed.
func (b *ConfigBuilder) SignAssertion(sign bool) *ConfigBuilder {
	b.signAssertion = sign
	return b
}

// EncryptAssertion sets whether the whole assertion is encrypted.
func (b *ConfigBuilder) EncryptAssertion(encrypt bool) *ConfigBuilder {
	b.encryptAssertion = encrypt
	return b
}

// EncryptAttributes sets whether attribute statements are encrypted.
func (b *ConfigBuilder) EncryptAttributes(encrypt bool) *ConfigBuilder {
	b.encryptAttributes = encrypt
	return b
}

// EncryptNameID sets whether the subject name identifier is encrypted.
func (b *ConfigBuilder) EncryptNameID(encrypt bool) *ConfigBuilder {
	b.encryptNameID = encrypt
	return b
}

// EncryptionAlgorithm sets the encryption algorithm URI.
func (b *ConfigBuilder) EncryptionAlgorithm(algorithm string) *ConfigBuilder {
	b.encryptionAlgorithm = algorithm
	return b
}

// EncryptionAlgorithmStrength sets the encryption key strength in bits.
func (b *ConfigBuilder) EncryptionAlgorithmStrength(strength int) *ConfigBuilder {
	b.encryptionAlgorithmStrength = strength
	return b
}

// EncryptionKeyAlias sets the keystore alias of the encryption key.
func (b *ConfigBuilder) EncryptionKeyAlias(alias string) *ConfigBuilder {
	b.encryptionKeyAlias = alias
	return b
}

// KeystoreFileName sets the keystore file location.
func (b *ConfigBuilder) KeystoreFileName(fileName string) *ConfigBuilder {
	b.keystoreFileName = fileName
	return b
}

// KeystorePassword sets the keystore password.
func (b *ConfigBuilder) KeystorePassword(password []byte) *ConfigBuilder {
	b.keystorePassword = password
	return b
}

// SignatureKeyAlias sets the keystore alias of the signing key.
func (b *ConfigBuilder) SignatureKeyAlias(alias string) *ConfigBuilder {
	b.signatureKeyAlias = alias
	return b
}

// SignatureKeyPassword sets the signing key password.
func (b *ConfigBuilder) SignatureKeyPassword(password []byte) *ConfigBuilder {
	b.signatureKeyPassword = password
	return b
}

// Build validates the accumulated state and returns an immutable Config.
// Invariants are checked in a fixed order and the first violation aborts the
// build, so a caller always sees the most fundamental problem first. Builder
// state is copied defensively; mutating the builder or its map/slice arguments
// after Build never affects the returned Config.
func (b *ConfigBuilder) Build() (*Config, error) {
	if b.spEntityID == "" {
		return nil, errors.Wrap(ErrInvalidConfig, "service provider entity id is required")
	}

	if b.issuerName == "" {
		return nil, errors.Wrap(ErrInvalidConfig, "issuer name is required")
	}

	encrypting := b.encryptAssertion || b.encryptNameID || b.encryptAttributes

	if encrypting {
		if b.encryptionAlgorithm == "" {
			return nil, errors.Wrap(ErrInvalidConfig, "encryption requires an encryption algorithm")
		}
		if b.encryptionAlgorithmStrength == 0 && b.encryptionAlgorithm != EncryptionAlgorithmTripleDES {
			return nil, errors.Wrap(ErrInvalidConfig, "encryption requires an algorithm strength")
		}
		if b.encryptionKeyAlias == "" {
			return nil, errors.Wrap(ErrInvalidConfig, "encryption requires an encryption key alias")
		}
	}

	if encrypting || b.signAssertion {
		if b.keystoreFileName == "" {
			return nil, errors.Wrap(ErrInvalidConfig, "signing or encryption requires a keystore file name")
		}
		if len(b.keystorePassword) == 0 {
			return nil, errors.Wrap(ErrInvalidConfig, "signing or encryption requires a keystore password")
		}
	}

	if b.signAssertion {
		if b.signatureKeyAlias == "" {
			return nil, errors.Wrap(ErrInvalidConfig, "assertion signing requires a signature key alias")
		}
		if len(b.signatureKeyPassword) == 0 {
			return nil, errors.Wrap(ErrInvalidConfig, "assertion signing requires a signature key password")
		}
	}

	if b.encryptAssertion && (b.encryptNameID || b.encryptAttributes) {
		return nil, errors.Wrap(
			ErrInvalidConfig,
			"assertion encryption excludes name id and attribute encryption",
		)
	}

	nameIDFormat := b.nameIDFormat
	if nameIDFormat == "" {
		nameIDFormat = DefaultNameIDFormat
	}

	tokenLifetime := b.tokenLifetimeSeconds
	if tokenLifetime == 0 {
		tokenLifetime = DefaultTokenLifetimeSeconds
	}

	return &Config{
		issuerName:                             b.issuerName,
		spEntityID:                             b.spEntityID,
		spACSURL:                               b.spACSURL,
		nameIDFormat:                           nameIDFormat,
		tokenLifetimeSeconds:                   tokenLifetime,
		attributeMap:                           maps.Clone(b.attributeMap),
		customConditionsProvider:               b.customConditionsProvider,
		customSubjectProvider:                  b.customSubjectProvider,
		customAuthenticationStatementsProvider: b.customAuthenticationStatementsProvider,
		customAttributeStatementsProvider:      b.customAttributeStatementsProvider,
		customAuthzDecisionStatementsProvider:  b.customAuthzDecisionStatementsProvider,
		customAttributeMapper:                  b.customAttributeMapper,
		customAuthnContextMapper:               b.customAuthnContextMapper,
		signAssertion:                          b.signAssertion,
		encryptAssertion:                       b.encryptAssertion,
		encryptAttributes:                      b.encryptAttributes,
		encryptNameID:                          b.encryptNameID,
		encryptionAlgorithm:                    b.encryptionAlgorithm,
		encryptionAlgorithmStrength:            b.encryptionAlgorithmStrength,
		encryptionKeyAlias:                     b.encryptionKeyAlias,
		keystoreFileName:                       b.keystoreFileName,
		keystorePassword:                       bytes.Clone(b.keystorePassword),
		signatureKeyAlias:                      b.signatureKeyAlias,
		signatureKeyPassword:                   bytes.Clone(b.signatureKeyPassword),
	}, nil
}
