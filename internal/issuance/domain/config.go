package domain

import (
	"bytes"
	"fmt"
	"maps"
)

// Config is an immutable token issuance configuration for one identity
// provider deployment. Values are only constructed through ConfigBuilder.Build,
// so no partially validated Config is ever observable. Accessors return
// defensive copies of mutable state; a Config can be shared freely across
// goroutines.
type Config struct {
	// Identity of the issuer and the relying service provider.
	issuerName string
	spEntityID string
	spACSURL   string

	// Token shaping.
	nameIDFormat         string
	tokenLifetimeSeconds int64
	attributeMap         map[string]string

	// Extension points: implementation identifiers loaded by the token
	// pipeline at issuance time. Opaque at this layer.
	customConditionsProvider               string
	customSubjectProvider                  string
	customAuthenticationStatementsProvider string
	customAttributeStatementsProvider      string
	customAuthzDecisionStatementsProvider  string
	customAttributeMapper                  string
	customAuthnContextMapper               string

	// Security processing.
	signAssertion               bool
	encryptAssertion            bool
	encryptAttributes           bool
	encryptNameID               bool
	encryptionAlgorithm         string
	encryptionAlgorithmStrength int
	encryptionKeyAlias          string

	// Key material references.
	keystoreFileName     string
	keystorePassword     []byte
	signatureKeyAlias    string
	signatureKeyPassword []byte
}

// IssuerName returns the identity provider identifier that issues tokens.
func (c *Config) IssuerName() string { return c.issuerName }

// SPEntityID returns the entity identifier of the relying service provider.
func (c *Config) SPEntityID() string { return c.spEntityID }

// SPACSURL returns the service provider assertion consumer endpoint.
func (c *Config) SPACSURL() string { return c.spACSURL }

// NameIDFormat returns the subject name identifier format.
func (c *Config) NameIDFormat() string { return c.nameIDFormat }

// TokenLifetimeSeconds returns the token validity window in seconds.
func (c *Config) TokenLifetimeSeconds() int64 { return c.tokenLifetimeSeconds }

// AttributeMap returns a copy of the local-attribute to claim-name mapping.
func (c *Config) AttributeMap() map[string]string { return maps.Clone(c.attributeMap) }

// CustomConditionsProvider returns the conditions provider implementation identifier.
func (c *Config) CustomConditionsProvider() string { return c.customConditionsProvider }

// CustomSubjectProvider returns the subject provider implementation identifier.
func (c *Config) CustomSubjectProvider() string { return c.customSubjectProvider }

// CustomAuthenticationStatementsProvider returns the authentication statements
// provider implementation identifier.
func (c *Config) CustomAuthenticationStatementsProvider() string {
	return c.customAuthenticationStatementsProvider
}

// CustomAttributeStatementsProvider returns the attribute statements provider
// implementation identifier.
func (c *Config) CustomAttributeStatementsProvider() string {
	return c.customAttributeStatementsProvider
}

// CustomAuthzDecisionStatementsProvider returns the authorization decision
// statements provider implementation identifier.
func (c *Config) CustomAuthzDecisionStatementsProvider() string {
	return c.customAuthzDecisionStatementsProvider
}

// CustomAttributeMapper returns the attribute mapper implementation identifier.
func (c *Config) CustomAttributeMapper() string { return c.customAttributeMapper }

// CustomAuthnContextMapper returns the authentication context mapper
// implementation identifier.
func (c *Config) CustomAuthnContextMapper() string { return c.customAuthnContextMapper }

// SignAssertion reports whether issued assertions are signed.
func (c *Config) SignAssertion() bool { return c.signAssertion }

// EncryptAssertion reports whether the whole assertion is encrypted.
func (c *Config) EncryptAssertion() bool { return c.encryptAssertion }

// EncryptAttributes reports whether attribute statements are encrypted.
func (c *Config) EncryptAttributes() bool { return c.encryptAttributes }

// EncryptNameID reports whether the subject name identifier is encrypted.
func (c *Config) EncryptNameID() bool { return c.encryptNameID }

// EncryptionAlgorithm returns the encryption algorithm URI.
func (c *Config) EncryptionAlgorithm() string { return c.encryptionAlgorithm }

// EncryptionAlgorithmStrength returns the encryption key strength in bits.
func (c *Config) EncryptionAlgorithmStrength() int { return c.encryptionAlgorithmStrength }

// EncryptionKeyAlias returns the keystore alias of the encryption key.
func (c *Config) EncryptionKeyAlias() string { return c.encryptionKeyAlias }

// KeystoreFileName returns the keystore file location.
func (c *Config) KeystoreFileName() string { return c.keystoreFileName }

// KeystorePassword returns a copy of the keystore password.
func (c *Config) KeystorePassword() []byte { return bytes.Clone(c.keystorePassword) }

// SignatureKeyAlias returns the keystore alias of the signing key.
func (c *Config) SignatureKeyAlias() string { return c.signatureKeyAlias }

// SignatureKeyPassword returns a copy of the signing key password.
func (c *Config) SignatureKeyPassword() []byte { return bytes.Clone(c.signatureKeyPassword) }

// Equal reports whether two configurations carry the same state. Attribute
// maps are compared by content, so ordering never affects equality.
func (c *Config) Equal(other *Config) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.issuerName == other.issuerName &&
		c.spEntityID == other.spEntityID &&
		c.spACSURL == other.spACSURL &&
		c.nameIDFormat == other.nameIDFormat &&
		c.tokenLifetimeSeconds == other.tokenLifetimeSeconds &&
		c.customConditionsProvider == other.customConditionsProvider &&
		c.customSubjectProvider == other.customSubjectProvider &&
		c.customAuthenticationStatementsProvider == other.customAuthenticationStatementsProvider &&
		c.customAttributeStatementsProvider == other.customAttributeStatementsProvider &&
		c.customAuthzDecisionStatementsProvider == other.customAuthzDecisionStatementsProvider &&
		c.customAttributeMapper == other.customAttributeMapper &&
		c.customAuthnContextMapper == other.customAuthnContextMapper &&
		c.signAssertion == other.signAssertion &&
		c.encryptAssertion == other.encryptAssertion &&
		c.encryptAttributes == other.encryptAttributes &&
		c.encryptNameID == other.encryptNameID &&
		c.encryptionAlgorithm == other.encryptionAlgorithm &&
		c.encryptionAlgorithmStrength == other.encryptionAlgorithmStrength &&
		c.encryptionKeyAlias == other.encryptionKeyAlias &&
		c.keystoreFileName == other.keystoreFileName &&
		c.signatureKeyAlias == other.signatureKeyAlias &&
		bytes.Equal(c.keystorePassword, other.keystorePassword) &&
		bytes.Equal(c.signatureKeyPassword, other.signatureKeyPassword) &&
		maps.Equal(c.attributeMap, other.attributeMap)
}

// String renders the configuration for logging. Password material is redacted
// and must never appear in log output.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{issuerName:%q, spEntityID:%q, spACSURL:%q, nameIDFormat:%q, tokenLifetimeSeconds:%d, "+
			"attributeMap:%v, customConditionsProvider:%q, customSubjectProvider:%q, "+
			"customAuthenticationStatementsProvider:%q, customAttributeStatementsProvider:%q, "+
			"customAuthzDecisionStatementsProvider:%q, customAttributeMapper:%q, customAuthnContextMapper:%q, "+
			"signAssertion:%t, encryptAssertion:%t, encryptAttributes:%t, encryptNameID:%t, "+
			"encryptionAlgorithm:%q, encryptionAlgorithmStrength:%d, encryptionKeyAlias:%q, "+
			"keystoreFileName:%q, keystorePassword:%s, signatureKeyAlias:%q, signatureKeyPassword:%s}",
		c.issuerName, c.spEntityID, c.spACSURL, c.nameIDFormat, c.tokenLifetimeSeconds,
		c.attributeMap, c.customConditionsProvider, c.customSubjectProvider,
		c.customAuthenticationStatementsProvider, c.customAttributeStatementsProvider,
		c.customAuthzDecisionStatementsProvider, c.customAttributeMapper, c.customAuthnContextMapper,
		c.signAssertion, c.encryptAssertion, c.encryptAttributes, c.encryptNameID,
		c.encryptionAlgorithm, c.encryptionAlgorithmStrength, c.encryptionKeyAlias,
		c.keystoreFileName, redact(c.keystorePassword), c.signatureKeyAlias, redact(c.signatureKeyPassword),
	)
}

// redact replaces password material with a placeholder in rendered output.
func redact(secret []byte) string {
	if len(secret) == 0 {
		return `""`
	}
	return "[REDACTED]"
}
