// Package domain defines the token issuance configuration model. A configuration
// is an immutable value object built through a validating builder, with two
// marshalling forms: a structured string-valued document and a flat attribute
// map compatible with external attribute stores.
package domain

// Well-known flat attribute-map field names. These are stable storage
// identifiers; renaming any of them breaks previously persisted records.
const (
	FieldIssuerName                             = "issuer-name"
	FieldNameIDFormat                           = "name-id-format"
	FieldTokenLifetime                          = "token-lifetime"
	FieldCustomConditionsProvider               = "custom-conditions-provider"
	FieldCustomSubjectProvider                  = "custom-subject-provider"
	FieldCustomAuthenticationStatementsProvider = "custom-authentication-statements-provider"
	FieldCustomAttributeStatementsProvider      = "custom-attribute-statements-provider"
	FieldCustomAuthzDecisionStatementsProvider  = "custom-authz-decision-statements-provider"
	FieldCustomAttributeMapper                  = "custom-attribute-mapper"
	FieldCustomAuthnContextMapper               = "custom-authn-context-mapper"
	FieldSignAssertion                          = "sign-assertion"
	FieldEncryptAssertion                       = "encrypt-assertion"
	FieldEncryptAttributes                      = "encrypt-attributes"
	FieldEncryptNameID                          = "encrypt-name-id"
	FieldEncryptionAlgorithm                    = "encryption-algorithm"
	FieldEncryptionAlgorithmStrength            = "encryption-algorithm-strength"
	FieldAttributeMap                           = "attribute-map"
	FieldKeystoreFileName                       = "keystore-file-name"
	FieldKeystorePassword                       = "keystore-password"
	FieldSPEntityID                             = "sp-entity-id"
	FieldSPACSURL                               = "sp-acs-url"
	FieldSignatureKeyAlias                      = "signature-key-alias"
	FieldSignatureKeyPassword                   = "signature-key-password"
	FieldEncryptionKeyAlias                     = "encryption-key-alias"
)

// wellKnownFields lists every flat field name in declaration order.
var wellKnownFields = []string{
	FieldIssuerName,
	FieldNameIDFormat,
	FieldTokenLifetime,
	FieldCustomConditionsProvider,
	FieldCustomSubjectProvider,
	FieldCustomAuthenticationStatementsProvider,
	FieldCustomAttributeStatementsProvider,
	FieldCustomAuthzDecisionStatementsProvider,
	FieldCustomAttributeMapper,
	FieldCustomAuthnContextMapper,
	FieldSignAssertion,
	FieldEncryptAssertion,
	FieldEncryptAttributes,
	FieldEncryptNameID,
	FieldEncryptionAlgorithm,
	FieldEncryptionAlgorithmStrength,
	FieldAttributeMap,
	FieldKeystoreFileName,
	FieldKeystorePassword,
	FieldSPEntityID,
	FieldSPACSURL,
	FieldSignatureKeyAlias,
	FieldSignatureKeyPassword,
	FieldEncryptionKeyAlias,
}

const (
	// EncryptionAlgorithmTripleDES is the only encryption algorithm that carries
	// an implicit key strength, so configurations using it may omit the explicit
	// strength value.
	EncryptionAlgorithmTripleDES = "http://www.w3.org/2001/04/xmlenc#tripledes-cbc"

	// DefaultNameIDFormat is applied when a configuration does not set a
	// name identifier format.
	DefaultNameIDFormat = "urn:oasis:names:tc:SAML:1.1:nameid-format:unspecified"

	// DefaultTokenLifetimeSeconds is applied when a configuration does not set
	// a token lifetime.
	DefaultTokenLifetimeSeconds int64 = 600
)
