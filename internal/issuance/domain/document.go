package domain

import (
	"strconv"

	"github.com/allisson/idp/internal/errors"
)

// Document is the structured exchange form of a Config. Every scalar is
// carried as a string so the document survives transports and stores that
// only understand text. An empty string means the field is unset; parsing
// back through ConfigFromDocument applies builder defaults for unset fields
// and rejects malformed non-empty values.
type Document struct {
	IssuerName                             string            `json:"issuer_name"`
	SPEntityID                             string            `json:"sp_entity_id"`
	SPACSURL                               string            `json:"sp_acs_url"`
	NameIDFormat                           string            `json:"name_id_format"`
	TokenLifetimeSeconds                   string            `json:"token_lifetime_seconds"`
	AttributeMap                           map[string]string `json:"attribute_map,omitempty"`
	CustomConditionsProvider               string            `json:"custom_conditions_provider"`
	CustomSubjectProvider                  string            `json:"custom_subject_provider"`
	CustomAuthenticationStatementsProvider string            `json:"custom_authentication_statements_provider"`
	CustomAttributeStatementsProvider      string            `json:"custom_attribute_statements_provider"`
	CustomAuthzDecisionStatementsProvider  string            `json:"custom_authz_decision_statements_provider"`
	CustomAttributeMapper                  string            `json:"custom_attribute_mapper"`
	CustomAuthnContextMapper               string            `json:"custom_authn_context_mapper"`
	SignAssertion                          string            `json:"sign_assertion"`
	EncryptAssertion                       string            `json:"encrypt_assertion"`
	EncryptAttributes                      string            `json:"encrypt_attributes"`
	EncryptNameID                          string            `json:"encrypt_name_id"`
	EncryptionAlgorithm                    string            `json:"encryption_algorithm"`
	EncryptionAlgorithmStrength            string            `json:"encryption_algorithm_strength"`
	EncryptionKeyAlias                     string            `json:"encryption_key_alias"`
	KeystoreFileName                       string            `json:"keystore_file_name"`
	KeystorePassword                       string            `json:"keystore_password"`
	SignatureKeyAlias                      string            `json:"signature_key_alias"`
	SignatureKeyPassword                   string            `json:"signature_key_password"`
}

// Document renders the configuration as its string-valued exchange form.
// Booleans and integers are always emitted so the document is self-describing
// even for zero values.
func (c *Config) Document() *Document {
	return &Document{
		IssuerName:                             c.issuerName,
		SPEntityID:                             c.spEntityID,
		SPACSURL:                               c.spACSURL,
		NameIDFormat:                           c.nameIDFormat,
		TokenLifetimeSeconds:                   strconv.FormatInt(c.tokenLifetimeSeconds, 10),
		AttributeMap:                           c.AttributeMap(),
		CustomConditionsProvider:               c.customConditionsProvider,
		CustomSubjectProvider:                  c.customSubjectProvider,
		CustomAuthenticationStatementsProvider: c.customAuthenticationStatementsProvider,
		CustomAttributeStatementsProvider:      c.customAttributeStatementsProvider,
		CustomAuthzDecisionStatementsProvider:  c.customAuthzDecisionStatementsProvider,
		CustomAttributeMapper:                  c.customAttributeMapper,
		CustomAuthnContextMapper:               c.customAuthnContextMapper,
		SignAssertion:                          strconv.FormatBool(c.signAssertion),
		EncryptAssertion:                       strconv.FormatBool(c.encryptAssertion),
		EncryptAttributes:                      strconv.FormatBool(c.encryptAttributes),
		EncryptNameID:                          strconv.FormatBool(c.encryptNameID),
		EncryptionAlgorithm:                    c.encryptionAlgorithm,
		EncryptionAlgorithmStrength:            strconv.Itoa(c.encryptionAlgorithmStrength),
		EncryptionKeyAlias:                     c.encryptionKeyAlias,
		KeystoreFileName:                       c.keystoreFileName,
		KeystorePassword:                       string(c.keystorePassword),
		SignatureKeyAlias:                      c.signatureKeyAlias,
		SignatureKeyPassword:                   string(c.signatureKeyPassword),
	}
}

// ConfigFromDocument parses a string-valued document back into a validated
// Config. Malformed non-empty scalars return ErrMarshal; documents that parse
// but violate a configuration invariant return ErrInvalidConfig from the
// builder.
func ConfigFromDocument(doc *Document) (*Config, error) {
	tokenLifetime, err := parseInt64Field("token_lifetime_seconds", doc.TokenLifetimeSeconds)
	if err != nil {
		return nil, err
	}

	signAssertion, err := parseBoolField("sign_assertion", doc.SignAssertion)
	if err != nil {
		return nil, err
	}

	encryptAssertion, err := parseBoolField("encrypt_assertion", doc.EncryptAssertion)
	if err != nil {
		return nil, err
	}

	encryptAttributes, err := parseBoolField("encrypt_attributes", doc.EncryptAttributes)
	if err != nil {
		return nil, err
	}

	encryptNameID, err := parseBoolField("encrypt_name_id", doc.EncryptNameID)
	if err != nil {
		return nil, err
	}

	strength, err := parseIntField("encryption_algorithm_strength", doc.EncryptionAlgorithmStrength)
	if err != nil {
		return nil, err
	}

	builder := NewConfigBuilder().
		IssuerName(doc.IssuerName).
		SPEntityID(doc.SPEntityID).
		SPACSURL(doc.SPACSURL).
		NameIDFormat(doc.NameIDFormat).
		TokenLifetimeSeconds(tokenLifetime).
		AttributeMap(doc.AttributeMap).
		CustomConditionsProvider(doc.CustomConditionsProvider).
		CustomSubjectProvider(doc.CustomSubjectProvider).
		CustomAuthenticationStatementsProvider(doc.CustomAuthenticationStatementsProvider).
		CustomAttributeStatementsProvider(doc.CustomAttributeStatementsProvider).
		CustomAuthzDecisionStatementsProvider(doc.CustomAuthzDecisionStatementsProvider).
		CustomAttributeMapper(doc.CustomAttributeMapper).
		CustomAuthnContextMapper(doc.CustomAuthnContextMapper).
		SignAssertion(signAssertion).
		EncryptAssertion(encryptAssertion).
		EncryptAttributes(encryptAttributes).
		EncryptNameID(encryptNameID).
		EncryptionAlgorithm(doc.EncryptionAlgorithm).
		EncryptionAlgorithmStrength(strength).
		EncryptionKeyAlias(doc.EncryptionKeyAlias).
		KeystoreFileName(doc.KeystoreFileName).
		SignatureKeyAlias(doc.SignatureKeyAlias)

	if doc.KeystorePassword != "" {
		builder = builder.KeystorePassword([]byte(doc.KeystorePassword))
	}
	if doc.SignatureKeyPassword != "" {
		builder = builder.SignatureKeyPassword([]byte(doc.SignatureKeyPassword))
	}

	return builder.Build()
}

func parseBoolField(field, value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.Wrapf(ErrMarshal, "field %s has invalid boolean value %q", field, value)
	}
	return parsed, nil
}

func parseInt64Field(field, value string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrMarshal, "field %s has invalid integer value %q", field, value)
	}
	return parsed, nil
}

func parseIntField(field, value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Wrapf(ErrMarshal, "field %s has invalid integer value %q", field, value)
	}
	return parsed, nil
}
