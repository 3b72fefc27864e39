// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	issuanceDomain "github.com/allisson/idp/internal/issuance/domain"
	customValidation "github.com/allisson/idp/internal/validation"
)

// PublishConfigRequest mirrors the document form of a token issuance
// configuration. Every scalar is carried as a string; parsing and invariant
// checks happen in the domain builder, so this request only rejects payloads
// that are structurally unusable.
type PublishConfigRequest struct {
	IssuerName                             string            `json:"issuer_name"`
	SPEntityID                             string            `json:"sp_entity_id"`
	SPACSURL                               string            `json:"sp_acs_url"`
	NameIDFormat                           string            `json:"name_id_format"`
	TokenLifetimeSeconds                   string            `json:"token_lifetime_seconds"`
	AttributeMap                           map[string]string `json:"attribute_map"`
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

// Validate checks if the publish config request is valid.
func (r *PublishConfigRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.IssuerName,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 2048),
		),
		validation.Field(&r.SPEntityID,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 2048),
		),
		validation.Field(&r.SPACSURL,
			customValidation.HTTPURL,
		),
	)
}

// ToDocument converts the request to the domain document form.
func (r *PublishConfigRequest) ToDocument() *issuanceDomain.Document {
	return &issuanceDomain.Document{
		IssuerName:                             r.IssuerName,
		SPEntityID:                             r.SPEntityID,
		SPACSURL:                               r.SPACSURL,
		NameIDFormat:                           r.NameIDFormat,
		TokenLifetimeSeconds:                   r.TokenLifetimeSeconds,
		AttributeMap:                           r.AttributeMap,
		CustomConditionsProvider:               r.CustomConditionsProvider,
		CustomSubjectProvider:                  r.CustomSubjectProvider,
		CustomAuthenticationStatementsProvider: r.CustomAuthenticationStatementsProvider,
		CustomAttributeStatementsProvider:      r.CustomAttributeStatementsProvider,
		CustomAuthzDecisionStatementsProvider:  r.CustomAuthzDecisionStatementsProvider,
		CustomAttributeMapper:                  r.CustomAttributeMapper,
		CustomAuthnContextMapper:               r.CustomAuthnContextMapper,
		SignAssertion:                          r.SignAssertion,
		EncryptAssertion:                       r.EncryptAssertion,
		EncryptAttributes:                      r.EncryptAttributes,
		EncryptNameID:                          r.EncryptNameID,
		EncryptionAlgorithm:                    r.EncryptionAlgorithm,
		EncryptionAlgorithmStrength:            r.EncryptionAlgorithmStrength,
		EncryptionKeyAlias:                     r.EncryptionKeyAlias,
		KeystoreFileName:                       r.KeystoreFileName,
		KeystorePassword:                       r.KeystorePassword,
		SignatureKeyAlias:                      r.SignatureKeyAlias,
		SignatureKeyPassword:                   r.SignatureKeyPassword,
	}
}
