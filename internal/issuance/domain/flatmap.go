package domain

import (
	"fmt"
	"slices"
	"strings"
)

// FlatAttributeMap renders the configuration as the flat persistence form
// used by external attribute stores, where every value is a set of strings.
// Scalars become single-element sets and the attribute map becomes one set
// with a "key=value" entry per mapping, sorted by key for stable storage.
// Booleans and integers are always emitted; string fields, passwords and the
// attribute map are omitted when empty so cleared fields leave no rows behind.
func (c *Config) FlatAttributeMap() map[string][]string {
	doc := c.Document()
	flat := make(map[string][]string)

	putIfSet := func(field, value string) {
		if value != "" {
			flat[field] = []string{value}
		}
	}

	putIfSet(FieldIssuerName, doc.IssuerName)
	putIfSet(FieldSPEntityID, doc.SPEntityID)
	putIfSet(FieldSPACSURL, doc.SPACSURL)
	putIfSet(FieldNameIDFormat, doc.NameIDFormat)
	putIfSet(FieldCustomConditionsProvider, doc.CustomConditionsProvider)
	putIfSet(FieldCustomSubjectProvider, doc.CustomSubjectProvider)
	putIfSet(FieldCustomAuthenticationStatementsProvider, doc.CustomAuthenticationStatementsProvider)
	putIfSet(FieldCustomAttributeStatementsProvider, doc.CustomAttributeStatementsProvider)
	putIfSet(FieldCustomAuthzDecisionStatementsProvider, doc.CustomAuthzDecisionStatementsProvider)
	putIfSet(FieldCustomAttributeMapper, doc.CustomAttributeMapper)
	putIfSet(FieldCustomAuthnContextMapper, doc.CustomAuthnContextMapper)
	putIfSet(FieldEncryptionAlgorithm, doc.EncryptionAlgorithm)
	putIfSet(FieldEncryptionKeyAlias, doc.EncryptionKeyAlias)
	putIfSet(FieldKeystoreFileName, doc.KeystoreFileName)
	putIfSet(FieldKeystorePassword, doc.KeystorePassword)
	putIfSet(FieldSignatureKeyAlias, doc.SignatureKeyAlias)
	putIfSet(FieldSignatureKeyPassword, doc.SignatureKeyPassword)

	flat[FieldTokenLifetime] = []string{doc.TokenLifetimeSeconds}
	flat[FieldSignAssertion] = []string{doc.SignAssertion}
	flat[FieldEncryptAssertion] = []string{doc.EncryptAssertion}
	flat[FieldEncryptAttributes] = []string{doc.EncryptAttributes}
	flat[FieldEncryptNameID] = []string{doc.EncryptNameID}
	flat[FieldEncryptionAlgorithmStrength] = []string{doc.EncryptionAlgorithmStrength}

	if len(doc.AttributeMap) > 0 {
		entries := make([]string, 0, len(doc.AttributeMap))
		for local, claim := range doc.AttributeMap {
			entries = append(entries, fmt.Sprintf("%s=%s", local, claim))
		}
		slices.Sort(entries)
		flat[FieldAttributeMap] = entries
	}

	return flat
}

// ConfigFromFlatMap reconstructs a configuration from its flat persistence
// form. The issuer-name field is the discriminator: when it is missing or
// carries no value the record was never populated and the second return is
// false with no error. Each scalar field is unwrapped from its single-element
// set and attribute-map entries are split on the first '=' character, then
// the result is parsed through ConfigFromDocument.
func ConfigFromFlatMap(flat map[string][]string) (*Config, bool, error) {
	if flatScalar(flat, FieldIssuerName) == "" {
		return nil, false, nil
	}

	doc := &Document{
		IssuerName:                             flatScalar(flat, FieldIssuerName),
		SPEntityID:                             flatScalar(flat, FieldSPEntityID),
		SPACSURL:                               flatScalar(flat, FieldSPACSURL),
		NameIDFormat:                           flatScalar(flat, FieldNameIDFormat),
		TokenLifetimeSeconds:                   flatScalar(flat, FieldTokenLifetime),
		CustomConditionsProvider:               flatScalar(flat, FieldCustomConditionsProvider),
		CustomSubjectProvider:                  flatScalar(flat, FieldCustomSubjectProvider),
		CustomAuthenticationStatementsProvider: flatScalar(flat, FieldCustomAuthenticationStatementsProvider),
		CustomAttributeStatementsProvider:      flatScalar(flat, FieldCustomAttributeStatementsProvider),
		CustomAuthzDecisionStatementsProvider:  flatScalar(flat, FieldCustomAuthzDecisionStatementsProvider),
		CustomAttributeMapper:                  flatScalar(flat, FieldCustomAttributeMapper),
		CustomAuthnContextMapper:               flatScalar(flat, FieldCustomAuthnContextMapper),
		SignAssertion:                          flatScalar(flat, FieldSignAssertion),
		EncryptAssertion:                       flatScalar(flat, FieldEncryptAssertion),
		EncryptAttributes:                      flatScalar(flat, FieldEncryptAttributes),
		EncryptNameID:                          flatScalar(flat, FieldEncryptNameID),
		EncryptionAlgorithm:                    flatScalar(flat, FieldEncryptionAlgorithm),
		EncryptionAlgorithmStrength:            flatScalar(flat, FieldEncryptionAlgorithmStrength),
		EncryptionKeyAlias:                     flatScalar(flat, FieldEncryptionKeyAlias),
		KeystoreFileName:                       flatScalar(flat, FieldKeystoreFileName),
		KeystorePassword:                       flatScalar(flat, FieldKeystorePassword),
		SignatureKeyAlias:                      flatScalar(flat, FieldSignatureKeyAlias),
		SignatureKeyPassword:                   flatScalar(flat, FieldSignatureKeyPassword),
	}

	if entries := flat[FieldAttributeMap]; len(entries) > 0 {
		attributeMap := make(map[string]string, len(entries))
		for _, entry := range entries {
			local, claim, _ := strings.Cut(entry, "=")
			attributeMap[local] = claim
		}
		doc.AttributeMap = attributeMap
	}

	config, err := ConfigFromDocument(doc)
	if err != nil {
		return nil, false, err
	}
	return config, true, nil
}

// EmptyFlatRecord returns one entry per well-known field, each mapped to an
// empty set. Writing it to an attribute store clears every field of a
// previously populated record, and reading it back yields an absent
// configuration because the discriminator carries no value.
func EmptyFlatRecord() map[string][]string {
	record := make(map[string][]string, len(wellKnownFields))
	for _, field := range wellKnownFields {
		record[field] = nil
	}
	return record
}

// flatScalar unwraps a single-element string set. Missing fields and empty
// sets read as the empty string, which downstream parsing treats as unset.
func flatScalar(flat map[string][]string, field string) string {
	values := flat[field]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
