package schema_test

import (
	"errors"
	"testing"

	"github.com/firstpartysets/list/tools/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAccepts(t *testing.T) {
	doc := []byte(`{
		"sets": [
			{
				"primary": "https://a.example",
				"associatedSites": ["https://b.example"],
				"serviceSites": ["https://c.example"],
				"rationaleBySite": {
					"https://b.example": "shared brand",
					"https://c.example": "static assets"
				},
				"ccTLDs": {
					"https://a.example": ["https://a.de"]
				}
			}
		]
	}`)
	require.NoError(t, schema.Validate(doc))
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not_json", `{truncated`},
		{"missing_sets", `{}`},
		{"missing_primary", `{"sets": [{"associatedSites": ["https://b.example"]}]}`},
		{"wrong_type", `{"sets": [{"primary": 42}]}`},
		{"sites_not_list", `{"sets": [{"primary": "https://a.example", "serviceSites": "https://c.example"}]}`},
		{"unknown_field", `{"sets": [{"primary": "https://a.example", "extra": true}]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := schema.Validate([]byte(tc.doc))
			require.Error(t, err)
			var v schema.Violation
			assert.True(t, errors.As(err, &v), "error should be a schema.Violation, got %T", err)
		})
	}
}
