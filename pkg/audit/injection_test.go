package audit

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckParameterForInjection(t *testing.T) {
	tests := []struct {
		name            string
		value           string
		expectInjection bool
	}{
		{"clean search term", "spring launch", false},
		{"clean client name", "Acme Corp", false},
		{"empty value", "", false},
		{"classic tautology", "' OR '1'='1", true},
		{"union select", "1 UNION SELECT * FROM passwords", true},
		{"stacked drop", "'; DROP TABLE users--", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckParameterForInjection("search", tt.value)
			if !tt.expectInjection {
				assert.Nil(t, result)
				return
			}
			require.NotNil(t, result)
			assert.Equal(t, "search", result.ParamName)
			assert.Equal(t, tt.value, result.ParamValue)
			assert.NotEmpty(t, result.Fingerprint)
			assert.Equal(t, result.Fingerprint, result.Details().Fingerprint)
		})
	}
}

func TestCheckQueryParams_OnlyScreensNamedParams(t *testing.T) {
	query := url.Values{
		"search": {"' OR '1'='1"},
		"status": {"active"},
		"other":  {"'; DROP TABLE projects--"},
	}

	results := CheckQueryParams(query, "status", "search")

	require.Len(t, results, 1)
	assert.Equal(t, "search", results[0].ParamName)
}
