package audit

import (
	"net/url"
	"sort"

	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult describes a parameter value libinjection flagged.
type InjectionCheckResult struct {
	ParamName   string
	ParamValue  string
	Fingerprint string
}

// Details converts the result into the audit event payload.
func (r *InjectionCheckResult) Details() SQLInjectionDetails {
	return SQLInjectionDetails{
		ParamName:   r.ParamName,
		ParamValue:  r.ParamValue,
		Fingerprint: r.Fingerprint,
	}
}

// CheckParameterForInjection returns nil for clean values.
func CheckParameterForInjection(paramName, value string) *InjectionCheckResult {
	if value == "" {
		return nil
	}
	isSQLi, fingerprint := libinjection.IsSQLi(value)
	if !isSQLi {
		return nil
	}
	return &InjectionCheckResult{
		ParamName:   paramName,
		ParamValue:  value,
		Fingerprint: string(fingerprint),
	}
}

// CheckQueryParams screens the named query parameters, in name order.
func CheckQueryParams(query url.Values, names ...string) []*InjectionCheckResult {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	var results []*InjectionCheckResult
	for _, name := range sorted {
		for _, value := range query[name] {
			if result := CheckParameterForInjection(name, value); result != nil {
				results = append(results, result)
			}
		}
	}
	return results
}
