package observability

import (
	"github.com/govgr-digital/profile-api/internal/logging"
)

// Logger returns the global safe logger instance
func Logger() *logging.SafeLogger {
	return logging.Logger
}

// MaskAFM masks a tax identifier for logging
func MaskAFM(afm string) string {
	if len(afm) != 9 {
		return "*********"
	}
	return afm[:3] + "***" + afm[6:]
}

// MaskAMKA masks an insurance identifier for logging
func MaskAMKA(amka string) string {
	if len(amka) != 11 {
		return "***********"
	}
	return amka[:4] + "*****" + amka[9:]
}

// MaskSensitiveData masks sensitive fields in a map before logging
func MaskSensitiveData(data map[string]interface{}) map[string]interface{} {
	sensitiveFields := []string{"afm", "amka", "idNumber", "providerUsername", "providerPassword"}
	masked := make(map[string]interface{})

	for k, v := range data {
		if contains(sensitiveFields, k) {
			masked[k] = "********"
		} else {
			masked[k] = v
		}
	}

	return masked
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
