// Package audit logs security-relevant events in structured JSON for SIEM consumption.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/campaign-engine/pkg/auth"
	"github.com/ekaya-inc/campaign-engine/pkg/logging"
)

const maxLoggedUsername = 64

// SecurityEventType categorizes security-relevant events for filtering and alerting.
type SecurityEventType string

const (
	// EventSQLInjectionAttempt is logged when libinjection flags a query parameter.
	EventSQLInjectionAttempt SecurityEventType = "sql_injection_attempt"
	// EventLoginFailure is logged for every rejected login.
	EventLoginFailure SecurityEventType = "login_failure"
)

// SecurityEvent is one auditable event.
type SecurityEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType SecurityEventType `json:"event_type"`
	UserID    *int64            `json:"user_id,omitempty"`
	Username  string            `json:"username,omitempty"`
	ClientIP  string            `json:"client_ip,omitempty"`
	Path      string            `json:"path,omitempty"`
	Details   any               `json:"details"`
	Severity  string            `json:"severity"` // info, warning, critical
}

// SQLInjectionDetails contains specifics of a detected injection attempt.
type SQLInjectionDetails struct {
	ParamName   string `json:"param_name"`
	ParamValue  string `json:"param_value"`
	Fingerprint string `json:"fingerprint"`
}

// SecurityAuditor logs security events under the "security_audit" logger name.
type SecurityAuditor struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewSecurityAuditor creates a new security auditor.
func NewSecurityAuditor(logger *zap.Logger) *SecurityAuditor {
	return &SecurityAuditor{
		logger: logger.Named("security_audit"),
		now:    time.Now,
	}
}

// LogInjectionAttempt records a flagged parameter at ERROR level with critical severity.
// The acting user is taken from ctx when the request is authenticated.
func (a *SecurityAuditor) LogInjectionAttempt(ctx context.Context, path string, details SQLInjectionDetails, clientIP string) {
	event := SecurityEvent{
		Timestamp: a.now().UTC(),
		EventType: EventSQLInjectionAttempt,
		ClientIP:  clientIP,
		Path:      path,
		Details:   details,
		Severity:  "critical",
	}
	if user, ok := auth.GetUser(ctx); ok {
		id := user.ID
		event.UserID = &id
		event.Username = user.Username
	}

	eventJSON, _ := json.Marshal(event)

	a.logger.Error("SQL injection attempt detected",
		zap.String("event_json", string(eventJSON)),
		zap.String("path", path),
		zap.String("param_name", details.ParamName),
		zap.String("fingerprint", details.Fingerprint),
		zap.String("client_ip", clientIP),
		zap.String("username", event.Username),
		zap.String("severity", "critical"),
	)
}

// LogLoginFailure records a rejected login at WARN level. Only the attempted
// username is kept, cut to maxLoggedUsername bytes; which credential was
// wrong is never recorded.
func (a *SecurityAuditor) LogLoginFailure(username, clientIP string) {
	username = logging.TruncateString(username, maxLoggedUsername)
	event := SecurityEvent{
		Timestamp: a.now().UTC(),
		EventType: EventLoginFailure,
		Username:  username,
		ClientIP:  clientIP,
		Details:   map[string]string{"reason": "invalid_credentials"},
		Severity:  "warning",
	}

	eventJSON, _ := json.Marshal(event)

	a.logger.Warn("Login failed",
		zap.String("event_json", string(eventJSON)),
		zap.String("username", username),
		zap.String("client_ip", clientIP),
		zap.String("severity", "warning"),
	)
}
