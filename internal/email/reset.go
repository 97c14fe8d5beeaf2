package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

var resetTemplate = template.Must(template.New("reset").Parse(`<h1>Password Reset Request</h1>
<p>You have requested a password reset for your {{.AppName}} account. Please click the link below to reset your password:</p>
<a href="{{.ResetURL}}">{{.ResetURL}}</a>
<p>This link will expire in {{.ExpiresIn}}.</p>
<p>If you did not request this, please ignore this email.</p>
`))

type resetData struct {
	AppName   string
	ResetURL  string
	ExpiresIn string
}

// ResetEmailBody renders the reset email. The brand name and link arrive as
// parameters; this package owns only the wording.
func ResetEmailBody(appName, resetURL string, ttl time.Duration) (string, error) {
	var buf bytes.Buffer
	err := resetTemplate.Execute(&buf, resetData{
		AppName:   appName,
		ResetURL:  resetURL,
		ExpiresIn: formatTTL(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render reset email: %w", err)
	}
	return buf.String(), nil
}

func formatTTL(ttl time.Duration) string {
	if ttl < time.Hour {
		minutes := int(ttl.Minutes())
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}

	hours := int(ttl.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
