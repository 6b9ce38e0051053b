package notification

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

type templateData struct {
	Name      string
	Email     string
	BaseURL   string
	Token     string
	ExpiresIn string
	IPAddress string
	Platform  string
	When      string
}

var emailTemplates = template.Must(template.New("emails").Funcs(sprig.TxtFuncMap()).Parse(`
{{- define "email.verification" -}}
Hi {{ .Name | default .Email }},

Welcome aboard. Please confirm your email address by opening the link below:

{{ .BaseURL }}/api/v1/auth/verify-email?token={{ .Token }}

The link expires in {{ .ExpiresIn }}. If you did not create this account you can ignore this message.
{{- end -}}

{{- define "password.reset" -}}
Hi {{ .Name | default .Email }},

We received a request to reset your password. Use the link below to choose a new one:

{{ .BaseURL }}/reset-password?token={{ .Token }}

The link expires in {{ .ExpiresIn }}. If you did not request a reset, no action is needed and your password remains unchanged.
{{- end -}}

{{- define "password.changed" -}}
Hi {{ .Name | default .Email }},

Your password was changed on {{ .When }}{{ if .IPAddress }} from {{ .IPAddress }}{{ end }}{{ if .Platform }} ({{ .Platform }}){{ end }}.

All other sessions have been signed out. If this was not you, reset your password immediately.
{{- end -}}

{{- define "user.welcome" -}}
Hi {{ .Name | default .Email }},

Your email is verified and your account is ready to use.
{{- end -}}
`))

func renderTemplate(name string, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", name, err)
	}
	return buf.String(), nil
}
