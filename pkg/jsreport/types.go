package jsreport

import "fmt"

// TemplateRef identifies the template for a render call: either a stored
// template by name, or ad-hoc content with its engine and recipe. JSReport
// branches on which keys are present, so unused fields must be omitted
// from the JSON entirely.
type TemplateRef struct {
	Name    string `json:"name,omitempty"`
	Content string `json:"content,omitempty"`
	Engine  string `json:"engine,omitempty"`
	Recipe  string `json:"recipe,omitempty"`
}

// ReportOptions asks JSReport to store the rendered artifact and make it
// publicly retrievable.
type ReportOptions struct {
	Save   bool `json:"save"`
	Public bool `json:"public"`
}

// RenderOptions is the options block of a render call. Reports must be
// nil (not empty) when persistence is not wanted: JSReport treats the
// presence of the block as the save trigger.
type RenderOptions struct {
	Reports *ReportOptions `json:"reports,omitempty"`
}

// RenderRequest is the body of POST /api/report.
type RenderRequest struct {
	Template TemplateRef            `json:"template"`
	Data     map[string]interface{} `json:"data"`
	Options  *RenderOptions         `json:"options,omitempty"`
}

// RenderResponse is a successful render: the artifact bytes plus the
// headers the orchestrator branches on. PermanentLink is empty when the
// service did not persist the artifact.
type RenderResponse struct {
	Content       []byte
	ContentType   string
	PermanentLink string
}

// Template describes a stored template as returned by /odata/templates.
type Template struct {
	Name       string `json:"name"`
	Engine     string `json:"engine"`
	Recipe     string `json:"recipe"`
	ShortID    string `json:"shortid"`
	HasContent bool   `json:"has_content"`
}

// Report describes a persisted rendered artifact as returned by
// /odata/reports.
type Report struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CreationDate string `json:"creationDate"`
	ContentType  string `json:"contentType"`
	Public       bool   `json:"public"`
}

// maxDiagnosticLen caps the response body carried in a StatusError so
// diagnostics stay readable in tool results.
const maxDiagnosticLen = 500

// StatusError reports an HTTP error status from JSReport, as opposed to
// a transport failure where no response was received at all.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("jsreport returned HTTP %d", e.StatusCode)
}

// truncate caps diagnostic strings at maxDiagnosticLen characters.
func truncate(s string) string {
	if len(s) > maxDiagnosticLen {
		return s[:maxDiagnosticLen]
	}
	return s
}
