package report

import "jsreport-mcp/pkg/jsreport"

// Result is the outcome of one render attempt, returned to the agent as
// plain key/value data. Failure is expressed through Success=false plus
// Error/Details, never through a raised error.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`

	SizeBytes     int    `json:"size_bytes,omitempty"`
	ContentType   string `json:"content_type,omitempty"`
	PermanentLink string `json:"permanent_link,omitempty"`
	PDFBase64     string `json:"pdf_base64,omitempty"`
	Instructions  string `json:"instructions,omitempty"`

	TemplateUsed string `json:"template_used,omitempty"`
	Category     string `json:"category,omitempty"`
	AutoSelected bool   `json:"auto_selected"`

	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

// TemplateListResult is the structured outcome of a template listing.
type TemplateListResult struct {
	Success   bool                `json:"success"`
	Count     int                 `json:"count,omitempty"`
	Templates []jsreport.Template `json:"templates,omitempty"`
	Error     string              `json:"error,omitempty"`
	Details   string              `json:"details,omitempty"`
}

// TemplateInfoResult is the structured outcome of a single-template
// lookup. A missing template is a Success=false result, not an error.
type TemplateInfoResult struct {
	Success  bool               `json:"success"`
	Template *jsreport.Template `json:"template,omitempty"`
	Error    string             `json:"error,omitempty"`
	Details  string             `json:"details,omitempty"`
}

// ReportListResult is the structured outcome of a persisted-report
// listing.
type ReportListResult struct {
	Success bool              `json:"success"`
	Count   int               `json:"count,omitempty"`
	Reports []jsreport.Report `json:"reports,omitempty"`
	Error   string            `json:"error,omitempty"`
	Details string            `json:"details,omitempty"`
}
