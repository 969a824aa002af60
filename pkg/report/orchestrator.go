// Package report implements the render orchestrator: it classifies a
// report request into a template, drives the JSReport render call and
// normalizes the outcome into a structured result for the agent.
package report

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"jsreport-mcp/internal/utils"
	"jsreport-mcp/pkg/classifier"
	"jsreport-mcp/pkg/jsreport"
)

const (
	defaultEngine = "handlebars"
	defaultRecipe = "chrome-pdf"

	inlineInstructions = "The PDF is base64 encoded. Decode it and write the bytes to a .pdf file."
)

// Orchestrator drives render calls against one JSReport instance. It
// holds no mutable state; concurrent calls are independent.
type Orchestrator struct {
	client *jsreport.Client
	logger utils.ExtendedLogger
}

// NewOrchestrator builds an orchestrator for the given JSReport
// configuration. The configuration is explicit so tests can run several
// orchestrators against different endpoints.
func NewOrchestrator(cfg jsreport.Config, log utils.ExtendedLogger) *Orchestrator {
	return &Orchestrator{
		client: jsreport.NewClient(cfg, log),
		logger: log,
	}
}

// GenerateReport renders a report request. When templateOverride is
// empty the classifier picks the template from the request's title, type
// and subtitle; the generic fallback resolves to the configured default
// template. Persist asks JSReport to store the artifact publicly;
// forceInline requests the base64 payload even when a permanent link
// exists.
func (o *Orchestrator) GenerateReport(ctx context.Context, req Request, templateOverride string, persist, forceInline bool) *Result {
	templateName := templateOverride
	auto := false
	category := ""

	if templateName == "" {
		cat := classifier.Classify(req.Title, req.ReportType, req.Subtitle, len(req.Sections) > 0)
		category = string(cat)
		templateName = cat.Template()
		if templateName == "" {
			templateName = o.client.Config().DefaultTemplate
		}
		auto = true
		o.logger.WithFields(logrus.Fields{
			"category": category,
			"template": templateName,
		}).Debug("classifier selected template")
	}

	result := o.Render(ctx, templateName, req, persist, forceInline)
	result.Category = category
	result.AutoSelected = auto
	return result
}

// Render renders the request with a named stored template, applying the
// persistence and response-shape rules from GenerateReport.
func (o *Orchestrator) Render(ctx context.Context, templateName string, req Request, persist, forceInline bool) *Result {
	return o.render(ctx, templateName,
		jsreport.TemplateRef{Name: templateName}, req.BuildData(), persist, forceInline)
}

// RenderCustomHTML renders ad-hoc handlebars HTML instead of a stored
// template. Recipe defaults to chrome-pdf.
func (o *Orchestrator) RenderCustomHTML(ctx context.Context, htmlContent string, data map[string]interface{}, recipe string, persist, forceInline bool) *Result {
	if recipe == "" {
		recipe = defaultRecipe
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	ref := jsreport.TemplateRef{
		Content: htmlContent,
		Engine:  defaultEngine,
		Recipe:  recipe,
	}
	return o.render(ctx, "custom-html", ref, data, persist, forceInline)
}

// render issues the single JSReport call and normalizes its outcome. It
// is the only place a service error becomes a structured result, so
// programming errors elsewhere still surface as real errors.
func (o *Orchestrator) render(ctx context.Context, templateLabel string, ref jsreport.TemplateRef, data map[string]interface{}, persist, forceInline bool) *Result {
	renderReq := jsreport.RenderRequest{
		Template: ref,
		Data:     data,
	}
	// The options block is the save trigger; it must be absent, not
	// empty, when persistence is off.
	if persist {
		renderReq.Options = &jsreport.RenderOptions{
			Reports: &jsreport.ReportOptions{Save: true, Public: true},
		}
	}

	resp, err := o.client.Render(ctx, renderReq)
	if err != nil {
		errMsg, details := describeFailure(err)
		o.logger.WithError(err).WithField("template", templateLabel).Error("render failed")
		return &Result{
			Success:      false,
			Error:        errMsg,
			Details:      details,
			TemplateUsed: templateLabel,
		}
	}

	result := &Result{
		Success:      true,
		Message:      "Report generated successfully.",
		SizeBytes:    len(resp.Content),
		ContentType:  resp.ContentType,
		TemplateUsed: templateLabel,
	}

	switch {
	case resp.PermanentLink != "" && !forceInline:
		// Default path: the link alone keeps the response small.
		result.PermanentLink = resp.PermanentLink
	case resp.PermanentLink != "":
		result.PermanentLink = resp.PermanentLink
		result.PDFBase64 = base64.StdEncoding.EncodeToString(resp.Content)
		result.Instructions = inlineInstructions
	default:
		// No link means the service did not persist the artifact; the
		// inline payload is the caller's only copy.
		result.PDFBase64 = base64.StdEncoding.EncodeToString(resp.Content)
		result.Instructions = inlineInstructions
	}

	o.logger.WithFields(logrus.Fields{
		"template":   templateLabel,
		"size_bytes": result.SizeBytes,
		"persisted":  result.PermanentLink != "",
	}).Info("report rendered")
	return result
}

// ListTemplates returns the stored templates as a structured result.
func (o *Orchestrator) ListTemplates(ctx context.Context) *TemplateListResult {
	templates, err := o.client.ListTemplates(ctx)
	if err != nil {
		errMsg, details := describeFailure(err)
		o.logger.WithError(err).Error("template listing failed")
		return &TemplateListResult{Success: false, Error: errMsg, Details: details}
	}
	return &TemplateListResult{Success: true, Count: len(templates), Templates: templates}
}

// TemplateInfo looks up one template by name. An empty filter match is a
// not-found result, not an error.
func (o *Orchestrator) TemplateInfo(ctx context.Context, name string) *TemplateInfoResult {
	tpl, err := o.client.GetTemplate(ctx, name)
	if err != nil {
		errMsg, details := describeFailure(err)
		o.logger.WithError(err).WithField("template", name).Error("template lookup failed")
		return &TemplateInfoResult{Success: false, Error: errMsg, Details: details}
	}
	if tpl == nil {
		return &TemplateInfoResult{
			Success: false,
			Error:   fmt.Sprintf("template '%s' not found", name),
		}
	}
	return &TemplateInfoResult{Success: true, Template: tpl}
}

// ListReports returns persisted reports, newest first.
func (o *Orchestrator) ListReports(ctx context.Context, limit, offset int) *ReportListResult {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	reports, err := o.client.ListReports(ctx, limit, offset)
	if err != nil {
		errMsg, details := describeFailure(err)
		o.logger.WithError(err).Error("report listing failed")
		return &ReportListResult{Success: false, Error: errMsg, Details: details}
	}
	return &ReportListResult{Success: true, Count: len(reports), Reports: reports}
}

// describeFailure splits an outbound-call error into the error and
// details fields of a structured result. HTTP error statuses carry the
// numeric code plus the truncated response body; transport failures get
// a generic connectivity hint and no status.
func describeFailure(err error) (string, string) {
	var statusErr *jsreport.StatusError
	if errors.As(err, &statusErr) {
		details := statusErr.Body
		if details == "" {
			details = "no details"
		}
		return fmt.Sprintf("HTTP error %d", statusErr.StatusCode), details
	}
	return err.Error(), "failed to connect to the jsreport service"
}
