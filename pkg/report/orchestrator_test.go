package report

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsreport-mcp/pkg/jsreport"
	"jsreport-mcp/pkg/logger"
)

// renderFake is a fake JSReport /api/report endpoint that records the
// last request body and serves a canned response.
type renderFake struct {
	status   int
	body     string
	link     string
	lastBody map[string]interface{}
}

func (f *renderFake) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		f.lastBody = map[string]interface{}{}
		json.Unmarshal(raw, &f.lastBody)

		if f.link != "" {
			w.Header().Set("Permanent-Link", f.link)
		}
		w.Header().Set("Content-Type", "application/pdf")
		if f.status != 0 {
			w.WriteHeader(f.status)
		}
		w.Write([]byte(f.body))
	}
}

func newTestOrchestrator(t *testing.T, h http.Handler) *Orchestrator {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewOrchestrator(jsreport.Config{
		BaseURL:         srv.URL,
		Username:        "admin",
		Password:        "secret",
		DefaultTemplate: "wp-data-report",
	}, logger.CreateTestLogger(t.TempDir()+"/test.log", "debug"))
}

func (f *renderFake) template() map[string]interface{} {
	tpl, _ := f.lastBody["template"].(map[string]interface{})
	return tpl
}

func TestRenderWithoutPersistReturnsInlinePayload(t *testing.T) {
	fake := &renderFake{body: "pdf-bytes"}
	o := newTestOrchestrator(t, fake.handler())

	result := o.Render(context.Background(), "wp-data-report", Request{Title: "Vendas"}, false, false)

	require.True(t, result.Success)
	assert.Empty(t, result.PermanentLink)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("pdf-bytes")), result.PDFBase64)
	assert.Equal(t, len("pdf-bytes"), result.SizeBytes)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.NotEmpty(t, result.Instructions)
	assert.NotContains(t, fake.lastBody, "options", "persist=false must omit the options block")
}

func TestRenderWithPersistReturnsLinkOnly(t *testing.T) {
	fake := &renderFake{body: "pdf-bytes", link: "https://reports.example.com/r/abc"}
	o := newTestOrchestrator(t, fake.handler())

	result := o.Render(context.Background(), "wp-data-report", Request{Title: "Vendas"}, true, false)

	require.True(t, result.Success)
	assert.Equal(t, "https://reports.example.com/r/abc", result.PermanentLink)
	assert.Empty(t, result.PDFBase64, "link-only is the default response shape")

	options := fake.lastBody["options"].(map[string]interface{})
	reports := options["reports"].(map[string]interface{})
	assert.Equal(t, true, reports["save"])
	assert.Equal(t, true, reports["public"])
}

func TestRenderForceInlineReturnsLinkAndPayload(t *testing.T) {
	fake := &renderFake{body: "pdf-bytes", link: "https://reports.example.com/r/abc"}
	o := newTestOrchestrator(t, fake.handler())

	result := o.Render(context.Background(), "wp-data-report", Request{Title: "Vendas"}, true, true)

	require.True(t, result.Success)
	assert.Equal(t, "https://reports.example.com/r/abc", result.PermanentLink)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("pdf-bytes")), result.PDFBase64)
}

func TestRenderFallsBackToInlineWhenPersistSilentlyFails(t *testing.T) {
	// Service accepted the persist options but returned no link: the
	// inline payload is the caller's only way to get the artifact.
	fake := &renderFake{body: "pdf-bytes"}
	o := newTestOrchestrator(t, fake.handler())

	result := o.Render(context.Background(), "wp-data-report", Request{Title: "Vendas"}, true, false)

	require.True(t, result.Success)
	assert.Empty(t, result.PermanentLink)
	assert.NotEmpty(t, result.PDFBase64)
}

func TestRenderServiceError(t *testing.T) {
	fake := &renderFake{status: http.StatusServiceUnavailable, body: "render queue full"}
	o := newTestOrchestrator(t, fake.handler())

	result := o.Render(context.Background(), "wp-data-report", Request{Title: "Vendas"}, true, false)

	require.False(t, result.Success)
	assert.Contains(t, result.Error, "503")
	assert.Equal(t, "render queue full", result.Details)
	assert.Equal(t, "wp-data-report", result.TemplateUsed)
	assert.Empty(t, result.PermanentLink)
	assert.Empty(t, result.PDFBase64)
}

func TestRenderTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	o := NewOrchestrator(jsreport.Config{BaseURL: srv.URL, DefaultTemplate: "wp-data-report"},
		logger.CreateTestLogger(t.TempDir()+"/test.log", "debug"))
	srv.Close()

	result := o.Render(context.Background(), "wp-data-report", Request{Title: "Vendas"}, false, false)

	require.False(t, result.Success)
	assert.NotContains(t, result.Error, "HTTP error", "transport failures carry no status code")
	assert.Equal(t, "failed to connect to the jsreport service", result.Details)
}

func TestGenerateReportClassifiesWhenNoOverride(t *testing.T) {
	fake := &renderFake{body: "pdf"}
	o := newTestOrchestrator(t, fake.handler())

	result := o.GenerateReport(context.Background(), Request{
		Title:      "Contas a Receber Janeiro",
		ReportType: "Financeiro",
	}, "", false, false)

	require.True(t, result.Success)
	assert.True(t, result.AutoSelected)
	assert.Equal(t, "financial", result.Category)
	assert.Equal(t, "wp-financial-report", result.TemplateUsed)
	assert.Equal(t, "wp-financial-report", fake.template()["name"])
}

func TestGenerateReportSectionsRouteToExecutive(t *testing.T) {
	fake := &renderFake{body: "pdf"}
	o := newTestOrchestrator(t, fake.handler())

	result := o.GenerateReport(context.Background(), Request{
		Title:    "Vendas",
		Sections: []Section{{Title: "Janeiro"}},
	}, "", false, false)

	require.True(t, result.Success)
	assert.Equal(t, "executive", result.Category)
	assert.Equal(t, "wp-executive-report", fake.template()["name"])
	assert.Contains(t, fake.lastBody["data"], "sections")
}

func TestGenerateReportGenericFallsBackToDefaultTemplate(t *testing.T) {
	fake := &renderFake{body: "pdf"}
	o := newTestOrchestrator(t, fake.handler())

	result := o.GenerateReport(context.Background(), Request{Title: "Documento 42"}, "", false, false)

	require.True(t, result.Success)
	assert.Equal(t, "generic", result.Category)
	assert.Equal(t, "wp-data-report", result.TemplateUsed)
}

func TestGenerateReportHonorsExplicitTemplate(t *testing.T) {
	fake := &renderFake{body: "pdf"}
	o := newTestOrchestrator(t, fake.handler())

	result := o.GenerateReport(context.Background(), Request{
		Title: "Contas a Receber",
	}, "my-custom-template", false, false)

	require.True(t, result.Success)
	assert.False(t, result.AutoSelected)
	assert.Empty(t, result.Category)
	assert.Equal(t, "my-custom-template", fake.template()["name"])
}

func TestRenderCustomHTML(t *testing.T) {
	fake := &renderFake{body: "pdf"}
	o := newTestOrchestrator(t, fake.handler())

	result := o.RenderCustomHTML(context.Background(),
		"<h1>{{titulo}}</h1>", map[string]interface{}{"titulo": "Meu Relatório"}, "", false, false)

	require.True(t, result.Success)
	tpl := fake.template()
	assert.Equal(t, "<h1>{{titulo}}</h1>", tpl["content"])
	assert.Equal(t, "handlebars", tpl["engine"])
	assert.Equal(t, "chrome-pdf", tpl["recipe"])
	assert.NotContains(t, tpl, "name")
	assert.Equal(t, "Meu Relatório", fake.lastBody["data"].(map[string]interface{})["titulo"])
}

func TestListTemplatesResult(t *testing.T) {
	o := newTestOrchestrator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"value": []map[string]interface{}{
				{"name": "wp-data-report", "engine": "handlebars", "recipe": "chrome-pdf", "shortid": "sFEip1K"},
			},
		})
	}))

	result := o.ListTemplates(context.Background())
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, "wp-data-report", result.Templates[0].Name)
}

func TestTemplateInfoNotFound(t *testing.T) {
	o := newTestOrchestrator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"value": []interface{}{}})
	}))

	result := o.TemplateInfo(context.Background(), "missing")
	require.False(t, result.Success)
	assert.Contains(t, result.Error, "not found")
	assert.Contains(t, result.Error, "missing")
}

func TestListReportsResult(t *testing.T) {
	o := newTestOrchestrator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "20", r.URL.Query().Get("$top"), "limit<=0 uses the default page size")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"value": []map[string]interface{}{
				{"_id": "r1", "name": "vendas-jan", "creationDate": "2026-01-20T10:00:00Z", "contentType": "application/pdf", "public": true},
			},
		})
	}))

	result := o.ListReports(context.Background(), 0, 0)
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, "vendas-jan", result.Reports[0].Name)
}

func TestListTemplatesServiceError(t *testing.T) {
	o := newTestOrchestrator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))

	result := o.ListTemplates(context.Background())
	require.False(t, result.Success)
	assert.Contains(t, result.Error, "401")
}
