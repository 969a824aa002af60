package serve

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"jsreport-mcp/internal/utils"
	"jsreport-mcp/pkg/classifier"
	"jsreport-mcp/pkg/report"
)

// generateReportArgs is the wire shape of the generate_report tool. The
// flat table_* fields mirror the template's data keys so agents can pass
// tabular payloads without nesting.
type generateReportArgs struct {
	ReportTitle    string               `json:"report_title"`
	ReportSubtitle string               `json:"report_subtitle"`
	ClientName     string               `json:"client_name"`
	Period         string               `json:"period"`
	ReportType     string               `json:"report_type"`
	GeneratedDate  string               `json:"generated_date"`
	SummaryCards   []report.SummaryCard `json:"summary_cards"`
	TableTitle     string               `json:"table_title"`
	TableHeaders   []string             `json:"table_headers"`
	TableData      [][]string           `json:"table_data"`
	Sections       []sectionArgs        `json:"sections"`
	TemplateName   string               `json:"template_name"`
	Persist        bool                 `json:"persist"`
	ForceInline    bool                 `json:"force_inline"`
}

type sectionArgs struct {
	Title        string               `json:"title"`
	SummaryCards []report.SummaryCard `json:"summary_cards"`
	TableTitle   string               `json:"table_title"`
	TableHeaders []string             `json:"table_headers"`
	TableData    [][]string           `json:"table_data"`
}

type renderCustomHTMLArgs struct {
	HTMLContent string                 `json:"html_content"`
	Data        map[string]interface{} `json:"data"`
	Recipe      string                 `json:"recipe"`
	Persist     bool                   `json:"persist"`
	ForceInline bool                   `json:"force_inline"`
}

// toRequest converts tool arguments into the orchestrator's request
// model, keeping absent table/section payloads absent.
func (a generateReportArgs) toRequest() report.Request {
	req := report.Request{
		Title:         a.ReportTitle,
		Subtitle:      a.ReportSubtitle,
		ClientName:    a.ClientName,
		Period:        a.Period,
		ReportType:    a.ReportType,
		GeneratedDate: a.GeneratedDate,
		SummaryCards:  a.SummaryCards,
	}
	req.Table = buildTable(a.TableTitle, a.TableHeaders, a.TableData)
	for _, s := range a.Sections {
		req.Sections = append(req.Sections, report.Section{
			Title: s.Title,
			Cards: s.SummaryCards,
			Table: buildTable(s.TableTitle, s.TableHeaders, s.TableData),
		})
	}
	return req
}

func buildTable(title string, headers []string, rows [][]string) *report.Table {
	if title == "" && len(headers) == 0 && len(rows) == 0 {
		return nil
	}
	return &report.Table{Title: title, Headers: headers, Rows: rows}
}

// registerTools adds the report tools to the MCP server. Every handler
// returns a structured {success, ...} payload; service failures are
// carried inside the payload, never as protocol errors.
func registerTools(s *server.MCPServer, o *report.Orchestrator, log utils.ExtendedLogger) {
	cardItems := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{"type": "string", "description": "Card label (e.g., 'Total de Abastecimentos')"},
			"value": map[string]any{"type": "string", "description": "Card value, preformatted (e.g., 'R$ 287.450,00')"},
		},
		"required": []string{"title", "value"},
	}
	rowItems := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}

	generateReportTool := mcp.NewTool(
		"generate_report",
		mcp.WithDescription(fmt.Sprintf(`Generate a PDF report through JSReport.

When template_name is omitted the template is selected automatically from the
report title, type and subtitle using keyword matching. Requests carrying
"sections" always use the executive multi-section template. Supported
categories and their trigger keywords:

%s
With persist=true the report is stored on the server and the result carries a
permanent public link instead of the base64 payload (set force_inline=true to
get both). Without persist the PDF comes back base64 encoded.`, classifier.Describe())),
		mcp.WithString("report_title", mcp.Required(), mcp.Description("Main report title")),
		mcp.WithString("report_subtitle", mcp.Description("Report subtitle (e.g., 'Análise de Dados - WebPosto')")),
		mcp.WithString("client_name", mcp.Description("Client or gas station name")),
		mcp.WithString("period", mcp.Description("Reporting period (e.g., '01/01/2026 - 20/01/2026')")),
		mcp.WithString("report_type", mcp.Description("Report type (e.g., 'Abastecimentos', 'Produtos', 'Vendas')")),
		mcp.WithString("generated_date", mcp.Description("Generation date 'DD/MM/YYYY HH:MM:SS'; defaults to now")),
		mcp.WithArray("summary_cards", mcp.Description("Headline metric cards (3 to 6 recommended)"), mcp.Items(cardItems)),
		mcp.WithString("table_title", mcp.Description("Title of the data table")),
		mcp.WithArray("table_headers", mcp.Description("Table column headers"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithArray("table_data", mcp.Description("Table rows; each row is a list of cell strings"), mcp.Items(rowItems)),
		mcp.WithArray("sections", mcp.Description("Nested report sections for multi-section executive reports"), mcp.Items(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":         map[string]any{"type": "string"},
				"summary_cards": map[string]any{"type": "array", "items": cardItems},
				"table_title":   map[string]any{"type": "string"},
				"table_headers": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"table_data":    map[string]any{"type": "array", "items": rowItems},
			},
		})),
		mcp.WithString("template_name", mcp.Description("Explicit template name, bypassing automatic selection")),
		mcp.WithBoolean("persist", mcp.Description("Store the report on the server with a public link (default: false)")),
		mcp.WithBoolean("force_inline", mcp.Description("Return the base64 payload even when a permanent link exists (default: false)")),
	)
	s.AddTool(generateReportTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args generateReportArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		log.WithFields(logrus.Fields{
			"tool":       "generate_report",
			"invocation": uuid.NewString(),
			"title":      args.ReportTitle,
			"template":   args.TemplateName,
			"persist":    args.Persist,
		}).Info("tool called")

		result := o.GenerateReport(ctx, args.toRequest(), args.TemplateName, args.Persist, args.ForceInline)
		return jsonResult(result)
	})

	renderCustomHTMLTool := mcp.NewTool(
		"render_custom_html",
		mcp.WithDescription(`Render custom Handlebars HTML to PDF through JSReport.

Useful for one-off layouts that do not fit the stored report templates.
Placeholders like {{variable}} are substituted from the data object.`),
		mcp.WithString("html_content", mcp.Required(), mcp.Description("HTML content with Handlebars placeholders (e.g., '<h1>{{titulo}}</h1>')")),
		mcp.WithObject("data", mcp.Description("Values substituted into the placeholders")),
		mcp.WithString("recipe", mcp.Description("JSReport recipe (default: 'chrome-pdf')")),
		mcp.WithBoolean("persist", mcp.Description("Store the report on the server with a public link (default: false)")),
		mcp.WithBoolean("force_inline", mcp.Description("Return the base64 payload even when a permanent link exists (default: false)")),
	)
	s.AddTool(renderCustomHTMLTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args renderCustomHTMLArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		log.WithFields(logrus.Fields{
			"tool":       "render_custom_html",
			"invocation": uuid.NewString(),
			"recipe":     args.Recipe,
			"persist":    args.Persist,
		}).Info("tool called")

		result := o.RenderCustomHTML(ctx, args.HTMLContent, args.Data, args.Recipe, args.Persist, args.ForceInline)
		return jsonResult(result)
	})

	listTemplatesTool := mcp.NewTool(
		"list_templates",
		mcp.WithDescription("List every report template available on the JSReport server."),
	)
	s.AddTool(listTemplatesTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log.WithFields(logrus.Fields{
			"tool":       "list_templates",
			"invocation": uuid.NewString(),
		}).Info("tool called")
		return jsonResult(o.ListTemplates(ctx))
	})

	getTemplateInfoTool := mcp.NewTool(
		"get_template_info",
		mcp.WithDescription("Get details about one report template by name."),
		mcp.WithString("template_name", mcp.Required(), mcp.Description("Template name (e.g., 'wp-data-report')")),
	)
	s.AddTool(getTemplateInfoTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("template_name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		log.WithFields(logrus.Fields{
			"tool":       "get_template_info",
			"invocation": uuid.NewString(),
			"template":   name,
		}).Info("tool called")
		return jsonResult(o.TemplateInfo(ctx, name))
	})

	listReportsTool := mcp.NewTool(
		"list_reports",
		mcp.WithDescription("List reports persisted on the JSReport server, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of reports to return (default: 20)")),
		mcp.WithNumber("offset", mcp.Description("Number of reports to skip, for pagination (default: 0)")),
	)
	s.AddTool(listReportsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := request.GetInt("limit", 20)
		offset := request.GetInt("offset", 0)
		log.WithFields(logrus.Fields{
			"tool":       "list_reports",
			"invocation": uuid.NewString(),
			"limit":      limit,
			"offset":     offset,
		}).Info("tool called")
		return jsonResult(o.ListReports(ctx, limit, offset))
	})
}

// jsonResult serializes a structured result as the tool's text payload.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(encoded)), nil
}
