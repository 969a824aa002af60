// Package serve implements the serve subcommand: it wires the render
// orchestrator into an MCP server and runs it over stdio or SSE.
package serve

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mark3labs/mcp-go/server"

	"jsreport-mcp/pkg/jsreport"
	"jsreport-mcp/pkg/logger"
	"jsreport-mcp/pkg/report"
)

const serverVersion = "1.0.0"

// ServeCmd represents the serve command
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSReport MCP server with stdio or SSE protocol",
	Long: `Start the MCP server that exposes JSReport report generation via stdio or SSE protocol.

This server provides:
- generate_report: render a data report, auto-selecting the template by keywords
- render_custom_html: render ad-hoc Handlebars HTML to PDF
- list_templates / get_template_info: template discovery
- list_reports: browse persisted reports

Examples:
  jsreport-mcp serve                          # stdio transport
  jsreport-mcp serve --transport sse          # SSE transport on the default port
  jsreport-mcp serve --transport sse --port 9091`,
	Run: runServe,
}

func init() {
	ServeCmd.Flags().String("transport", "stdio", "Transport protocol (stdio or sse)")
	ServeCmd.Flags().Int("port", 9090, "Port for SSE transport")

	// Bind flags to viper
	viper.BindPFlags(ServeCmd.Flags())
}

func runServe(cmd *cobra.Command, args []string) {
	log, err := logger.CreateLogger(
		viper.GetString("log-file"),
		viper.GetString("log-level"),
		viper.GetString("log-format"),
		false, // stdout belongs to the stdio transport
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	cfg := jsreport.Config{
		BaseURL:         viper.GetString("jsreport.url"),
		Username:        viper.GetString("jsreport.username"),
		Password:        viper.GetString("jsreport.password"),
		DefaultTemplate: viper.GetString("jsreport.default_template"),
	}
	orchestrator := report.NewOrchestrator(cfg, log)

	s := server.NewMCPServer(
		"JSReport MCP Server",
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	registerTools(s, orchestrator, log)

	transport := viper.GetString("transport")
	port := viper.GetInt("port")

	switch transport {
	case "stdio":
		log.Infof("Starting JSReport MCP server with stdio transport (jsreport: %s)", cfg.BaseURL)
		if err := server.ServeStdio(s); err != nil {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
	case "sse":
		addr := fmt.Sprintf(":%d", port)
		log.Infof("Starting JSReport MCP server with SSE transport on %s (jsreport: %s)", addr, cfg.BaseURL)
		sse := server.NewSSEServer(s)
		if err := sse.Start(addr); err != nil {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Invalid transport type: %s. Use 'stdio' or 'sse'\n", transport)
		os.Exit(1)
	}
}
