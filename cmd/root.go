package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jsreport-mcp/cmd/serve"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jsreport-mcp",
	Short: "MCP server for JSReport PDF generation",
	Long: `An MCP server exposing JSReport report generation to automated agents.

This tool provides:
- Keyword-based routing of report requests to rendering templates
- PDF rendering through a remote JSReport instance
- Optional public persistence of rendered reports
- Template and report discovery`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.jsreport-mcp.yaml)")

	// Logging flags
	rootCmd.PersistentFlags().String("log-file", "", "log file path (optional)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	// JSReport connection flags; the JSREPORT_* environment variables
	// override the defaults through viper.
	rootCmd.PersistentFlags().String("jsreport-url", "https://relatorio.qualityautomacao.com.br", "JSReport base URL")
	rootCmd.PersistentFlags().String("jsreport-username", "admin", "JSReport basic auth username")
	rootCmd.PersistentFlags().String("jsreport-password", "", "JSReport basic auth password")
	rootCmd.PersistentFlags().String("default-template", "wp-data-report", "template used when classification finds no match")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("jsreport.url", rootCmd.PersistentFlags().Lookup("jsreport-url"))
	viper.BindPFlag("jsreport.username", rootCmd.PersistentFlags().Lookup("jsreport-username"))
	viper.BindPFlag("jsreport.password", rootCmd.PersistentFlags().Lookup("jsreport-password"))
	viper.BindPFlag("jsreport.default_template", rootCmd.PersistentFlags().Lookup("default-template"))

	rootCmd.AddCommand(serve.ServeCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Load .env file first (if present)
	if err := godotenv.Load(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using system environment variables")
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".jsreport-mcp" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".jsreport-mcp")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// Map the JSREPORT_* environment variables from the original
	// deployment onto the config keys.
	viper.BindEnv("jsreport.url", "JSREPORT_URL")
	viper.BindEnv("jsreport.username", "JSREPORT_USERNAME")
	viper.BindEnv("jsreport.password", "JSREPORT_PASSWORD")
	viper.BindEnv("jsreport.default_template", "JSREPORT_DEFAULT_TEMPLATE")

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
