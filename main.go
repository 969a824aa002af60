package main

import "jsreport-mcp/cmd"

func main() {
	cmd.Execute()
}
