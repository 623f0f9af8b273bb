// Command monarch-mcp serves the Monarch Money API to MCP clients over stdio
// and manages the stored login token.
package main

// version can be set during build with -ldflags
var version = "dev"

func main() {
	Execute()
}
