package main

import (
	"github.com/eshaffer321/monarch-mcp/internal/bulk"
	"github.com/eshaffer321/monarch-mcp/internal/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the Monarch Money tools over stdio",
		Long:  `Serve the Monarch Money tools to an MCP client over stdin and stdout.
This is what runs when no subcommand is given. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, *configPath)
		},
	}
}

func runServe(cmd *cobra.Command, configPath string) error {
	a, err := loadApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	toolset := tools.New(tools.Deps{
		Provider: a.provider,
		Store:    a.store,
		Capture:  a.captureFlow(nil),
		Bulk:     bulk.New(a.cfg.BulkConcurrency),
		Logger:   a.logger,
	})
	server := newServer(toolset)

	a.logger.Info("serving MCP over stdio", "version", version, "tools", len(toolset.Names()))
	return server.Run(cmd.Context(), &mcp.StdioTransport{})
}

func newServer(toolset *tools.Toolset) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "monarch-money",
		Version: version,
	}, nil)
	toolset.Register(server)
	return server
}
