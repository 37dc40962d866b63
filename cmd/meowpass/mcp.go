package main

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/ggsatyam/meowpass/internal/config"
	meowmcp "github.com/ggsatyam/meowpass/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve meowpass tools over the Model Context Protocol (stdio)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resolved, err := config.ResolveConfig(config.ResolveOptions{ConfigPath: configPath})
		if err != nil {
			return err
		}
		srv := meowmcp.NewServer(meowmcp.ServerConfig{
			Version: version,
			Rules:   resolved.Rules,
			Logger:  logger,
		})
		if err := server.ServeStdio(srv); err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	},
}
