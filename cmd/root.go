// Package cmd implements the root command for Cobra.
package cmd

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	gitlab "gitlab.com/gitlab-org/api/client-go"

	"gitlab.com/akervel/gitlab-mcp/lib/build"
	"gitlab.com/akervel/gitlab-mcp/lib/config"
	"gitlab.com/akervel/gitlab-mcp/lib/graphql"
	"gitlab.com/akervel/gitlab-mcp/lib/tools"
)

// New creates the command hierarchy for Cobra.
func New() *cobra.Command {
	cmd := newRootCommand()

	cmd.AddCommand(newVersionCommand())

	return cmd
}

// newRootCommand returns the root command for the CLI.
func newRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "gitlab-mcp",
		Short: "GitLab MCP server",
		Long:  "A command-line tool that provides an MCP server for interacting with GitLab.",
		RunE:  run,
		Args:  cobra.NoArgs,
	}
}

func run(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	// MCP talks JSON-RPC over stdout, so logs must stay on stderr.
	log := logrus.StandardLogger()

	client, err := newGitLabClient(cfg)
	if err != nil {
		return fmt.Errorf("gitlab.NewClient: %w", err)
	}

	var gq graphql.Executor
	if !cfg.DisableGraphQL {
		gq = graphql.NewClient(cfg.URL, cfg.Token,
			graphql.WithLogger(log),
			graphql.WithRetryMax(cfg.RetryCount),
			graphql.WithTimeout(cfg.Timeout),
		)
	}

	s := server.NewMCPServer(
		"GitLab",
		build.Version(),
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
		server.WithRecovery(),
	)

	tools.New(client, gq, tools.Options{
		ReadOnly:        cfg.ReadOnly,
		DisableWiki:     cfg.DisableWiki,
		DisableReleases: cfg.DisableReleases,
		DisableGraphQL:  cfg.DisableGraphQL,
	}).AddTo(s)

	log.WithFields(logrus.Fields{
		"url":       cfg.URL,
		"read_only": cfg.ReadOnly,
	}).Info("starting MCP server on stdio")

	if err := server.ServeStdio(s); err != nil {
		return fmt.Errorf("ServeStdio: %w", err)
	}

	return nil
}

func newGitLabClient(cfg *config.Config) (*gitlab.Client, error) {
	return gitlab.NewClient(cfg.Token,
		gitlab.WithBaseURL(cfg.APIURL()),
		gitlab.WithCustomRetryMax(cfg.RetryCount),
		gitlab.WithRequestOptions(
			gitlab.WithHeader("User-Agent", "gitlab-mcp/"+build.Version()),
		),
	)
}
