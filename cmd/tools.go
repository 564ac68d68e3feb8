package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"

	"github.com/teemow/inboxroute/internal/instrumentation"
	"github.com/teemow/inboxroute/internal/server"
	"github.com/teemow/inboxroute/internal/tools/registry"
)

// Output formats of the tools command.
const (
	toolsFormatText     = "text"
	toolsFormatMarkdown = "markdown"
	toolsFormatJSON     = "json"
)

func newToolsCmd() *cobra.Command {
	var (
		format     string
		outputFile string
		readOnly   bool
	)

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the MCP tools",
		Long: `List every tool the server registers, with its parameters, defaults and
allowed values. This reads the same registry the server serves from, so the
output always matches the running tools. No credentials are needed.

Formats:
  - text: a compact listing (default)
  - markdown: a reference document
  - json: the MCP tool definitions including input schemas`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTools(cmd.OutOrStdout(), format, outputFile, readOnly)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", toolsFormatText, "Output format: text, markdown or json")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "List only the tools registered in read-only mode")

	return cmd
}

func runTools(stdout io.Writer, format, outputFile string, readOnly bool) error {
	// Tool registration never touches remote clients, so an uninitialized
	// context is enough.
	logger := slog.New(slog.DiscardHandler)
	sc := server.NewServerContext(context.Background(),
		server.WithLogger(logger),
		server.WithAuditLogger(instrumentation.NewAuditLogger(logger)),
	)
	defer func() {
		_ = sc.Shutdown()
	}()

	reg, err := buildRegistry(sc, readOnly)
	if err != nil {
		return err
	}

	out, err := renderTools(reg.List(), format)
	if err != nil {
		return err
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(out), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Tool list written to: %s\n", outputFile)
		return nil
	}

	_, err = io.WriteString(stdout, out)
	return err
}

func renderTools(descs []registry.Descriptor, format string) (string, error) {
	switch format {
	case toolsFormatText:
		return renderToolsText(descs), nil
	case toolsFormatMarkdown:
		return renderToolsMarkdown(descs), nil
	case toolsFormatJSON:
		return renderToolsJSON(descs)
	default:
		return "", fmt.Errorf("unsupported format %q (supported: %s, %s, %s)",
			format, toolsFormatText, toolsFormatMarkdown, toolsFormatJSON)
	}
}

func renderToolsText(descs []registry.Descriptor) string {
	var sb strings.Builder

	for i, desc := range descs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(desc.Name)
		if !desc.ReadOnly {
			sb.WriteString(" [write]")
		}
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "  %s\n", desc.Description)

		for _, p := range desc.Params {
			fmt.Fprintf(&sb, "  - %s (%s)\n", p.Name, paramSummary(p))
		}
	}

	return sb.String()
}

func renderToolsMarkdown(descs []registry.Descriptor) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# MCP Tools Reference\n\n")
	sb.WriteString("This document lists every tool available when running inboxroute as an MCP server.\n\n")
	sb.WriteString("**Note:** This documentation is automatically generated from the tool definitions.\n\n")

	toolsByCategory := groupToolsByCategory(descs)

	// Table of contents
	sb.WriteString("## Table of Contents\n\n")
	categories := make([]string, 0, len(toolsByCategory))
	for category := range toolsByCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		anchor := strings.ToLower(strings.ReplaceAll(category, " ", "-"))
		fmt.Fprintf(&sb, "- [%s](#%s)\n", category, anchor)
	}
	sb.WriteString("\n")

	for _, category := range categories {
		fmt.Fprintf(&sb, "## %s\n\n", category)

		for _, desc := range toolsByCategory[category] {
			sb.WriteString(generateToolMarkdown(desc))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// groupToolsByCategory keeps registration order inside each category.
func groupToolsByCategory(descs []registry.Descriptor) map[string][]registry.Descriptor {
	categories := make(map[string][]registry.Descriptor)

	for _, desc := range descs {
		category := categoryForService(desc.Service)
		categories[category] = append(categories[category], desc)
	}

	return categories
}

func categoryForService(service string) string {
	switch service {
	case instrumentation.ServiceGmail:
		return "Gmail Tools"
	case instrumentation.ServiceCalendar:
		return "Google Calendar Tools"
	case instrumentation.ServiceMaps:
		return "Google Maps Tools"
	default:
		return "Other"
	}
}

func generateToolMarkdown(desc registry.Descriptor) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "### %s\n\n", desc.Name)

	if desc.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", desc.Description)
	}

	if !desc.ReadOnly {
		sb.WriteString("*Not available in read-only mode.*\n\n")
	}

	if len(desc.Params) > 0 {
		sb.WriteString("**Arguments:**\n")

		for _, p := range desc.Params {
			fmt.Fprintf(&sb, "- `%s` (%s): ", p.Name, paramSummary(p))
			if p.Description != "" {
				sb.WriteString(p.Description)
			} else {
				fmt.Fprintf(&sb, "%s parameter", p.Kind)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// paramSummary renders kind, requiredness, default and allowed values, e.g.
// "string, optional, default: driving, one of: driving|walking".
func paramSummary(p registry.Param) string {
	parts := []string{p.Kind.String()}

	if p.Required {
		parts = append(parts, "required")
	} else {
		parts = append(parts, "optional")
	}

	if p.Default != nil {
		parts = append(parts, "default: "+formatDefault(p.Default))
	}

	if len(p.Enum) > 0 {
		parts = append(parts, "one of: "+strings.Join(p.Enum, "|"))
	}

	return strings.Join(parts, ", ")
}

func formatDefault(v any) string {
	switch d := v.(type) {
	case string:
		if d == "" {
			return `""`
		}
		return d
	case []string:
		return "[" + strings.Join(d, ", ") + "]"
	default:
		return fmt.Sprint(d)
	}
}

func renderToolsJSON(descs []registry.Descriptor) (string, error) {
	tools := make([]mcp.Tool, 0, len(descs))
	for _, desc := range descs {
		tools = append(tools, registry.ToMCPTool(desc))
	}

	data, err := json.MarshalIndent(tools, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode tools: %w", err)
	}
	return string(data) + "\n", nil
}
