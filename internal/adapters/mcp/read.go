package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"notesplit/internal/adapters/filesystem"
	"notesplit/internal/application/commands"
	"notesplit/internal/ports"
)

// Deps holds what the tools need to run against a vault
type Deps struct {
	Store        *filesystem.Store
	Oracle       ports.Oracle
	Index        ports.LinkIndex // optional
	Resolve      func(note string) string
	MaxSegments  int
	LockDocument bool
	Logger       *zap.Logger
}

func (d Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

func (d Deps) resolve(note string) string {
	if d.Resolve == nil {
		return note
	}
	return d.Resolve(note)
}

// RegisterReadTools adds the tools that never modify the vault.
func RegisterReadTools(s *server.MCPServer, deps Deps) {
	s.AddTool(segmentTool(), segmentHandler(deps))
	if deps.Index != nil {
		s.AddTool(linksTool(), linksHandler(deps))
	}
}

// --- segment ---

func segmentTool() mcp.Tool {
	return mcp.NewTool("segment",
		mcp.WithDescription("Split a note into labeled line ranges. Returns the segmentation table and the parsed segments; nothing is written."),
		mcp.WithString("note",
			mcp.Description("Note path, or a note name inside the vault (e.g. inbox or inbox.md)"),
			mcp.Required(),
		),
	)
}

func segmentHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		note := req.GetString("note", "")
		if note == "" {
			return toolError(fmt.Errorf("note is required"))
		}

		cmd := commands.NewSegmentCommand(deps.Store, deps.Oracle, deps.logger(), deps.resolve(note))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		if len(result.Parsed.Segments) == 0 {
			return mcp.NewToolResultText("No segments found."), nil
		}

		var sb strings.Builder
		for _, s := range result.Parsed.Segments {
			fmt.Fprintf(&sb, "%s  %s  %s\n", s.ID, s.Lines(), s.Description)
		}
		for _, row := range result.Parsed.Malformed {
			fmt.Fprintf(&sb, "skipped row %d: %s\n", row.Line, row.Reason)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- links ---

func linksTool() mcp.Tool {
	return mcp.NewTool("links",
		mcp.WithDescription("List the notes that link to a note by name, from the link index."),
		mcp.WithString("name",
			mcp.Description("Note name without extension"),
			mcp.Required(),
		),
	)
}

func linksHandler(deps Deps) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := req.GetString("name", "")
		if name == "" {
			return toolError(fmt.Errorf("name is required"))
		}

		if deps.Index.NeedsFullRebuild() {
			if _, err := deps.Index.SyncFull(); err != nil {
				return toolError(err)
			}
		} else if _, err := deps.Index.SyncIncremental(); err != nil {
			return toolError(err)
		}

		edges, err := deps.Index.FindLinksTo(name)
		if err != nil {
			return toolError(err)
		}
		if len(edges) == 0 {
			return mcp.NewToolResultText("No results."), nil
		}

		var sb strings.Builder
		for _, e := range edges {
			fmt.Fprintf(&sb, "%s  %s\n", e.SourcePath, e.LinkText)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
