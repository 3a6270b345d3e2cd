package mcp

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"notesplit/internal/adapters/filesystem"
	"notesplit/internal/adapters/report"
	"notesplit/internal/application/commands"
	"notesplit/internal/ports"
)

// RegisterWriteTools adds the tools that modify the vault.
func RegisterWriteTools(s *server.MCPServer, deps Deps) {
	s.AddTool(extractTool(), extractHandler(deps))
}

// --- extract ---

func extractTool() mcp.Tool {
	return mcp.NewTool("extract",
		mcp.WithDescription("Move the note's most self-contained segments into new notes, leaving a wiki-link back-reference in their place. The note is rewritten once, and only if something was extracted."),
		mcp.WithString("note",
			mcp.Description("Note path, or a note name inside the vault"),
			mcp.Required(),
		),
		mcp.WithNumber("max_segments",
			mcp.Description("Maximum number of segments to extract (default from configuration)"),
		),
		mcp.WithBoolean("dry_run",
			mcp.Description("Report what would change as a unified diff without writing anything"),
		),
	)
}

func extractHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		note := req.GetString("note", "")
		if note == "" {
			return toolError(fmt.Errorf("note is required"))
		}
		dryRun := req.GetBool("dry_run", false)

		var store ports.NoteStore = deps.Store
		var dry *filesystem.DryRunStore
		if dryRun {
			dry = filesystem.NewDryRunStore(deps.Store)
			store = dry
		}

		opts := commands.RunOptions{
			NotePath:     deps.resolve(note),
			VaultPath:    deps.Store.VaultPath(),
			MaxSegments:  req.GetInt("max_segments", deps.MaxSegments),
			LockDocument: deps.LockDocument && !dryRun,
		}
		if !dryRun {
			opts.Index = deps.Index
		}

		cmd := commands.NewRunCommand(store, deps.Oracle, deps.logger(), opts)
		result, err := cmd.Execute(ctx)
		if err != nil && result == nil {
			return toolError(err)
		}

		var out bytes.Buffer
		printer := report.NewPrinter(&out)
		printer.Outcome(result, dryRun)
		if dryRun && result.Persisted {
			if perr := printer.Pending(dry.Writes()); perr != nil {
				return toolError(perr)
			}
		}
		if err != nil {
			return mcp.NewToolResultError(out.String() + "\n" + err.Error()), nil
		}
		return mcp.NewToolResultText(out.String()), nil
	}
}
