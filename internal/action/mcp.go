package action

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// MCPBackend exposes the tools of an external MCP server as action handlers,
// so feature modules can add intents without linking into this binary. The
// server runs as a subprocess over stdio.
type MCPBackend struct {
	client  *mcp.Client
	session *mcp.ClientSession
	log     *zap.Logger
}

func NewMCPBackend(log *zap.Logger) *MCPBackend {
	if log == nil {
		log = zap.NewNop()
	}
	return &MCPBackend{log: log}
}

// Connect launches the MCP server at serverPath and opens a session.
func (b *MCPBackend) Connect(ctx context.Context, serverPath string) error {
	b.client = mcp.NewClient(&mcp.Implementation{
		Name:    "walletchat-actions",
		Version: "1.0.0",
	}, nil)

	cmd := exec.CommandContext(ctx, serverPath)
	cmd.Env = os.Environ()

	session, err := b.client.Connect(ctx, mcp.NewCommandTransport(cmd))
	if err != nil {
		return fmt.Errorf("failed to connect to MCP server %s: %w", serverPath, err)
	}
	b.session = session
	b.log.Info("connected to MCP action server", zap.String("path", serverPath))
	return nil
}

func (b *MCPBackend) Close() error {
	if b.session != nil {
		return b.session.Close()
	}
	return nil
}

// Handler returns an action Handler that forwards params to the named tool.
// The intent params plus the user id become the tool arguments.
func (b *MCPBackend) Handler(tool string) Handler {
	return func(ctx context.Context, params map[string]string, userID string) (Result, error) {
		if b.session == nil {
			return Result{}, fmt.Errorf("MCP session not connected")
		}

		args := make(map[string]any, len(params)+1)
		for k, v := range params {
			args[k] = v
		}
		args["user_id"] = userID

		result, err := b.session.CallTool(ctx, &mcp.CallToolParams{
			Name:      tool,
			Arguments: args,
		})
		if err != nil {
			return Result{}, fmt.Errorf("MCP tool %s: %w", tool, err)
		}
		if result.IsError {
			return Result{}, fmt.Errorf("MCP tool %s reported an error", tool)
		}

		var text string
		for _, content := range result.Content {
			if tc, ok := content.(*mcp.TextContent); ok {
				text += tc.Text
			}
		}
		out := Result{Text: text}
		if result.Meta != nil {
			out.Data = result.Meta
		}
		return out, nil
	}
}
