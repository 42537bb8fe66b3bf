package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sharath2004-tech/climate-disaster-sub000/internal/knowledge"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/pipeline"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/risk"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Advisor *pipeline.Advisor
}

// NewMCPServer creates an MCP server with the disaster-safety tools registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"skynetra",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions("SKYNETRA — disaster risk prediction and safety guidance for Indian cities."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("disaster_risk",
			mcp.WithDescription("Classify 7-day flood, cyclone, and heatwave risk for coordinates."),
			mcp.WithNumber("lat", mcp.Description("Latitude"), mcp.Required()),
			mcp.WithNumber("lon", mcp.Description("Longitude"), mcp.Required()),
		),
		mcpDisasterRisk(deps),
	)

	s.AddTool(
		mcp.NewTool("safety_guidance",
			mcp.WithDescription("Return before/during/after safety actions for a hazard type."),
			mcp.WithString("hazard", mcp.Description("One of flood, cyclone, heatwave, general"), mcp.Required()),
		),
		mcpSafetyGuidance(deps),
	)

	s.AddTool(
		mcp.NewTool("ask",
			mcp.WithDescription("Ask the safety assistant a free-text question with optional location context."),
			mcp.WithString("message", mcp.Description("The question"), mcp.Required()),
			mcp.WithString("session_id", mcp.Description("Conversation session to continue")),
			mcp.WithString("location", mcp.Description("Location name, e.g. Mumbai")),
			mcp.WithNumber("lat", mcp.Description("Latitude for forecast context")),
			mcp.WithNumber("lon", mcp.Description("Longitude for forecast context")),
			mcp.WithString("language", mcp.Description("Response language code, e.g. en or hi")),
		),
		mcpAsk(deps),
	)

	return s
}

func mcpDisasterRisk(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		lat, err := req.RequireFloat("lat")
		if err != nil {
			return mcpError("lat is required"), nil
		}
		lon, err := req.RequireFloat("lon")
		if err != nil {
			return mcpError("lon is required"), nil
		}

		pred, err := deps.Advisor.Predict(ctx, lat, lon)
		if err != nil {
			return mcpError(fmt.Sprintf("forecast unavailable: %v", err)), nil
		}

		b, err := json.MarshalIndent(pred, "", "  ")
		if err != nil {
			return mcpError(fmt.Sprintf("encoding prediction: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpSafetyGuidance(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		category, err := req.RequireString("hazard")
		if err != nil {
			return mcpError("hazard is required"), nil
		}

		entry, ok := knowledge.Lookup(category)
		if !ok {
			return mcpError(fmt.Sprintf("unknown hazard %q; use flood, cyclone, heatwave, or general", category)), nil
		}

		b, err := json.MarshalIndent(entry, "", "  ")
		if err != nil {
			return mcpError(fmt.Sprintf("encoding guidance: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpAsk(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		message, err := req.RequireString("message")
		if err != nil {
			return mcpError("message is required"), nil
		}

		resp, err := deps.Advisor.Turn(ctx, pipeline.TurnRequest{
			Message:   message,
			SessionID: req.GetString("session_id", ""),
			Location:  req.GetString("location", ""),
			Lat:       req.GetFloat("lat", 0),
			Lon:       req.GetFloat("lon", 0),
			Language:  req.GetString("language", ""),
		})
		if err != nil {
			return mcpError(fmt.Sprintf("processing turn: %v", err)), nil
		}

		answer := resp.Text
		if resp.Prediction != nil && resp.Prediction.Overall == risk.SeverityHigh {
			answer = fmt.Sprintf("[high risk in effect]\n%s", answer)
		}
		return mcpText(fmt.Sprintf("%s\n\n(session %s, answered by %s)", answer, resp.SessionID, resp.Provider)), nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
