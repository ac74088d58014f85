package api

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/skinrec/internal/skin"
)

// NewMCPServer creates an MCP server with the skinrec tools and resources
// registered. It shares Deps with the HTTP API; auth and rate limits do not
// apply over stdio.
func NewMCPServer(deps Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"skinrec",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("skinrec recommends skincare treatments for a questionnaire profile."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("recommend_treatments",
			mcp.WithDescription("Rank treatments for each skin problem of a profile. Problems are derived from symptoms when omitted."),
			mcp.WithString("skin_type", mcp.Description("Normal, Dry, Oily or Unsure"), mcp.Required()),
			mcp.WithString("age_range", mcp.Description("18-25, 25-35, 35-45 or 45+"), mcp.Required()),
			mcp.WithArray("problems", mcp.Description("Skin problems to solve"), mcp.WithStringItems()),
			mcp.WithArray("symptoms", mcp.Description("Observed symptoms"), mcp.WithStringItems()),
			mcp.WithArray("allergies", mcp.Description("Allergy answers, e.g. \"Allergy to retinol\""), mcp.WithStringItems()),
			mcp.WithArray("contraindications", mcp.Description("Declared contraindications"), mcp.WithStringItems()),
			mcp.WithBoolean("is_pregnant", mcp.Description("Whether the user is pregnant")),
			mcp.WithNumber("top_per_problem", mcp.Description("Recommendations per problem (default from config)")),
		),
		mcpRecommend(deps),
	)

	s.AddTool(
		mcp.NewTool("symptom_problems",
			mcp.WithDescription("Map symptoms to the skin problems they indicate."),
			mcp.WithArray("symptoms", mcp.Description("Observed symptoms"), mcp.Required(), mcp.WithStringItems()),
		),
		mcpSymptomProblems(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"catalog://methods",
			"Treatment Methods",
			mcp.WithResourceDescription("Treatment methods with complexity, allowed types and catalog counts"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceMethods(deps),
	)

	return s
}

func mcpRecommend(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		skinType, err := req.RequireString("skin_type")
		if err != nil {
			return mcpError("skin_type is required"), nil
		}
		ageRange, err := req.RequireString("age_range")
		if err != nil {
			return mcpError("age_range is required"), nil
		}

		rr := RecommendRequest{
			SessionID:         uuid.NewString(),
			Problems:          req.GetStringSlice("problems", nil),
			SkinType:          skinType,
			AgeRange:          ageRange,
			Symptoms:          req.GetStringSlice("symptoms", nil),
			Allergies:         req.GetStringSlice("allergies", nil),
			Contraindications: req.GetStringSlice("contraindications", nil),
			IsPregnant:        req.GetBool("is_pregnant", false),
			TopPerProblem:     req.GetInt("top_per_problem", 0),
		}
		results, err := Recommend(ctx, deps.Engine, deps.Symptoms, rr)
		if err != nil {
			return mcpError(fmt.Sprintf("recommendation failed: %v", err)), nil
		}
		if len(results) == 0 {
			return mcpError("no problems given and none could be derived from the symptoms"), nil
		}
		if _, err := saveSnapshot(ctx, deps, rr, results); err != nil {
			deps.logger().Error("saving snapshot", "session_id", rr.SessionID, "error", err)
		}

		b, err := json.Marshal(results)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpSymptomProblems(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symptoms := req.GetStringSlice("symptoms", nil)
		if len(symptoms) == 0 {
			return mcpError("symptoms is required"), nil
		}

		type problemSymptoms struct {
			Problem  string   `json:"problem"`
			Symptoms []string `json:"symptoms"`
		}
		problems := deps.Symptoms.Problems(symptoms)
		out := make([]problemSymptoms, len(problems))
		for i, p := range problems {
			out[i] = problemSymptoms{Problem: p, Symptoms: deps.Symptoms.SymptomsFor(p, symptoms)}
		}

		b, err := json.Marshal(out)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal problems: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceMethods(deps Deps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		type methodInfo struct {
			Method     string   `json:"method"`
			Label      string   `json:"label"`
			Complexity int      `json:"complexity"`
			Types      []string `json:"types"`
			Templates  int      `json:"templates"`
		}

		stats := deps.Engine.Catalog().Stats()
		methods := skin.Methods()
		out := make([]methodInfo, len(methods))
		for i, m := range methods {
			out[i] = methodInfo{
				Method:     m.String(),
				Label:      m.Label(),
				Complexity: m.Complexity(),
				Types:      m.Types(),
				Templates:  stats.Methods[m.String()],
			}
		}

		b, err := json.Marshal(out)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal methods: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
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
