package api

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kalambet/skinrec/internal/recommend"
)

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func makeCallToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestMCPTool_Recommend(t *testing.T) {
	deps := newTestDeps(t, true)
	handler := mcpRecommend(deps)

	result, err := handler(context.Background(), makeCallToolRequest("recommend_treatments", map[string]any{
		"skin_type":       "Dry",
		"age_range":       "25-35",
		"problems":        []any{dehydration},
		"allergies":       []any{"Allergy to hyaluronic acid"},
		"top_per_problem": 1,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}

	var results []recommend.ProblemResult
	if err := json.Unmarshal([]byte(toolText(t, result)), &results); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(results) != 1 || len(results[0].Recommendations) != 1 {
		t.Fatalf("unexpected results: %+v", results)
	}
	// The serum's allergen drops it from 50 to 30, below the peel's 40.
	if got := results[0].Recommendations[0]; got.Method != "Peels" || got.SuccessProb != 40 {
		t.Errorf("top = %s/%d, want Peels/40", got.Method, got.SuccessProb)
	}
}

func TestMCPTool_Recommend_FromSymptoms(t *testing.T) {
	handler := mcpRecommend(newTestDeps(t, false))

	result, err := handler(context.Background(), makeCallToolRequest("recommend_treatments", map[string]any{
		"skin_type": "Сухая",
		"age_range": "25-35",
		"symptoms":  []string{"Шелушение"},
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}
	if !strings.Contains(toolText(t, result), dehydration) {
		t.Errorf("response does not mention %s: %s", dehydration, toolText(t, result))
	}
}

func TestMCPTool_Recommend_Errors(t *testing.T) {
	handler := mcpRecommend(newTestDeps(t, false))

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing skin type", map[string]any{"age_range": "25-35"}, "skin_type is required"},
		{"bad age range", map[string]any{"skin_type": "Dry", "age_range": "60+"}, "age_range must be one of"},
		{"nothing to solve", map[string]any{"skin_type": "Dry", "age_range": "25-35", "symptoms": []string{"unknown"}}, "no problems given"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handler(context.Background(), makeCallToolRequest("recommend_treatments", tt.args))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.IsError {
				t.Fatal("expected tool error")
			}
			if text := toolText(t, result); !strings.Contains(text, tt.want) {
				t.Errorf("error %q does not contain %q", text, tt.want)
			}
		})
	}
}

func TestMCPTool_SymptomProblems(t *testing.T) {
	handler := mcpSymptomProblems(newTestDeps(t, false))

	result, err := handler(context.Background(), makeCallToolRequest("symptom_problems", map[string]any{
		"symptoms": []string{"Шелушение", "Чувство стянутости", "unknown"},
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}

	var out []struct {
		Problem  string   `json:"problem"`
		Symptoms []string `json:"symptoms"`
	}
	if err := json.Unmarshal([]byte(toolText(t, result)), &out); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(out) != 1 || out[0].Problem != dehydration || len(out[0].Symptoms) != 2 {
		t.Errorf("unexpected mapping: %+v", out)
	}

	empty, _ := handler(context.Background(), makeCallToolRequest("symptom_problems", map[string]any{}))
	if !empty.IsError {
		t.Error("expected error for missing symptoms")
	}
}

func TestMCPResource_Methods(t *testing.T) {
	handler := mcpResourceMethods(newTestDeps(t, false))

	contents, err := handler(context.Background(), mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: "catalog://methods"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("expected 1 content, got %d", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected TextResourceContents, got %T", contents[0])
	}

	var methods []struct {
		Method     string   `json:"method"`
		Complexity int      `json:"complexity"`
		Types      []string `json:"types"`
		Templates  int      `json:"templates"`
	}
	if err := json.Unmarshal([]byte(tc.Text), &methods); err != nil {
		t.Fatalf("failed to parse resource: %v", err)
	}
	if len(methods) != 6 {
		t.Fatalf("expected 6 methods, got %d", len(methods))
	}
	if methods[0].Method != "Skincare Cosmetics" || methods[0].Complexity != 1 || methods[0].Templates != 1 {
		t.Errorf("unexpected first method: %+v", methods[0])
	}
	if last := methods[5]; last.Method != "Injectable Cosmetology" || last.Complexity != 5 {
		t.Errorf("unexpected last method: %+v", last)
	}
}

func TestMCPServer_ConcurrentCalls(t *testing.T) {
	deps := newTestDeps(t, true)
	handler := mcpRecommend(deps)

	var wg sync.WaitGroup
	errs := make(chan string, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := handler(context.Background(), makeCallToolRequest("recommend_treatments", map[string]any{
				"skin_type": "Dry",
				"age_range": "25-35",
				"problems":  []string{dehydration},
			}))
			if err != nil {
				errs <- err.Error()
				return
			}
			if result.IsError {
				errs <- "tool returned an error"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Errorf("concurrent call failed: %s", e)
	}

	if NewMCPServer(deps) == nil {
		t.Fatal("NewMCPServer returned nil")
	}
}
