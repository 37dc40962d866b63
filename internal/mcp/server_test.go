package mcp

import (
	"context"
	"encoding/json"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func TestNewServer(t *testing.T) {
	srv := NewServer(ServerConfig{Version: "test"})
	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
}

// callTool is a helper that invokes an MCP tool through a JSON-RPC tools/call message.
func callTool(t *testing.T, srv *server.MCPServer, name string, args map[string]interface{}) *mcplib.CallToolResult {
	t.Helper()

	result := srv.HandleMessage(context.Background(), mustMarshal(t, map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params": map[string]interface{}{
			"name":      name,
			"arguments": args,
		},
	}))

	respBytes, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}

	var resp struct {
		Result struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
			IsError bool `json:"isError"`
		} `json:"result"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		t.Fatalf("unmarshal response: %v\nraw: %s", err, string(respBytes))
	}

	if resp.Error != nil {
		t.Fatalf("JSON-RPC error: %d %s", resp.Error.Code, resp.Error.Message)
	}

	callResult := &mcplib.CallToolResult{
		IsError: resp.Result.IsError,
	}
	for _, c := range resp.Result.Content {
		if c.Type == "text" {
			callResult.Content = append(callResult.Content, mcplib.NewTextContent(c.Text))
		}
	}

	return callResult
}

func mustMarshal(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func getTextContent(t *testing.T, result *mcplib.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcplib.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("no text content found")
	return ""
}

func decodeWords(t *testing.T, result *mcplib.CallToolResult) wordsResult {
	t.Helper()
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", getTextContent(t, result))
	}
	var out wordsResult
	if err := json.Unmarshal([]byte(getTextContent(t, result)), &out); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return out
}

func contains(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}

var scenarioFacts = map[string]interface{}{
	"pet":  []interface{}{"Fluffy"},
	"year": []interface{}{"1999"},
}

func TestBaseWordsTool(t *testing.T) {
	srv := NewServer(ServerConfig{})
	out := decodeWords(t, callTool(t, srv, "meowpass_base_words", map[string]interface{}{
		"facts": scenarioFacts,
	}))

	want := []string{"1999", "1999fluffy", "fluffy", "fluffy1999"}
	if out.Count != len(want) {
		t.Fatalf("expected %d base words, got %d: %v", len(want), out.Count, out.Passwords)
	}
	for i, w := range want {
		if out.Passwords[i] != w {
			t.Errorf("passwords[%d] = %q, want %q", i, out.Passwords[i], w)
		}
	}
}

func TestBaseWordsToolFactsAsString(t *testing.T) {
	srv := NewServer(ServerConfig{})
	out := decodeWords(t, callTool(t, srv, "meowpass_base_words", map[string]interface{}{
		"facts": `{"name": ["Alice"]}`,
	}))
	if out.Count != 1 || out.Passwords[0] != "alice" {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestBaseWordsToolMalformedFacts(t *testing.T) {
	srv := NewServer(ServerConfig{})
	result := callTool(t, srv, "meowpass_base_words", map[string]interface{}{
		"facts": map[string]interface{}{"pet": "Fluffy"},
	})
	if !result.IsError {
		t.Fatal("expected tool error for non-list category")
	}

	result = callTool(t, srv, "meowpass_base_words", map[string]interface{}{})
	if !result.IsError {
		t.Fatal("expected tool error for missing facts")
	}
}

func TestMangleTool(t *testing.T) {
	srv := NewServer(ServerConfig{})
	out := decodeWords(t, callTool(t, srv, "meowpass_mangle", map[string]interface{}{
		"words": []interface{}{"cool"},
		"seed":  7,
		"limit": 10000,
	}))

	for _, w := range []string{"cool", "Cool1999", "COOL!", "#c001", "cool999"} {
		if !contains(out.Passwords, w) {
			t.Errorf("expected %q in mangled output", w)
		}
	}
	if out.Count != len(out.Passwords) {
		t.Errorf("count %d does not match %d passwords", out.Count, len(out.Passwords))
	}
}

func TestMangleToolLimit(t *testing.T) {
	srv := NewServer(ServerConfig{})
	out := decodeWords(t, callTool(t, srv, "meowpass_mangle", map[string]interface{}{
		"words": []interface{}{"cool"},
		"limit": 5,
	}))
	if len(out.Passwords) != 5 {
		t.Fatalf("expected 5 passwords, got %d", len(out.Passwords))
	}
	if out.Count <= 5 {
		t.Fatalf("count should report the full set size, got %d", out.Count)
	}
}

func TestMangleToolBadWords(t *testing.T) {
	srv := NewServer(ServerConfig{})
	result := callTool(t, srv, "meowpass_mangle", map[string]interface{}{
		"words": []interface{}{"ok", 3},
	})
	if !result.IsError {
		t.Fatal("expected tool error for non-string word")
	}
}

func TestGenerateToolSeeded(t *testing.T) {
	srv := NewServer(ServerConfig{})
	args := map[string]interface{}{
		"facts": map[string]interface{}{"pet": []interface{}{"Fluffy"}},
		"seed":  42,
		"limit": 10000,
	}
	a := decodeWords(t, callTool(t, srv, "meowpass_generate", args))
	b := decodeWords(t, callTool(t, srv, "meowpass_generate", args))

	if a.Count != b.Count || a.Count != len(a.Passwords) {
		t.Fatalf("seeded runs differ or were truncated: %d vs %d (%d returned)", a.Count, b.Count, len(a.Passwords))
	}
	for _, w := range []string{"fluffy", "fluffy1999", "Fluffy2024", "f1uffy!", "FLUFFY0"} {
		if !contains(a.Passwords, w) {
			t.Errorf("expected %q in generated output", w)
		}
	}
}

func TestRulesResource(t *testing.T) {
	srv := NewServer(ServerConfig{})
	result := srv.HandleMessage(context.Background(), mustMarshal(t, map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      2,
		"method":  "resources/read",
		"params":  map[string]interface{}{"uri": "meowpass://rules"},
	}))

	raw, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	var resp struct {
		Result struct {
			Contents []struct {
				Text string `json:"text"`
			} `json:"contents"`
		} `json:"result"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Result.Contents) != 1 {
		t.Fatalf("expected one resource content, got %s", raw)
	}

	var view rulesView
	if err := json.Unmarshal([]byte(resp.Result.Contents[0].Text), &view); err != nil {
		t.Fatalf("decode rules: %v", err)
	}
	if view.Leet["a"] != "@" || view.SuffixMax != 1000 || len(view.Years) != 9 {
		t.Errorf("unexpected rules view: %+v", view)
	}
}
