package mcpserver

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"

	apppublic "bingo-hall/internal/app/public"
	"bingo-hall/internal/config"
	"bingo-hall/internal/hall"
)

func newTestServer(t *testing.T) (*httptest.Server, *hall.Hall) {
	t.Helper()
	cfg := config.DefaultEngine()
	cfg.RNGSeed = 7
	h := hall.New(cfg, hall.NewManualClock(time.Date(2026, 3, 1, 12, 0, 30, 0, time.UTC)))
	if _, err := h.ScheduleWave(hall.RoomFree); err != nil {
		t.Fatalf("schedule wave: %v", err)
	}
	srv := New(apppublic.NewService(h))
	httpSrv := httptest.NewServer(srv.Handler())
	t.Cleanup(httpSrv.Close)
	return httpSrv, h
}

func TestMCPServerToolsAndFlows(t *testing.T) {
	httpSrv, h := newTestServer(t)
	mcpClient, closeClient := newMCPClient(t, httpSrv.URL+"/mcp")
	defer closeClient()

	tools := mustListTools(t, mcpClient)
	assertToolNames(t, tools,
		"list_rooms",
		"list_games",
		"get_game",
		"list_patterns",
		"get_live_state",
		"join_game",
		"get_player_cards",
		"toggle_mark",
	)

	rooms := mapFromStructured(t, mustCallTool(t, mcpClient, "list_rooms", nil))
	if items, _ := rooms["items"].([]any); len(items) != 2 {
		t.Fatalf("expected 2 rooms, got %v", rooms)
	}

	gamesRes := mustCallTool(t, mcpClient, "list_games", map[string]any{"room_id": "free"})
	if gamesRes.IsError {
		t.Fatalf("list_games error: %v", gamesRes.StructuredContent)
	}
	games, _ := mapFromStructured(t, gamesRes)["items"].([]any)
	if len(games) == 0 {
		t.Fatalf("expected scheduled games")
	}
	first, _ := games[0].(map[string]any)
	gameID := asString(first["id"])
	if gameID == "" || asString(first["status"]) != "waiting" {
		t.Fatalf("unexpected first game: %v", first)
	}

	joinRes := mustCallTool(t, mcpClient, "join_game", map[string]any{
		"game_id":   gameID,
		"player_id": "p-1",
	})
	if joinRes.IsError {
		t.Fatalf("join_game error: %v", joinRes.StructuredContent)
	}
	card, _ := mapFromStructured(t, joinRes)["card"].(map[string]any)
	cardID := asString(card["id"])
	if cardID == "" || asString(card["player_name"]) != "p-1" {
		t.Fatalf("unexpected card: %v", card)
	}

	assertToolErrorCode(t, mustCallTool(t, mcpClient, "join_game", map[string]any{
		"game_id":   gameID,
		"player_id": "p-1",
	}), "duplicate_card")

	cardsRes := mustCallTool(t, mcpClient, "get_player_cards", map[string]any{"game_id": gameID, "player_id": "p-1"})
	if items, _ := mapFromStructured(t, cardsRes)["items"].([]any); len(items) != 1 {
		t.Fatalf("expected one card, got %v", cardsRes.StructuredContent)
	}

	assertToolErrorCode(t, mustCallTool(t, mcpClient, "toggle_mark", map[string]any{"card_id": cardID, "row": 0, "col": 0}), "game_not_started")
	if _, err := h.ForceStart(gameID); err != nil {
		t.Fatalf("force start: %v", err)
	}

	markRes := mustCallTool(t, mcpClient, "toggle_mark", map[string]any{"card_id": cardID, "row": 0, "col": 0})
	if markRes.IsError {
		t.Fatalf("toggle_mark error: %v", markRes.StructuredContent)
	}
	marked, _ := mapFromStructured(t, markRes)["card"].(map[string]any)
	marks, _ := marked["marks"].([]any)
	row0, _ := marks[0].([]any)
	if v, _ := row0[0].(bool); !v {
		t.Fatalf("expected (0,0) marked, got %v", marks)
	}

	live := mapFromStructured(t, mustCallTool(t, mcpClient, "get_live_state", map[string]any{"game_id": gameID}))
	if asString(live["status"]) != "in_progress" || asFloat64(live["called_count"]) != 0 {
		t.Fatalf("unexpected live state: %v", live)
	}

	detail := mapFromStructured(t, mustCallTool(t, mcpClient, "get_game", map[string]any{"game_id": gameID}))
	g, _ := detail["game"].(map[string]any)
	if asFloat64(g["player_count"]) != 1 {
		t.Fatalf("expected player_count 1, got %v", g)
	}

	patterns := mapFromStructured(t, mustCallTool(t, mcpClient, "list_patterns", nil))
	if items, _ := patterns["items"].([]any); len(items) == 0 {
		t.Fatalf("expected patterns, got %v", patterns)
	}
}

func TestMCPServerToolErrors(t *testing.T) {
	httpSrv, _ := newTestServer(t)
	mcpClient, closeClient := newMCPClient(t, httpSrv.URL+"/mcp")
	defer closeClient()

	assertToolErrorCode(t, mustCallTool(t, mcpClient, "list_games", map[string]any{"room_id": "vip"}), "room_not_found")
	assertToolErrorCode(t, mustCallTool(t, mcpClient, "get_game", map[string]any{"game_id": "missing"}), "game_not_found")
	assertToolErrorCode(t, mustCallTool(t, mcpClient, "get_game", map[string]any{}), "invalid_request")
	assertToolErrorCode(t, mustCallTool(t, mcpClient, "toggle_mark", map[string]any{"card_id": "missing", "row": 0, "col": 0}), "card_not_found")
	assertToolErrorCode(t, mustCallTool(t, mcpClient, "toggle_mark", map[string]any{"card_id": "missing", "row": 0}), "invalid_cell")
}

func TestLiveStateResource(t *testing.T) {
	httpSrv, h := newTestServer(t)
	mcpClient, closeClient := newMCPClient(t, httpSrv.URL+"/mcp")
	defer closeClient()

	games, err := h.ListGames(hall.RoomFree)
	if err != nil || len(games) == 0 {
		t.Fatalf("list games: %v", err)
	}
	uri := "game://" + games[0].ID + "/live"
	res, err := mcpClient.ReadResource(context.Background(), mcp.ReadResourceRequest{Params: mcp.ReadResourceParams{URI: uri}})
	if err != nil {
		t.Fatalf("read resource: %v", err)
	}
	if len(res.Contents) != 1 {
		t.Fatalf("expected one content block, got %d", len(res.Contents))
	}
	text, ok := res.Contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("unexpected content type %T", res.Contents[0])
	}
	var live map[string]any
	if err := json.Unmarshal([]byte(text.Text), &live); err != nil {
		t.Fatalf("decode live state: %v", err)
	}
	if asString(live["game_id"]) != games[0].ID {
		t.Fatalf("unexpected live state: %v", live)
	}
}

func newMCPClient(t *testing.T, endpoint string) (*client.Client, func()) {
	t.Helper()
	ctx := context.Background()
	trans, err := transport.NewStreamableHTTP(endpoint)
	if err != nil {
		t.Fatalf("new transport: %v", err)
	}
	if err := trans.Start(ctx); err != nil {
		t.Fatalf("transport start: %v", err)
	}
	c := client.NewClient(trans)
	_, err = c.Initialize(ctx, mcp.InitializeRequest{Params: mcp.InitializeParams{ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION}})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return c, func() { _ = trans.Close() }
}

func mustListTools(t *testing.T, c *client.Client) []mcp.Tool {
	t.Helper()
	res, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	return res.Tools
}

func assertToolNames(t *testing.T, tools []mcp.Tool, expected ...string) {
	t.Helper()
	got := make([]string, 0, len(tools))
	for _, tool := range tools {
		got = append(got, tool.Name)
	}
	sort.Strings(got)
	sort.Strings(expected)
	if len(got) != len(expected) {
		t.Fatalf("tool count mismatch got=%v expected=%v", got, expected)
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Fatalf("tool list mismatch got=%v expected=%v", got, expected)
		}
	}
}

func mustCallTool(t *testing.T, c *client.Client, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := c.CallTool(context.Background(), mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}})
	if err != nil {
		t.Fatalf("call tool %s: %v", name, err)
	}
	return res
}

func assertToolErrorCode(t *testing.T, res *mcp.CallToolResult, want string) {
	t.Helper()
	if !res.IsError {
		t.Fatalf("expected tool error %q, got success: %v", want, res.StructuredContent)
	}
	errObj, ok := mapFromStructured(t, res)["error"].(map[string]any)
	if !ok {
		t.Fatalf("error payload missing 'error': %v", res.StructuredContent)
	}
	if got := asString(errObj["code"]); got != want {
		t.Fatalf("error code=%q want=%q", got, want)
	}
}

func mapFromStructured(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	b, err := json.Marshal(res.StructuredContent)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal structured content: %v", err)
	}
	return out
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat64(v any) float64 {
	f, _ := v.(float64)
	return f
}
