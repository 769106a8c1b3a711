package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	apppublic "bingo-hall/internal/app/public"
)

func (s *Server) registerGameplayTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"join_game",
			mcp.WithDescription("Buy a card for a waiting game"),
			mcp.WithString("game_id", mcp.Required(), mcp.Description("Game id")),
			mcp.WithString("player_id", mcp.Required(), mcp.Description("Player id from the identity provider")),
			mcp.WithString("player_name", mcp.Description("Display name, defaults to player_id")),
		),
		s.handleJoinGame,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_player_cards",
			mcp.WithDescription("Get a player's cards for a game"),
			mcp.WithString("game_id", mcp.Required(), mcp.Description("Game id")),
			mcp.WithString("player_id", mcp.Required(), mcp.Description("Player id")),
		),
		s.handleGetPlayerCards,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"toggle_mark",
			mcp.WithDescription("Toggle a mark on a card cell and re-check the game's pattern"),
			mcp.WithString("card_id", mcp.Required(), mcp.Description("Card id")),
			mcp.WithNumber("row", mcp.Required(), mcp.Description("Row 0-4")),
			mcp.WithNumber("col", mcp.Required(), mcp.Description("Column 0-4 (B I N G O)")),
		),
		s.handleToggleMark,
	)
}

func (s *Server) handleJoinGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, err := request.RequireString("game_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	playerID, err := request.RequireString("player_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	resp, svcErr := s.publicSvc.Join(ctx, gameID, apppublic.JoinRequest{
		PlayerID:   playerID,
		PlayerName: request.GetString("player_name", ""),
	})
	if svcErr != nil {
		return mapDomainError(svcErr), nil
	}
	return toolResult(resp), nil
}

func (s *Server) handleGetPlayerCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, err := request.RequireString("game_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	playerID, err := request.RequireString("player_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	resp, svcErr := s.publicSvc.PlayerCards(ctx, gameID, playerID)
	if svcErr != nil {
		return mapDomainError(svcErr), nil
	}
	return toolResult(resp), nil
}

func (s *Server) handleToggleMark(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, err := request.RequireString("card_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	row, err := request.RequireInt("row")
	if err != nil {
		return toolError("invalid_cell", err.Error()), nil
	}
	col, err := request.RequireInt("col")
	if err != nil {
		return toolError("invalid_cell", err.Error()), nil
	}
	resp, svcErr := s.publicSvc.ToggleMark(ctx, cardID, apppublic.MarkRequest{Row: &row, Col: &col})
	if svcErr != nil {
		return mapDomainError(svcErr), nil
	}
	return toolResult(resp), nil
}
