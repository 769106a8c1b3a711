package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	apppublic "bingo-hall/internal/app/public"
)

type Server struct {
	publicSvc *apppublic.Service

	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
}

func New(svc *apppublic.Service) *Server {
	mcpSrv := server.NewMCPServer(
		"bingo-hall",
		"0.1.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
		server.WithResourceRecovery(),
	)
	s := &Server{
		publicSvc:  svc,
		mcpServer:  mcpSrv,
		httpServer: server.NewStreamableHTTPServer(mcpSrv, server.WithStateLess(true), server.WithDisableStreaming(true)),
	}
	s.registerPublicTools()
	s.registerGameplayTools()
	s.registerResources()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.httpServer
}

func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"game://{game_id}/live",
			"game_live_state",
			mcp.WithTemplateDescription("Recent calls, status, time remaining and winners for a game"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			raw := request.Params.URI
			if !strings.HasPrefix(raw, "game://") || !strings.HasSuffix(raw, "/live") {
				return nil, nil
			}
			gameID := strings.TrimSuffix(strings.TrimPrefix(raw, "game://"), "/live")
			if gameID == "" {
				return nil, nil
			}
			live, err := s.publicSvc.Live(ctx, gameID)
			if err != nil {
				return nil, err
			}
			payload, err := json.Marshal(live)
			if err != nil {
				return nil, err
			}
			return []mcp.ResourceContents{
				mcp.TextResourceContents{
					URI:      raw,
					MIMEType: "application/json",
					Text:     string(payload),
				},
			}, nil
		},
	)
}
