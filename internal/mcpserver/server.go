// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the newsletter archive assistant via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/girogi/internal/api"
	"github.com/starford/girogi/internal/chat"
	"github.com/starford/girogi/internal/metadata"
	"github.com/starford/girogi/internal/models"
)

// Server wraps the MCP server with Girogi tools.
type Server struct {
	mcp     *server.MCPServer
	engine  api.Answerer
	catalog *metadata.Catalog
}

// New creates a new MCP server with all Girogi tools registered.
func New(engine api.Answerer, catalog *metadata.Catalog) *Server {
	s := &Server{engine: engine, catalog: catalog}

	s.mcp = server.NewMCPServer(
		"Girogi",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("ask_newsletter",
		mcp.WithDescription("Ask a question about the Records & Society newsletter archive. "+
			"Answers are grounded in the archived articles and come with source citations."),
		mcp.WithString("question", mcp.Required(), mcp.Description("The question to answer")),
	), s.askNewsletter)

	s.mcp.AddTool(mcp.NewTool("list_articles",
		mcp.WithDescription("List every article in the archive with its title, URL, and author."),
	), s.listArticles)

	s.mcp.AddTool(mcp.NewTool("get_article",
		mcp.WithDescription("Look up one article's metadata by its key (filename without extension)."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Article key, e.g. article-42")),
	), s.getArticle)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) askNewsletter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := req.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Each tool call is a standalone exchange: no transcript carries over.
	answer, citations := s.engine.Ask(ctx, question, nil)

	var b strings.Builder
	b.WriteString(answer)
	if len(citations) > 0 {
		b.WriteString("\n\nSources:\n")
		for _, c := range chat.ResolveAll(citations, s.catalog) {
			if c.URL != nil {
				fmt.Fprintf(&b, "- %s (%s)\n", c.Title, *c.URL)
			} else {
				fmt.Fprintf(&b, "- %s\n", c.Title)
			}
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) listArticles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	set := s.catalog.All()
	out, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getArticle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	article, ok := s.catalog.Get(key)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("article not found: %s", key)), nil
	}
	out, _ := json.MarshalIndent(struct {
		Key string `json:"key"`
		models.Article
	}{Key: key, Article: article}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
