package mcp

import (
	"context"
	"encoding/json"

	mcplib "github.com/felixgeelhaar/mcp-go"
)

// SchemaVersion is the current MCP tool schema version (semver).
const SchemaVersion = "1.0.0"

const schemaURI = "timeboard://schema"

// toolNames lists the tools this server version offers.
var toolNames = []string{
	"timeboard_list_tasks",
	"timeboard_list_projects",
	"timeboard_filter_options",
	"timeboard_export_csv",
	"timeboard_diagnostics",
	"timeboard_reload",
}

type schemaResponse struct {
	SchemaVersion string   `json:"schema_version"`
	ServerVersion string   `json:"server_version"`
	Tools         []string `json:"tools"`
}

func (s *Server) registerSchemaResource() {
	s.mcpServer.Resource(schemaURI).
		Name(schemaURI).
		Description("MCP tool schema version and tool list").
		MimeType("application/json").
		Handler(func(_ context.Context, _ string, _ map[string]string) (*mcplib.ResourceContent, error) {
			return schemaContent()
		})
}

func schemaContent() (*mcplib.ResourceContent, error) {
	data, err := json.Marshal(schemaResponse{
		SchemaVersion: SchemaVersion,
		ServerVersion: Version,
		Tools:         toolNames,
	})
	if err != nil {
		return nil, err
	}
	return &mcplib.ResourceContent{
		URI:      schemaURI,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
