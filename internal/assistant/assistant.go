// Package assistant exposes the location catalog as MCP tools so that a chat
// assistant can answer "where is ..." questions during a festival.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/daedongje/service-wayfinding/internal/application"
	"github.com/daedongje/service-wayfinding/internal/domain/catalog"
	"github.com/daedongje/service-wayfinding/internal/domain/geomap"
)

// Tool names.
const (
	ToolFindLocation    = "find_location"
	ToolNearestLocation = "nearest_location"
	ToolStraightRoute   = "straight_route"
)

const (
	serverName    = "Festival Wayfinding"
	serverVersion = "1.0.0"
)

// Server wraps an MCP server with the wayfinding tools registered.
type Server struct {
	mcpServer *server.MCPServer
	catalog   *application.CatalogService
	logger    *zap.Logger
}

// NewServer creates an MCP server backed by catalog.
func NewServer(catalog *application.CatalogService, logger *zap.Logger) (*Server, error) {
	s := &Server{
		mcpServer: server.NewMCPServer(
			serverName,
			serverVersion,
			server.WithLogging(),
			server.WithToolCapabilities(false),
		),
		catalog: catalog,
		logger:  logger,
	}

	tools := Tools()
	handlers := s.handlers()
	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		handler, ok := handlers[name]
		if !ok {
			return nil, fmt.Errorf("no handler found for tool: %s", name)
		}
		s.mcpServer.AddTool(tools[name], handler)
	}
	logger.Info("assistant tools registered", zap.Strings("tools", names))
	return s, nil
}

// ServeStdio serves MCP over stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// HTTPHandler serves MCP over streamable HTTP at path.
func (s *Server) HTTPHandler(path string) http.Handler {
	return server.NewStreamableHTTPServer(s.mcpServer, server.WithEndpointPath(path))
}

// Tools returns the tool definitions keyed by name.
func Tools() map[string]mcp.Tool {
	return map[string]mcp.Tool{
		ToolFindLocation: mcp.NewTool(
			ToolFindLocation,
			mcp.WithDescription("Find a festival location (restroom, smoking area, booth, stage, ...) by keyword. Korean and English keywords are both understood. Returns the location name, category and coordinates."),
			mcp.WithString("keyword",
				mcp.Required(),
				mcp.Description("What the user is looking for, e.g. '화장실' or 'toilet'"),
			),
			mcp.WithString("eventId",
				mcp.Description("Event to search in. Defaults to "+catalog.DefaultEventID),
			),
		),
		ToolNearestLocation: mcp.NewTool(
			ToolNearestLocation,
			mcp.WithDescription("Find the festival location closest to the user's position, optionally matching a keyword. Returns the location, the straight-line distance and a map link that starts at the user's position."),
			mcp.WithNumber("lat", mcp.Required(), mcp.Description("User latitude")),
			mcp.WithNumber("lng", mcp.Required(), mcp.Description("User longitude")),
			mcp.WithString("keyword", mcp.Description("Optional keyword to narrow the search")),
			mcp.WithString("eventId", mcp.Description("Event to search in. Defaults to "+catalog.DefaultEventID)),
		),
		ToolStraightRoute: mcp.NewTool(
			ToolStraightRoute,
			mcp.WithDescription("Estimate the straight-line distance between two coordinates. Use this when road directions are not needed."),
			mcp.WithNumber("fromLat", mcp.Required(), mcp.Description("Start latitude")),
			mcp.WithNumber("fromLng", mcp.Required(), mcp.Description("Start longitude")),
			mcp.WithNumber("toLat", mcp.Required(), mcp.Description("Destination latitude")),
			mcp.WithNumber("toLng", mcp.Required(), mcp.Description("Destination longitude")),
			mcp.WithString("toName", mcp.Description("Destination name shown on the map link")),
		),
	}
}

func (s *Server) handlers() map[string]server.ToolHandlerFunc {
	return map[string]server.ToolHandlerFunc{
		ToolFindLocation:    s.handleFindLocation,
		ToolNearestLocation: s.handleNearestLocation,
		ToolStraightRoute:   s.handleStraightRoute,
	}
}

func (s *Server) handleFindLocation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keyword, err := request.RequireString("keyword")
	if err != nil || keyword == "" {
		return mcp.NewToolResultError("Error: keyword is required"), nil
	}
	eventID := request.GetString("eventId", "")

	loc, err := s.catalog.SearchLocation(ctx, eventID, keyword)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %s", err.Error())), nil
	}
	return jsonResult(loc)
}

func (s *Server) handleNearestLocation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lat, errLat := request.RequireFloat("lat")
	lng, errLng := request.RequireFloat("lng")
	if errLat != nil || errLng != nil {
		return mcp.NewToolResultError("Error: lat and lng are required"), nil
	}

	nearest, err := s.catalog.NearestLocation(ctx,
		request.GetString("eventId", ""),
		geomap.LatLng{Lat: lat, Lng: lng},
		request.GetString("keyword", ""),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %s", err.Error())), nil
	}
	return jsonResult(nearest)
}

// StraightRouteResult is the straight_route tool output.
type StraightRouteResult struct {
	Meters   int    `json:"meters"`
	Distance string `json:"distance"`
	Duration string `json:"duration"`
	MapURL   string `json:"map_url"`
}

func (s *Server) handleStraightRoute(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var coords [4]float64
	for i, key := range []string{"fromLat", "fromLng", "toLat", "toLng"} {
		v, err := request.RequireFloat(key)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error: %s is required", key)), nil
		}
		coords[i] = v
	}
	from := geomap.LatLng{Lat: coords[0], Lng: coords[1]}
	to := geomap.LatLng{Lat: coords[2], Lng: coords[3]}
	if !from.Valid() || !to.Valid() {
		return mcp.NewToolResultError("Error: coordinates out of range"), nil
	}

	route := geomap.StraightRoute(from, to)
	return jsonResult(StraightRouteResult{
		Meters:   route.Meters,
		Distance: route.Distance,
		Duration: route.Duration,
		MapURL:   catalog.NaverMapURL(to, request.GetString("toName", ""), &from),
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(raw)), nil
}
