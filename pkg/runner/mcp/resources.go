package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerDaysResource(srv, svc)
	registerDayTemplate(srv, svc)
	registerReservationTemplate(srv, svc)
}

func registerDaysResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"agenda://days",
		"Loaded days",
		mcp.WithResourceDescription("Every loaded day with its reservations."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		days, err := svc.ListDays(ctx)
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"days":  days,
			"count": len(days),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerDayTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"agenda://days/{day}",
		"Day reservations",
		mcp.WithTemplateDescription("Reservations on one day, as 2006-01-02."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		raw := argument(request, "day")
		if raw == "" {
			return nil, fmt.Errorf("day is required")
		}
		d, err := svc.ParseDay(raw)
		if err != nil {
			return nil, err
		}

		dto, err := svc.ListDay(ctx, d)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, dto)
	})
}

func registerReservationTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"agenda://reservations/{id}",
		"Reservation details",
		mcp.WithTemplateDescription("Detailed information about a single reservation."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := argument(request, "id")
		if id == "" {
			return nil, fmt.Errorf("reservation id is required")
		}

		dto, err := svc.ReservationByID(ctx, id)
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"reservation": dto,
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

// argument reads a template variable. Depending on the client it arrives as
// a string or a one-element list.
func argument(request mcp.ReadResourceRequest, name string) string {
	switch v := request.Params.Arguments[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
