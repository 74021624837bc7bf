package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/agenda/pkg/agenda"
)

const dayArgHelp = "Day as 2006-01-02, a relative value such as today, tomorrow or +3, or \"Jan 2\". Defaults to today."

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListDayTool(srv, svc)
	registerListWindowTool(srv, svc)
	registerAddReservationTool(srv, svc)
	registerMarkDayLoadedTool(srv, svc)
	registerDeleteReservationTool(srv, svc)
	registerGetReservationTool(srv, svc)
}

func registerListDayTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_day",
		mcp.WithDescription("List the reservations of one day and whether the day is loaded."),
		mcp.WithString("day", mcp.Description(dayArgHelp)),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		d, err := svc.ParseDay(request.GetString("day", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.ListDay(ctx, d)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerListWindowTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_window",
		mcp.WithDescription("List the agenda window around a day: the loaded days of its month up to the day, then the following loaded days."),
		mcp.WithString("day", mcp.Description(dayArgHelp)),
		mcp.WithNumber("forward_days",
			mcp.Description(fmt.Sprintf("Calendar days filled forward from the start of the window (default %d).", agenda.DefaultForwardDays)),
			mcp.Min(1),
			mcp.Max(366),
		),
		mcp.WithBoolean("only_selected",
			mcp.Description("Only return the selected day."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		d, err := svc.ParseDay(request.GetString("day", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.ListWindow(ctx, d, agenda.BuildOptions{
			ForwardDays:  request.GetInt("forward_days", agenda.DefaultForwardDays),
			OnlySelected: request.GetBool("only_selected", false),
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerAddReservationTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"add_reservation",
		mcp.WithDescription("Create a reservation on a day. The day becomes loaded."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("What the reservation is for."),
		),
		mcp.WithString("day", mcp.Description(dayArgHelp)),
		mcp.WithString("note",
			mcp.Description("Optional free text shown under the title."),
		),
		mcp.WithString("start",
			mcp.Description("Optional start time as HH:MM."),
		),
		mcp.WithString("end",
			mcp.Description("Optional end time as HH:MM."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Day   string `json:"day"`
			Title string `json:"title"`
			Note  string `json:"note"`
			Start string `json:"start"`
			End   string `json:"end"`
		}

		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		d, err := svc.ParseDay(args.Day)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.AddReservation(ctx, AddReservationOptions{
			Day:   d,
			Title: args.Title,
			Note:  args.Note,
			Start: args.Start,
			End:   args.End,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return toJSONResult(dto)
	})
}

func registerMarkDayLoadedTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"mark_day_loaded",
		mcp.WithDescription("Mark a day as loaded so it shows as a day without reservations instead of a loading placeholder."),
		mcp.WithString("day",
			mcp.Required(),
			mcp.Description(dayArgHelp),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := request.RequireString("day")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		d, err := svc.ParseDay(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.MarkDayLoaded(ctx, d)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerDeleteReservationTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_reservation",
		mcp.WithDescription("Delete a reservation. Its day stays loaded."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Reservation identifier to delete."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.DeleteReservation(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerGetReservationTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_reservation",
		mcp.WithDescription("Fetch a single reservation by identifier."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Reservation identifier to fetch."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.ReservationByID(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
