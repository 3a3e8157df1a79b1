// Package http exposes the admin desk over a JSON API. Handlers translate
// requests into commands and queries; the desk session does the work.
package http

import (
	"context"
	"net/http"
	"time"

	"orderdesk/internal/core/application/bulk"
	"orderdesk/internal/core/application/realtime"
	"orderdesk/internal/core/application/usecases/commands"
	"orderdesk/internal/core/application/usecases/queries"
	"orderdesk/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AdminHeader names the acting admin; requests without it act as the desk's admin.
const AdminHeader = "X-Admin-ID"

// Desk is the session state the API reports on and the detail views it opens.
type Desk interface {
	AdminID() string
	UndoWindow() time.Duration
	RealtimeState() realtime.State
	Rooms() []string
	Watched() []string
	Watch(ctx context.Context, orderID string) error
	Unwatch(ctx context.Context, orderID string) error
	Ticket(ticketID string) (*bulk.Ticket, error)
	Tickets() []*bulk.Ticket
}

// Handlers groups the use cases the API dispatches to.
type Handlers struct {
	ChangeStatus    commands.ChangeOrdersStatusCommandHandler
	AssignDriver    commands.AssignDriverCommandHandler
	ChangeSubStatus commands.ChangeSubOrderStatusCommandHandler
	Undo            commands.UndoBulkActionCommandHandler
	AddNote         commands.AddNoteCommandHandler

	ListOrders    queries.ListOrdersQueryHandler
	GetOrder      queries.GetOrderQueryHandler
	StatusSummary queries.GetStatusSummaryQueryHandler
}

// Server implements the admin API routes.
type Server struct {
	handlers Handlers
	desk     Desk
	logger   *zap.Logger
}

// NewServer creates a server over the use case handlers and the desk.
func NewServer(handlers Handlers, desk Desk, logger *zap.Logger) *Server {
	return &Server{
		handlers: handlers,
		desk:     desk,
		logger:   logger.With(zap.String("component", "http")),
	}
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	return c.String(http.StatusOK, "Healthy")
}

// ListOrders handles GET /api/v1/orders.
//
//	@Summary List orders
//	@Tags orders
//	@Produce json
//	@Param status query []string false "Statuses to include" collectionFormat(multi)
//	@Param type query string false "Order type"
//	@Param source query string false "Order source"
//	@Param driverId query string false "Assigned driver"
//	@Param limit query int false "Maximum rows"
//	@Success 200 {array} queries.OrderSummary
//	@Failure 400 {object} errorResponse
//	@Router /orders [get]
func (s *Server) ListOrders(c echo.Context) error {
	var (
		statuses                  []string
		orderType, source, driver string
		limit                     int
	)
	params := c.QueryParams()
	for _, p := range []queryParam{
		{"status", &statuses},
		{"type", &orderType},
		{"source", &source},
		{"driverId", &driver},
		{"limit", &limit},
	} {
		if err := bindQuery(params, p); err != nil {
			return s.badRequest(c, err.Error())
		}
	}

	query, err := queries.NewListOrdersQuery(splitCSV(statuses), orderType, source, driver, limit)
	if err != nil {
		return s.fail(c, err)
	}

	rows, err := s.handlers.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GetOrder handles GET /api/v1/orders/:id.
//
//	@Summary Get order details
//	@Tags orders
//	@Produce json
//	@Param id path string true "Order ID"
//	@Param internal query bool false "Include internal notes"
//	@Success 200 {object} queries.OrderDetails
//	@Failure 404 {object} errorResponse
//	@Router /orders/{id} [get]
func (s *Server) GetOrder(c echo.Context) error {
	var internal bool
	if err := bindQuery(c.QueryParams(), queryParam{"internal", &internal}); err != nil {
		return s.badRequest(c, err.Error())
	}

	query, err := queries.NewGetOrderQuery(c.Param("id"), internal)
	if err != nil {
		return s.fail(c, err)
	}

	details, err := s.handlers.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, details)
}

// StatusSummary handles GET /api/v1/orders/summary.
//
//	@Summary Count orders and cash due per status
//	@Tags orders
//	@Produce json
//	@Success 200 {array} queries.StatusSummary
//	@Router /orders/summary [get]
func (s *Server) StatusSummary(c echo.Context) error {
	summary, err := s.handlers.StatusSummary.Handle(c.Request().Context(), queries.NewGetStatusSummaryQuery())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// WatchOrder handles PUT /api/v1/orders/:id/watch.
//
//	@Summary Open a live detail view of an order
//	@Tags realtime
//	@Param id path string true "Order ID"
//	@Success 204
//	@Router /orders/{id}/watch [put]
func (s *Server) WatchOrder(c echo.Context) error {
	if err := s.desk.Watch(c.Request().Context(), c.Param("id")); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UnwatchOrder handles DELETE /api/v1/orders/:id/watch.
//
//	@Summary Close a live detail view of an order
//	@Tags realtime
//	@Param id path string true "Order ID"
//	@Success 204
//	@Failure 404 {object} errorResponse
//	@Router /orders/{id}/watch [delete]
func (s *Server) UnwatchOrder(c echo.Context) error {
	if err := s.desk.Unwatch(c.Request().Context(), c.Param("id")); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ChangeStatus handles POST /api/v1/orders/bulk/status.
//
//	@Summary Change the status of orders
//	@Tags bulk
//	@Accept json
//	@Produce json
//	@Param X-Admin-ID header string false "Acting admin"
//	@Param request body changeStatusRequest true "Orders and target status"
//	@Success 202 {object} ticketResponse
//	@Failure 400 {object} errorResponse
//	@Router /orders/bulk/status [post]
func (s *Server) ChangeStatus(c echo.Context) error {
	var req changeStatusRequest
	if err := s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewChangeOrdersStatusCommand(req.OrderIDs, status, s.metadata(c, req.Reason, req.ExternalOrderNo, req.InvoiceURL))
	if err != nil {
		return s.fail(c, err)
	}

	ticket, err := s.handlers.ChangeStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusAccepted, newTicketResponse(ticket))
}

// AssignDriver handles POST /api/v1/orders/bulk/driver.
//
//	@Summary Assign a driver to orders
//	@Tags bulk
//	@Accept json
//	@Produce json
//	@Param X-Admin-ID header string false "Acting admin"
//	@Param request body assignDriverRequest true "Orders and driver"
//	@Success 202 {object} ticketResponse
//	@Failure 400 {object} errorResponse
//	@Router /orders/bulk/driver [post]
func (s *Server) AssignDriver(c echo.Context) error {
	var req assignDriverRequest
	if err := s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewAssignDriverCommand(req.OrderIDs, req.DriverID)
	if err != nil {
		return s.fail(c, err)
	}

	ticket, err := s.handlers.AssignDriver.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusAccepted, newTicketResponse(ticket))
}

// ChangeSubStatus handles POST /api/v1/orders/:id/suborders/:subId/status.
//
//	@Summary Change the status of one sub-order
//	@Tags bulk
//	@Accept json
//	@Produce json
//	@Param id path string true "Order ID"
//	@Param subId path string true "Sub-order ID"
//	@Param X-Admin-ID header string false "Acting admin"
//	@Param request body changeSubStatusRequest true "Target status"
//	@Success 202 {object} ticketResponse
//	@Failure 422 {object} errorResponse
//	@Router /orders/{id}/suborders/{subId}/status [post]
func (s *Server) ChangeSubStatus(c echo.Context) error {
	var req changeSubStatusRequest
	if err := s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewChangeSubOrderStatusCommand(
		c.Param("id"), c.Param("subId"), status, s.metadata(c, req.Reason, "", ""))
	if err != nil {
		return s.fail(c, err)
	}

	ticket, err := s.handlers.ChangeSubStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusAccepted, newTicketResponse(ticket))
}

// AddNote handles POST /api/v1/orders/:id/notes.
//
//	@Summary Add a note to an order
//	@Tags orders
//	@Accept json
//	@Produce json
//	@Param id path string true "Order ID"
//	@Param X-Admin-ID header string false "Acting admin"
//	@Param request body addNoteRequest true "Note"
//	@Success 201 {object} queries.NoteItem
//	@Failure 404 {object} errorResponse
//	@Router /orders/{id}/notes [post]
func (s *Server) AddNote(c echo.Context) error {
	var req addNoteRequest
	if err := s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewAddNoteCommand(
		c.Param("id"), req.Body, order.Visibility(req.Visibility), s.metadata(c, "", "", "").ChangedBy)
	if err != nil {
		return s.fail(c, err)
	}

	note, err := s.handlers.AddNote.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, queries.NoteItem{
		ID:         note.ID,
		Body:       note.Body,
		Visibility: string(note.Visibility),
		Author:     note.Author,
		CreatedAt:  note.CreatedAt,
	})
}

// ListTickets handles GET /api/v1/bulk.
//
//	@Summary List bulk action tickets
//	@Tags bulk
//	@Produce json
//	@Success 200 {array} ticketResponse
//	@Router /bulk [get]
func (s *Server) ListTickets(c echo.Context) error {
	tickets := s.desk.Tickets()
	response := make([]ticketResponse, 0, len(tickets))
	for _, t := range tickets {
		response = append(response, newTicketResponse(t))
	}
	return c.JSON(http.StatusOK, response)
}

// GetTicket handles GET /api/v1/bulk/:ticketId.
//
//	@Summary Get a bulk action ticket
//	@Tags bulk
//	@Produce json
//	@Param ticketId path string true "Ticket ID"
//	@Success 200 {object} ticketResponse
//	@Failure 404 {object} errorResponse
//	@Router /bulk/{ticketId} [get]
func (s *Server) GetTicket(c echo.Context) error {
	ticket, err := s.desk.Ticket(c.Param("ticketId"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, newTicketResponse(ticket))
}

// UndoTicket handles POST /api/v1/bulk/:ticketId/undo.
//
//	@Summary Undo a bulk action within its undo window
//	@Tags bulk
//	@Produce json
//	@Param ticketId path string true "Ticket ID"
//	@Success 200 {object} resultResponse
//	@Failure 404 {object} errorResponse
//	@Failure 409 {object} errorResponse
//	@Router /bulk/{ticketId}/undo [post]
func (s *Server) UndoTicket(c echo.Context) error {
	cmd, err := commands.NewUndoBulkActionCommand(c.Param("ticketId"))
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.handlers.Undo.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, newResultResponse(result))
}

// Realtime handles GET /api/v1/realtime.
//
//	@Summary Report realtime connectivity and open rooms
//	@Tags realtime
//	@Produce json
//	@Success 200 {object} realtimeResponse
//	@Router /realtime [get]
func (s *Server) Realtime(c echo.Context) error {
	state := s.desk.RealtimeState()
	return c.JSON(http.StatusOK, realtimeResponse{
		State:        state.String(),
		Connected:    state == realtime.Connected,
		Rooms:        s.desk.Rooms(),
		Watched:      s.desk.Watched(),
		UndoWindowMS: s.desk.UndoWindow().Milliseconds(),
	})
}

func (s *Server) metadata(c echo.Context, reason, externalOrderNo, invoiceURL string) order.Metadata {
	actor := c.Request().Header.Get(AdminHeader)
	if actor == "" {
		actor = s.desk.AdminID()
	}
	return order.Metadata{
		ChangedBy:       actor,
		Reason:          reason,
		ExternalOrderNo: externalOrderNo,
		InvoiceURL:      invoiceURL,
	}
}
