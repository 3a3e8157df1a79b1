package http

import (
	"errors"
	"net/http"
	"time"

	"orderdesk/internal/core/application/bulk"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type errorResponse struct {
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Details []errorDetail `json:"details,omitempty"`
}

type errorDetail struct {
	Path string `json:"path"`
	Info string `json:"info"`
}

type rejectionResponse struct {
	OrderID string `json:"orderId"`
	Error   string `json:"error"`
}

type failureResponse struct {
	OrderID string `json:"orderId"`
	Action  string `json:"action"`
	Error   string `json:"error"`
}

type resultResponse struct {
	Outcome              string            `json:"outcome"`
	Succeeded            []string          `json:"succeeded"`
	Failures             []failureResponse `json:"failures"`
	Compensated          []string          `json:"compensated"`
	CompensationFailures []failureResponse `json:"compensationFailures"`
	SettledAt            *time.Time        `json:"settledAt,omitempty"`
}

type ticketResponse struct {
	ID            string              `json:"id"`
	Action        string              `json:"action"`
	CreatedAt     time.Time           `json:"createdAt"`
	Admitted      []string            `json:"admitted"`
	Rejected      []rejectionResponse `json:"rejected"`
	UndoAvailable bool                `json:"undoAvailable"`
	UndoDeadline  time.Time           `json:"undoDeadline"`
	Result        resultResponse      `json:"result"`
}

type realtimeResponse struct {
	State        string   `json:"state"`
	Connected    bool     `json:"connected"`
	Rooms        []string `json:"rooms"`
	Watched      []string `json:"watched"`
	UndoWindowMS int64    `json:"undoWindowMs"`
}

func newTicketResponse(t *bulk.Ticket) ticketResponse {
	rejected := make([]rejectionResponse, 0)
	for _, r := range t.Rejected() {
		rejected = append(rejected, rejectionResponse{OrderID: r.OrderID, Error: r.Err.Error()})
	}
	return ticketResponse{
		ID:            t.ID().String(),
		Action:        t.Action(),
		CreatedAt:     t.CreatedAt(),
		Admitted:      t.Admitted(),
		Rejected:      rejected,
		UndoAvailable: t.UndoAvailable(),
		UndoDeadline:  t.UndoDeadline(),
		Result:        newResultResponse(t.Result()),
	}
}

func newResultResponse(r bulk.Result) resultResponse {
	resp := resultResponse{
		Outcome:              r.Outcome.String(),
		Succeeded:            nonNil(r.Succeeded),
		Failures:             failures(r.Failures),
		Compensated:          nonNil(r.Compensated),
		CompensationFailures: failures(r.CompensationFailures),
	}
	if !r.SettledAt.IsZero() {
		at := r.SettledAt
		resp.SettledAt = &at
	}
	return resp
}

func failures(in []*bulk.RemoteMutationError) []failureResponse {
	out := make([]failureResponse, 0, len(in))
	for _, f := range in {
		out = append(out, failureResponse{OrderID: f.OrderID, Action: f.Action, Error: f.Err.Error()})
	}
	return out
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

// fail writes the response matching err.
func (s *Server) fail(c echo.Context, err error) error {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		details := make([]errorDetail, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			details = append(details, errorDetail{Path: fieldErr.Field(), Info: validationMessage(fieldErr)})
		}
		return c.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Validation failed",
			Details: details,
		})
	case errors.Is(err, errInvalidBody),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return s.badRequest(c, err.Error())
	case errors.Is(err, errs.ErrObjectNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Code: http.StatusNotFound, Message: err.Error()})
	case errors.Is(err, bulk.ErrUndoUnavailable):
		return c.JSON(http.StatusConflict, errorResponse{Code: http.StatusConflict, Message: err.Error()})
	case errors.Is(err, order.ErrInvalidTransition):
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{
			Code:    http.StatusUnprocessableEntity,
			Message: err.Error(),
		})
	default:
		s.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Internal error",
		})
	}
}

func (s *Server) badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Code: http.StatusBadRequest, Message: message})
}

func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fieldErr.Field() + " is required"
	case "min":
		return fieldErr.Field() + " must have at least " + fieldErr.Param() + " items"
	case "max":
		return fieldErr.Field() + " must be at most " + fieldErr.Param()
	case "url":
		return fieldErr.Field() + " must be a valid URL"
	default:
		return fieldErr.Field() + " is invalid"
	}
}
