package http

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

var errInvalidBody = errors.New("invalid request body")

type changeStatusRequest struct {
	OrderIDs        []string `json:"orderIds" validate:"max=500,dive,required"`
	Status          string   `json:"status" validate:"required"`
	Reason          string   `json:"reason" validate:"max=500"`
	ExternalOrderNo string   `json:"externalOrderNo" validate:"max=64"`
	InvoiceURL      string   `json:"invoiceUrl" validate:"omitempty,url"`
}

type assignDriverRequest struct {
	OrderIDs []string `json:"orderIds" validate:"max=500,dive,required"`
	DriverID string   `json:"driverId" validate:"required,max=64"`
}

type changeSubStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason" validate:"max=500"`
}

type addNoteRequest struct {
	Body       string `json:"body" validate:"required,max=2000"`
	Visibility string `json:"visibility" validate:"required,oneof=public internal"`
}

// bind decodes and validates the request body.
func (s *Server) bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return c.Validate(req)
}

type queryParam struct {
	name string
	dest any
}

// bindQuery binds an optional form-style query parameter.
func bindQuery(params url.Values, p queryParam) error {
	if err := runtime.BindQueryParameter("form", true, false, p.name, params, p.dest); err != nil {
		return fmt.Errorf("invalid format for parameter %s: %w", p.name, err)
	}
	return nil
}

// splitCSV accepts both ?status=a&status=b and ?status=a,b.
func splitCSV(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
