package http

import (
	"reflect"
	"strings"

	_ "orderdesk/internal/adapters/in/http/docs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

// NewRouter builds the echo instance serving s.
func NewRouter(s *Server) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			s.logger.Info("request", fields...)
			return nil
		},
	}))

	e.GET("/health", s.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/summary", s.StatusSummary)
	api.GET("/orders/:id", s.GetOrder)
	api.PUT("/orders/:id/watch", s.WatchOrder)
	api.DELETE("/orders/:id/watch", s.UnwatchOrder)
	api.POST("/orders/bulk/status", s.ChangeStatus)
	api.POST("/orders/bulk/driver", s.AssignDriver)
	api.POST("/orders/:id/suborders/:subId/status", s.ChangeSubStatus)
	api.POST("/orders/:id/notes", s.AddNote)
	api.GET("/bulk", s.ListTickets)
	api.GET("/bulk/:ticketId", s.GetTicket)
	api.POST("/bulk/:ticketId/undo", s.UndoTicket)
	api.GET("/realtime", s.Realtime)

	return e
}

type requestValidator struct {
	validate *validator.Validate
}

// newRequestValidator reports fields by their JSON names.
func newRequestValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &requestValidator{validate: v}
}

func (v *requestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}
