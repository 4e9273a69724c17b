package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/raffihq/recipe-api/internal/middleware"
	"github.com/raffihq/recipe-api/internal/server"
	"github.com/raffihq/recipe-api/internal/validation"
)

// Handler is the base type holding shared application dependencies.
// Concrete handlers embed it.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed endpoint function receiving a bound and
// validated request payload. Req is a pointer type so echo's Bind can
// populate it.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// HandlerFuncNoContent is a typed endpoint function for routes that
// return no response body.
type HandlerFuncNoContent[Req validation.Validatable] func(c echo.Context, req Req) error

// ResponseHandler writes a successful handler result to the HTTP
// response.
type ResponseHandler interface {
	Handle(c echo.Context, result interface{}) error
	GetOperation() string
}

// JSONResponseHandler writes JSON responses with a fixed status code.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

// NoContentResponseHandler writes responses with no body.
type NoContentResponseHandler struct {
	status int
}

func (h NoContentResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.NoContent(h.status)
}

func (h NoContentResponseHandler) GetOperation() string {
	return "handler_no_content"
}

// handleRequest is the shared execution pipeline for all endpoints. It
// centralizes binding, validation, structured logging, tracing
// attributes, timing, and response writing.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (interface{}, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	route := c.Path()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("method", c.Request().Method).
		Str("route", route).
		Logger()

	validationStart := time.Now()
	if err := validation.BindAndValidate(c, req); err != nil {
		logger.Warn().
			Err(err).
			Dur("validation_duration", time.Since(validationStart)).
			Msg("request validation failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("validation.status", "failed")
		}

		return err
	}

	if txn != nil {
		txn.AddAttribute("validation.status", "success")
	}

	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
		}
		return err
	}

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
	}

	logger.Info().
		Dur("handler_duration", handlerDuration).
		Dur("total_duration", time.Since(start)).
		Msg("request completed")

	return responseHandler.Handle(c, result)
}

// Bindable constrains PReq to a pointer to Req that knows how to
// validate itself. A fresh Req is allocated per request so concurrent
// requests never share a payload.
type Bindable[Req any] interface {
	*Req
	validation.Validatable
}

// Handle wraps a typed handler into an echo.HandlerFunc.
func Handle[Req any, PReq Bindable[Req], Res any](
	h Handler,
	handler HandlerFunc[PReq, Res],
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := PReq(new(Req))
		return handleRequest(c, req, func(c echo.Context, req PReq) (interface{}, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// HandleNoContent wraps a typed handler for endpoints without a
// response body.
func HandleNoContent[Req any, PReq Bindable[Req]](
	h Handler,
	handler HandlerFuncNoContent[PReq],
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := PReq(new(Req))
		return handleRequest(c, req, func(c echo.Context, req PReq) (interface{}, error) {
			return nil, handler(c, req)
		}, NoContentResponseHandler{status: status})
	}
}
