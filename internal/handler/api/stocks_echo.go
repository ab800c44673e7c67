package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/usecase"
	xhttp "StockPulse/pkg/http"
	xlogger "StockPulse/pkg/logger"
)

// HeaderDataSource tells consumers whether a payload came from the live
// provider or the simulator.
const HeaderDataSource = "X-Data-Source"

// StocksEchoHandler exposes the quote gateway over HTTP. The data
// endpoints answer in the legacy ordinal-keyed format; management
// endpoints use the standard envelope.
type StocksEchoHandler struct {
	logger  *xlogger.Logger
	gateway *usecase.Gateway
}

func NewStocksEchoHandler(logger *xlogger.Logger, gateway *usecase.Gateway) *StocksEchoHandler {
	return &StocksEchoHandler{logger: logger, gateway: gateway}
}

func (h *StocksEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/setup", h.Setup)
	e.GET("/healthz", h.Healthz)

	g := e.Group("/api")
	g.GET("/quote/:symbol", h.Quote)
	g.GET("/search/:keywords", h.Search)
	g.GET("/historical/:symbol", h.Historical)
	g.GET("/provider", h.Provider)
}

// mapDomainError converts gateway errors into transport-level AppErrors.
// Errors outside the domain taxonomy pass through unchanged.
func mapDomainError(err error) error {
	var appErr *xhttp.AppError
	switch {
	case errors.Is(err, models.ErrNotFound):
		appErr = xhttp.NewAppError("ERR_SYMBOL_NOT_FOUND", "symbol", "symbol not found", http.StatusNotFound)
	case errors.Is(err, models.ErrUnknownProvider):
		appErr = xhttp.NewAppError("ERR_UNKNOWN_PROVIDER", "provider", "unknown provider", http.StatusBadRequest)
	case errors.Is(err, models.ErrMissingCredential):
		appErr = xhttp.NewAppError("ERR_MISSING_API_KEY", "api_key", "provider requires an API key", http.StatusBadRequest)
	default:
		return err
	}
	appErr.Err = err
	return appErr
}

// errorResponse writes a mapped domain error, logging only the unmapped
// ones that surface as internal errors.
func (h *StocksEchoHandler) errorResponse(c echo.Context, err error, msg string, fields ...xlogger.Field) error {
	mapped := mapDomainError(err)
	var appErr *xhttp.AppError
	if errors.As(mapped, &appErr) {
		return xhttp.AppErrorResponse(c, appErr)
	}
	h.logger.Error(msg, append(fields, xlogger.Error(err))...)
	return xhttp.InternalServerErrorResponse(c)
}

// Setup binds the gateway to a provider, optionally with an API key.
func (h *StocksEchoHandler) Setup(c echo.Context) error {
	req := &models.SetupRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.gateway.Use(req.Provider, req.APIKey); err != nil {
		return h.errorResponse(c, err, "provider setup failed", xlogger.String("provider", req.Provider))
	}
	return xhttp.SuccessResponse(c, h.gateway.Provider())
}

func (h *StocksEchoHandler) Quote(c echo.Context) error {
	req := &models.QuoteRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.gateway.Quote(c.Request().Context(), req.Symbol)
	if err != nil {
		return h.errorResponse(c, err, "quote fetch failed", xlogger.String("symbol", req.Symbol))
	}

	setSourceHeader(c, res.Source)
	return xhttp.RawResponse(c, http.StatusOK, res.Quote)
}

func (h *StocksEchoHandler) Search(c echo.Context) error {
	req := &models.SearchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.gateway.Search(c.Request().Context(), req.Keywords)
	if err != nil {
		return h.errorResponse(c, err, "search failed", xlogger.String("keywords", req.Keywords))
	}

	setSourceHeader(c, res.Source)
	return xhttp.RawResponse(c, http.StatusOK, res.Matches)
}

func (h *StocksEchoHandler) Historical(c echo.Context) error {
	req := &models.HistoricalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.gateway.DailySeries(c.Request().Context(), req.Symbol, req.Days)
	if err != nil {
		return h.errorResponse(c, err, "historical fetch failed", xlogger.String("symbol", req.Symbol))
	}

	setSourceHeader(c, res.Source)
	return xhttp.RawResponse(c, http.StatusOK, res.Series)
}

// Provider reports the descriptor of the currently bound provider.
func (h *StocksEchoHandler) Provider(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.gateway.Provider())
}

func (h *StocksEchoHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func setSourceHeader(c echo.Context, source string) {
	switch source {
	case usecase.SourceSimulated, usecase.SourceUnavailable:
		c.Response().Header().Set(HeaderDataSource, source)
	default:
		c.Response().Header().Set(HeaderDataSource, "live")
	}
}
