package api

import (
	"errors"

	"github.com/labstack/echo/v4"

	"onchainiq/internal/domain/models"
	"onchainiq/internal/domain/repository"
	xhttp "onchainiq/pkg/http"
	xlogger "onchainiq/pkg/logger"
)

// DataHandler exposes the read-only on-chain records the analyses are
// built from.
type DataHandler struct {
	logger *xlogger.Logger
	data   repository.DataProvider
}

func NewDataHandler(logger *xlogger.Logger, data repository.DataProvider) *DataHandler {
	return &DataHandler{logger: logger, data: data}
}

func (h *DataHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/tokens", h.Tokens)
	g.GET("/tokens/:address", h.Token)
	g.GET("/tokens/:address/rug", h.Rug)
	g.GET("/wallets/whales", h.Whales)
	g.GET("/market/:chain", h.Market)
}

type chainFilter struct {
	Chain models.Chain `query:"chain" validate:"omitempty,oneof=solana bnb"`
}

type marketRequest struct {
	Chain models.Chain `param:"chain" validate:"required,oneof=solana bnb"`
}

func (h *DataHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *DataHandler) Tokens(c echo.Context) error {
	req := &chainFilter{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	rows, err := h.data.ListTokens(c.Request().Context(), req.Chain)
	if err != nil {
		h.logger.Error("list tokens error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, appError(err))
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *DataHandler) Token(c echo.Context) error {
	tok, err := h.data.LookupToken(c.Request().Context(), c.Param("address"))
	if err != nil {
		return xhttp.AppErrorResponse(c, appError(err))
	}
	liq, err := h.data.LookupLiquidity(c.Request().Context(), c.Param("address"))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return xhttp.AppErrorResponse(c, appError(err))
	}
	return xhttp.SuccessResponse(c, struct {
		*models.TokenInfo
		Liquidity *models.TokenLiquidity `json:"liquidity,omitempty"`
	}{tok, liq})
}

func (h *DataHandler) Rug(c echo.Context) error {
	r, err := h.data.LookupRugAnalysis(c.Request().Context(), c.Param("address"))
	if err != nil {
		return xhttp.AppErrorResponse(c, appError(err))
	}
	return xhttp.SuccessResponse(c, r)
}

func (h *DataHandler) Whales(c echo.Context) error {
	req := &chainFilter{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	rows, err := h.data.ListWhaleWallets(c.Request().Context(), req.Chain)
	if err != nil {
		h.logger.Error("list whales error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, appError(err))
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *DataHandler) Market(c echo.Context) error {
	req := &marketRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	o, err := h.data.MarketOverview(c.Request().Context(), req.Chain)
	if err != nil {
		return xhttp.AppErrorResponse(c, appError(err))
	}
	return xhttp.SuccessResponse(c, o)
}
