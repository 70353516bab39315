package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"onchainiq/internal/domain/models"
	mid "onchainiq/internal/middleware"
	"onchainiq/internal/service/ratelimit"
	"onchainiq/internal/usecase"
	xhttp "onchainiq/pkg/http"
	xlogger "onchainiq/pkg/logger"
)

// AIHandler serves the structured analysis and chat endpoints.
type AIHandler struct {
	logger   *xlogger.Logger
	svc      *usecase.AnalysisService
	chat     *usecase.Chatter
	limiter  *ratelimit.Limiter
	upgrader websocket.Upgrader
}

// NewAIHandler creates the handler. A nil limiter disables rate limiting.
func NewAIHandler(
	logger *xlogger.Logger,
	svc *usecase.AnalysisService,
	chat *usecase.Chatter,
	limiter *ratelimit.Limiter,
) *AIHandler {
	return &AIHandler{
		logger:  logger,
		svc:     svc,
		chat:    chat,
		limiter: limiter,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *AIHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/ai")
	if h.limiter != nil {
		g.Use(mid.RateLimit(h.limiter, h.logger))
	}
	g.POST("/analyze", h.Analyze)
	g.POST("/safety", h.Safety)
	g.POST("/whales", h.Whales)
	g.POST("/chat", h.Chat)
	g.GET("/chat/ws", h.ChatWS)
}

func (h *AIHandler) Analyze(c echo.Context) error {
	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.svc.Analyze(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("analyze usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, appError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AIHandler) Safety(c echo.Context) error {
	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.svc.SafetyCheck(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("safety usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, appError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AIHandler) Whales(c echo.Context) error {
	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.svc.WhaleSummary(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("whales usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, appError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

// chatEvent is one server-sent event or WebSocket frame of a chat turn.
type chatEvent struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	State   string `json:"state,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func textEvent(s string) chatEvent { return chatEvent{Type: "text", Text: s} }

func doneEvent(s *usecase.Stream) chatEvent {
	return chatEvent{Type: "done", State: string(s.State())}
}

func errorEvent(err error) chatEvent {
	ae := appError(err)
	return chatEvent{Type: "error", Code: ae.Code, Message: ae.Message}
}

// Chat streams the reply as server-sent events: text events in generation
// order, then one done or error event. A client disconnect aborts the turn.
func (h *AIHandler) Chat(c echo.Context) error {
	req := &models.ChatRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	s, err := h.chat.Chat(c.Request().Context(), req.Messages)
	if err != nil {
		h.logger.Error("chat usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, appError(err))
	}
	defer s.Close()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	for {
		frag, err := s.Recv()
		switch {
		case errors.Is(err, io.EOF):
			return writeSSE(w, doneEvent(s))
		case err != nil:
			return writeSSE(w, errorEvent(err))
		}
		if err := writeSSE(w, textEvent(frag)); err != nil {
			h.logger.Debug("chat client went away", xlogger.Error(err))
			return nil
		}
	}
}

func writeSSE(w *echo.Response, ev chatEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, b); err != nil {
		return err
	}
	w.Flush()
	return nil
}
