package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chismoso/checkin-api/internal/infrastructure/ai"
)

// AIProxy forwards allow-listed requests to an upstream model API.
type AIProxy interface {
	Proxy(ctx context.Context, endpoint, method string, body json.RawMessage) (int, json.RawMessage, error)
}

// AIHandler exposes the server-side model proxy so the extension never
// holds the upstream API key.
type AIHandler struct {
	proxy AIProxy
}

func NewAIHandler(proxy AIProxy) *AIHandler {
	return &AIHandler{proxy: proxy}
}

// Proxy forwards a request to the model API and relays the upstream
// status and body verbatim.
//
// @Summary      Proxy a model API request
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        body  body      proxyRequest  true  "Upstream request"
// @Success      200   {string}  string  "Upstream response"
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /ai/proxy [post]
func (h *AIHandler) Proxy(c echo.Context) error {
	var req proxyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	status, body, err := h.proxy.Proxy(c.Request().Context(), req.Endpoint, req.Method, req.Body)
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			return echo.NewHTTPError(http.StatusInternalServerError, "model api key not configured")
		}
		return err
	}

	return c.JSONBlob(status, body)
}
