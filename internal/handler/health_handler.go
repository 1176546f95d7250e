package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type HealthHandler struct {
	connections func() int
}

// NewHealthHandler takes a live connection counter, usually Hub.Len.
func NewHealthHandler(connections func() int) *HealthHandler {
	if connections == nil {
		connections = func() int { return 0 }
	}
	return &HealthHandler{connections: connections}
}

func (h *HealthHandler) Check(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"timestamp":   time.Now().Format(time.RFC3339),
		"connections": h.connections(),
	})
}

func (h *HealthHandler) Welcome(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Donation service is running",
	})
}
