package controller

import (
	"fmt"
	"net/http"

	"minoj/pkg/utils/logger"

	"github.com/gin-gonic/gin"
)

// SystemController handles the smoke-test and shutdown endpoints.
type SystemController struct {
	shutdown func()
}

// NewSystemController creates a new SystemController. shutdown stops
// the process, called after the exit response is written.
func NewSystemController(shutdown func()) *SystemController {
	return &SystemController{shutdown: shutdown}
}

// Greet answers the liveness smoke test.
func (h *SystemController) Greet(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		name = "world"
	}
	logger.Infof(c.Request.Context(), "Greeting %s", name)
	c.String(http.StatusOK, fmt.Sprintf("Hello %s!", name))
}

// Exit terminates the process, used by automated testing.
func (h *SystemController) Exit(c *gin.Context) {
	logger.Info(c.Request.Context(), "Shutdown as requested")
	c.String(http.StatusOK, "Exited")
	if h.shutdown != nil {
		h.shutdown()
	}
}
