package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/northseawatch/scrubber-backend-go/internal/service"
	"github.com/northseawatch/scrubber-backend-go/pkg/response"
)

// PortHandler handles HTTP requests for ports and engine data
type PortHandler struct {
	service *service.PortService
}

// NewPortHandler creates a new port handler
func NewPortHandler(service *service.PortService) *PortHandler {
	return &PortHandler{service: service}
}

// AllPorts lists ports with coordinates and regulation status
// GET /api/v1/all-ports, GET /api/v1/ports
func (h *PortHandler) AllPorts(c *gin.Context) {
	ports, err := h.service.Ports(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, ports)
}

// GetPort returns one port by name
// GET /api/v1/ports/:port
func (h *PortHandler) GetPort(c *gin.Context) {
	port, err := h.service.Port(c.Request.Context(), c.Param("port"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, port)
}

// PortContent returns the editorial content of a port
// GET /api/v1/port-content/:port/:country
func (h *PortHandler) PortContent(c *gin.Context) {
	name := strings.TrimSpace(c.Param("port"))
	country := strings.TrimSpace(c.Param("country"))
	if name == "" || country == "" {
		response.BadRequest(c, "port and country are required")
		return
	}

	content, err := h.service.PortContent(c.Request.Context(), name, country)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, content)
}

// AllPortContents lists every port content record
// GET /api/v1/all-port-contents
func (h *PortHandler) AllPortContents(c *gin.Context) {
	contents, err := h.service.PortContents(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, contents)
}

// EngineData lists the vessels with engine data available
// GET /api/v1/engine-data, GET /api/v1/ais_data/icct_wfr_combined
func (h *PortHandler) EngineData(c *gin.Context) {
	records, err := h.service.EngineData(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, records)
}
