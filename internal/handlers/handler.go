package handlers

import (
	"net/http"

	"insulin_drip/internal/logger"
	"insulin_drip/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler. A nil log discards output.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// live infusion state; browsers cannot set headers on upgrade, so the
	// token may also come from ?access_token=
	router.GET("/ws/patients/:id", h.wsAuthMiddleware, h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.bearerAuth)
	{
		h.registerTitrationRoutes(api)
		h.registerPatientRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerTitrationRoutes(api *gin.RouterGroup) {
	api.POST("/titration/decide", h.decide)
	api.GET("/protocol/notes", h.protocolNotes)
}

func (h *Handler) registerPatientRoutes(api *gin.RouterGroup) {
	patient := api.Group("/patients/:id")
	{
		// Body example: {"bg":245,"at":"2025-03-01T06:00:00Z"}
		patient.POST("/infusion/start", h.startInfusion)
		patient.POST("/readings", h.recordReading)
		patient.GET("/readings", h.listReadings)
		patient.POST("/infusion/stop", h.stopInfusion)
		patient.GET("/infusion/state", h.getState)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	api.GET("/logs", h.getLogs)
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}
