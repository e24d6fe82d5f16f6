package handlers

import (
	"net/http"
	"strconv"
	"time"

	"insulin_drip/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusStopped = "stopped"

	errStartInfusion = "failed to start infusion"
	errRecordReading = "failed to record reading"
	errStopInfusion  = "failed to stop infusion"
	errGetState      = "failed to load state"
	errListReadings  = "failed to load readings"
	errLimitInvalid  = "invalid 'limit'; use a positive integer"
)

// ReadingRequest is a bedside BG measurement. at defaults to the server clock.
type ReadingRequest struct {
	BG *int       `json:"bg" binding:"required" example:"245"`
	At *time.Time `json:"at,omitempty" example:"2025-03-01T06:00:00Z"`
}

func (r ReadingRequest) params() service.ReadingParams {
	p := service.ReadingParams{BG: *r.BG}
	if r.At != nil {
		p.At = *r.At
	}
	return p
}

func (h *Handler) bindReading(c *gin.Context) (service.ReadingParams, bool) {
	var body ReadingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return service.ReadingParams{}, false
	}
	return body.params(), true
}

// @Summary      Start an insulin infusion
// @Description  Takes the first BG, returns the initial bolus and rate.
// @Tags         infusion
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Patient id"
// @Param        body  body      ReadingRequest  true  "First BG reading"
// @Success      200   {object}  service.Decision
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/patients/{id}/infusion/start [post]
// @Security     BearerAuth
func (h *Handler) startInfusion(c *gin.Context) {
	p, ok := h.bindReading(c)
	if !ok {
		return
	}
	id := c.Param("id")
	d, err := h.services.Infusion.Start(c.Request.Context(), id, p)
	if err != nil {
		h.respondError(c, err, errStartInfusion, "infusion_start_failed", "patient", id)
		return
	}
	c.JSON(http.StatusOK, d)
}

// @Summary      Record a BG reading
// @Description  Applies one protocol step to a running infusion.
// @Tags         infusion
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Patient id"
// @Param        body  body      ReadingRequest  true  "BG reading"
// @Success      200   {object}  service.Decision
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/patients/{id}/readings [post]
// @Security     BearerAuth
func (h *Handler) recordReading(c *gin.Context) {
	p, ok := h.bindReading(c)
	if !ok {
		return
	}
	id := c.Param("id")
	d, err := h.services.Infusion.RecordReading(c.Request.Context(), id, p)
	if err != nil {
		h.respondError(c, err, errRecordReading, "infusion_reading_failed", "patient", id, "bg", p.BG)
		return
	}
	c.JSON(http.StatusOK, d)
}

// @Summary      List BG readings
// @Tags         infusion
// @Produce      json
// @Param        id     path      string  true   "Patient id"
// @Param        limit  query     int     false  "Max readings, newest first"
// @Success      200    {object}  map[string]interface{}  "count, readings"
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/patients/{id}/readings [get]
// @Security     BearerAuth
func (h *Handler) listReadings(c *gin.Context) {
	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errLimitInvalid})
			return
		}
		limit = n
	}
	id := c.Param("id")
	readings, err := h.services.Monitoring.Readings(c.Request.Context(), id, limit)
	if err != nil {
		h.respondError(c, err, errListReadings, "readings_list_failed", "patient", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(readings),
		"readings": readings,
	})
}

// @Summary      Stop an insulin infusion
// @Tags         infusion
// @Produce      json
// @Param        id   path      string  true  "Patient id"
// @Success      200  {object}  map[string]interface{}  "status, state"
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/patients/{id}/infusion/stop [post]
// @Security     BearerAuth
func (h *Handler) stopInfusion(c *gin.Context) {
	id := c.Param("id")
	st, err := h.services.Infusion.Stop(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, errStopInfusion, "infusion_stop_failed", "patient", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusStopped, "state": st})
}

// @Summary      Get infusion state
// @Tags         infusion
// @Produce      json
// @Param        id   path      string  true  "Patient id"
// @Success      200  {object}  models.InfusionState
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/patients/{id}/infusion/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	id := c.Param("id")
	st, err := h.services.Monitoring.GetState(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, errGetState, "infusion_get_state_failed", "patient", id)
		return
	}
	c.JSON(http.StatusOK, st)
}
