package handlers

import (
	"net/http"

	"insulin_drip/internal/service"
	"insulin_drip/internal/titration"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errDecide          = "failed to compute titration"
	errInvalidBodyPref = "invalid body: "
)

// DecideRequest is the titration payload. Omit current_rate for a patient
// not yet on insulin; otherwise hourly_bg_change and
// consecutive_in_target_count are required too.
type DecideRequest struct {
	CurrentBG           *int     `json:"current_bg" example:"245"`
	CurrentRate         *float64 `json:"current_rate,omitempty" example:"3"`
	HourlyBGChange      *int     `json:"hourly_bg_change,omitempty" example:"-20"`
	ConsecutiveInTarget *int     `json:"consecutive_in_target_count,omitempty" example:"0"`
}

func (r DecideRequest) toCore() (titration.Request, error) {
	if r.CurrentBG == nil {
		return titration.Request{}, &titration.FieldError{Fields: []string{"current_bg"}}
	}
	return titration.Request{
		CurrentBG:           *r.CurrentBG,
		CurrentRate:         r.CurrentRate,
		HourlyBGChange:      r.HourlyBGChange,
		ConsecutiveInTarget: r.ConsecutiveInTarget,
	}, nil
}

// @Summary      Compute one titration step
// @Description  Stateless protocol evaluation. Returns the rate adjustment as [[delay_minutes, rate], ...], the recheck interval, the coded order and any advisories.
// @Tags         titration
// @Accept       json
// @Produce      json
// @Param        body  body      DecideRequest  true  "Titration input"
// @Success      200   {object}  service.Recommendation
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/titration/decide [post]
// @Security     BearerAuth
func (h *Handler) decide(c *gin.Context) {
	var body DecideRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	req, err := body.toCore()
	if err != nil {
		h.respondError(c, err, errDecide, "titration_decide_failed")
		return
	}
	rec, err := h.services.Calculator.Recommend(req)
	if err != nil {
		h.respondError(c, err, errDecide, "titration_decide_failed", "bg", req.CurrentBG)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// @Summary      Protocol notes
// @Tags         titration
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/v1/protocol/notes [get]
// @Security     BearerAuth
func (h *Handler) protocolNotes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notes": service.ProtocolNotes})
}
