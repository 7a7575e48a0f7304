package v1

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain/patient"
	"github.com/gin-gonic/gin"
)

// BedNumber is decoded by hand so a non-numeric value reaches the service as
// an out-of-range bed instead of failing the whole request body.
type assignBedRequest struct {
	WardID    int             `json:"ward_id"`
	BedNumber json.RawMessage `json:"bed_number"`
}

// bed returns the requested bed, or 0 when the value is absent or not an
// integer. Bed numbers start at 1.
func (r assignBedRequest) bed() int {
	var n int
	if err := json.Unmarshal(r.BedNumber, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(r.BedNumber, &s); err == nil {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return 0
}

type registerVisitRequest struct {
	StaffID string `json:"staff_id" binding:"required"`
}

type attachDiagnosisRequest struct {
	DiagnosisCode string `json:"diagnosis_code" binding:"required"`
}

// Start and end are stored verbatim.
type issueVisitCardRequest struct {
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	VisitorName string `json:"visitor_name"`
}

func (h *Handler) AssignBed(c *gin.Context) {
	id, ok := parsePatientID(c)
	if !ok {
		return
	}

	var req assignBedRequest
	if !bindJSON(c, &req) {
		return
	}

	bed, err := h.svc.Clinical.AssignBed(c.Request.Context(), id, req.WardID, req.bed())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, bed)
}

func (h *Handler) RegisterVisit(c *gin.Context) {
	id, ok := parsePatientID(c)
	if !ok {
		return
	}

	var req registerVisitRequest
	if !bindJSON(c, &req) {
		return
	}

	v, err := h.svc.Clinical.RegisterVisit(c.Request.Context(), id, req.StaffID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, v)
}

func (h *Handler) AttachDiagnosis(c *gin.Context) {
	id, ok := parsePatientID(c)
	if !ok {
		return
	}

	var req attachDiagnosisRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.svc.Clinical.AttachDiagnosis(c.Request.Context(), id, req.DiagnosisCode)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, d)
}

func (h *Handler) IssueVisitCard(c *gin.Context) {
	id, ok := parsePatientID(c)
	if !ok {
		return
	}

	var req issueVisitCardRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.svc.Clinical.IssueVisitCard(c.Request.Context(), &patient.IssueVisitCardCommand{
		PatientID:   id,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		VisitorName: req.VisitorName,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, card)
}

func (h *Handler) Discharge(c *gin.Context) {
	id, ok := parsePatientID(c)
	if !ok {
		return
	}

	p, err := h.svc.Clinical.Discharge(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse[any]{Data: p, Message: "patient discharged"})
}

func (h *Handler) GetHistory(c *gin.Context) {
	id, ok := parsePatientID(c)
	if !ok {
		return
	}

	hist, err := h.svc.Clinical.BuildHistory(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, hist)
}
