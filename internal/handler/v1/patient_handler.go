package v1

import (
	"net/http"
	"time"

	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain/patient"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type registerPatientRequest struct {
	ID             int64  `json:"id"`
	DocumentNumber string `json:"document_number"`
	RecordNumber   string `json:"record_number"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	DateOfBirth    string `json:"date_of_birth" binding:"required"`
}

type updatePatientRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Address   *string `json:"address"`
	Phone     *string `json:"phone"`
}

func (h *Handler) RegisterPatient(c *gin.Context) {
	var req registerPatientRequest
	if !bindJSON(c, &req) {
		return
	}

	dob, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_DATE_OF_BIRTH", "date_of_birth must be YYYY-MM-DD")
		return
	}

	p, err := h.svc.Patients.RegisterPatient(c.Request.Context(), &patient.RegisterPatientCommand{
		ID:             req.ID,
		DocumentNumber: req.DocumentNumber,
		RecordNumber:   req.RecordNumber,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Address:        req.Address,
		Phone:          req.Phone,
		DateOfBirth:    dob,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, p)
}

func (h *Handler) ListPatients(c *gin.Context) {
	ps, err := h.svc.Patients.ListPatients(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, ps)
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, ok := parsePatientID(c)
	if !ok {
		return
	}

	p, err := h.svc.Patients.GetPatient(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, ok := parsePatientID(c)
	if !ok {
		return
	}

	var req updatePatientRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.Patients.UpdatePatient(c.Request.Context(), id, &patient.UpdatePatientCommand{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
		Phone:     req.Phone,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

func (h *Handler) DeletePatient(c *gin.Context) {
	id, ok := parsePatientID(c)
	if !ok {
		return
	}

	if err := h.svc.Patients.DeletePatient(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListArchive(c *gin.Context) {
	ps, err := h.svc.Patients.ListArchive(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, ps)
}

func (h *Handler) GetArchived(c *gin.Context) {
	id, ok := parsePatientID(c)
	if !ok {
		return
	}

	ps, err := h.svc.Patients.GetArchived(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, ps)
}
