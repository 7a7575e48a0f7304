package v1

import (
	"net/http"

	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain/diagnosis"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain/staff"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain/ward"
	"github.com/gin-gonic/gin"
)

type registerStaffRequest struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type renameStaffRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type registerWardRequest struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type createDiagnosisRequest struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type updateDiagnosisRequest struct {
	Description string `json:"description"`
}

func (h *Handler) RegisterStaff(c *gin.Context) {
	var req registerStaffRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.svc.Staff.RegisterStaff(c.Request.Context(), &staff.RegisterStaffCommand{
		ID:        req.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, m)
}

func (h *Handler) ListStaff(c *gin.Context) {
	list, err := h.svc.Staff.ListStaff(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) GetStaff(c *gin.Context) {
	m, err := h.svc.Staff.GetStaff(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, m)
}

func (h *Handler) RenameStaff(c *gin.Context) {
	var req renameStaffRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.svc.Staff.RenameStaff(c.Request.Context(), c.Param("id"), req.FirstName, req.LastName)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, m)
}

func (h *Handler) DeleteStaff(c *gin.Context) {
	if err := h.svc.Staff.DeleteStaff(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) RegisterWard(c *gin.Context) {
	var req registerWardRequest
	if !bindJSON(c, &req) {
		return
	}

	w, err := h.svc.Wards.RegisterWard(c.Request.Context(), &ward.RegisterWardCommand{
		ID:       req.ID,
		Name:     req.Name,
		Capacity: req.Capacity,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, w)
}

func (h *Handler) ListWards(c *gin.Context) {
	list, err := h.svc.Wards.ListWards(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) GetWard(c *gin.Context) {
	id, ok := parseWardID(c)
	if !ok {
		return
	}

	w, err := h.svc.Wards.GetWard(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, w)
}

func (h *Handler) CreateDiagnosis(c *gin.Context) {
	var req createDiagnosisRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.svc.Diagnoses.CreateDiagnosis(c.Request.Context(), &diagnosis.CreateDiagnosisCommand{
		Code:        req.Code,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, d)
}

func (h *Handler) ListDiagnoses(c *gin.Context) {
	list, err := h.svc.Diagnoses.ListDiagnoses(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) GetDiagnosis(c *gin.Context) {
	d, err := h.svc.Diagnoses.GetDiagnosis(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, d)
}

func (h *Handler) UpdateDiagnosis(c *gin.Context) {
	var req updateDiagnosisRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.svc.Diagnoses.UpdateDescription(c.Request.Context(), c.Param("code"), req.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, d)
}

func (h *Handler) DeleteDiagnosis(c *gin.Context) {
	if err := h.svc.Diagnoses.DeleteDiagnosis(c.Request.Context(), c.Param("code")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListAuditLogs(c *gin.Context) {
	limit := parseQueryInt(c, "limit", 20)
	offset := parseQueryInt(c, "offset", 0)

	logs, total, err := h.svc.Audit.ListLogs(c.Request.Context(), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, PagedResponse[any]{Data: logs, Total: total, Limit: limit, Offset: offset})
}
