package v1

import (
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/service"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Patients  *service.PatientService
	Clinical  *service.ClinicalRecordService
	Staff     *service.StaffService
	Wards     *service.WardService
	Diagnoses *service.DiagnosisService
	Audit     *service.AuditService
}

type Handler struct {
	svc Services
}

func NewHandler(svc Services) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts every v1 endpoint on rg, normally the /api/v1 group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	patients := rg.Group("/patients")
	{
		patients.POST("", h.RegisterPatient)
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
		patients.PATCH("/:id", h.UpdatePatient)
		patients.DELETE("/:id", h.DeletePatient)

		patients.POST("/:id/bed-assignments", h.AssignBed)
		patients.POST("/:id/visits", h.RegisterVisit)
		patients.POST("/:id/diagnoses", h.AttachDiagnosis)
		patients.POST("/:id/visit-cards", h.IssueVisitCard)
		patients.POST("/:id/discharge", h.Discharge)
		patients.GET("/:id/history", h.GetHistory)
	}

	archive := rg.Group("/archive")
	{
		archive.GET("", h.ListArchive)
		archive.GET("/:id", h.GetArchived)
	}

	staff := rg.Group("/staff")
	{
		staff.POST("", h.RegisterStaff)
		staff.GET("", h.ListStaff)
		staff.GET("/:id", h.GetStaff)
		staff.PATCH("/:id", h.RenameStaff)
		staff.DELETE("/:id", h.DeleteStaff)
	}

	wards := rg.Group("/wards")
	{
		wards.POST("", h.RegisterWard)
		wards.GET("", h.ListWards)
		wards.GET("/:id", h.GetWard)
	}

	diagnoses := rg.Group("/diagnoses")
	{
		diagnoses.POST("", h.CreateDiagnosis)
		diagnoses.GET("", h.ListDiagnoses)
		diagnoses.GET("/:code", h.GetDiagnosis)
		diagnoses.PATCH("/:code", h.UpdateDiagnosis)
		diagnoses.DELETE("/:code", h.DeleteDiagnosis)
	}

	rg.GET("/audit-logs", h.ListAuditLogs)
}
