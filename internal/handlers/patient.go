package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hospital-records-server/internal/middleware"
	"hospital-records-server/internal/models"
	"hospital-records-server/internal/seclog"
	"hospital-records-server/internal/stores/patientstore"
	"hospital-records-server/internal/utils"
	"hospital-records-server/internal/validation"
)

// Patients shown per page on the view listing.
const patientsPerPage = 10

// PatientHandler handles patient record CRUD and search.
type PatientHandler struct {
	Store PatientStore
	Log   *seclog.Logger
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(store PatientStore, log *seclog.Logger) *PatientHandler {
	return &PatientHandler{Store: store, Log: log}
}

// formOptions returns the enum option lists the add/edit forms render.
func formOptions() gin.H {
	return gin.H{
		"Genders":         models.Genders,
		"MaritalStatuses": models.MaritalStatuses,
		"WorkTypes":       models.WorkTypes,
		"ResidenceTypes":  models.ResidenceTypes,
		"SmokingStatuses": models.SmokingStatuses,
	}
}

// ShowAdd renders the add-patient form.
func (h *PatientHandler) ShowAdd(c *gin.Context) {
	utils.Render(c, http.StatusOK, "add_patient.html", gin.H{
		"Form":    validation.PatientForm{},
		"Errors":  map[string]string{},
		"Options": formOptions(),
	})
}

// Add handles a validated add-patient submission.
func (h *PatientHandler) Add(c *gin.Context) {
	var form validation.PatientForm
	_ = c.ShouldBind(&form)

	userID, _ := middleware.GetUserIDFromContext(c)

	rec, errs := validation.ValidatePatient(form)
	if errs != nil {
		h.Log.ValidationError("patient_data", errs.Error(), userID)
		utils.Flash(c, utils.FlashDanger, "Validation error: "+errs.Error())
		utils.Render(c, http.StatusOK, "add_patient.html", gin.H{
			"Form":    form,
			"Errors":  errs.ByField(),
			"Options": formOptions(),
		})
		return
	}

	id, err := h.Store.Create(c.Request.Context(), &rec)
	if err != nil {
		h.storeError(c, "failed to create patient record", err)
		return
	}

	h.Log.PatientAccess(userID, id, "CREATE")
	utils.Flash(c, utils.FlashSuccess, "Patient record created successfully")
	c.Redirect(http.StatusFound, "/patient/view")
}

// View lists patient records with pagination.
func (h *PatientHandler) View(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	ctx := c.Request.Context()
	patients, err := h.Store.List(ctx, patientsPerPage, int64(page-1)*patientsPerPage)
	if err != nil {
		h.storeError(c, "failed to list patient records", err)
		return
	}
	total, err := h.Store.Count(ctx)
	if err != nil {
		h.storeError(c, "failed to count patient records", err)
		return
	}
	totalPages := int((total + patientsPerPage - 1) / patientsPerPage)

	utils.Render(c, http.StatusOK, "view_patients.html", gin.H{
		"Patients":   patients,
		"Page":       page,
		"PrevPage":   page - 1,
		"NextPage":   page + 1,
		"TotalPages": totalPages,
	})
}

// ShowEdit renders the edit form pre-filled with an existing record.
func (h *PatientHandler) ShowEdit(c *gin.Context) {
	id := c.Param("id")
	userID, _ := middleware.GetUserIDFromContext(c)

	rec, err := h.Store.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, patientstore.ErrNotFound) {
			utils.Flash(c, utils.FlashDanger, "Patient not found")
			c.Redirect(http.StatusFound, "/patient/view")
			return
		}
		h.storeError(c, "failed to load patient record", err)
		return
	}

	h.Log.PatientAccess(userID, id, "READ")
	utils.Render(c, http.StatusOK, "edit_patient.html", gin.H{
		"Patient": rec,
		"Form":    formFromRecord(rec),
		"Errors":  map[string]string{},
		"Options": formOptions(),
	})
}

// Edit handles a validated edit submission.
func (h *PatientHandler) Edit(c *gin.Context) {
	id := c.Param("id")
	userID, _ := middleware.GetUserIDFromContext(c)

	var form validation.PatientForm
	_ = c.ShouldBind(&form)

	rec, errs := validation.ValidatePatient(form)
	if errs != nil {
		h.Log.ValidationError("patient_data", errs.Error(), userID)
		utils.Flash(c, utils.FlashDanger, "Validation error: "+errs.Error())
		utils.Render(c, http.StatusOK, "edit_patient.html", gin.H{
			"Patient": &models.PatientRecord{ID: id},
			"Form":    form,
			"Errors":  errs.ByField(),
			"Options": formOptions(),
		})
		return
	}

	if err := h.Store.Update(c.Request.Context(), id, &rec); err != nil {
		if errors.Is(err, patientstore.ErrNotFound) {
			utils.Flash(c, utils.FlashDanger, "Patient not found")
			c.Redirect(http.StatusFound, "/patient/view")
			return
		}
		h.storeError(c, "failed to update patient record", err)
		return
	}

	h.Log.PatientAccess(userID, id, "UPDATE")
	utils.Flash(c, utils.FlashSuccess, "Patient record updated successfully")
	c.Redirect(http.StatusFound, "/patient/view")
}

// Delete removes a patient record. CSRF is enforced by middleware before
// this handler runs.
func (h *PatientHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	userID, _ := middleware.GetUserIDFromContext(c)

	if err := h.Store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, patientstore.ErrNotFound) {
			utils.Flash(c, utils.FlashDanger, "Patient not found")
		} else {
			h.Log.Error("failed to delete patient record", err)
			utils.Flash(c, utils.FlashDanger, "Error deleting patient")
		}
		c.Redirect(http.StatusFound, "/patient/view")
		return
	}

	h.Log.PatientAccess(userID, id, "DELETE")
	utils.Flash(c, utils.FlashSuccess, "Patient record deleted successfully")
	c.Redirect(http.StatusFound, "/patient/view")
}

// Search filters patients by gender and/or stroke status.
func (h *PatientHandler) Search(c *gin.Context) {
	filter := patientstore.SearchFilter{}

	if gender := validation.SanitizeString(c.Query("gender")); gender != "" {
		filter.Gender = models.Gender(gender)
	}
	if stroke := validation.SanitizeString(c.Query("stroke")); stroke != "" {
		// Non-numeric stroke values are ignored rather than rejected.
		if v, err := strconv.Atoi(stroke); err == nil {
			flag := models.BinaryFlag(v)
			filter.Stroke = &flag
		}
	}

	patients, err := h.Store.Search(c.Request.Context(), filter)
	if err != nil {
		h.storeError(c, "failed to search patient records", err)
		return
	}

	utils.Render(c, http.StatusOK, "search_results.html", gin.H{
		"Patients": patients,
		"Gender":   filter.Gender,
		"Stroke":   filter.Stroke,
	})
}

// SearchByID is the dashboard quick lookup by record id.
func (h *PatientHandler) SearchByID(c *gin.Context) {
	id := validation.SanitizeString(c.PostForm("patient_id"))
	if id == "" {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	ctx := c.Request.Context()

	rec, err := h.Store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, patientstore.ErrNotFound) {
			utils.Render(c, http.StatusOK, "dashboard.html", gin.H{
				"SearchError": "Patient not found with ID: " + id,
				"Stats":       dashboardStats(ctx, h.Store, h.Log),
			})
			return
		}
		h.storeError(c, "failed to search patient by id", err)
		return
	}

	h.Log.PatientAccess(userID, id, "READ")
	utils.Render(c, http.StatusOK, "dashboard.html", gin.H{
		"Patient": rec,
		"Stats":   dashboardStats(ctx, h.Store, h.Log),
	})
}

// storeError logs a store failure and shows a generic error to the user.
// Unavailability is terminal for the request but never crashes the process.
func (h *PatientHandler) storeError(c *gin.Context, msg string, err error) {
	h.Log.Error(msg, err)
	if errors.Is(err, patientstore.ErrUnavailable) {
		utils.Flash(c, utils.FlashDanger, "The patient record store is currently unavailable")
	} else {
		utils.Flash(c, utils.FlashDanger, "An error occurred")
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

// formFromRecord pre-fills the edit form from a stored record.
func formFromRecord(rec *models.PatientRecord) validation.PatientForm {
	return validation.PatientForm{
		Gender:          string(rec.Gender),
		Age:             strconv.Itoa(rec.Age),
		Hypertension:    strconv.Itoa(int(rec.Hypertension)),
		EverMarried:     string(rec.EverMarried),
		WorkType:        string(rec.WorkType),
		ResidenceType:   string(rec.ResidenceType),
		AvgGlucoseLevel: strconv.FormatFloat(rec.AvgGlucoseLevel, 'f', -1, 64),
		BMI:             strconv.FormatFloat(rec.BMI, 'f', -1, 64),
		SmokingStatus:   string(rec.SmokingStatus),
		Stroke:          strconv.Itoa(int(rec.Stroke)),
	}
}
