package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strings"  // Query trimming

	"hospital_insights/internal/domain"     // Importing domain models
	"hospital_insights/internal/middleware" // Session, flash and document store helpers
	"hospital_insights/internal/store"      // Patient and audit stores

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

const patientsPath = "/patients/" // Patient listing

// option is one entry of a select box
type option struct {
	Value string
	Label string
}

// selectField describes a select box on the patient form
type selectField struct {
	Name    string
	Label   string
	Options []option
	Current string
}

var (
	yesNo = []option{{"0", "No"}, {"1", "Yes"}}

	workTypeLabels = map[string]string{
		"Govt_job":     "Government job",
		"children":     "Children",
		"Never_worked": "Never worked",
	}
	smokingLabels = map[string]string{
		"never smoked":    "Never smoked",
		"formerly smoked": "Formerly smoked",
		"smokes":          "Smokes",
	}
)

// optionsOf turns allowed values into options, relabelling where needed
func optionsOf(values []string, labels map[string]string) []option {
	out := make([]option, 0, len(values))
	for _, v := range values {
		label := v
		if l, ok := labels[v]; ok {
			label = l
		}
		out = append(out, option{Value: v, Label: label})
	}
	return out
}

// patientSelects lays out the select boxes in form order
func patientSelects(f PatientForm) []selectField {
	return []selectField{
		{"gender", "Gender", optionsOf(domain.Genders, nil), f.Gender},
		{"hypertension", "Hypertension", yesNo, f.Hypertension},
		{"heart_disease", "Heart disease", yesNo, f.HeartDisease},
		{"ever_married", "Ever married", optionsOf(domain.MaritalStatuses, nil), f.EverMarried},
		{"work_type", "Work type", optionsOf(domain.WorkTypes, workTypeLabels), f.WorkType},
		{"residence_type", "Residence type", optionsOf(domain.ResidenceTypes, nil), f.ResidenceType},
		{"smoking_status", "Smoking status", optionsOf(domain.SmokingStatuses, smokingLabels), f.SmokingStatus},
		{"stroke", "Stroke outcome", []option{{"0", "No stroke"}, {"1", "Stroke"}}, f.Stroke},
	}
}

// renderPatientForm renders the add/edit form
func renderPatientForm(c *gin.Context, title, action string, form PatientForm, errs map[string]string) {
	renderPage(c, http.StatusOK, "patients/form", gin.H{
		"Title":   title,
		"Action":  action,
		"Form":    form,
		"Selects": patientSelects(form),
		"Errors":  errs,
	})
}

// bindPatient binds and converts the patient form
func bindPatient(c *gin.Context) (PatientForm, domain.Patient, error) {
	var form PatientForm
	if err := bindForm(c, &form); err != nil {
		return form, domain.Patient{}, err
	}
	p, err := form.Patient()
	return form, p, err
}

// patientStores returns the stores bound to this request's handle
func patientStores(c *gin.Context) (*store.PatientStore, *store.AuditStore) {
	h := middleware.DocHandle(c)
	return store.NewPatientStore(h), store.NewAuditStore(h)
}

// ListPatientsHandler lists patient records, optionally filtered by
// external patient code
func ListPatientsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		query := strings.TrimSpace(c.Query("q"))
		patients, _ := patientStores(c)

		list, err := patients.List(c.Request.Context(), query)
		if err != nil {
			logrus.WithError(err).Warn("Failed to list patients")
			middleware.AddFlash(c, "danger", "Patient records are temporarily unavailable.")
			list = nil
		}
		renderPage(c, http.StatusOK, "patients/list", gin.H{"Title": "Patients", "Patients": list, "Query": query})
	}
}

// AddPatientPageHandler shows a blank patient form
func AddPatientPageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		renderPatientForm(c, "Add patient", "/patients/add", newPatientForm(), nil)
	}
}

// AddPatientHandler creates a patient record
func AddPatientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		form, p, err := bindPatient(c)
		if err != nil {
			renderPatientForm(c, "Add patient", "/patients/add", form, fieldErrors(err))
			return
		}

		patients, audit := patientStores(c)
		ctx := c.Request.Context()
		id, err := patients.Create(ctx, p)
		if err != nil {
			logrus.WithError(err).Error("Failed to create patient")
			middleware.AddFlash(c, "danger", "Could not save the patient record. Please try again.")
			renderPatientForm(c, "Add patient", "/patients/add", form, nil)
			return
		}

		user := middleware.User(c)
		audit.Append(ctx, user.Username, domain.ActionCreatePatient, patientDetails(id, p))
		logrus.WithFields(logrus.Fields{"id": id, "patient_id": p.PatientID, "user": user.Username}).Info("Patient created")

		middleware.AddFlash(c, "success", "Patient record added.")
		middleware.Redirect(c, patientsPath)
	}
}

// loadPatient fetches the record named in the path or redirects to the
// listing with a warning
func loadPatient(c *gin.Context, patients *store.PatientStore) (*domain.Patient, bool) {
	p, err := patients.FindByID(c.Request.Context(), c.Param("id"))
	if err == nil {
		return p, true
	}
	if errors.Is(err, domain.ErrNotFound) {
		middleware.AddFlash(c, "warning", "Patient not found.")
	} else {
		logrus.WithError(err).WithField("id", c.Param("id")).Warn("Failed to load patient")
		middleware.AddFlash(c, "danger", "Patient records are temporarily unavailable.")
	}
	middleware.Redirect(c, patientsPath)
	return nil, false
}

// EditPatientPageHandler shows the edit form prefilled with the record
func EditPatientPageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		patients, _ := patientStores(c)
		p, ok := loadPatient(c, patients)
		if !ok {
			return
		}
		renderPatientForm(c, "Edit patient", "/patients/"+p.ID+"/edit", patientFormFrom(*p), nil)
	}
}

// EditPatientHandler replaces the mutable fields of a record
func EditPatientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		patients, audit := patientStores(c)
		existing, ok := loadPatient(c, patients)
		if !ok {
			return
		}
		action := "/patients/" + existing.ID + "/edit"

		form, p, err := bindPatient(c)
		if err != nil {
			renderPatientForm(c, "Edit patient", action, form, fieldErrors(err))
			return
		}

		ctx := c.Request.Context()
		if err := patients.Update(ctx, existing.ID, p); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				middleware.AddFlash(c, "warning", "Patient not found.")
				middleware.Redirect(c, patientsPath)
				return
			}
			logrus.WithError(err).WithField("id", existing.ID).Error("Failed to update patient")
			middleware.AddFlash(c, "danger", "Could not save the patient record. Please try again.")
			renderPatientForm(c, "Edit patient", action, form, nil)
			return
		}

		user := middleware.User(c)
		audit.Append(ctx, user.Username, domain.ActionUpdatePatient, patientDetails(existing.ID, p))
		logrus.WithFields(logrus.Fields{"id": existing.ID, "user": user.Username}).Info("Patient updated")

		middleware.AddFlash(c, "success", "Patient record updated.")
		middleware.Redirect(c, patientsPath)
	}
}

// ViewPatientHandler shows one record
func ViewPatientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		patients, _ := patientStores(c)
		p, ok := loadPatient(c, patients)
		if !ok {
			return
		}
		renderPage(c, http.StatusOK, "patients/detail", gin.H{"Title": "Patient", "Patient": p})
	}
}

// DeletePatientHandler removes a record. Deleting an unknown id succeeds.
func DeletePatientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		patients, audit := patientStores(c)
		ctx := c.Request.Context()
		id := c.Param("id")

		if err := patients.Delete(ctx, id); err != nil {
			logrus.WithError(err).WithField("id", id).Error("Failed to delete patient")
			middleware.AddFlash(c, "danger", "Could not delete patient.")
			middleware.Redirect(c, patientsPath)
			return
		}

		user := middleware.User(c)
		audit.Append(ctx, user.Username, domain.ActionDeletePatient, "Deleted record "+id)
		logrus.WithFields(logrus.Fields{"id": id, "user": user.Username}).Info("Patient deleted")

		middleware.AddFlash(c, "info", "Patient record deleted.")
		middleware.Redirect(c, patientsPath)
	}
}

// patientDetails is the audit detail line for a patient mutation
func patientDetails(id string, p domain.Patient) string {
	if p.PatientID != "" {
		return "Record " + id + " (patient " + p.PatientID + ")"
	}
	return "Record " + id
}
