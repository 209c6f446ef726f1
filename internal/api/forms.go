package api

import (
	"errors"  // Error matching
	"fmt"     // Message formatting
	"reflect" // Struct tag lookup for validator field names
	"strconv" // Numeric form fields
	"strings" // Trimming input
	"sync"    // One-time validator setup

	"hospital_insights/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/gin-gonic/gin/binding"       // Gin form binding
	"github.com/go-playground/validator/v10" // Field validation
)

var registerTagNames sync.Once

// useFormTagNames makes validator report fields by their form name
func useFormTagNames() {
	registerTagNames.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(func(f reflect.StructField) string {
				name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
				if name == "-" {
					return ""
				}
				return name
			})
		}
	})
}

// LoginForm is the sign-in form. Lengths are not checked so that every
// failure reads the same.
type LoginForm struct {
	Username string `form:"username" binding:"required"` // Username must be provided
	Password string `form:"password" binding:"required"` // Password must be provided
}

// RegisterForm is the sign-up form
type RegisterForm struct {
	Username        string `form:"username" binding:"required,min=3,max=120"`
	Password        string `form:"password" binding:"required,min=6,max=72"` // bcrypt reads at most 72 bytes
	ConfirmPassword string `form:"confirm_password" binding:"required,eqfield=Password"`
}

// ProfileForm changes the username and optionally the password
type ProfileForm struct {
	Username        string `form:"username" binding:"required,min=3,max=120"`
	CurrentPassword string `form:"current_password" binding:"required"`
	NewPassword     string `form:"new_password" binding:"omitempty,min=6,max=72"`
	ConfirmPassword string `form:"confirm_password" binding:"eqfield=NewPassword"`
}

// PatientForm carries numeric fields as strings so that an empty input is
// reported as missing instead of binding to zero
type PatientForm struct {
	PatientID       string `form:"patient_id" binding:"max=50"`
	Gender          string `form:"gender" binding:"required,oneof=Male Female Other"`
	Age             string `form:"age" binding:"required,number"`
	Hypertension    string `form:"hypertension" binding:"required,oneof=0 1"`
	HeartDisease    string `form:"heart_disease" binding:"required,oneof=0 1"`
	EverMarried     string `form:"ever_married" binding:"required,oneof=Yes No"`
	WorkType        string `form:"work_type" binding:"required,oneof=Private Self-employed Govt_job children Never_worked"`
	ResidenceType   string `form:"residence_type" binding:"required,oneof=Urban Rural"`
	AvgGlucoseLevel string `form:"avg_glucose_level" binding:"required,numeric"`
	BMI             string `form:"bmi" binding:"omitempty,numeric"`
	SmokingStatus   string `form:"smoking_status" binding:"required,oneof='never smoked' 'formerly smoked' smokes Unknown"`
	Stroke          string `form:"stroke" binding:"required,oneof=0 1"`
}

// newPatientForm is the blank add form
func newPatientForm() PatientForm {
	return PatientForm{Hypertension: "0", HeartDisease: "0", Stroke: "0", EverMarried: "No", ResidenceType: "Urban", SmokingStatus: "Unknown"}
}

// patientFormFrom prefills the edit form
func patientFormFrom(p domain.Patient) PatientForm {
	f := PatientForm{
		PatientID:       p.PatientID,
		Gender:          p.Gender,
		Age:             strconv.Itoa(p.Age),
		Hypertension:    strconv.Itoa(p.Hypertension),
		HeartDisease:    strconv.Itoa(p.HeartDisease),
		EverMarried:     p.EverMarried,
		WorkType:        p.WorkType,
		ResidenceType:   p.ResidenceType,
		AvgGlucoseLevel: strconv.FormatFloat(p.AvgGlucoseLevel, 'f', -1, 64),
		SmokingStatus:   p.SmokingStatus,
		Stroke:          strconv.Itoa(p.Stroke),
	}
	if p.BMI != nil {
		f.BMI = strconv.FormatFloat(*p.BMI, 'f', -1, 64)
	}
	return f
}

// Patient converts a bound form, applying the range checks the tags
// cannot express
func (f PatientForm) Patient() (domain.Patient, error) {
	verr := &domain.ValidationError{}
	p := domain.Patient{
		PatientID:     strings.TrimSpace(f.PatientID),
		Gender:        f.Gender,
		EverMarried:   f.EverMarried,
		WorkType:      f.WorkType,
		ResidenceType: f.ResidenceType,
		SmokingStatus: f.SmokingStatus,
	}
	p.Hypertension, _ = strconv.Atoi(f.Hypertension) // Guarded by oneof
	p.HeartDisease, _ = strconv.Atoi(f.HeartDisease)
	p.Stroke, _ = strconv.Atoi(f.Stroke)

	if age, err := strconv.Atoi(f.Age); err != nil || age < 0 || age > 120 {
		verr.Add("age", "Age must be between 0 and 120.")
	} else {
		p.Age = age
	}
	if glucose, err := strconv.ParseFloat(f.AvgGlucoseLevel, 64); err != nil || glucose < 0 {
		verr.Add("avg_glucose_level", "Average glucose level must be at least 0.")
	} else {
		p.AvgGlucoseLevel = glucose
	}
	if bmi := strings.TrimSpace(f.BMI); bmi != "" {
		if v, err := strconv.ParseFloat(bmi, 64); err != nil || v < 0 {
			verr.Add("bmi", "BMI must be at least 0.")
		} else {
			p.BMI = &v
		}
	}
	return p, verr.OrNil()
}

// bindForm binds the request body and translates validator failures into
// per-field messages
func bindForm(c *gin.Context, form any) error {
	err := c.ShouldBindWith(form, binding.Form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("bind form: %w", err)
	}
	verr := &domain.ValidationError{}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), fieldMessage(fe))
	}
	return verr
}

// fieldMessage is the user-facing text for one failed rule
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		return fmt.Sprintf("Must be at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	case "eqfield":
		return "Passwords must match."
	case "oneof":
		return "Not a valid choice."
	case "number", "numeric":
		return "Must be a number."
	default:
		return "Invalid value."
	}
}

// fieldErrors extracts the per-field messages of a validation failure
func fieldErrors(err error) map[string]string {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return map[string]string{}
}
