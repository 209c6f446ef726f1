package domain

// Allowed values for the categorical patient fields.
var (
	Genders         = []string{"Male", "Female", "Other"}
	MaritalStatuses = []string{"Yes", "No"}
	WorkTypes       = []string{"Private", "Self-employed", "Govt_job", "children", "Never_worked"}
	ResidenceTypes  = []string{"Urban", "Rural"}
	SmokingStatuses = []string{"never smoked", "formerly smoked", "smokes", "Unknown"}
)

// Patient is a document in the patient record store
type Patient struct {
	ID              string   `json:"id"`                   // Store-generated identifier
	PatientID       string   `json:"patient_id,omitempty"` // External patient code
	Gender          string   `json:"gender"`               // Male, Female or Other
	Age             int      `json:"age"`                  // 0-120
	Hypertension    int      `json:"hypertension"`         // 0 or 1
	HeartDisease    int      `json:"heart_disease"`        // 0 or 1
	EverMarried     string   `json:"ever_married"`         // Yes or No
	WorkType        string   `json:"work_type"`            // One of WorkTypes
	ResidenceType   string   `json:"residence_type"`       // Urban or Rural
	AvgGlucoseLevel float64  `json:"avg_glucose_level"`    // >= 0
	BMI             *float64 `json:"bmi"`                  // Optional, >= 0
	SmokingStatus   string   `json:"smoking_status"`       // One of SmokingStatuses
	Stroke          int      `json:"stroke"`               // Outcome flag, 0 or 1
}
