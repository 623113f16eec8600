package models

import "time"

// Categorical patient attributes. Each enum matches the value set of the
// stroke-assessment dataset the records describe.
type (
	Gender        string
	MaritalStatus string
	WorkType      string
	ResidenceType string
	SmokingStatus string
)

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"

	MarriedYes MaritalStatus = "Yes"
	MarriedNo  MaritalStatus = "No"

	WorkChildren     WorkType = "Children"
	WorkGovtJob      WorkType = "Govt_job"
	WorkNeverWorked  WorkType = "Never_worked"
	WorkPrivate      WorkType = "Private"
	WorkSelfEmployed WorkType = "Self-employed"

	ResidenceRural ResidenceType = "Rural"
	ResidenceUrban ResidenceType = "Urban"

	SmokingFormerly SmokingStatus = "Formerly smoked"
	SmokingNever    SmokingStatus = "Never smoked"
	SmokingSmokes   SmokingStatus = "Smokes"
	SmokingUnknown  SmokingStatus = "Unknown"
)

// Enum value lists, used to render form selects and to validate membership.
var (
	Genders         = []Gender{GenderMale, GenderFemale, GenderOther}
	MaritalStatuses = []MaritalStatus{MarriedYes, MarriedNo}
	WorkTypes       = []WorkType{WorkChildren, WorkGovtJob, WorkNeverWorked, WorkPrivate, WorkSelfEmployed}
	ResidenceTypes  = []ResidenceType{ResidenceRural, ResidenceUrban}
	SmokingStatuses = []SmokingStatus{SmokingFormerly, SmokingNever, SmokingSmokes, SmokingUnknown}
)

// BinaryFlag encodes a yes/no attribute as 0/1, matching the dataset.
type BinaryFlag int

// Numeric field bounds, inclusive.
const (
	AgeMin     = 0
	AgeMax     = 120
	GlucoseMin = 0.0
	GlucoseMax = 500.0
	BMIMin     = 0.0
	BMIMax     = 100.0
)

// PatientRecord is one stroke-risk assessment subject, stored as a document
// in the patients collection. Every field must pass validation before a
// record is persisted; the store only attaches id and timestamps.
type PatientRecord struct {
	ID              string        `bson:"_id,omitempty" json:"id"`
	Gender          Gender        `bson:"gender" json:"gender" validate:"required,oneof=Male Female Other"`
	Age             int           `bson:"age" json:"age" validate:"gte=0,lte=120"`
	Hypertension    BinaryFlag    `bson:"hypertension" json:"hypertension" validate:"oneof=0 1"`
	EverMarried     MaritalStatus `bson:"ever_married" json:"everMarried" validate:"required,oneof=Yes No"`
	WorkType        WorkType      `bson:"work_type" json:"workType" validate:"required,oneof=Children Govt_job Never_worked Private Self-employed"`
	ResidenceType   ResidenceType `bson:"residence_type" json:"residenceType" validate:"required,oneof=Rural Urban"`
	AvgGlucoseLevel float64       `bson:"avg_glucose_level" json:"avgGlucoseLevel" validate:"gte=0,lte=500"`
	BMI             float64       `bson:"bmi" json:"bmi" validate:"gte=0,lte=100"`
	SmokingStatus   SmokingStatus `bson:"smoking_status" json:"smokingStatus" validate:"required,oneof='Formerly smoked' 'Never smoked' Smokes Unknown"`
	Stroke          BinaryFlag    `bson:"stroke" json:"stroke" validate:"oneof=0 1"`
	CreatedAt       time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updated_at" json:"updatedAt"`
}
