package validation

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"hospital-records-server/internal/models"
)

// PatientForm carries the raw string fields of an add/edit patient
// submission. Conversion and validation happen in ValidatePatient; handlers
// never touch unvalidated values.
type PatientForm struct {
	Gender          string `form:"gender"`
	Age             string `form:"age"`
	Hypertension    string `form:"hypertension"`
	EverMarried     string `form:"ever_married"`
	WorkType        string `form:"work_type"`
	ResidenceType   string `form:"residence_type"`
	AvgGlucoseLevel string `form:"avg_glucose_level"`
	BMI             string `form:"bmi"`
	SmokingStatus   string `form:"smoking_status"`
	Stroke          string `form:"stroke"`
}

var validate = newValidator()

// newValidator builds the validator used for patient records, reporting
// field names by their bson tag so rejections match the form field names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("bson"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

var enumChoices = map[string]string{
	"gender":         "Male, Female, Other",
	"ever_married":   "Yes, No",
	"work_type":      "Children, Govt_job, Never_worked, Private, Self-employed",
	"residence_type": "Rural, Urban",
	"smoking_status": "Formerly smoked, Never smoked, Smokes, Unknown",
	"hypertension":   "0, 1",
	"stroke":         "0, 1",
}

var rangeBounds = map[string]string{
	"age":               "0 and 120",
	"avg_glucose_level": "0 and 500",
	"bmi":               "0 and 100",
}

// ValidatePatient converts a raw form into a typed PatientRecord, checking
// type, range and enum membership for every field. All failures are
// aggregated so the caller can report every problem at once; the record is
// only returned when the whole form is valid.
func ValidatePatient(form PatientForm) (models.PatientRecord, FieldErrors) {
	var errs FieldErrors
	failed := make(map[string]bool)

	typeError := func(field, message string) {
		errs = append(errs, FieldError{Field: field, Kind: KindTypeMismatch, Message: message})
		failed[field] = true
	}
	// Binary flags are enums; a non-numeric value is the same membership
	// failure as an out-of-set number.
	enumError := func(field string) {
		errs = append(errs, FieldError{Field: field, Kind: KindEnumMismatch, Message: "must be one of: " + enumChoices[field]})
		failed[field] = true
	}

	rec := models.PatientRecord{
		Gender:        models.Gender(SanitizeString(form.Gender)),
		EverMarried:   models.MaritalStatus(SanitizeString(form.EverMarried)),
		WorkType:      models.WorkType(SanitizeString(form.WorkType)),
		ResidenceType: models.ResidenceType(SanitizeString(form.ResidenceType)),
		SmokingStatus: models.SmokingStatus(SanitizeString(form.SmokingStatus)),
	}

	if age, err := strconv.Atoi(strings.TrimSpace(form.Age)); err != nil {
		typeError("age", "age must be a whole number")
	} else {
		rec.Age = age
	}

	if glucose, err := strconv.ParseFloat(strings.TrimSpace(form.AvgGlucoseLevel), 64); err != nil {
		typeError("avg_glucose_level", "glucose level must be a number")
	} else {
		rec.AvgGlucoseLevel = glucose
	}

	if bmi, err := strconv.ParseFloat(strings.TrimSpace(form.BMI), 64); err != nil {
		typeError("bmi", "BMI must be a number")
	} else {
		rec.BMI = bmi
	}

	if hypertension, err := strconv.Atoi(strings.TrimSpace(form.Hypertension)); err != nil {
		enumError("hypertension")
	} else {
		rec.Hypertension = models.BinaryFlag(hypertension)
	}

	if stroke, err := strconv.Atoi(strings.TrimSpace(form.Stroke)); err != nil {
		enumError("stroke")
	} else {
		rec.Stroke = models.BinaryFlag(stroke)
	}

	if err := validate.Struct(rec); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				field := fe.Field()
				if failed[field] {
					// A parse failure already covers this field.
					continue
				}
				kind, message := classifyTag(field, fe.Tag())
				errs = append(errs, FieldError{Field: field, Kind: kind, Message: message})
			}
		} else {
			errs = append(errs, FieldError{Field: "patient", Kind: KindInvalidFormat, Message: err.Error()})
		}
	}

	if len(errs) > 0 {
		return models.PatientRecord{}, errs
	}
	return rec, nil
}

// classifyTag maps a validator tag failure onto the rejection taxonomy.
func classifyTag(field, tag string) (Kind, string) {
	switch tag {
	case "gte", "lte":
		return KindRangeError, "must be between " + rangeBounds[field]
	case "oneof", "required":
		return KindEnumMismatch, "must be one of: " + enumChoices[field]
	default:
		return KindInvalidFormat, "invalid value"
	}
}
