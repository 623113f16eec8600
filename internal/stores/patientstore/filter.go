package patientstore

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"hospital-records-server/internal/models"
)

// SearchFilter selects patient records by equality on the searchable
// fields. Zero values mean "any".
type SearchFilter struct {
	Gender models.Gender
	Stroke *models.BinaryFlag
}

// query builds the bson filter document.
func (f SearchFilter) query() bson.D {
	q := bson.D{}
	if f.Gender != "" {
		q = append(q, bson.E{Key: "gender", Value: f.Gender})
	}
	if f.Stroke != nil {
		q = append(q, bson.E{Key: "stroke", Value: *f.Stroke})
	}
	return q
}
