// Package patientstore is the MongoDB adapter for the patients collection.
// Field correctness is guaranteed upstream by the validation layer; the
// store only assigns ids and maintains the created_at/updated_at stamps.
package patientstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"hospital-records-server/internal/models"
)

// Collection is the patients collection name.
const Collection = "patients"

var (
	// ErrNotFound is returned when an id-addressed record does not exist.
	ErrNotFound = errors.New("patient record not found")
	// ErrUnavailable is returned when the document store cannot be reached.
	ErrUnavailable = errors.New("patient store unavailable")
)

// Store implements patient record CRUD against MongoDB.
type Store struct {
	client *mongo.Client
	col    *mongo.Collection
}

// New connects to MongoDB, verifies the connection and ensures the search
// indexes exist.
func New(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("patientstore: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("patientstore: ping: %w: %v", ErrUnavailable, err)
	}

	s := &Store{
		client: client,
		col:    client.Database(dbName).Collection(Collection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("patientstore: ensure indexes: %w", err)
	}
	return s, nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "gender", Value: 1}}},
		{Keys: bson.D{{Key: "stroke", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	_, err := s.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a validated record, assigning its id and timestamps.
// Returns the generated id.
func (s *Store) Create(ctx context.Context, rec *models.PatientRecord) (string, error) {
	now := time.Now().UTC()
	rec.ID = uuid.New().String()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if _, err := s.col.InsertOne(ctx, rec); err != nil {
		return "", wrapErr("insert patient", err)
	}
	return rec.ID, nil
}

// GetByID fetches one record by id.
func (s *Store) GetByID(ctx context.Context, id string) (*models.PatientRecord, error) {
	var rec models.PatientRecord
	err := s.col.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&rec)
	if err != nil {
		return nil, wrapErr("find patient", err)
	}
	return &rec, nil
}

// List returns records sorted newest-first, with skip/limit pagination.
func (s *Store) List(ctx context.Context, limit, skip int64) ([]models.PatientRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)
	return s.find(ctx, bson.D{}, opts)
}

// Count returns the total number of patient records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	n, err := s.col.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, wrapErr("count patients", err)
	}
	return n, nil
}

// CountStroke returns the number of records with a positive stroke flag.
func (s *Store) CountStroke(ctx context.Context) (int64, error) {
	n, err := s.col.CountDocuments(ctx, bson.D{{Key: "stroke", Value: 1}})
	if err != nil {
		return 0, wrapErr("count stroke cases", err)
	}
	return n, nil
}

// Update replaces the mutable fields of an existing record and refreshes
// updated_at. created_at is never touched.
func (s *Store) Update(ctx context.Context, id string, rec *models.PatientRecord) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "gender", Value: rec.Gender},
		{Key: "age", Value: rec.Age},
		{Key: "hypertension", Value: rec.Hypertension},
		{Key: "ever_married", Value: rec.EverMarried},
		{Key: "work_type", Value: rec.WorkType},
		{Key: "residence_type", Value: rec.ResidenceType},
		{Key: "avg_glucose_level", Value: rec.AvgGlucoseLevel},
		{Key: "bmi", Value: rec.BMI},
		{Key: "smoking_status", Value: rec.SmokingStatus},
		{Key: "stroke", Value: rec.Stroke},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}

	res, err := s.col.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, update)
	if err != nil {
		return wrapErr("update patient", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one record by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return wrapErr("delete patient", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Search returns records matching the equality filter.
func (s *Store) Search(ctx context.Context, filter SearchFilter) ([]models.PatientRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return s.find(ctx, filter.query(), opts)
}

func (s *Store) find(ctx context.Context, filter bson.D, opts ...options.Lister[options.FindOptions]) ([]models.PatientRecord, error) {
	cursor, err := s.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, wrapErr("find patients", err)
	}
	defer cursor.Close(ctx)

	results := []models.PatientRecord{}
	for cursor.Next(ctx) {
		var rec models.PatientRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, wrapErr("decode patient", err)
		}
		results = append(results, rec)
	}
	if err := cursor.Err(); err != nil {
		return nil, wrapErr("iterate patients", err)
	}
	return results, nil
}

// wrapErr translates driver errors into the store's domain errors.
func wrapErr(op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsTimeout(err), mongo.IsNetworkError(err):
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
