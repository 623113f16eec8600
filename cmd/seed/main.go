// Command seed loads demonstration users and sample patient records.
// Run it once after setting up the databases.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"hospital-records-server/internal/config"
	"hospital-records-server/internal/models"
	"hospital-records-server/internal/stores/patientstore"
	"hospital-records-server/internal/validation"
)

// Default password for every seeded account.
const seedPassword = "TestPassword123!"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using process environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	db, err := models.InitDB(models.DatabaseConfig{Path: cfg.Database.Path})
	if err != nil {
		log.Fatalf("Error connecting to user database: %v", err)
	}

	ctx := context.Background()
	store, err := patientstore.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatalf("Error connecting to patient store: %v", err)
	}
	defer store.Close(ctx)

	if err := seedUsers(db); err != nil {
		log.Fatalf("Error seeding users: %v", err)
	}
	if err := seedPatients(ctx, store); err != nil {
		log.Fatalf("Error seeding patients: %v", err)
	}
}

func seedUsers(db *gorm.DB) error {
	var existing models.User
	err := db.Where("username = ?", "doctor1").First(&existing).Error
	if err == nil {
		fmt.Println("Test users already exist, skipping...")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	users := []models.User{
		{Username: "doctor1", Email: "doctor1@hospital.test", FullName: "Dr. James Smith", Role: models.RoleDoctor, IsActive: true},
		{Username: "doctor2", Email: "doctor2@hospital.test", FullName: "Dr. Sarah Johnson", Role: models.RoleDoctor, IsActive: true},
		{Username: "admin", Email: "admin@hospital.test", FullName: "Admin User", Role: models.RoleAdmin, IsActive: true},
	}

	for i := range users {
		if err := users[i].SetPassword(seedPassword); err != nil {
			return err
		}
		if err := db.Create(&users[i]).Error; err != nil {
			return err
		}
		fmt.Printf("Created user: %s\n", users[i].Username)
	}
	fmt.Printf("Created %d test users\n", len(users))
	return nil
}

// seedPatients inserts sample records through the same validation path as
// the add-patient form.
func seedPatients(ctx context.Context, store *patientstore.Store) error {
	count, err := store.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		fmt.Println("Patient records already exist, skipping...")
		return nil
	}

	samples := []validation.PatientForm{
		{Gender: "Male", Age: "67", Hypertension: "0", EverMarried: "Yes", WorkType: "Private", ResidenceType: "Urban", AvgGlucoseLevel: "228.69", BMI: "36.6", SmokingStatus: "Formerly smoked", Stroke: "1"},
		{Gender: "Female", Age: "61", Hypertension: "0", EverMarried: "Yes", WorkType: "Self-employed", ResidenceType: "Rural", AvgGlucoseLevel: "202.21", BMI: "28.1", SmokingStatus: "Never smoked", Stroke: "1"},
		{Gender: "Male", Age: "80", Hypertension: "0", EverMarried: "Yes", WorkType: "Private", ResidenceType: "Rural", AvgGlucoseLevel: "105.92", BMI: "32.5", SmokingStatus: "Never smoked", Stroke: "1"},
		{Gender: "Female", Age: "49", Hypertension: "0", EverMarried: "Yes", WorkType: "Private", ResidenceType: "Urban", AvgGlucoseLevel: "171.23", BMI: "34.4", SmokingStatus: "Smokes", Stroke: "0"},
		{Gender: "Female", Age: "79", Hypertension: "1", EverMarried: "Yes", WorkType: "Self-employed", ResidenceType: "Rural", AvgGlucoseLevel: "174.12", BMI: "24", SmokingStatus: "Never smoked", Stroke: "0"},
		{Gender: "Male", Age: "3", Hypertension: "0", EverMarried: "No", WorkType: "Children", ResidenceType: "Rural", AvgGlucoseLevel: "95.12", BMI: "18", SmokingStatus: "Unknown", Stroke: "0"},
	}

	created := 0
	for _, form := range samples {
		rec, errs := validation.ValidatePatient(form)
		if errs != nil {
			return fmt.Errorf("sample patient rejected: %s", errs.Error())
		}
		if _, err := store.Create(ctx, &rec); err != nil {
			return err
		}
		created++
	}
	fmt.Printf("Created %d sample patients\n", created)
	return nil
}
