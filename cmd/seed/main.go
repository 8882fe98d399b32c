package main

import (
	"context"
	"log"

	"gorm.io/gorm"

	"diabeto/internal/auth"
	"diabeto/internal/classifier"
	"diabeto/internal/config"
	"diabeto/internal/db"
	"diabeto/internal/model"
	"diabeto/internal/repository"
)

// seedPatient is one demo record fed through the real classifier.
type seedPatient struct {
	name     string
	age      int
	sex      string
	glucose  float64
	bmi      float64
	pedigree float64
}

var demoPatients = []seedPatient{
	{"Alice Martin", 45, model.SexFemale, 180, 32.0, 0.6},
	{"Bernard Roche", 52, model.SexMale, 110, 24.5, 0.2},
	{"Chloe Diallo", 29, model.SexFemale, 95, 21.3, 0.35},
	{"Daniel Okafor", 61, model.SexMale, 155, 29.8, 0.55},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.Doctor{}, &model.Patient{}, &model.PredictionLog{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	mlModel, err := classifier.Load(cfg.ModelPath)
	if err != nil {
		log.Fatalf("Failed to load model artifact: %v", err)
	}

	doctorRepo := repository.NewDoctorRepository(gormDB)
	patientRepo := repository.NewPatientRepository(gormDB)
	ctx := context.Background()

	doctor, err := seedDoctor(ctx, doctorRepo)
	if err != nil {
		log.Fatalf("Failed to seed doctor: %v", err)
	}
	log.Printf("Demo clinician ready: %s (id=%d)", doctor.Username, doctor.ID)

	seeded := 0
	for _, p := range demoPatients {
		result := mlModel.Predict(p.glucose, p.bmi, float64(p.age), p.pedigree)
		age, glucose, bmi, pedigree := p.age, p.glucose, p.bmi, p.pedigree
		patient := &model.Patient{
			DoctorID: doctor.ID,
			Name:     p.name,
			Age:      &age,
			Sex:      p.sex,
			Glucose:  &glucose,
			BMI:      &bmi,
			Pedigree: &pedigree,
			Result:   &result,
		}
		logEntry := &model.PredictionLog{
			Result:       result,
			ModelVersion: mlModel.Version(),
		}
		if err := patientRepo.CreateWithLog(ctx, patient, logEntry); err != nil {
			log.Fatalf("Failed to seed patient %s: %v", p.name, err)
		}
		seeded++
	}

	log.Printf("Seed completed successfully: %d patients created", seeded)
	log.Println("Login with username 'demo' password 'demo-password'")
}

// seedDoctor creates the demo clinician unless it already exists.
func seedDoctor(ctx context.Context, repo repository.DoctorRepository) (*model.Doctor, error) {
	existing, err := repo.FindByUsername(ctx, "demo")
	if err == nil {
		return existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hashed, err := auth.HashPassword("demo-password")
	if err != nil {
		return nil, err
	}
	doctor := &model.Doctor{
		Username:     "demo",
		Email:        "demo@diabeto.local",
		PasswordHash: hashed,
	}
	if err := repo.Create(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}
