package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/govgr-digital/profile-api/internal/config"
	"github.com/govgr-digital/profile-api/internal/logging"
	"github.com/govgr-digital/profile-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SeedProfiles contains sample submitted profiles for development environments
var SeedProfiles = []models.ProfileRecord{
	{
		FirstName:        "Γιώργος",
		LastName:         "Παπαδόπουλος",
		FatherName:       "Νικόλαος",
		MotherName:       "Μαρία",
		BirthDate:        "1985-03-12",
		BirthPlace:       "Αθήνα",
		IDType:           models.IDTypeNationalID,
		IDNumber:         "ΑΚ123456",
		IDIssueDate:      "2015-06-01",
		IDIssueAuthority: "Τ.Α. Αθηνών",
		AFM:              "123456789",
		AMKA:             "12038512345",
		DOY:              "Α' Αθηνών",
		Street:           "Σταδίου",
		StreetNumber:     "15",
		City:             "Αθήνα",
		PostalCode:       "10561",
		SubmittedAt:      time.Now().UTC(),
	},
	{
		FirstName:        "Ελένη",
		LastName:         "Κωνσταντίνου",
		FatherName:       "Δημήτριος",
		MotherName:       "Αικατερίνη",
		BirthDate:        "1992-11-03",
		BirthPlace:       "Θεσσαλονίκη",
		IDType:           models.IDTypePassport,
		IDNumber:         "AB1234567",
		IDIssueDate:      "2019-02-20",
		IDIssueAuthority: "Ε.Δ. Θεσσαλονίκης",
		AFM:              "987654321",
		AMKA:             "03119254321",
		DOY:              "Δ' Θεσσαλονίκης",
		Street:           "Τσιμισκή",
		StreetNumber:     "42",
		City:             "Θεσσαλονίκη",
		PostalCode:       "54623",
		SubmittedAt:      time.Now().UTC(),
	},
}

func main() {
	if err := logging.InitLogger(); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	if err := config.LoadConfig(); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	config.InitMongoDB()
	defer config.CloseMongoDB()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	collection := config.MongoDB.Collection(config.AppConfig.ProfileCollection)

	for _, profile := range SeedProfiles {
		filter := bson.M{"afm": profile.AFM}
		update := bson.M{"$set": profile}

		result, err := collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
		if err != nil {
			log.Fatalf("failed to seed profile %s: %v", profile.AFM, err)
		}

		if result.UpsertedCount > 0 {
			fmt.Printf("seeded profile for AFM %s\n", profile.AFM)
		} else {
			fmt.Printf("refreshed profile for AFM %s\n", profile.AFM)
		}
	}

	fmt.Printf("seeding complete: %d profiles\n", len(SeedProfiles))
}
