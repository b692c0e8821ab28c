// Imports the property catalog from data.json into the database.
// Mirrors the fields of the public listing dataset the app was built
// around; missing values fall back to sensible defaults.
package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/staybnb/staybnb-backend/internal/database"
	"github.com/staybnb/staybnb-backend/internal/models"
)

type rawProperty struct {
	Name               string   `json:"name"`
	SmartLocation      string   `json:"smart_location"`
	Price              float64  `json:"price"`
	Images             []string `json:"images"`
	Accommodates       int      `json:"accommodates"`
	Bedrooms           int      `json:"bedrooms"`
	Bathrooms          int      `json:"bathrooms"`
	HostName           string   `json:"host_name"`
	HostThumbnailURL   string   `json:"host_thumbnail_url"`
	ReviewScoresRating float64  `json:"review_scores_rating"`
	NumberOfReviews    int      `json:"number_of_reviews"`
	GuestFavorite      bool     `json:"guestFavorite"`
}

type seedFile struct {
	Data []rawProperty `json:"data"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	path := os.Getenv("SEED_FILE")
	if path == "" {
		path = "data.json"
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", path, err)
	}

	var file seedFile
	if err := json.Unmarshal(raw, &file); err != nil {
		log.Fatalf("Failed to parse %s: %v", path, err)
	}

	properties := make([]models.Property, 0, len(file.Data))
	for _, p := range file.Data {
		property := models.Property{
			Name:               p.Name,
			SmartLocation:      p.SmartLocation,
			Price:              p.Price,
			Images:             p.Images,
			Accommodates:       p.Accommodates,
			Bedrooms:           p.Bedrooms,
			Bathrooms:          p.Bathrooms,
			HostName:           p.HostName,
			HostThumbnailURL:   p.HostThumbnailURL,
			ReviewScoresRating: p.ReviewScoresRating,
			NumberOfReviews:    p.NumberOfReviews,
			GuestFavorite:      p.GuestFavorite,
		}
		if property.Name == "" {
			property.Name = "No name provided"
		}
		if property.SmartLocation == "" {
			property.SmartLocation = "Location not available"
		}
		if property.Accommodates == 0 {
			property.Accommodates = 1
		}
		if property.Bedrooms == 0 {
			property.Bedrooms = 1
		}
		if property.Bathrooms == 0 {
			property.Bathrooms = 1
		}
		if property.HostName == "" {
			property.HostName = "Unknown Host"
		}
		properties = append(properties, property)
	}

	if len(properties) == 0 {
		log.Fatal("No properties found in seed file")
	}

	if err := db.CreateInBatches(properties, 100).Error; err != nil {
		log.Fatalf("Failed to import properties: %v", err)
	}

	log.Printf("Imported %d properties", len(properties))
}
