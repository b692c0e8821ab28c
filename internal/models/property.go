package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Property struct {
	gorm.Model
	Name               string                      `json:"name" gorm:"column:name;not null"`
	SmartLocation      string                      `json:"smart_location" gorm:"column:smart_location;not null"`
	Price              float64                     `json:"price" gorm:"column:price;not null"`
	Images             datatypes.JSONSlice[string] `json:"images" gorm:"column:images"`
	Accommodates       int                         `json:"accommodates" gorm:"column:accommodates;default:1"`
	Bedrooms           int                         `json:"bedrooms" gorm:"column:bedrooms;default:1"`
	Bathrooms          int                         `json:"bathrooms" gorm:"column:bathrooms;default:1"`
	HostName           string                      `json:"host_name" gorm:"column:host_name"`
	HostThumbnailURL   string                      `json:"host_thumbnail_url" gorm:"column:host_thumbnail_url"`
	ReviewScoresRating float64                     `json:"review_scores_rating" gorm:"column:review_scores_rating;default:0"`
	NumberOfReviews    int                         `json:"number_of_reviews" gorm:"column:number_of_reviews;default:0"`
	GuestFavorite      bool                        `json:"guestFavorite" gorm:"column:guest_favorite;default:false"`
}

// TableName specifies the table name
func (Property) TableName() string {
	return "properties"
}
