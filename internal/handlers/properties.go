package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/staybnb/staybnb-backend/internal/models"
	"github.com/staybnb/staybnb-backend/internal/services"
	"gorm.io/gorm"
)

// GetProperties returns the full property catalog, served from the Redis
// cache when warm
func GetProperties(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cached, err := services.GetCachedProperties(c.Request.Context()); err == nil {
			c.JSON(200, cached)
			return
		}

		var properties []models.Property
		if err := db.Find(&properties).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch properties"})
			return
		}

		services.CacheProperties(c.Request.Context(), properties)
		c.JSON(200, properties)
	}
}

// GetProperty returns a single property by id
func GetProperty(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid property id"})
			return
		}

		if cached, err := services.GetCachedProperty(c.Request.Context(), uint(id)); err == nil {
			c.JSON(200, cached)
			return
		}

		var property models.Property
		if err := db.First(&property, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Property not found"})
			return
		}

		services.CacheProperty(c.Request.Context(), &property)
		c.JSON(200, property)
	}
}

// SearchProperties filters the catalog by a case-insensitive substring on
// name or location, plus optional price range and guest count
func SearchProperties(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Property{})

		if term := strings.TrimSpace(c.Query("query")); term != "" {
			pattern := "%" + strings.ToLower(term) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(smart_location) LIKE ?", pattern, pattern)
		}
		if minPrice := c.Query("minPrice"); minPrice != "" {
			if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
				query = query.Where("price >= ?", v)
			}
		}
		if maxPrice := c.Query("maxPrice"); maxPrice != "" {
			if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
				query = query.Where("price <= ?", v)
			}
		}
		if guests := c.Query("guests"); guests != "" {
			if v, err := strconv.Atoi(guests); err == nil {
				query = query.Where("accommodates >= ?", v)
			}
		}

		var properties []models.Property
		if err := query.Find(&properties).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to search properties"})
			return
		}

		c.JSON(200, properties)
	}
}

// UploadPropertyImage stores an uploaded image (S3 or local fallback) and
// appends its URL to the property
func UploadPropertyImage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid property id"})
			return
		}

		var property models.Property
		if err := db.First(&property, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Property not found"})
			return
		}

		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(400, gin.H{"error": "Image file is required"})
			return
		}

		url, err := services.UploadImage(file, "properties")
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to upload image"})
			return
		}

		property.Images = append(property.Images, url)
		if err := db.Save(&property).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update property"})
			return
		}

		services.InvalidateProperty(c.Request.Context(), property.ID)
		c.JSON(200, property)
	}
}
