package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/staybnb/staybnb-backend/internal/middleware"
	"github.com/staybnb/staybnb-backend/internal/models"
	"github.com/staybnb/staybnb-backend/internal/services"
	"github.com/staybnb/staybnb-backend/pkg/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Property{}, &models.Booking{}))
	return db
}

func setupRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	bookings := services.NewBookingService(db)
	hub := services.NewHub()
	go hub.Run()

	r := gin.New()
	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/signup", Signup(db))
	auth.POST("/login", Login(db))

	properties := api.Group("/properties")
	properties.GET("", GetProperties(db))
	properties.GET("/search", SearchProperties(db))
	properties.GET("/:id", GetProperty(db))

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware())
	bookingRoutes := protected.Group("/bookings")
	bookingRoutes.POST("", CreateBooking(db, bookings, hub))
	bookingRoutes.POST("/:id/confirm", ConfirmBooking(bookings, hub))
	bookingRoutes.POST("/:id/cancel", CancelBooking(bookings, hub))
	bookingRoutes.GET("/user", GetUserBookings(bookings))

	return r
}

func createTestUser(t *testing.T, db *gorm.DB, email string) (*models.User, string) {
	t.Helper()

	user := models.User{Name: "Test User", Email: email}
	require.NoError(t, user.SetPassword("hunter22"))
	require.NoError(t, db.Create(&user).Error)

	token, err := utils.GenerateToken(&user)
	require.NoError(t, err)
	return &user, token
}

func createTestProperty(t *testing.T, db *gorm.DB) *models.Property {
	t.Helper()

	property := models.Property{
		Name:          "Sea View Loft",
		SmartLocation: "Lisbon, Portugal",
		Price:         120,
		Accommodates:  4,
	}
	require.NoError(t, db.Create(&property).Error)
	return &property
}

func doRequest(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()

	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
