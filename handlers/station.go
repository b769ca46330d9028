package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	stationRepo "chargebay/database/repository/station"
	"chargebay/models"
	stationSvc "chargebay/services/station"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StationSvc is wired in main before the router starts.
var StationSvc stationSvc.StationService

func handleStationError(c *gin.Context, logger *zap.Logger, err error) {
	var ve stationSvc.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
	case errors.Is(err, stationSvc.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, stationSvc.ErrActiveBookings):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, stationSvc.ErrSlotBooked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Station operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// CreateStationHandler registers a station for the authenticated owner.
func CreateStationHandler(c *gin.Context) {
	logger := getLogger(c)

	var req struct {
		Name           string                `json:"name" binding:"required"`
		Description    string                `json:"description"`
		Address        string                `json:"address" binding:"required"`
		Latitude       float64               `json:"latitude" binding:"required"`
		Longitude      float64               `json:"longitude" binding:"required"`
		TotalSlots     int                   `json:"totalSlots" binding:"required"`
		ChargingRate   float64               `json:"chargingRate" binding:"required"`
		Amenities      []string              `json:"amenities"`
		OperatingHours models.OperatingHours `json:"operatingHours"`
		Images         []string              `json:"images"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	st, err := StationSvc.Create(c.GetString("userID"), stationSvc.CreateStationInput{
		Name:           req.Name,
		Description:    req.Description,
		Address:        req.Address,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		TotalSlots:     req.TotalSlots,
		ChargingRate:   req.ChargingRate,
		Amenities:      req.Amenities,
		OperatingHours: req.OperatingHours,
		Images:         req.Images,
	})
	if err != nil {
		handleStationError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

// GetStationsHandler lists active stations, optionally within a radius of a
// point given by latitude, longitude and radius (km) query parameters.
func GetStationsHandler(c *gin.Context) {
	logger := getLogger(c)

	var geo *stationRepo.GeoFilter
	latStr, lngStr := c.Query("latitude"), c.Query("longitude")
	if latStr != "" && lngStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat != nil || errLng != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude must be numbers"})
			return
		}
		radius := 10.0
		if rStr := c.Query("radius"); rStr != "" {
			r, err := strconv.ParseFloat(rStr, 64)
			if err != nil || r <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "radius must be a positive number"})
				return
			}
			radius = r
		}
		geo = &stationRepo.GeoFilter{Latitude: lat, Longitude: lng, RadiusKm: radius}
	}

	stations, err := StationSvc.ListActive(geo)
	if err != nil {
		logger.Error("Failed to list stations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list stations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stations": stations, "count": len(stations)})
}

// GetStationHandler returns one station by id.
func GetStationHandler(c *gin.Context) {
	logger := getLogger(c)

	st, err := StationSvc.GetByID(c.Param("id"))
	if err != nil {
		handleStationError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// GetMyStationsHandler lists the authenticated owner's stations.
func GetMyStationsHandler(c *gin.Context) {
	logger := getLogger(c)

	stations, err := StationSvc.ListByOwner(c.GetString("userID"))
	if err != nil {
		logger.Error("Failed to list owner stations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list stations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stations": stations, "count": len(stations)})
}

// UpdateStationHandler applies a partial update to an owned station.
func UpdateStationHandler(c *gin.Context) {
	logger := getLogger(c)

	var req struct {
		Name           *string                `json:"name"`
		Description    *string                `json:"description"`
		Address        *string                `json:"address"`
		Latitude       *float64               `json:"latitude"`
		Longitude      *float64               `json:"longitude"`
		TotalSlots     *int                   `json:"totalSlots"`
		ChargingRate   *float64               `json:"chargingRate"`
		Amenities      []string               `json:"amenities"`
		OperatingHours *models.OperatingHours `json:"operatingHours"`
		IsActive       *bool                  `json:"isActive"`
		Images         []string               `json:"images"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	st, err := StationSvc.Update(c.GetString("userID"), c.Param("id"), stationSvc.UpdateStationInput{
		Name:           req.Name,
		Description:    req.Description,
		Address:        req.Address,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		TotalSlots:     req.TotalSlots,
		ChargingRate:   req.ChargingRate,
		Amenities:      req.Amenities,
		OperatingHours: req.OperatingHours,
		IsActive:       req.IsActive,
		Images:         req.Images,
	})
	if err != nil {
		handleStationError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// DeleteStationHandler removes an owned station with no active bookings.
func DeleteStationHandler(c *gin.Context) {
	logger := getLogger(c)

	if err := StationSvc.Delete(c.GetString("userID"), c.Param("id")); err != nil {
		handleStationError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Station deleted successfully"})
}

// BlockSlotHandler declares a maintenance window for one slot.
func BlockSlotHandler(c *gin.Context) {
	logger := getLogger(c)

	var req struct {
		SlotNumber int       `json:"slotNumber" binding:"required"`
		StartTime  time.Time `json:"startTime" binding:"required"`
		EndTime    time.Time `json:"endTime" binding:"required"`
		Reason     string    `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	st, err := StationSvc.BlockSlot(c.GetString("userID"), c.Param("id"), stationSvc.BlockSlotInput{
		SlotNumber: req.SlotNumber,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Reason:     req.Reason,
	})
	if err != nil {
		handleStationError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// StationStatsHandler returns booking counts and revenue for an owned station.
func StationStatsHandler(c *gin.Context) {
	logger := getLogger(c)

	st, stats, err := StationSvc.Stats(c.GetString("userID"), c.Param("id"))
	if err != nil {
		handleStationError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"station": st, "stats": stats})
}
