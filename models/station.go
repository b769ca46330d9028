package models

import "time"

// GeoPoint represents a GeoJSON Point.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`               // Always "Point"
	Coordinates []float64 `bson:"coordinates" json:"coordinates"` // [longitude, latitude]
}

// OperatingHours holds the station's daily open/close times as "HH:MM" strings.
type OperatingHours struct {
	Open  string `bson:"open" json:"open"`
	Close string `bson:"close" json:"close"`
}

// BlockedSlot is an owner-declared unavailability window for one slot,
// independent of customer bookings.
type BlockedSlot struct {
	SlotNumber int       `bson:"slotNumber" json:"slotNumber"`
	StartTime  time.Time `bson:"startTime" json:"startTime"`
	EndTime    time.Time `bson:"endTime" json:"endTime"`
	Reason     string    `bson:"reason" json:"reason"`
}

// ChargingStation is a charging location with numbered slots 1..TotalSlots.
// AvailableSlots is a display counter maintained by payment side effects and
// the reconciliation worker; overlap correctness comes from the booking
// interval checks, not from this field.
type ChargingStation struct {
	ID             string         `bson:"id" json:"id"`
	Owner          string         `bson:"owner" json:"owner"`
	Name           string         `bson:"name" json:"name"`
	Description    string         `bson:"description,omitempty" json:"description,omitempty"`
	Address        string         `bson:"address" json:"address"`
	Location       GeoPoint       `bson:"location" json:"location"`
	TotalSlots     int            `bson:"totalSlots" json:"totalSlots"`
	AvailableSlots int            `bson:"availableSlots" json:"availableSlots"`
	ChargingRate   float64        `bson:"chargingRate" json:"chargingRate"` // per hour
	Amenities      []string       `bson:"amenities,omitempty" json:"amenities,omitempty"`
	OperatingHours OperatingHours `bson:"operatingHours" json:"operatingHours"`
	IsActive       bool           `bson:"isActive" json:"isActive"`
	BlockedSlots   []BlockedSlot  `bson:"blockedSlots" json:"blockedSlots,omitempty"`
	Images         []string       `bson:"images,omitempty" json:"images,omitempty"`
	CreatedAt      time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// StationStats aggregates booking counts and revenue for one station.
type StationStats struct {
	TotalBookings     int64   `json:"totalBookings"`
	CompletedBookings int64   `json:"completedBookings"`
	ActiveBookings    int64   `json:"activeBookings"`
	TotalRevenue      float64 `json:"totalRevenue"`
	MonthlyRevenue    float64 `json:"monthlyRevenue"`
}
