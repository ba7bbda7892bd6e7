package models

import "time"

type PropertyType string

const (
	PropertyHouse     PropertyType = "house"
	PropertyApartment PropertyType = "apartment"
)

func (t PropertyType) IsValid() bool {
	return t == PropertyHouse || t == PropertyApartment
}

// ListingStatus is whether a property is still on the market.
type ListingStatus string

const (
	ListingAvailable ListingStatus = "available"
	ListingSold      ListingStatus = "sold"
)

func (s ListingStatus) IsValid() bool {
	return s == ListingAvailable || s == ListingSold
}

// Property is a listing owned by exactly one agent.
// Geometry holds an optional WKB-encoded point; it is exposed as GeoJSON.
type Property struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Title        string        `gorm:"index;not null" json:"title"`
	Description  string        `json:"description"`
	Price        float64       `json:"price"`
	Location     string        `gorm:"index" json:"location"`
	PropertyType PropertyType  `gorm:"type:varchar(16);index;not null" json:"property_type"`
	Bedrooms     int           `json:"bedrooms"`
	Bathrooms    int           `json:"bathrooms"`
	Size         float64       `json:"size"`
	Status       ListingStatus `gorm:"type:varchar(16);not null" json:"status"`
	Geometry     []byte        `json:"-"`
	CreatedAt    time.Time     `gorm:"<-:create" json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`

	AgentID uint  `gorm:"index;not null;<-:create" json:"agent_id"`
	Agent   *User `gorm:"foreignKey:AgentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Images []Image `gorm:"foreignKey:PropertyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
