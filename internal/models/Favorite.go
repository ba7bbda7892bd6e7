package models

import "time"

// Favorite joins a user and a property. The composite primary key makes the
// pair unique.
type Favorite struct {
	UserID     uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	PropertyID uint      `gorm:"primaryKey;autoIncrement:false;index" json:"property_id"`
	CreatedAt  time.Time `json:"created_at"`

	User     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
	Property *Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE;" json:"-"`
}
