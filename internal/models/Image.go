package models

import "time"

type Image struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	URL        string    `gorm:"not null" json:"url"` // storage path, served under /static when uploaded
	UploadDate time.Time `gorm:"autoCreateTime;<-:create" json:"upload_date"`
	PropertyID uint      `gorm:"index;not null;<-:create" json:"property_id"`
}
