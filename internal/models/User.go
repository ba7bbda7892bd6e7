package models

import "time"

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex;not null" json:"username"`
	HashedPassword string    `gorm:"not null" json:"-"`
	Name           string    `json:"name"`
	Surname        string    `json:"surname"`
	Role           Role      `gorm:"type:varchar(16);index;not null" json:"role"`
	CreatedAt      time.Time `gorm:"<-:create" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PublicUser is the view of a user embedded in other resources.
type PublicUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Role     Role   `json:"role"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Surname:  u.Surname,
		Role:     u.Role,
	}
}
