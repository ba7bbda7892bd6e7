package store

import (
	"context"

	"gorm.io/gorm"

	"realty_hub/internal/models"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.conn(ctx).Create(u).Error, "User")
}

func (s *Store) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err, "User")
	}
	return &u, nil
}

// GetUserByUsername matches the username exactly (case-sensitive).
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err, "User")
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context, skip, limit int) ([]models.User, error) {
	skip, limit = clampPage(skip, limit)
	var users []models.User
	err := s.conn(ctx).Order("id").Offset(skip).Limit(limit).Find(&users).Error
	return users, translate(err, "User")
}

// UpdateUser overwrites every mutable column, including zero values.
func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	err := s.conn(ctx).Model(u).
		Select("Username", "HashedPassword", "Name", "Surname", "Role").
		Updates(u).Error
	return translate(err, "User")
}

// DeleteUser removes the user, the user's favorites and visit requests, and
// every property they list together with that property's dependents.
// It returns the images that were removed so their files can be cleaned up.
func (s *Store) DeleteUser(ctx context.Context, id uint) ([]models.Image, error) {
	var removed []models.Image
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.User{}, id).Error; err != nil {
			return err
		}

		var propertyIDs []uint
		if err := tx.Model(&models.Property{}).Where("agent_id = ?", id).Pluck("id", &propertyIDs).Error; err != nil {
			return err
		}
		for _, pid := range propertyIDs {
			images, err := deletePropertyTx(tx, pid)
			if err != nil {
				return err
			}
			removed = append(removed, images...)
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.VisitRequest{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
	if err != nil {
		return nil, translate(err, "User")
	}
	return removed, nil
}
