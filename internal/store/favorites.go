package store

import (
	"context"

	"realty_hub/internal/apperr"
	"realty_hub/internal/models"
)

// AddFavorite fails with Conflict when the pair already exists.
func (s *Store) AddFavorite(ctx context.Context, userID, propertyID uint) (*models.Favorite, error) {
	fav := &models.Favorite{UserID: userID, PropertyID: propertyID}
	if err := s.conn(ctx).Create(fav).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Wrap(apperr.KindConflict, "Property already in favorites", err)
		}
		return nil, translate(err, "Favorite")
	}
	return fav, nil
}

// RemoveFavorite fails with NotFound when the pair does not exist.
func (s *Store) RemoveFavorite(ctx context.Context, userID, propertyID uint) error {
	res := s.conn(ctx).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return translate(res.Error, "Favorite")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Favorite not found")
	}
	return nil
}

// ListFavoriteProperties returns the properties a user has favorited,
// most recently favorited first.
func (s *Store) ListFavoriteProperties(ctx context.Context, userID uint) ([]models.Property, error) {
	var props []models.Property
	err := s.conn(ctx).
		Joins("JOIN favorites ON favorites.property_id = properties.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Preload("Agent").Preload("Images").
		Find(&props).Error
	return props, translate(err, "Favorite")
}
