package store

import (
	"context"

	"realty_hub/internal/apperr"
	"realty_hub/internal/models"
)

func (s *Store) CreateImage(ctx context.Context, img *models.Image) error {
	return translate(s.conn(ctx).Create(img).Error, "Image")
}

func (s *Store) GetImage(ctx context.Context, id uint) (*models.Image, error) {
	var img models.Image
	if err := s.conn(ctx).First(&img, id).Error; err != nil {
		return nil, translate(err, "Image")
	}
	return &img, nil
}

func (s *Store) ListImages(ctx context.Context, propertyID uint) ([]models.Image, error) {
	var images []models.Image
	err := s.conn(ctx).Where("property_id = ?", propertyID).Order("id").Find(&images).Error
	return images, translate(err, "Image")
}

func (s *Store) DeleteImage(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&models.Image{}, id)
	if res.Error != nil {
		return translate(res.Error, "Image")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Image not found")
	}
	return nil
}
