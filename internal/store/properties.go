package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"realty_hub/internal/geo"
	"realty_hub/internal/models"
)

// PropertyFilter narrows property listings. Zero fields do not filter.
// Bedrooms and Bathrooms are minimums.
type PropertyFilter struct {
	AgentID      uint
	Location     string
	MinPrice     *float64
	MaxPrice     *float64
	PropertyType models.PropertyType
	Bedrooms     *int
	Bathrooms    *int
	Status       models.ListingStatus

	Near     *geo.Point
	RadiusKm float64

	Skip  int
	Limit int
}

func (s *Store) CreateProperty(ctx context.Context, p *models.Property) error {
	if err := s.conn(ctx).Create(p).Error; err != nil {
		return translate(err, "Property")
	}
	return s.conn(ctx).Preload("Agent").Preload("Images").First(p, p.ID).Error
}

func (s *Store) GetProperty(ctx context.Context, id uint) (*models.Property, error) {
	var p models.Property
	err := s.conn(ctx).Preload("Agent").Preload("Images").First(&p, id).Error
	if err != nil {
		return nil, translate(err, "Property")
	}
	return &p, nil
}

// ListProperties applies f. With a radius filter the distance check runs in
// memory, so paging is applied after it.
func (s *Store) ListProperties(ctx context.Context, f PropertyFilter) ([]models.Property, error) {
	skip, limit := clampPage(f.Skip, f.Limit)

	q := s.conn(ctx).Model(&models.Property{}).Preload("Agent").Preload("Images").Order("id")
	if f.AgentID != 0 {
		q = q.Where("agent_id = ?", f.AgentID)
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		q = q.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(loc)+"%")
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.PropertyType != "" {
		q = q.Where("property_type = ?", f.PropertyType)
	}
	if f.Bedrooms != nil {
		q = q.Where("bedrooms >= ?", *f.Bedrooms)
	}
	if f.Bathrooms != nil {
		q = q.Where("bathrooms >= ?", *f.Bathrooms)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var props []models.Property
	if f.Near == nil {
		err := q.Offset(skip).Limit(limit).Find(&props).Error
		return props, translate(err, "Property")
	}

	if err := q.Where("geometry IS NOT NULL").Find(&props).Error; err != nil {
		return nil, translate(err, "Property")
	}
	var within []models.Property
	for _, p := range props {
		pt, err := geo.PointFromWKB(p.Geometry)
		if err != nil {
			continue
		}
		if geo.DistanceKm(*f.Near, pt) <= f.RadiusKm {
			within = append(within, p)
		}
	}
	if skip >= len(within) {
		return []models.Property{}, nil
	}
	end := skip + limit
	if end > len(within) {
		end = len(within)
	}
	return within[skip:end], nil
}

// UpdateProperty overwrites the listing's descriptive fields. AgentID and
// CreatedAt are create-only columns.
func (s *Store) UpdateProperty(ctx context.Context, p *models.Property) error {
	err := s.conn(ctx).Model(p).
		Select("Title", "Description", "Price", "Location", "PropertyType",
			"Bedrooms", "Bathrooms", "Size", "Status", "Geometry").
		Updates(p).Error
	if err != nil {
		return translate(err, "Property")
	}
	return s.conn(ctx).Preload("Agent").Preload("Images").First(p, p.ID).Error
}

// DeleteProperty removes the property with its images, favorites and visit
// requests, returning the removed images.
func (s *Store) DeleteProperty(ctx context.Context, id uint) ([]models.Image, error) {
	var removed []models.Image
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Property{}, id).Error; err != nil {
			return err
		}
		images, err := deletePropertyTx(tx, id)
		removed = images
		return err
	})
	if err != nil {
		return nil, translate(err, "Property")
	}
	return removed, nil
}

func deletePropertyTx(tx *gorm.DB, id uint) ([]models.Image, error) {
	var images []models.Image
	if err := tx.Where("property_id = ?", id).Find(&images).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("property_id = ?", id).Delete(&models.Image{}).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("property_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("property_id = ?", id).Delete(&models.VisitRequest{}).Error; err != nil {
		return nil, err
	}
	if err := tx.Delete(&models.Property{}, id).Error; err != nil {
		return nil, err
	}
	return images, nil
}
