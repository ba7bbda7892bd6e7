package store

import (
	"context"

	"realty_hub/internal/apperr"
	"realty_hub/internal/models"
)

func (s *Store) CreateVisitRequest(ctx context.Context, vr *models.VisitRequest) error {
	return translate(s.conn(ctx).Create(vr).Error, "Visit request")
}

func (s *Store) GetVisitRequest(ctx context.Context, id uint) (*models.VisitRequest, error) {
	var vr models.VisitRequest
	if err := s.conn(ctx).First(&vr, id).Error; err != nil {
		return nil, translate(err, "Visit request")
	}
	return &vr, nil
}

func (s *Store) ListVisitRequestsByProperty(ctx context.Context, propertyID uint) ([]models.VisitRequest, error) {
	var out []models.VisitRequest
	err := s.conn(ctx).Where("property_id = ?", propertyID).Order("created_at DESC, id DESC").Find(&out).Error
	return out, translate(err, "Visit request")
}

func (s *Store) ListVisitRequestsByUser(ctx context.Context, userID uint) ([]models.VisitRequest, error) {
	var out []models.VisitRequest
	err := s.conn(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&out).Error
	return out, translate(err, "Visit request")
}

// ListVisitRequestsForAgent returns requests across every property the agent lists.
func (s *Store) ListVisitRequestsForAgent(ctx context.Context, agentID uint) ([]models.VisitRequest, error) {
	var out []models.VisitRequest
	err := s.conn(ctx).
		Joins("JOIN properties ON properties.id = visit_requests.property_id").
		Where("properties.agent_id = ?", agentID).
		Order("visit_requests.created_at DESC, visit_requests.id DESC").
		Find(&out).Error
	return out, translate(err, "Visit request")
}

// UpdateVisitRequestStatus moves a request from one status to another only if
// it is still in from. Losing a concurrent race is an invalid transition.
func (s *Store) UpdateVisitRequestStatus(ctx context.Context, id uint, from, to models.VisitStatus) (*models.VisitRequest, error) {
	res := s.conn(ctx).Model(&models.VisitRequest{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return nil, translate(res.Error, "Visit request")
	}
	if res.RowsAffected == 0 {
		return nil, apperr.InvalidTransition("visit request status was changed by another request")
	}
	return s.GetVisitRequest(ctx, id)
}
