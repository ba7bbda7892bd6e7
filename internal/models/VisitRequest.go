package models

import (
	"fmt"
	"strings"
	"time"

	"realty_hub/internal/apperr"
)

// VisitStatus is the lifecycle state of a visit request.
//
//	pending -> accepted
//	pending -> declined
//
// accepted and declined are terminal.
type VisitStatus string

const (
	VisitPending  VisitStatus = "pending"
	VisitAccepted VisitStatus = "accepted"
	VisitDeclined VisitStatus = "declined"
)

var visitTransitions = map[VisitStatus][]VisitStatus{
	VisitPending:  {VisitAccepted, VisitDeclined},
	VisitAccepted: nil,
	VisitDeclined: nil,
}

// ParseVisitStatus normalizes s and rejects unknown statuses.
func ParseVisitStatus(s string) (VisitStatus, error) {
	st := VisitStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", apperr.Validation(fmt.Sprintf("invalid visit request status %q", s))
	}
	return st, nil
}

func (s VisitStatus) IsValid() bool {
	_, ok := visitTransitions[s]
	return ok
}

func (s VisitStatus) IsTerminal() bool {
	return s.IsValid() && len(visitTransitions[s]) == 0
}

// CanTransitionTo returns an InvalidTransition error unless next is a legal
// successor of s.
func (s VisitStatus) CanTransitionTo(next VisitStatus) error {
	for _, allowed := range visitTransitions[s] {
		if allowed == next {
			return nil
		}
	}
	return apperr.InvalidTransition(fmt.Sprintf("cannot move visit request from %s to %s", s, next))
}

// VisitRequest is a buyer's request to view a property. Only Status changes
// after creation.
type VisitRequest struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	PropertyID uint        `gorm:"index;not null;<-:create" json:"property_id"`
	UserID     uint        `gorm:"index;not null;<-:create" json:"user_id"`
	Email      string      `gorm:"not null;<-:create" json:"email"`
	Message    *string     `gorm:"<-:create" json:"message,omitempty"`
	VisitDate  time.Time   `gorm:"<-:create" json:"visit_date"`
	VisitTime  time.Time   `gorm:"<-:create" json:"visit_time"`
	CreatedAt  time.Time   `gorm:"<-:create" json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Status     VisitStatus `gorm:"type:varchar(16);index;not null" json:"status"`

	User     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
	Property *Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE;" json:"-"`
}

// WithStatus returns a copy of v moved to next, leaving v untouched.
func (v VisitRequest) WithStatus(next VisitStatus) (VisitRequest, error) {
	if !next.IsValid() {
		return v, apperr.Validation(fmt.Sprintf("invalid visit request status %q", next))
	}
	if err := v.Status.CanTransitionTo(next); err != nil {
		return v, err
	}
	v.Status = next
	return v, nil
}
