// Package authz decides whether a caller may perform an action on a resource.
// All ownership and role rules live in the table below; handlers resolve the
// identity and the target first, then ask the engine.
package authz

import (
	"fmt"

	"realty_hub/internal/apperr"
	"realty_hub/internal/auth"
	"realty_hub/internal/models"
)

type Action string

const (
	UserRead   Action = "user:read"
	UserUpdate Action = "user:update"
	UserDelete Action = "user:delete"

	PropertyRead   Action = "property:read"
	PropertyCreate Action = "property:create"
	PropertyUpdate Action = "property:update"
	PropertyDelete Action = "property:delete"

	ImageRead   Action = "image:read"
	ImageCreate Action = "image:create"
	ImageDelete Action = "image:delete"

	FavoriteManage Action = "favorite:manage"

	VisitCreate         Action = "visit:create"
	VisitListByProperty Action = "visit:list-property"
	VisitListOwn        Action = "visit:list-own"
	VisitListAgent      Action = "visit:list-agent"
	VisitUpdateStatus   Action = "visit:update-status"
)

// Resource carries the identifiers a rule compares against.
// OwnerID is the controlling user: the target user for user actions and the
// property's agent for property, image and visit-request actions.
// PathUserID is set when the route binds a user id.
type Resource struct {
	OwnerID    uint
	PathUserID *uint
}

// OwnedBy is shorthand for a resource whose controlling user is ownerID.
func OwnedBy(ownerID uint) Resource { return Resource{OwnerID: ownerID} }

// ForPathUser is shorthand for a route-bound user id.
func ForPathUser(userID uint) Resource { return Resource{PathUserID: &userID} }

type rule struct {
	public bool
	allow  func(id *auth.Identity, res Resource) bool
}

func isOwner(id *auth.Identity, res Resource) bool { return id.IsUser(res.OwnerID) }

func isPathUser(id *auth.Identity, res Resource) bool {
	return res.PathUserID != nil && id.IsUser(*res.PathUserID)
}

func isAdmin(id *auth.Identity) bool { return id.HasRole(models.RoleAdmin) }

var rules = map[Action]rule{
	UserRead:     {public: true},
	PropertyRead: {public: true},
	ImageRead:    {public: true},

	UserUpdate: {allow: isOwner},
	UserDelete: {allow: isOwner},

	PropertyCreate: {allow: func(id *auth.Identity, res Resource) bool {
		if !id.HasRole(models.RoleAgent) {
			return false
		}
		return res.PathUserID == nil || id.IsUser(*res.PathUserID)
	}},
	PropertyUpdate: {allow: func(id *auth.Identity, res Resource) bool {
		return isOwner(id, res) || isAdmin(id)
	}},
	PropertyDelete: {allow: func(id *auth.Identity, res Resource) bool {
		return isOwner(id, res) || isAdmin(id)
	}},

	ImageCreate: {allow: isOwner},
	ImageDelete: {allow: isOwner},

	FavoriteManage: {allow: isPathUser},

	VisitCreate: {allow: func(*auth.Identity, Resource) bool { return true }},
	VisitListByProperty: {allow: func(id *auth.Identity, res Resource) bool {
		return isPathUser(id, res) && isOwner(id, res)
	}},
	VisitListOwn: {allow: isPathUser},
	VisitListAgent: {allow: func(id *auth.Identity, res Resource) bool {
		return isPathUser(id, res) && id.HasRole(models.RoleAgent)
	}},
	VisitUpdateStatus: {allow: func(id *auth.Identity, res Resource) bool {
		return isAdmin(id) || isOwner(id, res)
	}},
}

// Engine evaluates the rule table. It holds no state.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// Authorize returns nil to allow, an Unauthenticated error when the action
// needs a caller and id is nil, and a Forbidden error otherwise.
// Unknown actions are denied.
func (e *Engine) Authorize(id *auth.Identity, action Action, res Resource) error {
	r, ok := rules[action]
	if !ok {
		return apperr.Forbidden(fmt.Sprintf("unknown action %q", action))
	}
	if r.public {
		return nil
	}
	if id == nil {
		return apperr.Unauthenticated("authentication required")
	}
	if !r.allow(id, res) {
		return apperr.Forbidden(deniedMessage(action))
	}
	return nil
}

// Transition authorizes a status change on vr (owned through prop) and
// returns the updated copy.
func (e *Engine) Transition(id *auth.Identity, vr models.VisitRequest, prop models.Property, next models.VisitStatus) (models.VisitRequest, error) {
	if vr.PropertyID != prop.ID {
		return vr, apperr.Internal("visit request does not belong to property", nil)
	}
	if err := e.Authorize(id, VisitUpdateStatus, OwnedBy(prop.AgentID)); err != nil {
		return vr, err
	}
	return vr.WithStatus(next)
}

func deniedMessage(action Action) string {
	switch action {
	case UserUpdate, UserDelete:
		return "Not authorized to modify this user"
	case PropertyCreate:
		return "Only agents can create property listings"
	case PropertyUpdate:
		return "Not authorized to update this property"
	case PropertyDelete:
		return "Not authorized to delete this property"
	case ImageCreate:
		return "Not authorized to upload images for this property"
	case ImageDelete:
		return "Not authorized to delete this image"
	case FavoriteManage:
		return "Not authorized to manage favorites for this user"
	case VisitListByProperty, VisitListOwn, VisitListAgent:
		return "Not authorized to view these visit requests"
	case VisitUpdateStatus:
		return "Not authorized to update this visit request"
	default:
		return "Not authorized"
	}
}
