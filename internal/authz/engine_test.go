package authz

import (
	"testing"

	"realty_hub/internal/apperr"
	"realty_hub/internal/auth"
	"realty_hub/internal/models"
)

var (
	buyer  = &auth.Identity{UserID: 1, Role: models.RoleUser}
	agent  = &auth.Identity{UserID: 2, Role: models.RoleAgent}
	other  = &auth.Identity{UserID: 3, Role: models.RoleAgent}
	admin  = &auth.Identity{UserID: 4, Role: models.RoleAdmin}
	nobody *auth.Identity
)

func TestAuthorize(t *testing.T) {
	e := NewEngine()
	cases := []struct {
		name   string
		id     *auth.Identity
		action Action
		res    Resource
		want   apperr.Kind
		allow  bool
	}{
		{"anonymous reads property", nobody, PropertyRead, Resource{}, 0, true},
		{"anonymous reads user", nobody, UserRead, OwnedBy(1), 0, true},
		{"anonymous reads images", nobody, ImageRead, OwnedBy(2), 0, true},

		{"self update", buyer, UserUpdate, OwnedBy(1), 0, true},
		{"update other user", agent, UserUpdate, OwnedBy(1), apperr.KindForbidden, false},
		{"admin cannot update other user", admin, UserUpdate, OwnedBy(1), apperr.KindForbidden, false},
		{"anonymous delete user", nobody, UserDelete, OwnedBy(1), apperr.KindUnauthenticated, false},

		{"agent creates property", agent, PropertyCreate, Resource{}, 0, true},
		{"agent creates for self path", agent, PropertyCreate, ForPathUser(2), 0, true},
		{"agent creates for other path", agent, PropertyCreate, ForPathUser(3), apperr.KindForbidden, false},
		{"buyer creates property", buyer, PropertyCreate, Resource{}, apperr.KindForbidden, false},
		{"admin creates property", admin, PropertyCreate, Resource{}, apperr.KindForbidden, false},

		{"owner updates property", agent, PropertyUpdate, OwnedBy(2), 0, true},
		{"admin updates property", admin, PropertyUpdate, OwnedBy(2), 0, true},
		{"other agent updates property", other, PropertyUpdate, OwnedBy(2), apperr.KindForbidden, false},
		{"admin deletes property", admin, PropertyDelete, OwnedBy(2), 0, true},
		{"buyer deletes property", buyer, PropertyDelete, OwnedBy(2), apperr.KindForbidden, false},

		{"owner adds image", agent, ImageCreate, OwnedBy(2), 0, true},
		{"admin adds image", admin, ImageCreate, OwnedBy(2), apperr.KindForbidden, false},
		{"admin deletes image", admin, ImageDelete, OwnedBy(2), apperr.KindForbidden, false},

		{"own favorites", buyer, FavoriteManage, ForPathUser(1), 0, true},
		{"someone else's favorites", agent, FavoriteManage, ForPathUser(1), apperr.KindForbidden, false},
		{"favorites without path user", buyer, FavoriteManage, Resource{}, apperr.KindForbidden, false},

		{"any caller books visit", buyer, VisitCreate, OwnedBy(2), 0, true},
		{"anonymous books visit", nobody, VisitCreate, OwnedBy(2), apperr.KindUnauthenticated, false},

		{"owner lists property visits", agent, VisitListByProperty, Resource{OwnerID: 2, PathUserID: ptr(2)}, 0, true},
		{"path mismatch lists property visits", agent, VisitListByProperty, Resource{OwnerID: 2, PathUserID: ptr(3)}, apperr.KindForbidden, false},
		{"non-owner lists property visits", other, VisitListByProperty, Resource{OwnerID: 2, PathUserID: ptr(3)}, apperr.KindForbidden, false},

		{"own visit list", buyer, VisitListOwn, ForPathUser(1), 0, true},
		{"other visit list", admin, VisitListOwn, ForPathUser(1), apperr.KindForbidden, false},
		{"agent visit list", agent, VisitListAgent, ForPathUser(2), 0, true},
		{"buyer agent visit list", buyer, VisitListAgent, ForPathUser(1), apperr.KindForbidden, false},

		{"owner decides visit", agent, VisitUpdateStatus, OwnedBy(2), 0, true},
		{"admin decides visit", admin, VisitUpdateStatus, OwnedBy(2), 0, true},
		{"buyer decides visit", buyer, VisitUpdateStatus, OwnedBy(2), apperr.KindForbidden, false},

		{"unknown action", admin, Action("launch"), Resource{}, apperr.KindForbidden, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := e.Authorize(tc.id, tc.action, tc.res)
			if tc.allow {
				if err != nil {
					t.Fatalf("expected allow, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected deny")
			}
			if got := apperr.KindOf(err); got != tc.want {
				t.Fatalf("kind = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTransition(t *testing.T) {
	e := NewEngine()
	prop := models.Property{ID: 10, AgentID: 2}
	vr := models.VisitRequest{ID: 5, PropertyID: 10, UserID: 1, Status: models.VisitPending}

	if _, err := e.Transition(buyer, vr, prop, models.VisitAccepted); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("buyer: got %v", err)
	}

	got, err := e.Transition(agent, vr, prop, models.VisitAccepted)
	if err != nil {
		t.Fatalf("agent: %v", err)
	}
	if got.Status != models.VisitAccepted || vr.Status != models.VisitPending {
		t.Fatalf("got %s, original %s", got.Status, vr.Status)
	}

	if _, err := e.Transition(admin, got, prop, models.VisitDeclined); apperr.KindOf(err) != apperr.KindInvalidTransition {
		t.Fatalf("terminal: got %v", err)
	}
	if _, err := e.Transition(admin, vr, prop, "maybe"); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("bad status: got %v", err)
	}
	if _, err := e.Transition(nobody, vr, prop, models.VisitAccepted); apperr.KindOf(err) != apperr.KindUnauthenticated {
		t.Fatalf("anonymous: got %v", err)
	}
	if _, err := e.Transition(agent, vr, models.Property{ID: 11, AgentID: 2}, models.VisitAccepted); apperr.KindOf(err) != apperr.KindInternal {
		t.Fatalf("mismatched property: got %v", err)
	}
}

func ptr(v uint) *uint { return &v }
