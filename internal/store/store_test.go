package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"realty_hub/internal/apperr"
	"realty_hub/internal/config"
	"realty_hub/internal/geo"
	"realty_hub/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := config.OpenDB(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "store.db"),
	})
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	s := New(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustUser(t *testing.T, s *Store, username string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Username: username, HashedPassword: "x", Role: role}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser(%s): %v", username, err)
	}
	return u
}

func mustProperty(t *testing.T, s *Store, agentID uint, title string, price float64) *models.Property {
	t.Helper()
	p := &models.Property{
		Title:        title,
		Location:     "Westlands, Nairobi",
		Price:        price,
		PropertyType: models.PropertyHouse,
		Bedrooms:     3,
		Bathrooms:    2,
		Status:       models.ListingAvailable,
		AgentID:      agentID,
	}
	if err := s.CreateProperty(context.Background(), p); err != nil {
		t.Fatalf("CreateProperty(%s): %v", title, err)
	}
	return p
}

func mustVisit(t *testing.T, s *Store, propertyID, userID uint) *models.VisitRequest {
	t.Helper()
	vr := &models.VisitRequest{
		PropertyID: propertyID,
		UserID:     userID,
		Email:      "buyer@example.com",
		VisitDate:  time.Now().Add(48 * time.Hour),
		VisitTime:  time.Now().Add(48 * time.Hour),
		Status:     models.VisitPending,
	}
	if err := s.CreateVisitRequest(context.Background(), vr); err != nil {
		t.Fatalf("CreateVisitRequest: %v", err)
	}
	return vr
}

func TestUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := mustUser(t, s, "ann@realty", models.RoleAgent)
	dup := &models.User{Username: "ann@realty", HashedPassword: "y", Role: models.RoleUser}
	if err := s.CreateUser(ctx, dup); apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("duplicate username: got %v", err)
	}

	got, err := s.GetUserByUsername(ctx, "ann@realty")
	if err != nil || got.ID != u.ID || got.Role != models.RoleAgent {
		t.Fatalf("GetUserByUsername = %+v, %v", got, err)
	}
	if _, err := s.GetUserByUsername(ctx, "ANN@realty"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("lookup must be exact: %v", err)
	}
	if _, err := s.GetUserByID(ctx, 999); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("missing user: %v", err)
	}

	created := got.CreatedAt
	got.Name = "Ann"
	got.Role = models.RoleAdmin
	got.CreatedAt = time.Now().Add(240 * time.Hour)
	if err := s.UpdateUser(ctx, got); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	reloaded, _ := s.GetUserByID(ctx, u.ID)
	if reloaded.Name != "Ann" || reloaded.Role != models.RoleAdmin {
		t.Fatalf("update not applied: %+v", reloaded)
	}
	if reloaded.CreatedAt.Sub(created).Abs() > time.Millisecond {
		t.Fatalf("created_at changed from %v to %v", created, reloaded.CreatedAt)
	}

	mustUser(t, s, "bo@realty", models.RoleUser)
	page, err := s.ListUsers(ctx, 1, 10)
	if err != nil || len(page) != 1 || page[0].Username != "bo@realty" {
		t.Fatalf("ListUsers skip=1 = %+v, %v", page, err)
	}
}

func TestPropertySearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	agent := mustUser(t, s, "agent@realty", models.RoleAgent)

	cheap := mustProperty(t, s, agent.ID, "Bungalow", 100)
	mustProperty(t, s, agent.ID, "Mansion", 900)
	flat := &models.Property{
		Title: "Flat", Location: "Kilimani", Price: 300,
		PropertyType: models.PropertyApartment, Bedrooms: 1, Bathrooms: 1,
		Status: models.ListingSold, AgentID: agent.ID,
	}
	if err := s.CreateProperty(ctx, flat); err != nil {
		t.Fatal(err)
	}
	if cheap.Agent == nil || cheap.Agent.ID != agent.ID {
		t.Fatalf("agent not preloaded: %+v", cheap.Agent)
	}

	maxPrice := 500.0
	got, err := s.ListProperties(ctx, PropertyFilter{MaxPrice: &maxPrice})
	if err != nil || len(got) != 2 {
		t.Fatalf("max_price: %d results, %v", len(got), err)
	}
	got, _ = s.ListProperties(ctx, PropertyFilter{Location: "westlands"})
	if len(got) != 2 {
		t.Fatalf("location: %d results", len(got))
	}
	got, _ = s.ListProperties(ctx, PropertyFilter{PropertyType: models.PropertyApartment})
	if len(got) != 1 || got[0].ID != flat.ID {
		t.Fatalf("property_type: %+v", got)
	}
	beds := 2
	got, _ = s.ListProperties(ctx, PropertyFilter{Bedrooms: &beds, Status: models.ListingAvailable})
	if len(got) != 2 {
		t.Fatalf("bedrooms+status: %d results", len(got))
	}
	got, _ = s.ListProperties(ctx, PropertyFilter{Skip: 1, Limit: 1})
	if len(got) != 1 || got[0].Title != "Mansion" {
		t.Fatalf("paging: %+v", got)
	}
}

func TestPropertyRadiusSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	agent := mustUser(t, s, "agent@realty", models.RoleAgent)

	near := mustProperty(t, s, agent.ID, "Near", 100)
	far := mustProperty(t, s, agent.ID, "Far", 100)
	mustProperty(t, s, agent.ID, "Nowhere", 100)

	var err error
	near.Geometry, err = geo.PointToWKB(json.RawMessage(`{"type":"Point","coordinates":[36.80,-1.27]}`))
	if err != nil {
		t.Fatal(err)
	}
	far.Geometry, _ = geo.PointToWKB(json.RawMessage(`{"type":"Point","coordinates":[39.66,-4.04]}`))
	for _, p := range []*models.Property{near, far} {
		if err := s.UpdateProperty(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	center := geo.Point{Lat: -1.2921, Lng: 36.8219}
	got, err := s.ListProperties(ctx, PropertyFilter{Near: &center, RadiusKm: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != near.ID {
		t.Fatalf("radius search = %+v", got)
	}
}

func TestFavorites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	agent := mustUser(t, s, "agent@realty", models.RoleAgent)
	buyer := mustUser(t, s, "buyer@realty", models.RoleUser)
	p := mustProperty(t, s, agent.ID, "Bungalow", 100)

	if _, err := s.AddFavorite(ctx, buyer.ID, p.ID); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}
	_, err := s.AddFavorite(ctx, buyer.ID, p.ID)
	if apperr.KindOf(err) != apperr.KindConflict || apperr.Message(err) != "Property already in favorites" {
		t.Fatalf("duplicate favorite: %v", err)
	}

	props, err := s.ListFavoriteProperties(ctx, buyer.ID)
	if err != nil || len(props) != 1 || props[0].ID != p.ID {
		t.Fatalf("ListFavoriteProperties = %+v, %v", props, err)
	}

	if err := s.RemoveFavorite(ctx, buyer.ID, p.ID); err != nil {
		t.Fatalf("RemoveFavorite: %v", err)
	}
	err = s.RemoveFavorite(ctx, buyer.ID, p.ID)
	if apperr.KindOf(err) != apperr.KindNotFound || apperr.Message(err) != "Favorite not found" {
		t.Fatalf("second remove: %v", err)
	}
}

func TestVisitRequestStatusCompareAndSet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	agent := mustUser(t, s, "agent@realty", models.RoleAgent)
	buyer := mustUser(t, s, "buyer@realty", models.RoleUser)
	p := mustProperty(t, s, agent.ID, "Bungalow", 100)
	vr := mustVisit(t, s, p.ID, buyer.ID)

	updated, err := s.UpdateVisitRequestStatus(ctx, vr.ID, models.VisitPending, models.VisitAccepted)
	if err != nil || updated.Status != models.VisitAccepted {
		t.Fatalf("first update = %+v, %v", updated, err)
	}
	if updated.CreatedAt.Sub(vr.CreatedAt).Abs() > time.Millisecond || updated.Email != vr.Email {
		t.Fatalf("immutable fields changed: %+v", updated)
	}

	// A second writer that also read "pending" loses.
	_, err = s.UpdateVisitRequestStatus(ctx, vr.ID, models.VisitPending, models.VisitDeclined)
	if apperr.KindOf(err) != apperr.KindInvalidTransition {
		t.Fatalf("stale update: %v", err)
	}

	forAgent, err := s.ListVisitRequestsForAgent(ctx, agent.ID)
	if err != nil || len(forAgent) != 1 {
		t.Fatalf("ListVisitRequestsForAgent = %+v, %v", forAgent, err)
	}
	own, _ := s.ListVisitRequestsByUser(ctx, buyer.ID)
	byProp, _ := s.ListVisitRequestsByProperty(ctx, p.ID)
	if len(own) != 1 || len(byProp) != 1 {
		t.Fatalf("own=%d byProperty=%d", len(own), len(byProp))
	}
}

func TestDeletePropertyCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	agent := mustUser(t, s, "agent@realty", models.RoleAgent)
	buyer := mustUser(t, s, "buyer@realty", models.RoleUser)
	p := mustProperty(t, s, agent.ID, "Bungalow", 100)

	img := &models.Image{URL: "/static/images/a.png", PropertyID: p.ID}
	if err := s.CreateImage(ctx, img); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddFavorite(ctx, buyer.ID, p.ID); err != nil {
		t.Fatal(err)
	}
	mustVisit(t, s, p.ID, buyer.ID)

	removed, err := s.DeleteProperty(ctx, p.ID)
	if err != nil {
		t.Fatalf("DeleteProperty: %v", err)
	}
	if len(removed) != 1 || removed[0].URL != img.URL {
		t.Fatalf("removed images = %+v", removed)
	}
	if _, err := s.GetImage(ctx, img.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("image survived: %v", err)
	}
	if favs, _ := s.ListFavoriteProperties(ctx, buyer.ID); len(favs) != 0 {
		t.Fatalf("favorites survived: %+v", favs)
	}
	if visits, _ := s.ListVisitRequestsByUser(ctx, buyer.ID); len(visits) != 0 {
		t.Fatalf("visit requests survived: %+v", visits)
	}
	if _, err := s.DeleteProperty(ctx, p.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("second delete: %v", err)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	agent := mustUser(t, s, "agent@realty", models.RoleAgent)
	buyer := mustUser(t, s, "buyer@realty", models.RoleUser)
	listed := mustProperty(t, s, agent.ID, "Bungalow", 100)

	img := &models.Image{URL: "/static/images/b.png", PropertyID: listed.ID}
	if err := s.CreateImage(ctx, img); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddFavorite(ctx, buyer.ID, listed.ID); err != nil {
		t.Fatal(err)
	}
	vr := mustVisit(t, s, listed.ID, buyer.ID)

	removed, err := s.DeleteUser(ctx, agent.ID)
	if err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if len(removed) != 1 {
		t.Fatalf("removed images = %+v", removed)
	}
	if _, err := s.GetProperty(ctx, listed.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("property survived: %v", err)
	}
	if _, err := s.GetVisitRequest(ctx, vr.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("visit request survived: %v", err)
	}
	if _, err := s.GetUserByID(ctx, buyer.ID); err != nil {
		t.Fatalf("buyer should survive: %v", err)
	}

	if _, err := s.DeleteUser(ctx, buyer.ID); err != nil {
		t.Fatalf("DeleteUser(buyer): %v", err)
	}
	if _, err := s.DeleteUser(ctx, buyer.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("second delete: %v", err)
	}
}

func TestDeleteImageMissing(t *testing.T) {
	s := newTestStore(t)
	if err := s.DeleteImage(context.Background(), 42); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("got %v", err)
	}
}

func TestClampPage(t *testing.T) {
	cases := []struct{ skip, limit, wantSkip, wantLimit int }{
		{0, 0, 0, DefaultLimit},
		{-3, 5, 0, 5},
		{10, 1000, 10, MaxLimit},
	}
	for _, tc := range cases {
		s, l := clampPage(tc.skip, tc.limit)
		if s != tc.wantSkip || l != tc.wantLimit {
			t.Errorf("clampPage(%d,%d) = %d,%d", tc.skip, tc.limit, s, l)
		}
	}
}

func TestTranslateDriverErrors(t *testing.T) {
	cases := map[string]struct {
		err  error
		want apperr.Kind
	}{
		"sqlite duplicate": {gorm.ErrDuplicatedKey, apperr.KindConflict},
		"pgx duplicate":    {fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), apperr.KindConflict},
		"pq duplicate":     {&pq.Error{Code: "23505"}, apperr.KindConflict},
		"pgx other":        {&pgconn.PgError{Code: "23503"}, apperr.KindInternal},
		"pq other":         {&pq.Error{Code: "23503"}, apperr.KindInternal},
		"missing row":      {gorm.ErrRecordNotFound, apperr.KindNotFound},
	}
	for name, tc := range cases {
		err := translate(tc.err, "User")
		if got := apperr.KindOf(err); got != tc.want {
			t.Errorf("%s: kind = %s, want %s", name, got, tc.want)
		}
		if tc.want != apperr.KindNotFound && !errors.Is(err, tc.err) {
			t.Errorf("%s: cause lost: %v", name, err)
		}
	}
}
