package models

import (
	"encoding/json"
	"testing"

	"realty_hub/internal/apperr"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole("  Agent ")
	if err != nil || r != RoleAgent {
		t.Fatalf("ParseRole = %q, %v", r, err)
	}
	if _, err := ParseRole("superuser"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestRoleUnmarshalJSON(t *testing.T) {
	var body struct {
		Role Role `json:"role"`
	}
	if err := json.Unmarshal([]byte(`{"role":"admin"}`), &body); err != nil || body.Role != RoleAdmin {
		t.Fatalf("got %q, %v", body.Role, err)
	}
	body.Role = RoleAgent
	if err := json.Unmarshal([]byte(`{"role":""}`), &body); err != nil || body.Role != "" {
		t.Fatalf("empty role should decode to zero value, got %q, %v", body.Role, err)
	}
	if err := json.Unmarshal([]byte(`{"role":"owner"}`), &body); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestRoleScanAndValue(t *testing.T) {
	var r Role
	if err := r.Scan([]byte("user")); err != nil || r != RoleUser {
		t.Fatalf("Scan = %q, %v", r, err)
	}
	if err := r.Scan("root"); err == nil {
		t.Fatal("expected Scan to reject unknown role")
	}
	if err := r.Scan(nil); err == nil {
		t.Fatal("expected Scan to reject null")
	}
	if _, err := Role("").Value(); err == nil {
		t.Fatal("expected Value to reject empty role")
	}
}

func TestVisitStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to VisitStatus
		ok       bool
	}{
		{VisitPending, VisitAccepted, true},
		{VisitPending, VisitDeclined, true},
		{VisitPending, VisitPending, false},
		{VisitAccepted, VisitDeclined, false},
		{VisitAccepted, VisitPending, false},
		{VisitDeclined, VisitAccepted, false},
	}
	for _, tc := range cases {
		err := tc.from.CanTransitionTo(tc.to)
		if tc.ok && err != nil {
			t.Errorf("%s -> %s: unexpected error %v", tc.from, tc.to, err)
		}
		if !tc.ok && apperr.KindOf(err) != apperr.KindInvalidTransition {
			t.Errorf("%s -> %s: got %v, want invalid transition", tc.from, tc.to, err)
		}
	}
}

func TestVisitStatusTerminal(t *testing.T) {
	if VisitPending.IsTerminal() {
		t.Error("pending is not terminal")
	}
	if !VisitAccepted.IsTerminal() || !VisitDeclined.IsTerminal() {
		t.Error("accepted and declined are terminal")
	}
	if VisitStatus("maybe").IsTerminal() {
		t.Error("unknown status is not terminal")
	}
}

func TestWithStatusLeavesOriginalUntouched(t *testing.T) {
	vr := VisitRequest{ID: 1, Status: VisitPending}
	next, err := vr.WithStatus(VisitAccepted)
	if err != nil {
		t.Fatalf("WithStatus: %v", err)
	}
	if next.Status != VisitAccepted || vr.Status != VisitPending {
		t.Fatalf("next=%s original=%s", next.Status, vr.Status)
	}

	if _, err := vr.WithStatus("maybe"); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("unknown status: got %v, want validation", err)
	}
	if _, err := next.WithStatus(VisitDeclined); apperr.KindOf(err) != apperr.KindInvalidTransition {
		t.Fatalf("terminal status: got %v, want invalid transition", err)
	}
}

func TestParseVisitStatus(t *testing.T) {
	st, err := ParseVisitStatus(" Accepted")
	if err != nil || st != VisitAccepted {
		t.Fatalf("got %q, %v", st, err)
	}
	if _, err := ParseVisitStatus("cancelled"); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("got %v, want validation", err)
	}
}
