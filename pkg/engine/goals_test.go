package engine

import "testing"

func TestTrackerMarkIfAchieved(t *testing.T) {
	tr := NewTracker([]Goal{
		{Name: "Fire", Category: "Elemental"},
		{Name: "Engine", Category: "Mechanical"},
	})

	if tr.Complete() {
		t.Error("tracker with pending goals must not be complete")
	}

	if !tr.MarkIfAchieved("Fire") {
		t.Error("marking a pending goal should report a transition")
	}

	// Idempotent: a second call is a no-op, not an error.
	if tr.MarkIfAchieved("fire") {
		t.Error("marking an achieved goal should be a no-op")
	}

	// Unknown names are ignored.
	if tr.MarkIfAchieved("Lava") {
		t.Error("marking a non-goal should be a no-op")
	}

	if tr.AchievedCount() != 1 {
		t.Errorf("achieved count = %d, want 1", tr.AchievedCount())
	}

	tr.MarkIfAchieved("Engine")
	if !tr.Complete() {
		t.Error("tracker should be complete after all goals achieved")
	}
}

func TestTrackerPendingDeclarationOrder(t *testing.T) {
	tr := NewTracker([]Goal{
		{Name: "Plant"},
		{Name: "Farm"},
		{Name: "Tractor"},
	})
	tr.MarkIfAchieved("Farm")

	pending := tr.Pending()
	if len(pending) != 2 {
		t.Fatalf("pending count = %d, want 2", len(pending))
	}
	if pending[0].Name != "Plant" || pending[1].Name != "Tractor" {
		t.Errorf("pending = [%s, %s], want [Plant, Tractor]", pending[0].Name, pending[1].Name)
	}
}

func TestTrackerDuplicateAndBlankGoals(t *testing.T) {
	tr := NewTracker([]Goal{
		{Name: "City", Category: "Political"},
		{Name: "city", Category: "Other"},
		{Name: "  "},
	})

	if tr.Len() != 1 {
		t.Fatalf("goal count = %d, want 1", tr.Len())
	}
	if tr.Goals()[0].Category != "Political" {
		t.Error("first declaration should win for duplicate goal names")
	}
}

func TestTrackerEmptyIsComplete(t *testing.T) {
	if !NewTracker(nil).Complete() {
		t.Error("tracker with no goals is trivially complete")
	}
}
