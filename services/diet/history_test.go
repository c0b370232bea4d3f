package diet

import (
	"testing"
	"time"

	"nutrilog/models"
)

func daysAt(clock string) []models.DietDay {
	return []models.DietDay{{Meals: []models.DayMeal{{RecipeID: "r", Time: clock}}}}
}

func TestEditHistory_PushDropsRedoTail(t *testing.T) {
	h := NewEditHistory("initial", daysAt("08:00"), time.Time{})
	h.Push("a", daysAt("09:00"), time.Time{})
	h.Push("b", daysAt("10:00"), time.Time{})

	if snap, ok := h.Undo(); !ok || snap.Label != "a" {
		t.Fatalf("Undo() = %+v, %v", snap, ok)
	}
	retained := h.Snapshots
	h.Push("c", daysAt("11:00"), time.Time{})

	if h.CanRedo() {
		t.Error("push must discard redo states")
	}
	if len(h.Snapshots) != 3 || h.Current().Label != "c" {
		t.Errorf("unexpected arena %+v", h.Snapshots)
	}
	if retained[2].Label != "b" {
		t.Error("earlier views of the arena must not be overwritten")
	}
}

func TestEditHistory_Bounded(t *testing.T) {
	h := NewEditHistory("initial", daysAt("08:00"), time.Time{})
	for i := 0; i < maxSnapshots+10; i++ {
		h.Push("edit", daysAt("09:00"), time.Time{})
	}
	if len(h.Snapshots) != maxSnapshots {
		t.Errorf("expected %d snapshots, got %d", maxSnapshots, len(h.Snapshots))
	}
	if h.Cursor != maxSnapshots-1 {
		t.Errorf("cursor = %d", h.Cursor)
	}
	undos := 0
	for h.CanUndo() {
		h.Undo()
		undos++
	}
	if undos != maxSnapshots-1 {
		t.Errorf("expected %d undos, got %d", maxSnapshots-1, undos)
	}
}
