package systems

import (
	"errors"
	"testing"

	"github.com/gonewx/valkyrie/pkg/components"
	"github.com/gonewx/valkyrie/pkg/ecs"
	"github.com/gonewx/valkyrie/pkg/grid"
	"github.com/gonewx/valkyrie/pkg/movement"
)

func TestFromReachableSetCreatesOnePerCell(t *testing.T) {
	s := newTestScene(t)
	set := movement.NewReachableSet(grid.Cell{Row: 0, Col: 0}, grid.Cell{Row: 0, Col: 1}, grid.Cell{Row: 1, Col: 0})

	ids, err := s.overlay.FromReachableSet(set)
	if err != nil {
		t.Fatalf("FromReachableSet error: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("got %d indicators, want 3", len(ids))
	}

	for _, id := range ids {
		ind, ok := ecs.GetComponent[*components.IndicatorComponent](s.em, id)
		if !ok || !set.Contains(ind.Target) {
			t.Errorf("indicator %d target = %+v", id, ind)
			continue
		}
		rc, _ := ecs.GetComponent[*components.RenderComponent](s.em, id)
		want, _ := s.layout.CellToWorld(ind.Target, grid.LayerIndicator)
		if rc.Position() != want {
			t.Errorf("indicator at %v, want %v", rc.Position(), want)
		}
	}
}

// TestSecondQueryReplacesIndicators 第二次查询完全替换第一次的指示器
func TestSecondQueryReplacesIndicators(t *testing.T) {
	s := newTestScene(t)

	first, err := s.overlay.FromReachableSet(movement.NewReachableSet(
		grid.Cell{Row: 0, Col: 0}, grid.Cell{Row: 0, Col: 1}, grid.Cell{Row: 0, Col: 2},
	))
	if err != nil {
		t.Fatal(err)
	}
	before := s.em.EntityCount()

	second, err := s.overlay.FromReachableSet(movement.NewReachableSet(grid.Cell{Row: 5, Col: 5}))
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range first {
		if s.em.Exists(id) {
			t.Errorf("indicator %d from first query still exists", id)
		}
		for _, nid := range second {
			if nid == id {
				t.Errorf("indicator %d reused", id)
			}
		}
	}
	if got := s.em.EntityCount(); got != before-2 {
		t.Errorf("entity count = %d, want %d (no leaked visuals)", got, before-2)
	}
	all := ecs.GetEntitiesWith1[*components.IndicatorComponent](s.em)
	if len(all) != 1 || all[0] != second[0] {
		t.Errorf("indicator entities = %v, want %v", all, second)
	}
	if targets := s.overlay.Targets(); len(targets) != 1 || targets[0] != (grid.Cell{Row: 5, Col: 5}) {
		t.Errorf("Targets = %v", targets)
	}
}

func TestClearAndEmptySet(t *testing.T) {
	s := newTestScene(t)
	if _, err := s.overlay.FromReachableSet(movement.NewReachableSet(grid.Cell{Row: 1, Col: 1})); err != nil {
		t.Fatal(err)
	}
	s.overlay.Clear()
	if s.overlay.Len() != 0 || s.overlay.Visible() {
		t.Error("overlay should be empty after Clear")
	}

	ids, err := s.overlay.FromReachableSet(movement.NewReachableSet())
	if err != nil || len(ids) != 0 {
		t.Errorf("empty set: ids=%v err=%v", ids, err)
	}
}

func TestFromReachableSetOutOfBounds(t *testing.T) {
	s := newTestScene(t)
	before := s.em.EntityCount()

	_, err := s.overlay.FromReachableSet(movement.NewReachableSet(grid.Cell{Row: 0, Col: 0}, grid.Cell{Row: 20, Col: 0}))
	if !errors.Is(err, grid.ErrOutOfBounds) {
		t.Fatalf("error = %v, want ErrOutOfBounds", err)
	}
	if s.overlay.Len() != 0 || s.em.EntityCount() != before {
		t.Error("failed query must not leave partial indicators")
	}
}

func TestSuppressed(t *testing.T) {
	s := newTestScene(t)
	if _, err := s.overlay.FromReachableSet(movement.NewReachableSet(grid.Cell{Row: 1, Col: 1})); err != nil {
		t.Fatal(err)
	}
	s.overlay.SetSuppressed(true)
	if s.overlay.Visible() {
		t.Error("suppressed overlay should not be visible")
	}
	if s.overlay.Len() != 1 {
		t.Error("suppression must not discard indicators")
	}
	s.overlay.SetSuppressed(false)
	if !s.overlay.Visible() {
		t.Error("overlay should be visible again")
	}
}
