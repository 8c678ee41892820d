package systems

import (
	"errors"
	"testing"

	"github.com/gonewx/valkyrie/pkg/gfx"
	"github.com/gonewx/valkyrie/pkg/grid"
	"github.com/gonewx/valkyrie/pkg/movement"
)

// groupRank 渲染分组的期望顺序
var groupRank = map[gfx.ShaderKey]int{
	gfx.ShaderBackground: 0,
	gfx.ShaderTile:       1,
	gfx.ShaderIndicator:  2,
	gfx.ShaderCharacter:  3,
}

func assertOrdered(t *testing.T, shaders []gfx.ShaderKey) {
	t.Helper()
	for i := 1; i < len(shaders); i++ {
		if groupRank[shaders[i-1]] > groupRank[shaders[i]] {
			t.Fatalf("draw %d (%s) after %s breaks background→tiles→indicators→units order",
				i, shaders[i], shaders[i-1])
		}
	}
}

func countShader(shaders []gfx.ShaderKey, key gfx.ShaderKey) int {
	n := 0
	for _, s := range shaders {
		if s == key {
			n++
		}
	}
	return n
}

func TestRenderOrderWithIndicators(t *testing.T) {
	s := newTestScene(t)
	res, err := movement.Calculate(mustRegistry(t), grid.Cell{}, 3, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.overlay.FromReachableSet(res.Set); err != nil {
		t.Fatal(err)
	}

	s.rec.Reset()
	if err := s.composer().Render(); err != nil {
		t.Fatalf("Render error: %v", err)
	}

	shaders := s.rec.DrawShaders()
	assertOrdered(t, shaders)

	if got := countShader(shaders, gfx.ShaderBackground); got != 1 {
		t.Errorf("background draws = %d, want 1", got)
	}
	if got := countShader(shaders, gfx.ShaderTile); got != 81 {
		t.Errorf("tile draws = %d, want 81", got)
	}
	if got := countShader(shaders, gfx.ShaderIndicator); got != res.Set.Len() {
		t.Errorf("indicator draws = %d, want %d", got, res.Set.Len())
	}
	if got := countShader(shaders, gfx.ShaderCharacter); got != 1 {
		t.Errorf("unit draws = %d, want 1", got)
	}
	if len(s.rec.Violations) != 0 {
		t.Errorf("violations: %v", s.rec.Violations)
	}
}

// TestEachGroupUnderOwnShader 每个分组独立启用/禁用一次着色器
func TestEachGroupUnderOwnShader(t *testing.T) {
	s := newTestScene(t)
	if _, err := s.overlay.FromReachableSet(movement.NewReachableSet(grid.Cell{Row: 0, Col: 1})); err != nil {
		t.Fatal(err)
	}
	s.rec.Reset()
	if err := s.composer().Render(); err != nil {
		t.Fatal(err)
	}

	var enables []gfx.ShaderKey
	for _, c := range s.rec.Calls {
		if c.Op == gfx.OpEnableShader {
			enables = append(enables, c.Shader)
		}
	}
	want := []gfx.ShaderKey{gfx.ShaderBackground, gfx.ShaderTile, gfx.ShaderIndicator, gfx.ShaderCharacter}
	if len(enables) != len(want) {
		t.Fatalf("enables = %v, want %v", enables, want)
	}
	for i := range want {
		if enables[i] != want[i] {
			t.Errorf("enable[%d] = %s, want %s", i, enables[i], want[i])
		}
	}
	if s.rec.ActiveShader() != "" {
		t.Errorf("shader %s left enabled", s.rec.ActiveShader())
	}
}

func TestRenderSkipsAbsentOrSuppressedIndicators(t *testing.T) {
	s := newTestScene(t)

	s.rec.Reset()
	if err := s.composer().Render(); err != nil {
		t.Fatal(err)
	}
	if countShader(s.rec.DrawShaders(), gfx.ShaderIndicator) != 0 {
		t.Error("no indicators expected without a query")
	}

	if _, err := s.overlay.FromReachableSet(movement.NewReachableSet(grid.Cell{Row: 0, Col: 1})); err != nil {
		t.Fatal(err)
	}
	s.overlay.SetSuppressed(true)
	s.rec.Reset()
	if err := s.composer().Render(); err != nil {
		t.Fatal(err)
	}
	shaders := s.rec.DrawShaders()
	if countShader(shaders, gfx.ShaderIndicator) != 0 {
		t.Error("suppressed indicators should not be drawn")
	}
	assertOrdered(t, shaders)
}

func TestTilesDrawnInGivenOrder(t *testing.T) {
	s := newTestScene(t)
	s.rec.Reset()
	if err := s.composer().Render(); err != nil {
		t.Fatal(err)
	}

	i := 0
	for _, d := range s.rec.Draws() {
		if d.Shader != gfx.ShaderTile {
			continue
		}
		want := grid.Cell{Row: i / 9, Col: i % 9}
		pos, _ := s.layout.CellToWorld(want, grid.LayerTile)
		if d.Matrix[12] != pos.X || d.Matrix[13] != pos.Y {
			t.Fatalf("tile draw %d at (%v,%v), want %s", i, d.Matrix[12], d.Matrix[13], want)
		}
		i++
	}
}

// TestRenderFailureReleasesShader 某分组启用失败时返回错误且没有遗留启用的着色器
func TestRenderFailureReleasesShader(t *testing.T) {
	s := newTestScene(t)
	s.rec.FailShader[gfx.ShaderCharacter] = errors.New("shader lost")

	s.rec.Reset()
	err := s.composer().Render()
	if err == nil {
		t.Fatal("expected render error")
	}
	if s.rec.ActiveShader() != "" {
		t.Errorf("shader %s left enabled", s.rec.ActiveShader())
	}
	if len(s.rec.Violations) != 0 {
		t.Errorf("violations: %v", s.rec.Violations)
	}
}

func mustRegistry(t *testing.T) *grid.Registry {
	t.Helper()
	reg, err := grid.Build(grid.DefaultLayout())
	if err != nil {
		t.Fatal(err)
	}
	return reg
}
