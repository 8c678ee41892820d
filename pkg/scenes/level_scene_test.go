package scenes

import (
	"errors"
	"strings"
	"testing"

	"github.com/gonewx/valkyrie/pkg/config"
	"github.com/gonewx/valkyrie/pkg/ecs"
	"github.com/gonewx/valkyrie/pkg/gfx"
	"github.com/gonewx/valkyrie/pkg/grid"
	"github.com/gonewx/valkyrie/pkg/input"
	"github.com/gonewx/valkyrie/pkg/vmath"
)

func loadJagd(t *testing.T) *config.LevelConfig {
	t.Helper()
	cfg, err := config.LoadDefaultLevel()
	if err != nil {
		t.Fatalf("LoadDefaultLevel: %v", err)
	}
	return cfg
}

func newJagdScene(t *testing.T) (*LevelScene, *gfx.Recorder) {
	t.Helper()
	rec := gfx.NewRecorder()
	s, err := NewLevelScene(loadJagd(t), rec)
	if err != nil {
		t.Fatalf("NewLevelScene: %v", err)
	}
	t.Cleanup(s.Dispose)
	return s, rec
}

func mustUnit(t *testing.T, s *LevelScene, name string) ecs.EntityID {
	t.Helper()
	id, ok := s.UnitByName(name)
	if !ok {
		t.Fatalf("unit %q not found", name)
	}
	return id
}

func eventKinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

func sameKinds(a, b []EventKind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestAutoSelectShowsInitialRange 加载后自动选中第一个单位：左上角移动力 3，共 10 格
func TestAutoSelectShowsInitialRange(t *testing.T) {
	s, _ := newJagdScene(t)

	if s.Selected() != mustUnit(t, s, "thomas") {
		t.Fatalf("Selected() = %d, want thomas", s.Selected())
	}
	if got := s.Overlay().Len(); got != 10 {
		t.Errorf("indicator count = %d, want 10", got)
	}

	want := strings.Join([]string{
		"@***.....",
		"***......",
		"**.......",
		"*........",
		"....##...",
		".........",
		".........",
		".........",
		"........@",
	}, "\n") + "\n"
	if got := s.Snapshot(); got != want {
		t.Errorf("Snapshot() =\n%s\nwant\n%s", got, want)
	}

	ev := s.Events()
	if len(ev) != 1 || ev[0].Kind != EventSelected || ev[0].Unit != "thomas" {
		t.Errorf("Events() = %v, want one selected event", ev)
	}
}

// TestMoveUpdatesOccupancyAndTransform 移动同时更新注册表占用与渲染变换
func TestMoveUpdatesOccupancyAndTransform(t *testing.T) {
	s, rec := newJagdScene(t)
	thomas := mustUnit(t, s, "thomas")
	s.Events()

	err := s.Update(0.016, []input.Action{
		input.ActionDown, input.ActionRight, input.ActionRight, input.ActionConfirm,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	dest := grid.Cell{Row: 1, Col: 2}
	if occ, _ := s.Registry().Occupant(dest); occ != thomas {
		t.Errorf("occupant of %s = %d, want thomas", dest, occ)
	}
	if occ, _ := s.Registry().Occupant(grid.Cell{}); occ != 0 {
		t.Errorf("origin still occupied by %d", occ)
	}
	u, _ := s.Unit(thomas)
	if u.Cell != dest || !u.HasActed {
		t.Errorf("unit = %+v, want at %s and acted", u, dest)
	}

	// 自动选择下一个未行动的单位
	if s.Selected() != mustUnit(t, s, "nawab") {
		t.Errorf("Selected() = %d, want nawab", s.Selected())
	}
	if got := eventKinds(s.Events()); !sameKinds(got, []EventKind{EventMoved, EventSelected}) {
		t.Errorf("events = %v", got)
	}

	rec.Reset()
	if err := s.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := vmath.Vec3{X: 0.4, Y: -0.2, Z: 0.3}
	found := false
	for _, d := range rec.Draws() {
		if d.Shader != gfx.ShaderCharacter {
			continue
		}
		p := d.Matrix.TransformPoint(vmath.Vec3{})
		if p.ApproxEqual(want, 1e-5) {
			found = true
		}
	}
	if !found {
		t.Errorf("no unit drawn at %v", want)
	}
}

// TestTurnAdvancesAfterAllUnitsAct 所有单位行动后进入下一回合
func TestTurnAdvancesAfterAllUnitsAct(t *testing.T) {
	s, _ := newJagdScene(t)

	mustUpdate := func(actions ...input.Action) {
		t.Helper()
		if err := s.Update(0.016, actions); err != nil {
			t.Fatalf("Update(%v): %v", actions, err)
		}
	}

	mustUpdate(input.ActionRight, input.ActionConfirm) // thomas → (0,1)
	s.Events()
	if s.Turn() != 1 {
		t.Fatalf("turn = %d after first move, want 1", s.Turn())
	}

	mustUpdate(input.ActionUp, input.ActionConfirm) // nawab → (7,8)
	if got := eventKinds(s.Events()); !sameKinds(got, []EventKind{EventMoved, EventTurnEnded, EventSelected}) {
		t.Errorf("events = %v", got)
	}
	if s.Turn() != 2 {
		t.Errorf("turn = %d, want 2", s.Turn())
	}
	for _, id := range s.Units() {
		if u, _ := s.Unit(id); u.HasActed {
			t.Errorf("unit %s should be ready in the new turn", u.Name)
		}
	}
	if s.Selected() != mustUnit(t, s, "thomas") || s.Cursor() != (grid.Cell{Row: 0, Col: 1}) {
		t.Errorf("new turn should select thomas at (0,1), cursor %s", s.Cursor())
	}
}

// TestConfirmUnreachableIsDenied 确认不可达格子：发出拒绝事件，保留选择
func TestConfirmUnreachableIsDenied(t *testing.T) {
	s, _ := newJagdScene(t)
	s.Events()

	if err := s.SetCursor(grid.Cell{Row: 5, Col: 5}); err != nil {
		t.Fatal(err)
	}
	if err := s.Confirm(); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	ev := s.Events()
	if len(ev) != 1 || ev[0].Kind != EventDenied || ev[0].Unit != "thomas" {
		t.Errorf("events = %v, want denied for thomas", ev)
	}
	if s.Selected() == 0 || s.Overlay().Len() != 10 {
		t.Error("denied confirm must keep the selection and indicators")
	}
}

// TestReselectReplacesIndicators 选中另一个单位时替换指示器（最后一次查询生效）
func TestReselectReplacesIndicators(t *testing.T) {
	s, _ := newJagdScene(t)
	before := s.Overlay().Indicators()

	_ = s.SetCursor(grid.Cell{Row: 8, Col: 8})
	if err := s.Confirm(); err != nil {
		t.Fatal(err)
	}
	if s.Selected() != mustUnit(t, s, "nawab") {
		t.Fatal("nawab should be selected")
	}
	if got := s.Overlay().Len(); got != 15 {
		t.Errorf("indicator count = %d, want 15", got)
	}
	for _, id := range before {
		if s.EntityManager().Exists(id) {
			t.Errorf("stale indicator %d still exists", id)
		}
	}
}

// TestCancelClearsSelection 取消清除选择和指示器，空闲时确认空格子被拒绝
func TestCancelClearsSelection(t *testing.T) {
	s, _ := newJagdScene(t)
	s.Events()

	if err := s.Update(0.016, []input.Action{input.ActionCancel}); err != nil {
		t.Fatal(err)
	}
	if s.Selected() != 0 || s.Overlay().Len() != 0 || s.Reachable() != nil {
		t.Error("cancel should clear selection, reachable set and indicators")
	}

	_ = s.SetCursor(grid.Cell{Row: 2, Col: 2})
	_ = s.Confirm()
	ev := s.Events()
	if got := eventKinds(ev); !sameKinds(got, []EventKind{EventCancelled, EventDenied}) {
		t.Fatalf("events = %v", got)
	}
	if ev[1].Unit != "" {
		t.Errorf("idle deny should not name a unit, got %q", ev[1].Unit)
	}
}

func TestExitAction(t *testing.T) {
	s, _ := newJagdScene(t)
	err := s.Update(0.016, []input.Action{input.ActionRight, input.ActionExit, input.ActionRight})
	if !errors.Is(err, ErrExit) {
		t.Fatalf("Update error = %v, want ErrExit", err)
	}
	if s.Cursor() != (grid.Cell{Row: 0, Col: 1}) {
		t.Errorf("actions after exit must not run, cursor %s", s.Cursor())
	}
}

func TestCursorClamped(t *testing.T) {
	s, _ := newJagdScene(t)
	_ = s.Update(0, []input.Action{input.ActionUp, input.ActionLeft, input.ActionLeft})
	if s.Cursor() != (grid.Cell{}) {
		t.Errorf("cursor = %s, want (0,0)", s.Cursor())
	}
	if err := s.SetCursor(grid.Cell{Row: 9, Col: 0}); !errors.Is(err, grid.ErrOutOfBounds) {
		t.Errorf("SetCursor out of bounds error = %v", err)
	}
}

// TestRenderOrderAndShaderPairing 渲染顺序固定，着色器成对启用/禁用
func TestRenderOrderAndShaderPairing(t *testing.T) {
	s, rec := newJagdScene(t)
	rec.Reset()

	if err := s.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(rec.Violations) != 0 {
		t.Fatalf("violations: %v", rec.Violations)
	}

	counts := map[gfx.ShaderKey]int{}
	var order []gfx.ShaderKey
	for _, sh := range rec.DrawShaders() {
		if len(order) == 0 || order[len(order)-1] != sh {
			order = append(order, sh)
		}
		counts[sh]++
	}
	wantOrder := []gfx.ShaderKey{gfx.ShaderBackground, gfx.ShaderTile, gfx.ShaderIndicator, gfx.ShaderCharacter}
	if len(order) != len(wantOrder) {
		t.Fatalf("group order = %v, want %v", order, wantOrder)
	}
	for i := range wantOrder {
		if order[i] != wantOrder[i] {
			t.Fatalf("group order = %v, want %v", order, wantOrder)
		}
	}
	// 两个障碍格不绘制
	if counts[gfx.ShaderTile] != 79 || counts[gfx.ShaderIndicator] != 10 || counts[gfx.ShaderCharacter] != 2 {
		t.Errorf("draw counts = %v", counts)
	}
	if rec.ActiveShader() != "" {
		t.Errorf("shader %s left enabled", rec.ActiveShader())
	}
}

// TestHiddenIndicatorsKeepEntities 隐藏指示器不销毁实体
func TestHiddenIndicatorsKeepEntities(t *testing.T) {
	s, rec := newJagdScene(t)
	s.SetIndicatorsHidden(true)
	rec.Reset()

	if err := s.Render(); err != nil {
		t.Fatal(err)
	}
	for _, sh := range rec.DrawShaders() {
		if sh == gfx.ShaderIndicator {
			t.Fatal("indicator group drawn while hidden")
		}
	}
	if s.Overlay().Len() != 10 || !s.Status().IndicatorsHidden {
		t.Error("hidden indicators should keep their entities")
	}
}

func TestDisposeReleasesResources(t *testing.T) {
	rec := gfx.NewRecorder()
	s, err := NewLevelScene(loadJagd(t), rec)
	if err != nil {
		t.Fatal(err)
	}
	s.Dispose()
	s.Dispose()

	if rec.LiveMeshes() != 0 || rec.LiveTextures() != 0 {
		t.Errorf("leaked meshes=%d textures=%d", rec.LiveMeshes(), rec.LiveTextures())
	}
	if s.EntityManager().EntityCount() != 0 {
		t.Errorf("%d entities left after dispose", s.EntityManager().EntityCount())
	}
	if len(rec.Violations) != 0 {
		t.Errorf("violations: %v", rec.Violations)
	}
	if err := s.Update(0, nil); err == nil {
		t.Error("Update after Dispose should fail")
	}
}

// TestResourceFailureReleasesAcquired 纹理加载失败时释放已创建的资源
func TestResourceFailureReleasesAcquired(t *testing.T) {
	cfg := loadJagd(t)
	rec := gfx.NewRecorder()
	rec.FailTexture[cfg.Textures.Unit] = errors.New("no such texture")

	_, err := NewLevelScene(cfg, rec)
	if !errors.Is(err, gfx.ErrResourceInit) {
		t.Fatalf("error = %v, want ErrResourceInit", err)
	}
	if rec.LiveMeshes() != 0 || rec.LiveTextures() != 0 {
		t.Errorf("leaked meshes=%d textures=%d", rec.LiveMeshes(), rec.LiveTextures())
	}
}

func TestAutoSelectDisabled(t *testing.T) {
	cfg := loadJagd(t)
	off := false
	cfg.AutoSelect = &off

	s, err := NewLevelScene(cfg, gfx.NewRecorder())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Dispose()

	if s.Selected() != 0 || s.Overlay().Len() != 0 {
		t.Fatal("nothing should be selected without autoSelect")
	}
	if s.Cursor() != (grid.Cell{}) {
		t.Errorf("cursor starts at %s, want first unit (0,0)", s.Cursor())
	}
	if err := s.Confirm(); err != nil {
		t.Fatal(err)
	}
	if s.Selected() != mustUnit(t, s, "thomas") {
		t.Error("confirm on a ready unit should select it")
	}

	// 移动后不会自动选择下一个单位
	_ = s.SetCursor(grid.Cell{Row: 0, Col: 3})
	if err := s.Confirm(); err != nil {
		t.Fatal(err)
	}
	if s.Selected() != 0 {
		t.Error("selection should stay empty after a move without autoSelect")
	}

	// 已行动的单位不能再次选择
	s.Events()
	_ = s.Confirm()
	if ev := s.Events(); len(ev) != 1 || ev[0].Kind != EventDenied {
		t.Errorf("events = %v, want denied", ev)
	}
}

func TestStatusString(t *testing.T) {
	s, _ := newJagdScene(t)
	st := s.Status()
	if st.Turn != 1 || st.Selected != "thomas" || st.Reachable != 10 {
		t.Errorf("Status() = %+v", st)
	}
	if !strings.Contains(st.String(), "thomas (10 tiles)") {
		t.Errorf("Status().String() = %q", st.String())
	}
}

// TestStayInPlaceEndsTurn 移动力为 0 的单位在原地确认即结束行动，回合可以推进
func TestStayInPlaceEndsTurn(t *testing.T) {
	cfg, err := config.ParseLevelConfig([]byte(`
id: stay
name: stay
autoSelect: false
units:
  - {name: a, row: 0, col: 0, budget: 2}
  - {name: b, row: 8, col: 8, budget: 0}
`), "stay")
	if err != nil {
		t.Fatalf("ParseLevelConfig: %v", err)
	}
	s, err := NewLevelScene(cfg, gfx.NewRecorder())
	if err != nil {
		t.Fatalf("NewLevelScene: %v", err)
	}
	defer s.Dispose()

	confirmAt := func(c grid.Cell) {
		t.Helper()
		if err := s.SetCursor(c); err != nil {
			t.Fatal(err)
		}
		if err := s.Confirm(); err != nil {
			t.Fatalf("Confirm at %s: %v", c, err)
		}
	}

	confirmAt(grid.Cell{Row: 0, Col: 0})
	confirmAt(grid.Cell{Row: 0, Col: 2})
	s.Events()

	b := mustUnit(t, s, "b")
	confirmAt(grid.Cell{Row: 8, Col: 8})
	if s.Selected() != b || s.Overlay().Len() != 1 {
		t.Fatalf("b should be selected with only its own cell reachable, overlay %d", s.Overlay().Len())
	}
	confirmAt(grid.Cell{Row: 8, Col: 8})

	ev := s.Events()
	if got := eventKinds(ev); !sameKinds(got, []EventKind{EventSelected, EventMoved, EventTurnEnded}) {
		t.Fatalf("events = %v", got)
	}
	if ev[1].Unit != "b" || ev[1].From != ev[1].To {
		t.Errorf("stay event = %v, want b with From == To", ev[1])
	}
	if s.Turn() != 2 {
		t.Errorf("turn = %d, want 2", s.Turn())
	}
	if occ, _ := s.Registry().Occupant(grid.Cell{Row: 8, Col: 8}); occ != b {
		t.Errorf("occupant of (8,8) = %d, want b", occ)
	}
	if s.Selected() != 0 || s.Overlay().Len() != 0 {
		t.Error("selection should be cleared after staying")
	}
}

// TestStayWithAutoSelectMovesToNextUnit 自动选择时原地待命后选中下一个单位
func TestStayWithAutoSelectMovesToNextUnit(t *testing.T) {
	s, _ := newJagdScene(t)
	s.Events()

	if err := s.Update(0.016, []input.Action{input.ActionConfirm}); err != nil {
		t.Fatal(err)
	}
	if got := eventKinds(s.Events()); !sameKinds(got, []EventKind{EventMoved, EventSelected}) {
		t.Fatalf("events = %v", got)
	}
	if u, _ := s.Unit(mustUnit(t, s, "thomas")); !u.HasActed || u.Cell != (grid.Cell{}) {
		t.Errorf("thomas should have acted in place, got %+v", u)
	}
	if s.Selected() != mustUnit(t, s, "nawab") || s.Cursor() != (grid.Cell{Row: 8, Col: 8}) {
		t.Errorf("nawab should be selected next, cursor %s", s.Cursor())
	}
}

// TestMoveConflictRestoresOccupancy 目标格子被占用时报错并恢复原占用
func TestMoveConflictRestoresOccupancy(t *testing.T) {
	s, _ := newJagdScene(t)
	thomas := mustUnit(t, s, "thomas")

	err := s.moveSelected(grid.Cell{Row: 8, Col: 8})
	if !errors.Is(err, grid.ErrConflict) {
		t.Fatalf("moveSelected onto nawab error = %v, want ErrConflict", err)
	}
	if occ, _ := s.Registry().Occupant(grid.Cell{}); occ != thomas {
		t.Errorf("origin occupant = %d, want thomas restored", occ)
	}
	if u, _ := s.Unit(thomas); u.HasActed || u.Cell != (grid.Cell{}) {
		t.Errorf("failed move changed thomas: %+v", u)
	}
}
