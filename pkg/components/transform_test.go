package components

import (
	"testing"

	"github.com/gonewx/valkyrie/pkg/gfx"
	"github.com/gonewx/valkyrie/pkg/vmath"
)

func TestTransformMatrix(t *testing.T) {
	tr := Transform{
		Position: vmath.Vec3{X: 0.4, Y: -0.2, Z: 0.3},
		Rotation: vmath.Vec3{Z: 90},
		Scale:    2,
	}
	got := tr.Matrix().TransformPoint(vmath.Vec3{X: 1})
	want := vmath.Vec3{X: 0.4, Y: 1.8, Z: 0.3}
	if !got.ApproxEqual(want, 1e-5) {
		t.Errorf("Matrix * (1,0,0) = %v, want %v", got, want)
	}
}

func TestTransformZeroScaleTreatedAsOne(t *testing.T) {
	tr := Transform{Position: vmath.Vec3{X: 1}}
	got := tr.Matrix().TransformPoint(vmath.Vec3{X: 1})
	if !got.ApproxEqual(vmath.Vec3{X: 2}, 1e-5) {
		t.Errorf("got %v, want (2,0,0)", got)
	}
}

func TestRenderComponentPosition(t *testing.T) {
	rc := &RenderComponent{Transform: NewTransform(vmath.Vec3{X: 0.2})}
	rc.IncreasePosition(0.1, 0, 0)
	rc.IncreasePosition(-0.1, 0.2, 0)
	if !rc.Position().ApproxEqual(vmath.Vec3{X: 0.2, Y: 0.2}, 1e-6) {
		t.Errorf("Position = %v", rc.Position())
	}
	rc.SetPosition(vmath.Vec3{Z: 1})
	if rc.Position() != (vmath.Vec3{Z: 1}) {
		t.Errorf("SetPosition: got %v", rc.Position())
	}
}

// TestRenderUploadsTransform 绘制前上传当前变换矩阵
func TestRenderUploadsTransform(t *testing.T) {
	rec := gfx.NewRecorder()
	mesh, _ := gfx.NewQuad(1).Create(rec)
	tex, _ := rec.LoadTexture("color:#ffffff")

	rc := &RenderComponent{
		Mesh:      mesh,
		Texture:   tex,
		Shader:    gfx.ShaderCharacter,
		Transform: NewTransform(vmath.Vec3{X: 0.6, Y: -0.4}),
	}

	err := gfx.WithShader(rec, rc.Shader, func() error {
		rc.Render(rec)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	draws := rec.Draws()
	if len(draws) != 1 {
		t.Fatalf("got %d draws, want 1", len(draws))
	}
	if draws[0].Texture != tex || draws[0].Mesh != mesh {
		t.Errorf("draw used mesh %d texture %d", draws[0].Mesh, draws[0].Texture)
	}
	if draws[0].Matrix != rc.Transform.Matrix() {
		t.Errorf("draw matrix mismatch")
	}

	rc.Hidden = true
	rec.Reset()
	_ = gfx.WithShader(rec, rc.Shader, func() error {
		rc.Render(rec)
		return nil
	})
	if len(rec.Draws()) != 0 {
		t.Error("hidden component should not draw")
	}
}
