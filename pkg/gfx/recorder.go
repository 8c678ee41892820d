package gfx

import (
	"fmt"

	"github.com/gonewx/valkyrie/pkg/vmath"
)

// CallOp 记录的调用类型
type CallOp string

const (
	OpCreateMesh    CallOp = "createMesh"
	OpDeleteMesh    CallOp = "deleteMesh"
	OpLoadTexture   CallOp = "loadTexture"
	OpDeleteTexture CallOp = "deleteTexture"
	OpBindTexture   CallOp = "bindTexture"
	OpUnbindTexture CallOp = "unbindTexture"
	OpEnableShader  CallOp = "enableShader"
	OpDisableShader CallOp = "disableShader"
	OpSetUniform    CallOp = "setUniformMat4"
	OpDraw          CallOp = "draw"
)

// Call 一次设备调用
type Call struct {
	Op      CallOp
	Shader  ShaderKey     // 调用发生时启用的着色器（Enable/Disable 时为目标着色器）
	Mesh    MeshHandle    // Draw / CreateMesh / DeleteMesh
	Texture TextureHandle // 调用发生时绑定的纹理
	Name    string        // uniform 名称或纹理路径
	Matrix  vmath.Mat4    // Draw 时为当前 transformationMatrix
}

// Recorder 记录所有调用的内存设备
// 用于验证渲染顺序、着色器配对和资源释放
type Recorder struct {
	Calls []Call
	// Violations 违反使用约定的调用（未启用着色器就绘制、重复启用等）
	Violations []string

	// 故障注入
	FailShader  map[ShaderKey]error
	FailTexture map[string]error
	FailMesh    error

	nextMesh    MeshHandle
	nextTexture TextureHandle
	meshes      map[MeshHandle]bool
	textures    map[TextureHandle]string
	active      ShaderKey
	bound       TextureHandle
	uniforms    map[string]vmath.Mat4
}

// NewRecorder 创建记录设备
func NewRecorder() *Recorder {
	return &Recorder{
		FailShader:  make(map[ShaderKey]error),
		FailTexture: make(map[string]error),
		meshes:      make(map[MeshHandle]bool),
		textures:    make(map[TextureHandle]string),
		uniforms:    make(map[string]vmath.Mat4),
	}
}

// Reset 清空调用记录（保留资源状态）
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
	r.Violations = r.Violations[:0]
}

// LiveMeshes 未释放的网格数量
func (r *Recorder) LiveMeshes() int {
	return len(r.meshes)
}

// LiveTextures 未释放的纹理数量
func (r *Recorder) LiveTextures() int {
	return len(r.textures)
}

// ActiveShader 当前启用的着色器，无则为空
func (r *Recorder) ActiveShader() ShaderKey {
	return r.active
}

// Draws 返回所有绘制调用
func (r *Recorder) Draws() []Call {
	out := make([]Call, 0)
	for _, c := range r.Calls {
		if c.Op == OpDraw {
			out = append(out, c)
		}
	}
	return out
}

// DrawShaders 返回每次绘制时启用的着色器序列
func (r *Recorder) DrawShaders() []ShaderKey {
	draws := r.Draws()
	out := make([]ShaderKey, len(draws))
	for i, d := range draws {
		out[i] = d.Shader
	}
	return out
}

func (r *Recorder) record(c Call) {
	r.Calls = append(r.Calls, c)
}

func (r *Recorder) violate(format string, args ...interface{}) {
	r.Violations = append(r.Violations, fmt.Sprintf(format, args...))
}

// CreateMesh 实现 Device
func (r *Recorder) CreateMesh(vertices, uvs []float32, indices []uint16) (MeshHandle, error) {
	if r.FailMesh != nil {
		return 0, r.FailMesh
	}
	if len(vertices)%3 != 0 || len(uvs)/2 != len(vertices)/3 {
		return 0, fmt.Errorf("recorder: mismatched vertex (%d) and uv (%d) data", len(vertices), len(uvs))
	}
	r.nextMesh++
	r.meshes[r.nextMesh] = true
	r.record(Call{Op: OpCreateMesh, Mesh: r.nextMesh})
	return r.nextMesh, nil
}

// DeleteMesh 实现 Device
func (r *Recorder) DeleteMesh(m MeshHandle) {
	if !r.meshes[m] {
		r.violate("delete of unknown mesh %d", m)
	}
	delete(r.meshes, m)
	r.record(Call{Op: OpDeleteMesh, Mesh: m})
}

// LoadTexture 实现 Device
func (r *Recorder) LoadTexture(path string) (TextureHandle, error) {
	if err := r.FailTexture[path]; err != nil {
		return 0, err
	}
	r.nextTexture++
	r.textures[r.nextTexture] = path
	r.record(Call{Op: OpLoadTexture, Texture: r.nextTexture, Name: path})
	return r.nextTexture, nil
}

// DeleteTexture 实现 Device
func (r *Recorder) DeleteTexture(t TextureHandle) {
	if _, ok := r.textures[t]; !ok {
		r.violate("delete of unknown texture %d", t)
	}
	delete(r.textures, t)
	r.record(Call{Op: OpDeleteTexture, Texture: t})
}

// BindTexture 实现 Device
func (r *Recorder) BindTexture(t TextureHandle) {
	r.bound = t
	r.record(Call{Op: OpBindTexture, Shader: r.active, Texture: t})
}

// UnbindTexture 实现 Device
func (r *Recorder) UnbindTexture() {
	r.bound = 0
	r.record(Call{Op: OpUnbindTexture, Shader: r.active})
}

// EnableShader 实现 Device
func (r *Recorder) EnableShader(key ShaderKey) error {
	if err := r.FailShader[key]; err != nil {
		return err
	}
	if r.active != "" {
		r.violate("enable %s while %s is still enabled", key, r.active)
	}
	r.active = key
	r.uniforms = make(map[string]vmath.Mat4)
	r.record(Call{Op: OpEnableShader, Shader: key})
	return nil
}

// DisableShader 实现 Device
func (r *Recorder) DisableShader(key ShaderKey) {
	if r.active != key {
		r.violate("disable %s while %q is enabled", key, r.active)
	}
	r.active = ""
	r.record(Call{Op: OpDisableShader, Shader: key})
}

// SetUniformMat4 实现 Device
func (r *Recorder) SetUniformMat4(name string, m vmath.Mat4) {
	if r.active == "" {
		r.violate("uniform %s set with no shader enabled", name)
	}
	r.uniforms[name] = m
	r.record(Call{Op: OpSetUniform, Shader: r.active, Name: name, Matrix: m})
}

// Draw 实现 Device
func (r *Recorder) Draw(m MeshHandle) {
	if r.active == "" {
		r.violate("draw mesh %d with no shader enabled", m)
	}
	if !r.meshes[m] {
		r.violate("draw of unknown mesh %d", m)
	}
	r.record(Call{
		Op:      OpDraw,
		Shader:  r.active,
		Mesh:    m,
		Texture: r.bound,
		Matrix:  r.uniforms[UniformTransform],
	})
}
