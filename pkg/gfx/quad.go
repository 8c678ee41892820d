package gfx

// QuadMesh 单位正方形网格数据（中心在原点，边长 1）
// 顶点顺序：左上、左下、右下、右上
type QuadMesh struct {
	Vertices []float32
	UVs      []float32
	Indices  []uint16
}

// NewQuad 返回边长为 size 的正方形网格
func NewQuad(size float32) QuadMesh {
	h := size / 2
	return QuadMesh{
		Vertices: []float32{
			-h, h, 0,
			-h, -h, 0,
			h, -h, 0,
			h, h, 0,
		},
		UVs: []float32{
			0, 0,
			0, 1,
			1, 1,
			1, 0,
		},
		Indices: []uint16{
			0, 1, 3,
			3, 1, 2,
		},
	}
}

// Create 在设备上创建该网格
func (q QuadMesh) Create(dev Device) (MeshHandle, error) {
	return dev.CreateMesh(q.Vertices, q.UVs, q.Indices)
}
