package config

// 窗口与投影参数
const (
	GameWindowWidth  = 800
	GameWindowHeight = 600
	GameWindowTitle  = "Valkyrie"

	// ViewFill 网格占窗口短边的比例
	ViewFill = 0.9
)
