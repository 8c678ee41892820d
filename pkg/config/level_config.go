// Package config 提供关卡配置与窗口常量
package config

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gonewx/valkyrie/pkg/entities"
	"github.com/gonewx/valkyrie/pkg/grid"
)

//go:embed levels/*.yaml
var levelFS embed.FS

// DefaultLevelPath 内置默认关卡在 LevelFS 中的路径
const DefaultLevelPath = "levels/jagd.yaml"

// LevelFS 返回内置关卡文件系统
func LevelFS() fs.FS {
	return levelFS
}

// LevelConfig 关卡配置数据结构
type LevelConfig struct {
	ID          string        `yaml:"id"`          // 关卡ID，如 "jagd"
	Name        string        `yaml:"name"`        // 关卡名称
	Description string        `yaml:"description"` // 关卡描述（可选）
	Grid        GridConfig    `yaml:"grid"`        // 网格尺寸与步长
	Layers      LayerConfig   `yaml:"layers"`      // 各渲染层的 z 值
	Textures    TextureConfig `yaml:"textures"`    // 各分组的纹理路径
	Units       []UnitConfig  `yaml:"units"`       // 初始单位
	Blocked     []CellConfig  `yaml:"blocked"`     // 不可通行的格子
	AutoSelect  *bool         `yaml:"autoSelect"`  // 加载后是否自动选中第一个单位，默认 true
}

// GridConfig 网格参数
type GridConfig struct {
	Size int     `yaml:"size"` // 网格边长 N，默认 9
	Step float32 `yaml:"step"` // 每格世界单位，默认 0.2
}

// LayerConfig 渲染层深度，未配置时使用 grid.NewLayout 的默认值
type LayerConfig struct {
	Background *float32 `yaml:"background"`
	Tile       *float32 `yaml:"tile"`
	Indicator  *float32 `yaml:"indicator"`
	Unit       *float32 `yaml:"unit"`
}

// TextureConfig 纹理路径，"color:#rrggbb" 表示纯色纹理
type TextureConfig struct {
	Background string `yaml:"background"`
	Tile       string `yaml:"tile"`
	Indicator  string `yaml:"indicator"`
	Unit       string `yaml:"unit"`
}

// UnitConfig 单位初始配置
type UnitConfig struct {
	Name   string `yaml:"name"`
	Row    int    `yaml:"row"`
	Col    int    `yaml:"col"`
	Budget int    `yaml:"budget"` // 移动力（格数）
}

// CellConfig 格子坐标
type CellConfig struct {
	Row int `yaml:"row"`
	Col int `yaml:"col"`
}

// Cell 转换为 grid.Cell
func (c CellConfig) Cell() grid.Cell {
	return grid.Cell{Row: c.Row, Col: c.Col}
}

// Cell 返回单位起始格子
func (u UnitConfig) Cell() grid.Cell {
	return grid.Cell{Row: u.Row, Col: u.Col}
}

// LoadLevelConfig 从YAML文件加载关卡配置
//
// 返回：
//
//	*LevelConfig - 解析后的关卡配置对象
//	error - 如果文件读取或解析失败，返回错误信息
func LoadLevelConfig(filepath string) (*LevelConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read level config file %s: %w", filepath, err)
	}
	return ParseLevelConfig(data, filepath)
}

// LoadLevelConfigFS 从文件系统（如内置关卡）加载关卡配置
func LoadLevelConfigFS(fsys fs.FS, path string) (*LevelConfig, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level config file %s: %w", path, err)
	}
	return ParseLevelConfig(data, path)
}

// LoadDefaultLevel 加载内置默认关卡
func LoadDefaultLevel() (*LevelConfig, error) {
	return LoadLevelConfigFS(levelFS, DefaultLevelPath)
}

// ParseLevelConfig 解析 YAML 数据，应用默认值并校验
// source 只用于错误信息
func ParseLevelConfig(data []byte, source string) (*LevelConfig, error) {
	var levelConfig LevelConfig
	if err := yaml.Unmarshal(data, &levelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse level config YAML from %s: %w", source, err)
	}

	applyDefaults(&levelConfig)

	if err := validateLevelConfig(&levelConfig); err != nil {
		return nil, fmt.Errorf("invalid level config in %s: %w", source, err)
	}

	return &levelConfig, nil
}

// applyDefaults 为缺失的可选字段设置默认值
func applyDefaults(config *LevelConfig) {
	if config.Grid.Size == 0 {
		config.Grid.Size = grid.DefaultSize
	}
	if config.Grid.Step == 0 {
		config.Grid.Step = grid.DefaultStep
	}

	if config.Textures.Background == "" {
		config.Textures.Background = "color:#1c2430"
	}
	if config.Textures.Tile == "" {
		config.Textures.Tile = "color:#5a7d4a"
	}
	if config.Textures.Indicator == "" {
		config.Textures.Indicator = "color:#f2c94c"
	}
	if config.Textures.Unit == "" {
		config.Textures.Unit = "color:#d9534f"
	}

	if config.AutoSelect == nil {
		autoSelect := true
		config.AutoSelect = &autoSelect
	}
}

// validateLevelConfig 验证关卡配置的完整性和合法性
func validateLevelConfig(config *LevelConfig) error {
	if config.ID == "" {
		return fmt.Errorf("level ID is required")
	}

	if config.Name == "" {
		return fmt.Errorf("level name is required")
	}

	if config.Grid.Size < 1 {
		return fmt.Errorf("grid size must be at least 1, got %d", config.Grid.Size)
	}
	if config.Grid.Step <= 0 {
		return fmt.Errorf("grid step must be positive, got %v", config.Grid.Step)
	}

	layout := config.Layout()

	// 各层 z 值必须严格递增：背景 < 格子 < 指示器 < 单位
	for layer := grid.LayerTile; layer <= grid.LayerUnit; layer++ {
		below, cur := layout.LayerDepth(layer-1), layout.LayerDepth(layer)
		if cur <= below {
			return fmt.Errorf("layers: %s depth %v must be greater than %s depth %v", layer, cur, layer-1, below)
		}
	}

	blocked := make(map[grid.Cell]bool, len(config.Blocked))
	for i, b := range config.Blocked {
		if !layout.InBounds(b.Cell()) {
			return fmt.Errorf("blocked[%d]: cell %s outside %dx%d grid", i, b.Cell(), config.Grid.Size, config.Grid.Size)
		}
		blocked[b.Cell()] = true
	}

	if len(config.Units) == 0 {
		return fmt.Errorf("at least one unit is required")
	}

	starts := make(map[grid.Cell]string, len(config.Units))
	for i, u := range config.Units {
		if u.Name == "" {
			return fmt.Errorf("units[%d]: name is required", i)
		}
		if u.Budget < 0 {
			return fmt.Errorf("units[%d] %q: budget must be non-negative, got %d", i, u.Name, u.Budget)
		}
		if !layout.InBounds(u.Cell()) {
			return fmt.Errorf("units[%d] %q: start %s outside %dx%d grid", i, u.Name, u.Cell(), config.Grid.Size, config.Grid.Size)
		}
		if blocked[u.Cell()] {
			return fmt.Errorf("units[%d] %q: start %s is blocked", i, u.Name, u.Cell())
		}
		if other, dup := starts[u.Cell()]; dup {
			return fmt.Errorf("units[%d] %q: start %s already used by %q", i, u.Name, u.Cell(), other)
		}
		starts[u.Cell()] = u.Name
	}

	return nil
}

// Layout 返回关卡的网格布局
func (c *LevelConfig) Layout() grid.Layout {
	layout := grid.NewLayout(c.Grid.Size, c.Grid.Step)
	set := func(layer grid.Layer, v *float32) {
		if v != nil {
			layout.Depth[layer] = *v
		}
	}
	set(grid.LayerBackground, c.Layers.Background)
	set(grid.LayerTile, c.Layers.Tile)
	set(grid.LayerIndicator, c.Layers.Indicator)
	set(grid.LayerUnit, c.Layers.Unit)
	return layout
}

// TextureSet 返回实体工厂使用的纹理路径
func (c *LevelConfig) TextureSet() entities.TextureSet {
	return entities.TextureSet{
		Background: c.Textures.Background,
		Tile:       c.Textures.Tile,
		Indicator:  c.Textures.Indicator,
		Unit:       c.Textures.Unit,
	}
}

// ShouldAutoSelect 加载后是否自动选中第一个单位
func (c *LevelConfig) ShouldAutoSelect() bool {
	return c.AutoSelect == nil || *c.AutoSelect
}
