package game

import (
	"fmt"
	"log"

	"github.com/gonewx/valkyrie/pkg/input"
)

// SceneFactory 场景工厂函数类型
// 根据关卡路径创建场景，避免 game 包依赖具体场景实现
type SceneFactory func(levelPath string) (Scene, error)

// SceneManager 管理当前活动场景
// 切换场景时释放旧场景的资源
type SceneManager struct {
	currentScene Scene
	currentLevel string
	sceneFactory SceneFactory
}

// NewSceneManager 创建场景管理器，初始没有活动场景
func NewSceneManager(factory SceneFactory) *SceneManager {
	return &SceneManager{sceneFactory: factory}
}

// GetCurrentScene 返回当前活动场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// CurrentLevel 返回当前关卡路径
func (sm *SceneManager) CurrentLevel() string {
	return sm.currentLevel
}

// LoadLevel 加载关卡并切换为活动场景
// 创建失败时保留原场景，返回错误
func (sm *SceneManager) LoadLevel(levelPath string) error {
	log.Printf("[SceneManager] 加载关卡: %s", levelPath)

	if sm.sceneFactory == nil {
		return fmt.Errorf("scene factory not set")
	}

	next, err := sm.sceneFactory(levelPath)
	if err != nil {
		return fmt.Errorf("load level %q: %w", levelPath, err)
	}

	if sm.currentScene != nil {
		sm.currentScene.Dispose()
	}
	sm.currentScene = next
	sm.currentLevel = levelPath
	log.Printf("[SceneManager] 成功切换到关卡: %s", levelPath)
	return nil
}

// Reload 重新加载当前关卡
func (sm *SceneManager) Reload() error {
	return sm.LoadLevel(sm.currentLevel)
}

// Update 更新当前场景，没有活动场景时什么也不做
func (sm *SceneManager) Update(deltaTime float64, actions []input.Action) error {
	if sm.currentScene == nil {
		return nil
	}
	return sm.currentScene.Update(deltaTime, actions)
}

// Render 渲染当前场景
func (sm *SceneManager) Render() error {
	if sm.currentScene == nil {
		return nil
	}
	return sm.currentScene.Render()
}

// Dispose 释放当前场景
func (sm *SceneManager) Dispose() {
	if sm.currentScene != nil {
		sm.currentScene.Dispose()
		sm.currentScene = nil
	}
}
