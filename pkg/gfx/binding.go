package gfx

import "fmt"

// UseShader 启用着色器并返回释放函数
// 释放函数可以安全地多次调用，只有第一次会真正禁用着色器
//
// 使用示例：
//
//	release, err := gfx.UseShader(dev, gfx.ShaderTile)
//	if err != nil {
//	    return err
//	}
//	defer release()
func UseShader(dev Device, key ShaderKey) (release func(), err error) {
	if err := dev.EnableShader(key); err != nil {
		return func() {}, fmt.Errorf("enable shader %s: %w", key, err)
	}
	released := false
	return func() {
		if released {
			return
		}
		released = true
		dev.DisableShader(key)
	}, nil
}

// WithShader 在着色器作用域内执行 fn
// 无论 fn 正常返回、返回错误还是 panic，着色器都会被禁用
func WithShader(dev Device, key ShaderKey, fn func() error) error {
	release, err := UseShader(dev, key)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}
