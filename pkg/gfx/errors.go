package gfx

import (
	"errors"
	"fmt"
)

// ErrResourceInit 图形资源（网格、纹理、着色器、窗口）初始化失败
// 属于不可恢复错误：启动阶段遇到后应释放已获取的资源并终止
var ErrResourceInit = errors.New("gfx: resource initialization failed")

// ResourceError 包装具体失败的资源
func ResourceError(kind, name string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s %q", ErrResourceInit, kind, name)
	}
	return fmt.Errorf("%w: %s %q: %v", ErrResourceInit, kind, name, err)
}
