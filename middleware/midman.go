package middleware

import (
	"sync"

	"github.com/gin-gonic/gin"
)

var (
	globalMgr *MiddlewareManager
	once      sync.Once
)

// MiddlewareManager 全局中间件挂载点：访问日志等启动时 Add 进来，
// 引擎上只挂 Use() 一个总控入口
type MiddlewareManager struct {
	mu   sync.RWMutex
	mids []gin.HandlerFunc
}

// Config 启动时显式初始化全局实例
func Config() {
	once.Do(func() {
		globalMgr = NewManager()
	})
}

func NewManager() *MiddlewareManager {
	return &MiddlewareManager{}
}

// Manager 惰性初始化的全局实例
func Manager() *MiddlewareManager {
	Config()
	return globalMgr
}

// Add 注册一个中间件
func (m *MiddlewareManager) Add(h gin.HandlerFunc) {
	m.mu.Lock()
	m.mids = append(m.mids, h)
	m.mu.Unlock()
}

// Clear 清空全部中间件
func (m *MiddlewareManager) Clear() {
	m.mu.Lock()
	m.mids = nil
	m.mu.Unlock()
}

// Use 返回总控 handler；对注册快照逐个执行，任何一个 Abort 即停
func (m *MiddlewareManager) Use() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.mu.RLock()
		handlers := make([]gin.HandlerFunc, len(m.mids))
		copy(handlers, m.mids)
		m.mu.RUnlock()

		for _, h := range handlers {
			h(c)
			if c.IsAborted() {
				return
			}
		}
		c.Next()
	}
}
