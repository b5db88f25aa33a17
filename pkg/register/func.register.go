package register

import "sync"

// Handler 在组件初始化时被调用, 用于把包级别的 init 注册挂到具体实例上
type Handler[T any] func(T)

var (
	mu       sync.RWMutex
	handlers = make(map[any][]any)
)

// RegisterFunc 按 key 追加 handler, 同一 key 下按注册顺序执行
func RegisterFunc[T any](key any, handler Handler[T]) {
	mu.Lock()
	defer mu.Unlock()
	handlers[key] = append(handlers[key], handler)
}

// ResolveFuncHandlers 返回 key 下类型匹配的 handler, 类型不符的被忽略
func ResolveFuncHandlers[T any](key any) []Handler[T] {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Handler[T], 0, len(handlers[key]))
	for _, v := range handlers[key] {
		if h, ok := v.(Handler[T]); ok {
			result = append(result, h)
		}
	}
	return result
}
