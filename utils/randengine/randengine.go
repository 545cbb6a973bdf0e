// 随机数引擎，包装了golang.org/x/exp/rand，提供了仿真所需的随机延迟生成方法
package randengine

import (
	"flag"
	"sync"

	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于调整随机数生成
)

// Engine 随机数引擎
// 功能：提供线程安全的随机数生成功能
// 说明：底层生成器不可重入，所有并发调用方共享一把互斥锁，
// 与路口协调锁相互独立
type Engine struct {
	*rand.Rand            // 底层随机数生成器
	mtx        sync.Mutex // 互斥锁，用于线程安全操作
}

// New 创建随机数引擎
// 功能：初始化一个新的随机数引擎实例
// 参数：seed-随机数种子
// 返回：随机数引擎指针
// 说明：种子偏移量允许在不修改代码的情况下调整随机数序列
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// IntnSafe 随机生成整数（线程安全）
// 功能：在[0, n)范围内生成随机整数，支持多线程安全访问
// 参数：n-范围上限（不包含）
// 返回：[0, n)范围内的随机整数
func (e *Engine) IntnSafe(n int) int {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.Intn(n)
}

// Float64Safe 随机生成浮点数（线程安全）
// 功能：生成[0.0, 1.0)范围内的随机浮点数，支持多线程安全访问
// 返回：[0.0, 1.0)范围内的随机浮点数
func (e *Engine) Float64Safe() float64 {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.Float64()
}

// UnitsSafe 随机生成延迟时长（线程安全）
// 功能：生成[min, min+span)范围内的整数时长，以抽象时间单位计
// 参数：min-最短时长，span-随机跨度
// 返回：随机时长（时间单位）
// 说明：对应"最短耗时+随机抖动"的延迟模型，span不为正时退化为定值min
func (e *Engine) UnitsSafe(min, span int) float64 {
	if span <= 0 {
		return float64(min)
	}
	return float64(min + e.IntnSafe(span))
}
