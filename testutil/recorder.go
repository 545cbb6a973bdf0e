// 测试辅助工具
package testutil

import (
	"sync"

	"github.com/tsinghua-fib-lab/crossing-sim-oss/telemetry"
)

// Recorder 事件录制器
// 功能：线程安全地记录协调器发布的全部事件，供测试断言事件序列
type Recorder struct {
	mtx    sync.Mutex
	events []telemetry.Event
}

// NewRecorder 创建事件录制器
func NewRecorder() *Recorder {
	return &Recorder{}
}

// OnEvent 记录一条事件
func (r *Recorder) OnEvent(e telemetry.Event) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.events = append(r.events, e)
}

// Events 获取已记录事件的拷贝
func (r *Recorder) Events() []telemetry.Event {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	out := make([]telemetry.Event, len(r.events))
	copy(out, r.events)
	return out
}

// ByType 获取指定类型的已记录事件
func (r *Recorder) ByType(t telemetry.EventType) []telemetry.Event {
	out := make([]telemetry.Event, 0)
	for _, e := range r.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Count 获取指定类型的事件数量
func (r *Recorder) Count(t telemetry.EventType) int {
	return len(r.ByType(t))
}

// Index 获取指定类型第一条事件在整个序列中的下标，不存在时返回-1
func (r *Recorder) Index(t telemetry.EventType) int {
	for i, e := range r.Events() {
		if e.Type == t {
			return i
		}
	}
	return -1
}
