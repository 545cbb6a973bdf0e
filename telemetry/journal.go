package telemetry

import (
	"io"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

// Journal 事件流水
// 功能：把每个事件序列化为一行JSON写入底层writer，供离线分析或回放
// 说明：写入由互斥锁串行化，writer不要求自身并发安全
type Journal struct {
	mtx sync.Mutex
	w   io.Writer
}

// NewJournal 创建事件流水
// 参数：w-底层writer（文件、缓冲区等）
func NewJournal(w io.Writer) *Journal {
	return &Journal{w: w}
}

// OnEvent 序列化并写入一条事件
// 说明：序列化失败只记日志不中断仿真
func (j *Journal) OnEvent(e Event) {
	data, err := jsoniter.ConfigFastest.Marshal(e)
	if err != nil {
		log.Errorf("journal: marshal event %s: %v", e.ID, err)
		return
	}
	j.mtx.Lock()
	defer j.mtx.Unlock()
	if _, err := j.w.Write(append(data, '\n')); err != nil {
		log.Errorf("journal: write event %s: %v", e.ID, err)
	}
}
