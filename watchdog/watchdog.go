// 活性监视器，周期性采样路口状态快照，发现疑似停摆时输出告警
package watchdog

import (
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/utils/container"
)

// log 监视模块的日志记录器
var log = logrus.WithField("module", "watchdog")

// Watchdog 活性监视器
// 功能：核心协调协议之外的旁路观察者，只读快照、不持协调锁，
// 用于发现"紧急标志久不清除"或"同一流向久不切换"之类的活性异常
// 说明：监视器只告警不干预，恢复手段留给运维
type Watchdog struct {
	ctx entity.ITaskContext
	cfg config.Watchdog

	emergencyUnits float64 // 紧急标志连续置位的累计时长（时间单位）
}

// New 创建活性监视器
func New(ctx entity.ITaskContext) *Watchdog {
	return &Watchdog{
		ctx: ctx,
		cfg: ctx.RuntimeConfig().All.Watchdog,
	}
}

// Run 监视主循环
// 功能：按配置间隔采样快照并检查活性条件，路口停机后退出
// 说明：应在独立协程中运行
func (w *Watchdog) Run() {
	c := w.ctx.Crossing()
	clk := w.ctx.Clock()
	for {
		if !clk.Sleep(w.cfg.Interval, c.Done()) {
			return
		}
		w.inspect(c.Snapshot())
	}
}

// inspect 检查一次快照
// 算法说明：
// 1. 紧急标志连续置位累计超过阈值时告警（可能有优先车辆崩溃在路口内）
// 2. 当前流向持续时长超过阈值时告警（控制器可能卡在drain或被动等待）
// 3. 告警时附带最拥堵方向排名，辅助定位饥饿的一侧
func (w *Watchdog) inspect(s entity.CrossingSnapshot) {
	log.Debugf(
		"sample: flow=%v emergency=%v crossing=%d/%d waiting=%v/%v",
		s.CurrentFlow, s.EmergencyActive,
		s.CrossingOrdinary, s.CrossingPriority,
		s.WaitingOrdinary, s.WaitingPriority,
	)

	if s.EmergencyActive {
		w.emergencyUnits += w.cfg.Interval
		if w.cfg.EmergencyStall > 0 && w.emergencyUnits >= w.cfg.EmergencyStall {
			log.Warnf(
				"emergency active for %.0f unit(s), crossing=%d/%d, congested: %v",
				w.emergencyUnits, s.CrossingOrdinary, s.CrossingPriority,
				MostCongested(s, w.cfg.TopK),
			)
		}
	} else {
		w.emergencyUnits = 0
	}

	flowUnits := float64(s.FlowElapsed) / float64(w.ctx.Clock().Unit)
	if w.cfg.FlowStall > 0 && flowUnits >= w.cfg.FlowStall {
		log.Warnf(
			"flow %v unchanged for %.0f unit(s), congested: %v",
			s.CurrentFlow, flowUnits, MostCongested(s, w.cfg.TopK),
		)
	}
}

// MostCongested 获取等待车辆最多的方向排名
// 功能：对四个方向按等待总数排序，返回前k个仍有车辆等待的方向
// 算法说明：负的等待数作为优先级压入小顶堆，弹出即为降序
func MostCongested(s entity.CrossingSnapshot, k int) []entity.Direction {
	heap := container.NewPriorityQueue[entity.Direction]()
	for d := entity.Direction(0); d < entity.NumDirections; d++ {
		heap.Push(d, -float64(s.WaitingTotal(d)))
	}
	heap.Heapify()

	if k <= 0 || k > int(entity.NumDirections) {
		k = int(entity.NumDirections)
	}
	top := make([]entity.Direction, 0, k)
	for len(top) < k && heap.Len() > 0 {
		d, negWaiting := heap.HeapPop()
		if negWaiting == 0 {
			break
		}
		top = append(top, d)
	}
	return top
}
