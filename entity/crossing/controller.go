package crossing

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/clock"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/telemetry"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/utils/config"
)

// ControllerState 控制器状态机状态
type ControllerState int32

const (
	StateDraining          ControllerState = iota // 等待路口内普通车辆清空
	StateDecidingNormal                           // 选择下一个普通流向
	StateOpenNormal                               // 普通窗口开放中
	StateDecidingEmergency                        // 选择优先流向
	StateOpenEmergency                            // 优先通行中，等待紧急结束
	StateStopped                                  // 已停机
)

var controllerStateNames = [...]string{
	"draining", "deciding-normal", "open-normal",
	"deciding-emergency", "open-emergency", "stopped",
}

// String 获取控制器状态的字符串表示
func (s ControllerState) String() string {
	if s < 0 || int(s) >= len(controllerStateNames) {
		return "unknown"
	}
	return controllerStateNames[s]
}

// Controller 路口控制器
// 功能：唯一的长生命周期调度任务，在普通与紧急两种模式间切换：
// 每轮先短暂停顿让队列积累，然后清空路口、选择需求最大的通行轴并开放，
// 普通窗口时长随排队数动态伸缩并受上下限约束，紧急模式则无条件抢占
// 说明：状态字段仅作可观测性用途，受路口锁保护
type Controller struct {
	crossing *Crossing
	clock    *clock.Clock
	window   config.Window   // 动态窗口策略
	pause    float64         // 每轮决策前的停顿（时间单位）
	state    ControllerState // 当前状态机状态，受crossing.mu保护
}

// NewController 创建路口控制器
// 参数：c-路口，clk-仿真时钟，window-窗口策略，pause-决策前停顿
func NewController(c *Crossing, clk *clock.Clock, window config.Window, pause float64) *Controller {
	return &Controller{
		crossing: c,
		clock:    clk,
		window:   window,
		pause:    pause,
		state:    StateDraining,
	}
}

// State 获取当前状态机状态
func (ctl *Controller) State() ControllerState {
	ctl.crossing.mu.Lock()
	defer ctl.crossing.mu.Unlock()
	return ctl.state
}

// Run 控制器主循环
// 功能：周而复始地执行"停顿-检查紧急标志-进入对应分支"的调度循环，
// 直至路口停机
// 说明：应在独立协程中运行；除开放窗口的逐单位递进外，
// 所有共享状态访问都在路口锁内完成
func (ctl *Controller) Run() {
	c := ctl.crossing
	for {
		// 停顿让队列积累，避免路口空转时流向来回颠簸
		if !ctl.clock.Sleep(ctl.pause, c.Done()) {
			ctl.markStopped()
			return
		}
		c.mu.Lock()
		if c.stopped {
			c.mu.Unlock()
			ctl.markStopped()
			return
		}
		var ok bool
		if c.emergencyActive {
			ok = ctl.emergencyCycle()
		} else {
			ok = ctl.normalCycle()
		}
		if !ok {
			ctl.markStopped()
			return
		}
	}
}

// emergencyCycle 紧急分支
// 功能：清空路口内普通车辆，按等待救护车数选择优先轴并开放，
// 然后被动等待紧急结束（由最后离开的优先车辆清除标志并广播）
// 说明：进入时必须持有路口锁，返回时已释放；返回false表示停机
func (ctl *Controller) emergencyCycle() bool {
	c := ctl.crossing

	ctl.state = StateDraining
	for c.crossingOrdinary > 0 {
		log.Infof("emergency: waiting for %d car(s) to clear the crossing", c.crossingOrdinary)
		c.cond.Wait()
		if c.stopped {
			c.mu.Unlock()
			return false
		}
	}

	ctl.state = StateDecidingEmergency
	axis, demand := busiestAxis(&c.waitingPriority)
	c.setFlowLocked(entity.PriorityFlowOf(axis))
	c.listeners.Emit(telemetry.NewFlowOpened(axis, true, 0))
	log.Warnf("emergency: open for %d ambulance(s) on %v", demand, axis)

	ctl.state = StateOpenEmergency
	c.cond.Broadcast()
	for c.emergencyActive {
		c.cond.Wait()
		if c.stopped {
			c.mu.Unlock()
			return false
		}
	}
	c.listeners.Emit(telemetry.NewFlowClosed(axis, true, telemetry.CloseQueueDrained))
	log.Warn("emergency: finished, returning to normal operation")
	c.mu.Unlock()
	return true
}

// normalCycle 普通分支
// 功能：清空路口后按普通车辆需求选择通行轴，计算动态窗口时长并开放；
// 窗口按1个时间单位递进，期间仅检查开放轴队列是否清空以便提前收口，
// 不做中途改选，紧急标志的处理留给下一轮（经由drain保证安全）
// 说明：进入时必须持有路口锁，返回时已释放；返回false表示停机
func (ctl *Controller) normalCycle() bool {
	c := ctl.crossing

	ctl.state = StateDraining
	for c.crossingOrdinary > 0 {
		log.Debugf("waiting for %d car(s) to clear before switching flow", c.crossingOrdinary)
		c.cond.Wait()
		if c.stopped {
			c.mu.Unlock()
			return false
		}
	}

	ctl.state = StateDecidingNormal
	axis, demand := busiestAxis(&c.waitingOrdinary)
	units := WindowUnits(ctl.window, demand)
	c.setFlowLocked(entity.NormalFlowOf(axis))
	c.listeners.Emit(telemetry.NewFlowOpened(axis, false, units))
	log.Infof("flow %v open for up to %d unit(s), %d car(s) waiting", axis, units, demand)

	ctl.state = StateOpenNormal
	c.cond.Broadcast()
	c.mu.Unlock()

	reason := telemetry.CloseExpired
	for i := 0; i < units; i++ {
		if !ctl.clock.Sleep(1, c.Done()) {
			return false
		}
		c.mu.Lock()
		if c.stopped {
			c.mu.Unlock()
			return false
		}
		drained := axisWaiting(&c.waitingOrdinary, axis) == 0
		c.mu.Unlock()
		if drained {
			reason = telemetry.CloseQueueDrained
			log.Infof("flow %v queue drained, closing early", axis)
			break
		}
	}

	c.mu.Lock()
	c.listeners.Emit(telemetry.NewFlowClosed(axis, false, reason))
	c.mu.Unlock()
	return true
}

// markStopped 标记控制器已停机
func (ctl *Controller) markStopped() {
	c := ctl.crossing
	c.mu.Lock()
	ctl.state = StateStopped
	c.mu.Unlock()
	log.Info("controller stopped")
}

// busiestAxis 选出等待车辆最多的通行轴
// 返回：通行轴和该轴的等待车辆数；平局固定偏向南北轴，保证决策确定性
func busiestAxis(waiting *[entity.NumDirections]int) (entity.Axis, int) {
	ns := axisWaiting(waiting, entity.AxisNS)
	ew := axisWaiting(waiting, entity.AxisEW)
	if ns >= ew {
		return entity.AxisNS, ns
	}
	return entity.AxisEW, ew
}

// axisWaiting 统计某通行轴上的等待车辆数
func axisWaiting(waiting *[entity.NumDirections]int, axis entity.Axis) int {
	return lo.SumBy(axis.Directions(), func(d entity.Direction) int {
		return waiting[d]
	})
}

// WindowUnits 计算普通流向的开放窗口时长
// 算法：排队数大于0时raw = base + (demand-1)*perVehicle，否则raw = base；
// 截断取整后夹取到[min, max]，下限保证每个窗口都有实际意义，
// 上限防止单轴长期独占路口
func WindowUnits(w config.Window, demand int) int {
	raw := w.Base
	if demand > 0 {
		raw = w.Base + float64(demand-1)*w.PerVehicle
	}
	return lo.Clamp(int(raw), w.Min, w.Max)
}
