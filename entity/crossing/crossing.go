package crossing

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/telemetry"
)

var (
	ErrUnknownDirection = errors.New("crossing: unknown direction")
	ErrUnknownKind      = errors.New("crossing: unknown vehicle kind")
	ErrUnknownFlow      = errors.New("crossing: unknown flow selector")
	ErrStopped          = errors.New("crossing: stopped")
)

// Crossing 路口共享状态聚合
// 功能：四向路口的唯一事实来源，承载排队计数、路口内计数、紧急标志与当前流向
// 说明：全部字段只允许在持有mu时读写；等待与唤醒共享一个条件变量，
// 任何可能解除阻塞的状态变化之后都必须广播唤醒（粗粒度的惊群换取无漏唤醒）
type Crossing struct {
	mu   sync.Mutex
	cond *sync.Cond

	waitingOrdinary  [entity.NumDirections]int // 各方向等待中的普通车辆数
	waitingPriority  [entity.NumDirections]int // 各方向等待中的优先车辆数
	crossingOrdinary int                       // 路口内普通车辆数
	crossingPriority int                       // 路口内优先车辆数
	emergencyActive  bool                      // 紧急模式标志
	currentFlow      entity.FlowSelector       // 当前流向
	flowSince        time.Time                 // 当前流向的起始时刻

	stopped bool          // 停机标志，置位后所有阻塞者被唤醒并退出
	done    chan struct{} // 停机信号通道，停机后关闭

	listeners *telemetry.Listeners // 可观测事件监听器
}

// New 创建路口
// 功能：初始化路口共享状态，所有计数为零，初始流向为南北轴普通通行
// 参数：listeners-可观测事件监听器集合（可为nil）
func New(listeners *telemetry.Listeners) *Crossing {
	c := &Crossing{
		currentFlow: entity.FlowNormalNS,
		flowSince:   time.Now(),
		done:        make(chan struct{}),
		listeners:   listeners,
	}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Announce 宣告紧急
// 功能：置位紧急标志并广播唤醒，让控制器在下一轮决策进入紧急分支
// 说明：调用后立即返回，宣告者不得持锁等待反应期，否则会阻塞控制器；
// 标志从false变为true时发布emergency-started事件
func (c *Crossing) Announce(dir entity.Direction) error {
	if !dir.IsValid() {
		return fmt.Errorf("%w: %d", ErrUnknownDirection, dir)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return ErrStopped
	}
	if !c.emergencyActive {
		c.emergencyActive = true
		c.listeners.Emit(telemetry.NewEmergencyStarted(dir))
	}
	c.cond.Broadcast()
	return nil
}

// Enter 入队并等待准入
// 功能：把车辆计入等待队列，阻塞直至准入判定通过，然后转入路口内计数
// 返回：nil表示已进入路口；停机时返回ErrStopped且等待计数已回退
// 说明：条件等待采用"循环重查"模式抵御虚假唤醒；若当前流向恰好兼容则不经历等待
func (c *Crossing) Enter(dir entity.Direction, kind entity.VehicleKind) error {
	if !dir.IsValid() {
		return fmt.Errorf("%w: %d", ErrUnknownDirection, dir)
	}
	if !kind.IsValid() {
		return fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return ErrStopped
	}

	waiting := &c.waitingOrdinary
	if kind == entity.KindPriority {
		waiting = &c.waitingPriority
	}
	waiting[dir]++
	c.listeners.Emit(telemetry.NewVehicleQueued(dir, kind))

	for !MayProceed(dir, c.currentFlow, kind, c.emergencyActive) {
		c.cond.Wait()
		if c.stopped {
			waiting[dir]--
			return ErrStopped
		}
	}

	waiting[dir]--
	if kind == entity.KindPriority {
		c.crossingPriority++
	} else {
		c.crossingOrdinary++
	}
	c.listeners.Emit(telemetry.NewVehicleAdmitted(dir, kind))
	return nil
}

// Leave 离开路口
// 功能：把车辆移出路口内计数并广播唤醒（控制器可能在等待路口清空）
// 说明：优先车辆离开时无条件清除紧急标志，紧急episode由控制器的
// drain步骤按轴串行化；停机期间仍允许离开以保持计数一致
func (c *Crossing) Leave(dir entity.Direction, kind entity.VehicleKind) error {
	if !dir.IsValid() {
		return fmt.Errorf("%w: %d", ErrUnknownDirection, dir)
	}
	if !kind.IsValid() {
		return fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if kind == entity.KindPriority {
		c.crossingPriority--
		if c.emergencyActive {
			c.emergencyActive = false
			c.listeners.Emit(telemetry.NewEmergencyEnded(dir))
		}
	} else {
		c.crossingOrdinary--
	}
	c.listeners.Emit(telemetry.NewVehicleDeparted(dir, kind))
	c.cond.Broadcast()
	return nil
}

// SetFlow 切换当前流向
// 功能：更新流向并广播唤醒所有等待者，各自重查准入判定
// 说明：正常运行中由控制器在drain完成后调用；测试可借此构造特定场景
func (c *Crossing) SetFlow(flow entity.FlowSelector) error {
	if !flow.IsValid() {
		return fmt.Errorf("%w: %d", ErrUnknownFlow, flow)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return ErrStopped
	}
	c.setFlowLocked(flow)
	c.cond.Broadcast()
	return nil
}

// setFlowLocked 更新流向，调用方必须持有锁
func (c *Crossing) setFlowLocked(flow entity.FlowSelector) {
	c.currentFlow = flow
	c.flowSince = time.Now()
}

// Snapshot 获取状态快照
// 功能：在锁内一致性拷贝全部共享状态
func (c *Crossing) Snapshot() entity.CrossingSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return entity.CrossingSnapshot{
		WaitingOrdinary:  c.waitingOrdinary,
		WaitingPriority:  c.waitingPriority,
		CrossingOrdinary: c.crossingOrdinary,
		CrossingPriority: c.crossingPriority,
		EmergencyActive:  c.emergencyActive,
		CurrentFlow:      c.currentFlow,
		FlowElapsed:      time.Since(c.flowSince),
	}
}

// Stop 发出停机信号
// 功能：置位停机标志、关闭停机通道并广播唤醒，所有阻塞者退出各自循环
// 说明：幂等，可重复调用
func (c *Crossing) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.stopped = true
	close(c.done)
	c.cond.Broadcast()
	log.Info("crossing stopped")
}

// Done 获取停机信号通道
func (c *Crossing) Done() <-chan struct{} {
	return c.done
}
