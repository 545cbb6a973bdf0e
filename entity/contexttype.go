package entity

import (
	"github.com/tsinghua-fib-lab/crossing-sim-oss/clock"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/utils/randengine"
)

// entity/crossing/crossing.go的依赖倒置
// 路口协调器对外暴露的全部操作，车辆代理与监视器只能通过该接口访问共享状态，
// 禁止绕过接口直接改写字段
type ICrossing interface {
	// Announce 宣告紧急：置位紧急标志并广播唤醒，调用后不得持锁等待
	Announce(dir Direction) error
	// Enter 入队并阻塞等待准入，返回时车辆已进入路口；停机时返回错误
	Enter(dir Direction, kind VehicleKind) error
	// Leave 离开路口；优先车辆离开时清除紧急标志
	Leave(dir Direction, kind VehicleKind) error
	// SetFlow 切换当前流向并广播唤醒
	SetFlow(flow FlowSelector) error
	// Snapshot 获取锁内一致性状态快照
	Snapshot() CrossingSnapshot
	// Stop 发出停机信号，唤醒所有阻塞者
	Stop()
	// Done 停机信号通道，停机后关闭
	Done() <-chan struct{}
}

// entity/vehicle/manager.go的依赖倒置
type IVehicleManager interface {
	Start()     // 启动所有车辆代理协程
	Join()      // 等待所有车辆代理退出
	Count() int // 车辆代理总数
}

type ITaskContext interface {
	Clock() *clock.Clock
	RuntimeConfig() *config.RuntimeConfig
	Rand() *randengine.Engine
	Crossing() ICrossing
}
