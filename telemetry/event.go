package telemetry

import (
	"time"

	"github.com/google/uuid"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity"
)

// EventType 可观测事件类型
type EventType string

const (
	EventFlowOpened       EventType = "flow-opened"       // 某流向开放
	EventFlowClosed       EventType = "flow-closed"       // 某流向关闭
	EventVehicleQueued    EventType = "vehicle-queued"    // 车辆入队
	EventVehicleAdmitted  EventType = "vehicle-admitted"  // 车辆获准进入路口
	EventVehicleDeparted  EventType = "vehicle-departed"  // 车辆离开路口
	EventEmergencyStarted EventType = "emergency-started" // 紧急模式开始
	EventEmergencyEnded   EventType = "emergency-ended"   // 紧急模式结束
)

// CloseReason 流向关闭原因
type CloseReason string

const (
	CloseExpired      CloseReason = "expired"       // 窗口时长耗尽
	CloseQueueDrained CloseReason = "queue-drained" // 开放轴的等待队列提前清空
)

// Event 一次路口可观测事件
// 功能：承载协调器对外发布的状态变化，按事件类型填充相应字段
// 说明：字段为字符串形式以便直接落盘为JSON lines
type Event struct {
	ID   string    `json:"id"`   // 事件唯一标识
	Type EventType `json:"type"` // 事件类型
	At   time.Time `json:"at"`   // 事件发生时刻

	Direction string `json:"direction,omitempty"` // 车辆事件：来向
	Kind      string `json:"kind,omitempty"`      // 车辆事件：车辆类型
	Axis      string `json:"axis,omitempty"`      // 流向事件：通行轴
	Priority  bool   `json:"priority,omitempty"`  // 流向事件：是否优先模式
	Duration  int    `json:"duration,omitempty"`  // 流向开放事件：窗口时长（时间单位），优先模式无固定窗口为0
	Reason    string `json:"reason,omitempty"`    // 流向关闭事件：关闭原因
}

func newEvent(t EventType) Event {
	return Event{ID: uuid.NewString(), Type: t, At: time.Now()}
}

// NewFlowOpened 创建流向开放事件
func NewFlowOpened(axis entity.Axis, priority bool, duration int) Event {
	e := newEvent(EventFlowOpened)
	e.Axis = axis.String()
	e.Priority = priority
	e.Duration = duration
	return e
}

// NewFlowClosed 创建流向关闭事件
func NewFlowClosed(axis entity.Axis, priority bool, reason CloseReason) Event {
	e := newEvent(EventFlowClosed)
	e.Axis = axis.String()
	e.Priority = priority
	e.Reason = string(reason)
	return e
}

// NewVehicleQueued 创建车辆入队事件
func NewVehicleQueued(dir entity.Direction, kind entity.VehicleKind) Event {
	e := newEvent(EventVehicleQueued)
	e.Direction = dir.String()
	e.Kind = kind.String()
	return e
}

// NewVehicleAdmitted 创建车辆准入事件
func NewVehicleAdmitted(dir entity.Direction, kind entity.VehicleKind) Event {
	e := newEvent(EventVehicleAdmitted)
	e.Direction = dir.String()
	e.Kind = kind.String()
	return e
}

// NewVehicleDeparted 创建车辆离开事件
func NewVehicleDeparted(dir entity.Direction, kind entity.VehicleKind) Event {
	e := newEvent(EventVehicleDeparted)
	e.Direction = dir.String()
	e.Kind = kind.String()
	return e
}

// NewEmergencyStarted 创建紧急模式开始事件
func NewEmergencyStarted(dir entity.Direction) Event {
	e := newEvent(EventEmergencyStarted)
	e.Direction = dir.String()
	return e
}

// NewEmergencyEnded 创建紧急模式结束事件
func NewEmergencyEnded(dir entity.Direction) Event {
	e := newEvent(EventEmergencyEnded)
	e.Direction = dir.String()
	return e
}
