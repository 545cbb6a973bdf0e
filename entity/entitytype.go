package entity

import "time"

// Direction 车辆来向
type Direction int32

// 四个来向，North/South共享南北轴，East/West共享东西轴
const (
	DirectionNorth Direction = iota
	DirectionSouth
	DirectionEast
	DirectionWest
	NumDirections // 方向总数
)

var directionNames = [NumDirections]string{"north", "south", "east", "west"}

// String 获取方向的字符串表示
func (d Direction) String() string {
	if !d.IsValid() {
		return "unknown"
	}
	return directionNames[d]
}

// IsValid 判断方向取值是否合法
func (d Direction) IsValid() bool {
	return d >= 0 && d < NumDirections
}

// Axis 获取方向所属的通行轴
// 功能：North/South映射到南北轴，East/West映射到东西轴
func (d Direction) Axis() Axis {
	if d == DirectionNorth || d == DirectionSouth {
		return AxisNS
	}
	return AxisEW
}

// Axis 通行轴，互相垂直的两组兼容方向
type Axis int32

const (
	AxisNS Axis = iota // 南北轴
	AxisEW             // 东西轴
	NumAxes            // 轴总数
)

// String 获取通行轴的字符串表示
func (a Axis) String() string {
	if a == AxisNS {
		return "north-south"
	}
	return "east-west"
}

// Directions 获取通行轴包含的方向
func (a Axis) Directions() []Direction {
	if a == AxisNS {
		return []Direction{DirectionNorth, DirectionSouth}
	}
	return []Direction{DirectionEast, DirectionWest}
}

// VehicleKind 车辆类型
type VehicleKind int32

const (
	KindOrdinary VehicleKind = iota // 普通车辆
	KindPriority                    // 优先车辆（救护车）
)

// String 获取车辆类型的字符串表示
func (k VehicleKind) String() string {
	switch k {
	case KindOrdinary:
		return "car"
	case KindPriority:
		return "ambulance"
	default:
		return "unknown"
	}
}

// IsValid 判断车辆类型取值是否合法
func (k VehicleKind) IsValid() bool {
	return k == KindOrdinary || k == KindPriority
}

// FlowSelector 当前拥有路权的通行流向
// 功能：编码"哪条轴开放"以及"普通/优先模式"，同一时刻有且仅有一个取值生效，
// 是准入判定的唯一闸门
type FlowSelector int32

const (
	FlowNormalNS   FlowSelector = iota // 南北轴普通通行
	FlowNormalEW                       // 东西轴普通通行
	FlowPriorityNS                     // 南北轴优先通行
	FlowPriorityEW                     // 东西轴优先通行
)

var flowNames = [...]string{"normal-ns", "normal-ew", "priority-ns", "priority-ew"}

// String 获取流向的字符串表示
func (f FlowSelector) String() string {
	if !f.IsValid() {
		return "unknown"
	}
	return flowNames[f]
}

// Axis 获取流向开放的通行轴
func (f FlowSelector) Axis() Axis {
	if f == FlowNormalNS || f == FlowPriorityNS {
		return AxisNS
	}
	return AxisEW
}

// IsPriority 判断流向是否处于优先模式
func (f FlowSelector) IsPriority() bool {
	return f == FlowPriorityNS || f == FlowPriorityEW
}

// IsValid 判断流向取值是否合法
func (f FlowSelector) IsValid() bool {
	return f >= FlowNormalNS && f <= FlowPriorityEW
}

// NormalFlowOf 获取指定通行轴的普通流向
func NormalFlowOf(a Axis) FlowSelector {
	if a == AxisNS {
		return FlowNormalNS
	}
	return FlowNormalEW
}

// PriorityFlowOf 获取指定通行轴的优先流向
func PriorityFlowOf(a Axis) FlowSelector {
	if a == AxisNS {
		return FlowPriorityNS
	}
	return FlowPriorityEW
}

// CrossingSnapshot 路口状态快照
// 功能：在锁内一致性拷贝的共享状态，用于心跳日志、活性监视与测试断言，
// 外部读取快照不会干扰协调协议
type CrossingSnapshot struct {
	WaitingOrdinary  [NumDirections]int // 各方向等待中的普通车辆数
	WaitingPriority  [NumDirections]int // 各方向等待中的优先车辆数
	CrossingOrdinary int                // 路口内普通车辆数
	CrossingPriority int                // 路口内优先车辆数
	EmergencyActive  bool               // 紧急模式标志
	CurrentFlow      FlowSelector       // 当前流向
	FlowElapsed      time.Duration      // 当前流向已持续的真实时长
}

// WaitingOrdinaryOnAxis 统计某通行轴上等待中的普通车辆数
func (s CrossingSnapshot) WaitingOrdinaryOnAxis(a Axis) int {
	sum := 0
	for _, d := range a.Directions() {
		sum += s.WaitingOrdinary[d]
	}
	return sum
}

// WaitingPriorityOnAxis 统计某通行轴上等待中的优先车辆数
func (s CrossingSnapshot) WaitingPriorityOnAxis(a Axis) int {
	sum := 0
	for _, d := range a.Directions() {
		sum += s.WaitingPriority[d]
	}
	return sum
}

// WaitingTotal 统计某方向等待中的全部车辆数
func (s CrossingSnapshot) WaitingTotal(d Direction) int {
	return s.WaitingOrdinary[d] + s.WaitingPriority[d]
}
