package config

// PopulationCounts 每个方向的车辆数量
// 说明：字段顺序与entity.Direction的枚举顺序一致（north, south, east, west）
type PopulationCounts struct {
	North int `yaml:"north"`
	South int `yaml:"south"`
	East  int `yaml:"east"`
	West  int `yaml:"west"`
}

// ByDirection 获取按方向枚举顺序排列的数量数组
func (p PopulationCounts) ByDirection() [4]int {
	return [4]int{p.North, p.South, p.East, p.West}
}

// Total 获取四个方向的车辆总数
func (p PopulationCounts) Total() int {
	return p.North + p.South + p.East + p.West
}

// Population 仿真车辆种群配置
type Population struct {
	Cars       PopulationCounts `yaml:"cars"`       // 各方向普通车辆数
	Ambulances PopulationCounts `yaml:"ambulances"` // 各方向救护车数
}

// Window 动态通行窗口策略
// 功能：定义普通流向开放时长的计算参数
// 算法：duration = clamp(trunc(base + (demand-1)*per_vehicle), min, max)
type Window struct {
	Base       float64 `yaml:"base"`        // 基础时长（时间单位）
	PerVehicle float64 `yaml:"per_vehicle"` // 每辆排队车辆的时长增量
	Min        int     `yaml:"min"`         // 窗口时长下限
	Max        int     `yaml:"max"`         // 窗口时长上限
}

// Delay 仿真延迟参数（全部以抽象时间单位计）
type Delay struct {
	ApproachMin   int     `yaml:"approach_min"`   // 普通车辆接近路口的最短耗时
	ApproachSpan  int     `yaml:"approach_span"`  // 接近耗时的随机跨度
	CrossOrdinary float64 `yaml:"cross_ordinary"` // 普通车辆穿越路口耗时
	CrossPriority float64 `yaml:"cross_priority"` // 优先车辆穿越路口耗时
	ReactionGrace float64 `yaml:"reaction_grace"` // 紧急宣告后留给控制器的反应时间
	IdleMin       int     `yaml:"idle_min"`       // 救护车两次出勤间的最短空闲
	IdleSpan      int     `yaml:"idle_span"`      // 空闲时长的随机跨度
	DecisionPause float64 `yaml:"decision_pause"` // 控制器每轮决策前的停顿
}

// Control 仿真控制配置
type Control struct {
	Unit  float64 `yaml:"unit"`           // 一个时间单位对应的真实秒数
	Total float64 `yaml:"total"`          // 仿真总时长（时间单位），0表示持续运行
	Seed  uint64  `yaml:"seed,omitempty"` // 随机数种子
}

// Watchdog 活性监视配置
type Watchdog struct {
	Interval       float64 `yaml:"interval"`        // 采样间隔（时间单位）
	EmergencyStall float64 `yaml:"emergency_stall"` // 紧急模式持续告警阈值
	FlowStall      float64 `yaml:"flow_stall"`      // 同一流向持续告警阈值
	TopK           int     `yaml:"top_k"`           // 拥堵方向报告数量
}

// Output 输出配置
type Output struct {
	Journal string `yaml:"journal,omitempty"` // 事件流水文件路径（JSON lines），为空则不落盘
}

// Config YAML配置文件的根结构
type Config struct {
	Control    Control    `yaml:"control"`            // 仿真过程控制
	Window     Window     `yaml:"window"`             // 通行窗口策略
	Delay      Delay      `yaml:"delay"`              // 延迟参数
	Population Population `yaml:"population"`         // 车辆种群
	Watchdog   Watchdog   `yaml:"watchdog,omitempty"` // 活性监视
	Output     Output     `yaml:"output,omitempty"`   // 输出
}
