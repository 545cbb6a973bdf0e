package config

import "fmt"

// Default 内置默认配置
// 功能：提供一套可直接运行的仿真参数
// 说明：种群与延迟取自经典四向路口习题的常用取值
func Default() Config {
	return Config{
		Control: Control{
			Unit:  1.0,
			Total: 0,
		},
		Window: Window{
			Base:       1.8,
			PerVehicle: 2.2,
			Min:        5,
			Max:        20,
		},
		Delay: Delay{
			ApproachMin:   2,
			ApproachSpan:  8,
			CrossOrdinary: 3,
			CrossPriority: 2,
			ReactionGrace: 1,
			IdleMin:       30,
			IdleSpan:      30,
			DecisionPause: 2,
		},
		Population: Population{
			Cars:       PopulationCounts{North: 15, South: 3, East: 8, West: 8},
			Ambulances: PopulationCounts{North: 2, South: 1, East: 3, West: 1},
		},
		Watchdog: Watchdog{
			Interval:       5,
			EmergencyStall: 30,
			FlowStall:      60,
			TopK:           2,
		},
	}
}

// RuntimeConfig 运行时配置
// 功能：存储仿真运行时的配置信息，未指定项回填默认值
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：创建运行时配置对象，进行配置验证和默认值回填
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针和验证错误
// 算法说明：
// 1. 对未填写的窗口、延迟、监视参数回填默认值
// 2. 校验窗口上下限与时间单位的合法性
func NewRuntimeConfig(config Config) (*RuntimeConfig, error) {
	def := Default()
	if config.Control.Unit == 0 {
		config.Control.Unit = def.Control.Unit
	}
	if config.Window == (Window{}) {
		config.Window = def.Window
	}
	if config.Delay == (Delay{}) {
		config.Delay = def.Delay
	}
	if config.Watchdog == (Watchdog{}) {
		config.Watchdog = def.Watchdog
	}

	if config.Control.Unit < 0 {
		return nil, fmt.Errorf("config: control.unit must be positive, got %v", config.Control.Unit)
	}
	if config.Window.Min <= 0 || config.Window.Max < config.Window.Min {
		return nil, fmt.Errorf(
			"config: window bounds must satisfy 0 < min <= max, got [%d, %d]",
			config.Window.Min, config.Window.Max,
		)
	}
	if config.Window.Base <= 0 || config.Window.PerVehicle < 0 {
		return nil, fmt.Errorf(
			"config: window formula requires base > 0 and per_vehicle >= 0, got base=%v per_vehicle=%v",
			config.Window.Base, config.Window.PerVehicle,
		)
	}

	rc := &RuntimeConfig{}
	rc.All = config
	rc.C = config.Control
	return rc, nil
}
