package clock

import (
	"fmt"
	"time"

	"github.com/tsinghua-fib-lab/crossing-sim-oss/utils/config"
)

// Clock 仿真时钟管理器
// 功能：将仿真中的抽象时间单位映射为真实时长，并记录仿真起始时刻
// 说明：所有延迟模拟（接近、穿越、空闲、窗口递进）都以时间单位表达，
// 通过调整unit可以在不改变调度语义的前提下整体加速或减速仿真
type Clock struct {
	Unit time.Duration // 一个时间单位对应的真实时长

	start time.Time // 仿真起始时刻
}

// New 根据配置创建新的时钟实例
// 功能：根据全局控制配置初始化时钟
// 参数：c-控制配置，其中unit为一个时间单位的真实秒数
// 返回：初始化完成的时钟实例
func New(c config.Control) *Clock {
	unit := time.Duration(c.Unit * float64(time.Second))
	if unit <= 0 {
		unit = time.Second
	}
	return &Clock{
		Unit:  unit,
		start: time.Now(),
	}
}

// Duration 将时间单位换算为真实时长
func (c *Clock) Duration(units float64) time.Duration {
	return time.Duration(units * float64(c.Unit))
}

// T 获取当前仿真时间（时间单位）
func (c *Clock) T() float64 {
	return float64(time.Since(c.start)) / float64(c.Unit)
}

// Sleep 按时间单位休眠，可被停机信号打断
// 功能：阻塞指定数量的时间单位
// 参数：units-休眠时长，done-停机信号通道（可为nil）
// 返回：true表示完整睡满，false表示被停机信号打断
func (c *Clock) Sleep(units float64, done <-chan struct{}) bool {
	d := c.Duration(units)
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-done:
		return false
	}
}

// String 获取时钟的字符串表示
// 功能：将当前仿真时间格式化为可读的字符串（HH:MM:SS）
func (c *Clock) String() string {
	h, m, s := c.GetHourMinuteSecond()
	return fmt.Sprintf("%02d:%02d:%02d", h, m, int(s))
}

// GetHourMinuteSecond 获取当前仿真时间的小时、分钟、秒
// 功能：将当前仿真时间（时间单位按秒解释）分解为时分秒
// 返回：小时、分钟、秒（秒为浮点数，支持亚秒级精度）
func (c *Clock) GetHourMinuteSecond() (int, int, float64) {
	t := c.T()
	hour := int(t) / 3600
	minute := int(t) % 3600 / 60
	second := t - float64(hour*3600+minute*60)
	return hour, minute, second
}
