package crossing

import "github.com/tsinghua-fib-lab/crossing-sim-oss/entity"

// MayProceed 准入判定
// 功能：判定某方向、某类型的车辆此刻能否进入路口
// 参数：dir-来向，flow-当前流向，kind-车辆类型，emergencyActive-紧急标志
// 返回：true表示可以进入
// 算法说明（按序生效）：
// 1. 流向处于优先模式时只有优先车辆可以通过
// 2. 紧急标志置位时普通车辆一律不通过，即使流向尚未切换
//    （封住紧急宣告与控制器反应之间的窗口）
// 3. 其余情况按来向所属轴与流向开放轴是否一致判定
// 说明：纯函数，无副作用，必须在持有路口锁时求值以保证快照一致
func MayProceed(dir entity.Direction, flow entity.FlowSelector, kind entity.VehicleKind, emergencyActive bool) bool {
	if flow.IsPriority() && kind != entity.KindPriority {
		return false
	}
	if emergencyActive && kind == entity.KindOrdinary {
		return false
	}
	return dir.Axis() == flow.Axis()
}
