package vehicle

import (
	"errors"
	"fmt"

	"github.com/tsinghua-fib-lab/crossing-sim-oss/clock"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity/crossing"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/utils/randengine"
)

// Vehicle 车辆代理
// 功能：一个代理对应一辆仿真车辆，在独立协程中执行无尽的
// "接近-入队-等待准入-穿越-离开"循环，直至路口停机
// 说明：代理只通过ICrossing接口与共享状态交互，延迟模拟全部在锁外进行
type Vehicle struct {
	id   int32               // 同方向同类型内的序号，从1开始
	dir  entity.Direction    // 来向
	kind entity.VehicleKind  // 车辆类型
	c    entity.ICrossing    // 路口
	clk  *clock.Clock        // 仿真时钟
	rand *randengine.Engine  // 随机延迟源
	dly  config.Delay        // 延迟参数
}

// ID 获取车辆序号
func (v *Vehicle) ID() int32 {
	return v.id
}

// Direction 获取车辆来向
func (v *Vehicle) Direction() entity.Direction {
	return v.dir
}

// Kind 获取车辆类型
func (v *Vehicle) Kind() entity.VehicleKind {
	return v.kind
}

// String 获取车辆的字符串表示
func (v *Vehicle) String() string {
	return fmt.Sprintf("%v %d (%v)", v.kind, v.id, v.dir)
}

// run 车辆主循环入口
func (v *Vehicle) run() {
	if v.kind == entity.KindPriority {
		v.runAmbulance()
	} else {
		v.runCar()
	}
}

// runCar 普通车辆循环
// 功能：模拟接近耗时后入队等待准入，穿越路口后离开，随即开始下一轮
// 算法说明：
// 1. 接近：随机[approach_min, approach_min+approach_span)个时间单位
// 2. 入队并阻塞等待准入（Enter内部为条件等待循环）
// 3. 穿越：固定cross_ordinary个时间单位，期间不持锁
// 4. 离开并广播（控制器可能在等待路口清空）
// 任一休眠被停机信号打断或Enter返回错误时退出循环
func (v *Vehicle) runCar() {
	for {
		log.Debugf("%v approaching the crossing", v)
		t := v.rand.UnitsSafe(v.dly.ApproachMin, v.dly.ApproachSpan)
		if !v.clk.Sleep(t, v.c.Done()) {
			return
		}

		if err := v.c.Enter(v.dir, entity.KindOrdinary); err != nil {
			v.exit(err)
			return
		}
		log.Debugf("%v entered the crossing", v)

		interrupted := !v.clk.Sleep(v.dly.CrossOrdinary, v.c.Done())
		if err := v.c.Leave(v.dir, entity.KindOrdinary); err != nil {
			v.exit(err)
			return
		}
		log.Debugf("%v left the crossing", v)
		if interrupted {
			return
		}
	}
}

// runAmbulance 优先车辆循环
// 功能：先宣告紧急迫使控制器反应，短暂反应期后入队，快速穿越后
// 清除紧急标志（在Leave内完成），再经历长随机空闲进入下一次出勤
// 算法说明：
// 1. 宣告：置位紧急标志并广播，随即释放锁（不得持锁跨越反应期）
// 2. 反应期：reaction_grace个时间单位，留给控制器清空路口
// 3. 入队等待优先流向开放
// 4. 穿越：cross_priority个时间单位
// 5. 离开：清除紧急标志并广播
// 6. 空闲：随机[idle_min, idle_min+idle_span)个时间单位
func (v *Vehicle) runAmbulance() {
	for {
		log.Infof("%v approaching in emergency", v)
		if err := v.c.Announce(v.dir); err != nil {
			v.exit(err)
			return
		}
		if !v.clk.Sleep(v.dly.ReactionGrace, v.c.Done()) {
			return
		}

		if err := v.c.Enter(v.dir, entity.KindPriority); err != nil {
			v.exit(err)
			return
		}
		log.Infof("%v entered the crossing", v)

		interrupted := !v.clk.Sleep(v.dly.CrossPriority, v.c.Done())
		if err := v.c.Leave(v.dir, entity.KindPriority); err != nil {
			v.exit(err)
			return
		}
		log.Infof("%v left the crossing", v)
		if interrupted {
			return
		}

		t := v.rand.UnitsSafe(v.dly.IdleMin, v.dly.IdleSpan)
		if !v.clk.Sleep(t, v.c.Done()) {
			return
		}
	}
}

// exit 记录退出原因
// 说明：停机是正常退出路径，其余错误按异常记录
func (v *Vehicle) exit(err error) {
	if errors.Is(err, crossing.ErrStopped) {
		log.Debugf("%v exiting: crossing stopped", v)
		return
	}
	log.Errorf("%v exiting: %v", v, err)
}
