package task

import (
	"os"
	"sync/atomic"

	"github.com/tsinghua-fib-lab/crossing-sim-oss/clock"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity/crossing"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity/vehicle"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/telemetry"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/utils/randengine"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/watchdog"
)

// Context 仿真任务上下文
// 功能：包含一次仿真任务的所有组件和状态，替代全局变量
// 说明：按"遥测-路口-控制器-车辆-监视器"的依赖顺序完成接线
type Context struct {
	// 任务名
	job string
	// 关闭指令
	closed atomic.Bool

	// 时钟
	clock *clock.Clock
	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig
	// 随机数引擎
	rand *randengine.Engine

	// 事件监听器集合
	listeners *telemetry.Listeners
	// 事件流水文件（可选）
	journalFile *os.File

	// 路口
	crossing *crossing.Crossing
	// 路口控制器
	controller *crossing.Controller
	// 车辆管理器
	vehicleManager entity.IVehicleManager
	// 活性监视器
	watchdog *watchdog.Watchdog
}

// NewContext 创建新的仿真任务上下文
// 功能：初始化仿真系统的所有组件和配置
// 参数：job-任务名称，c-配置对象
// 返回：初始化完成的Context实例和错误
// 算法说明：
// 1. 构建运行时配置（默认值回填与校验）
// 2. 创建时钟与随机数引擎
// 3. 组装事件监听器（日志监听器，按配置追加JSON流水）
// 4. 创建路口、控制器、车辆管理器与活性监视器
func NewContext(job string, c config.Config) (*Context, error) {
	rc, err := config.NewRuntimeConfig(c)
	if err != nil {
		return nil, err
	}

	ctx := &Context{
		job:           job,
		runtimeConfig: rc,
	}
	ctx.clock = clock.New(rc.C)
	ctx.rand = randengine.New(rc.C.Seed)

	ctx.listeners = telemetry.NewListeners(telemetry.NewLogListener())
	if path := rc.All.Output.Journal; path != "" {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		ctx.journalFile = f
		ctx.listeners.Add(telemetry.NewJournal(f))
	}

	ctx.crossing = crossing.New(ctx.listeners)
	ctx.controller = crossing.NewController(
		ctx.crossing, ctx.clock, rc.All.Window, rc.All.Delay.DecisionPause,
	)
	ctx.vehicleManager = vehicle.NewManager(ctx)
	ctx.watchdog = watchdog.New(ctx)

	return ctx, nil
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

func (ctx *Context) Rand() *randengine.Engine {
	return ctx.rand
}

func (ctx *Context) Crossing() entity.ICrossing {
	return ctx.crossing
}

func (ctx *Context) Controller() *crossing.Controller {
	return ctx.controller
}

func (ctx *Context) VehicleManager() entity.IVehicleManager {
	return ctx.vehicleManager
}

// Close 关闭仿真任务
// 功能：发出停机信号，等待所有车辆代理退出并释放输出文件
// 说明：幂等，可重复调用
func (ctx *Context) Close() {
	if !ctx.closed.CompareAndSwap(false, true) {
		return
	}
	ctx.crossing.Stop()
	ctx.vehicleManager.Join()
	if ctx.journalFile != nil {
		if err := ctx.journalFile.Close(); err != nil {
			log.Errorf("close journal: %v", err)
		}
	}
	log.Infof("job %s closed at %v", ctx.job, ctx.clock)
}
