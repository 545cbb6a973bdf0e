package vehicle

import (
	"sync"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity"
)

// spec 单辆车的构造参数
type spec struct {
	dir  entity.Direction
	kind entity.VehicleKind
}

// idAllocator 车辆序号分配器
// 功能：按（方向，类型）维护递增序号，并发构造时用独立的小锁保护，
// 与路口协调锁无关
type idAllocator struct {
	mtx  sync.Mutex
	next map[spec]int32
}

func newIDAllocator() *idAllocator {
	return &idAllocator{next: make(map[spec]int32)}
}

// Alloc 分配下一个序号（从1开始）
func (a *idAllocator) Alloc(s spec) int32 {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	a.next[s]++
	return a.next[s]
}

// Manager 车辆管理器
// 功能：根据种群配置构造全部车辆代理，负责启动与回收协程
type Manager struct {
	ctx      entity.ITaskContext
	vehicles []*Vehicle
	wg       sync.WaitGroup
}

// NewManager 创建车辆管理器
// 功能：按配置展开车辆种群并并行构造所有代理
// 参数：ctx-任务上下文
// 返回：初始化完成的管理器实例
// 算法说明：
// 1. 把每个方向的普通车辆数与救护车数展开为构造参数列表
// 2. 并行构造代理，序号经分配器按（方向，类型）递增
func NewManager(ctx entity.ITaskContext) *Manager {
	m := &Manager{ctx: ctx}

	pop := ctx.RuntimeConfig().All.Population
	specs := make([]spec, 0, pop.Cars.Total()+pop.Ambulances.Total())
	for dir, n := range pop.Cars.ByDirection() {
		for i := 0; i < n; i++ {
			specs = append(specs, spec{dir: entity.Direction(dir), kind: entity.KindOrdinary})
		}
	}
	for dir, n := range pop.Ambulances.ByDirection() {
		for i := 0; i < n; i++ {
			specs = append(specs, spec{dir: entity.Direction(dir), kind: entity.KindPriority})
		}
	}

	alloc := newIDAllocator()
	m.vehicles = parallel.GoMap(specs, func(s spec) *Vehicle {
		return &Vehicle{
			id:   alloc.Alloc(s),
			dir:  s.dir,
			kind: s.kind,
			c:    ctx.Crossing(),
			clk:  ctx.Clock(),
			rand: ctx.Rand(),
			dly:  ctx.RuntimeConfig().All.Delay,
		}
	})
	return m
}

// Start 启动所有车辆代理协程
func (m *Manager) Start() {
	log.Infof("starting %d vehicle(s)", len(m.vehicles))
	for _, v := range m.vehicles {
		v := v
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			v.run()
		}()
	}
}

// Join 等待所有车辆代理退出
// 说明：必须先通过路口的Stop发出停机信号，否则永不返回
func (m *Manager) Join() {
	m.wg.Wait()
	log.Info("all vehicles exited")
}

// Count 获取车辆代理总数
func (m *Manager) Count() int {
	return len(m.vehicles)
}

// Vehicles 获取全部车辆代理
func (m *Manager) Vehicles() []*Vehicle {
	return m.vehicles
}
