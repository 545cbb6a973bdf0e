package vehicle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/clock"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity/crossing"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity/vehicle"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/utils/randengine"
)

// taskContext is a minimal task context for tests
type taskContext struct {
	clk  *clock.Clock
	rc   *config.RuntimeConfig
	rand *randengine.Engine
	c    entity.ICrossing
}

func (t *taskContext) Clock() *clock.Clock                  { return t.clk }
func (t *taskContext) RuntimeConfig() *config.RuntimeConfig { return t.rc }
func (t *taskContext) Rand() *randengine.Engine             { return t.rand }
func (t *taskContext) Crossing() entity.ICrossing           { return t.c }

var _ entity.ITaskContext = (*taskContext)(nil)
var _ entity.IVehicleManager = (*vehicle.Manager)(nil)

func newTaskContext(t *testing.T, pop config.Population) *taskContext {
	cfg := config.Default()
	cfg.Population = pop
	cfg.Control.Unit = 0.001
	cfg.Delay = config.Delay{
		ApproachMin: 1, ApproachSpan: 2,
		CrossOrdinary: 1, CrossPriority: 1, ReactionGrace: 1,
		IdleMin: 1, IdleSpan: 2,
		DecisionPause: 1,
	}
	rc, err := config.NewRuntimeConfig(cfg)
	require.NoError(t, err)
	return &taskContext{
		clk:  clock.New(cfg.Control),
		rc:   rc,
		rand: randengine.New(1),
		c:    crossing.New(nil),
	}
}

func TestManagerExpandsPopulation(t *testing.T) {
	ctx := newTaskContext(t, config.Population{
		Cars:       config.PopulationCounts{North: 2, East: 1},
		Ambulances: config.PopulationCounts{South: 1},
	})
	m := vehicle.NewManager(ctx)
	assert.Equal(t, 4, m.Count())

	// ids count up from 1 within (direction, kind)
	ids := map[[2]int][]int32{}
	for _, v := range m.Vehicles() {
		key := [2]int{int(v.Direction()), int(v.Kind())}
		ids[key] = append(ids[key], v.ID())
	}
	assert.ElementsMatch(t, []int32{1, 2},
		ids[[2]int{int(entity.DirectionNorth), int(entity.KindOrdinary)}])
	assert.ElementsMatch(t, []int32{1},
		ids[[2]int{int(entity.DirectionEast), int(entity.KindOrdinary)}])
	assert.ElementsMatch(t, []int32{1},
		ids[[2]int{int(entity.DirectionSouth), int(entity.KindPriority)}])
}

func TestVehiclesExitOnStop(t *testing.T) {
	ctx := newTaskContext(t, config.Population{
		Cars:       config.PopulationCounts{North: 2, South: 1, East: 2, West: 1},
		Ambulances: config.PopulationCounts{North: 1},
	})
	m := vehicle.NewManager(ctx)
	m.Start()

	// let the agent loops run for a while before shutdown
	time.Sleep(50 * time.Millisecond)
	ctx.c.Stop()

	joined := make(chan struct{})
	go func() {
		m.Join()
		close(joined)
	}()
	select {
	case <-joined:
	case <-time.After(5 * time.Second):
		t.Fatal("vehicles did not exit after stop")
	}

	// nothing may remain inside the crossing after shutdown
	s := ctx.c.Snapshot()
	assert.Equal(t, 0, s.CrossingOrdinary)
	assert.Equal(t, 0, s.CrossingPriority)
}
