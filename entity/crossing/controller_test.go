package crossing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/clock"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity/crossing"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/telemetry"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/testutil"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/utils/config"
)

func testWindow() config.Window {
	return config.Default().Window
}

// 1ms units so windows advance in milliseconds
func testClock() *clock.Clock {
	return clock.New(config.Control{Unit: 0.001})
}

func waitingOrdinary(s entity.CrossingSnapshot) int {
	return s.WaitingOrdinaryOnAxis(entity.AxisNS) + s.WaitingOrdinaryOnAxis(entity.AxisEW)
}

func TestWindowUnits(t *testing.T) {
	w := testWindow()
	require.Equal(t, 1.8, w.Base)
	require.Equal(t, 2.2, w.PerVehicle)

	cases := []struct {
		demand int
		units  int
	}{
		{0, 5},  // empty queue clamps to min
		{1, 5},  // 1.8 truncates to 1, clamps to min
		{2, 5},  // 4.0, still below min
		{3, 6},  // 6.2 truncates to 6
		{5, 10}, // 10.6 truncates to 10
		{9, 19},
		{20, 20}, // 43.6 clamps to max
	}
	for _, c := range cases {
		assert.Equal(t, c.units, crossing.WindowUnits(w, c.demand), "demand=%d", c.demand)
	}
}

func TestControllerOpensDemandedAxis(t *testing.T) {
	rec := testutil.NewRecorder()
	c := crossing.New(telemetry.NewListeners(rec))
	ctl := crossing.NewController(c, testClock(), testWindow(), 1)

	// initial flow is north-south, the east car must wait for a decision
	entered := make(chan error, 1)
	go func() {
		entered <- c.Enter(entity.DirectionEast, entity.KindOrdinary)
	}()
	assert.Eventually(t, func() bool {
		return c.Snapshot().WaitingOrdinary[entity.DirectionEast] == 1
	}, waitFor, tick)

	go ctl.Run()
	require.NoError(t, <-entered)
	assert.Equal(t, entity.FlowNormalEW, c.Snapshot().CurrentFlow)

	opened := rec.ByType(telemetry.EventFlowOpened)
	require.Len(t, opened, 1)
	assert.Equal(t, entity.AxisEW.String(), opened[0].Axis)
	assert.False(t, opened[0].Priority)
	assert.Equal(t, 5, opened[0].Duration)

	// window closes early once the queue drains
	require.NoError(t, c.Leave(entity.DirectionEast, entity.KindOrdinary))
	assert.Eventually(t, func() bool {
		closed := rec.ByType(telemetry.EventFlowClosed)
		return len(closed) > 0 && closed[0].Reason == string(telemetry.CloseQueueDrained)
	}, waitFor, tick)

	c.Stop()
	assert.Eventually(t, func() bool {
		return ctl.State() == crossing.StateStopped
	}, waitFor, tick)
}

func TestControllerTieBreakFavorsNorthSouth(t *testing.T) {
	rec := testutil.NewRecorder()
	c := crossing.New(telemetry.NewListeners(rec))
	defer c.Stop()

	// a priority selector bars all cars so both queues can build up
	require.NoError(t, c.SetFlow(entity.FlowPriorityNS))
	for _, dir := range []entity.Direction{
		entity.DirectionNorth, entity.DirectionSouth,
		entity.DirectionEast, entity.DirectionWest,
	} {
		d := dir
		go func() { _ = c.Enter(d, entity.KindOrdinary) }()
	}
	assert.Eventually(t, func() bool {
		return waitingOrdinary(c.Snapshot()) == 4
	}, waitFor, tick)

	ctl := crossing.NewController(c, testClock(), testWindow(), 1)
	go ctl.Run()

	assert.Eventually(t, func() bool {
		return rec.Count(telemetry.EventFlowOpened) > 0
	}, waitFor, tick)
	assert.Equal(t, entity.AxisNS.String(), rec.ByType(telemetry.EventFlowOpened)[0].Axis)
}

func TestControllerPicksBusierAxis(t *testing.T) {
	rec := testutil.NewRecorder()
	c := crossing.New(telemetry.NewListeners(rec))
	defer c.Stop()

	require.NoError(t, c.SetFlow(entity.FlowPriorityNS))
	for _, dir := range []entity.Direction{
		entity.DirectionNorth,
		entity.DirectionEast, entity.DirectionEast, entity.DirectionWest,
	} {
		d := dir
		go func() { _ = c.Enter(d, entity.KindOrdinary) }()
	}
	assert.Eventually(t, func() bool {
		return waitingOrdinary(c.Snapshot()) == 4
	}, waitFor, tick)

	ctl := crossing.NewController(c, testClock(), testWindow(), 1)
	go ctl.Run()

	assert.Eventually(t, func() bool {
		return rec.Count(telemetry.EventFlowOpened) > 0
	}, waitFor, tick)
	assert.Equal(t, entity.AxisEW.String(), rec.ByType(telemetry.EventFlowOpened)[0].Axis)
}

func TestControllerDrainsBeforeEmergency(t *testing.T) {
	rec := testutil.NewRecorder()
	c := crossing.New(telemetry.NewListeners(rec))
	defer c.Stop()

	// two cars are inside the crossing
	require.NoError(t, c.Enter(entity.DirectionNorth, entity.KindOrdinary))
	require.NoError(t, c.Enter(entity.DirectionSouth, entity.KindOrdinary))
	require.NoError(t, c.Announce(entity.DirectionEast))

	// the ambulance queues for a priority flow
	ambulance := make(chan error, 1)
	go func() {
		ambulance <- c.Enter(entity.DirectionEast, entity.KindPriority)
	}()
	assert.Eventually(t, func() bool {
		return c.Snapshot().WaitingPriority[entity.DirectionEast] == 1
	}, waitFor, tick)

	ctl := crossing.NewController(c, testClock(), testWindow(), 1)
	go ctl.Run()

	// the controller must hold in the drain phase until both cars leave
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, crossing.StateDraining, ctl.State())
	assert.Zero(t, rec.Count(telemetry.EventFlowOpened))

	require.NoError(t, c.Leave(entity.DirectionNorth, entity.KindOrdinary))
	require.NoError(t, c.Leave(entity.DirectionSouth, entity.KindOrdinary))

	require.NoError(t, <-ambulance)
	assert.Equal(t, entity.FlowPriorityEW, c.Snapshot().CurrentFlow)

	opened := rec.ByType(telemetry.EventFlowOpened)
	require.Len(t, opened, 1)
	assert.True(t, opened[0].Priority)
	assert.Equal(t, entity.AxisEW.String(), opened[0].Axis)
	// both departures precede the priority flow opening
	lastDeparted, openedAt := -1, -1
	for i, e := range rec.Events() {
		switch e.Type {
		case telemetry.EventVehicleDeparted:
			lastDeparted = i
		case telemetry.EventFlowOpened:
			if openedAt < 0 {
				openedAt = i
			}
		}
	}
	assert.Greater(t, openedAt, lastDeparted)

	// the last priority departure ends the emergency
	require.NoError(t, c.Leave(entity.DirectionEast, entity.KindPriority))
	assert.Eventually(t, func() bool {
		return rec.Count(telemetry.EventEmergencyEnded) == 1 &&
			rec.Count(telemetry.EventFlowClosed) >= 1
	}, waitFor, tick)
	assert.False(t, c.Snapshot().EmergencyActive)
}

func TestControllerStopsWithCrossing(t *testing.T) {
	c := crossing.New(nil)
	ctl := crossing.NewController(c, testClock(), testWindow(), 1)
	go ctl.Run()

	time.Sleep(20 * time.Millisecond)
	c.Stop()
	assert.Eventually(t, func() bool {
		return ctl.State() == crossing.StateStopped
	}, waitFor, tick)
}
