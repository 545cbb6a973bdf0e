package crossing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity/crossing"
)

func TestMayProceedNormalFlow(t *testing.T) {
	// matching axis passes, crossing axis is barred
	assert.True(t, crossing.MayProceed(entity.DirectionNorth, entity.FlowNormalNS, entity.KindOrdinary, false))
	assert.True(t, crossing.MayProceed(entity.DirectionSouth, entity.FlowNormalNS, entity.KindOrdinary, false))
	assert.False(t, crossing.MayProceed(entity.DirectionEast, entity.FlowNormalNS, entity.KindOrdinary, false))
	assert.False(t, crossing.MayProceed(entity.DirectionNorth, entity.FlowNormalEW, entity.KindOrdinary, false))
}

func TestMayProceedPriorityFlowBarsOrdinary(t *testing.T) {
	for _, dir := range []entity.Direction{
		entity.DirectionNorth, entity.DirectionSouth,
		entity.DirectionEast, entity.DirectionWest,
	} {
		assert.False(t, crossing.MayProceed(dir, entity.FlowPriorityNS, entity.KindOrdinary, true))
		assert.False(t, crossing.MayProceed(dir, entity.FlowPriorityEW, entity.KindOrdinary, true))
	}
	assert.True(t, crossing.MayProceed(entity.DirectionNorth, entity.FlowPriorityNS, entity.KindPriority, true))
	assert.False(t, crossing.MayProceed(entity.DirectionEast, entity.FlowPriorityNS, entity.KindPriority, true))
}

func TestMayProceedEmergencyClosesWindow(t *testing.T) {
	// the flow selector still points at a normal axis, but the emergency
	// announcement must already bar ordinary vehicles
	assert.False(t, crossing.MayProceed(entity.DirectionNorth, entity.FlowNormalNS, entity.KindOrdinary, true))
	assert.False(t, crossing.MayProceed(entity.DirectionEast, entity.FlowNormalEW, entity.KindOrdinary, true))
}

func TestMayProceedPriorityUnderNormalFlow(t *testing.T) {
	// an ambulance whose axis already matches a normal selector passes
	// without waiting for the priority selector
	assert.True(t, crossing.MayProceed(entity.DirectionNorth, entity.FlowNormalNS, entity.KindPriority, true))
	assert.False(t, crossing.MayProceed(entity.DirectionEast, entity.FlowNormalNS, entity.KindPriority, true))
}
