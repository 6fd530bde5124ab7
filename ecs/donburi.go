// Package ecs provides ECS adapters for cubefx.
package ecs

import (
	"github.com/phanxgames/cubefx"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EffectEventType is the Donburi event type for cubefx effect lifecycle events.
// Subscribe to this in your ECS systems to react to confetti starting, stages
// settling and the effect stopping.
var EffectEventType = events.NewEventType[cubefx.EffectEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EffectSink backed by a Donburi world.
// Effect events are published to EffectEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) cubefx.EffectSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEffectEvent(event cubefx.EffectEvent) {
	EffectEventType.Publish(s.world, event)
}
