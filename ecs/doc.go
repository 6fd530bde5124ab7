// Package ecs provides ECS adapters for cubefx's effect lifecycle events.
//
// The primary adapter is [NewDonburiSink], which bridges confetti lifecycle
// events (started, stage settled, stopped) into a [Donburi] world as typed
// events. Subscribe to [EffectEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	confetti.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
