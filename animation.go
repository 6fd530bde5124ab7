package cubefx

import "time"

// TweenGroup animates up to 4 float64 fields on a Node simultaneously.
// Create one via the convenience constructors (TweenPosition, TweenScale,
// TweenRotation, TweenColor, TweenAlpha). The group is backed by a single
// Tween registered on the driver, writes interpolated values every frame
// and marks the node dirty. If the target node is disposed, the group stops
// on its next frame.
type TweenGroup struct {
	tween  *Tween
	count  int
	from   [4]float64
	to     [4]float64
	fields [4]*float64
	target *Node
	// Done is set once the group has finished or stopped.
	Done bool
}

func newTweenGroup(d *Driver, node *Node, duration time.Duration, fn EaseFunc, fields []*float64, to []float64) *TweenGroup {
	g := &TweenGroup{count: len(fields), target: node}
	for i, f := range fields {
		g.fields[i] = f
		g.from[i] = *f
		g.to[i] = to[i]
	}
	g.tween = NewTween(d, TweenConfig{
		Duration:   duration,
		Ease:       fn,
		OnUpdate:   g.apply,
		OnComplete: func() { g.Done = true },
	})
	return g
}

func (g *TweenGroup) apply(p TweenProgress) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Stop()
		return
	}
	for i := 0; i < g.count; i++ {
		*g.fields[i] = lerp(g.from[i], g.to[i], p.Value)
	}
	if g.target != nil {
		g.target.MarkDirty()
	}
}

// Stop halts the group where it is. The fields keep their last values.
func (g *TweenGroup) Stop() {
	g.Done = true
	g.tween.Stop()
}

// Tween returns the driver tween backing the group.
func (g *TweenGroup) Tween() *Tween {
	return g.tween
}

// TweenPosition creates a TweenGroup that animates node.Position to the
// given target over the specified duration using the easing function.
func TweenPosition(d *Driver, node *Node, to Vec3, duration time.Duration, fn EaseFunc) *TweenGroup {
	return newTweenGroup(d, node, duration, fn,
		[]*float64{&node.Position.X, &node.Position.Y, &node.Position.Z},
		[]float64{to.X, to.Y, to.Z})
}

// TweenScale creates a TweenGroup that animates node.Scale to the given
// target over the specified duration using the easing function.
func TweenScale(d *Driver, node *Node, to Vec3, duration time.Duration, fn EaseFunc) *TweenGroup {
	return newTweenGroup(d, node, duration, fn,
		[]*float64{&node.Scale.X, &node.Scale.Y, &node.Scale.Z},
		[]float64{to.X, to.Y, to.Z})
}

// TweenRotation creates a TweenGroup that animates node.Rotation (Euler
// radians) to the given target over the specified duration.
func TweenRotation(d *Driver, node *Node, to Vec3, duration time.Duration, fn EaseFunc) *TweenGroup {
	return newTweenGroup(d, node, duration, fn,
		[]*float64{&node.Rotation.X, &node.Rotation.Y, &node.Rotation.Z},
		[]float64{to.X, to.Y, to.Z})
}

// TweenColor creates a TweenGroup that animates all four components of
// node.Color (R, G, B, A) to the target color over the specified duration.
func TweenColor(d *Driver, node *Node, to Color, duration time.Duration, fn EaseFunc) *TweenGroup {
	return newTweenGroup(d, node, duration, fn,
		[]*float64{&node.Color.R, &node.Color.G, &node.Color.B, &node.Color.A},
		[]float64{to.R, to.G, to.B, to.A})
}

// TweenAlpha creates a TweenGroup that animates node.Alpha to the target value
// over the specified duration using the easing function.
func TweenAlpha(d *Driver, node *Node, to float64, duration time.Duration, fn EaseFunc) *TweenGroup {
	return newTweenGroup(d, node, duration, fn,
		[]*float64{&node.Alpha},
		[]float64{to})
}
