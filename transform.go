package cubefx

import "math"

// affine3 is a 3D affine matrix stored row-major without the constant last
// row:
//
//	| m0 m1 m2  m3 |
//	| m4 m5 m6  m7 |
//	| m8 m9 m10 m11 |
//	| 0  0  0   1  |
type affine3 [12]float64

// identityAffine3 is the identity affine matrix.
var identityAffine3 = affine3{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
}

// computeLocalTransform computes the local matrix from the node's transform
// properties.
//
// Composition order:
//
//	Translate(Position) * RotateX * RotateY * RotateZ * Scale
func computeLocalTransform(n *Node) affine3 {
	sx, cx := math.Sincos(n.Rotation.X)
	sy, cy := math.Sincos(n.Rotation.Y)
	sz, cz := math.Sincos(n.Rotation.Z)

	// Rx * Ry * Rz
	r00 := cy * cz
	r01 := -cy * sz
	r02 := sy
	r10 := cx*sz + sx*sy*cz
	r11 := cx*cz - sx*sy*sz
	r12 := -sx * cy
	r20 := sx*sz - cx*sy*cz
	r21 := sx*cz + cx*sy*sz
	r22 := cx * cy

	s := n.Scale
	p := n.Position
	return affine3{
		r00 * s.X, r01 * s.Y, r02 * s.Z, p.X,
		r10 * s.X, r11 * s.Y, r12 * s.Z, p.Y,
		r20 * s.X, r21 * s.Y, r22 * s.Z, p.Z,
	}
}

// multiplyAffine3 multiplies two affine matrices: result = parent * child.
func multiplyAffine3(p, c affine3) affine3 {
	var out affine3
	for row := 0; row < 3; row++ {
		a0, a1, a2, a3 := p[row*4], p[row*4+1], p[row*4+2], p[row*4+3]
		out[row*4] = a0*c[0] + a1*c[4] + a2*c[8]
		out[row*4+1] = a0*c[1] + a1*c[5] + a2*c[9]
		out[row*4+2] = a0*c[2] + a1*c[6] + a2*c[10]
		out[row*4+3] = a0*c[3] + a1*c[7] + a2*c[11] + a3
	}
	return out
}

// transformPoint3 applies an affine matrix to a point.
func transformPoint3(m affine3, v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[1]*v.Y + m[2]*v.Z + m[3],
		m[4]*v.X + m[5]*v.Y + m[6]*v.Z + m[7],
		m[8]*v.X + m[9]*v.Y + m[10]*v.Z + m[11],
	}
}

// transformVector3 applies only the linear part of m to v.
func transformVector3(m affine3, v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		m[4]*v.X + m[5]*v.Y + m[6]*v.Z,
		m[8]*v.X + m[9]*v.Y + m[10]*v.Z,
	}
}

// updateWorldTransform recomputes a node's worldTransform and worldAlpha.
// parentRecomputed indicates whether the parent was recomputed this frame,
// which forces recomputation of this node even if it's not dirty.
func updateWorldTransform(n *Node, parentTransform affine3, parentAlpha float64, parentRecomputed bool) {
	recompute := n.transformDirty || parentRecomputed
	if recompute {
		local := computeLocalTransform(n)
		n.worldTransform = multiplyAffine3(parentTransform, local)
		n.worldAlpha = parentAlpha * n.Alpha
		n.transformDirty = false
	}

	for _, child := range n.children {
		updateWorldTransform(child, n.worldTransform, n.worldAlpha, recompute)
	}
}

// --- Transform property setters ---

// SetPosition sets the node's local position and marks it dirty.
func (n *Node) SetPosition(x, y, z float64) {
	n.Position = Vec3{x, y, z}
	n.transformDirty = true
}

// SetRotation sets the node's Euler rotation (in radians) and marks it dirty.
func (n *Node) SetRotation(x, y, z float64) {
	n.Rotation = Vec3{x, y, z}
	n.transformDirty = true
}

// SetScale sets the node's scale on all three axes and marks it dirty.
func (n *Node) SetScale(x, y, z float64) {
	n.Scale = Vec3{x, y, z}
	n.transformDirty = true
}

// SetAlpha sets the node's alpha and marks it dirty.
func (n *Node) SetAlpha(a float64) {
	n.Alpha = a
	n.transformDirty = true
}

// MarkDirty marks the node's transform as dirty, forcing recomputation
// on the next frame. Useful after bulk-setting fields directly.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// --- Coordinate conversion ---

// LocalToWorld converts a local-space point to world-space using the
// transform computed on the last scene update.
func (n *Node) LocalToWorld(v Vec3) Vec3 {
	return transformPoint3(n.worldTransform, v)
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() Vec3 {
	return Vec3{n.worldTransform[3], n.worldTransform[7], n.worldTransform[11]}
}
