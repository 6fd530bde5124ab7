package cubefx

import "github.com/hajimehoshi/ebiten/v2"

// NodeType distinguishes rendering behavior for a Node.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // group node with no visual output
	NodeTypeQuad                      // unit quad tinted by Color, drawn with Material
)

// Material is the shared, read-only look of quad nodes. Many nodes point at
// the same Material; per-node color lives on the Node.
type Material struct {
	Image     *ebiten.Image
	BlendMode BlendMode
	// DoubleSided keeps quads visible when rotated past 90 degrees.
	DoubleSided bool
}

// DefaultMaterial draws solid quads from WhitePixel.
func DefaultMaterial() *Material {
	return &Material{Image: WhitePixel, DoubleSided: true}
}

// --- ID counter ---

// nodeIDCounter is a plain counter; nodes are only built on the game loop.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the scene graph element. A single flat struct is used for all
// node types to avoid interface dispatch on the hot path.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local). Rotation holds Euler angles in radians, applied
	// in X, Y, Z order.
	Position Vec3
	Rotation Vec3
	Scale    Vec3

	// Computed, refreshed by updateWorldTransform.
	worldTransform affine3
	worldAlpha     float64
	transformDirty bool

	// Visibility
	Alpha   float64
	Visible bool

	// Quad fields (NodeTypeQuad)
	Color    Color
	Material *Material

	// Metadata
	UserData any

	disposed bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.Scale = Vec3{1, 1, 1}
	n.Alpha = 1
	n.Color = ColorWhite
	n.Visible = true
	n.worldTransform = identityAffine3
	n.transformDirty = true
}

// NewContainer creates a container node with no visual representation.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewQuad creates a unit quad centered on its origin. A nil material selects
// DefaultMaterial.
func NewQuad(name string, mat *Material) *Node {
	if mat == nil {
		mat = DefaultMaterial()
	}
	n := &Node{Name: name, Type: NodeTypeQuad, Material: mat}
	nodeDefaults(n)
	return n
}

// AddChild attaches child as the last child of n, detaching it from any
// previous parent. It panics on a nil child or when child is n or one of
// its ancestors.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("cubefx: AddChild with nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	for p := n; p != nil; p = p.Parent {
		if p == child {
			panic("cubefx: AddChild would make a node its own ancestor")
		}
	}
	if old := child.Parent; old != nil {
		old.detach(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	child.invalidate()
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches a direct child. It panics if child belongs to a
// different parent.
func (n *Node) RemoveChild(child *Node) {
	if globalDebug {
		debugCheckDisposed(n, "RemoveChild (parent)")
		debugCheckDisposed(child, "RemoveChild (child)")
	}
	if child.Parent != n {
		panic("cubefx: RemoveChild of a node owned by another parent")
	}
	n.detach(child)
	child.Parent = nil
	child.invalidate()
}

// RemoveFromParent is a no-op for roots.
func (n *Node) RemoveFromParent() {
	if p := n.Parent; p != nil {
		p.RemoveChild(n)
	}
}

// Children returns the node's children in draw order. The slice is owned by the node.
func (n *Node) Children() []*Node { return n.children }

// NumChildren returns the number of children.
func (n *Node) NumChildren() int { return len(n.children) }

// Dispose detaches n and releases it and its whole subtree. Disposed nodes
// must not be reused; calling Dispose again does nothing.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.release()
}

func (n *Node) release() {
	for _, c := range n.children {
		c.Parent = nil
		c.release()
	}
	*n = Node{Name: n.Name, Type: n.Type, disposed: true}
}

// IsDisposed reports whether Dispose has run on n or an ancestor.
func (n *Node) IsDisposed() bool { return n.disposed }

// detach drops child from the child list, leaving child.Parent untouched.
// The vacated tail slot is cleared so the backing array does not pin it.
func (n *Node) detach(child *Node) {
	last := len(n.children) - 1
	for i, c := range n.children {
		if c != child {
			continue
		}
		copy(n.children[i:], n.children[i+1:])
		n.children[last] = nil
		n.children = n.children[:last]
		return
	}
}

// invalidate flags n and everything below it for a world transform refresh.
func (n *Node) invalidate() {
	n.transformDirty = true
	for _, c := range n.children {
		c.invalidate()
	}
}
