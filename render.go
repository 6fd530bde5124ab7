package cubefx

import (
	"github.com/hajimehoshi/ebiten/v2"
)

const defaultCommandCap = 256

// quadCorners are the local corners of a unit quad: TL, TR, BL, BR.
var quadCorners = [4]Vec3{
	{X: -0.5, Y: 0.5},
	{X: 0.5, Y: 0.5},
	{X: -0.5, Y: -0.5},
	{X: 0.5, Y: -0.5},
}

// quadCommand is a single projected quad emitted during traversal.
type quadCommand struct {
	corners   [4]Vec2
	depth     float64 // distance from the camera, larger draws first
	color     Color   // alpha already multiplied by the world alpha
	image     *ebiten.Image
	blend     BlendMode
	treeOrder int
}

// collect walks the tree depth-first and emits a command for every visible
// quad in front of the camera. World transforms must be current.
func (s *Scene) collect(root *Node) {
	order := 0
	s.collectNode(root, &order)
}

func (s *Scene) collectNode(n *Node, order *int) {
	if !n.Visible || n.worldAlpha <= 0 {
		return
	}
	if n.Type == NodeTypeQuad && n.Material != nil {
		if cmd, ok := s.projectQuad(n); ok {
			*order++
			cmd.treeOrder = *order
			s.commands = append(s.commands, cmd)
		}
	}
	for _, child := range n.children {
		s.collectNode(child, order)
	}
}

// projectQuad projects n's corners through the camera. Quads crossing the
// near plane are dropped, as are back-facing quads of single-sided
// materials.
func (s *Scene) projectQuad(n *Node) (quadCommand, bool) {
	cam := s.camera
	center := n.WorldPosition()

	if !n.Material.DoubleSided {
		normal := transformVector3(n.worldTransform, Vec3{Z: 1})
		toEye := Vec3{Z: cam.Dist}.Sub(center)
		if normal.X*toEye.X+normal.Y*toEye.Y+normal.Z*toEye.Z <= 0 {
			return quadCommand{}, false
		}
	}

	var cmd quadCommand
	for i, c := range quadCorners {
		p, _, ok := cam.Project(n.LocalToWorld(c))
		if !ok {
			return quadCommand{}, false
		}
		cmd.corners[i] = p
	}
	cmd.depth = cam.Dist - center.Z
	cmd.color = n.Color
	cmd.color.A *= n.worldAlpha
	cmd.image = n.Material.Image
	cmd.blend = n.Material.BlendMode
	return cmd, true
}

// commandLessOrEqual returns true if a should draw before or at the same
// position as b. Farther quads draw first; ties keep tree order.
func commandLessOrEqual(a, b *quadCommand) bool {
	if a.depth != b.depth {
		return a.depth > b.depth
	}
	return a.treeOrder <= b.treeOrder
}

// sortCommands sorts s.commands in-place using s.sortBuf as scratch space.
// Bottom-up merge sort: zero allocations after the sort buffer reaches high-water mark.
func (s *Scene) sortCommands() {
	n := len(s.commands)
	if n <= 1 {
		return
	}
	if cap(s.sortBuf) < n {
		s.sortBuf = make([]quadCommand, n)
	}
	s.sortBuf = s.sortBuf[:n]

	a := s.commands
	b := s.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(s.commands, s.sortBuf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []quadCommand, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if commandLessOrEqual(&src[i], &src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	k += copy(dst[k:], src[i:mid])
	copy(dst[k:], src[j:hi])
}

// submit draws the sorted commands, coalescing runs that share an image and
// blend mode into one DrawTriangles32 call. It returns the number of calls.
func (s *Scene) submit(target *ebiten.Image) int {
	calls := 0
	var img *ebiten.Image
	var blend BlendMode
	for i := range s.commands {
		cmd := &s.commands[i]
		if len(s.vertices) > 0 && (cmd.image != img || cmd.blend != blend) {
			s.flush(target, img, blend)
			calls++
		}
		img, blend = cmd.image, cmd.blend
		s.appendQuad(cmd)
	}
	if len(s.vertices) > 0 {
		s.flush(target, img, blend)
		calls++
	}
	return calls
}

// appendQuad adds a command's two triangles to the pending batch.
func (s *Scene) appendQuad(cmd *quadCommand) {
	b := cmd.image.Bounds()
	sx := [4]float32{float32(b.Min.X), float32(b.Max.X), float32(b.Min.X), float32(b.Max.X)}
	sy := [4]float32{float32(b.Min.Y), float32(b.Min.Y), float32(b.Max.Y), float32(b.Max.Y)}

	// Premultiplied RGBA.
	ca := float32(clamp01(cmd.color.A))
	cr := float32(clamp01(cmd.color.R)) * ca
	cg := float32(clamp01(cmd.color.G)) * ca
	cb := float32(clamp01(cmd.color.B)) * ca

	base := uint32(len(s.vertices))
	for i, p := range cmd.corners {
		s.vertices = append(s.vertices, ebiten.Vertex{
			DstX:   float32(p.X),
			DstY:   float32(p.Y),
			SrcX:   sx[i],
			SrcY:   sy[i],
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		})
	}

	// Two triangles: TL-TR-BL, TR-BR-BL
	s.indices = append(s.indices,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
}

func (s *Scene) flush(target, img *ebiten.Image, blend BlendMode) {
	var triOp ebiten.DrawTrianglesOptions
	triOp.Blend = blend.EbitenBlend()
	triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha

	target.DrawTriangles32(s.vertices, s.indices, img, &triOp)

	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
}
