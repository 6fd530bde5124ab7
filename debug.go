package cubefx

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// debugStats holds per-frame timing and draw-call metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	collectTime  time.Duration
	sortTime     time.Duration
	submitTime   time.Duration
	commandCount int
	batchCount   int
}

// debugLogger receives tree warnings from node operations, which have no
// Scene pointer. SetDebugMode points it at the scene logger.
var debugLogger = slog.Default()

// debugLog logs timing and draw-call stats at debug level.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug || s.log == nil {
		return
	}
	s.log.LogAttrs(context.Background(), slog.LevelDebug, "draw",
		slog.Duration("collect", stats.collectTime),
		slog.Duration("sort", stats.sortTime),
		slog.Duration("submit", stats.submitTime),
		slog.Duration("total", stats.collectTime+stats.sortTime+stats.submitTime),
		slog.Int("quads", stats.commandCount),
		slog.Int("draw_calls", stats.batchCount),
	)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("cubefx debug: %s on disposed node %q", op, n.Name))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugLogger.LogAttrs(context.Background(), slog.LevelWarn, "tree depth exceeds threshold",
			slog.String("node", n.Name),
			slog.Int("depth", depth),
			slog.Int("threshold", debugMaxTreeDepth),
		)
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		debugLogger.LogAttrs(context.Background(), slog.LevelWarn, "child count exceeds threshold",
			slog.String("node", n.Name),
			slog.Int("children", len(n.children)),
			slog.Int("threshold", debugMaxChildCount),
		)
	}
}
