package volume

import (
	"fmt"
	"runtime"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// Workers resolves a configured worker count; n <= 0 means one per CPU.
func Workers(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// ParallelFor calls fn(i) for every i in [0, n) on a bounded pool and waits
// for all of them. Each index runs exactly once, so fn may write to
// index-owned memory without locking. A panicking task is returned as an error.
func ParallelFor(workers, n int, fn func(i int)) error {
	if n <= 0 {
		return nil
	}
	pool := pond.NewPool(min(Workers(workers), n))
	defer pool.StopAndWait()

	group := pool.NewGroup()
	for i := 0; i < n; i++ {
		group.Submit(func() {
			fn(i)
		})
	}
	if err := group.Wait(); err != nil {
		return fmt.Errorf("parallel task failed: %w", err)
	}
	return nil
}

// Generate fills every record of g with fn, one task per z slice.
func Generate(g *Grid, workers int, fn func(x, y, z int) mgl32.Vec4) error {
	return ParallelFor(workers, g.Depth, func(z int) {
		for y := 0; y < g.Height; y++ {
			for x := 0; x < g.Width; x++ {
				g.Data[g.Index(x, y, z)] = fn(x, y, z)
			}
		}
	})
}
