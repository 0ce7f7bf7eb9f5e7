package cart

/*
Stopper is an interface wrapping the Stop method, that is used to
decide whether a node must become a leaf before looking for a split.

The Stop method takes the depth of the node and the labels of the
training rows that reach it, and returns true to make the node a
leaf.
*/
type Stopper interface {
	Stop(depth int, labels []int) bool
}

/*
StopperFunc wraps a function with the Stop method signature to
implement the Stopper interface
*/
type StopperFunc func(depth int, labels []int) bool

// Stop invokes the StopperFunc with the given parameters.
func (sf StopperFunc) Stop(depth int, labels []int) bool {
	return sf(depth, labels)
}

// PureStopper returns a Stopper that stops nodes whose rows all
// share the same label.
func PureStopper() Stopper {
	return StopperFunc(func(depth int, labels []int) bool {
		if len(labels) == 0 {
			return true
		}
		for _, l := range labels[1:] {
			if l != labels[0] {
				return false
			}
		}
		return true
	})
}

// MaxDepthStopper returns a Stopper that stops nodes at depth
// maxDepth or deeper. A maxDepth of 0 or less never stops.
func MaxDepthStopper(maxDepth int) Stopper {
	return StopperFunc(func(depth int, labels []int) bool {
		return maxDepth > 0 && depth >= maxDepth
	})
}

// MinSamplesStopper returns a Stopper that stops nodes reached by
// fewer than minSamples rows. A minSamples of 0 or less never stops.
func MinSamplesStopper(minSamples int) Stopper {
	return StopperFunc(func(depth int, labels []int) bool {
		return minSamples > 0 && len(labels) < minSamples
	})
}

// AnyStopper returns a Stopper that stops a node when any of the
// given stoppers does.
func AnyStopper(stoppers ...Stopper) Stopper {
	return StopperFunc(func(depth int, labels []int) bool {
		for _, s := range stoppers {
			if s.Stop(depth, labels) {
				return true
			}
		}
		return false
	})
}

func (c Config) stopper() Stopper {
	return AnyStopper(PureStopper(), MaxDepthStopper(c.MaxDepth), MinSamplesStopper(c.MinSamplesPerNode))
}
