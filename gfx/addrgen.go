package gfx

// addrGen is a two-lane accumulate-and-mask address generator over a
// power-of-two w x h grid. Each call to next returns the linear index for
// the current accumulators and then advances them by one step.
type addrGen struct {
	u, v   Fixed
	du, dv Fixed

	uMask, vMask int
	vShift       uint
}

func newAddrGen(w, h int) addrGen {
	return addrGen{uMask: w - 1, vMask: h - 1, vShift: log2(w)}
}

// seek loads the accumulators and per-step deltas.
func (g *addrGen) seek(u, v, du, dv Fixed) {
	g.u, g.v, g.du, g.dv = u, v, du, dv
}

func (g *addrGen) index() int {
	return g.u.Masked(g.uMask) | g.v.Masked(g.vMask)<<g.vShift
}

func (g *addrGen) next() int {
	i := g.index()
	g.u += g.du
	g.v += g.dv
	return i
}

// skip advances the accumulators by n steps.
func (g *addrGen) skip(n int) {
	g.u += g.du.Scale(n)
	g.v += g.dv.Scale(n)
}
