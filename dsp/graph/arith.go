package graph

import (
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

type binaryOp int

const (
	opAdd binaryOp = iota
	opSub
	opMul
	opDiv
)

type binaryNode struct {
	a   Node[float64]
	b   Node[float64]
	op  binaryOp
	out []float64
}

// Add returns a node producing a + b elementwise.
func Add(a, b Node[float64]) Node[float64] { return &binaryNode{a: a, b: b, op: opAdd} }

// Sub returns a node producing a - b elementwise.
func Sub(a, b Node[float64]) Node[float64] { return &binaryNode{a: a, b: b, op: opSub} }

// Mul returns a node producing a * b elementwise.
func Mul(a, b Node[float64]) Node[float64] { return &binaryNode{a: a, b: b, op: opMul} }

// Div returns a node producing a / b elementwise. Division by zero follows
// IEEE semantics; stateful consumers guard their own state against the
// resulting infinities.
func Div(a, b Node[float64]) Node[float64] { return &binaryNode{a: a, b: b, op: opDiv} }

func (n *binaryNode) Sample(ctx Context) Buffer[float64] {
	ba := n.a.Sample(ctx)
	bb := n.b.Sample(ctx)
	checkSameLen(ba.Len(), bb.Len())

	av, aConst := ba.Constant()
	bv, bConst := bb.Constant()

	if aConst && bConst {
		return Constant(applyBinary(n.op, av, bv), ba.Len())
	}

	n.out = core.EnsureLen(n.out, ba.Len())
	ad, aMat := ba.Data()
	bd, bMat := bb.Data()

	switch {
	case aMat && bMat:
		switch n.op {
		case opAdd:
			vecmath.AddBlock(n.out, ad, bd)
		case opMul:
			vecmath.MulBlock(n.out, ad, bd)
		case opSub:
			for i := range n.out {
				n.out[i] = ad[i] - bd[i]
			}
		case opDiv:
			for i := range n.out {
				n.out[i] = ad[i] / bd[i]
			}
		}
	case aMat:
		switch n.op {
		case opMul:
			vecmath.ScaleBlock(n.out, ad, bv)
		default:
			for i := range n.out {
				n.out[i] = applyBinary(n.op, ad[i], bv)
			}
		}
	default:
		for i := range n.out {
			n.out[i] = applyBinary(n.op, av, bd[i])
		}
	}

	return FromSlice(n.out)
}

func applyBinary(op binaryOp, a, b float64) float64 {
	switch op {
	case opAdd:
		return a + b
	case opSub:
		return a - b
	case opMul:
		return a * b
	default:
		return a / b
	}
}

type sumNode struct {
	inputs []Node[float64]
	out    []float64
}

// Sum returns a node adding all inputs elementwise. The accumulator buffer
// is zeroed once per batch and each operand is added into it, avoiding the
// repeated pairwise allocation of chained Add nodes for N-ary sums.
func Sum(inputs ...Node[float64]) Node[float64] {
	return &sumNode{inputs: inputs}
}

func (n *sumNode) Sample(ctx Context) Buffer[float64] {
	if len(n.inputs) == 0 {
		return Constant(0.0, ctx.NumSamples)
	}

	n.out = core.EnsureLen(n.out, ctx.NumSamples)
	core.Zero(n.out)

	for _, in := range n.inputs {
		buf := in.Sample(ctx)
		checkSameLen(len(n.out), buf.Len())

		if v, ok := buf.Constant(); ok {
			if v != 0 {
				for i := range n.out {
					n.out[i] += v
				}
			}

			continue
		}

		data, _ := buf.Data()
		vecmath.AddBlockInPlace(n.out, data)
	}

	return FromSlice(n.out)
}

type gainNode struct {
	in   Node[float64]
	gain float64
	out  []float64
}

// Gain scales in by a fixed factor.
func Gain(in Node[float64], gain float64) Node[float64] {
	return &gainNode{in: in, gain: gain}
}

func (n *gainNode) Sample(ctx Context) Buffer[float64] {
	buf := n.in.Sample(ctx)
	if v, ok := buf.Constant(); ok {
		return Constant(v*n.gain, buf.Len())
	}

	data, _ := buf.Data()
	n.out = core.EnsureLen(n.out, len(data))
	vecmath.ScaleBlock(n.out, data, n.gain)

	return FromSlice(n.out)
}
