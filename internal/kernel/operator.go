package kernel

import (
	"errors"
	"fmt"
)

// GridOperator approximates an additive kernel as a sum of per-dimension
// grid interpolation components. Every term of the additive kernel must be
// a Scale-wrapped single-dimension RBF, which is the structure
// NewAdditiveRBF builds.
type GridOperator struct {
	Comps []*GridInterp
}

// NewGridOperator builds one GridInterp per additive term over m inducing
// points each.
func NewGridOperator(add *Additive, m int, x [][]float64) (*GridOperator, error) {
	op := &GridOperator{}
	for i, term := range add.Terms {
		sc, ok := term.(*Scale)
		if !ok {
			return nil, fmt.Errorf("kernel: additive term %d is %T, want *Scale", i, term)
		}
		rbf, ok := sc.Inner.(*RBF)
		if !ok || rbf.Dim < 0 {
			return nil, errors.New("kernel: grid operator needs single-dimension RBF terms")
		}
		gi, err := NewGridInterp(term, rbf.Dim, m, x)
		if err != nil {
			return nil, err
		}
		op.Comps = append(op.Comps, gi)
	}
	return op, nil
}

// Refresh rebuilds every component's Kuu after a hyperparameter update.
func (o *GridOperator) Refresh() {
	for _, c := range o.Comps {
		c.Refresh()
	}
}

// MatVec computes the approximate K·v as the sum over components.
func (o *GridOperator) MatVec(v []float64) []float64 {
	out := make([]float64, len(v))
	for _, c := range o.Comps {
		cv := c.MatVec(v)
		for i := range out {
			out[i] += cv[i]
		}
	}
	return out
}
