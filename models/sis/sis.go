// Package sis is a minimal two-compartment susceptible-infected-susceptible
// model, used by cmd/simnet and the solver's own tests to exercise the
// engine end to end without depending on a real epidemiological model
// package (out of scope for this module).
package sis

import (
	"simnet/model"
	"simnet/sparse"
)

// Compartment indices.
const (
	S = 0
	I = 1
	Nc = 2
)

// Transition indices.
const (
	TrInfect  = 0 // S -> I
	TrRecover = 1 // I -> S
	Nt        = 2
)

// GData layout: gdata[0] = beta (infection rate constant), gdata[1] = gamma
// (recovery rate constant). Both are shared across every node.
const (
	GBeta  = 0
	GGamma = 1
)

// New builds the SIS model: mass-action infection and linear recovery, no
// auxiliary state (post-step is a no-op that never demands a refresh beyond
// what events already flag).
func New() model.Funcs {
	return model.Funcs{
		Props: []model.PropensityFunc{infect, recover},
		Post:  noopPostStep,
	}
}

func infect(u []int, v, ldata, gdata []float64, sd int, t float64) float64 {
	sCount, iCount := float64(u[S]), float64(u[I])
	n := sCount + iCount
	if n == 0 {
		return 0
	}
	beta := gdata[GBeta]
	return beta * sCount * iCount / n
}

func recover(u []int, v, ldata, gdata []float64, sd int, t float64) float64 {
	gamma := gdata[GGamma]
	return gamma * float64(u[I])
}

func noopPostStep(vNew []float64, u []int, v, ldata, gdata []float64, node int, t float64) int {
	return 0
}

// Matrices builds the structural stoichiometry (S) and dependency graph (G)
// matrices for this model. Both transitions read and write both
// compartments, so firing either one requires recomputing both rates.
func Matrices() (s, g *sparse.CSC[int], err error) {
	// S: rows are compartments (S, I), columns are transitions.
	// col TrInfect: S -1, I +1. col TrRecover: I -1, S +1.
	s, err = sparse.New[int](Nc, Nt,
		[]int{S, I, I, S},
		[]int{0, 2, 4},
		[]int{-1, 1, -1, 1},
	)
	if err != nil {
		return nil, nil, err
	}

	g, err = sparse.New[int](Nt, Nt,
		[]int{TrInfect, TrRecover, TrInfect, TrRecover},
		[]int{0, 2, 4},
		nil,
	)
	if err != nil {
		return nil, nil, err
	}
	return s, g, nil
}
