package sis

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPropensities(t *testing.T) {
	Convey("Given an SIS node with susceptible and infected counts", t, func() {
		u := []int{90, 10}
		gdata := []float64{0.5, 0.2}

		Convey("Infection rate should be mass-action beta*S*I/N", func() {
			rate := infect(u, nil, nil, gdata, 0, 0)
			So(rate, ShouldEqual, 0.5*90*10/100)
		})

		Convey("Recovery rate should be linear in I", func() {
			rate := recover(u, nil, nil, gdata, 0, 0)
			So(rate, ShouldEqual, 0.2*10)
		})

		Convey("An empty node should have zero infection rate, no division by zero", func() {
			rate := infect([]int{0, 0}, nil, nil, gdata, 0, 0)
			So(rate, ShouldEqual, 0)
		})
	})

	Convey("Post-step should never demand a refresh on its own", t, func() {
		rc := noopPostStep(nil, []int{1, 1}, nil, nil, nil, 0, 0)
		So(rc, ShouldEqual, 0)
	})
}

func TestMatrices(t *testing.T) {
	Convey("Given the SIS structural matrices", t, func() {
		s, g, err := Matrices()
		So(err, ShouldBeNil)

		Convey("S should move one unit between S and I per transition", func() {
			rows, vals := s.Column(TrInfect)
			So(rows, ShouldResemble, []int{S, I})
			So(vals, ShouldResemble, []int{-1, 1})

			rows, vals = s.Column(TrRecover)
			So(rows, ShouldResemble, []int{I, S})
			So(vals, ShouldResemble, []int{-1, 1})
		})

		Convey("G should make both transitions mutually dependent", func() {
			rows, _ := g.Column(TrInfect)
			So(rows, ShouldResemble, []int{TrInfect, TrRecover})

			rows, _ = g.Column(TrRecover)
			So(rows, ShouldResemble, []int{TrInfect, TrRecover})
		})
	})
}
