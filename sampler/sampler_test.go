package sampler

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"simnet/rng"
	"simnet/sparse"
)

func selectAll(nc int) *sparse.CSC[int] {
	ir := make([]int, nc)
	for i := range ir {
		ir[i] = i
	}
	jc := []int{0, nc}
	m, _ := sparse.New[int](nc, 1, ir, jc, nil)
	return m
}

func TestSelectFastPaths(t *testing.T) {
	Convey("Given a two-compartment node", t, func() {
		s := rng.NewMaster(1).Child(0)
		e := selectAll(2)
		u := []int{50, 50}

		Convey("n == 0 yields all zeros", func() {
			ind, err := Select(s, e, 0, u, 0, 0)
			So(err, ShouldBeNil)
			So(ind, ShouldResemble, []int{0, 0})
		})

		Convey("n == total takes everything", func() {
			ind, err := Select(s, e, 0, u, 100, 0)
			So(err, ShouldBeNil)
			So(ind, ShouldResemble, []int{50, 50})
		})
	})

	Convey("Given a single nonzero compartment among several", t, func() {
		s := rng.NewMaster(1).Child(0)
		e := selectAll(3)
		u := []int{0, 7, 0}

		Convey("the nonzero compartment absorbs all n", func() {
			ind, err := Select(s, e, 0, u, 5, 0)
			So(err, ShouldBeNil)
			So(ind, ShouldResemble, []int{0, 5, 0})
		})
	})

	Convey("Given K==1", t, func() {
		s := rng.NewMaster(1).Child(0)
		e := selectAll(1)
		u := []int{9}

		Convey("all n goes to the one compartment", func() {
			ind, err := Select(s, e, 0, u, 4, 0)
			So(err, ShouldBeNil)
			So(ind, ShouldResemble, []int{4})
		})
	})
}

func TestSelectHypergeometric(t *testing.T) {
	Convey("Given K==2 with n < total", t, func() {
		s := rng.NewMaster(7).Child(0)
		e := selectAll(2)
		u := []int{50, 50}

		Convey("the sum of draws equals n and both bounds hold", func() {
			for i := 0; i < 200; i++ {
				ind, err := Select(s, e, 0, u, 40, 0)
				So(err, ShouldBeNil)
				So(ind[0]+ind[1], ShouldEqual, 40)
				So(ind[0], ShouldBeLessThanOrEqualTo, 50)
				So(ind[1], ShouldBeLessThanOrEqualTo, 50)
			}
		})
	})
}

func TestSelectUrnDraw(t *testing.T) {
	Convey("Given K>=3 compartments", t, func() {
		s := rng.NewMaster(9).Child(0)
		e := selectAll(4)
		u := []int{10, 20, 30, 5}

		Convey("draws respect per-compartment caps and total", func() {
			for i := 0; i < 100; i++ {
				ind, err := Select(s, e, 0, u, 50, 0)
				So(err, ShouldBeNil)
				sum := 0
				for j, v := range ind {
					So(v, ShouldBeLessThanOrEqualTo, u[j])
					sum += v
				}
				So(sum, ShouldEqual, 50)
			}
		})
	})
}

func TestSelectErrors(t *testing.T) {
	Convey("Given infeasible requests", t, func() {
		s := rng.NewMaster(1).Child(0)
		e := selectAll(2)
		u := []int{50, 0}

		Convey("n greater than total errors SAMPLE_SELECT", func() {
			_, err := Select(s, e, 0, u, 100, 0)
			So(err, ShouldNotBeNil)
		})

		Convey("negative proportion errors", func() {
			_, err := Select(s, e, 0, u, 0, -0.1)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSelectProportion(t *testing.T) {
	Convey("Given n==0 and a proportion", t, func() {
		s := rng.NewMaster(1).Child(0)
		e := selectAll(1)
		u := []int{100}

		Convey("the actual count is round(proportion*X)", func() {
			ind, err := Select(s, e, 0, u, 0, 0.5)
			So(err, ShouldBeNil)
			So(ind[0], ShouldEqual, 50)
		})
	})
}
