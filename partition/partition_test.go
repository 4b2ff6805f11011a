package partition

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNodeRangeEvenSplit(t *testing.T) {
	Convey("Given 10 nodes over 5 workers", t, func() {
		nn, nthread := 10, 5
		Convey("every worker gets a contiguous disjoint range covering all nodes", func() {
			covered := make([]bool, nn)
			for i := 0; i < nthread; i++ {
				lo, hi := NodeRange(nn, nthread, i)
				So(hi-lo, ShouldEqual, 2)
				for n := lo; n < hi; n++ {
					So(covered[n], ShouldBeFalse)
					covered[n] = true
				}
			}
			for _, c := range covered {
				So(c, ShouldBeTrue)
			}
		})
	})
}

func TestNodeRangeRemainder(t *testing.T) {
	Convey("Given Nn % Nthread != 0", t, func() {
		nn, nthread := 11, 3
		Convey("the last worker absorbs the remainder", func() {
			lo0, hi0 := NodeRange(nn, nthread, 0)
			lo1, hi1 := NodeRange(nn, nthread, 1)
			lo2, hi2 := NodeRange(nn, nthread, 2)
			So(hi0-lo0, ShouldEqual, 3)
			So(hi1-lo1, ShouldEqual, 3)
			So(lo2, ShouldEqual, hi1)
			So(hi2, ShouldEqual, nn)
			So(hi2-lo2, ShouldEqual, 5)
		})
	})
}

func TestWorkerForAgreesWithNodeRange(t *testing.T) {
	Convey("Given various (nn, nthread) combinations", t, func() {
		cases := []struct{ nn, nthread int }{
			{10, 5}, {11, 3}, {1, 1}, {7, 7}, {100, 8},
		}
		for _, c := range cases {
			Convey("every node's WorkerFor matches the NodeRange that contains it", func() {
				for n := 0; n < c.nn; n++ {
					w := WorkerFor(n, c.nn, c.nthread)
					lo, hi := NodeRange(c.nn, c.nthread, w)
					So(n, ShouldBeGreaterThanOrEqualTo, lo)
					So(n, ShouldBeLessThan, hi)
				}
			})
		}
	})
}
