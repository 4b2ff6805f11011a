package output

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"simnet/sparse"
)

func TestCrossedRange(t *testing.T) {
	Convey("Given report times 0,1,2,3,4", t, func() {
		tspan := []float64{0, 1, 2, 3, 4}

		Convey("a boundary of 2 crosses indices 0,1,2 starting from 0", func() {
			to := CrossedRange(tspan, 0, 2)
			So(to, ShouldEqual, 3)
		})

		Convey("tspan[0]==tspan[tlen-1] crosses every column at the shared report time", func() {
			single := []float64{5, 5, 5}
			to := CrossedRange(single, 0, 5)
			So(to, ShouldEqual, 3)
		})
	})
}

func TestDenseWriter(t *testing.T) {
	Convey("Given a 2-node, 2-compartment dense writer", t, func() {
		w := NewDense([]float64{0, 1}, 2, 2, 1)
		u := []int{1, 2, 3, 4}
		v := []float64{0.5, 0.25}

		Convey("WriteNodeRange copies only the given node range", func() {
			w.WriteNodeRange(0, 0, 1, 2, 1, u, v)
			w.WriteNodeRange(0, 1, 2, 2, 1, u, v)
			So(w.U[0:4], ShouldResemble, []int{1, 2, 3, 4})
			So(w.V[0:2], ShouldResemble, []float64{0.5, 0.25})
		})
	})
}

func TestSparseWriter(t *testing.T) {
	Convey("Given a sparse pattern selecting two flattened u indices per column", t, func() {
		pattern, err := sparse.New[float64](4, 2, []int{0, 1, 2, 3}, []int{0, 2, 4}, nil)
		So(err, ShouldBeNil)
		w := NewSparse([]float64{0, 1}, pattern, nil)
		u := []int{10, 20, 30, 40}

		Convey("WriteMasterColumn copies the selected entries for that column", func() {
			w.WriteMasterColumn(0, 2, 1, u, nil)
			So(w.PrU[0:2], ShouldResemble, []float64{10, 20})

			w.WriteMasterColumn(1, 2, 1, u, nil)
			So(w.PrU[2:4], ShouldResemble, []float64{30, 40})
		})
	})
}
