package solver

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"simnet/events"
	"simnet/model"
	"simnet/models/sis"
	"simnet/output"
	"simnet/simerr"
	"simnet/sparse"
)

func noProps() []model.PropensityFunc { return nil }

func noopPost(vNew []float64, u []int, v, ldata, gdata []float64, node int, t float64) int {
	return 0
}

// identitySelect builds a select matrix E whose column i selects exactly
// compartment i, for tests that only need ENTER/EXIT/E2 to target a single
// compartment.
func identitySelect(nc int) *sparse.CSC[int] {
	ir := make([]int, nc)
	jc := make([]int, nc+1)
	for i := 0; i < nc; i++ {
		ir[i] = i
		jc[i+1] = i + 1
	}
	m, err := sparse.New[int](nc, nc, ir, jc, nil)
	if err != nil {
		panic(err)
	}
	return m
}

func baseConfig(nn, nc, nthread int) Config {
	u0 := make([]int, nn*nc)
	gdata := []float64{}
	ldata := make([][]float64, nn)
	sd := make([]int, nn)
	for i := range ldata {
		ldata[i] = []float64{}
	}
	g, err := sparse.New[int](0, 0, nil, []int{0}, nil)
	if err != nil {
		panic(err)
	}
	s, err := sparse.New[int](nc, 0, nil, []int{0}, nil)
	if err != nil {
		panic(err)
	}
	return Config{
		Nn: nn, Nc: nc, Nd: 0, Nld: 0,
		U0: u0, V0: []float64{},
		Tspan:     []float64{0, 1, 2},
		G:         g,
		S:         s,
		GData:     gdata,
		LData:     ldata,
		SubDomain: sd,
		Model:     model.Funcs{Props: noProps(), Post: noopPost},
		Nthread:   nthread,
		Seed:      7,
	}
}

func TestRunSIS(t *testing.T) {
	Convey("Given a single-node SIS run", t, func() {
		s, g, err := sis.Matrices()
		So(err, ShouldBeNil)

		cfg := baseConfig(1, sis.Nc, 1)
		cfg.U0 = []int{990, 10}
		cfg.GData = []float64{0.3, 0.1}
		cfg.G, cfg.S = g, s
		cfg.Model = sis.New()
		cfg.Tspan = []float64{0, 1, 2, 3, 4, 5}

		res, err := Run(cfg)
		So(err, ShouldBeNil)

		dw := res.Writer.(*output.DenseWriter)

		Convey("Every column should conserve S+I and stay non-negative", func() {
			for col := 0; col < len(cfg.Tspan); col++ {
				base := col * cfg.Nn * cfg.Nc
				sVal, iVal := dw.U[base+sis.S], dw.U[base+sis.I]
				So(sVal, ShouldBeGreaterThanOrEqualTo, 0)
				So(iVal, ShouldBeGreaterThanOrEqualTo, 0)
				So(sVal+iVal, ShouldEqual, 1000)
			}
		})
	})

	Convey("Given identical seeds, two SIS runs should be deterministic", t, func() {
		run := func() []int {
			s, g, _ := sis.Matrices()
			cfg := baseConfig(1, sis.Nc, 1)
			cfg.U0 = []int{990, 10}
			cfg.GData = []float64{0.3, 0.1}
			cfg.G, cfg.S = g, s
			cfg.Model = sis.New()
			cfg.Tspan = []float64{0, 1, 2, 3, 4, 5}
			res, err := Run(cfg)
			So(err, ShouldBeNil)
			return append([]int(nil), res.Writer.(*output.DenseWriter).U...)
		}
		a := run()
		b := run()
		So(a, ShouldResemble, b)
	})
}

func TestRunPureEvents(t *testing.T) {
	Convey("Given a zero-propensity model with a single ENTER event", t, func() {
		cfg := baseConfig(1, 2, 1)
		e := identitySelect(2)
		cfg.E = e
		cfg.Events = []events.Raw{
			{Kind: 1, Time: 0.5, Node: 1, N: 5, Select: 1},
		}

		res, err := Run(cfg)
		So(err, ShouldBeNil)

		dw := res.Writer.(*output.DenseWriter)

		Convey("The entered individuals should appear from day 1 onward", func() {
			base1 := 1 * cfg.Nn * cfg.Nc
			So(dw.U[base1+0], ShouldEqual, 5)
		})
	})

	Convey("Given an EXTERNAL_TRANSFER event between two nodes", t, func() {
		cfg := baseConfig(2, 2, 1)
		cfg.U0 = []int{10, 0, 0, 0}
		cfg.E = identitySelect(2)
		n, err := sparse.New[int](2, 1, nil, []int{0, 0}, nil)
		So(err, ShouldBeNil)
		cfg.N = n
		cfg.Events = []events.Raw{
			{Kind: 3, Time: 0.5, Node: 1, Dest: 2, N: 4, Select: 1, Shift: 0},
		}

		res, err := Run(cfg)
		So(err, ShouldBeNil)
		dw := res.Writer.(*output.DenseWriter)

		Convey("4 individuals should move from node 0 to node 1", func() {
			base1 := 1 * cfg.Nn * cfg.Nc
			So(dw.U[base1+0*cfg.Nc+0], ShouldEqual, 6)
			So(dw.U[base1+1*cfg.Nc+0], ShouldEqual, 4)
		})
	})
}

func TestRunBoundaries(t *testing.T) {
	Convey("Given Nn not evenly divisible by Nthread", t, func() {
		cfg := baseConfig(5, 1, 2)
		cfg.U0 = []int{1, 2, 3, 4, 5}
		res, err := Run(cfg)
		So(err, ShouldBeNil)
		dw := res.Writer.(*output.DenseWriter)

		Convey("Every node's row should survive the run untouched", func() {
			last := (len(cfg.Tspan) - 1) * cfg.Nn * cfg.Nc
			So(dw.U[last:last+5], ShouldResemble, []int{1, 2, 3, 4, 5})
		})
	})

	Convey("Given tspan[0] == tspan[last], every column should hold the unchanged initial state", t, func() {
		cfg := baseConfig(1, 1, 1)
		cfg.Tspan = []float64{2, 2, 2}
		cfg.U0 = []int{7}
		res, err := Run(cfg)
		So(err, ShouldBeNil)
		dw := res.Writer.(*output.DenseWriter)
		So(dw.U, ShouldResemble, []int{7, 7, 7})
	})

	Convey("Given a malformed event kind", t, func() {
		cfg := baseConfig(1, 1, 1)
		cfg.Events = []events.Raw{{Kind: 9, Time: 0.1, Node: 1}}
		_, err := Run(cfg)
		So(err, ShouldNotBeNil)
		So(errors.Is(err, simerr.UndefinedEvent), ShouldBeTrue)
	})
}

func TestRunNegativeStateTrap(t *testing.T) {
	Convey("Given a propensity that fires a transition its own state can't support", t, func() {
		cfg := baseConfig(1, 1, 1)
		cfg.U0 = []int{0}
		s, err := sparse.New[int](1, 1, []int{0}, []int{0, 1}, []int{-1})
		So(err, ShouldBeNil)
		cfg.S = s
		badProp := func(u []int, v, ldata, gdata []float64, sd int, t float64) float64 {
			return 1000
		}
		cfg.Model = model.Funcs{Props: []model.PropensityFunc{badProp}, Post: noopPost}

		_, err = Run(cfg)
		So(err, ShouldNotBeNil)
		So(errors.Is(err, simerr.NegativeState), ShouldBeTrue)
	})
}

func TestRunRateRefreshCounters(t *testing.T) {
	Convey("Given an SIS run that fires at least one transition", t, func() {
		s, g, _ := sis.Matrices()
		cfg := baseConfig(1, sis.Nc, 1)
		cfg.U0 = []int{50, 50}
		cfg.GData = []float64{2.0, 0.01}
		cfg.G, cfg.S = g, s
		cfg.Model = sis.New()
		cfg.Tspan = []float64{0, 1}

		res, err := Run(cfg)
		So(err, ShouldBeNil)

		Convey("Peak sum-rate should be positive", func() {
			So(res.Counters.PeakRateSum.Load(), ShouldBeGreaterThan, 0)
		})
	})
}
