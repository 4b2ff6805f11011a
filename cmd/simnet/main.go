// Command simnet runs a network CTMC simulation and prints (or streams)
// its trajectory. It ships the package's toy SIS model purely to exercise
// the solver end to end; real models are expected to be wired the same way
// from a separate package.
package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"

	"simnet/config"
	"simnet/metricsutil"
	"simnet/models/sis"
	"simnet/monitor"
	"simnet/output"
	"simnet/solver"
)

var (
	nthread    = flag.Int("nthread", runtime.NumCPU(), "number of worker threads")
	seed       = flag.Uint64("seed", 1, "master RNG seed")
	nn         = flag.Int("nn", 1, "number of network nodes")
	days       = flag.Int("days", 30, "number of simulated days")
	configPath = flag.String("config", "", "optional yaml run config; overrides -nthread, -seed and -days")
	beta       = flag.Float64("beta", 0.3, "SIS infection rate constant")
	gamma      = flag.Float64("gamma", 0.1, "SIS recovery rate constant")
	popPerNode = flag.Int("pop", 1000, "initial susceptible population per node")
	infected   = flag.Int("infected", 1, "initial infected count, node 0 only")
)

func buildConfig() (solver.Config, *monitor.Broadcaster, error) {
	rc := config.Default()
	var err error
	if *configPath != "" {
		if rc, err = config.FromYaml(*configPath); err != nil {
			return solver.Config{}, nil, err
		}
	} else {
		rc.Nthread = *nthread
		rc.Seed = *seed
		rc.Tspan = tspan(*days)
	}

	s, g, err := sis.Matrices()
	if err != nil {
		return solver.Config{}, nil, err
	}

	u0 := make([]int, *nn*sis.Nc)
	for node := 0; node < *nn; node++ {
		u0[node*sis.Nc+sis.S] = *popPerNode
	}
	u0[sis.I] += *infected

	gdata := []float64{*beta, *gamma}
	ldata := make([][]float64, *nn)
	subDomain := make([]int, *nn)
	for node := range ldata {
		ldata[node] = []float64{}
	}

	cfg := solver.Config{
		Nn: *nn, Nc: sis.Nc, Nd: 0, Nld: 0,
		U0: u0, V0: []float64{},
		Tspan:     rc.Tspan,
		G:         g,
		S:         s,
		GData:     gdata,
		LData:     ldata,
		SubDomain: subDomain,
		Model:     sis.New(),
		Nthread:   rc.Nthread,
		Seed:      rc.Seed,
	}
	// Sparse output patterns are a per-deployment artifact, not something
	// the toy model can manufacture; cfg.SparseUPattern/SparseVPattern stay
	// nil here and dense output is used regardless of rc.Output.Mode.

	var bc *monitor.Broadcaster
	if rc.Monitor.Enabled {
		bc = monitor.NewBroadcaster(make(chan struct{}))
		cfg.Monitor = bc
		srv := monitor.NewServer(rc.Monitor.Addr, bc)
		go func() {
			if err := srv.Serve(); err != nil {
				log.Println("monitor server exited:", err)
			}
		}()
	}
	return cfg, bc, nil
}

func tspan(days int) []float64 {
	out := make([]float64, days+1)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

func run() error {
	flag.Parse()

	cfg, _, err := buildConfig()
	if err != nil {
		return err
	}

	res, err := solver.Run(cfg)
	if err != nil {
		return err
	}

	if dw, ok := res.Writer.(*output.DenseWriter); ok {
		printSummary(dw, cfg.Nn, cfg.Nc, len(cfg.Tspan)-1)
	}
	printCounters(res.Counters)
	return nil
}

func printSummary(dw *output.DenseWriter, nn, nc, lastCol int) {
	base := lastCol*nn*nc + 0*nc
	fmt.Printf("final day %d: node0 S=%d I=%d\n", lastCol, dw.U[base+sis.S], dw.U[base+sis.I])
}

func printCounters(c *metricsutil.Counters) {
	fmt.Printf("peak sum-rate: %v, nil-events: %d, rate-refreshes: %d\n",
		c.PeakRateSum.Load(), c.NilEvents.Load(), c.RateRefresh.Load())
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
