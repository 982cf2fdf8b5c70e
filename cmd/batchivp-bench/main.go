// Command batchivp-bench drives a batch solve of one of the reference
// problems in ivp/problems across a configurable number of IVPs and
// prints per-IVP statistics, optionally writing an HTML summary table.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rollingthunder/batchivp/ivp"
	"github.com/rollingthunder/batchivp/ivp/batch"
	"github.com/rollingthunder/batchivp/ivp/problems"
	"github.com/rollingthunder/batchivp/ivp/radau"
	"github.com/rollingthunder/batchivp/ivp/report"
	"github.com/rollingthunder/batchivp/ivp/rkf45"
	"go.uber.org/zap"
)

func main() {
	problemName := flag.String("problem", "van-der-pol", "van-der-pol, van-der-pol-stiff, exponential-decay, brusselator-2d, n-body")
	method := flag.String("method", "rkf45", "rkf45 or radau")
	numIVPs := flag.Int("n", 4, "number of independent IVPs to solve")
	tEnd := flag.Float64("tend", 20.0, "integration end time (shared across all IVPs)")
	lane := flag.Bool("lane", false, "use the lock-step lane driver instead of one goroutine per IVP (rkf45 only)")
	htmlOut := flag.String("html", "", "optional path to write an HTML summary table")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "building logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	problem, err := buildProblem(*problemName)
	if err != nil {
		logger.Fatal("unknown problem", zap.String("problem", *problemName), zap.Error(err))
	}

	var integrator ivp.Integrator
	switch *method {
	case "rkf45":
		integrator = rkf45.New()
	case "radau":
		integrator = radau.New()
	default:
		logger.Fatal("unknown method", zap.String("method", *method))
	}

	cfg := ivp.Config{Fcn: problem.Fcn, AbsTol: 1e-10, RelTol: 1e-6}
	if jp, ok := problem.(problems.JacobianProblem); ok {
		cfg.Jac = jp.Jac
	}

	jobs := make([]batch.Job, *numIVPs)
	for i := range jobs {
		jobs[i] = batch.Job{T: 0, TEnd: *tEnd, Y: problem.Initialize()}
	}

	results, runID := batch.Run(context.Background(), integrator, jobs, cfg, *lane, logger)

	for i, r := range results {
		status := "ok"
		if r.Err != nil {
			status = r.Stats.Code.String()
		}
		fmt.Printf("ivp %d: steps=%d rejected=%d evaluations=%d t=%.10g status=%s\n",
			i, r.Stats.NSteps, r.Stats.Rejected, r.Stats.Evaluations, r.Stats.CurrentTime, status)
	}

	if *htmlOut != "" {
		table := report.BatchSummary(fmt.Sprintf("%s / %s (run %s)", problem.Name(), *method, runID), results)
		if err := report.WriteFile([]report.Table{table}, *htmlOut); err != nil {
			logger.Error("writing html report", zap.Error(err))
		}
	}
}

func buildProblem(name string) (problems.Problem, error) {
	switch name {
	case "van-der-pol":
		return problems.NewVanDerPol(1.0), nil
	case "van-der-pol-stiff":
		return problems.NewVanDerPol(1000.0), nil
	case "exponential-decay":
		return problems.NewExponentialDecay(), nil
	case "brusselator-2d":
		return problems.NewBrusselator2D(10), nil
	case "n-body":
		return problems.NewNBody(8), nil
	default:
		return nil, fmt.Errorf("no such problem: %s", name)
	}
}
