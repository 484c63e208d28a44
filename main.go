// lunasat is a CDCL SAT solver reading DIMACS CNF files, optionally emitting
// DRUP certificates for unsatisfiable instances.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lunasat/lunasat/config"
	"github.com/lunasat/lunasat/drup"
	"github.com/lunasat/lunasat/solver"
)

// Exit codes follow the SAT competition convention.
const (
	exitSat     = 10
	exitUnsat   = 20
	exitUnknown = 0
)

var (
	cfgPath   string
	heuristic string
	restarts  string
	progress  string
	inproc    bool
	proofPath string
	verbose   bool
)

func main() {
	debug.SetGCPercent(300)
	logrus.SetOutput(os.Stderr)

	root := &cobra.Command{
		Use:           "lunasat file.cnf[.gz]",
		Short:         "a conflict-driven clause learning SAT solver",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return solve(cmd.Flags(), args[0])
		},
	}
	flags := root.Flags()
	flags.StringVar(&cfgPath, "config", "", "path to a YAML configuration file")
	flags.StringVar(&heuristic, "heuristic", string(config.HeuristicVSIDS), "branching heuristic (first_unassigned, decay, vmtf, vsids)")
	flags.StringVar(&restarts, "restarts", string(config.RestartGlucoseEma), "restart policy (none, fixed, geometric, luby, glucose_ema)")
	flags.StringVar(&progress, "progress", string(config.ProgressMedium), "progress reporting (off, short, medium, long)")
	flags.BoolVar(&inproc, "inprocessing", true, "run bounded variable elimination between restarts")
	flags.StringVar(&proofPath, "proof", "", "write a DRUP certificate to this path")
	flags.BoolVar(&verbose, "verbose", false, "log diagnostic events on stderr")

	check := &cobra.Command{
		Use:   "check file.cnf proof.drup",
		Short: "verify a DRUP certificate against a CNF file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkProof(args[0], args[1])
		},
	}
	root.AddCommand(check)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// buildConfig assembles the configuration: defaults, then the YAML file, then
// whichever flags were set explicitly.
func buildConfig(flags *pflag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	var err error
	if cfgPath != "" {
		if cfg, err = cfg.LoadFile(cfgPath); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("heuristic") {
		cfg.Heuristic = config.Heuristic(heuristic)
	}
	if flags.Changed("restarts") {
		cfg.RestartPolicy = config.RestartPolicy(restarts)
	}
	if flags.Changed("progress") {
		cfg.Progress = config.ProgressLevel(progress)
	}
	if flags.Changed("inprocessing") {
		cfg.Inprocessing = inproc
	}
	if flags.Changed("proof") {
		cfg.ProofPath = proofPath
	}
	return cfg, cfg.Validate()
}

func solve(flags *pflag.FlagSet, path string) error {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	cfg, err := buildConfig(flags)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	fmt.Printf("c solving %s\n", path)
	pb, err := solver.ParseCNF(f)
	if err != nil {
		return err
	}
	s := solver.NewWithConfig(pb, cfg)
	if cfg.ProofPath != "" {
		proof, err := os.Create(cfg.ProofPath)
		if err != nil {
			return err
		}
		defer proof.Close()
		s.SetProofWriter(proof)
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	status := s.Solve(ctx)
	s.OutputModel()
	if cfg.Progress != config.ProgressOff {
		s.OutputStats()
	}
	if err := s.ProofError(); err != nil {
		return err
	}
	switch status {
	case solver.Sat:
		os.Exit(exitSat)
	case solver.Unsat:
		os.Exit(exitUnsat)
	}
	os.Exit(exitUnknown)
	return nil
}

func checkProof(cnfPath, proofPath string) error {
	cnf, err := os.Open(cnfPath)
	if err != nil {
		return err
	}
	defer cnf.Close()
	pb, err := drup.ParseCNF(cnf)
	if err != nil {
		return err
	}
	cert, err := os.Open(proofPath)
	if err != nil {
		return err
	}
	defer cert.Close()
	valid, err := drup.Check(pb, cert)
	if err != nil {
		return err
	}
	if !valid {
		fmt.Println("s NOT VERIFIED")
		os.Exit(1)
	}
	fmt.Println("s VERIFIED")
	return nil
}
