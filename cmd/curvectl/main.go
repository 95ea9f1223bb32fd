// curvectl builds discount curves from instrument definition tables and
// quoted prices, reprices the instrument set, and computes bumped curves
// for delta risk.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/meenmo/curvekit/builder"
	"github.com/meenmo/curvekit/conventions"
	"github.com/meenmo/curvekit/dates"
	"github.com/meenmo/curvekit/risk"
)

var (
	definitionsFile string
	curvesFile      string
	conventionsFile string
	pricesFile      string
	evalDateArg     string

	bumpRegex  string
	bumpSize   float64
	bumpMethod string
)

func requireNoError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "curvectl",
	Short: "Bootstrap discount curves and compute delta risk",
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Calibrate curves to quoted prices and print the repriced ladder",
	Run: func(cmd *cobra.Command, args []string) {
		engine, prices := loadEngine()
		if prices == nil {
			requireNoError(fmt.Errorf("--prices is required for build"))
		}
		out, err := engine.BuildCurves(prices)
		requireNoError(err)
		ladder, err := engine.Reprice(out.OutputCurveMap)
		requireNoError(err)
		requireNoError(ladder.Write(os.Stdout))
	},
}

var repriceCmd = &cobra.Command{
	Use:   "reprice",
	Short: "Print the template's price ladder (zeros, no calibration)",
	Run: func(cmd *cobra.Command, args []string) {
		engine, _ := loadEngine()
		ladder, err := engine.Reprice(nil)
		requireNoError(err)
		requireNoError(ladder.Write(os.Stdout))
	},
}

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Bump instruments matching a regex and print the bumped ladder",
	Run: func(cmd *cobra.Command, args []string) {
		engine, prices := loadEngine()
		if prices == nil {
			requireNoError(fmt.Errorf("--prices is required for risk"))
		}
		out, err := engine.BuildCurves(prices)
		requireNoError(err)

		calc := risk.NewRiskCalculator(engine, out)
		names, err := calc.FindInstruments(bumpRegex)
		requireNoError(err)

		method := risk.FullRebuild
		switch bumpMethod {
		case "full":
		case "jacobian":
			method = risk.JacobianRebuild
		default:
			requireNoError(fmt.Errorf("unknown method %q (use full or jacobian)", bumpMethod))
		}
		bumped, err := calc.BumpedCurveMap(names, bumpSize, method)
		requireNoError(err)
		ladder, err := engine.Reprice(bumped)
		requireNoError(err)
		requireNoError(ladder.Write(os.Stdout))
	},
}

func loadEngine() (*builder.CurveBuilder, *builder.PriceLadder) {
	evalDate, err := dates.Resolve(evalDateArg, 0)
	requireNoError(err)

	convFile, err := os.Open(conventionsFile)
	requireNoError(err)
	defer convFile.Close()
	convs, err := conventions.Load(convFile)
	requireNoError(err)

	defFile, err := os.Open(definitionsFile)
	requireNoError(err)
	defer defFile.Close()
	instRows, err := builder.LoadInstrumentRows(defFile)
	requireNoError(err)

	curveFile, err := os.Open(curvesFile)
	requireNoError(err)
	defer curveFile.Close()
	curveRows, err := builder.LoadCurveRows(curveFile)
	requireNoError(err)

	engine, err := builder.NewCurveBuilder(instRows, curveRows, evalDate, convs)
	requireNoError(err)

	var prices *builder.PriceLadder
	if pricesFile != "" {
		priceFile, err := os.Open(pricesFile)
		requireNoError(err)
		defer priceFile.Close()
		prices, err = builder.ReadPriceLadder(priceFile)
		requireNoError(err)
	}
	return engine, prices
}

func configureLogging() {
	// Shell environment takes precedence over .env values.
	_ = godotenv.Load()
	level := os.Getenv("LOGLEVEL")
	if level == "" {
		level = "warning"
	}
	parsed, err := logrus.ParseLevel(level)
	requireNoError(err)
	logrus.SetLevel(parsed)
}

func main() {
	cobra.OnInitialize(configureLogging)

	rootCmd.PersistentFlags().StringVarP(&definitionsFile, "definitions", "d", "definitions.csv", "Instrument definition table (CSV)")
	rootCmd.PersistentFlags().StringVarP(&curvesFile, "curves", "c", "curves.csv", "Curve properties table (CSV)")
	rootCmd.PersistentFlags().StringVarP(&conventionsFile, "conventions", "v", "conventions.tsv", "Convention table (TSV)")
	rootCmd.PersistentFlags().StringVarP(&pricesFile, "prices", "p", "", "Instrument price table (CSV)")
	rootCmd.PersistentFlags().StringVarP(&evalDateArg, "eval-date", "e", "", "Evaluation date (YYYY-MM-DD)")
	rootCmd.MarkPersistentFlagRequired("eval-date")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(repriceCmd)

	rootCmd.AddCommand(riskCmd)
	riskCmd.Flags().StringVarP(&bumpRegex, "regex", "r", ".*", "Regex selecting instruments to bump")
	riskCmd.Flags().Float64VarP(&bumpSize, "bump", "b", 1e-4, "Par rate bump size")
	riskCmd.Flags().StringVarP(&bumpMethod, "method", "m", "full", "Rebuild method: full or jacobian")

	err := rootCmd.Execute()
	requireNoError(err)
}
