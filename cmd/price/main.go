// Command price reads a Deal as JSON from stdin (or -input), prices
// every security, and writes the aggregated DealResult as JSON to
// stdout. Its flag/stdin/stdout shape follows cmd/npv/internal/krxirs
// in the teacher.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/meenmo/hybridlattice/aggregate"
	"github.com/meenmo/hybridlattice/deal"
	"github.com/meenmo/hybridlattice/obs"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	log.Logger = zerolog.New(stderr).With().Timestamp().Logger()

	fs := flag.NewFlagSet("price", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inputPath := fs.String("input", "", "JSON input path (optional; if set, ignores stdin)")
	metricsAddr := fs.String("metrics-addr", "", "if set, serve Prometheus /metrics on this address after pricing")
	help := fs.Bool("h", false, "Show help")
	fs.BoolVar(help, "help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *help {
		usage(stderr)
		return 0
	}

	inputBytes, err := readInput(stdin, strings.TrimSpace(*inputPath))
	if err != nil {
		return writeError(stdout, fmt.Sprintf("failed to read input: %v", err))
	}

	var in dealInput
	if err := json.Unmarshal(inputBytes, &in); err != nil {
		return writeError(stdout, fmt.Sprintf("failed to parse JSON input: %v", err))
	}

	d, err := in.toDeal()
	if err != nil {
		return writeError(stdout, fmt.Sprintf("invalid deal: %v", err))
	}

	result, err := aggregate.Aggregate(d)
	if err != nil {
		return writeError(stdout, err.Error())
	}

	outputBytes, err := json.Marshal(result)
	if err != nil {
		return writeError(stdout, fmt.Sprintf("failed to marshal result: %v", err))
	}
	fmt.Fprintln(stdout, string(outputBytes))

	if *metricsAddr != "" {
		http.Handle("/metrics", obs.Handler())
		log.Info().Str("addr", *metricsAddr).Msg("serving /metrics")
		if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
			log.Error().Err(err).Msg("metrics server stopped")
		}
	}

	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  price < deal.json")
	fmt.Fprintln(w, "  price -input /path/to/deal.json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Read a Deal as JSON, price every security, write the aggregated DealResult as JSON to stdout.")
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(stdin)
}

func writeError(stdout io.Writer, msg string) int {
	b, _ := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: msg})
	fmt.Fprintln(stdout, string(b))
	return 1
}

// wireSecurity is the on-the-wire shape of one Securities[] entry: a
// "kind" discriminator plus the union of every field any kind might use.
// toDeal below projects it down to the concrete deal.Security variant.
type wireSecurity struct {
	Kind string `json:"kind"`
	deal.Common
	deal.HybridTerms

	OptionCount           float64 `json:"option_count,omitempty"`
	Strike                float64 `json:"strike,omitempty"`
	VestingEnd            string  `json:"vesting_end,omitempty"`
	AnnualExitRate        float64 `json:"annual_exit_rate,omitempty"`
	EarlyExerciseMultiple float64 `json:"early_exercise_multiple,omitempty"`
}

func (w wireSecurity) toSecurity() (deal.Security, error) {
	switch strings.ToUpper(strings.TrimSpace(w.Kind)) {
	case string(deal.KindRCPS):
		return &deal.RCPS{Common: w.Common, HybridTerms: w.HybridTerms}, nil
	case string(deal.KindCPS):
		return &deal.CPS{Common: w.Common, HybridTerms: w.HybridTerms}, nil
	case string(deal.KindCB):
		return &deal.CB{Common: w.Common, HybridTerms: w.HybridTerms}, nil
	case string(deal.KindESO):
		return &deal.ESO{
			Common:                w.Common,
			OptionCount:           w.OptionCount,
			Strike:                w.Strike,
			VestingEnd:            w.VestingEnd,
			AnnualExitRate:        w.AnnualExitRate,
			EarlyExerciseMultiple: w.EarlyExerciseMultiple,
		}, nil
	default:
		return nil, fmt.Errorf("unknown security kind %q", w.Kind)
	}
}

type dealInput struct {
	DealName            string              `json:"deal_name"`
	ValuationDate       string              `json:"valuation_date"`
	SharePriceCurrent   float64             `json:"share_price_current"`
	UnderlyingNumShares float64             `json:"underlying_num_shares"`
	Volatility          float64             `json:"volatility"`
	RiskFreeRate        float64             `json:"risk_free_rate"`
	CreditSpread        float64             `json:"credit_spread"`
	RiskFreeCurve       []deal.TenorPoint   `json:"risk_free_curve,omitempty"`
	CreditSpreadCurve   []deal.TenorPoint   `json:"credit_spread_curve,omitempty"`
	RunID               string              `json:"run_id,omitempty"`
	Securities          []wireSecurity      `json:"securities"`
}

func (in dealInput) toDeal() (*deal.Deal, error) {
	secs := make([]deal.Security, 0, len(in.Securities))
	for i, w := range in.Securities {
		sec, err := w.toSecurity()
		if err != nil {
			return nil, fmt.Errorf("securities[%d]: %w", i, err)
		}
		secs = append(secs, sec)
	}
	return &deal.Deal{
		DealName:            in.DealName,
		ValuationDate:       in.ValuationDate,
		SharePriceCurrent:   in.SharePriceCurrent,
		UnderlyingNumShares: in.UnderlyingNumShares,
		Volatility:          in.Volatility,
		RiskFreeRate:        in.RiskFreeRate,
		CreditSpread:        in.CreditSpread,
		RiskFreeCurve:       in.RiskFreeCurve,
		CreditSpreadCurve:   in.CreditSpreadCurve,
		RunID:               in.RunID,
		Securities:          secs,
	}, nil
}
