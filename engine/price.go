package engine

import (
	"fmt"

	"github.com/meenmo/hybridlattice/deal"
	"github.com/meenmo/hybridlattice/obs"
	"github.com/rs/zerolog/log"
)

// PriceSecurity injects deal-level fields, validates, and dispatches to
// the TF Engine or the ESO Engine depending on the security's concrete
// type (spec.md §5, §6). Any refixing.Warning produced along the way is
// logged, not returned as an error: a documented fallback is not a
// pricing failure.
func PriceSecurity(d *deal.Deal, sec deal.Security) (PricingResult, error) {
	InjectDealFields(d, sec)
	if err := sec.Validate(); err != nil {
		return PricingResult{}, fmt.Errorf("PriceSecurity: %w", err)
	}

	switch s := sec.(type) {
	case *deal.RCPS, *deal.CPS, *deal.CB:
		res, warnings, err := PriceTF(d, sec)
		for _, w := range warnings {
			obs.RefixingWarnings.Inc()
			log.Warn().Str("run_id", d.RunID).Str("security", res.SecurityLabel).
				Str("event_date", w.EventDate).Msg(w.Message)
		}
		if err != nil {
			return PricingResult{}, err
		}
		return res, nil
	case *deal.ESO:
		return PriceESO(d, s)
	default:
		return PricingResult{}, fmt.Errorf("PriceSecurity: unsupported security type %T", sec)
	}
}
