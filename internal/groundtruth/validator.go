package groundtruth

import (
	"math"
	"strings"

	"github.com/hederw/nfs-extrator/internal/model"
)

// amountTolerance is one currency minor unit.
const amountTolerance = 0.01

// Validate checks each successful extraction against the ground-truth sets in
// priority order and returns a verdict per record id. The first set with any
// vendor-name containment match decides the verdict, even a divergent one;
// later sets are not consulted for that record.
func Validate(records []*model.ExtractionRecord, sets []*model.GroundTruthSet) map[string]model.Verdict {
	verdicts := make(map[string]model.Verdict, len(records))
	for _, rec := range records {
		if rec.Status != model.StatusSuccess || rec.Data == nil {
			continue
		}
		verdicts[rec.ID] = validateOne(rec, sets)
	}
	return verdicts
}

func validateOne(rec *model.ExtractionRecord, sets []*model.GroundTruthSet) model.Verdict {
	vendor := strings.ToLower(strings.TrimSpace(rec.Data.Prestador))
	if vendor == "" {
		return model.Verdict{Status: model.VerdictNotFound}
	}

	for _, set := range sets {
		if set.Status != model.GroundTruthSuccess {
			continue
		}
		for _, truth := range set.Records {
			if !vendorMatches(vendor, truth.Vendor) {
				continue
			}
			if math.Abs(rec.Data.ValorLiquido-truth.Amount) <= amountTolerance {
				return model.Verdict{Status: model.VerdictOK, Source: set.Label}
			}
			return model.Verdict{
				Status:   model.VerdictDivergent,
				Source:   set.Label,
				Expected: truth.Amount,
			}
		}
	}
	return model.Verdict{Status: model.VerdictNotFound}
}

// vendorMatches applies bidirectional substring containment on normalized
// names, loose enough to tolerate abbreviations and legal-entity suffixes.
func vendorMatches(extracted, truth string) bool {
	t := strings.ToLower(strings.TrimSpace(truth))
	if t == "" {
		return false
	}
	return strings.Contains(extracted, t) || strings.Contains(t, extracted)
}
