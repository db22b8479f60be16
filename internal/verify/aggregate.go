package verify

import (
	"github.com/veracityhq/claimcheck/internal/model"
)

const maxSnippetChars = 350

// Aggregator turns a sub-claim's vote list into one verdict
type Aggregator struct {
	trust               *Trust
	supportThreshold    float64
	contradictThreshold float64
	margin              float64
	minSources          int
}

// NewAggregator creates an aggregator from decision configuration
func NewAggregator(cfg model.DecisionConfig) *Aggregator {
	minSources := cfg.MinSources
	if minSources <= 0 {
		minSources = 1
	}
	return &Aggregator{
		trust:               NewTrust(cfg.TrustedDomains, cfg.TrustBoost),
		supportThreshold:    cfg.SupportThreshold,
		contradictThreshold: cfg.ContradictThreshold,
		margin:              cfg.Margin,
		minSources:          minSources,
	}
}

// side holds one side's best evidence after trust weighting
type side struct {
	best      *model.Vote
	weighted  float64 // Best vote's trust-weighted confidence
	domains   map[string]bool
	threshold float64
}

func (s *side) qualified(minSources int) bool {
	return s.best != nil && s.weighted >= s.threshold && len(s.domains) >= minSources
}

// Decide fuses votes into a verdict. Empty input yields (unclear, nil).
//
// Votes are partitioned into supported and contradicted sides (unclear votes
// count toward neither side nor consensus). Each side qualifies when its best
// trust-weighted confidence meets the side threshold and its distinct source
// domains meet the minimum. One qualified side wins outright; two qualified
// sides must differ by at least the margin, otherwise genuine conflict
// surfaces as unclear with the stronger vote as citation.
func (a *Aggregator) Decide(votes []model.Vote) (model.Verdict, *model.Vote) {
	support := &side{domains: make(map[string]bool), threshold: a.supportThreshold}
	contra := &side{domains: make(map[string]bool), threshold: a.contradictThreshold}

	for i := range votes {
		v := &votes[i]

		var s *side
		switch v.Label {
		case model.LabelSupported:
			s = support
		case model.LabelContradicted:
			s = contra
		default:
			continue
		}

		s.domains[Domain(v.URL)] = true
		weighted := v.Confidence * a.trust.Weight(v.URL)
		if s.best == nil || weighted > s.weighted {
			s.best = v
			s.weighted = weighted
		}
	}

	supportOK := support.qualified(a.minSources)
	contraOK := contra.qualified(a.minSources)

	switch {
	case supportOK && !contraOK:
		return a.verdict(model.LabelSupported, support), support.best

	case contraOK && !supportOK:
		return a.verdict(model.LabelContradicted, contra), contra.best

	case supportOK && contraOK:
		diff := support.weighted - contra.weighted
		if diff >= a.margin {
			return a.verdict(model.LabelSupported, support), support.best
		}
		if -diff >= a.margin {
			return a.verdict(model.LabelContradicted, contra), contra.best
		}
		// Genuine conflicting evidence: cite the stronger side but stay unclear
		winner := support
		if contra.weighted > support.weighted {
			winner = contra
		}
		return a.verdict(model.LabelUnclear, winner), winner.best
	}

	// Neither side qualifies: unclear, citing whichever has the higher best
	// confidence, or nothing at all
	winner := support
	if winner.best == nil || (contra.best != nil && contra.weighted > winner.weighted) {
		winner = contra
	}
	if winner.best == nil {
		return model.Verdict{Label: model.LabelUnclear, Citation: nil}, nil
	}
	return a.verdict(model.LabelUnclear, winner), winner.best
}

// verdict builds the final verdict from a side's best vote. Confidence is the
// trust-weighted value clamped to 1 so the API never reports out of [0,1].
func (a *Aggregator) verdict(label model.Label, s *side) model.Verdict {
	confidence := s.weighted
	if confidence > 1 {
		confidence = 1
	}
	return model.Verdict{
		Label:      label,
		Confidence: confidence,
		Citation: &model.Citation{
			URL:     s.best.URL,
			Snippet: truncateSnippet(s.best.Passage),
		},
	}
}

func truncateSnippet(text string) string {
	runes := []rune(text)
	if len(runes) > maxSnippetChars {
		return string(runes[:maxSnippetChars])
	}
	return text
}
