// File: internal/analysis/partner_classifier.go
package analysis

import (
	"github.com/xkilldash9x/trackscope-cli/api/schemas"
	"github.com/xkilldash9x/trackscope-cli/internal/privacy/trackerdb"
)

// riskByCategory maps a data-broker category to its annotation. Kept as a
// table so the classifier stays a pure lookup.
var riskByCategory = map[string]struct {
	Level    string
	Score    int
	Reason   string
	Concerns []string
}{
	"identity-broker": {
		Level:  "high",
		Score:  9,
		Reason: "links identifiers across devices and merges them into persistent identity graphs",
		Concerns: []string{
			"cross-device identity resolution",
			"persistent profiles that survive cookie clearing",
		},
	},
	"data-broker": {
		Level:  "high",
		Score:  8,
		Reason: "aggregates and resells audience data collected across unrelated sites",
		Concerns: []string{
			"data resale to undisclosed third parties",
			"audience profiling",
		},
	},
	"credit-bureau": {
		Level:  "high",
		Score:  9,
		Reason: "combines web behavior with offline financial records",
		Concerns: []string{
			"linkage to financial history",
			"offline and online profile merging",
		},
	},
}

// ClassifyPartner annotates a consent-dialog partner in place using the
// static data-broker table. Unknown partners are left unannotated; no model
// call is involved.
func ClassifyPartner(p *schemas.ConsentPartner) {
	entry, ok := trackerdb.Match(p.Name, trackerdb.DataBrokers)
	if !ok {
		return
	}
	risk, ok := riskByCategory[entry.Category]
	if !ok {
		return
	}
	p.RiskLevel = risk.Level
	p.RiskCategory = entry.Category
	p.RiskScore = risk.Score
	p.RiskReason = entry.Name + " " + risk.Reason
	p.Concerns = risk.Concerns
}
