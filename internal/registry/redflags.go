package registry

import (
	"sort"

	"github.com/rawblock/shield-engine/pkg/models"
)

// redFlagCatalogue mirrors the scam-database red-flag table: a fixed
// key, severity, message and contribution score per signal.
var redFlagCatalogue = map[string]models.RedFlag{
	"known_scam":           {Key: "known_scam", Severity: "critical", Message: "Address is on known scam/phishing list", Score: 90},
	"unlimited_approval":   {Key: "unlimited_approval", Severity: "high", Message: "Requesting unlimited token spending approval", Score: 30},
	"set_approval_for_all": {Key: "set_approval_for_all", Severity: "high", Message: "Requesting approval for entire NFT collection", Score: 25},
	"unverified_contract":  {Key: "unverified_contract", Severity: "medium", Message: "Contract source code is not verified", Score: 20},
	"new_contract":         {Key: "new_contract", Severity: "medium", Message: "Contract deployed less than 7 days ago", Score: 15},
	"very_new_contract":    {Key: "very_new_contract", Severity: "high", Message: "Contract deployed less than 24 hours ago", Score: 20},
	"low_activity":         {Key: "low_activity", Severity: "medium", Message: "Very few transactions with this contract", Score: 15},
	"selfdestruct":         {Key: "selfdestruct", Severity: "high", Message: "Contract contains self-destruct capability", Score: 20},
	"delegatecall":         {Key: "delegatecall", Severity: "medium", Message: "Contract uses delegatecall (upgradeable/proxy)", Score: 15},
	"high_value":           {Key: "high_value", Severity: "medium", Message: "High-value transaction", Score: 10},
	"unknown_function":     {Key: "unknown_function", Severity: "low", Message: "Unknown function being called", Score: 10},
}

// RedFlag returns a copy of a catalogue entry by key.
func RedFlag(key string) (models.RedFlag, bool) {
	f, ok := redFlagCatalogue[key]
	return f, ok
}

// GetRedFlags maps a populated Signals struct to the ordered list of
// red flags it trips, worst (highest score) first.
func GetRedFlags(s models.Signals) []models.RedFlag {
	var flags []models.RedFlag

	add := func(key string) {
		if f, ok := redFlagCatalogue[key]; ok {
			flags = append(flags, f)
		}
	}

	if s.IsKnownScam {
		add("known_scam")
	}
	if s.UnlimitedApproval {
		add("unlimited_approval")
	}
	if s.SetApprovalForAll {
		add("set_approval_for_all")
	}
	if s.UnverifiedContract {
		add("unverified_contract")
	}
	if s.HasSelfDestruct {
		add("selfdestruct")
	}
	if s.HasDelegateCall {
		add("delegatecall")
	}
	if s.UnknownFunction {
		add("unknown_function")
	}

	if s.HasContractAge {
		if s.ContractAgeDays < 1 {
			add("very_new_contract")
		} else if s.ContractAgeDays < 7 {
			add("new_contract")
		}
	}

	if s.TxCount < 10 {
		add("low_activity")
	}

	sort.SliceStable(flags, func(i, j int) bool { return flags[i].Score > flags[j].Score })
	return flags
}
