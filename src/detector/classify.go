package detector

import (
	"strings"

	"github.com/stake-plus/agentic-honeypot/src/extractor"
	"github.com/stake-plus/agentic-honeypot/src/types"
)

// classify maps the dominant indicator vocabulary to a scam type. Rules are
// priority-ordered; when the current message alone is inconclusive, the
// prior counterparty messages are folded in so a type settled earlier in the
// conversation is kept.
func classify(text string, history []types.Message) types.ScamType {
	if t := classifyText(text); t != types.ScamTypeUnknown {
		return t
	}
	var parts []string
	for _, m := range history {
		if m.Sender == types.SenderScammer {
			parts = append(parts, m.Text)
		}
	}
	parts = append(parts, text)
	return classifyText(strings.Join(parts, " "))
}

func classifyText(text string) types.ScamType {
	hits := extractor.CategoryHits(text)
	intel := extractor.Extract(text)

	rewards := len(hits[extractor.CategoryReward])
	threats := len(hits[extractor.CategoryThreat])

	switch {
	case extractor.HasKYCTerms(text):
		return types.ScamTypeKYC
	case rewards > 0 && rewards >= threats:
		return types.ScamTypePrize
	case threats > 0:
		return types.ScamTypeThreat
	case len(intel.UPIIDs) > 0 || extractor.HasPaymentTerms(text):
		return types.ScamTypeUPIPayment
	case extractor.HasBankTerms(text) || len(intel.BankAccounts) > 0 || len(intel.IFSCCodes) > 0:
		return types.ScamTypeBankAccount
	case len(hits[extractor.CategoryVerification]) > 0:
		return types.ScamTypeKYC
	default:
		return types.ScamTypeUnknown
	}
}
