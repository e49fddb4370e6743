package voting

import (
	"chainvote/internal/model"

	"go.uber.org/zap"
)

// Matcher associates a wallet's proof-of-vote tokens with proposals by the
// proposal reference embedded in each token.
type Matcher struct {
	logger *zap.Logger
}

func NewMatcher(logger *zap.Logger) Matcher {
	return Matcher{logger: logger}
}

// Match returns the first proof attesting to the given proposal, nil when
// the wallet holds none. The contract guarantees at most one proof per
// proposal and wallet; if that guarantee is ever violated the extra proofs
// are a consistency anomaly, reported here and otherwise ignored.
func (m Matcher) Match(proofs []model.VoteProof, proposalID string) *model.VoteProof {

	var matched *model.VoteProof
	count := 0

	for i := range proofs {
		if proofs[i].ProposalID != proposalID {
			continue
		}
		count++
		if matched == nil {
			matched = &proofs[i]
		}
	}

	if count > 1 {
		m.logger.Warn("wallet holds more than one vote proof for the same proposal",
			zap.String("proposalID", proposalID),
			zap.Int("count", count))
	}

	if matched == nil {
		return nil
	}

	proof := *matched
	return &proof
}
