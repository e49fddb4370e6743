package voting

import (
	"time"

	"chainvote/internal/model"
)

type Reason string

const (
	ReasonOpen         Reason = "open"
	ReasonAlreadyVoted Reason = "alreadyVoted"
	ReasonClosed       Reason = "closed"
)

type ClosedReason string

const (
	ClosedReasonNone     ClosedReason = ""
	ClosedReasonExpired  ClosedReason = "expired"
	ClosedReasonDelisted ClosedReason = "delisted"
)

// Eligibility is the voting outcome for one proposal and one wallet.
type Eligibility struct {
	CanVote       bool
	Reason        Reason
	ClosedBecause ClosedReason
}

// Evaluate computes whether a vote can be cast on the proposal. proof is
// the wallet's proof-of-vote token for this proposal, nil when the wallet
// has not voted. The current time is injected so the result is a pure
// function of its inputs.
//
// Delisting wins over expiration in ClosedBecause when both hold: an
// explicit governance action is more informative than a time comparison.
func Evaluate(proposal model.Proposal, proof *model.VoteProof, now time.Time) Eligibility {

	delisted := proposal.Status == model.ProposalStatusDelisted
	closed := delisted || proposal.IsExpired(now)

	if closed {
		closedBecause := ClosedReasonExpired
		if delisted {
			closedBecause = ClosedReasonDelisted
		}
		return Eligibility{
			CanVote:       false,
			Reason:        ReasonClosed,
			ClosedBecause: closedBecause,
		}
	}

	if proof != nil {
		return Eligibility{
			CanVote: false,
			Reason:  ReasonAlreadyVoted,
		}
	}

	return Eligibility{
		CanVote: true,
		Reason:  ReasonOpen,
	}
}

// YesPercentage returns the yes share of all cast votes in [0, 100], 0 when
// nothing has been cast yet. Display only; it never feeds eligibility.
func YesPercentage(proposal model.Proposal) float64 {
	total := proposal.TotalVotes()
	if total == 0 {
		return 0
	}

	return float64(proposal.VotedYesCount) / float64(total) * 100
}
