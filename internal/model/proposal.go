package model

import "time"

type ProposalStatus string

const (
	ProposalStatusActive   ProposalStatus = "Active"
	ProposalStatusDelisted ProposalStatus = "Delisted"
)

func (status ProposalStatus) IsValid() bool {
	return status == ProposalStatusActive || status == ProposalStatusDelisted
}

func (status ProposalStatus) String() string {
	return string(status)
}

// Proposal existing on the ledger. All fields are read-only for this
// client; the counts and the status are mutated by the voting contract.
type Proposal struct {
	ID          string
	Title       string
	Description string

	Status ProposalStatus

	VotedYesCount uint64
	VotedNoCount  uint64

	// Expiration is an absolute timestamp in milliseconds since epoch.
	Expiration int64

	Creator       string
	VoterRegistry string
}

func (p Proposal) TotalVotes() uint64 {
	return p.VotedYesCount + p.VotedNoCount
}

func (p Proposal) IsExpired(now time.Time) bool {
	return now.UnixMilli() > p.Expiration
}

func (p Proposal) ExpirationTime() time.Time {
	return time.UnixMilli(p.Expiration)
}
