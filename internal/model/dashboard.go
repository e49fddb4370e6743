package model

// Dashboard is the singleton ledger object listing the proposal ids
// currently surfaced to voters.
type Dashboard struct {
	ID          string
	ProposalIDs []string
}

// VoteRecord describes one recorded vote, as reconstructed from the
// vote-recorded event of a finalized transaction. EventConfirmed is false
// when the transaction finalized but no matching event could be observed;
// the record then carries the originally requested values.
type VoteRecord struct {
	ProposalID     string
	Voter          string
	VoteYes        bool
	EventConfirmed bool
}
