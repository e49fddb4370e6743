package model

// VoteProof is the proof-of-vote token minted to a wallet when its vote
// transaction lands. The client only ever observes these tokens; it never
// creates or destroys them.
type VoteProof struct {
	ID         string
	ProposalID string
	URL        string
}

// IsZero reports whether the proof is the sentinel produced when an owned
// object had no decodable payload.
func (p VoteProof) IsZero() bool {
	return p.ID == "" && p.ProposalID == "" && p.URL == ""
}
