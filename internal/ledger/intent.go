package ledger

import (
	"encoding/base64"
	"errors"
	"math/rand"
	"strconv"

	"chainvote/internal/hashing"

	"github.com/fxamacker/cbor"
)

const (
	// ClockObjectID is the well-known shared clock object, created at
	// genesis; the vote entry function reads expiration time from it.
	ClockObjectID = "0x6"

	voteFunction = "proposal::vote"
)

// VoteIntent is a constructed, not yet signed, vote transaction: a single
// contract call carrying the proposal reference, the boolean vote and the
// shared clock reference.
type VoteIntent struct {
	target     string
	proposalID string
	payload    []byte
}

func (i VoteIntent) GetTarget() string {
	return i.target
}

func (i VoteIntent) GetProposalID() string {
	return i.proposalID
}

// GetTxBytes returns the base64-encoded transaction payload to broadcast.
func (i VoteIntent) GetTxBytes() string {
	return base64.StdEncoding.EncodeToString(i.payload)
}

// GetSigningDigest returns the digest the wallet signs.
func (i VoteIntent) GetSigningDigest() string {
	return hashing.Calculate(i.payload)
}

func NewVoteIntent(packageID string, proposalID string, voteYes bool, sender string) (VoteIntent, error) {

	if packageID == "" {
		return VoteIntent{}, errors.New("package id is not configured")
	}
	if proposalID == "" {
		return VoteIntent{}, errors.New("proposal id is missing")
	}

	target := packageID + "::" + voteFunction

	payload := make(map[interface{}]interface{})
	payload["target"] = target
	payload["sender"] = sender
	payload["nonce"] = strconv.Itoa(rand.Int())
	payload["arguments"] = []interface{}{
		map[interface{}]interface{}{"kind": "object", "value": proposalID},
		map[interface{}]interface{}{"kind": "pure", "value": voteYes},
		map[interface{}]interface{}{"kind": "object", "value": ClockObjectID},
	}

	payloadDump, err := cbor.Marshal(payload, cbor.CanonicalEncOptions())
	if err != nil {
		return VoteIntent{}, errors.New("failed to dump the payload: " + err.Error())
	}

	return VoteIntent{
		target:     target,
		proposalID: proposalID,
		payload:    payloadDump,
	}, nil
}
