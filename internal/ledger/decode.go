package ledger

import (
	"fmt"
	"strconv"

	"chainvote/internal/model"
)

// ParseProposal decodes a raw object into a proposal. It returns nil when
// the object carries no structured move payload (wrong object kind, content
// not requested); decoding is best effort, never an error.
func ParseProposal(raw RawObject) *model.Proposal {
	if !raw.Content.IsMoveObject() {
		return nil
	}
	fields := raw.Content.Fields

	return &model.Proposal{
		ID:            raw.ObjectID,
		Title:         asString(fields["title"]),
		Description:   asString(fields["description"]),
		Status:        parseStatus(fields["status"]),
		VotedYesCount: asUint64(fields["voted_yes_count"]),
		VotedNoCount:  asUint64(fields["voted_no_count"]),
		Expiration:    int64(asUint64(fields["expiration"])),
		Creator:       asString(fields["creator"]),
		VoterRegistry: asString(fields["voter_registry"]),
	}
}

// ParseDashboard decodes the singleton dashboard object, nil on a payload
// mismatch.
func ParseDashboard(raw RawObject) *model.Dashboard {
	if !raw.Content.IsMoveObject() {
		return nil
	}

	ids, _ := raw.Content.Fields["proposals_ids"].([]interface{})
	proposalIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		proposalIDs = append(proposalIDs, asString(id))
	}

	return &model.Dashboard{
		ID:          raw.ObjectID,
		ProposalIDs: proposalIDs,
	}
}

// ParseVoteProof decodes an owned proof-of-vote token. A degenerate payload
// resolves to the zero-value sentinel proof rather than an error.
func ParseVoteProof(raw RawObject) model.VoteProof {
	if !raw.Content.IsMoveObject() {
		return model.VoteProof{}
	}
	fields := raw.Content.Fields

	return model.VoteProof{
		ID:         raw.ObjectID,
		ProposalID: asString(fields["proposal_id"]),
		URL:        asString(fields["url"]),
	}
}

// VoteEvent is the vote-recorded event of a finalized vote transaction.
// VoteYesKnown is false when the event payload carried no decodable boolean;
// VoteYes is then meaningless and must not be trusted.
type VoteEvent struct {
	ProposalID   string
	Voter        string
	VoteYes      bool
	VoteYesKnown bool
}

// ParseVoteEvent decodes a vote-recorded event payload, nil when the event
// does not look like one.
func ParseVoteEvent(event Event) *VoteEvent {
	if event.ParsedJSON == nil {
		return nil
	}

	decoded := VoteEvent{
		ProposalID: asString(event.ParsedJSON["proposal_id"]),
		Voter:      asString(event.ParsedJSON["voter"]),
	}
	if decoded.ProposalID == "" && decoded.Voter == "" {
		return nil
	}

	// a missing vote_yes field stays explicitly unknown instead of being
	// conflated with a false vote
	if voteYes, ok := event.ParsedJSON["vote_yes"].(bool); ok {
		decoded.VoteYes = voteYes
		decoded.VoteYesKnown = true
	}

	return &decoded
}

// asString coerces a decoded JSON field to text. Object ids may arrive
// nested under an "id" wrapper field, the way the ledger renders UID types.
func asString(value interface{}) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case map[string]interface{}:
		if inner, ok := typed["id"]; ok {
			return asString(inner)
		}
		return ""
	default:
		return fmt.Sprint(typed)
	}
}

// asUint64 coerces a decoded JSON field to a number. The node renders u64
// values as JSON strings; smaller numbers come through as float64.
func asUint64(value interface{}) uint64 {
	switch typed := value.(type) {
	case float64:
		if typed < 0 {
			return 0
		}
		return uint64(typed)
	case string:
		parsed, err := strconv.ParseUint(typed, 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func parseStatus(value interface{}) model.ProposalStatus {
	fields, ok := value.(map[string]interface{})
	if !ok {
		return model.ProposalStatus(asString(value))
	}

	return model.ProposalStatus(asString(fields["variant"]))
}
