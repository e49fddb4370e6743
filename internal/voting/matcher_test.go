package voting_test

import (
	"testing"

	"chainvote/internal/model"
	"chainvote/internal/voting"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMatchFindsProofByProposal(t *testing.T) {
	matcher := voting.NewMatcher(zap.NewNop())
	proofs := []model.VoteProof{
		{ID: "0x1", ProposalID: "0xABC", URL: "https://badges/1.png"},
		{ID: "0x2", ProposalID: "0xDEF", URL: "https://badges/2.png"},
	}

	matched := matcher.Match(proofs, "0xABC")
	require.NotNil(t, matched)
	assert.Equal(t, "0x1", matched.ID)

	assert.Nil(t, matcher.Match(proofs, "0x404"))
}

func TestMatchIsIdempotent(t *testing.T) {
	matcher := voting.NewMatcher(zap.NewNop())
	proofs := []model.VoteProof{
		{ID: "0x1", ProposalID: "0xABC"},
		{ID: "0x2", ProposalID: "0xDEF"},
	}

	first := matcher.Match(proofs, "0xDEF")
	second := matcher.Match(proofs, "0xDEF")

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)
}

func TestMatchEmptyTokenSet(t *testing.T) {
	matcher := voting.NewMatcher(zap.NewNop())

	assert.Nil(t, matcher.Match(nil, "0xABC"))
	assert.Nil(t, matcher.Match([]model.VoteProof{}, "0xABC"))
}

func TestMatchDoesNotMutateInput(t *testing.T) {
	matcher := voting.NewMatcher(zap.NewNop())
	proofs := []model.VoteProof{{ID: "0x1", ProposalID: "0xABC"}}

	matched := matcher.Match(proofs, "0xABC")
	require.NotNil(t, matched)

	matched.ID = "overwritten"
	assert.Equal(t, "0x1", proofs[0].ID)
}

func TestMatchWarnsOnDuplicateProofs(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	matcher := voting.NewMatcher(zap.New(core))

	proofs := []model.VoteProof{
		{ID: "0x1", ProposalID: "0xABC"},
		{ID: "0x2", ProposalID: "0xABC"},
		{ID: "0x3", ProposalID: "0xDEF"},
	}

	// the first match is still returned deterministically
	matched := matcher.Match(proofs, "0xABC")
	require.NotNil(t, matched)
	assert.Equal(t, "0x1", matched.ID)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Contains(t, entry.Message, "more than one vote proof")
	assert.Equal(t, int64(2), entry.ContextMap()["count"])
}
