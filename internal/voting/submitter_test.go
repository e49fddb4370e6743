package voting_test

import (
	"context"
	"errors"
	"testing"

	"chainvote/internal/ledger"
	"chainvote/internal/voting"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testPackageID = "0xPKG"
	walletAddress = "0x57a11e7"
)

type fakeChain struct {
	waitErr   error
	waitCalls int

	events    []ledger.Event
	eventsErr error
}

func (f *fakeChain) WaitForTransaction(ctx context.Context, digest string) (ledger.FinalityResult, error) {
	f.waitCalls++
	if f.waitErr != nil {
		return ledger.FinalityResult{}, f.waitErr
	}
	return ledger.FinalityResult{Digest: digest}, nil
}

func (f *fakeChain) QueryEvents(ctx context.Context, digest string) ([]ledger.Event, error) {
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	return f.events, nil
}

type fakeWallet struct {
	submitErr  error
	lastIntent ledger.VoteIntent
	submitted  int
}

func (f *fakeWallet) Address() string {
	return walletAddress
}

func (f *fakeWallet) SignAndSubmit(ctx context.Context, intent ledger.VoteIntent) (string, error) {
	f.submitted++
	f.lastIntent = intent
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return "digest-1", nil
}

func voteEvent(proposalID string, voter string, voteYes interface{}) ledger.Event {
	parsed := map[string]interface{}{
		"proposal_id": proposalID,
		"voter":       voter,
	}
	if voteYes != nil {
		parsed["vote_yes"] = voteYes
	}

	return ledger.Event{
		Type:       testPackageID + "::proposal::VoteRegistered",
		ParsedJSON: parsed,
	}
}

func TestSubmitVoteConfirmedWithEvent(t *testing.T) {
	chain := &fakeChain{events: []ledger.Event{voteEvent("0xABC", walletAddress, true)}}
	wallet := &fakeWallet{}
	submitter := voting.NewSubmitter(zap.NewNop(), chain, wallet, testPackageID)

	record, err := submitter.SubmitVote(context.Background(), "0xABC", true)
	require.NoError(t, err)

	assert.Equal(t, "0xABC", record.ProposalID)
	assert.Equal(t, walletAddress, record.Voter)
	assert.True(t, record.VoteYes)
	assert.True(t, record.EventConfirmed)

	assert.Equal(t, voting.StateConfirmed, submitter.State())
	assert.Equal(t, 1, wallet.submitted)
	assert.Equal(t, 1, chain.waitCalls)
	assert.Equal(t, testPackageID+"::proposal::vote", wallet.lastIntent.GetTarget())
}

func TestSubmitVoteResolvesWithoutEvent(t *testing.T) {
	// finality was reached, so a missing event degrades the record instead
	// of failing the vote
	chain := &fakeChain{events: nil}
	submitter := voting.NewSubmitter(zap.NewNop(), chain, &fakeWallet{}, testPackageID)

	record, err := submitter.SubmitVote(context.Background(), "0xABC", false)
	require.NoError(t, err)

	assert.Equal(t, "0xABC", record.ProposalID)
	assert.Equal(t, walletAddress, record.Voter)
	assert.False(t, record.VoteYes)
	assert.False(t, record.EventConfirmed)
	assert.Equal(t, voting.StateConfirmed, submitter.State())
}

func TestSubmitVoteResolvesWhenEventQueryFails(t *testing.T) {
	chain := &fakeChain{eventsErr: errors.New("rpc unavailable")}
	submitter := voting.NewSubmitter(zap.NewNop(), chain, &fakeWallet{}, testPackageID)

	record, err := submitter.SubmitVote(context.Background(), "0xABC", true)
	require.NoError(t, err)

	assert.True(t, record.VoteYes)
	assert.False(t, record.EventConfirmed)
}

func TestSubmitVoteEventWithoutVoteFlag(t *testing.T) {
	// an event that lacks the vote_yes field keeps the requested vote
	// instead of conflating the absence with false
	chain := &fakeChain{events: []ledger.Event{voteEvent("0xABC", walletAddress, nil)}}
	submitter := voting.NewSubmitter(zap.NewNop(), chain, &fakeWallet{}, testPackageID)

	record, err := submitter.SubmitVote(context.Background(), "0xABC", true)
	require.NoError(t, err)

	assert.True(t, record.VoteYes)
	assert.True(t, record.EventConfirmed)
}

func TestSubmitVoteEventOverridesRequestedFlag(t *testing.T) {
	chain := &fakeChain{events: []ledger.Event{voteEvent("0xABC", walletAddress, false)}}
	submitter := voting.NewSubmitter(zap.NewNop(), chain, &fakeWallet{}, testPackageID)

	record, err := submitter.SubmitVote(context.Background(), "0xABC", true)
	require.NoError(t, err)

	assert.False(t, record.VoteYes)
	assert.True(t, record.EventConfirmed)
}

func TestSubmitVoteBroadcastFailure(t *testing.T) {
	chain := &fakeChain{}
	wallet := &fakeWallet{submitErr: errors.New("user rejected the signature")}
	submitter := voting.NewSubmitter(zap.NewNop(), chain, wallet, testPackageID)

	_, err := submitter.SubmitVote(context.Background(), "0xABC", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user rejected")

	assert.Equal(t, voting.StateFailed, submitter.State())
	assert.Equal(t, 0, chain.waitCalls, "must not wait for finality after a failed broadcast")
}

func TestSubmitVoteFinalityFailure(t *testing.T) {
	chain := &fakeChain{waitErr: errors.New("context deadline exceeded")}
	submitter := voting.NewSubmitter(zap.NewNop(), chain, &fakeWallet{}, testPackageID)

	_, err := submitter.SubmitVote(context.Background(), "0xABC", true)
	require.Error(t, err)
	assert.Equal(t, voting.StateFailed, submitter.State())
}

func TestSubmitVoteMissingPackageID(t *testing.T) {
	wallet := &fakeWallet{}
	submitter := voting.NewSubmitter(zap.NewNop(), &fakeChain{}, wallet, "")

	_, err := submitter.SubmitVote(context.Background(), "0xABC", true)
	require.Error(t, err)
	assert.Equal(t, voting.StateFailed, submitter.State())
	assert.Equal(t, 0, wallet.submitted)
}

func TestStateInFlight(t *testing.T) {
	assert.False(t, voting.StateIdle.InFlight())
	assert.True(t, voting.StateSubmitting.InFlight())
	assert.True(t, voting.StateAwaitingFinality.InFlight())
	assert.False(t, voting.StateConfirmed.InFlight())
	assert.False(t, voting.StateFailed.InFlight())
}
