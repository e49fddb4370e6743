package voting

import (
	"context"
	"errors"
	"sync"

	"chainvote/internal/ledger"
	"chainvote/internal/model"

	"go.uber.org/zap"
)

var (
	// ErrAlreadyVoted is returned when the wallet holds a vote proof for
	// the target proposal.
	ErrAlreadyVoted = errors.New("the wallet has already voted on this proposal")

	// ErrProposalClosed is returned when the proposal is expired or
	// delisted.
	ErrProposalClosed = errors.New("the proposal is no longer open for voting")

	// ErrSubmissionInFlight is returned by callers that refuse to start a
	// second submission while one is pending on the same submitter.
	ErrSubmissionInFlight = errors.New("a vote submission is already in flight")
)

type State string

const (
	StateIdle             State = "idle"
	StateSubmitting       State = "submitting"
	StateAwaitingFinality State = "awaitingFinality"
	StateConfirmed        State = "confirmed"
	StateFailed           State = "failed"
)

// InFlight reports whether a submission is between broadcast and finality.
func (s State) InFlight() bool {
	return s == StateSubmitting || s == StateAwaitingFinality
}

type finalityClient interface {
	WaitForTransaction(ctx context.Context, digest string) (ledger.FinalityResult, error)
	QueryEvents(ctx context.Context, digest string) ([]ledger.Event, error)
}

type signer interface {
	Address() string
	SignAndSubmit(ctx context.Context, intent ledger.VoteIntent) (string, error)
}

// Submitter drives one vote transaction through broadcast, finality wait
// and event extraction. It does not deduplicate concurrent calls; callers
// check State before invoking and keep voting affordances disabled while a
// submission is in flight.
type Submitter struct {
	logger    *zap.Logger
	client    finalityClient
	wallet    signer
	packageID string

	mu    sync.Mutex
	state State
}

func NewSubmitter(logger *zap.Logger, client finalityClient, wallet signer, packageID string) *Submitter {
	return &Submitter{
		logger:    logger,
		client:    client,
		wallet:    wallet,
		packageID: packageID,
		state:     StateIdle,
	}
}

func (s *Submitter) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Submitter) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// SubmitVote builds, signs and broadcasts the vote transaction, waits for
// finality and extracts the vote-recorded event. Once finality is reached
// an absent event is not a failure: the record is then built from the
// requested inputs and marked unconfirmed.
func (s *Submitter) SubmitVote(ctx context.Context, proposalID string, voteYes bool) (model.VoteRecord, error) {

	s.setState(StateSubmitting)

	intent, err := ledger.NewVoteIntent(s.packageID, proposalID, voteYes, s.wallet.Address())
	if err != nil {
		s.setState(StateFailed)
		return model.VoteRecord{}, err
	}

	digest, err := s.wallet.SignAndSubmit(ctx, intent)
	if err != nil {
		s.setState(StateFailed)
		return model.VoteRecord{}, errors.New("vote broadcast failed: " + err.Error())
	}

	s.setState(StateAwaitingFinality)
	s.logger.Info("vote broadcast, awaiting finality",
		zap.String("proposalID", proposalID),
		zap.String("digest", digest))

	if _, err := s.client.WaitForTransaction(ctx, digest); err != nil {
		s.setState(StateFailed)
		return model.VoteRecord{}, errors.New("finality wait failed: " + err.Error())
	}

	record := s.recordFromEvents(ctx, digest, proposalID, voteYes)
	s.setState(StateConfirmed)

	s.logger.Info("vote confirmed",
		zap.String("proposalID", record.ProposalID),
		zap.Bool("voteYes", record.VoteYes),
		zap.Bool("eventConfirmed", record.EventConfirmed))

	return record, nil
}

// recordFromEvents queries the finalized transaction's events for the first
// vote-recorded one. Failures here only degrade the record, never the vote.
func (s *Submitter) recordFromEvents(ctx context.Context, digest string, proposalID string, voteYes bool) model.VoteRecord {

	fallback := model.VoteRecord{
		ProposalID:     proposalID,
		Voter:          s.wallet.Address(),
		VoteYes:        voteYes,
		EventConfirmed: false,
	}

	events, err := s.client.QueryEvents(ctx, digest)
	if err != nil {
		s.logger.Warn("event query failed after finality, using the requested vote data",
			zap.String("digest", digest), zap.Error(err))
		return fallback
	}

	for _, event := range events {
		decoded := ledger.ParseVoteEvent(event)
		if decoded == nil {
			continue
		}

		record := model.VoteRecord{
			ProposalID:     decoded.ProposalID,
			Voter:          decoded.Voter,
			VoteYes:        voteYes,
			EventConfirmed: true,
		}
		if decoded.VoteYesKnown {
			record.VoteYes = decoded.VoteYes
		}
		return record
	}

	s.logger.Warn("no vote event found for the finalized transaction",
		zap.String("digest", digest))
	return fallback
}
