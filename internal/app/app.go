package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"chainvote/internal/ledger"
	"chainvote/internal/model"
	"chainvote/internal/voting"

	cache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const voteProofStructSuffix = "::proposal::VoteProofNFT"

var (
	// ErrDashboardUnavailable means the dashboard object could not be read
	// or carried no decodable payload; nothing can be listed without it.
	ErrDashboardUnavailable = errors.New("the dashboard object is unavailable")

	// ErrProposalUnavailable marks a single proposal slot whose object was
	// missing or carried no decodable payload.
	ErrProposalUnavailable = errors.New("the proposal is unavailable")
)

type ledgerReader interface {
	GetObject(ctx context.Context, id string) (ledger.RawObject, error)
	GetOwnedObjects(ctx context.Context, owner string, structType string) ([]ledger.RawObject, error)
}

type voteSubmitter interface {
	State() voting.State
	SubmitVote(ctx context.Context, proposalID string, voteYes bool) (model.VoteRecord, error)
}

// App wires the reader, the evaluator, the matcher and the submitter
// together and owns the single cached copy of the wallet's vote proofs.
type App struct {
	logger    *zap.Logger
	reader    ledgerReader
	submitter voteSubmitter
	matcher   voting.Matcher

	walletAddress string
	packageID     string
	dashboardID   string

	// proofs are only ever replaced wholesale by a refetch, never patched
	proofs  *cache.Cache
	proofMu sync.Mutex

	metrics *metrics
}

func NewApp(logger *zap.Logger, reader ledgerReader, submitter voteSubmitter,
	walletAddress string, packageID string, dashboardID string, reg prometheus.Registerer) *App {

	return &App{
		logger:        logger,
		reader:        reader,
		submitter:     submitter,
		matcher:       voting.NewMatcher(logger),
		walletAddress: walletAddress,
		packageID:     packageID,
		dashboardID:   dashboardID,
		proofs:        cache.New(cache.NoExpiration, cache.NoExpiration),
		metrics:       newMetrics(reg),
	}
}

func (a *App) WalletAddress() string {
	return a.walletAddress
}

func (a *App) SubmitterState() voting.State {
	return a.submitter.State()
}

// ProposalEntry is one slot of the dashboard listing. Err is set when this
// slot's object could not be fetched or decoded; the other slots are
// unaffected.
type ProposalEntry struct {
	ID            string
	Proposal      *model.Proposal
	Eligibility   voting.Eligibility
	YesPercentage float64
	Err           error
}

// ListProposals reads the dashboard object and fetches every listed
// proposal concurrently. A failure in one proposal's fetch renders as an
// unavailable entry in its slot and never fails the listing.
func (a *App) ListProposals(ctx context.Context, now time.Time) ([]ProposalEntry, error) {

	rawDashboard, err := a.reader.GetObject(ctx, a.dashboardID)
	if err != nil {
		a.metrics.fetchFailures.Inc()
		a.logger.Error("failed to fetch the dashboard object: " + err.Error())
		return nil, ErrDashboardUnavailable
	}

	dashboard := ledger.ParseDashboard(rawDashboard)
	if dashboard == nil {
		a.logger.Error("the dashboard object has no decodable payload", zap.String("objectID", a.dashboardID))
		return nil, ErrDashboardUnavailable
	}

	proofs, err := a.VoteProofs(ctx)
	if err != nil {
		// eligibility degrades to expiration/status only; keep listing
		a.logger.Warn("failed to fetch the wallet's vote proofs: " + err.Error())
		proofs = nil
	}

	entries := make([]ProposalEntry, len(dashboard.ProposalIDs))
	var wg sync.WaitGroup

	for i, proposalID := range dashboard.ProposalIDs {
		wg.Add(1)
		go func(slot int, id string) {
			defer wg.Done()
			entries[slot] = a.loadProposal(ctx, id, proofs, now)
		}(i, proposalID)
	}
	wg.Wait()

	return entries, nil
}

// GetProposal fetches and evaluates a single proposal.
func (a *App) GetProposal(ctx context.Context, proposalID string, now time.Time) (ProposalEntry, error) {

	proofs, err := a.VoteProofs(ctx)
	if err != nil {
		a.logger.Warn("failed to fetch the wallet's vote proofs: " + err.Error())
		proofs = nil
	}

	entry := a.loadProposal(ctx, proposalID, proofs, now)
	return entry, entry.Err
}

func (a *App) loadProposal(ctx context.Context, proposalID string, proofs []model.VoteProof, now time.Time) ProposalEntry {

	raw, err := a.reader.GetObject(ctx, proposalID)
	if err != nil {
		if !errors.Is(err, ledger.ErrObjectNotFound) {
			a.metrics.fetchFailures.Inc()
		}
		a.logger.Warn("failed to fetch a proposal object: "+err.Error(), zap.String("proposalID", proposalID))
		return ProposalEntry{ID: proposalID, Err: ErrProposalUnavailable}
	}

	proposal := ledger.ParseProposal(raw)
	if proposal == nil {
		a.logger.Warn("object carries no proposal payload", zap.String("proposalID", proposalID))
		return ProposalEntry{ID: proposalID, Err: ErrProposalUnavailable}
	}

	proof := a.matcher.Match(proofs, proposal.ID)

	return ProposalEntry{
		ID:            proposal.ID,
		Proposal:      proposal,
		Eligibility:   voting.Evaluate(*proposal, proof, now),
		YesPercentage: voting.YesPercentage(*proposal),
	}
}

// VoteProofs returns the proof-of-vote tokens owned by the connected
// wallet, from cache when available.
func (a *App) VoteProofs(ctx context.Context) ([]model.VoteProof, error) {

	if cached, found := a.proofs.Get(a.walletAddress); found {
		return cached.([]model.VoteProof), nil
	}

	return a.RefreshProofs(ctx)
}

// RefreshProofs refetches the wallet's proofs from the ledger and replaces
// the cached set. This is the only way the cached proofs ever change.
func (a *App) RefreshProofs(ctx context.Context) ([]model.VoteProof, error) {
	a.proofMu.Lock()
	defer a.proofMu.Unlock()

	raw, err := a.reader.GetOwnedObjects(ctx, a.walletAddress, a.packageID+voteProofStructSuffix)
	if err != nil {
		a.metrics.fetchFailures.Inc()
		return nil, errors.New("failed to fetch the owned vote proofs: " + err.Error())
	}

	proofs := make([]model.VoteProof, 0, len(raw))
	for _, object := range raw {
		proofs = append(proofs, ledger.ParseVoteProof(object))
	}

	a.proofs.SetDefault(a.walletAddress, proofs)
	a.logger.Debug("vote proofs refreshed", zap.Int("count", len(proofs)))

	return proofs, nil
}

// CastVote checks eligibility for the target proposal and submits the vote.
// The proofs are refetched after a successful submission.
func (a *App) CastVote(ctx context.Context, proposalID string, voteYes bool) (model.VoteRecord, error) {

	if a.submitter.State().InFlight() {
		return model.VoteRecord{}, voting.ErrSubmissionInFlight
	}

	proofs, err := a.VoteProofs(ctx)
	if err != nil {
		return model.VoteRecord{}, err
	}

	entry := a.loadProposal(ctx, proposalID, proofs, time.Now())
	if entry.Err != nil {
		return model.VoteRecord{}, entry.Err
	}

	if !entry.Eligibility.CanVote {
		if entry.Eligibility.Reason == voting.ReasonAlreadyVoted {
			return model.VoteRecord{}, voting.ErrAlreadyVoted
		}
		return model.VoteRecord{}, voting.ErrProposalClosed
	}

	a.metrics.votesSubmitted.Inc()
	record, err := a.submitter.SubmitVote(ctx, proposalID, voteYes)
	if err != nil {
		a.metrics.votesFailed.Inc()
		return model.VoteRecord{}, err
	}
	a.metrics.votesConfirmed.Inc()

	if _, err := a.RefreshProofs(ctx); err != nil {
		// the vote is already final; the stale cache only delays the
		// already-voted indicator until the next refetch
		a.logger.Warn("failed to refresh the vote proofs after voting: " + err.Error())
	}

	return record, nil
}
