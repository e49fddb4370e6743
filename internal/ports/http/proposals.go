package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"chainvote/internal/app"
	"chainvote/internal/config"
	"chainvote/internal/voting"

	"github.com/gorilla/mux"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// the finality wait dominates a vote submission, give it more room than a
// plain read
const submitTimeout = 60 * time.Second

type retrievedProposal struct {
	ProposalID    string  `json:"proposalID"`
	Title         string  `json:"title,omitempty"`
	Description   string  `json:"description,omitempty"`
	Status        string  `json:"status,omitempty"`
	VotedYesCount uint64  `json:"votedYesCount"`
	VotedNoCount  uint64  `json:"votedNoCount"`
	Expiration    int64   `json:"expiration"`
	YesPercentage float64 `json:"yesPercentage"`
	CanVote       bool    `json:"canVote"`
	Reason        string  `json:"reason,omitempty"`
	ClosedBecause string  `json:"closedBecause,omitempty"`
	Unavailable   bool    `json:"unavailable,omitempty"`
}

type retrievedProof struct {
	ID         string `json:"id"`
	ProposalID string `json:"proposalID"`
	URL        string `json:"url"`
}

type voteRequest struct {
	VoteYes *bool `json:"voteYes"`
}

type voteResponse struct {
	ProposalID     string `json:"proposalID"`
	Voter          string `json:"voter"`
	VoteYes        bool   `json:"voteYes"`
	EventConfirmed bool   `json:"eventConfirmed"`
}

func proposalToResponse(entry app.ProposalEntry) retrievedProposal {
	if entry.Err != nil {
		return retrievedProposal{
			ProposalID:  entry.ID,
			Unavailable: true,
		}
	}

	return retrievedProposal{
		ProposalID:    entry.ID,
		Title:         entry.Proposal.Title,
		Description:   entry.Proposal.Description,
		Status:        entry.Proposal.Status.String(),
		VotedYesCount: entry.Proposal.VotedYesCount,
		VotedNoCount:  entry.Proposal.VotedNoCount,
		Expiration:    entry.Proposal.Expiration,
		YesPercentage: entry.YesPercentage,
		CanVote:       entry.Eligibility.CanVote,
		Reason:        string(entry.Eligibility.Reason),
		ClosedBecause: string(entry.Eligibility.ClosedBecause),
	}
}

func (ser server) getProposals(w http.ResponseWriter, r *http.Request) {

	ctx, cancel := context.WithTimeout(r.Context(), config.GetRequestTimeout())
	defer cancel()

	entries, err := ser.app.ListProposals(ctx, time.Now())
	if err != nil {
		ser.serverError(w, "getting the proposals failed: "+err.Error())
		return
	}

	proposalsToReturn := make([]retrievedProposal, len(entries))
	for i, entry := range entries {
		proposalsToReturn[i] = proposalToResponse(entry)
	}

	ser.writeJSON(w, proposalsToReturn)
}

func (ser server) getProposal(w http.ResponseWriter, r *http.Request) {

	proposalID := normalize(mux.Vars(r)["proposalID"])
	if proposalID == "" {
		ser.badRequest(w, "proposalID is missing")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.GetRequestTimeout())
	defer cancel()

	entry, err := ser.app.GetProposal(ctx, proposalID, time.Now())
	if err != nil {
		if errors.Is(err, app.ErrProposalUnavailable) {
			w.WriteHeader(http.StatusNotFound)
			ser.writeJSON(w, proposalToResponse(entry))
			return
		}
		ser.serverError(w, "getting the proposal failed: "+err.Error())
		return
	}

	ser.writeJSON(w, proposalToResponse(entry))
}

func (ser server) postVote(w http.ResponseWriter, r *http.Request) {

	proposalID, voteYes, err := readVoteParams(r)
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}

	ser.logger.Info("casting a vote", zap.String("proposalID", proposalID), zap.Bool("voteYes", voteYes))

	ctx, cancel := context.WithTimeout(r.Context(), submitTimeout)
	defer cancel()

	record, err := ser.app.CastVote(ctx, proposalID, voteYes)
	if err != nil {
		switch {
		case errors.Is(err, voting.ErrAlreadyVoted),
			errors.Is(err, voting.ErrProposalClosed),
			errors.Is(err, voting.ErrSubmissionInFlight):
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(err.Error()))
			ser.logger.Warn("vote refused: " + err.Error())

		case errors.Is(err, app.ErrProposalUnavailable):
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(err.Error()))

		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("vote submission failed: " + err.Error()))
			ser.logger.Error("vote submission failed: " + err.Error())
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
	ser.writeJSON(w, voteResponse{
		ProposalID:     record.ProposalID,
		Voter:          record.Voter,
		VoteYes:        record.VoteYes,
		EventConfirmed: record.EventConfirmed,
	})
}

func (ser server) getWalletProofs(w http.ResponseWriter, r *http.Request) {

	ctx, cancel := context.WithTimeout(r.Context(), config.GetRequestTimeout())
	defer cancel()

	proofs, err := ser.app.VoteProofs(ctx)
	if err != nil {
		ser.serverError(w, "getting the vote proofs failed: "+err.Error())
		return
	}

	proofsToReturn := make([]retrievedProof, len(proofs))
	for i, proof := range proofs {
		proofsToReturn[i] = retrievedProof{
			ID:         proof.ID,
			ProposalID: proof.ProposalID,
			URL:        proof.URL,
		}
	}

	ser.writeJSON(w, proofsToReturn)
}

func readVoteParams(r *http.Request) (proposalID string, voteYes bool, err error) {

	proposalID = normalize(mux.Vars(r)["proposalID"])
	if proposalID == "" {
		err = multierr.Append(err, errors.New("proposalID is missing"))
	}

	var body voteRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&body); decodeErr != nil {
		err = multierr.Append(err, errors.New("failed to decode the vote body: "+decodeErr.Error()))
	} else if body.VoteYes == nil {
		err = multierr.Append(err, errors.New("voteYes is missing"))
	} else {
		voteYes = *body.VoteYes
	}

	return proposalID, voteYes, err
}

func (ser server) writeJSON(w http.ResponseWriter, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		ser.serverError(w, "marshalling the response failed: "+err.Error())
		return
	}

	if _, err := w.Write(response); err != nil {
		ser.logger.Error("failed to write the response: " + err.Error())
	}
}

func normalize(param string) string {
	return strings.TrimSpace(param)
}
