package proposal

import (
	"context"
	"encoding/json"
	"time"

	"decred.org/dcrwallet/v2/errors"
	"github.com/asdine/storm"
	"github.com/gov-power/govpower/libgov/chain"
)

// Source lists proposals and tallies from the governance ledger. The
// manager wires the chain state query client in as the source.
type Source interface {
	// ProposalCount returns the number of proposals ever created on the
	// governance contract.
	ProposalCount(ctx context.Context) (uint64, error)
	// Proposals returns up to limit proposals starting at fromID, in id
	// order.
	Proposals(ctx context.Context, fromID uint64, limit uint64) ([]Record, error)
}

// Sync fetches all proposals from the source in batches, recomputes each
// record's category from its decoded policy and tallies, and saves them
// locally. Listeners are notified of new proposals and finished votes.
func (p *Proposals) Sync(ctx context.Context, source Source) error {
	p.mu.Lock()
	if p.syncActive {
		p.mu.Unlock()
		return errors.New(ErrSyncAlreadyInProgress)
	}
	p.syncActive = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.syncActive = false
		p.mu.Unlock()
	}()

	log.Info("Proposals sync: started")
	total, err := source.ProposalCount(ctx)
	if err != nil {
		return err
	}

	const batchSize = 50
	for fromID := uint64(0); fromID < total; fromID += batchSize {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		batch, err := source.Proposals(ctx, fromID, batchSize)
		if err != nil {
			return err
		}

		for i := range batch {
			if err := p.indexProposal(&batch[i]); err != nil {
				return err
			}
		}
	}

	p.saveLastSyncedTimestamp(time.Now().Unix())
	log.Infof("Proposals sync: indexed %d proposal(s)", total)

	p.notificationListenersMu.RLock()
	for _, listener := range p.notificationListeners {
		listener.OnProposalsSynced()
	}
	p.notificationListenersMu.RUnlock()

	return nil
}

// indexProposal derives the record's category and persists it, firing
// notifications for records that are new or whose vote just finished.
func (p *Proposals) indexProposal(proposal *Record) error {
	md, _ := DecodeMetadata(proposal.Description)
	proposal.Category = categoryForStatus(proposal.Status, proposal.Tallies, md.Quorum)

	var oldProposal Record
	err := p.db.One("ProposalID", proposal.ProposalID, &oldProposal)
	isNew := err == storm.ErrNotFound
	if err != nil && err != storm.ErrNotFound {
		return errors.Errorf("error checking if proposal was already indexed: %s", err.Error())
	}

	if err := p.saveOrOverwriteProposal(proposal); err != nil {
		return err
	}

	p.notificationListenersMu.RLock()
	defer p.notificationListenersMu.RUnlock()

	if isNew {
		for _, listener := range p.notificationListeners {
			listener.OnNewProposal(proposal)
		}
		return nil
	}

	if oldProposal.Status != proposal.Status && proposal.Status == StatusFinished {
		for _, listener := range p.notificationListeners {
			listener.OnProposalVoteFinished(proposal)
		}
	}

	return nil
}

// CastVote submits the user's vote on a proposal through the wallet-backed
// caller. The vote weight is the caller's locked balance; the ledger
// tallies it.
func (p *Proposals) CastVote(ctx context.Context, caller chain.Caller, proposalID uint64, choice VoteChoice) error {
	switch choice {
	case VoteFor, VoteAgainst, VoteAbstain:
	default:
		return errors.New(ErrInvalidVoteChoice)
	}

	args, err := json.Marshal(struct {
		ProposalID uint64 `json:"proposal_id"`
		Vote       string `json:"vote"`
	}{ProposalID: proposalID, Vote: choice.String()})
	if err != nil {
		return err
	}

	result, err := caller.Call(ctx, p.votingID, "vote", args, chain.CallOpts{})
	if err != nil {
		return err
	}

	log.Infof("vote %s on proposal %d confirmed in tx %s", choice, proposalID, result.TxHash)
	return nil
}
