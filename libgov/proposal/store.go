package proposal

import (
	"encoding/json"
	"fmt"
	"sync"

	"decred.org/dcrwallet/v2/errors"
	"github.com/asdine/storm"
	"github.com/asdine/storm/q"
)

const (
	configDBBkt                  = "proposals_config"
	LastSyncedTimestampConfigKey = "proposals_last_synced_timestamp"
)

const (
	ProposalCategoryAll int32 = iota + 1
	ProposalCategoryDraft
	ProposalCategoryActive
	ProposalCategoryApproved
	ProposalCategoryRejected
)

// Record is a synced proposal as persisted locally. Description holds the
// full on-chain text including the metadata envelope; the decoded policy
// and display status are derived on read, never stored.
type Record struct {
	ID         int    `storm:"id,increment"`
	ProposalID uint64 `json:"proposal_id" storm:"unique"`
	Category   int32  `json:"category" storm:"index"`
	Title      string `json:"title"`
	// Description is the raw proposal text as stored on the ledger.
	Description string `json:"description"`
	ProposerID  string `json:"proposer_id"`
	// Status is the coarse lifecycle status reported by the ledger.
	Status         string  `json:"status"`
	CreatedAt      int64   `json:"created_at"`
	VotingStartAt  int64   `json:"voting_start_at"`
	VotingDuration int64   `json:"voting_duration"`
	Tallies        Tallies `json:"tallies"`
}

// DisplayStatus recomputes the record's user-facing status from its raw
// status, tallies and decoded quorum.
func (r *Record) DisplayStatus() string {
	md, _ := DecodeMetadata(r.Description)
	return ComputeDisplayStatus(r.Status, r.Tallies, md.Quorum)
}

// Metadata returns the record's decoded voting policy and plain
// description text.
func (r *Record) Metadata() (Metadata, string) {
	return DecodeMetadata(r.Description)
}

// Overview is a per-category count summary of synced proposals.
type Overview struct {
	All      int32
	Draft    int32
	Active   int32
	Approved int32
	Rejected int32
}

// Proposals is a storm-backed local store of synced governance proposals.
type Proposals struct {
	db *storm.DB

	mu         *sync.RWMutex // Pointer required to avoid copying literal values.
	votingID   string
	syncActive bool

	notificationListenersMu *sync.RWMutex
	notificationListeners   map[string]NotificationListener
}

// NotificationListener is notified when a synced proposal is created or
// its vote status changes.
type NotificationListener interface {
	OnProposalsSynced()
	OnNewProposal(proposal *Record)
	OnProposalVoteFinished(proposal *Record)
}

// New prepares the proposals store on the given database. votingID is the
// governance contract account the proposals live on.
func New(votingID string, db *storm.DB) (*Proposals, error) {
	if err := db.Init(&Record{}); err != nil {
		log.Errorf("Error initializing proposals database: %s", err.Error())
		return nil, err
	}

	return &Proposals{
		db:       db,
		votingID: votingID,

		mu:                      &sync.RWMutex{},
		notificationListenersMu: &sync.RWMutex{},

		notificationListeners: make(map[string]NotificationListener),
	}, nil
}

func (p *Proposals) saveLastSyncedTimestamp(lastSyncedTimestamp int64) {
	err := p.db.Set(configDBBkt, LastSyncedTimestampConfigKey, lastSyncedTimestamp)
	if err != nil {
		log.Errorf("error saving last synced timestamp: %v", err)
	}
}

// GetLastSyncedTimestamp returns the unix time proposals were last synced,
// or 0 when no sync has completed yet.
func (p *Proposals) GetLastSyncedTimestamp() int64 {
	var lastSyncedTimestamp int64
	err := p.db.Get(configDBBkt, LastSyncedTimestampConfigKey, &lastSyncedTimestamp)
	if err != nil && err != storm.ErrNotFound {
		log.Errorf("error reading last synced timestamp: %v", err)
	}
	return lastSyncedTimestamp
}

func (p *Proposals) saveOrOverwriteProposal(proposal *Record) error {
	var oldProposal Record
	err := p.db.One("ProposalID", proposal.ProposalID, &oldProposal)
	if err != nil && err != storm.ErrNotFound {
		return errors.Errorf("error checking if proposal was already indexed: %s", err.Error())
	}

	if oldProposal.ProposalID != 0 || oldProposal.ID != 0 {
		// delete old record before saving new (if it exists)
		p.db.DeleteStruct(&oldProposal)
	}

	return p.db.Save(proposal)
}

// GetProposalsRaw fetches and returns proposals from the db.
func (p *Proposals) GetProposalsRaw(category int32, offset, limit int32, newestFirst bool) ([]Record, error) {
	var query storm.Query
	switch category {
	case ProposalCategoryAll:
		query = p.db.Select(
			q.True(),
		)
	default:
		query = p.db.Select(
			q.Eq("Category", category),
		)
	}

	if offset > 0 {
		query = query.Skip(int(offset))
	}

	if limit > 0 {
		query = query.Limit(int(limit))
	}

	if newestFirst {
		query = query.OrderBy("CreatedAt").Reverse()
	} else {
		query = query.OrderBy("CreatedAt")
	}

	var proposals []Record
	err := query.Find(&proposals)
	if err != nil && err != storm.ErrNotFound {
		return nil, fmt.Errorf("error fetching proposals: %s", err.Error())
	}

	return proposals, nil
}

// GetProposals returns the result of GetProposalsRaw as a JSON string.
func (p *Proposals) GetProposals(category int32, offset, limit int32, newestFirst bool) (string, error) {
	result, err := p.GetProposalsRaw(category, offset, limit, newestFirst)
	if err != nil {
		return "", err
	}

	if len(result) == 0 {
		return "[]", nil
	}

	response, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("error marshalling result: %s", err.Error())
	}

	return string(response), nil
}

// GetProposalRaw fetches and returns a single proposal specified by its
// on-chain proposal id.
func (p *Proposals) GetProposalRaw(proposalID uint64) (*Record, error) {
	var proposal Record
	err := p.db.One("ProposalID", proposalID, &proposal)
	if err != nil {
		return nil, err
	}

	return &proposal, nil
}

// Count returns the number of proposals of a specified category.
func (p *Proposals) Count(category int32) (int32, error) {
	var matcher q.Matcher

	if category == ProposalCategoryAll {
		matcher = q.True()
	} else {
		matcher = q.Eq("Category", category)
	}

	count, err := p.db.Select(matcher).Count(&Record{})
	if err != nil {
		return 0, err
	}

	return int32(count), nil
}

// Overview returns per-category proposal counts.
func (p *Proposals) Overview() (*Overview, error) {
	draft, err := p.Count(ProposalCategoryDraft)
	if err != nil {
		return nil, err
	}

	active, err := p.Count(ProposalCategoryActive)
	if err != nil {
		return nil, err
	}

	approved, err := p.Count(ProposalCategoryApproved)
	if err != nil {
		return nil, err
	}

	rejected, err := p.Count(ProposalCategoryRejected)
	if err != nil {
		return nil, err
	}

	return &Overview{
		All:      draft + active + approved + rejected,
		Draft:    draft,
		Active:   active,
		Approved: approved,
		Rejected: rejected,
	}, nil
}

// ClearSavedProposals drops all synced proposals from the db.
func (p *Proposals) ClearSavedProposals() error {
	err := p.db.Drop(&Record{})
	if err != nil {
		return translateError(err)
	}

	return p.db.Init(&Record{})
}

// AddNotificationListener registers a listener for proposal sync events.
func (p *Proposals) AddNotificationListener(listener NotificationListener, uniqueIdentifier string) error {
	p.notificationListenersMu.Lock()
	defer p.notificationListenersMu.Unlock()

	if _, ok := p.notificationListeners[uniqueIdentifier]; ok {
		return errors.New(ErrListenerAlreadyExist)
	}

	p.notificationListeners[uniqueIdentifier] = listener
	return nil
}

// RemoveNotificationListener deregisters the listener with the given
// identifier.
func (p *Proposals) RemoveNotificationListener(uniqueIdentifier string) {
	p.notificationListenersMu.Lock()
	defer p.notificationListenersMu.Unlock()

	delete(p.notificationListeners, uniqueIdentifier)
}

// categoryForStatus maps a record's derived display state to its local db
// category.
func categoryForStatus(rawStatus string, tallies Tallies, quorum string) int32 {
	switch ComputeDisplayStatus(rawStatus, tallies, quorum) {
	case DisplayActive:
		if rawStatus == StatusCreated {
			return ProposalCategoryDraft
		}
		return ProposalCategoryActive
	case DisplaySucceeded:
		return ProposalCategoryApproved
	case DisplayDefeated:
		return ProposalCategoryRejected
	default:
		// Pass-through raw statuses keep their on-chain meaning.
		if rawStatus == StatusRejected {
			return ProposalCategoryRejected
		}
		return ProposalCategoryDraft
	}
}
