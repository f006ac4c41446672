// Package proposal holds the governance proposal core: the versioned
// metadata codec embedded in proposal descriptions, the display status and
// quorum engine, and a storm-backed local store of synced proposals.
package proposal

// ProposalType is the voting policy a proposal was authored with.
type ProposalType int32

const (
	// SimpleMajority passes with more for than against votes.
	SimpleMajority ProposalType = iota
	// SuperMajority requires a two-thirds approval threshold.
	SuperMajority
)

const (
	// simpleMajorityThresholdBps and superMajorityThresholdBps are the
	// only approval thresholds the codec recognizes, in basis points.
	simpleMajorityThresholdBps int64 = 5000
	superMajorityThresholdBps  int64 = 6667

	// DefaultQuorum is the quorum applied to proposals created before the
	// metadata scheme existed and to undecodable metadata.
	DefaultQuorum = "0"
)

func (t ProposalType) String() string {
	switch t {
	case SimpleMajority:
		return "simple_majority"
	case SuperMajority:
		return "super_majority"
	default:
		return "unknown"
	}
}

// ThresholdBps returns the approval threshold of the proposal type in
// basis points.
func (t ProposalType) ThresholdBps() int64 {
	if t == SuperMajority {
		return superMajorityThresholdBps
	}
	return simpleMajorityThresholdBps
}

// Metadata is the structured voting policy embedded in a proposal's
// description. Each decode yields a fresh value; there is no partial or
// mutable state.
type Metadata struct {
	Version int32
	Type    ProposalType
	// Quorum is the minimum participating voting power required for the
	// proposal to be eligible to succeed, as a decimal string.
	Quorum string
	// ApprovalThresholdBps is the for-vote share required to pass, in
	// basis points.
	ApprovalThresholdBps int64
}

// DefaultMetadata is the version-0 policy applied to proposals with no, or
// undecodable, embedded metadata.
func DefaultMetadata() Metadata {
	return Metadata{
		Version:              0,
		Type:                 SimpleMajority,
		Quorum:               DefaultQuorum,
		ApprovalThresholdBps: simpleMajorityThresholdBps,
	}
}

// NewMetadata builds current-version metadata for a proposal being
// authored or edited.
func NewMetadata(t ProposalType, quorum string) Metadata {
	if quorum == "" {
		quorum = DefaultQuorum
	}
	return Metadata{
		Version:              codecVersion,
		Type:                 t,
		Quorum:               quorum,
		ApprovalThresholdBps: t.ThresholdBps(),
	}
}

// Raw lifecycle statuses reported by the ledger. Statuses outside this set
// are passed through unchanged by the status engine.
const (
	StatusCreated  = "Created"
	StatusApproved = "Approved"
	StatusVoting   = "Voting"
	StatusFinished = "Finished"
	StatusRejected = "Rejected"
)

// Display statuses derived by the status engine. Never stored; recomputed
// from the raw status and tallies whenever either changes.
const (
	DisplayActive    = "Active"
	DisplaySucceeded = "Succeeded"
	DisplayDefeated  = "Defeated"
)

// VoteTally is the ledger-reported tally for one voting option.
type VoteTally struct {
	// TotalVotingPower is the locked-balance weight behind the option, as
	// a decimal string.
	TotalVotingPower string `json:"total_venear"`
	// TotalVotes is the number of accounts that voted for the option.
	TotalVotes int64 `json:"total_votes"`
}

// Tallies aggregates the per-option tallies of a proposal.
type Tallies struct {
	For     VoteTally `json:"for"`
	Against VoteTally `json:"against"`
	Abstain VoteTally `json:"abstain"`
}

// VoteChoice is a vote option submitted by the user.
type VoteChoice int32

const (
	VoteFor VoteChoice = iota
	VoteAgainst
	VoteAbstain
)

func (v VoteChoice) String() string {
	switch v {
	case VoteFor:
		return "for"
	case VoteAgainst:
		return "against"
	case VoteAbstain:
		return "abstain"
	default:
		return "unknown"
	}
}
