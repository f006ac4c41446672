package proposal

import "math/big"

// IsQuorumFulfilled reports whether total participation (for + against +
// abstain voting power) meets the quorum amount. Abstain votes count
// toward quorum even though they never count toward the for/against
// comparison. The comparison is integer-exact.
func IsQuorumFulfilled(quorum string, tallies Tallies) bool {
	required, ok := new(big.Int).SetString(quorum, 10)
	if !ok || required.Sign() <= 0 {
		return true
	}

	participation := new(big.Int)
	for _, tally := range []VoteTally{tallies.For, tallies.Against, tallies.Abstain} {
		power, ok := new(big.Int).SetString(tally.TotalVotingPower, 10)
		if !ok || power.Sign() < 0 {
			continue
		}
		participation.Add(participation, power)
	}

	return participation.Cmp(required) >= 0
}

// ComputeDisplayStatus derives the user-facing lifecycle state of a
// proposal from its raw ledger status and vote tallies. A proposal cannot
// succeed or fail before voting closes, so every pre-finish status maps to
// Active. Raw statuses outside the known set pass through unchanged so
// future ledger statuses degrade gracefully instead of erroring.
func ComputeDisplayStatus(rawStatus string, tallies Tallies, quorum string) string {
	switch rawStatus {
	case StatusCreated, StatusApproved, StatusVoting:
		return DisplayActive

	case StatusFinished:
		if !IsQuorumFulfilled(quorum, tallies) {
			return DisplayDefeated
		}

		forPower, ok := new(big.Int).SetString(tallies.For.TotalVotingPower, 10)
		if !ok {
			return DisplayDefeated
		}
		againstPower, ok := new(big.Int).SetString(tallies.Against.TotalVotingPower, 10)
		if !ok {
			againstPower = new(big.Int)
		}

		// Strict majority: a tie is defeat.
		if forPower.Cmp(againstPower) > 0 {
			return DisplaySucceeded
		}
		return DisplayDefeated

	default:
		return rawStatus
	}
}
