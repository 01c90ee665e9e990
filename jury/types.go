// Package jury implements VRF-weighted juror sampling and supermajority
// resolution for the Constitutional Jury and Human-Majority Jury routes.
// Both routes share this package: the Human-Majority variant is produced
// simply by calling Select with an eligible pool that has already excluded
// identified AI accounts, a filtering decision made by the caller.
package jury

import (
	"errors"
	"math/big"
	"time"
)

// JurySize is the number of distinct members sampled onto a jury panel.
const JurySize = 21

// VotingPeriod bounds how long a panel accepts ballots after selection.
const VotingPeriod = 72 * time.Hour

// EligibilityWindow is how recently an account must have been active to
// be sampled onto a panel.
const EligibilityWindow = 90 * 24 * time.Hour

// ErrInsufficientEligible is returned when fewer than JurySize accounts
// pass the activity filter.
var ErrInsufficientEligible = errors.New("jury: fewer than JurySize eligible accounts")

// EligibleAccount is a candidate juror, weighted by the square root of its
// balance during seeded sampling.
type EligibleAccount struct {
	Address      string
	BalanceDrops *big.Int
	LastActiveAt time.Time
}

// Choice enumerates a juror's ballot options.
type Choice string

const (
	ChoiceYes     Choice = "Yes"
	ChoiceNo      Choice = "No"
	ChoiceAbstain Choice = "Abstain"
)

func (c Choice) valid() bool {
	switch c {
	case ChoiceYes, ChoiceNo, ChoiceAbstain:
		return true
	default:
		return false
	}
}

// Verdict is a panel's final resolution.
type Verdict string

const (
	VerdictApproved  Verdict = "APPROVED"
	VerdictRejected  Verdict = "REJECTED"
	VerdictNoVerdict Verdict = "NO_VERDICT"
)
