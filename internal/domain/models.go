// Package domain re-exports core domain types so internal code can import
// `remit/internal/domain` while using definitions from `remit/pkg/domain`.
package domain

import pkg "remit/pkg/domain"

// Currency represents a currency code.
type Currency = pkg.Currency

// Bank represents a registered bank and its correspondent relationships.
type Bank = pkg.Bank

// LiquidityEntry represents a per-correspondent balance.
type LiquidityEntry = pkg.LiquidityEntry

// ApprovalStatus represents agreement lifecycle states.
type ApprovalStatus = pkg.ApprovalStatus

// TransactionStatus represents transaction lifecycle states.
type TransactionStatus = pkg.TransactionStatus

// Agreement represents one bank's stake in a transaction.
type Agreement = pkg.Agreement

// PartyInfo identifies a remittance sender or receiver.
type PartyInfo = pkg.PartyInfo

// Transaction represents a proposed multi-party remittance.
type Transaction = pkg.Transaction

// Re-exported agreement statuses.
const (
	ApprovalOngoing  = pkg.ApprovalOngoing
	ApprovalDone     = pkg.ApprovalDone
	ApprovalRejected = pkg.ApprovalRejected
)

// Re-exported transaction statuses.
const (
	TransactionOngoing  = pkg.TransactionOngoing
	TransactionDone     = pkg.TransactionDone
	TransactionRejected = pkg.TransactionRejected
)
