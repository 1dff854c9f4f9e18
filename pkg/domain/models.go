// Package domain holds the core entities of the correspondent-banking
// settlement engine.
package domain

import (
	"github.com/shopspring/decimal"
)

// Currency represents an ISO-like currency code, e.g. "KRW".
type Currency string

// Bank is a registered participant of the network. Code is derived from the
// caller's identity at registration and never changes. A bank settles in a
// single currency.
type Bank struct {
	Code           string           `json:"code"`
	CurrencyCode   Currency         `json:"currency_code"`
	Correspondents []string         `json:"correspondents"`
	Liquidity      []LiquidityEntry `json:"liquidity"`
}

// HasCorrespondent reports whether code is in the bank's correspondent set.
func (b *Bank) HasCorrespondent(code string) bool {
	for _, c := range b.Correspondents {
		if c == code {
			return true
		}
	}
	return false
}

// LiquidityEntry is the balance a bank holds against one correspondent
// relationship, in the bank's own currency. Balance never goes negative.
type LiquidityEntry struct {
	CounterpartyCode string          `json:"counterparty_code"`
	Balance          decimal.Decimal `json:"balance"`
}

// ApprovalStatus is the lifecycle state of a single agreement.
type ApprovalStatus int

const (
	ApprovalOngoing ApprovalStatus = iota
	ApprovalDone
	ApprovalRejected
)

// TransactionStatus is the lifecycle state of a whole transaction.
type TransactionStatus int

const (
	TransactionOngoing TransactionStatus = iota
	TransactionDone
	TransactionRejected
)

// Agreement is one bank's stake within a proposed transaction: the fee it
// collects and the amount it forwards (or finally delivers), both in its own
// currency.
type Agreement struct {
	BankCode     string          `json:"code"`
	CurrencyCode Currency        `json:"currency_code"`
	CollectedFee decimal.Decimal `json:"collected_fee"`
	Amount       decimal.Decimal `json:"amount"`
	Status       ApprovalStatus  `json:"status"`
}

// PartyInfo identifies the human sender or receiver of a remittance.
type PartyInfo struct {
	FirstName     string `json:"firstname" validate:"required"`
	LastName      string `json:"lastname" validate:"required"`
	AccountNumber string `json:"account_number" validate:"required"`
}

// Transaction is a proposed multi-party remittance. Status transitions only
// Ongoing -> Done (all agreements Done) or Ongoing -> Rejected (any one
// participant rejects); once terminal it is never mutated again.
type Transaction struct {
	ID         string            `json:"id"`
	Sender     PartyInfo         `json:"sender"`
	Receiver   PartyInfo         `json:"receiver"`
	Agreements []Agreement       `json:"agreements"`
	Status     TransactionStatus `json:"status"`
	Reason     string            `json:"reason"`
}

// Agreement returns the agreement belonging to code, or nil.
func (t *Transaction) Agreement(code string) *Agreement {
	for i := range t.Agreements {
		if t.Agreements[i].BankCode == code {
			return &t.Agreements[i]
		}
	}
	return nil
}
