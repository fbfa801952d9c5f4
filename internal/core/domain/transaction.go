package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the verification state of a payment claim.
type TransactionStatus string

const (
	TxPending  TransactionStatus = "Pending"
	TxApproved TransactionStatus = "Approved"
	TxRejected TransactionStatus = "Rejected"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TxPending, TxApproved, TxRejected:
		return true
	}
	return false
}

// Resolved reports whether the owner has acted on the transaction.
func (s TransactionStatus) Resolved() bool {
	return s == TxApproved || s == TxRejected
}

// RequestPaymentStatus is the request payment status implied by a resolved
// transaction.
func (s TransactionStatus) RequestPaymentStatus() PaymentStatus {
	if s == TxApproved {
		return PaymentPaid
	}
	return PaymentUnpaid
}

// BalanceDelta is the change to the admin balance when a transaction moves
// from old to next. It depends only on the two statuses, so repeating a
// transition never changes the balance twice.
func BalanceDelta(old, next TransactionStatus, amount decimal.Decimal) decimal.Decimal {
	switch {
	case next == TxApproved && old != TxApproved:
		return amount
	case next == TxRejected && old == TxApproved:
		return amount.Neg()
	default:
		return decimal.Zero
	}
}

// TransactionGroup is every transaction submitted for one request.
type TransactionGroup struct {
	HomeworkID   string         `json:"homeworkId"`
	Subject      string         `json:"subject,omitempty"`
	Latest       *Transaction   `json:"latest"`
	Transactions []*Transaction `json:"transactions"`
	LatestAt     time.Time      `json:"latestAt"`
}

// GroupByHomework groups transactions per request. Each group is sorted
// newest first and groups are ordered by their newest member.
func GroupByHomework(txs []*Transaction) []*TransactionGroup {
	index := make(map[string]*TransactionGroup)
	groups := make([]*TransactionGroup, 0)

	for _, tx := range txs {
		g, ok := index[tx.HomeworkID]
		if !ok {
			g = &TransactionGroup{HomeworkID: tx.HomeworkID}
			index[tx.HomeworkID] = g
			groups = append(groups, g)
		}
		g.Transactions = append(g.Transactions, tx)
	}

	for _, g := range groups {
		sort.SliceStable(g.Transactions, func(i, j int) bool {
			return g.Transactions[i].CreatedAt.After(g.Transactions[j].CreatedAt)
		})
		g.Latest = g.Transactions[0]
		g.LatestAt = g.Latest.CreatedAt
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].LatestAt.After(groups[j].LatestAt)
	})
	return groups
}

// LatestFor returns the request's most recently created or updated
// transaction, or nil.
func LatestFor(homeworkID string, txs []*Transaction) *Transaction {
	var latest *Transaction
	for _, tx := range txs {
		if tx.HomeworkID != homeworkID {
			continue
		}
		if latest == nil || tx.LastActivity().After(latest.LastActivity()) {
			latest = tx
		}
	}
	return latest
}

// PendingQueue returns the transactions awaiting verification, newest first.
func PendingQueue(txs []*Transaction) []*Transaction {
	out := make([]*Transaction, 0)
	for _, tx := range txs {
		if tx.Status == TxPending {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// ResolvedHistory returns the resolved transactions by most recent activity.
func ResolvedHistory(txs []*Transaction) []*Transaction {
	out := make([]*Transaction, 0)
	for _, tx := range txs {
		if tx.Status.Resolved() {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastActivity().After(out[j].LastActivity())
	})
	return out
}
