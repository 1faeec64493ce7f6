package domain

import "time"

// StatsSnapshot is a complete read of the backend's operational aggregates.
// It is replaced wholesale on every successful poll, never merged with the
// previous snapshot. Field layout mirrors the backend's realtime stats JSON.
type StatsSnapshot struct {
	Transactions TransactionCounts `json:"transactions"`
	Volume       VolumeTotals      `json:"volume"`
	Refunds      RefundTotals      `json:"refunds"`
	Risks        RiskCounts        `json:"risks"`
	FetchedAt    time.Time         `json:"fetched_at"`
}

type TransactionCounts struct {
	Pending int64 `json:"pending"`
	Blocked int64 `json:"blocked"`
	Success int64 `json:"success"`
}

type VolumeTotals struct {
	Total float64 `json:"total"`
}

type RefundTotals struct {
	Total int64 `json:"total"`
}

type RiskCounts struct {
	Alerts int64 `json:"alerts"`
}
