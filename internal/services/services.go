// Package services holds the stateless core of the diary backend: the
// identity bridge (guest-to-account entry merge), the daily analysis quota
// guard, and the entry lifecycle operations around them. Every service holds
// only a docstore.Store; no state is cached between calls, so instances are
// safe to share across requests.
package services

// Collection names in the document store.
const (
	entriesCollection = "diaryEntries"
	quotaCollection   = "analysisQuotas"
)

// DefaultDailyAnalysisLimit caps AI analyses per user per UTC day when the
// configuration does not override it.
const DefaultDailyAnalysisLimit = 10

// DefaultWriteConcurrency bounds the fan-out of batch writes (merge, wipe)
// so a large batch cannot flood the store.
const DefaultWriteConcurrency = 4
