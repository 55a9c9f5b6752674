package domain

import "time"

// StageInfo records one completed stage in the cache manifest.
type StageInfo struct {
	Stage       string    `json:"stage"`
	Fingerprint string    `json:"fingerprint"`
	CompletedAt time.Time `json:"completedAt"`
}
