// Package admin holds the system-wide views: statistics aggregation and full
// backup/restore.
package admin

import (
	"context"

	"github.com/skillflow/skillflow-server/internal/models"
	"github.com/skillflow/skillflow-server/internal/skills"
	"github.com/skillflow/skillflow-server/internal/store"
	"github.com/skillflow/skillflow-server/internal/users"
)

// StorageLimitKB is a display-only ceiling for the usage percentage; nothing
// enforces it as a quota.
const StorageLimitKB = 5120

type UserStats struct {
	Skills  int `json:"skills"`
	Entries int `json:"entries"`
}

type UserWithStats struct {
	models.User
	Stats UserStats `json:"stats"`
}

type SystemHealth struct {
	StorageUsedKB  int `json:"storageUsedKB"`
	StorageLimitKB int `json:"storageLimitKB"`
}

type Stats struct {
	TotalUsers   int             `json:"totalUsers"`
	TotalSkills  int             `json:"totalSkills"`
	TotalEntries int             `json:"totalEntries"`
	Users        []UserWithStats `json:"users"`
	System       SystemHealth    `json:"system"`
}

type Aggregator struct {
	st    store.Store
	users *users.Service
	repo  *skills.Repository
}

func NewAggregator(st store.Store, userSvc *users.Service, repo *skills.Repository) *Aggregator {
	return &Aggregator{st: st, users: userSvc, repo: repo}
}

// ComputeStats walks the directory and each user's collection. A user whose
// data fails to load counts as zero skills and entries; the scan never
// aborts.
func (a *Aggregator) ComputeStats(ctx context.Context) Stats {
	directory := a.users.All(ctx)

	stats := Stats{
		Users:  make([]UserWithStats, 0, len(directory)),
		System: a.systemHealth(ctx),
	}
	stats.TotalUsers = len(directory)

	for _, u := range directory {
		list := a.repo.Load(ctx, u.ID)
		entries := 0
		for _, s := range list {
			entries += len(s.Entries)
		}
		stats.TotalSkills += len(list)
		stats.TotalEntries += entries
		stats.Users = append(stats.Users, UserWithStats{
			User:  u.Safe(),
			Stats: UserStats{Skills: len(list), Entries: entries},
		})
	}
	return stats
}

// systemHealth sums blob sizes over every key in the store. The factor of two
// keeps parity with the original accounting, which measured UTF-16 code
// units.
func (a *Aggregator) systemHealth(ctx context.Context) SystemHealth {
	health := SystemHealth{StorageLimitKB: StorageLimitKB}

	records, err := a.st.Keys(ctx)
	if err != nil {
		return health
	}
	total := 0
	for _, r := range records {
		total += len(r.Blob) * 2
	}
	health.StorageUsedKB = total / 1024
	return health
}
