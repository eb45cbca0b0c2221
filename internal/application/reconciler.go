package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pokedex-api/internal/domain/entity"
	repo "github.com/oksasatya/pokedex-api/internal/domain/repository"
)

// Reconciler completes accounts that were left without a profile, for
// example rows written before identities were created transactionally.
// The repaired profile gets defaults and no avatar.
type Reconciler struct {
	Accounts  repo.AccountRepository
	Profiles  repo.ProfileRepository
	Grace     time.Duration
	BatchSize int
	Logger    *logrus.Logger

	now func() time.Time
}

func NewReconciler(accounts repo.AccountRepository, profiles repo.ProfileRepository, grace time.Duration, logger *logrus.Logger) *Reconciler {
	return &Reconciler{Accounts: accounts, Profiles: profiles, Grace: grace, BatchSize: 100, Logger: logger, now: time.Now}
}

// RunOnce repairs up to BatchSize orphans and returns how many were fixed.
func (r *Reconciler) RunOnce(ctx context.Context) (int, error) {
	now := r.now().UTC()
	orphans, err := r.Accounts.ListOrphans(ctx, now.Add(-r.Grace), r.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("list orphans: %w", err)
	}
	fixed := 0
	for _, acc := range orphans {
		if err := r.Profiles.Create(ctx, entity.NewProfile(acc.ID, entity.Avatar{}, now)); err != nil {
			if r.Logger != nil {
				r.Logger.WithError(err).WithField("user_id", acc.ID).Warn("repair orphaned account failed")
			}
			continue
		}
		fixed++
	}
	orphansRepaired.Add(int64(fixed))
	return fixed, nil
}

// Run calls RunOnce every interval until ctx is done.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		n, err := r.RunOnce(ctx)
		if r.Logger != nil {
			if err != nil {
				r.Logger.WithError(err).Error("reconcile pass failed")
			} else if n > 0 {
				r.Logger.WithField("repaired", n).Info("orphaned accounts repaired")
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
