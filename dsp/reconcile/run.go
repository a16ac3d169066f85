package reconcile

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Run applies configurations received on updates until ctx is done or
// updates is closed. Configurations queued while an Apply was running are
// coalesced and only the latest is applied. Apply errors are logged and do
// not stop the loop.
func (r *Reconciler) Run(ctx context.Context, updates <-chan Config) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cfg, ok := <-updates:
			if !ok {
				return nil
			}

			cfg, open := latest(cfg, updates)
			r.applyLogged(cfg)

			if !open {
				return nil
			}
		}
	}
}

// latest drains updates without blocking and returns the newest value and
// whether the channel is still open.
func latest(cfg Config, updates <-chan Config) (Config, bool) {
	for {
		select {
		case next, ok := <-updates:
			if !ok {
				return cfg, false
			}
			cfg = next
		default:
			return cfg, true
		}
	}
}

func (r *Reconciler) applyLogged(cfg Config) {
	rep, err := r.Apply(cfg)
	if err != nil {
		r.log.WithFields(logrus.Fields{"slots": cfg.Slots}).WithError(err).Warn("reconciliation incomplete")
	}
	if r.observe != nil {
		r.observe(cfg, rep, err)
	}
}

// Poll samples source every interval and sends the snapshot to out when it
// differs from the last one sent. The first sample is taken immediately
// and always sent. Poll closes out when ctx is done.
func Poll(ctx context.Context, interval time.Duration, source func() Config, out chan<- Config) {
	defer close(out)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var (
		last Config
		sent bool
	)
	for {
		cfg := source()
		if !sent || cfg != last {
			select {
			case out <- cfg:
				last, sent = cfg, true
			case <-ctx.Done():
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
