// Package dashboard aggregates the landing-view numbers: fleet counts and
// the most recent audit entries.
package dashboard

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/towerops/toweradmin/internal/client/rest"
	"github.com/towerops/toweradmin/internal/core/domain"
)

const recentAuditLimit = 5

// Summary is the aggregated dashboard state. Sections that failed carry
// their error in Errors under the section name; the others still hold
// their values.
type Summary struct {
	InstanceCount    int
	CredentialCount  int
	EnvironmentCount int
	RecentAudit      []domain.AuditEntry

	Errors map[string]error
}

// Failed reports whether any section failed to load.
func (s *Summary) Failed() bool { return len(s.Errors) > 0 }

// Load issues all section fetches concurrently and returns once every one
// of them has settled. A failed section never blocks the others.
func Load(ctx context.Context, client *rest.Client) *Summary {
	summary := &Summary{Errors: make(map[string]error)}

	var mu sync.Mutex
	fail := func(section string, err error) {
		mu.Lock()
		summary.Errors[section] = err
		mu.Unlock()
	}

	var g errgroup.Group
	g.Go(func() error {
		instances, err := client.Instances(ctx)
		if err != nil {
			fail("instances", err)
			return nil
		}
		summary.InstanceCount = len(instances)
		return nil
	})
	g.Go(func() error {
		credentials, err := client.Credentials(ctx)
		if err != nil {
			fail("credentials", err)
			return nil
		}
		summary.CredentialCount = len(credentials)
		return nil
	})
	g.Go(func() error {
		environments, err := client.Environments(ctx)
		if err != nil {
			fail("environments", err)
			return nil
		}
		summary.EnvironmentCount = len(environments)
		return nil
	})
	g.Go(func() error {
		entries, err := client.AuditLogs(ctx, recentAuditLimit)
		if err != nil {
			fail("audit", err)
			return nil
		}
		summary.RecentAudit = entries
		return nil
	})

	_ = g.Wait()
	return summary
}
