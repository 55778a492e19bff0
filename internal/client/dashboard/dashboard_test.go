package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/towerops/toweradmin/internal/client/rest"
	"github.com/towerops/toweradmin/internal/client/tokenstore"
)

func newDashboardClient(t *testing.T, mux *http.ServeMux) *rest.Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return rest.NewClient(srv.URL, tokenstore.NewMemStore(), srv.Client())
}

func TestLoadAggregatesAllSections(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/instances/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"name":"a"},{"name":"b"}]`))
	})
	mux.HandleFunc("/api/credentials/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"name":"c"}]`))
	})
	mux.HandleFunc("/api/environments/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/api/audit-logs/", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("expected limit=5, got %q", got)
		}
		_, _ = w.Write([]byte(`{"count":1,"results":[{"action":"created","object_type":"instance"}]}`))
	})

	summary := Load(context.Background(), newDashboardClient(t, mux))
	if summary.Failed() {
		t.Fatalf("unexpected section errors: %v", summary.Errors)
	}
	if summary.InstanceCount != 2 || summary.CredentialCount != 1 || summary.EnvironmentCount != 0 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if len(summary.RecentAudit) != 1 || summary.RecentAudit[0].Action != "created" {
		t.Fatalf("unexpected audit entries: %+v", summary.RecentAudit)
	}
}

func TestLoadFailedSectionDoesNotBlockOthers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/instances/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/api/credentials/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"name":"c"},{"name":"d"}]`))
	})
	mux.HandleFunc("/api/environments/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"name":"e"}]`))
	})
	mux.HandleFunc("/api/audit-logs/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	summary := Load(context.Background(), newDashboardClient(t, mux))
	if !summary.Failed() {
		t.Fatal("expected a recorded section error")
	}
	if _, ok := summary.Errors["instances"]; !ok {
		t.Fatalf("expected instances error, got %v", summary.Errors)
	}
	if len(summary.Errors) != 1 {
		t.Fatalf("only the failing section may error, got %v", summary.Errors)
	}
	if summary.CredentialCount != 2 || summary.EnvironmentCount != 1 {
		t.Fatalf("healthy sections must still report counts: %+v", summary)
	}
}
