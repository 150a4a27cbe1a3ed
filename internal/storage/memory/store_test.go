package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"estate_listing/internal/domain"
	"estate_listing/internal/fixtures"
	"estate_listing/internal/storage/memory"
)

func TestStore_SnapshotReplace(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	in := []domain.Property{{ID: "a"}, {ID: "b"}}
	s.Replace(in)
	in[0].ID = "mutated" // Replace must have copied

	got, _ := s.ListProperties(ctx)
	if len(got) != 2 || got[0].ID != "a" {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
	if _, err := s.GetProperty(ctx, "b"); err != nil {
		t.Fatalf("GetProperty: %v", err)
	}
	if _, err := s.GetProperty(ctx, "zzz"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	s.Replace([]domain.Property{{ID: "c"}})
	if _, err := s.GetProperty(ctx, "a"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("old snapshot still served")
	}
	// slices handed out before the swap are untouched
	if got[0].ID != "a" {
		t.Fatalf("previous snapshot mutated")
	}
}

func TestStore_SavedToggle(t *testing.T) {
	ds, err := fixtures.Default()
	if err != nil {
		t.Fatalf("fixtures: %v", err)
	}
	s := memory.FromDataset(ds)
	ctx := context.Background()

	_ = s.SetSaved(ctx, "u1", "2", true)
	_ = s.SetSaved(ctx, "u1", "2", true) // idempotent
	_ = s.SetSaved(ctx, "u1", "1", false)

	got, _ := s.ListSaved(ctx, "u1")
	if diff := cmp.Diff([]string{"3", "2"}, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	u, err := s.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if diff := cmp.Diff([]string{"3", "2"}, u.SavedProperties); diff != "" {
		t.Fatalf("user view (-want +got):\n%s", diff)
	}
}

func TestStore_InquiriesNewestFirst(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	t0 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	_ = s.CreateInquiry(ctx, domain.Inquiry{ID: "old", PropertyID: "p1", UserID: "u", CreatedAt: t0})
	_ = s.CreateInquiry(ctx, domain.Inquiry{ID: "new", PropertyID: "p2", UserID: "u", CreatedAt: t0.Add(time.Hour)})
	_ = s.CreateInquiry(ctx, domain.Inquiry{ID: "other", PropertyID: "p3", UserID: "v", CreatedAt: t0})

	byUser, _ := s.ListInquiriesByUser(ctx, "u")
	if len(byUser) != 2 || byUser[0].ID != "new" {
		t.Fatalf("unexpected: %+v", byUser)
	}
	byProp, _ := s.ListInquiriesByProperties(ctx, []string{"p1", "p3"})
	if len(byProp) != 2 {
		t.Fatalf("unexpected: %+v", byProp)
	}
}

func TestStore_SubmissionsByStatus(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	_ = s.CreateSubmission(ctx, domain.ListingSubmission{ID: "1", Status: domain.SubmissionPending})
	_ = s.CreateSubmission(ctx, domain.ListingSubmission{ID: "2", Status: domain.SubmissionApproved})

	all, _ := s.ListSubmissions(ctx, "")
	pending, _ := s.ListSubmissions(ctx, domain.SubmissionPending)
	if len(all) != 2 || len(pending) != 1 || pending[0].ID != "1" {
		t.Fatalf("all=%v pending=%v", all, pending)
	}
}

func TestStore_ConcurrentReadsDuringReplace(t *testing.T) {
	s := memory.New()
	s.Replace([]domain.Property{{ID: "a"}})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				ps, _ := s.ListProperties(ctx)
				if len(ps) != 1 {
					t.Errorf("torn snapshot: %d", len(ps))
					return
				}
			}
		}()
	}
	for j := 0; j < 200; j++ {
		s.Replace([]domain.Property{{ID: "b"}})
	}
	wg.Wait()
}

// ---- refresher ----

type fakeSource struct {
	ps  []domain.Property
	err error
}

func (f *fakeSource) ListProperties(ctx context.Context) ([]domain.Property, error) {
	return f.ps, f.err
}

func TestRefresher_KeepsSnapshotOnFailure(t *testing.T) {
	s := memory.New()
	src := &fakeSource{ps: []domain.Property{{ID: "x"}, {ID: "y"}}}
	r := memory.NewRefresher(s, src, time.Second)

	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2, got %d", s.Len())
	}

	src.err = domain.ErrUnavailable
	src.ps = nil
	if err := r.Refresh(context.Background()); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("snapshot dropped after failed refresh")
	}
}

func TestRefresher_StartRejectsBadSpec(t *testing.T) {
	r := memory.NewRefresher(memory.New(), &fakeSource{}, time.Second)
	if err := r.Start("not a cron spec"); err == nil {
		t.Fatalf("expected error")
	}
}
