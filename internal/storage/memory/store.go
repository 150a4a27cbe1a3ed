// Package memory holds the catalog snapshot and in-process activity records.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"sync/atomic"

	"estate_listing/internal/domain"
	"estate_listing/internal/fixtures"
)

type snapshot struct {
	items []domain.Property
	byID  map[string]int
}

// Store serves the catalog from an immutable snapshot swapped atomically by
// Replace. Activity records are guarded by mu.
type Store struct {
	snap atomic.Pointer[snapshot]

	mu          sync.RWMutex
	users       map[string]domain.User
	saved       map[string][]string // userID -> property ids, insertion order
	inquiries   []domain.Inquiry
	submissions []domain.ListingSubmission
	contacts    []domain.ContactMessage
}

func New() *Store {
	s := &Store{
		users: map[string]domain.User{},
		saved: map[string][]string{},
	}
	s.Replace(nil)
	return s
}

// FromDataset builds a store seeded with a fixture dataset.
func FromDataset(ds fixtures.Dataset) *Store {
	s := New()
	s.Replace(ds.Properties)
	for _, u := range ds.Users {
		s.users[u.ID] = u
		if len(u.SavedProperties) > 0 {
			s.saved[u.ID] = slices.Clone(u.SavedProperties)
		}
	}
	s.inquiries = append(s.inquiries, ds.Inquiries...)
	return s
}

// Replace installs ps as the served catalog. The slice is copied.
func (s *Store) Replace(ps []domain.Property) {
	items := slices.Clone(ps)
	idx := make(map[string]int, len(items))
	for i, p := range items {
		idx[p.ID] = i
	}
	s.snap.Store(&snapshot{items: items, byID: idx})
}

func (s *Store) Len() int { return len(s.snap.Load().items) }

/********** catalog **********/

func (s *Store) ListProperties(ctx context.Context) ([]domain.Property, error) {
	return s.snap.Load().items, nil
}

func (s *Store) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	sn := s.snap.Load()
	i, ok := sn.byID[id]
	if !ok {
		return domain.Property{}, fmt.Errorf("property %q: %w", id, domain.ErrNotFound)
	}
	return sn.items[i], nil
}

/********** activity: writes **********/

func (s *Store) CreateInquiry(ctx context.Context, in domain.Inquiry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inquiries = append(s.inquiries, in)
	return nil
}

func (s *Store) CreateSubmission(ctx context.Context, sub domain.ListingSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = append(s.submissions, sub)
	return nil
}

func (s *Store) CreateContactMessage(ctx context.Context, m domain.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = append(s.contacts, m)
	return nil
}

func (s *Store) SetSaved(ctx context.Context, userID, propertyID string, saved bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.saved[userID]
	i := slices.Index(cur, propertyID)
	switch {
	case saved && i < 0:
		s.saved[userID] = append(slices.Clone(cur), propertyID)
	case !saved && i >= 0:
		s.saved[userID] = slices.Delete(slices.Clone(cur), i, i+1)
	}
	return nil
}

/********** activity: reads **********/

func (s *Store) GetUser(ctx context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, fmt.Errorf("user %q: %w", id, domain.ErrNotFound)
	}
	u.SavedProperties = slices.Clone(s.saved[id])
	return u, nil
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

func (s *Store) ListSaved(ctx context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.saved[userID]), nil
}

// ListInquiriesByUser returns newest first.
func (s *Store) ListInquiriesByUser(ctx context.Context, userID string) ([]domain.Inquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Inquiry, 0)
	for _, in := range s.inquiries {
		if in.UserID == userID {
			out = append(out, in)
		}
	}
	sortInquiries(out)
	return out, nil
}

func (s *Store) ListInquiriesByProperties(ctx context.Context, propertyIDs []string) ([]domain.Inquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Inquiry, 0)
	for _, in := range s.inquiries {
		if slices.Contains(propertyIDs, in.PropertyID) {
			out = append(out, in)
		}
	}
	sortInquiries(out)
	return out, nil
}

// ListSubmissions filters by status; an empty status returns all.
func (s *Store) ListSubmissions(ctx context.Context, status domain.SubmissionStatus) ([]domain.ListingSubmission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ListingSubmission, 0)
	for _, sub := range s.submissions {
		if status == "" || sub.Status == status {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *Store) ContactMessages() []domain.ContactMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.contacts)
}

func sortInquiries(in []domain.Inquiry) {
	sort.SliceStable(in, func(i, j int) bool { return in[i].CreatedAt.After(in[j].CreatedAt) })
}
