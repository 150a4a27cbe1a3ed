package domain

import "context"

// PropertyReader serves the catalog. Implementations hand out slices that
// callers must treat as read-only.
type PropertyReader interface {
	ListProperties(ctx context.Context) ([]Property, error)
	GetProperty(ctx context.Context, id string) (Property, error)
}

// PropertySource loads a full catalog, e.g. to refresh a snapshot.
type PropertySource interface {
	ListProperties(ctx context.Context) ([]Property, error)
}

type PropertyWriter interface {
	UpsertProperty(ctx context.Context, p Property) error
}

// CatalogWriter is the seeding side of the primary store.
type CatalogWriter interface {
	PropertyWriter
	UpsertUser(ctx context.Context, u User) error
}

type ActivityRepository interface {
	// Write paths
	CreateInquiry(ctx context.Context, in Inquiry) error
	CreateSubmission(ctx context.Context, s ListingSubmission) error
	CreateContactMessage(ctx context.Context, m ContactMessage) error
	SetSaved(ctx context.Context, userID, propertyID string, saved bool) error

	// Read paths
	GetUser(ctx context.Context, id string) (User, error)
	CountUsers(ctx context.Context) (int, error)
	ListSaved(ctx context.Context, userID string) ([]string, error)
	ListInquiriesByUser(ctx context.Context, userID string) ([]Inquiry, error)
	ListInquiriesByProperties(ctx context.Context, propertyIDs []string) ([]Inquiry, error)
	ListSubmissions(ctx context.Context, status SubmissionStatus) ([]ListingSubmission, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Dispatcher forwards accepted commands to an external service.
type Dispatcher interface {
	Dispatch(ctx context.Context, kind string, payload any) error
}

type SearchIndex interface {
	IndexProperties(ctx context.Context, ps []Property) error
}
