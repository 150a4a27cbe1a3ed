package app

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"estate_listing/internal/adapters/observability"
	"estate_listing/internal/domain"
)

const (
	StatusAccepted = "accepted"

	msgInquiry = "Thank you for your inquiry! The agent will contact you soon."
	msgListing = "Property submitted successfully! It will be reviewed by our team."
	msgContact = "Thank you for your message! We will get back to you within 24 hours."
)

// Command kinds, also used as the CRM envelope kind and metric label.
const (
	CmdInquiry = "inquiry"
	CmdListing = "listing"
	CmdContact = "contact"
	CmdSave    = "save"
	CmdUnsave  = "unsave"
)

type InquiryInput struct {
	PropertyID string `json:"propertyId" validate:"required"`
	UserID     string `json:"userId"`
	Name       string `json:"name" validate:"required,max=120"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"omitempty,max=40"`
	Message    string `json:"message" validate:"required,max=4000"`
}

type ListingInput struct {
	SubmittedBy   string              `json:"submittedBy"`
	Title         string              `json:"title" validate:"required,max=200"`
	Description   string              `json:"description" validate:"required"`
	Price         float64             `json:"price" validate:"gt=0"`
	Type          domain.ListingKind  `json:"type" validate:"oneof=sale rent"`
	PropertyType  domain.PropertyType `json:"propertyType" validate:"oneof=apartment house villa office land"`
	Bedrooms      int                 `json:"bedrooms" validate:"gte=0"`
	Bathrooms     int                 `json:"bathrooms" validate:"gte=0"`
	SquareFootage float64             `json:"squareFootage" validate:"gt=0"`
	Address       string              `json:"address" validate:"required"`
	City          string              `json:"city" validate:"required"`
	Neighborhood  string              `json:"neighborhood"`
	Furnished     bool                `json:"furnished"`
	Features      []string            `json:"features"`
	Images        []string            `json:"images" validate:"dive,url"`
}

type ContactInput struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,max=40"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=4000"`
}

// ValidationError lists the offending fields by their JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return "invalid fields: " + strings.Join(names, ", ")
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalid }

type CommandService struct {
	catalog  domain.PropertyReader
	activity domain.ActivityRepository
	crm      domain.Dispatcher // optional
	validate *validator.Validate
	now      func() time.Time
}

func NewCommandService(catalog domain.PropertyReader, activity domain.ActivityRepository, crm domain.Dispatcher) *CommandService {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &CommandService{catalog: catalog, activity: activity, crm: crm, validate: v, now: time.Now}
}

// SubmitInquiry records a pending inquiry for an existing property.
func (s *CommandService) SubmitInquiry(ctx context.Context, in InquiryInput) (res domain.Result, err error) {
	defer func() { observability.ObserveCommand(CmdInquiry, outcome(err)) }()

	in.PropertyID = strings.TrimSpace(in.PropertyID)
	if err := s.check(in); err != nil {
		return domain.Result{}, err
	}
	if _, err := s.catalog.GetProperty(ctx, in.PropertyID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Result{}, fmt.Errorf("property %q: %w", in.PropertyID, err)
		}
		return domain.Result{}, unavailable("get property", err)
	}

	inq := domain.Inquiry{
		ID:         uuid.NewString(),
		PropertyID: in.PropertyID,
		UserID:     in.UserID,
		Name:       strings.TrimSpace(in.Name),
		Email:      strings.TrimSpace(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		Message:    in.Message,
		CreatedAt:  s.now().UTC(),
		Status:     domain.InquiryPending,
	}
	if err := s.dispatch(ctx, CmdInquiry, inq); err != nil {
		return domain.Result{}, err
	}
	if err := s.activity.CreateInquiry(ctx, inq); err != nil {
		return domain.Result{}, unavailable("create inquiry", err)
	}
	log.Info().Str("inquiry_id", inq.ID).Str("property_id", inq.PropertyID).Msg("inquiry accepted")
	return domain.Result{ID: inq.ID, Status: StatusAccepted, Message: msgInquiry}, nil
}

// SubmitListing stores a listing for review. It never touches the catalog.
func (s *CommandService) SubmitListing(ctx context.Context, in ListingInput) (res domain.Result, err error) {
	defer func() { observability.ObserveCommand(CmdListing, outcome(err)) }()

	in.Type = domain.ListingKind(strings.ToLower(strings.TrimSpace(string(in.Type))))
	in.PropertyType = domain.PropertyType(strings.ToLower(strings.TrimSpace(string(in.PropertyType))))
	in.Features = compact(in.Features)
	in.Images = compact(in.Images)
	if err := s.check(in); err != nil {
		return domain.Result{}, err
	}

	sub := domain.ListingSubmission{
		ID:            uuid.NewString(),
		SubmittedBy:   in.SubmittedBy,
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		Price:         in.Price,
		Type:          in.Type,
		PropertyType:  in.PropertyType,
		Bedrooms:      in.Bedrooms,
		Bathrooms:     in.Bathrooms,
		SquareFootage: in.SquareFootage,
		Address:       strings.TrimSpace(in.Address),
		City:          strings.TrimSpace(in.City),
		Neighborhood:  strings.TrimSpace(in.Neighborhood),
		Furnished:     in.Furnished,
		Features:      in.Features,
		Images:        in.Images,
		Status:        domain.SubmissionPending,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.dispatch(ctx, CmdListing, sub); err != nil {
		return domain.Result{}, err
	}
	if err := s.activity.CreateSubmission(ctx, sub); err != nil {
		return domain.Result{}, unavailable("create submission", err)
	}
	log.Info().Str("submission_id", sub.ID).Str("city", sub.City).Msg("listing submitted")
	return domain.Result{ID: sub.ID, Status: StatusAccepted, Message: msgListing}, nil
}

func (s *CommandService) SubmitContact(ctx context.Context, in ContactInput) (res domain.Result, err error) {
	defer func() { observability.ObserveCommand(CmdContact, outcome(err)) }()

	if err := s.check(in); err != nil {
		return domain.Result{}, err
	}
	m := domain.ContactMessage{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Subject:   strings.TrimSpace(in.Subject),
		Message:   in.Message,
		CreatedAt: s.now().UTC(),
	}
	if err := s.dispatch(ctx, CmdContact, m); err != nil {
		return domain.Result{}, err
	}
	if err := s.activity.CreateContactMessage(ctx, m); err != nil {
		return domain.Result{}, unavailable("create contact message", err)
	}
	return domain.Result{ID: m.ID, Status: StatusAccepted, Message: msgContact}, nil
}

// SaveProperty adds a property to the user's favorites and returns the
// resulting saved ids. Saving twice is a no-op.
func (s *CommandService) SaveProperty(ctx context.Context, userID, propertyID string) ([]string, error) {
	return s.setSaved(ctx, CmdSave, userID, propertyID, true)
}

func (s *CommandService) UnsaveProperty(ctx context.Context, userID, propertyID string) ([]string, error) {
	return s.setSaved(ctx, CmdUnsave, userID, propertyID, false)
}

func (s *CommandService) setSaved(ctx context.Context, cmd, userID, propertyID string, saved bool) (ids []string, err error) {
	defer func() { observability.ObserveCommand(cmd, outcome(err)) }()

	if _, err := s.activity.GetUser(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("user %q: %w", userID, err)
		}
		return nil, unavailable("get user", err)
	}
	if saved {
		if _, err := s.catalog.GetProperty(ctx, propertyID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("property %q: %w", propertyID, err)
			}
			return nil, unavailable("get property", err)
		}
	}
	if err := s.activity.SetSaved(ctx, userID, propertyID, saved); err != nil {
		return nil, unavailable("set saved", err)
	}
	ids, err = s.activity.ListSaved(ctx, userID)
	if err != nil {
		return nil, unavailable("list saved", err)
	}
	return ids, nil
}

/********** helpers **********/

func (s *CommandService) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return fmt.Errorf("%w: %v", domain.ErrInvalid, err)
	}
	fields := make(map[string]string, len(ves))
	for _, fe := range ves {
		fields[fieldName(fe)] = fe.Tag()
	}
	return &ValidationError{Fields: fields}
}

// fieldName strips the struct prefix from a namespace like
// "ListingInput.images[0]".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

// dispatch forwards the command before it is stored so a rejected
// command leaves no local record.
func (s *CommandService) dispatch(ctx context.Context, kind string, payload any) error {
	if s.crm == nil {
		return nil
	}
	if err := s.crm.Dispatch(ctx, kind, payload); err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("crm dispatch failed")
		return unavailable("dispatch "+kind, err)
	}
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, domain.ErrInvalid):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "failed"
	}
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
