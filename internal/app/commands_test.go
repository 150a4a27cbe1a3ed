package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"estate_listing/internal/app"
	"estate_listing/internal/domain"
)

type fakeDispatcher struct {
	kinds []string
	err   error
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, kind string, payload any) error {
	d.kinds = append(d.kinds, kind)
	return d.err
}

func validInquiry() app.InquiryInput {
	return app.InquiryInput{
		PropertyID: "2",
		Name:       "Jane Doe",
		Email:      "jane@example.com",
		Message:    "Is the garden south facing?",
	}
}

func validListing() app.ListingInput {
	return app.ListingInput{
		SubmittedBy:   "1",
		Title:         "Loft in the Arts District",
		Description:   "Converted warehouse loft.",
		Price:         640000,
		Type:          "Sale",
		PropertyType:  "apartment",
		Bedrooms:      1,
		Bathrooms:     1,
		SquareFootage: 1100,
		Address:       "12 Mill St",
		City:          "Los Angeles",
		Features:      []string{"Exposed brick", "  ", ""},
		Images:        []string{"https://img.example/loft.jpg"},
	}
}

func TestSubmitInquiry(t *testing.T) {
	st := newStore(t)
	d := &fakeDispatcher{}
	c := app.NewCommandService(st, st, d)
	ctx := context.Background()

	in := validInquiry()
	in.UserID = "u1"
	res, err := c.SubmitInquiry(ctx, in)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.ID == "" || res.Status != app.StatusAccepted || !strings.HasPrefix(res.Message, "Thank you for your inquiry") {
		t.Fatalf("unexpected result: %+v", res)
	}
	got, _ := st.ListInquiriesByProperties(ctx, []string{"2"})
	if len(got) != 1 || got[0].ID != res.ID || got[0].Status != domain.InquiryPending {
		t.Fatalf("inquiry not stored as pending: %+v", got)
	}
	if diff := cmp.Diff([]string{app.CmdInquiry}, d.kinds); diff != "" {
		t.Fatalf("dispatch (-want +got):\n%s", diff)
	}
}

func TestSubmitInquiry_Invalid(t *testing.T) {
	st := newStore(t)
	c := app.NewCommandService(st, st, nil)

	in := validInquiry()
	in.Email = "not-an-email"
	in.Message = ""
	_, err := c.SubmitInquiry(context.Background(), in)
	if !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	var ve *app.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	want := map[string]string{"email": "email", "message": "required"}
	if diff := cmp.Diff(want, ve.Fields); diff != "" {
		t.Fatalf("fields (-want +got):\n%s", diff)
	}
}

func TestSubmitInquiry_UnknownProperty(t *testing.T) {
	st := newStore(t)
	c := app.NewCommandService(st, st, nil)

	in := validInquiry()
	in.PropertyID = "404"
	if _, err := c.SubmitInquiry(context.Background(), in); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitInquiry_DispatchFailureStoresNothing(t *testing.T) {
	st := newStore(t)
	c := app.NewCommandService(st, st, &fakeDispatcher{err: errors.New("503 from crm")})
	ctx := context.Background()

	if _, err := c.SubmitInquiry(ctx, validInquiry()); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	got, _ := st.ListInquiriesByProperties(ctx, []string{"2"})
	if len(got) != 0 {
		t.Fatalf("expected nothing stored, got %+v", got)
	}
}

func TestSubmitListing(t *testing.T) {
	st := newStore(t)
	c := app.NewCommandService(st, st, nil)
	ctx := context.Background()

	res, err := c.SubmitListing(ctx, validListing())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.Message != "Property submitted successfully! It will be reviewed by our team." {
		t.Fatalf("unexpected message: %q", res.Message)
	}
	subs, _ := st.ListSubmissions(ctx, domain.SubmissionPending)
	if len(subs) != 1 {
		t.Fatalf("expected one pending submission, got %d", len(subs))
	}
	s := subs[0]
	if s.Type != domain.KindSale || s.Status != domain.SubmissionPending {
		t.Fatalf("unexpected submission: %+v", s)
	}
	if diff := cmp.Diff([]string{"Exposed brick"}, s.Features); diff != "" {
		t.Fatalf("features (-want +got):\n%s", diff)
	}
	if st.Len() != 6 {
		t.Fatalf("submission must not enter the catalog")
	}
}

func TestSubmitListing_Invalid(t *testing.T) {
	st := newStore(t)
	c := app.NewCommandService(st, st, nil)

	in := validListing()
	in.PropertyType = "castle"
	in.Price = 0
	in.Images = []string{"not a url"}
	_, err := c.SubmitListing(context.Background(), in)
	var ve *app.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	for _, f := range []string{"propertyType", "price", "images[0]"} {
		if _, ok := ve.Fields[f]; !ok {
			t.Errorf("missing field %q in %v", f, ve.Fields)
		}
	}
}

func TestSubmitContact(t *testing.T) {
	st := newStore(t)
	c := app.NewCommandService(st, st, nil)

	res, err := c.SubmitContact(context.Background(), app.ContactInput{
		Name: "Ann", Email: "ann@example.com", Subject: "Valuation", Message: "Can you value my flat?",
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.Message != "Thank you for your message! We will get back to you within 24 hours." {
		t.Fatalf("unexpected message: %q", res.Message)
	}
	if msgs := st.ContactMessages(); len(msgs) != 1 || msgs[0].Subject != "Valuation" {
		t.Fatalf("unexpected messages: %+v", msgs)
	}

	if _, err := c.SubmitContact(context.Background(), app.ContactInput{}); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestSaveAndUnsave(t *testing.T) {
	st := newStore(t)
	c := app.NewCommandService(st, st, nil)
	ctx := context.Background()

	got, err := c.SaveProperty(ctx, "u1", "2")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if diff := cmp.Diff([]string{"1", "3", "2"}, got); diff != "" {
		t.Fatalf("saved (-want +got):\n%s", diff)
	}
	// idempotent
	got, _ = c.SaveProperty(ctx, "u1", "2")
	if len(got) != 3 {
		t.Fatalf("double save changed the set: %v", got)
	}

	got, err = c.UnsaveProperty(ctx, "u1", "1")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if diff := cmp.Diff([]string{"3", "2"}, got); diff != "" {
		t.Fatalf("saved (-want +got):\n%s", diff)
	}

	if _, err := c.SaveProperty(ctx, "u1", "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for property, got %v", err)
	}
	if _, err := c.SaveProperty(ctx, "ghost", "1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for user, got %v", err)
	}
}
