package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"estate_listing/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func valJSON(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// unavailable marks driver failures so callers can map them to 503.
func unavailable(op string, err error) error {
	return fmt.Errorf("mysql %s: %w: %v", op, domain.ErrUnavailable, err)
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

type scanner interface {
	Scan(dest ...any) error
}

/********** properties **********/

func (r *Repo) UpsertProperty(ctx context.Context, p domain.Property) error {
	imgs, err := valJSON(p.Images)
	if err != nil {
		return err
	}
	feats, err := valJSON(p.Features)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, upsertPropertySQL,
		p.ID,
		p.Title,
		p.Description,
		p.Price,
		string(p.Type),
		string(p.PropertyType),
		p.Bedrooms,
		p.Bathrooms,
		p.SquareFootage,
		p.Address,
		p.City,
		p.Neighborhood,
		p.Coordinates.Lat,
		p.Coordinates.Lng,
		p.Furnished,
		imgs,
		feats,
		p.Agent.ID,
		p.Agent.Name,
		p.Agent.Email,
		p.Agent.Phone,
		p.Agent.Avatar,
		p.CreatedAt.UTC(),
		p.Views,
		p.IsFeatured,
	)
	if err != nil {
		return unavailable("upsert property", err)
	}
	return nil
}

func (r *Repo) ListProperties(ctx context.Context) ([]domain.Property, error) {
	rows, err := r.db.QueryContext(ctx, listPropertiesSQL)
	if err != nil {
		return nil, unavailable("list properties", err)
	}
	defer rows.Close()

	out := make([]domain.Property, 0)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, unavailable("scan property", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list properties", err)
	}
	return out, nil
}

func (r *Repo) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	p, err := scanProperty(r.db.QueryRowContext(ctx, getPropertySQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Property{}, fmt.Errorf("property %q: %w", id, domain.ErrNotFound)
		}
		return domain.Property{}, unavailable("get property", err)
	}
	return p, nil
}

func scanProperty(s scanner) (domain.Property, error) {
	var (
		p               domain.Property
		kind, ptype     string
		lat, lng        sql.NullFloat64
		imgsRaw, ftsRaw []byte
	)
	if err := s.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Price,
		&kind,
		&ptype,
		&p.Bedrooms,
		&p.Bathrooms,
		&p.SquareFootage,
		&p.Address,
		&p.City,
		&p.Neighborhood,
		&lat, &lng,
		&p.Furnished,
		&imgsRaw, &ftsRaw,
		&p.Agent.ID,
		&p.Agent.Name,
		&p.Agent.Email,
		&p.Agent.Phone,
		&p.Agent.Avatar,
		&p.CreatedAt,
		&p.Views,
		&p.IsFeatured,
	); err != nil {
		return domain.Property{}, err
	}
	p.Type = domain.ListingKind(kind)
	p.PropertyType = domain.PropertyType(ptype)
	p.Coordinates = domain.Coords{Lat: lat.Float64, Lng: lng.Float64}
	if err := json.Unmarshal(imgsRaw, &p.Images); err != nil {
		return domain.Property{}, fmt.Errorf("images of %s: %w", p.ID, err)
	}
	if err := json.Unmarshal(ftsRaw, &p.Features); err != nil {
		return domain.Property{}, fmt.Errorf("features of %s: %w", p.ID, err)
	}
	return p, nil
}

/********** users & saved properties **********/

// UpsertUser writes the profile and adds (never removes) its saved ids.
func (r *Repo) UpsertUser(ctx context.Context, u domain.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, upsertUserSQL, u.ID, u.Name, u.Email, u.Phone, u.Avatar, string(u.Role)); err != nil {
		return unavailable("upsert user", err)
	}
	for _, pid := range u.SavedProperties {
		if _, err := tx.ExecContext(ctx, saveSQL, u.ID, pid); err != nil {
			return unavailable("save property", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return unavailable("commit", err)
	}
	return nil
}

func (r *Repo) GetUser(ctx context.Context, id string) (domain.User, error) {
	var u domain.User
	var role string
	err := r.db.QueryRowContext(ctx, getUserSQL, id).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Avatar, &role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, fmt.Errorf("user %q: %w", id, domain.ErrNotFound)
		}
		return domain.User{}, unavailable("get user", err)
	}
	u.Role = domain.Role(role)
	if u.SavedProperties, err = r.ListSaved(ctx, id); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *Repo) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countUsersSQL).Scan(&n); err != nil {
		return 0, unavailable("count users", err)
	}
	return n, nil
}

func (r *Repo) SetSaved(ctx context.Context, userID, propertyID string, saved bool) error {
	q := unsaveSQL
	if saved {
		q = saveSQL
	}
	if _, err := r.db.ExecContext(ctx, q, userID, propertyID); err != nil {
		return unavailable("set saved", err)
	}
	return nil
}

func (r *Repo) ListSaved(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, listSavedSQL, userID)
	if err != nil {
		return nil, unavailable("list saved", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, unavailable("scan saved", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list saved", err)
	}
	return out, nil
}

/********** inquiries **********/

func (r *Repo) CreateInquiry(ctx context.Context, in domain.Inquiry) error {
	_, err := r.db.ExecContext(ctx, insertInquirySQL,
		in.ID, in.PropertyID, valStr(in.UserID), in.Name, in.Email, in.Phone, in.Message,
		string(in.Status), in.CreatedAt.UTC(),
	)
	if err != nil {
		return unavailable("insert inquiry", err)
	}
	return nil
}

func (r *Repo) ListInquiriesByUser(ctx context.Context, userID string) ([]domain.Inquiry, error) {
	return r.queryInquiries(ctx, listInquiriesByUserSQL, userID)
}

func (r *Repo) ListInquiriesByProperties(ctx context.Context, propertyIDs []string) ([]domain.Inquiry, error) {
	if len(propertyIDs) == 0 {
		return []domain.Inquiry{}, nil
	}
	marks := strings.TrimSuffix(strings.Repeat("?,", len(propertyIDs)), ",")
	args := make([]any, 0, len(propertyIDs))
	for _, id := range propertyIDs {
		args = append(args, id)
	}
	q := listInquiriesByPropertiesPrefix + "(" + marks + ")" + listInquiriesByPropertiesSuffix
	return r.queryInquiries(ctx, q, args...)
}

func (r *Repo) queryInquiries(ctx context.Context, q string, args ...any) ([]domain.Inquiry, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, unavailable("list inquiries", err)
	}
	defer rows.Close()

	out := make([]domain.Inquiry, 0)
	for rows.Next() {
		var (
			in     domain.Inquiry
			userID sql.NullString
			status string
		)
		if err := rows.Scan(&in.ID, &in.PropertyID, &userID, &in.Name, &in.Email, &in.Phone, &in.Message, &status, &in.CreatedAt); err != nil {
			return nil, unavailable("scan inquiry", err)
		}
		in.UserID = userID.String
		in.Status = domain.InquiryStatus(status)
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list inquiries", err)
	}
	return out, nil
}

/********** submissions & contact **********/

func (r *Repo) CreateSubmission(ctx context.Context, s domain.ListingSubmission) error {
	feats, err := valJSON(s.Features)
	if err != nil {
		return err
	}
	imgs, err := valJSON(s.Images)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, insertSubmissionSQL,
		s.ID,
		valStr(s.SubmittedBy),
		s.Title,
		s.Description,
		s.Price,
		string(s.Type),
		string(s.PropertyType),
		s.Bedrooms,
		s.Bathrooms,
		s.SquareFootage,
		s.Address,
		s.City,
		s.Neighborhood,
		s.Furnished,
		feats,
		imgs,
		string(s.Status),
		s.CreatedAt.UTC(),
	)
	if err != nil {
		return unavailable("insert submission", err)
	}
	return nil
}

func (r *Repo) ListSubmissions(ctx context.Context, status domain.SubmissionStatus) ([]domain.ListingSubmission, error) {
	rows, err := r.db.QueryContext(ctx, listSubmissionsSQL, string(status), string(status))
	if err != nil {
		return nil, unavailable("list submissions", err)
	}
	defer rows.Close()

	out := make([]domain.ListingSubmission, 0)
	for rows.Next() {
		var (
			s                 domain.ListingSubmission
			by                sql.NullString
			kind, ptype, stat string
			ftsRaw, imgsRaw   []byte
		)
		if err := rows.Scan(
			&s.ID, &by, &s.Title, &s.Description, &s.Price, &kind, &ptype,
			&s.Bedrooms, &s.Bathrooms, &s.SquareFootage, &s.Address, &s.City, &s.Neighborhood,
			&s.Furnished, &ftsRaw, &imgsRaw, &stat, &s.CreatedAt,
		); err != nil {
			return nil, unavailable("scan submission", err)
		}
		s.SubmittedBy = by.String
		s.Type = domain.ListingKind(kind)
		s.PropertyType = domain.PropertyType(ptype)
		s.Status = domain.SubmissionStatus(stat)
		_ = json.Unmarshal(ftsRaw, &s.Features)
		_ = json.Unmarshal(imgsRaw, &s.Images)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list submissions", err)
	}
	return out, nil
}

func (r *Repo) CreateContactMessage(ctx context.Context, m domain.ContactMessage) error {
	_, err := r.db.ExecContext(ctx, insertContactSQL, m.ID, m.Name, m.Email, m.Phone, m.Subject, m.Message, m.CreatedAt.UTC())
	if err != nil {
		return unavailable("insert contact message", err)
	}
	return nil
}
