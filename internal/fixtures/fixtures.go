// Package fixtures loads the static catalog dataset.
package fixtures

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"estate_listing/internal/domain"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type Dataset struct {
	Properties []domain.Property
	Users      []domain.User
	Inquiries  []domain.Inquiry
}

/********** file shapes **********/

type fileDataset struct {
	Properties []fileProperty `yaml:"properties"`
	Users      []fileUser     `yaml:"users"`
	Inquiries  []fileInquiry  `yaml:"inquiries"`
}

type fileProperty struct {
	ID            string  `yaml:"id"`
	Title         string  `yaml:"title"`
	Description   string  `yaml:"description"`
	Price         float64 `yaml:"price"`
	Type          string  `yaml:"type"`
	PropertyType  string  `yaml:"propertyType"`
	Bedrooms      int     `yaml:"bedrooms"`
	Bathrooms     int     `yaml:"bathrooms"`
	SquareFootage float64 `yaml:"squareFootage"`
	Address       string  `yaml:"address"`
	City          string  `yaml:"city"`
	Neighborhood  string  `yaml:"neighborhood"`
	Coordinates   struct {
		Lat float64 `yaml:"lat"`
		Lng float64 `yaml:"lng"`
	} `yaml:"coordinates"`
	Furnished  bool      `yaml:"furnished"`
	Images     []string  `yaml:"images"`
	Features   []string  `yaml:"features"`
	Agent      fileAgent `yaml:"agent"`
	CreatedAt  time.Time `yaml:"createdAt"`
	Views      int       `yaml:"views"`
	IsFeatured bool      `yaml:"isFeatured"`
}

type fileAgent struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Email  string `yaml:"email"`
	Phone  string `yaml:"phone"`
	Avatar string `yaml:"avatar"`
}

type fileUser struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Email           string   `yaml:"email"`
	Phone           string   `yaml:"phone"`
	Avatar          string   `yaml:"avatar"`
	Role            string   `yaml:"role"`
	SavedProperties []string `yaml:"savedProperties"`
}

type fileInquiry struct {
	ID         string    `yaml:"id"`
	PropertyID string    `yaml:"propertyId"`
	UserID     string    `yaml:"userId"`
	Name       string    `yaml:"name"`
	Email      string    `yaml:"email"`
	Phone      string    `yaml:"phone"`
	Message    string    `yaml:"message"`
	CreatedAt  time.Time `yaml:"createdAt"`
	Status     string    `yaml:"status"`
}

/********** loading **********/

// Default returns the embedded catalog.
func Default() (Dataset, error) { return Parse(defaultCatalog) }

// Load reads a dataset from path; an empty path means the embedded catalog.
func Load(path string) (Dataset, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("read fixtures %s: %w", path, err)
	}
	return Parse(b)
}

func Parse(b []byte) (Dataset, error) {
	var fd fileDataset
	if err := yaml.Unmarshal(b, &fd); err != nil {
		return Dataset{}, fmt.Errorf("parse fixtures: %w", err)
	}

	var ds Dataset
	seen := make(map[string]struct{}, len(fd.Properties))
	for i, fp := range fd.Properties {
		p, err := mapProperty(fp)
		if err != nil {
			return Dataset{}, fmt.Errorf("property #%d (%q): %w", i, fp.ID, err)
		}
		if _, dup := seen[p.ID]; dup {
			return Dataset{}, fmt.Errorf("property #%d: duplicate id %q: %w", i, p.ID, domain.ErrInvalid)
		}
		seen[p.ID] = struct{}{}
		ds.Properties = append(ds.Properties, p)
	}
	for i, fu := range fd.Users {
		u, err := mapUser(fu)
		if err != nil {
			return Dataset{}, fmt.Errorf("user #%d (%q): %w", i, fu.ID, err)
		}
		ds.Users = append(ds.Users, u)
	}
	for i, fi := range fd.Inquiries {
		in, err := mapInquiry(fi)
		if err != nil {
			return Dataset{}, fmt.Errorf("inquiry #%d (%q): %w", i, fi.ID, err)
		}
		if _, ok := seen[in.PropertyID]; !ok {
			return Dataset{}, fmt.Errorf("inquiry #%d: unknown property %q: %w", i, in.PropertyID, domain.ErrInvalid)
		}
		ds.Inquiries = append(ds.Inquiries, in)
	}
	return ds, nil
}

/********** mappers **********/

func mapProperty(fp fileProperty) (domain.Property, error) {
	id := strings.TrimSpace(fp.ID)
	if id == "" {
		return domain.Property{}, fmt.Errorf("id is required: %w", domain.ErrInvalid)
	}
	kind := domain.ListingKind(strings.ToLower(strings.TrimSpace(fp.Type)))
	if !kind.Valid() {
		return domain.Property{}, fmt.Errorf("type %q: %w", fp.Type, domain.ErrInvalid)
	}
	pt := domain.PropertyType(strings.ToLower(strings.TrimSpace(fp.PropertyType)))
	if !pt.Valid() {
		return domain.Property{}, fmt.Errorf("propertyType %q: %w", fp.PropertyType, domain.ErrInvalid)
	}

	return domain.Property{
		ID:            id,
		Title:         fp.Title,
		Description:   fp.Description,
		Price:         nonNegF(id, "price", fp.Price),
		Type:          kind,
		PropertyType:  pt,
		Bedrooms:      nonNeg(id, "bedrooms", fp.Bedrooms),
		Bathrooms:     nonNeg(id, "bathrooms", fp.Bathrooms),
		SquareFootage: nonNegF(id, "squareFootage", fp.SquareFootage),
		Address:       fp.Address,
		City:          fp.City,
		Neighborhood:  fp.Neighborhood,
		Coordinates:   domain.Coords{Lat: fp.Coordinates.Lat, Lng: fp.Coordinates.Lng},
		Furnished:     fp.Furnished,
		Images:        nonEmpty(fp.Images),
		Features:      nonEmpty(fp.Features),
		Agent: domain.Agent{
			ID:     fp.Agent.ID,
			Name:   fp.Agent.Name,
			Email:  fp.Agent.Email,
			Phone:  fp.Agent.Phone,
			Avatar: fp.Agent.Avatar,
		},
		CreatedAt:  fp.CreatedAt.UTC(),
		Views:      nonNeg(id, "views", fp.Views),
		IsFeatured: fp.IsFeatured,
	}, nil
}

func mapUser(fu fileUser) (domain.User, error) {
	role := domain.Role(strings.ToLower(strings.TrimSpace(fu.Role)))
	switch role {
	case domain.RoleBuyer, domain.RoleSeller, domain.RoleAdmin:
	case "":
		role = domain.RoleBuyer
	default:
		return domain.User{}, fmt.Errorf("role %q: %w", fu.Role, domain.ErrInvalid)
	}
	return domain.User{
		ID:              fu.ID,
		Name:            fu.Name,
		Email:           fu.Email,
		Phone:           fu.Phone,
		Avatar:          fu.Avatar,
		Role:            role,
		SavedProperties: nonEmpty(fu.SavedProperties),
	}, nil
}

func mapInquiry(fi fileInquiry) (domain.Inquiry, error) {
	st := domain.InquiryStatus(strings.ToLower(strings.TrimSpace(fi.Status)))
	switch st {
	case domain.InquiryPending, domain.InquiryResponded, domain.InquiryClosed:
	case "":
		st = domain.InquiryPending
	default:
		return domain.Inquiry{}, fmt.Errorf("status %q: %w", fi.Status, domain.ErrInvalid)
	}
	return domain.Inquiry{
		ID:         fi.ID,
		PropertyID: fi.PropertyID,
		UserID:     fi.UserID,
		Name:       fi.Name,
		Email:      fi.Email,
		Phone:      fi.Phone,
		Message:    fi.Message,
		CreatedAt:  fi.CreatedAt.UTC(),
		Status:     st,
	}, nil
}

/********** tiny helpers **********/

func nonNeg(id, field string, v int) int {
	if v < 0 {
		log.Warn().Str("property", id).Str("field", field).Int("value", v).Msg("negative value clamped to 0")
		return 0
	}
	return v
}

func nonNegF(id, field string, v float64) float64 {
	if v < 0 {
		log.Warn().Str("property", id).Str("field", field).Float64("value", v).Msg("negative value clamped to 0")
		return 0
	}
	return v
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
