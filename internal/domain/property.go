package domain

import "time"

type ListingKind string

const (
	KindSale ListingKind = "sale"
	KindRent ListingKind = "rent"
)

func (k ListingKind) Valid() bool { return k == KindSale || k == KindRent }

type PropertyType string

const (
	TypeApartment PropertyType = "apartment"
	TypeHouse     PropertyType = "house"
	TypeVilla     PropertyType = "villa"
	TypeOffice    PropertyType = "office"
	TypeLand      PropertyType = "land"
)

var PropertyTypes = []PropertyType{TypeApartment, TypeHouse, TypeVilla, TypeOffice, TypeLand}

func (t PropertyType) Valid() bool {
	for _, v := range PropertyTypes {
		if t == v {
			return true
		}
	}
	return false
}

type Property struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Price         float64      `json:"price"`
	Type          ListingKind  `json:"type"`
	PropertyType  PropertyType `json:"propertyType"`
	Bedrooms      int          `json:"bedrooms"`
	Bathrooms     int          `json:"bathrooms"`
	SquareFootage float64      `json:"squareFootage"`
	Address       string       `json:"address"`
	City          string       `json:"city"`
	Neighborhood  string       `json:"neighborhood"`
	Coordinates   Coords       `json:"coordinates"`
	Furnished     bool         `json:"furnished"`
	Images        []string     `json:"images"`
	Features      []string     `json:"features"`
	Agent         Agent        `json:"agent"`
	CreatedAt     time.Time    `json:"createdAt"`
	Views         int          `json:"views"`
	IsFeatured    bool         `json:"isFeatured"`
}

type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Agent is the listing agent summary embedded in every property.
type Agent struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Avatar string `json:"avatar"`
}
