// Package identity models the subject identity collaborator. Identity
// attributes are looked up by session id and copied into provider requests
// and issued credentials; this service never mutates them.
package identity

import "time"

// NamePart is one component of a structured name.
type NamePart struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Name is a structured name as stored by the identity collaborator.
type Name struct {
	NameParts []NamePart `json:"nameParts"`
}

// BirthDate wraps a date of birth. Only the calendar date is meaningful.
type BirthDate struct {
	Value time.Time `json:"value"`
}

// Address is a stored address. AddressType is an implementation artifact of
// the identity store (e.g. CURRENT vs PREVIOUS) and must never appear on an
// issued credential.
type Address struct {
	BuildingName    string `json:"buildingName,omitempty"`
	BuildingNumber  string `json:"buildingNumber,omitempty"`
	StreetName      string `json:"streetName,omitempty"`
	AddressLocality string `json:"addressLocality,omitempty"`
	PostalCode      string `json:"postalCode,omitempty"`
	AddressType     string `json:"addressType,omitempty"`
}

// PersonIdentity is the flat shape the provider request mapper consumes.
type PersonIdentity struct {
	FirstName   string
	Surname     string
	DateOfBirth time.Time
	Addresses   []Address
}

// PersonIdentityDetailed is the structured shape credential issuance
// consumes: full name parts and every recorded birth date.
type PersonIdentityDetailed struct {
	Names      []Name
	BirthDates []BirthDate
	Addresses  []Address
}
