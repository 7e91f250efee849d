package dto

import (
	"time"

	"github.com/SscSPs/agency_books/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePartyRequest defines the data needed to register a customer or vendor.
type CreatePartyRequest struct {
	Kind           domain.PartyKind `json:"kind" binding:"required,oneof=CUSTOMER VENDOR"`
	Name           string           `json:"name" binding:"required"`
	Phone          string           `json:"phone"`
	Email          string           `json:"email" binding:"omitempty,email"`
	Address        string           `json:"address"`
	OpeningBalance decimal.Decimal  `json:"openingBalance"`
	OpeningSide    domain.EntrySide `json:"openingSide" binding:"omitempty,oneof=DEBIT CREDIT"`
	OpeningDate    *time.Time       `json:"openingDate"`
}

// UpdatePartyRequest defines the fields that can be changed on a party.
// Kind and code are fixed once assigned.
type UpdatePartyRequest struct {
	Name           *string           `json:"name"`
	Phone          *string           `json:"phone"`
	Email          *string           `json:"email" binding:"omitempty,email"`
	Address        *string           `json:"address"`
	OpeningBalance *decimal.Decimal  `json:"openingBalance"`
	OpeningSide    *domain.EntrySide `json:"openingSide" binding:"omitempty,oneof=DEBIT CREDIT"`
	OpeningDate    *time.Time        `json:"openingDate"`
	IsActive       *bool             `json:"isActive"`
}

// ListPartiesParams defines query parameters for listing parties.
type ListPartiesParams struct {
	Kind            domain.PartyKind `form:"kind" binding:"omitempty,oneof=CUSTOMER VENDOR"`
	IncludeInactive bool             `form:"includeInactive"`
}

// PartyResponse defines the data returned for a party.
type PartyResponse struct {
	PartyID        string           `json:"partyID"`
	Kind           domain.PartyKind `json:"kind"`
	Code           string           `json:"code"`
	Name           string           `json:"name"`
	Phone          string           `json:"phone"`
	Email          string           `json:"email"`
	Address        string           `json:"address"`
	OpeningBalance decimal.Decimal  `json:"openingBalance"`
	OpeningSide    domain.EntrySide `json:"openingSide"`
	OpeningDate    time.Time        `json:"openingDate"`
	IsActive       bool             `json:"isActive"`
	CreatedAt      time.Time        `json:"createdAt"`
	LastUpdatedAt  time.Time        `json:"lastUpdatedAt"`
}

// ToPartyResponse converts a domain.Party to PartyResponse DTO
func ToPartyResponse(p *domain.Party) PartyResponse {
	return PartyResponse{
		PartyID:        p.PartyID,
		Kind:           p.Kind,
		Code:           p.Code,
		Name:           p.Name,
		Phone:          p.Phone,
		Email:          p.Email,
		Address:        p.Address,
		OpeningBalance: p.OpeningBalance,
		OpeningSide:    p.OpeningSide,
		OpeningDate:    p.OpeningDate,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		LastUpdatedAt:  p.LastUpdatedAt,
	}
}

// ToListPartyResponse converts parties to their DTOs.
func ToListPartyResponse(parties []domain.Party) []PartyResponse {
	res := make([]PartyResponse, len(parties))
	for i, p := range parties {
		res[i] = ToPartyResponse(&p)
	}
	return res
}
