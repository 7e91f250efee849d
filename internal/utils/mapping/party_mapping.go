package mapping

import (
	"github.com/SscSPs/agency_books/internal/core/domain"
	"github.com/SscSPs/agency_books/internal/models"
)

// ToModelParty converts a domain Party to a model Party. A zero opening date becomes NULL.
func ToModelParty(d domain.Party) models.Party {
	m := models.Party{
		PartyID:        d.PartyID,
		Kind:           string(d.Kind),
		Code:           d.Code,
		Name:           d.Name,
		Phone:          d.Phone,
		Email:          d.Email,
		Address:        d.Address,
		OpeningBalance: d.OpeningBalance,
		OpeningSide:    string(d.OpeningSide),
		IsActive:       d.IsActive,
		AuditFields:    auditToModel(d.AuditFields),
	}
	if !d.OpeningDate.IsZero() {
		date := d.OpeningDate
		m.OpeningDate = &date
	}
	return m
}

// ToDomainParty converts a model Party to a domain Party
func ToDomainParty(m models.Party) domain.Party {
	d := domain.Party{
		PartyID:        m.PartyID,
		Kind:           domain.PartyKind(m.Kind),
		Code:           m.Code,
		Name:           m.Name,
		Phone:          m.Phone,
		Email:          m.Email,
		Address:        m.Address,
		OpeningBalance: m.OpeningBalance,
		OpeningSide:    domain.EntrySide(m.OpeningSide),
		IsActive:       m.IsActive,
		AuditFields:    auditToDomain(m.AuditFields),
	}
	if m.OpeningDate != nil {
		d.OpeningDate = domain.DateOnly(*m.OpeningDate)
	}
	return d
}
