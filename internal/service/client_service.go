package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"momentocake-admin/internal/model"
	"momentocake-admin/internal/repository"
	"momentocake-admin/pkg/validator"

	"github.com/google/uuid"
)

var (
	ErrClientNotFound    = errors.New("client not found")
	ErrClientTypeMissing = errors.New("business clients require company info")
)

type ClientService interface {
	CreateClient(req *model.Client, actor *model.User) error
	UpdateClient(id uuid.UUID, req *model.Client, actor *model.User) (*model.Client, error)
	DeleteClient(id uuid.UUID) error
	GetClient(id uuid.UUID) (*model.Client, error)
	GetClients(filters repository.ClientFilters) ([]model.Client, error)
	GetUpcomingDates(withinDays int) ([]UpcomingDate, error)
}

// UpcomingDate is a client special date falling inside the lookahead
// window, resolved to its next occurrence.
type UpcomingDate struct {
	ClientID    uuid.UUID             `json:"client_id"`
	ClientName  string                `json:"client_name"`
	Type        model.SpecialDateType `json:"type"`
	Description string                `json:"description,omitempty"`
	Date        time.Time             `json:"date"`
	DaysUntil   int                   `json:"days_until"`
}

type clientService struct {
	clientRepo repository.ClientRepository
}

func NewClientService(clientRepo repository.ClientRepository) ClientService {
	return &clientService{clientRepo: clientRepo}
}

func (s *clientService) CreateClient(req *model.Client, actor *model.User) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if err := s.checkTypeFields(req); err != nil {
		return err
	}

	req.CreatedBy = actor.ID.String()
	req.UpdatedBy = actor.ID.String()

	return s.clientRepo.Create(req)
}

func (s *clientService) UpdateClient(id uuid.UUID, req *model.Client, actor *model.User) (*model.Client, error) {
	existing, err := s.clientRepo.FindByID(id)
	if err != nil {
		return nil, ErrClientNotFound
	}

	existing.Type = req.Type
	existing.Name = req.Name
	existing.ContactMethods = req.ContactMethods
	existing.Address = req.Address
	existing.CompanyInfo = req.CompanyInfo
	existing.Representative = req.Representative
	existing.RelatedPersons = req.RelatedPersons
	existing.SpecialDates = req.SpecialDates
	existing.Tags = req.Tags
	existing.Notes = req.Notes
	existing.IsActive = req.IsActive
	existing.UpdatedBy = actor.ID.String()

	// Person clients never carry business-only documents
	if existing.Type == model.ClientPerson {
		existing.CompanyInfo = nil
		existing.Representative = nil
	}

	if errs := validator.ValidateStruct(existing); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if err := s.checkTypeFields(existing); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *clientService) checkTypeFields(client *model.Client) error {
	if client.Type == model.ClientBusiness && client.CompanyInfo == nil {
		return ErrClientTypeMissing
	}
	return nil
}

func (s *clientService) DeleteClient(id uuid.UUID) error {
	if _, err := s.clientRepo.FindByID(id); err != nil {
		return ErrClientNotFound
	}
	return s.clientRepo.Delete(id)
}

func (s *clientService) GetClient(id uuid.UUID) (*model.Client, error) {
	client, err := s.clientRepo.FindByID(id)
	if err != nil {
		return nil, ErrClientNotFound
	}
	return client, nil
}

func (s *clientService) GetClients(filters repository.ClientFilters) ([]model.Client, error) {
	return s.clientRepo.FindAll(filters)
}

// GetUpcomingDates collects every client special date and related-person
// birthday occurring within the next withinDays days, soonest first.
func (s *clientService) GetUpcomingDates(withinDays int) ([]UpcomingDate, error) {
	if withinDays <= 0 {
		withinDays = 30
	}

	clients, err := s.clientRepo.FindAll(repository.ClientFilters{ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	cutoff := now.AddDate(0, 0, withinDays)

	var upcoming []UpcomingDate
	for _, client := range clients {
		for _, d := range client.SpecialDates {
			next := d.NextOccurrence(now)
			if next.After(cutoff) {
				continue
			}
			upcoming = append(upcoming, UpcomingDate{
				ClientID:    client.ID,
				ClientName:  client.Name,
				Type:        d.Type,
				Description: d.Description,
				Date:        next,
				DaysUntil:   int(next.Sub(now.Truncate(24*time.Hour)).Hours() / 24),
			})
		}
		for _, p := range client.RelatedPersons {
			if p.BirthDate == nil {
				continue
			}
			d := model.SpecialDate{Type: model.DateBirthday, Date: *p.BirthDate}
			next := d.NextOccurrence(now)
			if next.After(cutoff) {
				continue
			}
			upcoming = append(upcoming, UpcomingDate{
				ClientID:    client.ID,
				ClientName:  client.Name,
				Type:        model.DateBirthday,
				Description: p.Name,
				Date:        next,
				DaysUntil:   int(next.Sub(now.Truncate(24*time.Hour)).Hours() / 24),
			})
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Date.Before(upcoming[j].Date)
	})
	return upcoming, nil
}
