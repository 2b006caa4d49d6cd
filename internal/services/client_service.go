package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"starlink_crm_backend/internal/models"
	"starlink_crm_backend/internal/repositories"
	"starlink_crm_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

// --- Custom Service Errors for Client ---
var (
	ErrClientNotFound   = errors.New("client not found")
	ErrCapacityReached  = errors.New("client limit reached")
	ErrClientValidation = errors.New("client data validation error")
)

const (
	DefaultPage       = 1
	DefaultPageSize   = 10
	MaxPageSize       = 100
	DefaultMaxClients = 1000
)

// maxPrice is the largest value a NUMERIC(10,2) column accepts.
var maxPrice = decimal.RequireFromString("99999999.99")

// leadingNumber matches the numeric prefix of a price string, so "12.5 USD"
// reads as 12.5.
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d+)?|\.\d+)([eE][+-]?\d+)?`)

// --- Client DTOs ---

// ClientInput carries the mutable client fields for both create and update.
// Price and HasBonus are loosely typed on the wire and normalized by Normalize.
type ClientInput struct {
	FullName     *string `json:"full_name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Location     *string `json:"location"`
	ServiceType  *string `json:"service_type"`
	Price        any     `json:"price"`
	SerialNumber *string `json:"serial_number"`
	Supporter    *string `json:"supporter"`
	HasBonus     any     `json:"has_bonus"`
}

// Normalize converts the input into a client model. Empty strings become nil,
// a price without a leading number becomes nil and has_bonus is true only for
// true or "true".
func (in ClientInput) Normalize() (*models.Client, error) {
	price, err := normalizePrice(in.Price)
	if err != nil {
		return nil, err
	}
	return &models.Client{
		FullName:     utils.NewNullString(in.FullName),
		Email:        utils.NewNullString(in.Email),
		Phone:        utils.NewNullString(in.Phone),
		Location:     utils.NewNullString(in.Location),
		ServiceType:  utils.NewNullString(in.ServiceType),
		Price:        price,
		SerialNumber: utils.NewNullString(in.SerialNumber),
		Supporter:    utils.NewNullString(in.Supporter),
		HasBonus:     normalizeBonus(in.HasBonus),
	}, nil
}

func normalizePrice(raw any) (decimal.NullDecimal, error) {
	var d decimal.Decimal
	switch v := raw.(type) {
	case float64:
		d = decimal.NewFromFloat(v)
	case string:
		prefix := leadingNumber.FindString(strings.TrimSpace(v))
		if prefix == "" {
			return decimal.NullDecimal{}, nil
		}
		parsed, err := decimal.NewFromString(prefix)
		if err != nil {
			return decimal.NullDecimal{}, nil
		}
		d = parsed
	default:
		return decimal.NullDecimal{}, nil
	}

	if d.IsNegative() {
		return decimal.NullDecimal{}, fmt.Errorf("%w: price cannot be negative", ErrClientValidation)
	}
	d = d.Round(2)
	if d.GreaterThan(maxPrice) {
		return decimal.NullDecimal{}, fmt.Errorf("%w: price exceeds %s", ErrClientValidation, maxPrice)
	}
	return decimal.NewNullDecimal(d), nil
}

func normalizeBonus(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

// --- ClientService Interface ---
type ClientService interface {
	ListClients(ctx context.Context, page, pageSize int) (*models.ClientPage, error)
	GetClient(ctx context.Context, clientID int64) (*models.Client, error)
	CreateClient(ctx context.Context, input ClientInput) (int64, error)
	UpdateClient(ctx context.Context, clientID int64, input ClientInput) error
	DeleteClient(ctx context.Context, clientID int64) error
	Reminders(ctx context.Context) ([]string, error)
}

// --- clientService Implementation ---
type clientService struct {
	clientRepo repositories.ClientRepository
	db         repositories.SQLExecutor
	maxClients int
	now        func() time.Time
}

// NewClientService creates a new instance of ClientService. A non-positive
// maxClients falls back to DefaultMaxClients and a nil clock to time.Now.
func NewClientService(repo repositories.ClientRepository, db repositories.SQLExecutor, maxClients int, now func() time.Time) ClientService {
	if maxClients <= 0 {
		maxClients = DefaultMaxClients
	}
	if now == nil {
		now = time.Now
	}
	return &clientService{
		clientRepo: repo,
		db:         db,
		maxClients: maxClients,
		now:        now,
	}
}

func (s *clientService) ListClients(ctx context.Context, page, pageSize int) (*models.ClientPage, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be at least 1", ErrClientValidation)
	}
	if pageSize < 1 {
		return nil, fmt.Errorf("%w: limit must be at least 1", ErrClientValidation)
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	total, err := s.clientRepo.Count(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to count clients: %w", err)
	}

	result := &models.ClientPage{
		Data:         []models.Client{},
		CurrentPage:  page,
		TotalPages:   (total + pageSize - 1) / pageSize,
		TotalClients: total,
	}
	// Past the last page; also keeps (page-1)*pageSize from overflowing.
	if page > result.TotalPages {
		return result, nil
	}

	clients, err := s.clientRepo.SelectPage(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get clients: %w", err)
	}
	if clients != nil {
		result.Data = clients
	}
	return result, nil
}

func (s *clientService) GetClient(ctx context.Context, clientID int64) (*models.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client by ID: %w", err)
	}
	return client, nil
}

func (s *clientService) CreateClient(ctx context.Context, input ClientInput) (int64, error) {
	client, err := input.Normalize()
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.clientRepo.WithCapacityLock(ctx, func(executor repositories.SQLExecutor) error {
		total, err := s.clientRepo.Count(ctx, executor)
		if err != nil {
			return fmt.Errorf("failed to count clients: %w", err)
		}
		if total >= s.maxClients {
			return fmt.Errorf("%w: client limit of %d reached", ErrCapacityReached, s.maxClients)
		}

		id, err = s.clientRepo.Insert(ctx, executor, client)
		if err != nil {
			return fmt.Errorf("failed to create client in repository: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *clientService) UpdateClient(ctx context.Context, clientID int64, input ClientInput) error {
	client, err := input.Normalize()
	if err != nil {
		return err
	}
	client.ID = clientID

	affected, err := s.clientRepo.UpdateByID(ctx, s.db, client)
	if err != nil {
		return fmt.Errorf("failed to update client in repository: %w", err)
	}
	if affected == 0 {
		return ErrClientNotFound
	}
	return nil
}

func (s *clientService) DeleteClient(ctx context.Context, clientID int64) error {
	affected, err := s.clientRepo.DeleteByID(ctx, s.db, clientID)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if affected == 0 {
		return ErrClientNotFound
	}
	return nil
}
