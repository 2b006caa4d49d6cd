package services

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"starlink_crm_backend/internal/models"
	"starlink_crm_backend/internal/repositories"
	"starlink_crm_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clock = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, maxClients int) (ClientService, *testutil.MemoryClientRepository) {
	t.Helper()
	repo := testutil.NewMemoryClientRepository()
	repo.Now = func() time.Time { return clock }
	return NewClientService(repo, nil, maxClients, func() time.Time { return clock }), repo
}

func strPtr(s string) *string { return &s }

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		want    string
		valid   bool
		wantErr bool
	}{
		{name: "json number", raw: 49.5, want: "49.5", valid: true},
		{name: "numeric string", raw: " 120.00 ", want: "120", valid: true},
		{name: "rounds to cents", raw: "10.005", want: "10.01", valid: true},
		{name: "numeric prefix", raw: "12abc", want: "12", valid: true},
		{name: "prefix with unit", raw: "12.5 USD", want: "12.5", valid: true},
		{name: "leading dot", raw: ".5", want: "0.5", valid: true},
		{name: "exponent", raw: "1e2x", want: "100", valid: true},
		{name: "trailing dot", raw: "7.", want: "7", valid: true},
		{name: "garbage string", raw: "ten dollars"},
		{name: "number after text", raw: "USD 12"},
		{name: "negative prefix", raw: "-3abc", wantErr: true},
		{name: "empty string", raw: ""},
		{name: "absent", raw: nil},
		{name: "boolean", raw: true},
		{name: "negative", raw: -1.0, wantErr: true},
		{name: "too large", raw: "100000000", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizePrice(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrClientValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.valid, got.Valid)
			if tt.valid {
				assert.Equal(t, tt.want, got.Decimal.String())
			}
		})
	}
}

func TestNormalizeBonus(t *testing.T) {
	assert.True(t, normalizeBonus(true))
	assert.True(t, normalizeBonus("true"))
	assert.False(t, normalizeBonus(false))
	assert.False(t, normalizeBonus("TRUE"))
	assert.False(t, normalizeBonus("yes"))
	assert.False(t, normalizeBonus(1.0))
	assert.False(t, normalizeBonus(nil))
}

func TestNormalizeEmptyStringsBecomeNull(t *testing.T) {
	client, err := ClientInput{
		FullName: strPtr("Amina"),
		Email:    strPtr(""),
		Phone:    strPtr("   "),
	}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "Amina", *client.FullName)
	assert.Nil(t, client.Email)
	require.NotNil(t, client.Phone, "whitespace is not empty")
	assert.Equal(t, "   ", *client.Phone)
	assert.Nil(t, client.Location)
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	svc, _ := newTestService(t, 0)
	ctx := context.Background()

	id, err := svc.CreateClient(ctx, ClientInput{
		FullName:     strPtr("Brian Otieno"),
		Email:        strPtr("brian@example.com"),
		Phone:        strPtr("0712345678"),
		Location:     strPtr("Kisumu"),
		ServiceType:  strPtr("Starlink Standard"),
		Price:        "not-a-number",
		SerialNumber: strPtr("KIT-001"),
		Supporter:    strPtr("Wanjiru"),
		HasBonus:     "true",
	})
	require.NoError(t, err)

	client, err := svc.GetClient(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Brian Otieno", *client.FullName)
	assert.Equal(t, "brian@example.com", *client.Email)
	assert.Equal(t, "Starlink Standard", *client.ServiceType)
	assert.Equal(t, "KIT-001", *client.SerialNumber)
	assert.False(t, client.Price.Valid)
	assert.True(t, client.HasBonus)
	assert.Equal(t, clock, client.CreatedAt)
	assert.Equal(t, clock, client.UpdatedAt)
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	svc, repo := newTestService(t, 0)

	_, err := svc.CreateClient(context.Background(), ClientInput{Price: -5.0})
	assert.ErrorIs(t, err, ErrClientValidation)

	total, _ := repo.Count(context.Background(), nil)
	assert.Zero(t, total)
}

func TestCreateAtCapacityIsRejected(t *testing.T) {
	svc, repo := newTestService(t, DefaultMaxClients)
	for i := 0; i < DefaultMaxClients; i++ {
		repo.Seed(models.Client{CreatedAt: clock})
	}

	_, err := svc.CreateClient(context.Background(), ClientInput{FullName: strPtr("One too many")})
	assert.ErrorIs(t, err, ErrCapacityReached)

	total, err := repo.Count(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxClients, total)
}

func TestCreateBelowCapacitySucceeds(t *testing.T) {
	svc, repo := newTestService(t, 2)
	repo.Seed(models.Client{CreatedAt: clock})

	_, err := svc.CreateClient(context.Background(), ClientInput{})
	require.NoError(t, err)

	_, err = svc.CreateClient(context.Background(), ClientInput{})
	assert.ErrorIs(t, err, ErrCapacityReached)
}

func TestListClientsPagination(t *testing.T) {
	svc, repo := newTestService(t, 0)
	for i := 0; i < 25; i++ {
		repo.Seed(models.Client{
			FullName:  strPtr(fmt.Sprintf("client-%02d", i)),
			CreatedAt: clock.Add(time.Duration(i) * time.Minute),
		})
	}
	ctx := context.Background()

	page, err := svc.ListClients(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Data, 10)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 25, page.TotalClients)
	assert.Equal(t, "client-24", *page.Data[0].FullName)
	for i := 1; i < len(page.Data); i++ {
		assert.False(t, page.Data[i].CreatedAt.After(page.Data[i-1].CreatedAt), "data must be newest first")
	}

	last, err := svc.ListClients(ctx, 3, 10)
	require.NoError(t, err)
	assert.Len(t, last.Data, 5)
	assert.Equal(t, "client-00", *last.Data[4].FullName)

	beyond, err := svc.ListClients(ctx, 4, 10)
	require.NoError(t, err)
	assert.NotNil(t, beyond.Data)
	assert.Empty(t, beyond.Data)
	assert.Equal(t, 4, beyond.CurrentPage)
	assert.Equal(t, 3, beyond.TotalPages)
}

func TestListClientsHugePageIsEmpty(t *testing.T) {
	svc, repo := newTestService(t, 0)
	for i := 0; i < 3; i++ {
		repo.Seed(models.Client{CreatedAt: clock})
	}

	page, err := svc.ListClients(context.Background(), math.MaxInt, 10)
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Equal(t, math.MaxInt, page.CurrentPage)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 3, page.TotalClients)
	assert.Zero(t, repo.SelectPageCalls, "no offset should reach the store past the last page")
}

func TestListClientsEmptyStore(t *testing.T) {
	svc, _ := newTestService(t, 0)

	page, err := svc.ListClients(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.Equal(t, 0, page.TotalPages)
	assert.Equal(t, 0, page.TotalClients)
}

func TestListClientsRejectsNonPositive(t *testing.T) {
	svc, _ := newTestService(t, 0)

	_, err := svc.ListClients(context.Background(), 0, 10)
	assert.ErrorIs(t, err, ErrClientValidation)

	_, err = svc.ListClients(context.Background(), 1, -3)
	assert.ErrorIs(t, err, ErrClientValidation)
}

func TestListClientsClampsLimit(t *testing.T) {
	svc, repo := newTestService(t, 0)
	for i := 0; i < MaxPageSize+5; i++ {
		repo.Seed(models.Client{CreatedAt: clock})
	}

	page, err := svc.ListClients(context.Background(), 1, 1000)
	require.NoError(t, err)
	assert.Len(t, page.Data, MaxPageSize)
	assert.Equal(t, 2, page.TotalPages)
}

func TestUpdateReplacesAllFields(t *testing.T) {
	svc, repo := newTestService(t, 0)
	created := clock.AddDate(0, 0, -3)
	id := repo.Seed(models.Client{
		FullName:  strPtr("Old"),
		Email:     strPtr("old@example.com"),
		HasBonus:  true,
		CreatedAt: created,
		UpdatedAt: created,
	})

	err := svc.UpdateClient(context.Background(), id, ClientInput{FullName: strPtr("New"), Price: 10.0})
	require.NoError(t, err)

	client, err := svc.GetClient(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "New", *client.FullName)
	assert.Nil(t, client.Email, "update is a full replace, not a patch")
	assert.False(t, client.HasBonus)
	assert.Equal(t, "10", client.Price.Decimal.String())
	assert.Equal(t, created, client.CreatedAt)
	assert.Equal(t, clock, client.UpdatedAt)
}

func TestUpdateMissingClient(t *testing.T) {
	svc, repo := newTestService(t, 0)

	err := svc.UpdateClient(context.Background(), 404, ClientInput{FullName: strPtr("Ghost")})
	assert.ErrorIs(t, err, ErrClientNotFound)

	total, _ := repo.Count(context.Background(), nil)
	assert.Zero(t, total, "update must not insert")
}

func TestDeleteClient(t *testing.T) {
	svc, repo := newTestService(t, 0)
	id := repo.Seed(models.Client{CreatedAt: clock})

	require.NoError(t, svc.DeleteClient(context.Background(), id))
	assert.ErrorIs(t, svc.DeleteClient(context.Background(), id), ErrClientNotFound)

	_, err := svc.GetClient(context.Background(), id)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestStorageErrorsPropagate(t *testing.T) {
	svc, repo := newTestService(t, 0)
	repo.Err = fmt.Errorf("%w: connection reset", repositories.ErrDatabaseError)
	ctx := context.Background()

	_, err := svc.ListClients(ctx, 1, 10)
	assert.ErrorIs(t, err, repositories.ErrDatabaseError)

	_, err = svc.CreateClient(ctx, ClientInput{})
	assert.ErrorIs(t, err, repositories.ErrDatabaseError)

	err = svc.DeleteClient(ctx, 1)
	assert.ErrorIs(t, err, repositories.ErrDatabaseError)
	assert.NotErrorIs(t, err, ErrClientNotFound)

	_, err = svc.Reminders(ctx)
	assert.ErrorIs(t, err, repositories.ErrDatabaseError)
}
