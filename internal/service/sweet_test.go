package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm151/sweetshop/internal/apperr"
	"github.com/tuannm151/sweetshop/internal/model"
	"github.com/tuannm151/sweetshop/internal/repository"
	"github.com/tuannm151/sweetshop/internal/service"
	"github.com/tuannm151/sweetshop/internal/storage/db"
	"github.com/tuannm151/sweetshop/pkg/ptr"
)

// fakeTxDB serializes WithTx calls with a mutex, mimicking the row lock a
// real transaction takes with SELECT ... FOR UPDATE.
type fakeTxDB struct {
	mu sync.Mutex
}

func (f *fakeTxDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	panic("not used")
}

func (f *fakeTxDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("not used")
}

func (f *fakeTxDB) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("not used")
}

func (f *fakeTxDB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return txFunc(f)
}

type fakeSweetRepo struct {
	mu     sync.Mutex
	nextID int64
	sweets map[int64]model.Sweet
}

func newFakeSweetRepo() *fakeSweetRepo {
	return &fakeSweetRepo{sweets: map[int64]model.Sweet{}}
}

func (r *fakeSweetRepo) WithDB(db.DB) repository.SweetRepository { return r }

func (r *fakeSweetRepo) CreateSweet(_ context.Context, params repository.CreateSweetParams) (model.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	sweet := model.Sweet{
		ID:       r.nextID,
		Name:     params.Name,
		Category: params.Category,
		Price:    params.Price,
		Quantity: params.Quantity,
	}
	r.sweets[sweet.ID] = sweet
	return sweet, nil
}

func (r *fakeSweetRepo) GetSweet(_ context.Context, id int64) (model.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sweet, ok := r.sweets[id]
	if !ok {
		return model.Sweet{}, repository.ErrNotFound
	}
	return sweet, nil
}

func (r *fakeSweetRepo) GetSweetForUpdate(ctx context.Context, id int64) (model.Sweet, error) {
	return r.GetSweet(ctx, id)
}

func (r *fakeSweetRepo) GetSweetByName(_ context.Context, name string) (model.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sweet := range r.sweets {
		if sweet.Name == name {
			return sweet, nil
		}
	}
	return model.Sweet{}, repository.ErrNotFound
}

func (r *fakeSweetRepo) ListSweets(context.Context) ([]model.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sweets := make([]model.Sweet, 0, len(r.sweets))
	for _, sweet := range r.sweets {
		sweets = append(sweets, sweet)
	}
	return sweets, nil
}

func (r *fakeSweetRepo) SearchSweets(ctx context.Context, _ repository.SearchSweetsParams) ([]model.Sweet, error) {
	return r.ListSweets(ctx)
}

func (r *fakeSweetRepo) UpdateSweet(_ context.Context, sweet model.Sweet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sweets[sweet.ID]; !ok {
		return repository.ErrNotFound
	}
	r.sweets[sweet.ID] = sweet
	return nil
}

func (r *fakeSweetRepo) DeleteSweet(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sweets[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.sweets, id)
	return nil
}

func newSweetService() (service.SweetService, *fakeSweetRepo) {
	repo := newFakeSweetRepo()
	return service.NewSweetService(&fakeTxDB{}, repo), repo
}

func TestSweetServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Should create a sweet", func(t *testing.T) {
		svc, _ := newSweetService()

		sweet, err := svc.CreateSweet(ctx, service.CreateSweetParams{
			Name:     "Gum",
			Category: "Candy",
			Price:    1.00,
			Quantity: 5,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), sweet.ID)
		assert.Equal(t, 5, sweet.Quantity)
	})

	t.Run("Should reject a duplicate name", func(t *testing.T) {
		svc, _ := newSweetService()

		_, err := svc.CreateSweet(ctx, service.CreateSweetParams{Name: "Gum", Category: "Candy", Price: 1, Quantity: 5})
		require.NoError(t, err)

		_, err = svc.CreateSweet(ctx, service.CreateSweetParams{Name: "Gum", Category: "Other", Price: 2, Quantity: 1})
		assert.ErrorIs(t, err, apperr.SweetNameTakenErr)
	})

	t.Run("Should reject negative price and quantity instead of clamping", func(t *testing.T) {
		svc, repo := newSweetService()

		_, err := svc.CreateSweet(ctx, service.CreateSweetParams{Name: "Gum", Category: "Candy", Price: -1, Quantity: 5})
		assert.ErrorIs(t, err, apperr.NegativePriceErr)

		_, err = svc.CreateSweet(ctx, service.CreateSweetParams{Name: "Gum", Category: "Candy", Price: 1, Quantity: -5})
		assert.ErrorIs(t, err, apperr.NegativeQuantityErr)

		assert.Empty(t, repo.sweets)
	})
}

func TestSweetServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("Should apply only the provided fields", func(t *testing.T) {
		svc, _ := newSweetService()

		created, err := svc.CreateSweet(ctx, service.CreateSweetParams{Name: "Gum", Category: "Candy", Price: 1.00, Quantity: 5})
		require.NoError(t, err)

		updated, err := svc.UpdateSweet(ctx, created.ID, service.UpdateSweetParams{
			Price: ptr.New(9.99),
		})
		require.NoError(t, err)

		assert.Equal(t, "Gum", updated.Name)
		assert.Equal(t, "Candy", updated.Category)
		assert.Equal(t, 5, updated.Quantity)
		assert.Equal(t, 9.99, updated.Price)
	})

	t.Run("Should return not found for a missing sweet", func(t *testing.T) {
		svc, _ := newSweetService()

		_, err := svc.UpdateSweet(ctx, 99, service.UpdateSweetParams{Price: ptr.New(9.99)})
		assert.ErrorIs(t, err, apperr.SweetNotFoundErr)
	})
}

func TestSweetServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("Should delete an existing sweet", func(t *testing.T) {
		svc, repo := newSweetService()

		created, err := svc.CreateSweet(ctx, service.CreateSweetParams{Name: "Gum", Category: "Candy", Price: 1, Quantity: 5})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteSweet(ctx, created.ID))
		assert.Empty(t, repo.sweets)
	})

	t.Run("Should return not found for a missing sweet", func(t *testing.T) {
		svc, _ := newSweetService()

		err := svc.DeleteSweet(ctx, 99)
		assert.ErrorIs(t, err, apperr.SweetNotFoundErr)
	})
}

func TestSweetServicePurchase(t *testing.T) {
	ctx := context.Background()

	t.Run("Should decrement stock and compute the total cost", func(t *testing.T) {
		svc, _ := newSweetService()

		created, err := svc.CreateSweet(ctx, service.CreateSweetParams{Name: "Gum", Category: "Candy", Price: 1.00, Quantity: 5})
		require.NoError(t, err)

		result, err := svc.Purchase(ctx, created.ID, 3)
		require.NoError(t, err)
		assert.Equal(t, 3, result.PurchasedQuantity)
		assert.Equal(t, 2, result.RemainingQuantity)
		assert.Equal(t, 3.00, result.TotalCost)
	})

	t.Run("Should leave stock unchanged on insufficient quantity", func(t *testing.T) {
		svc, repo := newSweetService()

		created, err := svc.CreateSweet(ctx, service.CreateSweetParams{Name: "Gum", Category: "Candy", Price: 1, Quantity: 5})
		require.NoError(t, err)

		_, err = svc.Purchase(ctx, created.ID, 6)
		require.Error(t, err)
		assert.ErrorContains(t, err, "Available: 5, Requested: 6")

		sweet, err := repo.GetSweet(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, sweet.Quantity)
	})

	t.Run("Should return not found before validating the amount", func(t *testing.T) {
		svc, _ := newSweetService()

		_, err := svc.Purchase(ctx, 99, -1)
		assert.ErrorIs(t, err, apperr.SweetNotFoundErr)
	})

	t.Run("Should reject a non-positive amount", func(t *testing.T) {
		svc, _ := newSweetService()

		created, err := svc.CreateSweet(ctx, service.CreateSweetParams{Name: "Gum", Category: "Candy", Price: 1, Quantity: 5})
		require.NoError(t, err)

		_, err = svc.Purchase(ctx, created.ID, 0)
		assert.Error(t, err)
	})

	t.Run("Should let exactly one of two racing purchases win", func(t *testing.T) {
		svc, repo := newSweetService()

		created, err := svc.CreateSweet(ctx, service.CreateSweetParams{Name: "Gum", Category: "Candy", Price: 1, Quantity: 10})
		require.NoError(t, err)

		errs := make(chan error, 2)
		var wg sync.WaitGroup
		for range 2 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.Purchase(ctx, created.ID, 6)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		var failures int
		for err := range errs {
			if err != nil {
				assert.ErrorContains(t, err, "Insufficient quantity")
				failures++
			}
		}
		assert.Equal(t, 1, failures)

		sweet, err := repo.GetSweet(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, sweet.Quantity)
	})
}

func TestSweetServiceRestock(t *testing.T) {
	ctx := context.Background()

	t.Run("Should increment stock and report old and new quantity", func(t *testing.T) {
		svc, _ := newSweetService()

		created, err := svc.CreateSweet(ctx, service.CreateSweetParams{Name: "Gum", Category: "Candy", Price: 1, Quantity: 2})
		require.NoError(t, err)

		result, err := svc.Restock(ctx, created.ID, 10)
		require.NoError(t, err)
		assert.Equal(t, 10, result.RestockedQuantity)
		assert.Equal(t, 2, result.PreviousQuantity)
		assert.Equal(t, 12, result.NewQuantity)
	})

	t.Run("Should reject non-positive amounts and leave stock unchanged", func(t *testing.T) {
		svc, repo := newSweetService()

		created, err := svc.CreateSweet(ctx, service.CreateSweetParams{Name: "Gum", Category: "Candy", Price: 1, Quantity: 2})
		require.NoError(t, err)

		for _, amount := range []int{0, -3} {
			_, err = svc.Restock(ctx, created.ID, amount)
			assert.ErrorIs(t, err, apperr.NonPositiveRestockErr)
		}

		sweet, err := repo.GetSweet(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, sweet.Quantity)
	})

	t.Run("Should return not found before validating the amount", func(t *testing.T) {
		svc, _ := newSweetService()

		_, err := svc.Restock(ctx, 99, 0)
		assert.ErrorIs(t, err, apperr.SweetNotFoundErr)
	})
}
