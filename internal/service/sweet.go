package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tuannm151/sweetshop/internal/apperr"
	"github.com/tuannm151/sweetshop/internal/model"
	"github.com/tuannm151/sweetshop/internal/repository"
	"github.com/tuannm151/sweetshop/internal/storage/db"
)

type CreateSweetParams struct {
	Name     string
	Category string
	Price    float64
	Quantity int
}

// UpdateSweetParams carries a partial update. Nil fields keep their prior
// values.
type UpdateSweetParams struct {
	Name     *string
	Category *string
	Price    *float64
	Quantity *int
}

type PurchaseResult struct {
	PurchasedQuantity int
	RemainingQuantity int
	TotalCost         float64
}

type RestockResult struct {
	RestockedQuantity int
	PreviousQuantity  int
	NewQuantity       int
}

type SweetService interface {
	CreateSweet(ctx context.Context, params CreateSweetParams) (model.Sweet, error)
	GetSweet(ctx context.Context, id int64) (model.Sweet, error)
	ListSweets(ctx context.Context) ([]model.Sweet, error)
	SearchSweets(ctx context.Context, params repository.SearchSweetsParams) ([]model.Sweet, error)
	UpdateSweet(ctx context.Context, id int64, params UpdateSweetParams) (model.Sweet, error)
	DeleteSweet(ctx context.Context, id int64) error
	Purchase(ctx context.Context, id int64, quantity int) (PurchaseResult, error)
	Restock(ctx context.Context, id int64, quantity int) (RestockResult, error)
}

type sweetService struct {
	db        db.DB
	sweetRepo repository.SweetRepository
}

func NewSweetService(db db.DB, sweetRepo repository.SweetRepository) SweetService {
	return &sweetService{
		db:        db,
		sweetRepo: sweetRepo,
	}
}

func (s *sweetService) CreateSweet(ctx context.Context, params CreateSweetParams) (model.Sweet, error) {
	// Reject negative values instead of clamping them.
	if params.Price < 0 {
		return model.Sweet{}, apperr.NegativePriceErr
	}
	if params.Quantity < 0 {
		return model.Sweet{}, apperr.NegativeQuantityErr
	}

	if _, err := s.sweetRepo.GetSweetByName(ctx, params.Name); err == nil {
		return model.Sweet{}, apperr.SweetNameTakenErr
	} else if !errors.Is(err, repository.ErrNotFound) {
		return model.Sweet{}, fmt.Errorf("get sweet by name: %w", err)
	}

	sweet, err := s.sweetRepo.CreateSweet(ctx, repository.CreateSweetParams{
		Name:     params.Name,
		Category: params.Category,
		Price:    params.Price,
		Quantity: params.Quantity,
	})
	if err != nil {
		return model.Sweet{}, fmt.Errorf("create sweet: %w", err)
	}

	return sweet, nil
}

func (s *sweetService) GetSweet(ctx context.Context, id int64) (model.Sweet, error) {
	sweet, err := s.sweetRepo.GetSweet(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Sweet{}, apperr.SweetNotFoundErr
		}
		return model.Sweet{}, fmt.Errorf("get sweet: %w", err)
	}

	return sweet, nil
}

func (s *sweetService) ListSweets(ctx context.Context) ([]model.Sweet, error) {
	sweets, err := s.sweetRepo.ListSweets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sweets: %w", err)
	}

	return sweets, nil
}

func (s *sweetService) SearchSweets(ctx context.Context, params repository.SearchSweetsParams) ([]model.Sweet, error) {
	sweets, err := s.sweetRepo.SearchSweets(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search sweets: %w", err)
	}

	return sweets, nil
}

// UpdateSweet applies only the fields present in params. Renames are not
// re-checked for name uniqueness; a duplicate rename surfaces as a generic
// internal error from the unique index.
func (s *sweetService) UpdateSweet(ctx context.Context, id int64, params UpdateSweetParams) (model.Sweet, error) {
	var updated model.Sweet
	err := s.db.WithTx(ctx, func(tx db.DB) error {
		sweet, err := s.sweetRepo.WithDB(tx).GetSweetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.SweetNotFoundErr
			}
			return fmt.Errorf("get sweet for update: %w", err)
		}

		if params.Name != nil {
			sweet.Name = *params.Name
		}
		if params.Category != nil {
			sweet.Category = *params.Category
		}
		if params.Price != nil {
			if *params.Price < 0 {
				return apperr.NegativePriceErr
			}
			sweet.Price = *params.Price
		}
		if params.Quantity != nil {
			if *params.Quantity < 0 {
				return apperr.NegativeQuantityErr
			}
			sweet.Quantity = *params.Quantity
		}

		if err := s.sweetRepo.WithDB(tx).UpdateSweet(ctx, sweet); err != nil {
			return fmt.Errorf("update sweet: %w", err)
		}

		updated = sweet
		return nil
	})
	if err != nil {
		return model.Sweet{}, err
	}

	return updated, nil
}

func (s *sweetService) DeleteSweet(ctx context.Context, id int64) error {
	if err := s.sweetRepo.DeleteSweet(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.SweetNotFoundErr
		}
		return fmt.Errorf("delete sweet: %w", err)
	}

	return nil
}

// Purchase decrements stock inside a transaction holding a row lock, so two
// racing purchases can never jointly drive quantity below zero.
func (s *sweetService) Purchase(ctx context.Context, id int64, quantity int) (PurchaseResult, error) {
	var result PurchaseResult
	err := s.db.WithTx(ctx, func(tx db.DB) error {
		sweet, err := s.sweetRepo.WithDB(tx).GetSweetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.SweetNotFoundErr
			}
			return fmt.Errorf("get sweet for update: %w", err)
		}

		if quantity <= 0 {
			return apperr.ValidationErr.WithMsg("Purchase quantity must be positive")
		}
		if sweet.Quantity < quantity {
			return apperr.InsufficientStockErr.WithMsg(fmt.Sprintf(
				"Insufficient quantity. Available: %d, Requested: %d",
				sweet.Quantity, quantity,
			))
		}

		sweet.Quantity -= quantity
		if err := s.sweetRepo.WithDB(tx).UpdateSweet(ctx, sweet); err != nil {
			return fmt.Errorf("update sweet: %w", err)
		}

		result = PurchaseResult{
			PurchasedQuantity: quantity,
			RemainingQuantity: sweet.Quantity,
			// Total cost uses the unit price read under the lock, not a
			// price cached by the caller.
			TotalCost: float64(quantity) * sweet.Price,
		}
		return nil
	})
	if err != nil {
		return PurchaseResult{}, err
	}

	return result, nil
}

func (s *sweetService) Restock(ctx context.Context, id int64, quantity int) (RestockResult, error) {
	var result RestockResult
	err := s.db.WithTx(ctx, func(tx db.DB) error {
		sweet, err := s.sweetRepo.WithDB(tx).GetSweetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.SweetNotFoundErr
			}
			return fmt.Errorf("get sweet for update: %w", err)
		}

		if quantity <= 0 {
			return apperr.NonPositiveRestockErr
		}

		previous := sweet.Quantity
		sweet.Quantity += quantity
		if err := s.sweetRepo.WithDB(tx).UpdateSweet(ctx, sweet); err != nil {
			return fmt.Errorf("update sweet: %w", err)
		}

		result = RestockResult{
			RestockedQuantity: quantity,
			PreviousQuantity:  previous,
			NewQuantity:       sweet.Quantity,
		}
		return nil
	})
	if err != nil {
		return RestockResult{}, err
	}

	return result, nil
}
