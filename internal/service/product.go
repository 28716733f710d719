package service

import (
	"context"

	"rentout-backend/internal/domain"
	"rentout-backend/internal/ledger"
	"rentout-backend/internal/logger"
	"rentout-backend/internal/repository"
)

type productService struct {
	repos repository.Repositories
	tx    repository.Transactor
}

func NewProductService(repos repository.Repositories, tx repository.Transactor) ProductService {
	return &productService{repos: repos, tx: tx}
}

func (s *productService) CreateProduct(ctx context.Context, p *domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.repos.Products.Create(ctx, p)
}

func (s *productService) GetProduct(ctx context.Context, id int32) (*ProductDetail, error) {
	p, err := s.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	holding, err := s.repos.RentOuts.ListByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProductDetail{
		Product:      p,
		Availability: ledger.ProductQuantityInfo(*p, holding),
	}, nil
}

// UpdateProduct refuses to shrink stock below what is currently out with customers.
func (s *productService) UpdateProduct(ctx context.Context, p *domain.Product) error {
	logger.EnterMethod("productService.UpdateProduct", "productID", p.ID)
	if err := p.Validate(); err != nil {
		logger.ExitMethodWithError("productService.UpdateProduct", err)
		return err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		current, err := repos.Products.GetForUpdate(ctx, p.ID)
		if err != nil {
			return err
		}
		holding, err := repos.RentOuts.ListByProduct(ctx, p.ID)
		if err != nil {
			return err
		}
		rented := ledger.ProductQuantityInfo(*current, holding).CurrentlyRentedQuantity
		if p.Quantity < rented {
			return domain.NewValidationError("quantity",
				"cannot be less than currently rented quantity (%d)", rented)
		}
		p.CreatedOn = current.CreatedOn
		return repos.Products.Update(ctx, p)
	})
	if err != nil {
		logger.ExitMethodWithError("productService.UpdateProduct", err, "productID", p.ID)
		return err
	}
	logger.ExitMethod("productService.UpdateProduct", "productID", p.ID)
	return nil
}

func (s *productService) ListProducts(ctx context.Context, query string, page, pageSize int32) ([]domain.Product, int32, error) {
	return s.repos.Products.List(ctx, query, page, pageSize)
}
