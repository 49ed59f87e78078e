package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"partner-catalog/internal/database"
	"partner-catalog/internal/domain"
	"partner-catalog/internal/lock"
	"partner-catalog/internal/logger"
	"partner-catalog/internal/metrics"
	"partner-catalog/internal/pricelist"
	"partner-catalog/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PartnerService holds the operations available to supplier accounts
type PartnerService interface {
	UpdatePriceList(ctx context.Context, userID uuid.UUID, url string) error
	GetShop(ctx context.Context, userID uuid.UUID) (*domain.Shop, error)
	SetState(ctx context.Context, userID uuid.UUID, state string) error
	Orders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
}

// PartnerConfig configures price list ingestion
type PartnerConfig struct {
	BaseDir string
	LockTTL time.Duration
}

type partnerService struct {
	shops      repository.ShopRepository
	priceLists repository.PriceListRepository
	orders     repository.OrderRepository
	tx         database.TxManager
	locker     lock.Locker
	cfg        PartnerConfig
	logger     *zap.Logger
}

// NewPartnerService creates a new instance of PartnerService
func NewPartnerService(
	shops repository.ShopRepository,
	priceLists repository.PriceListRepository,
	orders repository.OrderRepository,
	tx database.TxManager,
	locker lock.Locker,
	cfg PartnerConfig,
	logger *zap.Logger,
) PartnerService {
	return &partnerService{
		shops:      shops,
		priceLists: priceLists,
		orders:     orders,
		tx:         tx,
		locker:     locker,
		cfg:        cfg,
		logger:     logger,
	}
}

func ingestionLockKey(userID uuid.UUID) string {
	return "pricelist:shop:" + userID.String()
}

// UpdatePriceList replaces the catalog of the caller's shop with the price
// list addressed by url. The replacement is atomic and serialized per shop.
func (s *partnerService) UpdatePriceList(ctx context.Context, userID uuid.UUID, url string) error {
	log := logger.FromContext(ctx, s.logger).With(zap.String("user_id", userID.String()))
	start := time.Now()
	result, goods := metrics.ResultFailed, 0
	defer func() {
		metrics.RecordIngestion(result, goods, time.Since(start))
	}()

	path, err := pricelist.Resolve(s.cfg.BaseDir, url)
	if err != nil {
		result = metrics.ResultRejected
		return ErrMissingArguments
	}

	doc, err := pricelist.Load(path)
	switch {
	case errors.Is(err, pricelist.ErrFileNotFound):
		result = metrics.ResultRejected
		return ErrMissingArguments
	case errors.Is(err, pricelist.ErrInvalidDocument):
		result = metrics.ResultRejected
		return err
	case err != nil:
		return err
	}

	key := ingestionLockKey(userID)
	token, acquired, err := s.locker.TryLock(ctx, key, s.cfg.LockTTL)
	if err != nil {
		return fmt.Errorf("failed to acquire ingestion lock: %w", err)
	}
	if !acquired {
		result = metrics.ResultBusy
		return ErrIngestionInProgress
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), key, token); err != nil {
			log.Warn("Failed to release ingestion lock", zap.Error(err))
		}
	}()

	var shop *domain.Shop
	err = s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		shop, err = s.replaceCatalog(ctx, userID, doc)
		return err
	})
	if err != nil {
		if isRejectedDocument(err) {
			result = metrics.ResultRejected
			return err
		}
		return fmt.Errorf("failed to ingest price list: %w", err)
	}

	result, goods = metrics.ResultSuccess, len(doc.Goods)
	log.Info("Price list ingested",
		zap.Int64("shop_id", shop.ID),
		zap.String("shop", shop.Name),
		zap.Int("categories", len(doc.Categories)),
		zap.Int("goods", goods),
	)

	return nil
}

func isRejectedDocument(err error) bool {
	return errors.Is(err, repository.ErrShopNameTaken) ||
		errors.Is(err, repository.ErrDuplicateOffer) ||
		errors.Is(err, repository.ErrUnknownCategory)
}

// replaceCatalog must run inside a transaction
func (s *partnerService) replaceCatalog(ctx context.Context, userID uuid.UUID, doc *pricelist.Document) (*domain.Shop, error) {
	shop, err := s.priceLists.UpsertShop(ctx, userID, doc.Shop)
	if err != nil {
		return nil, err
	}

	for _, c := range doc.Categories {
		if err := s.priceLists.UpsertCategory(ctx, &domain.Category{ID: c.ID, Name: c.Name}); err != nil {
			return nil, err
		}
		if err := s.priceLists.AttachCategory(ctx, shop.ID, c.ID); err != nil {
			return nil, err
		}
	}

	if _, err := s.priceLists.DeleteOffers(ctx, shop.ID); err != nil {
		return nil, err
	}

	parameterIDs := make(map[string]int64)
	for _, g := range doc.Goods {
		productID, err := s.priceLists.UpsertProduct(ctx, g.Name, g.Category)
		if err != nil {
			return nil, err
		}

		offer := &domain.ProductInfo{
			ExternalID: g.ID,
			Model:      g.Model,
			Price:      g.Price,
			PriceRRC:   g.PriceRRC,
			Quantity:   g.Quantity,
			ShopID:     shop.ID,
			ProductID:  productID,
		}
		if err := s.priceLists.CreateOffer(ctx, offer); err != nil {
			return nil, err
		}

		for _, name := range slices.Sorted(maps.Keys(g.Parameters)) {
			parameterID, ok := parameterIDs[name]
			if !ok {
				parameterID, err = s.priceLists.UpsertParameter(ctx, name)
				if err != nil {
					return nil, err
				}
				parameterIDs[name] = parameterID
			}
			if err := s.priceLists.SetOfferParameter(ctx, offer.ID, parameterID, g.Parameters[name]); err != nil {
				return nil, err
			}
		}
	}

	return shop, nil
}

// GetShop returns the shop owned by userID
func (s *partnerService) GetShop(ctx context.Context, userID uuid.UUID) (*domain.Shop, error) {
	return s.shops.FindByUser(ctx, userID)
}

// SetState turns order acceptance of the caller's shop on or off
func (s *partnerService) SetState(ctx context.Context, userID uuid.UUID, state string) error {
	if state == "" {
		return ErrMissingArguments
	}

	value, err := ParseTruth(state)
	if err != nil {
		return err
	}

	return s.shops.UpdateState(ctx, userID, value)
}

// Orders returns submitted orders with lines of the caller's shop. A supplier
// without a shop has none.
func (s *partnerService) Orders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	shop, err := s.shops.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrShopNotFound) {
			return []*domain.Order{}, nil
		}
		return nil, err
	}

	return s.orders.ListForShop(ctx, shop.ID)
}
