package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/dto"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/models"
	appErrors "github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/errors"
)

type blockRepository interface {
	List(ctx context.Context, filter models.BlockFilter) ([]models.BlockSummary, int, error)
	FindByID(ctx context.Context, id string) (*models.Block, error)
	ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error)
	Create(ctx context.Context, block *models.Block) error
	Update(ctx context.Context, block *models.Block) error
	Deactivate(ctx context.Context, id string) error
}

// BlockService manages dormitory blocks.
type BlockService struct {
	repo      blockRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBlockService constructs the block service.
func NewBlockService(repo blockRepository, validate *validator.Validate, logger *zap.Logger) *BlockService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BlockService{repo: repo, validator: validate, logger: logger}
}

// List returns blocks with room aggregates.
func (s *BlockService) List(ctx context.Context, filter models.BlockFilter) ([]models.BlockSummary, *models.Pagination, error) {
	blocks, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list blocks")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return blocks, pagination, nil
}

// Get returns one block by ID.
func (s *BlockService) Get(ctx context.Context, id string) (*models.Block, error) {
	block, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "block not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load block")
	}
	return block, nil
}

// Create registers a new block.
func (s *BlockService) Create(ctx context.Context, req dto.CreateBlockRequest) (*models.Block, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid block payload")
	}
	exists, err := s.repo.ExistsByCode(ctx, req.Code, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate block code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "block code already used")
	}
	block := &models.Block{
		Code:        req.Code,
		Name:        req.Name,
		ReservedFor: req.ReservedFor,
		Accessible:  req.Accessible,
		Status:      models.BlockStatusActive,
	}
	if err := s.repo.Create(ctx, block); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create block")
	}
	return block, nil
}

// Update modifies an existing block. The code is immutable.
func (s *BlockService) Update(ctx context.Context, id string, req dto.UpdateBlockRequest) (*models.Block, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid block payload")
	}
	block, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "block not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load block")
	}
	block.Name = req.Name
	block.ReservedFor = req.ReservedFor
	block.Accessible = req.Accessible
	if req.Status != "" {
		block.Status = req.Status
	}
	if err := s.repo.Update(ctx, block); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update block")
	}
	return block, nil
}

// Deactivate removes a block from assignment passes. Existing placements in
// the block stay untouched.
func (s *BlockService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "block not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load block")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate block")
	}
	return nil
}
