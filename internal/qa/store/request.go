package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/remon-rakibul/DueDiligence/internal/model"
)

type requests struct {
	db *gorm.DB
}

func newRequests(db *gorm.DB) *requests {
	return &requests{db}
}

// Create creates a new async request.
func (r *requests) Create(ctx context.Context, request *model.Request) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// Update updates an existing request.
func (r *requests) Update(ctx context.Context, request *model.Request) error {
	return r.db.WithContext(ctx).Save(request).Error
}

// Get retrieves a request by id.
func (r *requests) Get(ctx context.Context, id string) (*model.Request, error) {
	var request model.Request
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}
