package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

// ContentRepository covers the published-content tables: FAQ questions,
// news and platform documents.
type ContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// FAQ.

func (r *ContentRepository) ListQuestions(ctx context.Context, q listquery.Params) ([]models.Question, int64, error) {
	var count int64
	if err := q.ApplyFilters(r.db.WithContext(ctx).Model(&models.Question{})).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}
	questions := make([]models.Question, 0)
	err := q.Apply(r.db.WithContext(ctx).Model(&models.Question{})).Find(&questions).Error
	if err != nil {
		return nil, 0, err
	}
	return questions, count, nil
}

func (r *ContentRepository) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	out := &models.Question{}
	err := r.db.WithContext(ctx).First(out, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ContentRepository) CreateQuestion(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *ContentRepository) UpdateQuestion(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Save(question).Error
}

func (r *ContentRepository) DeleteQuestion(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Question{}, "id = ?", id).Error
}

// News.

func (r *ContentRepository) ListNews(ctx context.Context, q listquery.Params) ([]models.News, int64, error) {
	var count int64
	if err := q.ApplyFilters(r.db.WithContext(ctx).Model(&models.News{})).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}
	news := make([]models.News, 0)
	err := q.Apply(r.db.WithContext(ctx).Model(&models.News{})).Find(&news).Error
	if err != nil {
		return nil, 0, err
	}
	return news, count, nil
}

func (r *ContentRepository) GetNews(ctx context.Context, id string) (*models.News, error) {
	out := &models.News{}
	err := r.db.WithContext(ctx).First(out, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ContentRepository) CreateNews(ctx context.Context, item *models.News) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *ContentRepository) UpdateNews(ctx context.Context, item *models.News) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *ContentRepository) DeleteNews(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.News{}, "id = ?", id).Error
}

// Platform documents.

func (r *ContentRepository) ListPlatformDocuments(ctx context.Context, kind string, q listquery.Params) ([]models.PlatformDocument, int64, error) {
	base := func() *gorm.DB {
		db := r.db.WithContext(ctx).Model(&models.PlatformDocument{})
		if kind != "" {
			db = db.Where("kind = ?", kind)
		}
		return db
	}
	var count int64
	if err := q.ApplyFilters(base()).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	docs := make([]models.PlatformDocument, 0)
	err := q.Apply(base()).Find(&docs).Error
	if err != nil {
		return nil, 0, err
	}
	return docs, count, nil
}

func (r *ContentRepository) GetPlatformDocument(ctx context.Context, id string) (*models.PlatformDocument, error) {
	out := &models.PlatformDocument{}
	err := r.db.WithContext(ctx).First(out, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ContentRepository) CreatePlatformDocument(ctx context.Context, doc *models.PlatformDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *ContentRepository) UpdatePlatformDocument(ctx context.Context, doc *models.PlatformDocument) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

func (r *ContentRepository) DeletePlatformDocument(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.PlatformDocument{}, "id = ?", id).Error
}

// Files.

func (r *ContentRepository) CreateFile(ctx context.Context, file *models.File) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *ContentRepository) GetFile(ctx context.Context, id string) (*models.File, error) {
	out := &models.File{}
	err := r.db.WithContext(ctx).First(out, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
