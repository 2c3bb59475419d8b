package storage

import (
	"context"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"nutrition-bot/internal/domain/entity"
	"nutrition-bot/internal/domain/port"
	"nutrition-bot/internal/logging"
)

// assessmentModel строка таблицы истории оценок.
type assessmentModel struct {
	ID          string    `gorm:"primaryKey;size:36"`
	UserID      int64     `gorm:"column:user_id;index:idx_assessments_user_created,priority:1"`
	ClassName   string    `gorm:"column:class_name;size:64"`
	Confidence  float32   `gorm:"column:confidence"`
	Severity    string    `gorm:"column:severity;size:16"`
	Description string    `gorm:"column:description;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at;index:idx_assessments_user_created,priority:2,sort:desc"`
}

// TableName задаёт имя таблицы.
func (assessmentModel) TableName() string {
	return "assessments"
}

// PostgresResultRepository хранит историю оценок в PostgreSQL через gorm.
type PostgresResultRepository struct {
	db *gorm.DB
}

// OpenPostgres подключается к базе по DSN.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, logging.NewOperationError("storage.open_postgres", "", err)
	}
	return db, nil
}

// NewPostgresResultRepository создаёт репозиторий поверх открытого соединения.
func NewPostgresResultRepository(db *gorm.DB) *PostgresResultRepository {
	return &PostgresResultRepository{db: db}
}

// AutoMigrate создаёт таблицу и индекс, если их нет.
func (r *PostgresResultRepository) AutoMigrate(ctx context.Context) error {
	return logging.NewOperationError("storage.migrate", "",
		r.db.WithContext(ctx).AutoMigrate(&assessmentModel{}))
}

// Append сохраняет запись.
func (r *PostgresResultRepository) Append(ctx context.Context, record entity.AssessmentRecord) error {
	model := toModel(record)
	return logging.NewOperationError("storage.append", record.ID,
		r.db.WithContext(ctx).Create(&model).Error)
}

// Recent возвращает до limit последних записей пользователя, новые первыми.
func (r *PostgresResultRepository) Recent(ctx context.Context, userID int64, limit int) ([]entity.AssessmentRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	var models []assessmentModel
	if err := recentQuery(r.db.WithContext(ctx), userID, limit).Find(&models).Error; err != nil {
		return nil, logging.NewOperationError("storage.recent", "", err)
	}

	out := make([]entity.AssessmentRecord, 0, len(models))
	for _, m := range models {
		out = append(out, fromModel(m))
	}
	return out, nil
}

func recentQuery(tx *gorm.DB, userID int64, limit int) *gorm.DB {
	return tx.Model(&assessmentModel{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit)
}

func toModel(r entity.AssessmentRecord) assessmentModel {
	return assessmentModel{
		ID:          r.ID,
		UserID:      r.UserID,
		ClassName:   r.ClassName,
		Confidence:  r.Confidence,
		Severity:    string(r.Severity),
		Description: r.Description,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

func fromModel(m assessmentModel) entity.AssessmentRecord {
	return entity.AssessmentRecord{
		ID:          m.ID,
		UserID:      m.UserID,
		ClassName:   m.ClassName,
		Confidence:  m.Confidence,
		Severity:    entity.Severity(m.Severity),
		Description: m.Description,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

var _ port.ResultRepository = (*PostgresResultRepository)(nil)
