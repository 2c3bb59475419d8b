package container

import (
	"go.uber.org/zap"

	app "nutrition-bot/internal/application"
	"nutrition-bot/internal/domain/port"
)

type Container struct {
	UserService       *app.UserService
	AssessmentService *app.AssessmentService
	Analyzer          *app.Analyzer
}

// New собирает сервисы. history и cache могут быть nil.
func New(userRepo port.UserRepository, analyzer *app.Analyzer, history port.ResultRepository, cache port.ResultCache, logger *zap.Logger) *Container {
	userService := app.NewUserService(userRepo)
	assessmentService := app.NewAssessmentService(analyzer, history, cache, logger)

	return &Container{
		UserService:       userService,
		AssessmentService: assessmentService,
		Analyzer:          analyzer,
	}
}

// Close освобождает анализатор и его бэкенд.
func (c *Container) Close() error {
	if c.Analyzer == nil {
		return nil
	}
	return c.Analyzer.Close()
}
