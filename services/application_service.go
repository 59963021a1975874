package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"licensegate/models"
	"licensegate/utils"
)

var (
	// ErrApplicationNameConflict는 동일한 이름의 애플리케이션이 이미 존재할 때 반환됩니다.
	ErrApplicationNameConflict = errors.New("application name already exists")
	// ErrApplicationNotFound는 애플리케이션이 존재하지 않을 때 반환됩니다.
	ErrApplicationNotFound = errors.New("application not found")
)

// ApplicationService는 애플리케이션 레지스트리에 대한 비즈니스 로직을 정의합니다.
// 발급기가 위임하는 "애플리케이션 존재 확인" 협력자입니다.
type ApplicationService interface {
	Create(ctx context.Context, req models.CreateApplicationRequest) (models.Application, error)
	List(ctx context.Context) ([]models.Application, error)
	Get(ctx context.Context, id string) (models.Application, error)
}

type applicationService struct {
	db SQLExecutor
}

// NewApplicationService는 ApplicationService 구현체를 생성합니다.
func NewApplicationService(db SQLExecutor) ApplicationService {
	return &applicationService{db: db}
}

func (s *applicationService) Create(ctx context.Context, req models.CreateApplicationRequest) (models.Application, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Application{}, errors.New("application name is required")
	}

	id, err := utils.GenerateID("app")
	if err != nil {
		return models.Application{}, err
	}

	now := utils.FormatDateTimeForDB(utils.NowUTC())
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO applications (id, name, description, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, req.Description, models.ApplicationStatusActive, now, now,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return models.Application{}, ErrApplicationNameConflict
		}
		return models.Application{}, err
	}

	return models.Application{
		ID:          id,
		Name:        name,
		Description: req.Description,
		Status:      models.ApplicationStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *applicationService) List(ctx context.Context) ([]models.Application, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, status, created_at, updated_at
		FROM applications ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := make([]models.Application, 0)
	for rows.Next() {
		var (
			app         models.Application
			description sql.NullString
		)
		if err := rows.Scan(&app.ID, &app.Name, &description, &app.Status, &app.CreatedAt, &app.UpdatedAt); err != nil {
			return nil, err
		}
		if description.Valid {
			app.Description = description.String
		}
		apps = append(apps, app)
	}

	return apps, rows.Err()
}

func (s *applicationService) Get(ctx context.Context, id string) (models.Application, error) {
	var (
		app         models.Application
		description sql.NullString
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, status, created_at, updated_at
		FROM applications WHERE id = ?`,
		id,
	).Scan(&app.ID, &app.Name, &description, &app.Status, &app.CreatedAt, &app.UpdatedAt)

	if err == sql.ErrNoRows {
		return models.Application{}, ErrApplicationNotFound
	}
	if err != nil {
		return models.Application{}, err
	}
	if description.Valid {
		app.Description = description.String
	}
	return app, nil
}
