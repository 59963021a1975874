package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licensegate/models"
)

func TestCreateApplication(t *testing.T) {
	db := setupTestDB(t)
	svc := NewApplicationService(db)

	app, err := svc.Create(context.Background(), models.CreateApplicationRequest{
		Name:        "photo-editor",
		Description: "Desktop photo editor",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, app.ID)
	assert.Equal(t, models.ApplicationStatusActive, app.Status)

	got, err := svc.Get(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, "photo-editor", got.Name)
	assert.Equal(t, "Desktop photo editor", got.Description)
}

func TestCreateApplicationNameConflict(t *testing.T) {
	db := setupTestDB(t)
	svc := NewApplicationService(db)

	_, err := svc.Create(context.Background(), models.CreateApplicationRequest{Name: "photo-editor"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), models.CreateApplicationRequest{Name: "photo-editor"})
	assert.ErrorIs(t, err, ErrApplicationNameConflict)
}

func TestCreateApplicationEmptyName(t *testing.T) {
	db := setupTestDB(t)
	svc := NewApplicationService(db)

	_, err := svc.Create(context.Background(), models.CreateApplicationRequest{Name: "   "})
	assert.Error(t, err)
}

func TestGetApplicationNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewApplicationService(db)

	_, err := svc.Get(context.Background(), "app-missing")
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestListApplications(t *testing.T) {
	db := setupTestDB(t)
	svc := NewApplicationService(db)

	_, err := svc.Create(context.Background(), models.CreateApplicationRequest{Name: "first"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), models.CreateApplicationRequest{Name: "second"})
	require.NoError(t, err)

	apps, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, apps, 2)
}
