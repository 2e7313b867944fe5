package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oduppinsjr/rapid-web-ai/internal/apperror"
	"github.com/oduppinsjr/rapid-web-ai/internal/model"
	repo "github.com/oduppinsjr/rapid-web-ai/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*repo.GormStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return repo.NewGormStore(gormDB), mock
}

func TestGormStore_IncrementTemplateViewCount(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.NewString()

	mock.ExpectExec(`UPDATE "templates" SET "view_count"=view_count \+ \$1 WHERE id = \$2`).
		WithArgs(1, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.IncrementTemplateViewCount(context.Background(), id))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_IncrementTemplateViewCount_Missing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE "templates" SET "view_count"=view_count \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.IncrementTemplateViewCount(context.Background(), uuid.NewString())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	// not a uuid, never reaches the database
	err = store.IncrementTemplateViewCount(context.Background(), "not-a-uuid")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_IncrementAIGenerations(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`UPDATE "users" SET "ai_generations_used"=ai_generations_used \+ \$1.*WHERE id = .*RETURNING \*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "plan", "ai_generations_used"}).
			AddRow("user-1", "free", 3))

	user, err := store.IncrementAIGenerations(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, 3, user.AIGenerationsUsed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_IncrementAIGenerations_Missing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`UPDATE "users" SET "ai_generations_used"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "plan", "ai_generations_used"}))

	_, err := store.IncrementAIGenerations(context.Background(), "ghost")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_EnsureUser_RefreshesIdentityFields(t *testing.T) {
	store, mock := newMockStore(t)
	email := "ana@example.com"

	mock.ExpectExec(`INSERT INTO "users" .* ON CONFLICT \("id"\) DO UPDATE SET ` +
		`"email"=COALESCE\(EXCLUDED\.email, users\.email\),` +
		`"first_name"=COALESCE\(EXCLUDED\.first_name, users\.first_name\),` +
		`"last_name"=COALESCE\(EXCLUDED\.last_name, users\.last_name\),` +
		`"profile_image_url"=COALESCE\(EXCLUDED\.profile_image_url, users\.profile_image_url\)$`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WithArgs("user-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "plan", "ai_generations_used"}).
			AddRow("user-1", email, "pro", 7))

	user, err := store.EnsureUser(context.Background(), &model.User{ID: "user-1", Email: &email})
	require.NoError(t, err)
	require.NotNil(t, user.Email)
	assert.Equal(t, email, *user.Email)
	assert.Equal(t, model.PlanPro, user.Plan)
	assert.Equal(t, 7, user.AIGenerationsUsed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_EnsureUser_EmailTaken(t *testing.T) {
	store, mock := newMockStore(t)
	email := "taken@example.com"

	mock.ExpectExec(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"})

	_, err := store.EnsureUser(context.Background(), &model.User{ID: "user-2", Email: &email})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_CreateWebsite(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO "websites"`).WillReturnResult(sqlmock.NewResult(0, 1))

	website := &model.Website{
		UserID:    "user-1",
		Name:      "Taco Bar",
		Subdomain: "taco-bar-123",
		Content:   datatypes.JSON(`{"pages":[]}`),
	}
	require.NoError(t, store.CreateWebsite(context.Background(), website))
	assert.NotEmpty(t, website.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_CreateWebsite_SubdomainTaken(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO "websites"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_websites_subdomain"})

	err := store.CreateWebsite(context.Background(), &model.Website{
		UserID:    "user-1",
		Name:      "Taco Bar",
		Subdomain: "taco-bar-123",
		Content:   datatypes.JSON(`{}`),
	})
	require.Error(t, err)

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindConflict, appErr.Kind)
	assert.Equal(t, "Subdomain already taken", appErr.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_UpdateWebsite_SubdomainTaken(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`UPDATE "websites" SET`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	subdomain := "taken"
	_, err := store.UpdateWebsite(context.Background(), uuid.NewString(), model.WebsitePatch{Subdomain: &subdomain})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_GetWebsite_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "websites" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.GetWebsite(context.Background(), uuid.NewString())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = store.GetWebsite(context.Background(), "42")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_GetWebsiteBySubdomain(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.NewString()
	content := `{"pages":[{"name":"Home","slug":"home","content":{"hero":{"title":"Tacos"}}}],"styling":{"primaryColor":"#000"}}`

	mock.ExpectQuery(`SELECT \* FROM "websites" WHERE subdomain = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "subdomain", "content", "is_published"}).
			AddRow(id, "user-1", "Taco Bar", "taco-bar-123", []byte(content), true))

	website, err := store.GetWebsiteBySubdomain(context.Background(), "taco-bar-123")
	require.NoError(t, err)
	assert.Equal(t, id, website.ID)
	assert.True(t, website.IsPublished)
	assert.JSONEq(t, content, string(website.Content))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_ListWebsitesByUser_StorageError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "websites" WHERE user_id = \$1 ORDER BY updated_at DESC`).
		WillReturnError(errors.New("connection reset by peer"))

	_, err := store.ListWebsitesByUser(context.Background(), "user-1")
	assert.True(t, apperror.Is(err, apperror.KindStorage))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_ListTemplates_ByCategory(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "templates" WHERE is_active = \$1 AND category = \$2 ORDER BY view_count DESC,created_at ASC`).
		WithArgs(true, model.CategoryRestaurant).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "category", "view_count"}).
			AddRow(uuid.NewString(), "Bistro", "restaurant", 9).
			AddRow(uuid.NewString(), "Diner", "restaurant", 4))

	templates, err := store.ListTemplates(context.Background(), model.CategoryRestaurant)
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, 9, templates[0].ViewCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_DeleteWebsite_Missing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM "websites" WHERE id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.DeleteWebsite(context.Background(), uuid.NewString())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}
