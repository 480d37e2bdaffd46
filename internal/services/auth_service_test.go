package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/teamboard/teamboard-api/internal/models"
	"github.com/teamboard/teamboard-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthServiceTestEnv(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Department{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return NewAuthService(repository.NewUserRepository(db))
}

func TestAuthService_Signup_RequiresEmail(t *testing.T) {
	service := setupAuthServiceTestEnv(t)

	_, err := service.Signup(SignupInput{
		Email:       "   ",
		Password:    "supersecret",
		DisplayName: "Ana",
	})
	require.ErrorIs(t, err, ErrEmailRequired)
}

func TestAuthService_Signup_NormalizesEmail(t *testing.T) {
	service := setupAuthServiceTestEnv(t)

	user, err := service.Signup(SignupInput{
		Email:       "  Ana.Garcia@Example.COM ",
		Password:    "supersecret",
		DisplayName: "Ana García",
	})
	require.NoError(t, err)
	require.Equal(t, "ana.garcia@example.com", user.Email)

	_, err = service.Signup(SignupInput{
		Email:       "ana.garcia@example.com",
		Password:    "supersecret",
		DisplayName: "Ana García",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}
