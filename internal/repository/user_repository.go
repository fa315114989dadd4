package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stanstork/luxerent-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	CreateUser(params CreateUserParams) (models.User, error)
	AuthenticateUser(email, password string) (models.User, error)
	IsEmailAvailable(email string) (bool, error)
	GetUserByID(userID string) (models.User, error)
}

type CreateUserParams struct {
	Name       string
	Email      string
	Phone      string
	Password   string
	Role       models.UserRole
	TenantID   *string
	LandlordID *string
}

// newUser validates params and builds the user record to store. Tenant-role
// users without an explicit tenant id are given one derived from their own id.
func newUser(params CreateUserParams, now time.Time) (models.User, error) {
	role := models.NormalizeRole(params.Role)
	if role == "" {
		role = models.RoleTenant
	}
	if !models.IsValidRole(role) {
		return models.User{}, fmt.Errorf("invalid role %q", params.Role)
	}

	email := normalizeEmail(params.Email)
	if email == "" {
		return models.User{}, errors.New("email is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(params.Name),
		Email:        email,
		Phone:        strings.TrimSpace(params.Phone),
		PasswordHash: string(hash),
		Role:         role,
		TenantID:     params.TenantID,
		LandlordID:   params.LandlordID,
		CreatedAt:    now.UTC(),
	}
	if role == models.RoleTenant && (user.TenantID == nil || *user.TenantID == "") {
		tid := "t-" + user.ID[:8]
		user.TenantID = &tid
	}
	return user, nil
}

func checkPassword(user models.User, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, email, phone, password_hash, role, tenant_id, landlord_id, created_at`

func (u *userRepository) CreateUser(params CreateUserParams) (models.User, error) {
	user, err := newUser(params, time.Now())
	if err != nil {
		return models.User{}, err
	}

	query := `
		INSERT INTO luxerent.users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = u.db.Exec(query, user.ID, user.Name, user.Email, user.Phone, user.PasswordHash, user.Role, user.TenantID, user.LandlordID, user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}

	return user, nil
}

func (u *userRepository) AuthenticateUser(email string, password string) (models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM luxerent.users
		WHERE email = $1`
	user, err := scanUser(u.db.QueryRow(query, normalizeEmail(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if err := checkPassword(user, password); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (u *userRepository) IsEmailAvailable(email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM luxerent.users WHERE email = $1)`

	var taken bool
	if err := u.db.QueryRow(query, normalizeEmail(email)).Scan(&taken); err != nil {
		return false, err
	}
	return !taken, nil
}

func (u *userRepository) GetUserByID(userID string) (models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM luxerent.users
		WHERE id = $1`
	user, err := scanUser(u.db.QueryRow(query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	return user, err
}

func scanUser(scanner rowScanner) (models.User, error) {
	var (
		user       models.User
		phone      sql.NullString
		tenantID   sql.NullString
		landlordID sql.NullString
	)
	if err := scanner.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&phone,
		&user.PasswordHash,
		&user.Role,
		&tenantID,
		&landlordID,
		&user.CreatedAt,
	); err != nil {
		return models.User{}, err
	}

	user.Phone = phone.String
	user.Role = models.NormalizeRole(user.Role)
	if !models.IsValidRole(user.Role) {
		return models.User{}, errors.New("user has invalid role")
	}
	if tenantID.Valid {
		val := tenantID.String
		user.TenantID = &val
	}
	if landlordID.Valid {
		val := landlordID.String
		user.LandlordID = &val
	}
	return user, nil
}

// EnsureDefaultAdmin creates the administrator account on first start. It
// reports whether a new account was created.
func EnsureDefaultAdmin(users UserRepository, name, email, password string) (bool, error) {
	available, err := users.IsEmailAvailable(email)
	if err != nil {
		return false, fmt.Errorf("check admin email: %w", err)
	}
	if !available {
		return false, nil
	}
	_, err = users.CreateUser(CreateUserParams{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     models.RoleAdmin,
	})
	if errors.Is(err, ErrEmailTaken) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}
