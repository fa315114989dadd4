package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stanstork/luxerent-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var invoiceCols = []string{"id", "tenant_id", "apartment_id", "amount", "due_date", "status", "description", "created_at"}

func TestInvoiceRepository_ListByTenant(t *testing.T) {
	db, mock := newMock(t)
	due := time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2023, time.October, 25, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT (.+) FROM luxerent.invoices WHERE tenant_id = \$1`).
		WithArgs("t2").
		WillReturnRows(sqlmock.NewRows(invoiceCols).
			AddRow("inv2", "t2", "2", "1500.00", due, "PENDING", "November Rent", created).
			AddRow("inv5", "t2", "2", "1500.00", due.AddDate(0, 1, 0), "PENDING", nil, created))

	invoices, err := NewInvoiceRepository(db).ListByTenant(context.Background(), "t2")
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Equal(t, "inv2", invoices[0].ID)
	assert.True(t, decimal.NewFromInt(1500).Equal(invoices[0].Amount))
	assert.Equal(t, models.PaymentStatusPending, invoices[0].Status)
	assert.Equal(t, due, invoices[0].DueDate)
	assert.Equal(t, "", invoices[1].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepository_GetNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`SELECT (.+) FROM luxerent.invoices WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(invoiceCols))

	_, err := NewInvoiceRepository(db).Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepository_UpdateStatus(t *testing.T) {
	db, mock := newMock(t)
	due := time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`UPDATE luxerent.invoices SET status = \$2 WHERE id = \$1 RETURNING`).
		WithArgs("inv2", models.PaymentStatusPaid).
		WillReturnRows(sqlmock.NewRows(invoiceCols).
			AddRow("inv2", "t2", "2", "1500", due, "PAID", "November Rent", due))

	inv, err := NewInvoiceRepository(db).UpdateStatus(context.Background(), "inv2", models.PaymentStatusPaid)
	require.NoError(t, err)
	assert.True(t, inv.IsPaid())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepository_UpdateStatusRejectsUnknownStatus(t *testing.T) {
	db, mock := newMock(t)

	_, err := NewInvoiceRepository(db).UpdateStatus(context.Background(), "inv2", "REFUNDED")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantRepository(t *testing.T) {
	db, mock := newMock(t)
	start := time.Date(2023, time.May, 15, 0, 0, 0, 0, time.UTC)
	cols := []string{"id", "name", "email", "phone", "apartment_id", "lease_start", "lease_end"}

	mock.ExpectQuery(`SELECT (.+) FROM luxerent.tenants ORDER BY name`).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("t2", "Jane Smith", "jane@example.com", "555-0102", "2", start, start.AddDate(1, 0, 0)))
	mock.ExpectQuery(`SELECT (.+) FROM luxerent.tenants WHERE id = \$1`).
		WithArgs("t9").
		WillReturnError(sql.ErrNoRows)

	repo := NewTenantRepository(db)
	tenants, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tenants, 1)
	assert.Equal(t, "Jane Smith", tenants[0].Name)

	_, err = repo.Get(context.Background(), "t9")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApartmentRepository_List(t *testing.T) {
	db, mock := newMock(t)
	cols := []string{"id", "unit_number", "floor", "type", "rent_amount", "status", "landlord_id"}

	mock.ExpectQuery(`SELECT (.+) FROM luxerent.apartments`).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("1", "101", 1, "Studio", "1200", "OCCUPIED", "u-1").
			AddRow("3", "201", 2, "2BHK", "2200", "VACANT", nil))

	apartments, err := NewApartmentRepository(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, apartments, 2)
	require.NotNil(t, apartments[0].LandlordID)
	assert.Equal(t, "u-1", *apartments[0].LandlordID)
	assert.Nil(t, apartments[1].LandlordID)
	assert.Equal(t, models.ApartmentStatusVacant, apartments[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReminderRepository_GetConfig(t *testing.T) {
	db, mock := newMock(t)
	cols := []string{"enabled", "send_before_days", "send_after_days", "methods"}

	mock.ExpectQuery(`SELECT (.+) FROM luxerent.reminder_config WHERE id = 1`).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(true, 5, 2, "{SMS}"))
	mock.ExpectQuery(`SELECT (.+) FROM luxerent.reminder_config WHERE id = 1`).
		WillReturnRows(sqlmock.NewRows(cols))

	repo := NewReminderRepository(db)
	cfg, err := repo.GetConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ReminderConfig{Enabled: true, SendBeforeDays: 5, SendAfterDays: 2, Methods: []models.ReminderMethod{models.ReminderMethodSMS}}, cfg)

	cfg, err = repo.GetConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultReminderConfig(), cfg)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReminderRepository_UpdateConfig(t *testing.T) {
	db, mock := newMock(t)
	cols := []string{"enabled", "send_before_days", "send_after_days", "methods"}

	mock.ExpectQuery(`INSERT INTO luxerent.reminder_config`).
		WithArgs(false, 7, 0, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(false, 7, 0, "{}"))

	cfg, err := NewReminderRepository(db).UpdateConfig(context.Background(), models.ReminderConfig{SendBeforeDays: 7})
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.NotNil(t, cfg.Methods)
	assert.Empty(t, cfg.Methods)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReminderRepository_AppendLogsCommits(t *testing.T) {
	db, mock := newMock(t)
	entries := []models.SentReminder{logEntry(1), logEntry(2)}

	mock.ExpectBegin()
	for _, e := range entries {
		mock.ExpectExec(`INSERT INTO luxerent.sent_reminders`).
			WithArgs(e.ID, e.InvoiceID, e.TenantName, e.SentAt, e.Method, e.Type).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, NewReminderRepository(db).AppendLogs(context.Background(), entries))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReminderRepository_AppendLogsRollsBack(t *testing.T) {
	db, mock := newMock(t)
	entries := []models.SentReminder{logEntry(1), logEntry(2)}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO luxerent.sent_reminders`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO luxerent.sent_reminders`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := NewReminderRepository(db).AppendLogs(context.Background(), entries)
	assert.ErrorContains(t, err, "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReminderRepository_AppendLogsEmpty(t *testing.T) {
	db, mock := newMock(t)

	require.NoError(t, NewReminderRepository(db).AppendLogs(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReminderRepository_ListLogs(t *testing.T) {
	db, mock := newMock(t)
	sent := time.Date(2023, time.October, 29, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT (.+) FROM luxerent.sent_reminders ORDER BY sent_at DESC`).
		WithArgs(defaultLogLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id", "invoice_id", "tenant_name", "sent_at", "method", "type"}).
			AddRow("r2", "inv3", "Robert Brown", sent, "EMAIL", "OVERDUE"))

	logs, err := NewReminderRepository(db).ListLogs(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ReminderTypeOverdue, logs[0].Type)
	assert.Equal(t, models.ReminderMethodEmail, logs[0].Method)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var userCols = []string{"id", "name", "email", "phone", "password_hash", "role", "tenant_id", "landlord_id", "created_at"}

func TestUserRepository_CreateUser(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec(`INSERT INTO luxerent.users`).
		WithArgs(sqlmock.AnyArg(), "Owner", "owner@example.com", "", sqlmock.AnyArg(), models.RoleLandlord, nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	user, err := NewUserRepository(db).CreateUser(CreateUserParams{
		Name: "Owner", Email: "owner@example.com", Password: "pw", Role: models.RoleLandlord,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleLandlord, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateUserDuplicateEmail(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec(`INSERT INTO luxerent.users`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := NewUserRepository(db).CreateUser(CreateUserParams{Email: "owner@example.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_AuthenticateUser(t *testing.T) {
	db, mock := newMock(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	created := time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		mock.ExpectQuery(`SELECT (.+) FROM luxerent.users WHERE email = \$1`).
			WithArgs("jane@example.com").
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow("u-1", "Jane Smith", "jane@example.com", nil, string(hash), "TENANT", "t2", nil, created))
	}
	mock.ExpectQuery(`SELECT (.+) FROM luxerent.users WHERE email = \$1`).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows(userCols))

	repo := NewUserRepository(db)
	user, err := repo.AuthenticateUser(" Jane@Example.com ", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, models.RoleTenant, user.Role)
	require.NotNil(t, user.TenantID)
	assert.Equal(t, "t2", *user.TenantID)

	_, err = repo.AuthenticateUser("jane@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = repo.AuthenticateUser("ghost@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_IsEmailAvailable(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("admin@luxerent.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	available, err := NewUserRepository(db).IsEmailAvailable("ADMIN@luxerent.com")
	require.NoError(t, err)
	assert.False(t, available)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetUserByIDNotFound(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM luxerent.users WHERE id = \$1`).
		WithArgs("u-404").
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := NewUserRepository(db).GetUserByID("u-404")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
