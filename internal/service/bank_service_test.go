package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbanca/bank-api/internal/domain"
	"github.com/openbanca/bank-api/internal/domain/errorcase"
	"github.com/openbanca/bank-api/internal/service/auth"
	"github.com/openbanca/bank-api/internal/store"
)

const (
	testToken = "11111111-1111-1111-1111-111111111111"
	testTTL   = 15 * time.Minute
)

var testNow = time.Date(2021, 12, 25, 12, 0, 0, 0, time.UTC)

// fake stores keep everything in memory; WithTx returns the same instance
// because the transaction bracket is asserted separately through sqlmock.

type fakeUserStore struct {
	users  map[int64]*domain.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int64]*domain.User{}, nextID: 1}
}

func (f *fakeUserStore) Create(ctx context.Context, user *domain.User) (int64, error) {
	for _, u := range f.users {
		if u.Username == user.Username && u.Status == domain.LifecycleActive {
			return 0, store.ErrUsernameExists
		}
	}
	id := f.nextID
	f.nextID++
	stored := *user
	stored.ID = id
	f.users[id] = &stored
	return id, nil
}

func (f *fakeUserStore) SetIBAN(ctx context.Context, userID int64, iban string) error {
	f.users[userID].IBAN = iban
	return nil
}

func (f *fakeUserStore) GetActiveByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == username && u.Status == domain.LifecycleActive {
			copied := *u
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) Close(ctx context.Context, userID int64) error {
	f.users[userID].Status = domain.LifecycleClosed
	return nil
}

func (f *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore { return f }

type fakeSessionStore struct {
	sessions map[string]*domain.Session
	now      time.Time
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]*domain.Session{}, now: testNow}
}

func (f *fakeSessionStore) Now(ctx context.Context) (time.Time, error) {
	return f.now, nil
}

func (f *fakeSessionStore) Create(ctx context.Context, token string, userID int64) error {
	f.sessions[token] = &domain.Session{
		Token:             token,
		UserID:            userID,
		CreationTimestamp: f.now,
		LastUpdated:       f.now,
		Status:            domain.LifecycleActive,
	}
	return nil
}

func (f *fakeSessionStore) DeactivateAllForUser(ctx context.Context, userID int64) error {
	for _, s := range f.sessions {
		if s.UserID == userID {
			s.Status = domain.LifecycleClosed
		}
	}
	return nil
}

func (f *fakeSessionStore) GetActiveByToken(ctx context.Context, token string) (*domain.Session, error) {
	s, ok := f.sessions[token]
	if !ok || s.Status != domain.LifecycleActive {
		return nil, store.ErrSessionNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSessionStore) Refresh(ctx context.Context, token string) error {
	f.sessions[token].LastUpdated = f.now
	return nil
}

func (f *fakeSessionStore) Deactivate(ctx context.Context, token string) error {
	f.sessions[token].Status = domain.LifecycleClosed
	return nil
}

func (f *fakeSessionStore) WithTx(tx *sql.Tx) store.SessionStore { return f }

type fakeDepositStore struct {
	deposits map[int64]*domain.Deposit
	nextID   int64
}

func newFakeDepositStore() *fakeDepositStore {
	return &fakeDepositStore{deposits: map[int64]*domain.Deposit{}, nextID: 1}
}

func (f *fakeDepositStore) Create(ctx context.Context, deposit *domain.Deposit) (int64, error) {
	for _, d := range f.deposits {
		if d.UserID == deposit.UserID && d.Name == deposit.Name && d.Status == domain.LifecycleActive {
			return 0, store.ErrDepositNameExists
		}
	}
	id := f.nextID
	f.nextID++
	stored := *deposit
	stored.ID = id
	f.deposits[id] = &stored
	return id, nil
}

func (f *fakeDepositStore) GetActiveByName(ctx context.Context, userID int64, name string) (*domain.Deposit, error) {
	for _, d := range f.deposits {
		if d.UserID == userID && d.Name == name && d.Status == domain.LifecycleActive {
			copied := *d
			return &copied, nil
		}
	}
	return nil, store.ErrDepositNotFound
}

func (f *fakeDepositStore) ListActiveForUser(ctx context.Context, userID int64) ([]domain.Deposit, error) {
	var out []domain.Deposit
	for _, d := range f.deposits {
		if d.UserID == userID && d.Status == domain.LifecycleActive {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeDepositStore) UpdateAmount(ctx context.Context, depositID int64, amount int64) error {
	f.deposits[depositID].Amount = amount
	return nil
}

func (f *fakeDepositStore) Close(ctx context.Context, depositID int64) error {
	f.deposits[depositID].Status = domain.LifecycleClosed
	return nil
}

func (f *fakeDepositStore) CloseAllForUser(ctx context.Context, userID int64) error {
	for _, d := range f.deposits {
		if d.UserID == userID {
			d.Status = domain.LifecycleClosed
		}
	}
	return nil
}

func (f *fakeDepositStore) WithTx(tx *sql.Tx) store.DepositStore { return f }

type fakeTransactionStore struct {
	records []domain.Transaction
	now     time.Time
	nextID  int64
}

func newFakeTransactionStore() *fakeTransactionStore {
	return &fakeTransactionStore{now: testNow, nextID: 1}
}

func (f *fakeTransactionStore) Create(ctx context.Context, transaction *domain.Transaction) error {
	stored := *transaction
	stored.ID = f.nextID
	f.nextID++
	stored.Timestamp = domain.FormatTimestamp(f.now)
	f.records = append(f.records, stored)
	return nil
}

func (f *fakeTransactionStore) ListForDeposit(ctx context.Context, depositID int64) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for _, record := range f.records {
		if record.DepositID == depositID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (f *fakeTransactionStore) WithTx(tx *sql.Tx) store.TransactionStore { return f }

type fakeLoanStore struct {
	loans []domain.Loan
}

func (f *fakeLoanStore) ListActiveForUser(ctx context.Context, userID int64) ([]domain.Loan, error) {
	var out []domain.Loan
	for _, l := range f.loans {
		if l.UserID == userID && l.Status == domain.LifecycleActive {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLoanStore) WithTx(tx *sql.Tx) store.LoanStore { return f }

// fakeHasher and fakeVerifier keep credential tests deterministic and fast.

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

type fakeVerifier struct{}

func (fakeVerifier) Compare(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return auth.ErrPasswordMismatch
	}
	return nil
}

type fixture struct {
	svc          *BankService
	mock         sqlmock.Sqlmock
	users        *fakeUserStore
	sessions     *fakeSessionStore
	deposits     *fakeDepositStore
	transactions *fakeTransactionStore
	loans        *fakeLoanStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := &fixture{
		mock:         mock,
		users:        newFakeUserStore(),
		sessions:     newFakeSessionStore(),
		deposits:     newFakeDepositStore(),
		transactions: newFakeTransactionStore(),
		loans:        &fakeLoanStore{},
	}
	f.svc = NewBankService(
		db,
		f.users, f.sessions, f.deposits, f.transactions, f.loans,
		fakeHasher{}, fakeVerifier{},
		testTTL,
		nil,
	)
	f.svc.now = func() time.Time { return testNow }
	f.svc.newToken = func() string { return testToken }
	return f
}

// expectTx registers n begin/commit brackets. Business rejections commit
// too; only infrastructure failures roll back.
func (f *fixture) expectTx(n int) {
	for i := 0; i < n; i++ {
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()
	}
}

func (f *fixture) seedUser(t *testing.T, username, password string) int64 {
	t.Helper()
	id, err := f.users.Create(context.Background(), &domain.User{
		Username:       username,
		HashedPassword: "hashed:" + password,
		Name:           "Mario",
		Surname:        "Rossi",
		Status:         domain.LifecycleActive,
	})
	require.NoError(t, err)
	require.NoError(t, f.users.SetIBAN(context.Background(), id, domain.BuildIBAN(id)))
	return id
}

func (f *fixture) seedSession(t *testing.T, token string, userID int64, lastUpdated time.Time) {
	t.Helper()
	f.sessions.sessions[token] = &domain.Session{
		Token:             token,
		UserID:            userID,
		CreationTimestamp: lastUpdated,
		LastUpdated:       lastUpdated,
		Status:            domain.LifecycleActive,
	}
}

func requireStatus(t *testing.T, err error, want errorcase.Code) *errorcase.Status {
	t.Helper()
	var status *errorcase.Status
	require.True(t, errors.As(err, &status), "expected errorcase.Status, got %v", err)
	require.Equal(t, want, status.Code)
	return status
}

func TestAuthenticateOpensSession(t *testing.T) {
	f := newFixture(t)
	userID := f.seedUser(t, "mario", "Sup3r-Secret")
	f.seedSession(t, "00000000-0000-0000-0000-000000000000", userID, testNow.Add(-time.Minute))
	f.expectTx(1)

	token, err := f.svc.Authenticate(context.Background(), "mario", "Sup3r-Secret")
	require.NoError(t, err)
	assert.Equal(t, testToken, token)

	// the old session is superseded
	old := f.sessions.sessions["00000000-0000-0000-0000-000000000000"]
	assert.Equal(t, domain.LifecycleClosed, old.Status)
	assert.Equal(t, domain.LifecycleActive, f.sessions.sessions[testToken].Status)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestAuthenticateUnknownUsernameAndWrongPasswordLookAlike(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "mario", "Sup3r-Secret")
	f.expectTx(2)

	_, err := f.svc.Authenticate(context.Background(), "ghost-user", "Sup3r-Secret")
	unknownUser := requireStatus(t, err, errorcase.NotFound)

	_, err = f.svc.Authenticate(context.Background(), "mario", "Wrong-Passw0rd")
	wrongPassword := requireStatus(t, err, errorcase.NotFound)

	assert.Equal(t, unknownUser.Code, wrongPassword.Code)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestAuthenticateValidatesBeforeTouchingTheStore(t *testing.T) {
	f := newFixture(t)
	// no transaction expected

	_, err := f.svc.Authenticate(context.Background(), "", "Sup3r-Secret")
	requireStatus(t, err, errorcase.ExceedingMinLength)

	_, err = f.svc.Authenticate(context.Background(), "mario", "short")
	requireStatus(t, err, errorcase.ExceedingMinLength)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateUserAssignsDerivedIBAN(t *testing.T) {
	f := newFixture(t)
	f.expectTx(1)

	user, err := f.svc.CreateUser(context.Background(), "mario", "Sup3r-Secret", "Mario", "Rossi")
	require.NoError(t, err)
	assert.Equal(t, domain.BuildIBAN(user.ID), user.IBAN)
	assert.Equal(t, "hashed:Sup3r-Secret", f.users.users[user.ID].HashedPassword)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateUserRejectsDuplicateUsername(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "mario", "Sup3r-Secret")
	f.expectTx(1)

	_, err := f.svc.CreateUser(context.Background(), "mario", "An0ther-Pass", "Luigi", "Verdi")
	requireStatus(t, err, errorcase.AlreadyExist)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGetUserReturnsProfileAndRenewsSession(t *testing.T) {
	f := newFixture(t)
	userID := f.seedUser(t, "mario", "Sup3r-Secret")
	f.seedSession(t, testToken, userID, testNow.Add(-10*time.Minute))
	f.expectTx(1)

	user, err := f.svc.GetUser(context.Background(), testToken)
	require.NoError(t, err)
	assert.Equal(t, "mario", user.Username)
	assert.Equal(t, testNow, f.sessions.sessions[testToken].LastUpdated)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGetUserUnknownToken(t *testing.T) {
	f := newFixture(t)
	f.expectTx(1)

	_, err := f.svc.GetUser(context.Background(), testToken)
	requireStatus(t, err, errorcase.Unauthorized)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGetUserExpiredSessionIsDeactivatedAndCommitted(t *testing.T) {
	f := newFixture(t)
	userID := f.seedUser(t, "mario", "Sup3r-Secret")
	f.seedSession(t, testToken, userID, testNow.Add(-testTTL))
	f.expectTx(1)

	_, err := f.svc.GetUser(context.Background(), testToken)
	requireStatus(t, err, errorcase.Timeout)

	// the expiry write must survive the rejection
	assert.Equal(t, domain.LifecycleClosed, f.sessions.sessions[testToken].Status)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGetUserSessionJustInsideTheWindow(t *testing.T) {
	f := newFixture(t)
	userID := f.seedUser(t, "mario", "Sup3r-Secret")
	f.seedSession(t, testToken, userID, testNow.Add(-testTTL+time.Second))
	f.expectTx(1)

	_, err := f.svc.GetUser(context.Background(), testToken)
	require.NoError(t, err)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCloseUserClosesAccountAndSession(t *testing.T) {
	f := newFixture(t)
	userID := f.seedUser(t, "mario", "Sup3r-Secret")
	f.seedSession(t, testToken, userID, testNow)
	f.expectTx(1)

	require.NoError(t, f.svc.CloseUser(context.Background(), testToken))
	assert.Equal(t, domain.LifecycleClosed, f.users.users[userID].Status)
	assert.Equal(t, domain.LifecycleClosed, f.sessions.sessions[testToken].Status)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestClosedUsernameCanRegisterAgain(t *testing.T) {
	f := newFixture(t)
	userID := f.seedUser(t, "mario", "Sup3r-Secret")
	f.seedSession(t, testToken, userID, testNow)
	f.expectTx(2)

	require.NoError(t, f.svc.CloseUser(context.Background(), testToken))

	user, err := f.svc.CreateUser(context.Background(), "mario", "An0ther-Pass!", "Mario", "Rossi")
	require.NoError(t, err)
	assert.NotEqual(t, userID, user.ID)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCloseSession(t *testing.T) {
	f := newFixture(t)
	userID := f.seedUser(t, "mario", "Sup3r-Secret")
	f.seedSession(t, testToken, userID, testNow)
	f.expectTx(1)

	require.NoError(t, f.svc.CloseSession(context.Background(), testToken))
	assert.Equal(t, domain.LifecycleClosed, f.sessions.sessions[testToken].Status)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCloseSessionUnknownToken(t *testing.T) {
	f := newFixture(t)
	f.expectTx(1)

	err := f.svc.CloseSession(context.Background(), testToken)
	requireStatus(t, err, errorcase.Unauthorized)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestStoreFailureRollsBackAndIsNotAStatus(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "mario", "Sup3r-Secret")
	f.seedSession(t, testToken, 1, testNow)

	f.mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	_, err := f.svc.GetUser(context.Background(), testToken)
	require.Error(t, err)
	var status *errorcase.Status
	assert.False(t, errors.As(err, &status))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}
