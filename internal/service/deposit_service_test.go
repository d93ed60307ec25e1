package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbanca/bank-api/internal/domain"
	"github.com/openbanca/bank-api/internal/domain/errorcase"
)

func (f *fixture) seedDeposit(t *testing.T, userID int64, name string, amount int64, depositType domain.DepositType) int64 {
	t.Helper()
	id, err := f.deposits.Create(context.Background(), &domain.Deposit{
		UserID: userID,
		Name:   name,
		Amount: amount,
		Type:   depositType,
		Status: domain.LifecycleActive,
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) seedAuthorized(t *testing.T) int64 {
	t.Helper()
	userID := f.seedUser(t, "mario", "Sup3r-Secret")
	f.seedSession(t, testToken, userID, testNow)
	return userID
}

func TestGetDepositsListsActiveOnes(t *testing.T) {
	f := newFixture(t)
	userID := f.seedAuthorized(t)
	f.seedDeposit(t, userID, "main", 500, domain.DepositStandard)
	holidayID := f.seedDeposit(t, userID, "holiday", 50, domain.DepositSaving)
	require.NoError(t, f.deposits.Close(context.Background(), holidayID))
	f.expectTx(1)

	deposits, err := f.svc.GetDeposits(context.Background(), testToken)
	require.NoError(t, err)
	require.Len(t, deposits, 1)
	assert.Equal(t, "main", deposits[0].Name)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGetDepositsWithoutAnyIsForbidden(t *testing.T) {
	f := newFixture(t)
	f.seedAuthorized(t)
	f.expectTx(1)

	_, err := f.svc.GetDeposits(context.Background(), testToken)
	requireStatus(t, err, errorcase.Forbidden)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGetDepositByName(t *testing.T) {
	f := newFixture(t)
	userID := f.seedAuthorized(t)
	f.seedDeposit(t, userID, "main", 500, domain.DepositStandard)
	f.expectTx(2)

	deposit, err := f.svc.GetDeposit(context.Background(), testToken, "main")
	require.NoError(t, err)
	assert.Equal(t, int64(500), deposit.Amount)

	_, err = f.svc.GetDeposit(context.Background(), testToken, "ghost")
	requireStatus(t, err, errorcase.Forbidden)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGetDepositDoesNotLeakOtherUsersDeposits(t *testing.T) {
	f := newFixture(t)
	f.seedAuthorized(t)
	other := f.seedUser(t, "luigi", "An0ther-Pass!")
	f.seedDeposit(t, other, "main", 500, domain.DepositStandard)
	f.expectTx(1)

	_, err := f.svc.GetDeposit(context.Background(), testToken, "main")
	requireStatus(t, err, errorcase.Forbidden)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateDepositDefaultsToZeroAmount(t *testing.T) {
	f := newFixture(t)
	f.seedAuthorized(t)
	f.expectTx(1)

	deposit, err := f.svc.CreateDeposit(context.Background(), testToken, "main", "standard", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deposit.Amount)
	assert.Equal(t, domain.DepositStandard, deposit.Type)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateDepositSavingRequiresAmount(t *testing.T) {
	f := newFixture(t)
	f.seedAuthorized(t)
	// rejected before any transaction

	_, err := f.svc.CreateDeposit(context.Background(), testToken, "holiday", "saving", nil)
	requireStatus(t, err, errorcase.NullAttributes)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateDepositSavingBelowMinimum(t *testing.T) {
	f := newFixture(t)
	f.seedAuthorized(t)

	amount := int64(-5)
	_, err := f.svc.CreateDeposit(context.Background(), testToken, "holiday", "saving", &amount)
	requireStatus(t, err, errorcase.InvalidDepositAmount)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateDepositRejectsUnknownType(t *testing.T) {
	f := newFixture(t)
	f.seedAuthorized(t)

	_, err := f.svc.CreateDeposit(context.Background(), testToken, "main", "checking", nil)
	requireStatus(t, err, errorcase.IncorrectParsing)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateDepositDuplicateNamePerUser(t *testing.T) {
	f := newFixture(t)
	userID := f.seedAuthorized(t)
	f.seedDeposit(t, userID, "main", 0, domain.DepositStandard)
	f.expectTx(1)

	_, err := f.svc.CreateDeposit(context.Background(), testToken, "main", "standard", nil)
	requireStatus(t, err, errorcase.AlreadyExist)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateDepositSameNameDifferentUsers(t *testing.T) {
	f := newFixture(t)
	f.seedAuthorized(t)
	other := f.seedUser(t, "luigi", "An0ther-Pass!")
	f.seedDeposit(t, other, "main", 0, domain.DepositStandard)
	f.expectTx(1)

	_, err := f.svc.CreateDeposit(context.Background(), testToken, "main", "standard", nil)
	require.NoError(t, err)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUpdateDepositRecordsMovement(t *testing.T) {
	f := newFixture(t)
	userID := f.seedAuthorized(t)
	depositID := f.seedDeposit(t, userID, "main", 500, domain.DepositStandard)
	f.expectTx(1)

	deposit, err := f.svc.UpdateDeposit(context.Background(), testToken, "main", "deposit", 100)
	require.NoError(t, err)
	assert.Equal(t, int64(600), deposit.Amount)

	require.Len(t, f.transactions.records, 1)
	record := f.transactions.records[0]
	assert.Equal(t, depositID, record.DepositID)
	assert.Equal(t, domain.TransactionDeposit, record.Type)
	assert.Equal(t, int64(100), record.Amount)
	assert.Equal(t, "Mario Rossi", record.Author)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUpdateDepositWithdrawToZero(t *testing.T) {
	f := newFixture(t)
	userID := f.seedAuthorized(t)
	f.seedDeposit(t, userID, "main", 500, domain.DepositStandard)
	f.expectTx(1)

	deposit, err := f.svc.UpdateDeposit(context.Background(), testToken, "main", "withdraw", 500)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deposit.Amount)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUpdateDepositGoingNegativeLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	userID := f.seedAuthorized(t)
	depositID := f.seedDeposit(t, userID, "main", 500, domain.DepositStandard)
	f.expectTx(1)

	_, err := f.svc.UpdateDeposit(context.Background(), testToken, "main", "withdraw", 501)
	requireStatus(t, err, errorcase.GoingNegative)

	assert.Equal(t, int64(500), f.deposits.deposits[depositID].Amount)
	assert.Empty(t, f.transactions.records)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUpdateDepositZeroAmountIsNull(t *testing.T) {
	f := newFixture(t)
	f.seedAuthorized(t)

	_, err := f.svc.UpdateDeposit(context.Background(), testToken, "main", "deposit", 0)
	requireStatus(t, err, errorcase.NullAttributes)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUpdateDepositUnknownDeposit(t *testing.T) {
	f := newFixture(t)
	f.seedAuthorized(t)
	f.expectTx(1)

	_, err := f.svc.UpdateDeposit(context.Background(), testToken, "ghost", "deposit", 100)
	requireStatus(t, err, errorcase.NotFound)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCloseDepositMergesIntoDestination(t *testing.T) {
	f := newFixture(t)
	userID := f.seedAuthorized(t)
	sourceID := f.seedDeposit(t, userID, "holiday", 150, domain.DepositSaving)
	destID := f.seedDeposit(t, userID, "main", 500, domain.DepositStandard)
	f.expectTx(1)

	remaining, err := f.svc.CloseDeposit(context.Background(), testToken, "holiday", "main")
	require.NoError(t, err)

	assert.Equal(t, domain.LifecycleClosed, f.deposits.deposits[sourceID].Status)
	assert.Equal(t, int64(650), f.deposits.deposits[destID].Amount)
	require.Len(t, remaining, 1)
	assert.Equal(t, "main", remaining[0].Name)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCloseDepositUnknownDestinationCheckedFirst(t *testing.T) {
	f := newFixture(t)
	f.seedAuthorized(t)
	// neither deposit exists: the destination check must win
	f.expectTx(1)

	_, err := f.svc.CloseDeposit(context.Background(), testToken, "ghost", "also-ghost")
	requireStatus(t, err, errorcase.InvalidDestinationDeposit)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCloseDepositUnknownSource(t *testing.T) {
	f := newFixture(t)
	userID := f.seedAuthorized(t)
	f.seedDeposit(t, userID, "main", 500, domain.DepositStandard)
	f.expectTx(1)

	_, err := f.svc.CloseDeposit(context.Background(), testToken, "ghost", "main")
	requireStatus(t, err, errorcase.Forbidden)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGetHistoryReturnsMovementsInOrder(t *testing.T) {
	f := newFixture(t)
	userID := f.seedAuthorized(t)
	f.seedDeposit(t, userID, "main", 1000, domain.DepositStandard)
	f.expectTx(3)

	_, err := f.svc.UpdateDeposit(context.Background(), testToken, "main", "withdraw", 200)
	require.NoError(t, err)
	_, err = f.svc.UpdateDeposit(context.Background(), testToken, "main", "deposit", 50)
	require.NoError(t, err)

	history, err := f.svc.GetHistory(context.Background(), testToken, "main")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.TransactionWithdraw, history[0].Type)
	assert.Equal(t, domain.TransactionDeposit, history[1].Type)
	assert.Equal(t, domain.FormatTimestamp(testNow), history[0].Timestamp)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGetHistoryEmptyDeposit(t *testing.T) {
	f := newFixture(t)
	userID := f.seedAuthorized(t)
	f.seedDeposit(t, userID, "main", 0, domain.DepositStandard)
	f.expectTx(1)

	history, err := f.svc.GetHistory(context.Background(), testToken, "main")
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGetHistoryUnknownDepositIsForbidden(t *testing.T) {
	f := newFixture(t)
	f.seedAuthorized(t)
	f.expectTx(1)

	_, err := f.svc.GetHistory(context.Background(), testToken, "ghost")
	requireStatus(t, err, errorcase.Forbidden)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGetLoansListsActiveLoans(t *testing.T) {
	f := newFixture(t)
	userID := f.seedAuthorized(t)
	f.loans.loans = append(f.loans.loans, domain.Loan{
		ID:             1,
		UserID:         userID,
		Name:           "mortgage",
		AmountBorrowed: 100_000,
		InterestRate:   2.5,
		Status:         domain.LifecycleActive,
	})
	f.expectTx(1)

	loans, err := f.svc.GetLoans(context.Background(), testToken)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, "mortgage", loans[0].Name)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateLoanValidatesAndHasNoEffect(t *testing.T) {
	f := newFixture(t)
	f.seedAuthorized(t)
	f.expectTx(1)

	loans, err := f.svc.CreateLoan(
		context.Background(),
		testToken, "main", "mortgage", 100_000, "2027-01-01 00:00:00", "secured",
	)
	require.NoError(t, err)
	assert.Empty(t, loans)
	assert.Empty(t, f.loans.loans)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateLoanRejectsUnknownType(t *testing.T) {
	f := newFixture(t)
	f.seedAuthorized(t)

	_, err := f.svc.CreateLoan(
		context.Background(),
		testToken, "main", "mortgage", 100_000, "2027-01-01 00:00:00", "unsecured",
	)
	requireStatus(t, err, errorcase.IncorrectParsing)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCloseLoanValidatesAndHasNoEffect(t *testing.T) {
	f := newFixture(t)
	f.seedAuthorized(t)
	f.expectTx(1)

	loans, err := f.svc.CloseLoan(context.Background(), testToken, "mortgage")
	require.NoError(t, err)
	assert.Empty(t, loans)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSessionExpiryAppliesToDepositsToo(t *testing.T) {
	f := newFixture(t)
	userID := f.seedUser(t, "mario", "Sup3r-Secret")
	f.seedSession(t, testToken, userID, testNow.Add(-testTTL-time.Minute))
	f.seedDeposit(t, userID, "main", 500, domain.DepositStandard)
	f.expectTx(1)

	_, err := f.svc.GetDeposits(context.Background(), testToken)
	requireStatus(t, err, errorcase.Timeout)
	assert.Equal(t, domain.LifecycleClosed, f.sessions.sessions[testToken].Status)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}
