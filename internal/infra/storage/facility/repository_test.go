package facility

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TTA-ReservationService/internal/domain"
)

func newTestRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func facilityRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "category", "unit_label", "plate_tag", "capacity",
		"pickup_location", "operator_name", "operator_contact",
		"description", "status", "created_at", "updated_at",
	}).AddRow(
		int64(1), "standard", "Bus 42", "AB-1234", 12,
		"Main terminal", "Coastal Tours", "+1-555-0100",
		nil, "available", now, now,
	)
}

func TestRepository_List_FiltersByStatusAndCategory(t *testing.T) {
	repo, mock := newTestRepository(t)

	category := domain.CategoryStandard
	status := domain.FacilityAvailable

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, category, unit_label, plate_tag, capacity, pickup_location, operator_name, operator_contact, description, status, created_at, updated_at FROM facilities WHERE category = $1 AND status = $2 ORDER BY category ASC, unit_label ASC`,
	)).
		WithArgs("standard", "available").
		WillReturnRows(facilityRows())

	facilities, err := repo.List(context.Background(), domain.FacilityFilter{
		Category: &category,
		Status:   &status,
	})

	require.NoError(t, err)
	require.Len(t, facilities, 1)
	assert.Equal(t, int64(1), facilities[0].ID)
	assert.Equal(t, domain.CategoryStandard, facilities[0].Category)
	assert.Equal(t, domain.FacilityAvailable, facilities[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, category, unit_label, plate_tag, capacity, pickup_location, operator_name, operator_contact, description, status, created_at, updated_at FROM facilities WHERE id = $1`,
	)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(facilityColumns))

	_, err := repo.GetByID(context.Background(), 99)

	assert.ErrorIs(t, err, ErrFacilityNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatusIf_Succeeds(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE facilities SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
	)).
		WithArgs("reserved", int64(1), "available").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatusIf(context.Background(), 1, domain.FacilityAvailable, domain.FacilityReserved)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatusIf_LosesRace(t *testing.T) {
	// Ноль затронутых строк: объект уже не в ожидаемом статусе
	repo, mock := newTestRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE facilities SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
	)).
		WithArgs("reserved", int64(1), "available").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatusIf(context.Background(), 1, domain.FacilityAvailable, domain.FacilityReserved)

	assert.ErrorIs(t, err, ErrStatusConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
