package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/TTA-ReservationService/internal/domain"
	"github.com/m04kA/TTA-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/TTA-ReservationService/pkg/psqlbuilder"
)

// Имена partial unique индексов, дублирующих инварианты движка на стороне БД
// (см. migrations/001_init.sql)
const (
	constraintActiveUser     = "uq_reservations_active_user"
	constraintActiveFacility = "uq_reservations_active_facility"
)

// uniqueViolation код ошибки PostgreSQL unique_violation
const uniqueViolation = "23505"

// reservationColumns колонки таблицы reservations в порядке сканирования
var reservationColumns = []string{
	"id",
	"user_id",
	"facility_id",
	"reservation_date",
	"start_time",
	"end_time",
	"status",
	"released_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с реестром бронирований
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Ограничения "одно активное на пользователя" и "одно активное на объект"
// продублированы partial unique индексами: даже если commit-time проверка
// обойдена, БД отклонит вторую активную строку, и нарушение мапится в
// доменную ошибку
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"user_id",
			"facility_id",
			"reservation_date",
			"start_time",
			"end_time",
			"status",
		).
		Values(
			res.UserID,
			res.FacilityID,
			res.ReservationDate,
			res.StartTime,
			res.EndTime,
			res.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции берет блокировку FOR UPDATE
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservationRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// GetActiveByUserID получает активное бронирование пользователя
// Возвращает ErrReservationNotFound, если активного бронирования нет
// Внутри транзакции берет блокировку FOR UPDATE - это commit-time re-check
// для правила "одно активное бронирование на пользователя"
func (r *Repository) GetActiveByUserID(ctx context.Context, userID int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"user_id": userID, "status": domain.ReservationActive})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByUserID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservationRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByUserID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// GetActiveWithFacilityByUserID получает активное бронирование пользователя
// вместе с данными объекта для отображения
func (r *Repository) GetActiveWithFacilityByUserID(ctx context.Context, userID int64) (*domain.ReservationWithFacility, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"r.id",
		"r.user_id",
		"r.facility_id",
		"r.reservation_date",
		"r.start_time",
		"r.end_time",
		"r.status",
		"r.released_at",
		"r.created_at",
		"r.updated_at",
		"f.id",
		"f.category",
		"f.unit_label",
		"f.plate_tag",
		"f.capacity",
		"f.pickup_location",
		"f.operator_name",
		"f.operator_contact",
		"f.description",
		"f.status",
		"f.created_at",
		"f.updated_at",
	).
		From("reservations r").
		Join("facilities f ON f.id = r.facility_id").
		Where(squirrel.Eq{"r.user_id": userID, "r.status": domain.ReservationActive}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveWithFacilityByUserID - build select query: %v", ErrBuildQuery, err)
	}

	var rw domain.ReservationWithFacility
	var releasedAt sql.NullTime
	var rCreatedAt, rUpdatedAt, fCreatedAt, fUpdatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rw.Reservation.ID,
		&rw.Reservation.UserID,
		&rw.Reservation.FacilityID,
		&rw.Reservation.ReservationDate,
		&rw.Reservation.StartTime,
		&rw.Reservation.EndTime,
		&rw.Reservation.Status,
		&releasedAt,
		&rCreatedAt,
		&rUpdatedAt,
		&rw.Facility.ID,
		&rw.Facility.Category,
		&rw.Facility.UnitLabel,
		&rw.Facility.PlateTag,
		&rw.Facility.Capacity,
		&rw.Facility.PickupLocation,
		&rw.Facility.OperatorName,
		&rw.Facility.OperatorContact,
		&rw.Facility.Description,
		&rw.Facility.Status,
		&fCreatedAt,
		&fUpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveWithFacilityByUserID - scan row: %v", ErrScanRow, err)
	}

	if releasedAt.Valid {
		rw.Reservation.ReleasedAt = &releasedAt.Time
	}
	rw.Reservation.CreatedAt = rCreatedAt.Time
	rw.Reservation.UpdatedAt = rUpdatedAt.Time
	rw.Facility.CreatedAt = fCreatedAt.Time
	rw.Facility.UpdatedAt = fUpdatedAt.Time

	return &rw, nil
}

// GetByUserID получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("reservation_date DESC, start_time DESC")

	// Фильтрация по статусу, если указан
	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// ListActive получает все активные бронирования
// Используется Polling Sync Client-ом для снапшота реестра
func (r *Repository) ListActive(ctx context.Context) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"status": domain.ReservationActive}).
		OrderBy("facility_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// ListActiveElapsed получает активные бронирования, чье временное окно истекло
// к моменту now. Внутри транзакции берет блокировку FOR UPDATE - sweeper
// снимает их, не конкурируя с пользовательским release
func (r *Repository) ListActiveElapsed(ctx context.Context, now time.Time) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// Окно истекло, если дата прошла целиком либо сегодняшний end_time уже позади
	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"status": domain.ReservationActive}).
		Where(
			squirrel.Or{
				squirrel.Lt{"reservation_date": now.Format(domain.DateFormat)},
				squirrel.And{
					squirrel.Eq{"reservation_date": now.Format(domain.DateFormat)},
					squirrel.LtOrEq{"end_time": now.Format(domain.TimeFormat)},
				},
			},
		).
		OrderBy("id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveElapsed - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveElapsed - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// Release переводит бронирование в конечный статус (released или expired)
// с фиксацией времени снятия
func (r *Repository) Release(ctx context.Context, id int64, status domain.ReservationStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", status).
		Set("released_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.ReservationActive}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Release - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Release - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// mapUniqueViolation мапит нарушение partial unique индекса в доменную ошибку
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return nil
	}

	switch pqErr.Constraint {
	case constraintActiveUser:
		return ErrUserHasActive
	case constraintActiveFacility:
		return ErrFacilityTaken
	default:
		return nil
	}
}

// scanReservationRow сканирует одну строку в бронирование
func scanReservationRow(row *sql.Row) (*domain.Reservation, error) {
	var res domain.Reservation
	var releasedAt sql.NullTime
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.FacilityID,
		&res.ReservationDate,
		&res.StartTime,
		&res.EndTime,
		&res.Status,
		&releasedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if releasedAt.Valid {
		res.ReleasedAt = &releasedAt.Time
	}
	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

// scanReservations сканирует результаты запроса в слайс бронирований
func scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		var res domain.Reservation
		var releasedAt sql.NullTime
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&res.ID,
			&res.UserID,
			&res.FacilityID,
			&res.ReservationDate,
			&res.StartTime,
			&res.EndTime,
			&res.Status,
			&releasedAt,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}

		if releasedAt.Valid {
			res.ReleasedAt = &releasedAt.Time
		}
		res.CreatedAt = createdAt.Time
		res.UpdatedAt = updatedAt.Time

		reservations = append(reservations, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}
