package facility

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/TTA-ReservationService/internal/domain"
	"github.com/m04kA/TTA-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/TTA-ReservationService/pkg/psqlbuilder"
)

// facilityColumns колонки таблицы facilities в порядке сканирования
var facilityColumns = []string{
	"id",
	"category",
	"unit_label",
	"plate_tag",
	"capacity",
	"pickup_location",
	"operator_name",
	"operator_contact",
	"description",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с каталогом объектов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// List получает объекты каталога с фильтрацией по категории и статусу
// Сортировка стабильная: категория, затем метка юнита
func (r *Repository) List(ctx context.Context, filter domain.FacilityFilter) ([]*domain.Facility, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(facilityColumns...).
		From("facilities").
		OrderBy("category ASC, unit_label ASC")

	// Фильтрация по категории, если указана
	if filter.Category != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"category": *filter.Category})
	}

	// Фильтрация по статусу, если указан
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanFacilities(rows)
}

// GetByID получает объект по ID
// Внутри транзакции берет блокировку FOR UPDATE, чтобы проверка статуса
// и последующее условное обновление видели одну и ту же строку
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Facility, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(facilityColumns...).
		From("facilities").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var f domain.Facility
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&f.ID,
		&f.Category,
		&f.UnitLabel,
		&f.PlateTag,
		&f.Capacity,
		&f.PickupLocation,
		&f.OperatorName,
		&f.OperatorContact,
		&f.Description,
		&f.Status,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrFacilityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan facility: %v", ErrScanRow, err)
	}

	f.CreatedAt = createdAt.Time
	f.UpdatedAt = updatedAt.Time

	return &f, nil
}

// UpdateStatusIf условно переводит объект из статуса from в статус to
// Это единственная точка смены статуса: UPDATE с условием на текущий статус
// выполняется на стороне БД атомарно, поэтому из двух конкурирующих сессий
// перевод выполнит ровно одна, вторая получит ErrStatusConflict
func (r *Repository) UpdateStatusIf(ctx context.Context, id int64, from, to domain.FacilityStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("facilities").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatusIf - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatusIf - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatusIf - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// scanFacilities сканирует результаты запроса в слайс объектов
func scanFacilities(rows *sql.Rows) ([]*domain.Facility, error) {
	facilities := make([]*domain.Facility, 0)

	for rows.Next() {
		var f domain.Facility
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&f.ID,
			&f.Category,
			&f.UnitLabel,
			&f.PlateTag,
			&f.Capacity,
			&f.PickupLocation,
			&f.OperatorName,
			&f.OperatorContact,
			&f.Description,
			&f.Status,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanFacilities - scan row: %v", ErrScanRow, err)
		}

		f.CreatedAt = createdAt.Time
		f.UpdatedAt = updatedAt.Time

		facilities = append(facilities, &f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanFacilities - rows error: %v", ErrScanRow, err)
	}

	return facilities, nil
}
