package exception

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с исключениями расписания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория исключений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое исключение со списками затронутых ролей и услуг
func (r *Repository) Create(ctx context.Context, exc *domain.ScheduleException) (*domain.ScheduleException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("schedule_exceptions").
		Columns("vendor_id", "date", "type", "start_time", "end_time", "capacity").
		Values(exc.VendorID, exc.Date, exc.Type, exc.StartTime, exc.EndTime, exc.Capacity).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&exc.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	exc.CreatedAt = createdAt.Time
	exc.UpdatedAt = updatedAt.Time

	if err := r.replaceAffected(ctx, executor, exc.ID, exc.RoleIDs, exc.BookingItemIDs); err != nil {
		return nil, err
	}

	return exc, nil
}

// GetByID получает исключение по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ScheduleException, error) {
	exceptions, err := r.list(ctx, squirrel.Eq{"id": id})
	if err != nil {
		return nil, err
	}
	if len(exceptions) == 0 {
		return nil, ErrExceptionNotFound
	}
	return exceptions[0], nil
}

// GetByVendorAndDate получает все исключения вендора на дату
func (r *Repository) GetByVendorAndDate(ctx context.Context, vendorID int64, date time.Time) ([]*domain.ScheduleException, error) {
	return r.list(ctx, squirrel.Eq{"vendor_id": vendorID, "date": date})
}

// GetByVendorAndDateRange получает исключения вендора за период [from, to]
func (r *Repository) GetByVendorAndDateRange(ctx context.Context, vendorID int64, from, to time.Time) ([]*domain.ScheduleException, error) {
	return r.list(ctx, squirrel.And{
		squirrel.Eq{"vendor_id": vendorID},
		squirrel.GtOrEq{"date": from},
		squirrel.LtOrEq{"date": to},
	})
}

// Update обновляет исключение и заменяет списки затронутых ролей и услуг
func (r *Repository) Update(ctx context.Context, exc *domain.ScheduleException) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("schedule_exceptions").
		Set("date", exc.Date).
		Set("type", exc.Type).
		Set("start_time", exc.StartTime).
		Set("end_time", exc.EndTime).
		Set("capacity", exc.Capacity).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": exc.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrExceptionNotFound
	}

	return r.replaceAffected(ctx, executor, exc.ID, exc.RoleIDs, exc.BookingItemIDs)
}

// Delete удаляет исключение (связанные списки удаляются каскадно)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("schedule_exceptions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrExceptionNotFound
	}

	return nil
}

func (r *Repository) list(ctx context.Context, where interface{}) ([]*domain.ScheduleException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "vendor_id", "date", "type", "start_time", "end_time", "capacity", "created_at", "updated_at",
	).
		From("schedule_exceptions").
		Where(where).
		OrderBy("date ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: list - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	exceptions, err := r.scanExceptions(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadAffected(ctx, executor, exceptions); err != nil {
		return nil, err
	}

	return exceptions, nil
}

func (r *Repository) replaceAffected(ctx context.Context, executor DBExecutor, excID int64, roleIDs, itemIDs []int64) error {
	for _, table := range []string{"schedule_exception_roles", "schedule_exception_items"} {
		query, args, err := psqlbuilder.Delete(table).
			Where(squirrel.Eq{"exception_id": excID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: replaceAffected - build delete query: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: replaceAffected - execute delete: %v", ErrExecQuery, err)
		}
	}

	if len(roleIDs) > 0 {
		insert := psqlbuilder.Insert("schedule_exception_roles").Columns("exception_id", "role_id")
		for _, roleID := range roleIDs {
			insert = insert.Values(excID, roleID)
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("%w: replaceAffected - build roles insert: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: replaceAffected - execute roles insert: %v", ErrExecQuery, err)
		}
	}

	if len(itemIDs) > 0 {
		insert := psqlbuilder.Insert("schedule_exception_items").Columns("exception_id", "booking_item_id")
		for _, itemID := range itemIDs {
			insert = insert.Values(excID, itemID)
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("%w: replaceAffected - build items insert: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: replaceAffected - execute items insert: %v", ErrExecQuery, err)
		}
	}

	return nil
}

func (r *Repository) loadAffected(ctx context.Context, executor DBExecutor, exceptions []*domain.ScheduleException) error {
	if len(exceptions) == 0 {
		return nil
	}

	ids := make([]int64, len(exceptions))
	byID := make(map[int64]*domain.ScheduleException, len(exceptions))
	for i, exc := range exceptions {
		ids[i] = exc.ID
		byID[exc.ID] = exc
		exc.RoleIDs = make([]int64, 0)
		exc.BookingItemIDs = make([]int64, 0)
	}

	query, args, err := psqlbuilder.Select("exception_id", "role_id").
		From("schedule_exception_roles").
		Where(squirrel.Eq{"exception_id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadAffected - build roles query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadAffected - execute roles query: %v", ErrExecQuery, err)
	}
	for rows.Next() {
		var excID, roleID int64
		if err := rows.Scan(&excID, &roleID); err != nil {
			rows.Close()
			return fmt.Errorf("%w: loadAffected - scan role row: %v", ErrScanRow, err)
		}
		if exc, ok := byID[excID]; ok {
			exc.RoleIDs = append(exc.RoleIDs, roleID)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("%w: loadAffected - roles rows error: %v", ErrScanRow, err)
	}
	rows.Close()

	query, args, err = psqlbuilder.Select("exception_id", "booking_item_id").
		From("schedule_exception_items").
		Where(squirrel.Eq{"exception_id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadAffected - build items query: %v", ErrBuildQuery, err)
	}

	rows, err = executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadAffected - execute items query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var excID, itemID int64
		if err := rows.Scan(&excID, &itemID); err != nil {
			return fmt.Errorf("%w: loadAffected - scan item row: %v", ErrScanRow, err)
		}
		if exc, ok := byID[excID]; ok {
			exc.BookingItemIDs = append(exc.BookingItemIDs, itemID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadAffected - items rows error: %v", ErrScanRow, err)
	}

	return nil
}

func (r *Repository) scanExceptions(rows *sql.Rows) ([]*domain.ScheduleException, error) {
	exceptions := make([]*domain.ScheduleException, 0)

	for rows.Next() {
		var exc domain.ScheduleException
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&exc.ID,
			&exc.VendorID,
			&exc.Date,
			&exc.Type,
			&exc.StartTime,
			&exc.EndTime,
			&exc.Capacity,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanExceptions - scan row: %v", ErrScanRow, err)
		}

		exc.CreatedAt = createdAt.Time
		exc.UpdatedAt = updatedAt.Time
		exceptions = append(exceptions, &exc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanExceptions - rows error: %v", ErrScanRow, err)
	}

	return exceptions, nil
}
