package staff

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с персоналом
// Сотрудник загружается как агрегат: запись, квалификации, рабочие смены
// и записи календаря - всё, что нужно для проверки конфликтов, в одном месте
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория персонала
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает нового сотрудника с квалификациями
func (r *Repository) Create(ctx context.Context, staff *domain.StaffMember) (*domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("staff_members").
		Columns("vendor_id", "name", "active").
		Values(staff.VendorID, staff.Name, staff.Active).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&staff.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	staff.CreatedAt = createdAt.Time
	staff.UpdatedAt = updatedAt.Time

	if err := r.ReplaceQualifications(ctx, staff.ID, staff.QualifiedItemIDs); err != nil {
		return nil, err
	}

	staff.Shifts = make([]domain.StaffShift, 0)
	staff.Bookings = make([]domain.StaffBooking, 0)
	return staff, nil
}

// GetByID загружает сотрудника как агрегат: с квалификациями,
// всеми рабочими сменами и записями календаря
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "vendor_id", "name", "active", "created_at", "updated_at",
	).
		From("staff_members").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var staff domain.StaffMember
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&staff.ID, &staff.VendorID, &staff.Name, &staff.Active, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan staff: %v", ErrScanRow, err)
	}

	staff.CreatedAt = createdAt.Time
	staff.UpdatedAt = updatedAt.Time

	if err := r.loadQualifications(ctx, executor, &staff); err != nil {
		return nil, err
	}
	if staff.Shifts, err = r.GetShifts(ctx, staff.ID); err != nil {
		return nil, err
	}
	if staff.Bookings, err = r.GetCalendarEntries(ctx, staff.ID); err != nil {
		return nil, err
	}

	return &staff, nil
}

// GetByVendor получает всех сотрудников вендора (без смен и календарей)
func (r *Repository) GetByVendor(ctx context.Context, vendorID int64) ([]*domain.StaffMember, error) {
	return r.listMembers(ctx, squirrel.Eq{"vendor_id": vendorID})
}

// GetActiveQualified получает ID активных сотрудников вендора,
// квалифицированных для услуги, в порядке возрастания ID
func (r *Repository) GetActiveQualified(ctx context.Context, vendorID, itemID int64) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("s.id").
		From("staff_members s").
		Join("staff_qualifications q ON q.staff_id = s.id").
		Where(squirrel.Eq{"s.vendor_id": vendorID, "q.booking_item_id": itemID, "s.active": true}).
		OrderBy("s.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveQualified - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveQualified - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: GetActiveQualified - scan row: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActiveQualified - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

// Update обновляет имя и статус активности сотрудника
func (r *Repository) Update(ctx context.Context, staff *domain.StaffMember) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("staff_members").
		Set("name", staff.Name).
		Set("active", staff.Active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": staff.ID}).
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
		return ErrStaffNotFound
	}

	return nil
}

// ReplaceQualifications полностью заменяет квалификации сотрудника
func (r *Repository) ReplaceQualifications(ctx context.Context, staffID int64, itemIDs []int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("staff_qualifications").
		Where(squirrel.Eq{"staff_id": staffID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceQualifications - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceQualifications - execute delete: %v", ErrExecQuery, err)
	}

	if len(itemIDs) == 0 {
		return nil
	}

	insert := psqlbuilder.Insert("staff_qualifications").Columns("staff_id", "booking_item_id")
	for _, itemID := range itemIDs {
		insert = insert.Values(staffID, itemID)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceQualifications - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceQualifications - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// AddShift добавляет рабочую смену сотрудника
// Валидация длительности и пересечений выполняется на уровне сервиса
func (r *Repository) AddShift(ctx context.Context, shift *domain.StaffShift) (*domain.StaffShift, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("staff_shifts").
		Columns("staff_id", "start_at", "end_at").
		Values(shift.StaffID, shift.StartAt, shift.EndAt).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: AddShift - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&shift.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: AddShift - execute insert: %v", ErrExecQuery, err)
	}

	shift.CreatedAt = createdAt.Time
	shift.UpdatedAt = updatedAt.Time
	return shift, nil
}

// UpdateShift обновляет границы рабочей смены
func (r *Repository) UpdateShift(ctx context.Context, shift *domain.StaffShift) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("staff_shifts").
		Set("start_at", shift.StartAt).
		Set("end_at", shift.EndAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": shift.ID, "staff_id": shift.StaffID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateShift - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateShift - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateShift - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrShiftNotFound
	}

	return nil
}

// DeleteShift удаляет рабочую смену
func (r *Repository) DeleteShift(ctx context.Context, staffID, shiftID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("staff_shifts").
		Where(squirrel.Eq{"id": shiftID, "staff_id": staffID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteShift - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteShift - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteShift - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrShiftNotFound
	}

	return nil
}

// GetShifts получает все рабочие смены сотрудника по возрастанию начала
func (r *Repository) GetShifts(ctx context.Context, staffID int64) ([]domain.StaffShift, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "staff_id", "start_at", "end_at", "created_at", "updated_at",
	).
		From("staff_shifts").
		Where(squirrel.Eq{"staff_id": staffID}).
		OrderBy("start_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetShifts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetShifts - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	shifts := make([]domain.StaffShift, 0)
	for rows.Next() {
		var shift domain.StaffShift
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(&shift.ID, &shift.StaffID, &shift.StartAt, &shift.EndAt, &createdAt, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: GetShifts - scan row: %v", ErrScanRow, err)
		}

		shift.CreatedAt = createdAt.Time
		shift.UpdatedAt = updatedAt.Time
		shifts = append(shifts, shift)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetShifts - rows error: %v", ErrScanRow, err)
	}

	return shifts, nil
}

// AddCalendarEntry добавляет запись календаря сотрудника
// Вызывается только вместе с записью в журнал бронирований в одной транзакции
func (r *Repository) AddCalendarEntry(ctx context.Context, entry *domain.StaffBooking) (*domain.StaffBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("staff_bookings").
		Columns("staff_id", "booking_id", "start_at", "end_at", "status").
		Values(entry.StaffID, entry.BookingID, entry.StartAt, entry.EndAt, entry.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: AddCalendarEntry - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: AddCalendarEntry - execute insert: %v", ErrExecQuery, err)
	}

	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time
	return entry, nil
}

// UpdateCalendarEntryStatus синхронизирует статус записи календаря со статусом
// бронирования в журнале
func (r *Repository) UpdateCalendarEntryStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("staff_bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateCalendarEntryStatus - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpdateCalendarEntryStatus - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// DeleteCalendarEntry удаляет запись календаря бронирования
// Используется при переназначении бронирования на другого сотрудника
func (r *Repository) DeleteCalendarEntry(ctx context.Context, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("staff_bookings").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteCalendarEntry - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteCalendarEntry - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteCalendarEntry - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingEntryNotFound
	}

	return nil
}

// GetCalendarEntries получает все записи календаря сотрудника
// Внутри транзакции блокирует записи (FOR UPDATE) - проверка конфликтов
// при создании и переназначении бронирования должна видеть
// зафиксированное состояние
func (r *Repository) GetCalendarEntries(ctx context.Context, staffID int64) ([]domain.StaffBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id", "staff_id", "booking_id", "start_at", "end_at", "status", "created_at", "updated_at",
	).
		From("staff_bookings").
		Where(squirrel.Eq{"staff_id": staffID}).
		OrderBy("start_at ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetCalendarEntries - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetCalendarEntries - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]domain.StaffBooking, 0)
	for rows.Next() {
		var entry domain.StaffBooking
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&entry.ID, &entry.StaffID, &entry.BookingID,
			&entry.StartAt, &entry.EndAt, &entry.Status,
			&createdAt, &updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetCalendarEntries - scan row: %v", ErrScanRow, err)
		}

		entry.CreatedAt = createdAt.Time
		entry.UpdatedAt = updatedAt.Time
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetCalendarEntries - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}

func (r *Repository) listMembers(ctx context.Context, where interface{}) ([]*domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "vendor_id", "name", "active", "created_at", "updated_at",
	).
		From("staff_members").
		Where(where).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: listMembers - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listMembers - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	members := make([]*domain.StaffMember, 0)
	for rows.Next() {
		var staff domain.StaffMember
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(&staff.ID, &staff.VendorID, &staff.Name, &staff.Active, &createdAt, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: listMembers - scan row: %v", ErrScanRow, err)
		}

		staff.CreatedAt = createdAt.Time
		staff.UpdatedAt = updatedAt.Time
		members = append(members, &staff)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listMembers - rows error: %v", ErrScanRow, err)
	}

	for _, staff := range members {
		if err := r.loadQualifications(ctx, executor, staff); err != nil {
			return nil, err
		}
	}

	return members, nil
}

func (r *Repository) loadQualifications(ctx context.Context, executor DBExecutor, staff *domain.StaffMember) error {
	query, args, err := psqlbuilder.Select("booking_item_id").
		From("staff_qualifications").
		Where(squirrel.Eq{"staff_id": staff.ID}).
		OrderBy("booking_item_id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadQualifications - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadQualifications - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	staff.QualifiedItemIDs = make([]int64, 0)
	for rows.Next() {
		var itemID int64
		if err := rows.Scan(&itemID); err != nil {
			return fmt.Errorf("%w: loadQualifications - scan row: %v", ErrScanRow, err)
		}
		staff.QualifiedItemIDs = append(staff.QualifiedItemIDs, itemID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadQualifications - rows error: %v", ErrScanRow, err)
	}

	return nil
}
