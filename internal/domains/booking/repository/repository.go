package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"washbay/infras/otel"
	"washbay/infras/postgres"
	"washbay/internal/domains/booking/model"
	scheduleModel "washbay/internal/domains/schedule/model"
	"washbay/shared"
	"washbay/shared/constant"
	gDto "washbay/shared/dto"
	"washbay/shared/failure"
	"washbay/shared/logger"
	gRepo "washbay/shared/repository"
)

const assignmentsQuery = `SELECT id, resource_id, scheduled_at, total_duration, buffer_minutes, status = $1 AS pinned
FROM bookings
WHERE resource_id = ANY($2)
  AND status = ANY($3)
  AND scheduled_at < $5
  AND scheduled_at + make_interval(mins => total_duration + buffer_minutes) > $4`

type Booking interface {
	// Insert stores a new booking together with its services, saving displaced bookings in the same transaction.
	Insert(ctx context.Context, booking model.Booking, displaced ...*model.Booking) error
	// Get returns the booking with its services, or a zero booking when none matches.
	Get(ctx context.Context, id string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	// Save writes every booking in one transaction, checking and bumping each version.
	Save(ctx context.Context, bookings ...*model.Booking) error
	// GetAssignments lists active bookings on resourceIDs whose padded window intersects [from, to).
	GetAssignments(ctx context.Context, resourceIDs []string, from, to time.Time) ([]scheduleModel.Assignment, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	services    gRepo.Repository[model.BookingService]
	db          *postgres.Connection
	otel        otel.Otel
	updateQuery string
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	bookings := gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel)

	return &repositoryImpl{
		Repository:  bookings,
		services:    gRepo.NewRepository[model.BookingService](model.ServiceEntityName, model.ServiceTableName, model.FieldBookingID, db, otel),
		db:          db,
		otel:        otel,
		updateQuery: buildUpdateQuery(bookings.InsertColumns),
	}
}

func buildUpdateQuery(columns []string) string {
	immutable := []string{model.FieldID, model.FieldVersion, "created_at", "created_by"}
	sets := []string{}

	for _, col := range columns {
		if !slices.Contains(immutable, col) {
			sets = append(sets, fmt.Sprintf("%s = :%s", col, col))
		}
	}

	sets = append(sets, fmt.Sprintf("%s = %s + 1", model.FieldVersion, model.FieldVersion))

	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = :%s AND %s = :%s",
		model.TableName, strings.Join(sets, ", "), model.FieldID, model.FieldID, model.FieldVersion, model.FieldVersion)
}

func (r *repositoryImpl) Insert(ctx context.Context, booking model.Booking, displaced ...*model.Booking) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Insert")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	err = r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.InsertTx(ctx, tx, booking); err != nil {
			return err // nolint:wrapcheck
		}

		if err := r.services.InsertBulkTx(ctx, tx, booking.Services); err != nil {
			return err // nolint:wrapcheck
		}

		return r.saveTx(ctx, tx, displaced)
	})
	if err != nil {
		return err
	}

	bumpVersions(displaced)

	return nil
}

func (r *repositoryImpl) Get(ctx context.Context, id string) (res model.Booking, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res, err = r.Repository.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil || res.ID == constant.Empty {
		return res, err // nolint:wrapcheck
	}

	res.Services, err = r.services.GetAll(ctx, servicesOrder(), shared.FilterByID(id, model.FieldBookingID, model.ServiceTableName))
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	return res, nil
}

func (r *repositoryImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res []model.Booking, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res, err = r.Repository.GetAll(ctx, params, filter)
	if err != nil || len(res) == 0 {
		return res, err // nolint:wrapcheck
	}

	ids := make([]string, len(res))
	for i := range res {
		ids[i] = res[i].ID
	}

	services, err := r.services.GetAll(ctx, servicesOrder(), gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldBookingID,
				Value:    ids,
				Operator: gDto.FilterOperatorIn,
				Table:    model.ServiceTableName,
			},
		},
	})
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	for i := range res {
		for _, s := range services {
			if s.BookingID == res[i].ID {
				res[i].Services = append(res[i].Services, s)
			}
		}
	}

	return res, nil
}

func (r *repositoryImpl) Save(ctx context.Context, bookings ...*model.Booking) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Save")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelQueryAttributeKey, r.updateQuery)

	err = r.WithTx(ctx, func(tx *sqlx.Tx) error {
		return r.saveTx(ctx, tx, bookings)
	})
	if err != nil {
		return err
	}

	bumpVersions(bookings)

	return nil
}

func (r *repositoryImpl) saveTx(ctx context.Context, tx *sqlx.Tx, bookings []*model.Booking) error {
	for _, booking := range bookings {
		result, err := tx.NamedExecContext(ctx, r.updateQuery, booking)
		if err != nil {
			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to update booking: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}

		if affected == 0 {
			return failure.ConcurrentModification(model.EntityName, booking.ID) // nolint:wrapcheck
		}

		if err := r.services.DeleteTx(ctx, tx, shared.FilterByID(booking.ID, model.FieldBookingID, model.ServiceTableName)); err != nil {
			return err // nolint:wrapcheck
		}

		if err := r.services.InsertBulkTx(ctx, tx, booking.Services); err != nil {
			return err // nolint:wrapcheck
		}
	}

	return nil
}

// bumpVersions mirrors the version increment of a committed update.
func bumpVersions(bookings []*model.Booking) {
	for _, booking := range bookings {
		booking.Version++
	}
}

func (r *repositoryImpl) GetAssignments(ctx context.Context, resourceIDs []string, from, to time.Time) (res []scheduleModel.Assignment, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GetAssignments")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelQueryAttributeKey, assignmentsQuery)

	statuses := make([]string, len(model.ActiveStatuses))
	for i, status := range model.ActiveStatuses {
		statuses[i] = string(status)
	}

	res = []scheduleModel.Assignment{}

	// Read from the primary so assignments committed under the same lock are visible.
	err = r.db.Write.SelectContext(ctx, &res, assignmentsQuery,
		string(model.StatusInProgress), pq.Array(resourceIDs), pq.Array(statuses), from, to)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}

	return res, nil
}

func servicesOrder() gDto.QueryParams {
	return gDto.QueryParams{SortBy: model.FieldPosition, SortDir: gDto.SortDirAsc}
}
