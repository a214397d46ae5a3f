package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-HouseBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-HouseBooking/internal/service/bookings/models"
)

// Service запросы на чтение бронирований, без побочных эффектов
type Service struct {
	bookingRepo  BookingRepository
	timelineRepo TimelineRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	timelineRepo TimelineRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		timelineRepo: timelineRepo,
		logger:       logger,
	}
}

// GetBooking бронирование вместе с полным журналом событий
func (s *Service) GetBooking(ctx context.Context, id uuid.UUID) (*models.BookingDetailsResponse, error) {
	s.logger.Info("GetBooking: fetching booking id=%s", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetBooking: booking id=%s not found", id)
			return nil, fmt.Errorf("%w: id=%s", domain.ErrNotFound, id)
		}
		s.logger.Error("GetBooking: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetBooking - repository error: %v", domain.ErrInternalStorage, err)
	}

	events, err := s.timelineRepo.ListByBooking(ctx, id)
	if err != nil {
		s.logger.Error("GetBooking: timeline error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetBooking - timeline error: %v", domain.ErrInternalStorage, err)
	}

	return models.FromDomainDetails(booking, events), nil
}

// ListConflicts Pending/Confirmed бронирования, пересекающие диапазон, по возрастанию начала
func (s *Service) ListConflicts(ctx context.Context, start, end time.Time) (*models.BookingListResponse, error) {
	rng, err := domain.NewDateRange(start, end)
	if err != nil {
		s.logger.Warn("ListConflicts: invalid range: %v", err)
		return nil, err
	}

	s.logger.Info("ListConflicts: range=%s", rng)

	bookings, err := s.bookingRepo.ListBlocking(ctx, rng, uuid.Nil)
	if err != nil {
		s.logger.Error("ListConflicts: repository error for range=%s: %v", rng, err)
		return nil, fmt.Errorf("%w: ListConflicts - repository error: %v", domain.ErrInternalStorage, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// ListOutstanding Pending бронирования, ожидающие ответа стороны; свежая активность первой
func (s *Service) ListOutstanding(ctx context.Context, party domain.Party) (*models.BookingListResponse, error) {
	if !party.Valid() {
		return nil, domain.NewValidationError("party", "unknown party")
	}

	bookings, err := s.bookingRepo.ListOutstanding(ctx, party, domain.OutstandingListLimit)
	if err != nil {
		s.logger.Error("ListOutstanding: repository error for party=%s: %v", party, err)
		return nil, fmt.Errorf("%w: ListOutstanding - repository error: %v", domain.ErrInternalStorage, err)
	}

	s.logger.Info("ListOutstanding: party=%s, found %d bookings", party, len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// ListHistory бронирования в любом статусе, включая архив; свежая активность первой
func (s *Service) ListHistory(ctx context.Context, party domain.Party) (*models.BookingListResponse, error) {
	if !party.Valid() {
		return nil, domain.NewValidationError("party", "unknown party")
	}

	bookings, err := s.bookingRepo.ListHistory(ctx, party, domain.HistoryListLimit)
	if err != nil {
		s.logger.Error("ListHistory: repository error for party=%s: %v", party, err)
		return nil, fmt.Errorf("%w: ListHistory - repository error: %v", domain.ErrInternalStorage, err)
	}

	s.logger.Info("ListHistory: party=%s, found %d bookings", party, len(bookings))
	return models.FromDomainBookingList(bookings), nil
}
