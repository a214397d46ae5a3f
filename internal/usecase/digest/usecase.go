package digest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
	"github.com/m04kA/SMC-HouseBooking/pkg/timeprovider"
)

// UseCase собирает для каждой стороны список давно ожидающих ответа бронирований
type UseCase struct {
	bookingRepo  BookingRepository
	notifier     Notifier
	clock        Clock
	ageThreshold int
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, notifier Notifier, clock Clock, rules domain.Rules, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		notifier:     notifier,
		clock:        clock,
		ageThreshold: rules.DigestAgeThresholdDays,
		logger:       logger,
	}
}

// ListDigest только чтение: Pending бронирования в будущем, по которым сторона не ответила
// не меньше порога дней; сторона с пустым списком не попадает в результат
func (uc *UseCase) ListDigest(ctx context.Context) ([]domain.PartyDigest, error) {
	now := uc.clock.Now()
	today := uc.clock.Today()

	bookings, err := uc.bookingRepo.ListAwaitingFuture(ctx, today)
	if err != nil {
		uc.logger.Error("ListDigest: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListDigest - repository error: %v", domain.ErrInternalStorage, err)
	}

	// ListAwaitingFuture уже отсортирован по дате начала
	perParty := make([][]*domain.Booking, domain.PartyCount)
	for _, b := range bookings {
		if ageDays(b, now, today) < uc.ageThreshold {
			continue
		}
		for _, p := range domain.AllParties {
			if b.Approvals.Get(p).Decision == domain.DecisionNoResponse {
				perParty[p] = append(perParty[p], b)
			}
		}
	}

	digests := make([]domain.PartyDigest, 0, domain.PartyCount)
	for _, p := range domain.AllParties {
		if len(perParty[p]) == 0 {
			continue
		}
		digests = append(digests, domain.PartyDigest{Party: p, Bookings: perParty[p]})
	}

	uc.logger.Info("ListDigest: %d parties with outstanding bookings", len(digests))
	return digests, nil
}

// Dispatch передает каждое непустое напоминание в Notifier
// Ошибка доставки одной стороне не мешает остальным
func (uc *UseCase) Dispatch(ctx context.Context) (int, error) {
	digests, err := uc.ListDigest(ctx)
	if err != nil {
		return 0, err
	}

	var (
		sent int
		errs []error
	)
	for _, d := range digests {
		if err := uc.notifier.NotifyDigest(ctx, d); err != nil {
			uc.logger.Warn("Dispatch: digest for party=%s failed: %v", d.Party, err)
			errs = append(errs, fmt.Errorf("party %s: %w", d.Party, err))
			continue
		}
		sent++
	}

	return sent, errors.Join(errs...)
}

// ageDays число полных календарных дней от даты подачи до сегодня
// Дата подачи берется в часовом поясе сервиса
func ageDays(b *domain.Booking, now, today time.Time) int {
	submitted := timeprovider.DateOf(b.CreatedAt.In(now.Location()))
	return int(today.Sub(submitted).Hours() / 24)
}
