// Package memstore хранилище в памяти для тестов use cases
// Транзакции выполняются строго по одной и откатываются при ошибке,
// что повторяет наблюдаемое поведение SERIALIZABLE с блокировками строк
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-HouseBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-HouseBooking/pkg/txmanager"
)

type txKey struct{}

type state struct {
	bookings map[uuid.UUID]*domain.Booking
	events   []domain.TimelineEvent
	seq      int64
}

func (s state) clone() state {
	c := state{
		bookings: make(map[uuid.UUID]*domain.Booking, len(s.bookings)),
		events:   make([]domain.TimelineEvent, len(s.events)),
		seq:      s.seq,
	}
	for id, b := range s.bookings {
		c.bookings[id] = b.Clone()
	}
	copy(c.events, s.events)
	return c
}

// Store реализует репозитории бронирований и журнала, а также менеджер транзакций
type Store struct {
	txMu sync.Mutex
	st   state

	faultMu sync.Mutex
	faults  []error

	// MaxRetries сколько раз повторять транзакцию при временной ошибке
	MaxRetries int

	statsMu sync.Mutex
	commits int
	aborts  int
}

// New создает пустое хранилище
func New() *Store {
	return &Store{
		st:         state{bookings: make(map[uuid.UUID]*domain.Booking)},
		MaxRetries: txmanager.DefaultOptions.MaxRetries,
	}
}

// InjectCommitFaults следующие len(errs) попыток фиксации завершатся этими ошибками
func (s *Store) InjectCommitFaults(errs ...error) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	s.faults = append(s.faults, errs...)
}

// Stats число зафиксированных и откаченных попыток
func (s *Store) Stats() (commits, aborts int) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.commits, s.aborts
}

// DoSerializable выполняет fn атомарно; при временной ошибке повторяет до MaxRetries раз
func (s *Store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	var err error
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		err = s.runOnce(ctx, fn)
		if err == nil || !txmanager.IsRetryable(err) {
			return err
		}
	}
	return err
}

// DoReadOnly выполняет fn на согласованном снимке
func (s *Store) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.DoSerializable(ctx, fn)
}

func (s *Store) runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snapshot := s.st.clone()
	err := fn(context.WithValue(ctx, txKey{}, true))
	if err == nil {
		err = s.nextFault()
	}
	if err == nil {
		err = ctx.Err()
	}

	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	if err != nil {
		s.st = snapshot
		s.aborts++
		return err
	}
	s.commits++
	return nil
}

func (s *Store) nextFault() error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	if len(s.faults) == 0 {
		return nil
	}
	err := s.faults[0]
	s.faults = s.faults[1:]
	return err
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// read выполняет чтение вне транзакции под тем же мьютексом
func (s *Store) read(ctx context.Context, fn func()) {
	if inTx(ctx) {
		fn()
		return
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	fn()
}

// Put кладет бронирование напрямую, минуя use cases (подготовка данных в тестах)
func (s *Store) Put(b *domain.Booking) {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.st.bookings[b.ID] = b.Clone()
}

// Get возвращает копию бронирования или nil
func (s *Store) Get(id uuid.UUID) *domain.Booking {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.st.bookings[id].Clone()
}

// Create сохраняет новое бронирование
func (s *Store) Create(ctx context.Context, b *domain.Booking) error {
	s.read(ctx, func() {
		s.st.bookings[b.ID] = b.Clone()
	})
	return nil
}

// GetByID возвращает копию бронирования
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	var b *domain.Booking
	s.read(ctx, func() {
		b = s.st.bookings[id].Clone()
	})
	if b == nil {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b, nil
}

// Update сохраняет бронирование с проверкой версии
func (s *Store) Update(ctx context.Context, b *domain.Booking) error {
	var err error
	s.read(ctx, func() {
		current, ok := s.st.bookings[b.ID]
		if !ok || current.Version != b.Version {
			err = bookingRepo.ErrVersionConflict
			return
		}
		stored := b.Clone()
		stored.Version++
		s.st.bookings[b.ID] = stored
	})
	if err == nil {
		b.Version++
	}
	return err
}

// ListBlocking активные Pending/Confirmed бронирования, пересекающие диапазон
func (s *Store) ListBlocking(ctx context.Context, rng domain.DateRange, exclude uuid.UUID) ([]*domain.Booking, error) {
	return s.filter(ctx, func(b *domain.Booking) bool {
		return b.ID != exclude && b.IsBlocking() && b.Range.Overlaps(rng)
	}, byStart, 0), nil
}

// ListOutstanding Pending бронирования без ответа стороны
func (s *Store) ListOutstanding(ctx context.Context, party domain.Party, limit int) ([]*domain.Booking, error) {
	return s.filter(ctx, func(b *domain.Booking) bool {
		return b.Status == domain.StatusPending && !b.IsArchived() &&
			b.Approvals.Get(party).Decision == domain.DecisionNoResponse
	}, byActivity, limit), nil
}

// ListHistory все бронирования с участием стороны, включая архив
func (s *Store) ListHistory(ctx context.Context, party domain.Party, limit int) ([]*domain.Booking, error) {
	if !party.Valid() {
		return []*domain.Booking{}, nil
	}
	return s.filter(ctx, func(b *domain.Booking) bool {
		return b.Approvals.Get(party).Party == party
	}, byActivity, limit), nil
}

// ListAwaitingFuture Pending бронирования с началом после today
func (s *Store) ListAwaitingFuture(ctx context.Context, today time.Time) ([]*domain.Booking, error) {
	return s.filter(ctx, func(b *domain.Booking) bool {
		return b.Status == domain.StatusPending && !b.IsArchived() && b.Range.Start.After(today)
	}, byStart, 0), nil
}

// ListLapsedPendingIDs ID Pending бронирований с end < today
func (s *Store) ListLapsedPendingIDs(ctx context.Context, today time.Time) ([]uuid.UUID, error) {
	lapsed := s.filter(ctx, func(b *domain.Booking) bool {
		return b.Status == domain.StatusPending && !b.IsArchived() && b.Range.IsPast(today)
	}, byStart, 0)

	ids := make([]uuid.UUID, len(lapsed))
	for i, b := range lapsed {
		ids[i] = b.ID
	}
	return ids, nil
}

// DeletePurgeable удаляет архивные Canceled и прошедшие Denied вместе с их событиями
func (s *Store) DeletePurgeable(ctx context.Context, archivedBefore, today time.Time) (int64, error) {
	var deleted int64
	s.read(ctx, func() {
		for id, b := range s.st.bookings {
			canceled := b.Status == domain.StatusCanceled && b.ArchivedAt != nil && b.ArchivedAt.Before(archivedBefore)
			denied := b.Status == domain.StatusDenied && b.Range.IsPast(today)
			if !canceled && !denied {
				continue
			}
			delete(s.st.bookings, id)
			deleted++
		}

		kept := s.st.events[:0]
		for _, e := range s.st.events {
			if _, ok := s.st.bookings[e.BookingID]; ok {
				kept = append(kept, e)
			}
		}
		s.st.events = kept
	})
	return deleted, nil
}

// Append добавляет события и проставляет seq
func (s *Store) Append(ctx context.Context, events []domain.TimelineEvent) error {
	s.read(ctx, func() {
		for i := range events {
			s.st.seq++
			events[i].Seq = s.st.seq
			s.st.events = append(s.st.events, events[i])
		}
	})
	return nil
}

// ListByBooking события бронирования в порядке (occurred_at, seq)
func (s *Store) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]domain.TimelineEvent, error) {
	out := make([]domain.TimelineEvent, 0)
	s.read(ctx, func() {
		for _, e := range s.st.events {
			if e.BookingID == bookingID {
				out = append(out, e)
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.Before(out[j].OccurredAt)
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

func (s *Store) filter(ctx context.Context, keep func(*domain.Booking) bool, less func(a, b *domain.Booking) bool, limit int) []*domain.Booking {
	out := make([]*domain.Booking, 0)
	s.read(ctx, func() {
		for _, b := range s.st.bookings {
			if keep(b) {
				out = append(out, b.Clone())
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func byStart(a, b *domain.Booking) bool {
	if !a.Range.Start.Equal(b.Range.Start) {
		return a.Range.Start.Before(b.Range.Start)
	}
	return a.ID.String() < b.ID.String()
}

func byActivity(a, b *domain.Booking) bool {
	if !a.LastActivityAt.Equal(b.LastActivityAt) {
		return a.LastActivityAt.After(b.LastActivityAt)
	}
	return a.ID.String() < b.ID.String()
}
