package trip_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/frahmantamala/travel-expense/internal"
	"github.com/frahmantamala/travel-expense/internal/trip"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// MockRepository implements trip.RepositoryAPI in memory.
type MockRepository struct {
	trips     map[int64]*trip.Trip
	nextID    int64
	failError error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{trips: map[int64]*trip.Trip{}, nextID: 1}
}

func (m *MockRepository) Create(ctx context.Context, input *trip.TripInput) (int64, error) {
	if m.failError != nil {
		return 0, m.failError
	}
	for _, t := range m.trips {
		if strings.ToLower(t.Name) == input.Name {
			return 0, internal.ErrDuplicateTripName
		}
	}
	id := m.nextID
	m.nextID++
	m.trips[id] = &trip.Trip{ID: id, Name: input.DisplayName, StartDate: input.StartDate, EndDate: input.EndDate}
	return id, nil
}

func (m *MockRepository) List(ctx context.Context) ([]*trip.Trip, error) {
	if m.failError != nil {
		return nil, m.failError
	}
	var out []*trip.Trip
	for _, t := range m.trips {
		out = append(out, t)
	}
	return out, nil
}

func (m *MockRepository) Get(ctx context.Context, id int64) (*trip.Trip, error) {
	t, ok := m.trips[id]
	if !ok {
		return nil, internal.ErrTripNotFound
	}
	return t, nil
}

func (m *MockRepository) Update(ctx context.Context, id int64, input *trip.TripInput) error {
	if m.failError != nil {
		return m.failError
	}
	t, ok := m.trips[id]
	if !ok {
		return internal.ErrTripNotFound
	}
	t.Name = input.DisplayName
	t.StartDate = input.StartDate
	t.EndDate = input.EndDate
	return nil
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.trips[id]; !ok {
		return internal.ErrTripNotFound
	}
	delete(m.trips, id)
	return nil
}

var _ = Describe("Trip Service", func() {
	var (
		mockRepo *MockRepository
		service  *trip.Service
		ctx      context.Context
		form     trip.TripForm
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = trip.NewService(mockRepo, logger)
		ctx = context.Background()
		form = trip.TripForm{Name: "Kyoto Trip", StartDate: "2025-04-01", EndDate: "2025-04-10"}
	})

	Describe("CreateTrip", func() {
		It("should create and return the stored trip", func() {
			t, err := service.CreateTrip(ctx, form)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.ID).To(Equal(int64(1)))
			Expect(t.Name).To(Equal("Kyoto Trip"))
		})

		It("should not reach the repository when validation fails", func() {
			form.EndDate = "2025-03-01"
			_, err := service.CreateTrip(ctx, form)

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			Expect(mockRepo.trips).To(BeEmpty())
		})

		It("should reject a name that differs only in case", func() {
			_, err := service.CreateTrip(ctx, form)
			Expect(err).NotTo(HaveOccurred())

			form.Name = "KYOTO trip"
			_, err = service.CreateTrip(ctx, form)
			Expect(errors.Is(err, internal.ErrDuplicateTripName)).To(BeTrue())
		})

		It("should pass store errors through", func() {
			mockRepo.failError = internal.NewStoreError(errors.New("disk full"))
			_, err := service.CreateTrip(ctx, form)
			Expect(errors.Is(err, internal.ErrStore)).To(BeTrue())
		})
	})

	Describe("UpdateTrip", func() {
		It("should return not found for an unknown id", func() {
			_, err := service.UpdateTrip(ctx, 42, form)
			Expect(errors.Is(err, internal.ErrTripNotFound)).To(BeTrue())
		})

		It("should validate before updating", func() {
			created, err := service.CreateTrip(ctx, form)
			Expect(err).NotTo(HaveOccurred())

			form.StartDate = "someday"
			_, err = service.UpdateTrip(ctx, created.ID, form)
			Expect(err).To(MatchError("Invalid date format."))
			Expect(mockRepo.trips[created.ID].Name).To(Equal("Kyoto Trip"))
		})

		It("should update the trip", func() {
			created, err := service.CreateTrip(ctx, form)
			Expect(err).NotTo(HaveOccurred())

			form.Name = "Kyoto & Osaka"
			updated, err := service.UpdateTrip(ctx, created.ID, form)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Kyoto & Osaka"))
		})
	})

	Describe("DeleteTrip", func() {
		It("should remove the trip", func() {
			created, err := service.CreateTrip(ctx, form)
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteTrip(ctx, created.ID)).To(Succeed())
			_, err = service.GetTrip(ctx, created.ID)
			Expect(errors.Is(err, internal.ErrTripNotFound)).To(BeTrue())
		})

		It("should return not found for an unknown id", func() {
			Expect(errors.Is(service.DeleteTrip(ctx, 7), internal.ErrTripNotFound)).To(BeTrue())
		})
	})
})
