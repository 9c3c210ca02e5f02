package trip_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"

	"github.com/frahmantamala/travel-expense/internal"
	"github.com/frahmantamala/travel-expense/internal/reference"
	"github.com/frahmantamala/travel-expense/internal/transport"
	"github.com/frahmantamala/travel-expense/internal/trip"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type recordingRenderer struct {
	view     string
	bindings map[string]any
}

func (r *recordingRenderer) Render(w io.Writer, view string, bindings map[string]any) error {
	r.view = view
	r.bindings = bindings
	return nil
}

type stubCountries struct{}

func (stubCountries) Countries(ctx context.Context) ([]*reference.Country, error) {
	return []*reference.Country{{ID: 1, Name: "Japan", Code: "JP"}}, nil
}

var _ = Describe("Trip Handlers", func() {
	var (
		mockRepo *MockRepository
		renderer *recordingRenderer
		router   *chi.Mux
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		mockRepo = NewMockRepository()
		renderer = &recordingRenderer{}
		service := trip.NewService(mockRepo, logger)
		base := transport.NewBaseHandler(logger, renderer)

		html := trip.NewHandler(base, service, stubCountries{}, "USD")
		api := trip.NewAPIHandler(base, service, "USD")

		router = chi.NewRouter()
		router.Get("/", html.Index)
		router.Post("/trips", html.Create)
		router.Get("/trips/{id}/edit", html.Edit)
		router.Post("/trips/{id}", html.Update)
		router.Post("/trips/{id}/delete", html.Delete)
		router.Get("/api/v1/trips", api.ListTrips)
		router.Post("/api/v1/trips", api.CreateTrip)
		router.Get("/api/v1/trips/{id}", api.GetTrip)
		router.Delete("/api/v1/trips/{id}", api.DeleteTrip)
	})

	postForm := func(path string, values url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	validForm := url.Values{"name": {"Kyoto Trip"}, "start_date": {"2025-04-01"}, "end_date": {"2025-04-10"}}

	Describe("HTML", func() {
		It("should render the trips page", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(ContainSubstring("text/html"))
			Expect(renderer.view).To(Equal("trips"))
			Expect(renderer.bindings).To(HaveKeyWithValue("BaseCurrency", "USD"))
			Expect(renderer.bindings).To(HaveKey("Form"))
		})

		It("should redirect with a flash after creating a trip", func() {
			w := postForm("/trips", validForm)

			Expect(w.Code).To(Equal(http.StatusSeeOther))
			Expect(w.Header().Get("Location")).To(Equal("/"))
			Expect(w.Header().Get("Set-Cookie")).To(ContainSubstring("flash="))
			Expect(mockRepo.trips).To(HaveLen(1))
		})

		It("should redisplay the form with the message and the entered values", func() {
			w := postForm("/trips", url.Values{"name": {"Kyoto"}, "start_date": {"2025-04-10"}, "end_date": {"2025-04-01"}})

			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(renderer.view).To(Equal("trips"))
			Expect(renderer.bindings["Error"]).To(Equal("End date must be on or after the start date."))
			Expect(renderer.bindings["Form"]).To(Equal(trip.TripForm{Name: "Kyoto", StartDate: "2025-04-10", EndDate: "2025-04-01"}))
		})

		It("should answer a duplicate name with 409", func() {
			postForm("/trips", validForm)
			w := postForm("/trips", url.Values{"name": {"kyoto TRIP"}, "start_date": {"2025-05-01"}, "end_date": {"2025-05-02"}})

			Expect(w.Code).To(Equal(http.StatusConflict))
			Expect(renderer.bindings["Error"]).To(Equal("A trip with this name already exists."))
		})

		It("should send an unknown trip back to the listing", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/trips/99/edit", nil))

			Expect(w.Code).To(Equal(http.StatusSeeOther))
			Expect(w.Header().Get("Location")).To(Equal("/"))
		})

		It("should render the edit page pre-filled", func() {
			postForm("/trips", validForm)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/trips/1/edit", nil))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(renderer.view).To(Equal("trip_edit"))
			Expect(renderer.bindings["Form"]).To(Equal(trip.TripForm{Name: "Kyoto Trip", StartDate: "2025-04-01", EndDate: "2025-04-10"}))
		})

		It("should delete and redirect", func() {
			postForm("/trips", validForm)
			w := postForm("/trips/1/delete", nil)

			Expect(w.Code).To(Equal(http.StatusSeeOther))
			Expect(mockRepo.trips).To(BeEmpty())
		})
	})

	Describe("JSON API", func() {
		It("should create a trip and return 201", func() {
			body := `{"name":"Kyoto Trip","start_date":"2025-04-01","end_date":"2025-04-10"}`
			req := httptest.NewRequest(http.MethodPost, "/api/v1/trips", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))
			var resp trip.TripResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Name).To(Equal("Kyoto Trip"))
			Expect(resp.TotalInBase).To(Equal("0.00"))
		})

		It("should return the error envelope for validation failures", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/trips", strings.NewReader(`{"name":""}`))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
			var resp struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Error.Code).To(Equal(string(internal.ErrCodeValidationFailed)))
			Expect(resp.Error.Message).To(Equal(trip.MsgNameRequired))
		})

		It("should return 400 for a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/trips", strings.NewReader(`{`))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 404 for an unknown trip", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/trips/5", nil))
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("should return 204 after deleting", func() {
			_, err := mockRepo.Create(context.Background(), &trip.TripInput{Name: "kyoto", DisplayName: "Kyoto"})
			Expect(err).NotTo(HaveOccurred())

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/trips/1", nil))
			Expect(w.Code).To(Equal(http.StatusNoContent))
		})
	})
})
