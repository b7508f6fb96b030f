package hotel

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateHotel(ctx context.Context, name, city, address string) (*Hotel, error) {
	args := m.Called(ctx, name, city, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Hotel), args.Error(1)
}

func (m *MockRepository) GetHotelByID(ctx context.Context, id int) (*Hotel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Hotel), args.Error(1)
}

func (m *MockRepository) GetAllHotels(ctx context.Context) ([]Hotel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Hotel), args.Error(1)
}

func (m *MockRepository) CreateRoom(ctx context.Context, hotelID int, name string, capacity int, priceCents int64) (*Room, error) {
	args := m.Called(ctx, hotelID, name, capacity, priceCents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Room), args.Error(1)
}

func (m *MockRepository) GetRoomByID(ctx context.Context, id int) (*Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Room), args.Error(1)
}

func (m *MockRepository) GetRoomsByHotel(ctx context.Context, hotelID int) ([]Room, error) {
	args := m.Called(ctx, hotelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Room), args.Error(1)
}

func newTestRouter(repo Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{repo: repo}

	r := gin.New()
	r.POST("/admin/hotels", h.CreateHotel)
	r.GET("/hotels", h.ListHotels)
	r.GET("/hotels/:hotelID", h.GetHotel)
	r.POST("/admin/hotels/:hotelID/rooms", h.CreateRoom)
	r.GET("/hotels/:hotelID/rooms", h.ListRooms)
	return r
}

func TestHandlerCreateHotel(t *testing.T) {
	t.Run("creates hotel", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("CreateHotel", mock.Anything, "Seaside", "Cox's Bazar", "Marine Drive").
			Return(&Hotel{ID: 1, Name: "Seaside", City: "Cox's Bazar", Address: "Marine Drive"}, nil)

		router := newTestRouter(mockRepo)
		body := `{"name":"Seaside","city":"Cox's Bazar","address":"Marine Drive"}`
		req := httptest.NewRequest("POST", "/admin/hotels", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"Seaside"`)
		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects missing name", func(t *testing.T) {
		router := newTestRouter(new(MockRepository))
		req := httptest.NewRequest("POST", "/admin/hotels", strings.NewReader(`{"city":"Dhaka"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandlerGetHotel(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("GetHotelByID", mock.Anything, 3).
			Return(&Hotel{ID: 3, Name: "Hilltop"}, nil)

		router := newTestRouter(mockRepo)
		req := httptest.NewRequest("GET", "/hotels/3", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"Hilltop"`)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("GetHotelByID", mock.Anything, 99).
			Return(nil, errors.New("sql: no rows in result set"))

		router := newTestRouter(mockRepo)
		req := httptest.NewRequest("GET", "/hotels/99", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		router := newTestRouter(new(MockRepository))
		req := httptest.NewRequest("GET", "/hotels/abc", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandlerListHotels(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("GetAllHotels", mock.Anything).
		Return([]Hotel{{ID: 1, Name: "Alpha"}, {ID: 2, Name: "Beta"}}, nil)

	router := newTestRouter(mockRepo)
	req := httptest.NewRequest("GET", "/hotels", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Alpha"`)
	assert.Contains(t, w.Body.String(), `"name":"Beta"`)
}

func TestHandlerCreateRoom(t *testing.T) {
	t.Run("creates room", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("GetHotelByID", mock.Anything, 1).
			Return(&Hotel{ID: 1, Name: "Seaside"}, nil)
		mockRepo.On("CreateRoom", mock.Anything, 1, "Deluxe 101", 2, int64(5000)).
			Return(&Room{ID: 10, HotelID: 1, Name: "Deluxe 101", Capacity: 2, PricePerNightCents: 5000}, nil)

		router := newTestRouter(mockRepo)
		body := `{"name":"Deluxe 101","capacity":2,"price_per_night_cents":5000}`
		req := httptest.NewRequest("POST", "/admin/hotels/1/rooms", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"price_per_night_cents":5000`)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown hotel", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("GetHotelByID", mock.Anything, 42).
			Return(nil, errors.New("sql: no rows in result set"))

		router := newTestRouter(mockRepo)
		body := `{"name":"Deluxe 101","capacity":2,"price_per_night_cents":5000}`
		req := httptest.NewRequest("POST", "/admin/hotels/42/rooms", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockRepo.AssertNotCalled(t, "CreateRoom", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandlerListRooms(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("GetRoomsByHotel", mock.Anything, 1).
		Return([]Room{{ID: 10, HotelID: 1, Name: "Deluxe 101"}}, nil)

	router := newTestRouter(mockRepo)
	req := httptest.NewRequest("GET", "/hotels/1/rooms", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Deluxe 101"`)
}
