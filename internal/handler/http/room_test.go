package http_test // 测试包

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/The-OnlyPlants/onlyplants/internal/domain"
	httphandler "github.com/The-OnlyPlants/onlyplants/internal/handler/http"
	"github.com/The-OnlyPlants/onlyplants/internal/middleware"
	"github.com/The-OnlyPlants/onlyplants/internal/repository"
	"github.com/The-OnlyPlants/onlyplants/internal/repository/mocks"
	"github.com/The-OnlyPlants/onlyplants/internal/service"
)

const testUserID = uint(1)

// testEnv 组装一条 handler → service → mock 仓库的完整链路，
// 认证中间件用桩替代 (直接把用户 ID 写入上下文)。
type testEnv struct {
	router    *gin.Engine
	roomRepo  *mocks.RoomRepository
	userRepo  *mocks.UserRepository
	plantRepo *mocks.PlantRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		roomRepo:  new(mocks.RoomRepository),
		userRepo:  new(mocks.UserRepository),
		plantRepo: new(mocks.PlantRepository),
	}

	roomService := service.NewRoomService(
		env.roomRepo,
		env.userRepo,
		env.plantRepo,
		service.NewIdentityService(env.userRepo),
		service.NewRoomValidator(env.userRepo),
	)
	handler := httphandler.NewRoomHandler(roomService)

	stubAuth := func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, testUserID)
		c.Next()
	}

	router := gin.New()
	rooms := router.Group("/api/rooms", stubAuth)
	{
		rooms.GET("", handler.List)
		rooms.GET("/new", handler.CreateForm)
		rooms.POST("", handler.Create)
		rooms.GET("/:roomId", handler.Get)
		rooms.GET("/:roomId/edit", handler.EditForm)
		rooms.PUT("/:roomId", handler.Update)
		rooms.DELETE("/:roomId", handler.Delete)
	}
	env.router = router
	return env
}

func (env *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	return got
}

// --- POST /api/rooms ---

func TestRoomHandler_Create_Success(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	env.userRepo.On("RoomsOf", mock.Anything, testUserID).Return([]domain.Room{}, nil).Once()
	env.roomRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Room")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Room).ID = 42
		}).Return(nil).Once()
	env.userRepo.On("AppendRoom", mock.Anything, testUserID, mock.AnythingOfType("*domain.Room")).Return(nil).Once()

	// Act
	w := env.do(t, http.MethodPost, "/api/rooms", gin.H{"name": "My Room!"})

	// Assert
	assert.Equal(t, http.StatusCreated, w.Code)
	got := decodeBody(t, w)
	assert.Equal(t, "Room created successfully", got["message"])
	assert.Equal(t, "/rooms", got["redirect"])
	room, ok := got["room"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(42), room["id"])
	assert.Equal(t, "my-room", room["slug"])
	env.roomRepo.AssertExpectations(t)
	env.userRepo.AssertExpectations(t)
}

func TestRoomHandler_Create_NameTooShort(t *testing.T) {
	// Arrange
	env := newTestEnv(t)

	// Act
	w := env.do(t, http.MethodPost, "/api/rooms", gin.H{"name": "ab"})

	// Assert: 400 + 结构化校验结果 (原因 + 回显的原始名称)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	got := decodeBody(t, w)
	assert.Equal(t, "The name of the room must contain at least 3 characters.", got["error"])
	assert.Equal(t, "too_short", got["reason"])
	assert.Equal(t, "ab", got["name"])
	env.roomRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRoomHandler_Create_MissingName(t *testing.T) {
	// Arrange
	env := newTestEnv(t)

	// Act: 请求体里没有 name 字段
	w := env.do(t, http.MethodPost, "/api/rooms", gin.H{"invitees": []string{"mia"}})

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	got := decodeBody(t, w)
	assert.Equal(t, "Please fill out all required fields.", got["error"])
	assert.Equal(t, "missing_field", got["reason"])
}

func TestRoomHandler_Create_DuplicateName(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	env.userRepo.On("RoomsOf", mock.Anything, testUserID).Return([]domain.Room{
		{ID: 10, Name: "Garden", OwnerID: testUserID},
	}, nil).Once()

	// Act
	w := env.do(t, http.MethodPost, "/api/rooms", gin.H{"name": "Garden"})

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	got := decodeBody(t, w)
	assert.Equal(t, `You already have a room "Garden". Please choose another name.`, got["error"])
	assert.Equal(t, "duplicate_name", got["reason"])
	assert.Equal(t, "Garden", got["name"])
	env.roomRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// --- GET /api/rooms/:roomId ---

func TestRoomHandler_Get_Success(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	env.roomRepo.On("FindByID", mock.Anything, uint(10)).
		Return(&domain.Room{ID: 10, Name: "Porch", Slug: "porch", OwnerID: 2}, nil).Once()

	// Act: 房间属于用户 2，但开放读取允许用户 1 查看
	w := env.do(t, http.MethodGet, "/api/rooms/10", nil)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	got := decodeBody(t, w)
	room, ok := got["room"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Porch", room["name"])
	env.roomRepo.AssertExpectations(t)
}

func TestRoomHandler_Get_NotFound(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	env.roomRepo.On("FindByID", mock.Anything, uint(404)).Return(nil, repository.ErrRoomNotFound).Once()

	// Act
	w := env.do(t, http.MethodGet, "/api/rooms/404", nil)

	// Assert
	assert.Equal(t, http.StatusNotFound, w.Code)
	env.roomRepo.AssertExpectations(t)
}

func TestRoomHandler_Get_InvalidID(t *testing.T) {
	// Arrange
	env := newTestEnv(t)

	// Act
	w := env.do(t, http.MethodGet, "/api/rooms/not-a-number", nil)

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	got := decodeBody(t, w)
	assert.Equal(t, "Invalid room id", got["error"])
}

// --- PUT /api/rooms/:roomId ---

func TestRoomHandler_Update_Success(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	existing := &domain.Room{ID: 10, Name: "Porch", Slug: "porch", OwnerID: testUserID}
	env.roomRepo.On("FindByID", mock.Anything, uint(10)).Return(existing, nil).Once()
	env.userRepo.On("RoomsOf", mock.Anything, testUserID).Return([]domain.Room{*existing}, nil).Once()
	renamed := &domain.Room{ID: 10, Name: "Sun Room", Slug: "sun-room", OwnerID: testUserID}
	env.roomRepo.On("Rename", mock.Anything, uint(10), "Sun Room", "sun-room").Return(renamed, nil).Once()
	env.roomRepo.On("ReplaceInvitees", mock.Anything, uint(10), []uint{}).Return(nil).Once()

	// Act
	w := env.do(t, http.MethodPut, "/api/rooms/10", gin.H{"name": "Sun Room"})

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	got := decodeBody(t, w)
	assert.Equal(t, "Room updated successfully", got["message"])
	room, ok := got["room"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Sun Room", room["name"])
	env.roomRepo.AssertExpectations(t)
	env.userRepo.AssertExpectations(t)
}

// --- DELETE /api/rooms/:roomId ---

func TestRoomHandler_Delete_Success(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	env.userRepo.On("RoomsOf", mock.Anything, testUserID).Return([]domain.Room{
		{ID: 10, OwnerID: testUserID}, {ID: 11, OwnerID: testUserID},
	}, nil).Once()
	env.roomRepo.On("Delete", mock.Anything, uint(10)).
		Return(&domain.Room{ID: 10, OwnerID: testUserID}, nil).Once()
	env.plantRepo.On("DeleteByRoom", mock.Anything, uint(10)).Return(int64(3), nil).Once()
	env.userRepo.On("RemoveRoom", mock.Anything, testUserID, uint(10)).Return(nil).Once()

	// Act
	w := env.do(t, http.MethodDelete, "/api/rooms/10", nil)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	got := decodeBody(t, w)
	assert.Equal(t, "Room deleted successfully", got["message"])
	assert.Equal(t, "/rooms", got["redirect"])
	env.roomRepo.AssertExpectations(t)
	env.userRepo.AssertExpectations(t)
	env.plantRepo.AssertExpectations(t)
}

func TestRoomHandler_Delete_LastRoom_Conflict(t *testing.T) {
	// Arrange: 最后一个房间 → 409，响应携带房间数据供重新渲染
	env := newTestEnv(t)
	lastRoom := &domain.Room{ID: 10, Name: "Porch", Slug: "porch", OwnerID: testUserID}
	env.userRepo.On("RoomsOf", mock.Anything, testUserID).Return([]domain.Room{*lastRoom}, nil).Once()
	env.roomRepo.On("FindByID", mock.Anything, uint(10)).Return(lastRoom, nil).Once()

	// Act
	w := env.do(t, http.MethodDelete, "/api/rooms/10", nil)

	// Assert
	assert.Equal(t, http.StatusConflict, w.Code)
	got := decodeBody(t, w)
	assert.Equal(t, "you only have one room, you can't delete it", got["error"])
	room, ok := got["room"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Porch", room["name"])
	env.roomRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	env.plantRepo.AssertNotCalled(t, "DeleteByRoom", mock.Anything, mock.Anything)
	env.userRepo.AssertExpectations(t)
	env.roomRepo.AssertExpectations(t)
}

// --- GET /api/rooms (总览) ---

func TestRoomHandler_List_Success(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	env.userRepo.On("FindByID", mock.Anything, testUserID).
		Return(&domain.User{ID: testUserID, Username: "owner"}, nil).Once()
	env.userRepo.On("RoomsOf", mock.Anything, testUserID).Return([]domain.Room{
		{ID: 10, Name: "Porch", Slug: "porch", OwnerID: testUserID},
	}, nil).Once()
	env.roomRepo.On("InviteeIDs", mock.Anything, uint(10)).Return([]uint{}, nil).Once()
	env.plantRepo.On("FindByOwner", mock.Anything, testUserID).Return([]domain.Plant{}, nil).Once()

	// Act
	w := env.do(t, http.MethodGet, "/api/rooms", nil)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	got := decodeBody(t, w)
	rooms, ok := got["rooms"].([]interface{})
	require.True(t, ok)
	assert.Len(t, rooms, 1)
	env.roomRepo.AssertExpectations(t)
	env.userRepo.AssertExpectations(t)
	env.plantRepo.AssertExpectations(t)
}
