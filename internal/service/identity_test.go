package service_test // 测试包

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/The-OnlyPlants/onlyplants/internal/domain"
	"github.com/The-OnlyPlants/onlyplants/internal/repository"
	"github.com/The-OnlyPlants/onlyplants/internal/repository/mocks"
	"github.com/The-OnlyPlants/onlyplants/internal/service"
)

// --- 测试 UsernamesToIDs 方法 ---

func TestIdentityService_UsernamesToIDs_Success(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	identity := service.NewIdentityService(mockUserRepo)
	ctx := context.Background()

	mockUserRepo.On("FindByUsername", ctx, "mia").Return(&domain.User{ID: 2, Username: "mia"}, nil).Once()
	mockUserRepo.On("FindByUsername", ctx, "kai").Return(&domain.User{ID: 3, Username: "kai"}, nil).Once()

	// Act
	ids, err := identity.UsernamesToIDs(ctx, []string{"mia", "kai"})

	// Assert: 顺序保持
	assert.NoError(t, err)
	assert.Equal(t, []uint{2, 3}, ids)
	mockUserRepo.AssertExpectations(t)
}

func TestIdentityService_UsernamesToIDs_SkipsBlankEntries(t *testing.T) {
	// Arrange: 空白条目不应触发任何查询
	mockUserRepo := new(mocks.UserRepository)
	identity := service.NewIdentityService(mockUserRepo)
	ctx := context.Background()

	mockUserRepo.On("FindByUsername", ctx, "mia").Return(&domain.User{ID: 2, Username: "mia"}, nil).Once()

	// Act: 首尾空白会被去除，"  mia  " 按 "mia" 解析
	ids, err := identity.UsernamesToIDs(ctx, []string{"", "   ", "  mia  "})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, []uint{2}, ids)
	mockUserRepo.AssertExpectations(t)
	mockUserRepo.AssertNumberOfCalls(t, "FindByUsername", 1)
}

func TestIdentityService_UsernamesToIDs_DropsUnresolvable(t *testing.T) {
	// Arrange: 解析不到的用户名静默丢弃，不让整批失败
	mockUserRepo := new(mocks.UserRepository)
	identity := service.NewIdentityService(mockUserRepo)
	ctx := context.Background()

	mockUserRepo.On("FindByUsername", ctx, "mia").Return(&domain.User{ID: 2, Username: "mia"}, nil).Once()
	mockUserRepo.On("FindByUsername", ctx, "ghost").Return(nil, repository.ErrUserNotFound).Once()
	mockUserRepo.On("FindByUsername", ctx, "kai").Return(&domain.User{ID: 3, Username: "kai"}, nil).Once()

	// Act
	ids, err := identity.UsernamesToIDs(ctx, []string{"mia", "ghost", "kai"})

	// Assert
	assert.NoError(t, err, "解析不到不应是错误")
	assert.Equal(t, []uint{2, 3}, ids, "ghost 应被丢弃，其余保持顺序")
	mockUserRepo.AssertExpectations(t)
}

func TestIdentityService_UsernamesToIDs_AllUnresolvable(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	identity := service.NewIdentityService(mockUserRepo)
	ctx := context.Background()

	mockUserRepo.On("FindByUsername", ctx, mock.AnythingOfType("string")).
		Return(nil, repository.ErrUserNotFound).Twice()

	// Act
	ids, err := identity.UsernamesToIDs(ctx, []string{"ghost1", "ghost2"})

	// Assert: 得到空集合而非错误
	assert.NoError(t, err)
	assert.Empty(t, ids)
	mockUserRepo.AssertExpectations(t)
}

func TestIdentityService_UsernamesToIDs_StoreError(t *testing.T) {
	// Arrange: "未找到"之外的仓库错误必须向上传递，不能当成丢弃处理
	mockUserRepo := new(mocks.UserRepository)
	identity := service.NewIdentityService(mockUserRepo)
	ctx := context.Background()

	mockUserRepo.On("FindByUsername", ctx, "mia").Return(nil, errors.New("connection reset")).Once()

	// Act
	ids, err := identity.UsernamesToIDs(ctx, []string{"mia"})

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrStore))
	assert.Nil(t, ids)
	mockUserRepo.AssertExpectations(t)
}

// --- 测试 IDsToUsernames 方法 ---

func TestIdentityService_IDsToUsernames_Success(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	identity := service.NewIdentityService(mockUserRepo)
	ctx := context.Background()

	mockUserRepo.On("FindByID", ctx, uint(2)).Return(&domain.User{ID: 2, Username: "mia"}, nil).Once()
	mockUserRepo.On("FindByID", ctx, uint(3)).Return(&domain.User{ID: 3, Username: "kai"}, nil).Once()

	// Act
	names, err := identity.IDsToUsernames(ctx, []uint{2, 3})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, []string{"mia", "kai"}, names)
	mockUserRepo.AssertExpectations(t)
}

func TestIdentityService_IDsToUsernames_OmitsDanglingReferences(t *testing.T) {
	// Arrange: 指向已删除用户的 ID 不产生条目 (悬挂引用容忍)
	mockUserRepo := new(mocks.UserRepository)
	identity := service.NewIdentityService(mockUserRepo)
	ctx := context.Background()

	mockUserRepo.On("FindByID", ctx, uint(2)).Return(&domain.User{ID: 2, Username: "mia"}, nil).Once()
	mockUserRepo.On("FindByID", ctx, uint(99)).Return(nil, repository.ErrUserNotFound).Once()

	// Act
	names, err := identity.IDsToUsernames(ctx, []uint{2, 99})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, []string{"mia"}, names)
	mockUserRepo.AssertExpectations(t)
}

func TestIdentityService_IDsToUsernames_StoreError(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	identity := service.NewIdentityService(mockUserRepo)
	ctx := context.Background()

	mockUserRepo.On("FindByID", ctx, uint(2)).Return(nil, errors.New("deadlock detected")).Once()

	// Act
	names, err := identity.IDsToUsernames(ctx, []uint{2})

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrStore))
	assert.Nil(t, names)
	mockUserRepo.AssertExpectations(t)
}
