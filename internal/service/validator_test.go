package service_test // 测试包

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/The-OnlyPlants/onlyplants/internal/domain"
	"github.com/The-OnlyPlants/onlyplants/internal/repository/mocks"
	"github.com/The-OnlyPlants/onlyplants/internal/service"
)

// --- 测试 ValidateName 方法 ---

func TestRoomValidator_ValidateName(t *testing.T) {
	validator := service.NewRoomValidator(new(mocks.UserRepository))

	testCases := []struct {
		desc       string
		name       string
		wantReason service.ValidationReason // "" 表示应通过
	}{
		{desc: "空名称", name: "", wantReason: service.ReasonMissingField},
		{desc: "少于 3 个字符", name: "ab", wantReason: service.ReasonTooShort},
		{desc: "刚好 3 个字符", name: "abc", wantReason: ""},
		{desc: "刚好 15 个字符", name: "exactly15chars!", wantReason: ""},
		{desc: "超过 15 个字符", name: "this name is too long", wantReason: service.ReasonTooLong},
		{desc: "多字节字符按字符数计", name: "阳台花园", wantReason: ""}, // 4 个字符, 12 字节
		{desc: "普通名称", name: "Living Room", wantReason: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			verr := validator.ValidateName(tc.name)
			if tc.wantReason == "" {
				assert.Nil(t, verr, "名称 %q 应通过校验", tc.name)
			} else {
				require.NotNil(t, verr, "名称 %q 应校验失败", tc.name)
				assert.Equal(t, tc.wantReason, verr.Reason)
				assert.Equal(t, tc.name, verr.Name, "应回带提交的原始名称")
			}
		})
	}
}

// --- 测试 DeriveSlug 方法 ---

func TestRoomValidator_DeriveSlug(t *testing.T) {
	validator := service.NewRoomValidator(new(mocks.UserRepository))

	testCases := []struct {
		name string
		want string
	}{
		{name: "My Room", want: "my-room"},
		// 派生是有损的：标点不同的名称得到相同的 slug
		{name: "My Room!", want: "my-room"},
		{name: "My Room?", want: "my-room"},
		{name: "Kitchen", want: "kitchen"},
		{name: "Sunny   Porch", want: "sunny-porch"}, // 连续空白折叠成一个 "-"
		{name: "Mia's Garden", want: "mias-garden"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := validator.DeriveSlug(tc.name)
			assert.Equal(t, tc.want, got)
			// 同一输入必须得到同一输出
			assert.Equal(t, got, validator.DeriveSlug(tc.name), "派生应是确定性的")
		})
	}
}

// --- 测试 IsNameAvailable 方法 ---

func TestRoomValidator_IsNameAvailable_Taken(t *testing.T) {
	// Arrange: 拥有者已经有一个叫 Garden 的房间
	mockUserRepo := new(mocks.UserRepository)
	validator := service.NewRoomValidator(mockUserRepo)
	ctx := context.Background()
	ownerID := uint(1)

	mockUserRepo.On("RoomsOf", ctx, ownerID).Return([]domain.Room{
		{ID: 10, Name: "Garden", OwnerID: ownerID},
		{ID: 11, Name: "Porch", OwnerID: ownerID},
	}, nil).Once()

	// Act
	available, err := validator.IsNameAvailable(ctx, ownerID, "Garden", 0)

	// Assert
	assert.NoError(t, err)
	assert.False(t, available, "同名房间已存在时应不可用")
	mockUserRepo.AssertExpectations(t)
}

func TestRoomValidator_IsNameAvailable_CaseSensitive(t *testing.T) {
	// Arrange: 唯一性是区分大小写的精确比较
	mockUserRepo := new(mocks.UserRepository)
	validator := service.NewRoomValidator(mockUserRepo)
	ctx := context.Background()

	mockUserRepo.On("RoomsOf", ctx, uint(1)).Return([]domain.Room{
		{ID: 10, Name: "Garden", OwnerID: 1},
	}, nil).Once()

	// Act
	available, err := validator.IsNameAvailable(ctx, 1, "garden", 0)

	// Assert: "garden" 与 "Garden" 不同，应可用
	assert.NoError(t, err)
	assert.True(t, available)
	mockUserRepo.AssertExpectations(t)
}

func TestRoomValidator_IsNameAvailable_ExcludesOwnRoom(t *testing.T) {
	// Arrange: 编辑房间 10 时把名字"改回" Garden 应被允许
	mockUserRepo := new(mocks.UserRepository)
	validator := service.NewRoomValidator(mockUserRepo)
	ctx := context.Background()

	mockUserRepo.On("RoomsOf", ctx, uint(1)).Return([]domain.Room{
		{ID: 10, Name: "Garden", OwnerID: 1},
		{ID: 11, Name: "Porch", OwnerID: 1},
	}, nil).Once()

	// Act
	available, err := validator.IsNameAvailable(ctx, 1, "Garden", 10)

	// Assert
	assert.NoError(t, err)
	assert.True(t, available, "排除自身后同名应可用")
	mockUserRepo.AssertExpectations(t)
}

func TestRoomValidator_IsNameAvailable_StoreError(t *testing.T) {
	// Arrange: 仓库层失败时应包装成 ErrStore 而不是吞掉
	mockUserRepo := new(mocks.UserRepository)
	validator := service.NewRoomValidator(mockUserRepo)
	ctx := context.Background()

	dbErr := errors.New("connection refused")
	mockUserRepo.On("RoomsOf", ctx, uint(1)).Return(nil, dbErr).Once()

	// Act
	available, err := validator.IsNameAvailable(ctx, 1, "Garden", 0)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrStore), "错误应可辨识为 ErrStore")
	assert.False(t, available)
	mockUserRepo.AssertExpectations(t)
}

// --- 测试 ValidationError 的文案 ---

func TestValidationError_Messages(t *testing.T) {
	testCases := []struct {
		reason service.ValidationReason
		name   string
		want   string
	}{
		{service.ReasonMissingField, "", "Please fill out all required fields."},
		{service.ReasonTooShort, "ab", "The name of the room must contain at least 3 characters."},
		{service.ReasonTooLong, "a very very long name", "The name of the room should be 15 characters maximum."},
		{service.ReasonDuplicateName, "Garden", `You already have a room "Garden". Please choose another name.`},
	}

	for _, tc := range testCases {
		verr := &service.ValidationError{Reason: tc.reason, Name: tc.name}
		assert.Equal(t, tc.want, verr.Error())
	}
}
