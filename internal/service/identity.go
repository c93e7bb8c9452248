package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/The-OnlyPlants/onlyplants/internal/repository"
)

// IdentityService 负责用户名和用户 ID 之间的双向转换，
// 用于接收表单提交的受邀者用户名列表以及回填编辑表单。
// 纯查询，无副作用，可并发调用。
type IdentityService struct {
	userRepo repository.UserRepository
}

// NewIdentityService 创建 IdentityService 实例。
func NewIdentityService(userRepo repository.UserRepository) *IdentityService {
	if userRepo == nil {
		panic("UserRepository cannot be nil for IdentityService")
	}
	return &IdentityService{userRepo: userRepo}
}

// UsernamesToIDs 把用户名列表逐个解析为用户 ID，保持顺序。
// 空白条目跳过 (视为"没有受邀者")；解析不到的用户名静默丢弃而不是让整批失败。
// 仓库层的其他错误包装成 ErrStore 向上传递。
func (s *IdentityService) UsernamesToIDs(ctx context.Context, names []string) ([]uint, error) {
	ids := make([]uint, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		user, err := s.userRepo.FindByUsername(ctx, name)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				logrus.WithField("username", name).Debug("Identity: dropping unresolvable invitee username")
				continue
			}
			return nil, storeErr(err)
		}
		ids = append(ids, user.ID)
	}
	return ids, nil
}

// IDsToUsernames 是反向映射：把用户 ID 列表解析为用户名，保持顺序。
// 没有对应用户的 ID 不产生条目 (静默省略)，用于容忍尚未清理的悬挂引用。
func (s *IdentityService) IDsToUsernames(ctx context.Context, ids []uint) ([]string, error) {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		user, err := s.userRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				logrus.WithField("user_id", id).Debug("Identity: omitting dangling invitee reference")
				continue
			}
			return nil, storeErr(err)
		}
		names = append(names, user.Username)
	}
	return names, nil
}
