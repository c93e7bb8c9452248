package worker

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/The-OnlyPlants/onlyplants/internal/repository"
)

// InviteePruneHandler 处理周期性的受邀者悬挂引用清理任务。
// 读路径本身会容忍悬挂引用 (解析时静默省略)，这里负责不让它们累积。
type InviteePruneHandler struct {
	roomRepo repository.RoomRepository
}

// NewInviteePruneHandler 创建 Handler 实例
func NewInviteePruneHandler(roomRepo repository.RoomRepository) *InviteePruneHandler {
	if roomRepo == nil {
		panic("RoomRepository cannot be nil for InviteePruneHandler")
	}
	return &InviteePruneHandler{roomRepo: roomRepo}
}

// ProcessTask 实现 asynq.Handler 接口
func (h *InviteePruneHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	logCtx := logrus.WithField("task_type", t.Type())

	// 带超时的 context，避免任务卡死
	pruneCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pruned, err := h.roomRepo.PruneInvitees(pruneCtx)
	if err != nil {
		logCtx.WithError(err).Error("Invitee prune task failed")
		return err
	}

	if pruned > 0 {
		logCtx.WithField("pruned", pruned).Info("Pruned stale invitee references")
	} else {
		logCtx.Debug("No stale invitee references to prune")
	}
	return nil
}
