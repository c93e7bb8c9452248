package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/The-OnlyPlants/onlyplants/internal/domain"
	"github.com/The-OnlyPlants/onlyplants/internal/repository"
)

// RoomService 是房间生命周期的编排层：协调 Room 记录、拥有者的房间列表
// 和房间内的植物，保证三者在每次变更后保持一致。
// 每次变更是一串相互依赖的读写；没有分布式事务，失败语义见各方法注释。
type RoomService struct {
	roomRepo  repository.RoomRepository
	userRepo  repository.UserRepository
	plantRepo repository.PlantRepository
	identity  *IdentityService
	validator *RoomValidator
}

// NewRoomService 创建 RoomService 实例。
func NewRoomService(
	roomRepo repository.RoomRepository,
	userRepo repository.UserRepository,
	plantRepo repository.PlantRepository,
	identity *IdentityService,
	validator *RoomValidator,
) *RoomService {
	if roomRepo == nil || userRepo == nil || plantRepo == nil {
		panic("repositories cannot be nil for RoomService")
	}
	if identity == nil || validator == nil {
		panic("IdentityService and RoomValidator cannot be nil for RoomService")
	}
	return &RoomService{
		roomRepo:  roomRepo,
		userRepo:  userRepo,
		plantRepo: plantRepo,
		identity:  identity,
		validator: validator,
	}
}

// RoomView 是带已解析受邀者用户名的房间视图。
type RoomView struct {
	Room             domain.Room `json:"room"`
	InviteeUsernames []string    `json:"invitee_usernames"`
}

// RoomListView 是房间总览页的数据：用户的房间 (含受邀者用户名) 和植物。
type RoomListView struct {
	Rooms  []RoomView     `json:"rooms"`
	Plants []domain.Plant `json:"plants"`
}

// EditFormView 是编辑表单的数据：房间本身、可选受邀者候选 (不含拥有者)、
// 当前受邀者的用户名 (回填多选框用)。
type EditFormView struct {
	Room             *domain.Room  `json:"room"`
	Candidates       []domain.User `json:"candidates"`
	InviteeUsernames []string      `json:"invitee_usernames"`
}

// ListRooms 返回用户的房间列表，受邀者引用解析成用户名。
func (s *RoomService) ListRooms(ctx context.Context, userID uint) (*RoomListView, error) {
	logCtx := logrus.WithField("user_id", userID)

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		logCtx.WithError(err).Error("ListRooms: failed to load user")
		return nil, storeErr(err)
	}

	rooms, err := s.userRepo.RoomsOf(ctx, userID)
	if err != nil {
		logCtx.WithError(err).Error("ListRooms: failed to load room list")
		return nil, storeErr(err)
	}

	views := make([]RoomView, 0, len(rooms))
	for _, room := range rooms {
		ids, err := s.roomRepo.InviteeIDs(ctx, room.ID)
		if err != nil {
			logCtx.WithError(err).WithField("room_id", room.ID).Error("ListRooms: failed to load invitees")
			return nil, storeErr(err)
		}
		names, err := s.identity.IDsToUsernames(ctx, ids)
		if err != nil {
			return nil, err
		}
		views = append(views, RoomView{Room: room, InviteeUsernames: names})
	}

	plants, err := s.plantRepo.FindByOwner(ctx, userID)
	if err != nil {
		logCtx.WithError(err).Error("ListRooms: failed to load plants")
		return nil, storeErr(err)
	}

	return &RoomListView{Rooms: views, Plants: plants}, nil
}

// CreateForm 返回创建表单的数据：可选为受邀者的其他用户。
func (s *RoomService) CreateForm(ctx context.Context, userID uint) ([]domain.User, error) {
	candidates, err := s.userRepo.FindAllExcept(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("CreateForm: failed to load candidates")
		return nil, storeErr(err)
	}
	return candidates, nil
}

// Create 创建一个新房间：校验名称 → 检查唯一性 → 解析受邀者 → 写入房间 →
// 附加受邀者 → 把房间追加到拥有者的房间列表。
// 校验失败返回 *ValidationError 且不产生任何写入。
// 房间创建之后的步骤失败时房间已存在但未挂到拥有者名下——
// 本核心接受这种降级状态 (没有补偿回滚)，错误仍然如实向上报告。
func (s *RoomService) Create(ctx context.Context, ownerID uint, name string, inviteeUsernames []string) (*domain.Room, error) {
	name = strings.TrimSpace(name)
	logCtx := logrus.WithFields(logrus.Fields{"owner_id": ownerID, "name": name})

	if verr := s.validator.ValidateName(name); verr != nil {
		return nil, verr
	}
	available, err := s.validator.IsNameAvailable(ctx, ownerID, name, 0)
	if err != nil {
		logCtx.WithError(err).Error("Create: uniqueness check failed")
		return nil, err
	}
	if !available {
		logCtx.Info("Create: room name already taken for this owner")
		return nil, &ValidationError{Reason: ReasonDuplicateName, Name: name}
	}

	inviteeIDs, err := s.resolveInvitees(ctx, ownerID, inviteeUsernames)
	if err != nil {
		return nil, err
	}

	room := &domain.Room{
		Name:    name,
		Slug:    s.validator.DeriveSlug(name),
		OwnerID: ownerID,
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		logCtx.WithError(err).Error("Create: failed to insert room")
		return nil, storeErr(err)
	}
	logCtx = logCtx.WithField("room_id", room.ID)

	if len(inviteeIDs) > 0 {
		if err := s.roomRepo.ReplaceInvitees(ctx, room.ID, inviteeIDs); err != nil {
			logCtx.WithError(err).Error("Create: failed to attach invitees")
			return nil, storeErr(err)
		}
	}

	if err := s.userRepo.AppendRoom(ctx, ownerID, room); err != nil {
		logCtx.WithError(err).Error("Create: failed to link room to owner")
		return nil, storeErr(err)
	}

	logCtx.Info("Room created successfully")
	return room, nil
}

// Get 根据 ID 返回房间。
// 任何已认证用户都可以按 ID 查看房间——与原始行为一致的开放读取，
// 只有写路径要求拥有者身份。
func (s *RoomService) Get(ctx context.Context, roomID uint) (*domain.Room, error) {
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		logrus.WithError(err).WithField("room_id", roomID).Error("Get: repository error")
		return nil, storeErr(err)
	}
	return room, nil
}

// EditForm 返回编辑表单的数据：房间、候选用户 (不含拥有者本人)、
// 当前受邀者的用户名。
func (s *RoomService) EditForm(ctx context.Context, roomID uint) (*EditFormView, error) {
	room, err := s.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	logCtx := logrus.WithField("room_id", roomID)

	ids, err := s.roomRepo.InviteeIDs(ctx, roomID)
	if err != nil {
		logCtx.WithError(err).Error("EditForm: failed to load invitees")
		return nil, storeErr(err)
	}
	names, err := s.identity.IDsToUsernames(ctx, ids)
	if err != nil {
		return nil, err
	}

	candidates, err := s.userRepo.FindAllExcept(ctx, room.OwnerID)
	if err != nil {
		logCtx.WithError(err).Error("EditForm: failed to load candidates")
		return nil, storeErr(err)
	}

	return &EditFormView{Room: room, Candidates: candidates, InviteeUsernames: names}, nil
}

// Update 重命名房间并整体替换受邀者集合：校验名称 → 检查唯一性 (排除本房间，
// 允许改回当前名字) → 解析受邀者 → 重命名 → 清空并重建受邀者集合
// (空列表即清空所有受邀者)。校验失败不产生任何写入。
func (s *RoomService) Update(ctx context.Context, roomID uint, name string, inviteeUsernames []string) (*domain.Room, error) {
	name = strings.TrimSpace(name)
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "name": name})

	room, err := s.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if verr := s.validator.ValidateName(name); verr != nil {
		return nil, verr
	}
	available, err := s.validator.IsNameAvailable(ctx, room.OwnerID, name, roomID)
	if err != nil {
		logCtx.WithError(err).Error("Update: uniqueness check failed")
		return nil, err
	}
	if !available {
		logCtx.Info("Update: room name already taken for this owner")
		return nil, &ValidationError{Reason: ReasonDuplicateName, Name: name}
	}

	inviteeIDs, err := s.resolveInvitees(ctx, room.OwnerID, inviteeUsernames)
	if err != nil {
		return nil, err
	}

	renamed, err := s.roomRepo.Rename(ctx, roomID, name, s.validator.DeriveSlug(name))
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		logCtx.WithError(err).Error("Update: failed to rename room")
		return nil, storeErr(err)
	}

	if err := s.roomRepo.ReplaceInvitees(ctx, roomID, inviteeIDs); err != nil {
		logCtx.WithError(err).Error("Update: failed to replace invitees")
		return nil, storeErr(err)
	}

	logCtx.Info("Room updated successfully")
	return renamed, nil
}

// Delete 删除房间：先检查最后一个房间策略，然后执行三步级联——
// 删除房间记录、删除房间内的所有植物、从拥有者的房间列表移除引用。
// 三个子步骤无论单步是否失败都会全部尝试，第一个错误向上报告；
// 子步骤之间的顺序对正确性无影响。
// 拥有者只剩一个房间时返回 ErrLastRoomUndeletable 且不改动任何状态。
func (s *RoomService) Delete(ctx context.Context, roomID, ownerID uint) error {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "owner_id": ownerID})

	rooms, err := s.userRepo.RoomsOf(ctx, ownerID)
	if err != nil {
		logCtx.WithError(err).Error("Delete: failed to load owner's room list")
		return storeErr(err)
	}
	if len(rooms) == 1 {
		logCtx.Info("Delete: rejected, owner's last room")
		return ErrLastRoomUndeletable
	}

	room, err := s.roomRepo.Delete(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return ErrRoomNotFound
		}
		logCtx.WithError(err).Error("Delete: failed to delete room")
		return storeErr(err)
	}

	// 剩下两个子步骤即使其一失败也都要尝试，避免留下更多悬挂引用
	var firstErr error
	if _, err := s.plantRepo.DeleteByRoom(ctx, room.ID); err != nil {
		logCtx.WithError(err).Error("Delete: failed to delete plants of room")
		firstErr = err
	}
	if err := s.userRepo.RemoveRoom(ctx, ownerID, room.ID); err != nil {
		logCtx.WithError(err).Error("Delete: failed to unlink room from owner")
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return storeErr(firstErr)
	}

	logCtx.Info("Room deleted with cascade")
	return nil
}

// resolveInvitees 把提交的受邀者用户名解析为 ID 集合：
// 去重、并把拥有者本人过滤掉 (房间的受邀者集合永远不包含拥有者)。
func (s *RoomService) resolveInvitees(ctx context.Context, ownerID uint, usernames []string) ([]uint, error) {
	ids, err := s.identity.UsernamesToIDs(ctx, usernames)
	if err != nil {
		return nil, err
	}
	out := make([]uint, 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == ownerID {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
