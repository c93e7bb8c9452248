package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/The-OnlyPlants/onlyplants/internal/domain"
	"github.com/The-OnlyPlants/onlyplants/internal/service"
)

// RoomHandler 封装了与房间管理相关的 HTTP 处理逻辑
type RoomHandler struct {
	roomService *service.RoomService
}

// NewRoomHandler 创建 RoomHandler 实例
func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// UserSummary 是邀请候选列表里展示的用户投影 (不含敏感字段)
type UserSummary struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

func summarize(users []domain.User) []UserSummary {
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, UserSummary{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL})
	}
	return out
}

// RoomRequest 定义创建/编辑房间请求的结构体。
// name 不加 binding 约束：缺失/过短/过长由服务层校验并以结构化结果回显。
type RoomRequest struct {
	Name     string   `json:"name"`
	Invitees []string `json:"invitees"` // 受邀者用户名列表
}

// List 处理房间总览请求
func (h *RoomHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	view, err := h.roomService.ListRooms(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, view)
}

// CreateForm 返回创建表单所需的数据：可选为受邀者的其他用户
func (h *RoomHandler) CreateForm(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	candidates, err := h.roomService.CreateForm(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"candidates": summarize(candidates)})
}

// Create 处理创建新房间的请求
func (h *RoomHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Create: invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input")
		return
	}

	room, err := h.roomService.Create(c.Request.Context(), userID, req.Name, req.Invitees)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "room_id": room.ID}).Info("Handler.Create: room created")
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Room created successfully",
		"room":     room,
		"redirect": "/rooms",
	})
}

// Get 处理按 ID 查看房间的请求。
// 不做所有权检查：任何已认证用户都可以查看任意房间 (开放读取)。
func (h *RoomHandler) Get(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	room, err := h.roomService.Get(c.Request.Context(), roomID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"room": room})
}

// EditForm 返回编辑表单所需的数据 (要求拥有者身份，由 OwnRoom 中间件保证)
func (h *RoomHandler) EditForm(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	view, err := h.roomService.EditForm(c.Request.Context(), roomID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{
		"room":              view.Room,
		"candidates":        summarize(view.Candidates),
		"invitee_usernames": view.InviteeUsernames,
	})
}

// Update 处理重命名 + 整体替换受邀者集合的请求 (要求拥有者身份)
func (h *RoomHandler) Update(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	var req RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Update: invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input")
		return
	}

	room, err := h.roomService.Update(c.Request.Context(), roomID, req.Name, req.Invitees)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	logrus.WithField("room_id", room.ID).Info("Handler.Update: room updated")
	SuccessResponse(c, http.StatusOK, gin.H{
		"message":  "Room updated successfully",
		"room":     room,
		"redirect": "/rooms",
	})
}

// Delete 处理删除房间的请求 (要求拥有者身份)。
// 策略拒绝 (最后一个房间) 时返回 409，连同房间数据，
// 调用方用它重新渲染编辑视图而不是跳转。
func (h *RoomHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	if err := h.roomService.Delete(c.Request.Context(), roomID, userID); err != nil {
		if errors.Is(err, service.ErrLastRoomUndeletable) {
			room, gerr := h.roomService.Get(c.Request.Context(), roomID)
			if gerr != nil {
				HandleServiceError(c, gerr)
				return
			}
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "room": room})
			return
		}
		HandleServiceError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "room_id": roomID}).Info("Handler.Delete: room deleted")
	SuccessResponse(c, http.StatusOK, gin.H{
		"message":  "Room deleted successfully",
		"redirect": "/rooms",
	})
}

// roomIDParam 解析路径里的 :roomId 参数
func roomIDParam(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param("roomId"), 10, 32)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid room id")
		return 0, false
	}
	return uint(id64), true
}
