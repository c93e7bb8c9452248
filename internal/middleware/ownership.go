package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/The-OnlyPlants/onlyplants/internal/repository"
)

// ContextRoomIDKey 是所有权中间件写入 gin 上下文的房间 ID 键名。
const ContextRoomIDKey = "room_id"

// OwnRoom 返回一个 Gin 中间件，确认当前认证用户是 :roomId 房间的拥有者。
// 必须排在 Auth 之后。房间不存在返回 404；非拥有者返回 403。
// 通过校验后把解析好的房间 ID 写入上下文，handler 不必再解析参数。
func OwnRoom(roomRepo repository.RoomRepository) gin.HandlerFunc {
	if roomRepo == nil {
		panic("RoomRepository cannot be nil for OwnRoom middleware")
	}

	return func(c *gin.Context) {
		userIDAny, exists := c.Get(ContextUserIDKey)
		if !exists {
			logrus.Warn("OwnRoom middleware: user ID not found in context, Auth missing?")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			c.Abort()
			return
		}
		userID, ok := userIDAny.(uint)
		if !ok {
			logrus.Error("OwnRoom middleware: user ID in context is not uint")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error processing user ID"})
			c.Abort()
			return
		}

		roomID64, err := strconv.ParseUint(c.Param("roomId"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room id"})
			c.Abort()
			return
		}
		roomID := uint(roomID64)

		room, err := roomRepo.FindByID(c.Request.Context(), roomID)
		if err != nil {
			if errors.Is(err, repository.ErrRoomNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			} else {
				logrus.WithError(err).WithField("room_id", roomID).Error("OwnRoom middleware: repository error")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify room ownership"})
			}
			c.Abort()
			return
		}

		if room.OwnerID != userID {
			logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": userID, "owner_id": room.OwnerID}).
				Warn("OwnRoom middleware: user is not the owner of the room")
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this room"})
			c.Abort()
			return
		}

		c.Set(ContextRoomIDKey, roomID)
		c.Next()
	}
}
