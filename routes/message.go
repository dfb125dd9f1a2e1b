package routes

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"internship-registry-server/database"
	"internship-registry-server/middleware"
	"internship-registry-server/models"
	"internship-registry-server/utils"
	ws "internship-registry-server/websocket"
)

var hub *ws.Hub

// SetHub wires the websocket hub into the message routes
func SetHub(h *ws.Hub) {
	hub = h
}

// RegisterMessageRoutes registers the direct-message routes
func RegisterMessageRoutes(router *gin.Engine) {
	router.GET("/messages/:receiverId", middleware.AuthMiddleware(), getConversation)
	router.POST("/messages", middleware.AuthMiddleware(), sendMessage)
	router.GET("/ws", middleware.WebSocketAuthMiddleware(), serveWs)
}

// RegisterAdminMessageRoutes registers the admin chat oversight routes
func RegisterAdminMessageRoutes(admin *gin.RouterGroup) {
	admin.GET("/messages/user/:id/chats", listChatPartners)
	admin.GET("/messages/conversation/:user1/:user2", getChatBetween)
}

// getConversation returns the full message history between the caller and
// another user, oldest first, shaped for the caller's point of view.
func getConversation(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	receiverID, err := strconv.ParseUint(c.Param("receiverId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var messages []models.Message
	if err := database.DB.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			user.ID, uint(receiverID), uint(receiverID), user.ID).
		Order("created_at asc").
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	out := make([]models.MessageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, messages[i].ForViewer(user.ID))
	}

	c.JSON(http.StatusOK, gin.H{"messages": out})
}

// sendMessage appends a message to the conversation log and nudges the
// receiver over the websocket when they are online. Delivery of the nudge
// is best effort; the row in the log is the source of truth.
func sendMessage(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.MessageCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": utils.ValidationErrors(err)})
		return
	}

	if req.ReceiverID == user.ID {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"errors": utils.FieldError("receiver_id", "You cannot message yourself."),
		})
		return
	}

	var receiver models.User
	if err := database.DB.First(&receiver, req.ReceiverID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Receiver not found"})
		return
	}

	message := models.Message{
		SenderID:   user.ID,
		ReceiverID: receiver.ID,
		Message:    req.Message,
	}

	if err := database.DB.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	if hub != nil {
		hub.SendToUser(receiver.ID, &ws.Message{
			Type:      "message",
			SenderID:  user.ID,
			Timestamp: time.Now(),
			Data:      message.ForViewer(receiver.ID),
		})
	}

	log.Printf("✅ Message %d sent from user %d to user %d", message.ID, user.ID, receiver.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message": message.ForViewer(user.ID),
	})
}

// serveWs upgrades the connection and registers the client with the hub
func serveWs(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Live updates are not available"})
		return
	}

	ws.ServeWebSocket(hub, c.Writer, c.Request, user.ID)
}

// listChatPartners returns the distinct users a given user has exchanged
// messages with, as their public fields.
func listChatPartners(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var partnerIDs []uint
	if err := database.DB.
		Model(&models.Message{}).
		Select("DISTINCT CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END AS partner_id", user.ID).
		Where("sender_id = ? OR receiver_id = ?", user.ID, user.ID).
		Scan(&partnerIDs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chats"})
		return
	}

	partners := make([]models.PublicUser, 0, len(partnerIDs))
	if len(partnerIDs) > 0 {
		var users []models.User
		if err := database.DB.Where("id IN ?", partnerIDs).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chats"})
			return
		}
		for i := range users {
			partners = append(partners, users[i].Public())
		}
	}

	c.JSON(http.StatusOK, gin.H{"partners": partners})
}

// getChatBetween returns the message history between two users
func getChatBetween(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	userID, err := strconv.ParseUint(c.Param("user1"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	otherID, err := strconv.ParseUint(c.Param("user2"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var messages []models.Message
	if err := database.DB.
		Preload("Sender").
		Preload("Receiver").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			uint(userID), uint(otherID), uint(otherID), uint(userID)).
		Order("created_at asc").
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
