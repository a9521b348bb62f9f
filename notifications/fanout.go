// Package notifications persists notifications and fans them out to
// connected sockets. Fan-out is best effort: a failed insert or push is
// logged and never fails the operation that triggered it.
package notifications

import (
	"context"
	"log"
	"time"

	"sparex/db"
	"sparex/models"
	"sparex/realtime"
	"sparex/utils"
)

var hub *realtime.Hub

// UseHub wires the websocket hub in at startup.
func UseHub(h *realtime.Hub) {
	hub = h
}

// NotifyUser stores a notification for one customer and pushes it to
// their room.
func NotifyUser(ctx context.Context, userID, notifType, title, message, priority string, data models.NotificationData) {
	n := models.Notification{
		NotificationID: utils.GenerateID("n", 12),
		RecipientKind:  models.RecipientUser,
		RecipientID:    userID,
		Type:           notifType,
		Title:          title,
		Message:        message,
		Data:           data,
		Priority:       priority,
		CreatedAt:      time.Now(),
	}
	persistAndPush(ctx, n, realtime.UserRoom(userID))
}

// NotifyAdmins stores a notification in the shared staff inbox and
// pushes it to the admins room.
func NotifyAdmins(ctx context.Context, notifType, title, message, priority string, data models.NotificationData) {
	n := models.Notification{
		NotificationID: utils.GenerateID("n", 12),
		RecipientKind:  models.RecipientAdmin,
		Type:           notifType,
		Title:          title,
		Message:        message,
		Data:           data,
		Priority:       priority,
		CreatedAt:      time.Now(),
	}
	persistAndPush(ctx, n, realtime.AdminsRoom)
}

func persistAndPush(ctx context.Context, n models.Notification, room string) {
	if n.Priority == "" {
		n.Priority = models.PriorityMedium
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := db.NotificationsCollection.InsertOne(ctx, n); err != nil {
		log.Println("notification insert:", err)
	}

	if hub != nil {
		hub.Emit(room, realtime.Event{Type: "new_notification", Data: n})
	}
}
