package notifications

import (
	"context"
	"net/http"
	"time"

	"sparex/apperr"
	"sparex/db"
	"sparex/models"
	"sparex/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// recipientFilter scopes queries to the caller's inbox: staff read the
// shared admin inbox, customers read their own.
func recipientFilter(r *http.Request) bson.M {
	if utils.GetRoleFromRequest(r) == "admin" || utils.GetRoleFromRequest(r) == "superadmin" {
		return bson.M{"recipientKind": models.RecipientAdmin}
	}
	return bson.M{
		"recipientKind": models.RecipientUser,
		"recipientId":   utils.GetUserIDFromRequest(r),
	}
}

func List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	page, limit := utils.ParsePagination(r)
	filter := recipientFilter(r)

	if r.URL.Query().Get("unread") == "true" {
		filter["isRead"] = false
	}

	total, err := db.NotificationsCollection.CountDocuments(ctx, filter)
	if err != nil {
		utils.Error(w, err)
		return
	}

	unread := bson.M{"isRead": false}
	for k, v := range recipientFilter(r) {
		unread[k] = v
	}
	unreadCount, err := db.NotificationsCollection.CountDocuments(ctx, unread)
	if err != nil {
		utils.Error(w, err)
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := db.NotificationsCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.Error(w, err)
		return
	}
	defer cur.Close(ctx)

	notifs := []models.Notification{}
	if err := cur.All(ctx, &notifs); err != nil {
		utils.Error(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":     true,
		"message":     "Notifications fetched",
		"data":        notifs,
		"unreadCount": unreadCount,
		"pagination":  utils.NewPagination(total, page, limit),
	})
}

func MarkRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := recipientFilter(r)
	filter["notificationId"] = ps.ByName("notificationid")

	now := time.Now()
	res, err := db.NotificationsCollection.UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{"isRead": true, "readAt": now},
	})
	if err != nil {
		utils.Error(w, err)
		return
	}
	if res.MatchedCount == 0 {
		utils.Error(w, apperr.NotFound("Notification not found"))
		return
	}

	utils.Success(w, http.StatusOK, "Notification marked as read", nil)
}

func MarkAllRead(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := recipientFilter(r)
	filter["isRead"] = false

	now := time.Now()
	res, err := db.NotificationsCollection.UpdateMany(ctx, filter, bson.M{
		"$set": bson.M{"isRead": true, "readAt": now},
	})
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "All notifications marked as read", utils.M{
		"modified": res.ModifiedCount,
	})
}
