package orders

import (
	"context"
	"fmt"
	"time"

	"sparex/db"

	"go.mongodb.org/mongo-driver/bson"
)

// FormatOrderNumber builds ORD<yyyymmdd><seq> with the sequence zero
// padded to four digits.
func FormatOrderNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("ORD%s%04d", day.Format("20060102"), seq)
}

// nextOrderNumber derives the next sequential number from today's order
// count. The unique index on orderNumber catches the rare collision
// under concurrent placement, which aborts the transaction for a retry.
func nextOrderNumber(ctx context.Context) (string, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	count, err := db.OrdersCollection.CountDocuments(ctx, bson.M{
		"createdAt": bson.M{"$gte": dayStart},
	})
	if err != nil {
		return "", err
	}
	return FormatOrderNumber(now, count+1), nil
}
