package orders

import (
	"context"
	"net/http"
	"os"
	"time"

	"sparex/apperr"
	"sparex/db"
	"sparex/invoice"
	"sparex/models"
	"sparex/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// DownloadInvoice streams the invoice PDF for a delivered order,
// rendering it on first request.
func DownloadInvoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"orderId": ps.ByName("orderid")}).Decode(&order)
	if err != nil {
		utils.Error(w, apperr.NotFound("Order not found"))
		return
	}

	role := utils.GetRoleFromRequest(r)
	if order.UserID != utils.GetUserIDFromRequest(r) && role != "admin" && role != "superadmin" {
		utils.Error(w, apperr.Forbidden("You are not allowed to view this invoice"))
		return
	}
	if order.OrderStatus != models.OrderDelivered {
		utils.Error(w, apperr.BadRequest("Invoice is available once the order is delivered"))
		return
	}

	if order.InvoiceNumber == "" {
		order.InvoiceNumber = "INV-" + order.OrderNumber
	}

	path := order.InvoicePath
	if path == "" {
		path = invoice.PathFor(&order)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		var user models.User
		_ = db.UserCollection.FindOne(ctx, bson.M{"userId": order.UserID}).Decode(&user)

		path, err = invoice.Generate(&order, &user)
		if err != nil {
			utils.Error(w, err)
			return
		}
		_, _ = db.OrdersCollection.UpdateOne(ctx,
			bson.M{"orderId": order.OrderID},
			bson.M{"$set": bson.M{
				"invoiceNumber": order.InvoiceNumber,
				"invoicePath":   path,
				"updatedAt":     time.Now(),
			}},
		)
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+order.InvoiceNumber+".pdf")
	http.ServeFile(w, r, path)
}
