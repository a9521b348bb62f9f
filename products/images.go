package products

import (
	"context"
	"log"
	"net/http"
	"time"

	"sparex/apperr"
	"sparex/db"
	"sparex/filemgr"
	"sparex/models"
	"sparex/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// UploadImages accepts multipart "images" files and appends them to the
// product's gallery.
func UploadImages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.Error(w, apperr.BadRequest("Unable to parse form"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	productID := ps.ByName("productid")
	err := db.ProductsCollection.FindOne(ctx, bson.M{"productId": productID, "isDeleted": false}).Err()
	if err != nil {
		utils.Error(w, apperr.NotFound("Product not found"))
		return
	}

	saved, err := filemgr.SaveFormImages(r.MultipartForm, "images", filemgr.EntityProduct)
	if err != nil {
		utils.Error(w, apperr.BadRequest("Image upload failed: "+err.Error()))
		return
	}

	images := make([]models.ProductImage, 0, len(saved))
	for _, name := range saved {
		images = append(images, models.ProductImage{
			URL:    "/static/uploads/product/photo/" + name,
			FileID: name,
		})
	}

	_, err = db.ProductsCollection.UpdateOne(ctx,
		bson.M{"productId": productID},
		bson.M{
			"$push": bson.M{"images": bson.M{"$each": images}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "Images uploaded", images)
}

func DeleteImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("productid")
	fileID := ps.ByName("fileid")

	res, err := db.ProductsCollection.UpdateOne(ctx,
		bson.M{"productId": productID, "isDeleted": false},
		bson.M{
			"$pull": bson.M{"images": bson.M{"fileId": fileID}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if res.MatchedCount == 0 {
		utils.Error(w, apperr.NotFound("Product not found"))
		return
	}
	if res.ModifiedCount == 0 {
		utils.Error(w, apperr.NotFound("Image not found"))
		return
	}

	if err := filemgr.Remove(filemgr.EntityProduct, fileID); err != nil {
		log.Printf("image file cleanup failed for %s: %v", fileID, err)
	}

	utils.Success(w, http.StatusOK, "Image deleted", nil)
}
