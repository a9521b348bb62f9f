package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"sparex/apperr"
	"sparex/db"
	"sparex/models"
	"sparex/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

type addressInput struct {
	AddressType string `json:"addressType"`
	Street      string `json:"street"`
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
	Phone       string `json:"phone"`
	IsDefault   bool   `json:"isDefault"`
}

func (in *addressInput) validate() error {
	if in.Street == "" || in.City == "" || in.State == "" || in.Pincode == "" {
		return apperr.BadRequest("Street, city, state and pincode are required")
	}
	return nil
}

func AddAddress(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input addressInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Error(w, apperr.BadRequest("Invalid input"))
		return
	}
	if err := input.validate(); err != nil {
		utils.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&user); err != nil {
		utils.Error(w, apperr.NotFound("User not found"))
		return
	}

	addr := models.Address{
		AddressID:   utils.GenerateID("addr", 10),
		AddressType: input.AddressType,
		Street:      input.Street,
		City:        input.City,
		State:       input.State,
		Pincode:     input.Pincode,
		Phone:       input.Phone,
		IsDefault:   input.IsDefault || len(user.Addresses) == 0,
	}

	// Only one default at a time
	if addr.IsDefault {
		for i := range user.Addresses {
			user.Addresses[i].IsDefault = false
		}
	}
	user.Addresses = append(user.Addresses, addr)

	_, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"addresses": user.Addresses, "updatedAt": time.Now()}},
	)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusCreated, "Address added", addr)
}

func UpdateAddress(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input addressInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Error(w, apperr.BadRequest("Invalid input"))
		return
	}
	if err := input.validate(); err != nil {
		utils.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	addressID := ps.ByName("addressid")

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&user); err != nil {
		utils.Error(w, apperr.NotFound("User not found"))
		return
	}

	target := user.AddressByID(addressID)
	if target == nil {
		utils.Error(w, apperr.NotFound("Address not found"))
		return
	}

	if input.IsDefault {
		for i := range user.Addresses {
			user.Addresses[i].IsDefault = false
		}
	}
	target.AddressType = input.AddressType
	target.Street = input.Street
	target.City = input.City
	target.State = input.State
	target.Pincode = input.Pincode
	target.Phone = input.Phone
	target.IsDefault = input.IsDefault

	_, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"addresses": user.Addresses, "updatedAt": time.Now()}},
	)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "Address updated", target)
}

func DeleteAddress(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	addressID := ps.ByName("addressid")

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&user); err != nil {
		utils.Error(w, apperr.NotFound("User not found"))
		return
	}

	kept := user.Addresses[:0]
	removed := false
	wasDefault := false
	for _, a := range user.Addresses {
		if a.AddressID == addressID {
			removed = true
			wasDefault = a.IsDefault
			continue
		}
		kept = append(kept, a)
	}
	if !removed {
		utils.Error(w, apperr.NotFound("Address not found"))
		return
	}
	if wasDefault && len(kept) > 0 {
		kept[0].IsDefault = true
	}

	_, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"addresses": kept, "updatedAt": time.Now()}},
	)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "Address deleted", nil)
}
