package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"sparex/apperr"
	"sparex/db"
	"sparex/models"
	"sparex/rdx"
	"sparex/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

func Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Phone    string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Error(w, apperr.BadRequest("Invalid input"))
		return
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Name == "" || input.Email == "" || len(input.Password) < 6 {
		utils.Error(w, apperr.BadRequest("Name, email and a password of at least 6 characters are required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err := db.UserCollection.FindOne(ctx, bson.M{"email": input.Email}).Err()
	if err == nil {
		utils.Error(w, apperr.Conflict("An account with this email already exists"))
		return
	} else if err != mongo.ErrNoDocuments {
		utils.Error(w, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash password for %s: %v", input.Email, err)
		utils.Error(w, apperr.Internal("Could not process password"))
		return
	}

	user := models.User{
		UserID:       utils.GenerateID("u", 10),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Phone:        input.Phone,
		Addresses:    []models.Address{},
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if _, err := db.UserCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.Error(w, apperr.Conflict("An account with this email already exists"))
			return
		}
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusCreated, "Registration successful", utils.M{
		"userId": user.UserID,
	})
}

func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Error(w, apperr.BadRequest("Invalid input"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(input.Email))}).Decode(&user)
	if err != nil {
		utils.Error(w, apperr.Unauthorized("Invalid email or password"))
		return
	}
	if !user.IsActive {
		utils.Error(w, apperr.Unauthorized("Account is disabled"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		utils.Error(w, apperr.Unauthorized("Invalid email or password"))
		return
	}

	tokenString, err := generateAccessToken(user.UserID, user.Name, []string{"user"})
	if err != nil {
		utils.Error(w, apperr.Internal("Failed to generate token"))
		return
	}

	refreshToken, err := generateRefreshToken()
	if err != nil {
		utils.Error(w, apperr.Internal("Failed to generate refresh token"))
		return
	}

	_, err = db.UserCollection.UpdateOne(ctx,
		bson.M{"userId": user.UserID},
		bson.M{"$set": bson.M{
			"refreshToken":  hashToken(refreshToken),
			"refreshExpiry": time.Now().Add(refreshTokenTTL),
			"lastLogin":     time.Now(),
		}},
	)
	if err != nil {
		utils.Error(w, apperr.Internal("Failed to store refresh token"))
		return
	}

	if err := rdx.RdxHset(tokenHash, user.UserID, tokenString); err != nil {
		log.Printf("Redis token storage failed: %v", err)
	}

	utils.Success(w, http.StatusOK, "Login successful", utils.M{
		"token":        tokenString,
		"refreshToken": refreshToken,
		"user": utils.M{
			"userId": user.UserID,
			"name":   user.Name,
			"email":  user.Email,
		},
	})
}

func RefreshToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		UserID       string `json:"userId"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.RefreshToken == "" {
		utils.Error(w, apperr.BadRequest("Refresh token is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{
		"userId":       input.UserID,
		"refreshToken": hashToken(input.RefreshToken),
	}).Decode(&user)
	if err != nil {
		utils.Error(w, apperr.Unauthorized("Invalid refresh token"))
		return
	}
	if user.RefreshExpiry == nil || user.RefreshExpiry.Before(time.Now()) {
		utils.Error(w, apperr.Unauthorized("Refresh token expired"))
		return
	}

	// Rotate on every use
	newRefresh, err := generateRefreshToken()
	if err != nil {
		utils.Error(w, apperr.Internal("Failed to generate refresh token"))
		return
	}
	tokenString, err := generateAccessToken(user.UserID, user.Name, []string{"user"})
	if err != nil {
		utils.Error(w, apperr.Internal("Failed to generate token"))
		return
	}

	_, err = db.UserCollection.UpdateOne(ctx,
		bson.M{"userId": user.UserID},
		bson.M{"$set": bson.M{
			"refreshToken":  hashToken(newRefresh),
			"refreshExpiry": time.Now().Add(refreshTokenTTL),
		}},
	)
	if err != nil {
		utils.Error(w, apperr.Internal("Failed to rotate refresh token"))
		return
	}

	if err := rdx.RdxHset(tokenHash, user.UserID, tokenString); err != nil {
		log.Printf("Redis token storage failed: %v", err)
	}

	utils.Success(w, http.StatusOK, "Token refreshed", utils.M{
		"token":        tokenString,
		"refreshToken": newRefresh,
	})
}

func Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	_, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$unset": bson.M{"refreshToken": "", "refreshExpiry": ""}},
	)
	if err != nil {
		utils.Error(w, err)
		return
	}

	if _, err := rdx.RdxHdel(tokenHash, userID); err != nil {
		log.Printf("Redis token remove failed: %v", err)
	}

	utils.Success(w, http.StatusOK, "Logged out", nil)
}

func Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"userId": utils.GetUserIDFromRequest(r)}).Decode(&user)
	if err != nil {
		utils.Error(w, apperr.NotFound("User not found"))
		return
	}

	utils.Success(w, http.StatusOK, "Profile fetched", user)
}

func UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Error(w, apperr.BadRequest("Invalid input"))
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if input.Name != "" {
		set["name"] = input.Name
	}
	if input.Phone != "" {
		set["phone"] = input.Phone
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userId": utils.GetUserIDFromRequest(r)},
		bson.M{"$set": set},
	)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if res.MatchedCount == 0 {
		utils.Error(w, apperr.NotFound("User not found"))
		return
	}

	utils.Success(w, http.StatusOK, "Profile updated", nil)
}
