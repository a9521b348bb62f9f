// Package admin handles staff accounts. Staff sign in with the same JWT
// scheme as customers but carry an admin role claim.
package admin

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"sparex/apperr"
	"sparex/db"
	"sparex/globals"
	"sparex/middleware"
	"sparex/models"
	"sparex/rdx"
	"sparex/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

const accessTokenTTL = 12 * time.Hour

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

	var adm models.Admin
	err := db.AdminCollection.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(input.Email))}).Decode(&adm)
	if err != nil {
		utils.Error(w, apperr.Unauthorized("Invalid email or password"))
		return
	}
	if !adm.IsActive {
		utils.Error(w, apperr.Unauthorized("Account is disabled"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(adm.PasswordHash), []byte(input.Password)); err != nil {
		utils.Error(w, apperr.Unauthorized("Invalid email or password"))
		return
	}

	role := adm.Role
	if role == "" {
		role = "admin"
	}

	claims := &middleware.Claims{
		Name:   adm.Name,
		UserID: adm.AdminID,
		Role:   []string{role},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(globals.JwtSecret)
	if err != nil {
		utils.Error(w, apperr.Internal("Failed to generate token"))
		return
	}

	_, err = db.AdminCollection.UpdateOne(ctx,
		bson.M{"adminId": adm.AdminID},
		bson.M{"$set": bson.M{"lastLogin": time.Now()}},
	)
	if err != nil {
		log.Printf("admin lastLogin update failed: %v", err)
	}

	if err := rdx.RdxHset("tokens", adm.AdminID, tokenString); err != nil {
		log.Printf("Redis token storage failed: %v", err)
	}

	utils.Success(w, http.StatusOK, "Login successful", utils.M{
		"token": tokenString,
		"admin": utils.M{
			"adminId": adm.AdminID,
			"name":    adm.Name,
			"email":   adm.Email,
			"role":    role,
		},
	})
}

func Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var adm models.Admin
	err := db.AdminCollection.FindOne(ctx, bson.M{"adminId": utils.GetUserIDFromRequest(r)}).Decode(&adm)
	if err != nil {
		utils.Error(w, apperr.NotFound("Admin not found"))
		return
	}

	utils.Success(w, http.StatusOK, "Profile fetched", adm)
}
