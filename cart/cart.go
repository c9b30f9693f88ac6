package cart

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"kirana/db"
	"kirana/models"
	"kirana/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AddToCart increments quantity if the product is already in the cart, or
// appends a new line.
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var line models.CartLine
	if err := json.NewDecoder(r.Body).Decode(&line); err != nil {
		log.Println("AddToCart decode error:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if line.ProductID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "productId is required")
		return
	}
	if line.Quantity < 1 {
		line.Quantity = 1
	}

	// Bump quantity on an existing line first; insert the line otherwise.
	res, err := db.CartsCollection.UpdateOne(r.Context(),
		bson.M{"_id": userID, "items.productId": line.ProductID},
		bson.M{
			"$inc": bson.M{"items.$.quantity": line.Quantity},
			"$set": bson.M{"updatedAt": time.Now()},
		},
	)
	if err == nil && res.MatchedCount == 0 {
		_, err = db.CartsCollection.UpdateOne(r.Context(),
			bson.M{"_id": userID},
			bson.M{
				"$push": bson.M{"items": line},
				"$set":  bson.M{"updatedAt": time.Now()},
			},
			options.Update().SetUpsert(true),
		)
	}
	if err != nil {
		log.Println("AddToCart update error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add to cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

// GetCart returns the user's cart, empty if none exists yet.
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var c models.Cart
	err := db.CartsCollection.FindOne(r.Context(), bson.M{"_id": userID}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		c = models.Cart{UserID: userID, Items: []models.CartLine{}}
	} else if err != nil {
		log.Println("GetCart find error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve cart")
		return
	}
	if c.Items == nil {
		c.Items = []models.CartLine{}
	}

	utils.RespondWithJSON(w, http.StatusOK, c)
}

// UpdateCartItem sets the quantity of one line; zero removes it.
func UpdateCartItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	productID := ps.ByName("productid")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	var err error
	if req.Quantity < 1 {
		_, err = db.CartsCollection.UpdateOne(r.Context(),
			bson.M{"_id": userID},
			bson.M{
				"$pull": bson.M{"items": bson.M{"productId": productID}},
				"$set":  bson.M{"updatedAt": time.Now()},
			},
		)
	} else {
		var res *mongo.UpdateResult
		res, err = db.CartsCollection.UpdateOne(r.Context(),
			bson.M{"_id": userID, "items.productId": productID},
			bson.M{
				"$set": bson.M{"items.$.quantity": req.Quantity, "updatedAt": time.Now()},
			},
		)
		if err == nil && res.MatchedCount == 0 {
			utils.RespondWithError(w, http.StatusNotFound, "Item not in cart")
			return
		}
	}
	if err != nil {
		log.Println("UpdateCartItem error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// ClearCart removes every line from the user's cart.
func ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := (MongoStore{}).Clear(r.Context(), userID); err != nil {
		log.Println("ClearCart error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
