package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"campusmarket/internal/models"
	"campusmarket/internal/services"
)

type WishlistHandler struct {
	wishlist services.WishlistService
}

func NewWishlistHandler(wishlist services.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlist: wishlist}
}

// @Summary      Add a product to the wishlist
// @Tags         Wishlist
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        item  body      models.AddWishlistRequest  true  "Product"
// @Success      201  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /wishlist [post]
func (h *WishlistHandler) Add(c *gin.Context) {
	var req models.AddWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.wishlist.Add(currentUser(c).ID, req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			respondError(c, http.StatusNotFound, "Product not found")
		case errors.Is(err, services.ErrWishlistConflict):
			respondError(c, http.StatusConflict, "Product already in wishlist")
		default:
			log.Printf("[wishlist][add] failed: err=%v", err)
			respondError(c, http.StatusInternalServerError, "Failed to add to wishlist")
		}
		return
	}
	respondSuccess(c, http.StatusCreated, "Product added to wishlist", gin.H{"item": item})
}

// @Summary      List wishlist items
// @Tags         Wishlist
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /wishlist [get]
func (h *WishlistHandler) List(c *gin.Context) {
	limit := queryInt(c, "limit", defaultPageSize)
	offset := queryInt(c, "offset", 0)
	items, err := h.wishlist.List(currentUser(c).ID, limit, offset)
	if err != nil {
		log.Printf("[wishlist][list] failed: err=%v", err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch wishlist")
		return
	}
	respondSuccess(c, http.StatusOK, "", gin.H{"items": items})
}

// @Summary      Remove a product from the wishlist
// @Tags         Wishlist
// @Produce      json
// @Security     BearerAuth
// @Param        product_id  path  int  true  "Product ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /wishlist/{product_id} [delete]
func (h *WishlistHandler) Remove(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Item not found in wishlist")
		return
	}
	if err := h.wishlist.Remove(currentUser(c).ID, productID); err != nil {
		if errors.Is(err, services.ErrWishlistMissing) {
			respondError(c, http.StatusNotFound, "Item not found in wishlist")
			return
		}
		log.Printf("[wishlist][remove] failed: err=%v", err)
		respondError(c, http.StatusInternalServerError, "Failed to remove from wishlist")
		return
	}
	respondSuccess(c, http.StatusOK, "Product removed from wishlist", nil)
}

// @Summary      Check wishlist membership
// @Tags         Wishlist
// @Produce      json
// @Security     BearerAuth
// @Param        product_id  path  int  true  "Product ID"
// @Success      200  {object}  map[string]interface{}
// @Router       /wishlist/check/{product_id} [get]
func (h *WishlistHandler) Check(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}
	exists, err := h.wishlist.Check(currentUser(c).ID, productID)
	if err != nil {
		log.Printf("[wishlist][check] failed: err=%v", err)
		respondError(c, http.StatusInternalServerError, "Failed to check wishlist")
		return
	}
	respondSuccess(c, http.StatusOK, "", gin.H{"in_wishlist": exists})
}
