package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"campusmarket/internal/models"
	"campusmarket/internal/services"
)

type SellHandler struct {
	sells services.SellService
}

func NewSellHandler(sells services.SellService) *SellHandler {
	return &SellHandler{sells: sells}
}

// @Summary      Record a sale of an owned product
// @Tags         Sells
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        sell  body      models.CreateSellRequest  true  "Sale"
// @Success      201  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /sells [post]
func (h *SellHandler) Create(c *gin.Context) {
	var req models.CreateSellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	seller := currentUser(c)
	sell, err := h.sells.Sell(req.ProductID, seller.ID, req.BuyerUserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			respondError(c, http.StatusNotFound, "Product not found")
		case errors.Is(err, services.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "Buyer not found")
		case errors.Is(err, services.ErrNotProductOwner):
			respondError(c, http.StatusForbidden, "Unauthorized. You can only sell your own products")
		case errors.Is(err, services.ErrProductSold):
			respondError(c, http.StatusConflict, "Product already sold")
		default:
			log.Printf("[sells][create] failed: product_id=%d err=%v", req.ProductID, err)
			respondError(c, http.StatusInternalServerError, "Failed to create sell record")
		}
		return
	}

	sell.Seller = &models.PartySummary{ID: seller.ID, Name: seller.Name, Email: seller.Email}
	respondSuccess(c, http.StatusCreated, "Product marked as sold successfully", gin.H{"sell": sell})
}

// @Summary      List own sales
// @Tags         Sells
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /sells [get]
func (h *SellHandler) List(c *gin.Context) {
	limit := queryInt(c, "limit", defaultPageSize)
	offset := queryInt(c, "offset", 0)
	sells, err := h.sells.ListBySeller(currentUser(c).ID, limit, offset)
	if err != nil {
		log.Printf("[sells][list] failed: err=%v", err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch sells")
		return
	}
	respondSuccess(c, http.StatusOK, "", gin.H{"sells": sells})
}
