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

const defaultPageSize = 15

type ProductHandler struct {
	products services.ProductService
}

func NewProductHandler(products services.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// @Summary      Create a product listing
// @Tags         Products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        product  body      models.CreateProductRequest  true  "Product data"
// @Success      201  {object}  map[string]interface{}
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	p := &models.Product{
		UserID:      currentUser(c).ID,
		Title:       req.Title,
		Category:    req.Category,
		Price:       req.Price,
		Description: req.Description,
		Images:      req.Images,
	}
	if err := h.products.Create(p); err != nil {
		log.Printf("[products][create] failed: user_id=%d err=%v", p.UserID, err)
		respondError(c, http.StatusInternalServerError, "Failed to create product")
		return
	}
	respondSuccess(c, http.StatusCreated, "Product created successfully", gin.H{"product": p})
}

// @Summary      List products
// @Tags         Products
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	limit := queryInt(c, "limit", defaultPageSize)
	offset := queryInt(c, "offset", 0)
	products, err := h.products.List(limit, offset)
	if err != nil {
		log.Printf("[products][list] failed: err=%v", err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	respondSuccess(c, http.StatusOK, "", gin.H{"products": products})
}

// @Summary      Get one product with its owner
// @Tags         Products
// @Produce      json
// @Param        id  path  int  true  "Product ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}
	p, owner, err := h.products.Owner(id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) || errors.Is(err, services.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}
		log.Printf("[products][get] failed: id=%d err=%v", id, err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch product")
		return
	}
	respondSuccess(c, http.StatusOK, "", gin.H{
		"product": p,
		"owner": models.ProductOwner{
			ID:    owner.ID,
			Name:  owner.Name,
			Email: owner.Email,
			Phone: owner.Phone,
		},
	})
}

// @Summary      Delete an owned product
// @Tags         Products
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Product ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}
	if err := h.products.Delete(id, currentUser(c).ID); err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			respondError(c, http.StatusNotFound, "Product not found")
		case errors.Is(err, services.ErrNotProductOwner):
			respondError(c, http.StatusForbidden, "You can only delete your own products")
		default:
			log.Printf("[products][delete] failed: id=%d err=%v", id, err)
			respondError(c, http.StatusInternalServerError, "Failed to delete product")
		}
		return
	}
	respondSuccess(c, http.StatusOK, "Product deleted successfully", nil)
}

// @Summary      List own products
// @Tags         Products
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /my-products [get]
func (h *ProductHandler) MyProducts(c *gin.Context) {
	limit := queryInt(c, "limit", defaultPageSize)
	offset := queryInt(c, "offset", 0)
	products, err := h.products.ListByUser(currentUser(c).ID, limit, offset)
	if err != nil {
		log.Printf("[products][my] failed: err=%v", err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch your products")
		return
	}
	respondSuccess(c, http.StatusOK, "Your products fetched successfully", gin.H{"products": products})
}

// @Summary      List products of a user
// @Tags         Products
// @Produce      json
// @Param        user_id  path  int  true  "User ID"
// @Success      200  {object}  map[string]interface{}
// @Router       /users/{user_id}/products [get]
func (h *ProductHandler) UserProducts(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	limit := queryInt(c, "limit", defaultPageSize)
	offset := queryInt(c, "offset", 0)
	products, err := h.products.ListByUser(userID, limit, offset)
	if err != nil {
		log.Printf("[products][by-user] failed: user_id=%d err=%v", userID, err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch user products")
		return
	}
	message := ""
	if len(products) == 0 {
		message = "No products found for this user"
	}
	respondSuccess(c, http.StatusOK, message, gin.H{"products": products})
}

// @Summary      Get the owner of a product
// @Tags         Products
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Product ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /products/{id}/user [get]
func (h *ProductHandler) Owner(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}
	p, owner, err := h.products.Owner(id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			respondError(c, http.StatusNotFound, "Product not found")
		case errors.Is(err, services.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "Owner not found")
		default:
			log.Printf("[products][owner] failed: id=%d err=%v", id, err)
			respondError(c, http.StatusInternalServerError, "Failed to fetch product owner")
		}
		return
	}
	respondSuccess(c, http.StatusOK, "", gin.H{
		"product_id":    p.ID,
		"product_title": p.Title,
		"owner": gin.H{
			"id":                p.UserID,
			"name":              owner.Name,
			"email":             owner.Email,
			"phone":             owner.Phone,
			"email_verified_at": owner.EmailVerifiedAt,
			"created_at":        owner.CreatedAt,
		},
	})
}
