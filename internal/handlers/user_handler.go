package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"campusmarket/internal/services"
)

type UserHandler struct {
	users services.UserService
}

func NewUserHandler(users services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// @Summary      List users
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	limit := queryInt(c, "limit", 100)
	offset := queryInt(c, "offset", 0)
	users, err := h.users.ListUsers(limit, offset)
	if err != nil {
		log.Printf("[users][list] failed: err=%v", err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{
			"name":  u.Name,
			"email": u.Email,
			"phone": u.Phone,
		})
	}
	respondSuccess(c, http.StatusOK, "", gin.H{"users": out})
}
