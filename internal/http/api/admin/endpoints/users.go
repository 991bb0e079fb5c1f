package endpoints

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Fresco-Signage-LLC/fresco/internal/db"
	"github.com/Fresco-Signage-LLC/fresco/internal/http/api"
	"github.com/Fresco-Signage-LLC/fresco/internal/http/api/admin/packets"
	"github.com/Fresco-Signage-LLC/fresco/internal/model"
)

type UserController struct {
	store db.Store
}

// UserModule mounts the /users endpoints.
func UserModule(store db.Store) api.Module {
	ctl := &UserController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/users", ctl.listUsers)
		c.POST("/users", ctl.createUser)
		c.GET("/users/:id", ctl.getUser)
	})
}

// GET /api/admin/users
func (u *UserController) listUsers(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := u.store.ListUsers()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list users"}
	}

	out := make([]packets.UserResponse, 0, len(all))
	for _, item := range all {
		out = append(out, packets.NewUserResponse(item))
	}
	return gin.H{"users": out}, nil
}

// POST /api/admin/users
func (u *UserController) createUser(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateUserRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	created, err := u.store.CreateUser(request.Email, nil)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create user"}
	}
	return packets.NewUserResponse(created), nil
}

// GET /api/admin/users/:id
func (u *UserController) getUser(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	found, err := u.store.GetUserByID(ctx.Param("id"))
	if errors.Is(err, db.ErrNotFound) {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "user not found"}
	}
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not get user"}
	}
	return packets.NewUserResponse(*found), nil
}
