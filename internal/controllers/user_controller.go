package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"realty_hub/internal/apperr"
	"realty_hub/internal/authz"
	"realty_hub/internal/models"
)

type pageQuery struct {
	Skip  int `form:"skip" binding:"gte=0"`
	Limit int `form:"limit" binding:"gte=0,lte=100"`
}

type userListQuery struct {
	pageQuery
	Username string `form:"username"`
}

// updateUserInput is a full replacement of the mutable user fields.
type updateUserInput struct {
	Username string      `json:"username" binding:"required,username_marker"`
	Password string      `json:"password" binding:"required"`
	Name     string      `json:"name"`
	Surname  string      `json:"surname"`
	Role     models.Role `json:"role" binding:"required"`
}

// ListUsers pages through users, or looks one up when ?username= is given.
func (ctl *Controller) ListUsers(c *gin.Context) {
	var q userListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, bindError(err))
		return
	}
	if _, err := ctl.authorize(c, authz.UserRead, authz.Resource{}); err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	if q.Username != "" {
		user, err := ctl.store.GetUserByUsername(ctx, q.Username)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
		return
	}

	users, err := ctl.store.ListUsers(ctx, q.Skip, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": users})
}

func (ctl *Controller) GetUser(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	user, err := ctl.store.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := ctl.authorize(c, authz.UserRead, authz.OwnedBy(user.ID)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateUser replaces the caller's own account details.
func (ctl *Controller) UpdateUser(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	ctx := c.Request.Context()
	user, err := ctl.store.GetUserByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := ctl.authorize(c, authz.UserUpdate, authz.OwnedBy(user.ID)); err != nil {
		respondError(c, err)
		return
	}

	var input updateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, bindError(err))
		return
	}

	if input.Username != user.Username {
		if _, err := ctl.store.GetUserByUsername(ctx, input.Username); err == nil {
			respondError(c, apperr.Conflict("Username already taken"))
			return
		} else if apperr.KindOf(err) != apperr.KindNotFound {
			respondError(c, err)
			return
		}
	}

	hashed, err := ctl.hasher.Hash(input.Password)
	if err != nil {
		respondError(c, apperr.Internal("could not hash password", err))
		return
	}
	user.Username = input.Username
	user.HashedPassword = hashed
	user.Name = input.Name
	user.Surname = input.Surname
	user.Role = input.Role

	if err := ctl.store.UpdateUser(ctx, user); err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			err = apperr.Conflict("Username already taken")
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteUser removes the caller's account and everything it owns.
func (ctl *Controller) DeleteUser(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	ctx := c.Request.Context()
	user, err := ctl.store.GetUserByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := ctl.authorize(c, authz.UserDelete, authz.OwnedBy(user.ID)); err != nil {
		respondError(c, err)
		return
	}

	images, err := ctl.store.DeleteUser(ctx, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	ctl.removeImageFiles(images)

	logrus.WithField("user_id", user.ID).Info("user deleted")
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
