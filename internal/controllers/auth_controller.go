package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"realty_hub/internal/apperr"
	"realty_hub/internal/auth"
	"realty_hub/internal/middleware"
	"realty_hub/internal/models"
)

type registerInput struct {
	Username string      `json:"username" binding:"required,username_marker"`
	Password string      `json:"password" binding:"required"`
	Name     string      `json:"name"`
	Surname  string      `json:"surname"`
	Role     models.Role `json:"role"`
}

type loginInput struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

type refreshInput struct {
	RefreshToken string `form:"refresh_token" json:"refresh_token" binding:"required"`
}

type tokenResponse struct {
	auth.TokenPair
	User models.PublicUser `json:"user"`
}

// Register creates an account. An omitted role registers a plain user.
func (ctl *Controller) Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, bindError(err))
		return
	}
	if input.Role == "" {
		input.Role = models.RoleUser
	}

	ctx := c.Request.Context()
	if _, err := ctl.store.GetUserByUsername(ctx, input.Username); err == nil {
		respondError(c, apperr.Conflict("User already exists"))
		return
	} else if apperr.KindOf(err) != apperr.KindNotFound {
		respondError(c, err)
		return
	}

	hashed, err := ctl.hasher.Hash(input.Password)
	if err != nil {
		respondError(c, apperr.Internal("could not hash password", err))
		return
	}

	user := models.User{
		Username:       input.Username,
		HashedPassword: hashed,
		Name:           input.Name,
		Surname:        input.Surname,
		Role:           input.Role,
	}
	if err := ctl.store.CreateUser(ctx, &user); err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			err = apperr.Conflict("User already exists")
		}
		respondError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user registered")
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login accepts form-encoded or JSON credentials and returns a token pair.
func (ctl *Controller) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBind(&input); err != nil {
		respondError(c, bindError(err))
		return
	}

	user, err := ctl.store.GetUserByUsername(c.Request.Context(), input.Username)
	if err != nil && apperr.KindOf(err) != apperr.KindNotFound {
		respondError(c, err)
		return
	}
	if user == nil || !ctl.hasher.Verify(input.Password, user.HashedPassword) {
		respondError(c, apperr.Unauthenticated("Incorrect username or password"))
		return
	}

	pair, err := ctl.authn.Tokens().IssuePair(user.ID)
	if err != nil {
		respondError(c, apperr.Internal("could not generate token", err))
		return
	}
	c.JSON(http.StatusOK, tokenResponse{TokenPair: pair, User: user.Public()})
}

// RefreshToken trades a refresh token for a new pair.
func (ctl *Controller) RefreshToken(c *gin.Context) {
	var input refreshInput
	if err := c.ShouldBind(&input); err != nil {
		respondError(c, bindError(err))
		return
	}
	pair, err := ctl.authn.Refresh(c.Request.Context(), input.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// VerifyToken checks a token given in the path and hands back a fresh one.
func (ctl *Controller) VerifyToken(c *gin.Context) {
	id, err := ctl.authn.Authenticate(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	token, _, err := ctl.authn.Tokens().Issue(id.UserID, auth.AccessToken)
	if err != nil {
		respondError(c, apperr.Internal("could not generate token", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Token is valid",
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (ctl *Controller) MyInfo(c *gin.Context) {
	id := middleware.CurrentIdentity(c)
	if id == nil {
		respondError(c, apperr.Unauthenticated("authentication required"))
		return
	}
	user, err := ctl.store.GetUserByID(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
