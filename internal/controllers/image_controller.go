package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"realty_hub/internal/apperr"
	"realty_hub/internal/authz"
	"realty_hub/internal/models"
)

// StaticPrefix is the URL prefix uploaded files are served under.
const StaticPrefix = "/static/"

const imageSubdir = "images"

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type imageInput struct {
	URL string `json:"url" binding:"required"`
}

// CreateImage attaches an image to a property, either as a multipart "file"
// upload or as a JSON body carrying an existing URL.
func (ctl *Controller) CreateImage(c *gin.Context) {
	propertyID, err := uintParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	ctx := c.Request.Context()
	prop, err := ctl.store.GetProperty(ctx, propertyID)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := ctl.authorize(c, authz.ImageCreate, authz.OwnedBy(prop.AgentID)); err != nil {
		respondError(c, err)
		return
	}

	var url string
	if c.ContentType() == "multipart/form-data" {
		url, err = ctl.saveUpload(c)
		if err != nil {
			respondError(c, err)
			return
		}
	} else {
		var input imageInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, bindError(err))
			return
		}
		url = strings.TrimSpace(input.URL)
	}

	img := models.Image{URL: url, PropertyID: prop.ID}
	if err := ctl.store.CreateImage(ctx, &img); err != nil {
		ctl.removeImageFiles([]models.Image{img})
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"image": img})
}

func (ctl *Controller) saveUpload(c *gin.Context) (string, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return "", apperr.Wrap(apperr.KindValidation, "file is required", err)
	}
	if ctl.uploads.MaxBytes > 0 && file.Size > ctl.uploads.MaxBytes {
		return "", apperr.Validation("file is too large")
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExt[ext] {
		return "", apperr.Validation("unsupported image type " + ext)
	}

	dir := filepath.Join(ctl.uploads.Dir, imageSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperr.Internal("could not create upload directory", err)
	}
	name := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		return "", apperr.Internal("could not save upload", err)
	}
	return StaticPrefix + imageSubdir + "/" + name, nil
}

func (ctl *Controller) ListImages(c *gin.Context) {
	propertyID, err := uintParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	ctx := c.Request.Context()
	prop, err := ctl.store.GetProperty(ctx, propertyID)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := ctl.authorize(c, authz.ImageRead, authz.OwnedBy(prop.AgentID)); err != nil {
		respondError(c, err)
		return
	}
	images, err := ctl.store.ListImages(ctx, prop.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": images})
}

// DeleteImage removes an image. Only the owning agent may do this.
func (ctl *Controller) DeleteImage(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	ctx := c.Request.Context()
	img, err := ctl.store.GetImage(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	prop, err := ctl.store.GetProperty(ctx, img.PropertyID)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := ctl.authorize(c, authz.ImageDelete, authz.OwnedBy(prop.AgentID)); err != nil {
		respondError(c, err)
		return
	}

	if err := ctl.store.DeleteImage(ctx, img.ID); err != nil {
		respondError(c, err)
		return
	}
	ctl.removeImageFiles([]models.Image{*img})
	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}

// removeImageFiles deletes the stored files behind uploaded images. External
// URLs and paths escaping the upload directory are left alone.
func (ctl *Controller) removeImageFiles(images []models.Image) {
	root, err := filepath.Abs(ctl.uploads.Dir)
	if err != nil {
		return
	}
	for _, img := range images {
		if !strings.HasPrefix(img.URL, StaticPrefix) {
			continue
		}
		rel := filepath.FromSlash(strings.TrimPrefix(img.URL, StaticPrefix))
		path := filepath.Join(root, rel)
		if !strings.HasPrefix(path, root+string(filepath.Separator)) {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logrus.WithError(err).WithField("path", path).Warn("could not remove image file")
		}
	}
}
