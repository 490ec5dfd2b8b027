package echoapi

import (
	"encoding/base64"
	"io/ioutil"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/saikalpataru/sadhana/core"
	"github.com/saikalpataru/sadhana/core/material"
	"github.com/saikalpataru/sadhana/core/user"
)

type materialApi struct {
	svc      *material.Service
	validate *validator.Validate
}

func registerMaterialAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *material.Service, usrSvc user.Service, validate *validator.Validate) {
	api := materialApi{
		svc:      svc,
		validate: validate,
	}

	ag := g.Group("", jwt)
	ag.POST("/upload-material/:course_id", api.upload, adminMiddleware(usrSvc))
	ag.GET("/course-materials/:course_id", api.query)
	ag.GET("/download-material/:material_id", api.download)
}

// Handlers

func (api *materialApi) upload(ctx echo.Context) error {
	courseID, err := strconv.Atoi(ctx.Param("course_id"))
	if err != nil {
		return errHttpNotFound
	}

	var data UploadMaterialRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UploadMaterialRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "a file is required"})
	}
	src, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer src.Close()
	content, err := ioutil.ReadAll(src)
	if err != nil {
		return errors.Wrap(err, "reading uploaded file")
	}

	if _, err := api.svc.Upload(ctx.Request().Context(), courseID, data.MaterialType, fh.Filename, content); err != nil {
		return errors.Wrap(err, "uploading material")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Material uploaded successfully"})
}

func (api *materialApi) query(ctx echo.Context) error {
	courseID, err := strconv.Atoi(ctx.Param("course_id"))
	if err != nil {
		return errHttpNotFound
	}

	infos, err := api.svc.ListByCourse(ctx.Request().Context(), courseID)
	if err != nil {
		return errors.Wrap(err, "querying materials")
	}
	if infos == nil {
		infos = []material.Info{}
	}
	return ctx.JSON(http.StatusOK, infos)
}

// download returns the blob base64-encoded; any authenticated user may
// fetch any material.
func (api *materialApi) download(ctx echo.Context) error {
	materialID, err := strconv.Atoi(ctx.Param("material_id"))
	if err != nil {
		return errHttpNotFound
	}

	mat, err := api.svc.Get(ctx.Request().Context(), materialID)
	if err != nil {
		if errors.Cause(err) == material.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Material not found")
		}
		return errors.Wrap(err, "getting material")
	}

	return ctx.JSON(http.StatusOK, DownloadResponse{
		Filename: mat.Filename,
		Content:  base64.StdEncoding.EncodeToString(mat.Content),
	})
}

type (
	UploadMaterialRequest struct {
		MaterialType string `json:"material_type" form:"material_type" validate:"materialtype"`
	}

	DownloadResponse struct {
		Filename string `json:"filename"`
		Content  string `json:"content"`
	}
)

func (ur *UploadMaterialRequest) Validate(validate *validator.Validate) error {
	ur.MaterialType = core.CleanString(ur.MaterialType)
	return validate.Struct(ur)
}
