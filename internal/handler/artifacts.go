package handler

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kyiku/aggpack/internal/export"
	"github.com/kyiku/aggpack/internal/group"
	"github.com/kyiku/aggpack/internal/job"
	"github.com/kyiku/aggpack/internal/model"
	"github.com/kyiku/aggpack/internal/render"
	"github.com/kyiku/aggpack/internal/response"
	"github.com/kyiku/aggpack/internal/storage"
)

// ArtifactHandler serves rendered images and CSV exports of finished
// jobs, optionally publishing them to S3.
type ArtifactHandler struct {
	store     *job.Store
	artifacts *storage.ArtifactStore // nil when S3 is not configured
	renderer  *render.Renderer
}

// NewArtifactHandler creates a new ArtifactHandler.
func NewArtifactHandler(store *job.Store, artifacts *storage.ArtifactStore) *ArtifactHandler {
	return &ArtifactHandler{
		store:     store,
		artifacts: artifacts,
		renderer:  render.NewRenderer(render.Options{Labels: true}),
	}
}

// finished looks up the job and returns its result, or nil when the job
// is unknown or still running.
func (h *ArtifactHandler) finished(id string) (*job.Job, *model.Result, *group.Partition) {
	j, ok := h.store.Get(id)
	if !ok {
		return nil, nil, nil
	}
	_, res, part, _ := j.Snapshot()
	return j, res, part
}

// Render returns the finished aggregate as a PNG image.
func (h *ArtifactHandler) Render(c echo.Context) error {
	j, res, part := h.finished(c.Param("id"))
	if j == nil {
		return response.ErrorWithCode(c, http.StatusNotFound, "JOB_NOT_FOUND", "ジョブが見つかりません")
	}
	if res == nil {
		return response.ErrorWithCode(c, http.StatusConflict, "JOB_NOT_FINISHED", "ジョブがまだ完了していません")
	}

	img := h.renderer.Render(res.Aggregate, part)
	data, err := render.EncodePNG(img)
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, "画像の生成に失敗しました")
	}

	return c.Blob(http.StatusOK, "image/png", data)
}

// Export returns the finished aggregate as a CSV file.
func (h *ArtifactHandler) Export(c echo.Context) error {
	j, res, part := h.finished(c.Param("id"))
	if j == nil {
		return response.ErrorWithCode(c, http.StatusNotFound, "JOB_NOT_FOUND", "ジョブが見つかりません")
	}
	if res == nil {
		return response.ErrorWithCode(c, http.StatusConflict, "JOB_NOT_FINISHED", "ジョブがまだ完了していません")
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, res, part); err != nil {
		return response.Error(c, http.StatusInternalServerError, "CSVの生成に失敗しました")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="aggregate.csv"`)
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

// Publish uploads the render and the CSV export to S3 and returns their
// public URLs.
func (h *ArtifactHandler) Publish(c echo.Context) error {
	if h.artifacts == nil {
		return response.ErrorWithCode(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "ストレージが設定されていません")
	}

	j, res, part := h.finished(c.Param("id"))
	if j == nil {
		return response.ErrorWithCode(c, http.StatusNotFound, "JOB_NOT_FOUND", "ジョブが見つかりません")
	}
	if res == nil {
		return response.ErrorWithCode(c, http.StatusConflict, "JOB_NOT_FINISHED", "ジョブがまだ完了していません")
	}

	img := h.renderer.Render(res.Aggregate, part)
	png, err := render.EncodePNG(img)
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, "画像の生成に失敗しました")
	}
	renderURL, err := h.artifacts.PutRender(j.ID, png)
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, "アップロードに失敗しました")
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, res, part); err != nil {
		return response.Error(c, http.StatusInternalServerError, "CSVの生成に失敗しました")
	}
	exportURL, err := h.artifacts.PutExport(j.ID, buf.Bytes())
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, "アップロードに失敗しました")
	}

	return response.Success(c, map[string]interface{}{
		"job_id":     j.ID,
		"render_url": renderURL,
		"export_url": exportURL,
	})
}

// List returns the artifact keys published for a job.
func (h *ArtifactHandler) List(c echo.Context) error {
	if h.artifacts == nil {
		return response.ErrorWithCode(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "ストレージが設定されていません")
	}
	if _, ok := h.store.Get(c.Param("id")); !ok {
		return response.ErrorWithCode(c, http.StatusNotFound, "JOB_NOT_FOUND", "ジョブが見つかりません")
	}

	keys, err := h.artifacts.ListArtifacts(c.Param("id"))
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, "アーティファクトの取得に失敗しました")
	}

	return response.Success(c, map[string]interface{}{
		"job_id": c.Param("id"),
		"keys":   keys,
	})
}

// PublishedRender serves the PNG stored by Publish. Unlike Render it
// returns the snapshot as published, even after a re-partition.
func (h *ArtifactHandler) PublishedRender(c echo.Context) error {
	if h.artifacts == nil {
		return response.ErrorWithCode(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "ストレージが設定されていません")
	}
	if _, ok := h.store.Get(c.Param("id")); !ok {
		return response.ErrorWithCode(c, http.StatusNotFound, "JOB_NOT_FOUND", "ジョブが見つかりません")
	}

	data, err := h.artifacts.GetRender(c.Param("id"))
	if err != nil {
		return response.ErrorWithCode(c, http.StatusNotFound, "ARTIFACT_NOT_FOUND", "公開済みの画像がありません")
	}

	return c.Blob(http.StatusOK, "image/png", data)
}
