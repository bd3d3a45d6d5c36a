// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kyiku/aggpack/internal/config"
	"github.com/kyiku/aggpack/internal/group"
	"github.com/kyiku/aggpack/internal/job"
	"github.com/kyiku/aggpack/internal/model"
	"github.com/kyiku/aggpack/internal/response"
)

// AggregateHandler handles generation job requests.
type AggregateHandler struct {
	store  *job.Store
	queue  *job.Queue
	preset *config.Scenario
}

// NewAggregateHandler creates a new AggregateHandler.
func NewAggregateHandler(store *job.Store, queue *job.Queue) *AggregateHandler {
	return &AggregateHandler{
		store: store,
		queue: queue,
	}
}

// SetPreset replaces the built-in default scenario used for requests
// with an empty body.
func (h *AggregateHandler) SetPreset(sc *config.Scenario) {
	h.preset = sc
}

// Create accepts a scenario, queues a generation job, and returns its ID.
func (h *AggregateHandler) Create(c echo.Context) error {
	sc := config.DefaultScenario()
	if h.preset != nil {
		sc = h.preset.Clone()
	}
	if c.Request().ContentLength != 0 {
		if err := c.Bind(sc); err != nil {
			return response.Error(c, http.StatusBadRequest, "リクエストの形式が不正です")
		}
	}

	if err := sc.Validate(); err != nil {
		if errors.Is(err, config.ErrConfiguration) {
			return response.ErrorWithCode(c, http.StatusBadRequest, "CONFIG_INVALID", err.Error())
		}
		return response.Error(c, http.StatusBadRequest, err.Error())
	}

	j := h.store.Create(sc)
	if !h.queue.Enqueue(j.ID) {
		h.store.Delete(j.ID)
		return response.ErrorWithCode(c, http.StatusServiceUnavailable, "QUEUE_FULL", "キューが満杯です。しばらく待ってから再試行してください。")
	}

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"error":    false,
		"job_id":   j.ID,
		"state":    j.State(),
		"position": h.queue.Position(j.ID),
	})
}

// Get returns the state of a job and, once finished, its result.
func (h *AggregateHandler) Get(c echo.Context) error {
	j, ok := h.store.Get(c.Param("id"))
	if !ok {
		return response.ErrorWithCode(c, http.StatusNotFound, "JOB_NOT_FOUND", "ジョブが見つかりません")
	}

	state, res, part, errMsg := j.Snapshot()

	data := map[string]interface{}{
		"job_id": j.ID,
		"state":  state,
	}
	switch state {
	case job.StateQueued:
		data["position"] = h.queue.Position(j.ID)
	case job.StateFailed:
		data["message"] = errMsg
	}
	if res != nil {
		data["result"] = resultJSON(res)
	}
	if part != nil {
		data["partition"] = partitionJSON(part)
	}

	return response.Success(c, data)
}

// Cancel requests cancellation of a queued or running job. The shapes
// accepted so far survive as a partial result.
func (h *AggregateHandler) Cancel(c echo.Context) error {
	j, ok := h.store.Get(c.Param("id"))
	if !ok {
		return response.ErrorWithCode(c, http.StatusNotFound, "JOB_NOT_FOUND", "ジョブが見つかりません")
	}

	if !j.Cancel() {
		return response.ErrorWithCode(c, http.StatusConflict, "NOT_CANCELABLE", "このジョブはキャンセルできません")
	}

	return response.Success(c, map[string]interface{}{
		"job_id": j.ID,
	})
}

type partitionRequest struct {
	Threshold float64 `json:"threshold"`
}

// Partition recomputes the adjacency groups of a finished job with a new
// threshold.
func (h *AggregateHandler) Partition(c echo.Context) error {
	j, ok := h.store.Get(c.Param("id"))
	if !ok {
		return response.ErrorWithCode(c, http.StatusNotFound, "JOB_NOT_FOUND", "ジョブが見つかりません")
	}

	var req partitionRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "リクエストの形式が不正です")
	}
	if req.Threshold < 0 {
		return response.Error(c, http.StatusBadRequest, "閾値は0以上で指定してください")
	}

	_, res, _, _ := j.Snapshot()
	if res == nil {
		return response.ErrorWithCode(c, http.StatusConflict, "JOB_NOT_FINISHED", "ジョブがまだ完了していません")
	}

	part := group.Compute(res.Aggregate, req.Threshold)
	j.SetPartition(part)

	return response.Success(c, map[string]interface{}{
		"job_id":    j.ID,
		"partition": partitionJSON(part),
	})
}

func resultJSON(res *model.Result) map[string]interface{} {
	shapes := make([]model.ShapeJSON, 0, res.Aggregate.Count())
	for _, s := range res.Aggregate.Shapes {
		shapes = append(shapes, s.JSON())
	}
	return map[string]interface{}{
		"status":     res.Status,
		"reason":     res.Reason,
		"requested":  res.Requested,
		"achieved":   res.Achieved,
		"attempts":   res.Attempts,
		"porosity":   res.Porosity,
		"elapsed_ms": res.Elapsed.Milliseconds(),
		"classes":    res.Classes,
		"shapes":     shapes,
	}
}

func partitionJSON(part *group.Partition) map[string]interface{} {
	return map[string]interface{}{
		"threshold": part.Threshold,
		"groups":    part.Groups,
	}
}
