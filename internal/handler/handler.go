package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/laytan/snowflake/pkg/log"
	"github.com/laytan/snowflake/pkg/response"
	"github.com/laytan/snowflake/pkg/snowflake"
)

const maxBatchSize = 1000

// Handler handles HTTP requests for ID generation and inspection.
type Handler struct {
	gen    *snowflake.Generator
	nodeID int64
}

// New creates a new HTTP handler. nodeID must already be validated
// against the generator's range; it is passed on every mint.
func New(gen *snowflake.Generator, nodeID int64) *Handler {
	return &Handler{
		gen:    gen,
		nodeID: nodeID,
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		ids := api.Group("/ids")
		{
			ids.POST("", h.MintIDs)
			ids.GET("/:id", h.InspectID)
		}
	}
}

// IDPayload is the wire representation of a single ID.
type IDPayload struct {
	ID          string    `json:"id"`
	Encoded     string    `json:"encoded"`
	TimestampMs int64     `json:"timestamp_ms"`
	NodeID      int64     `json:"node_id"`
	Sequence    int64     `json:"sequence"`
	GeneratedAt time.Time `json:"generated_at"`
}

// MintResult is the response body for MintIDs.
type MintResult struct {
	Count int         `json:"count"`
	IDs   []IDPayload `json:"ids"`
}

func payloadFor(id snowflake.ID) IDPayload {
	return IDPayload{
		ID:          id.String(),
		Encoded:     snowflake.Encode(id),
		TimestampMs: id.Timestamp() + snowflake.Epoch,
		NodeID:      id.NodeID(),
		Sequence:    id.Sequence(),
		GeneratedAt: id.Time().UTC(),
	}
}

// MintIDs generates one ID, or a batch when ?count=N is given.
func (h *Handler) MintIDs(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	count := 1
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "count must be an integer")
			return
		}
		count = n
	}
	if count < 1 || count > maxBatchSize {
		response.BadRequest(c, fmt.Sprintf("count must be between 1 and %d, got %d", maxBatchSize, count))
		return
	}

	ids := make([]IDPayload, count)
	for i := range ids {
		ids[i] = payloadFor(h.gen.Generate(h.nodeID))
	}

	l.Debug().Int("count", count).Msg("minted ids")
	response.Created(c, MintResult{Count: count, IDs: ids})
}

// InspectID decomposes an ID into its fields and generation time.
// The path parameter is either a decimal id or its 13-character
// encoded form; 13-byte input is tried as encoded form first.
func (h *Handler) InspectID(c *gin.Context) {
	raw := c.Param("id")

	id, ok := resolveID(raw)
	if !ok {
		response.BadRequest(c, fmt.Sprintf("%q is not a valid id", raw))
		return
	}

	response.Success(c, payloadFor(id))
}

func resolveID(raw string) (snowflake.ID, bool) {
	if len(raw) == snowflake.EncodedLen {
		if id, ok := snowflake.Decode(raw); ok {
			return id, true
		}
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return snowflake.ID(n), true
}
