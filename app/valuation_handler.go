package app

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/crewbase/backend/pkg/httputil"
	"github.com/crewbase/backend/repository"
)

const (
	valuationCacheKey = "valuations:list"
	valuationCacheTTL = 10 * time.Minute
)

// ValuationHandler handles valuation endpoints. The grouped list is cached
// in Redis and invalidated by any write.
type ValuationHandler struct {
	redis *redis.Client
}

// NewValuationHandler creates a new valuation handler
func NewValuationHandler(redisClient *redis.Client) *ValuationHandler {
	return &ValuationHandler{redis: redisClient}
}

// Save stores a batch of valuation types with their phase percentages
func (h *ValuationHandler) Save(c *fiber.Ctx) error {
	var batch []repository.ValuationBatchItem
	if err := c.BodyParser(&batch); err != nil {
		return httputil.BadRequest(c, "invalid request body")
	}
	for _, item := range batch {
		if item.Type == "" {
			return httputil.ValidationError(c, "validation failed", map[string]string{
				"type": "every valuation type needs a name",
			})
		}
	}

	types, err := repository.SaveValuations(c.Context(), batch)
	if err != nil {
		return httputil.Error(c, err)
	}

	h.invalidateCache(c)
	return httputil.Created(c, types)
}

// List returns all valuation types with their phase rows grouped
func (h *ValuationHandler) List(c *fiber.Ctx) error {
	if cached, err := h.redis.Get(c.Context(), valuationCacheKey).Bytes(); err == nil {
		var types []repository.ValuationTypeWithPhases
		if json.Unmarshal(cached, &types) == nil {
			return httputil.Success(c, types)
		}
	}

	types, err := repository.ListValuations(c.Context())
	if err != nil {
		return httputil.Error(c, err)
	}

	if payload, err := json.Marshal(types); err == nil {
		if err := h.redis.Set(c.Context(), valuationCacheKey, payload, valuationCacheTTL).Err(); err != nil {
			log.Warn().Err(err).Msg("failed to cache valuation list")
		}
	}

	return httputil.Success(c, types)
}

// AddToPhase attaches a valuation to a project phase
func (h *ValuationHandler) AddToPhase(c *fiber.Ctx) error {
	valuationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httputil.BadRequest(c, "invalid valuation id")
	}
	phaseID, err := uuid.Parse(c.Params("phaseId"))
	if err != nil {
		return httputil.BadRequest(c, "invalid phase id")
	}

	pv, err := repository.AddValuationToPhase(c.Context(), valuationID, phaseID)
	if err != nil {
		return httputil.Error(c, err)
	}

	h.invalidateCache(c)
	return httputil.Created(c, pv)
}

func (h *ValuationHandler) invalidateCache(c *fiber.Ctx) {
	if err := h.redis.Del(c.Context(), valuationCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate valuation cache")
	}
}
