package restapi

import (
	"errors"
	"net/http"
	"time"

	"pair_screener/internal/app/port"
	"pair_screener/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// APIFeedResponse wraps the derived view.
type APIFeedResponse struct {
	Data          entity.FeedView `json:"data"`
	StatusMessage string          `json:"status_message"`
}

// APISummaryResponse wraps the summary alone.
type APISummaryResponse struct {
	Data          entity.FeedSummary `json:"data"`
	StatusMessage string             `json:"status_message"`
}

// APINetworksResponse lists the chains the feed reads from.
type APINetworksResponse struct {
	Data          []entity.NetworkDefinition `json:"data"`
	StatusMessage string                     `json:"status_message"`
}

// APIErrorResponse is returned for rejected requests.
type APIErrorResponse struct {
	Error         string `json:"error"`
	StatusMessage string `json:"status_message"`
}

// FilterRequest is the PATCH /pairs/filter body. Omitted fields leave the
// current constraint untouched.
type FilterRequest struct {
	MaxAgeHours *float64 `json:"maxAgeHours"`
	MinPoolSize *float64 `json:"minPoolSize"`
	PairedAsset *string  `json:"pairedAsset"`
	Verified    *bool    `json:"verified"`
}

// ToFilterSpec validates the request and converts it to a partial FilterSpec.
func (r FilterRequest) ToFilterSpec() (entity.FilterSpec, error) {
	var spec entity.FilterSpec
	if r.MaxAgeHours != nil {
		if *r.MaxAgeHours < 0 {
			return spec, errors.New("maxAgeHours must not be negative")
		}
		maxAge := time.Duration(*r.MaxAgeHours * float64(time.Hour))
		spec.MaxAge = &maxAge
	}
	if r.MinPoolSize != nil {
		if *r.MinPoolSize < 0 {
			return spec, errors.New("minPoolSize must not be negative")
		}
		minPool := *r.MinPoolSize
		spec.MinPoolSize = &minPool
	}
	if r.PairedAsset != nil {
		asset := *r.PairedAsset
		spec.PairedAsset = &asset
	}
	if r.Verified != nil {
		verified := *r.Verified
		spec.Verified = &verified
	}
	return spec, nil
}

// SortRequest is the PUT /pairs/sort body.
type SortRequest struct {
	Key string `json:"key" binding:"required"`
}

// PairHandler serves the pair feed over HTTP.
type PairHandler struct {
	feed     port.PairFeed
	networks port.NetworkDefinitionProvider
	logger   port.Logger
}

// NewPairHandler creates a new PairHandler. networks may be nil when the feed is not chain-backed.
func NewPairHandler(feed port.PairFeed, networks port.NetworkDefinitionProvider, logger port.Logger) *PairHandler {
	return &PairHandler{
		feed:     feed,
		networks: networks,
		logger:   logger,
	}
}

func statusMessage(summary entity.FeedSummary) string {
	switch {
	case summary.Error != "" && summary.TotalCount == 0:
		return "Failed to load pairs."
	case summary.Error != "":
		return "Showing last known pairs. The latest refresh failed."
	case summary.Loading && summary.TotalCount == 0:
		return "Loading pairs."
	case summary.TotalCount == 0:
		return "No pairs loaded yet."
	case summary.FilteredCount == 0:
		return "No pairs match the current filter."
	default:
		return "Pairs retrieved successfully."
	}
}

// GetPairsHandler returns the filtered, sorted view with its summary.
func (h *PairHandler) GetPairsHandler(c *gin.Context) {
	view := h.feed.View()
	c.JSON(http.StatusOK, APIFeedResponse{Data: view, StatusMessage: statusMessage(view.Summary)})
}

// GetSummaryHandler returns only the summary counts and state flags.
func (h *PairHandler) GetSummaryHandler(c *gin.Context) {
	summary := h.feed.Summary()
	c.JSON(http.StatusOK, APISummaryResponse{Data: summary, StatusMessage: statusMessage(summary)})
}

// PatchFilterHandler merges the body into the current filter.
func (h *PairHandler) PatchFilterHandler(c *gin.Context) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid filter body.", err)
		return
	}
	spec, err := req.ToFilterSpec()
	if err != nil {
		h.badRequest(c, "Invalid filter values.", err)
		return
	}

	h.feed.SetFilter(spec)
	view := h.feed.View()
	c.JSON(http.StatusOK, APIFeedResponse{Data: view, StatusMessage: statusMessage(view.Summary)})
}

// ClearFilterHandler resets the filter to the identity filter.
func (h *PairHandler) ClearFilterHandler(c *gin.Context) {
	h.feed.ClearFilters()
	view := h.feed.View()
	c.JSON(http.StatusOK, APIFeedResponse{Data: view, StatusMessage: statusMessage(view.Summary)})
}

// PutSortHandler switches the active sort key.
func (h *PairHandler) PutSortHandler(c *gin.Context) {
	var req SortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid sort body.", err)
		return
	}
	if err := h.feed.SetSort(entity.SortKey(req.Key)); err != nil {
		h.badRequest(c, "Unsupported sort key.", err)
		return
	}
	view := h.feed.View()
	c.JSON(http.StatusOK, APIFeedResponse{Data: view, StatusMessage: statusMessage(view.Summary)})
}

// RefreshHandler runs a fetch synchronously. Fetch failures are reported in
// the summary, not as an HTTP error.
func (h *PairHandler) RefreshHandler(c *gin.Context) {
	h.feed.Refresh(c.Request.Context())
	view := h.feed.View()
	c.JSON(http.StatusOK, APIFeedResponse{Data: view, StatusMessage: statusMessage(view.Summary)})
}

// ListNetworksHandler returns the active chains.
func (h *PairHandler) ListNetworksHandler(c *gin.Context) {
	networks := []entity.NetworkDefinition{}
	if h.networks != nil {
		networks = h.networks.GetAllNetworkDefinitions()
	}
	c.JSON(http.StatusOK, APINetworksResponse{Data: networks, StatusMessage: "Networks retrieved successfully."})
}

func (h *PairHandler) badRequest(c *gin.Context, msg string, err error) {
	h.logger.Debug("Rejected request", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusBadRequest, APIErrorResponse{Error: err.Error(), StatusMessage: msg})
}
