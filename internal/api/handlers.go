package api

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"propwatch/server/config"
	"propwatch/server/internal/database"
	"propwatch/server/internal/geometry"
	"propwatch/server/internal/models"
	"propwatch/server/internal/search"
	"propwatch/server/internal/stats"
	"propwatch/server/internal/trending"
)

// regionBoundsSample caps how many sales feed the region bounds
// computation.
const regionBoundsSample = 200

var multiSpace = regexp.MustCompile(`\s+`)

type Handler struct {
	store    *database.Store
	index    *search.Index
	resolver *search.Resolver
	cfg      *config.Config
	logger   *logrus.Logger
}

type trendingQuery struct {
	Limit     int     `form:"limit"`
	MinChange float64 `form:"minChange"`
	Region    string  `form:"region"`
}

type searchQuery struct {
	Query string `form:"q"`
	Limit int    `form:"limit"`
}

func NewHandler(store *database.Store, index *search.Index, cfg *config.Config, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &Handler{
		store:    store,
		index:    index,
		resolver: search.NewResolver(store, index, logger),
		cfg:      cfg,
		logger:   logger,
	}
}

// GetRegions serves the regions listing, or a single region's detail
// when ?region=<slug> is given.
func (h *Handler) GetRegions(c *gin.Context) {
	if slug := c.Query("region"); slug != "" {
		h.getRegionDetail(c, slug)
		return
	}

	regions, err := h.store.ListRegions()
	if err != nil {
		h.storeError(c, err, "Failed to fetch regions")
		return
	}

	summaries := make([]models.RegionSummary, 0, len(regions))
	for _, r := range regions {
		summaries = append(summaries, stats.SummarizeRegion(r.Region, r.Latest, r.SalesCount))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"regions": summaries,
	})
}

func (h *Handler) getRegionDetail(c *gin.Context, slug string) {
	region, err := h.store.RegionBySlug(slug)
	if err != nil {
		h.storeError(c, err, "Failed to fetch region")
		return
	}
	if region == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Region not found"})
		return
	}

	latest, err := h.store.LatestStatsForRegion(region.ID)
	if err != nil {
		h.storeError(c, err, "Failed to fetch region stats")
		return
	}
	count, err := h.store.CountPropertiesInRegion(region.ID)
	if err != nil {
		h.storeError(c, err, "Failed to count region properties")
		return
	}
	breakdown, err := h.store.TypeBreakdown(&region.ID)
	if err != nil {
		h.storeError(c, err, "Failed to fetch property breakdown")
		return
	}

	detail := models.RegionDetail{
		RegionSummary: stats.SummarizeRegion(*region, latest, int(count)),
		PropertyTypes: stats.TypePrices(breakdown),
	}
	detail.Description = stats.DetailDescription(int(count))

	// Bounds are best effort; a region without coordinates just omits
	// them.
	if properties, err := h.store.PropertiesByRegion(region.ID, regionBoundsSample); err == nil {
		detail.Bounds = geometry.Bound(properties)
	} else {
		h.logger.WithError(err).Warn("Failed to compute region bounds")
	}

	c.JSON(http.StatusOK, detail)
}

// GetNationalStats serves the national rollup.
func (h *Handler) GetNationalStats(c *gin.Context) {
	totalSales, err := h.store.CountProperties()
	if err != nil {
		h.storeError(c, err, "Failed to fetch national statistics")
		return
	}

	latestMonth, err := h.store.LatestStatsMonth()
	if err != nil {
		h.storeError(c, err, "Failed to fetch national statistics")
		return
	}

	var monthRows []models.RegionMonthlyStats
	lastUpdated := time.Now().UTC()
	if latestMonth != nil {
		lastUpdated = *latestMonth
		monthRows, err = h.store.StatsForMonth(*latestMonth)
		if err != nil {
			h.storeError(c, err, "Failed to fetch national statistics")
			return
		}
	}

	regions, err := h.store.ListRegions()
	if err != nil {
		h.storeError(c, err, "Failed to fetch national statistics")
		return
	}
	summaries := make([]models.RegionSummary, 0, len(regions))
	for _, r := range regions {
		summaries = append(summaries, stats.SummarizeRegion(r.Region, r.Latest, r.SalesCount))
	}

	pooled, err := h.store.TypeBreakdown(nil)
	if err != nil {
		h.storeError(c, err, "Failed to fetch national statistics")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"data":      stats.SummarizeNational(summaries, monthRows, totalSales, pooled, lastUpdated),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// GetTrending serves the ranked trending regions.
func (h *Handler) GetTrending(c *gin.Context) {
	var query trendingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.WithError(err).Error("Failed to parse trending query")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid query parameters"})
		return
	}
	if query.Limit <= 0 {
		query.Limit = trending.DefaultLimit
	}

	latestMonth, err := h.store.LatestStatsMonth()
	if err != nil {
		h.storeError(c, err, "Failed to fetch trending areas")
		return
	}

	if latestMonth == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    []models.TrendingEntry{},
			"meta":    h.trendingMeta(query, 0, time.Now().UTC()),
		})
		return
	}

	rows, err := h.store.StatsForMonth(*latestMonth)
	if err != nil {
		h.storeError(c, err, "Failed to fetch trending areas")
		return
	}

	entries := trending.Rank(rows, trending.Filters{
		Limit:     query.Limit,
		MinChange: query.MinChange,
		Region:    query.Region,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
		"meta":    h.trendingMeta(query, len(entries), *latestMonth),
	})
}

func (h *Handler) trendingMeta(query trendingQuery, total int, lastUpdated time.Time) gin.H {
	var minChange *float64
	if query.MinChange != 0 {
		minChange = &query.MinChange
	}
	var region *string
	if query.Region != "" {
		region = &query.Region
	}
	return gin.H{
		"total": total,
		"filters": gin.H{
			"limit":     query.Limit,
			"minChange": minChange,
			"region":    region,
		},
		"lastUpdated": lastUpdated.Format(time.RFC3339),
	}
}

// Search serves the main free-text search.
func (h *Handler) Search(c *gin.Context) {
	var query searchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.WithError(err).Error("Failed to parse search query")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid query parameters"})
		return
	}
	if query.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Search query is required"})
		return
	}
	if query.Limit <= 0 {
		query.Limit = h.cfg.Search.ResultLimit
	}

	result := h.resolver.Resolve(query.Query, query.Limit)
	switch result.Outcome {
	case search.OutcomeInvalid:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   fmt.Sprintf("Search query must be at least %d characters", search.MinQueryLength),
		})
	case search.OutcomeDegraded:
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"query":   result.Query,
			"data":    result.Data,
			"notice":  "Search temporarily unavailable",
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"query":   result.Query,
			"data":    result.Data,
		})
	}
}

// Suggest serves the combined region-and-postcode suggestion search.
func (h *Handler) Suggest(c *gin.Context) {
	var query searchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.WithError(err).Error("Failed to parse suggest query")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid query parameters"})
		return
	}
	if query.Limit <= 0 {
		query.Limit = h.cfg.Search.SuggestLimit
	}

	result := h.resolver.Suggest(query.Query, query.Limit)
	if result.Outcome == search.OutcomeInvalid {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"error":   fmt.Sprintf("Search query must be at least %d characters", search.MinQueryLength),
			"data":    []models.SearchResult{},
		})
		return
	}

	meta := gin.H{
		"query": result.Query,
		"total": len(result.Results),
		"limit": query.Limit,
	}
	if result.Outcome == search.OutcomeDegraded {
		meta["error"] = "Search temporarily unavailable"
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Results,
		"meta":    meta,
	})
}

// GetPostcode serves the postcode detail lookup.
func (h *Handler) GetPostcode(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Postcode is required"})
		return
	}
	cleaned := multiSpace.ReplaceAllString(strings.ToUpper(strings.TrimSpace(code)), " ")

	properties, err := h.store.PropertiesByPostcode(cleaned, 20)
	if err != nil {
		h.storeError(c, err, "Failed to lookup postcode")
		return
	}

	if len(properties) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success":  false,
			"error":    "Postcode not found",
			"postcode": cleaned,
			"suggestions": []string{
				"Try a different postcode format (e.g., SW1A 1AA)",
				"Check if the postcode exists in our database",
				"Search for a nearby area instead",
			},
		})
		return
	}

	summary := stats.Aggregate(properties)

	typeCounts := make(map[string]int, len(models.AllPropertyTypes))
	for _, p := range properties {
		typeCounts[string(p.PropertyType)]++
	}

	regionName := ""
	regionAverage := 0
	vsRegion := 0
	if properties[0].Region != nil {
		regionName = properties[0].Region.Name
	}
	if regionStats, err := h.store.LatestStatsForRegion(properties[0].RegionID); err != nil {
		h.logger.WithError(err).Warn("Failed to load region comparison stats")
	} else if regionStats != nil && regionStats.AveragePrice != 0 {
		regionAverage = regionStats.AveragePrice
		vsRegion = int(float64(summary.Average-regionAverage) / float64(regionAverage) * 100)
	}

	history, err := h.store.PostcodePriceHistory(cleaned)
	if err != nil {
		h.storeError(c, err, "Failed to lookup postcode")
		return
	}
	priceHistory := make([]gin.H, 0, len(history))
	for _, p := range history {
		priceHistory = append(priceHistory, gin.H{
			"price": p.Price,
			"date":  p.DateSold.Format("2006-01-02"),
		})
	}

	recent := properties
	if len(recent) > 10 {
		recent = recent[:10]
	}
	recentSales := make([]gin.H, 0, len(recent))
	for _, p := range recent {
		sale := gin.H{
			"id":           p.ID,
			"price":        p.Price,
			"propertyType": p.PropertyType,
			"dateSold":     p.DateSold.Format("2006-01-02"),
		}
		if p.Latitude != nil && p.Longitude != nil {
			sale["coordinates"] = models.Coordinates{Lat: *p.Latitude, Lng: *p.Longitude}
		}
		recentSales = append(recentSales, sale)
	}

	data := gin.H{
		"postcode": cleaned,
		"region":   regionName,
		"statistics": gin.H{
			"averagePrice":  summary.Average,
			"medianPrice":   summary.Median,
			"minPrice":      summary.Min,
			"maxPrice":      summary.Max,
			"totalSales":    summary.Count,
			"priceRange":    fmt.Sprintf("£%dk - £%dk", summary.Min/1000, summary.Max/1000),
			"regionAverage": regionAverage,
			"vsRegion":      vsRegion,
		},
		"propertyTypes": typeCounts,
		"recentSales":   recentSales,
		"priceHistory":  priceHistory,
		"lastUpdated":   time.Now().UTC().Format(time.RFC3339),
	}

	if centroid, ok := geometry.Centroid(properties); ok {
		data["coordinates"] = models.Coordinates{Lat: centroid.Lat(), Lng: centroid.Lon()}
		nearest, _ := geometry.NearestCity(centroid)
		data["nearestCity"] = nearest
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// Reindex rebuilds the optional search index from the store.
func (h *Handler) Reindex(c *gin.Context) {
	if h.index == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "Search index is not configured",
		})
		return
	}

	properties, err := h.store.AllProperties()
	if err != nil {
		h.storeError(c, err, "Failed to rebuild search index")
		return
	}

	if err := h.index.Init(); err != nil {
		h.logger.WithError(err).Error("Failed to initialize search index")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to rebuild search index"})
		return
	}
	if err := h.index.IndexProperties(properties); err != nil {
		h.logger.WithError(err).Error("Failed to index properties")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to rebuild search index"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "indexed": len(properties)})
}

// Health reports liveness and store reachability.
func (h *Handler) Health(c *gin.Context) {
	dbStatus := "up"
	status := http.StatusOK
	if err := h.store.Ping(); err != nil {
		h.logger.WithError(err).Error("Database ping failed")
		dbStatus = "down"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"status":   "ok",
		"database": dbStatus,
	})
}

// storeError maps a store failure onto the error taxonomy: connection
// problems surface as 503, everything else as 500.
func (h *Handler) storeError(c *gin.Context, err error, message string) {
	h.logger.WithError(err).Error(message)

	status := http.StatusInternalServerError
	text := err.Error()
	if strings.Contains(text, "connect") || strings.Contains(text, "timeout") {
		status = http.StatusServiceUnavailable
		message = "Database connection failed"
	}
	c.JSON(status, gin.H{"success": false, "error": message})
}
