package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/vittabooks/distributor_backend/config"
	"github.com/vittabooks/distributor_backend/middlewares"
	"github.com/vittabooks/distributor_backend/models"
	"github.com/vittabooks/distributor_backend/models/reports"
	"github.com/vittabooks/distributor_backend/utils"
	"github.com/vittabooks/distributor_backend/workflow"
)

const defaultPort = "8080"

// Define a struct to represent the rate limiter.
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func getRedisClient(redisAddress string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: redisAddress,
	})
	return client
}

// requireDistributor pulls the caller's distributor out of the session
// context. Every business route is distributor scoped.
func requireDistributor(c *gin.Context) (string, bool) {
	distributorId, ok := utils.GetDistributorIdFromContext(c.Request.Context())
	if !ok || distributorId == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	return distributorId, true
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrDuplicateVoucherNumber),
		errors.Is(err, utils.ErrInvalidStateTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorRecordNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		var validationErr *utils.ValidationError
		var unbalancedErr *utils.UnbalancedError
		if errors.As(err, &validationErr) || errors.As(err, &unbalancedErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		correlationId, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
		config.LogError(config.GetLogger(), "http", c.FullPath(), correlationId, nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func createVoucherHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		distributorId, ok := requireDistributor(c)
		if !ok {
			return
		}
		var input models.NewVoucher
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		voucher, err := workflow.CreateVoucherAtomic(c.Request.Context(), distributorId, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, voucher)
	}
}

func getVoucherHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		distributorId, ok := requireDistributor(c)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid voucher id"})
			return
		}
		voucher, err := models.GetVoucher(c.Request.Context(), distributorId, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, voucher)
	}
}

func listVouchersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		distributorId, ok := requireDistributor(c)
		if !ok {
			return
		}

		limit := 50
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = min(n, 200)
			}
		}
		var voucherType *models.VoucherType
		if v := c.Query("type"); v != "" {
			vt := models.VoucherType(v)
			if !vt.IsValid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown voucher type"})
				return
			}
			voucherType = &vt
		}
		var status *models.VoucherStatus
		if v := c.Query("status"); v != "" {
			s := models.VoucherStatus(v)
			status = &s
		}
		var after *string
		if v := c.Query("after"); v != "" {
			after = &v
		}
		fromDate, toDate, err := dateRangeFromQuery(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		connection, err := models.PaginateVouchers(c.Request.Context(), distributorId,
			voucherType, status, &limit, after, fromDate, toDate)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, connection)
	}
}

func confirmVoucherHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		distributorId, ok := requireDistributor(c)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid voucher id"})
			return
		}
		voucher, err := workflow.ConfirmVoucher(c.Request.Context(), distributorId, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, voucher)
	}
}

type cancelVoucherRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func cancelVoucherHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		distributorId, ok := requireDistributor(c)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid voucher id"})
			return
		}
		var req cancelVoucherRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cancellation reason is required"})
			return
		}
		voucher, err := workflow.CancelVoucher(c.Request.Context(), distributorId, id, req.Reason)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, voucher)
	}
}

func voucherPostingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		distributorId, ok := requireDistributor(c)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid voucher id"})
			return
		}
		postings, err := models.GetVoucherPostings(c.Request.Context(), distributorId, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, postings)
	}
}

func suggestVoucherNumberHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		distributorId, ok := requireDistributor(c)
		if !ok {
			return
		}
		vt := models.VoucherType(c.Query("type"))
		if !vt.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown voucher type"})
			return
		}
		date := time.Now()
		if v := c.Query("date"); v != "" {
			parsed, err := time.Parse("2006-01-02", v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
				return
			}
			date = parsed
		}
		number, sequenceNo, err := workflow.SuggestVoucherNumber(c.Request.Context(), distributorId, vt, date)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"voucher_number": number,
			"sequence_no":    sequenceNo,
		})
	}
}

func resolveTaxHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		distributorId, ok := requireDistributor(c)
		if !ok {
			return
		}
		treatment := models.GstTreatment(c.DefaultQuery("treatment", string(models.GstTreatmentIntraState)))
		if treatment != models.GstTreatmentIntraState && treatment != models.GstTreatmentInterState {
			c.JSON(http.StatusBadRequest, gin.H{"error": "treatment must be Intra or Inter"})
			return
		}
		fallbackRate := decimalFromQuery(c, "fallback_rate")
		split, err := workflow.ResolveTax(c.Request.Context(), distributorId, c.Query("hsn"), fallbackRate, treatment)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, split)
	}
}

func ledgerBalanceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		distributorId, ok := requireDistributor(c)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ledger id"})
			return
		}
		balance, err := models.GetLedgerClosingBalance(c.Request.Context(), distributorId, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ledger_id": id, "closing_balance": balance})
	}
}

func voucherRegisterHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		distributorId, ok := requireDistributor(c)
		if !ok {
			return
		}
		fromDate, toDate, err := dateRangeFromQuery(c)
		if err != nil || fromDate == nil || toDate == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from and to dates are required (YYYY-MM-DD)"})
			return
		}
		var voucherType *models.VoucherType
		if v := c.Query("type"); v != "" {
			vt := models.VoucherType(v)
			if !vt.IsValid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown voucher type"})
				return
			}
			voucherType = &vt
		}

		rows, err := reports.GetVoucherRegisterReport(c.Request.Context(), distributorId, voucherType, *fromDate, *toDate)
		if err != nil {
			respondError(c, err)
			return
		}

		if c.Query("format") == "xlsx" {
			c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			c.Header("Content-Disposition", "attachment; filename=voucher-register.xlsx")
			if err := reports.ExportVoucherRegisterXlsx(c.Writer, rows); err != nil {
				c.Status(http.StatusInternalServerError)
			}
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func trialBalanceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		distributorId, ok := requireDistributor(c)
		if !ok {
			return
		}
		rows, err := reports.GetTrialBalanceReport(c.Request.Context(), distributorId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func dateRangeFromQuery(c *gin.Context) (*time.Time, *time.Time, error) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" && to == "" {
		return nil, nil, nil
	}
	if from == "" || to == "" {
		return nil, nil, errors.New("from and to must be supplied together")
	}
	fromDate, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, nil, errors.New("from must be YYYY-MM-DD")
	}
	toDate, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, nil, errors.New("to must be YYYY-MM-DD")
	}
	toDate = toDate.Add(24*time.Hour - time.Nanosecond)
	return &fromDate, &toDate, nil
}

func decimalFromQuery(c *gin.Context, key string) decimal.Decimal {
	v := c.Query(key)
	if v == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func registerMasterRoutes(r *gin.Engine) {
	r.POST("/ledgers", func(c *gin.Context) {
		distributorId, ok := requireDistributor(c)
		if !ok {
			return
		}
		var input models.NewLedger
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ledger, err := models.CreateLedger(c.Request.Context(), distributorId, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, ledger)
	})
	r.GET("/ledgers", func(c *gin.Context) {
		distributorId, ok := requireDistributor(c)
		if !ok {
			return
		}
		var name *string
		if v := c.Query("name"); v != "" {
			name = &v
		}
		ledgers, err := models.GetLedgersAll(c.Request.Context(), distributorId, name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ledgers)
	})
	r.GET("/ledgers/:id/balance", ledgerBalanceHandler())

	r.POST("/parties", func(c *gin.Context) {
		distributorId, ok := requireDistributor(c)
		if !ok {
			return
		}
		var input models.NewParty
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		party, err := models.CreateParty(c.Request.Context(), distributorId, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, party)
	})
	r.GET("/parties", func(c *gin.Context) {
		distributorId, ok := requireDistributor(c)
		if !ok {
			return
		}
		parties, err := models.GetPartiesAll(c.Request.Context(), distributorId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, parties)
	})

	r.POST("/items", func(c *gin.Context) {
		distributorId, ok := requireDistributor(c)
		if !ok {
			return
		}
		var input models.NewItem
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		item, err := models.CreateItem(c.Request.Context(), distributorId, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	})
	r.GET("/items", func(c *gin.Context) {
		distributorId, ok := requireDistributor(c)
		if !ok {
			return
		}
		var name *string
		if v := c.Query("name"); v != "" {
			name = &v
		}
		items, err := models.GetItemsAll(c.Request.Context(), distributorId, name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	})

	r.POST("/hsn-codes", func(c *gin.Context) {
		distributorId, ok := requireDistributor(c)
		if !ok {
			return
		}
		var input models.NewHsnCode
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		hsn, err := models.CreateHsnCode(c.Request.Context(), distributorId, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, hsn)
	})
	r.GET("/hsn-codes", func(c *gin.Context) {
		distributorId, ok := requireDistributor(c)
		if !ok {
			return
		}
		codes, err := models.GetHsnCodesAll(c.Request.Context(), distributorId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, codes)
	})

	r.POST("/voucher-prefixes", func(c *gin.Context) {
		distributorId, ok := requireDistributor(c)
		if !ok {
			return
		}
		var input models.NewVoucherPrefix
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		prefix, err := models.CreateVoucherPrefix(c.Request.Context(), distributorId, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, prefix)
	})
	r.GET("/voucher-prefixes", func(c *gin.Context) {
		distributorId, ok := requireDistributor(c)
		if !ok {
			return
		}
		vt := models.VoucherType(c.Query("type"))
		if !vt.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown voucher type"})
			return
		}
		prefixes, err := models.GetVoucherPrefixes(c.Request.Context(), config.GetDB(), distributorId, vt)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, prefixes)
	})
	r.PUT("/voucher-prefixes/:id", func(c *gin.Context) {
		distributorId, ok := requireDistributor(c)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid prefix id"})
			return
		}
		var input models.NewVoucherPrefix
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		prefix, err := models.UpdateVoucherPrefix(c.Request.Context(), distributorId, id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, prefix)
	})
	r.DELETE("/voucher-prefixes/:id", func(c *gin.Context) {
		distributorId, ok := requireDistributor(c)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid prefix id"})
			return
		}
		prefix, err := models.DeactivateVoucherPrefix(c.Request.Context(), distributorId, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, prefix)
	})
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP; until the DB is ready the app endpoints
	// return 503.
	r := gin.New()
	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		// Redis is an optional cache; only the DB gates readiness.
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// In production require an explicit allowlist via CORS_ALLOWED_ORIGINS
	// (comma-separated); in development allow all.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	// Optional rate limiting.
	// Env:
	// - RATE_LIMIT_ENABLED=true
	// - RATE_LIMIT_WINDOW_SECONDS=60
	// - RATE_LIMIT_MAX_REQUESTS=600
	if strings.EqualFold(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED")), "true") {
		client := getRedisClient(os.Getenv("REDIS_ADDRESS"))
		limit := int64(600)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_MAX_REQUESTS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				limit = n
			}
		}
		windowSec := int64(60)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_WINDOW_SECONDS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				windowSec = n
			}
		}
		rateLimiter := NewRateLimiter(client, limit, time.Duration(windowSec)*time.Second)
		r.Use(rateLimiter.RateLimitMiddleware)
	}

	r.Use(middlewares.SessionMiddleware())
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	r.POST("/vouchers", createVoucherHandler())
	r.GET("/vouchers", listVouchersHandler())
	r.GET("/vouchers/:id", getVoucherHandler())
	r.POST("/vouchers/:id/confirm", confirmVoucherHandler())
	r.POST("/vouchers/:id/cancel", cancelVoucherHandler())
	r.GET("/vouchers/:id/postings", voucherPostingsHandler())
	r.GET("/voucher-number/suggest", suggestVoucherNumberHandler())
	r.GET("/tax/resolve", resolveTaxHandler())
	r.GET("/reports/voucher-register", voucherRegisterHandler())
	r.GET("/reports/trial-balance", trialBalanceHandler())
	registerMasterRoutes(r)
	r.NoRoute(customNotFoundHandler)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// AutoMigrate can run DDL that blocks tables; allow running migrations
	// as a separate job instead.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	// Set the session isolation level to READ COMMITTED
	for attempt := 1; ; attempt++ {
		err := db.Exec("SET SESSION TRANSACTION ISOLATION LEVEL READ COMMITTED").Error
		if err == nil {
			break
		}
		sleep := time.Second * time.Duration(1<<min(attempt, 5))
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}
		logger.WithFields(logrus.Fields{
			"field":   "database",
			"attempt": attempt,
		}).Warn("failed to set isolation level; retrying in " + sleep.String() + ": " + err.Error())
		time.Sleep(sleep)
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port)
	log.Println("Server started successfully")

	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownTimeout := 30 * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

// Initialize a new RateLimiter instance.
func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Middleware function to check rate limits.
func (rl *RateLimiter) RateLimitMiddleware(c *gin.Context) {
	key := c.ClientIP()

	exists, err := rl.client.Exists(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	if exists == 0 {
		err := rl.client.Set(c.Request.Context(), key, 1, rl.window).Err()
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		c.Next()
		return
	}

	count, err := rl.client.Incr(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	if count > rl.limit {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": fmt.Sprintf("Rate limit exceeded. Try again in %d seconds", int(rl.window.Seconds())),
		})
		return
	}

	c.Next()
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
