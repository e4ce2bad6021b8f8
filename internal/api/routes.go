package api

import (
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rawblock/shield-engine/internal/authn"
	"github.com/rawblock/shield-engine/internal/chain"
	"github.com/rawblock/shield-engine/internal/orchestrator"
)

// APIHandler wires the gateway's HTTP surface to the orchestrator.
type APIHandler struct {
	services *orchestrator.Services
	wsHub    *Hub
}

// SetupRouter builds the gin engine: CORS, the public health/stream
// endpoints, then the bearer-auth + rate-limited analysis surface.
func SetupRouter(services *orchestrator.Services, verifier *authn.Verifier, wsHub *Hub) *gin.Engine {
	r := gin.Default()

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	handler := &APIHandler{services: services, wsHub: wsHub}

	pub := r.Group("/api/v1")
	{
		pub.GET("/health", handler.handleHealth)
		pub.GET("/stream", wsHub.Subscribe)
	}

	ratePerMinute := 30
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ratePerMinute = n
		}
	}

	auth := r.Group("/api/v1")
	auth.Use(AuthMiddleware(verifier))
	auth.Use(NewRateLimiter(ratePerMinute, 5).Middleware())
	{
		auth.POST("/analyze/transaction", handler.handleAnalyzeTransaction)
		auth.POST("/analyze/contract", handler.handleAnalyzeContract)
		auth.POST("/receipt", handler.handleGenerateReceipt)
		auth.POST("/revoke", handler.handleEmergencyRevoke)
		auth.POST("/status", handler.handleShieldStatus)
		auth.POST("/chat", handler.handleChat)
	}

	return r
}

func (h *APIHandler) handleAnalyzeTransaction(c *gin.Context) {
	var req orchestrator.AnalyzeTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if !req.Chain.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported or missing chain"})
		return
	}

	result, err := h.services.AnalyzeTransaction(c.Request.Context(), req)
	if err != nil {
		writeAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *APIHandler) handleAnalyzeContract(c *gin.Context) {
	var req orchestrator.AnalyzeContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Address == "" || !req.Chain.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address and a supported chain are required"})
		return
	}

	result, err := h.services.AnalyzeContract(c.Request.Context(), req)
	if err != nil {
		writeAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *APIHandler) handleGenerateReceipt(c *gin.Context) {
	var req orchestrator.GenerateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.TxHash == "" || !req.Chain.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "txHash and a supported chain are required"})
		return
	}

	card := h.services.GenerateReceipt(c.Request.Context(), req)
	c.JSON(http.StatusOK, card)
}

func (h *APIHandler) handleEmergencyRevoke(c *gin.Context) {
	var req orchestrator.EmergencyRevokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.WalletAddress == "" || !req.Chain.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "walletAddress and a supported chain are required"})
		return
	}
	if req.RiskThreshold < 0 || req.RiskThreshold > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "riskThreshold must be between 0 and 100"})
		return
	}

	result, err := h.services.EmergencyRevoke(c.Request.Context(), req)
	if err != nil {
		writeAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *APIHandler) handleShieldStatus(c *gin.Context) {
	var req orchestrator.ShieldStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.WalletAddress == "" || !req.Chain.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "walletAddress and a supported chain are required"})
		return
	}

	result, err := h.services.ShieldStatus(c.Request.Context(), req)
	if err != nil {
		writeAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *APIHandler) handleChat(c *gin.Context) {
	var req orchestrator.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	c.JSON(http.StatusOK, h.services.Chat(c.Request.Context(), req))
}

func (h *APIHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "operational",
		"engine": "Shield transaction-security gateway",
	})
}

// writeAnalysisError maps the chain package's closed error taxonomy to
// the fixed, user-facing responses §7 requires: network/RPC failures on
// the primary fetch surface as a generic 500, invalid input as 400. The
// caller never sees the raw error text.
func writeAnalysisError(c *gin.Context, err error) {
	switch chain.KindOf(err) {
	case chain.KindInvalidInput:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	case chain.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis failed, please try again"})
	}
}
