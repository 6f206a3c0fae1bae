package http

import (
	"net/http"
	"time"

	"github.com/aq2208/gorder-cart/internal/security"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type TokenConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

type TokenHandler struct {
	cfg     TokenConfig
	clients security.Registry
	now     func() time.Time
}

func NewTokenHandler(cfg TokenConfig, clients security.Registry) *TokenHandler {
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	return &TokenHandler{cfg: cfg, clients: clients, now: time.Now}
}

type tokenReq struct {
	ClientID     string `form:"client_id" json:"client_id"`
	ClientSecret string `form:"client_secret" json:"client_secret"`
}

// POST /v1/token (form or JSON)
// Accepts: client_id, client_secret
func (h *TokenHandler) IssueToken(c *gin.Context) {
	var req tokenReq
	_ = c.ShouldBind(&req)
	if req.ClientID == "" || req.ClientSecret == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_client"})
		return
	}

	cl, ok := h.clients.Authenticate(req.ClientID, req.ClientSecret)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_client"})
		return
	}

	now := h.now()
	claims := jwt.MapClaims{
		"iss":      h.cfg.Issuer,              // issuer
		"aud":      h.cfg.Audience,            // audience
		"iat":      now.Unix(),                // issued at
		"nbf":      now.Unix(),                // not before
		"exp":      now.Add(h.cfg.TTL).Unix(), // expire
		"clientID": cl.ID,
		"perms":    cl.Perms,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.Secret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": signed,
		"token_type":   "Bearer",
		"expires_in":   int(h.cfg.TTL.Seconds()),
	})
}
