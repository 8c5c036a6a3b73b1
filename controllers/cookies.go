package controllers

import (
	"net/http"

	"imex-website/middleware"

	"github.com/gin-gonic/gin"
)

const consentMaxAge = 365 * 24 * 60 * 60

// CookiesController is the JSON endpoint of the cookie banner.
type CookiesController struct {
	secure bool
}

func NewCookiesController(secure bool) *CookiesController {
	return &CookiesController{secure: secure}
}

type consentRequest struct {
	Consent string `json:"consent" binding:"required,oneof=granted withdrawn"`
}

// Consent stores or withdraws the visitor's tracking consent.
func (h *CookiesController) Consent(c *gin.Context) {
	var req consentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request payload",
		})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	if req.Consent == "granted" {
		c.SetCookie(middleware.ConsentCookie, "granted", consentMaxAge, "/", "", h.secure, false)
	} else {
		c.SetCookie(middleware.ConsentCookie, "", -1, "/", "", h.secure, false)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"consent": req.Consent,
	})
}
