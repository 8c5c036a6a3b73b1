package controllers

import (
	"imex-website/utils"

	"github.com/gin-gonic/gin"
)

const defaultErrorMessage = "A apărut o eroare. Te rugăm să încerci din nou."

// InfoMessage is shown by the friendly info pages.
type InfoMessage struct {
	Info string
}

// ClientInfo is the public result page used after form posts and failures.
func ClientInfo(c *gin.Context) {
	render(c, "info/client.html", newView(c, "Informații", InfoMessage{Info: utils.InfoMessage(c.Query("info"))}))
}

// AdminInfo reports results and failures inside the administration area.
func AdminInfo(c *gin.Context) {
	render(c, "info/admin.html", newView(c, "Informații", InfoMessage{Info: utils.InfoMessage(c.Query("info"))}))
}

func ErrorInfo(c *gin.Context) {
	info := utils.InfoMessage(c.Query("info"))
	if info == "" {
		info = defaultErrorMessage
	}
	render(c, "info/error.html", newView(c, "Eroare", InfoMessage{Info: info}))
}
