package webapi

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

func pageTemplates() *template.Template {
	return template.Must(template.ParseFS(templatesFS, "templates/*.html"))
}

func (handler *httpHandler) handleIndexPage(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "index.html", nil)
}

func (handler *httpHandler) handleLoginPage(ctx *gin.Context) {
	if _, ok := handler.sessionUsername(ctx); ok {
		ctx.Redirect(http.StatusFound, "/admin/dashboard")
		return
	}
	ctx.HTML(http.StatusOK, "admin_login.html", gin.H{
		"Next": ctx.Query("next"),
	})
}

func (handler *httpHandler) handleDashboardPage(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "admin_dashboard.html", gin.H{
		"Username": ctx.GetString(contextKeyAdminUsername),
	})
}

func (handler *httpHandler) handleNewReservationPage(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "edit_reservation.html", gin.H{
		"ReservationID": nil,
	})
}

func (handler *httpHandler) handleEditReservationPage(ctx *gin.Context) {
	reservationID, ok := pathID(ctx)
	if !ok {
		return
	}
	ctx.HTML(http.StatusOK, "edit_reservation.html", gin.H{
		"ReservationID": reservationID,
	})
}
