package api

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

var adminTemplates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

const (
	adminBasePath = "/admin"
	apiBasePath   = "/api"
)

// AdminHandler serves the trainer panel. The pages are static shells; all
// data is fetched by the browser from the public API with the user's token.
type AdminHandler struct {
	title string
}

func NewAdminHandler(title string) *AdminHandler {
	if title == "" {
		title = "Fit Platform"
	}
	return &AdminHandler{title: title}
}

func (h *AdminHandler) page() gin.H {
	return gin.H{"Title": h.title, "APIBase": apiBasePath, "AdminBase": adminBasePath}
}

func (h *AdminHandler) Login(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", h.page())
}

func (h *AdminHandler) Trainer(c *gin.Context) {
	c.HTML(http.StatusOK, "trainer.html", h.page())
}

func (h *AdminHandler) Index(c *gin.Context) {
	c.Redirect(http.StatusFound, adminBasePath+"/login")
}
