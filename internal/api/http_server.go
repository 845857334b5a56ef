package api

import (
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"hrportal/internal/config"
	"hrportal/internal/entity"
	"hrportal/internal/form"
	"hrportal/internal/session"
	"hrportal/internal/validation"
	"hrportal/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	cfg       config.Config
	service   *workflow.Service
	validator *validation.Validator
	sessions  *session.Manager
	guard     *form.Guard
	pages     *template.Template
}

// NewHTTPHandler 创建 HTTP 处理器实例
func NewHTTPHandler(cfg config.Config, svc *workflow.Service, v *validation.Validator, sessions *session.Manager) (*HTTPHandler, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	return &HTTPHandler{
		cfg:       cfg,
		service:   svc,
		validator: v,
		sessions:  sessions,
		guard:     form.NewGuard(),
		pages:     pages,
	}, nil
}

func parsePages() (*template.Template, error) {
	return template.New("pages").Funcs(template.FuncMap{
		"fieldError": func(errs validation.FieldErrors, name string) string {
			return errs[name]
		},
	}).ParseFS(templateFS, "templates/*.html")
}

// RegisterRoutes 注册页面路由
func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	r.SetHTMLTemplate(h.pages)
	r.NoRoute(NotFound)

	pages := r.Group("")
	pages.Use(h.SessionMiddleware())
	pages.GET("/", h.LoginPage)
	pages.POST("/", h.Login)
	pages.POST("/logout", h.Logout)
	pages.GET("/registration/:token", h.RegistrationPage)
	pages.POST("/registration/:token", h.CompleteRegistration)

	employee := pages.Group("/menu-employee")
	employee.Use(h.RequireSession())
	employee.GET("/:userId", h.EmployeeMenu)

	admin := pages.Group("/menu-admin")
	admin.Use(h.RequireAdmin())
	admin.GET("", h.AdminMenu)
	admin.POST("/employees", h.CreateEmployee)
}

// submitButton 提交按钮状态；Loading 时按钮为禁用态
type submitButton struct {
	Label        string
	LoadingLabel string
	Loading      bool
}

type pageData struct {
	Title     string
	Toasts    []entity.Toast
	Values    any
	Errors    validation.FieldErrors
	Inline    string
	Submit    submitButton
	Roles     []roleOption
	RoleLabel string
	Token     string
}

type roleOption struct {
	Value    int
	Label    string
	Selected bool
}

func (h *HTTPHandler) roleOptions(selected string) []roleOption {
	msgs := h.service.Messages()
	options := []roleOption{{
		Value:    int(entity.RoleUnset),
		Label:    msgs.RoleLabel(entity.RoleUnset),
		Selected: selected == "" || selected == "0",
	}}
	for _, role := range entity.AssignableRoles {
		options = append(options, roleOption{
			Value:    int(role),
			Label:    msgs.RoleLabel(role),
			Selected: selected == strconv.Itoa(int(role)),
		})
	}
	return options
}

// render 渲染页面；请求方要求 JSON 时返回数据本身
func (h *HTTPHandler) render(c *gin.Context, status int, page string, data pageData) {
	if wantsJSON(c) {
		if status == http.StatusUnprocessableEntity {
			ErrorResponseWithDetails(c, status, ErrCodeValidationFailed, "validation failed", data.Errors)
			return
		}
		c.JSON(status, gin.H{
			"toasts": data.Toasts,
			"errors": data.Errors,
			"inline": data.Inline,
		})
		return
	}
	c.HTML(status, page, data)
}

func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

// redirect 跳转到目标页面；JSON 请求返回目标地址
func redirect(c *gin.Context, location string) {
	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"redirect": location})
		return
	}
	c.Redirect(http.StatusSeeOther, location)
}

// commit 保存会话并下发 cookie；失败时已写出 500
func (h *HTTPHandler) commit(c *gin.Context, rec *session.Record) bool {
	if err := h.sessions.Save(c.Request.Context(), c.Writer, rec); err != nil {
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("failed to save session")
		InternalError(c, "failed to save session")
		return false
	}
	return true
}

// bindForm 用 gin 绑定表单并交给表单控制器；失败时已写出 400
func bindForm[T any](c *gin.Context, v *validation.Validator) (*form.Controller[T], bool) {
	var posted T
	if err := c.ShouldBindWith(&posted, binding.Form); err != nil {
		logrus.WithError(err).Warn("failed to bind form")
		InvalidPayload(c)
		return nil, false
	}
	ctrl := form.NewController[T](v)
	ctrl.Load(posted)
	return ctrl, true
}
