package api

import (
	"context"
	"errors"
	"net/http"

	"hrportal/internal/form"
	"hrportal/internal/metrics"
	"hrportal/internal/validation"
	"hrportal/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func loginPage(values form.LoginForm) pageData {
	return pageData{
		Title:  "Login",
		Values: values,
		Submit: submitButton{Label: "Login", LoadingLabel: "Loading..."},
	}
}

// LoginPage 登录页
func (h *HTTPHandler) LoginPage(c *gin.Context) {
	rec := CurrentRecord(c)
	data := loginPage(form.LoginForm{})
	data.Toasts = rec.TakeFlash()
	if !h.commit(c, rec) {
		return
	}
	h.render(c, http.StatusOK, "login.html", data)
}

// Login 登录提交
func (h *HTTPHandler) Login(c *gin.Context) {
	ctrl, ok := bindForm[form.LoginForm](c, h.validator)
	if !ok {
		return
	}
	rec := CurrentRecord(c)

	release, ok := h.guard.Acquire(rec.ID + ":" + metrics.WorkflowLogin)
	if !ok {
		h.rejectBusy(c, "login.html", loginPage(ctrl.Values()))
		return
	}
	defer release()

	var out workflow.Outcome
	err := ctrl.Submit(c.Request.Context(), func(ctx context.Context, f form.LoginForm) error {
		out = h.service.Login(ctx, f.Credentials())
		return out.Err
	})

	var verr *validation.Error
	if errors.As(err, &verr) {
		metrics.RecordSubmission(metrics.WorkflowLogin, metrics.OutcomeInvalid)
		data := loginPage(ctrl.Values())
		data.Errors = verr.Fields
		h.render(c, http.StatusUnprocessableEntity, "login.html", data)
		return
	}

	if out.OK {
		h.sessions.Renew(c.Request.Context(), rec)
		rec.Session = out.Session
		rec.AddFlash(out.Toasts...)
		if !h.commit(c, rec) {
			return
		}
		redirect(c, out.Redirect)
		return
	}

	data := loginPage(ctrl.Values())
	data.Toasts = append(rec.TakeFlash(), out.Toasts...)
	if !h.commit(c, rec) {
		return
	}
	h.render(c, http.StatusOK, "login.html", data)
}

// Logout 退出登录：丢弃旧会话，新的匿名会话只带退出提示
func (h *HTTPHandler) Logout(c *gin.Context) {
	rec := CurrentRecord(c)
	h.sessions.Renew(c.Request.Context(), rec)
	rec.Session = nil
	rec.AddFlash(h.service.Messages().Logout)
	if !h.commit(c, rec) {
		return
	}
	redirect(c, workflow.RouteHome)
}

// rejectBusy 同一会话的上一次提交尚未结束，按钮保持禁用态
func (h *HTTPHandler) rejectBusy(c *gin.Context, page string, data pageData) {
	logrus.WithField("path", c.Request.URL.Path).Info("submission already in progress")
	if wantsJSON(c) {
		ErrorResponse(c, http.StatusConflict, ErrCodeSubmitInProgress, form.ErrSubmitInProgress.Error())
		return
	}
	data.Submit.Loading = true
	h.render(c, http.StatusConflict, page, data)
}
