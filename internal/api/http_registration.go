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
)

func registrationPage(token string, values form.RegistrationForm) pageData {
	return pageData{
		Title:  "Complete Registration",
		Values: values,
		Token:  token,
		Submit: submitButton{Label: "Register", LoadingLabel: "Registration..."},
	}
}

// RegistrationPage 邀请链接落地页
func (h *HTTPHandler) RegistrationPage(c *gin.Context) {
	rec := CurrentRecord(c)
	data := registrationPage(c.Param("token"), form.RegistrationForm{})
	data.Toasts = rec.TakeFlash()
	if !h.commit(c, rec) {
		return
	}
	h.render(c, http.StatusOK, "registration.html", data)
}

// CompleteRegistration 提交注册信息，令牌取自链接
func (h *HTTPHandler) CompleteRegistration(c *gin.Context) {
	ctrl, ok := bindForm[form.RegistrationForm](c, h.validator)
	if !ok {
		return
	}
	token := c.Param("token")
	rec := CurrentRecord(c)

	release, ok := h.guard.Acquire(metrics.WorkflowRegistration + ":" + token)
	if !ok {
		h.rejectBusy(c, "registration.html", registrationPage(token, ctrl.Values()))
		return
	}
	defer release()

	var out workflow.Outcome
	err := ctrl.Submit(c.Request.Context(), func(ctx context.Context, f form.RegistrationForm) error {
		out = h.service.CompleteRegistration(ctx, f.Completion(token))
		return out.Err
	})

	var verr *validation.Error
	if errors.As(err, &verr) {
		metrics.RecordSubmission(metrics.WorkflowRegistration, metrics.OutcomeInvalid)
		data := registrationPage(token, ctrl.Values())
		data.Errors = verr.Fields
		h.render(c, http.StatusUnprocessableEntity, "registration.html", data)
		return
	}

	if out.OK && out.Redirect != "" {
		rec.AddFlash(out.Toasts...)
		if !h.commit(c, rec) {
			return
		}
		redirect(c, out.Redirect)
		return
	}

	data := registrationPage(token, ctrl.Values())
	data.Toasts = out.Toasts
	data.Inline = out.Inline
	h.render(c, http.StatusOK, "registration.html", data)
}
