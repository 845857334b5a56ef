package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"hrportal/internal/form"
	"hrportal/internal/metrics"
	"hrportal/internal/validation"
	"hrportal/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func (h *HTTPHandler) adminPage(values form.EmployeeForm) pageData {
	return pageData{
		Title:  "Create Employee",
		Values: values,
		Roles:  h.roleOptions(values.RoleID),
		Submit: submitButton{Label: "Create", LoadingLabel: "Creating..."},
	}
}

// EmployeeMenu 员工菜单；员工只能查看自己的菜单
func (h *HTTPHandler) EmployeeMenu(c *gin.Context) {
	rec := CurrentRecord(c)
	current := rec.Session

	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		NotFound(c)
		return
	}
	switch {
	case current.Role.IsAdmin():
	case current.Role.IsEmployee():
		if userID != current.UserID {
			redirect(c, workflow.EmployeeMenuRoute(current.UserID))
			return
		}
	default:
		NotFound(c)
		return
	}

	data := pageData{
		Title:     "Employee Menu",
		Toasts:    rec.TakeFlash(),
		RoleLabel: h.service.Messages().RoleLabel(current.Role),
	}
	if !h.commit(c, rec) {
		return
	}
	h.render(c, http.StatusOK, "menu_employee.html", data)
}

// AdminMenu 管理员菜单，包含创建员工表单
func (h *HTTPHandler) AdminMenu(c *gin.Context) {
	rec := CurrentRecord(c)
	data := h.adminPage(form.EmployeeForm{})
	data.Toasts = rec.TakeFlash()
	if !h.commit(c, rec) {
		return
	}
	h.render(c, http.StatusOK, "menu_admin.html", data)
}

// CreateEmployee 创建员工并发送邀请
func (h *HTTPHandler) CreateEmployee(c *gin.Context) {
	ctrl, ok := bindForm[form.EmployeeForm](c, h.validator)
	if !ok {
		return
	}
	rec := CurrentRecord(c)

	release, ok := h.guard.Acquire(rec.ID + ":" + metrics.WorkflowCreateEmployee)
	if !ok {
		h.rejectBusy(c, "menu_admin.html", h.adminPage(ctrl.Values()))
		return
	}
	defer release()

	var out workflow.Outcome
	err := ctrl.Submit(c.Request.Context(), func(ctx context.Context, f form.EmployeeForm) error {
		invite, err := f.Invite()
		if err != nil {
			return err
		}
		out = h.service.CreateEmployee(ctx, rec.Session, invite)
		return out.Err
	})

	var verr *validation.Error
	if errors.As(err, &verr) {
		metrics.RecordSubmission(metrics.WorkflowCreateEmployee, metrics.OutcomeInvalid)
		data := h.adminPage(ctrl.Values())
		data.Errors = verr.Fields
		h.render(c, http.StatusUnprocessableEntity, "menu_admin.html", data)
		return
	}
	if out.Redirect == workflow.RouteHome {
		rec.Session = nil
		if !h.commit(c, rec) {
			return
		}
		redirect(c, workflow.RouteHome)
		return
	}
	if out.OK {
		rec.AddFlash(out.Toasts...)
		if !h.commit(c, rec) {
			return
		}
		redirect(c, workflow.RouteAdminMenu)
		return
	}
	if len(out.Toasts) == 0 {
		// 表单已校验，只有角色/金额转换失败会走到这里
		logrus.WithError(err).Warn("employee form could not be converted")
		data := h.adminPage(ctrl.Values())
		data.Errors = validation.FieldErrors{"roleID": "Invalid role"}
		h.render(c, http.StatusUnprocessableEntity, "menu_admin.html", data)
		return
	}

	data := h.adminPage(ctrl.Values())
	data.Toasts = out.Toasts
	h.render(c, http.StatusOK, "menu_admin.html", data)
}
