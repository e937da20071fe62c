package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ogurasousui/hr-records/internal/core/employee"
	"github.com/ogurasousui/hr-records/internal/platform/logger"
)

const nextPageTokenHeader = "X-Next-Page-Token"

// EmployeeHandler は社員集約の REST ハンドラです。
type EmployeeHandler struct {
	svc employee.UseCase
	log *logger.Logger
}

// NewEmployeeHandler は EmployeeHandler を生成します。
func NewEmployeeHandler(svc employee.UseCase, log *logger.Logger) *EmployeeHandler {
	return &EmployeeHandler{svc: svc, log: log}
}

// Create は社員と全ての子レコードを作成します。
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req employeeRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	created, err := h.svc.CreateEmployee(c.Request.Context(), req.toCreateInput())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, toEmployeeResponse(created))
}

// Get は社員集約を 1 件返します。
func (h *EmployeeHandler) Get(c *gin.Context) {
	found, err := h.svc.GetEmployee(c.Request.Context(), employee.GetEmployeeInput{ID: c.Param("id")})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toEmployeeResponse(found))
}

// List は社員一覧を返します。次ページがあれば X-Next-Page-Token ヘッダに設定します。
func (h *EmployeeHandler) List(c *gin.Context) {
	pageSize := 0
	if raw := strings.TrimSpace(c.Query("page_size")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, h.log, employee.ErrInvalidPageSize)
			return
		}
		pageSize = n
	}

	result, err := h.svc.ListEmployees(c.Request.Context(), employee.ListEmployeesInput{
		Search:    c.Query("search"),
		PageSize:  pageSize,
		PageToken: c.Query("page_token"),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if result.NextPageToken != "" {
		c.Header(nextPageTokenHeader, result.NextPageToken)
	}

	out := make([]employeeResponse, 0, len(result.Employees))
	for _, e := range result.Employees {
		out = append(out, toEmployeeResponse(e))
	}
	c.JSON(http.StatusOK, out)
}

// Replace は PUT による全体更新です。必須項目が全て揃っている必要があります。
func (h *EmployeeHandler) Replace(c *gin.Context) {
	h.update(c, false)
}

// Patch は PATCH による部分更新です。
func (h *EmployeeHandler) Patch(c *gin.Context) {
	h.update(c, true)
}

func (h *EmployeeHandler) update(c *gin.Context, partial bool) {
	var req employeeRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	updated, err := h.svc.UpdateEmployee(c.Request.Context(), req.toUpdateInput(c.Param("id"), partial))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toEmployeeResponse(updated))
}

// Delete は社員と全ての子レコードを削除します。
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteEmployee(c.Request.Context(), employee.DeleteEmployeeInput{ID: c.Param("id")}); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// bindJSON はリクエストボディを decode し binding タグを検証します。
func bindJSON(c *gin.Context, dst any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return errEmptyBody
	}
	return c.ShouldBindJSON(dst)
}

func indexed(list string, i int, field string) string {
	return fmt.Sprintf("%s[%d].%s", list, i, field)
}
