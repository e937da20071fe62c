package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ogurasousui/hr-records/internal/core/catalog"
	"github.com/ogurasousui/hr-records/internal/platform/logger"
)

// CatalogHandler はスキル・資格・言語のいずれか 1 種別の REST ハンドラです。
type CatalogHandler struct {
	svc  catalog.UseCase
	kind catalog.Kind
	log  *logger.Logger
}

// NewCatalogHandler は kind 用の CatalogHandler を生成します。
func NewCatalogHandler(svc catalog.UseCase, kind catalog.Kind, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{svc: svc, kind: kind, log: log}
}

type catalogItemRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type catalogItemResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toCatalogItemResponse(item *catalog.Item) catalogItemResponse {
	return catalogItemResponse{ID: item.ID, Name: item.Name}
}

// Create はカタログ項目を作成します。
func (h *CatalogHandler) Create(c *gin.Context) {
	var req catalogItemRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	created, err := h.svc.CreateItem(c.Request.Context(), catalog.CreateItemInput{Kind: h.kind, Name: req.Name})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, toCatalogItemResponse(created))
}

// Get はカタログ項目を 1 件返します。
func (h *CatalogHandler) Get(c *gin.Context) {
	found, err := h.svc.GetItem(c.Request.Context(), catalog.GetItemInput{Kind: h.kind, ID: c.Param("id")})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toCatalogItemResponse(found))
}

// List は種別内の全項目を名前順で返します。
func (h *CatalogHandler) List(c *gin.Context) {
	items, err := h.svc.ListItems(c.Request.Context(), h.kind)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	out := make([]catalogItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toCatalogItemResponse(item))
	}
	c.JSON(http.StatusOK, out)
}

// Update は項目名を変更します。PUT と PATCH の両方で使われます。
func (h *CatalogHandler) Update(c *gin.Context) {
	var req catalogItemRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	updated, err := h.svc.UpdateItem(c.Request.Context(), catalog.UpdateItemInput{
		Kind: h.kind,
		ID:   c.Param("id"),
		Name: req.Name,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toCatalogItemResponse(updated))
}

// Delete はカタログ項目を削除します。
func (h *CatalogHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteItem(c.Request.Context(), catalog.DeleteItemInput{Kind: h.kind, ID: c.Param("id")}); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}
