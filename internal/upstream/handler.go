// Package upstream serves a local implementation of the remote inventory API
// so the dashboard can be developed and tested without the production
// backend. It reproduces the wire contract faithfully: every response is a
// {success, message, ...} envelope, duplicate names are signaled through
// message text, and batch operations ignore unknown codes.
package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/skc"
	"github.com/cxy1818/temu-jit-skc-webui/internal/sqlite"
	"github.com/google/uuid"
)

// maxUploadBytes caps multipart image uploads.
const maxUploadBytes = 16 << 20

// Handler serves the API routes from a local store.
type Handler struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// New builds the route table.
func New(store *sqlite.Store, logger *slog.Logger) http.Handler {
	h := &Handler{store: store, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/projects", h.listProjects)
	mux.HandleFunc("POST /api/projects", h.createProject)
	mux.HandleFunc("GET /api/projects/{id}/products", h.listProducts)
	mux.HandleFunc("POST /api/projects/{id}/products", h.createProduct)
	mux.HandleFunc("POST /api/projects/{id}/export", h.exportProject)
	mux.HandleFunc("GET /api/products/{id}/skcs", h.listSKCs)
	mux.HandleFunc("POST /api/products/{id}/skcs", h.addSKCs)
	mux.HandleFunc("PUT /api/skcs/batch_update", h.batchUpdate)
	mux.HandleFunc("DELETE /api/skcs/batch_delete", h.batchDelete)
	mux.HandleFunc("GET /api/products/{id}/images", h.listImages)
	mux.HandleFunc("POST /api/products/{id}/images", h.uploadImage)
	mux.HandleFunc("PUT /api/images/{id}/primary", h.setPrimaryImage)
	mux.HandleFunc("DELETE /api/images/{id}", h.deleteImage)
	mux.HandleFunc("GET /api/stats/user", h.userStats)
	return mux
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && h.logger != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) ok(w http.ResponseWriter, message string, extra map[string]any) {
	payload := map[string]any{"success": true}
	if message != "" {
		payload["message"] = message
	}
	for k, v := range extra {
		payload[k] = v
	}
	h.writeJSON(w, http.StatusOK, payload)
}

func (h *Handler) fail(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]any{"success": false, "message": message})
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.ListProjects(r.Context())
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "加载项目失败")
		return
	}
	h.ok(w, "", map[string]any{"projects": projects})
}

func (h *Handler) createProject(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		h.fail(w, http.StatusBadRequest, "项目名称不能为空")
		return
	}

	err := h.store.CreateProject(r.Context(), body.Name, body.Description)
	if errors.Is(err, sqlite.ErrDuplicate) {
		h.fail(w, http.StatusBadRequest, "项目名称已存在")
		return
	}
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "创建项目失败")
		return
	}
	h.ok(w, "项目创建成功", nil)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(r)
	if !ok {
		h.fail(w, http.StatusNotFound, "项目不存在")
		return
	}
	products, err := h.store.ListProducts(r.Context(), projectID)
	if errors.Is(err, sqlite.ErrNotFound) {
		h.fail(w, http.StatusNotFound, "项目不存在")
		return
	}
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "加载产品失败")
		return
	}
	h.ok(w, "", map[string]any{"products": products})
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(r)
	if !ok {
		h.fail(w, http.StatusNotFound, "项目不存在")
		return
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		h.fail(w, http.StatusBadRequest, "产品名称不能为空")
		return
	}

	err := h.store.CreateProduct(r.Context(), projectID, body.Name)
	if errors.Is(err, sqlite.ErrNotFound) {
		h.fail(w, http.StatusNotFound, "项目不存在")
		return
	}
	if errors.Is(err, sqlite.ErrDuplicate) {
		h.fail(w, http.StatusBadRequest, "产品名称已存在")
		return
	}
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "创建产品失败")
		return
	}
	h.ok(w, "产品创建成功", nil)
}

func (h *Handler) listSKCs(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(r)
	if !ok {
		h.fail(w, http.StatusNotFound, "产品不存在")
		return
	}
	status := skc.Status(r.URL.Query().Get("status"))
	skcs, err := h.store.ListSKCs(r.Context(), productID, status)
	if errors.Is(err, sqlite.ErrNotFound) {
		h.fail(w, http.StatusNotFound, "产品不存在")
		return
	}
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "加载SKC失败")
		return
	}
	h.ok(w, "", map[string]any{"skcs": skcs})
}

func (h *Handler) addSKCs(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(r)
	if !ok {
		h.fail(w, http.StatusNotFound, "产品不存在")
		return
	}
	var body struct {
		SKCCodes []string   `json:"skc_codes"`
		Status   skc.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.SKCCodes) == 0 {
		h.fail(w, http.StatusBadRequest, "SKC代码不能为空")
		return
	}
	if body.Status == "" {
		body.Status = skc.StatusPriceApproved
	}
	if !body.Status.Valid() {
		h.fail(w, http.StatusBadRequest, "状态选项无效")
		return
	}

	added, duplicates, err := h.store.AddSKCs(r.Context(), productID, body.SKCCodes, body.Status)
	if errors.Is(err, sqlite.ErrNotFound) {
		h.fail(w, http.StatusNotFound, "产品不存在")
		return
	}
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "添加SKC失败")
		return
	}

	message := fmt.Sprintf("成功添加 %d 个SKC", added)
	if duplicates > 0 {
		message += fmt.Sprintf("，跳过 %d 个重复的SKC", duplicates)
	}
	h.ok(w, message, map[string]any{"added_count": added, "duplicate_count": duplicates})
}

func (h *Handler) batchUpdate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SKCCodes []string   `json:"skc_codes"`
		Status   skc.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.SKCCodes) == 0 {
		h.fail(w, http.StatusBadRequest, "SKC代码不能为空")
		return
	}
	if !body.Status.Valid() {
		h.fail(w, http.StatusBadRequest, "状态选项无效")
		return
	}

	updated, err := h.store.BatchUpdateStatus(r.Context(), body.SKCCodes, body.Status)
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "批量更新失败")
		return
	}
	h.ok(w, fmt.Sprintf("成功更新 %d 个SKC状态为「%s」", updated, body.Status),
		map[string]any{"updated_count": updated})
}

func (h *Handler) batchDelete(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SKCCodes []string `json:"skc_codes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.SKCCodes) == 0 {
		h.fail(w, http.StatusBadRequest, "SKC代码不能为空")
		return
	}

	deleted, err := h.store.BatchDelete(r.Context(), body.SKCCodes)
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "批量删除失败")
		return
	}
	h.ok(w, fmt.Sprintf("成功删除 %d 个SKC", deleted), map[string]any{"deleted_count": deleted})
}

func (h *Handler) listImages(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(r)
	if !ok {
		h.fail(w, http.StatusNotFound, "产品不存在")
		return
	}
	images, err := h.store.ListImages(r.Context(), productID)
	if errors.Is(err, sqlite.ErrNotFound) {
		h.fail(w, http.StatusNotFound, "产品不存在")
		return
	}
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "加载图片失败")
		return
	}
	h.ok(w, "", map[string]any{"images": images})
}

func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(r)
	if !ok {
		h.fail(w, http.StatusNotFound, "产品不存在")
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.fail(w, http.StatusBadRequest, "请选择图片文件")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		h.fail(w, http.StatusBadRequest, "请选择图片文件")
		return
	}
	defer file.Close()

	// Content is discarded; the mock tracks metadata only.
	stored := uuid.NewString() + filepath.Ext(header.Filename)
	img, err := h.store.AddImage(r.Context(), productID, stored, header.Filename, header.Size)
	if errors.Is(err, sqlite.ErrNotFound) {
		h.fail(w, http.StatusNotFound, "产品不存在")
		return
	}
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "保存图片失败")
		return
	}
	h.ok(w, "图片上传成功", map[string]any{"image": img})
}

func (h *Handler) setPrimaryImage(w http.ResponseWriter, r *http.Request) {
	imageID, ok := pathID(r)
	if !ok {
		h.fail(w, http.StatusNotFound, "图片不存在")
		return
	}
	err := h.store.SetPrimaryImage(r.Context(), imageID)
	if errors.Is(err, sqlite.ErrNotFound) {
		h.fail(w, http.StatusNotFound, "图片不存在")
		return
	}
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "设置主图失败")
		return
	}
	h.ok(w, "主图设置成功", nil)
}

func (h *Handler) deleteImage(w http.ResponseWriter, r *http.Request) {
	imageID, ok := pathID(r)
	if !ok {
		h.fail(w, http.StatusNotFound, "图片不存在")
		return
	}
	err := h.store.DeleteImage(r.Context(), imageID)
	if errors.Is(err, sqlite.ErrNotFound) {
		h.fail(w, http.StatusNotFound, "图片不存在")
		return
	}
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "删除图片失败")
		return
	}
	h.ok(w, "图片删除成功", nil)
}

func (h *Handler) userStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "获取统计数据失败")
		return
	}
	h.ok(w, "", map[string]any{"stats": stats})
}

func (h *Handler) exportProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(r)
	if !ok {
		h.fail(w, http.StatusNotFound, "项目不存在")
		return
	}
	if _, err := h.store.ListProducts(r.Context(), projectID); err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			h.fail(w, http.StatusNotFound, "项目不存在")
			return
		}
		h.fail(w, http.StatusInternalServerError, "导出失败")
		return
	}
	// The mock acknowledges the export without building a workbook.
	h.ok(w, "导出任务已创建", map[string]any{
		"export": map[string]any{"id": time.Now().UnixMilli()},
	})
}
