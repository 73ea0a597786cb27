package handler

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/postdeck/internal/service"

	_ "golang.org/x/image/webp"
)

const maxUploadBytes = 20 << 20

// UploadMedia 处理媒体上传：保存文件、读取图片尺寸并登记到媒体库
func (a *API) UploadMedia(c *gin.Context) {
	// 获取上传的文件
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "未找到上传的文件")
		return
	}
	if file.Size > maxUploadBytes {
		respondError(c, http.StatusBadRequest, "文件超过大小限制")
		return
	}

	// 检查文件类型
	contentType := file.Header.Get("Content-Type")
	var mediaType string
	switch {
	case strings.HasPrefix(contentType, "image/"):
		mediaType = service.MediaTypeImage
	case strings.HasPrefix(contentType, "video/"):
		mediaType = service.MediaTypeVideo
	default:
		respondError(c, http.StatusBadRequest, "只允许上传图片或视频文件")
		return
	}

	// 创建上传目录
	if err := os.MkdirAll(a.uploadDir, 0755); err != nil {
		respondError(c, http.StatusInternalServerError, "创建上传目录失败")
		return
	}

	// 生成唯一文件名
	ext := filepath.Ext(file.Filename)
	newFilename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	filePath := filepath.Join(a.uploadDir, newFilename)

	// 保存文件
	if err := c.SaveUploadedFile(file, filePath); err != nil {
		respondError(c, http.StatusInternalServerError, "保存文件失败")
		return
	}

	width, height := 0, 0
	if mediaType == service.MediaTypeImage {
		width, height = imageDimensions(filePath)
	}

	fileURL := a.uploadURL + "/" + newFilename
	asset, err := a.media.Create(service.MediaInput{
		FileName: file.Filename,
		FileType: mediaType,
		FileSize: file.Size,
		URL:      fileURL,
		Width:    width,
		Height:   height,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "登记媒体资源失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"asset": asset, "url": fileURL})
}

// imageDimensions 读取图片尺寸，解码失败时返回 0。
// webp 的解码器通过空导入注册。
func imageDimensions(path string) (int, int) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0
	}
	defer f.Close()

	config, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0
	}
	return config.Width, config.Height
}

// GetMediaAssets 返回媒体库列表
func (a *API) GetMediaAssets(c *gin.Context) {
	result, err := a.media.List(service.MediaFilter{
		Search:  c.Query("search"),
		Type:    c.Query("type"),
		Page:    parseIntQuery(c, "page", 1),
		PerPage: parseIntQuery(c, "per_page", 24),
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取媒体库失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assets":      result.Items,
		"total":       result.Total,
		"total_pages": result.TotalPages,
		"page":        result.Page,
		"per_page":    result.PerPage,
	})
}

// DeleteMediaAsset 删除媒体记录并移除磁盘文件
func (a *API) DeleteMediaAsset(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的媒体ID")
		return
	}

	asset, err := a.media.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrMediaNotFound) {
			respondError(c, http.StatusNotFound, "媒体不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取媒体失败")
		return
	}

	if err := a.media.Delete(id); err != nil {
		respondError(c, http.StatusInternalServerError, "删除媒体失败")
		return
	}

	// 磁盘文件清理失败不影响删除结果
	if name := filepath.Base(asset.URL); name != "" && name != "." {
		_ = os.Remove(filepath.Join(a.uploadDir, name))
	}

	c.JSON(http.StatusOK, gin.H{"message": "媒体已删除"})
}
