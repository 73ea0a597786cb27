package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/postdeck/internal/service"
)

// GetSocialAccounts 返回全部社交账号
func (a *API) GetSocialAccounts(c *gin.Context) {
	accounts, err := a.accounts.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取账号列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// ConnectSocialAccount 登记一个已连接账号
func (a *API) ConnectSocialAccount(c *gin.Context) {
	var payload struct {
		Platform    string `json:"platform"`
		Handle      string `json:"handle"`
		DisplayName string `json:"displayName"`
	}
	if !bindJSON(c, &payload, "无效的请求数据") {
		return
	}

	account, err := a.accounts.Connect(service.Platform(payload.Platform), payload.Handle, payload.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountHandleRequired):
			respondError(c, http.StatusBadRequest, "账号昵称不能为空")
		case errors.Is(err, service.ErrPlatformUnknown):
			respondError(c, http.StatusBadRequest, "不支持的平台")
		default:
			respondError(c, http.StatusInternalServerError, "连接账号失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// DisconnectSocialAccount 将账号标记为未连接
func (a *API) DisconnectSocialAccount(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的账号ID")
		return
	}

	if err := a.accounts.Disconnect(id); err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			respondError(c, http.StatusNotFound, "账号不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "断开账号失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "账号已断开连接"})
}
