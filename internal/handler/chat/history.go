package chat

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// HistoryResponse 历史查询响应
type HistoryResponse struct {
	Chats       []ChatInfo `json:"chats"`       // 对话记录列表（时间倒序）
	Total       int64      `json:"total"`       // 总记录数
	TotalPages  int        `json:"totalPages"`  // 总页数
	CurrentPage int        `json:"currentPage"` // 当前页码
}

// History 查询用户的对话历史
// @Summary      查询对话历史
// @Description  分页查询指定用户的对话历史，按时间倒序排列
// @Tags         对话
// @Accept       json
// @Produce      json
// @Param        userId  path      string  true   "用户ID"
// @Param        page    query     int     false  "页码（默认1）"
// @Param        limit   query     int     false  "每页记录数（默认20，最大100）"
// @Success      200     {object}  HistoryResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      500     {object}  ErrorResponse
// @Router       /api/chats/{userId} [get]
func (h *Handler) History(c *gin.Context) {
	userID := c.Param("userId")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	ctx := c.Request.Context()

	result, err := h.chatService.History(ctx, userID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50001,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, HistoryResponse{
		Chats:       toChatInfoList(result.Chats),
		Total:       result.Total,
		TotalPages:  result.TotalPages,
		CurrentPage: result.Page,
	})
}
