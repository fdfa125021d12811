package api

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hoshinonyaruko/shake-in-im/grid"
	"github.com/hoshinonyaruko/shake-in-im/render"
	"github.com/hoshinonyaruko/shake-in-im/session"
	"github.com/hoshinonyaruko/shake-in-im/structs"
)

// Options are the server-wide settings the handlers need.
type Options struct {
	SelfPath  string // 对外地址，用来拼图片链接
	StaticDir string // 渲染图片保存目录
	Width     int    // 默认地图宽度
	Height    int    // 默认地图高度
	MaxWidth  int    // 地图宽度上限
	MaxHeight int    // 地图高度上限
}

// Register mounts every route on router.
func Register(router *gin.Engine, sessions *session.Manager, renderer *render.Renderer, opts Options) {
	// 处理玩家改变方向
	router.GET("/update-direction", UpdateDirection(sessions))
	// 渲染函数 返回静态地址
	router.GET("/render-map", RenderMapHandler(sessions, renderer, opts))
	// 当前棋盘 JSON
	router.GET("/snapshot", SnapshotHandler(sessions))
	// 删除地图
	router.GET("/delete-map", DeleteMapHandler(sessions))
	router.Static("/static", opts.StaticDir) // 静态文件服务
}

func validGroupID(groupID string) bool {
	return groupID != "" && groupID != "." && groupID != ".." && filepath.Base(groupID) == groupID
}

func UpdateDirection(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		groupID := c.Query("groupid")
		command := c.Query("command")
		if command == "" {
			command = c.Query("direction")
		}

		// 验证是否提供了必要的查询参数
		if !validGroupID(groupID) || command == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameters: groupid or command"})
			return
		}

		s, ok := sessions.Get(groupID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no game for group %s", groupID)})
			return
		}

		cmd := structs.ParseCommand(command)
		if cmd == structs.CommandNone {
			// 未知按键不算错误
			c.JSON(http.StatusOK, gin.H{"message": "Command ignored", "status": s.View().Status})
			return
		}
		s.Submit(cmd)

		c.JSON(http.StatusOK, gin.H{"message": "Command accepted", "command": cmd.String(), "status": s.View().Status})
	}
}

func RenderMapHandler(sessions *session.Manager, renderer *render.Renderer, opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		groupID := c.Query("groupid")
		if !validGroupID(groupID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: groupid"})
			return
		}
		width, err := strconv.Atoi(c.DefaultQuery("width", strconv.Itoa(opts.Width)))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "width must be an integer"})
			return
		}
		height, err := strconv.Atoi(c.DefaultQuery("height", strconv.Itoa(opts.Height)))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "height must be an integer"})
			return
		}

		if width > opts.MaxWidth || height > opts.MaxHeight {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("map may be at most %dx%d", opts.MaxWidth, opts.MaxHeight)})
			return
		}

		// 获取&创建当前群游戏
		s, err := sessions.GetOrCreate(groupID, width, height)
		if err != nil {
			if errors.Is(err, grid.ErrInvalidSize) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			fmt.Printf("err GetOrCreate :%v\n", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to create game"})
			return
		}

		view := s.View()
		// 绘图
		fileName := filepath.Join(opts.StaticDir, groupID+".png")
		if err := renderer.SavePNG(view, fileName); err != nil {
			fmt.Printf("err SavePNG :%v\n", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to render map"})
			return
		}

		imageURL := fmt.Sprintf("%s/static/%s.png", opts.SelfPath, groupID)
		c.JSON(http.StatusOK, gin.H{
			"image_url": imageURL,
			"status":    view.Status,
			"score":     view.Score,
		})
	}
}

func SnapshotHandler(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		groupID := c.Query("groupid")
		if !validGroupID(groupID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: groupid"})
			return
		}
		s, ok := sessions.Get(groupID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no game for group %s", groupID)})
			return
		}
		c.JSON(http.StatusOK, s.View())
	}
}

func DeleteMapHandler(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		groupID := c.Query("groupid")
		if !validGroupID(groupID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: groupid"})
			return
		}
		if !sessions.Delete(groupID) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no game for group %s", groupID)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Map deleted"})
	}
}
