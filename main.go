package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gin-gonic/gin"
	"github.com/hoshinonyaruko/shake-in-im/api"
	"github.com/hoshinonyaruko/shake-in-im/config"
	"github.com/hoshinonyaruko/shake-in-im/memimg"
	"github.com/hoshinonyaruko/shake-in-im/render"
	"github.com/hoshinonyaruko/shake-in-im/session"
	"github.com/hoshinonyaruko/shake-in-im/snake"
	"github.com/hoshinonyaruko/shake-in-im/terminal"
)

const staticDir = "./static"

func main() {
	// Initialize the configuration
	cfg, err := config.LoadConfig("./config.json")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Frontend == config.FrontendTerminal {
		if err := runTerminal(ctx, cfg); err != nil {
			log.Fatalf("terminal: %v", err)
		}
		return
	}
	runHTTP(ctx, cfg)
}

func runHTTP(ctx context.Context, cfg *config.AppConfig) {
	EnsureFoldersExist(staticDir, cfg.SkinPath)

	// 载入贴图到内存
	tiles := memimg.New(cfg.Blocksize)
	if err := tiles.LoadTiles(cfg.SkinPath); err != nil {
		log.Printf("Failed to load tiles: %v", err)
	}
	// 检测并热更新到内存 加速绘图
	go func() {
		if err := tiles.WatchTiles(ctx, cfg.SkinPath); err != nil {
			log.Printf("Tile watcher stopped: %v", err)
		}
	}()

	sessions := session.NewManager(ctx, cfg.Interval())
	defer sessions.Close()

	router := gin.Default()
	api.Register(router, sessions, &render.Renderer{BlockSize: cfg.Blocksize, Tiles: tiles}, api.Options{
		SelfPath:  cfg.SelfPath,
		StaticDir: staticDir,
		Width:     cfg.Width,
		Height:    cfg.Height,
		MaxWidth:  cfg.MaxWidth,
		MaxHeight: cfg.MaxHeight,
	})

	// 从配置读取端口 监听
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()
	log.Printf("listening on :%s, tick every %v", cfg.Port, cfg.Interval())

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func runTerminal(ctx context.Context, cfg *config.AppConfig) error {
	// 终端被占用，日志写文件
	logFile, err := os.OpenFile("shake.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err == nil {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	engine, err := snake.New(cfg.Width, cfg.Height)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	var sound *terminal.Sound
	if cfg.Sound {
		sound, err = terminal.NewSound()
		if err != nil {
			// Non-fatal, game can run without sound
			log.Printf("Audio initialization failed: %v", err)
		}
		defer sound.Close()
	}

	return terminal.New(screen, engine, cfg.Interval(), sound).Run(ctx)
}

// EnsureFoldersExist 检查并创建必需的文件夹
func EnsureFoldersExist(folders ...string) {
	for _, folder := range folders {
		if _, err := os.Stat(folder); os.IsNotExist(err) {
			// 文件夹不存在，尝试创建它
			err := os.MkdirAll(folder, 0755)
			if err != nil {
				log.Fatalf("Failed to create %s directory: %s", folder, err)
			}
			log.Printf("Created %s directory", folder)
		}
	}
}
