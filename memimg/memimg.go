// Package memimg keeps the board tile images (shake, head, egg) in memory, scaled to
// the block size, and reloads them when the skin folder changes.
package memimg

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"
)

// Cache 内存中的贴图，按文件名（不含扩展名）索引。
type Cache struct {
	blockSize int

	mu    sync.RWMutex
	tiles map[string]image.Image
}

// New creates an empty cache that scales every tile to blockSize x blockSize.
func New(blockSize int) *Cache {
	return &Cache{
		blockSize: blockSize,
		tiles:     make(map[string]image.Image),
	}
}

// LoadTiles loads every image of directory. A missing directory is not an error;
// the renderer falls back to flat colours.
func (c *Cache) LoadTiles(directory string) error {
	if _, err := os.Stat(directory); os.IsNotExist(err) {
		return nil
	}
	return filepath.Walk(directory, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isImage(path) {
			return nil
		}
		return c.loadTile(path)
	})
}

func (c *Cache) loadTile(path string) error {
	img, err := loadImage(path)
	if err != nil {
		return fmt.Errorf("load tile %s: %w", path, err)
	}
	// 缩放到格子大小
	scaled := imaging.Resize(img, c.blockSize, c.blockSize, imaging.Lanczos)

	c.mu.Lock()
	c.tiles[tileName(path)] = scaled
	c.mu.Unlock()
	return nil
}

func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// WatchTiles reloads tiles written or created in directory until ctx is done.
func (c *Cache) WatchTiles(ctx context.Context, directory string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(directory); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isImage(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				// 文件可能还没写完，失败就等下一次事件
				if err := c.loadTile(event.Name); err != nil {
					log.Printf("reload tile: %v", err)
				}
			}
			if event.Has(fsnotify.Remove) {
				c.mu.Lock()
				delete(c.tiles, tileName(event.Name))
				c.mu.Unlock()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("tile watcher error: %v", err)
		}
	}
}

// GetTile returns the tile named name ("shake", "head", "egg").
func (c *Cache) GetTile(name string) (image.Image, bool) {
	c.mu.RLock()
	img, exists := c.tiles[name]
	c.mu.RUnlock()
	return img, exists
}

func tileName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}
