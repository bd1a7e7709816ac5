package configwatcher

import (
	"context"
	"path/filepath"
	"time"

	"survegio_backend/internal/config"
	"survegio_backend/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type Reloader func(cfg *config.Config)

const debounce = time.Second

// Watch 监听配置目录，config.yaml 变更后防抖重新加载；ctx 取消时退出
func Watch(ctx context.Context, configDir string, reload Reloader) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	absDir, err := filepath.Abs(configDir)
	if err != nil {
		watcher.Close()
		return err
	}
	// 监听目录而不是文件，编辑器保存时常见的 rename 也能捕获
	if err := watcher.Add(absDir); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()

		timer := time.NewTimer(debounce)
		timer.Stop()

		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != "config.yaml" {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					timer.Reset(debounce)
				}
			case <-timer.C:
				cfg, err := config.LoadConfig(absDir)
				if err != nil {
					logger.Log.Error("Failed to reload config", zap.Error(err))
					continue
				}
				logger.Log.Info("Config reloaded", zap.String("dir", absDir))
				reload(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Log.Error("Config watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}
