package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay склеивает серию событий от одного сохранения файла.
const reloadDelay = 150 * time.Millisecond

// Watcher перечитывает настройки, когда файл меняется извне.
type Watcher struct {
	fw     *fsnotify.Watcher
	cfg    *Config
	stopCh chan struct{}
	done   chan struct{}
	once   sync.Once
}

// Watch начинает следить за файлом настроек cfg. Следим за каталогом, а не за
// файлом: редакторы сохраняют через переименование.
func Watch(cfg *Config) (*Watcher, error) {
	if cfg.Path() == "" {
		return nil, fmt.Errorf("файл настроек не задан")
	}
	dir := filepath.Dir(cfg.Path())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("создание каталога %s: %w", dir, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("наблюдение за %s: %w", dir, err)
	}

	w := &Watcher{
		fw:     fw,
		cfg:    cfg,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.done)

	target := filepath.Clean(w.cfg.Path())
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
				!ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDelay, w.reload)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			slog.Warn("Ошибка наблюдения за настройками", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	if err := w.cfg.Reload(); err != nil {
		slog.Warn("Не удалось перечитать настройки, оставляем текущие", "path", w.cfg.Path(), "error", err)
	}
}

// Close останавливает наблюдение.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stopCh)
		err = w.fw.Close()
		<-w.done
	})
	return err
}
