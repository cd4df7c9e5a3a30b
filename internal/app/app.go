// Package app содержит основную логику приложения.
package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"tambourine/internal/audio"
	"tambourine/internal/config"
	"tambourine/internal/dialog"
	"tambourine/internal/events"
	"tambourine/internal/history"
	"tambourine/internal/hotkey"
	"tambourine/internal/i18n"
	"tambourine/internal/input"
	"tambourine/internal/mute"
	"tambourine/internal/notify"
	"tambourine/internal/recording"
	"tambourine/internal/shortcut"
	"tambourine/internal/tray"
)

// Options - параметры запуска.
type Options struct {
	// ConfigPath - путь к settings.json. Пустой - config.DefaultPath().
	ConfigPath string
}

// App представляет главное приложение.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	config    *config.Config
	watcher   *config.Watcher
	initial   config.Bindings
	bus       *events.Bus
	hub       *events.Hub
	history   *history.Store
	player    *audio.Player
	coord     *recording.Coordinator
	machine   *recording.Machine
	registrar *hotkey.Registrar
	notifier  *notify.Notifier
	tray      *tray.Tray

	mu        sync.Mutex
	startErr  error
	closeOnce sync.Once
}

// New создаёт новое приложение. Горячие клавиши регистрируются в Run.
func New(opts Options) (*App, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}

	// Клавиши для регистрации в ОС читаются напрямую из файла, до хранилища
	initial := config.ReadInitial(path, hotkey.Compile)
	slog.Info("Горячие клавиши при старте", "bindings", initial.String())
	for _, c := range initial.Conflicts() {
		slog.Warn("Две роли на одной клавише, сработает первая", "first", c[0], "second", c[1])
	}

	cfg := config.New(path)
	i18n.SetLanguage(i18n.Language(cfg.UILanguage()))

	store, err := history.Open(history.DefaultPath(path))
	if err != nil {
		return nil, err
	}

	typer, err := input.New()
	if err != nil {
		slog.Warn("Ввод текста недоступен, вставка последней расшифровки отключена", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		ctx:      ctx,
		cancel:   cancel,
		config:   cfg,
		initial:  initial,
		bus:      events.NewBus(),
		hub:      events.NewHub(cfg.EventsAddr()),
		history:  store,
		player:   audio.New(),
		notifier: notify.New(cfg.NotificationsEnabled()),
	}
	a.player.SetCues(cfg.CuePath(config.KeyStartCue), cfg.CuePath(config.KeyStopCue))

	var muter recording.Muter
	switch m, err := mute.New(); {
	case err == nil:
		muter = m
	case errors.Is(err, mute.ErrUnsupported):
		slog.Info("Заглушение звука недоступно на этой платформе")
	default:
		slog.Warn("Заглушение звука отключено", "error", err)
	}

	flags := &recording.Flags{}
	a.coord = recording.NewCoordinator(flags, a.player, muter, a.bus)
	injector := input.NewInjector(typer, cfg.PasteMethod)
	a.machine = recording.NewMachine(cfg, flags, a.coord, recording.NewPasteLast(store, injector))
	a.registrar = hotkey.New(func(ev shortcut.Event) {
		a.machine.Handle(a.ctx, ev)
	})

	a.bus.Subscribe(a.hub.Emit)
	a.bus.Subscribe(a.notifier.HandleEvent)
	a.hub.OnMessage(a.onHubMessage)

	a.tray = tray.New(a.trayCallbacks(), tray.Options{
		SoundEnabled:  cfg.SoundEnabled(),
		AutoMuteAudio: cfg.AutoMuteAudio(),
		Notifications: cfg.NotificationsEnabled(),
		Hotkeys:       hotkeyTitles(initial),
	})
	a.bus.Subscribe(a.tray.HandleEvent)

	cfg.OnChange(a.onSettingsChanged)
	if w, err := config.Watch(cfg); err != nil {
		slog.Warn("Не удалось следить за файлом настроек", "error", err)
	} else {
		a.watcher = w
	}

	return a, nil
}

// Run запускает приложение и блокируется до выхода из трея. Ошибка
// регистрации горячих клавиш при старте фатальна.
func (a *App) Run() error {
	if err := a.hub.Start(a.ctx); err != nil {
		slog.Warn("Сервер событий не запущен", "error", err)
	}

	a.tray.Run(func() {
		// Регистрируем горячие клавиши после инициализации трея
		if err := a.registrar.Register(a.initial); err != nil {
			slog.Error("Не удалось зарегистрировать горячие клавиши", "error", err)
			dialog.ShowError(i18n.T("error_startup"), i18n.T("error_hotkey")+":\n"+err.Error())
			a.mu.Lock()
			a.startErr = err
			a.mu.Unlock()
			a.tray.Quit()
			return
		}
		a.notifier.Info(i18n.T("notify_ready"))
	})

	a.Close()

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.startErr
}

func (a *App) onHubMessage(msg events.Message) {
	switch msg.Type {
	case events.TypeAddHistory:
		entry, err := a.history.Add(a.ctx, msg.Text)
		if err != nil {
			slog.Warn("Не удалось сохранить расшифровку", "error", err)
			return
		}
		slog.Debug("Расшифровка сохранена", "id", entry.ID)
	default:
		slog.Debug("Неизвестное сообщение клиента", "type", msg.Type)
	}
}

// Close освобождает ресурсы. Идемпотентен.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		slog.Info("Завершение работы")
		a.registrar.Unregister()
		if a.watcher != nil {
			a.watcher.Close()
		}
		// Если запись идёт, возвращаем звук до остановки очереди
		if a.machine.IsRecording() {
			a.coord.End(a.config.Snapshot(), "Выход")
		}
		a.coord.Close()
		a.bus.Close()
		if err := a.hub.Stop(); err != nil {
			slog.Debug("Остановка сервера событий", "error", err)
		}
		a.cancel()
		a.player.Close()
		if err := a.history.Close(); err != nil {
			slog.Warn("Закрытие истории", "error", err)
		}
	})
}
