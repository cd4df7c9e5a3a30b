// Tambourine - голосовой ввод по глобальным горячим клавишам.
//
// Работает в системном трее. Toggle-клавиша включает и выключает запись,
// Hold-клавиша пишет, пока зажата, PasteLast вставляет последнюю расшифровку.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"tambourine/internal/app"
	"tambourine/internal/config"
	"tambourine/internal/dialog"
	"tambourine/internal/hotkey"
	"tambourine/internal/i18n"
	"tambourine/internal/singleinstance"
)

// Version устанавливается при сборке через -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "путь к settings.json (по умолчанию каталог настроек пользователя)")
	debug := flag.Bool("debug", false, "подробный лог")
	check := flag.Bool("check", false, "вывести разобранные горячие клавиши и выйти")
	version := flag.Bool("version", false, "вывести версию и выйти")
	flag.Parse()

	if *version {
		fmt.Println(Version)
		return
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	path := *configPath
	if path == "" {
		path = config.DefaultPath()
	}

	if *check {
		if err := writeReport(os.Stdout, path, hotkey.Compile); err != nil {
			slog.Error("Не удалось вывести отчёт", "error", err)
			os.Exit(1)
		}
		return
	}

	slog.Info("Tambourine запускается", "version", Version, "config", path)

	// Запускаем в главном потоке (требование для macOS и некоторых GUI)
	hotkey.RunOnMainThread(func() {
		os.Exit(run(path))
	})
}

func run(path string) int {
	lock, err := singleinstance.TryLock(singleinstance.DefaultName())
	if errors.Is(err, singleinstance.ErrAlreadyRunning) {
		slog.Error("Приложение уже запущено")
		dialog.ShowError(i18n.T("app_name"), i18n.T("error_already_running"))
		return 1
	}
	if err != nil {
		slog.Warn("Не удалось проверить второй экземпляр", "error", err)
	}
	defer lock.Release()

	application, err := app.New(app.Options{ConfigPath: path})
	if err != nil {
		slog.Error("Ошибка инициализации", "error", err)
		dialog.ShowError(i18n.T("error_startup"), err.Error())
		return 1
	}

	if err := application.Run(); err != nil {
		return 1
	}
	return 0
}
