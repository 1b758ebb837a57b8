package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"fileshred_enterprise/internal/config"
	"fileshred_enterprise/internal/logging"
	"fileshred_enterprise/internal/reporting"
	"fileshred_enterprise/internal/shred"
)

const (
	Version = "1.0.2"
	AppName = "FileShred Enterprise"

	// Exit codes
	EXIT_SUCCESS = 0
	EXIT_ERROR   = 1
	EXIT_WARNING = 2
)

var (
	cfg        *config.Config
	logger     *logging.Logger
	verbose    bool
	configPath string
	profile    string
	keepFiles  bool
	force      bool
)

// CLI команды
var rootCmd = &cobra.Command{
	Use:     "fileshred",
	Short:   "FileShred Enterprise - безвозвратное уничтожение файлов",
	Long:    "Утилита безвозвратного уничтожения файлов: 35-проходная перезапись содержимого, обфускация имени и временных меток",
	Version: Version,
}

var fileCmd = &cobra.Command{
	Use:   "file <путь>",
	Short: "Уничтожить один файл",
	Args:  cobra.ExactArgs(1),
	RunE:  runFile,
}

var dirCmd = &cobra.Command{
	Use:   "dir <путь>",
	Short: "Уничтожить все файлы директории",
	Args:  cobra.ExactArgs(1),
	RunE:  runDir,
}

var validateCmd = &cobra.Command{
	Use:   "validate <путь>",
	Short: "Проверить путь без разрушающих действий",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "Показать доступные методы уничтожения",
	RunE:  runMethods,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Подробный вывод")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Путь к конфигурации")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "Профиль производительности (careful/standard/fast)")

	fileCmd.Flags().BoolVarP(&keepFiles, "keep", "k", false, "Сохранить файл под обфусцированным именем (без удаления)")
	fileCmd.Flags().BoolVarP(&force, "force", "f", false, "Пропустить подтверждение")
	dirCmd.Flags().BoolVarP(&keepFiles, "keep", "k", false, "Сохранить файлы под обфусцированными именами (без удаления)")
	dirCmd.Flags().BoolVarP(&force, "force", "f", false, "Пропустить подтверждение")

	rootCmd.AddCommand(fileCmd, dirCmd, validateCmd, methodsCmd)
}

// setup загружает конфигурацию и создаёт логгер
func setup() error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	if profile != "" {
		if err := config.ApplyProfile(cfg, profile); err != nil {
			return fmt.Errorf("ошибка применения профиля %s: %w", profile, err)
		}
	}

	logger, err = logging.New(cfg, verbose)
	if err != nil {
		return fmt.Errorf("ошибка инициализации логгера: %w", err)
	}

	if profile != "" {
		logger.Log("INFO", "Применён профиль", "profile", profile)
	}

	return nil
}

// confirm спрашивает подтверждение перед разрушающей операцией
func confirm(target, mode string) bool {
	if force || !cfg.Security.RequireConfirmation {
		return true
	}

	fmt.Printf("ВНИМАНИЕ: %s: %s\n", mode, target)
	fmt.Printf("Содержимое будет безвозвратно перезаписано (%d проходов).\n", shred.TotalPasses)
	fmt.Print("Продолжить? (y/N): ")

	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	return strings.ToLower(strings.TrimSpace(response)) == "y"
}

// consoleProgress рендерит прогресс движка одной перерисовываемой строкой
func consoleProgress(current, total int, status string, bytes uint64) bool {
	fmt.Printf("\r[%d/%d] %-60s", current, total, status)
	return true
}

// runShred - общий сценарий разрушающих команд
func runShred(target string, isDir bool) error {
	startTime := time.Now()

	if err := setup(); err != nil {
		return err
	}
	defer logger.Close()

	keep := keepFiles || cfg.Shred.KeepFiles
	engine := shred.NewEngine(cfg, logger)

	// Предварительная проверка до подтверждения
	if ok, msg := engine.ValidatePath(target); !ok {
		return fmt.Errorf("проверка пути не пройдена: %s", msg)
	}

	mode := "УНИЧТОЖЕНИЕ"
	if keep {
		mode = "ЗАТИРАНИЕ С СОХРАНЕНИЕМ"
	}
	if isDir {
		mode += " ДИРЕКТОРИИ"
	}
	if !confirm(target, mode) {
		logger.Log("INFO", "Операция отменена пользователем до запуска")
		fmt.Println("Отменено.")
		return nil
	}

	// Сигналы переводятся в токен отмены; движок отреагирует в пределах
	// одной записи чанка
	token := shred.NewCancellationToken()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		sig, ok := <-sigChan
		if !ok {
			return
		}
		logger.Log("WARN", "Получен сигнал, запрашиваем отмену", "signal", sig.String())
		fmt.Printf("\n[INFO] Получен сигнал %s, отменяем операцию...\n", sig.String())
		token.Cancel()
	}()

	logger.Log("INFO", "Запуск", "app", AppName, "version", Version, "target", target, "keep", keep)

	var result shred.Result
	kind := "file"
	if isDir {
		kind = "directory"
		result = engine.ShredDirectory(target, keep, consoleProgress, token)
	} else {
		result = engine.ShredFile(target, keep, consoleProgress, token)
	}
	fmt.Println()

	exitCode := EXIT_SUCCESS
	switch {
	case result.Cancelled:
		exitCode = EXIT_WARNING
	case !result.Success:
		exitCode = EXIT_ERROR
	}

	saveReport(target, kind, keep, result, startTime, exitCode)

	if result.Cancelled {
		fmt.Printf("⚠ %s\n", result.Message)
		os.Exit(EXIT_WARNING)
	}
	if !result.Success {
		return fmt.Errorf("%s", result.Message)
	}

	fmt.Printf("✓ %s\n", result.Message)
	return nil
}

func saveReport(target, kind string, keep bool, result shred.Result, startTime time.Time, exitCode int) {
	if cfg == nil || !cfg.Reporting.Enabled {
		return
	}

	opReport := reporting.NewOperationReport(target, kind, keep, result)
	report := reporting.GenerateReport([]reporting.OperationReport{opReport}, Version, startTime, time.Now(), exitCode)

	path, err := reporting.SaveReport(report, cfg)
	if err != nil {
		logger.Log("WARN", "Ошибка сохранения отчёта", "error", err.Error())
		return
	}
	logger.Log("INFO", "Отчёт сохранён", "run_id", report.RunID, "file", path)
}

func runFile(cmd *cobra.Command, args []string) error {
	return runShred(args[0], false)
}

func runDir(cmd *cobra.Command, args []string) error {
	return runShred(args[0], true)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if err := setup(); err != nil {
		return err
	}
	defer logger.Close()

	engine := shred.NewEngine(cfg, logger)
	ok, msg := engine.ValidatePath(args[0])

	if ok {
		fmt.Printf("✓ %s\n", msg)
		return nil
	}

	fmt.Printf("✗ %s\n", msg)
	os.Exit(EXIT_ERROR)
	return nil
}

func runMethods(cmd *cobra.Command, args []string) error {
	fmt.Println("Доступные методы уничтожения:")
	for id, info := range shred.AvailableMethods() {
		fmt.Printf("  %s: %s (проходов: %d, уровень: %s)\n", id, info.Name, info.Passes, info.Security)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(EXIT_ERROR)
	}
}
