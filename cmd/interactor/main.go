package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"frame-interactor/internal/adapter/tool"
	"frame-interactor/internal/application/port/output"
	"frame-interactor/internal/di"
	"frame-interactor/internal/domain/entity"
	"frame-interactor/internal/infrastructure/env"
)

func main() {
	envService := env.NewEnvService()

	container, err := di.NewContainer(di.Config{
		TaskName:         "interactive",
		BrowserHeadless:  envService.GetBool("BROWSER_HEADLESS", false),
		SlowMotion:       envService.GetDuration("BROWSER_SLOW_MOTION", 0),
		MaxFrameDepth:    envService.GetInt("MAX_FRAME_DEPTH", 0),
		ConfirmSensitive: envService.GetBool("CONFIRM_SENSITIVE", true),
	})
	if err != nil {
		log.Fatalf("Ошибка инициализации: %v", err)
	}
	defer container.Close()

	if startURL := envService.Get("START_URL"); startURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if err := container.Browser.Navigate(ctx, startURL); err != nil {
			container.Logger.Error("start navigation failed", "url", startURL, "error", err)
			fmt.Printf("Не удалось открыть %s: %v\n", startURL, err)
		}
		cancel()
	}

	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Println("\nИнтерактивный поиск элементов по фреймам")
	fmt.Println(`Команда: <инструмент> <json-аргументы>`)
	fmt.Println(`Например: click {"description":"add to cart button"}`)
	fmt.Println(`"tools" — список инструментов, "exit" — выход`)

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("\n> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch line {
		case "exit", "quit":
			return
		case "tools":
			printTools(container.Tools)
			continue
		}

		name, args, _ := strings.Cut(line, " ")
		args = strings.TrimSpace(args)
		if args == "" {
			args = "{}"
		}

		tl, ok := container.Tools.Get(entity.ToolName(name))
		if !ok {
			fmt.Printf("Неизвестный инструмент: %q (наберите \"tools\")\n", name)
			continue
		}

		runTool(container, tl, args)
	}
}

func runTool(container *di.Container, tl output.ToolPort, args string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	name := tl.Name().String()
	container.UI.ShowToolStart(ctx, name, args)

	result, err := tl.Execute(ctx, args)
	if err != nil {
		container.UI.ShowToolResult(ctx, name, err.Error(), true)

		var exhausted *tool.ExhaustedError
		if errors.As(err, &exhausted) {
			container.UI.ShowAttempts(ctx, exhausted.Report)
		}
		return
	}
	container.UI.ShowToolResult(ctx, name, result, false)
}

func printTools(registry output.ToolRegistry) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Println("\nДоступные инструменты:")

	dim := color.New(color.Faint)
	for _, def := range registry.Definitions() {
		fmt.Printf("  %-20s", def.Name)
		dim.Println(firstSentence(def.Description))
	}
}

func firstSentence(s string) string {
	if i := strings.Index(s, ". "); i > 0 {
		return s[:i+1]
	}
	return s
}
