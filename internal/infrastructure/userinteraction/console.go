package userinteraction

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"frame-interactor/internal/application/port/output"
	"frame-interactor/internal/domain/entity"
)

var _ output.UserInteractionPort = (*ConsoleUserInteraction)(nil)

type ConsoleUserInteraction struct {
	reader *bufio.Reader
}

func NewConsoleUserInteraction() *ConsoleUserInteraction {
	return &ConsoleUserInteraction{
		reader: bufio.NewReader(os.Stdin),
	}
}

// Confirm спрашивает разрешение перед чувствительным действием.
// Всё, кроме явного "да", считается отказом.
func (u *ConsoleUserInteraction) Confirm(ctx context.Context, action, reason string) (bool, error) {
	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Printf("\n⚠️  Требуется подтверждение: %s\n", action)

	if reason != "" {
		dim := color.New(color.Faint)
		dim.Printf("   %s\n", reason)
	}

	fmt.Print("   Продолжить? [y/N] > ")

	answer, err := u.reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("failed to read user input: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "д", "да":
		return true, nil
	}
	return false, nil
}

func (u *ConsoleUserInteraction) ShowToolStart(ctx context.Context, toolName, arguments string) {
	icon, name := getToolDisplay(toolName)

	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Printf("\n%s %s\n", icon, name)

	summary := formatToolArguments(toolName, arguments)
	if summary != "" {
		dim := color.New(color.Faint)
		dim.Printf("   %s\n", summary)
	}
}

func (u *ConsoleUserInteraction) ShowToolResult(ctx context.Context, toolName, result string, isError bool) {
	if isError {
		red := color.New(color.FgRed)
		red.Print("❌ Ошибка: ")

		dim := color.New(color.Faint)
		dim.Println(truncate(result, 300))
		return
	}

	summary := formatToolResult(toolName, result)
	green := color.New(color.FgGreen)
	green.Printf("✓ %s\n", summary)
}

// ShowAttempts печатает журнал попыток неудавшегося взаимодействия.
func (u *ConsoleUserInteraction) ShowAttempts(ctx context.Context, report *entity.RetryReport) {
	if report == nil || len(report.Attempts) == 0 {
		return
	}

	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Printf("\n⛓  Попытки (%d):\n", report.AttemptCount)

	dim := color.New(color.Faint)
	for i, a := range report.Attempts {
		mark := "✗"
		if a.Succeeded {
			mark = "✓"
		}
		line := fmt.Sprintf("   %d. %s %-24s %5dms", i+1, mark, a.StrategyName, a.DurationMS)
		if a.Error != "" {
			line += "  " + truncate(a.Error, 120)
		}
		dim.Println(line)
	}
	dim.Printf("   ID: %s\n", report.InteractionID)
}

func getToolDisplay(toolName string) (string, string) {
	displays := map[string][2]string{
		entity.ToolClick.String():         {"🖱️", "Клик"},
		entity.ToolTypeText.String():      {"✏️", "Ввод текста"},
		entity.ToolHover.String():         {"👆", "Наведение"},
		entity.ToolSelectOption.String():  {"📋", "Выбор опции"},
		entity.ToolNavigate.String():      {"🌐", "Навигация"},
		entity.ToolScreenshot.String():    {"📸", "Скриншот"},
		entity.ToolScroll.String():        {"📜", "Прокрутка"},
		entity.ToolListFrames.String():    {"🧭", "Список фреймов"},
		entity.ToolFrameContent.String():  {"📄", "Содержимое фрейма"},
		entity.ToolSwitchFrame.String():   {"🔀", "Переключение фрейма"},
		entity.ToolWaitFrames.String():    {"⏳", "Ожидание фреймов"},
		entity.ToolAccessibility.String(): {"🌳", "Дерево доступности"},
	}

	if display, ok := displays[toolName]; ok {
		return display[0], display[1]
	}
	return "🔧", toolName
}

func formatToolArguments(toolName, arguments string) string {
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return ""
	}

	switch entity.ToolName(toolName) {
	case entity.ToolClick, entity.ToolHover:
		if desc, ok := args["description"].(string); ok {
			if frame, ok := args["frame"].(string); ok && frame != "" {
				return fmt.Sprintf("Элемент: %s | Фрейм: %s", truncate(desc, 60), frame)
			}
			return fmt.Sprintf("Элемент: %s", truncate(desc, 60))
		}

	case entity.ToolTypeText:
		if desc, ok := args["description"].(string); ok {
			if text, ok := args["text"].(string); ok {
				return fmt.Sprintf("Поле: %s → %s", truncate(desc, 40), truncate(text, 30))
			}
		}

	case entity.ToolSelectOption:
		if desc, ok := args["description"].(string); ok {
			if value, ok := args["value"].(string); ok {
				return fmt.Sprintf("Список: %s → %s", truncate(desc, 40), truncate(value, 30))
			}
		}

	case entity.ToolNavigate:
		if url, ok := args["url"].(string); ok {
			return fmt.Sprintf("URL: %s", url)
		}

	case entity.ToolScroll:
		if direction, ok := args["direction"].(string); ok {
			directions := map[string]string{
				"up":     "⬆️ Вверх",
				"down":   "⬇️ Вниз",
				"top":    "⬆️ В начало",
				"bottom": "⬇️ В конец",
			}
			if display, ok := directions[direction]; ok {
				return display
			}
			return direction
		}

	case entity.ToolFrameContent:
		if frame, ok := args["frame"].(string); ok {
			mode, _ := args["mode"].(string)
			if mode == "" {
				mode = "text"
			}
			return fmt.Sprintf("Фрейм: %s (режим: %s)", frame, mode)
		}

	case entity.ToolSwitchFrame:
		if frame, ok := args["frame"].(string); ok {
			return fmt.Sprintf("Фрейм: %s", frame)
		}

	case entity.ToolWaitFrames:
		if min, ok := args["min_count"].(float64); ok {
			return fmt.Sprintf("Минимум фреймов: %d", int(min))
		}

	case entity.ToolAccessibility:
		if depth, ok := args["max_depth"].(float64); ok {
			return fmt.Sprintf("Глубина: %d", int(depth))
		}
	}

	return ""
}

func formatToolResult(toolName, result string) string {
	switch entity.ToolName(toolName) {
	case entity.ToolScreenshot:
		return "Скриншот сделан"

	case entity.ToolNavigate, entity.ToolScroll, entity.ToolWaitFrames, entity.ToolSwitchFrame:
		return truncate(result, 120)

	case entity.ToolListFrames:
		if line, _, found := strings.Cut(result, "\n"); found {
			return line
		}
		return truncate(result, 120)

	case entity.ToolFrameContent:
		return fmt.Sprintf("Получено %d символов", len(result))

	case entity.ToolAccessibility:
		lines := strings.Count(result, "\n") + 1
		return fmt.Sprintf("Дерево получено (%d строк)", lines)
	}

	return truncate(result, 120)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
