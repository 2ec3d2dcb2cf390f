package di

import (
	"fmt"
	"time"

	"frame-interactor/internal/adapter/tool"
	"frame-interactor/internal/application/port/input"
	"frame-interactor/internal/application/port/output"
	"frame-interactor/internal/application/service"
	"frame-interactor/internal/infrastructure/browser/rod"
	"frame-interactor/internal/infrastructure/logger"
	"frame-interactor/internal/infrastructure/userinteraction"
	"frame-interactor/internal/usecase/frames"
	"frame-interactor/internal/usecase/interaction"
	"frame-interactor/internal/usecase/snapshot"
)

type Container struct {
	Browser    output.DocumentPort
	Logger     output.LoggerPort
	UI         output.UserInteractionPort
	Tools      output.ToolRegistry
	Interactor input.Interactor
	Inspector  input.FrameInspector
	Snapshot   input.SnapshotTaker
}

type Config struct {
	TaskName         string
	BrowserHeadless  bool
	SlowMotion       time.Duration
	MaxFrameDepth    int
	ConfirmSensitive bool
}

func NewContainer(cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(cfg.TaskName)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	browserCfg := rod.DefaultConfig()
	browserCfg.Headless = cfg.BrowserHeadless
	if cfg.SlowMotion > 0 {
		browserCfg.SlowMotion = cfg.SlowMotion
	}
	if cfg.MaxFrameDepth > 0 {
		browserCfg.MaxFrameDepth = cfg.MaxFrameDepth
	}
	browser, err := rod.NewBrowserAdapter(browserCfg, log)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}

	ui := userinteraction.NewConsoleUserInteraction()
	discovery := frames.NewDiscovery(browser, log)

	engine := interaction.NewEngine(browser, discovery, ui, log, interaction.Config{
		ConfirmSensitive: cfg.ConfirmSensitive,
	})
	inspector := frames.NewInspector(discovery, log)
	outliner := snapshot.NewOutliner(discovery, log)

	tools := service.NewToolRegistry()
	registerTools(tools, engine, inspector, outliner, browser, log)

	return &Container{
		Browser:    browser,
		Logger:     log,
		UI:         ui,
		Tools:      tools,
		Interactor: engine,
		Inspector:  inspector,
		Snapshot:   outliner,
	}, nil
}

func (c *Container) Close() {
	if c.Browser != nil {
		c.Browser.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}

func registerTools(
	registry *service.ToolRegistryImpl,
	interactor input.Interactor,
	inspector input.FrameInspector,
	outliner input.SnapshotTaker,
	browser output.DocumentPort,
	log output.LoggerPort,
) {
	registry.Register(tool.NewClickTool(interactor, log))
	registry.Register(tool.NewTypeTextTool(interactor, log))
	registry.Register(tool.NewHoverTool(interactor, log))
	registry.Register(tool.NewSelectOptionTool(interactor, log))

	registry.Register(tool.NewListFramesTool(inspector, log))
	registry.Register(tool.NewFrameContentTool(inspector, log))
	registry.Register(tool.NewSwitchFrameTool(inspector, log))
	registry.Register(tool.NewWaitFramesTool(inspector, log))
	registry.Register(tool.NewAccessibilityTreeTool(outliner, log))

	registry.Register(tool.NewNavigateTool(browser, log))
	registry.Register(tool.NewScreenshotTool(browser, log))
	registry.Register(tool.NewScrollTool(browser, log))
}
