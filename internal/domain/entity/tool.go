package entity

type ToolName string

const (
	ToolClick        ToolName = "click"
	ToolTypeText     ToolName = "type_text"
	ToolHover        ToolName = "hover"
	ToolSelectOption ToolName = "select_option"

	ToolListFrames    ToolName = "list_frames"
	ToolFrameContent  ToolName = "get_frame_content"
	ToolSwitchFrame   ToolName = "switch_to_frame"
	ToolWaitFrames    ToolName = "wait_for_frames"
	ToolAccessibility ToolName = "accessibility_tree"

	ToolNavigate   ToolName = "navigate"
	ToolScreenshot ToolName = "screenshot"
	ToolScroll     ToolName = "scroll"
)

func (t ToolName) String() string {
	return string(t)
}

type ToolDefinition struct {
	Name        ToolName
	Description string
	Parameters  map[string]interface{}
}
