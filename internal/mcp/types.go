package mcp

// StartDragInput is the input for the start_drag tool.
type StartDragInput struct{}

// StartDragOutput is the output for the start_drag tool.
type StartDragOutput struct {
	Started bool `json:"started"`
}

// WindowStatusInput is the input for the window_status tool.
type WindowStatusInput struct{}

// WindowStatusOutput is the output for the window_status tool.
type WindowStatusOutput struct {
	Label         string   `json:"label"`
	WindowID      string   `json:"window_id"`
	Placement     string   `json:"placement" jsonschema:"Startup placement outcome: placed, skipped_no_monitor or move_failed"`
	X             int      `json:"x"`
	Y             int      `json:"y"`
	Width         int      `json:"width"`
	Height        int      `json:"height"`
	UsedFallback  bool     `json:"used_fallback"`
	Commands      []string `json:"commands"`
	UptimeSeconds int64    `json:"uptime_seconds"`
}

// OpenURLInput is the input for the open_url tool.
type OpenURLInput struct {
	URL string `json:"url" jsonschema:"Absolute http, https, mailto or file URL to open"`
}

// OpenURLOutput is the output for the open_url tool.
type OpenURLOutput struct {
	Opened string `json:"opened"`
}

// ClipboardReadInput is the input for the clipboard_read tool.
type ClipboardReadInput struct{}

// ClipboardWriteInput is the input for the clipboard_write tool.
type ClipboardWriteInput struct {
	Text string `json:"text" jsonschema:"Text to place on the clipboard"`
}

// ClipboardOutput is the output of the clipboard tools.
type ClipboardOutput struct {
	Text string `json:"text"`
}
