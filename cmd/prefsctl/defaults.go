package main

import (
	"github.com/CreativeUnicorns/prefseditor"
)

// registerDefaults defines the analyzer's preference modules.
func registerDefaults(reg *prefseditor.Registry) error {
	type module struct {
		parent string
		name   string
		title  string
		desc   string
		defs   []prefseditor.Definition
	}

	white := prefseditor.ColorFromRGB8(prefseditor.RGB8{R: 0xff, G: 0xff, B: 0xff})
	black := prefseditor.ColorFromRGB8(prefseditor.RGB8{})

	modules := []module{
		{
			name:  "gui",
			title: "User Interface",
			desc:  "Layout and appearance",
			defs: []prefseditor.Definition{
				{Name: "auto_scroll_on_expand", Type: prefseditor.TypeBool, Default: prefseditor.BoolValue(false),
					Description: "Scroll the packet details when a subtree is expanded"},
				{Name: "recent_files_count.max", Type: prefseditor.TypeUint, Default: prefseditor.UintValue(10),
					Description: "Maximum number of entries in the recent files list"},
				{Name: "window_title", Type: prefseditor.TypeString,
					Description: "Custom window title appended to the capture file name"},
				{Name: "packet_list_layout", Type: prefseditor.TypeEnum, Default: prefseditor.EnumValue(1),
					Description: "Arrangement of the packet list, details and bytes panes",
					Choices: []prefseditor.Choice{
						{Name: "stacked", Description: "Stacked panes", Value: 1},
						{Name: "side_by_side", Description: "Side by side", Value: 2},
						{Name: "single", Description: "Single pane", Value: 3},
					}},
				{Name: "fileopen.dir", Type: prefseditor.TypeFilename,
					Description: "Directory the open dialog starts in"},
				{Name: "marked_frame.fg", Type: prefseditor.TypeColor, Default: prefseditor.ColorValue(white),
					Description: "Foreground color of marked packets"},
				{Name: "marked_frame.bg", Type: prefseditor.TypeColor, Default: prefseditor.ColorValue(black),
					Description: "Background color of marked packets"},
				{Name: "console_open", Type: prefseditor.TypeObsolete},
			},
		},
		{
			name:  "capture",
			title: "Capture",
			desc:  "Live capture options",
			defs: []prefseditor.Definition{
				{Name: "prom_mode", Type: prefseditor.TypeBool, Default: prefseditor.BoolValue(true),
					Description: "Capture packets in promiscuous mode"},
				{Name: "snaplen", Type: prefseditor.TypeUint, Default: prefseditor.UintValue(262144),
					Description: "Default snapshot length in bytes"},
				{Name: "file_mode", Type: prefseditor.TypeUint, Base: 8, Default: prefseditor.UintValue(0o600),
					Description: "Permissions of capture files"},
				{Name: "note", Type: prefseditor.TypeStaticText,
					Description: "Interface specific options are set per interface"},
			},
		},
		{
			title: "Protocols",
			desc:  "Protocol dissector settings",
		},
		{
			parent: "Protocols",
			name:   "tcp",
			title:  "TCP",
			desc:   "Transmission Control Protocol",
			defs: []prefseditor.Definition{
				{Name: "check_checksum", Type: prefseditor.TypeBool,
					Description: "Validate the TCP checksum if possible"},
				{Name: "ports", Type: prefseditor.TypeRange, MaxValue: 65535,
					Default:     prefseditor.RangeValue(prefseditor.Range{{Low: 80, High: 80}, {Low: 8080, High: 8080}}),
					Description: "Ports decoded as HTTP over TCP"},
				{Name: "window_scaling", Type: prefseditor.TypeUint, Base: 16, Default: prefseditor.UintValue(0xe),
					Description: "Window scaling factor used when the handshake was not seen"},
				{Name: "summary_in_tree", Type: prefseditor.TypeObsolete},
			},
		},
		{
			parent: "Protocols",
			name:   "tls",
			title:  "TLS",
			desc:   "Transport Layer Security",
			defs: []prefseditor.Definition{
				{Name: "psk", Type: prefseditor.TypeString, Sensitive: true,
					Description: "Pre-shared key as a hexadecimal string"},
				{Name: "keylog_file", Type: prefseditor.TypeFilename,
					Description: "Key log file written by the client"},
				{Name: "keys_list", Type: prefseditor.TypeUAT,
					Description: "RSA keys used for decryption"},
			},
		},
		{
			name:  "statistics",
			title: "Statistics",
			desc:  "Statistics window options",
			defs: []prefseditor.Definition{
				{Name: "info", Type: prefseditor.TypeStaticText, Description: "No options yet"},
			},
		},
	}

	byTitle := make(map[string]*prefseditor.Module)
	for _, m := range modules {
		parent := byTitle[m.parent]
		mod, err := reg.RegisterModule(parent, m.name, m.title, m.desc)
		if err != nil {
			return err
		}
		byTitle[m.title] = mod
		for _, def := range m.defs {
			if _, err := reg.Define(mod, def); err != nil {
				return err
			}
		}
	}
	return nil
}
