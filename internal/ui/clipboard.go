package ui

import (
	"log"
	"sync"

	"golang.design/x/clipboard"
)

var (
	clipboardOnce sync.Once
	clipboardOK   bool
)

func initClipboard() bool {
	clipboardOnce.Do(func() {
		if err := clipboard.Init(); err != nil {
			log.Printf("Clipboard unavailable: %v", err)
			return
		}
		clipboardOK = true
	})
	return clipboardOK
}

// readClipboard returns the clipboard text, or "" when unavailable.
func readClipboard() string {
	if !initClipboard() {
		return ""
	}
	return string(clipboard.Read(clipboard.FmtText))
}

func writeClipboard(s string) {
	if !initClipboard() {
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(s))
}

// readClipboardImage returns PNG bytes from the clipboard, or nil.
func readClipboardImage() []byte {
	if !initClipboard() {
		return nil
	}
	return clipboard.Read(clipboard.FmtImage)
}
