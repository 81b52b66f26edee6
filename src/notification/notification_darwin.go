//go:build darwin

package notification

import (
	"fmt"
	"log"
	"os/exec"
	"strings"
)

// show displays a macOS notification via osascript.
func show(title, message, subtitle string) {
	script := fmt.Sprintf("display notification %q with title %q", escape(message), escape(title))
	if subtitle != "" {
		script += fmt.Sprintf(" subtitle %q", escape(subtitle))
	}
	if err := exec.Command("osascript", "-e", script).Run(); err != nil {
		log.Printf("notification: osascript failed: %v", err)
		return
	}
	log.Printf("notification: sent %q - %q", title, message)
}

func escape(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
