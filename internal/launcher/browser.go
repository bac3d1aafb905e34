// ABOUTME: Best-effort browser launch and the inline iframe snippet
// ABOUTME: Browser failures are logged by the caller and never fail a launch

package launcher

import (
	"fmt"
	"html"
	"os/exec"
	"runtime"
)

// InlineHTML is the snippet written for inline launches.
func InlineHTML(url string) string {
	return fmt.Sprintf(`<iframe src="%s" width="100%%" height="500" frameborder="0"></iframe>`, html.EscapeString(url))
}

// openBrowser opens url with the platform's default handler.
// Swapped in tests.
var openBrowser = func(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
