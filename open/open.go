// Package open hands share links to the user's browser.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/shortdrama-cli/shortdrama/constant"
)

// Start launches the browser for address without waiting for it to exit.
// $BROWSER takes precedence over the platform handler.
func Start(address string) error {
	name, args, err := command(runtime.GOOS, os.Getenv("BROWSER"), address)
	if err != nil {
		return err
	}
	return exec.Command(name, args...).Start()
}

func command(goos, browser, address string) (string, []string, error) {
	if browser = strings.TrimSpace(browser); browser != "" {
		return browser, []string{address}, nil
	}

	switch goos {
	case constant.Windows:
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return rundll, []string{"url.dll,FileProtocolHandler", address}, nil
	case constant.Darwin:
		return "open", []string{address}, nil
	case constant.Linux:
		return "xdg-open", []string{address}, nil
	case constant.Android:
		return "termux-open-url", []string{address}, nil
	default:
		return "", nil, fmt.Errorf("opening links is not supported on %s", goos)
	}
}
