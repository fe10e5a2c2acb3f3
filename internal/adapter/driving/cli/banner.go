package cli

import (
	"fmt"

	"github.com/diillson/bcra-dashboard-go/pkg/version"
	"github.com/fatih/color"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(versionStr string) {
	banner := `
         /$$$$$$$   /$$$$$$  /$$$$$$$   /$$$$$$        /$$$$$$$                      /$$       /$$                                           /$$
        | $$__  $$ /$$__  $$| $$__  $$ /$$__  $$      | $$__  $$                    | $$      | $$                                          | $$
        | $$  \ $$| $$  \__/| $$  \ $$| $$  \ $$      | $$  \ $$  /$$$$$$   /$$$$$$$| $$$$$$$ | $$$$$$$   /$$$$$$   /$$$$$$   /$$$$$$   /$$$$$$$
        | $$$$$$$ | $$      | $$$$$$$/| $$$$$$$$      | $$  | $$ |____  $$ /$$_____/| $$__  $$| $$__  $$ /$$__  $$ |____  $$ /$$__  $$ /$$__  $$
        | $$__  $$| $$      | $$__  $$| $$__  $$      | $$  | $$  /$$$$$$$|  $$$$$$ | $$  \ $$| $$  \ $$| $$  \ $$  /$$$$$$$| $$  \__/| $$  | $$
        | $$  \ $$| $$    $$| $$  \ $$| $$  | $$      | $$  | $$ /$$__  $$ \____  $$| $$  | $$| $$  | $$| $$  | $$ /$$__  $$| $$      | $$  | $$
        | $$$$$$$/|  $$$$$$/| $$  | $$| $$  | $$      | $$$$$$$/|  $$$$$$$ /$$$$$$$/| $$  | $$| $$$$$$$/|  $$$$$$/|  $$$$$$$| $$      |  $$$$$$$
        |_______/  \______/ |__/  |__/|__/  |__/      |_______/  \_______/|_______/ |__/  |__/|_______/  \______/  \_______/|__/       \_______/
        `
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(cyan(banner))

	// Obtem a string formatada da versão através do pacote version
	formattedVersion := version.FormatVersion()
	fmt.Println(blue(fmt.Sprintf("BCRA Dashboard CLI (v%s)", formattedVersion)))
}

// checkLatestVersion verifica se uma versão mais recente está disponível.
func checkLatestVersion(currentVersion string) {
	version.CheckLatestVersion(currentVersion)
}
