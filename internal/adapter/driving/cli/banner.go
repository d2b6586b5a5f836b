package cli

import (
	"fmt"

	"github.com/diillson/aws-org-monitor-go/pkg/version"
	"github.com/fatih/color"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(versionStr string) {
	banner := `
            ___ _       _______    ____                __  ___            _ __
           /   | |     / / ___/   / __ \_________ _   /  |/  /___  ____  (_) /_____  _____
          / /| | | /| / /\__ \   / / / / ___/ __ '/  / /|_/ / __ \/ __ \/ / __/ __ \/ ___/
         / ___ | |/ |/ /___/ /  / /_/ / /  / /_/ /  / /  / / /_/ / / / / / /_/ /_/ / /
        /_/  |_|__/|__//____/   \____/_/   \__, /  /_/  /_/\____/_/ /_/_/\__/\____/_/
                                          /____/
        `
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(red(banner))

	// Obtem a string formatada da versão através do pacote version
	formattedVersion := version.FormatVersion()
	fmt.Println(blue(fmt.Sprintf("AWS Org Monitor CLI (v%s)", formattedVersion)))
}
