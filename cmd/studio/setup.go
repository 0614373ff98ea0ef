package studio

import (
	"fmt"
	"strconv"

	"github.com/acestep/studio/pkg/config"
	"github.com/acestep/studio/pkg/i18n"
	"github.com/charmbracelet/huh"
)

func handleSetupCommand() error {
	cfg, err := config.LoadAppConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return err
	}

	portStr := strconv.Itoa(cfg.Server.Port)
	retentionStr := strconv.Itoa(cfg.Paths.RetentionHours)

	languageOptions := make([]huh.Option[string], 0)
	for _, lang := range i18n.Languages() {
		languageOptions = append(languageOptions, huh.NewOption(lang, lang))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Server port").
				Value(&portStr).
				Validate(validatePort),
			huh.NewSelect[string]().
				Title("UI language").
				Options(languageOptions...).
				Value(&cfg.Server.Language),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Checkpoints directory").
				Value(&cfg.Paths.ModelsDir),
			huh.NewInput().
				Title("Outputs directory").
				Value(&cfg.Paths.OutputsDir),
			huh.NewInput().
				Title("Dataset index path").
				Value(&cfg.Paths.DatasetIndex),
			huh.NewInput().
				Title("Output retention (hours, 0 keeps forever)").
				Value(&retentionStr).
				Validate(validateHours),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Inference backend URL").
				Value(&cfg.Backend.URL),
			huh.NewInput().
				Title("Language model base URL").
				Value(&cfg.LM.BaseURL),
			huh.NewInput().
				Title("Language model API key (optional)").
				Value(&cfg.LM.APIKey),
			huh.NewInput().
				Title("Language model name").
				Value(&cfg.LM.Model),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Server.Port, _ = strconv.Atoi(portStr)
	cfg.Paths.RetentionHours, _ = strconv.Atoi(retentionStr)

	if err := config.SaveAppConfig(cfg); err != nil {
		fmt.Printf("Error saving config: %v\n", err)
		return err
	}

	fmt.Println("Configuration saved successfully!")
	return nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("enter a port between 1 and 65535")
	}
	return nil
}

func validateHours(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("enter a non-negative number of hours")
	}
	return nil
}
