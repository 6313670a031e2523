package interactive

import (
	"github.com/AlecAivazis/survey/v2"
)

// Input prompts for a single line of text. An empty answer is allowed unless
// required is set.
func Input(message string, required bool) (string, error) {
	var answer string
	prompt := &survey.Input{Message: message}

	opts := []survey.AskOpt{}
	if required {
		opts = append(opts, survey.WithValidator(survey.Required))
	}

	if err := survey.AskOne(prompt, &answer, opts...); err != nil {
		return "", err
	}

	return answer, nil
}

// InputWithDefault prompts for a single line of text pre-filled with def.
func InputWithDefault(message, def string) (string, error) {
	var answer string
	prompt := &survey.Input{Message: message, Default: def}

	if err := survey.AskOne(prompt, &answer); err != nil {
		return "", err
	}

	return answer, nil
}

// Password prompts for a secret without echoing it.
func Password(message string) (string, error) {
	var answer string
	prompt := &survey.Password{Message: message}

	if err := survey.AskOne(prompt, &answer, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}

	return answer, nil
}

// SelectString presents a list of choices and returns the one picked.
func SelectString(message string, choices []string) (string, error) {
	var selected string
	prompt := &survey.Select{
		Message: message,
		Options: choices,
	}

	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}

	return selected, nil
}

// MultiSelect presents a checkbox list and returns the picked subset in
// display order.
func MultiSelect(message string, choices []string) ([]string, error) {
	var selected []string
	prompt := &survey.MultiSelect{
		Message: message,
		Options: choices,
	}

	if err := survey.AskOne(prompt, &selected); err != nil {
		return nil, err
	}

	return selected, nil
}
