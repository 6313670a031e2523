package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var providerCmd = &cobra.Command{
	Use:   "provider",
	Short: "Manage provider profiles",
	Long:  `List, inspect and delete LLM provider profiles. Use interactive mode to add or edit profiles.`,
}

var providerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configured providers",
	RunE: func(_ *cobra.Command, _ []string) error {
		_, registry, _, err := loadApp()
		if err != nil {
			return err
		}

		profiles := registry.List()
		if len(profiles) == 0 {
			fmt.Println("No providers configured.")
			return nil
		}

		for _, p := range profiles {
			fmt.Printf("%s (%s) - %d models, %d mappings\n",
				p.Name, p.APIType, len(p.Models), len(p.ModelMappings))
		}

		return nil
	},
}

var providerShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a provider's profile with keys masked",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		_, registry, _, err := loadApp()
		if err != nil {
			return err
		}

		p, err := registry.Get(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Name:      %s\n", p.Name)
		fmt.Printf("API type:  %s\n", p.APIType)
		fmt.Printf("Base URL:  %s\n", p.Endpoint())
		fmt.Printf("API keys:  %s\n", strings.Join(p.MaskedKeys(), ", "))

		if len(p.Models) > 0 {
			fmt.Printf("Models (%d):\n", len(p.Models))
			for _, m := range p.Models {
				fmt.Printf("  %s\n", m)
			}
		}

		if len(p.ModelMappings) > 0 {
			fmt.Printf("Mappings (%d):\n", len(p.ModelMappings))
			for name, actual := range p.ModelMappings {
				fmt.Printf("  %s -> %s\n", name, actual)
			}
		}

		if len(p.Headers) > 0 {
			fmt.Printf("Headers (%d):\n", len(p.Headers))
			for name, value := range p.Headers {
				fmt.Printf("  %s: %s\n", name, value)
			}
		}

		return nil
	},
}

var providerDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a provider profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		_, registry, _, err := loadApp()
		if err != nil {
			return err
		}

		if err := registry.Delete(args[0]); err != nil {
			return err
		}

		fmt.Printf("Deleted provider %q\n", args[0])
		return nil
	},
}

func init() {
	providerCmd.AddCommand(providerListCmd)
	providerCmd.AddCommand(providerShowCmd)
	providerCmd.AddCommand(providerDeleteCmd)
	rootCmd.AddCommand(providerCmd)
}
