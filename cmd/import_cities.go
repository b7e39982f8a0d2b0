package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Prinsessen/KML-City-Extractor/internal/store"
)

var importCitiesCmd = &cobra.Command{
	Use:   "import-cities CSV_PATH",
	Short: "Load the offline city reference dataset (lat,lon,name,admin1,admin2,cc CSV)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.New(dataDir)
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.ImportCities(args[0])
		if err != nil {
			return fmt.Errorf("importing cities: %w", err)
		}

		fmt.Printf("Imported %d cities from %s\n", n, args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCitiesCmd)
}
