package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Prinsessen/KML-City-Extractor/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show offline dataset status",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.New(dataDir)
		if err != nil {
			return err
		}
		defer s.Close()

		count := s.CityCount()

		fmt.Printf("Offline Dataset\n")
		fmt.Printf("===============\n")
		fmt.Printf("Reference cities: %d\n", count)
		if at := s.ImportedAt(); at != "" {
			fmt.Printf("Imported at:      %s\n", at)
		} else {
			fmt.Printf("Imported at:      never (run import-cities)\n")
		}

		byCountry := s.CityCountByCountry()
		if verbose && len(byCountry) > 0 {
			fmt.Printf("\nPer-Country Breakdown\n")
			fmt.Printf("---------------------\n")

			var countries []string
			for c := range byCountry {
				countries = append(countries, c)
			}
			sort.Strings(countries)

			for _, c := range countries {
				fmt.Printf("  %-4s %6d\n", c, byCountry[c])
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
