package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Prinsessen/KML-City-Extractor/internal/geocode"
	"github.com/Prinsessen/KML-City-Extractor/internal/itinerary"
	"github.com/Prinsessen/KML-City-Extractor/internal/kml"
	"github.com/Prinsessen/KML-City-Extractor/internal/output"
	"github.com/Prinsessen/KML-City-Extractor/internal/store"
)

var (
	extractInputKML  string
	extractOutput    string
	extractMode      string
	extractProvider  string
	extractRate      float64
	extractUserAgent string
	extractLanguage  string

	extractSampleEvery     int
	extractUniqueOnly      bool
	extractUniqueOn        string
	extractGlobalUnique    bool
	extractMaxPerPlacemark int

	extractCitiesOnly string
	extractGroupBy    string
	extractGroupStats bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Geocode a KML track and write the itinerary CSV(s)",
	RunE: func(cmd *cobra.Command, args []string) error {
		waypoints, err := kml.ParseFile(extractInputKML)
		if err != nil {
			return err
		}
		if len(waypoints) == 0 {
			return fmt.Errorf("no coordinates found in %s", extractInputKML)
		}

		keyMode := itinerary.KeyMode(extractUniqueOn)
		if !keyMode.Valid() {
			return fmt.Errorf("invalid --unique-on value %q", extractUniqueOn)
		}

		// flags override config only when explicitly set
		if !cmd.Flags().Changed("mode") {
			extractMode = cfg.Geocode.Mode
		}
		if !cmd.Flags().Changed("provider") {
			extractProvider = cfg.Geocode.Provider
		}
		if !cmd.Flags().Changed("rate") {
			extractRate = cfg.Geocode.Rate
		}
		if !cmd.Flags().Changed("user-agent") {
			extractUserAgent = cfg.Geocode.UserAgent
		}
		if !cmd.Flags().Changed("city-language") {
			extractLanguage = cfg.Geocode.Language
		}
		if extractMode != geocode.ModeOffline && extractMode != geocode.ModeOnline {
			return fmt.Errorf("invalid --mode value %q", extractMode)
		}
		if !geocode.ValidProvider(extractProvider) {
			return fmt.Errorf("invalid --provider value %q", extractProvider)
		}

		backend, err := selectBackend()
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		fmt.Printf("Geocoding %d waypoints (%s)...\n", len(waypoints), backend.Source())

		builder := &itinerary.Builder{
			Backend:         backend,
			SampleEvery:     extractSampleEvery,
			MaxPerPlacemark: extractMaxPerPlacemark,
			UniqueOnly:      extractUniqueOnly,
			UniqueOn:        keyMode,
			GlobalUnique:    extractGlobalUnique,
			Progress: func(done, total int) {
				logVerbose("  [%d/%d]", done, total)
			},
		}

		rows, err := builder.Build(ctx, waypoints)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				return err
			}
			fmt.Printf("\nInterrupted; writing %d rows collected so far\n", len(rows))
		}

		// OutputError on one sink doesn't stop the others.
		var outErrs []error
		writeOut := func(path string, write func(string) error) {
			if path == "" {
				return
			}
			if err := write(path); err != nil {
				fmt.Fprintf(os.Stderr, "  WARNING: %v\n", err)
				outErrs = append(outErrs, err)
			}
		}

		writeOut(extractOutput, func(path string) error {
			if err := output.WriteItinerary(path, rows); err != nil {
				return err
			}
			fmt.Printf("Wrote %d rows to %s\n", len(rows), path)
			return nil
		})
		writeOut(extractCitiesOnly, func(path string) error {
			if err := output.WriteCities(path, rows); err != nil {
				return err
			}
			fmt.Printf("Wrote cities-only list to %s\n", path)
			return nil
		})
		writeOut(extractGroupBy, func(path string) error {
			groups := itinerary.GroupByPlacemark(rows)
			if err := output.WriteGroups(path, groups, extractGroupStats); err != nil {
				return err
			}
			fmt.Printf("Wrote %d placemark groups to %s\n", len(groups), path)
			return nil
		})

		return errors.Join(outErrs...)
	},
}

// selectBackend builds the geocoding backend, loading the offline
// dataset when the mode (or the online fallback) needs it.
func selectBackend() (geocode.Backend, error) {
	s, err := store.New(dataDir)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	cities, err := s.AllCities()
	if err != nil {
		logVerbose("reading offline cities: %v", err)
	}

	gcfg := geocode.Config{
		Mode:      extractMode,
		Provider:  extractProvider,
		Rate:      extractRate,
		UserAgent: extractUserAgent,
		Language:  extractLanguage,
		APIKey:    os.Getenv("GOOGLE_MAPS_API_KEY"),
	}

	backend, warning, err := geocode.Select(gcfg, cities)
	if err != nil {
		return nil, err
	}
	if warning != "" {
		fmt.Fprintf(os.Stderr, "WARNING: %s\n", warning)
	}
	return backend, nil
}

func init() {
	extractCmd.Flags().StringVar(&extractInputKML, "input-kml", "", "Path to KML file (required)")
	extractCmd.MarkFlagRequired("input-kml")
	extractCmd.Flags().StringVar(&extractOutput, "output", "cities_in_order.csv", "Main output CSV path")
	extractCmd.Flags().StringVar(&extractMode, "mode", "offline", "Geocoding mode: offline or online")
	extractCmd.Flags().StringVar(&extractProvider, "provider", "nominatim", "Online provider: nominatim or google")
	extractCmd.Flags().Float64Var(&extractRate, "rate", 1.0, "Minimum seconds between online geocoding calls")
	extractCmd.Flags().StringVar(&extractUserAgent, "user-agent", "kml-city-extractor", "User-Agent sent with online requests")
	extractCmd.Flags().StringVar(&extractLanguage, "city-language", "en", "Preferred language for online results")
	extractCmd.Flags().IntVar(&extractSampleEvery, "sample-every", 1, "Keep only every Nth waypoint per placemark")
	extractCmd.Flags().BoolVar(&extractUniqueOnly, "unique-only", false, "Skip consecutive duplicate cities")
	extractCmd.Flags().StringVar(&extractUniqueOn, "unique-on", "city", "Dedup key: city or city_admin_country")
	extractCmd.Flags().BoolVar(&extractGlobalUnique, "global-unique", false, "Additionally skip any previously emitted key, run-wide")
	extractCmd.Flags().IntVar(&extractMaxPerPlacemark, "max-per-placemark", 0, "Hard cap on waypoints considered per placemark (0 = unlimited)")
	extractCmd.Flags().StringVar(&extractCitiesOnly, "cities-only", "", "Secondary output: labels only, no coordinates")
	extractCmd.Flags().StringVar(&extractGroupBy, "group-by-placemark", "", "Secondary output: per-placemark grouped cities")
	extractCmd.Flags().BoolVar(&extractGroupStats, "group-stats", false, "Include aggregate statistics in the grouped output")
	rootCmd.AddCommand(extractCmd)
}
