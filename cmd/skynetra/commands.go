package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sharath2004-tech/climate-disaster-sub000/internal/api"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/session"
)

// --- ask ---

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Ask the safety assistant a question",
	Long: `Ask the safety assistant a question.

Examples:
  skynetra ask "is there flood risk in Mumbai this week" --location Mumbai --lat 19.07 --lon 72.87
  skynetra ask "चक्रवात से कैसे बचें" --language hi
  skynetra ask "what about tomorrow" --session 6e3f2c0a-8a41-4d2d-9d3e-1f6b2c9d4e5f`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		message := strings.Join(args, " ")
		location, _ := cmd.Flags().GetString("location")
		latStr, _ := cmd.Flags().GetString("lat")
		lonStr, _ := cmd.Flags().GetString("lon")
		language, _ := cmd.Flags().GetString("language")
		sessionID, _ := cmd.Flags().GetString("session")

		req := api.ChatRequest{
			Message:   message,
			SessionID: sessionID,
			Location:  location,
			Language:  language,
		}
		if latStr != "" {
			lat, err := strconv.ParseFloat(latStr, 64)
			if err != nil {
				return fmt.Errorf("parsing --lat: %w", err)
			}
			req.Lat = lat
		}
		if lonStr != "" {
			lon, err := strconv.ParseFloat(lonStr, 64)
			if err != nil {
				return fmt.Errorf("parsing --lon: %w", err)
			}
			req.Lon = lon
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/api/v1/chat", req)
		if err != nil {
			return err
		}

		var result api.ChatResponse
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		fmt.Println(result.Response)
		if !result.ForecastAvailable {
			printWarning("forecast was unavailable, answer has no live risk context")
		}
		printStatus("Session", "%s", result.SessionID)
		printStatus("Answered by", "%s", result.ProviderUsed)
		return nil
	},
}

func init() {
	askCmd.Flags().String("location", "", "location name, e.g. Mumbai")
	askCmd.Flags().String("lat", "", "latitude for forecast context")
	askCmd.Flags().String("lon", "", "longitude for forecast context")
	askCmd.Flags().String("language", "", "response language code (en, hi)")
	askCmd.Flags().String("session", "", "session ID to continue a conversation")
}

// --- risks ---

var risksCmd = &cobra.Command{
	Use:   "risks",
	Short: "Show current risk predictions for the watched cities",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/api/v1/risk-predictions")
		if err != nil {
			return err
		}

		var result struct {
			Locations []struct {
				Location struct {
					Name string `json:"name"`
				} `json:"location"`
				Prediction struct {
					Overall string `json:"overall_risk"`
					Summary string `json:"summary"`
				} `json:"prediction"`
			} `json:"locations"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if len(result.Locations) == 0 {
			printWarning("no predictions yet, the monitor may still be sweeping")
			return nil
		}
		for _, loc := range result.Locations {
			printStatus(loc.Location.Name, "%s", loc.Prediction.Overall)
		}
		return nil
	},
}

// --- alerts ---

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show active alerts across the watched cities",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/api/v1/alerts")
		if err != nil {
			return err
		}

		var result struct {
			Alerts []struct {
				Level    string `json:"level"`
				Headline string `json:"headline"`
			} `json:"alerts"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if len(result.Alerts) == 0 {
			printSuccess("No active alerts")
			return nil
		}
		for _, a := range result.Alerts {
			printAlert(a.Level, a.Headline)
		}
		return nil
	},
}

// --- session ---

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage conversation sessions",
}

var sessionExportCmd = &cobra.Command{
	Use:   "export <session-id>",
	Short: "Export a session transcript as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/api/v1/sessions/"+args[0]+"/export")
		if err != nil {
			return err
		}

		var export session.Export
		if err := decodeJSON(resp, &export); err != nil {
			return err
		}

		data, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding transcript: %w", err)
		}

		if output == "" {
			fmt.Println(string(data))
			return nil
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		printSuccess("Exported %d turns to %s", len(export.Turns), output)
		return nil
	},
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear <session-id>",
	Short: "Archive a session and start a fresh one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/api/v1/sessions/"+args[0]+"/clear", nil)
		if err != nil {
			return err
		}

		var result struct {
			SessionID string `json:"session_id"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Session archived, new session %s", result.SessionID)
		return nil
	},
}

func init() {
	sessionExportCmd.Flags().String("output", "", "output file path (default: stdout)")
	sessionCmd.AddCommand(sessionExportCmd)
	sessionCmd.AddCommand(sessionClearCmd)
}
